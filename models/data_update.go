package models

import (
	"time"

	"github.com/google/uuid"
)

type PeriodType string

const (
	PeriodDaily     PeriodType = "daily"
	PeriodWeekly    PeriodType = "weekly"
	PeriodMonthly   PeriodType = "monthly"
	PeriodQuarterly PeriodType = "quarterly"
	PeriodYearly    PeriodType = "yearly"
	// PeriodUpload is the fallback when the batch has no dated rows.
	PeriodUpload PeriodType = "upload"
)

// LevelRawTransactions names the raw-transaction store level in snapshots and
// change summaries, alongside the aggregation bucket types.
const LevelRawTransactions = "raw_transactions"

// ChangeStats are the row-count deltas for one persisted level.
//
// Invariant: RowsAfter - RowsBefore == NetChange == RowsAdded - RowsDeleted.
type ChangeStats struct {
	RowsBefore  int `json:"rows_before"`
	RowsAfter   int `json:"rows_after"`
	RowsUpdated int `json:"rows_updated"`
	RowsAdded   int `json:"rows_added"`
	RowsDeleted int `json:"rows_deleted"`
	NetChange   int `json:"net_change"`
}

// AffectedPeriods is the full enumerated span of periods between the batch's
// min and max transaction dates, per granularity. Every period in range is
// listed even when some had zero transactions: downstream recomputation
// needs the span, not the occupancy.
type AffectedPeriods struct {
	Daily     []string `json:"daily"`
	Weekly    []string `json:"weekly"`
	Monthly   []string `json:"monthly"`
	Quarterly []string `json:"quarterly"`
	Yearly    []string `json:"yearly"`
}

func (p AffectedPeriods) IsEmpty() bool {
	return len(p.Daily) == 0 && len(p.Weekly) == 0 && len(p.Monthly) == 0 &&
		len(p.Quarterly) == 0 && len(p.Yearly) == 0
}

// ChangesSummary is the structured audit detail attached to a DataUpdate:
// the per-level breakdown and the affected-period enumeration, retained even
// though only one (period, period_type) pair is promoted to top-level fields.
type ChangesSummary struct {
	ByLevel         map[string]ChangeStats `json:"by_level"`
	Totals          ChangeStats            `json:"totals"`
	AffectedPeriods AffectedPeriods        `json:"affected_periods"`
	UploadFilename  string                 `json:"upload_filename"`
	UploadRows      int                    `json:"upload_rows"`
	ProcessedAt     time.Time              `json:"processed_at"`
}

// DataUpdate is the append-only audit record produced once per run. The
// top-level row counts reflect the raw-transaction level; the per-level
// counts live in the summary. Never updated after creation.
type DataUpdate struct {
	Id         uuid.UUID
	CompanyId  uuid.UUID
	UploadId   uuid.UUID
	UserId     string
	Period     string
	PeriodType PeriodType

	RowsBefore  int
	RowsAfter   int
	RowsUpdated int
	RowsAdded   int
	RowsDeleted int

	Summary   ChangesSummary
	CreatedAt time.Time
}

func (d DataUpdate) NetChange() int {
	return d.RowsAdded - d.RowsDeleted
}
