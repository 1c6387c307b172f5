package tracking

import (
	"context"
	"time"

	"github.com/Brownbull/ayni-be/models"
	"github.com/Brownbull/ayni-be/pure_utils"
	"github.com/Brownbull/ayni-be/repositories"
	"github.com/Brownbull/ayni-be/repositories/clock"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

type trackerState int

const (
	stateInitialized trackerState = iota
	stateBeforeSnapshotted
	stateAfterSnapshotted
	stateRecordCreated
)

// levelCounts is one full snapshot of the tenant's persisted state: the raw
// transaction store plus every aggregation level, keyed by level name.
type levelCounts map[string]int

type snapshotRepository interface {
	CountTransactionsOfCompany(ctx context.Context, exec repositories.Executor, companyId uuid.UUID) (int, error)
	CountBucketsByType(ctx context.Context, exec repositories.Executor, companyId uuid.UUID) (map[models.BucketType]int, error)
}

// UpdateTracker wraps one pipeline run with before/after snapshots and
// produces the append-only audit record. Methods must be called in order:
// SnapshotBefore, SnapshotAfter, BuildRecord. Out-of-order calls are
// programming-contract violations, not data errors.
type UpdateTracker struct {
	repository snapshotRepository
	clock      clock.Clock
	companyId  uuid.UUID

	state  trackerState
	before levelCounts
	after  levelCounts
}

func NewUpdateTracker(repository snapshotRepository, c clock.Clock, companyId uuid.UUID) *UpdateTracker {
	return &UpdateTracker{
		repository: repository,
		clock:      c,
		companyId:  companyId,
		state:      stateInitialized,
	}
}

func (t *UpdateTracker) SnapshotBefore(ctx context.Context, exec repositories.Executor) error {
	if t.state != stateInitialized {
		return errors.Wrap(models.ErrTrackerSequence, "before snapshot already taken")
	}
	counts, err := t.snapshot(ctx, exec)
	if err != nil {
		return err
	}
	t.before = counts
	t.state = stateBeforeSnapshotted
	return nil
}

func (t *UpdateTracker) SnapshotAfter(ctx context.Context, exec repositories.Executor) error {
	if t.state != stateBeforeSnapshotted {
		return errors.Wrap(models.ErrTrackerSequence, "after snapshot requires a before snapshot")
	}
	counts, err := t.snapshot(ctx, exec)
	if err != nil {
		return err
	}
	t.after = counts
	t.state = stateAfterSnapshotted
	return nil
}

func (t *UpdateTracker) snapshot(ctx context.Context, exec repositories.Executor) (levelCounts, error) {
	counts := make(levelCounts, len(models.AggregationLevels)+1)

	rawCount, err := t.repository.CountTransactionsOfCompany(ctx, exec, t.companyId)
	if err != nil {
		return nil, errors.Join(models.ErrPersistence, err)
	}
	counts[models.LevelRawTransactions] = rawCount

	bucketCounts, err := t.repository.CountBucketsByType(ctx, exec, t.companyId)
	if err != nil {
		return nil, errors.Join(models.ErrPersistence, err)
	}
	for _, level := range models.AggregationLevels {
		counts[string(level)] = bucketCounts[level]
	}
	return counts, nil
}

// ComputeChanges derives row deltas from before/after counts and the number
// of rows updated in place. The pipeline always passes updated=0 today: upsert
// overwrites are not tracked as in-place updates yet.
func ComputeChanges(before, after, updated int) models.ChangeStats {
	added := max(0, after-before+updated)
	deleted := max(0, before-(after-added))
	return models.ChangeStats{
		RowsBefore:  before,
		RowsAfter:   after,
		RowsUpdated: updated,
		RowsAdded:   added,
		RowsDeleted: deleted,
		NetChange:   after - before,
	}
}

// AnalyzeAffectedPeriods enumerates the full period span between the batch's
// min and max transaction dates, at every granularity.
func AnalyzeAffectedPeriods(batch []models.CanonicalTransaction) models.AffectedPeriods {
	if len(batch) == 0 {
		return models.AffectedPeriods{}
	}

	minDate, maxDate := batch[0].TransactionDate, batch[0].TransactionDate
	for _, tx := range batch[1:] {
		if tx.TransactionDate.Before(minDate) {
			minDate = tx.TransactionDate
		}
		if tx.TransactionDate.After(maxDate) {
			maxDate = tx.TransactionDate
		}
	}

	return models.AffectedPeriods{
		Daily:     pure_utils.EnumerateDays(minDate, maxDate),
		Weekly:    pure_utils.EnumerateWeeks(minDate, maxDate),
		Monthly:   pure_utils.EnumerateMonths(minDate, maxDate),
		Quarterly: pure_utils.EnumerateQuarters(minDate, maxDate),
		Yearly:    pure_utils.EnumerateYears(minDate, maxDate),
	}
}

// primaryPeriod promotes the broadest granularity to the record's top-level
// period fields, falling back to the upload itself when no row carried a date.
func primaryPeriod(periods models.AffectedPeriods, uploadId uuid.UUID) (string, models.PeriodType) {
	switch {
	case len(periods.Yearly) > 0:
		return periods.Yearly[0], models.PeriodYearly
	case len(periods.Quarterly) > 0:
		return periods.Quarterly[0], models.PeriodQuarterly
	case len(periods.Monthly) > 0:
		return periods.Monthly[0], models.PeriodMonthly
	case len(periods.Weekly) > 0:
		return periods.Weekly[0], models.PeriodWeekly
	case len(periods.Daily) > 0:
		return periods.Daily[0], models.PeriodDaily
	}
	return uploadId.String(), models.PeriodUpload
}

type RecordParams struct {
	UploadId       uuid.UUID
	UserId         string
	UploadFilename string
	Batch          []models.CanonicalTransaction
}

// BuildRecord assembles the audit record from the two snapshots. The
// top-level row counts reflect the raw transaction level; the per-level
// breakdown and the affected periods ride in the changes summary.
func (t *UpdateTracker) BuildRecord(params RecordParams) (models.DataUpdate, error) {
	if t.state != stateAfterSnapshotted {
		return models.DataUpdate{}, errors.Wrap(models.ErrTrackerSequence,
			"record creation requires both snapshots")
	}

	byLevel := make(map[string]models.ChangeStats, len(t.before))
	totals := models.ChangeStats{}
	for level, before := range t.before {
		stats := ComputeChanges(before, t.after[level], 0)
		byLevel[level] = stats
		totals.RowsBefore += stats.RowsBefore
		totals.RowsAfter += stats.RowsAfter
		totals.RowsUpdated += stats.RowsUpdated
		totals.RowsAdded += stats.RowsAdded
		totals.RowsDeleted += stats.RowsDeleted
		totals.NetChange += stats.NetChange
	}

	periods := AnalyzeAffectedPeriods(params.Batch)
	period, periodType := primaryPeriod(periods, params.UploadId)
	rawStats := byLevel[models.LevelRawTransactions]
	now := t.clock.Now()

	record := models.DataUpdate{
		Id:          uuid.New(),
		CompanyId:   t.companyId,
		UploadId:    params.UploadId,
		UserId:      params.UserId,
		Period:      period,
		PeriodType:  periodType,
		RowsBefore:  rawStats.RowsBefore,
		RowsAfter:   rawStats.RowsAfter,
		RowsUpdated: rawStats.RowsUpdated,
		RowsAdded:   rawStats.RowsAdded,
		RowsDeleted: rawStats.RowsDeleted,
		Summary: models.ChangesSummary{
			ByLevel:         byLevel,
			Totals:          totals,
			AffectedPeriods: periods,
			UploadFilename:  params.UploadFilename,
			UploadRows:      len(params.Batch),
			ProcessedAt:     now.UTC().Truncate(time.Second),
		},
		CreatedAt: now,
	}

	t.state = stateRecordCreated
	return record, nil
}
