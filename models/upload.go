package models

import (
	"time"

	"github.com/google/uuid"
)

type UploadStatus string

const (
	UploadPending    UploadStatus = "pending"
	UploadValidating UploadStatus = "validating"
	UploadProcessing UploadStatus = "processing"
	UploadCompleted  UploadStatus = "completed"
	UploadFailed     UploadStatus = "failed"
	UploadCancelled  UploadStatus = "cancelled"
)

func UploadStatusFrom(s string) UploadStatus {
	switch s {
	case "validating":
		return UploadValidating
	case "processing":
		return UploadProcessing
	case "completed":
		return UploadCompleted
	case "failed":
		return UploadFailed
	case "cancelled":
		return UploadCancelled
	}
	return UploadPending
}

// IsActive reports whether the upload blocks new submissions for its company.
func (s UploadStatus) IsActive() bool {
	switch s {
	case UploadPending, UploadValidating, UploadProcessing:
		return true
	}
	return false
}

func (s UploadStatus) IsTerminal() bool {
	switch s {
	case UploadCompleted, UploadFailed, UploadCancelled:
		return true
	}
	return false
}

// Progress checkpoints advanced by the pipeline. Coarse-grained: one value
// per stage, not per row.
const (
	ProgressStarted      = 0
	ProgressLoaded       = 10
	ProgressValidated    = 30
	ProgressPreprocessed = 50
	ProgressAggregated   = 70
	ProgressPersisted    = 95
	ProgressDone         = 100
)

// Upload represents one processing attempt of an uploaded CSV file.
type Upload struct {
	Id        uuid.UUID
	CompanyId uuid.UUID
	UserId    string
	Filename  string
	FileKey   string
	FileSize  int64
	Status    UploadStatus

	// ColumnMapping maps canonical field names to source column names. Empty
	// means the source columns already match the canonical schema.
	ColumnMapping map[string]string

	OriginalRows  int
	ProcessedRows int
	UpdatedRows   int
	ErrorRows     int

	ProgressPercentage int
	ErrorMessage       *string

	CreatedAt   time.Time
	StartedAt   *time.Time
	CompletedAt *time.Time
}

type CreateUploadInput struct {
	CompanyId     uuid.UUID
	UserId        string
	Filename      string
	FileKey       string
	FileSize      int64
	ColumnMapping map[string]string
}

// UpdateUploadInput carries a partial update; nil fields are left untouched.
type UpdateUploadInput struct {
	Id                 uuid.UUID
	Status             *UploadStatus
	OriginalRows       *int
	ProcessedRows      *int
	UpdatedRows        *int
	ErrorRows          *int
	ProgressPercentage *int
	ErrorMessage       *string
	StartedAt          *time.Time
	CompletedAt        *time.Time
}

// UploadResult is the pipeline's return contract.
type UploadResult struct {
	Success          bool           `json:"success"`
	UploadId         uuid.UUID      `json:"upload_id"`
	RowsProcessed    int            `json:"rows_processed"`
	DataQualityScore float64        `json:"data_quality_score"`
	LevelCounts      map[string]int `json:"level_counts"`
}

// ColumnMappingPreset is a saved, reusable column mapping for a company. At
// most one preset per company is flagged as the default.
type ColumnMappingPreset struct {
	Id        uuid.UUID
	CompanyId uuid.UUID
	Name      string
	Mappings  map[string]string
	IsDefault bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
