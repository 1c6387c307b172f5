package models

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// Base errors, related to default API status codes
var (
	// BadParameterError is rendered with the http status code 400
	BadParameterError = errors.New("bad parameter")

	// NotFoundError is rendered with the http status code 404
	NotFoundError = errors.New("not found")

	// ConflictError is rendered with the http status code 409
	ConflictError = errors.New("duplicate value")
)

// DB related errors
var ErrIgnoreRollBackError = errors.New("ignore rollback error")

// Pipeline errors. The worker uses these sentinels to classify failures:
// ErrPersistence is transient and retry-eligible (aggregation upserts are
// idempotent), everything else is permanent and cancels the job.
var (
	ErrCsvLoad          = errors.New("csv file could not be loaded")
	ErrSchemaValidation = errors.Wrap(BadParameterError, "required canonical columns are missing")
	ErrDataQuality      = errors.Wrap(BadParameterError, "data quality score below acceptance threshold")
	ErrPersistence      = errors.New("persistence failure")
	ErrTrackerSequence  = errors.New("update tracker snapshot sequence violated")
	ErrConcurrentUpload = errors.Wrap(ConflictError, "an upload is already being processed for this company")
)

var (
	ErrUploadNotFound       = errors.Wrap(NotFoundError, "unknown upload")
	ErrCompanyNotFound      = errors.Wrap(NotFoundError, "unknown company")
	ErrUploadNotCancellable = errors.Wrap(BadParameterError, "upload has reached a terminal status")
)

// IsPermanentPipelineError reports whether retrying without changed source
// data is futile. Quality, schema, load and tracker-contract failures are
// deterministic for a given file; persistence failures are transient and the
// run stays retryable.
func IsPermanentPipelineError(err error) bool {
	return errors.Is(err, ErrCsvLoad) ||
		errors.Is(err, ErrSchemaValidation) ||
		errors.Is(err, ErrDataQuality) ||
		errors.Is(err, ErrTrackerSequence) ||
		errors.Is(err, ErrUploadNotFound)
}

// SchemaValidationError reports the canonical columns absent from an uploaded
// file. It unwraps to ErrSchemaValidation.
type SchemaValidationError struct {
	MissingColumns []string
}

func (e SchemaValidationError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.MissingColumns, ", "))
}

func (e SchemaValidationError) Unwrap() error {
	return ErrSchemaValidation
}

// DataQualityError carries the composite score and the per-dimension
// breakdown so callers can render an actionable message. It unwraps to
// ErrDataQuality.
type DataQualityError struct {
	Score     float64
	Threshold float64
	Breakdown QualityBreakdown
}

func (e DataQualityError) Error() string {
	return fmt.Sprintf("data quality below threshold: %.1f%% < %.1f%%", e.Score, e.Threshold)
}

func (e DataQualityError) Unwrap() error {
	return ErrDataQuality
}

// ConcurrencyConflictError is returned at submission time when the company
// already has an active upload. It is a rejection, not a pipeline failure.
type ConcurrencyConflictError struct {
	ActiveUpload Upload
}

func (e ConcurrencyConflictError) Error() string {
	return fmt.Sprintf("company %s already has an active upload %s (status %s, %d%%)",
		e.ActiveUpload.CompanyId, e.ActiveUpload.Id, e.ActiveUpload.Status, e.ActiveUpload.ProgressPercentage)
}

func (e ConcurrencyConflictError) Unwrap() error {
	return ErrConcurrentUpload
}
