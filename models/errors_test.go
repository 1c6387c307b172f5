package models

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
)

func TestIsPermanentPipelineError(t *testing.T) {
	permanent := []error{
		ErrCsvLoad,
		ErrSchemaValidation,
		ErrDataQuality,
		ErrTrackerSequence,
		ErrUploadNotFound,
		errors.Wrap(ErrCsvLoad, "file is empty"),
		DataQualityError{Score: 80, Threshold: 95},
		SchemaValidationError{MissingColumns: []string{ColQuantity}},
	}
	for _, err := range permanent {
		assert.True(t, IsPermanentPipelineError(err), "expected permanent: %v", err)
	}

	transient := []error{
		ErrPersistence,
		errors.Join(ErrPersistence, errors.New("connection reset")),
		errors.New("something unclassified"),
	}
	for _, err := range transient {
		assert.False(t, IsPermanentPipelineError(err), "expected transient: %v", err)
	}
}
