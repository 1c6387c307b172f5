package ingestion

import (
	"testing"

	"github.com/Brownbull/ayni-be/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaValidator_AcceptsCompleteHeader(t *testing.T) {
	validator := NewSchemaValidator(models.CanonicalTransactionSchema())
	table := models.SourceTable{
		Header: fullHeader(),
		Rows:   [][]string{{"2024-01-01", "T001", "P001", "10", "100.0"}},
	}

	assert.NoError(t, validator.Validate(table))
}

func TestSchemaValidator_ReportsEveryMissingRequiredColumn(t *testing.T) {
	validator := NewSchemaValidator(models.CanonicalTransactionSchema())
	table := models.SourceTable{
		Header: []string{models.ColTransactionDate, models.ColProductId},
		Rows:   [][]string{{"2024-01-01", "P001"}},
	}

	err := validator.Validate(table)
	require.Error(t, err)

	var validationErr models.SchemaValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, []string{
		models.ColTransactionId, models.ColQuantity, models.ColPriceTotal,
	}, validationErr.MissingColumns)
	assert.ErrorIs(t, err, models.ErrSchemaValidation)
}

func TestSchemaValidator_OptionalColumnsMayBeAbsent(t *testing.T) {
	validator := NewSchemaValidator(models.CanonicalTransactionSchema())
	table := models.SourceTable{Header: fullHeader()}

	assert.NoError(t, validator.Validate(table))
}

func TestSchemaValidator_BusinessRuleWarnings(t *testing.T) {
	validator := NewSchemaValidator(models.CanonicalTransactionSchema())
	table := models.SourceTable{
		Header: fullHeader(),
		Rows: [][]string{
			{"2024-01-01", "T001", "P001", "10", "100.0"},
			{"2024-01-02", "T002", "P002", "-3", "200.0"},
			{"2024-01-03", "T003", "P003", "5", "0"},
		},
	}

	warnings := validator.BusinessRuleWarnings(table)
	require.Len(t, warnings, 2)
	assert.Contains(t, warnings[0], "row 2")
	assert.Contains(t, warnings[0], "quantity")
	assert.Contains(t, warnings[1], "row 3")
	assert.Contains(t, warnings[1], "price_total")
}
