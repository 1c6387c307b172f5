package ingestion

import (
	"fmt"

	"github.com/Brownbull/ayni-be/models"
	"github.com/Brownbull/ayni-be/pure_utils"
)

// SchemaValidator checks that a mapped table carries every required canonical
// column. The business-rule pass below is advisory only and never fails the
// batch.
type SchemaValidator struct {
	schema models.ColumnSchema
}

func NewSchemaValidator(schema models.ColumnSchema) SchemaValidator {
	return SchemaValidator{schema: schema}
}

func (v SchemaValidator) Validate(table models.SourceTable) error {
	var missing []string
	for _, column := range v.schema.RequiredColumns() {
		if !table.HasColumn(column) {
			missing = append(missing, column)
		}
	}
	if len(missing) > 0 {
		return models.SchemaValidationError{MissingColumns: missing}
	}
	return nil
}

// BusinessRuleWarnings flags rows whose quantity or price is non-positive.
// Those rows still flow through the pipeline; they lower the quality score
// instead of blocking the upload.
func (v SchemaValidator) BusinessRuleWarnings(table models.SourceTable) []string {
	var warnings []string

	quantityIdx := table.ColumnIndex(models.ColQuantity)
	priceIdx := table.ColumnIndex(models.ColPriceTotal)

	for i, row := range table.Rows {
		if quantityIdx >= 0 && quantityIdx < len(row) {
			if quantity, err := pure_utils.ParseFloat(row[quantityIdx]); err == nil && quantity <= 0 {
				warnings = append(warnings,
					fmt.Sprintf("row %d: non-positive quantity %v", i+1, quantity))
			}
		}
		if priceIdx >= 0 && priceIdx < len(row) {
			if price, err := pure_utils.ParseFloat(row[priceIdx]); err == nil && price <= 0 {
				warnings = append(warnings,
					fmt.Sprintf("row %d: non-positive price_total %v", i+1, price))
			}
		}
	}
	return warnings
}
