package ingestion

import (
	"context"
	"fmt"

	"github.com/Brownbull/ayni-be/models"
	"github.com/Brownbull/ayni-be/pure_utils"
	"github.com/Brownbull/ayni-be/utils"

	"github.com/google/uuid"
)

// Preprocessor standardizes a mapped table into canonical transactions and
// enforces the quality acceptance gate. Rows that fail to parse are logged,
// counted and skipped; they never abort the batch.
type Preprocessor struct {
	scorer QualityScorer
	config models.QualityConfig
	schema models.ColumnSchema
}

func NewPreprocessor(scorer QualityScorer, config models.QualityConfig, schema models.ColumnSchema) Preprocessor {
	return Preprocessor{scorer: scorer, config: config, schema: schema}
}

func (p Preprocessor) Preprocess(ctx context.Context, table models.SourceTable,
	companyId, uploadId uuid.UUID,
) (models.PreprocessResult, error) {
	quality := p.scorer.Score(table)
	if quality.Score < p.config.MinimumScore {
		return models.PreprocessResult{}, models.DataQualityError{
			Score:     quality.Score,
			Threshold: p.config.MinimumScore,
			Breakdown: quality.Breakdown,
		}
	}

	logger := utils.LoggerFromContext(ctx)
	transactions := make([]models.CanonicalTransaction, 0, table.NumRows())
	errorRows := 0

	for i, row := range table.Rows {
		transaction, err := p.standardizeRow(table.Header, row, companyId, uploadId)
		if err != nil {
			logger.WarnContext(ctx, fmt.Sprintf("skipping row %d: %v", i+1, err),
				"upload_id", uploadId)
			errorRows++
			continue
		}
		transactions = append(transactions, transaction)
	}

	return models.PreprocessResult{
		Transactions: transactions,
		ErrorRows:    errorRows,
		Quality:      quality,
	}, nil
}

func (p Preprocessor) standardizeRow(header []string, row []string,
	companyId, uploadId uuid.UUID,
) (models.CanonicalTransaction, error) {
	cells := make(map[string]string, len(header))
	for i, column := range header {
		if i < len(row) {
			cells[column] = row[i]
		}
	}

	transactionDate, err := pure_utils.ParseDate(cells[models.ColTransactionDate])
	if err != nil {
		return models.CanonicalTransaction{}, err
	}
	quantity, err := pure_utils.ParseFloat(cells[models.ColQuantity])
	if err != nil {
		return models.CanonicalTransaction{}, err
	}
	priceTotal, err := pure_utils.ParseFloat(cells[models.ColPriceTotal])
	if err != nil {
		return models.CanonicalTransaction{}, err
	}

	transaction := models.CanonicalTransaction{
		CompanyId:       companyId,
		UploadId:        uploadId,
		TransactionDate: transactionDate,
		TransactionId:   cells[models.ColTransactionId],
		ProductId:       cells[models.ColProductId],
		Quantity:        quantity,
		PriceTotal:      priceTotal,
	}

	if customerId, ok := cells[models.ColCustomerId]; ok && !isMissing(customerId) {
		transaction.CustomerId = pure_utils.Ptr(customerId)
	}
	if category, ok := cells[models.ColCategory]; ok && !isMissing(category) {
		transaction.Category = pure_utils.Ptr(category)
	}
	if costTotal, ok := cells[models.ColCostTotal]; ok && !isMissing(costTotal) {
		cost, err := pure_utils.ParseFloat(costTotal)
		if err != nil {
			return models.CanonicalTransaction{}, err
		}
		transaction.CostTotal = pure_utils.Ptr(cost)
	}

	// Columns outside the canonical schema ride along as an attribute bag.
	for column, value := range cells {
		if _, canonical := p.schema.Columns[column]; canonical || isMissing(value) {
			continue
		}
		if transaction.Attributes == nil {
			transaction.Attributes = make(map[string]string)
		}
		transaction.Attributes[column] = value
	}

	return transaction, nil
}
