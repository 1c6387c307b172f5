package ingestion

import (
	"context"
	"testing"
	"time"

	"github.com/Brownbull/ayni-be/models"
	"github.com/Brownbull/ayni-be/repositories/clock"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPreprocessor(now time.Time) Preprocessor {
	schema := models.CanonicalTransactionSchema()
	config := models.DefaultQualityConfig()
	return NewPreprocessor(NewQualityScorer(schema, config, clock.NewMock(now)), config, schema)
}

func TestPreprocessor_StandardizesRows(t *testing.T) {
	preprocessor := testPreprocessor(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	companyId, uploadId := uuid.New(), uuid.New()
	table := models.SourceTable{
		Header: append(fullHeader(), models.ColCustomerId, "store_location"),
		Rows: [][]string{
			{"2024-02-20", "T001", "P001", "10", "100.0", "C001", "santiago"},
			{"2024-02-21", "T002", "P002", "20", "200.5", "", ""},
		},
	}

	result, err := preprocessor.Preprocess(context.Background(), table, companyId, uploadId)
	require.NoError(t, err)
	require.Len(t, result.Transactions, 2)
	assert.Equal(t, 0, result.ErrorRows)

	first := result.Transactions[0]
	assert.Equal(t, companyId, first.CompanyId)
	assert.Equal(t, uploadId, first.UploadId)
	assert.Equal(t, time.Date(2024, 2, 20, 0, 0, 0, 0, time.UTC), first.TransactionDate)
	assert.Equal(t, "T001", first.TransactionId)
	assert.Equal(t, 10.0, first.Quantity)
	assert.Equal(t, 100.0, first.PriceTotal)
	require.NotNil(t, first.CustomerId)
	assert.Equal(t, "C001", *first.CustomerId)
	assert.Equal(t, map[string]string{"store_location": "santiago"}, first.Attributes)

	second := result.Transactions[1]
	assert.Nil(t, second.CustomerId)
	assert.Nil(t, second.Attributes)
}

func TestPreprocessor_SkipsAndCountsUnparseableRows(t *testing.T) {
	preprocessor := testPreprocessor(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	table := models.SourceTable{
		Header: fullHeader(),
		Rows: [][]string{
			{"2024-02-20", "T001", "P001", "10", "100.0"},
			{"2024-02-21", "T002", "P002", "not a number", "200.0"},
			{"2024-02-22", "T003", "P003", "5", "50.0"},
			{"2024-02-23", "T004", "P004", "8", "80.0"},
			{"2024-02-24", "T005", "P005", "3", "30.0"},
		},
	}

	result, err := preprocessor.Preprocess(context.Background(), table, uuid.New(), uuid.New())
	require.NoError(t, err)
	assert.Len(t, result.Transactions, 4)
	assert.Equal(t, 1, result.ErrorRows)
}

func TestPreprocessor_RejectsBatchesBelowQualityGate(t *testing.T) {
	preprocessor := testPreprocessor(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	table := models.SourceTable{
		Header: fullHeader(),
		Rows: [][]string{
			{"2024-02-20", "T001", "P001", "-10", "100.0"},
			{"2024-02-21", "T001", "P002", "20", "-200.0"},
		},
	}

	_, err := preprocessor.Preprocess(context.Background(), table, uuid.New(), uuid.New())
	require.Error(t, err)

	var qualityErr models.DataQualityError
	require.ErrorAs(t, err, &qualityErr)
	assert.Equal(t, 95.0, qualityErr.Threshold)
	assert.Less(t, qualityErr.Score, qualityErr.Threshold)
	assert.Equal(t, 80.0, qualityErr.Breakdown.Accuracy)
	assert.Equal(t, 50.0, qualityErr.Breakdown.Uniqueness)
	assert.ErrorIs(t, err, models.ErrDataQuality)
}
