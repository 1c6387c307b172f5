package aggregation

import (
	"testing"
	"time"

	"github.com/Brownbull/ayni-be/models"
	"github.com/Brownbull/ayni-be/pure_utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tx(date string, transactionId, productId string, quantity, priceTotal float64) models.CanonicalTransaction {
	parsed, err := time.Parse(time.DateOnly, date)
	if err != nil {
		panic(err)
	}
	return models.CanonicalTransaction{
		TransactionDate: parsed,
		TransactionId:   transactionId,
		ProductId:       productId,
		Quantity:        quantity,
		PriceTotal:      priceTotal,
	}
}

func bucketByKey(t *testing.T, buckets []models.AggregationBucket,
	bucketType models.BucketType, key string,
) models.AggregationBucket {
	t.Helper()
	for _, bucket := range buckets {
		if bucket.BucketType == bucketType && bucket.BucketKey == key {
			return bucket
		}
	}
	t.Fatalf("no %s bucket with key %q", bucketType, key)
	return models.AggregationBucket{}
}

func TestEngine_BuildTimeBuckets(t *testing.T) {
	companyId := uuid.New()
	batch := []models.CanonicalTransaction{
		tx("2024-01-01", "T001", "P001", 10, 100),
		tx("2024-01-01", "T002", "P002", 5, 75.5),
		tx("2024-01-15", "T003", "P001", 15, 124.5),
	}

	buckets := Engine{}.BuildTimeBuckets(companyId, batch)

	// 2 daily + 2 weekly + 1 monthly + 1 quarterly + 1 yearly
	assert.Len(t, buckets, 7)

	daily := bucketByKey(t, buckets, models.BucketDaily, "2024-01-01")
	metrics := daily.Metrics.(models.TimeBucketMetrics)
	assert.Equal(t, 175.5, metrics.TotalRevenue)
	assert.Equal(t, 15.0, metrics.TotalQuantity)
	assert.Equal(t, 2, metrics.TransactionCount)
	assert.InDelta(t, 87.75, metrics.AvgTransactionValue, 1e-9)
	assert.Nil(t, metrics.UniqueProducts)
	assert.Equal(t, companyId, daily.CompanyId)

	monthly := bucketByKey(t, buckets, models.BucketMonthly, "2024-01")
	metrics = monthly.Metrics.(models.TimeBucketMetrics)
	assert.Equal(t, 300.0, metrics.TotalRevenue)
	assert.Equal(t, 30.0, metrics.TotalQuantity)
	assert.Equal(t, 3, metrics.TransactionCount)
	require.NotNil(t, metrics.UniqueProducts)
	assert.Equal(t, 2, *metrics.UniqueProducts)

	quarterly := bucketByKey(t, buckets, models.BucketQuarterly, "2024-Q1")
	assert.Equal(t, 3, quarterly.Metrics.(models.TimeBucketMetrics).TransactionCount)

	yearly := bucketByKey(t, buckets, models.BucketYearly, "2024")
	assert.Equal(t, 300.0, yearly.Metrics.(models.TimeBucketMetrics).TotalRevenue)
}

func TestEngine_WeeklyKeysFollowIsoYear(t *testing.T) {
	// 2024-12-30 belongs to ISO week 1 of 2025
	batch := []models.CanonicalTransaction{tx("2024-12-30", "T001", "P001", 1, 10)}

	buckets := Engine{}.BuildTimeBuckets(uuid.New(), batch)
	bucketByKey(t, buckets, models.BucketWeekly, "2025-W01")
}

func TestEngine_EmptyBatchYieldsNoBuckets(t *testing.T) {
	assert.Empty(t, Engine{}.BuildTimeBuckets(uuid.New(), nil))
	assert.Empty(t, Engine{}.BuildDimensionalBuckets(uuid.New(), nil))
}

func TestEngine_BuildDimensionalBuckets(t *testing.T) {
	companyId := uuid.New()
	withDimensions := func(transaction models.CanonicalTransaction, customer, category string) models.CanonicalTransaction {
		if customer != "" {
			transaction.CustomerId = pure_utils.Ptr(customer)
		}
		if category != "" {
			transaction.Category = pure_utils.Ptr(category)
		}
		return transaction
	}
	history := []models.CanonicalTransaction{
		withDimensions(tx("2024-01-01", "T001", "P001", 10, 100), "C001", "beverages"),
		withDimensions(tx("2024-01-02", "T002", "P001", 20, 180), "C002", "beverages"),
		withDimensions(tx("2024-01-03", "T003", "P002", 5, 75), "C001", ""),
	}

	buckets := Engine{}.BuildDimensionalBuckets(companyId, history)

	// 2 products + 2 customers + 1 category
	assert.Len(t, buckets, 5)

	product := bucketByKey(t, buckets, models.BucketProduct, "P001")
	productMetrics := product.Metrics.(models.ProductMetrics)
	assert.Equal(t, 280.0, productMetrics.TotalRevenue)
	assert.Equal(t, 30.0, productMetrics.TotalQuantity)
	assert.Equal(t, 2, productMetrics.TransactionCount)
	assert.InDelta(t, 280.0/30.0, productMetrics.AvgPrice, 1e-9)

	customer := bucketByKey(t, buckets, models.BucketCustomer, "C001")
	customerMetrics := customer.Metrics.(models.CustomerMetrics)
	assert.Equal(t, 175.0, customerMetrics.TotalRevenue)
	assert.Equal(t, 2, customerMetrics.TransactionCount)

	category := bucketByKey(t, buckets, models.BucketCategory, "beverages")
	categoryMetrics := category.Metrics.(models.CategoryMetrics)
	assert.Equal(t, 280.0, categoryMetrics.TotalRevenue)
	assert.Equal(t, 1, categoryMetrics.UniqueProducts)
}

func TestEngine_MissingDimensionsAreNotMaterialized(t *testing.T) {
	history := []models.CanonicalTransaction{
		tx("2024-01-01", "T001", "P001", 10, 100),
	}

	buckets := Engine{}.BuildDimensionalBuckets(uuid.New(), history)
	require.Len(t, buckets, 1)
	assert.Equal(t, models.BucketProduct, buckets[0].BucketType)
}

func TestEngine_TimeBucketsAreDeterministic(t *testing.T) {
	companyId := uuid.New()
	batch := []models.CanonicalTransaction{
		tx("2024-01-01", "T001", "P001", 10, 100),
		tx("2024-02-01", "T002", "P002", 5, 50),
	}

	first := Engine{}.BuildTimeBuckets(companyId, batch)
	second := Engine{}.BuildTimeBuckets(companyId, batch)
	assert.ElementsMatch(t, first, second)
}
