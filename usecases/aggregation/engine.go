package aggregation

import (
	"github.com/Brownbull/ayni-be/models"
	"github.com/Brownbull/ayni-be/pure_utils"

	"github.com/google/uuid"
	"github.com/hashicorp/go-set/v2"
)

// Engine groups canonical transactions into aggregation buckets. Time buckets
// are computed over the current batch; dimensional buckets (product,
// customer, category) are computed over the company's whole history so their
// "all time" semantics survive incremental uploads. Empty groups are never
// materialized.
type Engine struct{}

type bucketKey struct {
	bucketType models.BucketType
	key        string
}

type accumulator struct {
	revenue  float64
	quantity float64
	count    int
	products *set.Set[string]
}

func newAccumulator(trackProducts bool) *accumulator {
	acc := &accumulator{}
	if trackProducts {
		acc.products = set.New[string](8)
	}
	return acc
}

func (a *accumulator) add(tx models.CanonicalTransaction) {
	a.revenue += tx.PriceTotal
	a.quantity += tx.Quantity
	a.count++
	if a.products != nil {
		a.products.Insert(tx.ProductId)
	}
}

func (a *accumulator) avgTransactionValue() float64 {
	return a.revenue / float64(a.count)
}

// timeBucketKeyers maps each time granularity to its bucket key derivation.
var timeBucketKeyers = map[models.BucketType]func(tx models.CanonicalTransaction) string{
	models.BucketDaily:     func(tx models.CanonicalTransaction) string { return pure_utils.DailyKey(tx.TransactionDate) },
	models.BucketWeekly:    func(tx models.CanonicalTransaction) string { return pure_utils.WeeklyKey(tx.TransactionDate) },
	models.BucketMonthly:   func(tx models.CanonicalTransaction) string { return pure_utils.MonthlyKey(tx.TransactionDate) },
	models.BucketQuarterly: func(tx models.CanonicalTransaction) string { return pure_utils.QuarterlyKey(tx.TransactionDate) },
	models.BucketYearly:    func(tx models.CanonicalTransaction) string { return pure_utils.YearlyKey(tx.TransactionDate) },
}

// BuildTimeBuckets aggregates the batch at every time granularity.
func (e Engine) BuildTimeBuckets(companyId uuid.UUID,
	batch []models.CanonicalTransaction,
) []models.AggregationBucket {
	arena := make(map[bucketKey]*accumulator)

	for _, tx := range batch {
		for bucketType, keyer := range timeBucketKeyers {
			key := bucketKey{bucketType: bucketType, key: keyer(tx)}
			acc, ok := arena[key]
			if !ok {
				acc = newAccumulator(bucketType == models.BucketMonthly)
				arena[key] = acc
			}
			acc.add(tx)
		}
	}

	buckets := make([]models.AggregationBucket, 0, len(arena))
	for key, acc := range arena {
		metrics := models.TimeBucketMetrics{
			TotalRevenue:        acc.revenue,
			TotalQuantity:       acc.quantity,
			TransactionCount:    acc.count,
			AvgTransactionValue: acc.avgTransactionValue(),
		}
		if acc.products != nil {
			metrics.UniqueProducts = pure_utils.Ptr(acc.products.Size())
		}
		buckets = append(buckets, models.AggregationBucket{
			CompanyId:  companyId,
			BucketType: key.bucketType,
			BucketKey:  key.key,
			Metrics:    metrics,
		})
	}
	return buckets
}

// BuildDimensionalBuckets aggregates the company's full history per product,
// customer and category.
func (e Engine) BuildDimensionalBuckets(companyId uuid.UUID,
	history []models.CanonicalTransaction,
) []models.AggregationBucket {
	arena := make(map[bucketKey]*accumulator)

	for _, tx := range history {
		if tx.ProductId != "" {
			e.accumulate(arena, models.BucketProduct, tx.ProductId, tx, false)
		}
		if tx.CustomerId != nil && *tx.CustomerId != "" {
			e.accumulate(arena, models.BucketCustomer, *tx.CustomerId, tx, false)
		}
		if tx.Category != nil && *tx.Category != "" {
			e.accumulate(arena, models.BucketCategory, *tx.Category, tx, true)
		}
	}

	buckets := make([]models.AggregationBucket, 0, len(arena))
	for key, acc := range arena {
		var metrics any
		switch key.bucketType {
		case models.BucketProduct:
			productMetrics := models.ProductMetrics{
				TotalRevenue:        acc.revenue,
				TotalQuantity:       acc.quantity,
				TransactionCount:    acc.count,
				AvgTransactionValue: acc.avgTransactionValue(),
			}
			// mean(price_total)/mean(quantity): the row counts cancel out.
			if acc.quantity != 0 {
				productMetrics.AvgPrice = acc.revenue / acc.quantity
			}
			metrics = productMetrics
		case models.BucketCustomer:
			metrics = models.CustomerMetrics{
				TotalRevenue:        acc.revenue,
				TotalQuantity:       acc.quantity,
				TransactionCount:    acc.count,
				AvgTransactionValue: acc.avgTransactionValue(),
			}
		case models.BucketCategory:
			metrics = models.CategoryMetrics{
				TotalRevenue:        acc.revenue,
				TotalQuantity:       acc.quantity,
				TransactionCount:    acc.count,
				AvgTransactionValue: acc.avgTransactionValue(),
				UniqueProducts:      acc.products.Size(),
			}
		}
		buckets = append(buckets, models.AggregationBucket{
			CompanyId:  companyId,
			BucketType: key.bucketType,
			BucketKey:  key.key,
			Metrics:    metrics,
		})
	}
	return buckets
}

func (e Engine) accumulate(arena map[bucketKey]*accumulator, bucketType models.BucketType,
	key string, tx models.CanonicalTransaction, trackProducts bool,
) {
	k := bucketKey{bucketType: bucketType, key: key}
	acc, ok := arena[k]
	if !ok {
		acc = newAccumulator(trackProducts)
		arena[k] = acc
	}
	acc.add(tx)
}
