package models

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

type BucketType string

const (
	BucketDaily     BucketType = "daily"
	BucketWeekly    BucketType = "weekly"
	BucketMonthly   BucketType = "monthly"
	BucketQuarterly BucketType = "quarterly"
	BucketYearly    BucketType = "yearly"
	BucketProduct   BucketType = "product"
	BucketCustomer  BucketType = "customer"
	BucketCategory  BucketType = "category"
)

// AggregationLevels lists every bucket type, in the order used for level
// counts and change summaries.
var AggregationLevels = []BucketType{
	BucketDaily,
	BucketWeekly,
	BucketMonthly,
	BucketQuarterly,
	BucketYearly,
	BucketProduct,
	BucketCustomer,
	BucketCategory,
}

// TimeBucketMetrics is the metrics bag of every time-granularity bucket.
// UniqueProducts is only populated for monthly buckets.
type TimeBucketMetrics struct {
	TotalRevenue        float64 `json:"total_revenue"`
	TotalQuantity       float64 `json:"total_quantity"`
	TransactionCount    int     `json:"transaction_count"`
	AvgTransactionValue float64 `json:"avg_transaction_value"`
	UniqueProducts      *int    `json:"unique_products,omitempty"`
}

type ProductMetrics struct {
	TotalRevenue        float64 `json:"total_revenue"`
	TotalQuantity       float64 `json:"total_quantity"`
	TransactionCount    int     `json:"transaction_count"`
	AvgTransactionValue float64 `json:"avg_transaction_value"`
	AvgPrice            float64 `json:"avg_price"`
}

type CustomerMetrics struct {
	TotalRevenue        float64 `json:"total_revenue"`
	TotalQuantity       float64 `json:"total_quantity"`
	TransactionCount    int     `json:"transaction_count"`
	AvgTransactionValue float64 `json:"avg_transaction_value"`
}

type CategoryMetrics struct {
	TotalRevenue        float64 `json:"total_revenue"`
	TotalQuantity       float64 `json:"total_quantity"`
	TransactionCount    int     `json:"transaction_count"`
	AvgTransactionValue float64 `json:"avg_transaction_value"`
	UniqueProducts      int     `json:"unique_products"`
}

// AggregationBucket is one derived summary row, keyed by
// (company, bucket type, bucket key). Time buckets encode the period in the
// key (ISO date, year+ISO week, year+month, year+quarter, year); dimensional
// buckets use the dimension value and cover the company's full history
// ("all_time" period). At most one row exists per natural key: reprocessing
// replaces the metrics bag wholesale.
type AggregationBucket struct {
	CompanyId  uuid.UUID
	BucketType BucketType
	BucketKey  string
	Metrics    any
}

// MetricsJSON serializes the typed metrics bag for storage.
func (b AggregationBucket) MetricsJSON() ([]byte, error) {
	out, err := json.Marshal(b.Metrics)
	return out, errors.Wrap(err, "marshal bucket metrics")
}

// DecodeBucketMetrics restores the closed metrics struct matching the bucket
// type from its stored JSON form.
func DecodeBucketMetrics(bucketType BucketType, raw []byte) (any, error) {
	var (
		target any
		err    error
	)
	switch bucketType {
	case BucketProduct:
		var m ProductMetrics
		err = json.Unmarshal(raw, &m)
		target = m
	case BucketCustomer:
		var m CustomerMetrics
		err = json.Unmarshal(raw, &m)
		target = m
	case BucketCategory:
		var m CategoryMetrics
		err = json.Unmarshal(raw, &m)
		target = m
	default:
		var m TimeBucketMetrics
		err = json.Unmarshal(raw, &m)
		target = m
	}
	if err != nil {
		return nil, errors.Wrapf(err, "unmarshal %s bucket metrics", bucketType)
	}
	return target, nil
}
