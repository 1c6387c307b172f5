package dbmodels

import (
	"encoding/json"
	"time"

	"github.com/Brownbull/ayni-be/models"
	"github.com/Brownbull/ayni-be/utils"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

const TABLE_AGGREGATION_BUCKETS = "aggregation_buckets"

var SelectAggregationBucketColumn = utils.ColumnList[DBAggregationBucket]()

type DBAggregationBucket struct {
	Id         uuid.UUID       `db:"id"`
	CompanyId  uuid.UUID       `db:"company_id"`
	BucketType string          `db:"bucket_type"`
	BucketKey  string          `db:"bucket_key"`
	Metrics    json.RawMessage `db:"metrics"`
	CreatedAt  time.Time       `db:"created_at"`
	UpdatedAt  time.Time       `db:"updated_at"`
}

func AdaptAggregationBucket(db DBAggregationBucket) (models.AggregationBucket, error) {
	bucketType := models.BucketType(db.BucketType)
	metrics, err := models.DecodeBucketMetrics(bucketType, db.Metrics)
	if err != nil {
		return models.AggregationBucket{}, errors.Wrap(err,
			"failed to decode aggregation bucket metrics")
	}

	return models.AggregationBucket{
		CompanyId:  db.CompanyId,
		BucketType: bucketType,
		BucketKey:  db.BucketKey,
		Metrics:    metrics,
	}, nil
}
