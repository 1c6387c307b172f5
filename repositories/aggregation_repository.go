package repositories

import (
	"context"

	"github.com/Brownbull/ayni-be/models"
	"github.com/Brownbull/ayni-be/repositories/dbmodels"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

type AggregationRepository interface {
	UpsertAggregationBuckets(ctx context.Context, exec Executor, buckets []models.AggregationBucket) error
	CountBucketsByType(ctx context.Context, exec Executor, companyId uuid.UUID) (map[models.BucketType]int, error)
	BucketsOfType(ctx context.Context, exec Executor, companyId uuid.UUID, bucketType models.BucketType) ([]models.AggregationBucket, error)
}

// UpsertAggregationBuckets writes derived summaries idempotently: a conflict
// on the natural key replaces the whole metrics bag instead of stacking a
// duplicate row.
func (repo *AyniDbRepository) UpsertAggregationBuckets(ctx context.Context, exec Executor,
	buckets []models.AggregationBucket,
) error {
	if len(buckets) == 0 {
		return nil
	}

	query := NewQueryBuilder().
		Insert(dbmodels.TABLE_AGGREGATION_BUCKETS).
		Columns("company_id", "bucket_type", "bucket_key", "metrics")

	for _, bucket := range buckets {
		metrics, err := bucket.MetricsJSON()
		if err != nil {
			return err
		}
		query = query.Values(bucket.CompanyId, bucket.BucketType, bucket.BucketKey, metrics)
	}

	query = query.
		Suffix("ON CONFLICT (company_id, bucket_type, bucket_key) DO UPDATE SET").
		Suffix("metrics = EXCLUDED.metrics,").
		Suffix("updated_at = now()")

	return ExecBuilder(ctx, exec, query)
}

func (repo *AyniDbRepository) CountBucketsByType(ctx context.Context, exec Executor,
	companyId uuid.UUID,
) (map[models.BucketType]int, error) {
	type bucketCount struct {
		BucketType string `db:"bucket_type"`
		Count      int    `db:"count"`
	}

	counts, err := SqlToListOfModels(
		ctx,
		exec,
		NewQueryBuilder().
			Select("bucket_type", "COUNT(*) AS count").
			From(dbmodels.TABLE_AGGREGATION_BUCKETS).
			Where(squirrel.Eq{"company_id": companyId}).
			GroupBy("bucket_type"),
		func(db bucketCount) (bucketCount, error) { return db, nil },
	)
	if err != nil {
		return nil, err
	}

	result := make(map[models.BucketType]int, len(counts))
	for _, c := range counts {
		result[models.BucketType(c.BucketType)] = c.Count
	}
	return result, nil
}

func (repo *AyniDbRepository) BucketsOfType(ctx context.Context, exec Executor,
	companyId uuid.UUID, bucketType models.BucketType,
) ([]models.AggregationBucket, error) {
	return SqlToListOfModels(
		ctx,
		exec,
		NewQueryBuilder().
			Select(dbmodels.SelectAggregationBucketColumn...).
			From(dbmodels.TABLE_AGGREGATION_BUCKETS).
			Where(squirrel.Eq{"company_id": companyId}).
			Where(squirrel.Eq{"bucket_type": bucketType}).
			OrderBy("bucket_key"),
		dbmodels.AdaptAggregationBucket,
	)
}
