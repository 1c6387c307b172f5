package usecases

import (
	"context"
	"time"

	"github.com/Brownbull/ayni-be/models"
	"github.com/Brownbull/ayni-be/repositories"

	"github.com/google/uuid"
)

// AnalyticsUsecase is the read side of the pipeline: aggregation buckets for
// dashboards and the data-update audit trail.
type AnalyticsUsecase struct {
	executorGetter        repositories.ExecutorGetter
	transactionRepository repositories.TransactionRepository
	aggregationRepository repositories.AggregationRepository
	dataUpdateRepository  repositories.DataUpdateRepository
}

func (usecases Usecases) NewAnalyticsUsecase() AnalyticsUsecase {
	return AnalyticsUsecase{
		executorGetter:        usecases.Repositories.ExecutorGetter,
		transactionRepository: usecases.Repositories.TransactionRepository,
		aggregationRepository: usecases.Repositories.AggregationRepository,
		dataUpdateRepository:  usecases.Repositories.DataUpdateRepository,
	}
}

func (uc AnalyticsUsecase) ListBuckets(ctx context.Context, companyId uuid.UUID,
	bucketType models.BucketType,
) ([]models.AggregationBucket, error) {
	return uc.aggregationRepository.BucketsOfType(ctx, uc.executorGetter.GetExecutor(),
		companyId, bucketType)
}

func (uc AnalyticsUsecase) ListDataUpdates(ctx context.Context, companyId uuid.UUID) ([]models.DataUpdate, error) {
	return uc.dataUpdateRepository.AllDataUpdatesOfCompany(ctx, uc.executorGetter.GetExecutor(), companyId)
}

func (uc AnalyticsUsecase) LatestDataUpdate(ctx context.Context, companyId uuid.UUID) (*models.DataUpdate, error) {
	return uc.dataUpdateRepository.LatestDataUpdateOfCompany(ctx, uc.executorGetter.GetExecutor(), companyId)
}

// DataSpan reports the company's transaction history coverage: the min and max
// transaction dates plus the stored row count. Dates are nil for companies
// with no history yet.
type DataSpan struct {
	From             *time.Time
	To               *time.Time
	TransactionCount int
}

func (uc AnalyticsUsecase) CompanyDataSpan(ctx context.Context, companyId uuid.UUID) (DataSpan, error) {
	exec := uc.executorGetter.GetExecutor()

	from, to, err := uc.transactionRepository.TransactionDateSpan(ctx, exec, companyId)
	if err != nil {
		return DataSpan{}, err
	}
	count, err := uc.transactionRepository.CountTransactionsOfCompany(ctx, exec, companyId)
	if err != nil {
		return DataSpan{}, err
	}
	return DataSpan{From: from, To: to, TransactionCount: count}, nil
}
