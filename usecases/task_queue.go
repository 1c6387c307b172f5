package usecases

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Brownbull/ayni-be/repositories"
	"github.com/Brownbull/ayni-be/utils"

	"github.com/avast/retry-go/v4"
	"github.com/jackc/pgx/v5"
	"github.com/riverqueue/river"
)

const (
	numberWorkersPerQueue = 2
)

// TaskQueueWorker keeps one river queue per company alive: uploads of
// different companies process concurrently, while river's queue serialization
// plus the submission gate keep each company down to one run at a time.
type TaskQueueWorker struct {
	executorGetter    repositories.ExecutorGetter
	companyRepository repositories.CompanyRepository
	riverClient       *river.Client[pgx.Tx]
	mu                *sync.Mutex
}

func NewTaskQueueWorker(
	executorGetter repositories.ExecutorGetter,
	companyRepository repositories.CompanyRepository,
	riverClient *river.Client[pgx.Tx],
) *TaskQueueWorker {
	return &TaskQueueWorker{
		executorGetter:    executorGetter,
		companyRepository: companyRepository,
		riverClient:       riverClient,
		mu:                &sync.Mutex{},
	}
}

func (w *TaskQueueWorker) RefreshQueuesFromCompanyIds(ctx context.Context) {
	logger := utils.LoggerFromContext(ctx)
	refreshCompanies := func() error {
		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		companies, err := w.companyRepository.AllCompanies(ctx, w.executorGetter.GetExecutor())
		if err != nil {
			return err
		}
		queues := make(map[string]river.QueueConfig, len(companies))
		for _, company := range companies {
			queues[company.Id.String()] = river.QueueConfig{
				MaxWorkers: numberWorkersPerQueue,
			}
		}
		return w.addMissingQueues(ctx, queues)
	}

	for {
		time.Sleep(1 * time.Minute)
		err := retry.Do(refreshCompanies,
			retry.Attempts(3),
			retry.LastErrorOnly(true),
			retry.OnRetry(func(n uint, err error) {
				logger.WarnContext(ctx, "Error occurred while refreshing queue list from company ids, retry: "+err.Error())
			}),
		)
		if err != nil {
			panic(err)
		}
	}
}

func (w *TaskQueueWorker) addMissingQueues(ctx context.Context, queues map[string]river.QueueConfig) error {
	logger := utils.LoggerFromContext(ctx)
	w.mu.Lock()
	defer w.mu.Unlock()

	resp, err := w.riverClient.QueueList(ctx, nil)
	if err != nil {
		return err
	}
	existingQueues := make(map[string]struct{}, len(resp.Queues))
	for _, q := range resp.Queues {
		existingQueues[q.Name] = struct{}{}
	}

	for companyId, q := range queues {
		if _, ok := existingQueues[companyId]; !ok {
			if err := w.riverClient.Queues().Add(companyId, q); err != nil {
				return err
			}
			logger.InfoContext(ctx, fmt.Sprintf("Added queue for company %s to task queue worker", companyId))
		}
	}
	return nil
}

// QueuesFromCompanies builds the initial river queue map, one queue per known
// company.
func QueuesFromCompanies(ctx context.Context, companyRepository repositories.CompanyRepository,
	executorGetter repositories.ExecutorGetter,
) (map[string]river.QueueConfig, error) {
	companies, err := companyRepository.AllCompanies(ctx, executorGetter.GetExecutor())
	if err != nil {
		return nil, err
	}
	queues := make(map[string]river.QueueConfig, len(companies))
	for _, company := range companies {
		queues[company.Id.String()] = river.QueueConfig{
			MaxWorkers: numberWorkersPerQueue,
		}
	}
	return queues, nil
}
