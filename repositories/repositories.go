package repositories

import (
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
)

// AyniDbRepository groups every Postgres-backed repository method. Methods
// are spread over the *_repository.go files of this package.
type AyniDbRepository struct{}

type Repositories struct {
	ExecutorGetter                ExecutorGetter
	BlobRepository                BlobRepository
	TaskQueueRepository           TaskQueueRepository
	CompanyRepository             CompanyRepository
	UploadRepository              UploadRepository
	TransactionRepository         TransactionRepository
	AggregationRepository         AggregationRepository
	DataUpdateRepository          DataUpdateRepository
	ColumnMappingPresetRepository ColumnMappingPresetRepository
}

type Option func(*options)

type options struct {
	riverClient *river.Client[pgx.Tx]
}

func WithRiverClient(client *river.Client[pgx.Tx]) Option {
	return func(o *options) {
		o.riverClient = client
	}
}

func NewRepositories(pool *pgxpool.Pool, opts ...Option) Repositories {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	executorGetter := NewExecutorGetter(pool)
	ayniDbRepository := &AyniDbRepository{}

	var taskQueueRepository TaskQueueRepository
	if o.riverClient != nil {
		taskQueueRepository = NewTaskQueueRepository(o.riverClient)
	}

	return Repositories{
		ExecutorGetter:                executorGetter,
		BlobRepository:                NewBlobRepository(),
		TaskQueueRepository:           taskQueueRepository,
		CompanyRepository:             ayniDbRepository,
		UploadRepository:              ayniDbRepository,
		TransactionRepository:         ayniDbRepository,
		AggregationRepository:         ayniDbRepository,
		DataUpdateRepository:          ayniDbRepository,
		ColumnMappingPresetRepository: ayniDbRepository,
	}
}
