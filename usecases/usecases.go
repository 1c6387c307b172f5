package usecases

import (
	"github.com/Brownbull/ayni-be/models"
	"github.com/Brownbull/ayni-be/repositories"
	"github.com/Brownbull/ayni-be/repositories/clock"
	"github.com/Brownbull/ayni-be/usecases/aggregation"
	"github.com/Brownbull/ayni-be/usecases/ingestion"
	"github.com/Brownbull/ayni-be/usecases/notify"
	"github.com/Brownbull/ayni-be/usecases/worker_jobs"
)

type Usecases struct {
	Repositories repositories.Repositories

	uploadBucketUrl string
	qualityConfig   models.QualityConfig
	clock           clock.Clock
	notifier        notify.Notifier
}

type options struct {
	uploadBucketUrl string
	qualityConfig   *models.QualityConfig
	clock           clock.Clock
	notifier        notify.Notifier
}

type Option func(*options)

func WithUploadBucketUrl(bucket string) Option {
	return func(o *options) {
		o.uploadBucketUrl = bucket
	}
}

func WithQualityConfig(config models.QualityConfig) Option {
	return func(o *options) {
		o.qualityConfig = &config
	}
}

func WithClock(c clock.Clock) Option {
	return func(o *options) {
		o.clock = c
	}
}

func WithNotifier(notifier notify.Notifier) Option {
	return func(o *options) {
		o.notifier = notifier
	}
}

func NewUsecases(repos repositories.Repositories, opts ...Option) Usecases {
	o := &options{
		qualityConfig: nil,
		clock:         clock.New(),
		notifier:      notify.SlogNotifier{},
	}
	for _, opt := range opts {
		opt(o)
	}

	qualityConfig := models.DefaultQualityConfig()
	if o.qualityConfig != nil {
		qualityConfig = *o.qualityConfig
	}

	return Usecases{
		Repositories:    repos,
		uploadBucketUrl: o.uploadBucketUrl,
		qualityConfig:   qualityConfig,
		clock:           o.clock,
		notifier:        o.notifier,
	}
}

func (usecases Usecases) NewUploadUsecase() UploadUsecase {
	return UploadUsecase{
		executorGetter:      usecases.Repositories.ExecutorGetter,
		uploadRepository:    usecases.Repositories.UploadRepository,
		companyRepository:   usecases.Repositories.CompanyRepository,
		presetRepository:    usecases.Repositories.ColumnMappingPresetRepository,
		blobRepository:      usecases.Repositories.BlobRepository,
		taskQueueRepository: usecases.Repositories.TaskQueueRepository,
		clock:               usecases.clock,
		uploadBucketUrl:     usecases.uploadBucketUrl,
	}
}

func (usecases Usecases) NewProcessUploadUsecase() ProcessUploadUsecase {
	schema := models.CanonicalTransactionSchema()
	scorer := ingestion.NewQualityScorer(schema, usecases.qualityConfig, usecases.clock)

	return ProcessUploadUsecase{
		executorGetter:        usecases.Repositories.ExecutorGetter,
		uploadRepository:      usecases.Repositories.UploadRepository,
		transactionRepository: usecases.Repositories.TransactionRepository,
		aggregationRepository: usecases.Repositories.AggregationRepository,
		dataUpdateRepository:  usecases.Repositories.DataUpdateRepository,
		blobRepository:        usecases.Repositories.BlobRepository,
		loader:                ingestion.CsvLoader{},
		validator:             ingestion.NewSchemaValidator(schema),
		preprocessor:          ingestion.NewPreprocessor(scorer, usecases.qualityConfig, schema),
		engine:                aggregation.Engine{},
		notifier:              usecases.notifier,
		clock:                 usecases.clock,
		uploadBucketUrl:       usecases.uploadBucketUrl,
	}
}

func (usecases Usecases) NewProcessUploadWorker() *worker_jobs.ProcessUploadWorker {
	uc := usecases.NewProcessUploadUsecase()
	return worker_jobs.NewProcessUploadWorker(uc)
}
