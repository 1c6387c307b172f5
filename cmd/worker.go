package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Brownbull/ayni-be/infra"
	"github.com/Brownbull/ayni-be/jobs"
	"github.com/Brownbull/ayni-be/repositories"
	"github.com/Brownbull/ayni-be/usecases"
	"github.com/Brownbull/ayni-be/usecases/worker_jobs"
	"github.com/Brownbull/ayni-be/utils"

	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivertype"
)

// RunWorker starts the task queue worker that processes uploads. One river
// queue per company, refreshed periodically as companies are created.
func RunWorker() error {
	pgConfig := pgConfigFromEnv()
	workerConfig := struct {
		uploadBucketUrl string
		loggingFormat   string
	}{
		uploadBucketUrl: utils.GetRequiredEnv[string]("UPLOAD_BUCKET_URL"),
		loggingFormat:   utils.GetEnv("LOGGING_FORMAT", "text"),
	}

	logger := utils.NewLogger(workerConfig.loggingFormat)
	ctx := utils.StoreLoggerInContext(context.Background(), logger)

	pool, err := infra.NewPostgresConnectionPool(ctx, pgConfig.GetConnectionString(),
		pgConfig.MaxPoolConnections)
	if err != nil {
		return err
	}

	// First, create an insert-only client to pass to the repos. Later we create
	// another client with the list of queues (company ids), but we need working
	// repos first: river uses the same client type for job insertion and job
	// running.
	riverClient, err := river.NewClient(riverpgxv5.New(pool), &river.Config{})
	if err != nil {
		return err
	}

	repos := repositories.NewRepositories(pool, repositories.WithRiverClient(riverClient))

	workers := river.NewWorkers()
	queues, err := usecases.QueuesFromCompanies(ctx, repos.CompanyRepository, repos.ExecutorGetter)
	if err != nil {
		return err
	}
	riverClient, err = river.NewClient(riverpgxv5.New(pool), &river.Config{
		FetchPollInterval: 500 * time.Millisecond,
		Queues:            queues,

		// Must be larger than the time it takes to process a job.
		RescueStuckJobsAfter: 2 * worker_jobs.PROCESS_UPLOAD_TIMEOUT,
		WorkerMiddleware: []rivertype.WorkerMiddleware{
			jobs.NewLoggerMiddleware(logger),
			jobs.NewRecovererMiddleware(),
		},
		Workers: workers,
	})
	if err != nil {
		return err
	}

	// recreate the repos with the now queue-aware client so enqueues and
	// worker share one instance
	repos = repositories.NewRepositories(pool, repositories.WithRiverClient(riverClient))
	uc := usecases.NewUsecases(repos, usecases.WithUploadBucketUrl(workerConfig.uploadBucketUrl))

	river.AddWorker(workers, uc.NewProcessUploadWorker())

	if err := riverClient.Start(ctx); err != nil {
		return err
	}

	queueRefresher := usecases.NewTaskQueueWorker(repos.ExecutorGetter, repos.CompanyRepository, riverClient)
	go queueRefresher.RefreshQueuesFromCompanyIds(ctx)

	sigintOrTerm := make(chan os.Signal, 1)
	signal.Notify(sigintOrTerm, syscall.SIGINT, syscall.SIGTERM)
	<-sigintOrTerm

	logger.InfoContext(ctx, "Received SIGINT/SIGTERM; initiating soft stop (pass signal again to force)")
	softStopCtx, softStopCtxCancel := context.WithTimeout(ctx, 30*time.Second)
	defer softStopCtxCancel()

	go func() {
		<-sigintOrTerm
		logger.InfoContext(ctx, "Received SIGINT/SIGTERM again; forcing stop")
		softStopCtxCancel()
	}()

	if err := riverClient.Stop(softStopCtx); err != nil {
		return err
	}
	logger.InfoContext(ctx, "Task queue worker stopped")
	return nil
}
