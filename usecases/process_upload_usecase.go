package usecases

import (
	"context"
	"fmt"

	"github.com/Brownbull/ayni-be/models"
	"github.com/Brownbull/ayni-be/repositories"
	"github.com/Brownbull/ayni-be/repositories/clock"
	"github.com/Brownbull/ayni-be/usecases/aggregation"
	"github.com/Brownbull/ayni-be/usecases/ingestion"
	"github.com/Brownbull/ayni-be/usecases/notify"
	"github.com/Brownbull/ayni-be/usecases/tracking"
	"github.com/Brownbull/ayni-be/utils"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

// ProcessUploadUsecase runs the whole pipeline for one upload: load, validate,
// preprocess with the quality gate, aggregate, persist, track, finalize. It is
// invoked by the task queue worker, one synchronous run per upload.
type ProcessUploadUsecase struct {
	executorGetter        repositories.ExecutorGetter
	uploadRepository      repositories.UploadRepository
	transactionRepository repositories.TransactionRepository
	aggregationRepository repositories.AggregationRepository
	dataUpdateRepository  repositories.DataUpdateRepository
	blobRepository        repositories.BlobRepository
	loader                ingestion.CsvLoader
	validator             ingestion.SchemaValidator
	preprocessor          ingestion.Preprocessor
	engine                aggregation.Engine
	notifier              notify.Notifier
	clock                 clock.Clock
	uploadBucketUrl       string
}

func (uc ProcessUploadUsecase) ProcessUpload(ctx context.Context, uploadId uuid.UUID) (models.UploadResult, error) {
	logger := utils.LoggerFromContext(ctx)
	exec := uc.executorGetter.GetExecutor()

	upload, err := uc.uploadRepository.UploadById(ctx, exec, uploadId)
	if err != nil {
		return models.UploadResult{}, err
	}
	if upload.Status.IsTerminal() {
		logger.InfoContext(ctx, fmt.Sprintf("upload %s is already %s, nothing to do",
			uploadId, upload.Status))
		return models.UploadResult{UploadId: uploadId}, nil
	}

	if err := uc.startRun(ctx, exec, uploadId); err != nil {
		return models.UploadResult{}, err
	}

	// Load
	table, err := uc.loadTable(ctx, upload)
	if err != nil {
		return models.UploadResult{}, uc.failRun(ctx, exec, uploadId, err)
	}
	originalRows := table.NumRows()
	if err := uc.advance(ctx, exec, uploadId, models.ProgressLoaded,
		models.UpdateUploadInput{Id: uploadId, OriginalRows: &originalRows}); err != nil {
		return models.UploadResult{}, err
	}

	// Validate
	if cancelled, err := uc.runCancelled(ctx, exec, uploadId); cancelled || err != nil {
		return models.UploadResult{UploadId: uploadId}, err
	}
	if err := uc.validator.Validate(table); err != nil {
		return models.UploadResult{}, uc.failRun(ctx, exec, uploadId, err)
	}
	for _, warning := range uc.validator.BusinessRuleWarnings(table) {
		logger.WarnContext(ctx, fmt.Sprintf("business rule warning: %s", warning),
			"upload_id", uploadId)
	}
	if err := uc.advance(ctx, exec, uploadId, models.ProgressValidated,
		models.UpdateUploadInput{Id: uploadId}); err != nil {
		return models.UploadResult{}, err
	}

	// Preprocess + quality gate
	if cancelled, err := uc.runCancelled(ctx, exec, uploadId); cancelled || err != nil {
		return models.UploadResult{UploadId: uploadId}, err
	}
	preprocessed, err := uc.preprocessor.Preprocess(ctx, table, upload.CompanyId, uploadId)
	if err != nil {
		return models.UploadResult{}, uc.failRun(ctx, exec, uploadId, err)
	}
	processing := models.UploadProcessing
	processedRows := len(preprocessed.Transactions)
	if err := uc.advance(ctx, exec, uploadId, models.ProgressPreprocessed, models.UpdateUploadInput{
		Id:            uploadId,
		Status:        &processing,
		ProcessedRows: &processedRows,
		ErrorRows:     &preprocessed.ErrorRows,
	}); err != nil {
		return models.UploadResult{}, err
	}

	// Aggregate, persist, track
	if cancelled, err := uc.runCancelled(ctx, exec, uploadId); cancelled || err != nil {
		return models.UploadResult{UploadId: uploadId}, err
	}
	if err := uc.advance(ctx, exec, uploadId, models.ProgressAggregated,
		models.UpdateUploadInput{Id: uploadId}); err != nil {
		return models.UploadResult{}, err
	}
	record, err := uc.persistRun(ctx, upload, preprocessed.Transactions)
	if err != nil {
		return models.UploadResult{}, uc.failRun(ctx, exec, uploadId, err)
	}
	// a cancel request may have landed while the transaction was running; the
	// committed data stays, but the run must not come out as completed
	if cancelled, err := uc.runCancelled(ctx, exec, uploadId); cancelled || err != nil {
		return models.UploadResult{UploadId: uploadId}, err
	}
	if err := uc.advance(ctx, exec, uploadId, models.ProgressPersisted,
		models.UpdateUploadInput{Id: uploadId}); err != nil {
		return models.UploadResult{}, err
	}

	// Finalize
	result := models.UploadResult{
		Success:          true,
		UploadId:         uploadId,
		RowsProcessed:    processedRows,
		DataQualityScore: preprocessed.Quality.Score,
		LevelCounts:      levelCountsAfter(record),
	}
	if err := uc.finalizeRun(ctx, exec, uploadId, result); err != nil {
		return models.UploadResult{}, err
	}
	return result, nil
}

func (uc ProcessUploadUsecase) startRun(ctx context.Context, exec repositories.Executor,
	uploadId uuid.UUID,
) error {
	now := uc.clock.Now()
	validating := models.UploadValidating
	progress := models.ProgressStarted
	err := uc.uploadRepository.UpdateUpload(ctx, exec, models.UpdateUploadInput{
		Id:                 uploadId,
		Status:             &validating,
		StartedAt:          &now,
		ProgressPercentage: &progress,
	})
	if err != nil {
		return err
	}
	uc.notifier.Notify(ctx, notify.Notification{
		Type:     notify.NotificationStatus,
		UploadId: uploadId,
		Payload:  map[string]any{"status": validating},
	})
	return nil
}

func (uc ProcessUploadUsecase) loadTable(ctx context.Context, upload models.Upload) (models.SourceTable, error) {
	file, err := uc.blobRepository.GetBlob(ctx, uc.uploadBucketUrl, upload.FileKey)
	if err != nil {
		return models.SourceTable{}, errors.Join(models.ErrCsvLoad, err)
	}
	defer file.ReadCloser.Close()
	return uc.loader.Load(file.ReadCloser, upload.ColumnMapping)
}

// persistRun writes raw rows, aggregation buckets and the audit record in one
// transaction, wrapped with the tracker's before/after snapshots. Any failure
// is a transient persistence error: upserts are idempotent, so the whole run
// is safe to retry.
func (uc ProcessUploadUsecase) persistRun(ctx context.Context, upload models.Upload,
	batch []models.CanonicalTransaction,
) (models.DataUpdate, error) {
	var record models.DataUpdate
	tracker := tracking.NewUpdateTracker(uc.snapshotRepository(), uc.clock, upload.CompanyId)

	err := uc.executorGetter.Transaction(ctx, func(tx repositories.Transaction) error {
		if err := tracker.SnapshotBefore(ctx, tx); err != nil {
			return err
		}

		if err := uc.transactionRepository.InsertTransactions(ctx, tx, batch); err != nil {
			return errors.Join(models.ErrPersistence, err)
		}

		buckets := uc.engine.BuildTimeBuckets(upload.CompanyId, batch)
		history, err := uc.transactionRepository.AllTransactionsOfCompany(ctx, tx, upload.CompanyId)
		if err != nil {
			return errors.Join(models.ErrPersistence, err)
		}
		buckets = append(buckets, uc.engine.BuildDimensionalBuckets(upload.CompanyId, history)...)
		if err := uc.aggregationRepository.UpsertAggregationBuckets(ctx, tx, buckets); err != nil {
			return errors.Join(models.ErrPersistence, err)
		}

		if err := tracker.SnapshotAfter(ctx, tx); err != nil {
			return err
		}
		record, err = tracker.BuildRecord(tracking.RecordParams{
			UploadId:       upload.Id,
			UserId:         upload.UserId,
			UploadFilename: upload.Filename,
			Batch:          batch,
		})
		if err != nil {
			return err
		}
		if err := uc.dataUpdateRepository.CreateDataUpdate(ctx, tx, record); err != nil {
			return errors.Join(models.ErrPersistence, err)
		}
		return nil
	})
	return record, err
}

type trackerSnapshotRepository struct {
	transactionRepository repositories.TransactionRepository
	aggregationRepository repositories.AggregationRepository
}

func (r trackerSnapshotRepository) CountTransactionsOfCompany(ctx context.Context,
	exec repositories.Executor, companyId uuid.UUID,
) (int, error) {
	return r.transactionRepository.CountTransactionsOfCompany(ctx, exec, companyId)
}

func (r trackerSnapshotRepository) CountBucketsByType(ctx context.Context,
	exec repositories.Executor, companyId uuid.UUID,
) (map[models.BucketType]int, error) {
	return r.aggregationRepository.CountBucketsByType(ctx, exec, companyId)
}

func (uc ProcessUploadUsecase) snapshotRepository() trackerSnapshotRepository {
	return trackerSnapshotRepository{
		transactionRepository: uc.transactionRepository,
		aggregationRepository: uc.aggregationRepository,
	}
}

// runCancelled observes an external cancel request between stages. In-flight
// work is never interrupted; the pipeline just stops advancing.
func (uc ProcessUploadUsecase) runCancelled(ctx context.Context, exec repositories.Executor,
	uploadId uuid.UUID,
) (bool, error) {
	upload, err := uc.uploadRepository.UploadById(ctx, exec, uploadId)
	if err != nil {
		return false, err
	}
	if upload.Status == models.UploadCancelled {
		utils.LoggerFromContext(ctx).InfoContext(ctx,
			fmt.Sprintf("upload %s was cancelled, stopping pipeline", uploadId))
		return true, nil
	}
	return false, nil
}

func (uc ProcessUploadUsecase) advance(ctx context.Context, exec repositories.Executor,
	uploadId uuid.UUID, progress int, input models.UpdateUploadInput,
) error {
	input.ProgressPercentage = &progress
	if err := uc.uploadRepository.UpdateUpload(ctx, exec, input); err != nil {
		return err
	}
	uc.notifier.Notify(ctx, notify.Notification{
		Type:     notify.NotificationProgress,
		UploadId: uploadId,
		Payload:  map[string]any{"progress": progress},
	})
	return nil
}

func (uc ProcessUploadUsecase) finalizeRun(ctx context.Context, exec repositories.Executor,
	uploadId uuid.UUID, result models.UploadResult,
) error {
	now := uc.clock.Now()
	completed := models.UploadCompleted
	progress := models.ProgressDone
	err := uc.uploadRepository.UpdateUpload(ctx, exec, models.UpdateUploadInput{
		Id:                 uploadId,
		Status:             &completed,
		ProgressPercentage: &progress,
		CompletedAt:        &now,
	})
	if err != nil {
		return err
	}
	uc.notifier.Notify(ctx, notify.Notification{
		Type:     notify.NotificationComplete,
		UploadId: uploadId,
		Payload: map[string]any{
			"rows_processed":     result.RowsProcessed,
			"data_quality_score": result.DataQualityScore,
		},
	})
	return nil
}

// failRun stores the error on the run, emits a failure notification, and
// passes the typed error through for the worker to classify. Only permanent
// failures flip the run to the terminal failed status: a transient failure
// keeps its current status so the task queue retry can process the upload
// again instead of hitting the terminal-status short-circuit.
func (uc ProcessUploadUsecase) failRun(ctx context.Context, exec repositories.Executor,
	uploadId uuid.UUID, runErr error,
) error {
	if models.IsPermanentPipelineError(runErr) {
		_ = uc.markFailed(ctx, exec, uploadId, runErr)
		return runErr
	}
	message := runErr.Error()
	err := uc.uploadRepository.UpdateUpload(ctx, exec, models.UpdateUploadInput{
		Id:           uploadId,
		ErrorMessage: &message,
	})
	if err != nil {
		utils.LoggerFromContext(ctx).ErrorContext(ctx,
			fmt.Sprintf("failed to record error on upload %s: %v", uploadId, err))
	}
	uc.notifier.Notify(ctx, notify.Notification{
		Type:     notify.NotificationError,
		UploadId: uploadId,
		Payload:  map[string]any{"error": message, "retryable": true},
	})
	return runErr
}

// MarkUploadFailed flips the upload to the terminal failed status. The worker
// calls it when a transient error has exhausted its retry attempts.
func (uc ProcessUploadUsecase) MarkUploadFailed(ctx context.Context, uploadId uuid.UUID, cause error) error {
	return uc.markFailed(ctx, uc.executorGetter.GetExecutor(), uploadId, cause)
}

func (uc ProcessUploadUsecase) markFailed(ctx context.Context, exec repositories.Executor,
	uploadId uuid.UUID, cause error,
) error {
	now := uc.clock.Now()
	failed := models.UploadFailed
	message := cause.Error()
	err := uc.uploadRepository.UpdateUpload(ctx, exec, models.UpdateUploadInput{
		Id:           uploadId,
		Status:       &failed,
		ErrorMessage: &message,
		CompletedAt:  &now,
	})
	if err != nil {
		utils.LoggerFromContext(ctx).ErrorContext(ctx,
			fmt.Sprintf("failed to mark upload %s as failed: %v", uploadId, err))
		return err
	}
	uc.notifier.Notify(ctx, notify.Notification{
		Type:     notify.NotificationError,
		UploadId: uploadId,
		Payload:  map[string]any{"error": message},
	})
	return nil
}

func levelCountsAfter(record models.DataUpdate) map[string]int {
	counts := make(map[string]int, len(record.Summary.ByLevel))
	for level, stats := range record.Summary.ByLevel {
		counts[level] = stats.RowsAfter
	}
	return counts
}
