package usecases

import (
	"context"
	"fmt"
	"io"

	"github.com/Brownbull/ayni-be/models"
	"github.com/Brownbull/ayni-be/repositories"
	"github.com/Brownbull/ayni-be/repositories/clock"
	"github.com/Brownbull/ayni-be/utils"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

// UploadUsecase handles upload submission, cancellation and progress polling.
// Processing itself happens in ProcessUploadUsecase, invoked by the task
// queue worker.
type UploadUsecase struct {
	executorGetter      repositories.ExecutorGetter
	uploadRepository    repositories.UploadRepository
	companyRepository   repositories.CompanyRepository
	presetRepository    repositories.ColumnMappingPresetRepository
	blobRepository      repositories.BlobRepository
	taskQueueRepository repositories.TaskQueueRepository
	clock               clock.Clock
	uploadBucketUrl     string
}

// CreateUpload accepts a file for processing. The uploads table carries a
// partial unique index on (company_id) over active statuses, so the insert
// itself is the concurrency gate: no check-then-act.
func (uc UploadUsecase) CreateUpload(ctx context.Context, input models.CreateUploadInput,
	fileReader io.Reader,
) (models.Upload, error) {
	exec := uc.executorGetter.GetExecutor()

	if _, err := uc.companyRepository.CompanyById(ctx, exec, input.CompanyId); err != nil {
		return models.Upload{}, err
	}

	uploadId := uuid.New()
	input.FileKey = fmt.Sprintf("uploads/%s/%s/%s", input.CompanyId, uploadId, input.Filename)

	if err := uc.writeFileToBlobStorage(ctx, input.FileKey, fileReader); err != nil {
		return models.Upload{}, err
	}

	err := uc.executorGetter.Transaction(ctx, func(tx repositories.Transaction) error {
		if err := uc.uploadRepository.CreateUpload(ctx, tx, uploadId, input); err != nil {
			return err
		}
		return uc.taskQueueRepository.EnqueueProcessUploadTask(ctx, tx, input.CompanyId, uploadId)
	})
	if err != nil {
		// best effort: the rejected file has no owning row to find it by
		if deleteErr := uc.blobRepository.DeleteFile(ctx, uc.uploadBucketUrl, input.FileKey); deleteErr != nil {
			utils.LoggerFromContext(ctx).WarnContext(ctx,
				fmt.Sprintf("failed to clean up blob of rejected upload: %v", deleteErr))
		}

		if repositories.IsUniqueViolationError(err) {
			return models.Upload{}, uc.concurrencyConflict(ctx, exec, input.CompanyId)
		}
		return models.Upload{}, err
	}

	return uc.uploadRepository.UploadById(ctx, exec, uploadId)
}

func (uc UploadUsecase) writeFileToBlobStorage(ctx context.Context, fileKey string, fileReader io.Reader) error {
	writer, err := uc.blobRepository.OpenStream(ctx, uc.uploadBucketUrl, fileKey)
	if err != nil {
		return err
	}
	if _, err := io.Copy(writer, fileReader); err != nil {
		writer.Close()
		return errors.Wrap(err, "failed to write uploaded file to blob storage")
	}
	return errors.Wrap(writer.Close(), "failed to finalize uploaded file in blob storage")
}

func (uc UploadUsecase) concurrencyConflict(ctx context.Context, exec repositories.Executor,
	companyId uuid.UUID,
) error {
	activeUpload, err := uc.uploadRepository.ActiveUploadOfCompany(ctx, exec, companyId)
	if err != nil || activeUpload == nil {
		// The blocking run finished between the insert and this read. Report
		// the conflict anyway: the caller should simply retry.
		return models.ErrConcurrentUpload
	}
	return models.ConcurrencyConflictError{ActiveUpload: *activeUpload}
}

// CancelUpload flips an active upload to cancelled. The pipeline observes the
// status between stages and stops honoring further progress updates.
func (uc UploadUsecase) CancelUpload(ctx context.Context, uploadId uuid.UUID) (models.Upload, error) {
	exec := uc.executorGetter.GetExecutor()

	upload, err := uc.uploadRepository.UploadById(ctx, exec, uploadId)
	if err != nil {
		return models.Upload{}, err
	}
	if upload.Status.IsTerminal() {
		return models.Upload{}, errors.Wrapf(models.ErrUploadNotCancellable,
			"upload %s is %s", uploadId, upload.Status)
	}

	now := uc.clock.Now()
	status := models.UploadCancelled
	err = uc.uploadRepository.UpdateUpload(ctx, exec, models.UpdateUploadInput{
		Id:          uploadId,
		Status:      &status,
		CompletedAt: &now,
	})
	if err != nil {
		return models.Upload{}, err
	}
	return uc.uploadRepository.UploadById(ctx, exec, uploadId)
}

func (uc UploadUsecase) GetUpload(ctx context.Context, uploadId uuid.UUID) (models.Upload, error) {
	return uc.uploadRepository.UploadById(ctx, uc.executorGetter.GetExecutor(), uploadId)
}

func (uc UploadUsecase) ListUploads(ctx context.Context, companyId uuid.UUID) ([]models.Upload, error) {
	return uc.uploadRepository.AllUploadsOfCompany(ctx, uc.executorGetter.GetExecutor(), companyId)
}

// SaveColumnMappingPreset stores a reusable mapping. Setting it as default
// demotes the previous default in the same transaction.
func (uc UploadUsecase) SaveColumnMappingPreset(ctx context.Context,
	preset models.ColumnMappingPreset,
) error {
	if preset.Id == uuid.Nil {
		preset.Id = uuid.New()
	}
	return uc.executorGetter.Transaction(ctx, func(tx repositories.Transaction) error {
		if preset.IsDefault {
			if err := uc.presetRepository.ClearDefaultColumnMappingPreset(ctx, tx, preset.CompanyId); err != nil {
				return err
			}
		}
		return uc.presetRepository.SaveColumnMappingPreset(ctx, tx, preset)
	})
}

func (uc UploadUsecase) ListColumnMappingPresets(ctx context.Context,
	companyId uuid.UUID,
) ([]models.ColumnMappingPreset, error) {
	return uc.presetRepository.AllColumnMappingPresetsOfCompany(ctx, uc.executorGetter.GetExecutor(), companyId)
}

func (uc UploadUsecase) DefaultColumnMappingPreset(ctx context.Context,
	companyId uuid.UUID,
) (*models.ColumnMappingPreset, error) {
	return uc.presetRepository.DefaultColumnMappingPreset(ctx, uc.executorGetter.GetExecutor(), companyId)
}
