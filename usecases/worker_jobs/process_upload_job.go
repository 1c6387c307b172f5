package worker_jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/Brownbull/ayni-be/models"
	"github.com/Brownbull/ayni-be/utils"

	"github.com/google/uuid"
	"github.com/riverqueue/river"
)

const PROCESS_UPLOAD_TIMEOUT = 1 * time.Hour

type ProcessUploadUsecase interface {
	ProcessUpload(ctx context.Context, uploadId uuid.UUID) (models.UploadResult, error)
	MarkUploadFailed(ctx context.Context, uploadId uuid.UUID, cause error) error
}

type ProcessUploadWorker struct {
	river.WorkerDefaults[models.ProcessUploadArgs]

	processUploadUsecase ProcessUploadUsecase
}

func NewProcessUploadWorker(processUploadUsecase ProcessUploadUsecase) *ProcessUploadWorker {
	return &ProcessUploadWorker{
		processUploadUsecase: processUploadUsecase,
	}
}

func (w *ProcessUploadWorker) Timeout(job *river.Job[models.ProcessUploadArgs]) time.Duration {
	return PROCESS_UPLOAD_TIMEOUT
}

func (w *ProcessUploadWorker) Work(ctx context.Context, job *river.Job[models.ProcessUploadArgs]) error {
	_, err := w.processUploadUsecase.ProcessUpload(ctx, job.Args.UploadId)
	if err == nil {
		return nil
	}
	if models.IsPermanentPipelineError(err) {
		return river.JobCancel(err)
	}
	// transient (persistence) and unclassified errors go back to river for a
	// retry with backoff; the upload stays non-terminal in the meantime, so
	// the retry attempt actually runs the pipeline again. Once the attempts
	// are exhausted the run is closed out as failed.
	if job.Attempt >= job.MaxAttempts {
		if failErr := w.processUploadUsecase.MarkUploadFailed(ctx, job.Args.UploadId, err); failErr != nil {
			utils.LoggerFromContext(ctx).ErrorContext(ctx, fmt.Sprintf(
				"failed to mark upload %s as failed after last attempt: %v", job.Args.UploadId, failErr))
		}
	}
	return err
}
