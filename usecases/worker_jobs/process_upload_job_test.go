package worker_jobs

import (
	"context"
	"testing"

	"github.com/Brownbull/ayni-be/models"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"
	"github.com/stretchr/testify/assert"
)

type stubProcessUploadUsecase struct {
	processErr   error
	markedFailed []uuid.UUID
}

func (s *stubProcessUploadUsecase) ProcessUpload(ctx context.Context, uploadId uuid.UUID) (models.UploadResult, error) {
	if s.processErr != nil {
		return models.UploadResult{}, s.processErr
	}
	return models.UploadResult{Success: true, UploadId: uploadId}, nil
}

func (s *stubProcessUploadUsecase) MarkUploadFailed(ctx context.Context, uploadId uuid.UUID, cause error) error {
	s.markedFailed = append(s.markedFailed, uploadId)
	return nil
}

func processUploadJob(uploadId uuid.UUID, attempt, maxAttempts int) *river.Job[models.ProcessUploadArgs] {
	return &river.Job[models.ProcessUploadArgs]{
		JobRow: &rivertype.JobRow{
			ID:          1,
			Kind:        models.ProcessUploadArgs{}.Kind(),
			Attempt:     attempt,
			MaxAttempts: maxAttempts,
		},
		Args: models.ProcessUploadArgs{UploadId: uploadId},
	}
}

func TestProcessUploadWorker_Work(t *testing.T) {
	ctx := context.Background()
	uploadId := uuid.New()

	t.Run("success", func(t *testing.T) {
		stub := &stubProcessUploadUsecase{}
		worker := NewProcessUploadWorker(stub)

		err := worker.Work(ctx, processUploadJob(uploadId, 1, 3))

		assert.NoError(t, err)
		assert.Empty(t, stub.markedFailed)
	})

	t.Run("transient errors are returned for a retry without failing the upload", func(t *testing.T) {
		stub := &stubProcessUploadUsecase{
			processErr: errors.Join(models.ErrPersistence, errors.New("connection reset")),
		}
		worker := NewProcessUploadWorker(stub)

		err := worker.Work(ctx, processUploadJob(uploadId, 1, 3))

		assert.ErrorIs(t, err, models.ErrPersistence)
		assert.Empty(t, stub.markedFailed)
	})

	t.Run("a transient error on the last attempt closes the upload as failed", func(t *testing.T) {
		stub := &stubProcessUploadUsecase{
			processErr: errors.Join(models.ErrPersistence, errors.New("connection reset")),
		}
		worker := NewProcessUploadWorker(stub)

		err := worker.Work(ctx, processUploadJob(uploadId, 3, 3))

		assert.ErrorIs(t, err, models.ErrPersistence)
		assert.Equal(t, []uuid.UUID{uploadId}, stub.markedFailed)
	})

	t.Run("permanent errors cancel the job without a retry", func(t *testing.T) {
		stub := &stubProcessUploadUsecase{
			processErr: models.DataQualityError{Score: 80, Threshold: 95},
		}
		worker := NewProcessUploadWorker(stub)

		err := worker.Work(ctx, processUploadJob(uploadId, 1, 3))

		assert.Error(t, err)
		assert.Empty(t, stub.markedFailed)
	})
}
