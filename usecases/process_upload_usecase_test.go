package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/Brownbull/ayni-be/models"
	"github.com/Brownbull/ayni-be/repositories"
	"github.com/Brownbull/ayni-be/repositories/clock"
	"github.com/Brownbull/ayni-be/usecases/notify"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUploadRepository struct {
	uploads map[uuid.UUID]models.Upload
	updates []models.UpdateUploadInput
}

func newFakeUploadRepository(uploads ...models.Upload) *fakeUploadRepository {
	repo := &fakeUploadRepository{uploads: make(map[uuid.UUID]models.Upload)}
	for _, upload := range uploads {
		repo.uploads[upload.Id] = upload
	}
	return repo
}

func (r *fakeUploadRepository) CreateUpload(ctx context.Context, exec repositories.Executor,
	uploadId uuid.UUID, input models.CreateUploadInput,
) error {
	return nil
}

func (r *fakeUploadRepository) UpdateUpload(ctx context.Context, exec repositories.Executor,
	input models.UpdateUploadInput,
) error {
	r.updates = append(r.updates, input)
	upload, ok := r.uploads[input.Id]
	if !ok {
		return nil
	}
	if upload.Status.IsTerminal() {
		// mirrors the store: terminal rows are never overwritten
		return nil
	}
	if input.Status != nil {
		upload.Status = *input.Status
	}
	if input.ErrorMessage != nil {
		upload.ErrorMessage = input.ErrorMessage
	}
	r.uploads[input.Id] = upload
	return nil
}

func (r *fakeUploadRepository) UploadById(ctx context.Context, exec repositories.Executor,
	uploadId uuid.UUID,
) (models.Upload, error) {
	upload, ok := r.uploads[uploadId]
	if !ok {
		return models.Upload{}, errors.Wrapf(models.ErrUploadNotFound, "upload %s", uploadId)
	}
	return upload, nil
}

func (r *fakeUploadRepository) ActiveUploadOfCompany(ctx context.Context, exec repositories.Executor,
	companyId uuid.UUID,
) (*models.Upload, error) {
	return nil, nil
}

func (r *fakeUploadRepository) AllUploadsOfCompany(ctx context.Context, exec repositories.Executor,
	companyId uuid.UUID,
) ([]models.Upload, error) {
	return nil, nil
}

func (r *fakeUploadRepository) lastStatusUpdate() *models.UploadStatus {
	for i := len(r.updates) - 1; i >= 0; i-- {
		if r.updates[i].Status != nil {
			return r.updates[i].Status
		}
	}
	return nil
}

func TestProcessUploadUsecase_FailRun(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	uploadId := uuid.New()

	newUsecase := func(repo *fakeUploadRepository) ProcessUploadUsecase {
		return ProcessUploadUsecase{
			uploadRepository: repo,
			notifier:         notify.SlogNotifier{},
			clock:            clock.NewMock(now),
		}
	}

	t.Run("a transient failure keeps the upload retryable", func(t *testing.T) {
		repo := newFakeUploadRepository(models.Upload{Id: uploadId, Status: models.UploadProcessing})
		uc := newUsecase(repo)

		runErr := errors.Join(models.ErrPersistence, errors.New("connection reset"))
		err := uc.failRun(ctx, nil, uploadId, runErr)

		assert.ErrorIs(t, err, models.ErrPersistence)
		assert.Nil(t, repo.lastStatusUpdate())
		upload := repo.uploads[uploadId]
		assert.Equal(t, models.UploadProcessing, upload.Status)
		assert.False(t, upload.Status.IsTerminal())
		require.NotNil(t, upload.ErrorMessage)
		assert.Contains(t, *upload.ErrorMessage, "connection reset")
	})

	t.Run("a quality gate failure is terminal", func(t *testing.T) {
		repo := newFakeUploadRepository(models.Upload{Id: uploadId, Status: models.UploadValidating})
		uc := newUsecase(repo)

		runErr := models.DataQualityError{Score: 80, Threshold: 95}
		err := uc.failRun(ctx, nil, uploadId, runErr)

		assert.ErrorIs(t, err, models.ErrDataQuality)
		status := repo.lastStatusUpdate()
		require.NotNil(t, status)
		assert.Equal(t, models.UploadFailed, *status)
		assert.Equal(t, models.UploadFailed, repo.uploads[uploadId].Status)
	})

	t.Run("exhausted retries close the upload as failed", func(t *testing.T) {
		repo := newFakeUploadRepository(models.Upload{Id: uploadId, Status: models.UploadProcessing})
		uc := newUsecase(repo)

		err := uc.MarkUploadFailed(ctx, uploadId, models.ErrPersistence)

		assert.NoError(t, err)
		assert.Equal(t, models.UploadFailed, repo.uploads[uploadId].Status)
		require.Len(t, repo.updates, 1)
		assert.NotNil(t, repo.updates[0].CompletedAt)
	})

	t.Run("the retry attempt runs the pipeline instead of short-circuiting", func(t *testing.T) {
		repo := newFakeUploadRepository(models.Upload{Id: uploadId, Status: models.UploadProcessing})
		uc := newUsecase(repo)

		_ = uc.failRun(ctx, nil, uploadId, errors.Join(models.ErrPersistence, errors.New("timeout")))

		upload, err := repo.UploadById(ctx, nil, uploadId)
		require.NoError(t, err)
		assert.False(t, upload.Status.IsTerminal())
	})
}
