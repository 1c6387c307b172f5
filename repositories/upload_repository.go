package repositories

import (
	"context"
	"encoding/json"

	"github.com/Brownbull/ayni-be/models"
	"github.com/Brownbull/ayni-be/pure_utils"
	"github.com/Brownbull/ayni-be/repositories/dbmodels"

	"github.com/Masterminds/squirrel"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

type UploadRepository interface {
	CreateUpload(ctx context.Context, exec Executor, uploadId uuid.UUID, input models.CreateUploadInput) error
	UpdateUpload(ctx context.Context, exec Executor, input models.UpdateUploadInput) error
	UploadById(ctx context.Context, exec Executor, uploadId uuid.UUID) (models.Upload, error)
	ActiveUploadOfCompany(ctx context.Context, exec Executor, companyId uuid.UUID) (*models.Upload, error)
	AllUploadsOfCompany(ctx context.Context, exec Executor, companyId uuid.UUID) ([]models.Upload, error)
}

// CreateUpload inserts a new pending upload. The partial unique index on
// active uploads makes the insert fail with a unique violation while another
// upload of the same company is still in flight.
func (repo *AyniDbRepository) CreateUpload(ctx context.Context, exec Executor,
	uploadId uuid.UUID, input models.CreateUploadInput,
) error {
	columnMapping, err := json.Marshal(input.ColumnMapping)
	if err != nil {
		return errors.Wrap(err, "failed to marshal column mapping")
	}

	return ExecBuilder(
		ctx,
		exec,
		NewQueryBuilder().
			Insert(dbmodels.TABLE_UPLOADS).
			Columns(
				"id",
				"company_id",
				"user_id",
				"filename",
				"file_key",
				"file_size",
				"status",
				"column_mapping",
			).
			Values(
				uploadId,
				input.CompanyId,
				input.UserId,
				input.Filename,
				input.FileKey,
				input.FileSize,
				models.UploadPending,
				columnMapping,
			),
	)
}

func (repo *AyniDbRepository) UpdateUpload(ctx context.Context, exec Executor,
	input models.UpdateUploadInput,
) error {
	updateRequest := NewQueryBuilder().Update(dbmodels.TABLE_UPLOADS)

	if input.Status != nil {
		updateRequest = updateRequest.Set("status", *input.Status)
	}
	if input.OriginalRows != nil {
		updateRequest = updateRequest.Set("original_rows", *input.OriginalRows)
	}
	if input.ProcessedRows != nil {
		updateRequest = updateRequest.Set("processed_rows", *input.ProcessedRows)
	}
	if input.UpdatedRows != nil {
		updateRequest = updateRequest.Set("updated_rows", *input.UpdatedRows)
	}
	if input.ErrorRows != nil {
		updateRequest = updateRequest.Set("error_rows", *input.ErrorRows)
	}
	if input.ProgressPercentage != nil {
		updateRequest = updateRequest.Set("progress_percentage", *input.ProgressPercentage)
	}
	if input.ErrorMessage != nil {
		updateRequest = updateRequest.Set("error_message", *input.ErrorMessage)
	}
	if input.StartedAt != nil {
		updateRequest = updateRequest.Set("started_at", *input.StartedAt)
	}
	if input.CompletedAt != nil {
		updateRequest = updateRequest.Set("completed_at", *input.CompletedAt)
	}

	// terminal rows stay as they are: a completed, failed or cancelled upload
	// is never overwritten, even when a racing pipeline stage tries to
	return ExecBuilder(ctx, exec, updateRequest.
		Where(squirrel.Eq{"id": input.Id}).
		Where(squirrel.Eq{"status": activeUploadStatuses()}))
}

func activeUploadStatuses() []string {
	return pure_utils.Map(
		[]models.UploadStatus{
			models.UploadPending,
			models.UploadValidating,
			models.UploadProcessing,
		},
		func(s models.UploadStatus) string { return string(s) },
	)
}

func (repo *AyniDbRepository) UploadById(ctx context.Context, exec Executor,
	uploadId uuid.UUID,
) (models.Upload, error) {
	upload, err := SqlToModel(
		ctx,
		exec,
		NewQueryBuilder().
			Select(dbmodels.SelectUploadColumn...).
			From(dbmodels.TABLE_UPLOADS).
			Where(squirrel.Eq{"id": uploadId}),
		dbmodels.AdaptUpload,
	)
	if errors.Is(err, models.NotFoundError) {
		return models.Upload{}, errors.Wrapf(models.ErrUploadNotFound, "upload %s", uploadId)
	}
	return upload, err
}

func (repo *AyniDbRepository) ActiveUploadOfCompany(ctx context.Context, exec Executor,
	companyId uuid.UUID,
) (*models.Upload, error) {
	return SqlToOptionalModel(
		ctx,
		exec,
		NewQueryBuilder().
			Select(dbmodels.SelectUploadColumn...).
			From(dbmodels.TABLE_UPLOADS).
			Where(squirrel.Eq{"company_id": companyId}).
			Where(squirrel.Eq{"status": activeUploadStatuses()}),
		dbmodels.AdaptUpload,
	)
}

func (repo *AyniDbRepository) AllUploadsOfCompany(ctx context.Context, exec Executor,
	companyId uuid.UUID,
) ([]models.Upload, error) {
	return SqlToListOfModels(
		ctx,
		exec,
		NewQueryBuilder().
			Select(dbmodels.SelectUploadColumn...).
			From(dbmodels.TABLE_UPLOADS).
			Where(squirrel.Eq{"company_id": companyId}).
			OrderBy("created_at DESC"),
		dbmodels.AdaptUpload,
	)
}
