package repositories

import (
	"context"
	"encoding/json"

	"github.com/Brownbull/ayni-be/models"
	"github.com/Brownbull/ayni-be/repositories/dbmodels"

	"github.com/Masterminds/squirrel"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

type DataUpdateRepository interface {
	CreateDataUpdate(ctx context.Context, exec Executor, update models.DataUpdate) error
	AllDataUpdatesOfCompany(ctx context.Context, exec Executor, companyId uuid.UUID) ([]models.DataUpdate, error)
	LatestDataUpdateOfCompany(ctx context.Context, exec Executor, companyId uuid.UUID) (*models.DataUpdate, error)
}

func (repo *AyniDbRepository) CreateDataUpdate(ctx context.Context, exec Executor,
	update models.DataUpdate,
) error {
	summary, err := json.Marshal(update.Summary)
	if err != nil {
		return errors.Wrap(err, "failed to marshal changes summary")
	}

	return ExecBuilder(
		ctx,
		exec,
		NewQueryBuilder().
			Insert(dbmodels.TABLE_DATA_UPDATES).
			Columns(
				"id",
				"company_id",
				"upload_id",
				"user_id",
				"period",
				"period_type",
				"rows_before",
				"rows_after",
				"rows_updated",
				"rows_added",
				"rows_deleted",
				"changes_summary",
			).
			Values(
				update.Id,
				update.CompanyId,
				update.UploadId,
				update.UserId,
				update.Period,
				update.PeriodType,
				update.RowsBefore,
				update.RowsAfter,
				update.RowsUpdated,
				update.RowsAdded,
				update.RowsDeleted,
				summary,
			),
	)
}

func (repo *AyniDbRepository) AllDataUpdatesOfCompany(ctx context.Context, exec Executor,
	companyId uuid.UUID,
) ([]models.DataUpdate, error) {
	return SqlToListOfModels(
		ctx,
		exec,
		NewQueryBuilder().
			Select(dbmodels.SelectDataUpdateColumn...).
			From(dbmodels.TABLE_DATA_UPDATES).
			Where(squirrel.Eq{"company_id": companyId}).
			OrderBy("created_at DESC"),
		dbmodels.AdaptDataUpdate,
	)
}

func (repo *AyniDbRepository) LatestDataUpdateOfCompany(ctx context.Context, exec Executor,
	companyId uuid.UUID,
) (*models.DataUpdate, error) {
	return SqlToOptionalModel(
		ctx,
		exec,
		NewQueryBuilder().
			Select(dbmodels.SelectDataUpdateColumn...).
			From(dbmodels.TABLE_DATA_UPDATES).
			Where(squirrel.Eq{"company_id": companyId}).
			OrderBy("created_at DESC").
			Limit(1),
		dbmodels.AdaptDataUpdate,
	)
}
