package repositories

import (
	"context"

	"github.com/Brownbull/ayni-be/models"
	"github.com/Brownbull/ayni-be/repositories/dbmodels"

	"github.com/Masterminds/squirrel"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

type CompanyRepository interface {
	CompanyById(ctx context.Context, exec Executor, companyId uuid.UUID) (models.Company, error)
	AllCompanies(ctx context.Context, exec Executor) ([]models.Company, error)
	CreateCompany(ctx context.Context, exec Executor, companyId uuid.UUID, name, industry string) error
}

func (repo *AyniDbRepository) CompanyById(ctx context.Context, exec Executor,
	companyId uuid.UUID,
) (models.Company, error) {
	company, err := SqlToModel(
		ctx,
		exec,
		NewQueryBuilder().
			Select(dbmodels.SelectCompanyColumn...).
			From(dbmodels.TABLE_COMPANIES).
			Where(squirrel.Eq{"id": companyId}),
		dbmodels.AdaptCompany,
	)
	if errors.Is(err, models.NotFoundError) {
		return models.Company{}, errors.Wrapf(models.ErrCompanyNotFound,
			"company %s", companyId)
	}
	return company, err
}

func (repo *AyniDbRepository) AllCompanies(ctx context.Context, exec Executor) ([]models.Company, error) {
	return SqlToListOfModels(
		ctx,
		exec,
		NewQueryBuilder().
			Select(dbmodels.SelectCompanyColumn...).
			From(dbmodels.TABLE_COMPANIES).
			OrderBy("created_at"),
		dbmodels.AdaptCompany,
	)
}

func (repo *AyniDbRepository) CreateCompany(ctx context.Context, exec Executor,
	companyId uuid.UUID, name, industry string,
) error {
	return ExecBuilder(
		ctx,
		exec,
		NewQueryBuilder().
			Insert(dbmodels.TABLE_COMPANIES).
			Columns("id", "name", "industry").
			Values(companyId, name, industry),
	)
}
