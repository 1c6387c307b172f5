package usecases

import (
	"context"

	"github.com/Brownbull/ayni-be/models"
	"github.com/Brownbull/ayni-be/repositories"

	"github.com/google/uuid"
)

type CompanyUsecase struct {
	executorGetter    repositories.ExecutorGetter
	companyRepository repositories.CompanyRepository
}

func (usecases Usecases) NewCompanyUsecase() CompanyUsecase {
	return CompanyUsecase{
		executorGetter:    usecases.Repositories.ExecutorGetter,
		companyRepository: usecases.Repositories.CompanyRepository,
	}
}

func (uc CompanyUsecase) CreateCompany(ctx context.Context, name, industry string) (models.Company, error) {
	companyId := uuid.New()
	exec := uc.executorGetter.GetExecutor()
	if err := uc.companyRepository.CreateCompany(ctx, exec, companyId, name, industry); err != nil {
		return models.Company{}, err
	}
	return uc.companyRepository.CompanyById(ctx, exec, companyId)
}

func (uc CompanyUsecase) GetCompany(ctx context.Context, companyId uuid.UUID) (models.Company, error) {
	return uc.companyRepository.CompanyById(ctx, uc.executorGetter.GetExecutor(), companyId)
}

func (uc CompanyUsecase) ListCompanies(ctx context.Context) ([]models.Company, error) {
	return uc.companyRepository.AllCompanies(ctx, uc.executorGetter.GetExecutor())
}
