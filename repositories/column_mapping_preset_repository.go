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

type ColumnMappingPresetRepository interface {
	SaveColumnMappingPreset(ctx context.Context, exec Executor, preset models.ColumnMappingPreset) error
	ClearDefaultColumnMappingPreset(ctx context.Context, exec Executor, companyId uuid.UUID) error
	AllColumnMappingPresetsOfCompany(ctx context.Context, exec Executor, companyId uuid.UUID) ([]models.ColumnMappingPreset, error)
	DefaultColumnMappingPreset(ctx context.Context, exec Executor, companyId uuid.UUID) (*models.ColumnMappingPreset, error)
}

// ClearDefaultColumnMappingPreset drops the default flag for the company, so
// a new default can be set without tripping the partial unique index.
func (repo *AyniDbRepository) ClearDefaultColumnMappingPreset(ctx context.Context, exec Executor,
	companyId uuid.UUID,
) error {
	return ExecBuilder(
		ctx,
		exec,
		NewQueryBuilder().
			Update(dbmodels.TABLE_COLUMN_MAPPING_PRESETS).
			Set("is_default", false).
			Set("updated_at", squirrel.Expr("now()")).
			Where(squirrel.Eq{"company_id": companyId}).
			Where(squirrel.Eq{"is_default": true}),
	)
}

// SaveColumnMappingPreset creates or replaces the preset with the same name.
func (repo *AyniDbRepository) SaveColumnMappingPreset(ctx context.Context, exec Executor,
	preset models.ColumnMappingPreset,
) error {
	mappings, err := json.Marshal(preset.Mappings)
	if err != nil {
		return errors.Wrap(err, "failed to marshal preset column mapping")
	}

	return ExecBuilder(
		ctx,
		exec,
		NewQueryBuilder().
			Insert(dbmodels.TABLE_COLUMN_MAPPING_PRESETS).
			Columns("id", "company_id", "name", "mappings", "is_default").
			Values(preset.Id, preset.CompanyId, preset.Name, mappings, preset.IsDefault).
			Suffix("ON CONFLICT (company_id, name) DO UPDATE SET").
			Suffix("mappings = EXCLUDED.mappings,").
			Suffix("is_default = EXCLUDED.is_default,").
			Suffix("updated_at = now()"),
	)
}

func (repo *AyniDbRepository) AllColumnMappingPresetsOfCompany(ctx context.Context, exec Executor,
	companyId uuid.UUID,
) ([]models.ColumnMappingPreset, error) {
	return SqlToListOfModels(
		ctx,
		exec,
		NewQueryBuilder().
			Select(dbmodels.SelectColumnMappingPresetColumn...).
			From(dbmodels.TABLE_COLUMN_MAPPING_PRESETS).
			Where(squirrel.Eq{"company_id": companyId}).
			OrderBy("name"),
		dbmodels.AdaptColumnMappingPreset,
	)
}

func (repo *AyniDbRepository) DefaultColumnMappingPreset(ctx context.Context, exec Executor,
	companyId uuid.UUID,
) (*models.ColumnMappingPreset, error) {
	return SqlToOptionalModel(
		ctx,
		exec,
		NewQueryBuilder().
			Select(dbmodels.SelectColumnMappingPresetColumn...).
			From(dbmodels.TABLE_COLUMN_MAPPING_PRESETS).
			Where(squirrel.Eq{"company_id": companyId}).
			Where(squirrel.Eq{"is_default": true}),
		dbmodels.AdaptColumnMappingPreset,
	)
}
