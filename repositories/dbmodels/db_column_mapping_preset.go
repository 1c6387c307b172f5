package dbmodels

import (
	"encoding/json"
	"time"

	"github.com/Brownbull/ayni-be/models"
	"github.com/Brownbull/ayni-be/utils"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

const TABLE_COLUMN_MAPPING_PRESETS = "column_mapping_presets"

var SelectColumnMappingPresetColumn = utils.ColumnList[DBColumnMappingPreset]()

type DBColumnMappingPreset struct {
	Id        uuid.UUID       `db:"id"`
	CompanyId uuid.UUID       `db:"company_id"`
	Name      string          `db:"name"`
	Mappings  json.RawMessage `db:"mappings"`
	IsDefault bool            `db:"is_default"`
	CreatedAt time.Time       `db:"created_at"`
	UpdatedAt time.Time       `db:"updated_at"`
}

func AdaptColumnMappingPreset(db DBColumnMappingPreset) (models.ColumnMappingPreset, error) {
	var mappings map[string]string
	if len(db.Mappings) > 0 {
		if err := json.Unmarshal(db.Mappings, &mappings); err != nil {
			return models.ColumnMappingPreset{}, errors.Wrap(err,
				"failed to unmarshal preset column mapping")
		}
	}

	return models.ColumnMappingPreset{
		Id:        db.Id,
		CompanyId: db.CompanyId,
		Name:      db.Name,
		Mappings:  mappings,
		IsDefault: db.IsDefault,
		CreatedAt: db.CreatedAt,
		UpdatedAt: db.UpdatedAt,
	}, nil
}
