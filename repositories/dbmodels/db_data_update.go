package dbmodels

import (
	"encoding/json"
	"time"

	"github.com/Brownbull/ayni-be/models"
	"github.com/Brownbull/ayni-be/utils"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

const TABLE_DATA_UPDATES = "data_updates"

var SelectDataUpdateColumn = utils.ColumnList[DBDataUpdate]()

type DBDataUpdate struct {
	Id             uuid.UUID       `db:"id"`
	CompanyId      uuid.UUID       `db:"company_id"`
	UploadId       uuid.UUID       `db:"upload_id"`
	UserId         string          `db:"user_id"`
	Period         string          `db:"period"`
	PeriodType     string          `db:"period_type"`
	RowsBefore     int             `db:"rows_before"`
	RowsAfter      int             `db:"rows_after"`
	RowsUpdated    int             `db:"rows_updated"`
	RowsAdded      int             `db:"rows_added"`
	RowsDeleted    int             `db:"rows_deleted"`
	ChangesSummary json.RawMessage `db:"changes_summary"`
	CreatedAt      time.Time       `db:"created_at"`
}

func AdaptDataUpdate(db DBDataUpdate) (models.DataUpdate, error) {
	var summary models.ChangesSummary
	if len(db.ChangesSummary) > 0 {
		if err := json.Unmarshal(db.ChangesSummary, &summary); err != nil {
			return models.DataUpdate{}, errors.Wrap(err, "failed to unmarshal changes summary")
		}
	}

	return models.DataUpdate{
		Id:          db.Id,
		CompanyId:   db.CompanyId,
		UploadId:    db.UploadId,
		UserId:      db.UserId,
		Period:      db.Period,
		PeriodType:  models.PeriodType(db.PeriodType),
		RowsBefore:  db.RowsBefore,
		RowsAfter:   db.RowsAfter,
		RowsUpdated: db.RowsUpdated,
		RowsAdded:   db.RowsAdded,
		RowsDeleted: db.RowsDeleted,
		Summary:     summary,
		CreatedAt:   db.CreatedAt,
	}, nil
}
