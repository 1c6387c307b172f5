package dbmodels

import (
	"encoding/json"
	"time"

	"github.com/Brownbull/ayni-be/models"
	"github.com/Brownbull/ayni-be/utils"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

const TABLE_UPLOADS = "uploads"

var SelectUploadColumn = utils.ColumnList[DBUpload]()

type DBUpload struct {
	Id                 uuid.UUID       `db:"id"`
	CompanyId          uuid.UUID       `db:"company_id"`
	UserId             string          `db:"user_id"`
	Filename           string          `db:"filename"`
	FileKey            string          `db:"file_key"`
	FileSize           int64           `db:"file_size"`
	Status             string          `db:"status"`
	ColumnMapping      json.RawMessage `db:"column_mapping"`
	OriginalRows       int             `db:"original_rows"`
	ProcessedRows      int             `db:"processed_rows"`
	UpdatedRows        int             `db:"updated_rows"`
	ErrorRows          int             `db:"error_rows"`
	ProgressPercentage int             `db:"progress_percentage"`
	ErrorMessage       *string         `db:"error_message"`
	CreatedAt          time.Time       `db:"created_at"`
	StartedAt          *time.Time      `db:"started_at"`
	CompletedAt        *time.Time      `db:"completed_at"`
}

func AdaptUpload(db DBUpload) (models.Upload, error) {
	var columnMapping map[string]string
	if len(db.ColumnMapping) > 0 {
		if err := json.Unmarshal(db.ColumnMapping, &columnMapping); err != nil {
			return models.Upload{}, errors.Wrap(err, "failed to unmarshal upload column mapping")
		}
	}

	return models.Upload{
		Id:                 db.Id,
		CompanyId:          db.CompanyId,
		UserId:             db.UserId,
		Filename:           db.Filename,
		FileKey:            db.FileKey,
		FileSize:           db.FileSize,
		Status:             models.UploadStatusFrom(db.Status),
		ColumnMapping:      columnMapping,
		OriginalRows:       db.OriginalRows,
		ProcessedRows:      db.ProcessedRows,
		UpdatedRows:        db.UpdatedRows,
		ErrorRows:          db.ErrorRows,
		ProgressPercentage: db.ProgressPercentage,
		ErrorMessage:       db.ErrorMessage,
		CreatedAt:          db.CreatedAt,
		StartedAt:          db.StartedAt,
		CompletedAt:        db.CompletedAt,
	}, nil
}
