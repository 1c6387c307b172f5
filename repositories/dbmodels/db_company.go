package dbmodels

import (
	"time"

	"github.com/Brownbull/ayni-be/models"
	"github.com/Brownbull/ayni-be/utils"

	"github.com/google/uuid"
)

const TABLE_COMPANIES = "companies"

var SelectCompanyColumn = utils.ColumnList[DBCompany]()

type DBCompany struct {
	Id        uuid.UUID `db:"id"`
	Name      string    `db:"name"`
	Industry  string    `db:"industry"`
	CreatedAt time.Time `db:"created_at"`
}

func AdaptCompany(db DBCompany) (models.Company, error) {
	return models.Company{
		Id:        db.Id,
		Name:      db.Name,
		Industry:  db.Industry,
		CreatedAt: db.CreatedAt,
	}, nil
}
