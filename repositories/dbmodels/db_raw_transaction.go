package dbmodels

import (
	"encoding/json"
	"time"

	"github.com/Brownbull/ayni-be/models"
	"github.com/Brownbull/ayni-be/utils"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

const TABLE_RAW_TRANSACTIONS = "raw_transactions"

var SelectRawTransactionColumn = utils.ColumnList[DBRawTransaction]()

type DBRawTransaction struct {
	Id              uuid.UUID       `db:"id"`
	CompanyId       uuid.UUID       `db:"company_id"`
	UploadId        uuid.UUID       `db:"upload_id"`
	TransactionDate time.Time       `db:"transaction_date"`
	TransactionId   string          `db:"transaction_id"`
	ProductId       string          `db:"product_id"`
	CustomerId      *string         `db:"customer_id"`
	Category        *string         `db:"category"`
	Quantity        float64         `db:"quantity"`
	PriceTotal      float64         `db:"price_total"`
	CostTotal       *float64        `db:"cost_total"`
	Attributes      json.RawMessage `db:"attributes"`
	CreatedAt       time.Time       `db:"created_at"`
}

func AdaptRawTransaction(db DBRawTransaction) (models.CanonicalTransaction, error) {
	var attributes map[string]string
	if len(db.Attributes) > 0 {
		if err := json.Unmarshal(db.Attributes, &attributes); err != nil {
			return models.CanonicalTransaction{}, errors.Wrap(err,
				"failed to unmarshal transaction attributes")
		}
	}

	return models.CanonicalTransaction{
		CompanyId:       db.CompanyId,
		UploadId:        db.UploadId,
		TransactionDate: db.TransactionDate,
		TransactionId:   db.TransactionId,
		ProductId:       db.ProductId,
		CustomerId:      db.CustomerId,
		Category:        db.Category,
		Quantity:        db.Quantity,
		PriceTotal:      db.PriceTotal,
		CostTotal:       db.CostTotal,
		Attributes:      attributes,
	}, nil
}
