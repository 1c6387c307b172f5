package repositories

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Brownbull/ayni-be/models"
	"github.com/Brownbull/ayni-be/repositories/dbmodels"

	"github.com/Masterminds/squirrel"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

const transactionInsertBatchSize = 1000

type TransactionRepository interface {
	InsertTransactions(ctx context.Context, exec Executor, transactions []models.CanonicalTransaction) error
	CountTransactionsOfCompany(ctx context.Context, exec Executor, companyId uuid.UUID) (int, error)
	AllTransactionsOfCompany(ctx context.Context, exec Executor, companyId uuid.UUID) ([]models.CanonicalTransaction, error)
	TransactionDateSpan(ctx context.Context, exec Executor, companyId uuid.UUID) (min, max *time.Time, err error)
}

func (repo *AyniDbRepository) InsertTransactions(ctx context.Context, exec Executor,
	transactions []models.CanonicalTransaction,
) error {
	for start := 0; start < len(transactions); start += transactionInsertBatchSize {
		end := min(start+transactionInsertBatchSize, len(transactions))
		if err := repo.insertTransactionBatch(ctx, exec, transactions[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func (repo *AyniDbRepository) insertTransactionBatch(ctx context.Context, exec Executor,
	transactions []models.CanonicalTransaction,
) error {
	query := NewQueryBuilder().
		Insert(dbmodels.TABLE_RAW_TRANSACTIONS).
		Columns(
			"company_id",
			"upload_id",
			"transaction_date",
			"transaction_id",
			"product_id",
			"customer_id",
			"category",
			"quantity",
			"price_total",
			"cost_total",
			"attributes",
		)

	for _, tx := range transactions {
		attributes, err := json.Marshal(tx.Attributes)
		if err != nil {
			return errors.Wrap(err, "failed to marshal transaction attributes")
		}
		query = query.Values(
			tx.CompanyId,
			tx.UploadId,
			tx.TransactionDate,
			tx.TransactionId,
			tx.ProductId,
			tx.CustomerId,
			tx.Category,
			tx.Quantity,
			tx.PriceTotal,
			tx.CostTotal,
			attributes,
		)
	}

	return ExecBuilder(ctx, exec, query)
}

func (repo *AyniDbRepository) CountTransactionsOfCompany(ctx context.Context, exec Executor,
	companyId uuid.UUID,
) (int, error) {
	return SqlToRow[int](
		ctx,
		exec,
		NewQueryBuilder().
			Select("COUNT(*)").
			From(dbmodels.TABLE_RAW_TRANSACTIONS).
			Where(squirrel.Eq{"company_id": companyId}),
	)
}

func (repo *AyniDbRepository) AllTransactionsOfCompany(ctx context.Context, exec Executor,
	companyId uuid.UUID,
) ([]models.CanonicalTransaction, error) {
	return SqlToListOfModels(
		ctx,
		exec,
		NewQueryBuilder().
			Select(dbmodels.SelectRawTransactionColumn...).
			From(dbmodels.TABLE_RAW_TRANSACTIONS).
			Where(squirrel.Eq{"company_id": companyId}).
			OrderBy("transaction_date"),
		dbmodels.AdaptRawTransaction,
	)
}

// TransactionDateSpan returns the min and max transaction dates of the
// company's whole history. Both are nil when the company has no transactions.
func (repo *AyniDbRepository) TransactionDateSpan(ctx context.Context, exec Executor,
	companyId uuid.UUID,
) (*time.Time, *time.Time, error) {
	sql, args, err := NewQueryBuilder().
		Select("MIN(transaction_date)", "MAX(transaction_date)").
		From(dbmodels.TABLE_RAW_TRANSACTIONS).
		Where(squirrel.Eq{"company_id": companyId}).
		ToSql()
	if err != nil {
		return nil, nil, errors.Wrap(err, "can't build sql query")
	}

	var minDate, maxDate *time.Time
	if err := exec.QueryRow(ctx, sql, args...).Scan(&minDate, &maxDate); err != nil {
		return nil, nil, errors.Wrap(err, "error executing sql query")
	}
	return minDate, maxDate, nil
}
