package repositories

import (
	"context"
	"fmt"
	"reflect"

	"github.com/Brownbull/ayni-be/models"

	"github.com/Masterminds/squirrel"
	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"
)

// ExecBuilder builds the query and executes it, discarding the result.
func ExecBuilder(ctx context.Context, exec Executor, query squirrel.Sqlizer) error {
	sql, args, err := query.ToSql()
	if err != nil {
		return errors.Wrap(err, "can't build sql query")
	}
	_, err = exec.Exec(ctx, sql, args...)
	return errors.Wrap(err, "error executing sql query")
}

// executes the sql query and returns a list of models using the provided adapter
func SqlToListOfModels[DBModel, Model any](ctx context.Context, exec Executor,
	query squirrel.Sqlizer, adapter func(dbModel DBModel) (Model, error),
) ([]Model, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "can't build sql query")
	}

	rows, err := exec.Query(ctx, sql, args...)
	if err != nil {
		return nil, errors.Wrap(err, "error executing sql query")
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Model, error) {
		dbModel, err := pgx.RowToStructByName[DBModel](row)
		if err != nil {
			var zeroModel Model
			return zeroModel, errors.Wrap(err, fmt.Sprintf("error scanning row to struct %T", dbModel))
		}
		return adapter(dbModel)
	})
}

// executes the sql query and returns a model using the provided adapter.
// If no result is returned by the query, returns nil
func SqlToOptionalModel[DBModel, Model any](ctx context.Context, exec Executor,
	query squirrel.Sqlizer, adapter func(dbModel DBModel) (Model, error),
) (*Model, error) {
	modelsList, err := SqlToListOfModels(ctx, exec, query, adapter)
	if err != nil {
		return nil, err
	}

	numberOfResults := len(modelsList)
	if numberOfResults == 0 {
		return nil, nil
	}
	model := modelsList[0]
	if numberOfResults > 1 {
		return nil, errors.Newf("expected 1 or 0 %v, got %d rows in the result",
			reflect.TypeOf(model), numberOfResults)
	}
	return &model, nil
}

// executes the sql query and returns a model using the provided adapter.
// if no result is returned by the query, returns a NotFoundError
func SqlToModel[DBModel, Model any](ctx context.Context, exec Executor,
	query squirrel.Sqlizer, adapter func(dbModel DBModel) (Model, error),
) (Model, error) {
	model, err := SqlToOptionalModel(ctx, exec, query, adapter)
	var zeroModel Model
	if err != nil {
		return zeroModel, err
	}
	if model == nil {
		return zeroModel, errors.Wrap(models.NotFoundError,
			fmt.Sprintf("found no object of type %T", zeroModel))
	}
	return *model, nil
}

// executes the sql query and returns the single scalar it selects
func SqlToRow[T any](ctx context.Context, exec Executor, query squirrel.Sqlizer) (T, error) {
	var result T
	sql, args, err := query.ToSql()
	if err != nil {
		return result, errors.Wrap(err, "can't build sql query")
	}
	if err := exec.QueryRow(ctx, sql, args...).Scan(&result); err != nil {
		return result, errors.Wrap(err, "error executing sql query")
	}
	return result, nil
}
