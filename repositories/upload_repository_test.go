package repositories

import (
	"context"
	"testing"

	"github.com/Brownbull/ayni-be/models"
	"github.com/Brownbull/ayni-be/pure_utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingExecutor struct {
	sql  string
	args []any
}

func (e *recordingExecutor) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	e.sql = sql
	e.args = args
	return pgconn.CommandTag{}, nil
}

func (e *recordingExecutor) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}

func (e *recordingExecutor) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}

func TestUpdateUpload_OnlyTouchesInFlightUploads(t *testing.T) {
	repo := &AyniDbRepository{}
	exec := &recordingExecutor{}
	uploadId := uuid.New()
	status := models.UploadCompleted

	err := repo.UpdateUpload(context.Background(), exec, models.UpdateUploadInput{
		Id:                 uploadId,
		Status:             &status,
		ProgressPercentage: pure_utils.Ptr(models.ProgressDone),
	})
	require.NoError(t, err)

	// the status filter keeps a concurrent cancellation (or any other terminal
	// state) from being overwritten
	assert.Contains(t, exec.sql, "UPDATE uploads")
	assert.Contains(t, exec.sql, "status IN (")
	assert.Contains(t, exec.args, uploadId)
	for _, status := range []models.UploadStatus{
		models.UploadPending,
		models.UploadValidating,
		models.UploadProcessing,
	} {
		assert.Contains(t, exec.args, string(status))
	}
}
