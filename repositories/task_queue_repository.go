package repositories

import (
	"context"

	"github.com/Brownbull/ayni-be/models"
	"github.com/Brownbull/ayni-be/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/riverqueue/river"
)

const (
	nbRetriesProcessUpload = 3
	priorityProcessUpload  = 2 // nb: higher number is lower priority (between 1 and 4)
)

type TaskQueueRepository interface {
	EnqueueProcessUploadTask(ctx context.Context, tx Transaction, companyId, uploadId uuid.UUID) error
}

type riverRepository struct {
	client *river.Client[pgx.Tx]
}

func NewTaskQueueRepository(client *river.Client[pgx.Tx]) TaskQueueRepository {
	return riverRepository{client: client}
}

// EnqueueProcessUploadTask inserts the processing job in the same transaction
// as the upload row, so the job only exists if the submission committed.
func (r riverRepository) EnqueueProcessUploadTask(ctx context.Context, tx Transaction,
	companyId, uploadId uuid.UUID,
) error {
	res, err := r.client.InsertTx(ctx, tx.RawTx(), models.ProcessUploadArgs{
		UploadId: uploadId,
	}, &river.InsertOpts{
		MaxAttempts: nbRetriesProcessUpload,
		Priority:    priorityProcessUpload,
		Queue:       companyId.String(),
		UniqueOpts: river.UniqueOpts{
			ByArgs: true,
		},
	})
	if err != nil {
		return err
	}
	logger := utils.LoggerFromContext(ctx)
	logger.DebugContext(ctx, "Enqueued upload processing task",
		"upload_id", uploadId, "job_id", res.Job.ID)
	return nil
}
