package tracking

import (
	"context"
	"testing"
	"time"

	"github.com/Brownbull/ayni-be/models"
	"github.com/Brownbull/ayni-be/repositories"
	"github.com/Brownbull/ayni-be/repositories/clock"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSnapshotRepository serves queued snapshot counts, one entry per snapshot
// call, so before/after can differ.
type fakeSnapshotRepository struct {
	transactionCounts []int
	bucketCounts      []map[models.BucketType]int
	transactionCall   int
	bucketCall        int
}

func (f *fakeSnapshotRepository) CountTransactionsOfCompany(ctx context.Context,
	exec repositories.Executor, companyId uuid.UUID,
) (int, error) {
	count := f.transactionCounts[f.transactionCall]
	f.transactionCall++
	return count, nil
}

func (f *fakeSnapshotRepository) CountBucketsByType(ctx context.Context,
	exec repositories.Executor, companyId uuid.UUID,
) (map[models.BucketType]int, error) {
	counts := f.bucketCounts[f.bucketCall]
	f.bucketCall++
	return counts, nil
}

func testTracker(repository *fakeSnapshotRepository) *UpdateTracker {
	return NewUpdateTracker(repository,
		clock.NewMock(time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)), uuid.New())
}

func datedTx(date string) models.CanonicalTransaction {
	parsed, err := time.Parse(time.DateOnly, date)
	if err != nil {
		panic(err)
	}
	return models.CanonicalTransaction{TransactionDate: parsed}
}

func TestUpdateTracker_EnforcesCallOrder(t *testing.T) {
	ctx := context.Background()
	repository := &fakeSnapshotRepository{
		transactionCounts: []int{0, 0},
		bucketCounts:      []map[models.BucketType]int{{}, {}},
	}

	t.Run("after before before", func(t *testing.T) {
		tracker := testTracker(repository)
		assert.ErrorIs(t, tracker.SnapshotAfter(ctx, nil), models.ErrTrackerSequence)
	})

	t.Run("record without snapshots", func(t *testing.T) {
		tracker := testTracker(repository)
		_, err := tracker.BuildRecord(RecordParams{})
		assert.ErrorIs(t, err, models.ErrTrackerSequence)
	})

	t.Run("double before", func(t *testing.T) {
		repository := &fakeSnapshotRepository{
			transactionCounts: []int{0, 0},
			bucketCounts:      []map[models.BucketType]int{{}, {}},
		}
		tracker := testTracker(repository)
		require.NoError(t, tracker.SnapshotBefore(ctx, nil))
		assert.ErrorIs(t, tracker.SnapshotBefore(ctx, nil), models.ErrTrackerSequence)
	})
}

func TestComputeChanges(t *testing.T) {
	t.Run("pure insert", func(t *testing.T) {
		stats := ComputeChanges(0, 3, 0)
		assert.Equal(t, models.ChangeStats{
			RowsBefore: 0, RowsAfter: 3, RowsAdded: 3, RowsDeleted: 0, NetChange: 3,
		}, stats)
	})

	t.Run("shrinking level", func(t *testing.T) {
		stats := ComputeChanges(5, 3, 0)
		assert.Equal(t, models.ChangeStats{
			RowsBefore: 5, RowsAfter: 3, RowsAdded: 0, RowsDeleted: 2, NetChange: -2,
		}, stats)
	})

	t.Run("no change", func(t *testing.T) {
		stats := ComputeChanges(7, 7, 0)
		assert.Zero(t, stats.RowsAdded)
		assert.Zero(t, stats.RowsDeleted)
		assert.Zero(t, stats.NetChange)
	})

	t.Run("net change always reconciles", func(t *testing.T) {
		for _, pair := range [][2]int{{0, 0}, {0, 10}, {10, 0}, {4, 9}, {9, 4}} {
			stats := ComputeChanges(pair[0], pair[1], 0)
			assert.Equal(t, stats.NetChange, stats.RowsAdded-stats.RowsDeleted)
			assert.Equal(t, stats.NetChange, stats.RowsAfter-stats.RowsBefore)
		}
	})
}

func TestAnalyzeAffectedPeriods_EnumeratesFullSpan(t *testing.T) {
	batch := []models.CanonicalTransaction{
		datedTx("2024-02-03"),
		datedTx("2024-01-28"),
	}

	periods := AnalyzeAffectedPeriods(batch)

	assert.Len(t, periods.Daily, 7)
	assert.Equal(t, "2024-01-28", periods.Daily[0])
	assert.Equal(t, "2024-02-03", periods.Daily[6])
	assert.Equal(t, []string{"2024-W04", "2024-W05"}, periods.Weekly)
	assert.Equal(t, []string{"2024-01", "2024-02"}, periods.Monthly)
	assert.Equal(t, []string{"2024-Q1"}, periods.Quarterly)
	assert.Equal(t, []string{"2024"}, periods.Yearly)
}

func TestAnalyzeAffectedPeriods_EmptyBatch(t *testing.T) {
	assert.True(t, AnalyzeAffectedPeriods(nil).IsEmpty())
}

func TestUpdateTracker_BuildRecord(t *testing.T) {
	ctx := context.Background()
	repository := &fakeSnapshotRepository{
		transactionCounts: []int{0, 3},
		bucketCounts: []map[models.BucketType]int{
			{},
			{
				models.BucketDaily:   2,
				models.BucketMonthly: 1,
				models.BucketYearly:  1,
				models.BucketProduct: 2,
			},
		},
	}
	tracker := testTracker(repository)
	uploadId := uuid.New()

	require.NoError(t, tracker.SnapshotBefore(ctx, nil))
	require.NoError(t, tracker.SnapshotAfter(ctx, nil))

	record, err := tracker.BuildRecord(RecordParams{
		UploadId:       uploadId,
		UserId:         "user-42",
		UploadFilename: "ventas_enero.csv",
		Batch: []models.CanonicalTransaction{
			datedTx("2024-01-01"),
			datedTx("2024-01-01"),
			datedTx("2024-01-15"),
		},
	})
	require.NoError(t, err)

	assert.Equal(t, uploadId, record.UploadId)
	assert.Equal(t, "user-42", record.UserId)
	assert.Equal(t, 0, record.RowsBefore)
	assert.Equal(t, 3, record.RowsAfter)
	assert.Equal(t, 3, record.RowsAdded)
	assert.Equal(t, 0, record.RowsDeleted)
	assert.Equal(t, 3, record.NetChange())

	assert.Equal(t, "2024", record.Period)
	assert.Equal(t, models.PeriodYearly, record.PeriodType)

	summary := record.Summary
	assert.Equal(t, "ventas_enero.csv", summary.UploadFilename)
	assert.Equal(t, 3, summary.UploadRows)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC), summary.ProcessedAt)

	assert.Equal(t, 3, summary.ByLevel[models.LevelRawTransactions].RowsAdded)
	assert.Equal(t, 2, summary.ByLevel[string(models.BucketDaily)].RowsAdded)
	assert.Equal(t, 1, summary.ByLevel[string(models.BucketMonthly)].RowsAfter)
	assert.Equal(t, 0, summary.ByLevel[string(models.BucketCustomer)].RowsAfter)
	// raw + 8 aggregation levels
	assert.Len(t, summary.ByLevel, 9)

	assert.Equal(t, 9, summary.Totals.RowsAdded)
	assert.Equal(t, []string{"2024-01"}, summary.AffectedPeriods.Monthly)
	assert.Len(t, summary.AffectedPeriods.Daily, 15)

	// the record is terminal; a second build is a contract violation
	_, err = tracker.BuildRecord(RecordParams{})
	assert.ErrorIs(t, err, models.ErrTrackerSequence)
}

func TestUpdateTracker_UndatedBatchFallsBackToUploadPeriod(t *testing.T) {
	ctx := context.Background()
	repository := &fakeSnapshotRepository{
		transactionCounts: []int{0, 0},
		bucketCounts:      []map[models.BucketType]int{{}, {}},
	}
	tracker := testTracker(repository)
	uploadId := uuid.New()

	require.NoError(t, tracker.SnapshotBefore(ctx, nil))
	require.NoError(t, tracker.SnapshotAfter(ctx, nil))

	record, err := tracker.BuildRecord(RecordParams{UploadId: uploadId})
	require.NoError(t, err)
	assert.Equal(t, uploadId.String(), record.Period)
	assert.Equal(t, models.PeriodUpload, record.PeriodType)
}
