package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/orders-dashboard/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (*PostgresActivityRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresActivityRepository(db), mock
}

func TestRecord(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectExec("INSERT INTO admin_activity").
		WithArgs("a-1", "dash-1", "order.status_changed", int64(42), "DELIVERED", now).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Record(context.Background(), &model.Activity{
		ID:         "a-1",
		InstanceID: "dash-1",
		Action:     model.ActivityOrderStatusChanged,
		OrderID:    42,
		Status:     "DELIVERED",
		CreatedAt:  now,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordError(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("INSERT INTO admin_activity").WillReturnError(errors.New("connection refused"))

	err := repo.Record(context.Background(), &model.Activity{ID: "a-1"})
	assert.EqualError(t, err, "connection refused")
}

func TestRecent(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	rows := sqlmock.NewRows([]string{"id", "instance_id", "action", "order_id", "status", "created_at"}).
		AddRow("a-2", "dash-1", "order.deleted", int64(7), "", now).
		AddRow("a-1", "dash-2", "order.created", int64(6), "", now.Add(-time.Minute))
	mock.ExpectQuery("SELECT (.+) FROM admin_activity ORDER BY created_at DESC LIMIT").
		WithArgs(20).
		WillReturnRows(rows)

	activities, err := repo.Recent(context.Background(), 20)
	require.NoError(t, err)
	require.Len(t, activities, 2)
	assert.Equal(t, model.ActivityOrderDeleted, activities[0].Action)
	assert.Equal(t, int64(6), activities[1].OrderID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecentEmpty(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM admin_activity").
		WillReturnRows(sqlmock.NewRows([]string{"id", "instance_id", "action", "order_id", "status", "created_at"}))

	activities, err := repo.Recent(context.Background(), 5)
	require.NoError(t, err)
	assert.NotNil(t, activities)
	assert.Empty(t, activities)
}

func TestRunMigrations(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS admin_activity").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, RunMigrations(context.Background(), db))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func BenchmarkRecord(b *testing.B) {
	db, mock, err := sqlmock.New()
	if err != nil {
		b.Fatal(err)
	}
	defer db.Close()

	repo := NewPostgresActivityRepository(db)
	ctx := context.Background()
	activity := &model.Activity{
		ID:         "bench",
		InstanceID: "dash-1",
		Action:     model.ActivityOrderCreated,
		OrderID:    1,
		CreatedAt:  time.Now(),
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		mock.ExpectExec("INSERT INTO admin_activity").
			WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))
		b.StartTimer()

		if err := repo.Record(ctx, activity); err != nil {
			b.Fatal(err)
		}
	}
}

var _ ActivityRepository = (*PostgresActivityRepository)(nil)
