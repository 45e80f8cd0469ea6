package postgres_test

import (
	"context"
	"testing"
	"time"

	"pamigay-backend/internal/domain"
	"pamigay-backend/internal/repository/postgres"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pickupCols = []string{"id", "donation_id", "requester_id", "status", "notes", "pickup_time", "rating", "created_on", "updated_on"}

func TestPickupRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := postgres.NewPickupRepository(db)
	ctx := context.Background()
	now := time.Now()

	t.Run("Success", func(t *testing.T) {
		p := &domain.PickupRequest{DonationID: 1, RequesterID: 2, Status: domain.PickupStatusRequested, Notes: "after 5pm", CreatedOn: now, UpdatedOn: now}
		mock.ExpectQuery("INSERT INTO food_pickups").
			WithArgs(int32(1), int32(2), domain.PickupStatusRequested, "after 5pm", nil, nil, now, now).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))

		require.NoError(t, repo.Create(ctx, p))
		assert.Equal(t, int32(11), p.ID)
	})

	t.Run("Unique Violation", func(t *testing.T) {
		p := &domain.PickupRequest{DonationID: 1, RequesterID: 2, Status: domain.PickupStatusRequested, CreatedOn: now, UpdatedOn: now}
		mock.ExpectQuery("INSERT INTO food_pickups").
			WillReturnError(&pq.Error{Code: "23505", Constraint: "food_pickups_one_active_per_requester"})

		err := repo.Create(ctx, p)
		assert.ErrorIs(t, err, domain.ErrConflict)
		assert.Contains(t, err.Error(), "one_active_per_requester")
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPickupRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := postgres.NewPickupRepository(db)
	now := time.Now()

	mock.ExpectQuery("SELECT (.+) FROM food_pickups WHERE id = \\$1").
		WithArgs(int32(4)).
		WillReturnRows(sqlmock.NewRows(pickupCols).AddRow(4, 1, 2, "COMPLETED", "", now, 5, now, now))

	p, err := repo.GetByID(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, domain.PickupStatusCompleted, p.Status)
	require.NotNil(t, p.Rating)
	assert.Equal(t, int32(5), *p.Rating)
	require.NotNil(t, p.PickupTime)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPickupRepository_HasActive(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := postgres.NewPickupRepository(db)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(int32(1), int32(2), domain.PickupStatusCancelled).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	active, err := repo.HasActive(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.True(t, active)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPickupRepository_CancelRequested(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := postgres.NewPickupRepository(db)
	now := time.Now()

	mock.ExpectQuery("UPDATE food_pickups SET status = \\$1(.+)RETURNING").
		WithArgs(domain.PickupStatusCancelled, now, int32(1), domain.PickupStatusRequested, int32(3)).
		WillReturnRows(sqlmock.NewRows(pickupCols).
			AddRow(4, 1, 20, "CANCELLED", "", nil, nil, now, now).
			AddRow(5, 1, 21, "CANCELLED", "", nil, nil, now, now))

	cancelled, err := repo.CancelRequested(context.Background(), 1, 3, now)
	require.NoError(t, err)
	require.Len(t, cancelled, 2)
	assert.Equal(t, int32(21), cancelled[1].RequesterID)
	assert.Nil(t, cancelled[0].PickupTime)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPickupRepository_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := postgres.NewPickupRepository(db)
	now := time.Now()
	rating := int32(4)
	p := &domain.PickupRequest{ID: 9, Status: domain.PickupStatusCompleted, Rating: &rating, UpdatedOn: now}

	mock.ExpectExec("UPDATE food_pickups SET status = \\$1").
		WithArgs(domain.PickupStatusCompleted, "", nil, rating, now, int32(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Update(context.Background(), p), domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
