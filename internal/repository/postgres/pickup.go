package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"pamigay-backend/internal/domain"
	"pamigay-backend/internal/logger"
	"pamigay-backend/internal/repository"
)

const pickupColumns = `id, donation_id, requester_id, status, COALESCE(notes, ''), pickup_time, rating, created_on, updated_on`

type pickupRepository struct {
	db DBTX
}

func NewPickupRepository(db DBTX) repository.PickupRepository {
	return &pickupRepository{db: db}
}

func scanPickup(row rowScanner) (*domain.PickupRequest, error) {
	p := &domain.PickupRequest{}
	var (
		pickupTime sql.NullTime
		rating     sql.NullInt32
	)
	err := row.Scan(&p.ID, &p.DonationID, &p.RequesterID, &p.Status, &p.Notes, &pickupTime, &rating, &p.CreatedOn, &p.UpdatedOn)
	if err != nil {
		return nil, err
	}
	p.PickupTime = timePtr(pickupTime)
	p.Rating = int32Ptr(rating)
	return p, nil
}

func collectPickups(rows *sql.Rows) ([]domain.PickupRequest, error) {
	defer rows.Close()
	var pickups []domain.PickupRequest
	for rows.Next() {
		p, err := scanPickup(rows)
		if err != nil {
			return nil, err
		}
		pickups = append(pickups, *p)
	}
	return pickups, rows.Err()
}

func (r *pickupRepository) Create(ctx context.Context, p *domain.PickupRequest) error {
	logger.EnterMethod("pickupRepository.Create", "donationID", p.DonationID, "requesterID", p.RequesterID)

	query := `INSERT INTO food_pickups (donation_id, requester_id, status, notes, pickup_time, rating, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	logger.DatabaseCall("INSERT", "food_pickups", "donationID", p.DonationID)
	err := r.db.QueryRowContext(ctx, query, p.DonationID, p.RequesterID, p.Status, p.Notes, p.PickupTime, p.Rating,
		p.CreatedOn, p.UpdatedOn).Scan(&p.ID)
	logger.DatabaseResult("INSERT", 1, err, "pickupID", p.ID)

	if err != nil {
		logger.ExitMethodWithError("pickupRepository.Create", err)
		return storageErr("create pickup request", err)
	}
	logger.ExitMethod("pickupRepository.Create", "pickupID", p.ID)
	return nil
}

func (r *pickupRepository) GetByID(ctx context.Context, id int32) (*domain.PickupRequest, error) {
	query := `SELECT ` + pickupColumns + ` FROM food_pickups WHERE id = $1`
	p, err := scanPickup(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, storageErr(fmt.Sprintf("pickup request %d", id), err)
	}
	return p, nil
}

func (r *pickupRepository) GetForUpdate(ctx context.Context, id int32) (*domain.PickupRequest, error) {
	query := `SELECT ` + pickupColumns + ` FROM food_pickups WHERE id = $1 FOR UPDATE`
	p, err := scanPickup(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, storageErr(fmt.Sprintf("lock pickup request %d", id), err)
	}
	return p, nil
}

func (r *pickupRepository) Update(ctx context.Context, p *domain.PickupRequest) error {
	query := `UPDATE food_pickups SET status = $1, notes = $2, pickup_time = $3, rating = $4, updated_on = $5 WHERE id = $6`
	logger.DatabaseCall("UPDATE", "food_pickups", "pickupID", p.ID, "status", p.Status)
	result, err := r.db.ExecContext(ctx, query, p.Status, p.Notes, p.PickupTime, p.Rating, p.UpdatedOn, p.ID)
	if err != nil {
		return storageErr("update pickup request", err)
	}
	rows, err := result.RowsAffected()
	logger.DatabaseResult("UPDATE", rows, err)
	if err != nil {
		return storageErr("update pickup request", err)
	}
	if rows == 0 {
		return notFound(fmt.Sprintf("pickup request %d", p.ID))
	}
	return nil
}

func (r *pickupRepository) HasActive(ctx context.Context, donationID, requesterID int32) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM food_pickups WHERE donation_id = $1 AND requester_id = $2 AND status <> $3)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, donationID, requesterID, domain.PickupStatusCancelled).Scan(&exists); err != nil {
		return false, storageErr("check active pickup", err)
	}
	return exists, nil
}

func (r *pickupRepository) CancelRequested(ctx context.Context, donationID, exceptID int32, at time.Time) ([]domain.PickupRequest, error) {
	query := `UPDATE food_pickups SET status = $1, updated_on = $2
	          WHERE donation_id = $3 AND status = $4 AND id <> $5
	          RETURNING ` + pickupColumns
	logger.DatabaseCall("UPDATE", "food_pickups", "donationID", donationID, "operation", "cancel requested", "exceptID", exceptID)
	rows, err := r.db.QueryContext(ctx, query, domain.PickupStatusCancelled, at, donationID, domain.PickupStatusRequested, exceptID)
	if err != nil {
		return nil, storageErr("cancel pending pickups", err)
	}
	cancelled, err := collectPickups(rows)
	if err != nil {
		return nil, storageErr("cancel pending pickups", err)
	}
	logger.DatabaseResult("UPDATE", int64(len(cancelled)), nil)
	return cancelled, nil
}

func (r *pickupRepository) DeleteCancelled(ctx context.Context, donationID int32) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM food_pickups WHERE donation_id = $1 AND status = $2`,
		donationID, domain.PickupStatusCancelled)
	return storageErr("delete cancelled pickups", err)
}

func (r *pickupRepository) ListByDonation(ctx context.Context, donationID int32) ([]domain.PickupRequest, error) {
	query := `SELECT ` + pickupColumns + ` FROM food_pickups WHERE donation_id = $1 ORDER BY created_on, id`
	rows, err := r.db.QueryContext(ctx, query, donationID)
	if err != nil {
		return nil, storageErr("list donation pickups", err)
	}
	pickups, err := collectPickups(rows)
	if err != nil {
		return nil, storageErr("list donation pickups", err)
	}
	return pickups, nil
}

func (r *pickupRepository) ListByRequester(ctx context.Context, requesterID int32, status domain.PickupStatus, page, pageSize int32) ([]domain.PickupRequest, int32, error) {
	where := ` WHERE requester_id = $1 AND ($2::varchar = '' OR status = $2)`

	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM food_pickups`+where, requesterID, status).Scan(&count); err != nil {
		return nil, 0, storageErr("count pickups", err)
	}

	query := `SELECT ` + pickupColumns + ` FROM food_pickups` + where + ` ORDER BY created_on DESC, id DESC LIMIT $3 OFFSET $4`
	rows, err := r.db.QueryContext(ctx, query, requesterID, status, pageSize, pageOffset(page, pageSize))
	if err != nil {
		return nil, 0, storageErr("list pickups", err)
	}
	pickups, err := collectPickups(rows)
	if err != nil {
		return nil, 0, storageErr("list pickups", err)
	}
	return pickups, count, nil
}
