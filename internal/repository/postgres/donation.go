package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"pamigay-backend/internal/domain"
	"pamigay-backend/internal/logger"
	"pamigay-backend/internal/repository"
)

const donationColumns = `id, owner_id, description, quantity, condition, category, COALESCE(photo_url, ''),
	pickup_deadline, pickup_window_start, pickup_window_end, status, accepted_pickup_id, created_on, updated_on`

type donationRepository struct {
	db DBTX
}

func NewDonationRepository(db DBTX) repository.DonationRepository {
	return &donationRepository{db: db}
}

func scanDonation(row rowScanner) (*domain.Donation, error) {
	d := &domain.Donation{}
	var accepted sql.NullInt32
	err := row.Scan(&d.ID, &d.OwnerID, &d.Description, &d.Quantity, &d.Condition, &d.Category, &d.PhotoURL,
		&d.PickupDeadline, &d.PickupWindowStart, &d.PickupWindowEnd, &d.Status, &accepted, &d.CreatedOn, &d.UpdatedOn)
	if err != nil {
		return nil, err
	}
	d.AcceptedPickupID = int32Ptr(accepted)
	return d, nil
}

func (r *donationRepository) Create(ctx context.Context, d *domain.Donation) error {
	logger.EnterMethod("donationRepository.Create", "ownerID", d.OwnerID)

	query := `INSERT INTO food_donations (owner_id, description, quantity, condition, category, photo_url,
	          pickup_deadline, pickup_window_start, pickup_window_end, status, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8, $9, $10, $11, $12) RETURNING id`
	logger.DatabaseCall("INSERT", "food_donations", "ownerID", d.OwnerID)
	err := r.db.QueryRowContext(ctx, query, d.OwnerID, d.Description, d.Quantity, d.Condition, d.Category, d.PhotoURL,
		d.PickupDeadline, d.PickupWindowStart, d.PickupWindowEnd, d.Status, d.CreatedOn, d.UpdatedOn).Scan(&d.ID)
	logger.DatabaseResult("INSERT", 1, err, "donationID", d.ID)

	if err != nil {
		logger.ExitMethodWithError("donationRepository.Create", err)
		return storageErr("create donation", err)
	}
	logger.ExitMethod("donationRepository.Create", "donationID", d.ID)
	return nil
}

func (r *donationRepository) GetByID(ctx context.Context, id int32) (*domain.Donation, error) {
	query := `SELECT ` + donationColumns + ` FROM food_donations WHERE id = $1`
	d, err := scanDonation(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, storageErr(fmt.Sprintf("donation %d", id), err)
	}
	return d, nil
}

func (r *donationRepository) GetForUpdate(ctx context.Context, id int32) (*domain.Donation, error) {
	query := `SELECT ` + donationColumns + ` FROM food_donations WHERE id = $1 FOR UPDATE`
	logger.DatabaseCall("SELECT FOR UPDATE", "food_donations", "donationID", id)
	d, err := scanDonation(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, storageErr(fmt.Sprintf("lock donation %d", id), err)
	}
	return d, nil
}

func (r *donationRepository) UpdateStatus(ctx context.Context, id int32, status domain.DonationStatus, acceptedPickupID *int32, at time.Time) error {
	query := `UPDATE food_donations SET status = $1, accepted_pickup_id = $2, updated_on = $3 WHERE id = $4`
	logger.DatabaseCall("UPDATE", "food_donations", "donationID", id, "status", status)
	result, err := r.db.ExecContext(ctx, query, status, acceptedPickupID, at, id)
	if err != nil {
		return storageErr("update donation status", err)
	}
	rows, err := result.RowsAffected()
	logger.DatabaseResult("UPDATE", rows, err)
	if err != nil {
		return storageErr("update donation status", err)
	}
	if rows == 0 {
		return notFound(fmt.Sprintf("donation %d", id))
	}
	return nil
}

func (r *donationRepository) Update(ctx context.Context, d *domain.Donation) error {
	logger.EnterMethod("donationRepository.Update", "donationID", d.ID)

	query := `UPDATE food_donations SET description = $1, quantity = $2, condition = $3, category = $4,
	          photo_url = NULLIF($5, ''), pickup_deadline = $6, pickup_window_start = $7, pickup_window_end = $8,
	          updated_on = $9 WHERE id = $10`
	logger.DatabaseCall("UPDATE", "food_donations", "donationID", d.ID)
	result, err := r.db.ExecContext(ctx, query, d.Description, d.Quantity, d.Condition, d.Category, d.PhotoURL,
		d.PickupDeadline, d.PickupWindowStart, d.PickupWindowEnd, d.UpdatedOn, d.ID)
	if err != nil {
		logger.ExitMethodWithError("donationRepository.Update", err)
		return storageErr("update donation", err)
	}
	rows, err := result.RowsAffected()
	logger.DatabaseResult("UPDATE", rows, err)
	if err != nil {
		return storageErr("update donation", err)
	}
	if rows == 0 {
		return notFound(fmt.Sprintf("donation %d", d.ID))
	}
	logger.ExitMethod("donationRepository.Update", "donationID", d.ID)
	return nil
}

func (r *donationRepository) Delete(ctx context.Context, id int32) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM food_donations WHERE id = $1`, id)
	if err != nil {
		return storageErr("delete donation", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return storageErr("delete donation", err)
	}
	if rows == 0 {
		return notFound(fmt.Sprintf("donation %d", id))
	}
	return nil
}

func (r *donationRepository) List(ctx context.Context, filter repository.DonationFilter, page, pageSize int32) ([]domain.Donation, int32, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if filter.OwnerID != 0 {
		add("owner_id = $%d", filter.OwnerID)
	}
	if filter.Status != "" {
		add("status = $%d", filter.Status)
	}
	if filter.Category != "" {
		add("category = $%d", filter.Category)
	}
	if !filter.DeadlineAfter.IsZero() {
		add("pickup_deadline > $%d", filter.DeadlineAfter)
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM food_donations`+where, args...).Scan(&count); err != nil {
		return nil, 0, storageErr("count donations", err)
	}

	n := len(args)
	query := fmt.Sprintf(`SELECT %s FROM food_donations%s ORDER BY created_on DESC, id DESC LIMIT $%d OFFSET $%d`,
		donationColumns, where, n+1, n+2)
	rows, err := r.db.QueryContext(ctx, query, append(args, pageSize, pageOffset(page, pageSize))...)
	if err != nil {
		return nil, 0, storageErr("list donations", err)
	}
	defer rows.Close()

	var donations []domain.Donation
	for rows.Next() {
		d, err := scanDonation(rows)
		if err != nil {
			return nil, 0, storageErr("scan donation", err)
		}
		donations = append(donations, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, storageErr("list donations", err)
	}
	return donations, count, nil
}

func (r *donationRepository) ExpireOverdue(ctx context.Context, now time.Time) ([]domain.Donation, error) {
	query := `UPDATE food_donations SET status = $1, updated_on = $2
	          WHERE status = $3 AND pickup_deadline < $2
	          RETURNING ` + donationColumns
	logger.DatabaseCall("UPDATE", "food_donations", "operation", "expire overdue", "now", now)
	rows, err := r.db.QueryContext(ctx, query, domain.DonationStatusCancelled, now, domain.DonationStatusAvailable)
	if err != nil {
		return nil, storageErr("expire donations", err)
	}
	defer rows.Close()

	var expired []domain.Donation
	for rows.Next() {
		d, err := scanDonation(rows)
		if err != nil {
			return nil, storageErr("scan expired donation", err)
		}
		expired = append(expired, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("expire donations", err)
	}
	logger.DatabaseResult("UPDATE", int64(len(expired)), nil)
	return expired, nil
}
