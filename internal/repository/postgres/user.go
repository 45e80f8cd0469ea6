package postgres

import (
	"context"
	"fmt"

	"pamigay-backend/internal/domain"
	"pamigay-backend/internal/repository"
)

type userRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	u := &domain.User{}
	query := `SELECT id, name, email, role, COALESCE(device_token, '') FROM users WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.DeviceToken)
	if err != nil {
		return nil, storageErr(fmt.Sprintf("user %d", id), err)
	}
	return u, nil
}
