package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cuearena/tournament-engine/models"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepository interface {
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.User, error)
	UpdateRating(ctx context.Context, exec SQLExecutor, id int, rating int) error
}

type postgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) UserRepository {
	return &postgresUserRepository{db: db}
}

func (r *postgresUserRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.User, error) {
	if exec == nil {
		exec = r.db
	}
	query := `
		SELECT id, first_name, last_name, nickname, role, region, rating, created_at
		FROM users
		WHERE id = $1`

	user := &models.User{}
	err := exec.QueryRowContext(ctx, query, id).Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.Nickname,
		&user.Role,
		&user.Region,
		&user.Rating,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to scan user %d: %w", id, err)
	}
	return user, nil
}

func (r *postgresUserRepository) UpdateRating(ctx context.Context, exec SQLExecutor, id int, rating int) error {
	if exec == nil {
		exec = r.db
	}
	result, err := exec.ExecContext(ctx, `UPDATE users SET rating = $1 WHERE id = $2`, rating, id)
	if err != nil {
		return fmt.Errorf("failed to update rating for user %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrUserNotFound)
}
