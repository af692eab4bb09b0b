package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"perfume-catalog/internal/domain"
	"perfume-catalog/internal/repository"
)

const userColumns = `id, username, email, password_hash, is_active, created_at`

type UserRepository struct {
	db      *sql.DB
	dialect Dialect
}

func NewUserRepository(db *DB) repository.UserRepository {
	return &UserRepository{db: db.DB, dialect: db.dialect}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	return WithTx(ctx, r.db, func(ctx context.Context, tx DBTX) error {
		_, err := tx.ExecContext(ctx, r.dialect.Rebind(`
INSERT INTO users (`+userColumns+`)
VALUES (?, ?, ?, ?, ?, ?)`),
			user.ID,
			user.Username,
			user.Email,
			user.PasswordHash,
			user.IsActive,
			user.CreatedAt,
		)
		if err != nil {
			if r.dialect.IsUniqueViolation(err) {
				return fmt.Errorf("user %q: %w", user.Username, domain.ErrConflict)
			}
			return fmt.Errorf("insert user: %w", err)
		}
		return nil
	})
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, r.dialect.Rebind(`
SELECT `+userColumns+`
FROM users
WHERE username = ?`),
		username,
	)
	return scanUser(row)
}

func scanUser(row interface {
	Scan(dest ...any) error
}) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.IsActive,
		&user.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	user.CreatedAt = user.CreatedAt.UTC()
	return &user, nil
}
