package repositories

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/myrtti/sightline/internal/errors"
	"github.com/myrtti/sightline/internal/models"
	"github.com/myrtti/sightline/internal/sqlite"
)

type UserRepository struct {
	dbs    *sqlite.Database
	logger *slog.Logger
}

func NewUserRepository(dbs *sqlite.Database, logger *slog.Logger) *UserRepository {
	return &UserRepository{
		dbs:    dbs,
		logger: logger.With("source", "UserRepository"),
	}
}

// Upsert creates the user or refreshes its display name.
func (r *UserRepository) Upsert(ctx context.Context, user *models.User) error {
	stmt := `INSERT INTO users (id, display_name) VALUES (?, ?)
ON CONFLICT (id) DO UPDATE SET display_name = excluded.display_name`
	if _, err := r.dbs.ReadWrite.ExecContext(ctx, stmt, user.ID, user.DisplayName); err != nil {
		return errors.Wrap(err, "upsert user")
	}
	return nil
}

// Get returns the user or sql.ErrNoRows when it does not exist.
func (r *UserRepository) Get(ctx context.Context, id []byte) (*models.User, error) {
	var user models.User
	stmt := `SELECT id, display_name FROM users WHERE id = ?`
	if err := r.dbs.ReadOnly.GetContext(ctx, &user, stmt, id); err != nil {
		return nil, errors.Wrap(err, "read user")
	}
	return &user, nil
}

// Exists reports whether a user with the id exists.
func (r *UserRepository) Exists(ctx context.Context, id []byte) (bool, error) {
	var exists bool
	stmt := `SELECT EXISTS (SELECT 1 FROM users WHERE id = ?)`
	if err := r.dbs.ReadOnly.GetContext(ctx, &exists, stmt, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, errors.Wrap(err, "check user exists")
	}
	return exists, nil
}
