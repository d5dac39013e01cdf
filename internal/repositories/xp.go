package repositories

import (
	"context"
	"log/slog"

	"github.com/myrtti/sightline/internal/errors"
	"github.com/myrtti/sightline/internal/sqlite"
)

// XPRepository keeps the append-only XP ledger. It implements
// screening.XPLedger.
type XPRepository struct {
	dbs    *sqlite.Database
	logger *slog.Logger
}

func NewXPRepository(dbs *sqlite.Database, logger *slog.Logger) *XPRepository {
	return &XPRepository{
		dbs:    dbs,
		logger: logger.With("source", "XPRepository"),
	}
}

// AddXP appends a delta to the user's ledger.
func (r *XPRepository) AddXP(ctx context.Context, userID []byte, delta int) error {
	stmt := `INSERT INTO xp_ledger (user_id, delta) VALUES (?, ?)`
	if _, err := r.dbs.ReadWrite.ExecContext(ctx, stmt, userID, delta); err != nil {
		return errors.Wrap(err, "insert XP delta")
	}
	return nil
}

// Total returns the user's accumulated XP.
func (r *XPRepository) Total(ctx context.Context, userID []byte) (int, error) {
	var total int
	stmt := `SELECT COALESCE(SUM(delta), 0) FROM xp_ledger WHERE user_id = ?`
	if err := r.dbs.ReadOnly.GetContext(ctx, &total, stmt, userID); err != nil {
		return 0, errors.Wrap(err, "sum XP ledger")
	}
	return total, nil
}
