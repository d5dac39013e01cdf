package repositories

import (
	"context"
	"log/slog"
	"time"

	"github.com/myrtti/sightline/internal/errors"
	"github.com/myrtti/sightline/internal/sqlite"
)

// StreakRepository records one completion event per finished session and
// derives the user's daily streak from them. It implements
// screening.StreakTracker.
type StreakRepository struct {
	dbs    *sqlite.Database
	logger *slog.Logger
}

func NewStreakRepository(dbs *sqlite.Database, logger *slog.Logger) *StreakRepository {
	return &StreakRepository{
		dbs:    dbs,
		logger: logger.With("source", "StreakRepository"),
	}
}

// RecordCompletion appends a completion event.
func (r *StreakRepository) RecordCompletion(
	ctx context.Context,
	userID []byte,
	testType string,
	completedAt time.Time,
) error {
	stmt := `INSERT INTO streak_events (user_id, test_type, completed_at) VALUES (?, ?, ?)`
	if _, err := r.dbs.ReadWrite.ExecContext(ctx, stmt,
		userID, testType, completedAt.UTC().Format(time.RFC3339Nano)); err != nil {
		return errors.Wrap(err, "insert streak event")
	}
	return nil
}

// CurrentStreak counts consecutive days with at least one completion, ending
// today or yesterday relative to now. A user who completed a test yesterday
// but not yet today still has a live streak.
func (r *StreakRepository) CurrentStreak(ctx context.Context, userID []byte, now time.Time) (int, error) {
	var days []string
	stmt := `SELECT DISTINCT date(completed_at) AS day
FROM streak_events
WHERE user_id = ?
ORDER BY day DESC`
	if err := r.dbs.ReadOnly.SelectContext(ctx, &days, stmt, userID); err != nil {
		return 0, errors.Wrap(err, "query streak days")
	}
	if len(days) == 0 {
		return 0, nil
	}

	const dayFormat = "2006-01-02"
	today := now.UTC().Truncate(24 * time.Hour)
	latest, err := time.Parse(dayFormat, days[0])
	if err != nil {
		return 0, errors.Wrap(err, "parse streak day", slog.String("day", days[0]))
	}
	if gap := today.Sub(latest); gap > 24*time.Hour {
		return 0, nil
	}

	streak := 1
	previous := latest
	for _, dayStr := range days[1:] {
		day, err := time.Parse(dayFormat, dayStr)
		if err != nil {
			return 0, errors.Wrap(err, "parse streak day", slog.String("day", dayStr))
		}
		if previous.Sub(day) != 24*time.Hour {
			break
		}
		streak++
		previous = day
	}
	return streak, nil
}
