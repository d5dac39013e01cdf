package repositories

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/myrtti/sightline/internal/errors"
	"github.com/myrtti/sightline/internal/models"
	"github.com/myrtti/sightline/internal/sqlite"
)

// TestResultRepository persists completed screening results. It implements
// screening.ResultStore.
type TestResultRepository struct {
	dbs    *sqlite.Database
	logger *slog.Logger
}

func NewTestResultRepository(dbs *sqlite.Database, logger *slog.Logger) *TestResultRepository {
	return &TestResultRepository{
		dbs:    dbs,
		logger: logger.With("source", "TestResultRepository"),
	}
}

type testResultRow struct {
	ID           int64  `db:"id"`
	TestType     string `db:"test_type"`
	ScorePercent int    `db:"score_percent"`
	XPEarned     int    `db:"xp_earned"`
	Details      string `db:"details"`
	Narrative    string `db:"narrative"`
	CompletedAt  string `db:"completed_at"`
}

func (row testResultRow) toModel() (models.TestResult, error) {
	result := models.TestResult{
		ID:           row.ID,
		TestType:     row.TestType,
		ScorePercent: row.ScorePercent,
		XPEarned:     row.XPEarned,
		Narrative:    row.Narrative,
	}
	if err := json.Unmarshal([]byte(row.Details), &result.Details); err != nil {
		return result, errors.Wrap(err, "unmarshal details", slog.Int64("result_id", row.ID))
	}
	completedAt, err := time.Parse(time.RFC3339Nano, row.CompletedAt)
	if err != nil {
		return result, errors.Wrap(err, "parse completed_at", slog.Int64("result_id", row.ID))
	}
	result.CompletedAt = completedAt
	return result, nil
}

// SaveResult inserts a completed test result with the answer sequence
// serialised into the details column.
func (r *TestResultRepository) SaveResult(ctx context.Context, userID []byte, result models.TestResult) error {
	details, err := json.Marshal(result.Details)
	if err != nil {
		return errors.Wrap(err, "marshal details")
	}
	stmt := `INSERT INTO test_results (user_id, test_type, score_percent, xp_earned, details, narrative, completed_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`
	if _, err = r.dbs.ReadWrite.ExecContext(ctx, stmt,
		userID,
		result.TestType,
		result.ScorePercent,
		result.XPEarned,
		string(details),
		result.Narrative,
		result.CompletedAt.UTC().Format(time.RFC3339Nano),
	); err != nil {
		return errors.Wrap(err, "insert test result")
	}
	return nil
}

// Latest returns the most recent result for the user, or sql.ErrNoRows when
// the user has not completed any test.
func (r *TestResultRepository) Latest(ctx context.Context, userID []byte) (*models.TestResult, error) {
	var row testResultRow
	stmt := `SELECT id, test_type, score_percent, xp_earned, details, narrative, completed_at
FROM test_results
WHERE user_id = ?
ORDER BY completed_at DESC, id DESC
LIMIT 1`
	if err := r.dbs.ReadOnly.GetContext(ctx, &row, stmt, userID); err != nil {
		return nil, errors.Wrap(err, "read latest test result")
	}
	result, err := row.toModel()
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// List returns up to limit results for the user, newest first.
func (r *TestResultRepository) List(ctx context.Context, userID []byte, limit int) ([]models.TestResult, error) {
	var rows []testResultRow
	stmt := `SELECT id, test_type, score_percent, xp_earned, details, narrative, completed_at
FROM test_results
WHERE user_id = ?
ORDER BY completed_at DESC, id DESC
LIMIT ?`
	if err := r.dbs.ReadOnly.SelectContext(ctx, &rows, stmt, userID, limit); err != nil {
		return nil, errors.Wrap(err, "list test results")
	}
	results := make([]models.TestResult, 0, len(rows))
	for _, row := range rows {
		result, err := row.toModel()
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}

// AttachNarrative stores the AI-generated narrative on the user's most recent
// result. Report generation runs after the result is persisted, so the update
// targets the newest row.
func (r *TestResultRepository) AttachNarrative(ctx context.Context, userID []byte, narrative string) error {
	stmt := `UPDATE test_results SET narrative = ?
WHERE id = (SELECT id FROM test_results WHERE user_id = ? ORDER BY completed_at DESC, id DESC LIMIT 1)`
	if _, err := r.dbs.ReadWrite.ExecContext(ctx, stmt, narrative, userID); err != nil {
		return errors.Wrap(err, "attach narrative")
	}
	return nil
}
