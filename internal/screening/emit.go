package screening

import (
	"context"
	"log/slog"
	"time"

	"github.com/myrtti/sightline/internal/errors"
	"github.com/myrtti/sightline/internal/models"
)

// TestTypeColorVision identifies colour-vision screening results downstream.
const TestTypeColorVision = "color_vision"

// ResultStore persists completed test results.
type ResultStore interface {
	SaveResult(ctx context.Context, userID []byte, result models.TestResult) error
}

// XPLedger applies XP deltas. The engine only computes and forwards the
// delta, it does not apply it.
type XPLedger interface {
	AddXP(ctx context.Context, userID []byte, delta int) error
}

// StreakTracker is notified exactly once per completed session. Weekly or
// daily bucketing is the tracker's concern, not the engine's.
type StreakTracker interface {
	RecordCompletion(ctx context.Context, userID []byte, testType string, completedAt time.Time) error
}

// Emitter packages the outcome of a completed session for the external
// persistence, XP, and streak collaborators.
type Emitter struct {
	store   ResultStore
	xp      XPLedger
	streaks StreakTracker
	baseXP  int
	logger  *slog.Logger
	now     func() time.Time
}

func NewEmitter(
	store ResultStore,
	xp XPLedger,
	streaks StreakTracker,
	baseXP int,
	logger *slog.Logger,
) *Emitter {
	return &Emitter{
		store:   store,
		xp:      xp,
		streaks: streaks,
		baseXP:  baseXP,
		logger:  logger.With("source", "Emitter"),
		now:     time.Now,
	}
}

// XPEarned computes the XP delta for a score, rounding half up.
func (e *Emitter) XPEarned(scorePercent int) int {
	return (2*e.baseXP*scorePercent + 100) / 200
}

// Emit hands the classification to the downstream collaborators. Collaborator
// failures do not corrupt or roll back the already-computed classification:
// the record is returned alongside any error, and the engine never retries.
func (e *Emitter) Emit(
	ctx context.Context,
	userID []byte,
	result models.ClassificationResult,
	answers []models.Answer,
) (models.TestResult, error) {
	record := models.TestResult{
		TestType:     TestTypeColorVision,
		ScorePercent: result.ScorePercent,
		XPEarned:     e.XPEarned(result.ScorePercent),
		Details: models.ResultDetails{
			Answers:      answers,
			Subtype:      result.Subtype,
			TotalPlates:  result.TotalPlates,
			CorrectCount: result.CorrectCount,
		},
		CompletedAt: e.now(),
	}

	if err := e.store.SaveResult(ctx, userID, record); err != nil {
		return record, errors.Wrap(err, "save result")
	}
	if err := e.xp.AddXP(ctx, userID, record.XPEarned); err != nil {
		return record, errors.Wrap(err, "add XP", slog.Int("delta", record.XPEarned))
	}
	if err := e.streaks.RecordCompletion(ctx, userID, record.TestType, record.CompletedAt); err != nil {
		return record, errors.Wrap(err, "record completion")
	}

	e.logger.LogAttrs(ctx, slog.LevelInfo, "emitted test result",
		slog.String("test_type", record.TestType),
		slog.Int("score_percent", record.ScorePercent),
		slog.String("subtype", string(record.Details.Subtype)),
		slog.Int("xp_earned", record.XPEarned))
	return record, nil
}
