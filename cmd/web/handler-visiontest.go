package main

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/myrtti/sightline/internal/contexthelpers"
	"github.com/myrtti/sightline/internal/errors"
	"github.com/myrtti/sightline/internal/models"
	"github.com/myrtti/sightline/internal/screening"
)

// startVisionTest begins a fresh screening attempt, discarding any prior
// in-flight session for the user.
func (app *application) startVisionTest(w http.ResponseWriter, r *http.Request) {
	session := screening.NewSession(app.catalog)
	if err := session.Start(); err != nil {
		// Includes ErrDeckTooSmall: a misconfigured catalog must surface
		// before any plate is shown.
		app.serverError(w, r, errors.Wrap(err, "start screening session"))
		return
	}
	app.sessions.Put(sessionRegistryKey(r), session)

	http.Redirect(w, r, "/vision-test", http.StatusSeeOther)
}

type plateTemplateData struct {
	BaseTemplateData

	Plate       models.Plate
	PlateNumber int
	QueueLength int
}

// showPlate renders the plate currently awaiting an answer.
func (app *application) showPlate(w http.ResponseWriter, r *http.Request) {
	session := app.sessions.Get(sessionRegistryKey(r))
	if session == nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	plate, err := session.Current()
	if err != nil {
		app.serverError(w, r, errors.Wrap(err, "read current plate"))
		return
	}

	data := plateTemplateData{
		BaseTemplateData: newBaseTemplateData(r),
		Plate:            plate,
		PlateNumber:      session.Position() + 1,
		QueueLength:      session.QueueLength(),
	}

	app.render(w, r, http.StatusOK, "plate", data)
}

// submitAnswer records one answer. Completion classifies the attempt, emits
// the result to the persistence collaborators, and kicks off narrative report
// generation.
func (app *application) submitAnswer(w http.ResponseWriter, r *http.Request) {
	key := sessionRegistryKey(r)
	session := app.sessions.Get(key)
	if session == nil {
		app.clientError(w, r, http.StatusConflict)
		return
	}

	if err := r.ParseForm(); err != nil {
		app.clientError(w, r, http.StatusBadRequest)
		return
	}
	rawInput := r.PostFormValue("answer")

	result, err := session.Submit(rawInput)
	if err != nil {
		if errors.Is(err, screening.ErrNotInProgress) || errors.Is(err, screening.ErrSessionComplete) {
			app.clientError(w, r, http.StatusConflict)
			return
		}
		app.serverError(w, r, errors.Wrap(err, "submit answer"))
		return
	}

	if result == nil {
		http.Redirect(w, r, "/vision-test", http.StatusSeeOther)
		return
	}

	// The session is done: its in-memory state is discarded regardless of
	// how the downstream calls go.
	app.sessions.Delete(key)
	ctx := r.Context()
	userID := contexthelpers.AuthenticatedUserID(ctx)

	if _, err = app.emitter.Emit(ctx, userID, *result, session.Answers()); err != nil {
		app.serverError(w, r, errors.Wrap(err, "emit result"))
		return
	}

	// Narrative generation is fire-and-forget: the result page works with or
	// without it.
	go app.generateNarrative(key, userID, *result)

	http.Redirect(w, r, "/vision-test/result", http.StatusSeeOther)
}

type resultTemplateData struct {
	BaseTemplateData

	Result  models.TestResult
	TotalXP int
	Streak  int
}

// showResult renders the user's most recent completed screening.
func (app *application) showResult(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := contexthelpers.AuthenticatedUserID(ctx)

	latest, err := app.results.Latest(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		app.serverError(w, r, errors.Wrap(err, "read latest result"))
		return
	}

	totalXP, err := app.xp.Total(ctx, userID)
	if err != nil {
		app.serverError(w, r, errors.Wrap(err, "read XP total"))
		return
	}

	streak, err := app.streaks.CurrentStreak(ctx, userID, time.Now())
	if err != nil {
		app.serverError(w, r, errors.Wrap(err, "read streak"))
		return
	}

	data := resultTemplateData{
		BaseTemplateData: newBaseTemplateData(r),
		Result:           *latest,
		TotalXP:          totalXP,
		Streak:           streak,
	}

	app.render(w, r, http.StatusOK, "result", data)
}
