package main

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/myrtti/sightline/internal/contexthelpers"
	"github.com/myrtti/sightline/internal/errors"
	"github.com/myrtti/sightline/internal/models"
)

type homeTemplateData struct {
	BaseTemplateData

	TotalXP      int
	Streak       int
	LatestResult *models.TestResult
}

func (app *application) home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := contexthelpers.AuthenticatedUserID(ctx)

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

	latest, err := app.results.Latest(ctx, userID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		app.serverError(w, r, errors.Wrap(err, "read latest result"))
		return
	}

	data := homeTemplateData{
		BaseTemplateData: newBaseTemplateData(r),
		TotalXP:          totalXP,
		Streak:           streak,
		LatestResult:     latest,
	}

	app.render(w, r, http.StatusOK, "home", data)
}
