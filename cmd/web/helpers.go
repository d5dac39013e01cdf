package main

import (
	"encoding/hex"
	"log/slog"
	"net/http"

	"github.com/myrtti/sightline/internal/contexthelpers"
	"github.com/myrtti/sightline/internal/errors"
)

func (app *application) serverError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		method = r.Method
		uri    = r.URL.RequestURI()
	)

	app.logger.LogAttrs(r.Context(), slog.LevelError, "server error",
		slog.String("method", method), slog.String("uri", uri), errors.SlogError(err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (app *application) clientError(w http.ResponseWriter, r *http.Request, status int) {
	var (
		method = r.Method
		uri    = r.URL.RequestURI()
	)

	app.logger.Debug(http.StatusText(status), "method", method, "uri", uri, slog.Any("formdata", r.Form))
	http.Error(w, http.StatusText(status), status)
}

// sessionRegistryKey identifies the user's live screening session. One live
// attempt per user: starting a new test discards the previous one.
func sessionRegistryKey(r *http.Request) string {
	return hex.EncodeToString(contexthelpers.AuthenticatedUserID(r.Context()))
}

// shortUserID abbreviates the user id for log lines.
func shortUserID(id []byte) string {
	const length = 8
	s := hex.EncodeToString(id)
	if len(s) > length {
		return s[:length]
	}
	return s
}
