package main

import (
	"net/http"

	"github.com/justinas/alice"
)

func (app *application) routes() http.Handler {
	mux := http.NewServeMux()

	fileServer := http.FileServer(http.Dir("./ui/static/"))
	mux.Handle("GET /static/", http.StripPrefix("/static", cacheForeverHeaders(fileServer)))

	mux.HandleFunc("GET /api/healthy", app.healthy)

	session := alice.New(app.sessionManager.LoadAndSave, noSurf, app.ensureUser, commonContext)

	mux.Handle("GET /{$}", session.ThenFunc(app.home))
	mux.Handle("POST /vision-test/start", session.ThenFunc(app.startVisionTest))
	mux.Handle("GET /vision-test", session.ThenFunc(app.showPlate))
	mux.Handle("POST /vision-test/answer", session.ThenFunc(app.submitAnswer))
	mux.Handle("GET /vision-test/result", session.ThenFunc(app.showResult))

	// SSE needs a session middleware that does not buffer the response.
	sse := alice.New(app.serverSentEventMiddleware, app.requireUser)
	mux.Handle("GET /vision-test/report/stream", sse.ThenFunc(app.streamReport))

	return app.recoverPanic(app.logRequest(secureHeaders(mux)))
}
