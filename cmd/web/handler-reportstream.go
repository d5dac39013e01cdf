package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/myrtti/sightline/internal/contexthelpers"
	"github.com/myrtti/sightline/internal/errors"
	"github.com/myrtti/sightline/internal/models"
)

// generateNarrative streams the AI narrative for a completed screening,
// forwarding chunks to any live SSE subscriber and persisting the full text at
// the end. Runs in its own goroutine detached from the request.
func (app *application) generateNarrative(key string, userID []byte, result models.ClassificationResult) {
	if !app.aiClient.Enabled() {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	stream, err := app.aiClient.StreamNarrativeReport(ctx, result)
	if err != nil {
		// Streaming can fail on its own; a plain completion may still work
		// and the result page falls back to the persisted narrative.
		app.logger.LogAttrs(ctx, slog.LevelWarn, "failed to start narrative stream", errors.SlogError(err))
		narrative, err := app.aiClient.NarrativeReport(ctx, result)
		if err != nil {
			app.logger.LogAttrs(ctx, slog.LevelError, "failed to generate narrative", errors.SlogError(err))
			return
		}
		if err = app.results.AttachNarrative(ctx, userID, narrative); err != nil {
			app.logger.LogAttrs(ctx, slog.LevelError, "failed to persist narrative", errors.SlogError(err))
		}
		return
	}
	defer func() {
		if err = stream.Close(); err != nil {
			app.logger.LogAttrs(ctx, slog.LevelError, "failed to close narrative stream", errors.SlogError(err))
		}
	}()

	chunks := make(chan string, narrativeChunkBuffer)
	app.reports.Publish(key, chunks)
	defer app.reports.Unpublish(key)
	defer close(chunks)

	var narrative strings.Builder
	for {
		response, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			app.logger.LogAttrs(ctx, slog.LevelError, "narrative stream failed", errors.SlogError(err))
			return
		}
		if len(response.Choices) == 0 {
			continue
		}
		delta := response.Choices[0].Delta.Content
		narrative.WriteString(delta)
		publishChunk(chunks, delta)
	}

	if err = app.results.AttachNarrative(ctx, userID, narrative.String()); err != nil {
		app.logger.LogAttrs(ctx, slog.LevelError, "failed to persist narrative", errors.SlogError(err))
	}
}

// narrativeChunkBuffer absorbs chunks while the subscriber is busy flushing
// earlier ones. OpenAI streams a handful of tokens per chunk, so the whole
// narrative fits well within the buffer.
const narrativeChunkBuffer = 256

// publishChunk forwards a narrative chunk without blocking. When nobody is
// streaming the buffer fills up and further chunks are skipped: the result
// page falls back to the persisted narrative.
func publishChunk(chunks chan<- string, delta string) {
	select {
	case chunks <- delta:
	default:
	}
}

// writeSSE writes a single Server Sent Event, splitting the payload over
// multiple data lines since the payload may contain newlines.
func writeSSE(w http.ResponseWriter, event string, payload string) {
	if event != "" {
		_, _ = fmt.Fprintf(w, "event: %s\n", event)
	}
	for _, line := range strings.Split(payload, "\n") {
		_, _ = fmt.Fprintf(w, "data: %s\n", line)
	}
	_, _ = fmt.Fprint(w, "\n")
}

// streamReport streams the narrative report for the user's latest result over
// Server Sent Events. When generation already finished, or never started, it
// serves the persisted narrative instead.
func (app *application) streamReport(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		app.serverError(w, r, errors.New("response writer does not support flushing"))
		return
	}

	ctx := r.Context()
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	userID := contexthelpers.AuthenticatedUserID(ctx)
	key := sessionRegistryKey(r)

	select {
	case chunks, live := <-app.reports.Subscribe(key):
		if !live {
			app.streamPersistedNarrative(w, r, flusher, userID)
			return
		}
		for {
			select {
			case chunk, more := <-chunks:
				if !more {
					writeSSE(w, "done", "")
					flusher.Flush()
					return
				}
				writeSSE(w, "chunk", chunk)
				flusher.Flush()
			case <-ctx.Done():
				return
			}
		}
	case <-ctx.Done():
	}
}

func (app *application) streamPersistedNarrative(
	w http.ResponseWriter,
	r *http.Request,
	flusher http.Flusher,
	userID []byte,
) {
	latest, err := app.results.Latest(r.Context(), userID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		app.logger.LogAttrs(r.Context(), slog.LevelError, "failed to read persisted narrative",
			errors.SlogError(err))
	}
	if latest != nil && latest.Narrative != "" {
		writeSSE(w, "chunk", latest.Narrative)
	}
	writeSSE(w, "done", "")
	flusher.Flush()
}
