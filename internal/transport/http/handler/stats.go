package handler

import (
	"net/http"
	"time"

	"github.com/adgate/internal/application/impression"
)

// StatsHandler exposes monetization telemetry on the admin surface.
type StatsHandler struct {
	dispatcher *impression.Dispatcher
	started    time.Time
}

func NewStatsHandler(dispatcher *impression.Dispatcher) *StatsHandler {
	return &StatsHandler{dispatcher: dispatcher, started: time.Now()}
}

func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StatsEnvelope{
		Impressions:   h.dispatcher.Impressions(),
		UptimeSeconds: time.Since(h.started).Seconds(),
	})
}
