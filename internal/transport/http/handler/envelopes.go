package handler

import (
	"encoding/json"
	"net/http"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// CodeEnvelope wraps a successful ad-completion response.
type CodeEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// StatsEnvelope wraps the admin stats response.
type StatsEnvelope struct {
	Impressions   int64   `json:"impressions"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}
