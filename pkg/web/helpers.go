package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

func RespondJSON(w http.ResponseWriter, logger *slog.Logger, status int, payload any) {
	// Handle nil payload
	if payload == nil {
		w.WriteHeader(status)
		return
	}

	response, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Error encoding response to JSON", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(response)
}

func RespondError(w http.ResponseWriter, logger *slog.Logger, status int, message string) {
	RespondJSON(w, logger, status, map[string]string{"error": message})
}

// RespondFetchError renders the {error, details, timestamp} envelope used by
// catalog fetch failures so callers can always show a deterministic error state.
func RespondFetchError(w http.ResponseWriter, logger *slog.Logger, status int, message string, err error) {
	RespondJSON(w, logger, status, map[string]string{
		"error":     message,
		"details":   err.Error(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// ParseID extracts the product ID from the request path. IDs are opaque
// non-empty strings assigned by the row store.
func ParseID(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (string, bool) {
	id := r.PathValue("id")
	if id == "" {
		RespondError(w, logger, http.StatusBadRequest, "Product ID is required")
		return "", false
	}
	return id, true
}
