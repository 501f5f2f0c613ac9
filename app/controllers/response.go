package controllers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"blogplatform/app/repositories"
	"blogplatform/app/services"

	"github.com/gorilla/mux"
)

// maxJSONBody bounds JSON request bodies.
const maxJSONBody = 1 << 20

// Result is the {success, message} envelope of the subscriber endpoints.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func sendError(w http.ResponseWriter, message string, status int) {
	sendJSON(w, status, map[string]string{"error": message})
}

// sendServiceError maps service and repository errors onto HTTP statuses.
func sendServiceError(w http.ResponseWriter, r *http.Request, notFound string, err error) {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		sendError(w, notFound, http.StatusNotFound)
	case services.IsValidation(err):
		sendError(w, err.Error(), http.StatusBadRequest)
	default:
		slog.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		sendError(w, "Internal server error", http.StatusInternalServerError)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		sendError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request, name, label string) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id <= 0 {
		sendError(w, "Invalid "+label+" ID", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}
