package controllers

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"blogplatform/app/database"
)

// StatusChecker reports on the backing database.
type StatusChecker interface {
	Ping(ctx context.Context) error
	Info() database.Info
}

// HealthController serves liveness, database status and the landing page.
type HealthController struct {
	store     StatusChecker
	staticDir string
}

func NewHealthController(store StatusChecker, staticDir string) *HealthController {
	return &HealthController{store: store, staticDir: staticDir}
}

// Health reports that the process is serving requests.
func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "UP",
		"message":   "Blog Platform is running",
		"timestamp": time.Now().UTC(),
	})
}

// DBStatus pings the database and describes the connection.
func (hc *HealthController) DBStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	now := time.Now().UnixMilli()
	if err := hc.store.Ping(ctx); err != nil {
		sendJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"status":    "error",
			"error":     err.Error(),
			"timestamp": now,
		})
		return
	}

	info := hc.store.Info()
	sendJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "connected",
		"database":  info.Database,
		"url":       info.URL,
		"driver":    info.Driver,
		"timestamp": now,
	})
}

// Home serves the static index page, or a JSON banner when there is none.
func (hc *HealthController) Home(w http.ResponseWriter, r *http.Request) {
	if hc.staticDir != "" {
		index := filepath.Join(hc.staticDir, "index.html")
		if _, err := os.Stat(index); err == nil {
			http.ServeFile(w, r, index)
			return
		}
	}
	sendJSON(w, http.StatusOK, map[string]string{
		"name":   "Blog Platform API",
		"status": "UP",
		"docs":   "/api/posts",
	})
}
