package handlers

import (
	"net/http"

	"github.com/isoforge/isoforge/internal/httputil"
)

// Health reports liveness.
func Health(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "isoforge",
	})
}
