package handlers

import (
	"net/http"

	"github.com/isoforge/isoforge/internal/httputil"
	"github.com/isoforge/isoforge/internal/logging"
	"github.com/isoforge/isoforge/internal/release"
)

// StatusHandler answers release status queries for a build tag.
type StatusHandler struct {
	checker *release.Checker
	logger  *logging.Logger
}

func NewStatusHandler(checker *release.Checker, logger *logging.Logger) *StatusHandler {
	return &StatusHandler{
		checker: checker,
		logger:  logger,
	}
}

type statusResponse struct {
	Tag    string `json:"tag"`
	Status string `json:"status"`
	URL    string `json:"url,omitempty"`
}

// GetStatus checks whether the ISO for ?tag= has been published.
func (h *StatusHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	tag := r.URL.Query().Get("tag")
	if tag == "" {
		httputil.WriteError(w, http.StatusBadRequest, "tag query parameter is required")
		return
	}

	status, url, err := h.checker.Check(r.Context(), tag)
	if err != nil {
		h.logger.WarnContext(r.Context(), "release check failed",
			logging.Tag(tag), logging.Error(err))
	}

	resp := statusResponse{
		Tag:    tag,
		Status: string(status),
	}
	if status == release.StatusBuilt {
		resp.URL = url
	}

	httputil.WriteJSON(w, http.StatusOK, resp)
}
