package handlers

import (
	"errors"
	"html/template"
	"net/http"

	"github.com/isoforge/isoforge/internal/catalog"
	"github.com/isoforge/isoforge/internal/httputil"
	"github.com/isoforge/isoforge/internal/logging"
	"github.com/isoforge/isoforge/internal/service"
)

// FormHandler serves the customization form and accepts submissions.
type FormHandler struct {
	svc       *service.BuildService
	catalog   *catalog.Catalog
	templates *template.Template
	logger    *logging.Logger
	maxMemory int64
}

// NewFormHandler wires the form handler. templates must contain
// index.html, output.html, about.html, 404.html and error.html.
func NewFormHandler(svc *service.BuildService, cat *catalog.Catalog, templates *template.Template, logger *logging.Logger, maxUploadSize int64) *FormHandler {
	return &FormHandler{
		svc:       svc,
		catalog:   cat,
		templates: templates,
		logger:    logger,
		maxMemory: maxUploadSize,
	}
}

type indexData struct {
	Features []catalog.Feature
}

type outputData struct {
	Email string
	Tag   string
}

type errorData struct {
	Status  int
	Message string
}

// Index renders the customization form.
func (h *FormHandler) Index(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "index.html", indexData{Features: h.catalog.Features})
}

// About renders the about page.
func (h *FormHandler) About(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "about.html", nil)
}

// NotFound renders the custom 404 page.
func (h *FormHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusNotFound, "404.html", nil)
}

// Submit accepts the multipart form POST and fires the build trigger.
// A well-formed submission always gets the confirmation page, whatever
// the trigger outcome.
func (h *FormHandler) Submit(w http.ResponseWriter, r *http.Request) {
	// Allow some slack beyond the upload limit for the text fields. The
	// body itself is capped too; ParseMultipartForm alone only bounds
	// what is held in memory, not what gets spooled to disk.
	r.Body = http.MaxBytesReader(w, r.Body, h.maxMemory+1<<20)
	if err := r.ParseMultipartForm(h.maxMemory + 1<<20); err != nil {
		h.render(w, r, http.StatusBadRequest, "error.html", errorData{
			Status:  http.StatusBadRequest,
			Message: "The submitted form could not be read.",
		})
		return
	}

	email := r.FormValue("email")
	tag := r.FormValue("event")
	if email == "" || tag == "" {
		h.render(w, r, http.StatusBadRequest, "error.html", errorData{
			Status:  http.StatusBadRequest,
			Message: "Email and event name are required.",
		})
		return
	}

	sub := service.Submission{
		Email:     email,
		Tag:       tag,
		EventURL:  r.FormValue("event_url"),
		Features:  r.PostForm["feature"],
		Processor: r.FormValue("processor"),
		ClientIP:  httputil.GetClientIP(r),
	}

	file, header, err := r.FormFile("wallpaper")
	switch {
	case err == nil:
		defer file.Close()
		sub.Wallpaper = file
		sub.WallpaperName = header.Filename
	case errors.Is(err, http.ErrMissingFile):
		// Wallpaper is optional.
	default:
		h.render(w, r, http.StatusBadRequest, "error.html", errorData{
			Status:  http.StatusBadRequest,
			Message: "The wallpaper upload could not be read.",
		})
		return
	}

	result, err := h.svc.Submit(r.Context(), sub)
	switch {
	case errors.Is(err, service.ErrRateLimited):
		h.render(w, r, http.StatusTooManyRequests, "error.html", errorData{
			Status:  http.StatusTooManyRequests,
			Message: "Too many build requests. Please try again later.",
		})
		return
	case err != nil:
		h.logger.ErrorContext(r.Context(), "submission failed", logging.Error(err))
		h.render(w, r, http.StatusInternalServerError, "error.html", errorData{
			Status:  http.StatusInternalServerError,
			Message: "Something went wrong preparing your build.",
		})
		return
	}

	if !result.Triggered {
		// Deliberate: the user still sees the confirmation page. The
		// failure is visible in logs and metrics only.
		h.logger.WarnContext(r.Context(), "confirmation shown for untriggered build",
			logging.Tag(tag))
	}

	h.render(w, r, http.StatusOK, "output.html", outputData{Email: email, Tag: tag})
}

func (h *FormHandler) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		h.logger.ErrorContext(r.Context(), "template render failed",
			logging.Error(err), logging.Path(r.URL.Path))
	}
}
