package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/user/css-purge-service/internal/delivery/http/response"
	"github.com/user/css-purge-service/internal/repository"
	"github.com/user/css-purge-service/internal/usecase"
)

// maxFormBytes bounds the form body; the only field is a URL.
const maxFormBytes = 64 << 10

type Handler struct {
	purger         usecase.Purger
	artifacts      repository.ArtifactRepository
	artifactPrefix string
	logger         *zap.Logger
}

func NewHandler(purger usecase.Purger, artifacts repository.ArtifactRepository, artifactPrefix string, logger *zap.Logger) *Handler {
	return &Handler{
		purger:         purger,
		artifacts:      artifacts,
		artifactPrefix: artifactPrefix,
		logger:         logger,
	}
}

// HandlePurge accepts a form with a single "url" field.
func (h *Handler) HandlePurge(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseMultipartForm(maxFormBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		h.logger.Warn("invalid purge form", zap.Error(err))
		h.writeJSONError(w, response.MessageFetchFailed, http.StatusBadRequest)
		return
	}

	pageURL := strings.TrimSpace(r.FormValue("url"))
	if !isHTTPURL(pageURL) {
		h.writeJSONError(w, response.MessageFetchFailed, http.StatusBadRequest)
		return
	}

	result, err := h.purger.Purge(r.Context(), pageURL)
	if err != nil {
		var fetchErr *repository.FetchError
		switch {
		case errors.Is(err, usecase.ErrNoStylesheets):
			h.writeJSONError(w, response.MessageNoStylesheet, http.StatusBadRequest)
		case errors.As(err, &fetchErr):
			h.writeJSONError(w, response.MessageFetchFailed, http.StatusBadRequest)
		default:
			h.logger.Error("failed to purge page", zap.String("url", pageURL), zap.Error(err))
			h.writeJSONError(w, response.MessageFetchFailed, http.StatusBadRequest)
		}
		return
	}

	h.writeJSON(w, http.StatusOK, response.PurgeResponse{
		Message: response.MessageProcessed,
		Files:   result.Artifacts,
		Skipped: result.Skipped,
	})
}

// HandleArtifact serves a previously written artifact.
func (h *Handler) HandleArtifact(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if !strings.HasPrefix(name, h.artifactPrefix) {
		http.NotFound(w, r)
		return
	}

	data, err := h.artifacts.Load(r.Context(), name)
	if errors.Is(err, repository.ErrArtifactNotFound) && url.PathEscape(name) != name {
		// Names keep the escaping of the stylesheet URL; the router hands
		// over the decoded form.
		data, err = h.artifacts.Load(r.Context(), url.PathEscape(name))
	}
	if err != nil {
		if !errors.Is(err, repository.ErrArtifactNotFound) {
			h.logger.Error("failed to read artifact", zap.String("name", name), zap.Error(err))
		}
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logger.Warn("failed to write artifact", zap.String("name", name), zap.Error(err))
	}
}

func (h *Handler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, response.HealthResponse{Status: "ok"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to write JSON response", zap.Error(err))
	}
}

func (h *Handler) writeJSONError(w http.ResponseWriter, message string, status int) {
	h.writeJSON(w, status, response.ErrorResponse{Message: message})
}

func isHTTPURL(raw string) bool {
	u, err := url.ParseRequestURI(raw)
	if err != nil || u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}
