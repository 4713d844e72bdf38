package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/priya-kumar159/CodeQuest-Project/internal/challenge"
	"github.com/priya-kumar159/CodeQuest-Project/internal/session"
	"github.com/priya-kumar159/CodeQuest-Project/internal/shared/apierror"
	"github.com/priya-kumar159/CodeQuest-Project/internal/shared/auth"
	"github.com/priya-kumar159/CodeQuest-Project/internal/shared/logging"
)

const (
	serviceTimeout      = 10 * time.Second
	maxMoodPayloadBytes = 16 << 10
)

type handler struct {
	controller *session.Controller
	catalog    *challenge.Catalog
	logger     *slog.Logger
}

type moodRequest struct {
	Mood string `json:"mood"`
}

type challengeSummary struct {
	ID          string         `json:"id"`
	Mood        challenge.Mood `json:"mood"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Points      int            `json:"points"`
}

// RegisterRoutes mounts the session and catalog endpoints.
func RegisterRoutes(r chi.Router, controller *session.Controller, catalog *challenge.Catalog, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	h := &handler{controller: controller, catalog: catalog, logger: logger}

	r.Get("/v1/challenges", h.listChallenges)
	r.Get("/v1/progress", h.sessionAction(h.controller.ShowProgress))
	r.Route("/v1/session", func(r chi.Router) {
		r.Get("/", h.sessionAction(h.controller.Current))
		r.Post("/mood", h.submitMood)
		r.Post("/done", h.sessionAction(h.controller.Done))
		r.Post("/skip", h.sessionAction(h.controller.Skip))
		r.Get("/solution", h.sessionAction(h.controller.ShowSolution))
	})
}

func (h *handler) listChallenges(w http.ResponseWriter, _ *http.Request) {
	items := make([]challengeSummary, 0, h.catalog.Len())
	for _, mood := range h.catalog.Moods() {
		for _, ch := range h.catalog.Challenges(mood) {
			items = append(items, challengeSummary{
				ID:          ch.ID,
				Mood:        mood,
				Title:       ch.Title,
				Description: ch.Description,
				Points:      ch.Points,
			})
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items":       items,
		"total_items": len(items),
	})
}

func (h *handler) submitMood(w http.ResponseWriter, r *http.Request) {
	sessionID := sessionIDFrom(r)
	if sessionID == "" {
		writeError(w, r, apierror.CodeUnauthorized, "missing user ID")
		return
	}

	var req moodRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxMoodPayloadBytes))
	if err := dec.Decode(&req); err != nil {
		writeError(w, r, apierror.CodeBadRequest, "invalid JSON body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), serviceTimeout)
	defer cancel()

	view, err := h.controller.SubmitMood(ctx, sessionID, req.Mood)
	if err != nil {
		h.respondSessionError(w, r, sessionID, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *handler) sessionAction(action func(context.Context, string) (session.View, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := sessionIDFrom(r)
		if sessionID == "" {
			writeError(w, r, apierror.CodeUnauthorized, "missing user ID")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), serviceTimeout)
		defer cancel()

		view, err := action(ctx, sessionID)
		if err != nil {
			h.respondSessionError(w, r, sessionID, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

func (h *handler) respondSessionError(w http.ResponseWriter, r *http.Request, sessionID string, err error) {
	switch {
	case errors.Is(err, session.ErrEmptyMood):
		writeError(w, r, apierror.CodeBadRequest, err.Error())
	case errors.Is(err, session.ErrNoActiveChallenge):
		writeError(w, r, apierror.CodeConflict, err.Error())
	default:
		logging.WithRequestID(r.Context(), h.logger).Error("session request failed",
			slog.String("userId", sessionID),
			slog.Any("error", err),
		)
		writeError(w, r, apierror.CodeInternal, "internal error")
	}
}

// sessionIDFrom prefers the authenticated subject and falls back to the gateway header.
func sessionIDFrom(r *http.Request) string {
	if user, ok := auth.UserFromContext(r.Context()); ok && user.UserID != "" {
		return user.UserID
	}
	return strings.TrimSpace(r.Header.Get("X-User-ID"))
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, r *http.Request, code, message string) {
	writeJSON(w, apierror.ToStatusCode(code), apierror.ErrorResponse{
		Code:      code,
		Message:   message,
		RequestID: middleware.GetReqID(r.Context()),
	})
}
