package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/heartmarshall/wortschatz/internal/app/practice"
	"github.com/heartmarshall/wortschatz/internal/domain"
)

// practiceService is what PracticeHandler needs from the practice service.
type practiceService interface {
	Next(ctx context.Context, t practice.ExerciseType) (practice.Exercise, error)
	Hint(ctx context.Context, id uuid.UUID) ([]string, error)
	Answer(ctx context.Context, id uuid.UUID, answer string) (practice.Verdict, error)
}

// PracticeHandler serves the exercise endpoints.
type PracticeHandler struct {
	svc practiceService
	log *slog.Logger
}

// NewPracticeHandler creates a PracticeHandler.
func NewPracticeHandler(svc practiceService, logger *slog.Logger) *PracticeHandler {
	return &PracticeHandler{svc: svc, log: logger.With("handler", "practice")}
}

type exerciseResponse struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Question string `json:"question"`
}

type hintResponse struct {
	Options []string `json:"options"`
}

type answerRequest struct {
	Answer string `json:"answer" validate:"required,max=200"`
}

type answerResponse struct {
	Correct bool   `json:"correct"`
	Message string `json:"message"`
	Answer  string `json:"answer"`
}

// Next handles GET /api/exercises/next?type=...
func (h *PracticeHandler) Next(w http.ResponseWriter, r *http.Request) {
	t, err := practice.ParseType(r.URL.Query().Get("type"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	ex, err := h.svc.Next(r.Context(), t)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, exerciseResponse{
		ID:       ex.ID.String(),
		Type:     ex.Type.String(),
		Question: ex.Question,
	})
}

// Hint handles GET /api/exercises/{id}/hint.
func (h *PracticeHandler) Hint(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	options, err := h.svc.Hint(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, hintResponse{Options: options})
}

// Answer handles POST /api/exercises/{id}/answer.
func (h *PracticeHandler) Answer(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req answerRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4<<10)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := domain.CheckStruct(req); err != nil {
		h.handleError(w, r, err)
		return
	}

	v, err := h.svc.Answer(r.Context(), id, req.Answer)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, answerResponse{
		Correct: v.Correct,
		Message: v.Message,
		Answer:  v.Answer,
	})
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid exercise id")
		return uuid.Nil, false
	}
	return id, true
}

func (h *PracticeHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	default:
		h.log.ErrorContext(r.Context(), "internal error", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
