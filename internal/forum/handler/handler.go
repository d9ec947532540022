package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"askboard/internal/forum/models"
	"askboard/internal/platform/middleware"
	"askboard/internal/transport/http/shared"
	"askboard/pkg/domain"
	dErrors "askboard/pkg/domain-errors"
	"askboard/pkg/requestcontext"
)

// Service defines the lifecycle operations the handler delegates to.
type Service interface {
	ListQuestions(ctx context.Context, principal domain.Principal) ([]models.QuestionWithAuthor, error)
	CreateQuestion(ctx context.Context, principal domain.Principal, title, body string) (models.Question, error)
	GetQuestionWithAnswers(ctx context.Context, principal domain.Principal, questionID string) (models.QuestionWithAuthor, []models.AnswerWithAuthor, error)
	UpdateQuestion(ctx context.Context, principal domain.Principal, questionID, title, body string) (models.Question, error)
	DeleteQuestion(ctx context.Context, principal domain.Principal, questionID string) error
	CreateAnswer(ctx context.Context, principal domain.Principal, questionID, answerText string) (models.Answer, error)
	DeleteAnswer(ctx context.Context, principal domain.Principal, answerID string) error
}

// Handler exposes the question/answer lifecycle as JSON endpoints. Every
// route sits behind the session middleware; the service re-checks the
// principal anyway so a misconfigured mount cannot skip authentication.
type Handler struct {
	logger   *slog.Logger
	forum    Service
	resolver middleware.SessionResolver
}

func New(forum Service, resolver middleware.SessionResolver, logger *slog.Logger) *Handler {
	return &Handler{
		logger:   logger,
		forum:    forum,
		resolver: resolver,
	}
}

// Register registers the forum routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireSession(h.resolver, h.logger))
		r.Get("/questions", h.handleListQuestions)
		r.Post("/questions", h.handleCreateQuestion)
		r.Get("/questions/{id}", h.handleGetQuestion)
		r.Put("/questions/{id}", h.handleUpdateQuestion)
		r.Delete("/questions/{id}", h.handleDeleteQuestion)
		r.Post("/questions/{id}/answers", h.handleCreateAnswer)
		r.Delete("/answers/{id}", h.handleDeleteAnswer)
	})
}

type questionRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type answerRequest struct {
	AnswerText string `json:"answer_text"`
}

type questionResponse struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	Author    string    `json:"author,omitempty"`
}

type answerResponse struct {
	ID         string    `json:"id"`
	QuestionID string    `json:"question_id"`
	OwnerID    string    `json:"owner_id"`
	AnswerText string    `json:"answer_text"`
	CreatedAt  time.Time `json:"created_at"`
	Author     string    `json:"author,omitempty"`
}

type questionDetailResponse struct {
	Question questionResponse `json:"question"`
	Answers  []answerResponse `json:"answers"`
}

func (h *Handler) handleListQuestions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	questions, err := h.forum.ListQuestions(ctx, requestcontext.Principal(ctx))
	if err != nil {
		h.logFailure(ctx, "list questions", err)
		shared.WriteError(w, err)
		return
	}

	out := make([]questionResponse, 0, len(questions))
	for _, question := range questions {
		out = append(out, toQuestionResponse(question.Question, question.AuthorUsername))
	}
	shared.WriteJSON(w, http.StatusOK, map[string][]questionResponse{"questions": out})
}

func (h *Handler) handleCreateQuestion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req questionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid request body"))
		return
	}

	question, err := h.forum.CreateQuestion(ctx, requestcontext.Principal(ctx), req.Title, req.Body)
	if err != nil {
		h.logFailure(ctx, "create question", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, toQuestionResponse(question, ""))
}

func (h *Handler) handleGetQuestion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	question, answers, err := h.forum.GetQuestionWithAnswers(ctx, requestcontext.Principal(ctx), chi.URLParam(r, "id"))
	if err != nil {
		h.logFailure(ctx, "get question", err)
		shared.WriteError(w, err)
		return
	}

	resp := questionDetailResponse{
		Question: toQuestionResponse(question.Question, question.AuthorUsername),
		Answers:  make([]answerResponse, 0, len(answers)),
	}
	for _, answer := range answers {
		resp.Answers = append(resp.Answers, toAnswerResponse(answer.Answer, answer.AuthorUsername))
	}
	shared.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleUpdateQuestion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req questionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid request body"))
		return
	}

	question, err := h.forum.UpdateQuestion(ctx, requestcontext.Principal(ctx), chi.URLParam(r, "id"), req.Title, req.Body)
	if err != nil {
		h.logFailure(ctx, "update question", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, toQuestionResponse(question, ""))
}

func (h *Handler) handleDeleteQuestion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.forum.DeleteQuestion(ctx, requestcontext.Principal(ctx), chi.URLParam(r, "id")); err != nil {
		h.logFailure(ctx, "delete question", err)
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleCreateAnswer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid request body"))
		return
	}

	answer, err := h.forum.CreateAnswer(ctx, requestcontext.Principal(ctx), chi.URLParam(r, "id"), req.AnswerText)
	if err != nil {
		h.logFailure(ctx, "create answer", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, toAnswerResponse(answer, ""))
}

func (h *Handler) handleDeleteAnswer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.forum.DeleteAnswer(ctx, requestcontext.Principal(ctx), chi.URLParam(r, "id")); err != nil {
		h.logFailure(ctx, "delete answer", err)
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) logFailure(ctx context.Context, operation string, err error) {
	h.logger.WarnContext(ctx, operation+" failed",
		"error", err.Error(),
		"request_id", requestcontext.RequestID(ctx),
	)
}

func toQuestionResponse(question models.Question, author string) questionResponse {
	return questionResponse{
		ID:        question.ID,
		OwnerID:   question.OwnerID,
		Title:     question.Title,
		Body:      question.Body,
		CreatedAt: question.CreatedAt,
		Author:    author,
	}
}

func toAnswerResponse(answer models.Answer, author string) answerResponse {
	return answerResponse{
		ID:         answer.ID,
		QuestionID: answer.QuestionID,
		OwnerID:    answer.OwnerID,
		AnswerText: answer.AnswerText,
		CreatedAt:  answer.CreatedAt,
		Author:     author,
	}
}
