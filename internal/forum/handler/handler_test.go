package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"askboard/internal/forum/models"
	"askboard/pkg/domain"
	dErrors "askboard/pkg/domain-errors"
)

type stubForum struct {
	err        error
	principals []domain.Principal
	deletedIDs []string
}

func (s *stubForum) record(principal domain.Principal) {
	s.principals = append(s.principals, principal)
}

func (s *stubForum) ListQuestions(_ context.Context, principal domain.Principal) ([]models.QuestionWithAuthor, error) {
	s.record(principal)
	if s.err != nil {
		return nil, s.err
	}
	return []models.QuestionWithAuthor{
		{Question: sampleQuestion(), AuthorUsername: "alice"},
	}, nil
}

func (s *stubForum) CreateQuestion(_ context.Context, principal domain.Principal, title, body string) (models.Question, error) {
	s.record(principal)
	if s.err != nil {
		return models.Question{}, s.err
	}
	question := sampleQuestion()
	question.Title = title
	question.Body = body
	return question, nil
}

func (s *stubForum) GetQuestionWithAnswers(_ context.Context, principal domain.Principal, _ string) (models.QuestionWithAuthor, []models.AnswerWithAuthor, error) {
	s.record(principal)
	if s.err != nil {
		return models.QuestionWithAuthor{}, nil, s.err
	}
	return models.QuestionWithAuthor{Question: sampleQuestion(), AuthorUsername: "alice"},
		[]models.AnswerWithAuthor{{Answer: sampleAnswer(), AuthorUsername: "bob"}}, nil
}

func (s *stubForum) UpdateQuestion(_ context.Context, principal domain.Principal, questionID, title, body string) (models.Question, error) {
	s.record(principal)
	if s.err != nil {
		return models.Question{}, s.err
	}
	question := sampleQuestion()
	question.ID = questionID
	question.Title = title
	question.Body = body
	return question, nil
}

func (s *stubForum) DeleteQuestion(_ context.Context, principal domain.Principal, questionID string) error {
	s.record(principal)
	if s.err != nil {
		return s.err
	}
	s.deletedIDs = append(s.deletedIDs, questionID)
	return nil
}

func (s *stubForum) CreateAnswer(_ context.Context, principal domain.Principal, questionID, answerText string) (models.Answer, error) {
	s.record(principal)
	if s.err != nil {
		return models.Answer{}, s.err
	}
	answer := sampleAnswer()
	answer.QuestionID = questionID
	answer.AnswerText = answerText
	return answer, nil
}

func (s *stubForum) DeleteAnswer(_ context.Context, principal domain.Principal, answerID string) error {
	s.record(principal)
	if s.err != nil {
		return s.err
	}
	s.deletedIDs = append(s.deletedIDs, answerID)
	return nil
}

func sampleQuestion() models.Question {
	return models.Question{
		ID:        "q-1",
		OwnerID:   "user-1",
		Title:     "How do goroutines leak?",
		Body:      "Details inside.",
		CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func sampleAnswer() models.Answer {
	return models.Answer{
		ID:         "a-1",
		QuestionID: "q-1",
		OwnerID:    "user-2",
		AnswerText: "Unbuffered channels.",
		CreatedAt:  time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC),
	}
}

type stubResolver struct {
	principal domain.Principal
}

func (s stubResolver) Resolve(_ context.Context, token string) (domain.Principal, error) {
	if token != "valid-token" {
		return domain.Principal{}, dErrors.New(dErrors.CodeUnauthenticated, "session not found")
	}
	return s.principal, nil
}

type ForumHandlerSuite struct {
	suite.Suite
	forum     *stubForum
	principal domain.Principal
	router    chi.Router
}

func TestForumHandlerSuite(t *testing.T) {
	suite.Run(t, new(ForumHandlerSuite))
}

func (s *ForumHandlerSuite) SetupTest() {
	s.forum = &stubForum{}
	s.principal = domain.Principal{ID: "user-1", Username: "alice"}
	s.router = chi.NewRouter()
	logger := slog.New(slog.DiscardHandler)
	New(s.forum, stubResolver{principal: s.principal}, logger).Register(s.router)
}

func (s *ForumHandlerSuite) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer valid-token")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *ForumHandlerSuite) errorCode(rec *httptest.ResponseRecorder) string {
	var body map[string]string
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

func (s *ForumHandlerSuite) TestSessionGate() {
	routes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/questions"},
		{http.MethodPost, "/questions"},
		{http.MethodGet, "/questions/q-1"},
		{http.MethodPut, "/questions/q-1"},
		{http.MethodDelete, "/questions/q-1"},
		{http.MethodPost, "/questions/q-1/answers"},
		{http.MethodDelete, "/answers/a-1"},
	}
	for _, route := range routes {
		req := httptest.NewRequest(route.method, route.path, strings.NewReader("{}"))
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)
		s.Equal(http.StatusUnauthorized, rec.Code, "%s %s", route.method, route.path)
	}
	s.Empty(s.forum.principals)
}

func (s *ForumHandlerSuite) TestListQuestions() {
	rec := s.do(http.MethodGet, "/questions", "")
	s.Equal(http.StatusOK, rec.Code)

	var resp struct {
		Questions []struct {
			ID     string `json:"id"`
			Author string `json:"author"`
		} `json:"questions"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Require().Len(resp.Questions, 1)
	s.Equal("q-1", resp.Questions[0].ID)
	s.Equal("alice", resp.Questions[0].Author)
	s.Equal([]domain.Principal{s.principal}, s.forum.principals)
}

func (s *ForumHandlerSuite) TestCreateQuestion() {
	s.Run("creates and echoes the question", func() {
		rec := s.do(http.MethodPost, "/questions", `{"title":"New question","body":"Text"}`)
		s.Equal(http.StatusCreated, rec.Code)

		var resp struct {
			Title string `json:"title"`
			Body  string `json:"body"`
		}
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
		s.Equal("New question", resp.Title)
		s.Equal("Text", resp.Body)
	})

	s.Run("malformed body fails validation", func() {
		rec := s.do(http.MethodPost, "/questions", `{"title":`)
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("blank title maps to 400", func() {
		s.forum.err = dErrors.New(dErrors.CodeValidation, "title must not be blank")
		rec := s.do(http.MethodPost, "/questions", `{"title":"  ","body":"Text"}`)
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Equal(string(dErrors.CodeValidation), s.errorCode(rec))
	})
}

func (s *ForumHandlerSuite) TestGetQuestion() {
	s.Run("returns the question and its answers", func() {
		rec := s.do(http.MethodGet, "/questions/q-1", "")
		s.Equal(http.StatusOK, rec.Code)

		var resp struct {
			Question struct {
				ID string `json:"id"`
			} `json:"question"`
			Answers []struct {
				ID     string `json:"id"`
				Author string `json:"author"`
			} `json:"answers"`
		}
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
		s.Equal("q-1", resp.Question.ID)
		s.Require().Len(resp.Answers, 1)
		s.Equal("bob", resp.Answers[0].Author)
	})

	s.Run("missing question maps to 404", func() {
		s.forum.err = dErrors.New(dErrors.CodeNotFound, "question not found")
		rec := s.do(http.MethodGet, "/questions/gone", "")
		s.Equal(http.StatusNotFound, rec.Code)
	})
}

func (s *ForumHandlerSuite) TestUpdateQuestion() {
	s.Run("updates the question", func() {
		rec := s.do(http.MethodPut, "/questions/q-1", `{"title":"Edited","body":"New text"}`)
		s.Equal(http.StatusOK, rec.Code)

		var resp struct {
			Title string `json:"title"`
		}
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
		s.Equal("Edited", resp.Title)
	})

	s.Run("someone else's question maps to 403", func() {
		s.forum.err = dErrors.New(dErrors.CodeForbidden, "not the owner")
		rec := s.do(http.MethodPut, "/questions/q-1", `{"title":"Edited","body":""}`)
		s.Equal(http.StatusForbidden, rec.Code)
		s.Equal(string(dErrors.CodeForbidden), s.errorCode(rec))
	})
}

func (s *ForumHandlerSuite) TestDeleteQuestion() {
	s.Run("deletes and returns no content", func() {
		rec := s.do(http.MethodDelete, "/questions/q-1", "")
		s.Equal(http.StatusNoContent, rec.Code)
		s.Equal([]string{"q-1"}, s.forum.deletedIDs)
	})

	s.Run("missing question maps to 404", func() {
		s.forum.err = dErrors.New(dErrors.CodeNotFound, "question not found")
		rec := s.do(http.MethodDelete, "/questions/gone", "")
		s.Equal(http.StatusNotFound, rec.Code)
	})

	s.Run("unavailable store maps to 503", func() {
		s.forum.err = dErrors.New(dErrors.CodeUnavailable, "store unavailable")
		rec := s.do(http.MethodDelete, "/questions/q-1", "")
		s.Equal(http.StatusServiceUnavailable, rec.Code)
	})
}

func (s *ForumHandlerSuite) TestCreateAnswer() {
	rec := s.do(http.MethodPost, "/questions/q-1/answers", `{"answer_text":"Try pprof."}`)
	s.Equal(http.StatusCreated, rec.Code)

	var resp struct {
		QuestionID string `json:"question_id"`
		AnswerText string `json:"answer_text"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal("q-1", resp.QuestionID)
	s.Equal("Try pprof.", resp.AnswerText)
}

func (s *ForumHandlerSuite) TestDeleteAnswer() {
	s.Run("deletes and returns no content", func() {
		rec := s.do(http.MethodDelete, "/answers/a-1", "")
		s.Equal(http.StatusNoContent, rec.Code)
		s.Equal([]string{"a-1"}, s.forum.deletedIDs)
	})

	s.Run("someone else's answer maps to 403", func() {
		s.forum.err = dErrors.New(dErrors.CodeForbidden, "not the owner")
		rec := s.do(http.MethodDelete, "/answers/a-1", "")
		s.Equal(http.StatusForbidden, rec.Code)
	})
}
