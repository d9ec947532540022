package question

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"askboard/internal/forum/models"
	"askboard/pkg/platform/sentinel"
)

type QuestionStoreSuite struct {
	suite.Suite
	store *InMemoryStore
}

func (s *QuestionStoreSuite) SetupTest() {
	s.store = New()
}

func TestQuestionStoreSuite(t *testing.T) {
	suite.Run(t, new(QuestionStoreSuite))
}

func (s *QuestionStoreSuite) TestCreateAndFind() {
	s.Run("create assigns id and timestamp", func() {
		created, err := s.store.Create(context.Background(), models.Question{
			OwnerID: uuid.NewString(),
			Title:   "title",
			Body:    "body",
		})
		s.Require().NoError(err)
		s.NotEmpty(created.ID)
		s.False(created.CreatedAt.IsZero())

		found, err := s.store.FindByID(context.Background(), created.ID)
		s.Require().NoError(err)
		s.Equal(created, found)
	})

	s.Run("lookup of unknown id returns ErrNotFound", func() {
		_, err := s.store.FindByID(context.Background(), uuid.NewString())
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *QuestionStoreSuite) TestUpdate() {
	s.Run("update replaces title and body only", func() {
		created, err := s.store.Create(context.Background(), models.Question{
			OwnerID: uuid.NewString(),
			Title:   "old",
			Body:    "old body",
		})
		s.Require().NoError(err)

		// Update attempts to smuggle a different owner; the store ignores it.
		err = s.store.Update(context.Background(), models.Question{
			ID:      created.ID,
			OwnerID: uuid.NewString(),
			Title:   "new",
			Body:    "new body",
		})
		s.Require().NoError(err)

		found, err := s.store.FindByID(context.Background(), created.ID)
		s.Require().NoError(err)
		s.Equal("new", found.Title)
		s.Equal("new body", found.Body)
		s.Equal(created.OwnerID, found.OwnerID)
		s.Equal(created.CreatedAt, found.CreatedAt)
	})

	s.Run("update on nonexistent question returns ErrNotFound", func() {
		err := s.store.Update(context.Background(), models.Question{ID: uuid.NewString(), Title: "x"})
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *QuestionStoreSuite) TestDelete() {
	s.Run("deletes an existing question", func() {
		created, err := s.store.Create(context.Background(), models.Question{OwnerID: uuid.NewString(), Title: "t"})
		s.Require().NoError(err)

		s.Require().NoError(s.store.Delete(context.Background(), created.ID))
		_, err = s.store.FindByID(context.Background(), created.ID)
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("deleting twice returns ErrNotFound", func() {
		created, err := s.store.Create(context.Background(), models.Question{OwnerID: uuid.NewString(), Title: "t"})
		s.Require().NoError(err)
		s.Require().NoError(s.store.Delete(context.Background(), created.ID))
		s.ErrorIs(s.store.Delete(context.Background(), created.ID), sentinel.ErrNotFound)
	})
}

func (s *QuestionStoreSuite) TestListNewestFirst() {
	now := time.Now()
	oldest, err := s.store.Create(context.Background(), models.Question{OwnerID: "u", Title: "oldest", CreatedAt: now.Add(-3 * time.Hour)})
	s.Require().NoError(err)
	newest, err := s.store.Create(context.Background(), models.Question{OwnerID: "u", Title: "newest", CreatedAt: now})
	s.Require().NoError(err)
	middle, err := s.store.Create(context.Background(), models.Question{OwnerID: "u", Title: "middle", CreatedAt: now.Add(-time.Hour)})
	s.Require().NoError(err)

	listed, err := s.store.ListNewestFirst(context.Background())
	s.Require().NoError(err)
	s.Require().Len(listed, 3)
	s.Equal(newest.ID, listed[0].ID)
	s.Equal(middle.ID, listed[1].ID)
	s.Equal(oldest.ID, listed[2].ID)
}
