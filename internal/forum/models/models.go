package models

import "time"

// Question is an owned resource. OwnerID and CreatedAt are fixed at creation;
// only Title and Body may change, and only at the owner's hand.
type Question struct {
	ID        string
	OwnerID   string
	Title     string
	Body      string
	CreatedAt time.Time
}

// Answer references exactly one existing question. It is removed either by
// its owner or implicitly when its parent question is deleted.
type Answer struct {
	ID         string
	QuestionID string
	OwnerID    string
	AnswerText string
	CreatedAt  time.Time
}

// QuestionWithAuthor decorates a question with its author's username for
// listing payloads.
type QuestionWithAuthor struct {
	Question
	AuthorUsername string
}

// AnswerWithAuthor decorates an answer with its author's username.
type AnswerWithAuthor struct {
	Answer
	AuthorUsername string
}
