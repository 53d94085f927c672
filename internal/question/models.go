package question

import (
	"context"
	"errors"
)

type Choice struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Question is one bank entry. CorrectAnswer is never serialized to
// candidates; Serve strips it before handing questions out.
type Question struct {
	ID            string   `json:"id"`
	ExamType      string   `json:"exam_type"` // JAMB|WAEC
	Subject       string   `json:"subject"`
	Prompt        string   `json:"prompt"`
	Choices       []Choice `json:"choices,omitempty"`
	CorrectAnswer string   `json:"correct_answer,omitempty"`
	Active        bool     `json:"active"`
}

var ErrNotFound = errors.New("question not found")

type Bank interface {
	Put(ctx context.Context, q Question) error
	Get(ctx context.Context, id string) (Question, error)
	BySubject(ctx context.Context, examType, subject string) ([]Question, error)
}
