package grading

import (
	"context"
	"strings"
)

// Q is the minimal view of a question needed for grading.
type Q struct {
	Subject       string
	CorrectAnswer string
	Points        float64
}

// Result is the outcome of grading a single response.
type Result struct {
	Correct    bool
	AutoPoints float64
	MaxPoints  float64
}

// Grader scores one response against one question. CBT papers are all
// single-answer objective questions, but the wizard only depends on this
// interface, so alternative strategies can be swapped in.
type Grader interface {
	Grade(ctx context.Context, q Q, response string) (Result, error)
}

type exactMatch struct{}

// NewExactMatchGrader grades by exact (whitespace-trimmed) answer equality.
func NewExactMatchGrader() Grader { return exactMatch{} }

func (exactMatch) Grade(_ context.Context, q Q, response string) (Result, error) {
	points := q.Points
	if points == 0 {
		points = 1
	}
	res := Result{MaxPoints: points}
	if strings.TrimSpace(response) != "" && strings.TrimSpace(response) == strings.TrimSpace(q.CorrectAnswer) {
		res.Correct = true
		res.AutoPoints = points
	}
	return res, nil
}
