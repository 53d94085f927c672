package mocktest

import (
	"context"
	"fmt"
	"math/rand"
)

const (
	examIDLength  = 12
	examIDCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	examIDMaxMints = 10
)

// newExamID draws a prefixed token: one exam-type letter ('J'/'W') followed
// by random characters to a total of 12.
func newExamID(r *rand.Rand, t ExamType) string {
	buf := make([]byte, examIDLength)
	buf[0] = t.IDPrefix()
	for i := 1; i < examIDLength; i++ {
		buf[i] = examIDCharset[r.Intn(len(examIDCharset))]
	}
	return string(buf)
}

// mintExamID draws tokens until one is atomically reserved for the session.
// Reservation, not a lookup, is what keeps two concurrent confirmations from
// committing the same token. Collisions are vanishingly rare at 11 random
// characters; the retry cap only guards a broken store.
func (s *Service) mintExamID(ctx context.Context, sessionID string, t ExamType) (string, error) {
	for i := 0; i < examIDMaxMints; i++ {
		id := newExamID(s.rng, t)
		ok, err := s.store.ReserveExamID(ctx, id, sessionID)
		if err != nil {
			return "", err
		}
		if ok {
			return id, nil
		}
	}
	return "", fmt.Errorf("exam ID space exhausted after %d tries", examIDMaxMints)
}

// validExamIDFor checks shape and the prefix/exam-type pairing used by the
// result resolver.
func validExamIDFor(examID string, t ExamType) error {
	if len(examID) != examIDLength {
		return &InvalidExamIDError{ExamID: examID, Reason: "must be 12 characters"}
	}
	switch examID[0] {
	case 'J':
		if t != ExamJAMB {
			return &InvalidExamIDError{ExamID: examID, Reason: "exam ID does not match exam type"}
		}
	case 'W':
		if t != ExamWAEC {
			return &InvalidExamIDError{ExamID: examID, Reason: "exam ID does not match exam type"}
		}
	default:
		return &InvalidExamIDError{ExamID: examID, Reason: "ID must begin with J or W"}
	}
	return nil
}
