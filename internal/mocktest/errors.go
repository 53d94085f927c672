package mocktest

import (
	"errors"
	"fmt"
	"time"
)

// Domain errors carry enough state for the caller to render an actionable
// message without re-querying. None are fatal; the presentation layer
// recovers by redirecting to an earlier wizard step.

var (
	ErrSessionNotFound  = errors.New("mock test not found")
	ErrQuestionNotFound = errors.New("question not found")
	ErrForbidden        = errors.New("unauthorized")
	ErrUnknownExamType  = errors.New("unknown exam type")
)

// AttemptNotAllowedError: the cooldown window since the last confirmed
// attempt has not elapsed.
type AttemptNotAllowedError struct {
	ExamType      ExamType
	NextAttemptAt time.Time
}

func (e *AttemptNotAllowedError) Error() string {
	return fmt.Sprintf("%s attempt not allowed until %s", e.ExamType, e.NextAttemptAt.Format(time.RFC3339))
}

type InvalidSelectionCountError struct {
	ExamType ExamType
	Got      int
	Min      int
	Max      int
}

func (e *InvalidSelectionCountError) Error() string {
	if e.Min == e.Max {
		return fmt.Sprintf("%s requires exactly %d subjects, got %d", e.ExamType, e.Min, e.Got)
	}
	return fmt.Sprintf("%s requires between %d and %d subjects, got %d", e.ExamType, e.Min, e.Max, e.Got)
}

type MissingMandatorySubjectError struct {
	ExamType ExamType
	Subject  string
}

func (e *MissingMandatorySubjectError) Error() string {
	return fmt.Sprintf("%s is compulsory for %s", e.Subject, e.ExamType)
}

type DuplicateSubjectError struct {
	Subject string
}

func (e *DuplicateSubjectError) Error() string {
	return fmt.Sprintf("subject %q selected more than once", e.Subject)
}

// LockedCombinationError: the stored combination is inside its lock window
// and the requested list differs from it.
type LockedCombinationError struct {
	ExamType          ExamType
	LockedCombination []string
	NextChangeAt      time.Time
}

func (e *LockedCombinationError) Error() string {
	return fmt.Sprintf("%s subject combination locked until %s", e.ExamType, e.NextChangeAt.Format(time.RFC3339))
}

// InvalidStateTransitionError names the current and attempted states. The
// session is left unchanged.
type InvalidStateTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidStateTransitionError) Error() string {
	return fmt.Sprintf("invalid transition %s -> %s", e.From, e.To)
}

// SessionAlreadyActiveError: a prior non-submitted session exists for this
// (user, exam type). The caller may resume it via the carried ID.
type SessionAlreadyActiveError struct {
	SessionID string
	Status    Status
}

func (e *SessionAlreadyActiveError) Error() string {
	return fmt.Sprintf("session %s already active (status %s)", e.SessionID, e.Status)
}

type PreflightNotPassedError struct {
	SessionID string
}

func (e *PreflightNotPassedError) Error() string {
	return fmt.Sprintf("pre-flight checks not passed for session %s", e.SessionID)
}

type ExamIDNotFoundError struct {
	ExamID string
}

func (e *ExamIDNotFoundError) Error() string {
	return fmt.Sprintf("exam ID %q not found", e.ExamID)
}

// InvalidExamIDError: malformed ID or prefix/exam-type mismatch.
type InvalidExamIDError struct {
	ExamID string
	Reason string
}

func (e *InvalidExamIDError) Error() string {
	return fmt.Sprintf("invalid exam ID %q: %s", e.ExamID, e.Reason)
}

type SubjectCompletedError struct {
	Subject string
}

func (e *SubjectCompletedError) Error() string {
	return fmt.Sprintf("cannot go back to completed subject %q", e.Subject)
}

type SubjectNotSelectedError struct {
	Subject string
}

func (e *SubjectNotSelectedError) Error() string {
	return fmt.Sprintf("subject %q is not part of the confirmed combination", e.Subject)
}
