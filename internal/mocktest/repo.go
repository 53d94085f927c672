package mocktest

import "context"

// Store is the persistence port for the exam wizard. Implementations:
// in-memory (tests, offline) and SQL (sqlite/postgres).
type Store interface {
	CreateSession(ctx context.Context, s Session) error
	GetSession(ctx context.Context, id string) (Session, error)
	UpdateSession(ctx context.Context, s Session) error

	// ActiveSession returns the newest non-submitted session for the pair,
	// if any.
	ActiveSession(ctx context.Context, userID string, examType ExamType) (Session, bool, error)

	SessionByExamID(ctx context.Context, examID string) (Session, error)

	// ReserveExamID atomically assigns an unused exam ID to the session,
	// reporting false when any session already holds the ID. The mint loop
	// retries on false; implementations must make the check-and-assign a
	// single step.
	ReserveExamID(ctx context.Context, examID, sessionID string) (bool, error)

	// GetAttemptRecord returns ok=false when the user has never confirmed an
	// attempt for this exam type.
	GetAttemptRecord(ctx context.Context, userID string, examType ExamType) (AttemptRecord, bool, error)
	PutAttemptRecord(ctx context.Context, rec AttemptRecord) error

	// UserName resolves a display name for result payloads; implementations
	// fall back to "Candidate" for unknown users.
	UserName(ctx context.Context, userID string) (string, error)
}
