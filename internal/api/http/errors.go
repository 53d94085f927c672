package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/naijaprep/naijaprep-cbt/internal/mocktest"
)

// writeDomainError maps the mocktest error taxonomy onto HTTP. Policy
// refusals (cooldown, lock) answer 429 as the original site did; state
// conflicts answer 409. The JSON bodies carry the structured fields so the
// frontend can render actionable messages without re-querying.
func writeDomainError(w http.ResponseWriter, err error) {
	var (
		attempt  *mocktest.AttemptNotAllowedError
		count    *mocktest.InvalidSelectionCountError
		missing  *mocktest.MissingMandatorySubjectError
		dup      *mocktest.DuplicateSubjectError
		locked   *mocktest.LockedCombinationError
		badState *mocktest.InvalidStateTransitionError
		active   *mocktest.SessionAlreadyActiveError
		preflt   *mocktest.PreflightNotPassedError
		noExam   *mocktest.ExamIDNotFoundError
		badExam  *mocktest.InvalidExamIDError
		done     *mocktest.SubjectCompletedError
		notSel   *mocktest.SubjectNotSelectedError
	)
	switch {
	case errors.As(err, &attempt):
		writeJSON(w, http.StatusTooManyRequests, map[string]any{
			"message":         "You can only attempt this test once per week",
			"next_attempt_at": attempt.NextAttemptAt,
		})
	case errors.As(err, &locked):
		writeJSON(w, http.StatusTooManyRequests, map[string]any{
			"message":            "Subject combination can only be changed once every 8 months",
			"locked_combination": locked.LockedCombination,
			"next_change_at":     locked.NextChangeAt,
		})
	case errors.As(err, &count), errors.As(err, &missing), errors.As(err, &dup),
		errors.As(err, &badExam), errors.As(err, &done), errors.As(err, &notSel),
		errors.As(err, &preflt), errors.Is(err, mocktest.ErrUnknownExamType):
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": err.Error()})
	case errors.As(err, &badState):
		writeJSON(w, http.StatusConflict, map[string]any{
			"message": err.Error(),
			"from":    badState.From,
			"to":      badState.To,
		})
	case errors.As(err, &active):
		writeJSON(w, http.StatusConflict, map[string]any{
			"message":           err.Error(),
			"active_session_id": active.SessionID,
			"status":            active.Status,
		})
	case errors.As(err, &noExam):
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "Exam ID not found"})
	case errors.Is(err, mocktest.ErrSessionNotFound):
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "Mock test not found"})
	case errors.Is(err, mocktest.ErrQuestionNotFound):
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "Question not found"})
	case errors.Is(err, mocktest.ErrForbidden):
		writeJSON(w, http.StatusForbidden, map[string]any{"message": "Unauthorized"})
	default:
		// Transport/storage failures are never dressed up as policy errors.
		writeJSON(w, http.StatusInternalServerError, map[string]any{"message": "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
