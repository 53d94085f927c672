package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/naijaprep/naijaprep-cbt/internal/mocktest"
	"github.com/naijaprep/naijaprep-cbt/internal/rbac"
)

// GET /mock-test/info/last-attempt?examType=JAMB
func LastAttemptInfoHandler(svc *mocktest.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t := mocktest.ExamType(r.URL.Query().Get("examType"))
		if !t.Valid() {
			writeDomainError(w, mocktest.ErrUnknownExamType)
			return
		}
		d, err := svc.CanAttempt(r.Context(), rbac.SubjectFromContext(r.Context()), t)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, d)
	}
}

// GET /mock-test/check-results/{examID}
// not_ready is a successful response, not an error: the embargo is expected
// behavior the frontend counts down against.
func CheckResultsHandler(svc *mocktest.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := svc.ResolveResult(r.Context(), chi.URLParam(r, "examID"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		if res.Status == "not_ready" {
			writeJSON(w, http.StatusOK, map[string]any{
				"message": "Results not yet available",
				"status":  res.Status,
				"exam_id": res.ExamID,
			})
			return
		}
		writeJSON(w, http.StatusOK, res.Result)
	}
}
