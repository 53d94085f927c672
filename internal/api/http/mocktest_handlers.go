package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/naijaprep/naijaprep-cbt/internal/mocktest"
	"github.com/naijaprep/naijaprep-cbt/internal/rbac"
)

// POST /mock-test/initialize {"exam_type": "JAMB"}
func InitializeHandler(svc *mocktest.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ExamType mocktest.ExamType `json:"exam_type"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		if !req.ExamType.Valid() {
			writeDomainError(w, mocktest.ErrUnknownExamType)
			return
		}
		res, err := svc.Initialize(r.Context(), rbac.SubjectFromContext(r.Context()), req.ExamType)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{
			"mock_test_id":                        res.Session.ID,
			"message":                             "Mock test initialized",
			"last_subject_combination":            res.LastCombination,
			"last_subject_combination_changed_at": res.CombinationChangedAt,
		})
	}
}

// PUT /mock-test/{mockTestID}/subjects {"subjects": [...]}
func SelectSubjectsHandler(svc *mocktest.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "mockTestID")
		var req struct {
			Subjects []string `json:"subjects"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		sess, err := svc.SelectSubjects(r.Context(), id, rbac.SubjectFromContext(r.Context()), req.Subjects)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, sess)
	}
}

// POST /mock-test/{mockTestID}/confirm
func ConfirmSubjectsHandler(svc *mocktest.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "mockTestID")
		sess, err := svc.ConfirmSubjects(r.Context(), id, rbac.SubjectFromContext(r.Context()))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"exam_id": sess.ExamID,
			"status":  sess.Status,
			"message": "Exam ID generated successfully",
		})
	}
}

// POST /mock-test/{mockTestID}/begin {"ready": true}
func BeginTestHandler(svc *mocktest.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "mockTestID")
		var req struct {
			Ready bool `json:"ready"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		sess, err := svc.BeginTest(r.Context(), id, rbac.SubjectFromContext(r.Context()), req.Ready)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, sess)
	}
}

// GET /mock-test/{mockTestID}/questions?subject=...
func QuestionsHandler(svc *mocktest.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "mockTestID")
		subject := r.URL.Query().Get("subject")
		qs, err := svc.QuestionsFor(r.Context(), id, rbac.SubjectFromContext(r.Context()), subject)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"questions":       qs,
			"total_questions": len(qs),
		})
	}
}

// POST /mock-test/{mockTestID}/responses {"question_id": ..., "answer": ..., "bookmarked": ...}
func SaveResponseHandler(svc *mocktest.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "mockTestID")
		var req struct {
			QuestionID string `json:"question_id"`
			Answer     string `json:"answer"`
			Bookmarked bool   `json:"bookmarked"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		if req.QuestionID == "" {
			http.Error(w, "question_id required", 400)
			return
		}
		_, err := svc.SaveResponse(r.Context(), id, rbac.SubjectFromContext(r.Context()),
			req.QuestionID, req.Answer, req.Bookmarked)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"message": "Answer saved successfully"})
	}
}

// PUT /mock-test/{mockTestID}/current-subject {"subject": ...}
func SetCurrentSubjectHandler(svc *mocktest.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "mockTestID")
		var req struct {
			Subject string `json:"subject"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		_, err := svc.SetCurrentSubject(r.Context(), id, rbac.SubjectFromContext(r.Context()), req.Subject)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"message": "Current subject updated"})
	}
}

// POST /mock-test/{mockTestID}/complete-subject {"subject": ...}
func CompleteSubjectHandler(svc *mocktest.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "mockTestID")
		var req struct {
			Subject string `json:"subject"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		sess, err := svc.CompleteSubject(r.Context(), id, rbac.SubjectFromContext(r.Context()), req.Subject)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"message":            "Subject marked as completed",
			"completed_subjects": sess.CompletedSubjects,
		})
	}
}

// POST /mock-test/{mockTestID}/submit
func SubmitHandler(svc *mocktest.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "mockTestID")
		sess, err := svc.Submit(r.Context(), id, rbac.SubjectFromContext(r.Context()))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"message":         "Test submitted successfully",
			"score":           sess.Score,
			"total_questions": sess.TotalQuestions,
			"exam_id":         sess.ExamID,
		})
	}
}

// GET /mock-test/{mockTestID}/status
// Candidates see their own session; roles with attempt:view-all see any.
func StatusHandler(svc *mocktest.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "mockTestID")
		owner := rbac.SubjectFromContext(r.Context())
		if rbac.NewChecker(nil).Has(rbac.RoleFromContext(r.Context()), "attempt:view-all") {
			owner = ""
		}
		sess, err := svc.Status(r.Context(), id, owner)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"status":              sess.Status,
			"exam_type":           sess.ExamType,
			"subject_combination": sess.SubjectCombination,
			"current_subject":     sess.CurrentSubject,
			"completed_subjects":  sess.CompletedSubjects,
			"score":               sess.Score,
			"exam_id":             sess.ExamID,
		})
	}
}

// POST /mock-test/{mockTestID}/violations {"note": ..., "count": ...}
func RecordViolationHandler(svc *mocktest.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "mockTestID")
		var req struct {
			Note  string `json:"note"`
			Count int    `json:"count"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		sess, err := svc.RecordViolation(r.Context(), id, rbac.SubjectFromContext(r.Context()), req.Note, req.Count)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"message":    "Violation recorded",
			"violations": sess.Violations,
		})
	}
}

// POST /mock-test/{mockTestID}/unlock-requests {"note": ...}
func RequestUnlockHandler(svc *mocktest.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "mockTestID")
		var req struct {
			Note string `json:"note"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		sess, err := svc.RequestUnlock(r.Context(), id, rbac.SubjectFromContext(r.Context()), req.Note)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"message":        "Unlock request recorded",
			"unlock_request": sess.UnlockRequests[len(sess.UnlockRequests)-1],
		})
	}
}
