package http

import (
	"encoding/json"
	"net/http"

	"github.com/naijaprep/naijaprep-cbt/internal/question"
)

// POST /questions (admin): upsert one bank entry.
func UpsertQuestionHandler(bank question.Bank) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var q question.Question
		if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		if q.ID == "" || q.Subject == "" || (q.ExamType != "JAMB" && q.ExamType != "WAEC") {
			http.Error(w, "id, subject and exam_type (JAMB|WAEC) required", 400)
			return
		}
		if err := bank.Put(r.Context(), q); err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"message": "Question saved"})
	}
}
