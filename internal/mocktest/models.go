package mocktest

import "time"

type ExamType string

const (
	ExamJAMB ExamType = "JAMB"
	ExamWAEC ExamType = "WAEC"
)

func (t ExamType) Valid() bool {
	return t == ExamJAMB || t == ExamWAEC
}

// IDPrefix is the leading character of exam IDs minted for this exam type.
func (t ExamType) IDPrefix() byte {
	if t == ExamWAEC {
		return 'W'
	}
	return 'J'
}

type Status string

const (
	StatusInitialized      Status = "initialized"
	StatusSubjectsSelected Status = "subjects-selected"
	StatusConfirmed        Status = "confirmed"
	StatusInProgress       Status = "in-progress"
	StatusSubmitted        Status = "submitted"
)

// Response is a candidate's saved answer to one question.
type Response struct {
	QuestionID string `json:"question_id"`
	Subject    string `json:"subject"`
	Answer     string `json:"answer"`
	Bookmarked bool   `json:"bookmarked"`
}

// Violation records a proctoring incident (fullscreen exit etc.).
// Best-effort audit data; never affects wizard state.
type Violation struct {
	At    time.Time `json:"at"`
	Note  string    `json:"note,omitempty"`
	Count int       `json:"count,omitempty"`
}

type UnlockRequest struct {
	At     time.Time `json:"at"`
	Note   string    `json:"note,omitempty"`
	Status string    `json:"status"` // pending|approved|denied
}

type SubjectPerformance struct {
	Subject        string `json:"subject"`
	Score          int    `json:"score"`
	TotalQuestions int    `json:"total_questions"`
}

// Session is one pass through the exam wizard:
// initialized -> subjects-selected -> confirmed -> in-progress -> submitted.
// ExamID is assigned exactly once, on entering confirmed, and is immutable.
// A submitted session is terminal.
type Session struct {
	ID                 string               `json:"id"`
	UserID             string               `json:"user_id"`
	ExamType           ExamType             `json:"exam_type"`
	Status             Status               `json:"status"`
	SubjectCombination []string             `json:"subject_combination"`
	ExamID             string               `json:"exam_id,omitempty"`
	CurrentSubject     string               `json:"current_subject,omitempty"`
	CompletedSubjects  []string             `json:"completed_subjects,omitempty"`
	Responses          map[string]Response  `json:"responses"`
	Score              int                  `json:"score"`
	TotalQuestions     int                  `json:"total_questions"`
	Performance        []SubjectPerformance `json:"performance,omitempty"`
	Violations         []Violation          `json:"violations,omitempty"`
	UnlockRequests     []UnlockRequest      `json:"unlock_requests,omitempty"`
	CreatedAt          time.Time            `json:"created_at"`
	SubmittedAt        *time.Time           `json:"submitted_at,omitempty"`
}

// Terminal reports whether no further mutation of the session is permitted.
func (s Session) Terminal() bool { return s.Status == StatusSubmitted }

// AttemptRecord tracks, per (user, exam type), when the last attempt was
// confirmed and which subject combination is committed. LastAttemptAt only
// advances forward; the combination lock derives from CombinationChangedAt.
type AttemptRecord struct {
	UserID               string     `json:"user_id"`
	ExamType             ExamType   `json:"exam_type"`
	LastAttemptAt        *time.Time `json:"last_attempt_at,omitempty"`
	LastCombination      []string   `json:"last_combination,omitempty"`
	CombinationChangedAt *time.Time `json:"combination_changed_at,omitempty"`
}

// Decision is the attempt gate's verdict. NextAttemptAt is set only when
// Allowed is false.
type Decision struct {
	Allowed       bool       `json:"can_attempt"`
	NextAttemptAt *time.Time `json:"next_attempt_at,omitempty"`
}

// Result is the immutable payload resolved by exam ID once the embargo
// elapses.
type Result struct {
	ExamID               string               `json:"exam_id"`
	ExamType             ExamType             `json:"exam_type"`
	CandidateName        string               `json:"candidate_name"`
	Score                int                  `json:"score"`
	TotalQuestions       int                  `json:"total_questions"`
	Percentage           float64              `json:"percentage"`
	SubjectCombination   []string             `json:"subject_combination"`
	PerformanceBySubject []SubjectPerformance `json:"performance_by_subject"`
	SubmittedAt          time.Time            `json:"submitted_at"`
}

// ResultStatus is the embargo-aware view of a result lookup.
type ResultStatus struct {
	Status string  `json:"status"` // ready|not_ready
	ExamID string  `json:"exam_id"`
	Result *Result `json:"result,omitempty"`
}
