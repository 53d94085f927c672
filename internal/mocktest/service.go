package mocktest

import (
	"context"
	"encoding/json"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/naijaprep/naijaprep-cbt/internal/audit"
	"github.com/naijaprep/naijaprep-cbt/internal/grading"
	"github.com/naijaprep/naijaprep-cbt/internal/question"
)

// Service drives the exam session wizard. All timestamp decisions recompute
// from stored state against the injected clock; countdowns shown by callers
// are advisory only.
type Service struct {
	store    Store
	bank     question.Bank
	grader   grading.Grader
	policies PolicySet
	audit    audit.Recorder
	now      func() time.Time
	rng      *rand.Rand
}

type Option func(*Service)

func WithPolicies(ps PolicySet) Option   { return func(s *Service) { s.policies = ps } }
func WithAudit(r audit.Recorder) Option  { return func(s *Service) { s.audit = r } }
func WithGrader(g grading.Grader) Option { return func(s *Service) { s.grader = g } }

// WithRandSource injects a deterministic source for tests. The source is
// wrapped in a lock either way; see lockedSource.
func WithRandSource(src rand.Source) Option {
	return func(s *Service) { s.rng = rand.New(&lockedSource{src: src}) }
}

// lockedSource serializes draws from the underlying source. One generator is
// shared across all requests (paper shuffles, exam-ID minting) and rand.Rand
// is not safe for concurrent use.
type lockedSource struct {
	mu  sync.Mutex
	src rand.Source
}

func (s *lockedSource) Int63() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Int63()
}

func (s *lockedSource) Seed(seed int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.src.Seed(seed)
}

func New(store Store, bank question.Bank, now func() time.Time, opts ...Option) *Service {
	s := &Service{
		store:    store,
		bank:     bank,
		grader:   grading.NewExactMatchGrader(),
		policies: DefaultPolicies(),
		audit:    audit.Nop{},
		now:      now,
		rng:      rand.New(&lockedSource{src: rand.NewSource(time.Now().UnixNano())}),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Service) policy(t ExamType) (Policy, error) {
	p, ok := s.policies.For(t)
	if !ok {
		return Policy{}, ErrUnknownExamType
	}
	return p, nil
}

// CanAttempt answers the gate question without side effects.
func (s *Service) CanAttempt(ctx context.Context, userID string, t ExamType) (Decision, error) {
	p, err := s.policy(t)
	if err != nil {
		return Decision{}, err
	}
	rec, _, err := s.store.GetAttemptRecord(ctx, userID, t)
	if err != nil {
		return Decision{}, err
	}
	return CanAttempt(p, rec, s.now()), nil
}

// InitResult carries the new session plus the stored combination so the UI
// can render the lock without another round trip.
type InitResult struct {
	Session              Session    `json:"session"`
	LastCombination      []string   `json:"last_subject_combination,omitempty"`
	CombinationChangedAt *time.Time `json:"last_subject_combination_changed_at,omitempty"`
}

// Initialize starts a new wizard pass. It fails when the attempt gate
// denies, or when a non-submitted session already exists for the pair.
func (s *Service) Initialize(ctx context.Context, userID string, t ExamType) (InitResult, error) {
	p, err := s.policy(t)
	if err != nil {
		return InitResult{}, err
	}
	rec, _, err := s.store.GetAttemptRecord(ctx, userID, t)
	if err != nil {
		return InitResult{}, err
	}
	if d := CanAttempt(p, rec, s.now()); !d.Allowed {
		return InitResult{}, &AttemptNotAllowedError{ExamType: t, NextAttemptAt: *d.NextAttemptAt}
	}
	if active, ok, err := s.store.ActiveSession(ctx, userID, t); err != nil {
		return InitResult{}, err
	} else if ok {
		return InitResult{}, &SessionAlreadyActiveError{SessionID: active.ID, Status: active.Status}
	}

	sess := Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		ExamType:  t,
		Status:    StatusInitialized,
		Responses: map[string]Response{},
		CreatedAt: s.now(),
	}
	if err := s.store.CreateSession(ctx, sess); err != nil {
		return InitResult{}, err
	}
	return InitResult{
		Session:              sess,
		LastCombination:      rec.LastCombination,
		CombinationChangedAt: rec.CombinationChangedAt,
	}, nil
}

func (s *Service) getOwned(ctx context.Context, sessionID, userID string) (Session, error) {
	sess, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return Session{}, err
	}
	if userID != "" && sess.UserID != userID {
		return Session{}, ErrForbidden
	}
	return sess, nil
}

// SelectSubjects records the requested combination in input order. It may be
// repeated freely before confirmation; nothing is committed to the Attempt
// Record yet.
func (s *Service) SelectSubjects(ctx context.Context, sessionID, userID string, subjects []string) (Session, error) {
	sess, err := s.getOwned(ctx, sessionID, userID)
	if err != nil {
		return Session{}, err
	}
	if sess.Status != StatusInitialized && sess.Status != StatusSubjectsSelected {
		return Session{}, &InvalidStateTransitionError{From: sess.Status, To: StatusSubjectsSelected}
	}
	p, err := s.policy(sess.ExamType)
	if err != nil {
		return Session{}, err
	}
	if err := ValidateCombination(p, subjects); err != nil {
		return Session{}, err
	}
	rec, _, err := s.store.GetAttemptRecord(ctx, sess.UserID, sess.ExamType)
	if err != nil {
		return Session{}, err
	}
	if err := CheckAgainstLock(p, rec, subjects, s.now()); err != nil {
		return Session{}, err
	}
	sess.SubjectCombination = append([]string(nil), subjects...)
	sess.Status = StatusSubjectsSelected
	if err := s.store.UpdateSession(ctx, sess); err != nil {
		return Session{}, err
	}
	return sess, nil
}

// ConfirmSubjects commits the combination, stamps the Attempt Record (the
// weekly window counts from here), mints the exam ID and moves to confirmed.
// A lock window only starts or restarts when the combination actually
// changed.
func (s *Service) ConfirmSubjects(ctx context.Context, sessionID, userID string) (Session, error) {
	sess, err := s.getOwned(ctx, sessionID, userID)
	if err != nil {
		return Session{}, err
	}
	if sess.Status != StatusSubjectsSelected {
		return Session{}, &InvalidStateTransitionError{From: sess.Status, To: StatusConfirmed}
	}
	p, err := s.policy(sess.ExamType)
	if err != nil {
		return Session{}, err
	}
	now := s.now()
	rec, _, err := s.store.GetAttemptRecord(ctx, sess.UserID, sess.ExamType)
	if err != nil {
		return Session{}, err
	}
	// Re-derive the lock from stored state; selection-time checks are not
	// trusted across the confirm boundary.
	if err := CheckAgainstLock(p, rec, sess.SubjectCombination, now); err != nil {
		return Session{}, err
	}

	examID, err := s.mintExamID(ctx, sess.ID, sess.ExamType)
	if err != nil {
		return Session{}, err
	}
	sess.ExamID = examID
	sess.Status = StatusConfirmed

	if !SameCombination(rec.LastCombination, sess.SubjectCombination) {
		rec.LastCombination = append([]string(nil), sess.SubjectCombination...)
		rec.CombinationChangedAt = &now
	}
	attemptAt := now
	rec.LastAttemptAt = &attemptAt
	if err := s.store.PutAttemptRecord(ctx, rec); err != nil {
		return Session{}, err
	}
	if err := s.store.UpdateSession(ctx, sess); err != nil {
		return Session{}, err
	}
	s.appendEvent(ctx, audit.TypeAttemptConfirmed, sess.ID, map[string]any{
		"exam_id": examID, "exam_type": sess.ExamType, "subjects": sess.SubjectCombination,
	})
	return sess, nil
}

// BeginTest moves confirmed -> in-progress. The device/camera/fullscreen
// checks live outside this core; only their boolean outcome is consumed.
func (s *Service) BeginTest(ctx context.Context, sessionID, userID string, ready bool) (Session, error) {
	sess, err := s.getOwned(ctx, sessionID, userID)
	if err != nil {
		return Session{}, err
	}
	if sess.Status != StatusConfirmed {
		return Session{}, &InvalidStateTransitionError{From: sess.Status, To: StatusInProgress}
	}
	if !ready {
		return Session{}, &PreflightNotPassedError{SessionID: sess.ID}
	}
	sess.Status = StatusInProgress
	if len(sess.SubjectCombination) > 0 {
		sess.CurrentSubject = sess.SubjectCombination[0]
	}
	if err := s.store.UpdateSession(ctx, sess); err != nil {
		return Session{}, err
	}
	return sess, nil
}

// QuestionsFor serves the shuffled, answer-stripped paper for one subject of
// an in-progress session, limited to the subject's quota.
func (s *Service) QuestionsFor(ctx context.Context, sessionID, userID, subject string) ([]question.Question, error) {
	sess, err := s.getOwned(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	if sess.Status != StatusInProgress {
		return nil, &InvalidStateTransitionError{From: sess.Status, To: StatusInProgress}
	}
	if !subjectIn(sess.SubjectCombination, subject) {
		return nil, &SubjectNotSelectedError{Subject: subject}
	}
	p, err := s.policy(sess.ExamType)
	if err != nil {
		return nil, err
	}
	qs, err := s.bank.BySubject(ctx, string(sess.ExamType), subject)
	if err != nil {
		return nil, err
	}
	return question.Serve(s.rng, qs, p.QuestionQuota(subject)), nil
}

// SaveResponse upserts one answer while the test runs. Responses merge;
// saving never replaces the whole set.
func (s *Service) SaveResponse(ctx context.Context, sessionID, userID, questionID, answer string, bookmarked bool) (Session, error) {
	sess, err := s.getOwned(ctx, sessionID, userID)
	if err != nil {
		return Session{}, err
	}
	if sess.Status != StatusInProgress {
		return Session{}, &InvalidStateTransitionError{From: sess.Status, To: StatusInProgress}
	}
	q, err := s.bank.Get(ctx, questionID)
	if err != nil {
		if err == question.ErrNotFound {
			return Session{}, ErrQuestionNotFound
		}
		return Session{}, err
	}
	sess.Responses[questionID] = Response{
		QuestionID: questionID,
		Subject:    q.Subject,
		Answer:     answer,
		Bookmarked: bookmarked,
	}
	if err := s.store.UpdateSession(ctx, sess); err != nil {
		return Session{}, err
	}
	return sess, nil
}

// SetCurrentSubject switches the candidate's active subject. Completed
// subjects cannot be revisited.
func (s *Service) SetCurrentSubject(ctx context.Context, sessionID, userID, subject string) (Session, error) {
	sess, err := s.getOwned(ctx, sessionID, userID)
	if err != nil {
		return Session{}, err
	}
	if sess.Status != StatusInProgress {
		return Session{}, &InvalidStateTransitionError{From: sess.Status, To: StatusInProgress}
	}
	if !subjectIn(sess.SubjectCombination, subject) {
		return Session{}, &SubjectNotSelectedError{Subject: subject}
	}
	if subjectIn(sess.CompletedSubjects, subject) {
		return Session{}, &SubjectCompletedError{Subject: subject}
	}
	sess.CurrentSubject = subject
	if err := s.store.UpdateSession(ctx, sess); err != nil {
		return Session{}, err
	}
	return sess, nil
}

// CompleteSubject marks a subject finished. Idempotent.
func (s *Service) CompleteSubject(ctx context.Context, sessionID, userID, subject string) (Session, error) {
	sess, err := s.getOwned(ctx, sessionID, userID)
	if err != nil {
		return Session{}, err
	}
	if sess.Status != StatusInProgress {
		return Session{}, &InvalidStateTransitionError{From: sess.Status, To: StatusInProgress}
	}
	if !subjectIn(sess.SubjectCombination, subject) {
		return Session{}, &SubjectNotSelectedError{Subject: subject}
	}
	if !subjectIn(sess.CompletedSubjects, subject) {
		sess.CompletedSubjects = append(sess.CompletedSubjects, subject)
	}
	if err := s.store.UpdateSession(ctx, sess); err != nil {
		return Session{}, err
	}
	return sess, nil
}

// Submit grades the saved responses and seals the session. Terminal and
// idempotent: repeat calls return the original submission without
// re-scoring.
func (s *Service) Submit(ctx context.Context, sessionID, userID string) (Session, error) {
	sess, err := s.getOwned(ctx, sessionID, userID)
	if err != nil {
		return Session{}, err
	}
	if sess.Status == StatusSubmitted {
		return sess, nil
	}
	if sess.Status != StatusInProgress {
		return Session{}, &InvalidStateTransitionError{From: sess.Status, To: StatusSubmitted}
	}

	type tally struct{ correct, total int }
	bySubject := map[string]*tally{}
	order := []string{}
	score, graded := 0, 0
	for _, resp := range sess.Responses {
		q, err := s.bank.Get(ctx, resp.QuestionID)
		if err != nil {
			continue // stale response; skip rather than fail the submit
		}
		res, err := s.grader.Grade(ctx, grading.Q{
			Subject:       q.Subject,
			CorrectAnswer: q.CorrectAnswer,
			Points:        1,
		}, resp.Answer)
		if err != nil {
			continue
		}
		t, ok := bySubject[q.Subject]
		if !ok {
			t = &tally{}
			bySubject[q.Subject] = t
			order = append(order, q.Subject)
		}
		t.total++
		graded++
		if res.Correct {
			t.correct++
			score++
		}
	}
	// Report subjects in the confirmed presentation order.
	perf := make([]SubjectPerformance, 0, len(bySubject))
	for _, subj := range sess.SubjectCombination {
		if t, ok := bySubject[subj]; ok {
			perf = append(perf, SubjectPerformance{Subject: subj, Score: t.correct, TotalQuestions: t.total})
			delete(bySubject, subj)
		}
	}
	for _, subj := range order {
		if t, ok := bySubject[subj]; ok {
			perf = append(perf, SubjectPerformance{Subject: subj, Score: t.correct, TotalQuestions: t.total})
		}
	}

	// The denominator counts graded responses only, so it always equals the
	// sum of the per-subject totals even when a saved response's question has
	// since left the bank.
	now := s.now()
	sess.Score = score
	sess.TotalQuestions = graded
	sess.Performance = perf
	sess.Status = StatusSubmitted
	sess.SubmittedAt = &now
	if err := s.store.UpdateSession(ctx, sess); err != nil {
		return Session{}, err
	}
	s.appendEvent(ctx, audit.TypeAttemptSubmitted, sess.ID, map[string]any{
		"exam_id": sess.ExamID, "score": score, "total": sess.TotalQuestions,
	})
	return sess, nil
}

// Status returns the session for its owner (or any session when userID is
// empty, for admin callers).
func (s *Service) Status(ctx context.Context, sessionID, userID string) (Session, error) {
	return s.getOwned(ctx, sessionID, userID)
}

// RecordViolation appends a proctoring incident. Allowed in any state; never
// mutates wizard progress.
func (s *Service) RecordViolation(ctx context.Context, sessionID, userID, note string, count int) (Session, error) {
	sess, err := s.getOwned(ctx, sessionID, userID)
	if err != nil {
		return Session{}, err
	}
	sess.Violations = append(sess.Violations, Violation{At: s.now(), Note: note, Count: count})
	if err := s.store.UpdateSession(ctx, sess); err != nil {
		return Session{}, err
	}
	s.appendEvent(ctx, audit.TypeViolationRecorded, sess.ID, map[string]any{
		"note": note, "count": count,
	})
	return sess, nil
}

// RequestUnlock files a pending unlock request for proctor review.
func (s *Service) RequestUnlock(ctx context.Context, sessionID, userID, note string) (Session, error) {
	sess, err := s.getOwned(ctx, sessionID, userID)
	if err != nil {
		return Session{}, err
	}
	sess.UnlockRequests = append(sess.UnlockRequests, UnlockRequest{At: s.now(), Note: note, Status: "pending"})
	if err := s.store.UpdateSession(ctx, sess); err != nil {
		return Session{}, err
	}
	s.appendEvent(ctx, audit.TypeUnlockRequested, sess.ID, map[string]any{"note": note})
	return sess, nil
}

func (s *Service) appendEvent(ctx context.Context, typ, key string, data map[string]any) {
	buf, err := json.Marshal(data)
	if err != nil {
		return
	}
	// Best-effort: the event log never blocks the wizard.
	_ = s.audit.Append(ctx, audit.Event{Type: typ, Key: key, DataJSON: string(buf)})
}

func subjectIn(list []string, subject string) bool {
	for _, s := range list {
		if s == subject {
			return true
		}
	}
	return false
}
