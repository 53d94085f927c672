package mocktest

import (
	"context"
	"strings"
)

// ResolveResult looks up a submitted attempt by exam ID. It answers
// not_ready until the embargo elapses (or while the session is still
// unsubmitted); once ready, the payload is immutable and identical across
// calls.
func (s *Service) ResolveResult(ctx context.Context, examID string) (ResultStatus, error) {
	examID = strings.ToUpper(strings.TrimSpace(examID))
	if examID == "" {
		return ResultStatus{}, &InvalidExamIDError{ExamID: examID, Reason: "exam ID is required"}
	}
	sess, err := s.store.SessionByExamID(ctx, examID)
	if err != nil {
		return ResultStatus{}, err
	}
	if err := validExamIDFor(examID, sess.ExamType); err != nil {
		return ResultStatus{}, err
	}
	p, err := s.policy(sess.ExamType)
	if err != nil {
		return ResultStatus{}, err
	}
	if sess.Status != StatusSubmitted || sess.SubmittedAt == nil {
		return ResultStatus{Status: "not_ready", ExamID: examID}, nil
	}
	if s.now().Before(sess.SubmittedAt.Add(p.ResultEmbargo)) {
		return ResultStatus{Status: "not_ready", ExamID: examID}, nil
	}

	name, err := s.store.UserName(ctx, sess.UserID)
	if err != nil {
		name = "Candidate"
	}
	pct := 0.0
	if sess.TotalQuestions > 0 {
		pct = float64(sess.Score) / float64(sess.TotalQuestions) * 100
	}
	res := Result{
		ExamID:               sess.ExamID,
		ExamType:             sess.ExamType,
		CandidateName:        name,
		Score:                sess.Score,
		TotalQuestions:       sess.TotalQuestions,
		Percentage:           pct,
		SubjectCombination:   append([]string(nil), sess.SubjectCombination...),
		PerformanceBySubject: append([]SubjectPerformance(nil), sess.Performance...),
		SubmittedAt:          *sess.SubmittedAt,
	}
	return ResultStatus{Status: "ready", ExamID: examID, Result: &res}, nil
}
