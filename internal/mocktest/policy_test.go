package mocktest_test

import (
	"testing"
	"time"

	"github.com/naijaprep/naijaprep-cbt/internal/mocktest"
)

func TestCanAttempt_NoPriorAttempt(t *testing.T) {
	p := mocktest.DefaultPolicies()[mocktest.ExamJAMB]
	d := mocktest.CanAttempt(p, mocktest.AttemptRecord{}, time.Now())
	if !d.Allowed {
		t.Fatalf("expected allowed with no prior attempt")
	}
	if d.NextAttemptAt != nil {
		t.Fatalf("expected no next attempt date, got %v", d.NextAttemptAt)
	}
}

func TestCanAttempt_CooldownBoundary(t *testing.T) {
	p := mocktest.DefaultPolicies()[mocktest.ExamJAMB]
	last := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	rec := mocktest.AttemptRecord{LastAttemptAt: &last}
	next := last.Add(p.AttemptCooldown)

	cases := []struct {
		name    string
		now     time.Time
		allowed bool
	}{
		{"immediately after", last.Add(time.Minute), false},
		{"two days later", last.Add(48 * time.Hour), false},
		{"one second before window", next.Add(-time.Second), false},
		{"exactly at window", next, true},
		{"after window", next.Add(time.Hour), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := mocktest.CanAttempt(p, rec, tc.now)
			if d.Allowed != tc.allowed {
				t.Fatalf("allowed=%v, want %v", d.Allowed, tc.allowed)
			}
			if !tc.allowed {
				if d.NextAttemptAt == nil || !d.NextAttemptAt.Equal(next) {
					t.Fatalf("next attempt = %v, want %v", d.NextAttemptAt, next)
				}
			}
		})
	}
}

func TestQuestionQuota(t *testing.T) {
	p := mocktest.DefaultPolicies()[mocktest.ExamJAMB]
	if got := p.QuestionQuota("Use of English"); got != 60 {
		t.Fatalf("Use of English quota = %d, want 60", got)
	}
	if got := p.QuestionQuota("Physics"); got != 40 {
		t.Fatalf("Physics quota = %d, want 40", got)
	}
}

func TestDefaultPolicies_Shapes(t *testing.T) {
	ps := mocktest.DefaultPolicies()
	jamb := ps[mocktest.ExamJAMB]
	if jamb.MinSubjects != 4 || jamb.MaxSubjects != 4 {
		t.Fatalf("JAMB subject bounds = %d..%d, want exactly 4", jamb.MinSubjects, jamb.MaxSubjects)
	}
	waec := ps[mocktest.ExamWAEC]
	if waec.MinSubjects != 7 || waec.MaxSubjects != 9 {
		t.Fatalf("WAEC subject bounds = %d..%d, want 7..9", waec.MinSubjects, waec.MaxSubjects)
	}
}
