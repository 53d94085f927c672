package mocktest

import "time"

// Policy is the per-exam-type rulebook: attempt cooldown, subject
// combination shape and lock window, result embargo, and question quotas.
// Values default to what the production backend enforces; all of them are
// overridable from configuration.
type Policy struct {
	ExamType ExamType

	AttemptCooldown time.Duration
	LockMonths      int // subject combination lock, calendar months
	ResultEmbargo   time.Duration

	MinSubjects int
	MaxSubjects int
	Mandatory   []string

	DefaultQuota  int            // questions served per subject
	SubjectQuotas map[string]int // per-subject overrides
}

// QuestionQuota returns how many questions to serve for a subject.
func (p Policy) QuestionQuota(subject string) int {
	if n, ok := p.SubjectQuotas[subject]; ok {
		return n
	}
	return p.DefaultQuota
}

type PolicySet map[ExamType]Policy

func (ps PolicySet) For(t ExamType) (Policy, bool) {
	p, ok := ps[t]
	return p, ok
}

// DefaultPolicies mirrors the production rules: weekly attempts, 8-month
// combination lock, 1-hour result embargo. JAMB is Use of English plus three
// electives; WAEC is 7-9 subjects with English Language and Mathematics
// compulsory.
func DefaultPolicies() PolicySet {
	return PolicySet{
		ExamJAMB: {
			ExamType:        ExamJAMB,
			AttemptCooldown: 7 * 24 * time.Hour,
			LockMonths:      8,
			ResultEmbargo:   time.Hour,
			MinSubjects:     4,
			MaxSubjects:     4,
			Mandatory:       []string{"Use of English"},
			DefaultQuota:    40,
			SubjectQuotas:   map[string]int{"Use of English": 60},
		},
		ExamWAEC: {
			ExamType:        ExamWAEC,
			AttemptCooldown: 7 * 24 * time.Hour,
			LockMonths:      8,
			ResultEmbargo:   time.Hour,
			MinSubjects:     7,
			MaxSubjects:     9,
			Mandatory:       []string{"English Language", "Mathematics"},
			DefaultQuota:    40,
			SubjectQuotas:   map[string]int{},
		},
	}
}

// CanAttempt is the attempt gate. Pure: allowed iff there is no prior
// confirmed attempt or the cooldown has fully elapsed. The transition to
// allowed happens exactly at LastAttemptAt + cooldown.
func CanAttempt(p Policy, rec AttemptRecord, now time.Time) Decision {
	if rec.LastAttemptAt == nil {
		return Decision{Allowed: true}
	}
	next := rec.LastAttemptAt.Add(p.AttemptCooldown)
	if now.Before(next) {
		return Decision{Allowed: false, NextAttemptAt: &next}
	}
	return Decision{Allowed: true}
}
