package mocktest

import "time"

// ValidateCombination checks count, duplicates and mandatory subjects.
// Input order is preserved by callers; this function never sorts or
// deduplicates.
func ValidateCombination(p Policy, subjects []string) error {
	if len(subjects) < p.MinSubjects || len(subjects) > p.MaxSubjects {
		return &InvalidSelectionCountError{
			ExamType: p.ExamType,
			Got:      len(subjects),
			Min:      p.MinSubjects,
			Max:      p.MaxSubjects,
		}
	}
	seen := make(map[string]bool, len(subjects))
	for _, s := range subjects {
		if seen[s] {
			return &DuplicateSubjectError{Subject: s}
		}
		seen[s] = true
	}
	for _, m := range p.Mandatory {
		if !seen[m] {
			return &MissingMandatorySubjectError{ExamType: p.ExamType, Subject: m}
		}
	}
	return nil
}

// LockedUntil derives the end of the combination lock window. The second
// return is false when no combination has ever been committed.
func LockedUntil(p Policy, rec AttemptRecord) (time.Time, bool) {
	if rec.CombinationChangedAt == nil {
		return time.Time{}, false
	}
	return rec.CombinationChangedAt.AddDate(0, p.LockMonths, 0), true
}

// IsLocked reports whether the stored combination may not be changed yet.
func IsLocked(p Policy, rec AttemptRecord, now time.Time) bool {
	until, ok := LockedUntil(p, rec)
	return ok && now.Before(until)
}

// SameCombination compares as sets: re-ordering the same subjects is not a
// change for lock purposes, even though presentation order is kept verbatim
// on the session.
func SameCombination(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	in := make(map[string]bool, len(a))
	for _, s := range a {
		in[s] = true
	}
	for _, s := range b {
		if !in[s] {
			return false
		}
	}
	return true
}

// CheckAgainstLock rejects a requested combination that differs from the
// committed one while the lock window is open. Reusing the locked
// combination is always allowed.
func CheckAgainstLock(p Policy, rec AttemptRecord, subjects []string, now time.Time) error {
	if !IsLocked(p, rec, now) {
		return nil
	}
	if SameCombination(rec.LastCombination, subjects) {
		return nil
	}
	until, _ := LockedUntil(p, rec)
	locked := make([]string, len(rec.LastCombination))
	copy(locked, rec.LastCombination)
	return &LockedCombinationError{
		ExamType:          p.ExamType,
		LockedCombination: locked,
		NextChangeAt:      until,
	}
}
