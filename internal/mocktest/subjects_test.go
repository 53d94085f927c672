package mocktest_test

import (
	"errors"
	"testing"
	"time"

	"github.com/naijaprep/naijaprep-cbt/internal/mocktest"
)

var jambCombo = []string{"Use of English", "Mathematics", "Physics", "Chemistry"}

func TestValidateCombination_JAMB(t *testing.T) {
	p := mocktest.DefaultPolicies()[mocktest.ExamJAMB]

	if err := mocktest.ValidateCombination(p, jambCombo); err != nil {
		t.Fatalf("valid combination rejected: %v", err)
	}

	var countErr *mocktest.InvalidSelectionCountError
	for _, subjects := range [][]string{
		nil,
		{"Use of English"},
		{"Use of English", "Mathematics", "Physics"},
		{"Use of English", "Mathematics", "Physics", "Chemistry", "Biology"},
	} {
		err := mocktest.ValidateCombination(p, subjects)
		if !errors.As(err, &countErr) {
			t.Fatalf("count %d: got %v, want InvalidSelectionCountError", len(subjects), err)
		}
		if countErr.Got != len(subjects) {
			t.Fatalf("error reports %d, want %d", countErr.Got, len(subjects))
		}
	}

	var missingErr *mocktest.MissingMandatorySubjectError
	err := mocktest.ValidateCombination(p, []string{"Mathematics", "Physics", "Chemistry", "Biology"})
	if !errors.As(err, &missingErr) || missingErr.Subject != "Use of English" {
		t.Fatalf("got %v, want MissingMandatorySubjectError for Use of English", err)
	}

	var dupErr *mocktest.DuplicateSubjectError
	err = mocktest.ValidateCombination(p, []string{"Use of English", "Physics", "Physics", "Chemistry"})
	if !errors.As(err, &dupErr) || dupErr.Subject != "Physics" {
		t.Fatalf("got %v, want DuplicateSubjectError for Physics", err)
	}
}

func TestValidateCombination_WAEC(t *testing.T) {
	p := mocktest.DefaultPolicies()[mocktest.ExamWAEC]
	base := []string{"English Language", "Mathematics", "Physics", "Chemistry", "Biology", "Economics", "Geography"}

	if err := mocktest.ValidateCombination(p, base); err != nil {
		t.Fatalf("7 subjects rejected: %v", err)
	}
	nine := append(append([]string{}, base...), "Government", "Literature in English")
	if err := mocktest.ValidateCombination(p, nine); err != nil {
		t.Fatalf("9 subjects rejected: %v", err)
	}

	var missingErr *mocktest.MissingMandatorySubjectError
	noMath := []string{"English Language", "Physics", "Chemistry", "Biology", "Economics", "Geography", "Government"}
	if err := mocktest.ValidateCombination(p, noMath); !errors.As(err, &missingErr) || missingErr.Subject != "Mathematics" {
		t.Fatalf("got %v, want MissingMandatorySubjectError for Mathematics", err)
	}
}

func TestSameCombination(t *testing.T) {
	a := []string{"Use of English", "Physics", "Chemistry", "Biology"}
	reordered := []string{"Physics", "Use of English", "Biology", "Chemistry"}
	different := []string{"Use of English", "Physics", "Chemistry", "Economics"}

	if !mocktest.SameCombination(a, reordered) {
		t.Fatalf("reordering must not count as a change")
	}
	if mocktest.SameCombination(a, different) {
		t.Fatalf("different subjects must count as a change")
	}
	if mocktest.SameCombination(a, a[:3]) {
		t.Fatalf("different lengths must count as a change")
	}
}

func TestCheckAgainstLock(t *testing.T) {
	p := mocktest.DefaultPolicies()[mocktest.ExamJAMB]
	changed := time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)
	rec := mocktest.AttemptRecord{
		LastCombination:      jambCombo,
		CombinationChangedAt: &changed,
	}
	inside := changed.AddDate(0, 3, 0)
	expired := changed.AddDate(0, 8, 0)
	other := []string{"Use of English", "Mathematics", "Physics", "Biology"}

	if err := mocktest.CheckAgainstLock(p, rec, jambCombo, inside); err != nil {
		t.Fatalf("same combination while locked must pass: %v", err)
	}

	var lockErr *mocktest.LockedCombinationError
	err := mocktest.CheckAgainstLock(p, rec, other, inside)
	if !errors.As(err, &lockErr) {
		t.Fatalf("got %v, want LockedCombinationError", err)
	}
	if !lockErr.NextChangeAt.Equal(expired) {
		t.Fatalf("next change = %v, want %v", lockErr.NextChangeAt, expired)
	}

	if err := mocktest.CheckAgainstLock(p, rec, other, expired); err != nil {
		t.Fatalf("change after lock expiry must pass: %v", err)
	}

	if err := mocktest.CheckAgainstLock(p, mocktest.AttemptRecord{}, other, inside); err != nil {
		t.Fatalf("no committed combination means no lock: %v", err)
	}
}
