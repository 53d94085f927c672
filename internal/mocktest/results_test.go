package mocktest_test

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/naijaprep/naijaprep-cbt/internal/mocktest"
)

func TestResolveResult_EmbargoWindow(t *testing.T) {
	_, clock, svc := seedService(t)
	ctx := context.Background()

	sess := runToConfirmed(t, svc)
	examID := sess.ExamID

	// Unsubmitted session: checkable but not ready.
	st, err := svc.ResolveResult(ctx, examID)
	if err != nil {
		t.Fatalf("resolve before submit: %v", err)
	}
	if st.Status != "not_ready" || st.Result != nil {
		t.Fatalf("before submit: %+v", st)
	}

	if _, err := svc.BeginTest(ctx, sess.ID, "u1", true); err != nil {
		t.Fatalf("begin: %v", err)
	}
	if _, err := svc.SaveResponse(ctx, sess.ID, "u1", "Use-of-English-0", "A", false); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := svc.SaveResponse(ctx, sess.ID, "u1", "Physics-0", "B", false); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := svc.Submit(ctx, sess.ID, "u1"); err != nil {
		t.Fatalf("submit: %v", err)
	}

	clock.Advance(30 * time.Minute)
	st, err = svc.ResolveResult(ctx, examID)
	if err != nil {
		t.Fatalf("resolve at 30m: %v", err)
	}
	if st.Status != "not_ready" {
		t.Fatalf("30 minutes after submit: %+v", st)
	}

	clock.Advance(31 * time.Minute)
	st, err = svc.ResolveResult(ctx, examID)
	if err != nil {
		t.Fatalf("resolve at 61m: %v", err)
	}
	if st.Status != "ready" || st.Result == nil {
		t.Fatalf("61 minutes after submit: %+v", st)
	}
	res := st.Result
	if res.CandidateName != "Abdul Akanni" {
		t.Fatalf("candidate name = %q", res.CandidateName)
	}
	if res.Score != 1 || res.TotalQuestions != 2 || res.Percentage != 50 {
		t.Fatalf("score %d/%d (%v%%), want 1/2 (50%%)", res.Score, res.TotalQuestions, res.Percentage)
	}
	if len(res.PerformanceBySubject) != 2 {
		t.Fatalf("performance = %+v", res.PerformanceBySubject)
	}

	// Repeat resolution returns the identical payload.
	clock.Advance(24 * time.Hour)
	again, err := svc.ResolveResult(ctx, examID)
	if err != nil {
		t.Fatalf("repeat resolve: %v", err)
	}
	if !reflect.DeepEqual(again.Result, res) {
		t.Fatalf("payload drifted between calls:\n%+v\n%+v", again.Result, res)
	}
}

func TestResolveResult_Lookup(t *testing.T) {
	_, _, svc := seedService(t)
	ctx := context.Background()
	sess := runToConfirmed(t, svc)

	// Case/whitespace normalization.
	lowered := " " + string(sess.ExamID[0]+32) + sess.ExamID[1:] + " "
	if _, err := svc.ResolveResult(ctx, lowered); err != nil {
		t.Fatalf("normalized lookup failed: %v", err)
	}

	var invErr *mocktest.InvalidExamIDError
	if _, err := svc.ResolveResult(ctx, "   "); !errors.As(err, &invErr) {
		t.Fatalf("blank ID: got %v", err)
	}

	var nfErr *mocktest.ExamIDNotFoundError
	_, err := svc.ResolveResult(ctx, "JZZZZZZZZZZZ")
	if !errors.As(err, &nfErr) {
		t.Fatalf("unknown ID: got %v", err)
	}
	if nfErr.ExamID != "JZZZZZZZZZZZ" {
		t.Fatalf("error carries %q", nfErr.ExamID)
	}
}
