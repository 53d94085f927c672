package mocktest

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// SQLStore persists sessions and attempt records in sqlite or postgres.
// Variable-shape fields (subjects, responses, performance, violations) are
// stored as JSON columns; timestamps as unix seconds.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

type sessionRow struct {
	subjects    string
	completed   string
	responses   string
	performance string
	violations  string
	unlocks     string
	examID      sql.NullString
	submittedAt sql.NullInt64
	createdAt   int64
}

const sessionCols = `id,user_id,exam_type,status,subjects_json,exam_id,current_subject,
	completed_json,responses_json,score,total_questions,performance_json,
	violations_json,unlocks_json,created_at,submitted_at`

func (s *SQLStore) CreateSession(ctx context.Context, sess Session) error {
	r, err := marshalSession(sess)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO mock_tests (`+sessionCols+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)`,
		sess.ID, sess.UserID, string(sess.ExamType), string(sess.Status),
		r.subjects, r.examID, sess.CurrentSubject,
		r.completed, r.responses, sess.Score, sess.TotalQuestions, r.performance,
		r.violations, r.unlocks, sess.CreatedAt.Unix(), r.submittedAt)
	return err
}

func (s *SQLStore) UpdateSession(ctx context.Context, sess Session) error {
	r, err := marshalSession(sess)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `UPDATE mock_tests SET status=$1, subjects_json=$2,
		exam_id=$3, current_subject=$4, completed_json=$5, responses_json=$6,
		score=$7, total_questions=$8, performance_json=$9, violations_json=$10,
		unlocks_json=$11, submitted_at=$12 WHERE id=$13`,
		string(sess.Status), r.subjects, r.examID, sess.CurrentSubject,
		r.completed, r.responses, sess.Score, sess.TotalQuestions, r.performance,
		r.violations, r.unlocks, r.submittedAt, sess.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (s *SQLStore) GetSession(ctx context.Context, id string) (Session, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+sessionCols+` FROM mock_tests WHERE id=$1`, id)
	sess, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, ErrSessionNotFound
	}
	return sess, err
}

func (s *SQLStore) ActiveSession(ctx context.Context, userID string, t ExamType) (Session, bool, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+sessionCols+` FROM mock_tests
		WHERE user_id=$1 AND exam_type=$2 AND status<>'submitted'
		ORDER BY created_at DESC LIMIT 1`, userID, string(t))
	sess, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, false, nil
	}
	if err != nil {
		return Session{}, false, err
	}
	return sess, true, nil
}

func (s *SQLStore) SessionByExamID(ctx context.Context, examID string) (Session, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+sessionCols+` FROM mock_tests WHERE exam_id=$1`, examID)
	sess, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, &ExamIDNotFoundError{ExamID: examID}
	}
	return sess, err
}

// ReserveExamID is a conditional update backed by the exam_id UNIQUE
// constraint. When two reservations of the same token race past the NOT
// EXISTS pre-check, the constraint rejects the loser and that surfaces here
// as taken, not as a transport failure.
func (s *SQLStore) ReserveExamID(ctx context.Context, examID, sessionID string) (bool, error) {
	// A re-reservation by the same session (confirm retried after a storage
	// failure) replaces its earlier token; only tokens held by other sessions
	// block.
	res, err := s.db.ExecContext(ctx, `UPDATE mock_tests SET exam_id=$1
		WHERE id=$2
		AND NOT EXISTS (SELECT 1 FROM mock_tests taken WHERE taken.exam_id=$1)`,
		examID, sessionID)
	if err != nil {
		if isUniqueViolation(err) {
			return false, nil
		}
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// isUniqueViolation matches the constraint messages of both wired drivers
// (modernc sqlite, pgx).
func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint") || strings.Contains(msg, "duplicate key")
}

func (s *SQLStore) GetAttemptRecord(ctx context.Context, userID string, t ExamType) (AttemptRecord, bool, error) {
	rec := AttemptRecord{UserID: userID, ExamType: t}
	var lastAttempt, changedAt sql.NullInt64
	var subjects string
	err := s.db.QueryRowContext(ctx, `SELECT last_attempt_at,last_subjects_json,subjects_changed_at
		FROM attempt_records WHERE user_id=$1 AND exam_type=$2`, userID, string(t)).
		Scan(&lastAttempt, &subjects, &changedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return rec, false, nil
	}
	if err != nil {
		return rec, false, err
	}
	if lastAttempt.Valid {
		ts := time.Unix(lastAttempt.Int64, 0).UTC()
		rec.LastAttemptAt = &ts
	}
	if changedAt.Valid {
		ts := time.Unix(changedAt.Int64, 0).UTC()
		rec.CombinationChangedAt = &ts
	}
	if subjects != "" {
		if err := json.Unmarshal([]byte(subjects), &rec.LastCombination); err != nil {
			return rec, false, err
		}
	}
	return rec, true, nil
}

func (s *SQLStore) PutAttemptRecord(ctx context.Context, rec AttemptRecord) error {
	sj, err := json.Marshal(rec.LastCombination)
	if err != nil {
		return err
	}
	var lastAttempt, changedAt sql.NullInt64
	if rec.LastAttemptAt != nil {
		lastAttempt = sql.NullInt64{Int64: rec.LastAttemptAt.Unix(), Valid: true}
	}
	if rec.CombinationChangedAt != nil {
		changedAt = sql.NullInt64{Int64: rec.CombinationChangedAt.Unix(), Valid: true}
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO attempt_records
		(user_id,exam_type,last_attempt_at,last_subjects_json,subjects_changed_at)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (user_id,exam_type) DO UPDATE SET last_attempt_at=EXCLUDED.last_attempt_at,
			last_subjects_json=EXCLUDED.last_subjects_json,
			subjects_changed_at=EXCLUDED.subjects_changed_at`,
		rec.UserID, string(rec.ExamType), lastAttempt, string(sj), changedAt)
	return err
}

func (s *SQLStore) UserName(ctx context.Context, userID string) (string, error) {
	var name string
	err := s.db.QueryRowContext(ctx,
		`SELECT name FROM users WHERE id=$1 OR username=$1`, userID).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && name == "") {
		return "Candidate", nil
	}
	if err != nil {
		return "", err
	}
	return name, nil
}

func marshalSession(sess Session) (sessionRow, error) {
	var r sessionRow
	for _, m := range []struct {
		dst *string
		v   any
	}{
		{&r.subjects, sess.SubjectCombination},
		{&r.completed, sess.CompletedSubjects},
		{&r.responses, sess.Responses},
		{&r.performance, sess.Performance},
		{&r.violations, sess.Violations},
		{&r.unlocks, sess.UnlockRequests},
	} {
		buf, err := json.Marshal(m.v)
		if err != nil {
			return r, err
		}
		*m.dst = string(buf)
	}
	if sess.ExamID != "" {
		r.examID = sql.NullString{String: sess.ExamID, Valid: true}
	}
	if sess.SubmittedAt != nil {
		r.submittedAt = sql.NullInt64{Int64: sess.SubmittedAt.Unix(), Valid: true}
	}
	return r, nil
}

func scanSession(row rowScanner) (Session, error) {
	var sess Session
	var r sessionRow
	var examType, status string
	if err := row.Scan(&sess.ID, &sess.UserID, &examType, &status,
		&r.subjects, &r.examID, &sess.CurrentSubject,
		&r.completed, &r.responses, &sess.Score, &sess.TotalQuestions, &r.performance,
		&r.violations, &r.unlocks, &r.createdAt, &r.submittedAt); err != nil {
		return Session{}, err
	}
	sess.ExamType = ExamType(examType)
	sess.Status = Status(status)
	if r.examID.Valid {
		sess.ExamID = r.examID.String
	}
	sess.CreatedAt = time.Unix(r.createdAt, 0).UTC()
	if r.submittedAt.Valid {
		ts := time.Unix(r.submittedAt.Int64, 0).UTC()
		sess.SubmittedAt = &ts
	}
	for _, u := range []struct {
		src string
		dst any
	}{
		{r.subjects, &sess.SubjectCombination},
		{r.completed, &sess.CompletedSubjects},
		{r.responses, &sess.Responses},
		{r.performance, &sess.Performance},
		{r.violations, &sess.Violations},
		{r.unlocks, &sess.UnlockRequests},
	} {
		if u.src == "" || u.src == "null" {
			continue
		}
		if err := json.Unmarshal([]byte(u.src), u.dst); err != nil {
			return Session{}, err
		}
	}
	if sess.Responses == nil {
		sess.Responses = map[string]Response{}
	}
	return sess, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}
