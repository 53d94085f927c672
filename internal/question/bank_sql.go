package question

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
)

type SQLBank struct {
	db *sql.DB
}

func NewSQLBank(db *sql.DB) *SQLBank { return &SQLBank{db: db} }

func (b *SQLBank) Put(ctx context.Context, q Question) error {
	cj, err := json.Marshal(q.Choices)
	if err != nil {
		return err
	}
	_, err = b.db.ExecContext(ctx, `INSERT INTO questions (id,exam_type,subject,prompt,choices_json,correct_answer,active)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (id) DO UPDATE SET exam_type=EXCLUDED.exam_type, subject=EXCLUDED.subject,
			prompt=EXCLUDED.prompt, choices_json=EXCLUDED.choices_json,
			correct_answer=EXCLUDED.correct_answer, active=EXCLUDED.active`,
		q.ID, q.ExamType, q.Subject, q.Prompt, string(cj), q.CorrectAnswer, q.Active)
	return err
}

func (b *SQLBank) Get(ctx context.Context, id string) (Question, error) {
	row := b.db.QueryRowContext(ctx,
		`SELECT id,exam_type,subject,prompt,choices_json,correct_answer,active FROM questions WHERE id=$1`, id)
	return scanQuestion(row)
}

func (b *SQLBank) BySubject(ctx context.Context, examType, subject string) ([]Question, error) {
	rows, err := b.db.QueryContext(ctx,
		`SELECT id,exam_type,subject,prompt,choices_json,correct_answer,active
		 FROM questions WHERE exam_type=$1 AND subject=$2`, examType, subject)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuestion(row rowScanner) (Question, error) {
	var q Question
	var cjson string
	if err := row.Scan(&q.ID, &q.ExamType, &q.Subject, &q.Prompt, &cjson, &q.CorrectAnswer, &q.Active); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Question{}, ErrNotFound
		}
		return Question{}, err
	}
	if cjson != "" {
		if err := json.Unmarshal([]byte(cjson), &q.Choices); err != nil {
			return Question{}, err
		}
	}
	return q, nil
}
