package results

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// SQLStore keeps results in the assessment_results table created by db.Open.
type SQLStore struct {
	db  *sql.DB
	cfg storeConfig
}

func NewSQLStore(db *sql.DB, opts ...StoreOption) *SQLStore {
	return &SQLStore{db: db, cfg: newStoreConfig(opts)}
}

func (s *SQLStore) Create(ctx context.Context, in Input) (Result, error) {
	r := s.cfg.stamp(in)
	_, err := s.db.ExecContext(ctx, `INSERT INTO assessment_results
		(id,assessment_id,student_id,answers,score,total_questions,submitted_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		r.ID, r.AssessmentID, r.StudentID, r.Answers, r.Score, r.TotalQuestions, r.SubmittedAt.UnixMicro())
	if err != nil {
		return Result{}, err
	}
	return r, nil
}

const resultCols = `id,assessment_id,student_id,answers,score,total_questions,submitted_at`

func (s *SQLStore) FindByAssessmentAndStudent(ctx context.Context, assessmentID, studentID string) (Result, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+resultCols+` FROM assessment_results
		WHERE assessment_id=$1 AND student_id=$2
		ORDER BY submitted_at DESC, seq DESC LIMIT 1`, assessmentID, studentID)
	r, err := scanResult(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Result{}, ErrNotFound
	}
	return r, err
}

func (s *SQLStore) FindByStudent(ctx context.Context, studentID string) ([]Result, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+resultCols+` FROM assessment_results
		WHERE student_id=$1 ORDER BY submitted_at ASC, seq ASC`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Result{}
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLStore) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

type scanner interface {
	Scan(dest ...any) error
}

func scanResult(sc scanner) (Result, error) {
	var r Result
	var micros int64
	if err := sc.Scan(&r.ID, &r.AssessmentID, &r.StudentID, &r.Answers, &r.Score, &r.TotalQuestions, &micros); err != nil {
		return Result{}, err
	}
	r.SubmittedAt = time.UnixMicro(micros).UTC()
	return r, nil
}
