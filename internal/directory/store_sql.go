package directory

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mind-engage/cognitrack/internal/cognitive"
)

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

const studentCols = `id,name,email,grade,classroom_id,avatar_url,cognitive_state`

func (s *SQLStore) ListStudents(ctx context.Context) ([]Student, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+studentCols+` FROM students ORDER BY seq ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Student{}
	for rows.Next() {
		st, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func (s *SQLStore) GetStudent(ctx context.Context, id string) (Student, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+studentCols+` FROM students WHERE id=$1`, id)
	st, err := scanStudent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Student{}, fmt.Errorf("student %s: %w", id, ErrNotFound)
	}
	return st, err
}

func (s *SQLStore) CreateStudent(ctx context.Context, in StudentInput) (Student, error) {
	out, err := s.CreateStudents(ctx, []StudentInput{in})
	if err != nil {
		return Student{}, err
	}
	return out[0], nil
}

func (s *SQLStore) CreateStudents(ctx context.Context, in []StudentInput) ([]Student, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	out := make([]Student, 0, len(in))
	now := time.Now().Unix()
	for _, si := range in {
		st := newStudent(si)
		if _, err := tx.ExecContext(ctx, `INSERT INTO students
			(id,name,email,grade,classroom_id,avatar_url,cognitive_state,created_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
			st.ID, st.Name, st.Email, st.Grade, nullable(st.ClassroomID), nullable(st.AvatarURL), string(st.CognitiveState), now); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return out, nil
}

const classroomSelect = `SELECT c.id,c.name,c.subject,c.teacher_id,
	(SELECT COUNT(*) FROM students s WHERE s.classroom_id = c.id)
	FROM classrooms c`

func (s *SQLStore) ListClassrooms(ctx context.Context) ([]Classroom, error) {
	rows, err := s.db.QueryContext(ctx, classroomSelect+` ORDER BY c.seq ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Classroom{}
	for rows.Next() {
		var c Classroom
		if err := rows.Scan(&c.ID, &c.Name, &c.Subject, &c.TeacherID, &c.StudentsCount); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *SQLStore) GetClassroom(ctx context.Context, id string) (Classroom, error) {
	var c Classroom
	err := s.db.QueryRowContext(ctx, classroomSelect+` WHERE c.id=$1`, id).
		Scan(&c.ID, &c.Name, &c.Subject, &c.TeacherID, &c.StudentsCount)
	if errors.Is(err, sql.ErrNoRows) {
		return Classroom{}, fmt.Errorf("classroom %s: %w", id, ErrNotFound)
	}
	return c, err
}

func (s *SQLStore) CreateClassroom(ctx context.Context, in ClassroomInput) (Classroom, error) {
	c := newClassroom(in)
	_, err := s.db.ExecContext(ctx, `INSERT INTO classrooms (id,name,subject,teacher_id) VALUES ($1,$2,$3,$4)`,
		c.ID, c.Name, c.Subject, c.TeacherID)
	if err != nil {
		if isUniqueViolation(err) {
			return Classroom{}, fmt.Errorf("classroom %s: %w", c.ID, ErrDuplicate)
		}
		return Classroom{}, err
	}
	return s.GetClassroom(ctx, c.ID)
}

const assessmentCols = `id,title,subject,classroom_id,duration_sec,questions_json,created_at`

func (s *SQLStore) ListAssessments(ctx context.Context) ([]Assessment, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+assessmentCols+` FROM assessments ORDER BY seq ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Assessment{}
	for rows.Next() {
		a, err := scanAssessment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *SQLStore) GetAssessment(ctx context.Context, id string) (Assessment, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+assessmentCols+` FROM assessments WHERE id=$1`, id)
	a, err := scanAssessment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Assessment{}, fmt.Errorf("assessment %s: %w", id, ErrNotFound)
	}
	return a, err
}

func (s *SQLStore) CreateAssessment(ctx context.Context, in AssessmentInput) (Assessment, error) {
	id := strings.TrimSpace(in.ID)
	if id == "" {
		id = uuid.NewString()
	}
	qj, err := json.Marshal(in.Questions)
	if err != nil {
		return Assessment{}, err
	}
	created := time.Now().UTC().Truncate(time.Second)
	_, err = s.db.ExecContext(ctx, `INSERT INTO assessments
		(id,title,subject,classroom_id,duration_sec,questions_json,created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		id, in.Title, in.Subject, nullable(in.ClassroomID), in.DurationSec, string(qj), created.Unix())
	if err != nil {
		if isUniqueViolation(err) {
			return Assessment{}, fmt.Errorf("assessment %s: %w", id, ErrDuplicate)
		}
		return Assessment{}, err
	}
	return Assessment{
		ID:          id,
		Title:       in.Title,
		Subject:     in.Subject,
		ClassroomID: in.ClassroomID,
		DurationSec: in.DurationSec,
		Questions:   in.Questions,
		CreatedAt:   created,
	}, nil
}

const userCols = `id,username,password_hash,role,name,avatar_url`

func (s *SQLStore) GetUser(ctx context.Context, id string) (User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userCols+` FROM users WHERE id=$1`, id)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	return u, err
}

func (s *SQLStore) GetUserByUsername(ctx context.Context, username string) (User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userCols+` FROM users WHERE username=$1`, username)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, fmt.Errorf("user %q: %w", username, ErrNotFound)
	}
	return u, err
}

func (s *SQLStore) CreateUser(ctx context.Context, in UserInput) (User, error) {
	u, err := newUser(uuid.NewString(), in)
	if err != nil {
		return User{}, err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO users (id,username,password_hash,role,name,avatar_url)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		u.ID, u.Username, u.PasswordHash, u.Role, u.Name, nullable(u.AvatarURL))
	if err != nil {
		if isUniqueViolation(err) {
			return User{}, fmt.Errorf("user %q: %w", u.Username, ErrDuplicate)
		}
		return User{}, err
	}
	return u, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanStudent(sc scanner) (Student, error) {
	var st Student
	var classroom, avatar sql.NullString
	var state string
	if err := sc.Scan(&st.ID, &st.Name, &st.Email, &st.Grade, &classroom, &avatar, &state); err != nil {
		return Student{}, err
	}
	st.ClassroomID = nullString(classroom)
	st.AvatarURL = nullString(avatar)
	st.CognitiveState = cognitive.State(state)
	return st, nil
}

func scanAssessment(sc scanner) (Assessment, error) {
	var a Assessment
	var classroom sql.NullString
	var qjson string
	var created int64
	if err := sc.Scan(&a.ID, &a.Title, &a.Subject, &classroom, &a.DurationSec, &qjson, &created); err != nil {
		return Assessment{}, err
	}
	if err := json.Unmarshal([]byte(qjson), &a.Questions); err != nil {
		return Assessment{}, fmt.Errorf("assessment %s questions: %w", a.ID, err)
	}
	a.ClassroomID = nullString(classroom)
	a.CreatedAt = time.Unix(created, 0).UTC()
	return a, nil
}

func scanUser(sc scanner) (User, error) {
	var u User
	var avatar sql.NullString
	if err := sc.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.Name, &avatar); err != nil {
		return User{}, err
	}
	u.AvatarURL = nullString(avatar)
	return u, nil
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}

func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || // sqlite
		strings.Contains(msg, "duplicate key value") // postgres
}
