package directory

import (
	"errors"
	"strings"
	"time"

	"github.com/mind-engage/cognitrack/internal/cognitive"
	"github.com/mind-engage/cognitrack/internal/quiz"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("already exists")
)

type Student struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Email          string          `json:"email"`
	Grade          string          `json:"grade"`
	ClassroomID    *string         `json:"classroomId"`
	AvatarURL      *string         `json:"avatarUrl"`
	CognitiveState cognitive.State `json:"cognitiveState"`
}

type StudentInput struct {
	Name        string  `json:"name" validate:"required"`
	Email       string  `json:"email" validate:"required,email"`
	Grade       string  `json:"grade" validate:"required"`
	ClassroomID *string `json:"classroomId"`
	AvatarURL   *string `json:"avatarUrl" validate:"omitempty,url"`
}

// Classroom groups students under one teacher. StudentsCount is derived
// from students whose classroomId points at it.
type Classroom struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Subject       string `json:"subject"`
	TeacherID     string `json:"teacherId"`
	StudentsCount int    `json:"studentsCount"`
}

type ClassroomInput struct {
	ID        string `json:"id,omitempty"` // optional fixed id, used for seeding
	Name      string `json:"name" validate:"required"`
	Subject   string `json:"subject" validate:"required"`
	TeacherID string `json:"teacherId" validate:"required"`
}

// Matches reports whether q occurs in the name or subject, ignoring case.
func (c Classroom) Matches(q string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	return q == "" ||
		strings.Contains(strings.ToLower(c.Name), q) ||
		strings.Contains(strings.ToLower(c.Subject), q)
}

type Assessment struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Subject     string          `json:"subject"`
	ClassroomID *string         `json:"classroomId"`
	DurationSec int             `json:"durationSec"`
	Questions   []quiz.Question `json:"questions"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// StudentView strips correct answers from the questions.
func (a Assessment) StudentView() Assessment {
	qs := make([]quiz.Question, len(a.Questions))
	copy(qs, a.Questions)
	for i := range qs {
		qs[i].CorrectAnswer = ""
	}
	a.Questions = qs
	return a
}

type AssessmentInput struct {
	ID          string          `json:"id,omitempty"` // optional fixed id, used for seeding
	Title       string          `json:"title" validate:"required"`
	Subject     string          `json:"subject" validate:"required"`
	ClassroomID *string         `json:"classroomId"`
	DurationSec int             `json:"durationSec" validate:"gte=0"`
	Questions   []quiz.Question `json:"questions" validate:"required,min=1,dive"`
}

type User struct {
	ID           string  `json:"id"`
	Username     string  `json:"username"`
	PasswordHash string  `json:"-"`
	Role         string  `json:"role"`
	Name         string  `json:"name"`
	AvatarURL    *string `json:"avatarUrl"`
}

type UserInput struct {
	Username  string  `json:"username" validate:"required,min=3,max=64"`
	Password  string  `json:"password" validate:"required,min=8"`
	Role      string  `json:"role" validate:"omitempty,oneof=student teacher admin"`
	Name      string  `json:"name" validate:"required"`
	AvatarURL *string `json:"avatarUrl" validate:"omitempty,url"`
}

// nullable turns an optional string into a driver value.
func nullable(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
