package directory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/mind-engage/cognitrack/internal/quiz"
)

type Store interface {
	ListStudents(ctx context.Context) ([]Student, error)
	GetStudent(ctx context.Context, id string) (Student, error)
	CreateStudent(ctx context.Context, in StudentInput) (Student, error)
	// CreateStudents inserts all inputs or none.
	CreateStudents(ctx context.Context, in []StudentInput) ([]Student, error)

	ListClassrooms(ctx context.Context) ([]Classroom, error)
	GetClassroom(ctx context.Context, id string) (Classroom, error)
	CreateClassroom(ctx context.Context, in ClassroomInput) (Classroom, error)

	ListAssessments(ctx context.Context) ([]Assessment, error)
	GetAssessment(ctx context.Context, id string) (Assessment, error) // full, with answer keys
	CreateAssessment(ctx context.Context, in AssessmentInput) (Assessment, error)

	GetUser(ctx context.Context, id string) (User, error)
	GetUserByUsername(ctx context.Context, username string) (User, error)
	CreateUser(ctx context.Context, in UserInput) (User, error)
}

const bcryptCost = 12

func hashPassword(pw string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

// CheckPassword reports whether pw matches the stored hash.
func (u User) CheckPassword(pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(pw)) == nil
}

func newUser(id string, in UserInput) (User, error) {
	h, err := hashPassword(in.Password)
	if err != nil {
		return User{}, err
	}
	role := strings.TrimSpace(in.Role)
	if role == "" {
		role = "student"
	}
	return User{
		ID:           id,
		Username:     strings.TrimSpace(in.Username),
		PasswordHash: h,
		Role:         role,
		Name:         in.Name,
		AvatarURL:    in.AvatarURL,
	}, nil
}

// BankSource resolves question banks from stored assessments.
type BankSource struct{ Store Store }

func (b BankSource) Bank(ctx context.Context, assessmentID string) (*quiz.Bank, bool, error) {
	a, err := b.Store.GetAssessment(ctx, assessmentID)
	if err != nil {
		if isNotFound(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	if len(a.Questions) == 0 {
		return nil, false, nil
	}
	bank, err := quiz.NewBank(a.ID, a.Questions)
	if err != nil {
		return nil, false, err
	}
	return bank, true, nil
}

// SeedBanks stores each bank file as an assessment unless its id already exists.
func SeedBanks(ctx context.Context, s Store, files []quiz.BankFile) (created int, err error) {
	for _, f := range files {
		if _, err := s.GetAssessment(ctx, f.ID); err == nil {
			continue
		} else if !isNotFound(err) {
			return created, err
		}
		if _, err := s.CreateAssessment(ctx, AssessmentInput{
			ID:          f.ID,
			Title:       f.Title,
			Subject:     f.Subject,
			DurationSec: f.DurationSec,
			Questions:   f.Questions,
		}); err != nil {
			return created, fmt.Errorf("seed %s: %w", f.ID, err)
		}
		created++
	}
	return created, nil
}

// DemoClassrooms are the classrooms shown on the demo teacher dashboard.
func DemoClassrooms() []ClassroomInput {
	return []ClassroomInput{
		{ID: "cls-001", Name: "Advanced Mathematics", Subject: "Mathematics", TeacherID: "teacher-demo"},
		{ID: "cls-002", Name: "Physics Fundamentals", Subject: "Physics", TeacherID: "teacher-demo"},
		{ID: "cls-003", Name: "English Literature", Subject: "English", TeacherID: "teacher-demo"},
		{ID: "cls-004", Name: "Chemistry Lab", Subject: "Chemistry", TeacherID: "teacher-demo"},
	}
}

// SeedClassrooms creates each classroom unless its id already exists.
func SeedClassrooms(ctx context.Context, s Store, in []ClassroomInput) (created int, err error) {
	for _, c := range in {
		if _, err := s.CreateClassroom(ctx, c); err != nil {
			if errors.Is(err, ErrDuplicate) {
				continue
			}
			return created, fmt.Errorf("seed classroom %s: %w", c.ID, err)
		}
		created++
	}
	return created, nil
}
