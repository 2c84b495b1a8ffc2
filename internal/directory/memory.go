package directory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mind-engage/cognitrack/internal/cognitive"
	"github.com/mind-engage/cognitrack/internal/quiz"
)

type memoryStore struct {
	mu          sync.RWMutex
	students    map[string]Student
	studentIDs  []string
	classrooms  map[string]Classroom
	classIDs    []string
	assessments map[string]Assessment
	assessIDs   []string
	users       map[string]User
	now         func() time.Time
}

func NewMemoryStore() Store {
	return &memoryStore{
		students:    map[string]Student{},
		classrooms:  map[string]Classroom{},
		assessments: map[string]Assessment{},
		users:       map[string]User{},
		now:         time.Now,
	}
}

func isNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

func newStudent(in StudentInput) Student {
	return Student{
		ID:             uuid.NewString(),
		Name:           in.Name,
		Email:          in.Email,
		Grade:          in.Grade,
		ClassroomID:    in.ClassroomID,
		AvatarURL:      in.AvatarURL,
		CognitiveState: cognitive.StateOptimal,
	}
}

func newClassroom(in ClassroomInput) Classroom {
	id := strings.TrimSpace(in.ID)
	if id == "" {
		id = uuid.NewString()
	}
	return Classroom{ID: id, Name: in.Name, Subject: in.Subject, TeacherID: in.TeacherID}
}

func (m *memoryStore) ListStudents(context.Context) ([]Student, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Student, 0, len(m.studentIDs))
	for _, id := range m.studentIDs {
		out = append(out, m.students[id])
	}
	return out, nil
}

func (m *memoryStore) GetStudent(_ context.Context, id string) (Student, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.students[id]
	if !ok {
		return Student{}, fmt.Errorf("student %s: %w", id, ErrNotFound)
	}
	return s, nil
}

func (m *memoryStore) CreateStudent(ctx context.Context, in StudentInput) (Student, error) {
	out, err := m.CreateStudents(ctx, []StudentInput{in})
	if err != nil {
		return Student{}, err
	}
	return out[0], nil
}

func (m *memoryStore) CreateStudents(_ context.Context, in []StudentInput) ([]Student, error) {
	out := make([]Student, 0, len(in))
	for _, si := range in {
		out = append(out, newStudent(si))
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range out {
		m.students[s.ID] = s
		m.studentIDs = append(m.studentIDs, s.ID)
	}
	return out, nil
}

// withCount fills StudentsCount; callers hold m.mu.
func (m *memoryStore) withCount(c Classroom) Classroom {
	c.StudentsCount = 0
	for _, st := range m.students {
		if st.ClassroomID != nil && *st.ClassroomID == c.ID {
			c.StudentsCount++
		}
	}
	return c
}

func (m *memoryStore) ListClassrooms(context.Context) ([]Classroom, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Classroom, 0, len(m.classIDs))
	for _, id := range m.classIDs {
		out = append(out, m.withCount(m.classrooms[id]))
	}
	return out, nil
}

func (m *memoryStore) GetClassroom(_ context.Context, id string) (Classroom, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.classrooms[id]
	if !ok {
		return Classroom{}, fmt.Errorf("classroom %s: %w", id, ErrNotFound)
	}
	return m.withCount(c), nil
}

func (m *memoryStore) CreateClassroom(_ context.Context, in ClassroomInput) (Classroom, error) {
	c := newClassroom(in)
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, dup := m.classrooms[c.ID]; dup {
		return Classroom{}, fmt.Errorf("classroom %s: %w", c.ID, ErrDuplicate)
	}
	m.classrooms[c.ID] = c
	m.classIDs = append(m.classIDs, c.ID)
	return m.withCount(c), nil
}

func (m *memoryStore) ListAssessments(context.Context) ([]Assessment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Assessment, 0, len(m.assessIDs))
	for _, id := range m.assessIDs {
		out = append(out, m.assessments[id])
	}
	return out, nil
}

func (m *memoryStore) GetAssessment(_ context.Context, id string) (Assessment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.assessments[id]
	if !ok {
		return Assessment{}, fmt.Errorf("assessment %s: %w", id, ErrNotFound)
	}
	return a, nil
}

func (m *memoryStore) CreateAssessment(_ context.Context, in AssessmentInput) (Assessment, error) {
	id := strings.TrimSpace(in.ID)
	if id == "" {
		id = uuid.NewString()
	}
	a := Assessment{
		ID:          id,
		Title:       in.Title,
		Subject:     in.Subject,
		ClassroomID: in.ClassroomID,
		DurationSec: in.DurationSec,
		Questions:   append([]quiz.Question(nil), in.Questions...),
		CreatedAt:   m.now().UTC().Truncate(time.Second),
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, dup := m.assessments[id]; dup {
		return Assessment{}, fmt.Errorf("assessment %s: %w", id, ErrDuplicate)
	}
	m.assessments[id] = a
	m.assessIDs = append(m.assessIDs, id)
	return a, nil
}

func (m *memoryStore) GetUser(_ context.Context, id string) (User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return User{}, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	return u, nil
}

func (m *memoryStore) GetUserByUsername(_ context.Context, username string) (User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return User{}, fmt.Errorf("user %q: %w", username, ErrNotFound)
}

func (m *memoryStore) CreateUser(_ context.Context, in UserInput) (User, error) {
	u, err := newUser(uuid.NewString(), in)
	if err != nil {
		return User{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Username == u.Username {
			return User{}, fmt.Errorf("user %q: %w", u.Username, ErrDuplicate)
		}
	}
	m.users[u.ID] = u
	return u, nil
}
