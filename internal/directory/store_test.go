package directory

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mind-engage/cognitrack/internal/cognitive"
	"github.com/mind-engage/cognitrack/internal/db"
	"github.com/mind-engage/cognitrack/internal/quiz"
)

func strPtr(s string) *string { return &s }

func runDirectoryContract(t *testing.T, newStore func(t *testing.T) Store) {
	ctx := context.Background()

	t.Run("students", func(t *testing.T) {
		s := newStore(t)
		st, err := s.CreateStudent(ctx, StudentInput{
			Name: "Alice Johnson", Email: "alice@school.edu", Grade: "10",
			ClassroomID: strPtr("class-a"),
		})
		require.NoError(t, err)
		assert.NotEmpty(t, st.ID)
		assert.Equal(t, cognitive.StateOptimal, st.CognitiveState)

		got, err := s.GetStudent(ctx, st.ID)
		require.NoError(t, err)
		assert.Equal(t, st, got)
		assert.Nil(t, got.AvatarURL)

		_, err = s.GetStudent(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)

		more, err := s.CreateStudents(ctx, []StudentInput{
			{Name: "Bob", Email: "bob@school.edu", Grade: "10"},
			{Name: "Carol", Email: "carol@school.edu", Grade: "11"},
		})
		require.NoError(t, err)
		require.Len(t, more, 2)

		list, err := s.ListStudents(ctx)
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, "Alice Johnson", list[0].Name)
		assert.Equal(t, "Carol", list[2].Name)
	})

	t.Run("classrooms", func(t *testing.T) {
		s := newStore(t)
		n, err := SeedClassrooms(ctx, s, DemoClassrooms())
		require.NoError(t, err)
		assert.Equal(t, 4, n)
		n, err = SeedClassrooms(ctx, s, DemoClassrooms())
		require.NoError(t, err)
		assert.Zero(t, n)

		_, err = s.CreateStudents(ctx, []StudentInput{
			{Name: "Alice", Email: "alice@school.edu", Grade: "10", ClassroomID: strPtr("cls-002")},
			{Name: "Bob", Email: "bob@school.edu", Grade: "10", ClassroomID: strPtr("cls-002")},
			{Name: "Carol", Email: "carol@school.edu", Grade: "11"},
		})
		require.NoError(t, err)

		got, err := s.GetClassroom(ctx, "cls-002")
		require.NoError(t, err)
		assert.Equal(t, "Physics Fundamentals", got.Name)
		assert.Equal(t, "teacher-demo", got.TeacherID)
		assert.Equal(t, 2, got.StudentsCount)

		created, err := s.CreateClassroom(ctx, ClassroomInput{Name: "Biology", Subject: "Science", TeacherID: "t-2"})
		require.NoError(t, err)
		assert.NotEmpty(t, created.ID)
		assert.Zero(t, created.StudentsCount)

		_, err = s.CreateClassroom(ctx, ClassroomInput{ID: "cls-001", Name: "x", Subject: "y", TeacherID: "z"})
		assert.ErrorIs(t, err, ErrDuplicate)

		list, err := s.ListClassrooms(ctx)
		require.NoError(t, err)
		require.Len(t, list, 5)
		assert.Equal(t, "cls-001", list[0].ID)
		assert.Equal(t, 2, list[1].StudentsCount)
		assert.Equal(t, created.ID, list[4].ID)

		_, err = s.GetClassroom(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("assessments", func(t *testing.T) {
		s := newStore(t)
		demo := quiz.DemoBankFile()
		a, err := s.CreateAssessment(ctx, AssessmentInput{
			ID: demo.ID, Title: demo.Title, Subject: demo.Subject,
			DurationSec: demo.DurationSec, Questions: demo.Questions,
		})
		require.NoError(t, err)
		assert.Equal(t, demo.ID, a.ID)
		assert.False(t, a.CreatedAt.IsZero())

		got, err := s.GetAssessment(ctx, demo.ID)
		require.NoError(t, err)
		assert.Equal(t, demo.Questions, got.Questions)
		assert.Equal(t, "a", got.Questions[0].CorrectAnswer)

		_, err = s.CreateAssessment(ctx, AssessmentInput{ID: demo.ID, Title: "x", Subject: "y", Questions: demo.Questions})
		assert.ErrorIs(t, err, ErrDuplicate)

		gen, err := s.CreateAssessment(ctx, AssessmentInput{Title: "Quiz", Subject: "Misc", Questions: demo.Questions[:1]})
		require.NoError(t, err)
		assert.NotEmpty(t, gen.ID)

		list, err := s.ListAssessments(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, demo.ID, list[0].ID)

		_, err = s.GetAssessment(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("users", func(t *testing.T) {
		s := newStore(t)
		u, err := s.CreateUser(ctx, UserInput{Username: "teacher1", Password: "correct horse", Name: "Ms. Rivera"})
		require.NoError(t, err)
		assert.Equal(t, "student", u.Role)
		assert.NotEqual(t, "correct horse", u.PasswordHash)
		assert.True(t, u.CheckPassword("correct horse"))
		assert.False(t, u.CheckPassword("wrong"))

		byName, err := s.GetUserByUsername(ctx, "teacher1")
		require.NoError(t, err)
		assert.Equal(t, u.ID, byName.ID)

		byID, err := s.GetUser(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, "Ms. Rivera", byID.Name)

		_, err = s.CreateUser(ctx, UserInput{Username: "teacher1", Password: "another one", Name: "Other"})
		assert.ErrorIs(t, err, ErrDuplicate)

		_, err = s.GetUser(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)

		raw, err := json.Marshal(u)
		require.NoError(t, err)
		assert.NotContains(t, string(raw), "password")
	})

	t.Run("bank source and seeding", func(t *testing.T) {
		s := newStore(t)
		files := []quiz.BankFile{quiz.DemoBankFile()}

		n, err := SeedBanks(ctx, s, files)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
		n, err = SeedBanks(ctx, s, files)
		require.NoError(t, err)
		assert.Equal(t, 0, n)

		bank, ok, err := BankSource{Store: s}.Bank(ctx, quiz.DemoAssessmentID)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, 3, bank.Len())

		_, ok, err = BankSource{Store: s}.Bank(ctx, "missing")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestMemoryStore(t *testing.T) {
	runDirectoryContract(t, func(*testing.T) Store { return NewMemoryStore() })
}

func TestSQLStore_SQLite(t *testing.T) {
	runDirectoryContract(t, func(t *testing.T) Store {
		dbh, err := db.Open(context.Background(), db.DriverSQLite, filepath.Join(t.TempDir(), "dir.db"))
		require.NoError(t, err)
		t.Cleanup(func() { dbh.Close() })
		return NewSQLStore(dbh)
	})
}

func TestClassroom_Matches(t *testing.T) {
	c := Classroom{Name: "Advanced Mathematics", Subject: "Mathematics"}
	assert.True(t, c.Matches(""))
	assert.True(t, c.Matches("  ADVANCED "))
	assert.True(t, c.Matches("math"))
	assert.False(t, c.Matches("physics"))
}

func TestAssessment_StudentView(t *testing.T) {
	a := Assessment{ID: "x", Questions: quiz.DemoBankFile().Questions}
	v := a.StudentView()
	for _, q := range v.Questions {
		assert.Empty(t, q.CorrectAnswer)
	}
	assert.Equal(t, "a", a.Questions[0].CorrectAnswer)
}
