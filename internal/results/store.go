package results

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Store persists result records. Implementations must be safe for
// concurrent use by request handlers.
type Store interface {
	// Create assigns a fresh id and submittedAt, stores the record and returns it.
	Create(ctx context.Context, in Input) (Result, error)
	// FindByAssessmentAndStudent returns the latest matching record or ErrNotFound.
	FindByAssessmentAndStudent(ctx context.Context, assessmentID, studentID string) (Result, error)
	// FindByStudent returns every record for the student, oldest first.
	FindByStudent(ctx context.Context, studentID string) ([]Result, error)
	Ping(ctx context.Context) error
}

type StoreOption func(*storeConfig)

type storeConfig struct {
	now   func() time.Time
	newID func() string
}

// WithClock overrides the submission timestamp source.
func WithClock(now func() time.Time) StoreOption { return func(c *storeConfig) { c.now = now } }

// WithIDs overrides the record id generator.
func WithIDs(gen func() string) StoreOption { return func(c *storeConfig) { c.newID = gen } }

func newStoreConfig(opts []StoreOption) storeConfig {
	c := storeConfig{now: time.Now, newID: uuid.NewString}
	for _, o := range opts {
		o(&c)
	}
	return c
}

func (c storeConfig) stamp(in Input) Result {
	return Result{
		ID:             c.newID(),
		AssessmentID:   in.AssessmentID,
		StudentID:      in.StudentID,
		Answers:        in.Answers,
		Score:          in.Score,
		TotalQuestions: in.TotalQuestions,
		// microsecond precision survives every backend round trip
		SubmittedAt: c.now().UTC().Truncate(time.Microsecond),
	}
}
