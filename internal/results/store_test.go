package results

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mind-engage/cognitrack/internal/db"
)

// clock hands out the queued times in order, then repeats the last one.
type clock struct {
	mu    sync.Mutex
	times []time.Time
}

func (c *clock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.times[0]
	if len(c.times) > 1 {
		c.times = c.times[1:]
	}
	return t
}

var base = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func input(aid, sid string, score int) Input {
	return Input{AssessmentID: aid, StudentID: sid, Answers: `{"1":"a"}`, Score: score, TotalQuestions: 3}
}

type storeFactory func(t *testing.T, opts ...StoreOption) Store

// runStoreContract exercises behaviour every backend shares.
func runStoreContract(t *testing.T, newStore storeFactory) {
	ctx := context.Background()

	t.Run("create assigns id and time", func(t *testing.T) {
		s := newStore(t, WithClock(func() time.Time { return base }))
		r, err := s.Create(ctx, input("math", "stu-1", 2))
		require.NoError(t, err)
		assert.NotEmpty(t, r.ID)
		assert.True(t, base.Equal(r.SubmittedAt))
		assert.Equal(t, 2, r.Score)

		got, err := s.FindByAssessmentAndStudent(ctx, "math", "stu-1")
		require.NoError(t, err)
		assert.Equal(t, r.ID, got.ID)
		assert.Equal(t, r.Answers, got.Answers)
		assert.True(t, r.SubmittedAt.Equal(got.SubmittedAt))
	})

	t.Run("not found", func(t *testing.T) {
		s := newStore(t)
		_, err := s.FindByAssessmentAndStudent(ctx, "math", "nobody")
		assert.ErrorIs(t, err, ErrNotFound)

		list, err := s.FindByStudent(ctx, "nobody")
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("duplicates persist and latest wins", func(t *testing.T) {
		c := &clock{times: []time.Time{base, base.Add(time.Second)}}
		s := newStore(t, WithClock(c.now))
		first, err := s.Create(ctx, input("math", "stu-1", 1))
		require.NoError(t, err)
		second, err := s.Create(ctx, input("math", "stu-1", 3))
		require.NoError(t, err)
		assert.NotEqual(t, first.ID, second.ID)

		got, err := s.FindByAssessmentAndStudent(ctx, "math", "stu-1")
		require.NoError(t, err)
		assert.Equal(t, second.ID, got.ID)

		list, err := s.FindByStudent(ctx, "stu-1")
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, first.ID, list[0].ID)
		assert.Equal(t, second.ID, list[1].ID)
	})

	t.Run("equal timestamps resolve to later insertion", func(t *testing.T) {
		s := newStore(t, WithClock(func() time.Time { return base }))
		_, err := s.Create(ctx, input("math", "stu-1", 1))
		require.NoError(t, err)
		last, err := s.Create(ctx, input("math", "stu-1", 2))
		require.NoError(t, err)

		got, err := s.FindByAssessmentAndStudent(ctx, "math", "stu-1")
		require.NoError(t, err)
		assert.Equal(t, last.ID, got.ID)
	})

	t.Run("lookups are scoped", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Create(ctx, input("math", "stu-1", 1))
		require.NoError(t, err)
		_, err = s.Create(ctx, input("physics", "stu-1", 2))
		require.NoError(t, err)
		other, err := s.Create(ctx, input("math", "stu-2", 3))
		require.NoError(t, err)

		got, err := s.FindByAssessmentAndStudent(ctx, "math", "stu-2")
		require.NoError(t, err)
		assert.Equal(t, other.ID, got.ID)

		list, err := s.FindByStudent(ctx, "stu-1")
		require.NoError(t, err)
		assert.Len(t, list, 2)
		for _, r := range list {
			assert.Equal(t, "stu-1", r.StudentID)
		}
	})

	t.Run("later submittedAt beats later insertion", func(t *testing.T) {
		c := &clock{times: []time.Time{base.Add(time.Minute), base}}
		s := newStore(t, WithClock(c.now))
		newest, err := s.Create(ctx, input("math", "stu-1", 3))
		require.NoError(t, err)
		_, err = s.Create(ctx, input("math", "stu-1", 0))
		require.NoError(t, err)

		got, err := s.FindByAssessmentAndStudent(ctx, "math", "stu-1")
		require.NoError(t, err)
		assert.Equal(t, newest.ID, got.ID)

		list, err := s.FindByStudent(ctx, "stu-1")
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, newest.ID, list[1].ID)
	})

	t.Run("concurrent creates", func(t *testing.T) {
		const writers, perWriter = 8, 25
		s := newStore(t)
		var wg sync.WaitGroup
		errs := make(chan error, writers*perWriter)
		for w := 0; w < writers; w++ {
			wg.Add(1)
			go func(w int) {
				defer wg.Done()
				for i := 0; i < perWriter; i++ {
					aid := "quiz-" + strconv.Itoa(w)
					if _, err := s.Create(ctx, input(aid, "stu-race", i%4)); err != nil {
						errs <- err
					}
				}
			}(w)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}

		list, err := s.FindByStudent(ctx, "stu-race")
		require.NoError(t, err)
		require.Len(t, list, writers*perWriter)
		seen := make(map[string]bool, len(list))
		for i, r := range list {
			assert.False(t, seen[r.ID], "duplicate id %s", r.ID)
			seen[r.ID] = true
			if i > 0 {
				assert.False(t, r.SubmittedAt.Before(list[i-1].SubmittedAt), "not oldest first at %d", i)
			}
		}
		for w := 0; w < writers; w++ {
			_, err := s.FindByAssessmentAndStudent(ctx, "quiz-"+strconv.Itoa(w), "stu-race")
			assert.NoError(t, err)
		}
	})

	t.Run("ping", func(t *testing.T) {
		assert.NoError(t, newStore(t).Ping(ctx))
	})
}

func TestMemoryStore(t *testing.T) {
	runStoreContract(t, func(t *testing.T, opts ...StoreOption) Store {
		return NewMemoryStore(opts...)
	})
}

func TestSQLStore_SQLite(t *testing.T) {
	runStoreContract(t, func(t *testing.T, opts ...StoreOption) Store {
		dbh, err := db.Open(context.Background(), db.DriverSQLite, filepath.Join(t.TempDir(), "results.db"))
		require.NoError(t, err)
		t.Cleanup(func() { dbh.Close() })
		return NewSQLStore(dbh, opts...)
	})
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	n := 0
	runStoreContract(t, func(t *testing.T, opts ...StoreOption) Store {
		rdb := redis.NewClient(&redis.Options{Addr: addr})
		t.Cleanup(func() { rdb.Close() })
		n++
		prefix := "cognitrack-test:" + strconv.FormatInt(time.Now().UnixNano(), 36) + ":" + strconv.Itoa(n)
		t.Cleanup(func() {
			ctx := context.Background()
			keys, _ := rdb.Keys(ctx, prefix+":*").Result()
			if len(keys) > 0 {
				rdb.Del(ctx, keys...)
			}
		})
		return NewRedisStore(rdb, prefix, opts...)
	})
}
