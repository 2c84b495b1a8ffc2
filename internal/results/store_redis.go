package results

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each record as a JSON string and indexes it in two sorted
// sets scored by submittedAt in microseconds. Members are "<seq>:<id>" with a
// zero-padded insertion sequence, so equal timestamps rank by insertion.
type RedisStore struct {
	rdb    redis.UniversalClient
	prefix string
	cfg    storeConfig
}

func NewRedisStore(rdb redis.UniversalClient, prefix string, opts ...StoreOption) *RedisStore {
	if prefix == "" {
		prefix = "cognitrack"
	}
	return &RedisStore{rdb: rdb, prefix: prefix, cfg: newStoreConfig(opts)}
}

func (s *RedisStore) recordKey(id string) string { return s.prefix + ":result:" + id }
func (s *RedisStore) seqKey() string             { return s.prefix + ":results:seq" }
func (s *RedisStore) studentKey(studentID string) string {
	return s.prefix + ":results:student:" + studentID
}
func (s *RedisStore) pairKey(assessmentID, studentID string) string {
	return fmt.Sprintf("%s:results:pair:%d:%s:%s", s.prefix, len(assessmentID), assessmentID, studentID)
}

func (s *RedisStore) Create(ctx context.Context, in Input) (Result, error) {
	r := s.cfg.stamp(in)
	buf, err := json.Marshal(r)
	if err != nil {
		return Result{}, err
	}
	seq, err := s.rdb.Incr(ctx, s.seqKey()).Result()
	if err != nil {
		return Result{}, err
	}
	member := redis.Z{Score: float64(r.SubmittedAt.UnixMicro()), Member: fmt.Sprintf("%019d:%s", seq, r.ID)}
	_, err = s.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, s.recordKey(r.ID), buf, 0)
		p.ZAdd(ctx, s.studentKey(r.StudentID), member)
		p.ZAdd(ctx, s.pairKey(r.AssessmentID, r.StudentID), member)
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	return r, nil
}

func (s *RedisStore) FindByAssessmentAndStudent(ctx context.Context, assessmentID, studentID string) (Result, error) {
	members, err := s.rdb.ZRevRange(ctx, s.pairKey(assessmentID, studentID), 0, 0).Result()
	if err != nil {
		return Result{}, err
	}
	ids := memberIDs(members)
	if len(ids) == 0 {
		return Result{}, ErrNotFound
	}
	list, err := s.load(ctx, ids)
	if err != nil {
		return Result{}, err
	}
	if len(list) == 0 {
		return Result{}, ErrNotFound
	}
	return list[0], nil
}

func (s *RedisStore) FindByStudent(ctx context.Context, studentID string) ([]Result, error) {
	members, err := s.rdb.ZRange(ctx, s.studentKey(studentID), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	return s.load(ctx, memberIDs(members))
}

func memberIDs(members []string) []string {
	ids := make([]string, len(members))
	for i, m := range members {
		_, id, ok := strings.Cut(m, ":")
		if !ok {
			id = m
		}
		ids[i] = id
	}
	return ids
}

func (s *RedisStore) Ping(ctx context.Context) error { return s.rdb.Ping(ctx).Err() }

func (s *RedisStore) load(ctx context.Context, ids []string) ([]Result, error) {
	out := make([]Result, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.recordKey(id)
	}
	vals, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, err
	}
	for i, v := range vals {
		raw, ok := v.(string)
		if !ok {
			// index entry without a record; skip
			continue
		}
		var r Result
		if err := json.Unmarshal([]byte(raw), &r); err != nil {
			return nil, fmt.Errorf("decode result %s: %w", ids[i], err)
		}
		out = append(out, r)
	}
	return out, nil
}
