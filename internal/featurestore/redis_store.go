package featurestore

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/fitfood/internal/telemetry/tracing"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const DefaultMaxAttempts = 10

var _ Store = (*RedisStore)(nil)

type RedisStore struct {
	redisClient *redis.Client
	maxAttempts int
}

func NewRedisStore(redisClient *redis.Client, maxAttempts int) *RedisStore {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &RedisStore{
		redisClient: redisClient,
		maxAttempts: maxAttempts,
	}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	doc, err := s.redisClient.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	return doc, nil
}

// Update watches the keys, applies fn and writes the result in a MULTI/EXEC,
// together with the revision counters of the keys.
// A transaction aborted by a concurrent write is retried with fresh state.
func (s *RedisStore) Update(ctx context.Context, keys []string, fn UpdateFunc) (_ []int64, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "featurestore.redis.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.StringSlice("keys", keys))

	var revisions []int64
	txf := func(tx *redis.Tx) error {
		current := make([][]byte, len(keys))
		for i, key := range keys {
			doc, err := tx.Get(ctx, key).Bytes()
			if err != nil && !errors.Is(err, redis.Nil) {
				return err
			}
			current[i] = doc
		}

		docs, err := fn(current)
		if err != nil {
			return err
		}
		if len(docs) != len(keys) {
			return fmt.Errorf("update returned %d documents for %d keys", len(docs), len(keys))
		}

		revisionCmds := make([]*redis.IntCmd, len(keys))
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			for i, key := range keys {
				pipe.Set(ctx, key, docs[i], 0)
				revisionCmds[i] = pipe.Incr(ctx, revisionKey(key))
			}
			return nil
		})
		if err != nil {
			return err
		}

		revisions = make([]int64, len(keys))
		for i, cmd := range revisionCmds {
			revisions[i] = cmd.Val()
		}
		return nil
	}

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		err := s.redisClient.Watch(ctx, txf, keys...)
		if err == nil {
			span.SetAttributes(attribute.Int("attempts", attempt))
			return revisions, nil
		}
		if !errors.Is(err, redis.TxFailedErr) {
			return nil, err
		}
		log.Tracef("feature update %v: concurrent write, attempt %d", keys, attempt)
	}

	return nil, ErrConflict
}
