package featurestore

import (
	"context"
	"errors"
	"time"
)

const (
	keyPrefix = "fitfood||feature||"

	// GlobalOwner owns the documents shared by all users.
	GlobalOwner = "global"
)

var ErrConflict = errors.New("feature document changed concurrently, retries exhausted")

type Feature string

const (
	FeatureRunningHistory    Feature = "runningHistory"
	FeatureRunningStats      Feature = "runningStats"
	FeatureWeightHistory     Feature = "weightHistory"
	FeatureWeightGoals       Feature = "weightGoals"
	FeatureScheduledWorkouts Feature = "scheduledWorkouts"
	FeatureCommunityPosts    Feature = "communityPosts"
)

func Key(feature Feature, owner string) string {
	return keyPrefix + string(feature) + "||" + owner
}

func revisionKey(key string) string {
	return key + "||rev"
}

// UpdateFunc gets the current raw documents (nil when missing), in key order,
// and returns the documents to store.
type UpdateFunc func(current [][]byte) ([][]byte, error)

// Store keeps raw feature documents. Update is a read-modify-write which
// either applies fn on the latest state of all keys or fails. It returns the
// new revision of every key, in key order. Revisions of a key grow with each
// committed update.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Update(ctx context.Context, keys []string, fn UpdateFunc) ([]int64, error)
}

// NextID returns a unix-millisecond id, bumped above the ids already taken.
func NextID(now time.Time, taken ...int64) int64 {
	id := now.UnixMilli()
	for _, t := range taken {
		if t >= id {
			id = t + 1
		}
	}
	return id
}
