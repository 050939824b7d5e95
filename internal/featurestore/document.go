package featurestore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/2beens/fitfood/internal/telemetry/metrics"

	log "github.com/sirupsen/logrus"
)

// Notifier is told about every stored document change. Notifications of
// concurrent updates may arrive out of order; the revision orders them.
type Notifier interface {
	Notify(owner string, feature Feature, revision int64, data any)
}

// Documents binds the store with the change notifier and metrics shared by typed documents.
type Documents struct {
	store          Store
	notifier       Notifier
	metricsManager *metrics.Manager
}

// NewDocuments accepts a nil notifier and a nil metrics manager.
func NewDocuments(store Store, notifier Notifier, metricsManager *metrics.Manager) *Documents {
	return &Documents{
		store:          store,
		notifier:       notifier,
		metricsManager: metricsManager,
	}
}

func (d *Documents) changed(owner string, feature Feature, revision int64, data any) {
	if d.metricsManager != nil {
		d.metricsManager.CounterFeatureUpdates.WithLabelValues(string(feature)).Inc()
	}
	if d.notifier != nil {
		d.notifier.Notify(owner, feature, revision, data)
	}
}

// Document is a typed feature document. A missing or unreadable stored value reads
// as the default value.
type Document[T any] struct {
	docs       *Documents
	feature    Feature
	newDefault func() T
}

func NewDocument[T any](docs *Documents, feature Feature, newDefault func() T) *Document[T] {
	return &Document[T]{
		docs:       docs,
		feature:    feature,
		newDefault: newDefault,
	}
}

func (d *Document[T]) Feature() Feature {
	return d.feature
}

func (d *Document[T]) Get(ctx context.Context, owner string) (T, error) {
	raw, err := d.docs.store.Get(ctx, Key(d.feature, owner))
	if err != nil {
		var empty T
		return empty, fmt.Errorf("get %s: %w", d.feature, err)
	}
	return d.decode(owner, raw), nil
}

// Update applies fn on the latest value and stores the result. An error from fn
// aborts the update and is returned as is.
func (d *Document[T]) Update(ctx context.Context, owner string, fn func(value *T) error) (T, error) {
	var updated T
	revisions, err := d.docs.store.Update(ctx, []string{Key(d.feature, owner)}, func(current [][]byte) ([][]byte, error) {
		value := d.decode(owner, current[0])
		if err := fn(&value); err != nil {
			return nil, err
		}
		raw, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("marshal %s: %w", d.feature, err)
		}
		updated = value
		return [][]byte{raw}, nil
	})
	if err != nil {
		var empty T
		return empty, err
	}

	d.docs.changed(owner, d.feature, revisions[0], updated)
	return updated, nil
}

func (d *Document[T]) decode(owner string, raw []byte) T {
	if len(raw) == 0 {
		return d.newDefault()
	}
	var value T
	if err := json.Unmarshal(raw, &value); err != nil {
		log.Errorf("corrupted %s document of [%s], using the default: %s", d.feature, owner, err)
		return d.newDefault()
	}
	return value
}

// UpdatePair updates two documents of the same owner in one read-modify-write.
// Both documents must be backed by the same store.
func UpdatePair[A, B any](
	ctx context.Context,
	first *Document[A],
	second *Document[B],
	owner string,
	fn func(a *A, b *B) error,
) (A, B, error) {
	var (
		updatedA A
		updatedB B
	)
	keys := []string{Key(first.feature, owner), Key(second.feature, owner)}
	revisions, err := first.docs.store.Update(ctx, keys, func(current [][]byte) ([][]byte, error) {
		a := first.decode(owner, current[0])
		b := second.decode(owner, current[1])
		if err := fn(&a, &b); err != nil {
			return nil, err
		}
		rawA, err := json.Marshal(a)
		if err != nil {
			return nil, fmt.Errorf("marshal %s: %w", first.feature, err)
		}
		rawB, err := json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("marshal %s: %w", second.feature, err)
		}
		updatedA, updatedB = a, b
		return [][]byte{rawA, rawB}, nil
	})
	if err != nil {
		var (
			emptyA A
			emptyB B
		)
		return emptyA, emptyB, err
	}

	first.docs.changed(owner, first.feature, revisions[0], updatedA)
	second.docs.changed(owner, second.feature, revisions[1], updatedB)
	return updatedA, updatedB, nil
}
