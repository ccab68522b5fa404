package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync/atomic"

	"github.com/yourusername/warehouse-client/internal/domain/apierr"
	"github.com/yourusername/warehouse-client/internal/domain/entity"
)

const opFetch = "fetch"

func opUpdate(id entity.ID) string { return "update:" + id.String() }
func opDelete(id entity.ID) string { return "delete:" + id.String() }

// CollectionStore is the client-side authoritative cache of one backend
// collection. Only its own operations write the sequence; readers get
// copies.
type CollectionStore[T any] struct {
	name    string
	id      func(T) entity.ID
	lc      *lifecycle[[]T]
	creates atomic.Uint64
	logger  *slog.Logger
}

func newCollectionStore[T any](name string, id func(T) entity.ID, logger *slog.Logger) *CollectionStore[T] {
	if logger == nil {
		logger = slog.Default()
	}
	lc := newLifecycle[[]T](nil, func(v []T) []T { return slices.Clone(v) })
	// a fetch issued before a mutation settled may predate it
	lc.invalidates = func(op string) []string {
		if op == opFetch {
			return nil
		}
		return []string{opFetch}
	}
	return &CollectionStore[T]{
		name:   name,
		id:     id,
		lc:     lc,
		logger: logger.With("store", name),
	}
}

// Snapshot returns the current state.
func (s *CollectionStore[T]) Snapshot() entity.RequestState[[]T] {
	return s.lc.snapshot()
}

// Subscribe delivers the current snapshot and then one per transition.
func (s *CollectionStore[T]) Subscribe() *Subscription[[]T] {
	return s.lc.subscribe()
}

// ClearError acknowledges a shown failure.
func (s *CollectionStore[T]) ClearError() {
	s.lc.clearError()
}

// Close tears the store down; in-flight completions are ignored.
func (s *CollectionStore[T]) Close() {
	s.lc.close()
}

// Find returns the cached record with id.
func (s *CollectionStore[T]) Find(id entity.ID) (T, bool) {
	snap := s.lc.snapshot()
	for _, v := range snap.Data {
		if s.id(v) == id {
			return v, true
		}
	}
	var zero T
	return zero, false
}

func (s *CollectionStore[T]) fetch(ctx context.Context, list func(context.Context) ([]T, error)) error {
	_, err := run(ctx, s.lc, opFetch, apierr.RequestFallback, list, func(_ []T, items []T) []T {
		return s.dedupe(items)
	})
	s.logResult("fetch", err)
	return err
}

func (s *CollectionStore[T]) create(ctx context.Context, invalid *apierr.Error, call func(context.Context) (*T, error)) (*T, error) {
	op := fmt.Sprintf("create#%d", s.creates.Add(1))
	if invalid != nil {
		s.logResult("create", invalid)
		return nil, rejectLocal(s.lc, op, invalid)
	}
	rec, err := run(ctx, s.lc, op, apierr.DefaultFallback, call, s.upsert)
	s.logResult("create", err)
	return rec, err
}

func (s *CollectionStore[T]) update(ctx context.Context, id entity.ID, invalid *apierr.Error, call func(context.Context) (*T, error)) (*T, error) {
	if invalid != nil {
		s.logResult("update", invalid)
		return nil, rejectLocal(s.lc, opUpdate(id), invalid)
	}
	rec, err := run(ctx, s.lc, opUpdate(id), apierr.DefaultFallback, call, s.upsert)
	s.logResult("update", err, "id", id)
	return rec, err
}

func (s *CollectionStore[T]) remove(ctx context.Context, id entity.ID, call func(context.Context, entity.ID) error) error {
	_, err := run(ctx, s.lc, opDelete(id), apierr.DefaultFallback,
		func(ctx context.Context) (entity.ID, error) { return id, call(ctx, id) },
		s.without,
	)
	s.logResult("delete", err, "id", id)
	return err
}

// upsert replaces the record sharing rec's id, or appends it. A nil rec
// means the backend echoed nothing and the cache is left alone.
func (s *CollectionStore[T]) upsert(items []T, rec *T) []T {
	if rec == nil {
		return items
	}
	id := s.id(*rec)
	out := slices.Clone(items)
	for i := range out {
		if s.id(out[i]) == id {
			out[i] = *rec
			return out
		}
	}
	return append(out, *rec)
}

func (s *CollectionStore[T]) without(items []T, id entity.ID) []T {
	return slices.DeleteFunc(slices.Clone(items), func(v T) bool { return s.id(v) == id })
}

// dedupe keeps backend order and the first record of any repeated id.
func (s *CollectionStore[T]) dedupe(items []T) []T {
	seen := make(map[entity.ID]struct{}, len(items))
	out := make([]T, 0, len(items))
	for _, v := range items {
		id := s.id(v)
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, v)
	}
	return out
}

func (s *CollectionStore[T]) logResult(op string, err error, args ...any) {
	switch {
	case err == nil:
		s.logger.Debug(s.name+"_"+op+"_succeeded", args...)
	case errors.Is(err, ErrSuperseded), errors.Is(err, ErrCanceled):
		s.logger.Debug(s.name+"_"+op+"_discarded", append(args, "reason", err)...)
	default:
		s.logger.Warn(s.name+"_"+op+"_failed", append(args, "error", apierr.Message(err))...)
	}
}
