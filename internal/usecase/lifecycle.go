package usecase

import (
	"context"
	"errors"
	"sync"

	"github.com/yourusername/warehouse-client/internal/domain/apierr"
	"github.com/yourusername/warehouse-client/internal/domain/entity"
)

var (
	// ErrSuperseded is returned when a newer call for the same operation
	// was issued before this one settled; its result was discarded.
	ErrSuperseded = errors.New("request superseded")
	// ErrCanceled is returned when the caller's context ended before the
	// call settled; its result was discarded.
	ErrCanceled = errors.New("request canceled")
	// ErrClosed is returned by operations on a closed store.
	ErrClosed = errors.New("store closed")
)

// Subscription delivers snapshots of a store. C holds at most one pending
// snapshot; a slow reader only ever sees the latest.
type Subscription[T any] struct {
	C <-chan entity.RequestState[T]

	ch     chan entity.RequestState[T]
	cancel func()
	once   sync.Once
}

// Close stops delivery and closes C.
func (s *Subscription[T]) Close() {
	s.once.Do(s.cancel)
}

// offer replaces any undelivered snapshot with snap. Callers hold the
// lifecycle lock, so there is never a second sender.
func (s *Subscription[T]) offer(snap entity.RequestState[T]) {
	select {
	case <-s.ch:
	default:
	}
	s.ch <- snap
}

// lifecycle is the request state machine shared by every store. Each
// in-flight logical operation holds a generation drawn from one counter;
// only the latest issued call of an operation may settle. Entries are
// dropped once settled, so the map only holds calls still in flight.
type lifecycle[T any] struct {
	mu     sync.Mutex
	state  entity.RequestState[T]
	seq    uint64
	gens   map[string]uint64
	subs   map[*Subscription[T]]struct{}
	clone  func(T) T
	closed bool

	// invalidates names the operations made stale when op succeeds
	invalidates func(op string) []string
}

func newLifecycle[T any](initial T, clone func(T) T) *lifecycle[T] {
	if clone == nil {
		clone = func(v T) T { return v }
	}
	return &lifecycle[T]{
		state: entity.RequestState[T]{Status: entity.StatusIdle, Data: initial},
		gens:  make(map[string]uint64),
		subs:  make(map[*Subscription[T]]struct{}),
		clone: clone,
	}
}

func (l *lifecycle[T]) snapshotLocked() entity.RequestState[T] {
	snap := l.state
	snap.Data = l.clone(l.state.Data)
	return snap
}

func (l *lifecycle[T]) emitLocked() {
	l.state.Revision++
	snap := l.snapshotLocked()
	for sub := range l.subs {
		sub.offer(snap)
	}
}

func (l *lifecycle[T]) snapshot() entity.RequestState[T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshotLocked()
}

// begin moves to pending, clears any previous error and returns the
// generation the caller must present when settling.
func (l *lifecycle[T]) begin(op string) (uint64, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return 0, false
	}
	l.seq++
	l.gens[op] = l.seq
	l.state.Status = entity.StatusPending
	l.state.Err = nil
	l.emitLocked()
	return l.seq, true
}

// settleLocked reports whether gen is still the live call of op, and if so
// retires it.
func (l *lifecycle[T]) settleLocked(op string, gen uint64) bool {
	if l.closed || l.gens[op] != gen {
		return false
	}
	delete(l.gens, op)
	return true
}

func (l *lifecycle[T]) succeed(op string, gen uint64, reconcile func(T) T) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.settleLocked(op, gen) {
		return false
	}
	l.state.Status = entity.StatusSucceeded
	l.state.Err = nil
	if reconcile != nil {
		l.state.Data = reconcile(l.state.Data)
	}
	if l.invalidates != nil {
		for _, stale := range l.invalidates(op) {
			delete(l.gens, stale)
		}
	}
	l.emitLocked()
	return true
}

func (l *lifecycle[T]) fail(op string, gen uint64, err *apierr.Error) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.settleLocked(op, gen) {
		return false
	}
	l.state.Status = entity.StatusFailed
	l.state.Err = err
	l.emitLocked()
	return true
}

// abandon drops a call whose caller went away. The store returns to idle
// only when no other call is still in flight.
func (l *lifecycle[T]) abandon(op string, gen uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.settleLocked(op, gen) {
		return
	}
	if l.state.Status == entity.StatusPending && len(l.gens) == 0 {
		l.state.Status = entity.StatusIdle
		l.emitLocked()
	}
}

// invalidate makes every in-flight call of ops stale.
func (l *lifecycle[T]) invalidate(ops ...string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, op := range ops {
		delete(l.gens, op)
	}
}

// replace settles a local-only transition, such as logout, that never
// reaches the backend.
func (l *lifecycle[T]) replace(status entity.Status, update func(T) T) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return false
	}
	l.state.Status = status
	l.state.Err = nil
	if update != nil {
		l.state.Data = update(l.state.Data)
	}
	l.emitLocked()
	return true
}

// clearError acknowledges a displayed failure so it is not shown again.
func (l *lifecycle[T]) clearError() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state.Status != entity.StatusFailed {
		return
	}
	l.state.Status = entity.StatusIdle
	l.state.Err = nil
	l.emitLocked()
}

func (l *lifecycle[T]) subscribe() *Subscription[T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	ch := make(chan entity.RequestState[T], 1)
	sub := &Subscription[T]{C: ch, ch: ch}
	sub.cancel = func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		if _, ok := l.subs[sub]; ok {
			delete(l.subs, sub)
			close(ch)
		}
	}
	if l.closed {
		close(ch)
		return sub
	}
	l.subs[sub] = struct{}{}
	ch <- l.snapshotLocked()
	return sub
}

// close discards every later completion and ends all subscriptions.
func (l *lifecycle[T]) close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.closed = true
	for sub := range l.subs {
		delete(l.subs, sub)
		close(sub.ch)
	}
}

// run drives one backend call through the lifecycle of op. Failures are
// normalized with fallback, recorded, and returned.
func run[T, R any](
	ctx context.Context,
	l *lifecycle[T],
	op string,
	fallback string,
	call func(context.Context) (R, error),
	reconcile func(T, R) T,
) (R, error) {
	var zero R
	gen, ok := l.begin(op)
	if !ok {
		return zero, ErrClosed
	}

	res, err := call(ctx)
	if ctx.Err() != nil {
		l.abandon(op, gen)
		return zero, ErrCanceled
	}
	if err != nil {
		nerr := apierr.NormalizeWith(err, fallback)
		if !l.fail(op, gen, nerr) {
			return zero, ErrSuperseded
		}
		return zero, nerr
	}

	var apply func(T) T
	if reconcile != nil {
		apply = func(data T) T { return reconcile(data, res) }
	}
	if !l.succeed(op, gen, apply) {
		return zero, ErrSuperseded
	}
	return res, nil
}

// rejectLocal records a failure that happened before any backend call, such
// as client-side validation.
func rejectLocal[T any](l *lifecycle[T], op string, err *apierr.Error) error {
	gen, ok := l.begin(op)
	if !ok {
		return ErrClosed
	}
	l.fail(op, gen, err)
	return err
}
