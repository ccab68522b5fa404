package entity

import "github.com/yourusername/warehouse-client/internal/domain/apierr"

// Status is the lifecycle position of the latest request against a store.
type Status int

const (
	StatusIdle Status = iota
	StatusPending
	StatusSucceeded
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	default:
		return "idle"
	}
}

// RequestState is an immutable snapshot of a store. Err is set iff Status is
// StatusFailed. Revision grows with every emitted snapshot.
type RequestState[T any] struct {
	Status   Status
	Err      *apierr.Error
	Data     T
	Revision uint64
}

// Message returns the normalized error text, or "" when not failed.
func (s RequestState[T]) Message() string {
	if s.Err == nil {
		return ""
	}
	return s.Err.Message
}
