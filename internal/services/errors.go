package services

import (
	"errors"
	"fmt"
)

// ErrorKind groups service errors so transports can map them to responses.
type ErrorKind int

const (
	KindInvalid ErrorKind = iota + 1
	KindEmpty
	KindStorage
)

var (
	// ErrInvalidInput is the parent of every validation failure.
	ErrInvalidInput = errors.New("invalid input")
	// ErrMissingContact flags a submission without name or email.
	ErrMissingContact = fmt.Errorf("%w: name and email required", ErrInvalidInput)
	// ErrInvalidScore flags a score outside [0, 10].
	ErrInvalidScore = fmt.Errorf("%w: score must be between %d and %d", ErrInvalidInput, MinScore, MaxScore)
	// ErrEmptyDataset is returned when an aggregate is requested over zero responses.
	ErrEmptyDataset = errors.New("no responses recorded")
	// ErrStorage wraps any failure of the backing store.
	ErrStorage = errors.New("storage failure")
	// ErrCorruptRecord marks a stored row that cannot be decoded.
	ErrCorruptRecord = fmt.Errorf("%w: corrupt record", ErrStorage)
)

// ServiceError carries a kind and a message that is safe to show to users.
type ServiceError struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *ServiceError) Error() string {
	if e.Err != nil && e.Msg != "" {
		return e.Msg + ": " + e.Err.Error()
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Msg
}

func (e *ServiceError) Unwrap() error { return e.Err }

// Is lets errors.Is match a ServiceError against the kind sentinels.
func (e *ServiceError) Is(target error) bool {
	switch target {
	case ErrInvalidInput:
		return e.Kind == KindInvalid
	case ErrEmptyDataset:
		return e.Kind == KindEmpty
	case ErrStorage:
		return e.Kind == KindStorage
	}
	return false
}

func NewInvalidError(msg string) error {
	return &ServiceError{Kind: KindInvalid, Msg: msg}
}

func NewStorageError(op string, err error) error {
	return &ServiceError{Kind: KindStorage, Msg: op, Err: err}
}

// KindOf reports the kind of err, or 0 when it is not a known service error.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrInvalidInput):
		return KindInvalid
	case errors.Is(err, ErrEmptyDataset):
		return KindEmpty
	case errors.Is(err, ErrStorage):
		return KindStorage
	}
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Kind
	}
	return 0
}
