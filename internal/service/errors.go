package service

import (
	"errors"
	"fmt"
)

// Kind classifies a Catalog failure so the HTTP layer can pick a response
// without inspecting driver errors.
type Kind int

const (
	// KindPersistence covers any store failure: constraint violations,
	// lost connections, failed commits.
	KindPersistence Kind = iota
	// KindNotFound means the requested venue or artist does not exist.
	KindNotFound
	// KindInvalid means the input was rejected before reaching the store.
	KindInvalid
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindInvalid:
		return "invalid"
	default:
		return "persistence"
	}
}

// Error is returned by every Catalog operation that fails.
type Error struct {
	Op   string // e.g. "create venue"
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf reports the Kind carried by err, or KindPersistence when err is not
// a *Error.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindPersistence
}

// IsNotFound reports whether err means a missing venue or artist.
func IsNotFound(err error) bool {
	return err != nil && KindOf(err) == KindNotFound
}

func fail(op string, kind Kind, err error) error {
	return &Error{Op: op, Kind: kind, Err: err}
}
