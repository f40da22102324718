package services

import (
	"errors"
	"fmt"

	"retrack-app/database"

	"gorm.io/gorm"
)

type ErrorKind int

const (
	KindNotFound ErrorKind = iota + 1
	KindInvalidState
	KindConflict
	KindValidation
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindInvalidState:
		return "invalid_state"
	case KindConflict:
		return "conflict"
	case KindValidation:
		return "validation"
	}
	return "unknown"
}

// Sentinels for errors.Is checks against a *Error of the same kind.
var (
	ErrNotFound     = &Error{Kind: KindNotFound}
	ErrInvalidState = &Error{Kind: KindInvalidState}
	ErrConflict     = &Error{Kind: KindConflict}
	ErrValidation   = &Error{Kind: KindValidation}
)

// Error is a domain failure with a message safe to show to clients.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.String()
	}
	return e.Message
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func notFound(format string, args ...interface{}) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func invalidState(format string, args ...interface{}) error {
	return &Error{Kind: KindInvalidState, Message: fmt.Sprintf(format, args...)}
}

func conflict(format string, args ...interface{}) error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func validation(format string, args ...interface{}) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// lookup converts gorm.ErrRecordNotFound into a NotFound error with msg and
// wraps anything else.
func lookup(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &Error{Kind: KindNotFound, Message: msg}
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// storeErr turns unique violations into Conflict errors.
func storeErr(err error, conflictMsg string) error {
	if database.IsDuplicateKey(err) {
		return &Error{Kind: KindConflict, Message: conflictMsg}
	}
	return err
}
