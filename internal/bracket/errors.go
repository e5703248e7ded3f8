package bracket

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound = errors.New("not found")

	ErrEmptyName          = errors.New("name must not be empty")
	ErrDuplicateName      = errors.New("name already exists")
	ErrDuplicateID        = errors.New("participant id already exists")
	ErrInvalidSeed        = errors.New("seed must be a positive integer")
	ErrTooFewParticipants = errors.New("at least 2 participants are required")
	ErrEmptySelection     = errors.New("no participants selected")

	ErrNegativeScore      = errors.New("score must not be negative")
	ErrTiedScore          = errors.New("score must not be tied")
	ErrWinnerMismatch     = errors.New("winner does not match score")
	ErrMatchNotPlayable   = errors.New("match does not have two participants")
	ErrNotBye             = errors.New("match is not a bye")
	ErrUnknownBracketType = errors.New("unknown bracket type")

	ErrMissingField = errors.New("missing required field")
)

// ValidationError reports bad input. Names carries the offending values when the
// check is over a list, such as duplicated participant names in a bulk add.
type ValidationError struct {
	Msg   string
	Names []string
	Err   error
}

func (e *ValidationError) Error() string {
	msg := e.Msg
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if len(e.Names) > 0 {
		msg += ": " + strings.Join(e.Names, ", ")
	}
	return msg
}

func (e *ValidationError) Unwrap() error { return e.Err }

func invalid(err error, names ...string) error {
	return &ValidationError{Err: err, Names: names}
}

func invalidf(err error, format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...), Err: err}
}

// FormatError reports a serialized bracket that cannot be decoded.
type FormatError struct {
	Msg string
	Err error
}

func (e *FormatError) Error() string {
	if e.Err == nil {
		return "invalid bracket format: " + e.Msg
	}
	if e.Msg == "" {
		return "invalid bracket format: " + e.Err.Error()
	}
	return fmt.Sprintf("invalid bracket format: %s: %v", e.Msg, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

// StorageError reports a failure of the durable store.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsFormat(err error) bool {
	var f *FormatError
	return errors.As(err, &f)
}

func IsStorage(err error) bool {
	var s *StorageError
	return errors.As(err, &s)
}
