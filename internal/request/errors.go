package request

import (
	"errors"
	"fmt"

	"github.com/contech-dc/contrack/internal/store"
)

var (
	// ErrNotFound is returned when a referenced identifier or project is
	// absent.
	ErrNotFound = errors.New("not found")

	// ErrInvalidCredentials is returned by Login for a bad username or
	// password.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError reports missing or invalid caller input. It is always
// raised before any mutating storage call.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// StorageError wraps a failure from the underlying document store.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return "storage: " + e.Op + ": " + e.Err.Error() }
func (e *StorageError) Unwrap() error { return e.Err }

// wrap classifies an error coming back out of a storage operation. Domain
// errors pass through; store-level not-found becomes ErrNotFound;
// everything else is a StorageError.
func wrap(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrInvalidCredentials), IsValidation(err):
		return err
	default:
		return &StorageError{Op: op, Err: err}
	}
}
