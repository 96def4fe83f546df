package models

import (
	"errors"
	"fmt"
)

// Error codes reported by the seeder.
const (
	CodeConnection = "CONNECTION_ERROR"
	CodeLookup     = "LOOKUP_ERROR"
	CodeHash       = "HASH_ERROR"
	CodeInsertion  = "INSERTION_ERROR"
	CodeDuplicate  = "DUPLICATE_ERROR"
	CodeFixture    = "FIXTURE_ERROR"
)

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// HasCode reports whether any AppError in err's chain carries code.
func HasCode(err error, code string) bool {
	var appErr *AppError
	for err != nil {
		if !errors.As(err, &appErr) {
			return false
		}
		if appErr.Code == code {
			return true
		}
		err = appErr.Err
	}
	return false
}

// Predefined error constructors
func NewConnectionError(err error) *AppError {
	return &AppError{
		Code:    CodeConnection,
		Message: "failed to connect to database",
		Err:     err,
	}
}

func NewLookupError(email string, err error) *AppError {
	return &AppError{
		Code:    CodeLookup,
		Message: fmt.Sprintf("lookup of user %s failed", email),
		Err:     err,
	}
}

func NewHashError(email string, err error) *AppError {
	return &AppError{
		Code:    CodeHash,
		Message: fmt.Sprintf("hashing password for %s failed", email),
		Err:     err,
	}
}

func NewInsertionError(resource, key string, err error) *AppError {
	return &AppError{
		Code:    CodeInsertion,
		Message: fmt.Sprintf("insert %s %s failed", resource, key),
		Err:     err,
	}
}

func NewDuplicateError(resource, key string) *AppError {
	return &AppError{
		Code:    CodeDuplicate,
		Message: fmt.Sprintf("%s %s already exists", resource, key),
	}
}

// NewConflictError reports a unique clash on a field other than the
// resource's own key.
func NewConflictError(resource, key, field string) *AppError {
	return &AppError{
		Code:    CodeDuplicate,
		Message: fmt.Sprintf("%s %s: %s is already taken", resource, key, field),
	}
}

func NewFixtureError(message string) *AppError {
	return &AppError{
		Code:    CodeFixture,
		Message: message,
	}
}
