package core

import (
	"errors"
	"fmt"
)

var (
	// ErrNoItem is returned when the host has no open message
	ErrNoItem = errors.New("no message is open")
	// ErrReplyUnsupported is returned by hosts that cannot compose replies
	ErrReplyUnsupported = errors.New("reply composition is not supported by the host")
	// ErrHostTimeout is returned when a host call exceeds its deadline
	ErrHostTimeout = errors.New("host call timed out")
)

// BodyTypeError is returned when the body content type cannot be determined
type BodyTypeError struct {
	Err error
}

func (e *BodyTypeError) Error() string {
	return fmt.Sprintf("failed to get body type: %v", e.Err)
}

func (e *BodyTypeError) Unwrap() error { return e.Err }

// BodyRetrievalError is returned when the body content cannot be read
type BodyRetrievalError struct {
	Err error
}

func (e *BodyRetrievalError) Error() string {
	return fmt.Sprintf("failed to get body: %v", e.Err)
}

func (e *BodyRetrievalError) Unwrap() error { return e.Err }
