// Package provider holds what the external-service adapters share: the
// ExternalServiceFailure error and a JSON-over-HTTP client.
package provider

import (
	"errors"
	"fmt"
)

// ErrExternal marks a failed call to an external communication, calendar or
// analytics service.
var ErrExternal = errors.New("external service failure")

// Error attributes a failure to the provider that produced it.
type Error struct {
	Provider string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is makes every provider Error match ErrExternal.
func (e *Error) Is(target error) bool { return target == ErrExternal }

// Wrap attributes err to name. A nil err stays nil.
func Wrap(name string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Provider: name, Err: err}
}

// Call runs fn and turns a panic into an error so one misbehaving adapter
// cannot take down its siblings.
func Call(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}
