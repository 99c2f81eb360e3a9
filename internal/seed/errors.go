package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/johnwards/caseseed/internal/provider"
	"github.com/johnwards/caseseed/internal/store"
	"github.com/johnwards/caseseed/internal/validate"
)

// Kind classifies an error by how the seeder reacts to it.
type Kind int

const (
	KindNone Kind = iota
	KindValidation
	KindDuplicate
	KindReferenced
	KindExternal
	KindMissingDependency
	KindStoreUnavailable
	KindCanceled
	KindUnknown
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindValidation:
		return "validation"
	case KindDuplicate:
		return "duplicate"
	case KindReferenced:
		return "referenced"
	case KindExternal:
		return "external"
	case KindMissingDependency:
		return "missing_dependency"
	case KindStoreUnavailable:
		return "store_unavailable"
	case KindCanceled:
		return "canceled"
	}
	return "unknown"
}

// Fatal reports whether an error of this kind ends the run. Everything else
// is absorbed by skipping the item that produced it.
func (k Kind) Fatal() bool {
	return k == KindMissingDependency || k == KindStoreUnavailable || k == KindCanceled
}

// KindOf maps err onto the error taxonomy. The most severe kind wins when err
// wraps more than one.
func KindOf(err error) Kind {
	var (
		verr *validate.ValidationError
		merr *MissingDependencyError
	)
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCanceled
	case errors.Is(err, store.ErrUnavailable):
		return KindStoreUnavailable
	case errors.As(err, &merr):
		return KindMissingDependency
	case errors.As(err, &verr):
		return KindValidation
	case errors.Is(err, store.ErrDuplicate):
		return KindDuplicate
	case errors.Is(err, store.ErrReferenced):
		return KindReferenced
	case errors.Is(err, provider.ErrExternal):
		return KindExternal
	}
	return KindUnknown
}

// MissingDependencyError reports a stage that could not run because the stage
// it depends on produced nothing usable.
type MissingDependencyError struct {
	Stage        Stage
	Prerequisite Stage
}

func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("cannot seed %s: no usable %s", e.Stage, e.Prerequisite)
}
