package seed_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/johnwards/caseseed/internal/provider"
	"github.com/johnwards/caseseed/internal/seed"
	"github.com/johnwards/caseseed/internal/store"
	"github.com/johnwards/caseseed/internal/validate"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		want  seed.Kind
		fatal bool
	}{
		{"nil", nil, seed.KindNone, false},
		{"validation", fmt.Errorf("user: %w", validate.Fail("email", "x", "email address")), seed.KindValidation, false},
		{"duplicate", fmt.Errorf("insert: %w", store.ErrDuplicate), seed.KindDuplicate, false},
		{"referenced", store.ErrReferenced, seed.KindReferenced, false},
		{"external", provider.Wrap("sendgrid", errors.New("401")), seed.KindExternal, false},
		{"missing dependency", &seed.MissingDependencyError{Stage: seed.StageCases, Prerequisite: seed.StageUsers}, seed.KindMissingDependency, true},
		{"store unavailable", fmt.Errorf("lookup users: %w", store.ErrUnavailable), seed.KindStoreUnavailable, true},
		{"unavailable wins", fmt.Errorf("%w: %w", store.ErrDuplicate, store.ErrUnavailable), seed.KindStoreUnavailable, true},
		{"canceled", fmt.Errorf("select users: %w", context.Canceled), seed.KindCanceled, true},
		{"deadline", fmt.Errorf("insert cases: %w", context.DeadlineExceeded), seed.KindCanceled, true},
		{"unknown", errors.New("boom"), seed.KindUnknown, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := seed.KindOf(tt.err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.fatal, got.Fatal())
		})
	}
}

func TestMissingDependencyMessage(t *testing.T) {
	err := &seed.MissingDependencyError{Stage: seed.StageCases, Prerequisite: seed.StageUsers}
	assert.Equal(t, "cannot seed cases: no usable users", err.Error())
}
