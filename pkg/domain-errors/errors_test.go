package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodedErrors(t *testing.T) {
	t.Run("HasCode sees through fmt wrapping", func(t *testing.T) {
		err := fmt.Errorf("outer: %w", New(CodeAlreadySeparated, "separated"))
		assert.True(t, HasCode(err, CodeAlreadySeparated))
		assert.False(t, HasCode(err, CodeInternal))
	})

	t.Run("Wrap keeps the cause reachable", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := Wrap(cause, CodeUnavailable, "resolver down")
		require.ErrorIs(t, err, cause)
		assert.Equal(t, CodeUnavailable, CodeOf(err))
	})

	t.Run("Wrap of nil is nil", func(t *testing.T) {
		assert.NoError(t, Wrap(nil, CodeInternal, "noop"))
	})

	t.Run("errors.Is matches code with empty target message", func(t *testing.T) {
		err := New(CodeInsufficientAmount, "payment 0.001 below cost 0.01")
		require.ErrorIs(t, err, &Error{Code: CodeInsufficientAmount})
		assert.NotErrorIs(t, err, &Error{Code: CodeInsufficientAmount, Message: "other"})
	})

	t.Run("uncoded errors are internal", func(t *testing.T) {
		assert.Equal(t, CodeInternal, CodeOf(errors.New("boom")))
		assert.False(t, HasCode(nil, CodeInternal))
	})
}

func TestCategoryOf(t *testing.T) {
	cases := map[Code]Category{
		CodeInvalidResponse:       CategoryValidation,
		CodeUnauthorized:          CategoryAuthorization,
		CodeNotProposer:           CategoryAuthorization,
		CodeInsufficientAmount:    CategoryEconomic,
		CodeAlreadyResponded:      CategoryStateConflict,
		CodeSenderPendingProposal: CategoryStateConflict,
		CodeReceiverHasNoName:     CategoryExternal,
		CodeTransferFailed:        CategoryExternal,
		CodeRateLimited:           CategoryRateLimit,
		Code("something_else"):    CategoryInternal,
	}
	for code, want := range cases {
		assert.Equal(t, want, CategoryOf(code), string(code))
	}
}
