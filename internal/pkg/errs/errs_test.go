package errs_test

import (
	"errors"
	"fmt"
	"testing"

	"orderwizard/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectNotFoundError(t *testing.T) {
	t.Run("NewObjectNotFoundError", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("clientId", "123")

		assert.Equal(t, "clientId", err.ParamName)
		assert.Equal(t, "123", err.ID)
		require.NoError(t, err.Cause)
		assert.Equal(t, "object not found: 123", err.Error())
		assert.Equal(t, errs.ErrObjectNotFound, err.Unwrap())
	})

	t.Run("NewObjectNotFoundErrorWithCause", func(t *testing.T) {
		cause := errors.New("branch directory returned 404")
		err := errs.NewObjectNotFoundErrorWithCause("branchId", "123", cause)

		assert.Equal(t, cause, err.Cause)
		assert.Equal(t,
			"object not found: param is: branchId, ID is: 123 (cause: branch directory returned 404)",
			err.Error())
	})

	t.Run("Error with different ID types", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("itemId", 456)
		assert.Equal(t, "object not found: %!s(int=456)", err.Error())
	})
}

func TestValueIsInvalidError(t *testing.T) {
	t.Run("NewValueIsInvalidError", func(t *testing.T) {
		err := errs.NewValueIsInvalidError("phone")

		assert.Equal(t, "phone", err.ParamName)
		require.NoError(t, err.Cause)
		assert.Equal(t, "value is invalid: phone", err.Error())
		assert.Equal(t, errs.ErrValueIsInvalid, err.Unwrap())
	})

	t.Run("NewValueIsInvalidErrorWithCause", func(t *testing.T) {
		cause := errors.New("invalid format")
		err := errs.NewValueIsInvalidErrorWithCause("phone", cause)

		assert.Equal(t, "value is invalid: phone (cause: invalid format)", err.Error())
	})
}

func TestValueIsOutOfRangeError(t *testing.T) {
	t.Run("NewValueIsOutOfRangeError", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("wearPercentage", 150, 0, 100)

		assert.Equal(t, "wearPercentage", err.ParamName)
		assert.Equal(t, 150, err.Value)
		assert.Equal(t, 0, err.Min)
		assert.Equal(t, 100, err.Max)
		assert.Equal(t, "value is invalid: 150 is wearPercentage, min value is 0, max value is 100", err.Error())
		assert.Equal(t, errs.ErrValueIsOutOfRange, err.Unwrap())
	})

	t.Run("NewValueIsOutOfRangeErrorWithCause", func(t *testing.T) {
		cause := errors.New("exceeds total")
		err := errs.NewValueIsOutOfRangeErrorWithCause("prepaymentAmount", 400, 0, 300, cause)

		assert.Equal(t,
			"value is invalid: 400 is prepaymentAmount, min value is 0, max value is 300 (cause: exceeds total)",
			err.Error())
	})

	t.Run("newlines are flattened", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("notes", "hello\nworld", 0, 10)
		assert.Contains(t, err.Error(), "hello world")
		assert.NotContains(t, err.Error(), "\n")
	})
}

func TestValueIsRequiredError(t *testing.T) {
	err := errs.NewValueIsRequiredError("lastName")
	assert.Equal(t, "value is required: lastName", err.Error())
	assert.Equal(t, errs.ErrValueIsRequired, err.Unwrap())

	withCause := errs.NewValueIsRequiredErrorWithCause("lastName", errors.New("blank"))
	assert.Equal(t, "value is required: lastName (cause: blank)", withCause.Error())
}

func TestRemoteUnavailableError(t *testing.T) {
	err := errs.NewRemoteUnavailableError("pricing.calculate", errors.New("connection refused"))

	assert.Equal(t, "remote service unavailable: pricing.calculate (cause: connection refused)", err.Error())
	require.ErrorIs(t, err, errs.ErrRemoteUnavailable)
	assert.False(t, errs.IsValidation(err))
}

func TestConflictError(t *testing.T) {
	err := errs.NewConflictError("phone", "+380501112233")

	assert.Equal(t, "conflict: phone +380501112233 already exists", err.Error())
	require.ErrorIs(t, err, errs.ErrConflict)

	field, ok := errs.FieldOf(fmt.Errorf("create client: %w", err))
	require.True(t, ok)
	assert.Equal(t, "phone", field)
}

func TestFatalSessionError(t *testing.T) {
	err := errs.NewFatalSessionError("abc", "expired")
	assert.Equal(t, "wizard session is not usable: abc: expired", err.Error())
	require.ErrorIs(t, err, errs.ErrFatalSession)

	assert.Equal(t, "wizard session is not usable: missing", errs.NewFatalSessionError("", "missing").Error())
}

func TestIsValidationAndFieldOf(t *testing.T) {
	testCases := []struct {
		name  string
		err   error
		field string
	}{
		{"invalid", errs.NewValueIsInvalidError("color"), "color"},
		{"required", errs.NewValueIsRequiredError("category"), "category"},
		{"range", errs.NewValueIsOutOfRangeError("quantity", 0, 1, 999), "quantity"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			wrapped := fmt.Errorf("step: %w", tc.err)
			assert.True(t, errs.IsValidation(wrapped))

			field, ok := errs.FieldOf(wrapped)
			require.True(t, ok)
			assert.Equal(t, tc.field, field)
		})
	}

	_, ok := errs.FieldOf(errors.New("plain"))
	assert.False(t, ok)
}
