package apperr_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"project-launchpad/internal/apperr"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

func TestRead(t *testing.T) {
	t.Run("NoRows_IsNotFoundOnly", func(t *testing.T) {
		err := apperr.Read("students", sql.ErrNoRows)

		assert.ErrorIs(t, err, apperr.ErrNotFound)
		assert.NotErrorIs(t, err, apperr.ErrRemoteRead)
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})

	t.Run("Timeout_IsRemoteRead", func(t *testing.T) {
		err := apperr.Read("companies", fmt.Errorf("query: %w", context.DeadlineExceeded))

		assert.ErrorIs(t, err, apperr.ErrRemoteRead)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Contains(t, err.Error(), "timed out")
	})

	t.Run("Nil", func(t *testing.T) {
		assert.NoError(t, apperr.Read("companies", nil))
	})
}

func TestWrite(t *testing.T) {
	t.Run("GenericFailure_IsRemoteWrite", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := apperr.Write("insert", "projects", cause)

		assert.ErrorIs(t, err, apperr.ErrRemoteWrite)
		assert.ErrorIs(t, err, cause)
		assert.NotErrorIs(t, err, apperr.ErrNotFound)
		assert.Equal(t, "remote write failed: insert projects: connection reset", err.Error())
	})

	t.Run("UpdateMatchedNoRow_IsRemoteWriteAndNotFound", func(t *testing.T) {
		err := apperr.Write("update", "students", sql.ErrNoRows)

		assert.ErrorIs(t, err, apperr.ErrRemoteWrite)
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("Timeout_IsRemoteWrite", func(t *testing.T) {
		err := apperr.Write("insert", "applications", context.DeadlineExceeded)

		assert.ErrorIs(t, err, apperr.ErrRemoteWrite)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestValidation(t *testing.T) {
	err := apperr.Validation("graduation_year", "must be a whole number, got %q", "abc")

	assert.ErrorIs(t, err, apperr.ErrValidation)

	var appErr *apperr.Error
	if assert.ErrorAs(t, err, &appErr) {
		assert.Equal(t, "graduation_year", appErr.Field)
	}
	assert.Equal(t, `validation failed: field graduation_year: must be a whole number, got "abc"`, err.Error())
}

func TestStruct(t *testing.T) {
	type input struct {
		Name  string `validate:"required"`
		Email string `validate:"required,email"`
	}
	validate := validator.New()

	t.Run("Valid", func(t *testing.T) {
		assert.NoError(t, apperr.Struct(validate, input{Name: "Ana", Email: "ana@u.edu"}))
	})

	t.Run("ReportsFirstFailingField", func(t *testing.T) {
		err := apperr.Struct(validate, input{Name: "Ana", Email: "not-an-email"})

		assert.ErrorIs(t, err, apperr.ErrValidation)
		var appErr *apperr.Error
		if assert.ErrorAs(t, err, &appErr) {
			assert.Equal(t, "Email", appErr.Field)
		}
		assert.Equal(t, "validation failed: field Email: failed email", err.Error())
	})
}
