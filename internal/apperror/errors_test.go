package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindsSurviveWrapping(t *testing.T) {
	err := NotFoundf("session %s", "abc")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "abc")

	wrapped := fmt.Errorf("outer: %w", err)
	assert.ErrorIs(t, wrapped, ErrNotFound)
}

func TestStaleCartIsAConflict(t *testing.T) {
	assert.ErrorIs(t, ErrStaleCart, ErrConflict)
	assert.Equal(t, http.StatusConflict, HTTPStatus(ErrStaleCart))
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{NotFoundf("x"), http.StatusNotFound},
		{Conflictf("x"), http.StatusConflict},
		{InvalidStatef("x"), http.StatusUnprocessableEntity},
		{Validationf("x"), http.StatusBadRequest},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, HTTPStatus(tc.err))
	}
}
