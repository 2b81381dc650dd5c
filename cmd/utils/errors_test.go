package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("workout 1: %w", ErrNotFound), http.StatusNotFound},
		{ErrForbidden, http.StatusForbidden},
		{fmt.Errorf("like: %w", ErrConflict), http.StatusConflict},
		{NewValidationError("sets", "must be at least 1"), http.StatusBadRequest},
		{ErrUnauthorized, http.StatusUnauthorized},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusCode(tt.err), tt.err.Error())
	}
}

func TestWriteErrorHidesInternalErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	status := WriteError(rec, errors.New("pq: password authentication failed"))

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.JSONEq(t, `{"error":"Internal Server Error"}`, rec.Body.String())
}

func TestWriteErrorEchoesTaxonomyErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, NewValidationError("content", "is required"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "content: is required", body["error"])
}

func TestDecodeJSON(t *testing.T) {
	var v struct {
		Name string `json:"name"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"squat"}`))
	require.NoError(t, DecodeJSON(req, &v))
	assert.Equal(t, "squat", v.Name)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))
	assert.ErrorIs(t, DecodeJSON(req, &v), ErrValidation)
}
