package errors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToAppError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		code      string
		status    int
		wantField string
	}{
		{
			name:      "validation error keeps field",
			err:       NewValidationError("title", "title is required"),
			code:      CodeValidation,
			status:    http.StatusUnprocessableEntity,
			wantField: "title",
		},
		{
			name:      "wrapped validation error",
			err:       fmt.Errorf("create event: %w", NewValidationError("date", "date is invalid")),
			code:      CodeValidation,
			status:    http.StatusUnprocessableEntity,
			wantField: "date",
		},
		{
			name:      "reference error",
			err:       NewReferenceError("eventId", "event does not exist"),
			code:      CodeReference,
			status:    http.StatusUnprocessableEntity,
			wantField: "eventId",
		},
		{
			name:      "unique constraint",
			err:       &UniqueConstraintError{Collection: "Events", Field: "slug", Value: "go-meetup"},
			code:      CodeConflict,
			status:    http.StatusConflict,
			wantField: "slug",
		},
		{
			name:   "connect error",
			err:    &ConnectError{Err: errors.New("server selection timeout")},
			code:   CodeUnavailable,
			status: http.StatusServiceUnavailable,
		},
		{
			name:   "config error",
			err:    &ConfigError{Key: "MONGO_URI", Message: "not set"},
			code:   CodeConfig,
			status: http.StatusInternalServerError,
		},
		{
			name:   "deadline",
			err:    fmt.Errorf("find: %w", context.DeadlineExceeded),
			code:   CodeTimeout,
			status: http.StatusGatewayTimeout,
		},
		{
			name:   "app error passes through",
			err:    Conflict("exists"),
			code:   CodeConflict,
			status: http.StatusConflict,
		},
		{
			name:   "unknown error",
			err:    errors.New("boom"),
			code:   CodeInternal,
			status: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr := ToAppError(tt.err)
			require.NotNil(t, appErr)
			assert.Equal(t, tt.code, appErr.Code)
			assert.Equal(t, tt.status, appErr.StatusCode())
			if tt.wantField != "" {
				assert.Equal(t, tt.wantField, appErr.Details["field"])
			}
		})
	}

	assert.Nil(t, ToAppError(nil))
}

func TestConnectError_Unwrap(t *testing.T) {
	cause := errors.New("auth failed")
	err := &ConnectError{Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "auth failed")
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()

	err := WriteError(rec, NewValidationError("email", "email must be a valid address"))
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, CodeValidation, body.Code)
	assert.Equal(t, "email", body.Details["field"])
}

func TestIsClassified(t *testing.T) {
	assert.False(t, IsClassified(nil))
	assert.False(t, IsClassified(errors.New("plain")))

	assert.True(t, IsClassified(NotFound("Event")))
	assert.True(t, IsClassified(NewValidationError("title", "title is required")))
	assert.True(t, IsClassified(fmt.Errorf("wrapped: %w", NewReferenceError("eventId", "missing"))))
	assert.True(t, IsClassified(&UniqueConstraintError{Collection: "Events", Field: "slug"}))
	assert.True(t, IsClassified(&ConnectError{Err: errors.New("refused")}))
	assert.True(t, IsClassified(&ConfigError{Key: "MONGO_URI"}))
	assert.True(t, IsClassified(context.DeadlineExceeded))
}
