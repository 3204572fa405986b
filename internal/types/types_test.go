package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewID_GeneratesValidUUID(t *testing.T) {
	id := NewID()
	require.NoError(t, id.Validate())
	assert.False(t, id.IsZero())
}

func TestNewID_Unique(t *testing.T) {
	seen := make(map[ID]bool)
	for i := 0; i < 100; i++ {
		id := NewID()
		assert.False(t, seen[id], "duplicate ID generated: %s", id)
		seen[id] = true
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid uuid", "550e8400-e29b-41d4-a716-446655440000", false},
		{"empty string", "", true},
		{"not a uuid", "definitely-not-a-uuid", true},
		{"truncated", "550e8400-e29b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := ParseID(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.input, id.String())
		})
	}
}

func TestConciergeError_Format(t *testing.T) {
	err := NewError(DB_QUERY_FAILED, "query failed")
	assert.Equal(t, "[DB_QUERY_FAILED] query failed", err.Error())

	wrapped := WrapError(DB_OPEN_FAILED, "open failed", fmt.Errorf("disk full"))
	assert.Equal(t, "[DB_OPEN_FAILED] open failed: disk full", wrapped.Error())
}

func TestConciergeError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("underlying")
	err := WrapError(CONFIG_LOAD_FAILED, "load failed", cause)

	assert.Equal(t, cause, errors.Unwrap(err))
}

func TestConciergeError_IsMatchesByCode(t *testing.T) {
	err := WrapError(SESSION_NOT_FOUND, "no such session", fmt.Errorf("sql: no rows"))
	target := NewError(SESSION_NOT_FOUND, "different message")

	assert.True(t, errors.Is(err, target))
	assert.False(t, errors.Is(err, NewError(SESSION_INVALID, "x")))
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(NewRetryableError(DB_QUERY_FAILED, "busy")))
	assert.False(t, IsRetryable(NewError(DB_QUERY_FAILED, "syntax error")))
	assert.False(t, IsRetryable(fmt.Errorf("plain error")))

	// Retryability survives wrapping with %w.
	wrapped := fmt.Errorf("outer: %w", NewRetryableError(DB_QUERY_FAILED, "busy"))
	assert.True(t, IsRetryable(wrapped))
}

func TestHealthStatus(t *testing.T) {
	h := Healthy("all good")
	assert.True(t, h.IsHealthy())
	assert.Equal(t, HealthStateHealthy, h.State)
	assert.False(t, h.CheckedAt.IsZero())

	assert.Equal(t, HealthStateDegraded, Degraded("partial").State)
	assert.Equal(t, HealthStateUnhealthy, Unhealthy("down").State)
}

func TestHealthState_UnmarshalRejectsInvalid(t *testing.T) {
	var s HealthState
	err := s.UnmarshalJSON([]byte(`"sideways"`))
	assert.Error(t, err)
}
