package value_objects_test

import (
	"testing"

	"github.com/felixgeelhaar/tasklane/internal/productivity/domain/value_objects"
	sharedDomain "github.com/felixgeelhaar/tasklane/internal/shared/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePriority(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected value_objects.Priority
		wantErr  bool
	}{
		{"low", "low", value_objects.PriorityLow, false},
		{"medium", "medium", value_objects.PriorityMedium, false},
		{"high", "high", value_objects.PriorityHigh, false},
		{"upper case", "HIGH", 0, true},
		{"urgent", "urgent", 0, true},
		{"empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := value_objects.ParsePriority(tt.input)

			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, value_objects.ErrInvalidPriority)
				assert.True(t, sharedDomain.IsValidation(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
			assert.Equal(t, tt.input, result.String())
		})
	}
}

func TestPriority_IsValid(t *testing.T) {
	for _, p := range value_objects.Priorities() {
		assert.True(t, p.IsValid(), p.String())
	}
	assert.False(t, value_objects.Priority(0).IsValid())
	assert.False(t, value_objects.Priority(4).IsValid())
	assert.Equal(t, "unknown", value_objects.Priority(9).String())
	assert.Equal(t, value_objects.PriorityMedium, value_objects.DefaultPriority)
}
