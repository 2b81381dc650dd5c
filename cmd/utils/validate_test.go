package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string  `json:"name" validate:"required,max=5"`
	Count *int    `json:"count" validate:"omitempty,min=1"`
	Note  *string `json:"note"`
}

func TestValidate(t *testing.T) {
	zero, one := 0, 1

	tests := []struct {
		name    string
		in      sample
		field   string
		message string
	}{
		{name: "valid", in: sample{Name: "bench", Count: &one}},
		{name: "nil pointer skipped", in: sample{Name: "row"}},
		{name: "missing name", in: sample{}, field: "name", message: "is required"},
		{name: "too long", in: sample{Name: "deadlift"}, field: "name", message: "must be at most 5 characters"},
		{name: "explicit zero is checked", in: sample{Name: "dip", Count: &zero}, field: "count", message: "must be at least 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.in)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
			assert.Equal(t, tt.message, verr.Message)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestValidateCountsRunes(t *testing.T) {
	assert.NoError(t, Validate(sample{Name: strings.Repeat("é", 5)}))
	assert.Error(t, Validate(sample{Name: strings.Repeat("é", 6)}))
}
