package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripBearer(t *testing.T) {
	tests := []struct {
		header string
		want   string
		err    error
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi", nil},
		{"bearer abc", "abc", nil},
		{"  Bearer   abc  ", "abc", nil},
		{"", "", ErrMissingBearer},
		{"Bearer", "", ErrMissingBearer},
		{"Bearer    ", "", ErrMissingBearer},
		{"Basic dXNlcjpwYXNz", "", ErrMissingBearer},
		{"abc.def.ghi", "", ErrMissingBearer},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			got, err := StripBearer(tt.header)
			assert.Equal(t, tt.want, got)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			assert.NoError(t, err)
		})
	}
}
