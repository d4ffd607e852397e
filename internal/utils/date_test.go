package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "plain date", input: "2024-01-01", want: "2024-01-01"},
		{name: "surrounding space", input: " 2024-02-29 ", want: "2024-02-29"},
		{name: "timestamp", input: "2024-01-01T23:59:59Z", want: "2024-01-01"},
		{name: "empty", input: "", wantErr: true},
		{name: "wrong layout", input: "01/02/2024", wantErr: true},
		{name: "impossible day", input: "2023-02-29", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeDate(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
