package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSecret(t *testing.T) {
	a, err := GenerateSecret(32)
	assert.NoError(t, err)
	assert.Len(t, a, 64)

	b, err := GenerateSecret(32)
	assert.NoError(t, err)
	assert.NotEqual(t, a, b)
}
