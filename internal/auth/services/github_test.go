package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateStateProducesUniqueURLSafeNonces(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 32; i++ {
		state, err := generateState()
		require.NoError(t, err)
		assert.Len(t, state, 43)
		assert.False(t, strings.ContainsAny(state, "+/="))
		assert.False(t, seen[state])
		seen[state] = true
	}
}

func TestStateKeyIsNamespaced(t *testing.T) {
	assert.Equal(t, "oauth:state:abc", stateKey("abc"))
}
