package pkg

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRoomCode(t *testing.T) {
	t.Run("Codes use only the unambiguous alphabet", func(t *testing.T) {
		code, err := GenerateRoomCode()

		require.NoError(t, err)
		require.Len(t, code, roomCodeLength)
		for _, r := range code {
			assert.True(t, strings.ContainsRune(roomCodeAlphabet, r), "unexpected character %q", r)
		}
	})

	t.Run("Consecutive codes are distinct", func(t *testing.T) {
		seen := make(map[string]bool)

		for i := 0; i < 100; i++ {
			code, err := GenerateRoomCode()
			require.NoError(t, err)
			require.False(t, seen[code], "duplicate code %s", code)
			seen[code] = true
		}
	})
}

func TestGenerateConnectionID(t *testing.T) {
	first := GenerateConnectionID()
	second := GenerateConnectionID()

	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)
}
