package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hashed := HashPassword("corn ice cream")

	t.Run("good password", func(t *testing.T) {
		ok, err := CheckPassword("corn ice cream", hashed)
		require.Nil(t, err)
		assert.True(t, ok)
	})
	t.Run("bad password", func(t *testing.T) {
		ok, err := CheckPassword("corn ice cream :(", hashed)
		require.Nil(t, err)
		assert.False(t, ok)
	})
}

func TestPasswordStringRoundtrip(t *testing.T) {
	hashed := HashPassword("hunter2")
	parsed, err := ParsePasswordString(hashed.String())
	require.Nil(t, err)
	assert.Equal(t, hashed, parsed)

	_, err = ParsePasswordString("pbkdf2_sha256$260000$whatever$whatever")
	assert.NotNil(t, err)
}

func TestMakeSessionId(t *testing.T) {
	assert.Len(t, makeSessionId(), 40)
	assert.NotEqual(t, makeSessionId(), makeSessionId())
}
