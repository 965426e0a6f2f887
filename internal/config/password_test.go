package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPasswordConfig(t *testing.T) {
	t.Run("defaults cost to 12", func(t *testing.T) {
		t.Setenv("BCRYPT_COST", "")
		t.Setenv("PASSWORD_PEPPER", "")

		cfg, err := NewPasswordConfig()
		require.NoError(t, err)
		assert.Equal(t, 12, cfg.BcryptCost)
		assert.Empty(t, cfg.Pepper)
	})

	t.Run("cost out of range", func(t *testing.T) {
		for _, cost := range []string{"9", "15"} {
			t.Setenv("BCRYPT_COST", cost)
			_, err := NewPasswordConfig()
			assert.Error(t, err)
		}
	})

	t.Run("non-numeric cost", func(t *testing.T) {
		t.Setenv("BCRYPT_COST", "high")
		_, err := NewPasswordConfig()
		assert.Error(t, err)
	})
}

func TestHashAndVerifyPassword(t *testing.T) {
	// Minimum cost keeps the test fast.
	cfg := &PasswordConfig{BcryptCost: 10}

	hash, err := cfg.HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, cfg.VerifyPassword("correct horse battery staple", hash))
	assert.False(t, cfg.VerifyPassword("wrong password", hash))
}

func TestPasswordPepper(t *testing.T) {
	peppered := &PasswordConfig{BcryptCost: 10, Pepper: "global-secret"}
	plain := &PasswordConfig{BcryptCost: 10}

	hash, err := peppered.HashPassword("pw123456")
	require.NoError(t, err)

	assert.True(t, peppered.VerifyPassword("pw123456", hash))
	// Without the pepper the same password must not verify.
	assert.False(t, plain.VerifyPassword("pw123456", hash))
}
