package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caseiq/models"
)

func TestValidEmail(t *testing.T) {
	assert.True(t, validEmail("analyst@example.com"))
	assert.True(t, validEmail("first.last+tag@sub.example.org"))
	assert.False(t, validEmail("no-at-sign"))
	assert.False(t, validEmail("missing@tld"))
	assert.False(t, validEmail("@example.com"))
	assert.False(t, validEmail(""))
}

func TestValidPassword(t *testing.T) {
	assert.True(t, validPassword("Str0ng!pass"))
	assert.False(t, validPassword("Sh0r!t"), "too short")
	assert.False(t, validPassword("alllower1!"), "no upper")
	assert.False(t, validPassword("ALLUPPER1!"), "no lower")
	assert.False(t, validPassword("NoDigits!!"), "no digit")
	assert.False(t, validPassword("NoSpecial1"), "no special")
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := hashPassword("Str0ng!pass")
	require.NoError(t, err)
	assert.True(t, checkPassword(hash, "Str0ng!pass"))
	assert.False(t, checkPassword(hash, "Wr0ng!pass"))
}

func TestTokenRoundTrip(t *testing.T) {
	cfg = Config{JWTSecret: []byte("test-secret"), TokenTTL: time.Minute}

	token, err := mintToken(models.User{Email: "analyst@example.com"})
	require.NoError(t, err)

	sub, err := parseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "analyst@example.com", sub)

	_, err = parseToken(token + "tampered")
	assert.Error(t, err)
}

func TestExpiredTokenRejected(t *testing.T) {
	cfg = Config{JWTSecret: []byte("test-secret"), TokenTTL: -time.Minute}

	token, err := mintToken(models.User{Email: "analyst@example.com"})
	require.NoError(t, err)

	_, err = parseToken(token)
	assert.Error(t, err)
}
