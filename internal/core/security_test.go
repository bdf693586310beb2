// AngelaMos | 2026
// security_test.go

package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))

	valid, err := VerifyPassword("correct horse battery staple", hash)
	require.NoError(t, err)
	assert.True(t, valid)

	valid, err = VerifyPassword("wrong password", hash)
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestHashPasswordUniqueSalts(t *testing.T) {
	first, err := HashPassword("same input")
	require.NoError(t, err)
	second, err := HashPassword("same input")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	cases := []struct {
		name string
		hash string
	}{
		{"empty", ""},
		{"wrong segment count", "$argon2id$v=19$m=65536"},
		{"wrong algorithm", "$bcrypt$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA"},
		{"bad salt encoding", "$argon2id$v=19$m=65536,t=1,p=4$!!!!$aGFzaA"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := VerifyPassword("anything", tc.hash)
			assert.Error(t, err)
		})
	}
}

func TestVerifyPasswordTimingSafe(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)

	t.Run("matching password", func(t *testing.T) {
		valid, err := VerifyPasswordTimingSafe("hunter2", &hash)
		require.NoError(t, err)
		assert.True(t, valid)
	})

	t.Run("wrong password", func(t *testing.T) {
		valid, err := VerifyPasswordTimingSafe("hunter3", &hash)
		require.NoError(t, err)
		assert.False(t, valid)
	})

	// An unknown account burns the same hashing cost but always fails.
	t.Run("absent hash", func(t *testing.T) {
		valid, err := VerifyPasswordTimingSafe("hunter2", nil)
		require.NoError(t, err)
		assert.False(t, valid)
	})

	t.Run("empty hash", func(t *testing.T) {
		empty := ""
		valid, err := VerifyPasswordTimingSafe("hunter2", &empty)
		require.NoError(t, err)
		assert.False(t, valid)
	})
}

func TestBodySignatureRoundTrip(t *testing.T) {
	secret := []byte("relay-secret")
	body := []byte(`{"price":4.5,"product":"coffee"}`)

	header := EncodeSignatureHeader(secret, body)
	assert.True(t, strings.HasPrefix(header, SignaturePrefix))
	assert.True(t, VerifyBodySignature(secret, body, header))
}

func TestVerifyBodySignatureRejections(t *testing.T) {
	secret := []byte("relay-secret")
	body := []byte(`{"price":4.5,"product":"coffee"}`)
	header := EncodeSignatureHeader(secret, body)

	t.Run("mutated body", func(t *testing.T) {
		mutated := append([]byte(nil), body...)
		mutated[0] ^= 0x01
		assert.False(t, VerifyBodySignature(secret, mutated, header))
	})

	t.Run("wrong secret", func(t *testing.T) {
		assert.False(t, VerifyBodySignature([]byte("other"), body, header))
	})

	t.Run("missing prefix", func(t *testing.T) {
		bare := SignBody(secret, body)
		assert.False(t, VerifyBodySignature(secret, body, bare))
	})

	t.Run("empty header", func(t *testing.T) {
		assert.False(t, VerifyBodySignature(secret, body, ""))
	})

	t.Run("truncated digest", func(t *testing.T) {
		assert.False(t, VerifyBodySignature(secret, body, header[:len(header)-2]))
	})
}

func TestSignBodyEmptyBody(t *testing.T) {
	secret := []byte("relay-secret")
	header := EncodeSignatureHeader(secret, nil)
	assert.True(t, VerifyBodySignature(secret, []byte{}, header))
}
