package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	key := []byte("0123456789abcdef")

	encrypted, err := Encrypt("12345678-00-99887766", key)
	require.NoError(t, err)
	assert.NotEqual(t, "12345678-00-99887766", encrypted)

	decrypted, err := Decrypt(encrypted, key)
	require.NoError(t, err)
	assert.Equal(t, "12345678-00-99887766", decrypted)
}

func TestEncryptRejectsBadKey(t *testing.T) {
	_, err := Encrypt("data", []byte("short"))
	require.Error(t, err)

	_, err = Encrypt("", []byte("0123456789abcdef"))
	require.Error(t, err)
}

func TestDecryptRejectsGarbage(t *testing.T) {
	key := []byte("0123456789abcdef")

	_, err := Decrypt("not-hex", key)
	require.Error(t, err)

	_, err = Decrypt("abcd", key)
	require.Error(t, err)
}

func TestHMACVerify(t *testing.T) {
	tag := GenerateHMAC("12345678", "secret")

	assert.True(t, VerifyHMAC("12345678", tag, "secret"))
	assert.False(t, VerifyHMAC("87654321", tag, "secret"))
	assert.False(t, VerifyHMAC("12345678", tag, "other-secret"))
}
