package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorageRefRoundTrip(t *testing.T) {
	key := StorageKey("my/weird key.txt")
	ref := EncodeStorageRef(key)

	decoded, err := ref.Decode()
	require.NoError(t, err)
	assert.Equal(t, key, decoded)
}

func TestStorageRefIsLowercase(t *testing.T) {
	ref := EncodeStorageRef(StorageKey("anything"))
	assert.Equal(t, ref.String(), string(ref))
	for _, r := range ref.String() {
		assert.False(t, r >= 'A' && r <= 'Z', "storage ref must be lower-cased")
	}
}

func TestStorageRefMalformedInput(t *testing.T) {
	_, err := StorageRef("not valid base32 !!!").Decode()
	assert.Error(t, err)
}

func TestStorageRefEmptyKey(t *testing.T) {
	ref := EncodeStorageRef(StorageKey(""))
	decoded, err := ref.Decode()
	require.NoError(t, err)
	assert.Equal(t, StorageKey(""), decoded)
}
