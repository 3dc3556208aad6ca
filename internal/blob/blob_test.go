package blob

import (
	"database/sql"
	"testing"

	_ "github.com/ncruces/go-sqlite3/driver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	_, err = db.Exec(`CREATE TABLE blobs (hash TEXT PRIMARY KEY, compressed_bytes BLOB NOT NULL, original_size INTEGER NOT NULL)`)
	require.NoError(t, err)
	return db
}

func TestCompressDecompressRoundTrip(t *testing.T) {
	raw := []byte("the quick brown fox jumps over the lazy dog, repeatedly, for compressibility")
	compressed, err := Compress(raw)
	require.NoError(t, err)

	decompressed, err := Decompress(compressed)
	require.NoError(t, err)
	assert.Equal(t, raw, decompressed)
}

func TestComputeHashIsSHA256OfRawBytes(t *testing.T) {
	raw := []byte("hello")
	// known SHA-256("hello") lower-hex digest
	assert.Equal(t, "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", ComputeHash(raw))
}

func TestPutIsInsertOrIgnore(t *testing.T) {
	db := openTestDB(t)
	raw := []byte("payload")
	hash := ComputeHash(raw)
	compressed, err := Compress(raw)
	require.NoError(t, err)

	require.NoError(t, Put(db, hash, compressed, len(raw)))
	// second write with the same hash but different bytes must be a no-op
	require.NoError(t, Put(db, hash, []byte("different"), 999))

	got, size, ok, err := Get(db, hash)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, compressed, got, "first writer for a hash wins")
	assert.Equal(t, len(raw), size)
}

func TestGetMissing(t *testing.T) {
	db := openTestDB(t)
	_, _, ok, err := Get(db, "deadbeef")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBlobHashCorrectness(t *testing.T) {
	db := openTestDB(t)
	raw := []byte("some storage payload with unicode: héllo wörld 世界")
	hash := ComputeHash(raw)
	compressed, err := Compress(raw)
	require.NoError(t, err)
	require.NoError(t, Put(db, hash, compressed, len(raw)))

	gotCompressed, _, ok, err := Get(db, hash)
	require.NoError(t, err)
	require.True(t, ok)

	decompressed, err := Decompress(gotCompressed)
	require.NoError(t, err)
	assert.Equal(t, hash, ComputeHash(decompressed), "sha256(decompress(blobs[hash])) must equal hash")
}
