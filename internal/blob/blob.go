// Package blob implements the content-addressed, compressed binary blob
// store shared by every brain database: bytes are keyed by the
// hex-lowercase SHA-256 of their raw (uncompressed) content, compressed
// with zlib, and written with insert-or-ignore semantics so the first
// writer for a given hash wins.
package blob

import (
	"bytes"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

// ComputeHash returns the hex-lowercase SHA-256 digest of raw content.
// crypto/sha256 is the standard library's implementation; no third-party
// SHA-256 package appears anywhere in the example corpus, so there is
// nothing to ground a swap on here.
func ComputeHash(raw []byte) string {
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

// Compress zlib-deflates raw bytes at the default compression level.
// github.com/klauspost/compress/zlib is a drop-in, faster replacement for
// compress/zlib with an identical API, already pulled in by the example
// corpus (erigon, rakunlabs-at) for exactly this kind of payload
// compression.
func Compress(raw []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	if _, err := w.Write(raw); err != nil {
		return nil, fmt.Errorf("compress blob: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("compress blob: %w", err)
	}
	return buf.Bytes(), nil
}

// Decompress zlib-inflates previously compressed bytes.
func Decompress(compressed []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("decompress blob: %w", err)
	}
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("decompress blob: %w", err)
	}
	return out, nil
}

// Put writes a blob row with insert-or-ignore semantics: the first writer
// for a given hash wins, later writes with the same hash are no-ops. Must
// be called within the same transaction as the storage-set event it
// accompanies so that a failed transaction doesn't leave an orphan blob.
func Put(exec interface {
	Exec(query string, args ...any) (sql.Result, error)
}, hashHex string, compressed []byte, originalSize int) error {
	_, err := exec.Exec(
		`INSERT OR IGNORE INTO blobs (hash, compressed_bytes, original_size) VALUES (?, ?, ?)`,
		hashHex, compressed, originalSize,
	)
	if err != nil {
		return fmt.Errorf("put blob %s: %w", hashHex, err)
	}
	return nil
}

// Get reads a blob's compressed bytes and original size by hash.
func Get(query interface {
	QueryRow(query string, args ...any) *sql.Row
}, hashHex string) (compressed []byte, originalSize int, ok bool, err error) {
	row := query.QueryRow(`SELECT compressed_bytes, original_size FROM blobs WHERE hash = ?`, hashHex)
	err = row.Scan(&compressed, &originalSize)
	if err == sql.ErrNoRows {
		return nil, 0, false, nil
	}
	if err != nil {
		return nil, 0, false, fmt.Errorf("get blob %s: %w", hashHex, err)
	}
	return compressed, originalSize, true, nil
}
