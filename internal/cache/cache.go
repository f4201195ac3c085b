// Package cache persists decoded PCM keyed by file identity, so reloading
// a multi-hour recording skips the decode. Identity covers name, size,
// modify time and a content prefix; a re-exported file with the same name
// gets a fresh entry.
package cache

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gigsplit/gigsplit/internal/audio"
)

// identityPrefixBytes is how much of the file's head goes into the
// identity hash. Enough to catch a retagged or re-rendered file without
// reading gigabytes.
const identityPrefixBytes = 256 * 1024

// Cache stores decoded buffers by identity. The engine treats it as an
// external collaborator: a miss just means a fresh decode.
type Cache interface {
	Lookup(identity string) (*audio.Buffer, bool)
	Store(identity string, buf *audio.Buffer) error
}

// Identity computes the cache key for an audio file.
func Identity(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("cache identity: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("cache identity: %w", err)
	}

	h := sha256.New()
	h.Write([]byte(filepath.Base(path)))
	binary.Write(h, binary.LittleEndian, info.Size())
	binary.Write(h, binary.LittleEndian, info.ModTime().UnixNano())

	if _, err := io.Copy(h, io.LimitReader(f, identityPrefixBytes)); err != nil {
		return "", fmt.Errorf("cache identity: %w", err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
