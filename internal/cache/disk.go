package cache

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gigsplit/gigsplit/internal/audio"
)

const (
	magicNumber    = "GSPC"
	currentVersion = uint16(1)
	entryHeaderLen = 4 + 2 + 4 + 4 + 8
	entryExt       = ".pcm"
)

var (
	// ErrInvalidMagic marks a cache entry that is not ours.
	ErrInvalidMagic = errors.New("cache: invalid magic number")
	// ErrUnsupportedVersion marks an entry written by an incompatible build.
	ErrUnsupportedVersion = errors.New("cache: unsupported version")
	// ErrCorruptedEntry marks a truncated or mangled entry.
	ErrCorruptedEntry = errors.New("cache: corrupted entry")
)

// Disk is a directory-backed cache. Each entry is one file named by
// identity: a small header followed by the raw little-endian float32
// samples. Total size is bounded; storing past the bound evicts the
// oldest entries first.
type Disk struct {
	dir      string
	maxBytes int64
}

// NewDisk creates the cache directory if needed. maxBytes <= 0 disables
// the size bound.
func NewDisk(dir string, maxBytes int64) (*Disk, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cache: %w", err)
	}
	return &Disk{dir: dir, maxBytes: maxBytes}, nil
}

// Lookup loads the entry for identity. A corrupt or incompatible entry is
// removed and reported as a miss so the caller falls back to a fresh
// decode; the cache never surfaces an error for a bad entry.
func (d *Disk) Lookup(identity string) (*audio.Buffer, bool) {
	path := d.entryPath(identity)

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	buf, err := decodeEntry(raw)
	if err != nil {
		os.Remove(path)
		return nil, false
	}

	// Freshen the mtime so eviction treats this entry as recently used.
	now := time.Now()
	os.Chtimes(path, now, now)

	return buf, true
}

// Store writes the buffer under identity and then enforces the size
// bound. The entry is written to a temp file first so a crash mid-write
// never leaves a half entry under a valid name.
func (d *Disk) Store(identity string, buf *audio.Buffer) error {
	if err := buf.Validate(); err != nil {
		return err
	}

	raw := encodeEntry(buf)

	tmp, err := os.CreateTemp(d.dir, "entry-*")
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("cache: %w", err)
	}
	if err := os.Rename(tmp.Name(), d.entryPath(identity)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("cache: %w", err)
	}

	d.evict(identity)
	return nil
}

// evict removes the oldest entries until the directory fits the bound.
// The entry named keep survives even when it alone exceeds the bound;
// evicting what we just stored would make the cache useless for the one
// file the user is working on.
func (d *Disk) evict(keep string) {
	if d.maxBytes <= 0 {
		return
	}

	type entry struct {
		path    string
		size    int64
		modTime time.Time
	}

	dirents, err := os.ReadDir(d.dir)
	if err != nil {
		return
	}

	var entries []entry
	var total int64
	for _, de := range dirents {
		if de.IsDir() || filepath.Ext(de.Name()) != entryExt {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		entries = append(entries, entry{
			path:    filepath.Join(d.dir, de.Name()),
			size:    info.Size(),
			modTime: info.ModTime(),
		})
		total += info.Size()
	}

	if total <= d.maxBytes {
		return
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].modTime.Before(entries[j].modTime)
	})

	keepPath := d.entryPath(keep)
	for _, e := range entries {
		if total <= d.maxBytes {
			break
		}
		if e.path == keepPath {
			continue
		}
		if err := os.Remove(e.path); err == nil {
			total -= e.size
		}
	}
}

func (d *Disk) entryPath(identity string) string {
	return filepath.Join(d.dir, identity+entryExt)
}

// encodeEntry serializes a buffer: magic, version, sample rate, channel
// count, sample count, then the samples as little-endian float32 bits.
func encodeEntry(buf *audio.Buffer) []byte {
	out := make([]byte, entryHeaderLen+4*len(buf.Data))

	copy(out[0:4], magicNumber)
	binary.LittleEndian.PutUint16(out[4:6], currentVersion)
	binary.LittleEndian.PutUint32(out[6:10], uint32(buf.SampleRate))
	binary.LittleEndian.PutUint32(out[10:14], uint32(buf.Channels))
	binary.LittleEndian.PutUint64(out[14:22], uint64(len(buf.Data)))

	at := entryHeaderLen
	for _, s := range buf.Data {
		binary.LittleEndian.PutUint32(out[at:at+4], math.Float32bits(s))
		at += 4
	}
	return out
}

func decodeEntry(raw []byte) (*audio.Buffer, error) {
	if len(raw) < entryHeaderLen {
		return nil, ErrCorruptedEntry
	}
	if string(raw[0:4]) != magicNumber {
		return nil, ErrInvalidMagic
	}
	if v := binary.LittleEndian.Uint16(raw[4:6]); v != currentVersion {
		return nil, fmt.Errorf("%w: got version %d, expected %d", ErrUnsupportedVersion, v, currentVersion)
	}

	sampleRate := int(binary.LittleEndian.Uint32(raw[6:10]))
	channels := int(binary.LittleEndian.Uint32(raw[10:14]))
	count := binary.LittleEndian.Uint64(raw[14:22])

	if uint64(len(raw)-entryHeaderLen) != count*4 {
		return nil, ErrCorruptedEntry
	}

	data := make([]float32, count)
	at := entryHeaderLen
	for i := range data {
		data[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[at : at+4]))
		at += 4
	}

	buf := &audio.Buffer{Data: data, SampleRate: sampleRate, Channels: channels}
	if err := buf.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptedEntry, err)
	}
	return buf, nil
}
