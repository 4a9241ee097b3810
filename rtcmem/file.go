package rtcmem

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fxamacker/cbor/v2"
)

// snapshotVersion identifies the on-disk layout of a File snapshot.
const snapshotVersion = 1

// snapshot is the on-disk form of a File. It is only ever serialized as
// CBOR.
type snapshot struct {
	Version int      `cbor:"version"`
	Words   []uint32 `cbor:"words"`
}

var encMode cbor.EncMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("rtcmem: CBOR encoder initialization failed: " + err.Error())
	}
}

// File is a Memory persisted to disk, used on hosts to emulate RTC memory
// surviving a process restart. Writes land in memory; Sync makes them
// durable.
type File struct {
	*Memory
	path string
}

// OpenFile loads the snapshot at path. A missing file yields zeroed memory.
// A snapshot with an unknown version or the wrong geometry is discarded the
// same way, as RTC memory would be after a full power loss.
func OpenFile(path string) (*File, error) {
	f := &File{Memory: NewMemory(), path: path}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return f, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading rtc snapshot %s: %w", path, err)
	}

	var snap snapshot
	if err := cbor.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parsing rtc snapshot %s: %w", path, err)
	}
	if snap.Version != snapshotVersion || len(snap.Words) != Slots {
		return f, nil
	}

	var words [Slots]uint32
	copy(words[:], snap.Words)
	f.Load(words)
	return f, nil
}

// Path returns the snapshot location.
func (f *File) Path() string { return f.path }

// Sync atomically writes the current contents to disk: temporary file,
// fsync, rename.
func (f *File) Sync() error {
	words := f.Words()
	data, err := encMode.Marshal(snapshot{Version: snapshotVersion, Words: words[:]})
	if err != nil {
		return fmt.Errorf("marshaling rtc snapshot: %w", err)
	}

	temporaryPath := f.path + ".tmp"
	file, err := os.OpenFile(temporaryPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("creating temporary rtc snapshot: %w", err)
	}
	if _, err := file.Write(data); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("writing temporary rtc snapshot: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("syncing temporary rtc snapshot: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("closing temporary rtc snapshot: %w", err)
	}
	if err := os.Rename(temporaryPath, f.path); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("renaming rtc snapshot into place: %w", err)
	}

	if dir, err := os.Open(filepath.Dir(f.path)); err == nil {
		dir.Sync()
		dir.Close()
	}
	return nil
}
