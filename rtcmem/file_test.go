package rtcmem

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileMissingStartsBlank(t *testing.T) {
	f, err := OpenFile(filepath.Join(t.TempDir(), "rtc.cbor"))
	if err != nil {
		t.Fatalf("OpenFile() error = %v", err)
	}
	if f.Words() != [Slots]uint32{} {
		t.Fatal("missing snapshot should load as zeroed memory")
	}
}

func TestFileSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rtc.cbor")

	f, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile() error = %v", err)
	}
	s := New(f, nil)
	s.Setup(0xCAFE)
	s.Write(SlotReboots, 3)
	if err := f.Sync(); err != nil {
		t.Fatalf("Sync() error = %v", err)
	}

	reopened, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile() after sync error = %v", err)
	}
	s2 := New(reopened, nil)
	if s2.Setup(0xCAFE) {
		t.Fatal("identity lost across reopen")
	}
	if got := s2.Read(SlotReboots, 0); got != 3 {
		t.Fatalf("Read(reboots) = %d, want 3", got)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temporary snapshot left behind: %v", err)
	}
}

func TestFileRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rtc.cbor")
	if err := os.WriteFile(path, []byte{0xff, 0x00, 0x13}, 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := OpenFile(path); err == nil {
		t.Fatal("OpenFile() on garbage should fail")
	}
}
