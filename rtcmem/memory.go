package rtcmem

import "sync"

// Memory is a RAM-backed Backend. Handing the same Memory to a fresh Store
// models a reboot: everything else is rebuilt, the words survive.
type Memory struct {
	mu    sync.Mutex
	words [Slots]uint32
}

// NewMemory returns zeroed memory, which reads back as entirely absent.
func NewMemory() *Memory { return &Memory{} }

func (m *Memory) ReadWord(slot int) uint32 {
	if slot < 0 || slot > MaxSlot {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.words[slot]
}

func (m *Memory) WriteWord(slot int, word uint32) {
	if slot < 0 || slot > MaxSlot {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.words[slot] = word
}

// Words returns a copy of the raw contents.
func (m *Memory) Words() [Slots]uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.words
}

// Load replaces the raw contents.
func (m *Memory) Load(words [Slots]uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.words = words
}
