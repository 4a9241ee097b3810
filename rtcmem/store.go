// Package rtcmem implements the checksum-guarded durable memory that
// survives deep sleep.
//
// The region is a fixed array of 32-bit slots. Verified slots carry a
// 28-bit value and a 4-bit CRC; a slot whose CRC does not match is treated
// as absent and reads back as the caller's default. Nothing in this package
// returns an error: durability is best effort and a lost value is
// indistinguishable from one that was never written.
package rtcmem

import (
	"log/slog"

	"github.com/ystepanoff/loranode/checksum"
)

// Seed is the CRC-4 starting value for verified slots. It is non-zero so
// that an all-zero word never verifies.
const Seed uint8 = 0xa

// Backend is the raw word storage behind a Store.
type Backend interface {
	ReadWord(slot int) uint32
	WriteWord(slot int, word uint32)
}

// Store is the verified view over a Backend.
type Store struct {
	backend Backend
	logger  *slog.Logger
}

// New wraps backend. A nil logger falls back to slog.Default().
func New(backend Backend, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		backend: backend,
		logger:  logger.With("component", "rtcmem"),
	}
}

// Encode packs value into a verified word.
func Encode(value uint32) uint32 {
	value &= PayloadMask
	return value<<4 | uint32(checksum.CRC4(Seed, value, PayloadBits))
}

// Decode unpacks a verified word. ok is false when the checksum does not
// match.
func Decode(word uint32) (value uint32, ok bool) {
	value = word >> 4
	if uint32(checksum.CRC4(Seed, value, PayloadBits)) != word&0xf {
		return 0, false
	}
	return value, true
}

func validSlot(slot int) bool { return slot >= 0 && slot <= MaxSlot }

// Read returns the verified value at slot, or def when the slot is absent,
// corrupted or out of range.
func (s *Store) Read(slot int, def uint32) uint32 {
	if !validSlot(slot) {
		return def
	}
	value, ok := Decode(s.backend.ReadWord(slot))
	if !ok {
		return def
	}
	return value
}

// Write stores value (masked to 28 bits) at slot with its checksum.
func (s *Store) Write(slot int, value uint32) {
	if !validSlot(slot) {
		return
	}
	s.backend.WriteWord(slot, Encode(value))
}

// FlagSet sets mask in the verified bitmask at slot.
func (s *Store) FlagSet(slot int, mask uint32) {
	s.Write(slot, s.Read(slot, 0)|mask)
}

// FlagUnset clears mask in the verified bitmask at slot.
func (s *Store) FlagUnset(slot int, mask uint32) {
	s.Write(slot, s.Read(slot, 0)&^mask)
}

// FlagGet returns the bits of mask that are set at slot.
func (s *Store) FlagGet(slot int, mask uint32) uint32 {
	return s.Read(slot, 0) & mask
}

// Invalidate zeroes slot so that it reads back as absent.
func (s *Store) Invalidate(slot int) {
	if !validSlot(slot) {
		return
	}
	s.backend.WriteWord(slot, 0)
}

// InvalidateAll zeroes every slot.
func (s *Store) InvalidateAll() {
	for slot := 0; slot < Slots; slot++ {
		s.backend.WriteWord(slot, 0)
	}
}

// Setup binds the durable region to the running firmware. When the stored
// identity differs from identity (or is absent) the whole region is
// invalidated before the new identity is written. It reports whether the
// region was invalidated.
func (s *Store) Setup(identity uint16) bool {
	// The default is outside the 16-bit range so an absent slot never
	// matches.
	stored := s.Read(SlotFirmwareID, PayloadMask)
	if stored == uint32(identity) {
		s.logger.Debug("firmware identity matches", "identity", identity)
		return false
	}

	s.logger.Info("firmware identity changed, invalidating durable memory",
		"stored", stored, "identity", identity)
	s.InvalidateAll()
	s.Write(SlotFirmwareID, uint32(identity))
	return true
}
