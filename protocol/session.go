package protocol

import (
	"encoding/binary"
	"fmt"
)

// Session is a snapshot of an established radio session. It is what the
// node persists after a negotiated join so that it can resume without a
// new handshake after deep sleep.
type Session struct {
	NetID     uint32
	DevAddr   uint32
	NwkSKey   [KeySize]byte
	AppSKey   [KeySize]byte
	SeqnoDown uint32
	SeqnoUp   uint32
}

// MarshalBinary encodes s in its durable layout.
func (s Session) MarshalBinary() ([]byte, error) {
	buf := make([]byte, SessionSize)
	binary.LittleEndian.PutUint32(buf[0:4], s.NetID)
	binary.LittleEndian.PutUint32(buf[4:8], s.DevAddr)
	copy(buf[8:24], s.NwkSKey[:])
	copy(buf[24:40], s.AppSKey[:])
	binary.LittleEndian.PutUint32(buf[40:44], s.SeqnoDown)
	binary.LittleEndian.PutUint32(buf[44:48], s.SeqnoUp)
	return buf, nil
}

// UnmarshalBinary decodes the durable layout into s.
func (s *Session) UnmarshalBinary(data []byte) error {
	if len(data) != SessionSize {
		return fmt.Errorf("%w: %d bytes, want %d", ErrInvalidSession, len(data), SessionSize)
	}
	s.NetID = binary.LittleEndian.Uint32(data[0:4])
	s.DevAddr = binary.LittleEndian.Uint32(data[4:8])
	copy(s.NwkSKey[:], data[8:24])
	copy(s.AppSKey[:], data[24:40])
	s.SeqnoDown = binary.LittleEndian.Uint32(data[40:44])
	s.SeqnoUp = binary.LittleEndian.Uint32(data[44:48])
	return nil
}
