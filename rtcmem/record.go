package rtcmem

import "encoding/binary"

// WriteRecord copies record into consecutive slots starting offset bytes
// into slot. Bytes are packed little-endian and partially covered words keep
// their other bytes. Records are not checksummed; callers guard them with a
// boot flag. It returns the number of bytes written, or 0 when the record
// does not fit in the region.
func (s *Store) WriteRecord(slot, offset int, record []byte) int {
	start, ok := recordBounds(slot, offset, len(record))
	if !ok {
		return 0
	}

	var chunk [WordSize]byte
	for i := 0; i < len(record); {
		addr := start + i
		word := addr / WordSize
		within := addr % WordSize

		binary.LittleEndian.PutUint32(chunk[:], s.backend.ReadWord(word))
		n := copy(chunk[within:], record[i:])
		s.backend.WriteWord(word, binary.LittleEndian.Uint32(chunk[:]))
		i += n
	}
	return len(record)
}

// ReadRecord fills record from consecutive slots starting offset bytes into
// slot. It returns the number of bytes read, or 0 when the record does not
// fit in the region.
func (s *Store) ReadRecord(slot, offset int, record []byte) int {
	start, ok := recordBounds(slot, offset, len(record))
	if !ok {
		return 0
	}

	var chunk [WordSize]byte
	for i := 0; i < len(record); {
		addr := start + i
		binary.LittleEndian.PutUint32(chunk[:], s.backend.ReadWord(addr/WordSize))
		i += copy(record[i:], chunk[addr%WordSize:])
	}
	return len(record)
}

func recordBounds(slot, offset, size int) (int, bool) {
	if !validSlot(slot) || offset < 0 || size <= 0 {
		return 0, false
	}
	start := slot*WordSize + offset
	if start+size > Slots*WordSize {
		return 0, false
	}
	return start, true
}
