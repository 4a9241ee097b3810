// Package checksum provides the small checksums used by the durable store
// and the firmware fingerprint.
package checksum

// CRC16CCITT is the default polynomial for CRC16.
const CRC16CCITT uint16 = 0x1021

// crc4Table is the nibble lookup table for polynomial 0b10111.
var crc4Table = [16]uint8{
	0x0, 0x7, 0xe, 0x9, 0xb, 0xc, 0x5, 0x2,
	0x1, 0x6, 0xf, 0x8, 0xa, 0xd, 0x4, 0x3,
}

// CRC4 returns the 4-bit CRC of the low `bits` bits of value, continuing
// from seed. Nibbles are consumed from the most significant one down and
// bits is rounded up to a multiple of four.
func CRC4(seed uint8, value uint32, bits int) uint8 {
	if bits <= 0 {
		return seed & 0xf
	}
	if bits < 32 {
		value &= (1 << uint(bits)) - 1
	} else {
		bits = 32
	}
	bits = (bits + 3) &^ 0x3

	c := seed & 0xf
	for i := bits - 4; i >= 0; i -= 4 {
		c = crc4Table[c^uint8((value>>uint(i))&0xf)]
	}
	return c
}

// CRC16 computes an MSB-first CRC-16 with a zero initial remainder.
func CRC16(data []byte, polynomial uint16) uint16 {
	var remainder uint16
	for _, b := range data {
		remainder ^= uint16(b) << 8
		for bit := 0; bit < 8; bit++ {
			if remainder&0x8000 != 0 {
				remainder = (remainder << 1) ^ polynomial
			} else {
				remainder <<= 1
			}
		}
	}
	return remainder
}
