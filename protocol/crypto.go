package protocol

import (
	crand "crypto/rand"
	"encoding/binary"
	mrand "math/rand"
	"time"
)

// RandomKey returns a random session key. It is used by simulated networks
// to hand out session keys on join. If crypto/rand fails (rare on host),
// falls back to math/rand.
func RandomKey() [KeySize]byte {
	var k [KeySize]byte
	if _, err := crand.Read(k[:]); err == nil {
		return k
	}
	rng := mrand.New(mrand.NewSource(time.Now().UnixNano()))
	for i := range k {
		k[i] = byte(rng.Intn(256))
	}
	return k
}

// RandomDevAddr returns a random device address inside the given network.
// The top seven bits of an address carry the network id.
func RandomDevAddr(netID uint32) uint32 {
	var b [4]byte
	var n uint32
	if _, err := crand.Read(b[:]); err == nil {
		n = binary.LittleEndian.Uint32(b[:])
	} else {
		n = mrand.New(mrand.NewSource(time.Now().UnixNano())).Uint32()
	}
	return (netID&0x7f)<<25 | n&0x01ffffff
}
