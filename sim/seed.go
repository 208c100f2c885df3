package sim

import (
	"crypto/rand"
	"encoding/binary"
)

// RandomSeed returns a non-zero seed from the system's secure source.
func RandomSeed() int64 {
	var b [8]byte
	for {
		if _, err := rand.Read(b[:]); err != nil {
			panic(err)
		}
		// Clear the sign bit so seeds print as small positive numbers.
		if s := int64(binary.LittleEndian.Uint64(b[:]) >> 1); s != 0 {
			return s
		}
	}
}
