// Package uuid generates UUID v7 identifiers.
// v7 IDs sort by creation time, which keeps the invocation log index append-only.
package uuid

import (
	"fmt"
	"math/rand"
	"time"
)

// UUID is a 128-bit UUID v7 identifier.
type UUID [16]byte

// NewV7 generates a UUID v7 (draft-ietf-uuidrev-rfc4122bis):
// 48 bits of millisecond UNIX timestamp, then version/variant bits,
// with the remainder filled from math/rand.
func NewV7() UUID {
	now := time.Now().UnixMilli()

	var id UUID

	// Timestamp, bytes 0-5.
	id[0] = byte(now >> 40)
	id[1] = byte(now >> 32)
	id[2] = byte(now >> 24)
	id[3] = byte(now >> 16)
	id[4] = byte(now >> 8)
	id[5] = byte(now)

	random := rand.Uint64()

	// Version nibble 0b0111 in byte 6.
	id[6] = 0x70 | byte((random>>56)&0x0f)

	// RFC 4122 variant 0b10 in byte 7.
	id[7] = 0x80 | byte((random>>48)&0x3f)
	id[8] = byte(random >> 40)
	id[9] = byte(random >> 32)
	id[10] = byte(random >> 24)
	id[11] = byte(random >> 16)
	id[12] = byte(random >> 8)
	id[13] = byte(random)

	id[14] = byte(rand.Intn(256))
	id[15] = byte(rand.Intn(256))

	return id
}

// String formats the UUID as xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx.
func (u UUID) String() string {
	return fmt.Sprintf("%08x-%04x-%04x-%04x-%012x",
		u[0:4],
		u[4:6],
		u[6:8],
		u[8:10],
		u[10:16],
	)
}
