package common

import (
	"encoding/binary"
)

// Uint64ToBytes converts a uint64 to a byte slice in big-endian order
func Uint64ToBytes(num uint64) []byte {
	const uint64ByteSize = 8

	bytes := make([]byte, uint64ByteSize)
	binary.BigEndian.PutUint64(bytes, num)

	return bytes
}

// BytesToUint64 converts a byte slice to a uint64
func BytesToUint64(bytes []byte) uint64 {
	return binary.BigEndian.Uint64(bytes)
}

// Uint32ToBytes converts a uint32 to a byte slice in big-endian order
func Uint32ToBytes(num uint32) []byte {
	const uint32ByteSize = 4

	key := make([]byte, uint32ByteSize)
	binary.BigEndian.PutUint32(key, num)

	return key
}

// BytesToUint32 converts a byte slice to a uint32
func BytesToUint32(bytes []byte) uint32 {
	return binary.BigEndian.Uint32(bytes)
}

// Int32ToBytes converts an int32 to its 4-byte big-endian two's-complement
// representation. This is the canonical leaf serialization used for hashing.
func Int32ToBytes(num int32) []byte {
	return Uint32ToBytes(uint32(num))
}

// BytesToInt32 converts a 4-byte big-endian two's-complement representation
// back to an int32
func BytesToInt32(bytes []byte) int32 {
	return int32(BytesToUint32(bytes))
}
