package id3

// MaxHeaderSize is the largest value the 28-bit header size field can hold.
const MaxHeaderSize = 1<<28 - 1

// DecodeHeaderSize decodes the synchsafe size field of the 10-byte tag
// header. Only the low 7 bits of each byte are significant.
func DecodeHeaderSize(b [4]byte) uint32 {
	return uint32(b[0]&0x7F)<<21 |
		uint32(b[1]&0x7F)<<14 |
		uint32(b[2]&0x7F)<<7 |
		uint32(b[3]&0x7F)
}

// EncodeHeaderSize is the inverse of DecodeHeaderSize. Bits above 28 are
// dropped.
func EncodeHeaderSize(n uint32) [4]byte {
	return [4]byte{
		byte(n>>21) & 0x7F,
		byte(n>>14) & 0x7F,
		byte(n>>7) & 0x7F,
		byte(n) & 0x7F,
	}
}

// DecodeFrameSize decodes a frame size field. Frame sizes use all 8 bits of
// every byte, unlike the header size.
func DecodeFrameSize(b [4]byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

// EncodeFrameSize is the inverse of DecodeFrameSize.
func EncodeFrameSize(n uint32) [4]byte {
	return [4]byte{byte(n >> 24), byte(n >> 16), byte(n >> 8), byte(n)}
}
