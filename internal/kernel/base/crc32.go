package base

// castagnoli is the reflected CRC-32C polynomial.
const castagnoli = 0x82F63B78

// Crc32c computes the CRC-32C (Castagnoli) checksum of data one bit at a
// time.
func Crc32c(data []byte) uint32 {
	crc := ^uint32(0)
	for _, b := range data {
		crc ^= uint32(b)
		for i := 0; i < 8; i++ {
			if crc&1 != 0 {
				crc = crc>>1 ^ castagnoli
			} else {
				crc >>= 1
			}
		}
	}
	return ^crc
}
