package protocol

// CRC-32 parameters of the command record: MSB-first, no reflection,
// no final xor (CRC-32/MPEG-2).
const (
	CRC32Polynomial   = 0x04C11DB7
	CRC32InitialValue = 0xFFFFFFFF
)

var crc32Table = makeCRC32Table()

func makeCRC32Table() (t [256]uint32) {
	for i := range t {
		crc := uint32(i) << 24
		for b := 0; b < 8; b++ {
			if crc&0x80000000 != 0 {
				crc = crc<<1 ^ CRC32Polynomial
			} else {
				crc <<= 1
			}
		}
		t[i] = crc
	}
	return t
}

// CRC32Update feeds data into a running checksum.
func CRC32Update(crc uint32, data []byte) uint32 {
	for _, b := range data {
		crc = crc<<8 ^ crc32Table[byte(crc>>24)^b]
	}
	return crc
}

// CRC32 calculates the checksum used by the boot command record.
func CRC32(data []byte) uint32 {
	return CRC32Update(CRC32InitialValue, data)
}
