// Package tinycompress streams gzip images out of flash with a fixed
// footprint. DEFLATE decoding itself is done by compress/flate.
package tinycompress

import (
	"encoding/binary"
	"io"
)

// Gzip framing
const (
	GzipID1      = 0x1F
	GzipID2      = 0x8B
	GzipDeflate  = 8
	TrailerSize  = 8
	minGzipBytes = 10 + TrailerSize
)

// Header flag bits
const (
	flagText     = 1 << 0
	flagHCRC     = 1 << 1
	flagExtra    = 1 << 2
	flagName     = 1 << 3
	flagComment  = 1 << 4
	flagReserved = 0xE0
)

// Error is a decompression failure.
type Error string

func (e Error) Error() string { return string(e) }

var (
	ErrHeader = Error("gzip: invalid header")
	ErrStream = Error("gzip: corrupt stream")
)

// IsGzip reports whether the two peeked bytes carry the gzip magic.
func IsGzip(magic []byte) bool {
	return len(magic) >= 2 && magic[0] == GzipID1 && magic[1] == GzipID2
}

// Trailer is the fixed gzip member trailer.
type Trailer struct {
	CRC32 uint32 // CRC-32/IEEE of the uncompressed data
	Size  uint32 // uncompressed length mod 2^32
}

// ReadTrailer reads the trailer at the end of the compressed region
// [start, start+size).
func ReadTrailer(flash FlashReader, start, size uint32) (Trailer, error) {
	var b [TrailerSize]byte
	if size < minGzipBytes {
		return Trailer{}, ErrHeader
	}
	if err := flash.Read(start+size-TrailerSize, b[:]); err != nil {
		return Trailer{}, err
	}
	return Trailer{
		CRC32: binary.LittleEndian.Uint32(b[0:]),
		Size:  binary.LittleEndian.Uint32(b[4:]),
	}, nil
}

// skipHeader consumes a gzip member header from r. Optional fields are
// skipped, not interpreted.
func skipHeader(r io.ByteReader) error {
	var hdr [10]byte
	for i := range hdr {
		b, err := r.ReadByte()
		if err != nil {
			return err
		}
		hdr[i] = b
	}
	if hdr[0] != GzipID1 || hdr[1] != GzipID2 || hdr[2] != GzipDeflate {
		return ErrHeader
	}
	flags := hdr[3]
	if flags&flagReserved != 0 {
		return ErrHeader
	}
	if flags&flagExtra != 0 {
		lo, err := r.ReadByte()
		if err != nil {
			return err
		}
		hi, err := r.ReadByte()
		if err != nil {
			return err
		}
		for n := int(lo) | int(hi)<<8; n > 0; n-- {
			if _, err := r.ReadByte(); err != nil {
				return err
			}
		}
	}
	for _, f := range []byte{flagName, flagComment} {
		if flags&f == 0 {
			continue
		}
		for {
			b, err := r.ReadByte()
			if err != nil {
				return err
			}
			if b == 0 {
				break
			}
		}
	}
	if flags&flagHCRC != 0 {
		for i := 0; i < 2; i++ {
			if _, err := r.ReadByte(); err != nil {
				return err
			}
		}
	}
	return nil
}
