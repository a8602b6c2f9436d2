package tinycompress

import (
	"compress/flate"
	"hash"
	"hash/crc32"
	"io"
)

// Inflater decodes one gzip member from a flash region. It is reused across
// copies; the flate state is reset rather than reallocated.
type Inflater struct {
	src     FlashSource
	flate   io.ReadCloser
	crc     hash.Hash32
	trailer Trailer
	out     uint32
}

// Reset parses the header of the member stored at [start, start+size) and
// prepares to inflate it. Flash failures are returned as-is; malformed
// headers yield ErrHeader.
func (z *Inflater) Reset(flash FlashReader, start, size uint32) error {
	t, err := ReadTrailer(flash, start, size)
	if err != nil {
		return err
	}
	z.trailer = t
	z.src.Reset(flash, start, start+size-TrailerSize)
	if err := skipHeader(&z.src); err != nil {
		if z.src.Err() != nil {
			return z.src.Err()
		}
		return ErrHeader
	}
	if z.flate == nil {
		z.flate = flate.NewReader(&z.src)
	} else if err := z.flate.(flate.Resetter).Reset(&z.src, nil); err != nil {
		return ErrHeader
	}
	if z.crc == nil {
		z.crc = crc32.NewIEEE()
	}
	z.crc.Reset()
	z.out = 0
	return nil
}

// Size returns the uncompressed length recorded in the trailer.
func (z *Inflater) Size() uint32 {
	return z.trailer.Size
}

// Fill inflates exactly len(p) bytes into p.
func (z *Inflater) Fill(p []byte) error {
	n, err := io.ReadFull(z.flate, p)
	z.crc.Write(p[:n])
	z.out += uint32(n)
	if err != nil {
		if z.src.Err() != nil {
			return z.src.Err()
		}
		return ErrStream
	}
	return nil
}

// Finish checks the inflated data against the trailer.
func (z *Inflater) Finish() error {
	if z.out != z.trailer.Size || z.crc.Sum32() != z.trailer.CRC32 {
		return ErrStream
	}
	return nil
}

// SourceErr returns the flash error that interrupted decoding, if any.
func (z *Inflater) SourceErr() error {
	return z.src.Err()
}
