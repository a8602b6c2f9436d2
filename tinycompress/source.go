package tinycompress

import "io"

// ChunkSize is how much compressed data is pulled from flash per refill.
const ChunkSize = 4096

// FlashReader is the read half of a flash driver.
type FlashReader interface {
	Read(addr uint32, buf []byte) error
}

// FlashSource feeds a bounded flash region to the decoder. The cursor is the
// flash address of the next chunk to fetch.
type FlashSource struct {
	flash  FlashReader
	cursor uint32
	end    uint32
	buf    [ChunkSize]byte
	pos    int
	n      int
	err    error
}

// Reset points the source at [start, end).
func (s *FlashSource) Reset(flash FlashReader, start, end uint32) {
	s.flash = flash
	s.cursor = start
	s.end = end
	s.pos = 0
	s.n = 0
	s.err = nil
}

// Err returns the flash error that stopped the source, if any.
func (s *FlashSource) Err() error {
	return s.err
}

func (s *FlashSource) refill() error {
	if s.err != nil {
		return s.err
	}
	if s.cursor >= s.end {
		return io.EOF
	}
	n := uint32(ChunkSize)
	if left := s.end - s.cursor; left < n {
		n = left
	}
	if err := s.flash.Read(s.cursor, s.buf[:n]); err != nil {
		s.err = err
		return err
	}
	s.cursor += n
	s.pos = 0
	s.n = int(n)
	return nil
}

// ReadByte implements io.ByteReader, which keeps flate from buffering ahead.
func (s *FlashSource) ReadByte() (byte, error) {
	if s.pos >= s.n {
		if err := s.refill(); err != nil {
			return 0, err
		}
	}
	b := s.buf[s.pos]
	s.pos++
	return b, nil
}

// Read implements io.Reader.
func (s *FlashSource) Read(p []byte) (int, error) {
	if s.pos >= s.n {
		if err := s.refill(); err != nil {
			return 0, err
		}
	}
	n := copy(p, s.buf[s.pos:s.n])
	s.pos += n
	return n, nil
}
