// Package flashcopy moves an image between flash regions a sector at a time,
// inflating gzip sources on the fly.
package flashcopy

import (
	"bytes"

	"gopper-eboot/core"
	"gopper-eboot/tinycompress"
)

// Error is a copy failure code, printed as a single digit by the bootloader.
type Error uint8

const (
	ErrAlign      Error = 1 // src or dst not sector aligned
	ErrErase      Error = 2
	ErrRead       Error = 3
	ErrWrite      Error = 4
	ErrVerify     Error = 5 // destination differs from source
	ErrGzipHeader Error = 6
	ErrGzipStream Error = 7
)

func (e Error) Code() uint8 { return uint8(e) }

func (e Error) Error() string { return "copy: " + e.String() }

func (e Error) String() string {
	switch e {
	case ErrAlign:
		return "unaligned address"
	case ErrErase:
		return "erase failed"
	case ErrRead:
		return "read failed"
	case ErrWrite:
		return "write failed"
	case ErrVerify:
		return "verify failed"
	case ErrGzipHeader:
		return "bad gzip header"
	case ErrGzipStream:
		return "corrupt gzip stream"
	default:
		return "unknown"
	}
}

// Copier owns the sector buffers and decoder state for copy operations.
type Copier struct {
	flash  core.FlashDriver
	guard  *core.WatchdogGuard
	layout core.Layout

	buf   []byte
	check []byte
	z     tinycompress.Inflater
}

// New allocates a copier; buffers are sized once from the layout.
func New(flash core.FlashDriver, guard *core.WatchdogGuard, layout core.Layout) *Copier {
	if guard == nil {
		guard = core.NewWatchdogGuard(nil)
	}
	return &Copier{
		flash:  flash,
		guard:  guard,
		layout: layout,
		buf:    make([]byte, layout.SectorSize),
		check:  make([]byte, layout.SectorSize),
	}
}

// Copy writes size bytes from src to dst, erasing each destination sector
// first. A gzip source is inflated and size is its compressed length. With
// verify set nothing is erased or written; the destination is compared
// against the source instead. The watchdog is suspended throughout.
func (c *Copier) Copy(src, dst, size uint32, verify bool) error {
	c.guard.Suspend()
	defer c.guard.Resume()

	if !c.layout.Aligned(src) || !c.layout.Aligned(dst) {
		return ErrAlign
	}

	var magic [2]byte
	if err := c.flash.Read(src, magic[:]); err != nil {
		return ErrRead
	}
	gz := tinycompress.IsGzip(magic[:])

	left := size
	if gz {
		if err := c.z.Reset(c.flash, src, size); err != nil {
			return decodeErr(err)
		}
		left = c.z.Size()
	}

	sector := c.layout.SectorSize
	saddr, daddr := src, dst
	for left > 0 {
		n := sector
		if left < n {
			n = left
		}

		if !verify {
			if err := c.flash.EraseSector(daddr / sector); err != nil {
				return ErrErase
			}
		}

		if gz {
			if err := c.z.Fill(c.buf[:n]); err != nil {
				return decodeErr(err)
			}
			for i := n; i < sector; i++ {
				c.buf[i] = 0xFF
			}
		} else {
			// Raw sources move whole sectors, tail included.
			if err := c.flash.Read(saddr, c.buf); err != nil {
				return ErrRead
			}
			saddr += sector
		}

		if verify {
			if err := c.flash.Read(daddr, c.check); err != nil {
				return ErrRead
			}
			if !bytes.Equal(c.buf, c.check) {
				return ErrVerify
			}
		} else if err := c.flash.Write(daddr, c.buf); err != nil {
			return ErrWrite
		}

		daddr += sector
		left -= n
	}

	if gz {
		if err := c.z.Finish(); err != nil {
			return ErrGzipStream
		}
	}
	return nil
}

// decodeErr maps decoder failures. Flash errors surfacing through the pull
// source become ErrRead.
func decodeErr(err error) Error {
	switch err {
	case tinycompress.ErrHeader:
		return ErrGzipHeader
	case tinycompress.ErrStream:
		return ErrGzipStream
	}
	return ErrRead
}
