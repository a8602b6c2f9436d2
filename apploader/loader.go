// Package apploader copies an application image's loadable segments into
// memory and transfers control to its entry point.
package apploader

import (
	"gopper-eboot/core"
	"gopper-eboot/protocol"
)

// Error is a load failure code.
type Error uint8

const (
	ErrHeaderRead        Error = 1
	ErrSectionHeaderRead Error = 2
	ErrSectionRead       Error = 3
	ErrBadMagic          Error = 4
)

func (e Error) Code() uint8 { return uint8(e) }

func (e Error) Error() string { return "load: " + e.String() }

func (e Error) String() string {
	switch e {
	case ErrHeaderRead:
		return "image header read failed"
	case ErrSectionHeaderRead:
		return "section header read failed"
	case ErrSectionRead:
		return "section read failed"
	case ErrBadMagic:
		return "bad image magic"
	default:
		return "unknown"
	}
}

// ChunkSize bounds each flash-to-memory transfer.
const ChunkSize = 512

// Loader parses images from flash.
type Loader struct {
	flash  core.FlashDriver
	mem    core.Memory
	sys    core.System
	layout core.Layout
	buf    [ChunkSize]byte
}

func New(flash core.FlashDriver, mem core.Memory, sys core.System, layout core.Layout) *Loader {
	return &Loader{flash: flash, mem: mem, sys: sys, layout: layout}
}

// NewFromCore builds a loader from the registered platform drivers.
func NewFromCore(layout core.Layout) *Loader {
	return New(core.MustFlash(), core.MustMemory(), core.MustSystem(), layout)
}

// LoadAndJump loads the image whose slot starts at flashAddr and jumps to it.
// On hardware it only returns on failure.
func (l *Loader) LoadAndJump(flashAddr uint32) error {
	var hdr protocol.ImageHeader
	pos, err := l.readHeader(flashAddr, &hdr)
	if err != nil {
		return err
	}

	var sh [protocol.SectionHeaderSize]byte
	for i := uint8(0); i < hdr.NumSegments; i++ {
		if err := l.flash.Read(pos, sh[:]); err != nil {
			return ErrSectionHeaderRead
		}
		pos += protocol.SectionHeaderSize

		var sec protocol.SectionHeader
		sec.Unmarshal(sh[:])
		if _, ok := l.layout.WindowFor(sec.Address); ok {
			if err := l.loadSegment(pos, sec); err != nil {
				return err
			}
		}
		pos += sec.Size
	}

	l.sys.Transfer(hdr.Entry, l.layout.StackPointer)
	return nil
}

func (l *Loader) readHeader(flashAddr uint32, hdr *protocol.ImageHeader) (uint32, error) {
	pos := flashAddr + l.layout.AppStartOffset
	var b [protocol.ImageHeaderSize]byte
	if err := l.flash.Read(pos, b[:]); err != nil {
		return 0, ErrHeaderRead
	}
	hdr.Unmarshal(b[:])
	if hdr.Magic != protocol.ImageMagic {
		return 0, ErrBadMagic
	}
	return pos + protocol.ImageHeaderSize, nil
}

func (l *Loader) loadSegment(pos uint32, sec protocol.SectionHeader) error {
	addr := sec.Address
	for left := sec.Size; left > 0; {
		n := uint32(ChunkSize)
		if left < n {
			n = left
		}
		if err := l.flash.Read(pos, l.buf[:n]); err != nil {
			return ErrSectionRead
		}
		l.mem.Store(addr, l.buf[:n])
		pos += n
		addr += n
		left -= n
	}
	return nil
}
