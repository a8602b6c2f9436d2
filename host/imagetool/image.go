// Package imagetool builds, inspects and stages application images for the
// bootloader.
package imagetool

import (
	"github.com/pkg/errors"

	"gopper-eboot/core"
	"gopper-eboot/protocol"
)

// Segment is one section of an image.
type Segment struct {
	Address uint32
	Data    []byte
}

// Image is a decoded application image.
type Image struct {
	Entry         uint32
	FlashMode     uint8
	FlashSizeFreq uint8
	Segments      []Segment
}

// MaxSegments is the most sections an image header can count.
const MaxSegments = 255

// Build serialises img as header followed by each section header and its
// bytes.
func Build(img *Image) ([]byte, error) {
	if len(img.Segments) > MaxSegments {
		return nil, errors.Errorf("too many segments: %d", len(img.Segments))
	}
	size := protocol.ImageHeaderSize
	for _, s := range img.Segments {
		size += protocol.SectionHeaderSize + len(s.Data)
	}
	out := make([]byte, size)
	hdr := protocol.ImageHeader{
		Magic:         protocol.ImageMagic,
		NumSegments:   uint8(len(img.Segments)),
		FlashMode:     img.FlashMode,
		FlashSizeFreq: img.FlashSizeFreq,
		Entry:         img.Entry,
	}
	hdr.MarshalTo(out)
	pos := protocol.ImageHeaderSize
	for _, s := range img.Segments {
		sh := protocol.SectionHeader{Address: s.Address, Size: uint32(len(s.Data))}
		sh.MarshalTo(out[pos:])
		pos += protocol.SectionHeaderSize
		pos += copy(out[pos:], s.Data)
	}
	return out, nil
}

// Parse decodes an image produced by Build or read back from flash.
// Trailing bytes after the last section are ignored.
func Parse(data []byte) (*Image, error) {
	if len(data) < protocol.ImageHeaderSize {
		return nil, errors.New("image shorter than header")
	}
	var hdr protocol.ImageHeader
	hdr.Unmarshal(data)
	if hdr.Magic != protocol.ImageMagic {
		return nil, errors.Errorf("bad image magic 0x%02x", hdr.Magic)
	}
	img := &Image{
		Entry:         hdr.Entry,
		FlashMode:     hdr.FlashMode,
		FlashSizeFreq: hdr.FlashSizeFreq,
	}
	pos := protocol.ImageHeaderSize
	for i := 0; i < int(hdr.NumSegments); i++ {
		if len(data)-pos < protocol.SectionHeaderSize {
			return nil, errors.Errorf("section %d: truncated header", i)
		}
		var sh protocol.SectionHeader
		sh.Unmarshal(data[pos:])
		pos += protocol.SectionHeaderSize
		if uint64(len(data)-pos) < uint64(sh.Size) {
			return nil, errors.Errorf("section %d: %d bytes at 0x%08x run past end of image", i, sh.Size, sh.Address)
		}
		img.Segments = append(img.Segments, Segment{
			Address: sh.Address,
			Data:    data[pos : pos+int(sh.Size)],
		})
		pos += int(sh.Size)
	}
	return img, nil
}

// PadToSlot prefixes image with erased bytes so that its header lands at
// the layout's application start offset inside a flash slot.
func PadToSlot(image []byte, layout core.Layout) []byte {
	out := make([]byte, int(layout.AppStartOffset)+len(image))
	for i := 0; i < int(layout.AppStartOffset); i++ {
		out[i] = 0xFF
	}
	copy(out[layout.AppStartOffset:], image)
	return out
}

// SegmentInfo describes a section for display.
type SegmentInfo struct {
	Address uint32
	Size    uint32
	Window  string // empty when the bootloader skips the section
}

// Inspect classifies every section of img against the layout's windows.
func Inspect(img *Image, layout core.Layout) []SegmentInfo {
	infos := make([]SegmentInfo, 0, len(img.Segments))
	for _, s := range img.Segments {
		info := SegmentInfo{Address: s.Address, Size: uint32(len(s.Data))}
		if w, ok := layout.WindowFor(s.Address); ok {
			info.Window = w.Name
		}
		infos = append(infos, info)
	}
	return infos
}
