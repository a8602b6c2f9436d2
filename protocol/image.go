package protocol

import "encoding/binary"

// ImageMagic is the first byte of every application image.
const ImageMagic = 0xE9

// ImageHeader is the fixed header at the start of an application image.
type ImageHeader struct {
	Magic         uint8
	NumSegments   uint8
	FlashMode     uint8
	FlashSizeFreq uint8
	Entry         uint32
}

func (h *ImageHeader) MarshalTo(buf []byte) {
	_ = buf[ImageHeaderSize-1]
	buf[0] = h.Magic
	buf[1] = h.NumSegments
	buf[2] = h.FlashMode
	buf[3] = h.FlashSizeFreq
	binary.LittleEndian.PutUint32(buf[4:], h.Entry)
}

func (h *ImageHeader) Unmarshal(buf []byte) {
	_ = buf[ImageHeaderSize-1]
	h.Magic = buf[0]
	h.NumSegments = buf[1]
	h.FlashMode = buf[2]
	h.FlashSizeFreq = buf[3]
	h.Entry = binary.LittleEndian.Uint32(buf[4:])
}

// FlashSizeCode returns the flash size nibble of FlashSizeFreq.
func (h *ImageHeader) FlashSizeCode() uint8 {
	return h.FlashSizeFreq >> 4
}

// FlashFreqCode returns the flash clock nibble of FlashSizeFreq.
func (h *ImageHeader) FlashFreqCode() uint8 {
	return h.FlashSizeFreq & 0x0F
}

// SectionHeader precedes each segment's bytes in the image.
type SectionHeader struct {
	Address uint32
	Size    uint32
}

func (s *SectionHeader) MarshalTo(buf []byte) {
	_ = buf[SectionHeaderSize-1]
	binary.LittleEndian.PutUint32(buf[0:], s.Address)
	binary.LittleEndian.PutUint32(buf[4:], s.Size)
}

func (s *SectionHeader) Unmarshal(buf []byte) {
	_ = buf[SectionHeaderSize-1]
	s.Address = binary.LittleEndian.Uint32(buf[0:])
	s.Size = binary.LittleEndian.Uint32(buf[4:])
}
