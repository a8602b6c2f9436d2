package protocol

import "encoding/binary"

// Durable store index
const (
	IndexMagic   = 0xBB9D7C4E
	IndexVersion = 1
)

// Slot flag bits. Erased flash reads as all ones, i.e. free.
const (
	SlotFree    = 1 << 0
	SlotPending = 1 << 1
	SlotErased  = 0xFFFFFFFF
)

// Index locates the durable command slots.
type Index struct {
	Version uint32
	Magic   uint32
	Slots   uint32 // flash offset or memory-mapped pointer of slot 0
}

// Valid reports whether the index describes a known slot array.
func (x *Index) Valid() bool {
	return x.Magic == IndexMagic && x.Version == IndexVersion
}

// SlotsOffset returns the flash offset of slot 0. Pointers at or above
// mapBase are translated back to flash offsets.
func (x *Index) SlotsOffset(mapBase uint32) uint32 {
	if mapBase != 0 && x.Slots >= mapBase {
		return x.Slots - mapBase
	}
	return x.Slots
}

func (x *Index) MarshalTo(buf []byte) {
	_ = buf[IndexSize-1]
	binary.LittleEndian.PutUint32(buf[0:], x.Version)
	binary.LittleEndian.PutUint32(buf[4:], x.Magic)
	binary.LittleEndian.PutUint32(buf[8:], x.Slots)
}

func (x *Index) Unmarshal(buf []byte) {
	_ = buf[IndexSize-1]
	x.Version = binary.LittleEndian.Uint32(buf[0:])
	x.Magic = binary.LittleEndian.Uint32(buf[4:])
	x.Slots = binary.LittleEndian.Uint32(buf[8:])
}

// Slot is one durable command slot.
type Slot struct {
	Flags   uint32
	Command Command
}

// Actionable reports whether the slot holds a command waiting to run.
func (s *Slot) Actionable() bool {
	return s.Flags&SlotFree == 0 && s.Flags&SlotPending != 0
}

// IsFree reports whether the slot can take a new command.
func (s *Slot) IsFree() bool {
	return s.Flags&SlotFree != 0
}

func (s *Slot) MarshalTo(buf []byte) {
	_ = buf[SlotSize-1]
	binary.LittleEndian.PutUint32(buf[0:], s.Flags)
	s.Command.MarshalTo(buf[WordSize:])
}

func (s *Slot) Unmarshal(buf []byte) {
	_ = buf[SlotSize-1]
	s.Flags = binary.LittleEndian.Uint32(buf[0:])
	s.Command.Unmarshal(buf[WordSize:])
}

// FlagsWord encodes a flags value for a single-word flash write.
func FlagsWord(flags uint32) [WordSize]byte {
	var b [WordSize]byte
	binary.LittleEndian.PutUint32(b[:], flags)
	return b
}
