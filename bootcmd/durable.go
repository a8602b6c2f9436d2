package bootcmd

import (
	"gopper-eboot/core"
	"gopper-eboot/protocol"
)

// Error is a durable store failure.
type Error string

func (e Error) Error() string { return string(e) }

// ErrSlotVerify is returned when a freshly programmed slot does not read
// back as the written command.
const ErrSlotVerify = Error("durable slot verify failed")

// Codes recorded with core.EvtClearFailed.
const (
	ClearReadFailed  = 1
	ClearWriteFailed = 2
)

// IndexAddr returns the flash offset of the durable index: just past the
// first section header of the application image.
func (s *Store) IndexAddr() uint32 {
	return s.layout.AppStartOffset + protocol.ImageHeaderSize + protocol.SectionHeaderSize
}

// slotsAddr locates slot 0, or reports false when there is no usable index.
func (s *Store) slotsAddr() (uint32, bool) {
	var buf [protocol.IndexSize]byte
	if err := s.flash.Read(s.IndexAddr(), buf[:]); err != nil {
		return 0, false
	}
	var idx protocol.Index
	idx.Unmarshal(buf[:])
	if !idx.Valid() {
		return 0, false
	}
	return idx.SlotsOffset(s.layout.FlashMapBase), true
}

func (s *Store) slotAddr(base uint32, i int) uint32 {
	return base + uint32(i)*protocol.SlotSize
}

func (s *Store) readSlot(base uint32, i int, slot *protocol.Slot) bool {
	if err := s.flash.Read(s.slotAddr(base, i), s.slotBuf[:]); err != nil {
		return false
	}
	slot.Unmarshal(s.slotBuf[:])
	return true
}

// readDurable returns the first actionable slot holding a valid command.
func (s *Store) readDurable(cmd *protocol.Command) (int, bool) {
	base, ok := s.slotsAddr()
	if !ok {
		return noSlot, false
	}
	var slot protocol.Slot
	for i := 0; i < int(s.layout.DurableSlots); i++ {
		if !s.readSlot(base, i, &slot) || !slot.Actionable() {
			continue
		}
		if !slot.Command.Valid() {
			continue
		}
		*cmd = slot.Command
		return i, true
	}
	return noSlot, false
}

// writeDurable programs cmd into the first free slot. The body goes first and
// the flags word last, so an interrupted write leaves the slot free rather
// than actionable. A free slot whose body is not erased holds the remains of
// such a write and is skipped. A missing index or a full store is not an
// error; a slot that does not read back intact is.
func (s *Store) writeDurable(cmd *protocol.Command) error {
	base, ok := s.slotsAddr()
	if !ok {
		return nil
	}
	var slot protocol.Slot
	for i := 0; i < int(s.layout.DurableSlots); i++ {
		if !s.readSlot(base, i, &slot) || !slot.IsFree() || !s.bodyErased() {
			continue
		}
		addr := s.slotAddr(base, i)
		cmd.MarshalTo(s.slotBuf[protocol.WordSize:])
		if err := s.flash.Write(addr+protocol.WordSize, s.slotBuf[protocol.WordSize:]); err != nil {
			return err
		}
		flags := protocol.FlagsWord(slot.Flags &^ protocol.SlotFree)
		if err := s.flash.Write(addr, flags[:]); err != nil {
			return err
		}
		if !s.readSlot(base, i, &slot) || !slot.Actionable() || slot.Command != *cmd {
			return ErrSlotVerify
		}
		return nil
	}
	return nil
}

// bodyErased reports whether the command part of slotBuf is all 0xFF.
func (s *Store) bodyErased() bool {
	for _, b := range s.slotBuf[protocol.WordSize:] {
		if b != 0xFF {
			return false
		}
	}
	return true
}

// clearDurable drops the Pending bit of slot i. Only 1->0 transitions are
// written, so repeating it is harmless. A failed write is retried once and
// then recorded in the event ring.
func (s *Store) clearDurable(i int) {
	base, ok := s.slotsAddr()
	if !ok {
		return
	}
	var slot protocol.Slot
	if !s.readSlot(base, i, &slot) {
		core.RecordEvent(core.EvtClearFailed, ClearReadFailed, uint32(i), 0)
		return
	}
	addr := s.slotAddr(base, i)
	flags := protocol.FlagsWord(slot.Flags &^ protocol.SlotPending)
	if err := s.flash.Write(addr, flags[:]); err == nil {
		return
	}
	if err := s.flash.Write(addr, flags[:]); err != nil {
		core.RecordEvent(core.EvtClearFailed, ClearWriteFailed, uint32(i), addr)
	}
}

// FormatDurable writes a fresh index pointing at slotsAddr. The caller must
// have erased the index and slot areas.
func (s *Store) FormatDurable(slotsAddr uint32) error {
	idx := protocol.Index{
		Version: protocol.IndexVersion,
		Magic:   protocol.IndexMagic,
		Slots:   slotsAddr,
	}
	var buf [protocol.IndexSize]byte
	idx.MarshalTo(buf[:])
	return s.flash.Write(s.IndexAddr(), buf[:])
}
