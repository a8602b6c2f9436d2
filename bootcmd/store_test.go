package bootcmd

import (
	"testing"

	"gopper-eboot/core"
	"gopper-eboot/core/coretest"
	"gopper-eboot/protocol"
)

const testSlots = 0x2000

func fastOnly() (*Store, *coretest.Retention) {
	layout := core.DefaultLayout()
	layout.DurableSlots = 0
	rtc := coretest.NewRetention(protocol.CommandWords)
	return New(rtc, nil, layout), rtc
}

func withDurable(t *testing.T) (*Store, *coretest.Retention, *coretest.Flash) {
	t.Helper()
	layout := core.DefaultLayout()
	rtc := coretest.NewRetention(protocol.CommandWords)
	flash := coretest.NewFlash(0x4000, layout.SectorSize)
	s := New(rtc, flash, layout)
	// Index stored as a memory-mapped pointer, the way an application links it.
	if err := s.FormatDurable(layout.FlashMapBase + testSlots); err != nil {
		t.Fatalf("FormatDurable: %v", err)
	}
	return s, rtc, flash
}

func TestFastStoreWriteRead(t *testing.T) {
	s, _ := fastOnly()
	in := protocol.NewCopyRaw(0x1000, 0x9000, 0x2000)
	if err := s.Write(&in); err != nil {
		t.Fatalf("Write: %v", err)
	}

	var out protocol.Command
	if !s.Read(&out) {
		t.Fatal("Read found no command")
	}
	if out != in {
		t.Errorf("Read = %+v, want %+v", out, in)
	}
	if !out.Valid() {
		t.Error("returned command does not validate")
	}
	if _, ok := s.Consumed(); ok {
		t.Error("fast store read must not report a consumed slot")
	}
}

func TestFastStoreRetryLimit(t *testing.T) {
	s, rtc := fastOnly()
	in := protocol.NewLoadApp(0x80000)
	s.Write(&in)

	counter := func() uint32 { return rtc.Words[2+protocol.RetryArg] }

	var out protocol.Command
	for i := 1; i <= 3; i++ {
		if !s.Read(&out) {
			t.Fatalf("read %d failed", i)
		}
		if counter() != uint32(i) {
			t.Errorf("after read %d counter = %d", i, counter())
		}
	}
	if s.Read(&out) {
		t.Error("4th read should report no command")
	}
	if counter() != 3 {
		t.Errorf("counter changed by rejected read: %d", counter())
	}

	// Only a fresh write resets the counter.
	s.Write(&in)
	if counter() != 0 {
		t.Errorf("counter after write = %d", counter())
	}
	if !s.Read(&out) {
		t.Error("read after rewrite failed")
	}
}

func TestFastStoreRejectsCorruption(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(w []uint32)
	}{
		{"empty", func(w []uint32) {
			for i := range w {
				w[i] = 0
			}
		}},
		{"magic", func(w []uint32) { w[0] = 0xDEADBEEF }},
		{"action", func(w []uint32) { w[1] ^= 0x100 }},
		{"arg", func(w []uint32) { w[5]++ }},
		{"crc", func(w []uint32) { w[protocol.CommandWords-1]++ }},
	}
	for _, tc := range testCases {
		s, rtc := fastOnly()
		in := protocol.NewCopyRaw(0x1000, 0x9000, 0x2000)
		s.Write(&in)
		tc.mutate(rtc.Words)

		var out protocol.Command
		if s.Read(&out) {
			t.Errorf("%s: corrupted record accepted", tc.name)
		}
	}
}

func TestFastStoreCounterNotCovered(t *testing.T) {
	s, rtc := fastOnly()
	in := protocol.NewLoadApp(0)
	s.Write(&in)
	rtc.Words[2+protocol.RetryArg] = 2

	var out protocol.Command
	if !s.Read(&out) {
		t.Fatal("counter value must not affect CRC validation")
	}
	if out.Args[protocol.RetryArg] != 0 {
		t.Errorf("counter leaked into command: %d", out.Args[protocol.RetryArg])
	}
}

func TestFastStoreClearIsNoop(t *testing.T) {
	s, rtc := fastOnly()
	in := protocol.NewLoadApp(0)
	s.Write(&in)
	before := append([]uint32(nil), rtc.Words...)
	s.Clear()
	s.Clear()
	for i := range before {
		if rtc.Words[i] != before[i] {
			t.Fatalf("Clear modified word %d", i)
		}
	}
}

func TestDurableWriteReadClear(t *testing.T) {
	s, rtc, flash := withDurable(t)
	in := protocol.NewCopyRaw(0x1000, 0x9000, 0x2000)
	if err := s.Write(&in); err != nil {
		t.Fatalf("Write: %v", err)
	}

	var slot protocol.Slot
	slot.Unmarshal(flash.Data[testSlots:])
	if !slot.Actionable() {
		t.Fatalf("slot 0 flags 0x%08X not actionable", slot.Flags)
	}

	rtcBefore := append([]uint32(nil), rtc.Words...)
	var out protocol.Command
	if !s.Read(&out) {
		t.Fatal("Read found no command")
	}
	if out != in {
		t.Errorf("Read = %+v, want %+v", out, in)
	}
	if i, ok := s.Consumed(); !ok || i != 0 {
		t.Errorf("Consumed = %d, %v", i, ok)
	}
	for i := range rtcBefore {
		if rtc.Words[i] != rtcBefore[i] {
			t.Fatal("durable read touched the fast store")
		}
	}

	s.Clear()
	slot.Unmarshal(flash.Data[testSlots:])
	if slot.Actionable() || slot.IsFree() {
		t.Errorf("cleared slot flags 0x%08X", slot.Flags)
	}
	if rtc.Words[0] != 0 || rtc.Words[protocol.CommandWords-1] != 0 {
		t.Error("fast store magic/crc not zeroed")
	}
	if s.Read(&out) {
		t.Error("command still readable after Clear")
	}

	// Second clear leaves everything as it was.
	snapshot := append([]byte(nil), flash.Data...)
	s.Clear()
	if string(snapshot) != string(flash.Data) {
		t.Error("second Clear changed flash")
	}
}

func TestDurableSlotsFillInOrder(t *testing.T) {
	s, _, flash := withDurable(t)
	var out protocol.Command
	for i := 0; i < core.DurableSlots; i++ {
		in := protocol.NewLoadApp(uint32(i) * 0x10000)
		if err := s.Write(&in); err != nil {
			t.Fatalf("Write %d: %v", i, err)
		}
		if !s.Read(&out) || out.Args[0] != in.Args[0] {
			t.Fatalf("slot %d: read %+v", i, out)
		}
		if slot, _ := s.Consumed(); slot != i {
			t.Errorf("write %d landed in slot %d", i, slot)
		}
		s.Clear()
	}

	// Store full: the command only reaches the fast store.
	writes := flash.Writes
	in := protocol.NewLoadApp(0x123000)
	if err := s.Write(&in); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if flash.Writes != writes {
		t.Error("full durable store was written")
	}
	if !s.Read(&out) || out.Args[0] != 0x123000 {
		t.Errorf("fast store fallback read %+v", out)
	}
	if _, ok := s.Consumed(); ok {
		t.Error("fallback read reported a durable slot")
	}
}

func TestDurableFirstActionableWins(t *testing.T) {
	s, _, flash := withDurable(t)

	put := func(i int, flags uint32, cmd protocol.Command) {
		cmd.Stamp()
		buf := make([]byte, protocol.SlotSize)
		slot := protocol.Slot{Flags: flags, Command: cmd}
		slot.MarshalTo(buf)
		flash.Program(testSlots+uint32(i)*protocol.SlotSize, buf)
	}
	consumed := uint32(protocol.SlotErased &^ (protocol.SlotFree | protocol.SlotPending))
	actionable := uint32(protocol.SlotErased &^ protocol.SlotFree)
	put(0, consumed, protocol.NewLoadApp(0x1))
	put(1, actionable, protocol.NewLoadApp(0x2))
	put(2, actionable, protocol.NewLoadApp(0x3))

	var out protocol.Command
	if !s.Read(&out) || out.Args[0] != 0x2 {
		t.Errorf("Read = %+v, want slot 1", out)
	}
}

func TestDurableSkipsInvalidCommand(t *testing.T) {
	s, rtc, flash := withDurable(t)
	in := protocol.NewLoadApp(0x40000)
	s.Write(&in)
	flash.Data[testSlots+protocol.WordSize+8] ^= 0xFF // corrupt args[0]

	var out protocol.Command
	if !s.Read(&out) {
		t.Fatal("fast store copy should still be read")
	}
	if _, ok := s.Consumed(); ok {
		t.Error("corrupted slot was consumed")
	}
	if rtc.Words[2+protocol.RetryArg] != 1 {
		t.Error("fast store counter not advanced")
	}
}

func TestDurableWithoutIndex(t *testing.T) {
	layout := core.DefaultLayout()
	rtc := coretest.NewRetention(protocol.CommandWords)
	flash := coretest.NewFlash(0x4000, layout.SectorSize)
	s := New(rtc, flash, layout)

	in := protocol.NewLoadApp(0x7000)
	if err := s.Write(&in); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if flash.Writes != 0 {
		t.Error("flash written without an index")
	}
	var out protocol.Command
	if !s.Read(&out) || out != in {
		t.Errorf("fast store read %+v", out)
	}
}

func TestDurableWriteFailure(t *testing.T) {
	s, rtc, flash := withDurable(t)
	flash.FailWrite[testSlots+protocol.WordSize] = true
	in := protocol.NewLoadApp(0x7000)
	if err := s.Write(&in); err == nil {
		t.Fatal("expected write error")
	}
	var slot protocol.Slot
	slot.Unmarshal(flash.Data[testSlots:])
	if !slot.IsFree() {
		t.Error("failed body write must leave the slot free")
	}
	if rtc.Words[0] != protocol.CommandMagic {
		t.Error("fast store not written after durable failure")
	}
}

func TestDurableSkipsInterruptedSlot(t *testing.T) {
	s, _, flash := withDurable(t)

	// Body programmed, power lost before the flags word.
	old := protocol.NewLoadApp(0x50000)
	old.Stamp()
	flash.Program(testSlots+protocol.WordSize, old.Marshal())

	in := protocol.NewCopyRaw(0x1000, 0x9000, 0x2000)
	if err := s.Write(&in); err != nil {
		t.Fatalf("Write: %v", err)
	}

	var slot protocol.Slot
	slot.Unmarshal(flash.Data[testSlots:])
	if !slot.IsFree() {
		t.Errorf("interrupted slot flags changed to 0x%08X", slot.Flags)
	}

	var out protocol.Command
	if !s.Read(&out) || out != in {
		t.Fatalf("Read = %+v, want %+v", out, in)
	}
	if i, ok := s.Consumed(); !ok || i != 1 {
		t.Errorf("Consumed = %d, %v, want slot 1", i, ok)
	}
}

func TestDurableWriteVerifies(t *testing.T) {
	s, rtc, flash := withDurable(t)

	// Free but with Pending already dropped: the slot can never become actionable.
	flags := protocol.FlagsWord(protocol.SlotErased &^ protocol.SlotPending)
	flash.Program(testSlots, flags[:])

	in := protocol.NewLoadApp(0x60000)
	if err := s.Write(&in); err != ErrSlotVerify {
		t.Fatalf("Write error = %v, want %v", err, ErrSlotVerify)
	}
	if rtc.Words[0] != in.Magic {
		t.Error("fast store not written after durable failure")
	}
}

func TestDurableClearFailureRecorded(t *testing.T) {
	s, _, flash := withDurable(t)
	in := protocol.NewLoadApp(0x70000)
	if err := s.Write(&in); err != nil {
		t.Fatalf("Write: %v", err)
	}
	var out protocol.Command
	if !s.Read(&out) {
		t.Fatal("Read found no command")
	}

	core.ClearEvents()
	flash.FailWrite[testSlots] = true
	writes := flash.Writes
	s.Clear()

	evts := core.Events()
	if len(evts) != 1 || evts[0].EventType != core.EvtClearFailed || evts[0].Code != ClearWriteFailed {
		t.Fatalf("events = %+v", evts)
	}
	if evts[0].Value1 != 0 || evts[0].Value2 != testSlots {
		t.Errorf("event values = %d, 0x%x", evts[0].Value1, evts[0].Value2)
	}
	// Fast-store invalidation is not a flash write.
	if flash.Writes != writes {
		t.Errorf("flash writes = %d, want %d", flash.Writes, writes)
	}
}
