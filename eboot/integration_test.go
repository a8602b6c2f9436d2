package eboot_test

import (
	"bytes"
	"compress/gzip"
	"testing"

	"gopper-eboot/apploader"
	"gopper-eboot/bootcmd"
	"gopper-eboot/core"
	"gopper-eboot/core/coretest"
	"gopper-eboot/eboot"
	"gopper-eboot/flashcopy"
	"gopper-eboot/protocol"
)

const (
	stagingAddr = 0x20000
	updateAddr  = 0x10000
	slotsAddr   = 0x3000
	entryPoint  = 0x40100004
)

type board struct {
	layout core.Layout
	flash  *coretest.Flash
	rtc    *coretest.Retention
	mem    *coretest.Memory
	sys    *coretest.System
	wdt    *coretest.Watchdog
	store  *bootcmd.Store
}

func newBoard(t *testing.T, durable bool) *board {
	t.Helper()
	b := &board{
		layout: core.DefaultLayout(),
		rtc:    coretest.NewRetention(protocol.CommandWords),
		mem:    coretest.NewMemory(),
		sys:    &coretest.System{},
		wdt:    &coretest.Watchdog{Enabled: true},
	}
	if !durable {
		b.layout.DurableSlots = 0
	}
	b.flash = coretest.NewFlash(0x40000, b.layout.SectorSize)
	b.store = bootcmd.New(b.rtc, b.flash, b.layout)
	if durable {
		if err := b.store.FormatDurable(b.layout.FlashMapBase + slotsAddr); err != nil {
			t.Fatalf("FormatDurable: %v", err)
		}
	}
	return b
}

func (b *board) bootloader() *eboot.Bootloader {
	guard := core.NewWatchdogGuard(b.wdt)
	return &eboot.Bootloader{
		Store:  b.store,
		Copier: flashcopy.New(b.flash, guard, b.layout),
		Loader: apploader.New(b.flash, b.mem, b.sys, b.layout),
		Guard:  guard,
		System: b.sys,
		Layout: b.layout,
	}
}

// slotBlob returns an image with one IRAM segment, padded to sit in a slot.
func slotBlob(layout core.Layout, payload []byte) []byte {
	hdr := protocol.ImageHeader{Magic: protocol.ImageMagic, NumSegments: 1, Entry: entryPoint}
	sh := protocol.SectionHeader{Address: 0x40100000, Size: uint32(len(payload))}
	blob := bytes.Repeat([]byte{0xFF}, int(layout.AppStartOffset)+protocol.ImageHeaderSize+protocol.SectionHeaderSize)
	hdr.MarshalTo(blob[layout.AppStartOffset:])
	sh.MarshalTo(blob[int(layout.AppStartOffset)+protocol.ImageHeaderSize:])
	return append(blob, payload...)
}

func gzipBytes(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	zw.Write(data)
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestUpdateFromDurableStore(t *testing.T) {
	b := newBoard(t, true)
	payload := bytes.Repeat([]byte{0x11, 0x22, 0x33, 0x44}, 0x500)
	blob := slotBlob(b.layout, payload)
	staged := gzipBytes(t, blob)
	b.flash.Program(stagingAddr, staged)

	cmd := protocol.NewCopyRaw(stagingAddr, updateAddr, uint32(len(staged)))
	if err := b.store.Write(&cmd); err != nil {
		t.Fatalf("Write: %v", err)
	}

	if state := b.bootloader().Run(); state != eboot.StateJumped {
		t.Fatalf("Run = %v", state)
	}
	if !b.sys.Jumped || b.sys.Entry != entryPoint || b.sys.SP != b.layout.StackPointer {
		t.Errorf("transfer = %+v", b.sys)
	}
	if !bytes.Equal(b.flash.Data[updateAddr:updateAddr+len(blob)], blob) {
		t.Error("update slot does not hold the inflated image")
	}
	if !bytes.Equal(b.mem.Load(0x40100000, len(payload)), payload) {
		t.Error("segment not loaded into IRAM")
	}
	if !b.wdt.Enabled {
		t.Error("watchdog left disabled")
	}

	var again protocol.Command
	if b.store.Read(&again) {
		t.Errorf("command still pending after boot: %+v", again)
	}
}

func TestFastStoreReplayIsBounded(t *testing.T) {
	b := newBoard(t, false)
	// A truncated gzip stream makes every copy fail.
	b.flash.Program(stagingAddr, []byte{0x1F, 0x8B, 0x07})
	cmd := protocol.NewCopyRaw(stagingAddr, updateAddr, 3)
	b.store.Write(&cmd)

	for i := 1; i <= int(b.layout.MaxRetries); i++ {
		if state := b.bootloader().Run(); state != eboot.StateReset {
			t.Fatalf("boot %d: Run = %v", i, state)
		}
	}
	if b.sys.ResetCount != int(b.layout.MaxRetries) {
		t.Errorf("resets = %d", b.sys.ResetCount)
	}

	// The command is spent; the default application (none here) is tried.
	bl := b.bootloader()
	bl.Run()
	if len(bl.Trace) < 2 || bl.Trace[1] != eboot.StateNoCommand {
		t.Errorf("trace after replays = %v", bl.Trace)
	}
}
