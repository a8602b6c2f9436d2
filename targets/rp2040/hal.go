//go:build tinygo && rp2040

package main

import (
	"device/arm"
	"device/rp"
	"machine"
	"runtime/volatile"
	"time"
	"unsafe"

	"gopper-eboot/core"
)

type rpWatchdog struct{}

func (rpWatchdog) Enable()  { rp.WATCHDOG.CTRL.SetBits(rp.WATCHDOG_CTRL_ENABLE) }
func (rpWatchdog) Disable() { rp.WATCHDOG.CTRL.ClearBits(rp.WATCHDOG_CTRL_ENABLE) }

// sramRetention is a block of SRAM outside the bootloader's image that the
// boot ROM leaves untouched across watchdog resets.
type sramRetention struct {
	base uintptr
}

func (r sramRetention) word(i int) *volatile.Register32 {
	return (*volatile.Register32)(unsafe.Pointer(r.base + uintptr(4*i)))
}

func (r sramRetention) LoadWords(off int, dst []uint32) {
	for i := range dst {
		dst[i] = r.word(off + i).Get()
	}
}

func (r sramRetention) StoreWords(off int, src []uint32) {
	for i, w := range src {
		r.word(off + i).Set(w)
	}
}

type sram struct{}

func (sram) Store(addr uint32, data []byte) {
	dst := unsafe.Slice((*byte)(unsafe.Pointer(uintptr(addr))), len(data))
	copy(dst, data)
}

type cpu struct{}

// Transfer sets the main stack pointer and branches to entry in Thumb state.
func (cpu) Transfer(entry, sp uint32) {
	arm.AsmFull(`
		dsb
		isb
		msr msp, {sp}
		bx {entry}
	`, map[string]interface{}{
		"sp":    sp,
		"entry": entry | 1,
	})
	for {
	}
}

// Reset uses a watchdog reset.
func (cpu) Reset() {
	machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 1})
	machine.Watchdog.Start()
	for {
		time.Sleep(time.Millisecond)
	}
}

func (cpu) Halt() {
	core.DumpEvents()
	for {
		arm.Asm("wfi")
	}
}
