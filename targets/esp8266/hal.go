//go:build tinygo && esp8266

package main

import (
	"device"
	"runtime/volatile"
	"unsafe"

	"gopper-eboot/core"
)

const rtcStoreReg = 0x60000700 // bit 31 requests a system reset

func reg(addr uintptr) *volatile.Register32 {
	return (*volatile.Register32)(unsafe.Pointer(addr))
}

type romWatchdog struct{}

func (romWatchdog) Enable()  { romWdtEnable() }
func (romWatchdog) Disable() { romWdtDisable() }

// rtcMemory is the user area of RTC memory, kept across warm resets.
type rtcMemory struct {
	base uintptr
}

func (r rtcMemory) LoadWords(off int, dst []uint32) {
	for i := range dst {
		dst[i] = reg(r.base + uintptr(4*(off+i))).Get()
	}
}

func (r rtcMemory) StoreWords(off int, src []uint32) {
	for i, w := range src {
		reg(r.base + uintptr(4*(off+i))).Set(w)
	}
}

// ramMemory writes segments straight into DRAM/IRAM. IRAM only accepts
// 32-bit stores, so bytes are packed into words.
type ramMemory struct{}

func (ramMemory) Store(addr uint32, data []byte) {
	for i := 0; i < len(data); i += 4 {
		var w uint32
		for j := 0; j < 4 && i+j < len(data); j++ {
			w |= uint32(data[i+j]) << (8 * j)
		}
		reg(uintptr(addr) + uintptr(i)).Set(w)
	}
}

type cpu struct{}

func (cpu) Transfer(entry, sp uint32) {
	device.Asm("memw")
	device.AsmFull(`
		mov.n a1, {sp}
		mov.n a3, {entry}
		jx a3
	`, map[string]interface{}{
		"sp":    sp,
		"entry": entry,
	})
	for {
	}
}

func (cpu) Reset() {
	reg(rtcStoreReg).SetBits(1 << 31)
	for {
	}
}

func (cpu) Halt() {
	for {
	}
}

func installHAL(layout core.Layout) {
	core.SetFlashDriver(&romFlash{})
	core.SetWatchdog(romWatchdog{})
	core.SetRetentionMemory(rtcMemory{base: uintptr(layout.FastStoreBase)})
	core.SetMemory(ramMemory{})
	core.SetSystem(cpu{})
	core.SetDebugPutChar(romPutc)
}
