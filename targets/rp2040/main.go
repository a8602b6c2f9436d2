//go:build tinygo && rp2040

package main

import (
	"machine"

	"gopper-eboot/core"
	"gopper-eboot/eboot"
)

// Board layout: applications run from SRAM loaded out of flash.
const (
	sectorSize    = 0x1000
	retentionBase = 0x20041F00 // top of SRAM5
	stackTop      = 0x20040000
)

func layout() core.Layout {
	return core.Layout{
		SectorSize:     sectorSize,
		AppStartOffset: 0,
		DefaultAppAddr: 0x10000,
		StackPointer:   stackTop,
		FastStoreBase:  retentionBase,
		MaxRetries:     core.MaxRetries,
		DurableSlots:   core.DurableSlots,
		Windows: []core.Window{
			{Name: "sram", Start: 0x20020000, End: 0x20040000},
			{Name: "scratch_x", Start: 0x20040000, End: 0x20041000},
		},
	}
}

var debugUART = machine.UART0

func main() {
	// Start from a known watchdog state.
	machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 0})

	debugUART.Configure(machine.UARTConfig{
		BaudRate: 115200,
		TX:       machine.UART0_TX_PIN,
		RX:       machine.UART0_RX_PIN,
	})
	core.SetDebugPutChar(func(c byte) { debugUART.WriteByte(c) })
	core.SetDebugWriter(func(s string) {
		debugUART.Write([]byte(s))
		debugUART.Write([]byte("\r\n"))
	})
	core.SetDebugEnabled(true)

	l := layout()
	if err := l.Validate(); err != nil {
		core.DebugPrintln(err.Error())
		return
	}

	core.SetFlashDriver(newFlashMap(l.SectorSize))
	core.SetWatchdog(rpWatchdog{})
	core.SetRetentionMemory(sramRetention{base: retentionBase})
	core.SetMemory(sram{})
	core.SetSystem(cpu{})

	eboot.NewFromCore(l).Run()
}
