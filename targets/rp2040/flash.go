//go:build tinygo && rp2040

package main

import (
	"machine"

	"tinygo.org/x/drivers/flash"

	"gopper-eboot/core"
)

// Flash address space seen by the bootloader. Internal offsets are relative
// to the data area TinyGo reserves after the bootloader binary.
const (
	internalBase = 0x00000000
	stagingBase  = 0x01000000
)

// newFlashMap puts internal XIP flash and the external SPI NOR staging chip
// into one address space. A missing staging chip leaves only internal flash.
func newFlashMap(sectorSize uint32) *core.FlashMap {
	m := &core.FlashMap{
		SectorSize: sectorSize,
		Regions: []core.FlashRegion{{
			Base:   internalBase,
			Size:   uint32(machine.Flash.Size()),
			Driver: core.BlockFlash{Dev: machine.Flash},
		}},
	}

	ext := flash.NewSPI(machine.SPI1, machine.SPI1_SDO_PIN, machine.SPI1_SDI_PIN, machine.SPI1_SCK_PIN, machine.GPIO13)
	if err := ext.Configure(&flash.DeviceConfig{Identifier: flash.DefaultDeviceIdentifier}); err != nil {
		core.DebugPrintln("staging flash: not found")
		return m
	}
	if ext.EraseBlockSize() != int64(sectorSize) {
		core.DebugPrintln("staging flash: unsupported erase size")
		return m
	}
	m.Regions = append(m.Regions, core.FlashRegion{
		Base:   stagingBase,
		Size:   uint32(ext.Size()),
		Driver: core.BlockFlash{Dev: ext},
	})
	return m
}
