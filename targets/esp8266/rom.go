//go:build tinygo && esp8266

package main

// Boot ROM routines. Addresses are provided by rom.ld.

//export SPIEraseSector
func romEraseSector(sector uint32) int32

//export SPIRead
func romRead(addr uint32, dst *uint32, size uint32) int32

//export SPIWrite
func romWrite(addr uint32, src *uint32, size uint32) int32

//export ets_wdt_enable
func romWdtEnable()

//export ets_wdt_disable
func romWdtDisable()

//export ets_putc
func romPutc(c byte)
