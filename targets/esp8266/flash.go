//go:build tinygo && esp8266

package main

// romFlash drives the SPI flash through the boot ROM. The ROM transfers
// whole aligned words, so reads and writes go through a word buffer.
type romFlash struct {
	bounce [64]uint32
}

type romError uint8

func (e romError) Error() string { return "spi flash rom error" }

func (f *romFlash) EraseSector(sector uint32) error {
	if rc := romEraseSector(sector); rc != 0 {
		return romError(rc)
	}
	return nil
}

func (f *romFlash) Read(addr uint32, buf []byte) error {
	for len(buf) > 0 {
		base := addr &^ 3
		skip := int(addr - base)
		n := len(f.bounce)*4 - skip
		if n > len(buf) {
			n = len(buf)
		}
		words := (skip + n + 3) / 4
		if rc := romRead(base, &f.bounce[0], uint32(words*4)); rc != 0 {
			return romError(rc)
		}
		for i := 0; i < n; i++ {
			j := skip + i
			buf[i] = byte(f.bounce[j/4] >> (8 * (j % 4)))
		}
		buf = buf[n:]
		addr += uint32(n)
	}
	return nil
}

// Write pads partial words with 0xFF, which leaves the surrounding flash
// bytes unchanged.
func (f *romFlash) Write(addr uint32, buf []byte) error {
	for len(buf) > 0 {
		base := addr &^ 3
		skip := int(addr - base)
		n := len(f.bounce)*4 - skip
		if n > len(buf) {
			n = len(buf)
		}
		words := (skip + n + 3) / 4
		for i := 0; i < words; i++ {
			f.bounce[i] = 0xFFFFFFFF
		}
		for i := 0; i < n; i++ {
			j := skip + i
			shift := 8 * (j % 4)
			f.bounce[j/4] = f.bounce[j/4]&^(0xFF<<shift) | uint32(buf[i])<<shift
		}
		if rc := romWrite(base, &f.bounce[0], uint32(words*4)); rc != 0 {
			return romError(rc)
		}
		buf = buf[n:]
		addr += uint32(n)
	}
	return nil
}
