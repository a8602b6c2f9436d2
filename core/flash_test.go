package core

import (
	"bytes"
	"testing"

	"gopper-eboot/core/coretest"
)

func TestFlashMapRouting(t *testing.T) {
	internal := coretest.NewFlash(0x10000, SectorSize)
	external := coretest.NewFlash(0x8000, SectorSize)
	m := &FlashMap{
		SectorSize: SectorSize,
		Regions: []FlashRegion{
			{Base: 0, Size: 0x10000, Driver: internal},
			{Base: 0x100000, Size: 0x8000, Driver: external},
		},
	}

	data := []byte{1, 2, 3, 4}
	if err := m.Write(0x101000, data); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if !bytes.Equal(external.Data[0x1000:0x1004], data) {
		t.Errorf("external region not written: % X", external.Data[0x1000:0x1004])
	}

	buf := make([]byte, 4)
	if err := m.Read(0x101000, buf); err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if !bytes.Equal(buf, data) {
		t.Errorf("read back % X", buf)
	}

	if err := m.EraseSector(0x101000 / SectorSize); err != nil {
		t.Fatalf("EraseSector failed: %v", err)
	}
	if len(external.Erases) != 1 || external.Erases[0] != 1 {
		t.Errorf("external erases = %v, want [1]", external.Erases)
	}
	if len(internal.Erases) != 0 {
		t.Errorf("internal flash erased: %v", internal.Erases)
	}
}

func TestFlashMapUnmapped(t *testing.T) {
	m := &FlashMap{
		SectorSize: SectorSize,
		Regions:    []FlashRegion{{Base: 0, Size: 0x2000, Driver: coretest.NewFlash(0x2000, SectorSize)}},
	}
	if err := m.Read(0x3000, make([]byte, 4)); err != ErrFlashUnmapped {
		t.Errorf("Read outside regions: err = %v", err)
	}
	// A range straddling the end of a region is rejected as a whole.
	if err := m.Read(0x1FFE, make([]byte, 4)); err != ErrFlashUnmapped {
		t.Errorf("straddling Read: err = %v", err)
	}
}

// blockDev is a byte slice with 4 KiB erase blocks.
type blockDev struct {
	data  []byte
	short bool
}

func (d *blockDev) ReadAt(p []byte, off int64) (int, error) {
	n := copy(p, d.data[off:])
	if d.short {
		n--
	}
	return n, nil
}

func (d *blockDev) WriteAt(p []byte, off int64) (int, error) {
	return copy(d.data[off:], p), nil
}

func (d *blockDev) EraseBlocks(start, length int64) error {
	for i := start * 4096; i < (start+length)*4096; i++ {
		d.data[i] = 0xFF
	}
	return nil
}

func (d *blockDev) EraseBlockSize() int64 { return 4096 }

func TestBlockFlash(t *testing.T) {
	dev := &blockDev{data: make([]byte, 0x3000)}
	var f FlashDriver = BlockFlash{Dev: dev}

	if err := f.EraseSector(1); err != nil {
		t.Fatalf("EraseSector: %v", err)
	}
	if dev.data[0xFFF] != 0 || dev.data[0x1000] != 0xFF || dev.data[0x1FFF] != 0xFF || dev.data[0x2000] != 0 {
		t.Error("erase touched the wrong block")
	}
	if err := f.Write(0x1004, []byte{7, 8}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	buf := make([]byte, 2)
	if err := f.Read(0x1004, buf); err != nil || buf[0] != 7 || buf[1] != 8 {
		t.Errorf("Read = % x, %v", buf, err)
	}

	dev.short = true
	if err := f.Read(0, buf); err != ErrShortTransfer {
		t.Errorf("short read error = %v", err)
	}
}
