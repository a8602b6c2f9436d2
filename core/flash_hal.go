package core

// FlashDriver is the abstract flash interface that bootloader code uses.
// Platform-specific implementations wrap the ROM routines or a block device.
// All calls block until the device reports completion.
type FlashDriver interface {
	// EraseSector erases one sector, identified by its index (addr / sector size).
	EraseSector(sector uint32) error

	// Read copies len(buf) bytes starting at addr into buf.
	Read(addr uint32, buf []byte) error

	// Write programs buf at addr. Programming can only clear bits, so the
	// target range must be erased unless the caller relies on 1->0 transitions.
	Write(addr uint32, buf []byte) error
}

// Global singleton used by target mains.
var flashDriver FlashDriver

// SetFlashDriver is called by target-specific code to register its driver.
func SetFlashDriver(d FlashDriver) {
	flashDriver = d
}

// MustFlash returns the configured driver or panics if missing.
func MustFlash() FlashDriver {
	if flashDriver == nil {
		panic("flash driver not configured")
	}
	return flashDriver
}

// FlashRegion maps an address window onto a driver. Addresses handed to the
// driver are relative to Base.
type FlashRegion struct {
	Base   uint32
	Size   uint32
	Driver FlashDriver
}

func (r *FlashRegion) contains(addr uint32) bool {
	return addr >= r.Base && addr-r.Base < r.Size
}

// FlashMap presents several flash devices as one address space. Sector
// indices passed to EraseSector are global; they are translated per region.
type FlashMap struct {
	SectorSize uint32
	Regions    []FlashRegion
}

// ErrFlashUnmapped is returned for accesses outside every region.
var ErrFlashUnmapped = flashMapError("address not mapped")

type flashMapError string

func (e flashMapError) Error() string { return string(e) }

func (m *FlashMap) find(addr, n uint32) *FlashRegion {
	for i := range m.Regions {
		r := &m.Regions[i]
		if r.contains(addr) && (n == 0 || r.contains(addr+n-1)) {
			return r
		}
	}
	return nil
}

func (m *FlashMap) EraseSector(sector uint32) error {
	addr := sector * m.SectorSize
	r := m.find(addr, m.SectorSize)
	if r == nil {
		return ErrFlashUnmapped
	}
	return r.Driver.EraseSector((addr - r.Base) / m.SectorSize)
}

func (m *FlashMap) Read(addr uint32, buf []byte) error {
	r := m.find(addr, uint32(len(buf)))
	if r == nil {
		return ErrFlashUnmapped
	}
	return r.Driver.Read(addr-r.Base, buf)
}

func (m *FlashMap) Write(addr uint32, buf []byte) error {
	r := m.find(addr, uint32(len(buf)))
	if r == nil {
		return ErrFlashUnmapped
	}
	return r.Driver.Write(addr-r.Base, buf)
}

// BlockDevice is the ReadAt/WriteAt/EraseBlocks shape shared by TinyGo's
// machine.Flash and the SPI NOR driver.
type BlockDevice interface {
	ReadAt(p []byte, off int64) (n int, err error)
	WriteAt(p []byte, off int64) (n int, err error)
	EraseBlocks(start, length int64) error
	EraseBlockSize() int64
}

// BlockFlash adapts a BlockDevice whose erase block equals the sector size.
type BlockFlash struct {
	Dev BlockDevice
}

// ErrShortTransfer is returned when a device moves fewer bytes than asked.
var ErrShortTransfer = flashMapError("short flash transfer")

func (b BlockFlash) EraseSector(sector uint32) error {
	return b.Dev.EraseBlocks(int64(sector), 1)
}

func (b BlockFlash) Read(addr uint32, buf []byte) error {
	n, err := b.Dev.ReadAt(buf, int64(addr))
	if err != nil {
		return err
	}
	if n != len(buf) {
		return ErrShortTransfer
	}
	return nil
}

func (b BlockFlash) Write(addr uint32, buf []byte) error {
	n, err := b.Dev.WriteAt(buf, int64(addr))
	if err != nil {
		return err
	}
	if n != len(buf) {
		return ErrShortTransfer
	}
	return nil
}
