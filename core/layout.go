package core

// Window is a loadable address range [Start, End). End == 0 extends the
// window to the top of the address space.
type Window struct {
	Name  string
	Start uint32
	End   uint32
}

// Contains reports whether addr lies inside the window.
func (w Window) Contains(addr uint32) bool {
	if addr < w.Start {
		return false
	}
	return w.End == 0 || addr < w.End
}

// Layout holds the board constants the bootloader depends on.
type Layout struct {
	SectorSize     uint32   // flash erase unit
	AppStartOffset uint32   // image header offset inside an application slot
	DefaultAppAddr uint32   // slot booted when no command is pending
	FlashMapBase   uint32   // CPU address of memory-mapped flash, 0 if none
	StackPointer   uint32   // stack pointer handed to the application
	FastStoreBase  uint32   // retention memory address (documentation for targets)
	MaxRetries     uint32   // fast store replays before a command is ignored
	DurableSlots   uint32   // 0 disables the durable store
	Windows        []Window // segment destinations that get loaded
}

// ESP8266 memory map
const (
	SectorSize     = 0x1000
	AppStartOffset = 0x1000
	FlashMapBase   = 0x40200000
	StackPointer   = 0x3FFFFFF0
	FastStoreBase  = 0x60001200
	MaxRetries     = 3
	DurableSlots   = 4
)

// DefaultWindows are the ESP8266 DRAM, IRAM and high peripheral/RTC windows.
func DefaultWindows() []Window {
	return []Window{
		{Name: "dram", Start: 0x3FFE8000, End: 0x40000000},
		{Name: "iram", Start: 0x40100000, End: 0x4010C000},
		{Name: "high", Start: 0x60000000, End: 0},
	}
}

// DefaultLayout returns the ESP8266 layout.
func DefaultLayout() Layout {
	return Layout{
		SectorSize:     SectorSize,
		AppStartOffset: AppStartOffset,
		DefaultAppAddr: 0,
		FlashMapBase:   FlashMapBase,
		StackPointer:   StackPointer,
		FastStoreBase:  FastStoreBase,
		MaxRetries:     MaxRetries,
		DurableSlots:   DurableSlots,
		Windows:        DefaultWindows(),
	}
}

// WindowFor returns the window holding addr.
func (l *Layout) WindowFor(addr uint32) (Window, bool) {
	for _, w := range l.Windows {
		if w.Contains(addr) {
			return w, true
		}
	}
	return Window{}, false
}

// Aligned reports whether addr is on a sector boundary.
func (l *Layout) Aligned(addr uint32) bool {
	return addr%l.SectorSize == 0
}

// LayoutError describes an invalid layout field.
type LayoutError struct {
	Field string
}

func (e *LayoutError) Error() string {
	return "invalid layout: " + e.Field
}

// Validate checks the layout for values the bootloader cannot work with.
func (l *Layout) Validate() error {
	if l.SectorSize == 0 || l.SectorSize&(l.SectorSize-1) != 0 {
		return &LayoutError{Field: "sector_size"}
	}
	if l.MaxRetries == 0 {
		return &LayoutError{Field: "max_retries"}
	}
	for _, w := range l.Windows {
		if w.End != 0 && w.End <= w.Start {
			return &LayoutError{Field: "window " + w.Name}
		}
	}
	return nil
}
