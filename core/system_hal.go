package core

// System holds the one-way control primitives of the platform.
type System interface {
	// Transfer issues a memory barrier, sets the stack pointer to sp and
	// jumps to entry. It does not return on hardware.
	Transfer(entry, sp uint32)

	// Reset triggers a full hardware reset. It does not return on hardware.
	Reset()

	// Halt parks the CPU forever.
	Halt()
}

// Memory is the live address space segments are loaded into.
type Memory interface {
	Store(addr uint32, data []byte)
}

// RetentionMemory is word-addressed memory that survives warm resets.
// Offsets are in words.
type RetentionMemory interface {
	LoadWords(off int, dst []uint32)
	StoreWords(off int, src []uint32)
}

var (
	system    System
	memory    Memory
	retention RetentionMemory
)

// SetSystem registers the platform control primitives.
func SetSystem(s System) {
	system = s
}

// MustSystem returns the configured System or panics if missing.
func MustSystem() System {
	if system == nil {
		panic("system not configured")
	}
	return system
}

// SetMemory registers the loadable address space.
func SetMemory(m Memory) {
	memory = m
}

// MustMemory returns the configured Memory or panics if missing.
func MustMemory() Memory {
	if memory == nil {
		panic("memory not configured")
	}
	return memory
}

// SetRetentionMemory registers the fast command store backing.
func SetRetentionMemory(r RetentionMemory) {
	retention = r
}

// MustRetentionMemory returns the configured retention memory or panics if missing.
func MustRetentionMemory() RetentionMemory {
	if retention == nil {
		panic("retention memory not configured")
	}
	return retention
}
