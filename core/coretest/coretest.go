// Package coretest provides in-memory implementations of the core hardware
// interfaces for tests and simulation.
package coretest

import (
	"errors"
	"sort"
)

// ErrInjected is returned by operations armed to fail.
var ErrInjected = errors.New("injected failure")

// Flash is a NOR flash image: erase sets bytes to 0xFF, writes AND data in.
type Flash struct {
	Data       []byte
	SectorSize uint32

	// FailErase, FailRead and FailWrite make the matching call fail when the
	// accessed range covers the address. Zero-length maps mean no failures.
	FailErase map[uint32]bool // by sector index
	FailRead  map[uint32]bool // by address
	FailWrite map[uint32]bool // by address

	Erases []uint32
	Reads  int
	Writes int
}

// NewFlash returns an erased flash of size bytes.
func NewFlash(size, sectorSize uint32) *Flash {
	f := &Flash{
		Data:       make([]byte, size),
		SectorSize: sectorSize,
		FailErase:  map[uint32]bool{},
		FailRead:   map[uint32]bool{},
		FailWrite:  map[uint32]bool{},
	}
	for i := range f.Data {
		f.Data[i] = 0xFF
	}
	return f
}

func (f *Flash) inRange(addr uint32, n int) bool {
	return uint64(addr)+uint64(n) <= uint64(len(f.Data))
}

func hits(m map[uint32]bool, addr uint32, n int) bool {
	for a := range m {
		if a >= addr && a < addr+uint32(n) {
			return true
		}
	}
	return false
}

func (f *Flash) EraseSector(sector uint32) error {
	if f.FailErase[sector] {
		return ErrInjected
	}
	addr := sector * f.SectorSize
	if !f.inRange(addr, int(f.SectorSize)) {
		return errors.New("erase out of range")
	}
	f.Erases = append(f.Erases, sector)
	for i := addr; i < addr+f.SectorSize; i++ {
		f.Data[i] = 0xFF
	}
	return nil
}

func (f *Flash) Read(addr uint32, buf []byte) error {
	if hits(f.FailRead, addr, len(buf)) {
		return ErrInjected
	}
	if !f.inRange(addr, len(buf)) {
		return errors.New("read out of range")
	}
	f.Reads++
	copy(buf, f.Data[addr:])
	return nil
}

func (f *Flash) Write(addr uint32, buf []byte) error {
	if hits(f.FailWrite, addr, len(buf)) {
		return ErrInjected
	}
	if !f.inRange(addr, len(buf)) {
		return errors.New("write out of range")
	}
	f.Writes++
	for i, b := range buf {
		f.Data[int(addr)+i] &= b
	}
	return nil
}

// Program copies data into the image directly, bypassing NOR semantics.
func (f *Flash) Program(addr uint32, data []byte) {
	copy(f.Data[addr:], data)
}

// Memory is a sparse byte-addressed memory.
type Memory struct {
	Bytes  map[uint32]byte
	Stores int
}

func NewMemory() *Memory {
	return &Memory{Bytes: map[uint32]byte{}}
}

func (m *Memory) Store(addr uint32, data []byte) {
	m.Stores++
	for i, b := range data {
		m.Bytes[addr+uint32(i)] = b
	}
}

// Load returns n bytes at addr; unwritten bytes read as zero.
func (m *Memory) Load(addr uint32, n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = m.Bytes[addr+uint32(i)]
	}
	return out
}

// Touched reports whether any byte in [addr, addr+n) was written.
func (m *Memory) Touched(addr uint32, n int) bool {
	for i := 0; i < n; i++ {
		if _, ok := m.Bytes[addr+uint32(i)]; ok {
			return true
		}
	}
	return false
}

// Addresses returns the written addresses in ascending order.
func (m *Memory) Addresses() []uint32 {
	out := make([]uint32, 0, len(m.Bytes))
	for a := range m.Bytes {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Retention is word-addressed retention memory.
type Retention struct {
	Words []uint32
}

func NewRetention(words int) *Retention {
	return &Retention{Words: make([]uint32, words)}
}

func (r *Retention) LoadWords(off int, dst []uint32) {
	copy(dst, r.Words[off:])
}

func (r *Retention) StoreWords(off int, src []uint32) {
	copy(r.Words[off:], src)
}

// Watchdog records enable/disable calls.
type Watchdog struct {
	Enabled bool
	Calls   []string
}

func (w *Watchdog) Enable() {
	w.Enabled = true
	w.Calls = append(w.Calls, "enable")
}

func (w *Watchdog) Disable() {
	w.Enabled = false
	w.Calls = append(w.Calls, "disable")
}

// System records the one-way control calls; on the host they return.
type System struct {
	Jumped     bool
	Entry      uint32
	SP         uint32
	ResetCount int
	Halted     bool
}

func (s *System) Transfer(entry, sp uint32) {
	s.Jumped = true
	s.Entry = entry
	s.SP = sp
}

func (s *System) Reset() {
	s.ResetCount++
}

func (s *System) Halt() {
	s.Halted = true
}

// CharSink collects diagnostic bytes.
type CharSink struct {
	Out []byte
}

func (c *CharSink) PutChar(b byte) {
	c.Out = append(c.Out, b)
}

func (c *CharSink) String() string {
	return string(c.Out)
}
