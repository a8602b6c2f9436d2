// Package bootcmd persists the boot command handed from the application to
// the bootloader. Two backings are used: retention memory that survives warm
// resets (fast store) and optional flash slots that survive power loss
// (durable store).
package bootcmd

import (
	"gopper-eboot/core"
	"gopper-eboot/protocol"
)

// FastStoreOffset is the word offset of the record inside retention memory.
const FastStoreOffset = 0

const noSlot = -1

// Store reads, writes and clears the pending boot command.
type Store struct {
	fast   core.RetentionMemory
	flash  core.FlashDriver
	layout core.Layout

	consumed int // durable slot handed out by Read, or noSlot
	words    [protocol.CommandWords]uint32
	slotBuf  [protocol.SlotSize]byte
}

// New returns a store over retention memory. When flash is non-nil and the
// layout has durable slots, the durable store is used as well.
func New(fast core.RetentionMemory, flash core.FlashDriver, layout core.Layout) *Store {
	return &Store{
		fast:     fast,
		flash:    flash,
		layout:   layout,
		consumed: noSlot,
	}
}

// NewFromCore builds a store from the registered platform drivers.
func NewFromCore(layout core.Layout) *Store {
	return New(core.MustRetentionMemory(), core.MustFlash(), layout)
}

func (s *Store) durable() bool {
	return s.flash != nil && s.layout.DurableSlots > 0
}

// Read loads the pending command into cmd. It reports false when there is
// no valid command or the fast-store command has been replayed too often.
func (s *Store) Read(cmd *protocol.Command) bool {
	if s.durable() {
		if slot, ok := s.readDurable(cmd); ok {
			s.consumed = slot
			return true
		}
	}
	return s.readFast(cmd)
}

func (s *Store) readFast(cmd *protocol.Command) bool {
	s.fast.LoadWords(FastStoreOffset, s.words[:])
	cmd.SetWords(s.words[:])

	retries := cmd.Args[protocol.RetryArg]
	cmd.Args[protocol.RetryArg] = 0
	if !cmd.Valid() {
		return false
	}
	if retries >= s.layout.MaxRetries {
		return false
	}
	s.words[2+protocol.RetryArg] = retries + 1
	s.fast.StoreWords(FastStoreOffset, s.words[:])
	return true
}

// Write stamps cmd and persists it. The retry counter word is reserved and
// always written as zero. The fast store is written even when programming
// the durable slot fails; that failure is still returned.
func (s *Store) Write(cmd *protocol.Command) error {
	cmd.Args[protocol.RetryArg] = 0
	cmd.Stamp()
	var err error
	if s.durable() {
		err = s.writeDurable(cmd)
	}
	s.words = cmd.Words()
	s.fast.StoreWords(FastStoreOffset, s.words[:])
	return err
}

// Clear invalidates the durable slot consumed by Read. When the command came
// from the fast store this is a no-op: the retry counter bounds replays.
func (s *Store) Clear() {
	if s.consumed == noSlot {
		return
	}
	s.clearDurable(s.consumed)
	s.fast.LoadWords(FastStoreOffset, s.words[:])
	s.words[0] = 0
	s.words[protocol.CommandWords-1] = 0
	s.fast.StoreWords(FastStoreOffset, s.words[:])
	s.consumed = noSlot
}

// Consumed reports the durable slot returned by the last Read.
func (s *Store) Consumed() (slot int, ok bool) {
	return s.consumed, s.consumed != noSlot
}
