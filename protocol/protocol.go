// Package protocol implements the bootloader's persisted binary formats:
// the boot command record, the durable command slots and the flash image
// headers.
package protocol

// Version represents the bootloader version
const Version = "0.1.0"

// Record sizes in bytes
const (
	WordSize          = 4
	CommandArgs       = 29
	CommandWords      = 3 + CommandArgs // magic, action, args, crc32
	CommandSize       = CommandWords * WordSize
	CommandCRCOffset  = CommandSize - WordSize
	SlotSize          = WordSize + CommandSize
	IndexSize         = 3 * WordSize
	ImageHeaderSize   = 8
	SectionHeaderSize = 8
)
