package protocol

import "encoding/binary"

// Command magic. The low bits under the mask are free for format revisions.
const (
	CommandMagic     = 0xEB001000
	CommandMagicMask = 0xFFFFF000
)

// Action selects what the bootloader does with a command.
type Action uint32

const (
	ActionCopyRaw Action = 0x00000001
	ActionLoadApp Action = 0xFFFFFFFF
)

func (a Action) String() string {
	switch a {
	case ActionCopyRaw:
		return "COPY_RAW"
	case ActionLoadApp:
		return "LOAD_APP"
	default:
		return "INVALID"
	}
}

// Argument positions
const (
	ArgSrc     = 0 // COPY_RAW source address
	ArgDst     = 1 // COPY_RAW destination address
	ArgSize    = 2 // COPY_RAW byte length
	ArgAppAddr = 0 // LOAD_APP image address
	RetryArg   = CommandArgs - 1
)

// Command is the persisted boot command record.
type Command struct {
	Magic  uint32
	Action Action
	Args   [CommandArgs]uint32
	CRC32  uint32
}

// NewLoadApp returns an unstamped LOAD_APP command for the image at addr.
func NewLoadApp(addr uint32) Command {
	cmd := Command{Action: ActionLoadApp}
	cmd.Args[ArgAppAddr] = addr
	return cmd
}

// NewCopyRaw returns an unstamped COPY_RAW command.
func NewCopyRaw(src, dst, size uint32) Command {
	cmd := Command{Action: ActionCopyRaw}
	cmd.Args[ArgSrc] = src
	cmd.Args[ArgDst] = dst
	cmd.Args[ArgSize] = size
	return cmd
}

// MarshalTo serializes the command into buf, which must hold CommandSize bytes.
func (c *Command) MarshalTo(buf []byte) {
	_ = buf[CommandSize-1]
	binary.LittleEndian.PutUint32(buf[0:], c.Magic)
	binary.LittleEndian.PutUint32(buf[4:], uint32(c.Action))
	for i, a := range c.Args {
		binary.LittleEndian.PutUint32(buf[8+i*WordSize:], a)
	}
	binary.LittleEndian.PutUint32(buf[CommandCRCOffset:], c.CRC32)
}

// Marshal returns the serialized command.
func (c *Command) Marshal() []byte {
	buf := make([]byte, CommandSize)
	c.MarshalTo(buf)
	return buf
}

// Unmarshal decodes a command from buf, which must hold CommandSize bytes.
func (c *Command) Unmarshal(buf []byte) {
	_ = buf[CommandSize-1]
	c.Magic = binary.LittleEndian.Uint32(buf[0:])
	c.Action = Action(binary.LittleEndian.Uint32(buf[4:]))
	for i := range c.Args {
		c.Args[i] = binary.LittleEndian.Uint32(buf[8+i*WordSize:])
	}
	c.CRC32 = binary.LittleEndian.Uint32(buf[CommandCRCOffset:])
}

// Words returns the record as CommandWords 32-bit words, in storage order.
func (c *Command) Words() (w [CommandWords]uint32) {
	w[0] = c.Magic
	w[1] = uint32(c.Action)
	copy(w[2:2+CommandArgs], c.Args[:])
	w[CommandWords-1] = c.CRC32
	return w
}

// SetWords loads the command from storage-order words.
func (c *Command) SetWords(w []uint32) {
	_ = w[CommandWords-1]
	c.Magic = w[0]
	c.Action = Action(w[1])
	copy(c.Args[:], w[2:2+CommandArgs])
	c.CRC32 = w[CommandWords-1]
}

// CalculateCRC computes the CRC over every field preceding CRC32.
func (c *Command) CalculateCRC() uint32 {
	var buf [CommandSize]byte
	c.MarshalTo(buf[:])
	return CRC32(buf[:CommandCRCOffset])
}

// Stamp sets the magic and recomputes the CRC.
func (c *Command) Stamp() {
	c.Magic = CommandMagic
	c.CRC32 = c.CalculateCRC()
}

// MagicValid reports whether the magic matches under its mask.
func (c *Command) MagicValid() bool {
	return c.Magic&CommandMagicMask == CommandMagic
}

// Valid reports whether both the magic and the CRC check out.
func (c *Command) Valid() bool {
	return c.MagicValid() && c.CRC32 == c.CalculateCRC()
}
