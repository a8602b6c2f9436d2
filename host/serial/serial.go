package serial

import (
	"io"
)

// Port represents a serial port interface
// This abstraction allows for different implementations:
// - Native serial (using github.com/tarm/serial)
// - Mock serial (for testing)
type Port interface {
	io.ReadWriteCloser

	// Flush flushes any buffered data
	Flush() error
}

// Config holds serial port configuration
type Config struct {
	// Device path (e.g., "/dev/ttyUSB0", "COM3")
	Device string

	// Baud rate of the debug UART
	Baud int

	// Read timeout in milliseconds (0 = blocking)
	ReadTimeout int
}

// BootBaud is the rate the boot ROM leaves the UART at; the bootloader
// prints its diagnostics without reconfiguring it.
const BootBaud = 74880

// DefaultConfig returns a default configuration for watching a boot
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        BootBaud,
		ReadTimeout: 100, // 100ms read timeout
	}
}
