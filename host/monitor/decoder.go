// Package monitor decodes the bootloader's diagnostic output as it appears
// on the debug UART.
package monitor

import (
	"bufio"
	"io"
	"strings"

	"gopper-eboot/apploader"
	"gopper-eboot/flashcopy"
)

// Kind classifies a diagnostic line.
type Kind int

const (
	KindText      Kind = iota // anything that is not a bootloader line
	KindCopy                  // "cp:N"
	KindLoad                  // "ld"
	KindLoadError             // "e:N"
)

func (k Kind) String() string {
	switch k {
	case KindCopy:
		return "copy"
	case KindLoad:
		return "load"
	case KindLoadError:
		return "load-error"
	default:
		return "text"
	}
}

// Event is one decoded line.
type Event struct {
	Kind    Kind
	Code    uint8
	OK      bool
	Meaning string
	Line    string
}

// Decode interprets a single line with the trailing newline removed.
func Decode(line string) Event {
	line = strings.TrimRight(line, "\r")
	ev := Event{Kind: KindText, Line: line, OK: true}
	switch {
	case line == "ld":
		ev.Kind = KindLoad
		ev.Meaning = "loading application"
	case strings.HasPrefix(line, "cp:") && len(line) == 4:
		ev.Kind = KindCopy
		ev.Code = digit(line[3])
		ev.OK = ev.Code == 0
		if ev.OK {
			ev.Meaning = "copy complete"
		} else {
			ev.Meaning = flashcopy.Error(ev.Code).Error()
		}
	case strings.HasPrefix(line, "e:") && len(line) == 3:
		ev.Kind = KindLoadError
		ev.Code = digit(line[2])
		ev.OK = false
		ev.Meaning = apploader.Error(ev.Code).Error()
	}
	return ev
}

func digit(c byte) uint8 {
	if c < '0' || c > '9' {
		return 9
	}
	return c - '0'
}

// Scan reads lines from r until EOF or a read error and reports each
// decoded event to fn. Boot ROM noise is reported as KindText.
func Scan(r io.Reader, fn func(Event)) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		fn(Decode(sc.Text()))
	}
	return sc.Err()
}

// Decoder assembles bytes into lines and emits one Event per line. It
// implements io.Writer so it can be fed straight from a serial port or
// installed as the bootloader's debug sink in simulation.
type Decoder struct {
	fn   func(Event)
	line []byte
}

// NewDecoder returns a decoder reporting to fn.
func NewDecoder(fn func(Event)) *Decoder {
	return &Decoder{fn: fn}
}

// PutChar feeds a single byte.
func (d *Decoder) PutChar(b byte) {
	if b == '\n' {
		d.fn(Decode(string(d.line)))
		d.line = d.line[:0]
		return
	}
	d.line = append(d.line, b)
}

func (d *Decoder) Write(p []byte) (int, error) {
	for _, b := range p {
		d.PutChar(b)
	}
	return len(p), nil
}

// Flush emits any partial line.
func (d *Decoder) Flush() {
	if len(d.line) > 0 {
		d.fn(Decode(string(d.line)))
		d.line = d.line[:0]
	}
}
