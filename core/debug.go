package core

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

// PutCharFunc writes one raw diagnostic byte. It is best-effort.
type PutCharFunc func(byte)

// BootEvent captures one step of the boot state machine for post-mortem analysis
type BootEvent struct {
	EventType uint8  // Event type code
	Code      uint8  // Result code of the step, 0 on success
	Value1    uint32 // Context-dependent value
	Value2    uint32 // Context-dependent value
}

// Event type codes
const (
	EvtCommandRead  = 1 // command store read, Value1 = action
	EvtDefaultApp   = 2 // no command, default LOAD_APP synthesized
	EvtCopy         = 3 // copy finished, Value1 = src, Value2 = dst
	EvtCommandClear = 4 // consumed command cleared
	EvtLoad         = 5 // loader returned, Value1 = flash address
	EvtReset        = 6 // hardware reset requested
	EvtHalt         = 7 // no forward progress, halted
	EvtClearFailed  = 8 // durable slot could not be cleared, Value1 = slot
)

const (
	EventRingSize = 16 // Keep last 16 events
)

var (
	// debugPrintln is the global debug print function (can be set by platform code)
	debugPrintln DebugWriter = func(s string) {} // No-op by default

	// debugPutChar is the raw diagnostic byte channel
	debugPutChar PutCharFunc = func(c byte) {}

	// debugEnabled controls whether DebugPrintln output is active
	debugEnabled bool = false

	eventRing     [EventRingSize]BootEvent
	eventRingHead uint8
)

// SetDebugWriter sets the platform-specific debug output function
func SetDebugWriter(writer DebugWriter) {
	debugPrintln = writer
}

// SetDebugPutChar sets the raw diagnostic byte output
func SetDebugPutChar(fn PutCharFunc) {
	if fn == nil {
		fn = func(c byte) {}
	}
	debugPutChar = fn
}

// SetDebugEnabled enables or disables verbose debug output
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// IsDebugEnabled returns whether debug output is enabled
func IsDebugEnabled() bool {
	return debugEnabled
}

// DebugPrintln writes a debug message using the platform-specific writer
func DebugPrintln(msg string) {
	if debugEnabled && debugPrintln != nil {
		debugPrintln(msg)
	}
}

// PutChar writes one diagnostic byte. Diagnostics are always on.
func PutChar(c byte) {
	debugPutChar(c)
}

// DebugPrint writes s byte by byte on the diagnostic channel.
func DebugPrint(s string) {
	for i := 0; i < len(s); i++ {
		debugPutChar(s[i])
	}
}

// RecordEvent captures a boot event in the ring buffer
func RecordEvent(eventType, code uint8, value1, value2 uint32) {
	idx := eventRingHead
	eventRing[idx] = BootEvent{
		EventType: eventType,
		Code:      code,
		Value1:    value1,
		Value2:    value2,
	}
	eventRingHead = (idx + 1) % EventRingSize
}

// Events returns recorded events from oldest to newest
func Events() []BootEvent {
	out := make([]BootEvent, 0, EventRingSize)
	start := eventRingHead
	for i := uint8(0); i < EventRingSize; i++ {
		evt := eventRing[(start+i)%EventRingSize]
		if evt.EventType == 0 {
			continue // Empty slot
		}
		out = append(out, evt)
	}
	return out
}

// EventName returns a short name for an event type
func EventName(eventType uint8) string {
	switch eventType {
	case EvtCommandRead:
		return "CMD_READ"
	case EvtDefaultApp:
		return "DEFAULT_APP"
	case EvtCopy:
		return "COPY"
	case EvtCommandClear:
		return "CMD_CLEAR"
	case EvtLoad:
		return "LOAD"
	case EvtReset:
		return "RESET"
	case EvtHalt:
		return "HALT"
	case EvtClearFailed:
		return "CLEAR_FAILED"
	default:
		return "UNKNOWN"
	}
}

// DumpEvents outputs the event ring through the debug writer
func DumpEvents() {
	if debugPrintln == nil {
		return
	}
	debugPrintln("[BOOT] === Event Ring Dump ===")
	for _, evt := range Events() {
		debugPrintln("[BOOT] " + EventName(evt.EventType) +
			" code=" + itoa(int(evt.Code)) +
			" v1=" + hex32(evt.Value1) +
			" v2=" + hex32(evt.Value2))
	}
	debugPrintln("[BOOT] === End Dump ===")
}

// ClearEvents clears the event ring
func ClearEvents() {
	for i := range eventRing {
		eventRing[i] = BootEvent{}
	}
	eventRingHead = 0
}
