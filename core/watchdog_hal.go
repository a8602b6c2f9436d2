package core

// Watchdog is the hardware watchdog as seen by the bootloader.
type Watchdog interface {
	Enable()
	Disable()
}

// WatchdogGuard brackets long-running work. Suspend calls may nest; only the
// outermost pair touches the hardware.
type WatchdogGuard struct {
	wdt   Watchdog
	depth uint8
}

// NewWatchdogGuard wraps wdt. A nil watchdog makes the guard a no-op.
func NewWatchdogGuard(wdt Watchdog) *WatchdogGuard {
	return &WatchdogGuard{wdt: wdt}
}

// Suspend disables the watchdog on the first call.
func (g *WatchdogGuard) Suspend() {
	if g.depth == 0 && g.wdt != nil {
		g.wdt.Disable()
	}
	g.depth++
}

// Resume re-enables the watchdog once every Suspend has been matched.
// Unbalanced calls are ignored.
func (g *WatchdogGuard) Resume() {
	if g.depth == 0 {
		return
	}
	g.depth--
	if g.depth == 0 && g.wdt != nil {
		g.wdt.Enable()
	}
}

// Suspended reports whether a bracket is open.
func (g *WatchdogGuard) Suspended() bool {
	return g.depth > 0
}

// Global singleton used by target mains.
var watchdog Watchdog

// SetWatchdog is called by target-specific code to register its watchdog.
func SetWatchdog(w Watchdog) {
	watchdog = w
}

// MustWatchdog returns the configured watchdog or panics if missing.
func MustWatchdog() Watchdog {
	if watchdog == nil {
		panic("watchdog not configured")
	}
	return watchdog
}
