// Package eboot is the boot decision state machine: read the pending
// command, run a staged copy, then load the application.
package eboot

//go:generate mockgen -destination=mocks/mock_eboot.go -package=mocks gopper-eboot/eboot CommandStore,ImageCopier,AppLoader
//go:generate mockgen -destination=mocks/mock_system.go -package=mocks gopper-eboot/core System

import (
	"gopper-eboot/apploader"
	"gopper-eboot/bootcmd"
	"gopper-eboot/core"
	"gopper-eboot/flashcopy"
	"gopper-eboot/protocol"
)

// CommandStore is the persisted command handoff.
type CommandStore interface {
	Read(cmd *protocol.Command) bool
	Clear()
}

// ImageCopier copies (and optionally inflates) an image between regions.
type ImageCopier interface {
	Copy(src, dst, size uint32, verify bool) error
}

// AppLoader loads an image and jumps to it.
type AppLoader interface {
	LoadAndJump(flashAddr uint32) error
}

// State is a step of the boot sequence.
type State uint8

const (
	StateStart State = iota
	StateHaveCommand
	StateNoCommand
	StateDispatch
	StateCopy
	StateClearCommand
	StateLoad
	StateJumped // loader returned success; only reachable off-target
	StateReset
	StateHalted
)

func (s State) String() string {
	switch s {
	case StateStart:
		return "START"
	case StateHaveCommand:
		return "HAVE_RTC_COMMAND"
	case StateNoCommand:
		return "NO_COMMAND"
	case StateDispatch:
		return "DISPATCH"
	case StateCopy:
		return "COPY"
	case StateClearCommand:
		return "CLEAR_COMMAND"
	case StateLoad:
		return "LOAD"
	case StateJumped:
		return "JUMPED"
	case StateReset:
		return "RESET"
	case StateHalted:
		return "HALTED"
	default:
		return "UNKNOWN"
	}
}

// Bootloader wires the components together.
type Bootloader struct {
	Store  CommandStore
	Copier ImageCopier
	Loader AppLoader
	Guard  *core.WatchdogGuard
	System core.System
	Layout core.Layout

	// Trace lists the states visited by the last Run.
	Trace []State
}

// NewFromCore builds a bootloader from the registered platform drivers.
func NewFromCore(layout core.Layout) *Bootloader {
	guard := core.NewWatchdogGuard(core.MustWatchdog())
	return &Bootloader{
		Store:  bootcmd.NewFromCore(layout),
		Copier: flashcopy.New(core.MustFlash(), guard, layout),
		Loader: apploader.NewFromCore(layout),
		Guard:  guard,
		System: core.MustSystem(),
		Layout: layout,
	}
}

func (b *Bootloader) enter(s State) {
	b.Trace = append(b.Trace, s)
}

// Run executes one boot. On hardware it never returns; off-target it returns
// the terminal state.
func (b *Bootloader) Run() State {
	b.Trace = b.Trace[:0]
	if b.Guard == nil {
		b.Guard = core.NewWatchdogGuard(nil)
	}
	b.enter(StateStart)

	var cmd protocol.Command
	clearCmd := false
	if b.Store.Read(&cmd) {
		clearCmd = true
		b.enter(StateHaveCommand)
		core.RecordEvent(core.EvtCommandRead, 0, uint32(cmd.Action), cmd.Args[0])
	} else {
		cmd = protocol.NewLoadApp(b.Layout.DefaultAppAddr)
		b.enter(StateNoCommand)
		core.RecordEvent(core.EvtDefaultApp, 0, cmd.Args[protocol.ArgAppAddr], 0)
	}

	b.enter(StateDispatch)
	var res error

	if cmd.Action == protocol.ActionCopyRaw {
		b.enter(StateCopy)
		core.DebugPrint("cp:")
		b.Guard.Suspend()
		res = b.Copier.Copy(cmd.Args[protocol.ArgSrc], cmd.Args[protocol.ArgDst], cmd.Args[protocol.ArgSize], false)
		b.Guard.Resume()
		core.PutChar(core.CodeDigit(core.CodeOf(res)))
		core.PutChar('\n')
		core.RecordEvent(core.EvtCopy, core.CodeOf(res), cmd.Args[protocol.ArgSrc], cmd.Args[protocol.ArgDst])
		if res == nil {
			cmd.Action = protocol.ActionLoadApp
			cmd.Args[protocol.ArgAppAddr] = cmd.Args[protocol.ArgDst]
		}
	}

	if clearCmd {
		b.enter(StateClearCommand)
		b.Store.Clear()
		core.RecordEvent(core.EvtCommandClear, 0, 0, 0)
	}

	if cmd.Action == protocol.ActionLoadApp {
		b.enter(StateLoad)
		core.DebugPrint("ld\n")
		res = b.Loader.LoadAndJump(cmd.Args[protocol.ArgAppAddr])
		core.RecordEvent(core.EvtLoad, core.CodeOf(res), cmd.Args[protocol.ArgAppAddr], 0)
		if res == nil {
			b.enter(StateJumped)
			return StateJumped
		}
		core.DebugPrint("e:")
		core.PutChar(core.CodeDigit(core.CodeOf(res)))
		core.PutChar('\n')
	}

	if res != nil {
		b.enter(StateReset)
		core.RecordEvent(core.EvtReset, core.CodeOf(res), 0, 0)
		b.System.Reset()
		return StateReset
	}

	b.enter(StateHalted)
	core.RecordEvent(core.EvtHalt, 0, uint32(cmd.Action), 0)
	b.System.Halt()
	return StateHalted
}
