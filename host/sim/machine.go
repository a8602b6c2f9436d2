package sim

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"gopper-eboot/bootcmd"
	"gopper-eboot/core"
	"gopper-eboot/core/coretest"
	"gopper-eboot/eboot"
	"gopper-eboot/host/monitor"
	"gopper-eboot/protocol"
)

// Machine is a simulated board: file-backed flash and retention memory,
// sparse RAM and a CPU that records where control was handed.
type Machine struct {
	Layout    core.Layout
	Flash     *FileFlash
	Retention *FileRetention
	RAM       *coretest.Memory
	CPU       *coretest.System
	Watchdog  *coretest.Watchdog

	log    logrus.FieldLogger
	events []monitor.Event
}

// Result summarises one simulated boot.
type Result struct {
	State  eboot.State
	Trace  []eboot.State
	Entry  uint32
	SP     uint32
	Events []monitor.Event
	Boots  int
}

// NewMachine opens the files named by cfg.
func NewMachine(cfg *Config, log logrus.FieldLogger) (*Machine, error) {
	layout, err := cfg.BoardLayout()
	if err != nil {
		return nil, err
	}
	flash, err := OpenFileFlash(cfg.FlashFile, cfg.FlashSize, layout.SectorSize)
	if err != nil {
		return nil, err
	}
	rtc, err := OpenFileRetention(cfg.RetentionFile, protocol.CommandWords)
	if err != nil {
		flash.Close()
		return nil, err
	}
	return &Machine{
		Layout:    layout,
		Flash:     flash,
		Retention: rtc,
		RAM:       coretest.NewMemory(),
		CPU:       &coretest.System{},
		Watchdog:  &coretest.Watchdog{Enabled: true},
		log:       log,
	}, nil
}

// Store returns a command store over the machine's flash and retention
// memory, as the application would use it.
func (m *Machine) Store() *bootcmd.Store {
	return bootcmd.New(m.Retention, m.Flash, m.Layout)
}

// install registers the machine's devices as the platform drivers.
func (m *Machine) install() {
	core.SetFlashDriver(m.Flash)
	core.SetWatchdog(m.Watchdog)
	core.SetSystem(m.CPU)
	core.SetMemory(m.RAM)
	core.SetRetentionMemory(m.Retention)

	dec := monitor.NewDecoder(func(ev monitor.Event) {
		m.events = append(m.events, ev)
		monitor.LogEvent(m.log, ev)
	})
	core.SetDebugPutChar(dec.PutChar)
}

// Boot runs the bootloader once from reset.
func (m *Machine) Boot() (Result, error) {
	m.RAM = coretest.NewMemory()
	*m.CPU = coretest.System{}
	m.events = nil
	core.ClearEvents()
	m.install()
	defer core.SetDebugPutChar(nil)

	bl := eboot.NewFromCore(m.Layout)
	state := bl.Run()

	res := Result{
		State:  state,
		Trace:  append([]eboot.State(nil), bl.Trace...),
		Events: m.events,
		Boots:  1,
	}
	if m.CPU.Jumped {
		res.Entry = m.CPU.Entry
		res.SP = m.CPU.SP
	}
	m.log.WithFields(logrus.Fields{
		"state": state.String(),
		"entry": core.Hex32(res.Entry),
	}).Info("boot finished")
	for _, ev := range core.Events() {
		m.log.WithFields(logrus.Fields{
			"code": ev.Code,
			"v1":   core.Hex32(ev.Value1),
			"v2":   core.Hex32(ev.Value2),
		}).Debug(core.EventName(ev.EventType))
	}

	if err := m.Flash.Flush(); err != nil {
		return res, err
	}
	return res, m.Retention.Err()
}

// BootUntilJump reboots after every reset until the bootloader hands
// control to an application, halts, or max boots have run.
func (m *Machine) BootUntilJump(max int) (Result, error) {
	var res Result
	for i := 1; i <= max; i++ {
		var err error
		res, err = m.Boot()
		res.Boots = i
		if err != nil {
			return res, err
		}
		if res.State != eboot.StateReset {
			return res, nil
		}
		m.log.WithField("boot", i).Warn("bootloader requested reset")
	}
	return res, errors.Errorf("no application started after %d boots", max)
}

// Close releases the flash mapping.
func (m *Machine) Close() error {
	return m.Flash.Close()
}
