package monitor

import (
	"context"
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"gopper-eboot/host/serial"
)

// Watch reads diagnostics from port until ctx is cancelled or the port
// fails, logging each event. A read timeout surfaces as io.EOF or a zero
// read and is retried. On cancel the port is closed and Watch returns only
// after the reader has stopped, so no event is logged past the return.
func Watch(ctx context.Context, port serial.Port, log logrus.FieldLogger) error {
	dec := NewDecoder(func(ev Event) { LogEvent(log, ev) })
	buf := make([]byte, 256)
	errCh := make(chan error, 1)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			default:
			}
			n, err := port.Read(buf)
			if n > 0 {
				dec.Write(buf[:n])
				continue
			}
			if err != nil && err != io.EOF {
				errCh <- errors.Wrap(err, "serial read")
				return
			}
			time.Sleep(10 * time.Millisecond)
		}
	}()

	select {
	case <-ctx.Done():
		// Unblocks a Read stuck without a timeout.
		port.Close()
		<-done
		return nil
	case err := <-errCh:
		<-done
		return err
	}
}

// LogEvent writes ev to log at a level matching its outcome.
func LogEvent(log logrus.FieldLogger, ev Event) {
	if ev.Kind == KindText {
		if ev.Line != "" {
			log.WithField("line", ev.Line).Debug("uart")
		}
		return
	}
	entry := log.WithFields(logrus.Fields{
		"kind": ev.Kind.String(),
		"code": ev.Code,
	})
	if ev.OK {
		entry.Info(ev.Meaning)
	} else {
		entry.Error(ev.Meaning)
	}
}
