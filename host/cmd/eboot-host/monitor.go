package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"gopper-eboot/host/monitor"
	"gopper-eboot/host/serial"
)

func newMonitorCmd() *cobra.Command {
	var (
		device string
		baud   int
	)
	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Decode bootloader diagnostics from a serial port",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg := serial.DefaultConfig(device)
			cfg.Baud = baud
			port, err := serial.Open(cfg)
			if err != nil {
				return err
			}
			defer port.Close()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()
			log.WithField("device", device).Info("watching boot output, ^C to stop")
			return monitor.Watch(ctx, port, log)
		},
	}
	cmd.Flags().StringVarP(&device, "device", "d", "/dev/ttyUSB0", "serial device")
	cmd.Flags().IntVarP(&baud, "baud", "b", serial.BootBaud, "baud rate")
	return cmd
}
