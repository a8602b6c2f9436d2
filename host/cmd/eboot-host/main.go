// Command eboot-host prepares, stages and simulates bootloader updates and
// watches the bootloader's serial diagnostics.
package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"gopper-eboot/protocol"
)

var log = logrus.New()

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.WithError(err).Error("eboot-host failed")
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:           "eboot-host",
		Short:         "Host tooling for the eboot bootloader",
		Version:       protocol.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
			if verbose {
				log.SetLevel(logrus.DebugLevel)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newSimCmd(),
		newStageCmd(),
		newBuildCmd(),
		newInspectCmd(),
		newHexCmd(),
		newCommandCmd(),
		newMonitorCmd(),
	)
	return root
}
