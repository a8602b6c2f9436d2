package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"gopper-eboot/core"
	"gopper-eboot/protocol"
)

func newCommandCmd() *cobra.Command {
	var cfgPath string
	cmd := &cobra.Command{
		Use:   "command",
		Short: "Show the boot command held by the simulated board",
		RunE: func(c *cobra.Command, _ []string) error {
			m, _, err := openMachine(cfgPath)
			if err != nil {
				return err
			}
			defer m.Close()

			w := c.OutOrStdout()
			var bc protocol.Command
			bc.SetWords(m.Retention.Words())
			retries := bc.Args[protocol.RetryArg]
			bc.Args[protocol.RetryArg] = 0
			fmt.Fprintf(w, "fast store: %s, valid %v, replays %d/%d\n",
				bc.Action, bc.Valid(), retries, m.Layout.MaxRetries)
			printArgs(w, &bc)

			store := m.Store()
			fmt.Fprintf(w, "durable index at %s\n", core.Hex32(store.IndexAddr()))
			return nil
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "simulator TOML config")
	return cmd
}

func printArgs(w io.Writer, cmd *protocol.Command) {
	switch cmd.Action {
	case protocol.ActionCopyRaw:
		fmt.Fprintf(w, "  src %s dst %s size %d\n",
			core.Hex32(cmd.Args[protocol.ArgSrc]), core.Hex32(cmd.Args[protocol.ArgDst]), cmd.Args[protocol.ArgSize])
	case protocol.ActionLoadApp:
		fmt.Fprintf(w, "  app %s\n", core.Hex32(cmd.Args[protocol.ArgAppAddr]))
	}
}
