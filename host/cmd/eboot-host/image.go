package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"gopper-eboot/core"
	"gopper-eboot/host/imagetool"
)

func newBuildCmd() *cobra.Command {
	var (
		hexPath, out string
		entry        uint32
		pad, gz      bool
	)
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build a bootloader image from an Intel HEX file",
		RunE: func(_ *cobra.Command, _ []string) error {
			f, err := os.Open(hexPath)
			if err != nil {
				return errors.Wrap(err, "open hex")
			}
			defer f.Close()
			img, err := imagetool.ImportHex(f)
			if err != nil {
				return err
			}
			if entry != 0 {
				img.Entry = entry
			}
			data, err := imagetool.Build(img)
			if err != nil {
				return err
			}
			if pad {
				data = imagetool.PadToSlot(data, core.DefaultLayout())
			}
			if gz {
				if data, err = imagetool.Gzip(data); err != nil {
					return err
				}
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return errors.Wrap(err, "write image")
			}
			log.WithFields(logrus.Fields{
				"segments": len(img.Segments),
				"entry":    core.Hex32(img.Entry),
				"bytes":    len(data),
			}).Info("image built")
			return nil
		},
	}
	cmd.Flags().StringVar(&hexPath, "hex", "", "input Intel HEX file")
	cmd.Flags().StringVarP(&out, "out", "o", "app.bin", "output image")
	cmd.Flags().Uint32Var(&entry, "entry", 0, "entry point (default: HEX start address)")
	cmd.Flags().BoolVar(&pad, "pad", false, "prefix the image with the slot's app start offset")
	cmd.Flags().BoolVarP(&gz, "gzip", "z", false, "gzip the result")
	cmd.MarkFlagRequired("hex")
	return cmd
}

func newInspectCmd() *cobra.Command {
	var slot bool
	cmd := &cobra.Command{
		Use:   "inspect IMAGE",
		Short: "List the sections of an image and where the bootloader puts them",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return errors.Wrap(err, "read image")
			}
			layout := core.DefaultLayout()
			if slot {
				if len(data) < int(layout.AppStartOffset) {
					return errors.New("file shorter than app start offset")
				}
				data = data[layout.AppStartOffset:]
			}
			img, err := imagetool.Parse(data)
			if err != nil {
				return err
			}
			w := c.OutOrStdout()
			fmt.Fprintf(w, "entry %s, %d sections\n", core.Hex32(img.Entry), len(img.Segments))
			for i, s := range imagetool.Inspect(img, layout) {
				where := s.Window
				if where == "" {
					where = "skipped"
				}
				fmt.Fprintf(w, "%3d  %s  %8d  %s\n", i, core.Hex32(s.Address), s.Size, where)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&slot, "slot", false, "input is a padded slot blob")
	return cmd
}

func newHexCmd() *cobra.Command {
	var (
		out  string
		base uint32
		raw  bool
	)
	cmd := &cobra.Command{
		Use:   "hex FILE",
		Short: "Export an image's sections, or a raw flash blob, as Intel HEX",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return errors.Wrap(err, "read input")
			}
			f, err := os.Create(out)
			if err != nil {
				return errors.Wrap(err, "create output")
			}
			defer f.Close()
			if raw {
				return imagetool.ExportFlashHex(f, base, data)
			}
			img, err := imagetool.Parse(data)
			if err != nil {
				return err
			}
			return imagetool.ExportHex(f, img)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "out.hex", "output HEX file")
	cmd.Flags().BoolVar(&raw, "raw", false, "treat input as a flash blob instead of an image")
	cmd.Flags().Uint32Var(&base, "base", 0, "flash address of a raw blob")
	return cmd
}
