package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"gopper-eboot/host/imagetool"
	"gopper-eboot/host/sim"
	"gopper-eboot/protocol"
)

func loadSimConfig(path string) (*sim.Config, error) {
	if path == "" {
		return sim.DefaultConfig(), nil
	}
	return sim.LoadConfigFile(path)
}

func openMachine(path string) (*sim.Machine, *sim.Config, error) {
	cfg, err := loadSimConfig(path)
	if err != nil {
		return nil, nil, err
	}
	m, err := sim.NewMachine(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return m, cfg, nil
}

func newSimCmd() *cobra.Command {
	var cfgPath string
	var once bool
	cmd := &cobra.Command{
		Use:   "sim",
		Short: "Boot the simulated board until an application starts",
		RunE: func(_ *cobra.Command, _ []string) error {
			m, cfg, err := openMachine(cfgPath)
			if err != nil {
				return err
			}
			defer m.Close()

			var res sim.Result
			if once {
				res, err = m.Boot()
			} else {
				res, err = m.BootUntilJump(cfg.MaxBoots)
			}
			if err != nil {
				return err
			}
			log.WithFields(logrus.Fields{
				"state": res.State.String(),
				"boots": res.Boots,
				"entry": res.Entry,
				"sp":    res.SP,
				"ram":   len(m.RAM.Bytes),
			}).Info("simulation done")
			return nil
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "simulator TOML config")
	cmd.Flags().BoolVar(&once, "once", false, "run a single boot even if it ends in reset")
	return cmd
}

func newStageCmd() *cobra.Command {
	var (
		cfgPath, image string
		src, dst       uint32
		compress, pad  bool
	)
	cmd := &cobra.Command{
		Use:   "stage",
		Short: "Write an image into the staging area and queue a copy command",
		RunE: func(_ *cobra.Command, _ []string) error {
			m, _, err := openMachine(cfgPath)
			if err != nil {
				return err
			}
			defer m.Close()

			blob, err := os.ReadFile(image)
			if err != nil {
				return errors.Wrap(err, "read image")
			}
			if pad {
				blob = imagetool.PadToSlot(blob, m.Layout)
			}
			c, err := imagetool.Stage(m.Flash, m.Store(), m.Layout, imagetool.StageRequest{
				Blob: blob, Src: src, Dst: dst, Compress: compress,
			})
			if err != nil {
				return err
			}
			log.WithFields(logrus.Fields{
				"action": c.Action.String(),
				"src":    src,
				"dst":    dst,
				"size":   len(blob),
				"staged": c.Args[protocol.ArgSize],
			}).Info("update staged")
			return nil
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "simulator TOML config")
	cmd.Flags().StringVarP(&image, "image", "i", "", "image file to stage")
	cmd.Flags().Uint32Var(&src, "src", 0x80000, "staging area flash offset")
	cmd.Flags().Uint32Var(&dst, "dst", 0, "destination slot flash offset")
	cmd.Flags().BoolVarP(&compress, "gzip", "z", false, "gzip the image before staging")
	cmd.Flags().BoolVar(&pad, "pad", true, "prefix the image with the slot's app start offset")
	cmd.MarkFlagRequired("image")
	return cmd
}
