// Package sim runs the bootloader on the host against file-backed flash and
// retention memory.
package sim

import (
	"os"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"

	"gopper-eboot/core"
)

// WindowConfig is a loadable window in the config file.
type WindowConfig struct {
	Name  string `toml:"name"`
	Start uint32 `toml:"start"`
	End   uint32 `toml:"end"`
}

// LayoutConfig overrides core.DefaultLayout fields; zero keeps the default.
type LayoutConfig struct {
	SectorSize     uint32         `toml:"sector_size"`
	AppStartOffset uint32         `toml:"app_start_offset"`
	DefaultAppAddr uint32         `toml:"default_app_addr"`
	FlashMapBase   uint32         `toml:"flash_map_base"`
	StackPointer   uint32         `toml:"stack_pointer"`
	MaxRetries     uint32         `toml:"max_retries"`
	DurableSlots   *uint32        `toml:"durable_slots"`
	Windows        []WindowConfig `toml:"window"`
}

// Config describes a simulated board.
type Config struct {
	FlashFile     string       `toml:"flash_file"`
	FlashSize     uint32       `toml:"flash_size"`
	RetentionFile string       `toml:"retention_file"`
	MaxBoots      int          `toml:"max_boots"`
	Layout        LayoutConfig `toml:"layout"`
}

// LoadConfig parses a TOML configuration and fills in defaults.
func LoadConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "parse sim config")
	}
	applyDefaults(&cfg)
	if _, err := cfg.BoardLayout(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadConfigFile reads and parses the configuration at path.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	return LoadConfig(data)
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// applyDefaults fills in missing configuration values
func applyDefaults(cfg *Config) {
	if cfg.FlashFile == "" {
		cfg.FlashFile = "flash.bin"
	}
	if cfg.FlashSize == 0 {
		cfg.FlashSize = 0x100000 // 1 MiB
	}
	if cfg.RetentionFile == "" {
		cfg.RetentionFile = "rtc.bin"
	}
	if cfg.MaxBoots == 0 {
		cfg.MaxBoots = 8
	}
}

// BoardLayout merges the layout overrides into the default layout and
// validates the result.
func (c *Config) BoardLayout() (core.Layout, error) {
	l := core.DefaultLayout()
	o := c.Layout
	if o.SectorSize != 0 {
		l.SectorSize = o.SectorSize
	}
	if o.AppStartOffset != 0 {
		l.AppStartOffset = o.AppStartOffset
	}
	if o.DefaultAppAddr != 0 {
		l.DefaultAppAddr = o.DefaultAppAddr
	}
	if o.FlashMapBase != 0 {
		l.FlashMapBase = o.FlashMapBase
	}
	if o.StackPointer != 0 {
		l.StackPointer = o.StackPointer
	}
	if o.MaxRetries != 0 {
		l.MaxRetries = o.MaxRetries
	}
	if o.DurableSlots != nil {
		l.DurableSlots = *o.DurableSlots
	}
	if len(o.Windows) > 0 {
		l.Windows = l.Windows[:0:0]
		for _, w := range o.Windows {
			l.Windows = append(l.Windows, core.Window{Name: w.Name, Start: w.Start, End: w.End})
		}
	}
	if err := l.Validate(); err != nil {
		return l, errors.Wrap(err, "sim layout")
	}
	if c.FlashSize%l.SectorSize != 0 {
		return l, errors.Errorf("flash size 0x%x is not a multiple of sector size 0x%x", c.FlashSize, l.SectorSize)
	}
	return l, nil
}
