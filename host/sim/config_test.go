package sim

import (
	"strings"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig([]byte(""))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.FlashFile != "flash.bin" || cfg.RetentionFile != "rtc.bin" {
		t.Errorf("files = %q, %q", cfg.FlashFile, cfg.RetentionFile)
	}
	if cfg.FlashSize != 0x100000 || cfg.MaxBoots != 8 {
		t.Errorf("size = 0x%x, boots = %d", cfg.FlashSize, cfg.MaxBoots)
	}
	l, err := cfg.BoardLayout()
	if err != nil {
		t.Fatalf("BoardLayout: %v", err)
	}
	if l.SectorSize != 0x1000 || len(l.Windows) != 3 || l.DurableSlots != 4 {
		t.Errorf("layout = %+v", l)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	doc := `
flash_file = "board.bin"
flash_size = 0x200000
max_boots = 3

[layout]
default_app_addr = 0x10000
durable_slots = 0
max_retries = 5

[[layout.window]]
name = "sram"
start = 0x20000000
end = 0x20040000
`
	cfg, err := LoadConfig([]byte(doc))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.FlashFile != "board.bin" || cfg.FlashSize != 0x200000 || cfg.MaxBoots != 3 {
		t.Errorf("cfg = %+v", cfg)
	}
	l, err := cfg.BoardLayout()
	if err != nil {
		t.Fatalf("BoardLayout: %v", err)
	}
	if l.DefaultAppAddr != 0x10000 || l.DurableSlots != 0 || l.MaxRetries != 5 {
		t.Errorf("layout = %+v", l)
	}
	if len(l.Windows) != 1 || l.Windows[0].Name != "sram" || !l.Windows[0].Contains(0x20001000) {
		t.Errorf("windows = %+v", l.Windows)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	testCases := []struct {
		name string
		doc  string
		want string
	}{
		{"syntax", "flash_size = ", "parse"},
		{"sector", "[layout]\nsector_size = 3000\n", "sector_size"},
		{"window", "[[layout.window]]\nname = \"x\"\nstart = 10\nend = 5\n", "window x"},
		{"size", "flash_size = 0x1800\n", "multiple"},
	}
	for _, tc := range testCases {
		_, err := LoadConfig([]byte(tc.doc))
		if err == nil {
			t.Errorf("%s: no error", tc.name)
			continue
		}
		if !strings.Contains(err.Error(), tc.want) {
			t.Errorf("%s: error %q does not mention %q", tc.name, err, tc.want)
		}
	}
}
