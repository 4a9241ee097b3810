package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ystepanoff/loranode/protocol"
	"github.com/ystepanoff/loranode/undervoltage"
)

const negotiatedYAML = `
lora:
  mode: negotiated
  negotiated:
    app_eui: "70B3D57ED0000001"
    dev_eui: "0004A30B001C0530"
    app_key: "000102030405060708090A0B0C0D0E0F"
  spreading_factor: 9
  adr: true
undervoltage:
  disable_mv: 3100
  enable_mv: 3200
logging:
  level: debug
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "node.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

// ---- load ----

func TestLoad_Negotiated(t *testing.T) {
	cfg, err := Load(writeConfig(t, negotiatedYAML))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	Normalize(cfg)

	if cfg.Lora.SpreadingFactor != 9 || !cfg.Lora.ADR {
		t.Errorf("lora = %+v", cfg.Lora)
	}
	if cfg.Lora.TxRetries != protocol.DefaultRetries || cfg.Lora.TxTimeout() != 10*time.Second {
		t.Errorf("retries=%d timeout=%v, want defaults", cfg.Lora.TxRetries, cfg.Lora.TxTimeout())
	}
	if cfg.Lora.TxPower != DefaultTxPower {
		t.Errorf("tx_power = %d, want %d", cfg.Lora.TxPower, DefaultTxPower)
	}
	if th := cfg.Undervoltage.Thresholds(); th.Disable != 3100 || th.Enable != 3200 {
		t.Errorf("thresholds = %+v", th)
	}

	a, err := cfg.Lora.Activation()
	if err != nil {
		t.Fatalf("Activation() error = %v", err)
	}
	if a.Mode != protocol.ModeNegotiated || a.Negotiated == nil {
		t.Fatalf("activation = %+v", a)
	}
	// EUIs are reversed for the MAC.
	if a.Negotiated.AppEUI[0] != 0x01 || a.Negotiated.AppEUI[7] != 0x70 {
		t.Errorf("app eui = % x", a.Negotiated.AppEUI)
	}
	if a.Negotiated.AppKey[0] != 0x00 || a.Negotiated.AppKey[15] != 0x0F {
		t.Errorf("app key = % x", a.Negotiated.AppKey)
	}
}

func TestLoad_UnknownField(t *testing.T) {
	_, err := Load(writeConfig(t, "lora:\n  mood: preshared\n"))
	if err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil || !strings.HasPrefix(err.Error(), "config:") {
		t.Fatalf("Load() error = %v", err)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Lora.Mode != ModeDisabled {
		t.Errorf("mode = %q", cfg.Lora.Mode)
	}
	if !cfg.Undervoltage.Thresholds().Disabled() {
		t.Errorf("undervoltage enabled by default: %+v", cfg.Undervoltage)
	}
	if cfg.Logging.Level != LevelInfo || cfg.Logging.Baud != DefaultBaud {
		t.Errorf("logging = %+v", cfg.Logging)
	}
	if err := Validate(cfg); err != nil {
		t.Errorf("default config does not validate: %v", err)
	}
}

// ---- validate ----

func preshared() *Config {
	return &Config{
		Lora: LoraConfig{
			Mode: ModePreshared,
			Preshared: &PresharedConfig{
				DevAddr: "260B1234",
				NwkSKey: "2B7E151628AED2A6ABF7158809CF4F3C",
				AppSKey: "0x2B7E151628AED2A6ABF7158809CF4F3C",
			},
		},
	}
}

func TestValidate_Preshared(t *testing.T) {
	cfg := preshared()
	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	a, err := cfg.Lora.Activation()
	if err != nil {
		t.Fatalf("Activation() error = %v", err)
	}
	if a.Preshared.DevAddr != 0x260B1234 {
		t.Errorf("dev addr = %#x", a.Preshared.DevAddr)
	}
	if a.Preshared.NwkSKey != a.Preshared.AppSKey || a.Preshared.NwkSKey[0] != 0x2B {
		t.Errorf("keys = % x / % x", a.Preshared.NwkSKey, a.Preshared.AppSKey)
	}
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown mode", func(c *Config) { c.Lora.Mode = "abp" }},
		{"missing preshared section", func(c *Config) { c.Lora.Preshared = nil }},
		{"both sections", func(c *Config) { c.Lora.Negotiated = &NegotiatedConfig{} }},
		{"short dev addr", func(c *Config) { c.Lora.Preshared.DevAddr = "260B12" }},
		{"bad key hex", func(c *Config) { c.Lora.Preshared.NwkSKey = "zz" }},
		{"short key", func(c *Config) { c.Lora.Preshared.AppSKey = "2B7E1516" }},
		{"spreading factor", func(c *Config) { c.Lora.SpreadingFactor = 6 }},
		{"tx power", func(c *Config) { c.Lora.TxPower = 30 }},
		{"inverted thresholds", func(c *Config) { c.Undervoltage = UndervoltageConfig{DisableMv: 3200, EnableMv: 3100} }},
		{"equal thresholds", func(c *Config) { c.Undervoltage = UndervoltageConfig{DisableMv: 3200, EnableMv: 3200} }},
		{"log level", func(c *Config) { c.Logging.Level = "trace" }},
		{"negotiated without section", func(c *Config) {
			c.Lora.Mode = ModeNegotiated
			c.Lora.Preshared = nil
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := preshared()
			tt.mutate(cfg)
			if err := Validate(cfg); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestValidate_DoesNotMutate(t *testing.T) {
	cfg := &Config{}
	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Lora.Mode != "" || cfg.Lora.TxRetries != 0 || cfg.Undervoltage.DisableMv != 0 {
		t.Fatalf("Validate mutated config: %+v", cfg)
	}
}

func TestNormalize_KeepsExplicitValues(t *testing.T) {
	cfg := &Config{
		Lora:         LoraConfig{TxRetries: 3, TxTimeoutMs: 1000, SpreadingFactor: 12},
		Undervoltage: UndervoltageConfig{DisableMv: undervoltage.Off, EnableMv: undervoltage.Off},
		Logging:      LoggingConfig{Level: LevelDisabled, Baud: 9600},
	}
	Normalize(cfg)

	if cfg.Lora.TxRetries != 3 || cfg.Lora.TxTimeout() != time.Second || cfg.Lora.SpreadingFactor != 12 {
		t.Errorf("lora = %+v", cfg.Lora)
	}
	if cfg.Logging.Level != LevelDisabled || cfg.Logging.Baud != 9600 {
		t.Errorf("logging = %+v", cfg.Logging)
	}
}

func TestDisabledActivation(t *testing.T) {
	a, err := Default().Lora.Activation()
	if err != nil {
		t.Fatalf("Activation() error = %v", err)
	}
	if a.Mode != protocol.ModeDisabled || a.Configured() {
		t.Fatalf("activation = %+v", a)
	}
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse(nil) error = %v", err)
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}
