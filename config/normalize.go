package config

import (
	"github.com/ystepanoff/loranode/protocol"
	"github.com/ystepanoff/loranode/undervoltage"
)

// Defaults applied by Normalize.
const (
	DefaultSpreadingFactor = 7
	DefaultTxPower         = 14
	DefaultBaud            = 115200
)

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	l := &cfg.Lora
	if l.Mode == "" {
		l.Mode = ModeDisabled
	}
	if l.SpreadingFactor == 0 {
		l.SpreadingFactor = DefaultSpreadingFactor
	}
	if l.TxPower == 0 {
		l.TxPower = DefaultTxPower
	}
	if l.TxRetries == 0 {
		l.TxRetries = protocol.DefaultRetries
	}
	if l.TxTimeoutMs == 0 {
		l.TxTimeoutMs = protocol.DefaultTimeout
	}

	// Unset thresholds mean no protection.
	u := &cfg.Undervoltage
	if u.DisableMv == 0 && u.EnableMv == 0 {
		u.DisableMv = undervoltage.Off
		u.EnableMv = undervoltage.Off
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = LevelInfo
	}
	if cfg.Logging.Baud == 0 {
		cfg.Logging.Baud = DefaultBaud
	}
}
