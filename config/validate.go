package config

import (
	"fmt"

	"github.com/ystepanoff/loranode/undervoltage"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config: nil configuration")
	}
	if err := validateLora(&cfg.Lora); err != nil {
		return err
	}
	if err := validateUndervoltage(&cfg.Undervoltage); err != nil {
		return err
	}

	switch cfg.Logging.Level {
	case "", LevelDisabled, LevelInfo, LevelDebug:
	default:
		return fmt.Errorf("config: logging.level %q must be one of disabled, info, debug", cfg.Logging.Level)
	}
	return nil
}

func validateLora(l *LoraConfig) error {
	switch l.Mode {
	case "", ModeDisabled:
		// keys are ignored when the radio is off

	case ModePreshared:
		if l.Preshared == nil {
			return fmt.Errorf("config: lora.mode is preshared but lora.preshared is missing")
		}
		if l.Negotiated != nil {
			return fmt.Errorf("config: lora.negotiated is set but lora.mode is preshared")
		}
		if _, err := parseDevAddr(l.Preshared.DevAddr); err != nil {
			return fmt.Errorf("config: lora.preshared.dev_addr: %w", err)
		}
		if _, err := parseHex(l.Preshared.NwkSKey, 16); err != nil {
			return fmt.Errorf("config: lora.preshared.nwk_skey: %w", err)
		}
		if _, err := parseHex(l.Preshared.AppSKey, 16); err != nil {
			return fmt.Errorf("config: lora.preshared.app_skey: %w", err)
		}

	case ModeNegotiated:
		if l.Negotiated == nil {
			return fmt.Errorf("config: lora.mode is negotiated but lora.negotiated is missing")
		}
		if l.Preshared != nil {
			return fmt.Errorf("config: lora.preshared is set but lora.mode is negotiated")
		}
		if _, err := parseHex(l.Negotiated.AppEUI, 8); err != nil {
			return fmt.Errorf("config: lora.negotiated.app_eui: %w", err)
		}
		if _, err := parseHex(l.Negotiated.DevEUI, 8); err != nil {
			return fmt.Errorf("config: lora.negotiated.dev_eui: %w", err)
		}
		if _, err := parseHex(l.Negotiated.AppKey, 16); err != nil {
			return fmt.Errorf("config: lora.negotiated.app_key: %w", err)
		}

	default:
		return fmt.Errorf("config: lora.mode %q must be one of disabled, preshared, negotiated", l.Mode)
	}

	if l.SpreadingFactor != 0 && (l.SpreadingFactor < 7 || l.SpreadingFactor > 12) {
		return fmt.Errorf("config: lora.spreading_factor %d out of range 7-12", l.SpreadingFactor)
	}
	if l.TxPower < 0 || l.TxPower > 20 {
		return fmt.Errorf("config: lora.tx_power %d out of range 0-20", l.TxPower)
	}
	return nil
}

func validateUndervoltage(u *UndervoltageConfig) error {
	unset := u.DisableMv == 0 && u.EnableMv == 0
	off := u.DisableMv == undervoltage.Off && u.EnableMv == undervoltage.Off
	if unset || off {
		return nil
	}
	if u.DisableMv >= u.EnableMv {
		return fmt.Errorf(
			"config: undervoltage.disable_mv (%d) must be below undervoltage.enable_mv (%d)",
			u.DisableMv,
			u.EnableMv,
		)
	}
	return nil
}
