// Package config loads the node configuration.
//
// The flow is Load, then Validate, then Normalize. Validate never mutates;
// Normalize fills in defaults and must only run on a validated Config.
package config

// Config is the node configuration.
type Config struct {
	Lora         LoraConfig         `yaml:"lora"`
	Undervoltage UndervoltageConfig `yaml:"undervoltage"`
	Logging      LoggingConfig      `yaml:"logging"`
}

// ---- RADIO ----

// Radio modes.
const (
	ModeDisabled   = "disabled"
	ModePreshared  = "preshared"
	ModeNegotiated = "negotiated"
)

type LoraConfig struct {
	Mode string `yaml:"mode"`

	// Exactly one of these matches Mode.
	Preshared  *PresharedConfig  `yaml:"preshared"`
	Negotiated *NegotiatedConfig `yaml:"negotiated"`

	SpreadingFactor uint8  `yaml:"spreading_factor"` // 7-12, default 7
	TxPower         int8   `yaml:"tx_power"`         // dBm, default 14
	TxRetries       uint16 `yaml:"tx_retries"`       // managed-send attempts, default 10
	TxTimeoutMs     uint32 `yaml:"tx_timeout_ms"`    // per attempt, default 10000
	ADR             bool   `yaml:"adr"`
}

// PresharedConfig holds hex-encoded pre-shared session credentials.
type PresharedConfig struct {
	DevAddr string `yaml:"dev_addr"` // 8 hex digits
	NwkSKey string `yaml:"nwk_skey"` // 32 hex digits
	AppSKey string `yaml:"app_skey"` // 32 hex digits
}

// NegotiatedConfig holds hex-encoded join credentials. EUIs are written
// most significant byte first, as network consoles print them.
type NegotiatedConfig struct {
	AppEUI string `yaml:"app_eui"` // 16 hex digits
	DevEUI string `yaml:"dev_eui"` // 16 hex digits
	AppKey string `yaml:"app_key"` // 32 hex digits
}

// ---- UNDERVOLTAGE ----

// UndervoltageConfig holds the lockdown thresholds in millivolts. Leaving
// both unset, or setting both to 65535, disables protection.
type UndervoltageConfig struct {
	DisableMv uint16 `yaml:"disable_mv"`
	EnableMv  uint16 `yaml:"enable_mv"`
}

// ---- LOGGING ----

// Log levels.
const (
	LevelDisabled = "disabled"
	LevelInfo     = "info"
	LevelDebug    = "debug"
)

type LoggingConfig struct {
	Level string `yaml:"level"`
	Baud  uint32 `yaml:"baud"` // serial console, TinyGo only
}
