// Package loranode provides a façade over the node runtime.
package loranode

import (
	"github.com/ystepanoff/loranode/config"
	"github.com/ystepanoff/loranode/node"
	"github.com/ystepanoff/loranode/power"
	"github.com/ystepanoff/loranode/protocol"
	"github.com/ystepanoff/loranode/transport"
)

// The constructors are split into build-tag specific files:
// - constructors_tinygo.go - for embedded platforms (//go:build tinygo)
// - constructors_host.go - for development/testing (//go:build !tinygo && !baremetal)

// Version is fingerprinted into the firmware identity. Set it at link time
// with -ldflags "-X github.com/ystepanoff/loranode.Version=...". Changing
// it invalidates the durable memory on the next boot.
var Version = "dev"

// Re-export types for the public API
type (
	Config   = config.Config
	Node     = node.Node
	Hardware = node.Hardware
	Health   = node.Health
	Standby  = node.Standby
	Driver   = transport.Driver
	SentFunc = transport.SentFunc
	Session  = protocol.Session
	State    = power.State
)

// Error constants exposed in the public API
var (
	ErrDeepSleep      = node.ErrDeepSleep
	ErrRadioDisabled  = protocol.ErrRadioDisabled
	ErrInvalidPayload = protocol.ErrInvalidPayload
)

// Constants exposed in the public API
const (
	StandbyGPIO  = node.StandbyGPIO
	StandbyWiFi  = node.StandbyWiFi
	StandbyRadio = node.StandbyRadio
	StandbyBus   = node.StandbyBus
	StandbyAll   = node.StandbyAll

	MaxPayloadSize = protocol.MaxPayloadSize
)

// LoadConfig loads, validates and normalizes the configuration at path.
func LoadConfig(path string) (*Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	config.Normalize(cfg)
	return cfg, nil
}
