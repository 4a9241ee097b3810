//go:build tinygo

// This file is built only for embedded targets (using real hardware).
package loranode

import (
	"log/slog"

	"github.com/ystepanoff/loranode/clock"
	"github.com/ystepanoff/loranode/driver/machine"
	"github.com/ystepanoff/loranode/node"
	"github.com/ystepanoff/loranode/rtcmem"
)

// NewNode builds a node on real hardware. radio is the LoRa MAC driver for
// the board's transceiver and mem the retained memory region.
func NewNode(cfg *Config, radio Driver, mem rtcmem.Backend, pins machine.Pinout, logger *slog.Logger) (*Node, error) {
	return node.New(cfg, node.Hardware{
		Memory:      mem,
		Radio:       radio,
		Lines:       machine.NewLines(pins),
		Battery:     machine.NewBattery(pins.Battery, machine.DefaultDivider),
		Sleeper:     machine.Sleeper{},
		Clock:       clock.Real(),
		Firmware:    []byte(Version),
		ResetReason: node.ResetUnknown,
	}, logger)
}
