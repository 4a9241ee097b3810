//go:build !tinygo && !baremetal

// This file is built only for non-embedded targets (host-based testing).
package loranode

import (
	"log/slog"

	"github.com/ystepanoff/loranode/clock"
	"github.com/ystepanoff/loranode/driver/stub"
	"github.com/ystepanoff/loranode/node"
	"github.com/ystepanoff/loranode/rtcmem"
)

// Board is the simulated hardware of a host-side node.
type Board struct {
	Radio   *stub.Radio
	Lines   *stub.Lines
	GPIO    *stub.Expander
	Modem   *stub.Modem
	Battery *stub.Battery
	Sleeper *stub.Sleeper
}

// NewBoard returns simulated hardware on the given network, with the
// battery reading millivolts.
func NewBoard(net stub.Network, millivolts uint16) *Board {
	return &Board{
		Radio:   stub.NewRadio(net),
		Lines:   &stub.Lines{},
		GPIO:    &stub.Expander{},
		Modem:   &stub.Modem{},
		Battery: stub.NewBattery(millivolts),
		Sleeper: &stub.Sleeper{},
	}
}

// Hardware describes the board to the runtime. mem is the durable memory;
// pass the same value to every boot to simulate deep sleep.
func (b *Board) Hardware(mem rtcmem.Backend) node.Hardware {
	return node.Hardware{
		Memory:      mem,
		Radio:       b.Radio,
		Lines:       b.Lines,
		GPIO:        b.GPIO,
		Modem:       b.Modem,
		Battery:     b.Battery,
		Sleeper:     b.Sleeper,
		Clock:       clock.Real(),
		Firmware:    []byte(Version),
		ResetReason: node.ResetPowerOn,
	}
}

// NewNode builds a node on a fresh simulated board with volatile durable
// memory.
func NewNode(cfg *Config, logger *slog.Logger) (*Node, *Board, error) {
	board := NewBoard(stub.DefaultNetwork, 4200)
	n, err := node.New(cfg, board.Hardware(rtcmem.NewMemory()), logger)
	if err != nil {
		return nil, nil, err
	}
	return n, board, nil
}
