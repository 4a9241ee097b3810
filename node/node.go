// Package node is the runtime core of a battery-powered LoRa sensor node.
//
// The embedding application calls Setup once after every boot and Step
// from its main loop. Deep sleep is a restart boundary: nothing but the
// durable memory survives it, so on a host DeepSleep returns ErrDeepSleep
// and the caller is expected to tear the Node down and build a new one.
package node

import (
	"errors"
	"log/slog"
	"time"

	"github.com/ystepanoff/loranode/checksum"
	"github.com/ystepanoff/loranode/clock"
	"github.com/ystepanoff/loranode/config"
	"github.com/ystepanoff/loranode/power"
	"github.com/ystepanoff/loranode/protocol"
	"github.com/ystepanoff/loranode/rtcmem"
	"github.com/ystepanoff/loranode/transport"
	"github.com/ystepanoff/loranode/undervoltage"
)

// ErrDeepSleep is returned once the node has asked the hardware for deep
// sleep. On hardware the call never returns.
var ErrDeepSleep = errors.New("node: deep sleep")

// BatterySettle is the pause before the first battery sample at boot.
const BatterySettle = 100 * time.Millisecond

// Standby selects the domains Standby powers down.
type Standby uint8

const (
	StandbyGPIO  Standby = 1
	StandbyWiFi  Standby = 2
	StandbyRadio Standby = 4
	StandbyBus   Standby = 8
	StandbyAll   Standby = StandbyGPIO | StandbyWiFi | StandbyRadio
)

// Hardware is everything the node drives. GPIO, Modem and Battery are
// optional.
type Hardware struct {
	Memory  rtcmem.Backend
	Radio   transport.Driver
	Lines   power.Lines
	GPIO    power.Domain
	Modem   power.Modem
	Battery undervoltage.Sensor
	Sleeper power.Sleeper
	Clock   clock.Clock

	// Firmware is the running image; its CRC-16 is the firmware identity.
	Firmware    []byte
	ResetReason ResetReason
	HealthCheck HealthCheck
}

// Node wires the runtime components together.
type Node struct {
	cfg    *config.Config
	hw     Hardware
	clock  clock.Clock
	logger *slog.Logger

	store *rtcmem.Store
	power *power.Sequencer
	radio *transport.Manager
	guard *undervoltage.Guard
	sleep power.Sleeper

	reason  ResetReason
	check   HealthCheck
	reboots uint32
}

// New builds a Node from a validated, normalized configuration.
func New(cfg *config.Config, hw Hardware, logger *slog.Logger) (*Node, error) {
	if logger == nil {
		logger = slog.Default()
	}
	activation, err := cfg.Lora.Activation()
	if err != nil {
		return nil, err
	}

	clk := hw.Clock
	if clk == nil {
		clk = clock.Real()
	}
	check := hw.HealthCheck
	if check == nil {
		check = Healthy
	}

	n := &Node{
		cfg:    cfg,
		hw:     hw,
		clock:  clk,
		logger: logger.With("component", "node"),
		reason: hw.ResetReason,
		check:  check,
	}

	n.store = rtcmem.New(hw.Memory, logger)
	n.radio = transport.NewManager(hw.Radio, n.store, activation, cfg.Lora.RadioSettings(), clk, logger)

	n.power = power.New(hw.Lines, n.radio, hw.GPIO, hw.Modem, clk, logger)
	n.sleep = poweredSleeper{power: n.power, sleeper: hw.Sleeper}

	battery := hw.Battery
	if battery == nil {
		battery = fullBattery{}
	}
	n.guard = undervoltage.New(n.store, battery, n.sleep, cfg.Undervoltage.Thresholds(), logger)
	return n, nil
}

// Setup runs the boot sequence. It returns ErrDeepSleep when undervoltage
// protection put the node back to sleep.
func (n *Node) Setup() error {
	identity := checksum.CRC16(n.hw.Firmware, checksum.CRC16CCITT)
	n.store.Setup(identity)

	n.reboots = (n.store.Read(rtcmem.SlotReboots, 0) + 1) & rtcmem.PayloadMask
	n.store.Write(rtcmem.SlotReboots, n.reboots)

	// Lowest power first, so that a locked-down node never wakes the bus.
	n.power.Begin()

	if !n.guard.Thresholds().Disabled() {
		n.clock.Sleep(BatterySettle)
		if n.guard.CheckLockdown() == undervoltage.Sleep {
			return ErrDeepSleep
		}
		if n.guard.Protect() == undervoltage.Sleep {
			return ErrDeepSleep
		}
	}

	n.logger.Info("booted",
		"reboots", n.reboots,
		"reset_reason", n.reason.String(),
		"firmware", identity,
		"radio", n.radio.Mode().String())

	if n.radio.Mode() != protocol.ModeDisabled {
		n.power.SetRadio(true)
	}
	return nil
}

// Step runs one iteration of the main loop: radio events first, then the
// battery check.
func (n *Node) Step() error {
	n.radio.Step()
	if n.guard.Protect() == undervoltage.Sleep {
		return ErrDeepSleep
	}
	return nil
}

// Standby powers down the selected domains. Selecting GPIO, Wi-Fi and radio
// together turns everything off, bus override included.
func (n *Node) Standby(mask Standby) {
	if mask&StandbyAll == StandbyAll {
		n.power.Off()
		return
	}
	if mask&StandbyGPIO != 0 {
		n.power.SetGPIO(false)
	}
	if mask&StandbyRadio != 0 {
		n.power.SetRadio(false)
	}
	if mask&StandbyWiFi != 0 {
		n.power.SetWiFi(power.WiFiOff)
	}
	if mask&StandbyBus != 0 {
		n.power.SetOverride(false)
	}
}

// SendManaged powers the radio if needed and sends data with the
// configured retries and timeout. done, if not nil, receives the outcome.
// It returns protocol.ErrRadioDisabled without touching the hardware when
// no radio mode is configured.
func (n *Node) SendManaged(data []byte, done transport.SentFunc) error {
	if n.radio.Mode() == protocol.ModeDisabled {
		return protocol.ErrRadioDisabled
	}
	n.power.SetRadio(true)
	if done != nil {
		n.radio.WhenSent(done)
	}
	return n.radio.SendManaged(data, n.cfg.Lora.TxRetries, n.cfg.Lora.TxTimeout())
}

// WhenJoined registers a callback for the outcome of the join handshake.
func (n *Node) WhenJoined(cb transport.JoinedFunc) {
	n.radio.WhenJoined(cb)
}

// DeepSleep powers everything down and sleeps. A send still pending is
// lost.
func (n *Node) DeepSleep(seconds uint16) error {
	d := time.Duration(seconds) * time.Second
	n.logger.Info("sleeping", "duration", d)
	n.sleep.DeepSleep(d, power.RFDefault)
	return ErrDeepSleep
}

// EnablePeripherals forces the shared bus on or releases it.
func (n *Node) EnablePeripherals(enabled bool) {
	n.power.SetOverride(enabled)
}

// Reboots returns the boot counter as of the last Setup.
func (n *Node) Reboots() uint32 { return n.reboots }

// PowerState returns the current power state.
func (n *Node) PowerState() power.State { return n.power.State() }

// Radio exposes the session manager.
func (n *Node) Radio() *transport.Manager { return n.radio }

// poweredSleeper turns every domain off before handing over to the
// hardware sleeper.
type poweredSleeper struct {
	power   *power.Sequencer
	sleeper power.Sleeper
}

func (s poweredSleeper) DeepSleep(d time.Duration, rf power.RFMode) {
	s.power.Off()
	s.sleeper.DeepSleep(d, rf)
}

// fullBattery stands in for boards without a battery sensor.
type fullBattery struct{}

func (fullBattery) Millivolts() uint16 { return 0xFFFE }
