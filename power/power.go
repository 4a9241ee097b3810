// Package power sequences the node's power domains.
//
// The radio and the GPIO expander hang off a shared switched bus; Wi-Fi
// lives on the main chip and only moves between modem sleep and station
// mode. Sequencer keeps the bus enabled exactly while something that needs
// it is on, and waits for the rail to settle before a domain driver touches
// its chip.
package power

import (
	"log/slog"
	"time"

	"github.com/ystepanoff/loranode/clock"
)

// Settle delays after enabling the bus, per domain.
const (
	RadioSettle = 1000 * time.Millisecond
	GPIOSettle  = 100 * time.Millisecond
)

// WiFiMode is the state of the on-chip Wi-Fi radio.
type WiFiMode uint8

const (
	WiFiOff     WiFiMode = 0
	WiFiStation WiFiMode = 1
)

// State is the in-memory power state. It is lost on deep sleep.
type State struct {
	Bus      bool
	Radio    bool
	GPIO     bool
	WiFi     WiFiMode
	Override bool
}

// Consistent reports whether the bus is enabled exactly when a domain wired
// to it is on.
func (s State) Consistent() bool {
	return s.Bus == (s.Radio || s.GPIO || s.Override)
}

// Lines drives the control lines owned by the sequencer.
type Lines interface {
	// SetBus drives the shared bus-enable line.
	SetBus(enabled bool)
	// QuiesceRadio parks the radio's interrupt and chip-select lines so no
	// current leaks into an unpowered chip.
	QuiesceRadio()
}

// Domain is a peripheral driver living on the shared bus.
type Domain interface {
	Begin()
	End()
}

// Modem switches the on-chip Wi-Fi radio.
type Modem interface {
	Sleep()
	Station()
}

// Sequencer owns State and drives the hardware to match it.
type Sequencer struct {
	state  State
	lines  Lines
	radio  Domain
	gpio   Domain
	modem  Modem
	clock  clock.Clock
	logger *slog.Logger
}

// New builds a Sequencer. Domains may be nil when the board does not carry
// them.
func New(lines Lines, radio, gpio Domain, modem Modem, clk clock.Clock, logger *slog.Logger) *Sequencer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sequencer{
		lines:  lines,
		radio:  radio,
		gpio:   gpio,
		modem:  modem,
		clock:  clk,
		logger: logger.With("component", "power"),
	}
}

// State returns a copy of the current power state.
func (s *Sequencer) State() State { return s.state }

// Begin puts the hardware in its lowest-power configuration: bus off, radio
// lines parked, Wi-Fi asleep.
func (s *Sequencer) Begin() {
	s.lines.SetBus(false)
	s.lines.QuiesceRadio()
	if s.modem != nil {
		s.modem.Sleep()
	}
	s.state = State{}
}

// Apply recomputes the bus from the domain flags and drives the line.
func (s *Sequencer) Apply() {
	bus := s.state.Radio || s.state.GPIO || s.state.Override
	if bus {
		s.logger.Debug("enabling bus")
	} else {
		s.logger.Debug("disabling bus")
	}
	s.lines.SetBus(bus)
	s.state.Bus = bus
}

// powerUp marks a domain on and, if the bus was off, enables it and waits
// for the rail to settle.
func (s *Sequencer) powerUp(settle time.Duration) {
	if s.state.Bus {
		return
	}
	s.Apply()
	s.clock.Sleep(settle)
}

// SetRadio powers the radio domain on or off.
func (s *Sequencer) SetRadio(enabled bool) {
	switch {
	case enabled && !s.state.Radio:
		s.logger.Info("enabling radio")
		s.state.Radio = true
		s.powerUp(RadioSettle)
		if s.radio != nil {
			s.radio.Begin()
		}

	case !enabled && s.state.Radio:
		s.logger.Info("disabling radio")
		if s.radio != nil {
			s.radio.End()
		}
		s.lines.QuiesceRadio()
		s.state.Radio = false
		s.Apply()
	}
}

// SetGPIO powers the GPIO expander on or off.
func (s *Sequencer) SetGPIO(enabled bool) {
	switch {
	case enabled && !s.state.GPIO:
		s.logger.Info("enabling gpio expansion")
		s.state.GPIO = true
		s.powerUp(GPIOSettle)
		if s.gpio != nil {
			s.gpio.Begin()
		}

	case !enabled && s.state.GPIO:
		s.logger.Info("disabling gpio expansion")
		if s.gpio != nil {
			s.gpio.End()
		}
		s.state.GPIO = false
		s.Apply()
	}
}

// SetWiFi switches the on-chip Wi-Fi radio. It never touches the bus.
func (s *Sequencer) SetWiFi(mode WiFiMode) {
	if s.state.WiFi == mode {
		return
	}
	switch mode {
	case WiFiOff:
		s.logger.Info("disabling wifi")
		if s.modem != nil {
			s.modem.Sleep()
		}
	case WiFiStation:
		s.logger.Info("enabling wifi")
		if s.modem != nil {
			s.modem.Station()
		}
	default:
		return
	}
	s.state.WiFi = mode
}

// SetOverride forces the bus on regardless of the domains.
func (s *Sequencer) SetOverride(enabled bool) {
	if enabled == s.state.Override {
		return
	}
	if enabled {
		s.logger.Info("enabling bus override")
	} else {
		s.logger.Info("disabling bus override")
	}
	s.state.Override = enabled
	s.Apply()
}

// Off turns every domain off, parks the lines and drops the bus. It runs
// before deep sleep.
func (s *Sequencer) Off() {
	s.SetRadio(false)
	s.SetGPIO(false)
	s.SetWiFi(WiFiOff)
	s.state.Override = false

	s.lines.QuiesceRadio()
	s.lines.SetBus(false)
	s.state.Bus = false
}
