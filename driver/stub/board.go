//go:build !tinygo && !baremetal

package stub

import (
	"sync"
	"time"

	"github.com/ystepanoff/loranode/power"
)

// Lines records the state of the bus-enable and radio control lines.
type Lines struct {
	mu       sync.Mutex
	bus      bool
	quiesced int
}

func (l *Lines) SetBus(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.bus = enabled
}

func (l *Lines) QuiesceRadio() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.quiesced++
}

// Bus reports the level of the bus-enable line.
func (l *Lines) Bus() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.bus
}

// Quiesced returns how many times the radio lines were parked.
func (l *Lines) Quiesced() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.quiesced
}

// Battery is a settable battery sensor.
type Battery struct {
	mu sync.Mutex
	mv uint16
}

// NewBattery returns a Battery reading mv.
func NewBattery(mv uint16) *Battery { return &Battery{mv: mv} }

func (b *Battery) Millivolts() uint16 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.mv
}

// Set changes the reading.
func (b *Battery) Set(mv uint16) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.mv = mv
}

// Modem tracks the Wi-Fi mode.
type Modem struct {
	mu      sync.Mutex
	station bool
}

func (m *Modem) Sleep() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.station = false
}

func (m *Modem) Station() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.station = true
}

// Mode returns the current Wi-Fi mode.
func (m *Modem) Mode() power.WiFiMode {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.station {
		return power.WiFiStation
	}
	return power.WiFiOff
}

// Expander is a GPIO expander on the shared bus.
type Expander struct {
	mu      sync.Mutex
	enabled bool
}

func (e *Expander) Begin() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.enabled = true
}

func (e *Expander) End() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.enabled = false
}

// Enabled reports whether the expander is initialized.
func (e *Expander) Enabled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.enabled
}

// Sleep is one recorded deep sleep.
type Sleep struct {
	Duration time.Duration
	RF       power.RFMode
}

// Sleeper records deep sleeps. On a host the process keeps running, so
// DeepSleep returns; OnSleep lets the caller persist state first.
type Sleeper struct {
	mu     sync.Mutex
	sleeps []Sleep

	OnSleep func(d time.Duration, rf power.RFMode)
}

func (s *Sleeper) DeepSleep(d time.Duration, rf power.RFMode) {
	s.mu.Lock()
	s.sleeps = append(s.sleeps, Sleep{Duration: d, RF: rf})
	hook := s.OnSleep
	s.mu.Unlock()

	if hook != nil {
		hook(d, rf)
	}
}

// Sleeps returns the recorded sleeps in order.
func (s *Sleeper) Sleeps() []Sleep {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Sleep(nil), s.sleeps...)
}
