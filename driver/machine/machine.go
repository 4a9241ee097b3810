//go:build tinygo

// Package machine drives the node's control lines and battery sensor
// through TinyGo's machine package.
package machine

import (
	"machine"
	"time"

	"github.com/ystepanoff/loranode/power"
)

// Pinout names the pins the runtime drives directly. The radio's SPI pins
// belong to the radio driver.
type Pinout struct {
	BusEnable machine.Pin
	RadioCS   machine.Pin
	RadioDIO0 machine.Pin
	RadioDIO1 machine.Pin
	Battery   machine.Pin
}

// Lines drives the bus-enable line and parks the radio lines.
type Lines struct {
	pins Pinout
}

// NewLines configures the bus-enable pin as an output, initially low.
func NewLines(pins Pinout) *Lines {
	pins.BusEnable.Configure(machine.PinConfig{Mode: machine.PinOutput})
	pins.BusEnable.Low()
	return &Lines{pins: pins}
}

func (l *Lines) SetBus(enabled bool) {
	l.pins.BusEnable.Set(enabled)
}

// QuiesceRadio turns the radio's chip-select and interrupt lines into
// inputs so that nothing drives current into the unpowered chip.
func (l *Lines) QuiesceRadio() {
	for _, p := range []machine.Pin{l.pins.RadioCS, l.pins.RadioDIO0, l.pins.RadioDIO1} {
		p.Configure(machine.PinConfig{Mode: machine.PinInput})
	}
}

// Divider describes the resistor divider in front of the battery ADC pin.
type Divider struct {
	// R1 connects to the battery, R2 to ground (ohms).
	R1, R2 uint32
	// RefMillivolts is the ADC reference.
	RefMillivolts uint32
}

// DefaultDivider is a 1:1 divider on a 3.3 V reference.
var DefaultDivider = Divider{R1: 20000, R2: 20000, RefMillivolts: 3300}

// Battery samples the battery voltage through an ADC pin.
type Battery struct {
	adc     machine.ADC
	divider Divider
}

// NewBattery configures the ADC and the given pin.
func NewBattery(pin machine.Pin, divider Divider) *Battery {
	machine.InitADC()
	adc := machine.ADC{Pin: pin}
	adc.Configure(machine.ADCConfig{})
	return &Battery{adc: adc, divider: divider}
}

// Millivolts returns the battery voltage. TinyGo scales every ADC to 16
// bits.
func (b *Battery) Millivolts() uint16 {
	raw := uint64(b.adc.Get())
	d := b.divider
	mv := raw * uint64(d.RefMillivolts) * uint64(d.R1+d.R2) / uint64(d.R2) >> 16
	if mv > 0xFFFE {
		mv = 0xFFFE
	}
	return uint16(mv)
}

// Sleeper emulates deep sleep on targets without a timer wake-up: it idles
// for the requested time and resets the processor, so the program restarts
// from the top exactly as it would after a real deep sleep. RF calibration
// is the radio driver's concern and is ignored here.
type Sleeper struct{}

func (Sleeper) DeepSleep(d time.Duration, _ power.RFMode) {
	time.Sleep(d)
	machine.CPUReset()
}
