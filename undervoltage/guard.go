// Package undervoltage keeps the node asleep while the battery is too weak
// to run the radio reliably.
//
// Two thresholds give hysteresis: the node locks down when the battery
// drops below Disable and only resumes once it has recovered to Enable.
// The lockdown state is persisted in the boot flags so it survives the
// deep sleeps it causes.
package undervoltage

import (
	"log/slog"
	"time"

	"github.com/ystepanoff/loranode/power"
	"github.com/ystepanoff/loranode/rtcmem"
)

// Off disables protection when used for both thresholds.
const Off uint16 = 0xFFFF

const (
	// LockdownSleep is how long the node sleeps between battery checks
	// while locked down.
	LockdownSleep = 1800 * time.Second
	// RecoverySleep is the short sleep used to reboot with RF calibration
	// restored after leaving lockdown.
	RecoverySleep = 100 * time.Microsecond
)

// Sensor samples the battery.
type Sensor interface {
	Millivolts() uint16
}

// Thresholds are the lockdown bounds in millivolts. Disable must be below
// Enable.
type Thresholds struct {
	Disable uint16
	Enable  uint16
}

// Disabled reports whether protection is switched off.
func (t Thresholds) Disabled() bool {
	return t.Disable == Off && t.Enable == Off
}

// Verdict tells the boot sequence whether it may continue.
type Verdict uint8

const (
	// Continue means the battery is fine.
	Continue Verdict = iota
	// Sleep means deep sleep was requested. On hardware the request never
	// returns; on a host the caller must abandon the current boot.
	Sleep
)

func (v Verdict) String() string {
	if v == Sleep {
		return "sleep"
	}
	return "continue"
}

// Guard is the undervoltage state machine.
type Guard struct {
	store      *rtcmem.Store
	sensor     Sensor
	sleeper    power.Sleeper
	thresholds Thresholds
	logger     *slog.Logger
}

// New builds a Guard.
func New(store *rtcmem.Store, sensor Sensor, sleeper power.Sleeper, thresholds Thresholds, logger *slog.Logger) *Guard {
	if logger == nil {
		logger = slog.Default()
	}
	return &Guard{
		store:      store,
		sensor:     sensor,
		sleeper:    sleeper,
		thresholds: thresholds,
		logger:     logger.With("component", "undervoltage"),
	}
}

// Thresholds returns the configured bounds.
func (g *Guard) Thresholds() Thresholds { return g.thresholds }

// LockedDown reports whether the persisted lockdown flag is set.
func (g *Guard) LockedDown() bool {
	return g.store.FlagGet(rtcmem.SlotBootFlags, rtcmem.BootFlagUndervoltage) != 0
}

// CheckLockdown runs at boot before any heavy peripheral is powered. A node
// in lockdown goes back to sleep until the battery reaches Enable; once it
// has, the flag is cleared and the node reboots with RF enabled.
func (g *Guard) CheckLockdown() Verdict {
	if g.thresholds.Disabled() || !g.LockedDown() {
		return Continue
	}

	mv := g.sensor.Millivolts()
	if mv < g.thresholds.Enable {
		g.logger.Info("battery still low, staying in lockdown",
			"millivolts", mv, "enable", g.thresholds.Enable)
		g.sleeper.DeepSleep(LockdownSleep, power.RFDisabled)
		return Sleep
	}

	g.logger.Info("battery recovered, leaving lockdown",
		"millivolts", mv, "enable", g.thresholds.Enable)
	g.store.FlagUnset(rtcmem.SlotBootFlags, rtcmem.BootFlagUndervoltage)
	g.sleeper.DeepSleep(RecoverySleep, power.RFDefault)
	return Sleep
}

// Protect runs at boot after CheckLockdown and on every step. It locks the
// node down as soon as the battery drops below Disable.
func (g *Guard) Protect() Verdict {
	if g.thresholds.Disabled() {
		return Continue
	}

	mv := g.sensor.Millivolts()
	if mv >= g.thresholds.Disable {
		return Continue
	}

	g.logger.Warn("battery low, entering lockdown",
		"millivolts", mv, "disable", g.thresholds.Disable)
	if !g.LockedDown() {
		g.store.FlagSet(rtcmem.SlotBootFlags, rtcmem.BootFlagUndervoltage)
	}
	g.sleeper.DeepSleep(LockdownSleep, power.RFDisabled)
	return Sleep
}
