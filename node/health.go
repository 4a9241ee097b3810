package node

// ResetReason is why the processor last started.
type ResetReason uint8

const (
	ResetPowerOn ResetReason = iota
	ResetWatchdog
	ResetException
	ResetSoftWatchdog
	ResetSoftRestart
	ResetDeepSleepWake
	ResetExternal
	ResetUnknown
)

func (r ResetReason) String() string {
	switch r {
	case ResetPowerOn:
		return "power-on"
	case ResetWatchdog:
		return "watchdog"
	case ResetException:
		return "exception"
	case ResetSoftWatchdog:
		return "soft-watchdog"
	case ResetSoftRestart:
		return "soft-restart"
	case ResetDeepSleepWake:
		return "deep-sleep-wake"
	case ResetExternal:
		return "external"
	default:
		return "unknown"
	}
}

// HealthCheck reports application health. It returns 0 when healthy and
// an error code between 1 and 7 otherwise.
type HealthCheck func() uint8

// Healthy is the default HealthCheck.
func Healthy() uint8 { return 0 }

// Health is a compact status report, small enough to ride along with an
// uplink.
type Health struct {
	// Reason is the reset reason, or the health-check error code when
	// Error is set.
	Reason     uint8
	Error      bool
	Millivolts uint16
}

// Health runs the health check and samples the battery.
func (n *Node) Health() Health {
	h := Health{Reason: uint8(n.reason)}
	if code := n.check(); code != 0 {
		h.Reason = code & 0x7
		h.Error = true
	}
	if n.hw.Battery != nil {
		h.Millivolts = n.hw.Battery.Millivolts()
	}
	return h
}
