package power

import "time"

// RFMode selects whether the RF front-end is calibrated on the next wake.
type RFMode uint8

const (
	RFDefault  RFMode = 0
	RFDisabled RFMode = 1
)

// Sleeper enters deep sleep. On hardware DeepSleep never returns: the
// processor powers down and the program restarts from the top when the
// timer fires. Host implementations return so that callers can unwind.
type Sleeper interface {
	DeepSleep(d time.Duration, rf RFMode)
}
