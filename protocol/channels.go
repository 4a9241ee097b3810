package protocol

import "fmt"

// DataRate is a regional data rate index.
type DataRate uint8

// EU868 data rates.
const (
	DR0 DataRate = iota // SF12 / 125 kHz
	DR1                 // SF11 / 125 kHz
	DR2                 // SF10 / 125 kHz
	DR3                 // SF9 / 125 kHz
	DR4                 // SF8 / 125 kHz
	DR5                 // SF7 / 125 kHz
	DR6                 // SF7 / 250 kHz
)

// DataRateForSF maps a 125 kHz spreading factor to its data rate.
func DataRateForSF(sf uint8) (DataRate, error) {
	if sf < 7 || sf > 12 {
		return 0, fmt.Errorf("%w: SF%d", ErrInvalidDataRate, sf)
	}
	return DataRate(12 - sf), nil
}

// Channel is one uplink channel of the plan.
type Channel struct {
	Index     uint8
	Frequency uint32 // Hz
	MinDR     DataRate
	MaxDR     DataRate
}

// DisabledChannel is the channel slot the plan switches off. The radio
// cannot do FSK, so the FSK channel is not available.
const DisabledChannel = 8

// RX2DataRate is the data rate of the second receive window (SF9).
const RX2DataRate = DR3

// Channels is the community-network EU868 plan.
var Channels = []Channel{
	{Index: 0, Frequency: 868100000, MinDR: DR0, MaxDR: DR5},
	{Index: 1, Frequency: 868300000, MinDR: DR0, MaxDR: DR6},
	{Index: 2, Frequency: 868500000, MinDR: DR0, MaxDR: DR5},
	{Index: 3, Frequency: 867100000, MinDR: DR0, MaxDR: DR5},
	{Index: 4, Frequency: 867300000, MinDR: DR0, MaxDR: DR5},
	{Index: 5, Frequency: 867500000, MinDR: DR0, MaxDR: DR5},
	{Index: 6, Frequency: 867700000, MinDR: DR0, MaxDR: DR5},
	{Index: 7, Frequency: 867900000, MinDR: DR0, MaxDR: DR5},
}

// RadioSettings are the configurable parts of the plan.
type RadioSettings struct {
	SpreadingFactor uint8
	TxPower         int8 // dBm
	ADR             bool
}
