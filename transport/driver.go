package transport

import "github.com/ystepanoff/loranode/protocol"

// Driver is the interface that wraps the radio MAC operations the session
// manager needs. Implementations are not safe for concurrent use; every
// call, including event delivery, happens on the step loop.
type Driver interface {
	// Init boots the chip and resets the MAC state.
	Init()
	// Shutdown stops the MAC. Any cycle in flight is abandoned.
	Shutdown()

	// SetSession installs an established session.
	SetSession(netID, devAddr uint32, nwkSKey, appSKey [protocol.KeySize]byte)
	// Session returns a snapshot of the current session and counters.
	Session() protocol.Session
	// SetCounters restores the frame counters of a resumed session.
	SetCounters(up, down uint32)
	// StartJoin starts the join handshake.
	StartJoin(keys protocol.NegotiatedKeys)

	// TxRxPending reports whether a tx/rx cycle is in progress.
	TxRxPending() bool
	// Send queues an unconfirmed uplink.
	Send(port uint8, data []byte)
	// Poll runs the MAC once. Events are delivered from inside Poll.
	Poll()
	// SetEventHandler registers the callback for MAC events.
	SetEventHandler(handler func(protocol.Event))

	SetupChannel(ch protocol.Channel)
	DisableChannel(index uint8)
	SetLinkCheck(enabled bool)
	SetADR(enabled bool)
	SetRX2DataRate(dr protocol.DataRate)
	SetDataRateTxPower(dr protocol.DataRate, power int8)
}
