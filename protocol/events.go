package protocol

// EventKind identifies a radio MAC event.
type EventKind uint8

const (
	EventJoining EventKind = iota + 1
	EventJoined
	EventJoinFailed
	EventRejoinFailed
	EventTxComplete
	EventRxComplete
	EventLinkDead
	EventLinkAlive
	EventReset
)

var eventNames = map[EventKind]string{
	EventJoining:      "joining",
	EventJoined:       "joined",
	EventJoinFailed:   "join failed",
	EventRejoinFailed: "rejoin failed",
	EventTxComplete:   "tx complete",
	EventRxComplete:   "rx complete",
	EventLinkDead:     "link dead",
	EventLinkAlive:    "link alive",
	EventReset:        "reset",
}

func (k EventKind) String() string {
	if name, ok := eventNames[k]; ok {
		return name
	}
	return "unknown"
}

// Event is delivered by the radio driver from within Poll.
type Event struct {
	Kind EventKind
	// Ack is set on EventTxComplete when the uplink was confirmed.
	Ack bool
	// Payload is the downlink received in the tx cycle, if any.
	Payload []byte
}
