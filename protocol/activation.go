package protocol

// ActivationMode selects how the node establishes its radio session.
type ActivationMode uint8

const (
	// ModeDisabled leaves the radio off.
	ModeDisabled ActivationMode = iota
	// ModePreshared uses a fixed device address and session keys.
	ModePreshared
	// ModeNegotiated runs a join handshake and persists the resulting
	// session.
	ModeNegotiated
)

func (m ActivationMode) String() string {
	switch m {
	case ModeDisabled:
		return "disabled"
	case ModePreshared:
		return "preshared"
	case ModeNegotiated:
		return "negotiated"
	default:
		return "unknown"
	}
}

// PresharedKeys are the credentials of a pre-shared session.
type PresharedKeys struct {
	DevAddr uint32
	NwkSKey [KeySize]byte
	AppSKey [KeySize]byte
}

// NegotiatedKeys are the credentials used for the join handshake. EUIs are
// least-significant byte first, the way the radio MAC expects them.
type NegotiatedKeys struct {
	AppEUI [EUISize]byte
	DevEUI [EUISize]byte
	AppKey [KeySize]byte
}

// Activation is the tagged activation configuration. Exactly one of
// Preshared and Negotiated is set, matching Mode; both are nil when the
// radio is disabled.
type Activation struct {
	Mode       ActivationMode
	Preshared  *PresharedKeys
	Negotiated *NegotiatedKeys
}

// Configured reports whether the keys required by Mode are present.
func (a Activation) Configured() bool {
	switch a.Mode {
	case ModePreshared:
		return a.Preshared != nil
	case ModeNegotiated:
		return a.Negotiated != nil
	default:
		return false
	}
}
