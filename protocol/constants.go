package protocol

// Generic radio constants (platform independent). Higher layers depend on
// this file rather than on any one driver.
const (
	// PresharedNetID is the network id used for pre-shared sessions.
	PresharedNetID = 0x13

	// SessionSize is the encoded size of a Session:
	//   NetID (4) | DevAddr (4) | NwkSKey (16) | AppSKey (16) | SeqnoDown (4) | SeqnoUp (4)
	// All integers are little-endian.
	SessionSize = 4 + 4 + KeySize + KeySize + 4 + 4

	// Key and EUI sizes
	KeySize = 16
	EUISize = 8

	// UplinkPort is the application port of every uplink.
	UplinkPort = 1

	// MaxPayloadSize is the largest application payload the node sends.
	// It is the smallest maximum over the plan's data rates (DR0-DR2).
	MaxPayloadSize = 51

	// Managed-send defaults (milliseconds for the timeout)
	DefaultRetries = 10
	DefaultTimeout = 10000
)
