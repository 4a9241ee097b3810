package rtcmem

// Durable memory layout.
// These values are shared with every firmware that has ever run on the
// device and MUST NOT change.

// ---- GEOMETRY ----

// Slots is the number of 32-bit words in the durable region.
const Slots = 128

// MaxSlot is the highest valid slot index.
const MaxSlot = Slots - 1

// WordSize is the size of one slot in bytes.
const WordSize = 4

// PayloadBits is the usable width of a verified slot; the low nibble of the
// word holds the checksum.
const PayloadBits = 28

// PayloadMask masks a value to PayloadBits.
const PayloadMask uint32 = 1<<PayloadBits - 1

// ---- RESERVED SLOTS ----

// SlotReboots holds the boot counter.
const SlotReboots = MaxSlot

// SlotBootFlags holds the BootFlag bitmask.
const SlotBootFlags = MaxSlot - 1

// SlotRadioSession is the first slot of the persisted radio session.
const SlotRadioSession = MaxSlot - 13

// RadioSessionSlots is the width of the radio session record.
const RadioSessionSlots = 12

// SlotFirmwareID holds the checksum of the firmware that last owned the
// durable region. Slot 113 is left unused.
const SlotFirmwareID = MaxSlot - 15

// ---- BOOT FLAGS ----

// BootFlagUndervoltage marks that the device went to sleep because of
// undervoltage protection.
const BootFlagUndervoltage uint32 = 1

// BootFlagRadioJoined marks that a negotiated radio session is persisted.
const BootFlagRadioJoined uint32 = 2
