package transport

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/ystepanoff/loranode/clock"
	proto "github.com/ystepanoff/loranode/protocol"
	"github.com/ystepanoff/loranode/rtcmem"
)

// SentFunc receives the outcome of a managed send and any downlink that
// arrived in the same cycle.
type SentFunc func(ok bool, downlink []byte)

// JoinedFunc receives the outcome of a join handshake.
type JoinedFunc func(ok bool)

type pendingTx struct {
	data     []byte
	retries  uint16
	timeout  time.Duration
	deadline time.Time
}

// Manager owns the radio session and the managed-send retry loop. It is
// the radio domain of the power sequencer: Begin runs once the chip is
// powered and End before it loses power.
type Manager struct {
	driver     Driver
	store      *rtcmem.Store
	activation proto.Activation
	settings   proto.RadioSettings
	clock      clock.Clock
	logger     *slog.Logger

	configured bool
	pending    *pendingTx
	sentCb     SentFunc
	joinedCb   JoinedFunc
}

// NewManager wires a Manager to its driver and durable store.
func NewManager(d Driver, store *rtcmem.Store, activation proto.Activation, settings proto.RadioSettings, clk clock.Clock, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{
		driver:     d,
		store:      store,
		activation: activation,
		settings:   settings,
		clock:      clk,
		logger:     logger.With("component", "lora"),
	}
	d.SetEventHandler(m.handleEvent)
	return m
}

func (m *Manager) disabled() bool {
	return !m.activation.Configured()
}

// Mode returns the configured activation mode.
func (m *Manager) Mode() proto.ActivationMode { return m.activation.Mode }

// Configured reports whether the MAC is running.
func (m *Manager) Configured() bool { return m.configured }

// Pending reports whether a managed send is waiting for completion.
func (m *Manager) Pending() bool { return m.pending != nil }

// Joined reports whether a negotiated session is persisted.
func (m *Manager) Joined() bool {
	return m.store.FlagGet(rtcmem.SlotBootFlags, rtcmem.BootFlagRadioJoined) != 0
}

// Begin initializes the MAC and establishes the session. A pre-shared
// session is installed directly. A negotiated session is resumed from
// durable memory when one was persisted, otherwise a join is started.
func (m *Manager) Begin() {
	m.sentCb = nil
	if m.disabled() {
		return
	}

	m.driver.Init()

	switch m.activation.Mode {
	case proto.ModePreshared:
		keys := m.activation.Preshared
		m.driver.SetSession(proto.PresharedNetID, keys.DevAddr, keys.NwkSKey, keys.AppSKey)
		m.ApplyChannelPlan()

	case proto.ModeNegotiated:
		if s, ok := m.loadSession(); ok {
			m.logger.Info("resuming negotiated session",
				"devaddr", fmt.Sprintf("%08x", s.DevAddr), "seqno_up", s.SeqnoUp, "seqno_down", s.SeqnoDown)
			m.driver.SetSession(s.NetID, s.DevAddr, s.NwkSKey, s.AppSKey)
			m.driver.SetCounters(s.SeqnoUp, s.SeqnoDown)
			m.ApplyChannelPlan()
		} else {
			m.logger.Info("starting join")
			m.driver.StartJoin(*m.activation.Negotiated)
		}
	}

	m.configured = true
	m.pending = nil
	m.logger.Debug("ready", "mode", m.activation.Mode)
}

// End stops the MAC. A managed send still in flight is dropped without a
// callback.
func (m *Manager) End() {
	if m.disabled() {
		return
	}
	if m.pending != nil {
		m.logger.Debug("dropping pending transmission")
		m.pending = nil
	}
	m.configured = false
	m.driver.Shutdown()
	m.logger.Debug("shut down")
}

// Step drains MAC events and then runs the managed-send timeout path.
func (m *Manager) Step() {
	if m.disabled() || !m.configured {
		return
	}

	m.driver.Poll()

	p := m.pending
	if p == nil || !m.clock.Now().After(p.deadline) {
		return
	}

	p.retries--
	if p.retries == 0 {
		m.logger.Warn("retries exceeded")
		m.pending = nil
		if cb := m.sentCb; cb != nil {
			m.sentCb = nil
			cb(false, nil)
		}
		return
	}

	m.logger.Info("transmission timed out, retrying", "retries_left", p.retries)
	p.deadline = m.clock.Now().Add(p.timeout)
	m.SendRaw(p.data)
}

// SendRaw hands data to the MAC. It returns the number of bytes accepted,
// which is 0 when the radio is disabled or a tx/rx cycle is pending.
func (m *Manager) SendRaw(data []byte) int {
	if m.disabled() || !m.configured {
		return 0
	}
	if m.driver.TxRxPending() {
		m.logger.Debug("not sending: pending rx/tx", "bytes", len(data))
		return 0
	}
	m.logger.Debug("sending", "bytes", len(data))
	m.driver.Send(proto.UplinkPort, data)
	return len(data)
}

// SendManaged sends data and keeps retrying every timeout until the MAC
// reports completion or retries attempts have been made. A busy radio does
// not abort the send; the next timeout retries it.
func (m *Manager) SendManaged(data []byte, retries uint16, timeout time.Duration) error {
	if m.disabled() {
		return proto.ErrRadioDisabled
	}
	if len(data) > proto.MaxPayloadSize {
		return proto.ErrInvalidPayload
	}
	if retries == 0 {
		retries = 1
	}

	// Make a copy of the data to prevent modification during transmission
	dataCopy := make([]byte, len(data))
	copy(dataCopy, data)

	m.pending = &pendingTx{
		data:     dataCopy,
		retries:  retries,
		timeout:  timeout,
		deadline: m.clock.Now().Add(timeout),
	}

	// First attempt is immediate.
	m.SendRaw(dataCopy)
	return nil
}

// WhenSent registers the callback for the next send completion. It fires
// at most once.
func (m *Manager) WhenSent(cb SentFunc) { m.sentCb = cb }

// WhenJoined registers the join callback. It is kept across failed joins
// and cleared after the first success.
func (m *Manager) WhenJoined(cb JoinedFunc) { m.joinedCb = cb }

// ApplyChannelPlan configures the community-network channel plan and the
// uplink settings. It must run after a session is installed.
func (m *Manager) ApplyChannelPlan() {
	for _, ch := range proto.Channels {
		m.driver.SetupChannel(ch)
	}
	m.driver.DisableChannel(proto.DisabledChannel)

	m.driver.SetLinkCheck(false)
	m.driver.SetADR(m.settings.ADR)
	m.driver.SetRX2DataRate(proto.RX2DataRate)

	dr, err := proto.DataRateForSF(m.settings.SpreadingFactor)
	if err != nil {
		m.logger.Warn("falling back to SF7", "error", err)
		dr = proto.DR5
	}
	m.driver.SetDataRateTxPower(dr, m.settings.TxPower)

	m.logger.Info("channel plan configured",
		"sf", m.settings.SpreadingFactor, "power", m.settings.TxPower, "adr", m.settings.ADR)
}

func (m *Manager) handleEvent(ev proto.Event) {
	switch ev.Kind {
	case proto.EventJoined:
		m.logger.Info("joined")
		// Link check is enabled by the join but not supported by the
		// network.
		m.driver.SetLinkCheck(false)

		if m.activation.Mode == proto.ModeNegotiated {
			if m.saveSession(m.driver.Session()) {
				m.logger.Debug("marking device as joined")
				m.store.FlagSet(rtcmem.SlotBootFlags, rtcmem.BootFlagRadioJoined)
			}
		}
		if cb := m.joinedCb; cb != nil {
			m.joinedCb = nil
			cb(true)
		}

	case proto.EventJoinFailed, proto.EventRejoinFailed:
		m.logger.Warn(ev.Kind.String())
		if m.joinedCb != nil {
			m.joinedCb(false)
		}

	case proto.EventTxComplete:
		m.logger.Info("tx complete", "ack", ev.Ack, "downlink_bytes", len(ev.Payload))
		m.persistCounters()
		m.pending = nil
		if cb := m.sentCb; cb != nil {
			m.sentCb = nil
			cb(true, ev.Payload)
		}

	case proto.EventRxComplete:
		m.logger.Info("rx complete", "bytes", len(ev.Payload))
		m.persistCounters()

	default:
		m.logger.Debug("event", "kind", ev.Kind.String())
	}
}

// persistCounters refreshes the persisted session with the current frame
// counters. Only negotiated sessions are persisted.
func (m *Manager) persistCounters() {
	if m.activation.Mode != proto.ModeNegotiated || !m.Joined() {
		return
	}
	m.saveSession(m.driver.Session())
}

func (m *Manager) saveSession(s proto.Session) bool {
	data, err := s.MarshalBinary()
	if err != nil {
		m.logger.Error("encoding session", "error", err)
		return false
	}
	if m.store.WriteRecord(rtcmem.SlotRadioSession, 0, data) == 0 {
		m.logger.Error("persisting session", "error", proto.ErrRecordTooLarge)
		return false
	}
	return true
}

func (m *Manager) loadSession() (proto.Session, bool) {
	var s proto.Session
	if !m.Joined() {
		return s, false
	}
	buf := make([]byte, proto.SessionSize)
	if m.store.ReadRecord(rtcmem.SlotRadioSession, 0, buf) == 0 {
		return s, false
	}
	if err := s.UnmarshalBinary(buf); err != nil {
		m.logger.Warn("discarding persisted session", "error", err)
		return s, false
	}
	return s, true
}
