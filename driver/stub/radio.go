//go:build !tinygo && !baremetal

package stub

import (
	"sync"

	proto "github.com/ystepanoff/loranode/protocol"
)

// Network describes how the simulated network behind a Radio behaves. Delays
// are counted in Poll calls.
type Network struct {
	// JoinPolls is how long a join handshake takes.
	JoinPolls int
	// TxPolls is how long a tx/rx cycle takes.
	TxPolls int
	// RejectJoins makes every join attempt fail.
	RejectJoins bool
	// DropUplinks makes tx cycles end without a completion event.
	DropUplinks bool
}

// DefaultNetwork answers quickly and reliably.
var DefaultNetwork = Network{JoinPolls: 3, TxPolls: 2}

// Plan is the channel and data-rate configuration the radio was given.
type Plan struct {
	Channels  []proto.Channel
	Disabled  []uint8
	LinkCheck bool
	ADR       bool
	RX2       proto.DataRate
	DataRate  proto.DataRate
	TxPower   int8
}

// Radio implements a simulated radio MAC for host-side runs and tests.
type Radio struct {
	mu      sync.Mutex
	net     Network
	handler func(proto.Event)

	running   bool
	session   proto.Session
	joining   bool
	joinPolls int
	cycle     int
	plan      Plan

	events []proto.Event
	rxBuf  ringBuffer // downlinks waiting for the next tx cycle
	txBuf  ringBuffer // every uplink accepted
}

// NewRadio returns a stopped Radio backed by net.
func NewRadio(net Network) *Radio {
	if net.JoinPolls < 1 {
		net.JoinPolls = 1
	}
	if net.TxPolls < 1 {
		net.TxPolls = 1
	}
	return &Radio{net: net}
}

func (r *Radio) SetEventHandler(handler func(proto.Event)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handler = handler
}

func (r *Radio) Init() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.running = true
	r.session = proto.Session{}
	r.joining = false
	r.cycle = 0
	r.plan = Plan{LinkCheck: true}
}

func (r *Radio) Shutdown() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.running = false
	r.joining = false
	r.cycle = 0
}

func (r *Radio) SetSession(netID, devAddr uint32, nwkSKey, appSKey [proto.KeySize]byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.session = proto.Session{NetID: netID, DevAddr: devAddr, NwkSKey: nwkSKey, AppSKey: appSKey}
	r.joining = false
}

func (r *Radio) Session() proto.Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.session
}

func (r *Radio) SetCounters(up, down uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.session.SeqnoUp = up
	r.session.SeqnoDown = down
}

func (r *Radio) StartJoin(keys proto.NegotiatedKeys) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.running {
		return
	}
	r.joining = true
	r.joinPolls = r.net.JoinPolls
	r.events = append(r.events, proto.Event{Kind: proto.EventJoining})
}

func (r *Radio) TxRxPending() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.joining || r.cycle > 0
}

func (r *Radio) Send(port uint8, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.running || r.joining || r.cycle > 0 {
		return
	}
	frame := make([]byte, len(data))
	copy(frame, data)
	r.txBuf.push(frame)
	r.session.SeqnoUp++
	r.cycle = r.net.TxPolls
}

// Poll advances the simulated network by one tick and delivers the events
// it produced.
func (r *Radio) Poll() {
	r.mu.Lock()
	if r.running {
		r.tick()
	}
	events := r.events
	r.events = nil
	handler := r.handler
	r.mu.Unlock()

	if handler == nil {
		return
	}
	for _, ev := range events {
		handler(ev)
	}
}

func (r *Radio) tick() {
	if r.joining {
		r.joinPolls--
		if r.joinPolls <= 0 {
			if r.net.RejectJoins {
				r.joinPolls = r.net.JoinPolls
				r.events = append(r.events, proto.Event{Kind: proto.EventJoinFailed})
			} else {
				r.joining = false
				r.session = proto.Session{
					NetID:   proto.PresharedNetID,
					DevAddr: proto.RandomDevAddr(proto.PresharedNetID),
					NwkSKey: proto.RandomKey(),
					AppSKey: proto.RandomKey(),
				}
				r.events = append(r.events, proto.Event{Kind: proto.EventJoined})
			}
		}
	}

	if r.cycle > 0 {
		r.cycle--
		if r.cycle == 0 && !r.net.DropUplinks {
			ev := proto.Event{Kind: proto.EventTxComplete}
			if downlink, ok := r.rxBuf.pop(); ok {
				r.session.SeqnoDown++
				ev.Payload = downlink
			}
			r.events = append(r.events, ev)
		}
	}
}

func (r *Radio) SetupChannel(ch proto.Channel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.plan.Channels = append(r.plan.Channels, ch)
}

func (r *Radio) DisableChannel(index uint8) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.plan.Disabled = append(r.plan.Disabled, index)
}

func (r *Radio) SetLinkCheck(enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.plan.LinkCheck = enabled
}

func (r *Radio) SetADR(enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.plan.ADR = enabled
}

func (r *Radio) SetRX2DataRate(dr proto.DataRate) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.plan.RX2 = dr
}

func (r *Radio) SetDataRateTxPower(dr proto.DataRate, power int8) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.plan.DataRate = dr
	r.plan.TxPower = power
}

// Running reports whether the MAC is initialized.
func (r *Radio) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// Plan returns a copy of the configured plan.
func (r *Radio) Plan() Plan {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.plan
	p.Channels = append([]proto.Channel(nil), r.plan.Channels...)
	p.Disabled = append([]uint8(nil), r.plan.Disabled...)
	return p
}

// InjectDownlink queues a downlink for the next completed tx cycle.
func (r *Radio) InjectDownlink(data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	frame := make([]byte, len(data))
	copy(frame, data)
	r.rxBuf.push(frame)
}

// InjectEvent queues an event for the next Poll.
func (r *Radio) InjectEvent(ev proto.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

// GetTxLog returns the most recent uplinks, oldest first.
func (r *Radio) GetTxLog() [][]byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.txBuf.snapshot()
}

const ringCapacity = 64

type ringBuffer struct {
	data       [ringCapacity][]byte
	head, tail int // head = next pop, tail = next push
	count      int
}

func (rb *ringBuffer) push(frame []byte) {
	if rb.count == ringCapacity {
		// Overwrite the oldest when buffer is full to keep memory bounded
		rb.data[rb.tail] = nil
		rb.head = (rb.head + 1) % ringCapacity
		rb.count--
	}
	rb.data[rb.tail] = frame
	rb.tail = (rb.tail + 1) % ringCapacity
	rb.count++
}

func (rb *ringBuffer) pop() ([]byte, bool) {
	if rb.count == 0 {
		return nil, false
	}
	frame := rb.data[rb.head]
	rb.data[rb.head] = nil
	rb.head = (rb.head + 1) % ringCapacity
	rb.count--
	return frame, true
}

func (rb *ringBuffer) snapshot() [][]byte {
	out := make([][]byte, rb.count)
	i := rb.head
	for c := 0; c < rb.count; c++ {
		p := rb.data[i]
		cp := make([]byte, len(p))
		copy(cp, p)
		out[c] = cp
		i = (i + 1) % ringCapacity
	}
	return out
}
