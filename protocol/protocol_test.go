package protocol

import (
	"bytes"
	"errors"
	"testing"
)

func testSession() Session {
	s := Session{
		NetID:     0x13,
		DevAddr:   0x260B1234,
		SeqnoDown: 7,
		SeqnoUp:   0x01020304,
	}
	for i := range s.NwkSKey {
		s.NwkSKey[i] = byte(i)
		s.AppSKey[i] = byte(0xF0 + i)
	}
	return s
}

func TestSessionLayout(t *testing.T) {
	data, err := testSession().MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary() error = %v", err)
	}
	if len(data) != SessionSize || SessionSize != 48 {
		t.Fatalf("len = %d, SessionSize = %d, want 48", len(data), SessionSize)
	}

	if !bytes.Equal(data[0:4], []byte{0x13, 0, 0, 0}) {
		t.Errorf("netid bytes = % x", data[0:4])
	}
	if !bytes.Equal(data[4:8], []byte{0x34, 0x12, 0x0B, 0x26}) {
		t.Errorf("devaddr bytes = % x", data[4:8])
	}
	if data[8] != 0x00 || data[23] != 0x0F {
		t.Errorf("nwk key bytes = % x", data[8:24])
	}
	if data[24] != 0xF0 || data[39] != 0xFF {
		t.Errorf("app key bytes = % x", data[24:40])
	}
	// Downlink counter precedes the uplink counter.
	if !bytes.Equal(data[40:44], []byte{7, 0, 0, 0}) {
		t.Errorf("seqno down bytes = % x", data[40:44])
	}
	if !bytes.Equal(data[44:48], []byte{0x04, 0x03, 0x02, 0x01}) {
		t.Errorf("seqno up bytes = % x", data[44:48])
	}

	var got Session
	if err := got.UnmarshalBinary(data); err != nil {
		t.Fatalf("UnmarshalBinary() error = %v", err)
	}
	if got != testSession() {
		t.Errorf("UnmarshalBinary() = %+v, want %+v", got, testSession())
	}
}

func TestSessionUnmarshalWrongSize(t *testing.T) {
	var s Session
	for _, n := range []int{0, 47, 49} {
		if err := s.UnmarshalBinary(make([]byte, n)); !errors.Is(err, ErrInvalidSession) {
			t.Errorf("UnmarshalBinary(%d bytes) error = %v, want ErrInvalidSession", n, err)
		}
	}
}

func TestDataRateForSF(t *testing.T) {
	tests := []struct {
		sf      uint8
		want    DataRate
		wantErr bool
	}{
		{sf: 7, want: DR5},
		{sf: 9, want: DR3},
		{sf: 12, want: DR0},
		{sf: 6, wantErr: true},
		{sf: 13, wantErr: true},
	}
	for _, tt := range tests {
		got, err := DataRateForSF(tt.sf)
		if (err != nil) != tt.wantErr {
			t.Errorf("DataRateForSF(%d) error = %v, wantErr %v", tt.sf, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("DataRateForSF(%d) = %d, want %d", tt.sf, got, tt.want)
		}
	}
}

func TestChannelPlan(t *testing.T) {
	if len(Channels) != 8 {
		t.Fatalf("len(Channels) = %d, want 8", len(Channels))
	}
	for i, ch := range Channels {
		if int(ch.Index) != i {
			t.Errorf("channel %d has index %d", i, ch.Index)
		}
		if ch.Index == DisabledChannel {
			t.Errorf("disabled channel %d is in the plan", ch.Index)
		}
		if ch.Frequency < 863000000 || ch.Frequency > 870000000 {
			t.Errorf("channel %d frequency %d outside the band", i, ch.Frequency)
		}
		want := DR5
		if i == 1 {
			want = DR6
		}
		if ch.MinDR != DR0 || ch.MaxDR != want {
			t.Errorf("channel %d data rates %d-%d, want 0-%d", i, ch.MinDR, ch.MaxDR, want)
		}
	}
}

func TestRandomDevAddrCarriesNetID(t *testing.T) {
	for i := 0; i < 16; i++ {
		if got := RandomDevAddr(PresharedNetID) >> 25; got != PresharedNetID {
			t.Fatalf("address network bits = %#x, want %#x", got, PresharedNetID)
		}
	}
}

func TestActivationConfigured(t *testing.T) {
	tests := []struct {
		name string
		a    Activation
		want bool
	}{
		{"disabled", Activation{Mode: ModeDisabled}, false},
		{"preshared", Activation{Mode: ModePreshared, Preshared: &PresharedKeys{}}, true},
		{"preshared without keys", Activation{Mode: ModePreshared}, false},
		{"negotiated", Activation{Mode: ModeNegotiated, Negotiated: &NegotiatedKeys{}}, true},
		{"negotiated with wrong keys", Activation{Mode: ModeNegotiated, Preshared: &PresharedKeys{}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Configured(); got != tt.want {
				t.Errorf("Configured() = %v, want %v", got, tt.want)
			}
		})
	}
}
