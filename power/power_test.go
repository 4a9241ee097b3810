package power

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/ystepanoff/loranode/clock"
)

// recorder implements Lines, Domain and Modem and logs every call in
// order.
type recorder struct {
	calls []string
	bus   bool
}

func (r *recorder) SetBus(enabled bool) {
	r.bus = enabled
	if enabled {
		r.calls = append(r.calls, "bus:on")
	} else {
		r.calls = append(r.calls, "bus:off")
	}
}
func (r *recorder) QuiesceRadio() { r.calls = append(r.calls, "quiesce") }

type domain struct {
	name string
	rec  *recorder
}

func (d domain) Begin() { d.rec.calls = append(d.rec.calls, d.name+":begin") }
func (d domain) End()   { d.rec.calls = append(d.rec.calls, d.name+":end") }

type modem struct{ rec *recorder }

func (m modem) Sleep()   { m.rec.calls = append(m.rec.calls, "wifi:sleep") }
func (m modem) Station() { m.rec.calls = append(m.rec.calls, "wifi:station") }

func newTestSequencer() (*Sequencer, *recorder, *clock.FakeClock) {
	rec := &recorder{}
	clk := clock.Fake(time.Unix(0, 0))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := New(rec, domain{"radio", rec}, domain{"gpio", rec}, modem{rec}, clk, logger)
	s.Begin()
	rec.calls = nil
	return s, rec, clk
}

func equalCalls(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestBusFollowsDomains(t *testing.T) {
	for mask := 0; mask < 8; mask++ {
		radio, gpio, override := mask&1 != 0, mask&2 != 0, mask&4 != 0

		s, rec, _ := newTestSequencer()
		s.SetRadio(radio)
		s.SetGPIO(gpio)
		s.SetOverride(override)
		s.Apply()

		want := radio || gpio || override
		st := s.State()
		if st.Bus != want || rec.bus != want {
			t.Errorf("radio=%v gpio=%v override=%v: bus state=%v line=%v, want %v",
				radio, gpio, override, st.Bus, rec.bus, want)
		}
		if !st.Consistent() {
			t.Errorf("radio=%v gpio=%v override=%v: inconsistent state %+v", radio, gpio, override, st)
		}
	}
}

func TestBusFollowsDomainsAfterTurningOff(t *testing.T) {
	for mask := 0; mask < 8; mask++ {
		radio, gpio, override := mask&1 != 0, mask&2 != 0, mask&4 != 0

		s, rec, _ := newTestSequencer()
		s.SetRadio(true)
		s.SetGPIO(true)
		s.SetOverride(true)

		s.SetRadio(radio)
		s.SetGPIO(gpio)
		s.SetOverride(override)

		want := radio || gpio || override
		if s.State().Bus != want || rec.bus != want {
			t.Errorf("radio=%v gpio=%v override=%v: bus=%v, want %v", radio, gpio, override, s.State().Bus, want)
		}
	}
}

func TestRadioSettlesBeforeBegin(t *testing.T) {
	s, rec, clk := newTestSequencer()
	s.SetRadio(true)

	if !equalCalls(rec.calls, []string{"bus:on", "radio:begin"}) {
		t.Fatalf("calls = %v", rec.calls)
	}
	sleeps := clk.Sleeps()
	if len(sleeps) != 1 || sleeps[0] != RadioSettle {
		t.Fatalf("sleeps = %v, want [%v]", sleeps, RadioSettle)
	}
}

func TestGPIOSettle(t *testing.T) {
	s, _, clk := newTestSequencer()
	s.SetGPIO(true)

	sleeps := clk.Sleeps()
	if len(sleeps) != 1 || sleeps[0] != GPIOSettle {
		t.Fatalf("sleeps = %v, want [%v]", sleeps, GPIOSettle)
	}
}

func TestNoSettleWhenBusAlreadyOn(t *testing.T) {
	s, rec, clk := newTestSequencer()
	s.SetGPIO(true)
	rec.calls = nil
	s.SetRadio(true)

	if !equalCalls(rec.calls, []string{"radio:begin"}) {
		t.Fatalf("calls = %v", rec.calls)
	}
	if n := len(clk.Sleeps()); n != 1 {
		t.Fatalf("got %d settle delays, want only the gpio one", n)
	}
}

func TestRadioOffQuiescesLines(t *testing.T) {
	s, rec, _ := newTestSequencer()
	s.SetRadio(true)
	rec.calls = nil
	s.SetRadio(false)

	if !equalCalls(rec.calls, []string{"radio:end", "quiesce", "bus:off"}) {
		t.Fatalf("calls = %v", rec.calls)
	}
}

func TestRepeatedRequestsAreIdempotent(t *testing.T) {
	s, rec, clk := newTestSequencer()
	s.SetRadio(true)
	s.SetRadio(true)
	s.SetGPIO(false)
	s.SetWiFi(WiFiOff)

	if !equalCalls(rec.calls, []string{"bus:on", "radio:begin"}) {
		t.Fatalf("calls = %v", rec.calls)
	}
	if n := len(clk.Sleeps()); n != 1 {
		t.Fatalf("got %d settle delays, want 1", n)
	}
}

func TestWiFiNeverTouchesBus(t *testing.T) {
	s, rec, _ := newTestSequencer()
	s.SetWiFi(WiFiStation)
	s.SetWiFi(WiFiOff)

	if !equalCalls(rec.calls, []string{"wifi:station", "wifi:sleep"}) {
		t.Fatalf("calls = %v", rec.calls)
	}
	if s.State().Bus {
		t.Fatal("bus enabled by wifi")
	}
}

func TestOff(t *testing.T) {
	s, rec, _ := newTestSequencer()
	s.SetRadio(true)
	s.SetGPIO(true)
	s.SetWiFi(WiFiStation)
	s.SetOverride(true)

	s.Off()

	if st := s.State(); st != (State{}) {
		t.Fatalf("state after Off = %+v, want zero", st)
	}
	if rec.bus {
		t.Fatal("bus line still high after Off")
	}
	last := rec.calls[len(rec.calls)-2:]
	if !equalCalls(last, []string{"quiesce", "bus:off"}) {
		t.Fatalf("Off did not finish by parking lines and dropping the bus: %v", rec.calls)
	}
}

func TestBegin(t *testing.T) {
	rec := &recorder{bus: true}
	s := New(rec, nil, nil, modem{rec}, clock.Fake(time.Unix(0, 0)), nil)
	s.Begin()

	if !equalCalls(rec.calls, []string{"bus:off", "quiesce", "wifi:sleep"}) {
		t.Fatalf("calls = %v", rec.calls)
	}
	if rec.bus {
		t.Fatal("bus left on")
	}
}
