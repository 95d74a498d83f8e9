package lilduino

import (
	"testing"
	"time"

	"github.com/phroun/lilduino/hal"
)

func TestWifiConnect(t *testing.T) {
	r := newRig(t, nil)
	r.board.Radio.AddNetwork("home", "secret123")

	v := r.mustRun("wifi::connect", "home", "secret123")
	if AsString(v) != "1" {
		t.Fatalf("connect = %v, want 1", v)
	}
	if !r.board.Radio.Linked() {
		t.Error("radio should be linked")
	}
	if v := r.mustRun("wifi::ip"); AsString(v) != "192.168.1.100" {
		t.Errorf("ip = %v", v)
	}
	if r.board.Radio.Serviced() == 0 {
		t.Error("the join should have been driven by housekeeping")
	}
}

func TestWifiConnectFails(t *testing.T) {
	r := newRig(t, nil)
	r.board.Radio.AddNetwork("home", "secret123")

	if v := r.mustRun("wifi::connect", "home", "wrong"); AsString(v) != "0" {
		t.Errorf("wrong password: %v, want 0", v)
	}
	if v := r.mustRun("wifi::connect", "elsewhere", "x"); AsString(v) != "0" {
		t.Errorf("unknown network: %v, want 0", v)
	}
	// a failed join resolves as soon as the radio says so, well before the timeout
	if ms := r.clock.Millis(); ms > 1000 {
		t.Errorf("took %dms", ms)
	}
}

func TestWifiConnectTimeout(t *testing.T) {
	r := newRig(t, nil)
	r.board.Radio.AddNetwork("home", "secret123")
	r.board.Radio.JoinDelay = 5 * time.Second

	start := r.clock.Millis()
	if v := r.mustRun("wifi::connect", "home", "secret123", "1"); AsString(v) != "0" {
		t.Errorf("connect = %v, want 0", v)
	}
	if waited := r.clock.Millis() - start; waited < 1000 || waited > 1100 {
		t.Errorf("waited %dms, want about 1000", waited)
	}

	r.expectKind(KindInvalidArgument, "wifi::connect", "home", "secret123", "-1")
}

func TestWifiConnectInterrupt(t *testing.T) {
	r := newRig(t, nil)
	r.board.Radio.AddNetwork("home", "secret123")
	r.board.Serial.FeedString("~")

	r.expectKind(KindInterrupted, "wifi::connect", "home", "secret123")
}

func TestWifiMode(t *testing.T) {
	r := newRig(t, nil)

	for name, want := range map[string]hal.RadioMode{
		"device": hal.Station,
		"server": hal.AccessPoint,
		"proxy":  hal.StationAccessPoint,
	} {
		r.mustRun("wifi::mode", name)
		if got := r.board.Radio.Mode(); got != want {
			t.Errorf("mode %s: radio mode = %d, want %d", name, got, want)
		}
	}
	r.expectKind(KindInvalidArgument, "wifi::mode", "mesh")

	r.mustRun("wifi::mode", "server")
	r.expectKind(KindResourceUnavailable, "wifi::connect", "home", "secret123")
}

func TestWifiSetupNet(t *testing.T) {
	r := newRig(t, nil)

	ce := r.expectKind(KindResourceUnavailable, "wifi::setupnet", "lab", "password1")
	if ce.Message != "Failed to configure wifi access point network" {
		t.Errorf("message = %q", ce.Message)
	}

	r.mustRun("wifi::mode", "server")
	r.expectKind(KindResourceUnavailable, "wifi::setupnet", "lab", "short")
	r.mustRun("wifi::setupnet", "lab", "password1")
	if got := r.board.Radio.AccessPoint(); got != "lab" {
		t.Errorf("access point = %q", got)
	}
}

func TestWifiAddresses(t *testing.T) {
	r := newRig(t, nil)

	if v := r.mustRun("wifi::mac"); AsString(v) != "24:0a:c4:12:34:56" {
		t.Errorf("mac = %v", v)
	}
	if v := r.mustRun("wifi::ip"); AsString(v) != "0.0.0.0" {
		t.Errorf("ip before joining = %v", v)
	}

	r.expectKind(KindInvalidArgument, "wifi::ip", "10.0.0")
	r.expectKind(KindResourceUnavailable, "wifi::ip", "::1")

	r.mustRun("wifi::ip", "10.0.0.5")
	r.board.Radio.AddNetwork("home", "secret123")
	r.mustRun("wifi::connect", "home", "secret123")
	if v := r.mustRun("wifi::ip"); AsString(v) != "10.0.0.5" {
		t.Errorf("ip = %v, want the static address", v)
	}
}
