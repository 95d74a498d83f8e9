package sim

import (
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/phroun/lilduino/hal"
	"github.com/tevino/abool/v2"
)

// DefaultJoinDelay is how long a simulated join takes.
const DefaultJoinDelay = 200 * time.Millisecond

// DefaultMAC is the address a Radio reports unless told otherwise.
var DefaultMAC = net.HardwareAddr{0x24, 0x0a, 0xc4, 0x12, 0x34, 0x56}

var errNoSTA = errors.New("radio: station interface is off")

// Radio is a WiFi radio. Joins complete only when Maintain runs, the way a
// real stack needs its housekeeping to be serviced between polls.
type Radio struct {
	mu       sync.Mutex
	clock    hal.Clock
	networks map[string]string
	mode     hal.RadioMode
	status   hal.LinkStatus
	ssid     string
	password string
	joinAt   int64
	apSSID   string
	staticIP net.IP
	ip       net.IP
	mac      net.HardwareAddr

	linked      *abool.AtomicBool
	maintaining *abool.AtomicBool
	serviced    int

	// JoinDelay is how long Begin takes to resolve.
	JoinDelay time.Duration
}

// NewRadio creates a radio that can join the given ssid/password pairs.
func NewRadio(clock hal.Clock, networks map[string]string) *Radio {
	if networks == nil {
		networks = make(map[string]string)
	}
	return &Radio{
		clock:       clock,
		networks:    networks,
		mac:         DefaultMAC,
		linked:      abool.New(),
		maintaining: abool.New(),
		JoinDelay:   DefaultJoinDelay,
	}
}

// AddNetwork makes a network joinable.
func (r *Radio) AddNetwork(ssid, password string) {
	r.mu.Lock()
	r.networks[ssid] = password
	r.mu.Unlock()
}

// SetMAC replaces the reported hardware address.
func (r *Radio) SetMAC(mac net.HardwareAddr) {
	r.mu.Lock()
	r.mac = mac
	r.mu.Unlock()
}

func (r *Radio) SetMode(mode hal.RadioMode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mode = mode
	if mode == hal.RadioOff || mode == hal.AccessPoint {
		r.dropLocked()
	}
	return nil
}

// Mode returns the current role.
func (r *Radio) Mode() hal.RadioMode {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mode
}

func (r *Radio) Begin(ssid, password string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch r.mode {
	case hal.AccessPoint:
		return errNoSTA
	case hal.RadioOff:
		r.mode = hal.Station
	}
	r.dropLocked()
	r.ssid, r.password = ssid, password
	r.status = hal.LinkConnecting
	r.joinAt = r.clock.Millis() + r.JoinDelay.Milliseconds()
	return nil
}

func (r *Radio) Status() hal.LinkStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// Linked reports whether a station link is up.
func (r *Radio) Linked() bool {
	return r.linked.IsSet()
}

// Maintain services the stack: a pending join resolves once its delay has
// passed. Calls that overlap a running Maintain return at once.
func (r *Radio) Maintain() {
	if !r.maintaining.SetToIf(false, true) {
		return
	}
	defer r.maintaining.UnSet()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.serviced++
	if r.status != hal.LinkConnecting || r.clock.Millis() < r.joinAt {
		return
	}
	pass, known := r.networks[r.ssid]
	if !known || pass != r.password {
		r.status = hal.LinkFailed
		return
	}
	r.status = hal.LinkConnected
	r.linked.Set()
	if r.staticIP != nil {
		r.ip = r.staticIP
	} else {
		r.ip = net.IPv4(192, 168, 1, 100)
	}
}

// Serviced counts Maintain calls that ran.
func (r *Radio) Serviced() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.serviced
}

func (r *Radio) SoftAP(ssid, password string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.mode != hal.AccessPoint && r.mode != hal.StationAccessPoint {
		return fmt.Errorf("radio: access point interface is off")
	}
	if ssid == "" {
		return fmt.Errorf("radio: empty ssid")
	}
	if password != "" && len(password) < 8 {
		return fmt.Errorf("radio: password must be at least 8 characters")
	}
	r.apSSID = ssid
	return nil
}

// AccessPoint returns the SSID being served, if any.
func (r *Radio) AccessPoint() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.apSSID
}

func (r *Radio) MAC() net.HardwareAddr {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mac
}

func (r *Radio) LocalIP() net.IP {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ip
}

func (r *Radio) SetIP(ip net.IP) error {
	v4 := ip.To4()
	if v4 == nil {
		return fmt.Errorf("radio: %s is not an IPv4 address", ip)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.staticIP = v4
	if r.status == hal.LinkConnected {
		r.ip = v4
	}
	return nil
}

func (r *Radio) dropLocked() {
	r.status = hal.LinkIdle
	r.ip = nil
	r.linked.UnSet()
}
