// Package hal declares the peripheral driver interfaces the command bridge
// talks to. Platform code (or the simulator in hal/sim) implements them;
// command handlers never reach hardware any other way.
package hal

import (
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/phroun/lilduino/ir"
)

// Pin identifies a hardware pin number.
type Pin int

// OptionalPin is a pin setting that may not have been configured.
// The zero value is unset; pin 0 is a real pin.
type OptionalPin struct {
	Pin   Pin
	Valid bool
}

// Unset is the unconfigured pin setting.
var Unset = OptionalPin{}

// SomePin wraps a configured pin number.
func SomePin(p Pin) OptionalPin {
	return OptionalPin{Pin: p, Valid: true}
}

func (o OptionalPin) String() string {
	if !o.Valid {
		return "unset"
	}
	return fmt.Sprintf("%d", o.Pin)
}

// ErrNotSupported is returned by drivers for operations their hardware lacks.
var ErrNotSupported = errors.New("not supported by this board")

// ErrNotEmpty is returned by FileStore.Rmdir for a directory that still
// holds entries. Missing files are reported with fs.ErrNotExist.
var ErrNotEmpty = errors.New("directory not empty")

// PinMode is the electrical configuration of a GPIO pin.
type PinMode int

const (
	Input PinMode = iota
	Output
	InputPullUp
	InputPullDown
)

var pinModeNames = map[PinMode]string{
	Input:         "input",
	Output:        "output",
	InputPullUp:   "input_pullup",
	InputPullDown: "input_pulldown",
}

func (m PinMode) String() string {
	if s, ok := pinModeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("PinMode(%d)", int(m))
}

// ParsePinMode maps a script-level mode name to a PinMode.
func ParsePinMode(name string) (PinMode, bool) {
	for m, s := range pinModeNames {
		if s == name {
			return m, true
		}
	}
	return 0, false
}

// Level is a digital pin level.
type Level bool

const (
	Low  Level = false
	High Level = true
)

// GPIO is the digital/analog pin driver.
type GPIO interface {
	SetMode(pin Pin, mode PinMode) error
	DigitalRead(pin Pin) (Level, error)
	DigitalWrite(pin Pin, level Level) error
	AnalogRead(pin Pin) (int, error)
	AnalogWrite(pin Pin, value int) error
	// Modes lists the pin modes this board accepts, in display order.
	Modes() []PinMode
}

// TouchSensor is implemented by GPIO drivers with capacitive touch pins.
type TouchSensor interface {
	TouchRead(pin Pin) (int, error)
}

// Serial is a character-oriented console port.
type Serial interface {
	// Available reports how many received bytes are waiting.
	Available() int
	ReadByte() (byte, error)
	// Peek returns the next received byte without consuming it.
	Peek() (byte, bool)
	Write(p []byte) (int, error)
}

// StatusLED is the on-board RGB status indicator.
type StatusLED interface {
	// SetColor takes a packed 0xRRGGBB colour.
	SetColor(rgb uint32) error
}

// Clock provides board time and the cooperative yield point.
type Clock interface {
	// Millis and Micros count from board start, not from the Unix epoch.
	Millis() int64
	Micros() int64
	// Now is wall-clock time.
	Now() time.Time
	Delay(d time.Duration)
	// Yield lets background housekeeping run. It never runs another script.
	Yield()
}

// RadioMode selects the WiFi role.
type RadioMode int

const (
	RadioOff RadioMode = iota
	Station
	AccessPoint
	StationAccessPoint
)

// LinkStatus is the state of a station join.
type LinkStatus int

const (
	LinkIdle LinkStatus = iota
	LinkConnecting
	LinkConnected
	LinkFailed
)

func (s LinkStatus) String() string {
	switch s {
	case LinkIdle:
		return "idle"
	case LinkConnecting:
		return "connecting"
	case LinkConnected:
		return "connected"
	case LinkFailed:
		return "failed"
	}
	return fmt.Sprintf("LinkStatus(%d)", int(s))
}

// Radio is the network radio driver.
type Radio interface {
	SetMode(mode RadioMode) error
	// Begin starts joining a network; progress is observed through Status.
	Begin(ssid, password string) error
	Status() LinkStatus
	SoftAP(ssid, password string) error
	MAC() net.HardwareAddr
	LocalIP() net.IP
	SetIP(ip net.IP) error
}

// ReceiverConfig is handed to the driver when an IR receiver is built.
type ReceiverConfig struct {
	BufferSize int
	Timeout    time.Duration
	Tolerance  int
}

// IRSender transmits on one pin.
type IRSender interface {
	Send(protocol ir.Protocol, value uint64, bits uint, repeats uint16) error
}

// IRReceiver decodes on one pin. Decode never blocks; ok is false when no
// complete message has arrived yet.
type IRReceiver interface {
	Decode() (msg ir.Message, ok bool)
}

// IR builds infrared senders and receivers.
type IR interface {
	NewSender(pin Pin) (IRSender, error)
	NewReceiver(pin Pin, cfg ReceiverConfig) (IRReceiver, error)
}

// Battery is a fuel-gauge IC.
type Battery interface {
	Voltage() (float64, error)
	Percentage() (float64, error)
	// ChangeRate is in percent per hour.
	ChangeRate() (float64, error)
	IsLow() (bool, error)
}

// FileStore is the flat-namespace storage card.
type FileStore interface {
	ReadFile(name string) ([]byte, error)
	// WriteFile replaces the file and reports how many bytes were written.
	WriteFile(name string, data []byte) (int, error)
	Mkdir(name string) error
	// Remove deletes a file; removing a missing file is not an error.
	Remove(name string) error
	// Rmdir removes an empty directory.
	Rmdir(name string) error
}

// Board aggregates the drivers available on one target. A nil member means
// the board has no such peripheral and its commands are not registered.
type Board struct {
	GPIO    GPIO
	Serial  Serial
	LED     StatusLED
	Clock   Clock
	Radio   Radio
	IR      IR
	Battery Battery
	Storage FileStore
}
