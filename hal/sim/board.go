package sim

import (
	"io"

	"github.com/phroun/lilduino/hal"
)

// DefaultPins is the GPIO count of the simulated board.
const DefaultPins = 40

// Board holds the concrete simulated drivers so tests and the host can
// reach past the hal interfaces.
type Board struct {
	Clock   hal.Clock
	GPIO    *GPIO
	Serial  *Serial
	LED     *LED
	Radio   *Radio
	IR      *IR
	Battery *Battery
}

// NewBoard builds every driver on clock. Console output goes to out, or to
// the serial port's own buffer when out is nil.
func NewBoard(clock hal.Clock, out io.Writer) *Board {
	if clock == nil {
		clock = NewClock()
	}
	return &Board{
		Clock:   clock,
		GPIO:    NewGPIO(DefaultPins),
		Serial:  NewSerial(out),
		LED:     NewLED(),
		Radio:   NewRadio(clock, nil),
		IR:      NewIR(),
		Battery: NewBattery(),
	}
}

// HAL exposes the drivers as a hal.Board with store as its file system.
func (b *Board) HAL(store hal.FileStore) *hal.Board {
	return &hal.Board{
		GPIO:    b.GPIO,
		Serial:  b.Serial,
		LED:     b.LED,
		Clock:   b.Clock,
		Radio:   b.Radio,
		IR:      b.IR,
		Battery: b.Battery,
		Storage: store,
	}
}
