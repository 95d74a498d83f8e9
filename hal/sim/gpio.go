package sim

import (
	"fmt"
	"sync"

	"github.com/phroun/lilduino/hal"
)

// PinWrite is one recorded output change.
type PinWrite struct {
	Pin    hal.Pin
	Analog bool
	Value  int
}

// GPIO is a bank of pins. Inputs are driven from outside with SetInput,
// SetAnalog and SetTouch; outputs are recorded.
type GPIO struct {
	mu     sync.Mutex
	pins   int
	modes  map[hal.Pin]hal.PinMode
	levels map[hal.Pin]hal.Level
	analog map[hal.Pin]int
	touch  map[hal.Pin]int
	writes []PinWrite

	// PullDown reports whether input_pulldown is available.
	PullDown bool
}

// NewGPIO creates pins 0 through pins-1.
func NewGPIO(pins int) *GPIO {
	return &GPIO{
		pins:     pins,
		modes:    make(map[hal.Pin]hal.PinMode),
		levels:   make(map[hal.Pin]hal.Level),
		analog:   make(map[hal.Pin]int),
		touch:    make(map[hal.Pin]int),
		PullDown: true,
	}
}

func (g *GPIO) check(pin hal.Pin) error {
	if pin < 0 || int(pin) >= g.pins {
		return fmt.Errorf("gpio: no pin %d (board has 0-%d)", pin, g.pins-1)
	}
	return nil
}

func (g *GPIO) Modes() []hal.PinMode {
	modes := []hal.PinMode{hal.Input, hal.Output, hal.InputPullUp}
	if g.PullDown {
		modes = append(modes, hal.InputPullDown)
	}
	return modes
}

func (g *GPIO) SetMode(pin hal.Pin, mode hal.PinMode) error {
	if err := g.check(pin); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.modes[pin] = mode
	switch mode {
	case hal.InputPullUp:
		g.levels[pin] = hal.High
	case hal.InputPullDown:
		g.levels[pin] = hal.Low
	}
	return nil
}

// Mode returns the configured mode of pin.
func (g *GPIO) Mode(pin hal.Pin) (hal.PinMode, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	m, ok := g.modes[pin]
	return m, ok
}

func (g *GPIO) DigitalRead(pin hal.Pin) (hal.Level, error) {
	if err := g.check(pin); err != nil {
		return hal.Low, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.levels[pin], nil
}

func (g *GPIO) DigitalWrite(pin hal.Pin, level hal.Level) error {
	if err := g.check(pin); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.levels[pin] = level
	v := 0
	if level {
		v = 1
	}
	g.writes = append(g.writes, PinWrite{Pin: pin, Value: v})
	return nil
}

func (g *GPIO) AnalogRead(pin hal.Pin) (int, error) {
	if err := g.check(pin); err != nil {
		return 0, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.analog[pin], nil
}

func (g *GPIO) AnalogWrite(pin hal.Pin, value int) error {
	if err := g.check(pin); err != nil {
		return err
	}
	if value < 0 || value > 255 {
		return fmt.Errorf("gpio: analog value %d out of range 0-255", value)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.writes = append(g.writes, PinWrite{Pin: pin, Analog: true, Value: value})
	return nil
}

func (g *GPIO) TouchRead(pin hal.Pin) (int, error) {
	if err := g.check(pin); err != nil {
		return 0, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.touch[pin], nil
}

// SetInput drives an input pin.
func (g *GPIO) SetInput(pin hal.Pin, level hal.Level) {
	g.mu.Lock()
	g.levels[pin] = level
	g.mu.Unlock()
}

// SetAnalog sets the reading of an analog pin.
func (g *GPIO) SetAnalog(pin hal.Pin, value int) {
	g.mu.Lock()
	g.analog[pin] = value
	g.mu.Unlock()
}

// SetTouch sets the reading of a touch pin.
func (g *GPIO) SetTouch(pin hal.Pin, value int) {
	g.mu.Lock()
	g.touch[pin] = value
	g.mu.Unlock()
}

// Writes returns the recorded output changes in order.
func (g *GPIO) Writes() []PinWrite {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]PinWrite(nil), g.writes...)
}
