package lilduino

import (
	"errors"
	"fmt"

	"github.com/phroun/lilduino/hal"
)

// DefaultPinTableSize covers every pin on the boards this runs on.
const DefaultPinTableSize = 128

var (
	// ErrPinUnset means the caller never configured the pin.
	ErrPinUnset = errors.New("pin is not configured")
	// ErrPinOutOfRange means the pin does not fit the table.
	ErrPinOutOfRange = errors.New("pin out of range")
)

// PinTable lazily builds and caches one driver handle per pin. A handle is
// built on first use and reused for the life of the table; there is no
// eviction. The table is not safe for concurrent use.
type PinTable[H any] struct {
	slots []H
	live  []bool
	count int
}

// NewPinTable creates a table for pins 0 through size-1.
func NewPinTable[H any](size int) *PinTable[H] {
	if size <= 0 {
		size = DefaultPinTableSize
	}
	return &PinTable[H]{
		slots: make([]H, size),
		live:  make([]bool, size),
	}
}

// Size is the number of addressable pins
func (t *PinTable[H]) Size() int {
	return len(t.slots)
}

// Live is the number of handles built so far
func (t *PinTable[H]) Live() int {
	return t.count
}

// Lookup returns the handle for pin if one has been built.
func (t *PinTable[H]) Lookup(pin hal.Pin) (H, bool) {
	var zero H
	if pin < 0 || int(pin) >= len(t.slots) || !t.live[pin] {
		return zero, false
	}
	return t.slots[pin], true
}

// GetOrCreate returns the handle for pin, calling factory the first time.
// The pin is validated before factory can run. A factory error leaves the
// slot empty, so a later call tries again.
func (t *PinTable[H]) GetOrCreate(pin hal.OptionalPin, factory func(hal.Pin) (H, error)) (H, error) {
	var zero H
	if !pin.Valid {
		return zero, ErrPinUnset
	}
	if pin.Pin < 0 || int(pin.Pin) >= len(t.slots) {
		return zero, fmt.Errorf("%w: %d (table holds 0-%d)", ErrPinOutOfRange, pin.Pin, len(t.slots)-1)
	}
	if t.live[pin.Pin] {
		return t.slots[pin.Pin], nil
	}

	h, err := factory(pin.Pin)
	if err != nil {
		return zero, fmt.Errorf("pin %d: %w", pin.Pin, err)
	}
	t.slots[pin.Pin] = h
	t.live[pin.Pin] = true
	t.count++
	return h, nil
}
