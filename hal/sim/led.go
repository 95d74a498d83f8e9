package sim

import (
	"sync"

	"github.com/lucasb-eyer/go-colorful"
)

// LED is the RGB status indicator.
type LED struct {
	mu      sync.Mutex
	color   colorful.Color
	history []uint32

	// OnChange, if set, is called with each new colour.
	OnChange func(c colorful.Color)
}

// NewLED creates a dark LED.
func NewLED() *LED {
	return &LED{}
}

func (l *LED) SetColor(rgb uint32) error {
	c := colorful.Color{
		R: float64(rgb>>16&0xFF) / 255,
		G: float64(rgb>>8&0xFF) / 255,
		B: float64(rgb&0xFF) / 255,
	}
	l.mu.Lock()
	l.color = c
	l.history = append(l.history, rgb&0xFFFFFF)
	onChange := l.OnChange
	l.mu.Unlock()

	if onChange != nil {
		onChange(c)
	}
	return nil
}

// Color returns the current colour.
func (l *LED) Color() colorful.Color {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.color
}

// Hex renders the current colour as #rrggbb.
func (l *LED) Hex() string {
	return l.Color().Hex()
}

// History lists every colour set, packed as 0xRRGGBB.
func (l *LED) History() []uint32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]uint32(nil), l.history...)
}
