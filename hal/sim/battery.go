package sim

import "sync"

// Battery is a fuel gauge with readings set from outside.
type Battery struct {
	mu      sync.Mutex
	volts   float64
	percent float64
	rate    float64

	// LowPercent is the alert threshold.
	LowPercent float64
}

// NewBattery creates a full 4.2V cell.
func NewBattery() *Battery {
	return &Battery{volts: 4.2, percent: 100, LowPercent: 10}
}

// Set replaces all three readings.
func (b *Battery) Set(volts, percent, rate float64) {
	b.mu.Lock()
	b.volts, b.percent, b.rate = volts, percent, rate
	b.mu.Unlock()
}

func (b *Battery) Voltage() (float64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.volts, nil
}

func (b *Battery) Percentage() (float64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.percent, nil
}

func (b *Battery) ChangeRate() (float64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.rate, nil
}

func (b *Battery) IsLow() (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.percent < b.LowPercent, nil
}
