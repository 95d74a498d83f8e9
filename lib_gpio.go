package lilduino

import (
	"strings"

	"github.com/phroun/lilduino/hal"
)

// RegisterGPIOLib registers the gpio command
// Module: gpio
func (b *Bridge) RegisterGPIOLib() {
	gpio := b.board.GPIO

	subs := []Subcommand{
		Sub("pinmode", Exactly(2), func(ctx *Context) Result {
			pin, ok := ctx.Pin(0)
			if !ok {
				return BoolStatus(false)
			}
			name := ctx.Str(1)
			mode, known := hal.ParsePinMode(name)
			if !known || !supportsMode(gpio, mode) {
				return ctx.Fail(KindInvalidArgument, "Invalid pin mode %s (acceptable are %s)", name, modeNames(gpio))
			}
			if err := gpio.SetMode(pin, mode); err != nil {
				return ctx.FailErr(KindResourceUnavailable, err)
			}
			return BoolStatus(true)
		}),
		PinGetter("digitalread", gpio.DigitalRead, LevelOf),
		Sub("digitalwrite", Exactly(2), func(ctx *Context) Result {
			pin, ok := ctx.Pin(0)
			if !ok {
				return BoolStatus(false)
			}
			level := hal.Level(ctx.Bool(1))
			if what := ctx.Str(1); what == "LOW" || what == "low" {
				level = hal.Low
			}
			if err := gpio.DigitalWrite(pin, level); err != nil {
				return ctx.FailErr(KindResourceUnavailable, err)
			}
			return BoolStatus(true)
		}),
		PinGetter("analogread", gpio.AnalogRead, IntegerOf[int]),
		Sub("analogwrite", Exactly(2), func(ctx *Context) Result {
			pin, ok := ctx.Pin(0)
			if !ok {
				return BoolStatus(false)
			}
			value, ok := ctx.Int(1)
			if !ok {
				return BoolStatus(false)
			}
			if err := gpio.AnalogWrite(pin, int(value)); err != nil {
				return ctx.FailErr(KindResourceUnavailable, err)
			}
			return BoolStatus(true)
		}),
	}
	if touch, ok := gpio.(hal.TouchSensor); ok {
		subs = append(subs, PinGetter("touchread", touch.TouchRead, IntegerOf[int]))
	}

	b.RegisterSubcommands(NewSubcommandTable("gpio", subs...))
}

func supportsMode(gpio hal.GPIO, mode hal.PinMode) bool {
	for _, m := range gpio.Modes() {
		if m == mode {
			return true
		}
	}
	return false
}

func modeNames(gpio hal.GPIO) string {
	modes := gpio.Modes()
	names := make([]string, len(modes))
	for i, m := range modes {
		names[i] = m.String()
	}
	return strings.Join(names, ", ")
}
