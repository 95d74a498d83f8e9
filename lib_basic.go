package lilduino

import (
	"time"
)

// DefaultDelay is how long "delay" with no arguments waits.
const DefaultDelay = 10 * time.Millisecond

var delayUnits = map[string]time.Duration{
	"m":            time.Millisecond,
	"ms":           time.Millisecond,
	"millisecond":  time.Millisecond,
	"milliseconds": time.Millisecond,
	"u":            time.Microsecond,
	"us":           time.Microsecond,
	"microsecond":  time.Microsecond,
	"microseconds": time.Microsecond,
	"s":            time.Second,
	"sec":          time.Second,
	"second":       time.Second,
	"seconds":      time.Second,
}

// RegisterBasicLib registers delay and its alias wait
// Module: basic
func (b *Bridge) RegisterBasicLib() {
	delay := WithArity(Between(0, 2), func(ctx *Context) Result {
		d := DefaultDelay
		if len(ctx.Args) > 0 {
			n, ok := ctx.Int(0)
			if !ok {
				return BoolStatus(false)
			}
			if n < 0 {
				return ctx.Fail(KindInvalidArgument, "negative delay %d for %s", n, ctx.Name)
			}
			unit := time.Millisecond
			if len(ctx.Args) == 2 {
				u, known := delayUnits[ctx.Str(1)]
				if !known {
					return ctx.Fail(KindInvalidArgument, "Unknown unit for %s: %s", ctx.Name, ctx.Str(1))
				}
				unit = u
			}
			d = time.Duration(n) * unit
		}
		ctx.Board().Clock.Delay(d)
		return BoolStatus(true)
	})

	b.RegisterCommand("delay", delay)
	b.RegisterCommand("wait", delay)
}

// RegisterStatusLib registers the status LED command
// Module: basic
func (b *Bridge) RegisterStatusLib() {
	// status <0xRRGGBB> | status <r> <g> <b>; two arguments is never valid
	b.RegisterCommand("status", WithArity(OneOf(1, 3), func(ctx *Context) Result {
		var rgb int64
		if len(ctx.Args) == 1 {
			n, ok := ctx.Int(0)
			if !ok {
				return BoolStatus(false)
			}
			rgb = n & 0xFFFFFF
		} else {
			for i := 0; i < 3; i++ {
				n, ok := ctx.Int(i)
				if !ok {
					return BoolStatus(false)
				}
				rgb = rgb<<8 | n&0xFF
			}
		}
		if err := ctx.Board().LED.SetColor(uint32(rgb)); err != nil {
			return ctx.FailErr(KindResourceUnavailable, err)
		}
		return BoolStatus(true)
	}))
}
