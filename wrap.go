package lilduino

import (
	"strconv"

	"github.com/phroun/lilduino/hal"
)

type integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~uint | ~uint8 | ~uint16 | ~uint32
}

// IntegerOf wraps a driver integer as a script Integer.
func IntegerOf[T integer](n T) Value {
	return Integer(int64(n))
}

// FloatOf renders a driver reading as a string; the script value model has
// no floating point type.
func FloatOf(f float64) Value {
	return String(strconv.FormatFloat(f, 'g', -1, 64))
}

// BoolOf renders a flag as 1 or 0.
func BoolOf(b bool) Value {
	if b {
		return Integer(1)
	}
	return Integer(0)
}

// LevelOf renders a digital level as 1 or 0.
func LevelOf(l hal.Level) Value {
	return BoolOf(bool(l))
}

// Getter builds a no-argument subcommand that returns one driver reading.
// Driver errors fail the command as ResourceUnavailable.
func Getter[T any](tag string, get func() (T, error), wrap func(T) Value) Subcommand {
	return Sub(tag, NoArgs(), func(ctx *Context) Result {
		v, err := get()
		if err != nil {
			return ctx.FailErr(KindResourceUnavailable, err)
		}
		ctx.SetResult(wrap(v))
		return BoolStatus(true)
	})
}

// PinGetter builds a one-argument subcommand that reads a pin.
func PinGetter[T any](tag string, get func(hal.Pin) (T, error), wrap func(T) Value) Subcommand {
	return Sub(tag, Exactly(1), func(ctx *Context) Result {
		pin, ok := ctx.Pin(0)
		if !ok {
			return BoolStatus(false)
		}
		v, err := get(pin)
		if err != nil {
			return ctx.FailErr(KindResourceUnavailable, err)
		}
		ctx.SetResult(wrap(v))
		return BoolStatus(true)
	})
}

// NoError adapts a getter that cannot fail.
func NoError[T any](get func() T) func() (T, error) {
	return func() (T, error) {
		return get(), nil
	}
}
