package lilduino

import (
	"time"

	"github.com/ncruces/go-strftime"
)

// RegisterClockLib registers the clock command
// Module: clock
//
// ms, us and seconds count from board start; unix and format use wall time
// in Unix seconds.
func (b *Bridge) RegisterClockLib() {
	clock := b.board.Clock

	millis := NoError(clock.Millis)
	micros := NoError(clock.Micros)
	seconds := func() (int64, error) {
		return clock.Millis() / 1000, nil
	}

	b.RegisterSubcommands(NewSubcommandTable("clock",
		Getter("milliseconds", millis, IntegerOf[int64]),
		Getter("ms", millis, IntegerOf[int64]),
		Getter("microseconds", micros, IntegerOf[int64]),
		Getter("us", micros, IntegerOf[int64]),
		Getter("seconds", seconds, IntegerOf[int64]),
		Getter("secs", seconds, IntegerOf[int64]),
		Getter("unix", func() (int64, error) { return clock.Now().Unix(), nil }, IntegerOf[int64]),
		Sub("format", Exactly(2), func(ctx *Context) Result {
			t, ok := ctx.Int(1)
			if !ok {
				return BoolStatus(false)
			}
			ctx.SetResult(String(strftime.Format(ctx.Str(0), time.Unix(t, 0).Local())))
			return BoolStatus(true)
		}),
	))
}
