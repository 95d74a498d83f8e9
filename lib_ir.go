package lilduino

import (
	"errors"

	"github.com/phroun/lilduino/hal"
	"github.com/phroun/lilduino/ir"
)

// Variables holding the IR pins.
const (
	IRTxPinVar = "ir.txpin"
	IRRxPinVar = "ir.rxpin"
)

// RegisterIRLib registers the ir command
// Module: ir
func (b *Bridge) RegisterIRLib() {
	driver := b.board.IR

	b.RegisterSubcommands(NewSubcommandTable("ir",
		// ir send <protocol> <value>
		Sub("send", Exactly(2), func(ctx *Context) Result {
			name := ctx.Str(0)
			protocol := ir.ParseProtocol(name)
			if protocol == ir.Unknown {
				return ctx.Fail(KindInvalidArgument, "unknown IR protocol %s", name)
			}
			n, ok := ctx.Int(1)
			if !ok {
				return BoolStatus(false)
			}
			value := uint64(n)
			if !protocol.Fits(value) {
				return ctx.Fail(KindInvalidArgument, "value of %#x is too large for IR protocol %s (max is %#x)",
					value, protocol, protocol.MaxValue())
			}
			pin, ok := ctx.PinVar(IRTxPinVar)
			if !ok {
				return BoolStatus(false)
			}
			if !pin.Valid {
				return ctx.FailCause(KindResourceUnavailable, ErrPinUnset, "%s is not defined", IRTxPinVar)
			}

			sender, err := driver.NewSender(pin.Pin)
			if err != nil {
				return ctx.FailErr(KindResourceUnavailable, err)
			}
			if err := sender.Send(protocol, value, protocol.DefaultBits(), protocol.MinRepeats()); err != nil {
				return ctx.FailErr(KindResourceUnavailable, err)
			}
			ctx.Logger().DebugCat(CatPeripheral, "IR sent %s %#x on pin %d", protocol, value, pin.Pin)
			return BoolStatus(true)
		}),

		// ir receive - {PROTOCOL 0xVALUE}, or nothing when no code has arrived
		Sub("receive", NoArgs(), func(ctx *Context) Result {
			pin, ok := ctx.PinVar(IRRxPinVar)
			if !ok {
				return BoolStatus(false)
			}
			receiver, err := b.irReceivers.GetOrCreate(pin, func(p hal.Pin) (hal.IRReceiver, error) {
				ctx.Logger().DebugCat(CatPeripheral, "Starting IR receiver on pin %d", p)
				return driver.NewReceiver(p, b.config.IR.Receiver())
			})
			switch {
			case errors.Is(err, ErrPinUnset):
				return ctx.FailCause(KindResourceUnavailable, err, "%s is not defined", IRRxPinVar)
			case errors.Is(err, ErrPinOutOfRange):
				return ctx.FailCause(KindResourceUnavailable, err, "%s: %v", IRRxPinVar, err)
			case err != nil:
				return ctx.FailErr(KindResourceUnavailable, err)
			}

			msg, ok := receiver.Decode()
			if !ok {
				ctx.SetResult(nil)
				return BoolStatus(true)
			}
			ctx.SetResult(List{String(msg.Protocol.String()), String(msg.HexValue())})
			return BoolStatus(true)
		}),
	))
}
