package lilduino

import (
	"net"
	"time"

	"github.com/phroun/lilduino/hal"
)

var wifiModes = map[string]hal.RadioMode{
	"device": hal.Station,
	"server": hal.AccessPoint,
	"proxy":  hal.StationAccessPoint,
}

// millis reads board time, falling back to the wall clock.
func (b *Bridge) millis() int64 {
	if b.board.Clock != nil {
		return b.board.Clock.Millis()
	}
	return time.Now().UnixMilli()
}

// RegisterWifiLib registers the wifi:: commands
// Module: wifi
func (b *Bridge) RegisterWifiLib() {
	radio := b.board.Radio

	b.RegisterCommand("wifi::mode", WithArity(Exactly(1), func(ctx *Context) Result {
		name := ctx.Str(0)
		mode, ok := wifiModes[name]
		if !ok {
			return ctx.Fail(KindInvalidArgument, "invalid mode for %s (%s not one of device, server, proxy)", ctx.Name, name)
		}
		if err := radio.SetMode(mode); err != nil {
			return ctx.FailErr(KindResourceUnavailable, err)
		}
		return BoolStatus(true)
	}))

	// wifi::connect ssid pass [timeout_s] - 1 once joined, 0 on failure or timeout
	b.RegisterCommand("wifi::connect", WithArity(Between(2, 3), func(ctx *Context) Result {
		timeout := int64(b.config.WifiTimeoutSeconds)
		if len(ctx.Args) == 3 {
			n, ok := ctx.Int(2)
			if !ok {
				return BoolStatus(false)
			}
			if n < 0 {
				return ctx.Fail(KindInvalidArgument, "negative timeout %d for %s", n, ctx.Name)
			}
			timeout = n
		}
		ssid := ctx.Str(0)
		if err := radio.Begin(ssid, ctx.Str(1)); err != nil {
			return ctx.FailErr(KindResourceUnavailable, err)
		}
		ctx.Logger().DebugCat(CatRadio, "Joining %s (timeout %ds)", ssid, timeout)

		deadline := b.millis() + timeout*1000
		for {
			switch radio.Status() {
			case hal.LinkConnected:
				ctx.Logger().NoticeCat(CatRadio, "Joined %s as %s", ssid, radio.LocalIP())
				ctx.SetResult(Integer(1))
				return BoolStatus(true)
			case hal.LinkFailed:
				ctx.SetResult(Integer(0))
				return BoolStatus(true)
			}
			if b.millis() >= deadline {
				ctx.Logger().DebugCat(CatRadio, "Timed out joining %s", ssid)
				ctx.SetResult(Integer(0))
				return BoolStatus(true)
			}
			if ctx.Interrupted() {
				return ctx.Fail(KindInterrupted, "Keyboard interrupt")
			}
			ctx.Yield()
		}
	}))

	b.RegisterCommand("wifi::setupnet", WithArity(Exactly(2), func(ctx *Context) Result {
		if err := radio.SoftAP(ctx.Str(0), ctx.Str(1)); err != nil {
			ctx.Logger().DebugCat(CatRadio, "SoftAP: %v", err)
			return ctx.Fail(KindResourceUnavailable, "Failed to configure wifi access point network")
		}
		return BoolStatus(true)
	}))

	b.RegisterCommand("wifi::mac", WithArity(NoArgs(), func(ctx *Context) Result {
		ctx.SetResult(String(radio.MAC().String()))
		return BoolStatus(true)
	}))

	// wifi::ip [addr] - set the address, or read it back
	b.RegisterCommand("wifi::ip", WithArity(Between(0, 1), func(ctx *Context) Result {
		if len(ctx.Args) == 1 {
			ip := net.ParseIP(ctx.Str(0))
			if ip == nil {
				return ctx.Fail(KindInvalidArgument, "invalid IP address %q", ctx.Str(0))
			}
			if err := radio.SetIP(ip); err != nil {
				return ctx.FailErr(KindResourceUnavailable, err)
			}
			return BoolStatus(true)
		}
		ip := radio.LocalIP()
		if ip == nil {
			ip = net.IPv4zero
		}
		ctx.SetResult(String(ip.String()))
		return BoolStatus(true)
	}))
}
