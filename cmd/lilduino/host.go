package main

import (
	"io"

	"github.com/phroun/lilduino"
	"github.com/phroun/lilduino/hal/sim"
	"github.com/tevino/abool/v2"
)

// newBoard builds the simulated board on clock. Every Delay and Yield
// services the radio, so a running script keeps the stack alive itself.
func newBoard(clock *sim.Clock, out io.Writer, networks map[string]string) *sim.Board {
	board := sim.NewBoard(clock, out)
	for ssid, pass := range networks {
		board.Radio.AddNetwork(ssid, pass)
	}
	clock.OnYield(board.Radio.Maintain)
	return board
}

// host runs scripts on the bridge and tracks whether one is running.
type host struct {
	bridge *lilduino.Bridge
	busy   *abool.AtomicBool
}

func newHost(bridge *lilduino.Bridge) *host {
	return &host{bridge: bridge, busy: abool.New()}
}

func (h *host) exec(script, filename string) (lilduino.Value, error) {
	h.busy.Set()
	defer h.busy.UnSet()
	return h.bridge.Exec(script, filename)
}

// whenIdle wraps a background task so it is skipped while a script runs.
func (h *host) whenIdle(task func()) func() {
	return func() {
		if h.busy.IsSet() {
			return
		}
		task()
	}
}
