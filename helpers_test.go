package lilduino

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/phroun/lilduino/hal/sim"
	"github.com/phroun/lilduino/storage"
)

var testEpoch = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

// rig is a bridge on a simulated board with a manual clock and a store in
// a temporary directory. Radio housekeeping runs on every yield.
type rig struct {
	t     *testing.T
	b     *Bridge
	board *sim.Board
	clock *sim.ManualClock
	store *storage.DirStore
}

func newRig(t *testing.T, configure func(*Config)) *rig {
	t.Helper()
	cfg := DefaultConfig()
	if configure != nil {
		configure(cfg)
	}
	clock := sim.NewManualClock(testEpoch)
	board := sim.NewBoard(clock, nil)
	clock.OnYield(board.Radio.Maintain)

	store, err := storage.NewDirStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewDirStore: %v", err)
	}
	b, err := New(cfg, board.HAL(store), StorageCallbacks(store, board.Serial))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	b.Logger().SetOutput(io.Discard, io.Discard)
	b.RegisterBoardLibrary()
	return &rig{t: t, b: b, board: board, clock: clock, store: store}
}

func (r *rig) run(name string, args ...string) (Value, error) {
	return r.b.Dispatch(name, Strings(args...), nil)
}

func (r *rig) mustRun(name string, args ...string) Value {
	r.t.Helper()
	v, err := r.run(name, args...)
	if err != nil {
		r.t.Fatalf("%s %v: unexpected error: %v", name, args, err)
	}
	return v
}

func (r *rig) expectKind(kind ErrorKind, name string, args ...string) *CommandError {
	r.t.Helper()
	_, err := r.run(name, args...)
	if err == nil {
		r.t.Fatalf("%s %v: expected %s, got success", name, args, kind)
	}
	var ce *CommandError
	if !errors.As(err, &ce) {
		r.t.Fatalf("%s %v: expected *CommandError, got %T", name, args, err)
	}
	if ce.Kind != kind {
		r.t.Fatalf("%s %v: expected %s, got %s (%s)", name, args, kind, ce.Kind, ce.Message)
	}
	return ce
}

func (r *rig) mustExec(script string) Value {
	r.t.Helper()
	v, err := r.b.Exec(script, "test")
	if err != nil {
		r.t.Fatalf("Exec(%q): %v", script, err)
	}
	return v
}

// output returns everything written to the console so far.
func (r *rig) output() string {
	return r.board.Serial.Output()
}
