package lilduino

import (
	"errors"
	"testing"

	"github.com/phroun/lilduino/hal"
)

type handle struct {
	pin hal.Pin
}

func TestPinTableBuildsOncePerPin(t *testing.T) {
	table := NewPinTable[*handle](16)
	built := map[hal.Pin]int{}
	factory := func(p hal.Pin) (*handle, error) {
		built[p]++
		return &handle{pin: p}, nil
	}

	first, err := table.GetOrCreate(hal.SomePin(5), factory)
	if err != nil {
		t.Fatal(err)
	}
	second, err := table.GetOrCreate(hal.SomePin(5), factory)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("the second call should return the cached handle")
	}
	if built[5] != 1 {
		t.Errorf("factory ran %d times for pin 5, want 1", built[5])
	}

	other, err := table.GetOrCreate(hal.SomePin(6), factory)
	if err != nil {
		t.Fatal(err)
	}
	if other == first || other.pin != 6 {
		t.Error("pin 6 should get its own handle")
	}
	if table.Live() != 2 {
		t.Errorf("Live() = %d, want 2", table.Live())
	}
	if h, ok := table.Lookup(6); !ok || h != other {
		t.Error("Lookup(6) should find the built handle")
	}
	if _, ok := table.Lookup(7); ok {
		t.Error("Lookup(7) should find nothing")
	}
}

func TestPinTableValidatesBeforeFactory(t *testing.T) {
	table := NewPinTable[*handle](8)
	calls := 0
	factory := func(p hal.Pin) (*handle, error) {
		calls++
		return &handle{pin: p}, nil
	}

	if _, err := table.GetOrCreate(hal.Unset, factory); !errors.Is(err, ErrPinUnset) {
		t.Errorf("unset pin: err = %v, want ErrPinUnset", err)
	}
	for _, p := range []hal.Pin{8, 100, -1} {
		if _, err := table.GetOrCreate(hal.SomePin(p), factory); !errors.Is(err, ErrPinOutOfRange) {
			t.Errorf("pin %d: err = %v, want ErrPinOutOfRange", p, err)
		}
	}
	if calls != 0 {
		t.Errorf("factory ran %d times for invalid pins", calls)
	}

	// pin 0 is a real pin, not "unset"
	h, err := table.GetOrCreate(hal.SomePin(0), factory)
	if err != nil || h.pin != 0 {
		t.Errorf("pin 0: %v, %v", h, err)
	}
}

func TestPinTableFactoryErrorLeavesSlotEmpty(t *testing.T) {
	table := NewPinTable[*handle](8)
	boom := errors.New("no such peripheral")
	fail := true
	calls := 0
	factory := func(p hal.Pin) (*handle, error) {
		calls++
		if fail {
			return nil, boom
		}
		return &handle{pin: p}, nil
	}

	if _, err := table.GetOrCreate(hal.SomePin(3), factory); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want the factory error", err)
	}
	if table.Live() != 0 {
		t.Error("a failed build should not occupy the slot")
	}

	fail = false
	if _, err := table.GetOrCreate(hal.SomePin(3), factory); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if calls != 2 {
		t.Errorf("factory ran %d times, want 2", calls)
	}
}

func TestPinTableDefaultSize(t *testing.T) {
	if got := NewPinTable[int](0).Size(); got != DefaultPinTableSize {
		t.Errorf("Size() = %d, want %d", got, DefaultPinTableSize)
	}
}
