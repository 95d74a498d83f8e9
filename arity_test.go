package lilduino

import (
	"io"
	"testing"
)

func TestContractAccepts(t *testing.T) {
	tests := []struct {
		name     string
		contract ArgumentContract
		accepted []int
		rejected []int
	}{
		{"exactly 2", Exactly(2), []int{2}, []int{0, 1, 3}},
		{"no args", NoArgs(), []int{0}, []int{1, 2}},
		{"range 0-2", Between(0, 2), []int{0, 1, 2}, []int{3, 4}},
		{"range 2-3", Between(2, 3), []int{2, 3}, []int{0, 1, 4}},
		{"at least 1", AtLeast(1), []int{1, 2, 50}, []int{0}},
		{"1 or 3", OneOf(1, 3), []int{1, 3}, []int{0, 2, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, n := range tt.accepted {
				if !tt.contract.Accepts(n) {
					t.Errorf("%s should accept %d", tt.contract, n)
				}
			}
			for _, n := range tt.rejected {
				if tt.contract.Accepts(n) {
					t.Errorf("%s should reject %d", tt.contract, n)
				}
			}
		})
	}
}

func TestContractRangeMatchesBounds(t *testing.T) {
	for min := 0; min <= 4; min++ {
		for max := min; max <= 4; max++ {
			c := Between(min, max)
			for n := 0; n <= 6; n++ {
				want := min <= n && n <= max
				if got := c.Accepts(n); got != want {
					t.Errorf("Between(%d, %d).Accepts(%d) = %v, want %v", min, max, n, got, want)
				}
			}
		}
	}
}

func TestContractString(t *testing.T) {
	tests := map[string]ArgumentContract{
		"2":          Exactly(2),
		"0-2":        Between(0, 2),
		"at least 3": AtLeast(3),
		"1 or 3":     OneOf(3, 1),
		"0, 1 or 4":  OneOf(4, 0, 1),
	}
	for want, c := range tests {
		if got := c.String(); got != want {
			t.Errorf("String() = %q, want %q", got, want)
		}
	}
}

func TestInvalidContractsPanic(t *testing.T) {
	cases := map[string]func(){
		"max below min": func() { Between(3, 1) },
		"negative min":  func() { Between(-1, 2) },
		"empty set":     func() { OneOf() },
		"negative set":  func() { OneOf(-1, 2) },
	}
	for name, f := range cases {
		t.Run(name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected a panic")
				}
			}()
			f()
		})
	}
}

func TestCheckReportsExpectedAndGot(t *testing.T) {
	err := Exactly(2).Check("gpio digitalwrite", 1)
	if err == nil {
		t.Fatal("expected an error")
	}
	ce := err.(*CommandError)
	if ce.Kind != KindArity {
		t.Errorf("kind = %s, want ArityError", ce.Kind)
	}
	if ce.Command != "gpio digitalwrite" {
		t.Errorf("command = %q", ce.Command)
	}
	if ce.Expected == nil || ce.Expected.Min != 2 || ce.Expected.Max != 2 || ce.Got != 1 {
		t.Errorf("expected 2 got 1, have %+v got %d", ce.Expected, ce.Got)
	}
	if want := "expected 2 args to gpio digitalwrite, got 1"; ce.Message != want {
		t.Errorf("message = %q, want %q", ce.Message, want)
	}

	if err := Exactly(2).Check("x", 2); err != nil {
		t.Errorf("unexpected error %v", err)
	}
}

func TestWithArityGuardsHandler(t *testing.T) {
	b, err := New(nil, nil, Callbacks{Write: func(string) {}})
	if err != nil {
		t.Fatal(err)
	}
	b.Logger().SetOutput(io.Discard, io.Discard)

	calls := 0
	b.RegisterCommand("color", WithArity(OneOf(1, 3), func(ctx *Context) Result {
		calls++
		return BoolStatus(true)
	}))

	for _, args := range [][]string{{"1"}, {"1", "2", "3"}} {
		if _, err := b.Dispatch("color", Strings(args...), nil); err != nil {
			t.Errorf("color %v: %v", args, err)
		}
	}
	_, err = b.Dispatch("color", Strings("1", "2"), nil)
	if !IsKind(err, KindArity) {
		t.Fatalf("color with 2 args: got %v, want ArityError", err)
	}
	if calls != 2 {
		t.Errorf("handler ran %d times, want 2", calls)
	}
}
