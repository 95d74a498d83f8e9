package hal

import "testing"

func TestOptionalPin(t *testing.T) {
	if Unset.Valid {
		t.Error("Unset must not be valid")
	}
	zero := SomePin(0)
	if !zero.Valid || zero.Pin != 0 {
		t.Errorf("SomePin(0) = %+v, want a valid pin 0", zero)
	}
	if zero == Unset {
		t.Error("pin 0 must be distinguishable from unset")
	}
	if Unset.String() != "unset" || SomePin(14).String() != "14" {
		t.Errorf("unexpected strings %q %q", Unset.String(), SomePin(14).String())
	}
}

func TestParsePinMode(t *testing.T) {
	for _, m := range []PinMode{Input, Output, InputPullUp, InputPullDown} {
		got, ok := ParsePinMode(m.String())
		if !ok || got != m {
			t.Errorf("ParsePinMode(%q) = %v, %v", m.String(), got, ok)
		}
	}
	if _, ok := ParsePinMode("INPUT"); ok {
		t.Error("pin mode names are case-sensitive")
	}
}
