package ir

import "testing"

func TestParseProtocol(t *testing.T) {
	tests := []struct {
		name string
		want Protocol
	}{
		{"NEC", NEC},
		{"nec", NEC},
		{" Sony ", Sony},
		{"SAMSUNG", Samsung},
		{"UNKNOWN", Unknown},
		{"nonsense", Unknown},
		{"", Unknown},
	}
	for _, tt := range tests {
		if got := ParseProtocol(tt.name); got != tt.want {
			t.Errorf("ParseProtocol(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestProtocolWidths(t *testing.T) {
	if NEC.DefaultBits() != 32 {
		t.Errorf("NEC bits = %d, want 32", NEC.DefaultBits())
	}
	if NEC.MaxValue() != 0xFFFFFFFF {
		t.Errorf("NEC max = %#x", NEC.MaxValue())
	}
	if !NEC.Fits(0xFFFFFFFF) {
		t.Error("NEC should fit 0xFFFFFFFF")
	}
	if NEC.Fits(0x100000000) {
		t.Error("NEC should not fit 0x100000000")
	}
	if Sony.MinRepeats() != 2 {
		t.Errorf("Sony repeats = %d, want 2", Sony.MinRepeats())
	}
	if Unknown.Fits(0) {
		t.Error("Unknown protocol must not fit anything")
	}
}

func TestProtocolsRoundTripNames(t *testing.T) {
	for _, p := range Protocols() {
		if ParseProtocol(p.String()) != p {
			t.Errorf("protocol %v does not parse back from its name", p)
		}
	}
}

func TestMessageString(t *testing.T) {
	m := Message{Protocol: NEC, Value: 0x20DF10EF, Bits: 32}
	if got := m.String(); got != "NEC 0x20df10ef" {
		t.Errorf("String() = %q", got)
	}
}
