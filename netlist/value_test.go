package netlist

import (
	"math"
	"testing"
)

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"100", 100},
		{"4.7", 4.7},
		{".5", 0.5},
		{"-2m", -0.002},
		{"1k", 1000},
		{"2meg", 2e6},
		{"3n", 3e-9},
		{"1T", 1e12},
		{"5G", 5e9},
		{"2p", 2e-12},
		{"8f", 8e-15},
		{"1e3", 1000},
		{"2.5E-3", 0.0025},
		{"+0.5u", 5e-7},
		{" 10k ", 1e4},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseValue(tt.in)
			if err != nil {
				t.Fatalf("ParseValue(%q): %v", tt.in, err)
			}
			if math.Abs(got-tt.want) > 1e-9*math.Max(1, math.Abs(tt.want)) {
				t.Fatalf("ParseValue(%q) = %g, want %g", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseValue_Invalid(t *testing.T) {
	for _, in := range []string{"", "k", "meg", "1x", "1.2.3", "--1", "5."} {
		if _, err := ParseValue(in); err == nil {
			t.Errorf("ParseValue(%q) succeeded, want error", in)
		}
	}
}
