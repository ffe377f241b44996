package netlist

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// SPICE-style unit multipliers. Suffixes are case-sensitive: meg is
// mega, m is milli.
var unitMap = map[string]float64{
	"T":   1e12,
	"G":   1e9,
	"meg": 1e6,
	"k":   1e3,
	"m":   1e-3,
	"u":   1e-6,
	"n":   1e-9,
	"p":   1e-12,
	"f":   1e-15,
}

var valuePattern = regexp.MustCompile(`^([-+]?[0-9]*\.?[0-9]+(?:[eE][-+]?[0-9]+)?)(meg|[TGkmunpf])?$`)

// ParseValue reads a number with an optional unit suffix: 1k is 1000,
// 4.7u is 4.7e-6. Plain scientific notation works too.
func ParseValue(s string) (float64, error) {
	m := valuePattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, fmt.Errorf("netlist: invalid value %q", s)
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, fmt.Errorf("netlist: invalid value %q: %w", s, err)
	}
	if m[2] != "" {
		v *= unitMap[m[2]]
	}
	return v, nil
}
