package phyengine

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind selects the analysis the engine runs. The integer values match the
// engine's own enumeration, so a Kind crosses the boundary unchanged.
type Kind uint32

const (
	KindOP   Kind = 0 // operating point
	KindDC   Kind = 1 // DC sweep
	KindAC   Kind = 2 // small-signal frequency response
	KindACOP Kind = 3 // AC with operating point
	KindTR   Kind = 4 // transient
	KindTROP Kind = 5 // transient with operating point
)

var kindNames = map[Kind]string{
	KindOP:   "OP",
	KindDC:   "DC",
	KindAC:   "AC",
	KindACOP: "ACOP",
	KindTR:   "TR",
	KindTROP: "TROP",
}

// String returns the symbolic name, or a decimal spelling for unknown kinds.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return strconv.FormatUint(uint64(k), 10)
}

// Valid reports whether k is one of the defined analysis kinds.
func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

// NeedsTransientParams reports whether the kind requires TRStep and TRStop.
func (k Kind) NeedsTransientParams() bool { return k == KindTR || k == KindTROP }

// NeedsOmega reports whether the kind requires ACOmega.
func (k Kind) NeedsOmega() bool { return k == KindAC || k == KindACOP }

// ParseKind accepts a symbolic name (case-insensitive) or the equivalent
// integer code. Both forms resolve to the same Kind.
func ParseKind(s string) (Kind, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	if code, err := strconv.ParseUint(name, 10, 32); err == nil {
		k := Kind(code)
		if k.Valid() {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown analysis kind %q", s)
}

// Request describes one analyze call. Kind-specific fields are ignored for
// kinds that do not use them; zero means absent for validation purposes.
type Request struct {
	Kind    Kind
	TRStep  float64 // transient time step, seconds
	TRStop  float64 // transient stop time, seconds
	ACOmega float64 // angular frequency, rad/s

	// DigitalClock requests exactly one clock step after the analysis.
	DigitalClock bool
}

// MissingParams names the kind-specific parameters the request leaves unset.
// An empty result means the request can cross the boundary.
func (r Request) MissingParams() []string {
	var missing []string
	if r.Kind.NeedsTransientParams() {
		if r.TRStep == 0 {
			missing = append(missing, "tr_step")
		}
		if r.TRStop == 0 {
			missing = append(missing, "tr_stop")
		}
	}
	if r.Kind.NeedsOmega() && r.ACOmega == 0 {
		missing = append(missing, "ac_omega")
	}
	return missing
}
