package phyengine

import "strconv"

// Status is the engine's result code for calls that can fail inside the
// solver. Zero is success; everything else maps to a fixed failure class.
type Status int32

const (
	StatusOK               Status = 0
	StatusNoConvergence    Status = 1
	StatusInvalidParameter Status = 2
	StatusInternal         Status = 3
)

// String names the failure class. Codes outside the table are reported as
// internal errors with their raw value preserved.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNoConvergence:
		return "convergence failure"
	case StatusInvalidParameter:
		return "invalid parameter"
	case StatusInternal:
		return "internal error"
	default:
		return "internal error (status " + strconv.Itoa(int(s)) + ")"
	}
}
