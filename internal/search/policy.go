package search

import (
	"fmt"

	"shelfcheck/internal/outcomes"
)

// Policy selects which works are re-verified when a stored outcome already
// exists.
type Policy int

const (
	// PolicyAlways re-runs every work.
	PolicyAlways Policy = iota
	// PolicyIfAbsent runs only works with no stored outcome.
	PolicyIfAbsent
	// PolicyIfNegative runs works whose outcome is negative or absent.
	PolicyIfNegative
	// PolicyIfPositive runs works whose outcome is positive or absent.
	PolicyIfPositive
)

// ParsePolicy converts the configuration string form.
func ParsePolicy(value string) (Policy, error) {
	switch value {
	case "always":
		return PolicyAlways, nil
	case "if-absent":
		return PolicyIfAbsent, nil
	case "if-negative":
		return PolicyIfNegative, nil
	case "if-positive":
		return PolicyIfPositive, nil
	default:
		return 0, fmt.Errorf("unknown verify policy %q", value)
	}
}

func (p Policy) String() string {
	switch p {
	case PolicyAlways:
		return "always"
	case PolicyIfAbsent:
		return "if-absent"
	case PolicyIfNegative:
		return "if-negative"
	case PolicyIfPositive:
		return "if-positive"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// ShouldRun reports whether a work with the given stored record passes the
// gate under this policy.
func (p Policy) ShouldRun(existing *outcomes.Record) bool {
	switch p {
	case PolicyAlways:
		return true
	case PolicyIfAbsent:
		return existing == nil
	case PolicyIfNegative:
		return existing == nil || !existing.Positive()
	case PolicyIfPositive:
		return existing == nil || existing.Positive()
	default:
		return false
	}
}
