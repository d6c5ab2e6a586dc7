// File path: internal/ledger/version.go
package ledger

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Action is a qualifying change event recorded in the version ledger.
// The enumeration is closed: a new action requires a defined
// increment rule in Version.Bump.
type Action string

const (
	ActionEditLogic    Action = "edit_logic"
	ActionValidate     Action = "validate"
	ActionGenerateCode Action = "generate_code"
	ActionSafetyCheck  Action = "safety_check"
)

// ErrUnknownAction is returned when an action outside the closed
// enumeration reaches the ledger.
var ErrUnknownAction = errors.New("ledger: unknown action type")

// Version is a three-part semantic version. Versions within one stage
// are monotonically increasing as (major, minor, patch) tuples.
type Version struct {
	Major int `json:"major"`
	Minor int `json:"minor"`
	Patch int `json:"patch"`
}

// Seed is the implicit current version of a stage with no recorded
// history, mirroring the stage-row default of the backing store. The
// first edit_logic on a fresh stage therefore yields 1.0.1.
var Seed = Version{Major: 1, Minor: 0, Patch: 0}

// ParseVersion parses a MAJOR.MINOR.PATCH string.
func ParseVersion(s string) (Version, error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) != 3 {
		return Version{}, fmt.Errorf("parse version %q: want MAJOR.MINOR.PATCH", s)
	}
	nums := make([]int, 3)
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return Version{}, fmt.Errorf("parse version %q: bad component %q", s, part)
		}
		nums[i] = n
	}
	return Version{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Compare orders versions lexicographically as (major, minor, patch).
func (v Version) Compare(o Version) int {
	switch {
	case v.Major != o.Major:
		return sign(v.Major - o.Major)
	case v.Minor != o.Minor:
		return sign(v.Minor - o.Minor)
	default:
		return sign(v.Patch - o.Patch)
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}

// Bump applies the increment rule for an action:
//
//	edit_logic, safety_check  -> patch += 1
//	validate, generate_code   -> minor += 1, patch = 0
//
// Major is never incremented here; it is reserved for an explicit
// release action that does not exist yet.
func (v Version) Bump(action Action) (Version, error) {
	switch action {
	case ActionEditLogic, ActionSafetyCheck:
		return Version{Major: v.Major, Minor: v.Minor, Patch: v.Patch + 1}, nil
	case ActionValidate, ActionGenerateCode:
		return Version{Major: v.Major, Minor: v.Minor + 1, Patch: 0}, nil
	default:
		return Version{}, fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
}

// Replay folds a chronological entry sequence into the stage's
// current version. An empty sequence projects the seed.
func Replay(entries []Entry) Version {
	current := Seed
	for _, entry := range entries {
		if next, err := current.Bump(entry.ActionType); err == nil {
			current = next
		}
	}
	return current
}
