package scoring

import (
	"fmt"
	"strconv"
	"strings"
)

// Score bounds for a single answer.
const (
	MinScore = 0
	MaxScore = 2
)

// Option is one selectable answer on the scale, e.g. "Sí" worth 2 points.
type Option struct {
	Label string // shown to the respondent
	Key   string // single-letter shortcut accepted by text front ends
	Value int
}

// Scale is the ordered list of options offered for every question, best
// answer first.
type Scale []Option

// DefaultScale is the Yes / Partial / No scale used by every shipped form.
var DefaultScale = Scale{
	{Label: "Sí", Key: "s", Value: 2},
	{Label: "Parcial", Key: "p", Value: 1},
	{Label: "No", Key: "n", Value: 0},
}

// Validate checks that the scale is non-empty, every value is within
// [MinScore, MaxScore], and that values and keys are unique.
// Call this once at startup, not on every request.
func (s Scale) Validate() error {
	if len(s) == 0 {
		return fmt.Errorf("scale: options must not be empty")
	}
	values := make(map[int]struct{}, len(s))
	keys := make(map[string]struct{}, len(s))
	for i, o := range s {
		if o.Value < MinScore || o.Value > MaxScore {
			return fmt.Errorf("scale: option[%d] %q value %d out of range [%d,%d]", i, o.Label, o.Value, MinScore, MaxScore)
		}
		if _, dup := values[o.Value]; dup {
			return fmt.Errorf("scale: duplicate value %d", o.Value)
		}
		values[o.Value] = struct{}{}

		k := strings.ToLower(o.Key)
		if k == "" {
			return fmt.Errorf("scale: option[%d] %q has no key", i, o.Label)
		}
		if _, dup := keys[k]; dup {
			return fmt.Errorf("scale: duplicate key %q", o.Key)
		}
		keys[k] = struct{}{}
	}
	return nil
}

// Parse resolves free-form input to a score. It accepts the numeric value,
// the option key, or the full label (case-insensitive). ok is false for blank
// or unrecognised input.
func (s Scale) Parse(input string) (value int, ok bool) {
	in := strings.ToLower(strings.TrimSpace(input))
	if in == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(in); err == nil {
		for _, o := range s {
			if o.Value == n {
				return n, true
			}
		}
		return 0, false
	}
	for _, o := range s {
		if in == strings.ToLower(o.Key) || in == strings.ToLower(o.Label) {
			return o.Value, true
		}
	}
	return 0, false
}

// Label returns the label for a score value, or "-" when no option has it.
func (s Scale) Label(value int) string {
	for _, o := range s {
		if o.Value == value {
			return o.Label
		}
	}
	return "-"
}
