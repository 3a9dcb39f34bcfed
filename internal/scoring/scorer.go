// Package scoring implements the survey totals and the three-band tier
// classification. It is intentionally dependency-free: it imports nothing from
// internal/ and can be tested without a form catalogue or a network.
package scoring

import (
	"fmt"
	"sort"
)

// ─── CONSTANTS ────────────────────────────────────────────────────────────────

// Band boundaries are inclusive upper bounds.
const (
	lowMax    = 11 // total <= 11       → low
	mediumMax = 18 // 12 <= total <= 18 → medium, total >= 19 → high
)

// ─── TYPES ────────────────────────────────────────────────────────────────────

// Level is the three-band classification of a total. The string values are
// what the API returns and what the metrics use as a label.
type Level string

const (
	LevelLow    Level = "low"    // the provider needs a serious review
	LevelMedium Level = "medium" // there is room to improve
	LevelHigh   Level = "high"   // the service is solid
)

// Levels lists every level in ascending order.
var Levels = []Level{LevelLow, LevelMedium, LevelHigh}

// Answers maps a question ID to its score. A nil value (JSON null) means the
// respondent has not picked an option yet; it is treated exactly like an
// absent key.
type Answers map[int]*int

// Result is the computed outcome for one answer set over a fixed question set.
type Result struct {
	Total    int `json:"total"`
	Answered int `json:"answered"`
	Missing  int `json:"missing"`
	Max      int `json:"max"`
}

// Complete reports whether every question has a recorded answer.
func (r Result) Complete() bool { return r.Missing == 0 }

// ─── CORE FUNCTIONS ───────────────────────────────────────────────────────────

// Tally sums the answers for the given question IDs. Unanswered questions
// contribute 0 to Total and are counted in Missing. Answers keyed by IDs that
// are not part of ids are ignored.
//
// Tally does not validate values; call Answers.Validate first when the answers
// come from an untrusted source.
func Tally(ids []int, answers Answers) Result {
	res := Result{Max: MaxScore * len(ids)}
	for _, id := range ids {
		v := answers[id]
		if v == nil {
			res.Missing++
			continue
		}
		res.Answered++
		res.Total += *v
	}
	return res
}

// Classify maps a total to its level. It is total over all integers: values
// below the theoretical range fall into low and values above it into high.
func Classify(total int) Level {
	switch {
	case total <= lowMax:
		return LevelLow
	case total <= mediumMax:
		return LevelMedium
	default:
		return LevelHigh
	}
}

// ─── ANSWER HELPERS ───────────────────────────────────────────────────────────

// Validate checks that every key is a positive question ID and every recorded
// value is one of the scale values {0, 1, 2}.
func (a Answers) Validate() error {
	for _, id := range a.SortedIDs() {
		if id <= 0 {
			return fmt.Errorf("scoring: invalid question id %d", id)
		}
		v := a[id]
		if v == nil {
			continue
		}
		if *v < MinScore || *v > MaxScore {
			return fmt.Errorf("scoring: question %d: value %d out of range [%d,%d]", id, *v, MinScore, MaxScore)
		}
	}
	return nil
}

// SortedIDs returns the answer keys in ascending order, including keys whose
// value is nil.
func (a Answers) SortedIDs() []int {
	ids := make([]int, 0, len(a))
	for id := range a {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// With returns a copy of a with id set to v. The receiver is not modified.
func (a Answers) With(id, v int) Answers {
	out := make(Answers, len(a)+1)
	for k, val := range a {
		out[k] = val
	}
	out[id] = &v
	return out
}

// Without returns a copy of a with id marked as unanswered.
func (a Answers) Without(id int) Answers {
	out := make(Answers, len(a))
	for k, val := range a {
		if k != id {
			out[k] = val
		}
	}
	return out
}
