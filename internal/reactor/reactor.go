// Package reactor classifies reactor reports: sequences of levels that are
// safe when they move strictly in one direction by a bounded step, possibly
// after removing a limited number of bad levels.
package reactor

import (
	"errors"
	"fmt"
)

// ErrInvalidBounds indicates MinStep exceeds MaxStep.
var ErrInvalidBounds = errors.New("invalid analyzer bounds")

// Status is the classification of a single report.
type Status int

const (
	// Undetermined is reported for empty input and never counted.
	Undetermined Status = iota
	Safe
	Unsafe
)

func (s Status) String() string {
	switch s {
	case Safe:
		return "Safe"
	case Unsafe:
		return "Unsafe"
	default:
		return "Undetermined"
	}
}

// Bounds configures the analyzer.
type Bounds struct {
	MinStep        uint32 `json:"min_step" yaml:"min_step"`
	MaxStep        uint32 `json:"max_step" yaml:"max_step"`
	ErrorTolerance uint32 `json:"error_tolerance" yaml:"error_tolerance"`
}

// DefaultBounds returns the canonical puzzle configuration (1, 3, 1).
func DefaultBounds() Bounds {
	return Bounds{MinStep: 1, MaxStep: 3, ErrorTolerance: 1}
}

// Validate reports whether the step range is well formed.
func (b Bounds) Validate() error {
	if b.MinStep > b.MaxStep {
		return fmt.Errorf("%w: min_step %d > max_step %d", ErrInvalidBounds, b.MinStep, b.MaxStep)
	}
	return nil
}

func (b Bounds) String() string {
	return fmt.Sprintf("step [%d, %d], tolerance %d", b.MinStep, b.MaxStep, b.ErrorTolerance)
}

// Result is the outcome of analyzing one report.
type Result struct {
	Status Status
	// Removed holds the indices, ascending, of a smallest set of levels whose
	// removal makes a Safe report pass. Empty when the report passed as-is.
	Removed []int
}

// Classify returns Safe iff removing at most b.ErrorTolerance levels leaves a
// strictly monotonic sequence whose steps all lie in [MinStep, MaxStep].
func Classify(levels []int32, b Bounds) Status {
	return Analyze(levels, b).Status
}

// IsSafe applies the zero-tolerance predicate.
func IsSafe(levels []int32, b Bounds) bool {
	b.ErrorTolerance = 0
	return Classify(levels, b) == Safe
}

// Analyze classifies levels and reports which indices were removed.
func Analyze(levels []int32, b Bounds) Result {
	if len(levels) == 0 {
		return Result{Status: Undetermined}
	}
	s := scanner{levels: levels, bounds: b}
	kept, deletions := s.minimalRepair()
	if uint64(deletions) > uint64(b.ErrorTolerance) {
		return Result{Status: Unsafe}
	}
	return Result{Status: Safe, Removed: complement(len(levels), kept)}
}

type direction int8

const (
	undecided direction = iota
	up
	down
)

type scanner struct {
	levels []int32
	bounds Bounds
}

// link records how the cheapest chain ending at an index was reached.
type link struct {
	cost int // deletions so far, -1 when unreachable
	prev int
	dir  direction
}

// minimalRepair finds the fewest deletions that leave a valid sequence.
// best[i][d] is the cheapest chain of retained levels ending at i whose
// direction is d; a chain ending at i with undecided direction retains only i.
// It returns the retained indices and the total deletions.
func (s *scanner) minimalRepair() ([]int, int) {
	n := len(s.levels)
	best := make([][3]link, n)
	for i := 0; i < n; i++ {
		best[i] = [3]link{{cost: i, prev: -1}, {cost: -1}, {cost: -1}}
		for j := 0; j < i; j++ {
			for dj := undecided; dj <= down; dj++ {
				from := best[j][dj]
				if from.cost < 0 {
					continue
				}
				d, ok := s.step(s.levels[j], s.levels[i], dj)
				if !ok {
					continue
				}
				c := from.cost + i - j - 1
				if cur := best[i][d]; cur.cost < 0 || c < cur.cost {
					best[i][d] = link{cost: c, prev: j, dir: dj}
				}
			}
		}
	}

	endAt, endDir, total := -1, undecided, 0
	for i := 0; i < n; i++ {
		for d := undecided; d <= down; d++ {
			l := best[i][d]
			if l.cost < 0 {
				continue
			}
			if c := l.cost + n - 1 - i; endAt < 0 || c < total {
				endAt, endDir, total = i, d, c
			}
		}
	}

	var kept []int
	for i, d := endAt, endDir; i >= 0; {
		kept = append(kept, i)
		l := best[i][d]
		i, d = l.prev, l.dir
	}
	return kept, total
}

// step validates the move from p to x under the established direction and
// returns the direction it implies.
func (s *scanner) step(p, x int32, dir direction) (direction, bool) {
	diff := int64(x) - int64(p)
	var d direction
	var mag int64
	switch {
	case diff > 0:
		d, mag = up, diff
	case diff < 0:
		d, mag = down, -diff
	default:
		return dir, false
	}
	if mag < int64(s.bounds.MinStep) || mag > int64(s.bounds.MaxStep) {
		return dir, false
	}
	if dir != undecided && d != dir {
		return dir, false
	}
	return d, true
}

// complement returns the indices in [0, n) missing from kept, ascending.
func complement(n int, kept []int) []int {
	retained := make([]bool, n)
	for _, i := range kept {
		retained[i] = true
	}
	var out []int
	for i, ok := range retained {
		if !ok {
			out = append(out, i)
		}
	}
	return out
}

// Tally counts classifications across reports.
type Tally struct {
	Safe         int `json:"safe" yaml:"safe"`
	Unsafe       int `json:"unsafe" yaml:"unsafe"`
	Undetermined int `json:"undetermined" yaml:"undetermined"`
}

// Record adds s to the matching counter.
func (t *Tally) Record(s Status) {
	switch s {
	case Safe:
		t.Safe++
	case Unsafe:
		t.Unsafe++
	default:
		t.Undetermined++
	}
}

// Total returns the number of classified (safe or unsafe) reports.
func (t Tally) Total() int { return t.Safe + t.Unsafe }
