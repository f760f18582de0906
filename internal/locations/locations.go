// Package locations reconciles the two location-ID lists from the
// historian's notes: the rank-paired total distance and the
// occurrence-weighted similarity score.
package locations

import (
	"errors"

	"github.com/KaramelBytes/hysteria-cli/internal/utils"
	"golang.org/x/exp/maps"
)

// ErrLengthMismatch is returned when the two lists cannot be paired by rank.
var ErrLengthMismatch = errors.New("the lists have to be equal lengths")

// Pair is one input record: a left and a right location ID.
type Pair struct {
	Left  uint32
	Right uint32
}

// Lists accumulates pairs into two independent populations.
type Lists struct {
	Left  []uint32
	Right []uint32
}

// Add appends both halves of p.
func (l *Lists) Add(p Pair) {
	l.Left = append(l.Left, p.Left)
	l.Right = append(l.Right, p.Right)
}

// Len returns the number of pairs added.
func (l *Lists) Len() int { return len(l.Left) }

// Distance returns TotalDistance over the accumulated lists.
func (l *Lists) Distance() (uint64, error) { return TotalDistance(l.Left, l.Right) }

// Similarity returns SimilarityScore over the accumulated lists.
func (l *Lists) Similarity() uint64 { return SimilarityScore(l.Left, l.Right) }

// TotalDistance sorts copies of left and right and sums the absolute
// differences of the rank-paired values. Inputs are not modified.
func TotalDistance(left, right []uint32) (uint64, error) {
	if len(left) != len(right) {
		return 0, ErrLengthMismatch
	}
	ls := append([]uint32(nil), left...)
	rs := append([]uint32(nil), right...)
	utils.Quicksort(ls)
	utils.Quicksort(rs)

	var total uint64
	for i := range ls {
		total += uint64(absDiff(ls[i], rs[i]))
	}
	return total, nil
}

// SimilarityScore sums x * count(right, x) over every x in left.
// Duplicates in left contribute independently.
func SimilarityScore(left, right []uint32) uint64 {
	counts := Counts(right)
	var score uint64
	for _, x := range left {
		score += uint64(x) * uint64(counts[x])
	}
	return score
}

// Counts returns the multiplicity of each value in ids.
func Counts(ids []uint32) map[uint32]uint32 {
	counts := make(map[uint32]uint32, len(ids))
	for _, id := range ids {
		counts[id]++
	}
	return counts
}

// PairDistance is one row of the rank-paired listing.
type PairDistance struct {
	Left     uint32
	Right    uint32
	Distance uint32
}

// Pairings returns the rank-paired rows used by TotalDistance.
func Pairings(left, right []uint32) ([]PairDistance, error) {
	if len(left) != len(right) {
		return nil, ErrLengthMismatch
	}
	ls := append([]uint32(nil), left...)
	rs := append([]uint32(nil), right...)
	utils.Quicksort(ls)
	utils.Quicksort(rs)
	rows := make([]PairDistance, len(ls))
	for i := range ls {
		rows[i] = PairDistance{Left: ls[i], Right: rs[i], Distance: absDiff(ls[i], rs[i])}
	}
	return rows, nil
}

// Contribution is the similarity share of a single distinct left value.
type Contribution struct {
	ID         uint32
	LeftCount  uint32
	RightCount uint32
	Score      uint64
}

// Breakdown groups the similarity score by distinct left value, ascending by
// ID. Values absent from right are omitted.
func Breakdown(left, right []uint32) []Contribution {
	lc := Counts(left)
	rc := Counts(right)
	ids := maps.Keys(lc)
	utils.Quicksort(ids)

	var out []Contribution
	for _, id := range ids {
		n := rc[id]
		if n == 0 {
			continue
		}
		out = append(out, Contribution{
			ID:         id,
			LeftCount:  lc[id],
			RightCount: n,
			Score:      uint64(id) * uint64(n) * uint64(lc[id]),
		})
	}
	return out
}

func absDiff(a, b uint32) uint32 {
	if a > b {
		return a - b
	}
	return b - a
}
