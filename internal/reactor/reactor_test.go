package reactor_test

import (
	"math/rand"
	"slices"
	"testing"
	"time"

	"github.com/KaramelBytes/hysteria-cli/internal/reactor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifySamples(t *testing.T) {
	b := reactor.DefaultBounds()
	cases := []struct {
		levels     []int32
		strict     reactor.Status
		tolerating reactor.Status
	}{
		{[]int32{7, 6, 4, 2, 1}, reactor.Safe, reactor.Safe},
		{[]int32{1, 2, 7, 8, 9}, reactor.Unsafe, reactor.Unsafe},
		{[]int32{9, 7, 6, 2, 1}, reactor.Unsafe, reactor.Unsafe},
		{[]int32{1, 3, 2, 4, 5}, reactor.Unsafe, reactor.Safe},
		{[]int32{8, 6, 4, 4, 1}, reactor.Unsafe, reactor.Safe},
		{[]int32{1, 3, 6, 7, 9}, reactor.Safe, reactor.Safe},
	}
	strict := b
	strict.ErrorTolerance = 0
	for _, c := range cases {
		assert.Equal(t, c.strict, reactor.Classify(c.levels, strict), "strict %v", c.levels)
		assert.Equal(t, c.tolerating, reactor.Classify(c.levels, b), "tolerant %v", c.levels)
	}
}

func TestClassifyEdgeCases(t *testing.T) {
	b := reactor.DefaultBounds()
	assert.Equal(t, reactor.Undetermined, reactor.Classify(nil, b))
	assert.Equal(t, reactor.Undetermined, reactor.Classify([]int32{}, b))
	assert.Equal(t, reactor.Safe, reactor.Classify([]int32{42}, reactor.Bounds{MinStep: 1, MaxStep: 3}))
	assert.Equal(t, reactor.Unsafe, reactor.Classify([]int32{5, 5}, reactor.Bounds{MinStep: 1, MaxStep: 3}))
	// a zero step has no direction, so it never passes
	assert.Equal(t, reactor.Unsafe, reactor.Classify([]int32{5, 5}, reactor.Bounds{MinStep: 0, MaxStep: 3}))
	assert.Equal(t, reactor.Safe, reactor.Classify([]int32{5, 5}, b))
}

func TestClassifyDirectionFromFirstPairCanBeRemoved(t *testing.T) {
	b := reactor.DefaultBounds()
	// The first step sets "up"; dropping level 0 lets the rest descend.
	assert.Equal(t, reactor.Safe, reactor.Classify([]int32{1, 4, 3, 2, 1}, b))
	// Dropping level 1 re-derives the direction from (0, 2).
	assert.Equal(t, reactor.Safe, reactor.Classify([]int32{5, 9, 4, 3, 2}, b))
}

func TestAnalyzeReportsRemovedIndex(t *testing.T) {
	res := reactor.Analyze([]int32{8, 6, 4, 4, 1}, reactor.DefaultBounds())
	require.Equal(t, reactor.Safe, res.Status)
	require.Len(t, res.Removed, 1)
	assert.Contains(t, []int{2, 3}, res.Removed[0])

	res = reactor.Analyze([]int32{7, 6, 4, 2, 1}, reactor.DefaultBounds())
	assert.Equal(t, reactor.Safe, res.Status)
	assert.Empty(t, res.Removed)

	res = reactor.Analyze([]int32{1, 2, 7, 8, 9}, reactor.DefaultBounds())
	assert.Equal(t, reactor.Unsafe, res.Status)
	assert.Nil(t, res.Removed)
}

func TestIsSafeIgnoresTolerance(t *testing.T) {
	b := reactor.DefaultBounds()
	assert.False(t, reactor.IsSafe([]int32{1, 3, 2, 4, 5}, b))
	assert.True(t, reactor.IsSafe([]int32{1, 3, 6, 7, 9}, b))
}

func TestBoundsValidate(t *testing.T) {
	require.NoError(t, reactor.DefaultBounds().Validate())
	require.NoError(t, reactor.Bounds{MinStep: 2, MaxStep: 2}.Validate())
	err := reactor.Bounds{MinStep: 4, MaxStep: 3}.Validate()
	require.ErrorIs(t, err, reactor.ErrInvalidBounds)
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "Safe", reactor.Safe.String())
	assert.Equal(t, "Unsafe", reactor.Unsafe.String())
	assert.Equal(t, "Undetermined", reactor.Undetermined.String())
}

func TestTally(t *testing.T) {
	var tally reactor.Tally
	for _, s := range []reactor.Status{reactor.Safe, reactor.Unsafe, reactor.Safe, reactor.Undetermined} {
		tally.Record(s)
	}
	assert.Equal(t, reactor.Tally{Safe: 2, Unsafe: 1, Undetermined: 1}, tally)
	assert.Equal(t, 3, tally.Total())
}

// bruteForce tries every deletion set of size <= tolerance.
func bruteForce(levels []int32, b reactor.Bounds) reactor.Status {
	if len(levels) == 0 {
		return reactor.Undetermined
	}
	n := len(levels)
	for mask := 0; mask < 1<<n; mask++ {
		if popcount(mask) > int(b.ErrorTolerance) {
			continue
		}
		kept := make([]int32, 0, n)
		for i, v := range levels {
			if mask&(1<<i) == 0 {
				kept = append(kept, v)
			}
		}
		if strictlySafe(kept, b) {
			return reactor.Safe
		}
	}
	return reactor.Unsafe
}

func strictlySafe(levels []int32, b reactor.Bounds) bool {
	if len(levels) < 2 {
		return true
	}
	increasing := levels[1] > levels[0]
	for i := 1; i < len(levels); i++ {
		d := int64(levels[i]) - int64(levels[i-1])
		if d == 0 || (d > 0) != increasing {
			return false
		}
		if d < 0 {
			d = -d
		}
		if d < int64(b.MinStep) || d > int64(b.MaxStep) {
			return false
		}
	}
	return true
}

func popcount(x int) int {
	n := 0
	for ; x != 0; x &= x - 1 {
		n++
	}
	return n
}

func randomLevels(rng *rand.Rand) []int32 {
	levels := make([]int32, 1+rng.Intn(8))
	levels[0] = int32(rng.Intn(20))
	for i := 1; i < len(levels); i++ {
		levels[i] = levels[i-1] + int32(rng.Intn(11)-5)
	}
	return levels
}

func TestClassifyMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(2024))
	for n := 0; n < 3000; n++ {
		levels := randomLevels(rng)
		minStep := uint32(rng.Intn(3))
		b := reactor.Bounds{
			MinStep:        minStep,
			MaxStep:        minStep + uint32(rng.Intn(4)),
			ErrorTolerance: uint32(rng.Intn(4)),
		}
		require.Equal(t, bruteForce(levels, b), reactor.Classify(levels, b), "levels=%v bounds=%+v", levels, b)
	}
}

func TestClassifyRemovedIndicesRepairReport(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	for n := 0; n < 1000; n++ {
		levels := randomLevels(rng)
		b := reactor.Bounds{MinStep: 1, MaxStep: 3, ErrorTolerance: uint32(rng.Intn(3))}
		res := reactor.Analyze(levels, b)
		if res.Status != reactor.Safe {
			continue
		}
		require.LessOrEqual(t, len(res.Removed), int(b.ErrorTolerance))
		var kept []int32
		for i, v := range levels {
			if !slices.Contains(res.Removed, i) {
				kept = append(kept, v)
			}
		}
		require.True(t, strictlySafe(kept, b), "levels=%v removed=%v", levels, res.Removed)
	}
}

func TestClassifyMonotoneInTolerance(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	for n := 0; n < 1000; n++ {
		levels := randomLevels(rng)
		for tol := uint32(0); tol < 3; tol++ {
			b := reactor.Bounds{MinStep: 1, MaxStep: 3, ErrorTolerance: tol}
			if reactor.Classify(levels, b) == reactor.Safe {
				b.ErrorTolerance++
				require.Equal(t, reactor.Safe, reactor.Classify(levels, b), "levels=%v tol=%d", levels, tol)
			}
		}
	}
}

func TestClassifyReversalInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for n := 0; n < 1000; n++ {
		levels := randomLevels(rng)
		b := reactor.Bounds{MinStep: 1, MaxStep: 3, ErrorTolerance: uint32(rng.Intn(3))}
		rev := slices.Clone(levels)
		slices.Reverse(rev)
		require.Equal(t, reactor.Classify(levels, b), reactor.Classify(rev, b), "levels=%v", levels)
	}
}

func TestClassifyShortAfterDeletionIsSafe(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for n := 0; n < 500; n++ {
		levels := randomLevels(rng)
		tol := uint32(len(levels) - 1)
		b := reactor.Bounds{MinStep: 1, MaxStep: 3, ErrorTolerance: tol}
		require.Equal(t, reactor.Safe, reactor.Classify(levels, b), "levels=%v", levels)
	}
}

func TestClassifyLargeToleranceStaysFast(t *testing.T) {
	equal := make([]int32, 33)
	for i := range equal {
		equal[i] = 5
	}
	start := time.Now()
	// only a single retained level survives equal runs, which needs 32 deletions
	assert.Equal(t, reactor.Unsafe, reactor.Classify(equal, reactor.Bounds{MinStep: 1, MaxStep: 3, ErrorTolerance: 30}))
	assert.Equal(t, reactor.Safe, reactor.Classify(equal, reactor.Bounds{MinStep: 1, MaxStep: 3, ErrorTolerance: 32}))

	rng := rand.New(rand.NewSource(17))
	long := make([]int32, 2000)
	for i := range long {
		long[i] = int32(rng.Intn(1000))
	}
	res := reactor.Analyze(long, reactor.Bounds{MinStep: 1, MaxStep: 3, ErrorTolerance: 1 << 30})
	require.Equal(t, reactor.Safe, res.Status)
	assert.Less(t, len(res.Removed), len(long))
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestAnalyzeRemovesFewestLevels(t *testing.T) {
	// dropping the leading 10 alone repairs the report, even with spare tolerance
	res := reactor.Analyze([]int32{10, 1, 2, 3, 4}, reactor.Bounds{MinStep: 1, MaxStep: 3, ErrorTolerance: 3})
	require.Equal(t, reactor.Safe, res.Status)
	assert.Equal(t, []int{0}, res.Removed)
}
