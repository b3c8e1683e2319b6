// Package resample generates bootstrap resamples of a training set.
//
// A bootstrap resample is a sequence of n indices drawn independently and
// uniformly at random from [0, n) with replacement. Duplicates are expected,
// and the original records that never get drawn are the out-of-bag records
// for that resample.
package resample

import (
	"math/rand/v2"

	"github.com/KoheiTanaka/bago/pkg/errors"
)

// Bootstrap generates independent bootstrap index sequences.
type Bootstrap struct {
	// NResamples is the number of index sequences to generate (the ensemble
	// size m).
	NResamples int

	// Seeded selects reproducible generation from Seed. When false, draws
	// come from the shared process-wide source and are not reproducible.
	Seeded bool

	// Seed is the PCG seed used when Seeded is true.
	Seed uint64
}

// NewBootstrap creates a resampler producing nResamples index sequences.
func NewBootstrap(nResamples int, seeded bool, seed uint64) *Bootstrap {
	return &Bootstrap{
		NResamples: nResamples,
		Seeded:     seeded,
		Seed:       seed,
	}
}

// Split draws the index sequences for a training set of size n. Each of the
// NResamples sequences has exactly length n with every index in [0, n).
func (b *Bootstrap) Split(n int) ([][]int, error) {
	if n < 1 {
		return nil, errors.NewValueError("Bootstrap.Split", "n must be >= 1")
	}
	if b.NResamples < 1 {
		return nil, errors.NewValidationError("n_resamples", "must be >= 1", b.NResamples)
	}

	intN := rand.IntN
	if b.Seeded {
		r := rand.New(rand.NewPCG(b.Seed, b.Seed))
		intN = r.IntN
	}

	samples := make([][]int, b.NResamples)
	for k := 0; k < b.NResamples; k++ {
		idx := make([]int, n)
		for i := range idx {
			idx[i] = intN(n)
		}
		samples[k] = idx
	}
	return samples, nil
}

// OutOfBag returns the indices in [0, n) that do not appear in the given
// bootstrap sample, in ascending order.
func OutOfBag(sample []int, n int) []int {
	seen := make([]bool, n)
	for _, i := range sample {
		if i >= 0 && i < n {
			seen[i] = true
		}
	}
	oob := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if !seen[i] {
			oob = append(oob, i)
		}
	}
	return oob
}
