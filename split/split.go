// Package split assigns files to train/val/test buckets and copies or moves
// them into per-split subdirectories.
package split

import (
	"math"
	"math/rand/v2"

	"github.com/pkg/errors"

	"github.com/xingbase/dsprep/file"
)

// Tolerance is how far the ratio sum may drift from 1.0.
const Tolerance = 1e-6

type Split string

const (
	Train Split = "train"
	Val   Split = "val"
	Test  Split = "test"
)

// Splits lists the buckets in their fixed order.
var Splits = []Split{Train, Val, Test}

var ErrRatioSum = errors.New("ratios must sum to 1.0")

type Ratios struct {
	Train float64
	Val   float64
	Test  float64
}

func (r Ratios) Of(s Split) float64 {
	switch s {
	case Train:
		return r.Train
	case Val:
		return r.Val
	case Test:
		return r.Test
	}
	return 0
}

func (r Ratios) Validate() error {
	for _, s := range Splits {
		v := r.Of(s)
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.Errorf("%s ratio must be a non-negative number, got %v", s, v)
		}
	}

	sum := r.Train + r.Val + r.Test
	if math.Abs(sum-1.0) >= Tolerance {
		return errors.Wrapf(ErrRatioSum, "currently %v", sum)
	}

	return nil
}

// Counts gives each split round(ratio*n) files. Whatever rounding leaves
// over (at most one file either way) goes to the split with the largest
// ratio, train first on ties.
func (r Ratios) Counts(n int) map[Split]int {
	counts := make(map[Split]int, len(Splits))
	total := 0
	largest := Train
	for _, s := range Splits {
		c := int(math.Round(r.Of(s) * float64(n)))
		counts[s] = c
		total += c
		if r.Of(s) > r.Of(largest) {
			largest = s
		}
	}
	counts[largest] += n - total

	return counts
}

type Entry struct {
	Source file.Source
	Split  Split
}

// Assignment is the planned bucket of every file, in shuffled order.
type Assignment []Entry

func (a Assignment) Count(s Split) int {
	n := 0
	for _, e := range a {
		if e.Split == s {
			n++
		}
	}
	return n
}

func (a Assignment) Counts() map[Split]int {
	counts := make(map[Split]int, len(Splits))
	for _, s := range Splits {
		counts[s] = 0
	}
	for _, e := range a {
		counts[e.Split]++
	}
	return counts
}

// Plan shuffles files and cuts them into train, val and test by r. The same
// files in the same order with the same seed always give the same
// Assignment. A nil seed shuffles with the process-wide random source.
func Plan(files []file.Source, r Ratios, seed *int64) (Assignment, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	shuffled := make([]file.Source, len(files))
	copy(shuffled, files)

	swap := func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] }
	if seed != nil {
		s := uint64(*seed)
		rand.New(rand.NewPCG(s, s)).Shuffle(len(shuffled), swap)
	} else {
		rand.Shuffle(len(shuffled), swap)
	}

	counts := r.Counts(len(shuffled))
	a := make(Assignment, 0, len(shuffled))
	i := 0
	for _, s := range Splits {
		for n := 0; n < counts[s]; n++ {
			a = append(a, Entry{Source: shuffled[i], Split: s})
			i++
		}
	}

	return a, nil
}
