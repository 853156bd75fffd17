package pipeline

import (
	"math/rand"

	"seisprep/internal/config"
	"seisprep/internal/table"
)

// Splitter partitions a table into disjoint train/val/test subsets using a
// seeded pseudo-random permutation of row indices. For a fixed seed and
// input size the split is deterministic: repeated calls yield identical
// partitions.
type Splitter struct {
	split config.SplitConfig
	seed  int64
}

// NewSplitter creates a splitter with the given ratios and seed.
func NewSplitter(split config.SplitConfig, seed int64) *Splitter {
	return &Splitter{split: split, seed: seed}
}

// Split partitions the table. Boundaries use integer truncation:
// n_train = floor(n·train), n_val = floor(n·val); the remainder, including
// truncation slack, becomes the test partition. The three outputs are
// row-disjoint, cover the input exactly once, and carry fresh indices.
func (s *Splitter) Split(t *table.Table) (train, val, test *table.Table) {
	n := t.NumRows()
	perm := rand.New(rand.NewSource(s.seed)).Perm(n)

	nTrain := int(float64(n) * s.split.TrainRatio)
	nVal := int(float64(n) * s.split.ValRatio)

	train = t.SelectRows(perm[:nTrain])
	val = t.SelectRows(perm[nTrain : nTrain+nVal])
	test = t.SelectRows(perm[nTrain+nVal:])
	return train, val, test
}
