package classify

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Confusion tallies test predictions against true labels. Positive is
// the cost-efficient class.
type Confusion struct {
	TP, FP, TN, FN int
}

// Total is the number of tallied predictions.
func (c Confusion) Total() int { return c.TP + c.FP + c.TN + c.FN }

// Accuracy is the fraction of correct predictions, NaN when nothing
// was tallied.
func (c Confusion) Accuracy() float64 {
	if c.Total() == 0 {
		return math.NaN()
	}
	return float64(c.TP+c.TN) / float64(c.Total())
}

// KAccuracy is one point of the sweep curve.
type KAccuracy struct {
	K        int
	Accuracy float64
}

// SweepResult summarizes a neighbor-count sweep. Best is the smallest
// k attaining the highest test accuracy.
type SweepResult struct {
	Points       []KAccuracy
	BestK        int
	BestAccuracy float64
	Confusion    Confusion
}

// Predict classifies x by majority vote among the k nearest training
// examples under Euclidean distance. A split vote falls to the single
// nearest neighbor. k is clamped to the training-set size; train must
// be non-empty.
func Predict(train []Example, x [3]float64, k int) bool {
	if k > len(train) {
		k = len(train)
	}

	type neighbor struct {
		dist  float64
		index int
	}
	neighbors := make([]neighbor, len(train))
	for i, ex := range train {
		neighbors[i] = neighbor{dist: floats.Distance(ex.X[:], x[:], 2), index: i}
	}
	sort.Slice(neighbors, func(i, j int) bool {
		if neighbors[i].dist != neighbors[j].dist {
			return neighbors[i].dist < neighbors[j].dist
		}
		return neighbors[i].index < neighbors[j].index
	})

	votes := 0
	for _, nb := range neighbors[:k] {
		if train[nb.index].Efficient {
			votes++
		}
	}
	if 2*votes == k {
		return train[neighbors[0].index].Efficient
	}
	return 2*votes > k
}

// Evaluate predicts every test example with the given k and tallies
// the confusion matrix.
func Evaluate(train, test []Example, k int) Confusion {
	var c Confusion
	for _, ex := range test {
		switch got := Predict(train, ex.X, k); {
		case got && ex.Efficient:
			c.TP++
		case got:
			c.FP++
		case ex.Efficient:
			c.FN++
		default:
			c.TN++
		}
	}
	return c
}

// Sweep evaluates the classifier once per k in [kMin, kMax], each pass
// predicting the whole test split with that k.
func Sweep(train, test []Example, kMin, kMax int) (SweepResult, error) {
	if len(train) == 0 || len(test) == 0 {
		return SweepResult{}, fmt.Errorf("sweep needs non-empty train and test sets, have %d/%d", len(train), len(test))
	}
	if kMin < 1 || kMax < kMin {
		return SweepResult{}, fmt.Errorf("bad neighbor range [%d, %d]", kMin, kMax)
	}

	res := SweepResult{Points: make([]KAccuracy, 0, kMax-kMin+1)}
	for k := kMin; k <= kMax; k++ {
		c := Evaluate(train, test, k)
		acc := c.Accuracy()
		res.Points = append(res.Points, KAccuracy{K: k, Accuracy: acc})
		if res.BestK == 0 || acc > res.BestAccuracy {
			res.BestK = k
			res.BestAccuracy = acc
			res.Confusion = c
		}
	}
	return res, nil
}
