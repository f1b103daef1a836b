// Package classify labels player-seasons as cost-efficient or not and
// evaluates a nearest-neighbor classifier over the lag features.
package classify

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/lcamara/capmetrics/internal/model"
)

// Example is one labeled observation: the three lag features plus the
// cost-efficiency label derived from the reference ratio.
type Example struct {
	Player    string
	Season    int
	X         [3]float64
	Efficient bool
}

// Label converts feature rows into classifier examples. A row is
// cost-efficient when its impact-to-salary ratio reaches the reference
// ratio.
func Label(rows []model.FeatureRow, refRatio float64) []Example {
	out := make([]Example, 0, len(rows))
	for _, r := range rows {
		out = append(out, Example{
			Player:    r.Player,
			Season:    r.Season,
			X:         r.Predictors(),
			Efficient: r.ValueRatio >= refRatio,
		})
	}
	return out
}

// Balance counts the cost-efficient examples in a set.
func Balance(examples []Example) (efficient, total int) {
	for _, ex := range examples {
		if ex.Efficient {
			efficient++
		}
	}
	return efficient, len(examples)
}

// Split partitions examples into train and test sets by a seeded
// shuffle without replacement. trainFrac of the rows (rounded) land in
// train, at least one row in each side. The same seed and input order
// always produce the same partition.
func Split(examples []Example, trainFrac float64, seed int64) (train, test []Example, err error) {
	if trainFrac <= 0 || trainFrac >= 1 {
		return nil, nil, fmt.Errorf("train fraction %v outside (0, 1)", trainFrac)
	}
	n := len(examples)
	if n < 2 {
		return nil, nil, fmt.Errorf("need at least 2 examples to split, have %d", n)
	}

	rng := rand.New(rand.NewSource(seed))
	perm := rng.Perm(n)

	nTrain := int(math.Round(trainFrac * float64(n)))
	if nTrain < 1 {
		nTrain = 1
	}
	if nTrain >= n {
		nTrain = n - 1
	}

	train = make([]Example, 0, nTrain)
	test = make([]Example, 0, n-nTrain)
	for i, idx := range perm {
		if i < nTrain {
			train = append(train, examples[idx])
		} else {
			test = append(test, examples[idx])
		}
	}
	return train, test, nil
}
