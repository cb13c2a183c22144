package engine

import (
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// policy maps the current Q table and state to an action. step is the
// episode's post-increment step counter; only the softmax policy reads it.
type policy interface {
	selectAction(q *mat.Dense, state, step int) int
}

type epsilonGreedyPolicy struct {
	rng        *rand.Rand
	epsilon    float64
	numActions int
}

func (p *epsilonGreedyPolicy) selectAction(q *mat.Dense, state, _ int) int {
	u := p.rng.Float64()
	row := q.RawRowView(state)
	// An all-zero row means the state has never been updated, so the greedy
	// pick would just be index 0; explore instead.
	if allZero(row) || u <= p.epsilon {
		return p.rng.Intn(p.numActions)
	}
	return floats.MaxIdx(row)
}

type softmaxPolicy struct {
	rng        *rand.Rand
	initBeta   float64
	decayRate  float64
	numActions int
}

func (p *softmaxPolicy) selectAction(q *mat.Dense, state, step int) int {
	beta := BetaExpSchedule(p.initBeta, step, p.decayRate)
	var scaled mat.Dense
	scaled.Scale(beta, q)
	probs := StableSoftmax(&scaled, AxisCols)
	if allZero(q.RawRowView(state)) {
		return p.rng.Intn(p.numActions)
	}
	return sampleCategorical(p.rng, probs.RawRowView(state))
}

func allZero(v []float64) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}

// sampleCategorical draws an index with probability proportional to probs,
// which is assumed to already sum to 1.
func sampleCategorical(rng *rand.Rand, probs []float64) int {
	u := rng.Float64()
	acc := 0.0
	for i, p := range probs {
		acc += p
		if u < acc {
			return i
		}
	}
	return len(probs) - 1
}
