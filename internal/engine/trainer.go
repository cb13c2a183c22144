package engine

import (
	"errors"
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Config holds the scalar hyperparameters for a training run. InitBeta and
// DecayRate are pointers so that "not set" is distinguishable from zero; both
// are required when UseSoftmaxPolicy is true and ignored otherwise.
type Config struct {
	NumIters         int
	Alpha            float64
	Gamma            float64
	Epsilon          float64
	MaxSteps         int
	UseSoftmaxPolicy bool
	InitBeta         *float64
	DecayRate        *float64
	Seed             int64
}

type Trainer struct {
	cfg Config
	rng *rand.Rand
}

// NewTrainer clamps out-of-range hyperparameters to safe defaults rather than
// failing the run.
func NewTrainer(cfg Config) *Trainer {
	if cfg.NumIters < 0 {
		cfg.NumIters = 0
	}
	if cfg.Alpha <= 0 || cfg.Alpha > 1 {
		cfg.Alpha = 0.1
	}
	if cfg.Gamma < 0 || cfg.Gamma >= 1 {
		cfg.Gamma = 0.9
	}
	if cfg.Epsilon < 0 || cfg.Epsilon > 1 {
		cfg.Epsilon = 0.1
	}
	if cfg.MaxSteps <= 0 {
		cfg.MaxSteps = 100
	}
	rng := rand.New(rand.NewSource(normalizeSeed(cfg.Seed)))
	return &Trainer{cfg: cfg, rng: rng}
}

func normalizeSeed(seed int64) int64 {
	if seed == 0 {
		return 1
	}
	return seed
}

// Train runs cfg.NumIters episodes of tabular Q-learning against env and
// returns the learned Q table (NumStates x NumActions) together with the
// number of environment steps taken per episode, capped at cfg.MaxSteps.
// Both are freshly allocated on every call.
//
// Any error from env.Reset or env.Step aborts training and is returned
// unmodified; no partial table is returned.
func (t *Trainer) Train(env Environment) (*mat.Dense, []int, error) {
	if t.cfg.UseSoftmaxPolicy && (t.cfg.InitBeta == nil || t.cfg.DecayRate == nil) {
		return nil, nil, errors.New("softmax policy requires InitBeta and DecayRate")
	}
	numStates := env.NumStates()
	numActions := env.NumActions()
	if numStates <= 0 || numActions <= 0 {
		return nil, nil, fmt.Errorf("environment reports %d states and %d actions", numStates, numActions)
	}

	var pol policy
	if t.cfg.UseSoftmaxPolicy {
		pol = &softmaxPolicy{
			rng:        t.rng,
			initBeta:   *t.cfg.InitBeta,
			decayRate:  *t.cfg.DecayRate,
			numActions: numActions,
		}
	} else {
		pol = &epsilonGreedyPolicy{rng: t.rng, epsilon: t.cfg.Epsilon, numActions: numActions}
	}

	q := mat.NewDense(numStates, numActions, nil)
	stepCounts := make([]int, t.cfg.NumIters)

	for i := 0; i < t.cfg.NumIters; i++ {
		state, err := env.Reset()
		if err != nil {
			return nil, nil, err
		}
		steps := 0
		done := false
		for !done && steps < t.cfg.MaxSteps {
			// Incremented before action selection so the beta schedule and
			// the step cap both see the post-increment count.
			steps++
			action := pol.selectAction(q, state, steps)
			next, reward, d, err := env.Step(action)
			if err != nil {
				return nil, nil, err
			}
			done = d
			// A self-transition is skipped entirely: no update, no state
			// advance. An environment that keeps returning the same state
			// runs the episode out to the step cap.
			if next != state {
				target := reward + t.cfg.Gamma*floats.Max(q.RawRowView(next))
				qsa := q.At(state, action)
				q.Set(state, action, qsa+t.cfg.Alpha*(target-qsa))
				state = next
			}
		}
		stepCounts[i] = steps
	}
	return q, stepCounts, nil
}
