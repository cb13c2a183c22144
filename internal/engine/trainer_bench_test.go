package engine

import "testing"

func benchmarkTrain(b *testing.B, cfg Config) {
	for i := 0; i < b.N; i++ {
		trainer := NewTrainer(cfg)
		env := NewGridworld(6, 6, 1.0, 0.01)
		if _, _, err := trainer.Train(env); err != nil {
			b.Fatalf("train: %v", err)
		}
	}
}

func BenchmarkTrainEpsilonGreedy(b *testing.B) {
	benchmarkTrain(b, Config{
		NumIters: 50,
		Alpha:    0.3,
		Gamma:    0.9,
		Epsilon:  0.2,
		MaxSteps: 90,
		Seed:     99,
	})
}

func BenchmarkTrainSoftmax(b *testing.B) {
	beta := 0.5
	k := 0.05
	benchmarkTrain(b, Config{
		NumIters:         50,
		Alpha:            0.3,
		Gamma:            0.9,
		MaxSteps:         90,
		UseSoftmaxPolicy: true,
		InitBeta:         &beta,
		DecayRate:        &k,
		Seed:             99,
	})
}
