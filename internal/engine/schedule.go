package engine

import "math"

// BetaExpSchedule computes initBeta * exp(k*step). With k > 0 the value grows
// with the step count, so feeding it to the softmax policy as an inverse
// temperature sharpens action selection toward the greedy choice as an
// episode progresses. Callers must treat the result as an inverse temperature
// (beta), not a temperature, or exploration moves in the opposite direction.
func BetaExpSchedule(initBeta float64, step int, k float64) float64 {
	return initBeta * math.Exp(k*float64(step))
}
