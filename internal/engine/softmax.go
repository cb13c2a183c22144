package engine

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Axis arguments for StableSoftmax.
const (
	AxisRows = 0 // normalize down each column
	AxisCols = 1 // normalize across each row
)

// StableSoftmax returns a matrix of the same shape as x where the values
// along the given axis are non-negative and sum to 1, proportional to the
// exponentials of the inputs. The per-axis maximum is subtracted before
// exponentiating so large-magnitude inputs do not overflow; the result is
// mathematically identical to the naive softmax. Equal inputs along an axis
// produce a uniform distribution.
func StableSoftmax(x mat.Matrix, axis int) *mat.Dense {
	out := mat.DenseCopyOf(x)
	r, c := out.Dims()
	if axis == AxisCols {
		for i := 0; i < r; i++ {
			softmaxInPlace(out.RawRowView(i))
		}
		return out
	}
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, out)
		softmaxInPlace(col)
		out.SetCol(j, col)
	}
	return out
}

func softmaxInPlace(v []float64) {
	max := floats.Max(v)
	for i, x := range v {
		v[i] = math.Exp(x - max)
	}
	// The max subtraction pins the largest exponential at 1, so the sum is
	// at least 1 and the division cannot blow up.
	floats.Scale(1/floats.Sum(v), v)
}
