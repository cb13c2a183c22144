package engine

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestStableSoftmaxRowsFormSimplex(t *testing.T) {
	x := mat.NewDense(3, 4, []float64{
		0, 0, 0, 0,
		1, 2, 3, 4,
		-1000, 0, 1000, 500,
	})
	p := StableSoftmax(x, AxisCols)
	for i := 0; i < 3; i++ {
		sum := 0.0
		for j := 0; j < 4; j++ {
			v := p.At(i, j)
			if v < 0 {
				t.Fatalf("negative probability %g at (%d,%d)", v, i, j)
			}
			sum += v
		}
		if math.Abs(sum-1) > 1e-9 {
			t.Fatalf("row %d sums to %g, want 1", i, sum)
		}
	}
}

func TestStableSoftmaxUniformOnEqualInputs(t *testing.T) {
	x := mat.NewDense(1, 4, []float64{7, 7, 7, 7})
	p := StableSoftmax(x, AxisCols)
	for j := 0; j < 4; j++ {
		if math.Abs(p.At(0, j)-0.25) > 1e-12 {
			t.Fatalf("expected uniform 0.25, got %g at column %d", p.At(0, j), j)
		}
	}
}

func TestStableSoftmaxShiftInvariant(t *testing.T) {
	base := mat.NewDense(2, 3, []float64{
		0.5, -1.5, 2.0,
		3.0, 3.0, -4.0,
	})
	shifted := mat.NewDense(2, 3, nil)
	shifted.Apply(func(_, _ int, v float64) float64 { return v + 1000 }, base)

	p1 := StableSoftmax(base, AxisCols)
	p2 := StableSoftmax(shifted, AxisCols)
	if !mat.EqualApprox(p1, p2, 1e-9) {
		t.Fatalf("softmax changed under constant shift:\n%v\nvs\n%v",
			mat.Formatted(p1), mat.Formatted(p2))
	}
}

func TestStableSoftmaxRowAxis(t *testing.T) {
	x := mat.NewDense(3, 2, []float64{
		1, 5,
		2, 5,
		3, 5,
	})
	p := StableSoftmax(x, AxisRows)
	for j := 0; j < 2; j++ {
		sum := 0.0
		for i := 0; i < 3; i++ {
			sum += p.At(i, j)
		}
		if math.Abs(sum-1) > 1e-9 {
			t.Fatalf("column %d sums to %g, want 1", j, sum)
		}
	}
	// Equal entries down column 1 normalize to exactly one third each.
	if math.Abs(p.At(0, 1)-1.0/3.0) > 1e-12 {
		t.Fatalf("expected uniform column, got %g", p.At(0, 1))
	}
}
