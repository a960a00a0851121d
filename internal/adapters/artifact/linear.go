package artifact

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Linear holds an ordinary least squares (or ridge/lasso) fit.
type Linear struct {
	Intercept    float64   `json:"intercept"`
	Coefficients []float64 `json:"coefficients"`
}

type linearPredictor struct {
	weights   *mat.VecDense
	intercept float64
	width     int
}

func newLinear(l *Linear, width int) (*linearPredictor, error) {
	if l == nil {
		return nil, fmt.Errorf("%w: linear section missing", ErrMalformedModel)
	}
	if len(l.Coefficients) != width {
		return nil, fmt.Errorf("%w: %d coefficients for %d features", ErrMalformedModel, len(l.Coefficients), width)
	}
	if width == 0 {
		return nil, fmt.Errorf("%w: no features", ErrMalformedModel)
	}
	for i, c := range l.Coefficients {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return nil, fmt.Errorf("%w: coefficient %d is not finite", ErrMalformedModel, i)
		}
	}
	w := make([]float64, width)
	copy(w, l.Coefficients)
	return &linearPredictor{
		weights:   mat.NewVecDense(width, w),
		intercept: l.Intercept,
		width:     width,
	}, nil
}

// Predict computes X·w + b for the batch.
func (p *linearPredictor) Predict(_ context.Context, rows [][]float64) ([]float64, error) {
	if len(rows) == 0 {
		return []float64{}, nil
	}
	data := make([]float64, 0, len(rows)*p.width)
	for i, r := range rows {
		if len(r) != p.width {
			return nil, fmt.Errorf("%w: row %d has %d values, want %d", ErrRowWidth, i, len(r), p.width)
		}
		data = append(data, r...)
	}

	x := mat.NewDense(len(rows), p.width, data)
	var y mat.VecDense
	y.MulVec(x, p.weights)

	out := make([]float64, len(rows))
	for i := range out {
		out[i] = y.AtVec(i) + p.intercept
	}
	return out, nil
}
