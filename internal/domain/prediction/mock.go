package prediction

import (
	"context"
	"sync/atomic"
)

// FixedPredictor returns Value for every row and counts calls.
type FixedPredictor struct {
	Value float64
	Err   error

	calls atomic.Int64
}

// Predict returns Value once per row, or Err when set.
func (f *FixedPredictor) Predict(_ context.Context, rows [][]float64) ([]float64, error) {
	f.calls.Add(1)
	if f.Err != nil {
		return nil, f.Err
	}
	out := make([]float64, len(rows))
	for i := range out {
		out[i] = f.Value
	}
	return out, nil
}

// Calls returns how many times Predict was invoked.
func (f *FixedPredictor) Calls() int64 { return f.calls.Load() }
