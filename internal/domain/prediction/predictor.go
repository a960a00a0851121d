// Package prediction bridges feature vectors to a loaded price model and
// normalises its output for display.
package prediction

import "context"

// Predictor maps a batch of feature rows to one output per row.
//
// Implementations are loaded once at start-up and shared read-only by every
// request, so Predict must be safe for concurrent use.
type Predictor interface {
	Predict(ctx context.Context, rows [][]float64) ([]float64, error)
}

// PredictorFunc adapts a function to the Predictor interface.
type PredictorFunc func(ctx context.Context, rows [][]float64) ([]float64, error)

// Predict calls f.
func (f PredictorFunc) Predict(ctx context.Context, rows [][]float64) ([]float64, error) {
	return f(ctx, rows)
}
