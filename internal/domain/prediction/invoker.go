package prediction

import (
	"context"
	"fmt"
	"math"

	"github.com/okian/fareprice/internal/domain/model"
)

// Invoker sends one feature vector at a time to a Predictor.
type Invoker struct {
	predictor Predictor
	width     int
}

// Option applies a configuration option to the Invoker.
type Option func(*Invoker)

// WithWidth makes Invoke reject vectors of any other length before the
// predictor is called. Zero disables the check.
func WithWidth(width int) Option {
	return func(i *Invoker) {
		if width >= 0 {
			i.width = width
		}
	}
}

// NewInvoker returns an Invoker bound to p.
func NewInvoker(p Predictor, opts ...Option) *Invoker {
	i := &Invoker{predictor: p}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Invoke predicts the price for vec. Any failure of the call itself is
// returned as *Error; the rounded display value never replaces Value.
func (i *Invoker) Invoke(ctx context.Context, vec model.FeatureVector) (model.PredictedPrice, error) {
	const op = "prediction.invoke"
	if i == nil || i.predictor == nil {
		return model.PredictedPrice{}, wrap(op, ErrNoPredictor)
	}
	if i.width > 0 && len(vec) != i.width {
		return model.PredictedPrice{}, wrap(op, fmt.Errorf("%w: got %d, want %d", ErrWidthMismatch, len(vec), i.width))
	}

	out, err := i.predictor.Predict(ctx, [][]float64{vec})
	if err != nil {
		return model.PredictedPrice{}, wrap(op, err)
	}
	if len(out) == 0 {
		return model.PredictedPrice{}, wrap(op, ErrEmptyOutput)
	}
	if math.IsNaN(out[0]) || math.IsInf(out[0], 0) {
		return model.PredictedPrice{}, wrap(op, ErrNonFiniteValue)
	}
	return model.NewPredictedPrice(out[0]), nil
}
