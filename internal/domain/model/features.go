package model

import "math"

// FeatureVector is the ordered numeric row handed to a predictor. Its layout
// must match the column order the predictor was fitted with.
type FeatureVector []float64

// Clone returns an independent copy.
func (f FeatureVector) Clone() FeatureVector {
	out := make(FeatureVector, len(f))
	copy(out, f)
	return out
}

// PredictedPrice is a model output. Value is authoritative; Display is the
// whole-currency-unit figure shown to users.
type PredictedPrice struct {
	Value   float64
	Display int64
}

// NewPredictedPrice rounds v half-to-even, matching how the model's training
// environment rounded prices for display. Negative values pass through.
func NewPredictedPrice(v float64) PredictedPrice {
	return PredictedPrice{Value: v, Display: int64(math.RoundToEven(v))}
}
