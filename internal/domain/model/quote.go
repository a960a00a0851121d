package model

// Quote is the outcome of one successful prediction.
type Quote struct {
	Input     ItineraryInput
	Price     PredictedPrice
	Formatted string
	Duration  Elapsed
	Features  FeatureVector
}
