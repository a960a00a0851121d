// Package encoding turns an itinerary into the fixed-order feature vector the
// price model expects.
//
// Vector layout:
//
//	[0]     total stops
//	[1]     journey day of month
//	[2]     journey month
//	[3]     departure hour
//	[4]     departure minute
//	[5]     arrival hour
//	[6]     arrival minute
//	[7]     duration in minutes
//	[8:20]  airline one-hot
//	[20:25] source one-hot
//	[25:31] destination one-hot
//
// One-hot widths follow the vocabulary sizes, so the offsets above hold for
// vocab.Default().
package encoding

import (
	"strconv"

	"github.com/okian/fareprice/internal/domain/model"
	"github.com/okian/fareprice/internal/domain/vocab"
)

// Scalar column names, in vector order.
var scalarColumns = []string{
	"total_stops",
	"journey_day",
	"journey_month",
	"dep_hour",
	"dep_min",
	"arrival_hour",
	"arrival_min",
	"duration_mins",
}

// ScalarWidth is the number of leading non-categorical columns.
var ScalarWidth = len(scalarColumns)

// Encoder maps ItineraryInput to FeatureVector. It holds no mutable state.
type Encoder struct {
	vocabs *vocab.Set
	width  int
}

// New returns an Encoder over the given vocabularies; nil selects vocab.Default().
func New(vocabs *vocab.Set) *Encoder {
	if vocabs == nil {
		vocabs = vocab.Default()
	}
	width := ScalarWidth
	for _, v := range vocabs.Categorical() {
		width += v.Len()
	}
	return &Encoder{vocabs: vocabs, width: width}
}

// Vocabularies exposes the read-only vocabulary set.
func (e *Encoder) Vocabularies() *vocab.Set { return e.vocabs }

// Width returns the feature vector length (31 with the default vocabularies).
func (e *Encoder) Width() int { return e.width }

// Layout returns the column names in vector order. Categorical columns are
// named "<field>_<label>".
func (e *Encoder) Layout() []string {
	cols := make([]string, 0, e.width)
	cols = append(cols, scalarColumns...)
	for _, v := range e.vocabs.Categorical() {
		for _, l := range v.Labels() {
			cols = append(cols, v.Name()+"_"+l)
		}
	}
	return cols
}

// Encode builds the feature vector for in. It fails with a
// *vocab.InvalidCategoryError when a categorical value or the stop count is
// outside its vocabulary; no partially encoded vector is returned.
func (e *Encoder) Encode(in model.ItineraryInput) (model.FeatureVector, error) {
	if in.TotalStops < 0 || in.TotalStops > e.vocabs.Stops.Max() {
		return nil, &vocab.InvalidCategoryError{Field: vocab.FieldTotalStops, Value: strconv.Itoa(in.TotalStops)}
	}

	vec := make(model.FeatureVector, e.width)
	vec[0] = float64(in.TotalStops)
	vec[1] = float64(in.JourneyDate.Day())
	vec[2] = float64(in.JourneyDate.Month())
	vec[3] = float64(in.Departure.Hour)
	vec[4] = float64(in.Departure.Minute)
	vec[5] = float64(in.Arrival.Hour)
	vec[6] = float64(in.Arrival.Minute)
	vec[7] = float64(Duration(in.Departure, in.Arrival))

	offset := ScalarWidth
	values := []string{in.Airline, in.Source, in.Destination}
	for i, v := range e.vocabs.Categorical() {
		idx, err := v.Index(values[i])
		if err != nil {
			return nil, err
		}
		vec[offset+idx] = 1
		offset += v.Len()
	}
	return vec, nil
}
