// Package vocab holds the fixed, ordered category vocabularies the price model
// was trained against.
//
// Positions are load-bearing: the index of a label in its vocabulary is the
// position of its one-hot column in the feature vector. Display order is a
// separate concern served by Sorted.
package vocab

import (
	"sort"
	"strconv"
)

// Field names used in vocabularies and in InvalidCategoryError.
const (
	FieldAirline     = "airline"
	FieldSource      = "source"
	FieldDestination = "destination"
	FieldTotalStops  = "total_stops"
)

// Vocabulary is a named, ordered, closed list of labels.
type Vocabulary struct {
	name   string
	labels []string
	index  map[string]int
}

// New builds a Vocabulary. Duplicate labels keep their first position.
func New(name string, labels ...string) *Vocabulary {
	v := &Vocabulary{
		name:   name,
		labels: make([]string, len(labels)),
		index:  make(map[string]int, len(labels)),
	}
	copy(v.labels, labels)
	for i, l := range v.labels {
		if _, dup := v.index[l]; !dup {
			v.index[l] = i
		}
	}
	return v
}

// Name returns the field name this vocabulary encodes.
func (v *Vocabulary) Name() string { return v.name }

// Len returns the number of labels, which is also the one-hot block width.
func (v *Vocabulary) Len() int { return len(v.labels) }

// Index returns the position of label, or an *InvalidCategoryError.
func (v *Vocabulary) Index(label string) (int, error) {
	i, ok := v.index[label]
	if !ok {
		return -1, &InvalidCategoryError{Field: v.name, Value: label}
	}
	return i, nil
}

// Contains reports whether label is part of the vocabulary.
func (v *Vocabulary) Contains(label string) bool {
	_, ok := v.index[label]
	return ok
}

// Labels returns a copy of the labels in encoding order.
func (v *Vocabulary) Labels() []string {
	out := make([]string, len(v.labels))
	copy(out, v.labels)
	return out
}

// Sorted returns a copy of the labels in display order.
func (v *Vocabulary) Sorted() []string {
	out := v.Labels()
	sort.Strings(out)
	return out
}

// Stops maps stop-count labels to their numeric encoding.
type Stops struct {
	labels []string
	values map[string]int
}

// NewStops builds a Stops mapping from labels ordered by their value, i.e.
// labels[n] encodes to n.
func NewStops(labels ...string) *Stops {
	s := &Stops{
		labels: make([]string, len(labels)),
		values: make(map[string]int, len(labels)),
	}
	copy(s.labels, labels)
	for i, l := range s.labels {
		s.values[l] = i
	}
	return s
}

// Resolve maps a label such as "2 stops" to its integer.
func (s *Stops) Resolve(label string) (int, error) {
	n, ok := s.values[label]
	if !ok {
		return -1, &InvalidCategoryError{Field: FieldTotalStops, Value: label}
	}
	return n, nil
}

// Label is the inverse of Resolve.
func (s *Stops) Label(n int) (string, error) {
	if n < 0 || n >= len(s.labels) {
		return "", &InvalidCategoryError{Field: FieldTotalStops, Value: strconv.Itoa(n)}
	}
	return s.labels[n], nil
}

// Max returns the largest valid stop count.
func (s *Stops) Max() int { return len(s.labels) - 1 }

// Labels returns the stop labels in value order.
func (s *Stops) Labels() []string {
	out := make([]string, len(s.labels))
	copy(out, s.labels)
	return out
}

// Set bundles every vocabulary the encoder needs. A Set is read-only after
// construction and safe to share between goroutines.
type Set struct {
	Airlines     *Vocabulary
	Sources      *Vocabulary
	Destinations *Vocabulary
	Stops        *Stops
}

// Default returns the vocabularies the bundled price model was fitted with.
// Changing any list or its order invalidates every model artifact.
func Default() *Set {
	return &Set{
		Airlines: New(FieldAirline,
			"Air Asia",
			"Air India",
			"GoAir",
			"IndiGo",
			"Jet Airways",
			"Jet Airways Business",
			"Multiple carriers",
			"Multiple carriers Premium economy",
			"SpiceJet",
			"Trujet",
			"Vistara",
			"Vistara Premium economy",
		),
		Sources: New(FieldSource,
			"Banglore",
			"Chennai",
			"Delhi",
			"Kolkata",
			"Mumbai",
		),
		Destinations: New(FieldDestination,
			"Banglore",
			"Cochin",
			"Delhi",
			"Hyderabad",
			"Kolkata",
			"New Delhi",
		),
		Stops: NewStops("non-stop", "1 stop", "2 stops", "3 stops", "4 stops"),
	}
}

// Categorical returns the one-hot vocabularies in feature-vector order.
func (s *Set) Categorical() []*Vocabulary {
	return []*Vocabulary{s.Airlines, s.Sources, s.Destinations}
}
