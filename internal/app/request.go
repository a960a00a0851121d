package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/okian/fareprice/internal/domain/model"
	"github.com/okian/fareprice/internal/domain/vocab"
	"github.com/okian/fareprice/pkg/metrics"
)

// ErrMalformedInput marks raw input that cannot be parsed into an itinerary.
var ErrMalformedInput = errors.New("malformed input")

// Request carries an itinerary as submitted by a client, before parsing.
type Request struct {
	JourneyDate   string
	DepartureTime string
	ArrivalTime   string
	Airline       string
	Source        string
	Destination   string
	TotalStops    string
}

// Parse converts r into an ItineraryInput. Unparseable dates or times fail
// with ErrMalformedInput; an unknown stops label fails with
// *vocab.InvalidCategoryError. Category labels are only checked by Quote.
func (s *Service) Parse(r Request) (model.ItineraryInput, error) {
	date, err := model.ParseJourneyDate(strings.TrimSpace(r.JourneyDate))
	if err != nil {
		return model.ItineraryInput{}, fmt.Errorf("%w: journey_date: %w", ErrMalformedInput, err)
	}
	dep, err := model.ParseTimeOfDay(strings.TrimSpace(r.DepartureTime))
	if err != nil {
		return model.ItineraryInput{}, fmt.Errorf("%w: departure_time: %w", ErrMalformedInput, err)
	}
	arr, err := model.ParseTimeOfDay(strings.TrimSpace(r.ArrivalTime))
	if err != nil {
		return model.ItineraryInput{}, fmt.Errorf("%w: arrival_time: %w", ErrMalformedInput, err)
	}
	stops, err := s.Vocabularies().Stops.Resolve(strings.TrimSpace(r.TotalStops))
	if err != nil {
		var ice *vocab.InvalidCategoryError
		if errors.As(err, &ice) {
			metrics.RecordInvalidCategory(ice.Field)
			s.rejected.Add(1)
		}
		return model.ItineraryInput{}, err
	}

	return model.ItineraryInput{
		JourneyDate: date,
		Departure:   dep,
		Arrival:     arr,
		Airline:     r.Airline,
		Source:      r.Source,
		Destination: r.Destination,
		TotalStops:  stops,
	}, nil
}
