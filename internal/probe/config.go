// Package probe exercises a running fare service end to end: it generates
// random itineraries, submits them concurrently and verifies every answer.
package probe

import "time"

// Config holds configuration for a probe run.
type Config struct {
	BaseURL      string        // Base URL of the service
	Count        int           // Number of itineraries to submit
	Workers      int           // Number of concurrent workers
	Timeout      time.Duration // HTTP request timeout
	InvalidRatio float64       // Fraction of itineraries with an unknown airline
	Seed         uint64        // Generator seed; zero picks one from the clock
	OutputFile   string        // JSON report path; empty skips the report
}

// Itinerary is one generated request body for POST /api/predict.
type Itinerary struct {
	JourneyDate   string `json:"journey_date"`
	DepartureTime string `json:"departure_time"`
	ArrivalTime   string `json:"arrival_time"`
	Airline       string `json:"airline"`
	Source        string `json:"source"`
	Destination   string `json:"destination"`
	TotalStops    string `json:"total_stops"`
}

// Case pairs an itinerary with the outcome the probe expects.
type Case struct {
	Itinerary     Itinerary `json:"itinerary"`
	ExpectInvalid bool      `json:"expect_invalid"`
	// ExpectMinutes is the duration the service should report.
	ExpectMinutes int `json:"expect_minutes"`
}

// Vocabularies mirrors GET /api/vocabularies.
type Vocabularies struct {
	Airlines     []string `json:"airlines"`
	Sources      []string `json:"sources"`
	Destinations []string `json:"destinations"`
	TotalStops   []string `json:"total_stops"`
}

// PredictResponse mirrors a successful POST /api/predict answer.
type PredictResponse struct {
	RequestID       string  `json:"request_id"`
	Price           float64 `json:"price"`
	DisplayPrice    int64   `json:"display_price"`
	FormattedPrice  string  `json:"formatted_price"`
	DurationMinutes int     `json:"duration_minutes"`
	Duration        string  `json:"duration"`
}

// ErrorResponse mirrors an error answer.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field"`
	Value   string `json:"value"`
}

// Result records what the service answered for one case.
type Result struct {
	Case       Case             `json:"case"`
	StatusCode int              `json:"status_code"`
	Predict    *PredictResponse `json:"predict,omitempty"`
	Error      *ErrorResponse   `json:"error,omitempty"`
	Latency    time.Duration    `json:"latency_ns"`
	Problems   []string         `json:"problems,omitempty"`
}

// Passed reports whether verification found nothing wrong.
func (r Result) Passed() bool { return len(r.Problems) == 0 }

// Stats holds run statistics.
type Stats struct {
	Generated int           `json:"generated"`
	Submitted int           `json:"submitted"`
	Passed    int           `json:"passed"`
	Failed    int           `json:"failed"`
	Invalid   int           `json:"invalid"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration_ns"`
}

// Report is the JSON document written at the end of a run.
type Report struct {
	BaseURL string   `json:"base_url"`
	Seed    uint64   `json:"seed"`
	Stats   Stats    `json:"stats"`
	Results []Result `json:"results"`
}
