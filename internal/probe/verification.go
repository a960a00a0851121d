package probe

import (
	"context"
	"fmt"
	"math"
	"net/http"

	"github.com/okian/fareprice/pkg/logger"
)

// Verify checks one result against its case and returns it with Problems
// filled in.
func Verify(r Result) Result {
	if len(r.Problems) > 0 {
		return r
	}
	if r.Case.ExpectInvalid {
		return verifyRejected(r)
	}
	return verifyPriced(r)
}

func verifyRejected(r Result) Result {
	if r.StatusCode != http.StatusUnprocessableEntity {
		r.Problems = append(r.Problems, fmt.Sprintf("expected status 422, got %d", r.StatusCode))
		return r
	}
	if r.Error == nil {
		r.Problems = append(r.Problems, "missing error body")
		return r
	}
	if r.Error.Code != "invalid_category" {
		r.Problems = append(r.Problems, fmt.Sprintf("expected code invalid_category, got %q", r.Error.Code))
	}
	if r.Error.Field != "airline" {
		r.Problems = append(r.Problems, fmt.Sprintf("expected field airline, got %q", r.Error.Field))
	}
	return r
}

func verifyPriced(r Result) Result {
	if r.StatusCode != http.StatusOK || r.Predict == nil {
		msg := fmt.Sprintf("expected status 200, got %d", r.StatusCode)
		if r.Error != nil {
			msg += ": " + r.Error.Message
		}
		r.Problems = append(r.Problems, msg)
		return r
	}
	p := r.Predict
	if want := int64(math.RoundToEven(p.Price)); p.DisplayPrice != want {
		r.Problems = append(r.Problems, fmt.Sprintf("display_price %d is not price %v rounded (%d)", p.DisplayPrice, p.Price, want))
	}
	if p.DurationMinutes < 0 || p.DurationMinutes >= minutesPerDay {
		r.Problems = append(r.Problems, fmt.Sprintf("duration_minutes %d outside [0,%d]", p.DurationMinutes, minutesPerDay-1))
	}
	if p.DurationMinutes != r.Case.ExpectMinutes {
		r.Problems = append(r.Problems, fmt.Sprintf("duration_minutes %d, want %d", p.DurationMinutes, r.Case.ExpectMinutes))
	}
	if p.RequestID == "" {
		r.Problems = append(r.Problems, "missing request_id")
	}
	return r
}

// verifyResults verifies every result in place and updates stats.
func verifyResults(ctx context.Context, results []Result, stats *Stats) error {
	logger.Get().Info(ctx, "verifying results", logger.Int("count", len(results)))

	for i := range results {
		results[i] = Verify(results[i])
		if results[i].Passed() {
			stats.Passed++
			continue
		}
		stats.Failed++
		logger.Get().Warn(ctx, "verification failed",
			logger.Int("index", i),
			logger.String("airline", results[i].Case.Itinerary.Airline),
			logger.Any("problems", results[i].Problems),
		)
	}

	if stats.Failed > 0 {
		return fmt.Errorf("%w: %d of %d results", ErrVerification, stats.Failed, len(results))
	}
	return nil
}
