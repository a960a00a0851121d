// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	service "github.com/okian/fareprice/internal/app"
	"github.com/okian/fareprice/internal/domain/model"
	"github.com/okian/fareprice/internal/domain/prediction"
	"github.com/okian/fareprice/internal/domain/vocab"
)

// predictRequest mirrors the OpenAPI schema for POST /api/predict.
type predictRequest struct {
	JourneyDate   string `json:"journey_date" validate:"required,datetime=2006-01-02"`
	DepartureTime string `json:"departure_time" validate:"required"`
	ArrivalTime   string `json:"arrival_time" validate:"required"`
	Airline       string `json:"airline" validate:"required"`
	Source        string `json:"source" validate:"required"`
	Destination   string `json:"destination" validate:"required"`
	TotalStops    string `json:"total_stops" validate:"required"`
}

func (p predictRequest) toRequest() service.Request {
	return service.Request{
		JourneyDate:   p.JourneyDate,
		DepartureTime: p.DepartureTime,
		ArrivalTime:   p.ArrivalTime,
		Airline:       p.Airline,
		Source:        p.Source,
		Destination:   p.Destination,
		TotalStops:    p.TotalStops,
	}
}

type featureValue struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

type predictResponse struct {
	RequestID       string         `json:"request_id"`
	Price           float64        `json:"price"`
	DisplayPrice    int64          `json:"display_price"`
	FormattedPrice  string         `json:"formatted_price"`
	DurationMinutes int            `json:"duration_minutes"`
	Duration        string         `json:"duration"`
	Features        []featureValue `json:"features,omitempty"`
}

// PredictHandler handles price prediction requests.
type PredictHandler struct {
	deps     Dependencies
	validate *validator.Validate
}

// NewPredictHandler creates a new predict handler.
func NewPredictHandler(deps Dependencies) *PredictHandler {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report JSON names in validation messages.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &PredictHandler{deps: deps, validate: v}
}

// HandlePredict handles POST /api/predict requests.
func (h *PredictHandler) HandlePredict(w http.ResponseWriter, r *http.Request) {
	const op = "api.predict"
	if r.Method != http.MethodPost {
		methodNotAllowed(w, op, http.MethodPost)
		return
	}

	var req predictRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "too_large", WrapKind(op, ErrBodyTooLarge, err))
			return
		}
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, describeValidation(err)))
		return
	}

	in, err := h.deps.Parse(req.toRequest())
	if err != nil {
		h.writeQuoteError(w, op, err)
		return
	}
	q, err := h.deps.Quote(r.Context(), in)
	if err != nil {
		h.writeQuoteError(w, op, err)
		return
	}

	resp := predictResponse{
		RequestID:       RequestIDFrom(r.Context()),
		Price:           q.Price.Value,
		DisplayPrice:    q.Price.Display,
		FormattedPrice:  q.Formatted,
		DurationMinutes: int(q.Duration),
		Duration:        q.Duration.String(),
	}
	if explain(r) {
		resp.Features = h.features(q.Features)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *PredictHandler) writeQuoteError(w http.ResponseWriter, op string, err error) {
	var ice *vocab.InvalidCategoryError
	switch {
	case errors.As(err, &ice):
		writeErrorResponse(w, http.StatusUnprocessableEntity, errorResponse{
			Code:    "invalid_category",
			Message: ice.Error(),
			Field:   ice.Field,
			Value:   ice.Value,
		})
	case errors.Is(err, service.ErrMalformedInput):
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
	case errors.Is(err, prediction.ErrNoPredictor):
		writeError(w, http.StatusServiceUnavailable, "no_model", WrapKind(op, ErrNoModel, err))
	case errors.Is(err, prediction.ErrPrediction):
		writeError(w, http.StatusInternalServerError, "prediction_error", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}

func (h *PredictHandler) features(vec model.FeatureVector) []featureValue {
	layout := h.deps.Layout()
	out := make([]featureValue, 0, len(vec))
	for i, v := range vec {
		name := fmt.Sprintf("f%d", i)
		if i < len(layout) {
			name = layout[i]
		}
		out = append(out, featureValue{Name: name, Value: v})
	}
	return out
}

func explain(r *http.Request) bool {
	switch strings.ToLower(r.URL.Query().Get("explain")) {
	case "1", "true", "yes":
		return true
	}
	return false
}

// describeValidation flattens validator errors into one readable message.
func describeValidation(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, "missing "+fe.Field())
		case "datetime":
			msgs = append(msgs, fmt.Sprintf("invalid %s; must be %s", fe.Field(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("invalid %s", fe.Field()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}
