// Package site serves the HTML prediction form.
package site

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/okian/fareprice/internal/adapters/http/api"
	service "github.com/okian/fareprice/internal/app"
	"github.com/okian/fareprice/internal/domain/encoding"
	"github.com/okian/fareprice/internal/domain/model"
	"github.com/okian/fareprice/internal/domain/vocab"
	"github.com/okian/fareprice/pkg/logger"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Error constants
var (
	ErrRender = errors.New("form render failed")
)

// Form defaults.
const (
	defaultDeparture = "09:45"
	defaultArrival   = "19:10"
	displayDate      = "02 January, 2006"
	defaultMaxBody   = 1 << 16
)

// Dependencies required by the form handler.
type Dependencies interface {
	Parse(r service.Request) (model.ItineraryInput, error)
	Quote(ctx context.Context, in model.ItineraryInput) (model.Quote, error)
	Vocabularies() *vocab.Set
}

// RootHandler renders the form and the prediction result.
type RootHandler struct {
	deps    Dependencies
	now     func() time.Time
	maxBody int64
	logger  logger.Logger
}

// Option applies a configuration option to the RootHandler.
type Option func(*RootHandler)

// WithClock overrides the clock used for the default journey date.
func WithClock(now func() time.Time) Option {
	return func(h *RootHandler) {
		if now != nil {
			h.now = now
		}
	}
}

// WithMaxBodyBytes caps the size of submitted forms.
func WithMaxBodyBytes(n int64) Option {
	return func(h *RootHandler) {
		if n > 0 {
			h.maxBody = n
		}
	}
}

// NewRootHandler creates a new root handler.
func NewRootHandler(deps Dependencies, opts ...Option) *RootHandler {
	h := &RootHandler{
		deps:    deps,
		now:     time.Now,
		maxBody: defaultMaxBody,
		logger:  logger.Named("site"),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register attaches the form and its assets to mux.
func Register(_ context.Context, mux *http.ServeMux, deps Dependencies, opts ...Option) {
	if mux == nil {
		panic("mux is nil")
	}
	h := NewRootHandler(deps, opts...)
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(FS())))
	mux.HandleFunc("/", api.MetricsMiddleware(h.HandleRoot, "ui"))
}

type option struct {
	Value    string
	Selected bool
}

type result struct {
	Price       string
	Airline     string
	Source      string
	Destination string
	Date        string
	Departure   string
	Arrival     string
	Duration    string
	Stops       string
}

type pageData struct {
	Date         string
	Departure    string
	Arrival      string
	DurationHint string
	Airlines     []option
	Sources      []option
	Destinations []option
	Stops        []option
	Result       *result
	Error        string
}

// HandleRoot handles GET and POST / requests.
func (h *RootHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		h.render(w, r, http.StatusOK, h.defaults(service.Request{}))
	case http.MethodPost:
		h.submit(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	}
}

func (h *RootHandler) submit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)
	if err := r.ParseForm(); err != nil {
		data := h.defaults(service.Request{})
		data.Error = "The form could not be read."
		h.render(w, r, http.StatusBadRequest, data)
		return
	}

	req := service.Request{
		JourneyDate:   r.PostForm.Get("journey_date"),
		DepartureTime: r.PostForm.Get("departure_time"),
		ArrivalTime:   r.PostForm.Get("arrival_time"),
		Airline:       r.PostForm.Get("airline"),
		Source:        r.PostForm.Get("source"),
		Destination:   r.PostForm.Get("destination"),
		TotalStops:    r.PostForm.Get("total_stops"),
	}
	data := h.defaults(req)

	in, err := h.deps.Parse(req)
	if err == nil {
		var q model.Quote
		q, err = h.deps.Quote(r.Context(), in)
		if err == nil {
			data.DurationHint = q.Duration.String()
			data.Result = h.result(req, q)
			h.render(w, r, http.StatusOK, data)
			return
		}
	}

	status, msg := describe(err)
	data.Error = msg
	h.render(w, r, status, data)
}

func (h *RootHandler) result(req service.Request, q model.Quote) *result {
	return &result{
		Price:       q.Formatted,
		Airline:     q.Input.Airline,
		Source:      q.Input.Source,
		Destination: q.Input.Destination,
		Date:        q.Input.JourneyDate.Format(displayDate),
		Departure:   q.Input.Departure.String(),
		Arrival:     q.Input.Arrival.String(),
		Duration:    q.Duration.String(),
		Stops:       cases.Title(language.English).String(req.TotalStops),
	}
}

func describe(err error) (int, string) {
	var ice *vocab.InvalidCategoryError
	switch {
	case errors.As(err, &ice):
		return http.StatusUnprocessableEntity, "Unknown " + ice.Field + ": " + ice.Value
	case errors.Is(err, service.ErrMalformedInput):
		return http.StatusBadRequest, "Please check the date and times: " + err.Error()
	default:
		return http.StatusInternalServerError, "The price could not be predicted. Please try again."
	}
}

// defaults fills the form with req. Empty date and times fall back to today,
// 09:45 and 19:10; unset selectors fall back to their first entry.
func (h *RootHandler) defaults(req service.Request) pageData {
	set := h.deps.Vocabularies()
	data := pageData{
		Date:         req.JourneyDate,
		Departure:    req.DepartureTime,
		Arrival:      req.ArrivalTime,
		Airlines:     options(set.Airlines.Sorted(), req.Airline),
		Sources:      options(set.Sources.Sorted(), req.Source),
		Destinations: options(set.Destinations.Sorted(), req.Destination),
		Stops:        options(set.Stops.Labels(), req.TotalStops),
	}
	if data.Date == "" {
		data.Date = h.now().Format(model.DateLayout)
	}
	if data.Departure == "" {
		data.Departure = defaultDeparture
	}
	if data.Arrival == "" {
		data.Arrival = defaultArrival
	}
	data.DurationHint = hint(data.Departure, data.Arrival)
	return data
}

func hint(dep, arr string) string {
	d, err := model.ParseTimeOfDay(dep)
	if err != nil {
		return "-"
	}
	a, err := model.ParseTimeOfDay(arr)
	if err != nil {
		return "-"
	}
	return encoding.Duration(d, a).String()
}

func options(values []string, selected string) []option {
	out := make([]option, len(values))
	for i, v := range values {
		out[i] = option{Value: v, Selected: v == selected}
	}
	return out
}

func (h *RootHandler) render(w http.ResponseWriter, r *http.Request, status int, data pageData) {
	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, data); err != nil {
		h.logger.Error(r.Context(), "render form", logger.Error(errors.Join(ErrRender, err)))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write(buf.Bytes())
}
