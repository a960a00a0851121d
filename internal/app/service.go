// Package service provides the core business service that implements
// the dependencies required by the HTTP API and the form UI.
package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/fareprice/internal/adapters/artifact"
	"github.com/okian/fareprice/internal/domain/encoding"
	"github.com/okian/fareprice/internal/domain/model"
	"github.com/okian/fareprice/internal/domain/prediction"
	"github.com/okian/fareprice/internal/domain/vocab"
	"github.com/okian/fareprice/pkg/logger"
	"github.com/okian/fareprice/pkg/metrics"
)

// Service implements the API dependencies for the fare predictor.
type Service struct {
	mu sync.RWMutex

	// Core components
	encoder   *encoding.Encoder
	predictor prediction.Predictor
	invoker   *prediction.Invoker
	formatter *prediction.Formatter
	info      *artifact.Info

	// State
	startedAt time.Time
	quotes    atomic.Int64
	rejected  atomic.Int64
	failures  atomic.Int64

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithEncoder replaces the default encoder built from vocab.Default.
func WithEncoder(e *encoding.Encoder) Option {
	return func(s *Service) {
		if e != nil {
			s.encoder = e
		}
	}
}

// WithPredictor sets the predictor used for every quote.
func WithPredictor(p prediction.Predictor) Option {
	return func(s *Service) {
		if p != nil {
			s.predictor = p
		}
	}
}

// WithModel sets a loaded artifact as the predictor and keeps its metadata.
func WithModel(m *artifact.Model) Option {
	return func(s *Service) {
		if m == nil {
			return
		}
		info := m.Info()
		s.predictor = m
		s.info = &info
	}
}

// WithCurrencySymbol sets the symbol used for formatted prices.
func WithCurrencySymbol(symbol string) Option {
	return func(s *Service) {
		s.formatter = prediction.NewFormatter(symbol)
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		encoder:   encoding.New(nil),
		formatter: prediction.NewFormatter(prediction.DefaultCurrencySymbol),
		startedAt: time.Now(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Named("service")
	}
	s.invoker = prediction.NewInvoker(s.predictor, prediction.WithWidth(s.encoder.Width()))

	if s.info != nil {
		metrics.SetModel(s.info.Kind, s.info.Name, s.info.Digest, s.info.Features, s.info.LoadedAt)
	}
	return s
}

// Quote encodes in, predicts its price and formats the result. Inputs
// outside the vocabularies fail with *vocab.InvalidCategoryError; predictor
// failures come back as *prediction.Error.
func (s *Service) Quote(ctx context.Context, in model.ItineraryInput) (model.Quote, error) {
	start := time.Now()

	vec, err := s.encoder.Encode(in)
	if err != nil {
		var ice *vocab.InvalidCategoryError
		if errors.As(err, &ice) {
			metrics.RecordInvalidCategory(ice.Field)
			s.rejected.Add(1)
			s.logger.Warn(ctx, "input rejected",
				logger.String("field", ice.Field),
				logger.String("value", ice.Value),
			)
		}
		return model.Quote{}, err
	}

	price, err := s.invoker.Invoke(ctx, vec)
	if err != nil {
		metrics.RecordPredictionError()
		s.failures.Add(1)
		s.logger.Error(ctx, "prediction failed",
			logger.String("airline", in.Airline),
			logger.Error(err),
		)
		return model.Quote{}, err
	}

	elapsed := encoding.Duration(in.Departure, in.Arrival)
	metrics.RecordPrediction(in.Airline, price.Value, int(elapsed), time.Since(start))
	s.quotes.Add(1)

	s.logger.Debug(ctx, "quote served",
		logger.String("airline", in.Airline),
		logger.String("source", in.Source),
		logger.String("destination", in.Destination),
		logger.Int("durationMinutes", int(elapsed)),
		logger.Float64("price", price.Value),
	)

	return model.Quote{
		Input:     in,
		Price:     price,
		Formatted: s.formatter.Format(price.Display),
		Duration:  elapsed,
		Features:  vec,
	}, nil
}

// Vocabularies returns the category sets the encoder accepts.
func (s *Service) Vocabularies() *vocab.Set { return s.encoder.Vocabularies() }

// Layout returns the feature column names in model order.
func (s *Service) Layout() []string { return s.encoder.Layout() }

// ModelInfo returns metadata about the loaded artifact, if any.
func (s *Service) ModelInfo() (artifact.Info, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.info == nil {
		return artifact.Info{}, false
	}
	return *s.info, true
}

// Ready reports whether a predictor is configured.
func (s *Service) Ready() bool { return s.predictor != nil }

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"ready":         s.predictor != nil,
		"uptimeSeconds": int64(time.Since(s.startedAt).Seconds()),
		"features":      s.encoder.Width(),
		"quotes":        s.quotes.Load(),
		"rejected":      s.rejected.Load(),
		"failures":      s.failures.Load(),
	}
	if s.info != nil {
		stats["modelKind"] = s.info.Kind
		stats["modelName"] = s.info.Name
		stats["modelSha256"] = s.info.Digest
	}
	return stats
}
