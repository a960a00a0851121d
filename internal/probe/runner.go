package probe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/okian/fareprice/pkg/logger"
)

// Validate checks config before any request is sent.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.BaseURL) == "":
		return fmt.Errorf("%w: base url must not be empty", ErrConfig)
	case c.Count <= 0:
		return fmt.Errorf("%w: count must be positive", ErrConfig)
	case c.Workers <= 0:
		return fmt.Errorf("%w: workers must be positive", ErrConfig)
	case c.Timeout <= 0:
		return fmt.Errorf("%w: timeout must be positive", ErrConfig)
	case c.InvalidRatio < 0 || c.InvalidRatio > 1:
		return fmt.Errorf("%w: invalid ratio must be within [0,1]", ErrConfig)
	}
	return nil
}

// Run executes a complete probe and returns the report. A non-nil report is
// returned alongside ErrVerification so callers can inspect failures.
func Run(ctx context.Context, config *Config) (*Report, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	if config.Seed == 0 {
		config.Seed = uint64(time.Now().UnixNano())
	}

	stats := &Stats{StartTime: time.Now()}
	log := logger.Get()
	log.Info(ctx, "starting fare probe",
		logger.String("baseURL", config.BaseURL),
		logger.Int("count", config.Count),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.Float64("invalidRatio", config.InvalidRatio),
		logger.Any("seed", config.Seed),
	)

	// Step 1: Check service health
	client := newHTTPClient(config.Timeout)
	if err := checkServiceHealth(ctx, client, config.BaseURL); err != nil {
		return nil, err
	}

	// Step 2: Learn the vocabularies and generate cases
	vocabs, err := fetchVocabularies(ctx, client, config.BaseURL)
	if err != nil {
		return nil, err
	}
	cases, err := generateCases(ctx, config, vocabs, stats)
	if err != nil {
		return nil, fmt.Errorf("itinerary generation failed: %w", err)
	}

	// Step 3: Submit concurrently
	results := submitCases(ctx, config, cases, stats)

	// Step 4: Verify
	verifyErr := verifyResults(ctx, results, stats)

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	report := &Report{BaseURL: config.BaseURL, Seed: config.Seed, Stats: *stats, Results: results}

	// Step 5: Save the report
	if config.OutputFile != "" {
		if err := saveReport(config.OutputFile, report); err != nil {
			log.Warn(ctx, "failed to save report", logger.Error(err))
		} else {
			log.Info(ctx, "report saved", logger.String("filename", config.OutputFile))
		}
	}

	displayFinalStats(ctx, stats)

	if verifyErr != nil {
		return report, verifyErr
	}
	log.Info(ctx, "probe completed successfully")
	return report, nil
}

// checkServiceHealth verifies the service is up with a model loaded.
func checkServiceHealth(ctx context.Context, client *HTTPClient, baseURL string) error {
	resp, err := client.Get(ctx, baseURL+"/healthz")
	if err != nil {
		return errors.Join(ErrUnhealthy, err)
	}
	_, _ = readResponseBody(resp)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrUnhealthy, resp.StatusCode)
	}
	return nil
}

// saveReport writes report as indented JSON.
func saveReport(filename string, report *Report) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	return os.WriteFile(filename, data, filePermission)
}

// displayFinalStats logs the final run statistics.
func displayFinalStats(ctx context.Context, stats *Stats) {
	var passRate, perSecond float64
	if stats.Submitted > 0 {
		passRate = float64(stats.Passed) / float64(stats.Submitted) * 100
	}
	if stats.Duration > 0 {
		perSecond = float64(stats.Submitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(ctx, "final statistics",
		logger.Int("generated", stats.Generated),
		logger.Int("submitted", stats.Submitted),
		logger.Int("passed", stats.Passed),
		logger.Int("failed", stats.Failed),
		logger.Int("invalid", stats.Invalid),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("passRate", passRate),
		logger.Float64("requestsPerSecond", perSecond),
	)
}
