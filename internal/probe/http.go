package probe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/okian/fareprice/pkg/logger"
)

// HTTPClient wraps http.Client with timeout.
type HTTPClient struct {
	client *http.Client
}

// newHTTPClient creates a new HTTP client with timeout.
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{client: &http.Client{Timeout: timeout}}
}

// Get performs a GET request.
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with a JSON body and a fresh X-Request-ID.
func (c *HTTPClient) Post(ctx context.Context, url string, body any) (*http.Response, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	return c.client.Do(req)
}

// readResponseBody reads and closes the response body.
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer func() { _ = resp.Body.Close() }()
	return io.ReadAll(resp.Body)
}

// fetchVocabularies asks the service which labels it accepts.
func fetchVocabularies(ctx context.Context, client *HTTPClient, baseURL string) (Vocabularies, error) {
	var v Vocabularies
	resp, err := client.Get(ctx, baseURL+"/api/vocabularies")
	if err != nil {
		return v, fmt.Errorf("failed to fetch vocabularies: %w", err)
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return v, fmt.Errorf("failed to read vocabularies: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return v, fmt.Errorf("vocabularies returned status %d", resp.StatusCode)
	}
	if err := json.Unmarshal(body, &v); err != nil {
		return v, fmt.Errorf("failed to decode vocabularies: %w", err)
	}
	return v, nil
}

// submitCases submits cases concurrently using a worker pool. Results keep
// the order of cases.
func submitCases(ctx context.Context, config *Config, cases []Case, stats *Stats) []Result {
	logger.Get().Info(ctx, "submitting itineraries",
		logger.Int("count", len(cases)),
		logger.Int("workers", config.Workers),
	)

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/api/predict"
	results := make([]Result, len(cases))

	var submitted atomic.Int64
	var lastReport atomic.Int64

	indexChan := make(chan int, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range indexChan {
				if ctx.Err() != nil {
					results[idx] = Result{Case: cases[idx], Problems: []string{ctx.Err().Error()}}
					continue
				}
				results[idx] = submitSingle(ctx, client, url, cases[idx])
				total := submitted.Add(1)

				now := time.Now().UnixNano()
				last := lastReport.Load()
				if now-last >= int64(progressInterval) && lastReport.CompareAndSwap(last, now) {
					logger.Get().Debug(ctx, "progress",
						logger.Int64("submitted", total),
						logger.Int("total", len(cases)),
					)
				}
			}
		}()
	}

	go func() {
		defer close(indexChan)
		for i := range cases {
			indexChan <- i
		}
	}()

	wg.Wait()
	stats.Submitted = int(submitted.Load())
	return results
}

// submitSingle submits one case and decodes whatever came back.
func submitSingle(ctx context.Context, client *HTTPClient, url string, c Case) Result {
	res := Result{Case: c}
	start := time.Now()

	resp, err := client.Post(ctx, url, c.Itinerary)
	if err != nil {
		res.Problems = append(res.Problems, "request failed: "+err.Error())
		return res
	}
	body, err := readResponseBody(resp)
	res.Latency = time.Since(start)
	res.StatusCode = resp.StatusCode
	if err != nil {
		res.Problems = append(res.Problems, "read failed: "+err.Error())
		return res
	}

	if resp.StatusCode == http.StatusOK {
		var p PredictResponse
		if err := json.Unmarshal(body, &p); err != nil {
			res.Problems = append(res.Problems, "undecodable prediction: "+err.Error())
			return res
		}
		res.Predict = &p
		return res
	}

	var e ErrorResponse
	if err := json.Unmarshal(body, &e); err == nil {
		res.Error = &e
	}
	return res
}
