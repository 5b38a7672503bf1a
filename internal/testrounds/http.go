package testrounds

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// HTTPClient wraps http.Client with timeout
type HTTPClient struct {
	client  *http.Client
	timeout time.Duration
}

// newHTTPClient creates a new HTTP client with timeout
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		timeout: timeout,
	}
}

// Get performs a GET request
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with an optional JSON body
func (c *HTTPClient) Post(ctx context.Context, url string, body interface{}) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// Delete performs a DELETE request
func (c *HTTPClient) Delete(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// getJSON performs a GET request and decodes the JSON response into out.
func getJSON(ctx context.Context, client *HTTPClient, url string, out interface{}) error {
	resp, err := client.Get(ctx, url)
	if err != nil {
		return fmt.Errorf("GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != StatusOK {
		return fmt.Errorf("GET %s: unexpected status %d", url, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("GET %s: decode: %w", url, err)
	}
	return nil
}

// drainAndClose discards and closes a response body so connections get reused.
func drainAndClose(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}

// fetchCatalog downloads the browsable configuration needed to plan rounds.
func fetchCatalog(ctx context.Context, config *Config) (*Catalog, error) {
	client := newHTTPClient(config.Timeout)

	catalog := &Catalog{Checklists: make(map[string][]ChecklistItem)}
	if err := getJSON(ctx, client, config.BaseURL+"/inspectors", &catalog.Inspectors); err != nil {
		return nil, err
	}
	if err := getJSON(ctx, client, config.BaseURL+"/zones", &catalog.Zones); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	for _, z := range catalog.Zones {
		if seen[z.Category] {
			continue
		}
		seen[z.Category] = true
		var items []ChecklistItem
		if err := getJSON(ctx, client, config.BaseURL+"/checklist?category="+z.Category, &items); err != nil {
			return nil, err
		}
		catalog.Checklists[z.Category] = items
	}

	return catalog, nil
}

// submitRounds drives planned rounds concurrently using a worker pool.
func submitRounds(ctx context.Context, config *Config, rounds []Round, stats *Stats) error {
	log.Printf("📤 Driving %d rounds with %d workers...", len(rounds), config.Workers)

	client := newHTTPClient(config.Timeout)

	// Counters for statistics
	var (
		successful int64
		incomplete int64
		failed     int64
		submitted  int64
	)

	// Progress reporting
	var lastReport time.Time
	reportInterval := 1 * time.Second

	// Create worker pool
	roundChan := make(chan Round, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	// Start workers
	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for round := range roundChan {
				select {
				case <-ctx.Done():
					return
				default:
					result := driveRound(ctx, client, config.BaseURL, round)

					// Update counters
					atomic.AddInt64(&submitted, 1)
					switch result {
					case "success":
						atomic.AddInt64(&successful, 1)
					case "incomplete":
						atomic.AddInt64(&incomplete, 1)
					case "failed":
						atomic.AddInt64(&failed, 1)
					}

					// Progress reporting
					if time.Since(lastReport) >= reportInterval {
						lastReport = time.Now()
						total := atomic.LoadInt64(&submitted)
						succ := atomic.LoadInt64(&successful)
						inc := atomic.LoadInt64(&incomplete)
						fail := atomic.LoadInt64(&failed)

						if config.Verbose {
							log.Printf("📊 Progress: %d/%d driven (success: %d, incomplete: %d, failed: %d)",
								total, len(rounds), succ, inc, fail)
						} else {
							fmt.Printf("\r📤 Driven: %d/%d (success: %d, incomplete: %d, failed: %d)",
								total, len(rounds), succ, inc, fail)
						}
					}
				}
			}
		}()
	}

	// Send rounds to workers
	go func() {
		defer close(roundChan)
		for _, round := range rounds {
			select {
			case <-ctx.Done():
				return
			case roundChan <- round:
			}
		}
	}()

	// Wait for all workers to complete
	wg.Wait()

	// Final progress report
	if !config.Verbose {
		fmt.Println() // New line after progress indicator
	}

	// Update stats
	stats.RoundsSubmitted = int(atomic.LoadInt64(&submitted))
	stats.RoundsSuccessful = int(atomic.LoadInt64(&successful))
	stats.RoundsIncomplete = int(atomic.LoadInt64(&incomplete))
	stats.RoundsFailed = int(atomic.LoadInt64(&failed))

	log.Printf(`✅ Round submission completed:
   Successful: %d
   Incomplete: %d
   Failed: %d
`, stats.RoundsSuccessful, stats.RoundsIncomplete, stats.RoundsFailed)

	return nil
}

// driveRound walks one planned round through the session API and returns the
// result: "success", "incomplete" or "failed".
func driveRound(ctx context.Context, client *HTTPClient, baseURL string, round Round) string {
	// Open a session
	resp, err := client.Post(ctx, baseURL+"/sessions", nil)
	if err != nil {
		return "failed"
	}
	var created struct {
		SessionID string `json:"sessionId"`
	}
	if resp.StatusCode != StatusCreated {
		drainAndClose(resp)
		return "failed"
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		drainAndClose(resp)
		return "failed"
	}
	drainAndClose(resp)

	sessionURL := baseURL + "/sessions/" + created.SessionID
	// Best effort cleanup so the open-session count stays flat.
	defer func() {
		if resp, err := client.Delete(ctx, sessionURL); err == nil {
			drainAndClose(resp)
		}
	}()

	steps := []struct {
		path string
		body interface{}
	}{
		{"/inspector", map[string]string{"inspectorId": round.InspectorID}},
		{"/category", map[string]string{"category": round.Category}},
		{"/zone", map[string]string{"zoneId": round.ZoneID}},
		{"/start", nil},
	}
	for _, step := range steps {
		if !postStep(ctx, client, sessionURL+step.path, step.body) {
			return "failed"
		}
	}

	for itemID, score := range round.Scores {
		if !postStep(ctx, client, sessionURL+"/score", map[string]interface{}{"itemId": itemID, "score": score}) {
			return "failed"
		}
	}
	for itemID, text := range round.Notes {
		if !postStep(ctx, client, sessionURL+"/note", map[string]string{"itemId": itemID, "text": text}) {
			return "failed"
		}
	}
	for itemID, tags := range round.Observations {
		for _, tag := range tags {
			if !postStep(ctx, client, sessionURL+"/observation", map[string]string{"itemId": itemID, "tag": tag}) {
				return "failed"
			}
		}
	}

	resp, err = client.Post(ctx, sessionURL+"/submit", nil)
	if err != nil {
		return "failed"
	}
	defer drainAndClose(resp)

	switch resp.StatusCode {
	case StatusCreated:
		return "success"
	case StatusConflict:
		return "incomplete"
	default:
		return "failed"
	}
}

// postStep posts one session action and reports whether it succeeded.
func postStep(ctx context.Context, client *HTTPClient, url string, body interface{}) bool {
	resp, err := client.Post(ctx, url, body)
	if err != nil {
		return false
	}
	drainAndClose(resp)
	return resp.StatusCode == StatusOK
}
