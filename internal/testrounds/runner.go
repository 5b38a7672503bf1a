package testrounds

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/mkabbani/evround/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
)

// Run executes the complete inspection round test.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting evround inspection test",
		logger.String("baseURL", config.BaseURL),
		logger.Int("rounds", config.NumRounds),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.String("logFile", config.LogFile),
		logger.Any("verbose", config.Verbose))

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Fetch the catalog
	catalog, err := fetchCatalog(ctx, config)
	if err != nil {
		return fmt.Errorf("catalog fetch failed: %w", err)
	}

	// Step 3: Plan rounds
	rounds, err := generateRounds(ctx, config, catalog, stats)
	if err != nil {
		return fmt.Errorf("round planning failed: %w", err)
	}

	// Step 4: Drive rounds concurrently
	if err := submitRounds(ctx, config, rounds, stats); err != nil {
		return fmt.Errorf("round submission failed: %w", err)
	}

	// Step 5: Retrieve the record history
	records, err := retrieveRecords(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("record retrieval failed: %w", err)
	}

	// Step 6: Retrieve per-inspector statistics
	summaries, err := retrieveStatistics(ctx, config, catalog)
	if err != nil {
		return fmt.Errorf("statistics retrieval failed: %w", err)
	}

	// Step 7: Verify results
	if err := verifyResults(ctx, config, records, summaries, stats); err != nil {
		return fmt.Errorf("result verification failed: %w", err)
	}

	// Step 8: Save planned rounds to file
	if err := saveRoundsToFile(ctx, config, rounds); err != nil {
		logger.Get().Warn(ctx, "failed to save rounds to file", logger.Error(err))
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	logger.Get().Info(ctx, "test completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	client := newHTTPClient(config.Timeout)

	resp, err := client.Get(ctx, config.BaseURL+"/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer drainAndClose(resp)

	// Accept any 200 response as healthy (the service returns Prometheus metrics)
	if resp.StatusCode != StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// retrieveRecords downloads the full inspection history.
func retrieveRecords(ctx context.Context, config *Config, stats *Stats) ([]Record, error) {
	logger.Get().Info(ctx, "retrieving inspection records")

	client := newHTTPClient(config.Timeout)
	var records []Record
	if err := getJSON(ctx, client, config.BaseURL+"/records", &records); err != nil {
		return nil, err
	}

	stats.RecordsListed = len(records)
	logger.Get().Info(ctx, "retrieved records", logger.Int("count", len(records)))
	return records, nil
}

// retrieveStatistics fetches the yearly summary for every inspector.
func retrieveStatistics(ctx context.Context, config *Config, catalog *Catalog) (map[string]Summary, error) {
	logger.Get().Info(ctx, "retrieving per-inspector statistics")

	client := newHTTPClient(config.Timeout)
	summaries := make(map[string]Summary, len(catalog.Inspectors))

	for _, insp := range catalog.Inspectors {
		var out struct {
			Inspector string  `json:"inspector"`
			Window    string  `json:"window"`
			Summary   Summary `json:"summary"`
		}
		u := config.BaseURL + "/statistics?window=year&inspector=" + url.QueryEscape(insp.DisplayName)
		if err := getJSON(ctx, client, u, &out); err != nil {
			return nil, err
		}
		summaries[insp.DisplayName] = out.Summary
	}

	return summaries, nil
}

// saveRoundsToFile saves the planned rounds to a JSON file.
func saveRoundsToFile(ctx context.Context, config *Config, rounds []Round) error {
	if len(rounds) == 0 {
		return fmt.Errorf("no rounds to save")
	}

	// Determine output filename
	filename := config.OutputFile
	if filename == "" {
		timestamp := time.Now().Format("20060102_150405")
		filename = "generated_rounds_" + timestamp + ".json"
	}

	// Ensure the directory exists
	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(rounds, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal rounds: %w", err)
	}
	if err := os.WriteFile(filename, data, logFilePermission); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	logger.Get().Info(ctx, "rounds saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats prints the final test statistics.
func displayFinalStats(stats *Stats) {
	var successRate, roundsPerSecond float64

	if stats.RoundsSubmitted > 0 {
		successRate = float64(stats.RoundsSuccessful) / float64(stats.RoundsSubmitted) * PercentageMultiplier
	}

	if stats.Duration > 0 {
		roundsPerSecond = float64(stats.RoundsSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("roundsPlanned", stats.RoundsPlanned),
		logger.Int("roundsSubmitted", stats.RoundsSubmitted),
		logger.Int("roundsSuccessful", stats.RoundsSuccessful),
		logger.Int("roundsIncomplete", stats.RoundsIncomplete),
		logger.Int("roundsFailed", stats.RoundsFailed),
		logger.Int("recordsListed", stats.RecordsListed),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("successRate", successRate),
		logger.Float64("roundsPerSecond", roundsPerSecond))
}
