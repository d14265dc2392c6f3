package seasontest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/anxo/convoca/internal/domain/model"
	"github.com/anxo/convoca/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
)

// Run executes the complete season simulation.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting season simulation",
		logger.String("baseURL", config.BaseURL),
		logger.Int("squadSize", config.SquadSize),
		logger.Int("weeks", config.Weeks),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.Any("verbose", config.Verbose))

	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	roster := generateRoster(ctx, config, stats)
	events := generateSeason(ctx, config, roster, stats)

	if err := submitRoster(ctx, config, roster); err != nil {
		return fmt.Errorf("roster submission failed: %w", err)
	}

	if err := submitEvents(ctx, config, events, stats); err != nil {
		return fmt.Errorf("event submission failed: %w", err)
	}

	// Mutations apply asynchronously; give the workers a moment to drain.
	logger.Get().Info(ctx, "waiting for events to be processed")
	time.Sleep(ProcessingDelay)

	gotAttendance, err := fetchAttendance(ctx, config, config.Timeout)
	if err != nil {
		return fmt.Errorf("attendance retrieval failed: %w", err)
	}
	gotCallUps, err := fetchCallUps(ctx, config, config.Timeout)
	if err != nil {
		return fmt.Errorf("call-up retrieval failed: %w", err)
	}

	if day, ok := nextMatchDay(events); ok {
		eligibility, err := fetchEligibility(ctx, config, config.Timeout, day)
		if err != nil {
			return fmt.Errorf("eligibility retrieval failed: %w", err)
		}
		available := 0
		for _, e := range eligibility {
			if e.Available {
				available++
			}
		}
		logger.Get().Info(ctx, "match-day eligibility",
			logger.String("matchDay", day.String()),
			logger.Int("available", available),
			logger.Int("total", len(eligibility)))
	}

	if err := verifyResults(ctx, config, roster, events, gotAttendance, gotCallUps, stats); err != nil {
		return fmt.Errorf("result verification failed: %w", err)
	}

	if err := saveEventsToFile(ctx, config, events); err != nil {
		logger.Get().Warn(ctx, "failed to save events to file", logger.Error(err))
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	logger.Get().Info(ctx, "simulation completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/healthz"

	resp, err := client.Get(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	// Any 200 counts as healthy; the endpoint serves Prometheus metrics.
	if resp.StatusCode != StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// saveEventsToFile saves the generated calendar to a JSON file.
func saveEventsToFile(ctx context.Context, config *Config, events []model.Event) error {
	if len(events) == 0 {
		return fmt.Errorf("no events to save")
	}

	filename := config.OutputFile
	if filename == "" {
		timestamp := time.Now().Format("20060102_150405")
		filename = "season_calendar_" + timestamp + ".json"
	}

	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	envelopes := make([]model.Envelope, len(events))
	for i, e := range events {
		envelopes[i] = model.NewEnvelope(e)
	}
	data, err := json.MarshalIndent(envelopes, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal events: %w", err)
	}
	if err := os.WriteFile(filename, data, 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	logger.Get().Info(ctx, "events saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats prints the final simulation statistics.
func displayFinalStats(stats *Stats) {
	var successRate, eventsPerSecond float64

	if stats.EventsSubmitted > 0 {
		successRate = float64(stats.EventsSuccessful) / float64(stats.EventsSubmitted) * PercentageMultiplier
	}
	if stats.Duration > 0 {
		eventsPerSecond = float64(stats.EventsSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("peopleCreated", stats.PeopleCreated),
		logger.Int("eventsGenerated", stats.EventsGenerated),
		logger.Int("eventsSubmitted", stats.EventsSubmitted),
		logger.Int("eventsSuccessful", stats.EventsSuccessful),
		logger.Int("eventsFailed", stats.EventsFailed),
		logger.Int("recordsVerified", stats.RecordsVerified),
		logger.Int("mismatches", stats.Mismatches),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("successRate", successRate),
		logger.Float64("eventsPerSecond", eventsPerSecond))
}
