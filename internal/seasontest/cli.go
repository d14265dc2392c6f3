package seasontest

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/anxo/convoca/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "season_log_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, file)
	log.SetOutput(multiWriter)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the season simulation tool.
func ShowHelp() {
	os.Stdout.WriteString(`Convoca Season Simulator
========================

Generates a full season of squad data (roster, trainings, matches, match
results, injuries, personal absences), feeds it to a running convoca
instance, and verifies the attendance and call-up reports against a local
recomputation.

Usage:
  go run cmd/season/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -squad int
        Number of roster members to create (default 22)
  -weeks int
        Number of season weeks to simulate (default 20)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -output string
        Output file for the generated calendar (default: season_calendar_TIMESTAMP.json)
  -log string
        Log file for simulation output (default: season_log_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Simulate with default settings
  go run cmd/season/main.go

  # A longer season against a custom instance
  go run cmd/season/main.go -weeks 38 -url http://localhost:8080

  # Verbose output with a custom log file
  go run cmd/season/main.go -verbose -log my_season.log
`)
}
