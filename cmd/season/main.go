package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/anxo/convoca/internal/seasontest"
)

// Default configuration constants.
const (
	defaultSquadSize         = 22
	defaultWeeks             = 20
	defaultWorkerMultiplier  = 2
	defaultTimeout           = 30 * time.Second
	defaultSimulationTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:9080", "Base URL of the service")
		squadSize  = flag.Int("squad", defaultSquadSize, "Number of roster members to create")
		weeks      = flag.Int("weeks", defaultWeeks, "Number of season weeks to simulate")
		workers    = flag.Int("workers", runtime.NumCPU()*defaultWorkerMultiplier, "Number of concurrent workers")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		outputFile = flag.String("output", "", "Output file for the generated calendar (default: season_calendar_TIMESTAMP.json)")
		logFile    = flag.String("log", "", "Log file for simulation output (default: season_log_TIMESTAMP.log)")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		seasontest.ShowHelp()
		return
	}

	if err := seasontest.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultSimulationTimeout)
	defer cancel()

	config := &seasontest.Config{
		BaseURL:    *baseURL,
		SquadSize:  *squadSize,
		Weeks:      *weeks,
		Workers:    *workers,
		Timeout:    *timeout,
		OutputFile: *outputFile,
		LogFile:    *logFile,
		Verbose:    *verbose,
	}

	if err := seasontest.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Simulation failed: " + err.Error() + "\n")
		return
	}
}
