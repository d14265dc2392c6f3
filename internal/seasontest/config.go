package seasontest

import "time"

// Config holds configuration for the season simulation.
type Config struct {
	BaseURL    string        // Base URL of the service
	SquadSize  int           // Number of roster members to create
	Weeks      int           // Number of season weeks to simulate
	Workers    int           // Number of concurrent workers
	Timeout    time.Duration // HTTP request timeout
	OutputFile string        // Output file for the generated calendar
	LogFile    string        // Log file for simulation output
	Verbose    bool          // Enable verbose logging
}

// Stats holds simulation statistics.
type Stats struct {
	PeopleCreated    int
	EventsGenerated  int
	EventsSubmitted  int
	EventsSuccessful int
	EventsFailed     int
	RecordsVerified  int
	Mismatches       int
	StartTime        time.Time
	EndTime          time.Time
	Duration         time.Duration
}
