package testrounds

import "time"

// Config holds configuration for the round test
type Config struct {
	BaseURL    string        // Base URL of the service
	NumRounds  int           // Number of inspection rounds to drive
	Workers    int           // Number of concurrent workers
	Timeout    time.Duration // HTTP request timeout
	OutputFile string        // Output file for planned rounds
	LogFile    string        // Log file for test output
	Verbose    bool          // Enable verbose logging
}

// Inspector mirrors the /inspectors payload.
type Inspector struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

// Zone mirrors the /zones payload.
type Zone struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"type_code"`
}

// ChecklistItem mirrors the /checklist payload.
type ChecklistItem struct {
	ID           string   `json:"id"`
	Number       int      `json:"number"`
	MaxScore     int      `json:"max_score"`
	Observations []string `json:"possible_observations,omitempty"`
}

// Catalog is the browsable configuration fetched before driving rounds.
type Catalog struct {
	Inspectors []Inspector
	Zones      []Zone
	Checklists map[string][]ChecklistItem // keyed by category
}

// Round is one planned inspection to drive through the API.
type Round struct {
	InspectorID   string              `json:"inspectorId"`
	InspectorName string              `json:"inspectorName"`
	Category      string              `json:"category"`
	ZoneID        string              `json:"zoneId"`
	Scores        map[string]int      `json:"scores"`
	Notes         map[string]string   `json:"notes,omitempty"`
	Observations  map[string][]string `json:"observations,omitempty"`
	Incomplete    bool                `json:"incomplete,omitempty"` // one item deliberately left unscored
}

// Record mirrors the submitted record payload.
type Record struct {
	ID            string    `json:"id"`
	InspectorName string    `json:"inspectorName"`
	ZoneName      string    `json:"zoneName"`
	Timestamp     time.Time `json:"timestamp"`
	TotalScore    int       `json:"totalScore"`
	MaxPossible   int       `json:"maxPossibleScore"`
	Percentage    float64   `json:"percentage"`
}

// Summary mirrors the /statistics payload.
type Summary struct {
	Count             int     `json:"count"`
	UniqueZones       int     `json:"uniqueZones"`
	AveragePercentage float64 `json:"averagePercentage"`
	Best              float64 `json:"best"`
	Worst             float64 `json:"worst"`
}

// Stats holds test statistics
type Stats struct {
	RoundsPlanned    int
	RoundsSubmitted  int
	RoundsSuccessful int
	RoundsIncomplete int
	RoundsFailed     int
	RecordsListed    int
	StartTime        time.Time
	EndTime          time.Time
	Duration         time.Duration
}
