package smoke

import "time"

// Config holds configuration for the smoke run
type Config struct {
	BaseURL  string        // Base URL of the service
	Activity string        // Activity to exercise; empty picks the first by name
	Students int           // Number of generated students to sign up
	Workers  int           // Number of concurrent workers
	Timeout  time.Duration // HTTP request timeout
	LogFile  string        // Log file for run output
	Verbose  bool          // Log every request
}

// Activity mirrors one entry of GET /activities.
type Activity struct {
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}

// Stats holds run statistics
type Stats struct {
	Activities         int
	SignUpsSubmitted   int
	SignUpsSuccessful  int
	SignUpsRejected    int
	SignUpsFailed      int
	DuplicatesRejected int
	Unregistered       int
	StartTime          time.Time
	EndTime            time.Time
	Duration           time.Duration
}
