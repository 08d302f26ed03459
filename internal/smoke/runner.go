// Package smoke drives a running activities server through a roster round
// trip and reports what it observed.
package smoke

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/mergington/activities/pkg/logger"
)

// ErrNoActivities is returned when the server lists no activities.
var ErrNoActivities = errors.New("no activities to exercise")

// Run executes the complete smoke run.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	stats := &Stats{
		StartTime: time.Now(),
	}
	log := logger.Get()

	log.Info(ctx, "starting activities smoke run",
		logger.String("baseURL", config.BaseURL),
		logger.String("activity", config.Activity),
		logger.Int("students", config.Students),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.Bool("verbose", config.Verbose))

	if config.Workers < 1 {
		config.Workers = 1
	}
	client := newHTTPClient(config.BaseURL, config.Timeout)

	// Step 1: Check service health
	if err := client.Health(ctx); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Pick the activity and remember its roster
	dir, err := client.Activities(ctx)
	if err != nil {
		return stats, err
	}
	stats.Activities = len(dir)
	if config.Activity == "" {
		if len(dir) == 0 {
			return stats, ErrNoActivities
		}
		names := make([]string, 0, len(dir))
		for name := range dir {
			names = append(names, name)
		}
		slices.Sort(names)
		config.Activity = names[0]
	}
	activity, ok := dir[config.Activity]
	if !ok {
		return stats, fmt.Errorf("activity %q not listed", config.Activity)
	}
	before := activity.Participants

	// Step 3: Sign up generated students concurrently
	students := generateStudents(ctx, config.Students)
	enrolled, counts := submitRoster(ctx, config, client, "signup", students)
	stats.SignUpsSubmitted = len(students)
	stats.SignUpsSuccessful = counts[OutcomeSuccess]
	stats.SignUpsRejected = counts[OutcomeRejected]
	stats.SignUpsFailed = counts[OutcomeFailed]

	// Step 4: A repeated sign-up must be rejected
	if len(enrolled) > 0 {
		outcome, _ := client.Roster(ctx, config.Activity, "signup", enrolled[0])
		if outcome != OutcomeRejected {
			return stats, fmt.Errorf("duplicate sign-up of %s returned %s", enrolled[0], outcome)
		}
		stats.DuplicatesRejected++
	}

	// Step 5: Verify the roster
	dir, err = client.Activities(ctx)
	if err != nil {
		return stats, err
	}
	if err := verifyEnrolled(before, dir[config.Activity].Participants, enrolled); err != nil {
		return stats, fmt.Errorf("sign-up verification failed: %w", err)
	}

	// Step 6: Unregister everyone who got in
	removed, _ := submitRoster(ctx, config, client, "unregister", enrolled)
	stats.Unregistered = len(removed)

	// Step 7: Verify the roster is back where it started
	dir, err = client.Activities(ctx)
	if err != nil {
		return stats, err
	}
	if err := verifyRestored(before, dir[config.Activity].Participants); err != nil {
		return stats, fmt.Errorf("unregister verification failed: %w", err)
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(ctx, stats)

	log.Info(ctx, "smoke run completed successfully")
	return stats, nil
}

// displayFinalStats logs the final run statistics.
func displayFinalStats(ctx context.Context, stats *Stats) {
	var successRate, requestsPerSecond float64

	if stats.SignUpsSubmitted > 0 {
		successRate = float64(stats.SignUpsSuccessful) / float64(stats.SignUpsSubmitted) * PercentageMultiplier
	}

	if stats.Duration > 0 {
		requestsPerSecond = float64(stats.SignUpsSubmitted+stats.Unregistered) / stats.Duration.Seconds()
	}

	logger.Get().Info(ctx, "final statistics",
		logger.Int("activities", stats.Activities),
		logger.Int("signUpsSubmitted", stats.SignUpsSubmitted),
		logger.Int("signUpsSuccessful", stats.SignUpsSuccessful),
		logger.Int("signUpsRejected", stats.SignUpsRejected),
		logger.Int("signUpsFailed", stats.SignUpsFailed),
		logger.Int("duplicatesRejected", stats.DuplicatesRejected),
		logger.Int("unregistered", stats.Unregistered),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("successRate", successRate),
		logger.Float64("requestsPerSecond", requestsPerSecond))
}
