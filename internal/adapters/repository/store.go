// Package repository holds the activity directory and its roster mutations.
package repository

import (
	"context"

	"github.com/mergington/activities/internal/domain/model"
)

// Store provides read/write access to the activity directory.
type Store interface {
	// List returns a deep copy of every activity.
	List(ctx context.Context) model.Directory

	// Get returns a copy of one activity.
	// Returns roster.ErrActivityNotFound if the name is unknown.
	Get(ctx context.Context, name string) (model.Activity, error)

	// Enroll appends email to the roster of name and returns the updated record.
	// Fails with roster.ErrActivityNotFound, roster.ErrAlreadyEnrolled or,
	// when capacity is enforced, roster.ErrActivityFull.
	Enroll(ctx context.Context, name, email string) (model.Activity, error)

	// Unregister removes email from the roster of name and returns the updated record.
	// Fails with roster.ErrActivityNotFound or roster.ErrNotEnrolled.
	Unregister(ctx context.Context, name, email string) (model.Activity, error)

	// Count returns the number of activities and total roster entries.
	Count(ctx context.Context) (activities, participants int)
}
