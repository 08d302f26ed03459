// Package model contains domain models passed between layers.
package model

import (
	"slices"
	"sort"
)

// Activity is one extracurricular offering and its roster.
// Participants are email addresses in sign-up order and never repeat.
type Activity struct {
	Description     string   `json:"description" koanf:"description"`
	Schedule        string   `json:"schedule" koanf:"schedule"`
	MaxParticipants int      `json:"max_participants" koanf:"max_participants"`
	Participants    []string `json:"participants" koanf:"participants"`
}

// Has reports whether email is on the roster. Matching is exact.
func (a Activity) Has(email string) bool {
	return slices.Contains(a.Participants, email)
}

// Full reports whether the roster has reached MaxParticipants.
func (a Activity) Full() bool {
	return len(a.Participants) >= a.MaxParticipants
}

// SpotsLeft returns the remaining capacity, never below zero.
func (a Activity) SpotsLeft() int {
	return max(a.MaxParticipants-len(a.Participants), 0)
}

// Clone returns a copy that shares no memory with a.
func (a Activity) Clone() Activity {
	c := a
	c.Participants = make([]string, len(a.Participants))
	copy(c.Participants, a.Participants)
	return c
}

// Directory maps activity names (case-sensitive) to their records.
type Directory map[string]Activity

// Clone deep-copies every record.
func (d Directory) Clone() Directory {
	out := make(Directory, len(d))
	for name, a := range d {
		out[name] = a.Clone()
	}
	return out
}

// Names returns the activity names in lexical order.
func (d Directory) Names() []string {
	names := make([]string, 0, len(d))
	for name := range d {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParticipantCount sums roster lengths across the directory.
func (d Directory) ParticipantCount() int {
	n := 0
	for _, a := range d {
		n += len(a.Participants)
	}
	return n
}
