package model

import "time"

// RosterAction names the mutation that produced a RosterChange.
type RosterAction string

// Roster actions.
const (
	ActionSignUp     RosterAction = "signup"
	ActionUnregister RosterAction = "unregister"
)

// RosterChange describes one successful roster mutation. It is published
// after the directory has been updated and carries the resulting roster size.
type RosterChange struct {
	ID           string
	Activity     string
	Email        string
	Action       RosterAction
	Participants int
	At           time.Time
}
