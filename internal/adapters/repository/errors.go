package repository

import "errors"

// Sentinel kinds for store construction errors. Roster failures use the
// kinds in the roster package.
var (
	ErrNilSeed = errors.New("repository: nil seed directory")
)
