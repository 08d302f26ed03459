// Package seed provides the activity catalogue the directory starts from.
package seed

import (
	"github.com/mergington/activities/internal/domain/model"
)

// Default returns a freshly allocated copy of the built-in catalogue.
// Callers own the result; every call is independent of every other.
func Default() model.Directory {
	return model.Directory{
		"Chess Club": {
			Description:     "Learn strategies and compete in chess tournaments",
			Schedule:        "Fridays, 3:30 PM - 5:00 PM",
			MaxParticipants: 12,
			Participants:    []string{"michael@mergington.edu", "daniel@mergington.edu"},
		},
		"Programming Class": {
			Description:     "Learn programming fundamentals and build software projects",
			Schedule:        "Tuesdays and Thursdays, 3:30 PM - 4:30 PM",
			MaxParticipants: 20,
			Participants:    []string{"emma@mergington.edu", "sophia@mergington.edu"},
		},
		"Gym Class": {
			Description:     "Physical education and sports activities",
			Schedule:        "Mondays, Wednesdays, Fridays, 2:00 PM - 3:00 PM",
			MaxParticipants: 30,
			Participants:    []string{"john@mergington.edu", "olivia@mergington.edu"},
		},
		"Basketball Team": {
			Description:     "Competitive basketball team for intramural and league play",
			Schedule:        "Mondays and Thursdays, 4:00 PM - 5:30 PM",
			MaxParticipants: 15,
			Participants:    []string{"alex@mergington.edu"},
		},
		"Tennis Club": {
			Description:     "Learn tennis skills and participate in friendly matches",
			Schedule:        "Wednesdays and Saturdays, 3:00 PM - 4:30 PM",
			MaxParticipants: 16,
			Participants:    []string{"james@mergington.edu", "isabella@mergington.edu"},
		},
		"Drama Club": {
			Description:     "Perform in theatrical productions and develop acting skills",
			Schedule:        "Tuesdays, 4:00 PM - 5:30 PM",
			MaxParticipants: 25,
			Participants:    []string{"lucas@mergington.edu"},
		},
		"Art Studio": {
			Description:     "Explore painting, drawing, and other visual arts",
			Schedule:        "Mondays and Wednesdays, 3:30 PM - 5:00 PM",
			MaxParticipants: 18,
			Participants:    []string{"ava@mergington.edu", "mia@mergington.edu"},
		},
		"Debate Team": {
			Description:     "Develop public speaking and critical thinking through competitive debate",
			Schedule:        "Thursdays, 3:30 PM - 5:00 PM",
			MaxParticipants: 12,
			Participants:    []string{"noah@mergington.edu"},
		},
		"Science Club": {
			Description:     "Conduct experiments and explore scientific concepts",
			Schedule:        "Fridays, 3:30 PM - 5:00 PM",
			MaxParticipants: 20,
			Participants:    []string{"liam@mergington.edu", "charlotte@mergington.edu"},
		},
	}
}
