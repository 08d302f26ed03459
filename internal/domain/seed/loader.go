package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/mergington/activities/internal/domain/model"
)

// Sentinel kinds for seed loading.
var (
	ErrLoadSeed    = errors.New("load seed failed")
	ErrInvalidSeed = errors.New("invalid seed")
)

// keyDelim separates nested koanf keys. Activity names are route segments,
// so they can never contain it.
const keyDelim = "/"

// Load reads a catalogue from a YAML file shaped as
//
//	activities:
//	  Chess Club:
//	    description: ...
//	    schedule: ...
//	    max_participants: 12
//	    participants: [michael@mergington.edu]
func Load(_ context.Context, path string) (model.Directory, error) {
	k := koanf.New(keyDelim)
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrLoadSeed, path, err)
	}

	dir := model.Directory{}
	if err := k.UnmarshalWithConf("activities", &dir, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", ErrLoadSeed, path, err)
	}
	for name, a := range dir {
		if a.Participants == nil {
			a.Participants = []string{}
			dir[name] = a
		}
	}

	if err := Validate(dir); err != nil {
		return nil, err
	}
	return dir, nil
}

// Validate checks a catalogue before it is used to seed a store.
func Validate(dir model.Directory) error {
	if len(dir) == 0 {
		return fmt.Errorf("%w: no activities", ErrInvalidSeed)
	}
	for _, name := range dir.Names() {
		a := dir[name]
		switch {
		case strings.TrimSpace(name) == "":
			return fmt.Errorf("%w: empty activity name", ErrInvalidSeed)
		case strings.Contains(name, keyDelim):
			return fmt.Errorf("%w: activity %q: name must not contain %q", ErrInvalidSeed, name, keyDelim)
		case a.MaxParticipants <= 0:
			return fmt.Errorf("%w: activity %q: max_participants must be positive", ErrInvalidSeed, name)
		}
		seen := make(map[string]struct{}, len(a.Participants))
		for _, email := range a.Participants {
			if strings.TrimSpace(email) == "" {
				return fmt.Errorf("%w: activity %q: empty participant", ErrInvalidSeed, name)
			}
			if _, dup := seen[email]; dup {
				return fmt.Errorf("%w: activity %q: duplicate participant %q", ErrInvalidSeed, name, email)
			}
			seen[email] = struct{}{}
		}
	}
	return nil
}
