package rosterfile

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/johnquangdev/standup-assistant/internal/domain/entities"
)

// File is the on-disk roster seed format:
//
//	teams:
//	  - team: core
//	    members:
//	      - name: Alice
//	        time_limit_seconds: 60
type File struct {
	Teams []TeamEntry `yaml:"teams"`
}

// TeamEntry is one team of the seed file
type TeamEntry struct {
	Team    string        `yaml:"team"`
	Members []MemberEntry `yaml:"members"`
}

// MemberEntry is one member line. A zero limit takes the configured default.
type MemberEntry struct {
	Name             string `yaml:"name"`
	TimeLimitSeconds int    `yaml:"time_limit_seconds"`
}

// Load reads a seed file from disk
func Load(path string) ([]entities.Roster, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open roster file: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

// Decode parses seed YAML into rosters. Member IDs are left unset.
func Decode(r io.Reader) ([]entities.Roster, error) {
	var file File
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		if err == io.EOF {
			return []entities.Roster{}, nil
		}
		return nil, fmt.Errorf("decode roster file: %w", err)
	}

	rosters := make([]entities.Roster, 0, len(file.Teams))
	seen := make(map[string]struct{}, len(file.Teams))
	for i, t := range file.Teams {
		team := strings.TrimSpace(t.Team)
		if team == "" {
			return nil, fmt.Errorf("team %d: missing team name", i)
		}
		if _, dup := seen[team]; dup {
			return nil, fmt.Errorf("team %q listed twice", team)
		}
		seen[team] = struct{}{}

		r := entities.Roster{TeamID: team, Members: make([]entities.Member, 0, len(t.Members))}
		for _, m := range t.Members {
			r.Members = append(r.Members, entities.Member{
				Name:             strings.TrimSpace(m.Name),
				TimeLimitSeconds: m.TimeLimitSeconds,
			})
		}
		rosters = append(rosters, r)
	}
	return rosters, nil
}
