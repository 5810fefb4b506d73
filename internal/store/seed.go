package store

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"interview-scheduler/internal/models"
)

// Seed is demo data loaded at startup, e.g.
//
//	jobs:
//	  - id: backend
//	    title: Backend Engineer
//	    available_slots: [2026-10-19T10:00:00Z, 2026-10-19T14:00:00Z]
//	candidates:
//	  - id: asha
//	    name: Asha Rao
//	    phone: "+91 98000 00000"
type Seed struct {
	Jobs       []models.Job       `yaml:"jobs"`
	Candidates []models.Candidate `yaml:"candidates"`
}

// ReadSeed parses a seed file.
func ReadSeed(path string) (Seed, error) {
	var s Seed
	b, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("read seed: %w", err)
	}
	if err := yaml.Unmarshal(b, &s); err != nil {
		return s, fmt.Errorf("parse seed %s: %w", path, err)
	}
	return s, nil
}

// Apply inserts the seed into st. Records that already exist are skipped, so
// applying the same seed twice is harmless.
func (s Seed) Apply(ctx context.Context, st Store) (created int, err error) {
	for i := range s.Jobs {
		job := s.Jobs[i]
		switch err := st.CreateJob(ctx, &job); {
		case errors.Is(err, ErrConflict):
		case err != nil:
			return created, fmt.Errorf("seed job %q: %w", job.Title, err)
		default:
			created++
		}
	}
	for i := range s.Candidates {
		c := s.Candidates[i]
		switch err := st.CreateCandidate(ctx, &c); {
		case errors.Is(err, ErrConflict):
		case err != nil:
			return created, fmt.Errorf("seed candidate %q: %w", c.Name, err)
		default:
			created++
		}
	}
	return created, nil
}

// LoadSeed reads path and applies it to st.
func LoadSeed(ctx context.Context, st Store, path string) (int, error) {
	s, err := ReadSeed(path)
	if err != nil {
		return 0, err
	}
	return s.Apply(ctx, st)
}
