package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"pathPlanner/internal/planner"
	"pathPlanner/internal/replan"
	"pathPlanner/internal/sim"
)

const maxFileSize = 1 * 1024 * 1024 // 1MB

// File is the JSON configuration file. Every field is optional; omitted
// fields keep the built-in defaults.
type File struct {
	// Obstacles
	RadiusMin *float64 `json:"radius_min,omitempty"`
	RadiusMax *float64 `json:"radius_max,omitempty"`
	Amplitude *float64 `json:"amplitude,omitempty"`
	Rate      *float64 `json:"rate,omitempty"`

	// Swarm
	Particles *int     `json:"particles,omitempty"`
	Waypoints *int     `json:"waypoints,omitempty"`
	W         *float64 `json:"w,omitempty"`
	C1        *float64 `json:"c1,omitempty"`
	C2        *float64 `json:"c2,omitempty"`

	// Curve fitting
	Samples   *int     `json:"samples,omitempty"`
	Smoothing *float64 `json:"smoothing,omitempty"`

	// Replanning / execution
	ReplanIterations *int    `json:"replan_iterations,omitempty"`
	FieldPolicy      *string `json:"field_policy,omitempty"`
	MaxReplans       *int    `json:"max_replans,omitempty"`
}

// Settings is the resolved configuration consumed by the CLI.
type Settings struct {
	Planner          planner.Config
	ReplanIterations int
	FieldPolicy      replan.FieldPolicy
	MaxReplans       int
}

// Defaults returns the built-in settings.
func Defaults() Settings {
	return Settings{
		Planner:          planner.DefaultConfig(),
		ReplanIterations: replan.DefaultIterations,
		FieldPolicy:      replan.ReuseField,
		MaxReplans:       sim.DefaultMaxReplans,
	}
}

// Load reads a File from path. The file must have a .json extension and be
// under 1MB; it is validated after parsing.
func Load(path string) (*File, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	f := &File{}
	if err := json.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if _, err := f.Apply(Defaults()); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return f, nil
}

// Apply overlays the set fields of f onto base and validates the result.
func (f *File) Apply(base Settings) (Settings, error) {
	s := base
	if f == nil {
		return s, nil
	}
	pc := &s.Planner
	setFloat(&pc.RadiusMin, f.RadiusMin)
	setFloat(&pc.RadiusMax, f.RadiusMax)
	setFloat(&pc.Motion.Amplitude, f.Amplitude)
	setFloat(&pc.Motion.Rate, f.Rate)
	setInt(&pc.Swarm.Particles, f.Particles)
	setInt(&pc.Swarm.Waypoints, f.Waypoints)
	setFloat(&pc.Swarm.W, f.W)
	setFloat(&pc.Swarm.C1, f.C1)
	setFloat(&pc.Swarm.C2, f.C2)
	setInt(&pc.Swarm.Spline.Samples, f.Samples)
	setFloat(&pc.Swarm.Spline.Smoothing, f.Smoothing)
	setInt(&s.ReplanIterations, f.ReplanIterations)
	setInt(&s.MaxReplans, f.MaxReplans)
	if f.FieldPolicy != nil {
		p, err := replan.ParseFieldPolicy(*f.FieldPolicy)
		if err != nil {
			return base, err
		}
		s.FieldPolicy = p
	}

	if err := s.Validate(); err != nil {
		return base, err
	}
	return s, nil
}

// Validate checks the resolved settings.
func (s Settings) Validate() error {
	if err := s.Planner.Validate(); err != nil {
		return err
	}
	if s.ReplanIterations <= 0 {
		return fmt.Errorf("replan_iterations must be > 0, got %d", s.ReplanIterations)
	}
	if s.MaxReplans < 0 {
		return fmt.Errorf("max_replans must be >= 0, got %d", s.MaxReplans)
	}
	return nil
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}
