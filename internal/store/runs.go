package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"pathPlanner/internal/planner"
)

const (
	KindPlan   = "plan"
	KindReplan = "replan"
)

// ErrNotFound is returned by GetRun for an unknown run id.
var ErrNotFound = errors.New("run not found")

// Run is one persisted planning session.
type Run struct {
	RunID          string
	ParentRunID    string
	Kind           string
	Seed           int64
	StartX, StartY float64
	EndX, EndY     float64
	ObstacleCount  int
	Iterations     int
	Found          bool
	Cost           float64 // +Inf when not found
	IterationFound int
	DurationMs     float64
	Obstacles      []ObstacleRecord
	History        []float64
	CreatedAt      int64
}

type ObstacleRecord struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	R float64 `json:"r"`
}

// RunFromSession converts a planner session into a Run. The session id becomes the run id.
func RunFromSession(sess *planner.Session, kind, parentID string, seed int64) *Run {
	sc := sess.Scene
	res := sess.Result
	r := &Run{
		RunID:          sess.ID,
		ParentRunID:    parentID,
		Kind:           kind,
		Seed:           seed,
		StartX:         sc.Start.X(),
		StartY:         sc.Start.Y(),
		EndX:           sc.End.X(),
		EndY:           sc.End.Y(),
		ObstacleCount:  sc.Field.Len(),
		Iterations:     res.Iterations,
		Found:          res.Found(),
		Cost:           res.Cost,
		IterationFound: res.Iteration,
		DurationMs:     float64(res.Duration.Microseconds()) / 1000.0,
		History:        res.History,
	}
	for _, o := range sc.Field.Obstacles() {
		r.Obstacles = append(r.Obstacles, ObstacleRecord{X: o.Center.X(), Y: o.Center.Y(), R: o.Radius})
	}
	return r
}

// InsertRun persists a run. If RunID is empty, a UUID is generated.
func (s *Store) InsertRun(r *Run) error {
	if r.RunID == "" {
		r.RunID = uuid.New().String()
	}
	if r.CreatedAt == 0 {
		r.CreatedAt = time.Now().UnixNano()
	}

	obsJSON, err := json.Marshal(r.Obstacles)
	if err != nil {
		return fmt.Errorf("failed to encode obstacles: %w", err)
	}
	histJSON, err := json.Marshal(encodeHistory(r.History))
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}

	var cost sql.NullFloat64
	if r.Found && !math.IsInf(r.Cost, 0) && !math.IsNaN(r.Cost) {
		cost = sql.NullFloat64{Float64: r.Cost, Valid: true}
	}
	var parent sql.NullString
	if r.ParentRunID != "" {
		parent = sql.NullString{String: r.ParentRunID, Valid: true}
	}

	_, err = s.db.Exec(`
		INSERT INTO plan_runs (
			run_id, parent_run_id, kind, seed,
			start_x, start_y, end_x, end_y,
			obstacle_count, iterations, found, cost, iteration_found, duration_ms,
			obstacles_json, history_json, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, parent, r.Kind, r.Seed,
		r.StartX, r.StartY, r.EndX, r.EndY,
		r.ObstacleCount, r.Iterations, r.Found, cost, r.IterationFound, r.DurationMs,
		string(obsJSON), string(histJSON), r.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

const runColumns = `run_id, parent_run_id, kind, seed,
	start_x, start_y, end_x, end_y,
	obstacle_count, iterations, found, cost, iteration_found, duration_ms,
	obstacles_json, history_json, created_at`

// GetRun returns the run with the given id.
func (s *Store) GetRun(id string) (*Run, error) {
	row := s.db.QueryRow(`SELECT `+runColumns+` FROM plan_runs WHERE run_id = ?`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return r, err
}

// ListRuns returns the most recent runs, newest first. limit <= 0 means no limit.
func (s *Store) ListRuns(limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.Query(`SELECT `+runColumns+` FROM plan_runs ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var out []*Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (*Run, error) {
	var (
		r        Run
		parent   sql.NullString
		cost     sql.NullFloat64
		obsJSON  sql.NullString
		histJSON sql.NullString
	)
	err := sc.Scan(
		&r.RunID, &parent, &r.Kind, &r.Seed,
		&r.StartX, &r.StartY, &r.EndX, &r.EndY,
		&r.ObstacleCount, &r.Iterations, &r.Found, &cost, &r.IterationFound, &r.DurationMs,
		&obsJSON, &histJSON, &r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	r.ParentRunID = parent.String
	r.Cost = math.Inf(1)
	if cost.Valid {
		r.Cost = cost.Float64
	}
	if obsJSON.Valid && obsJSON.String != "" {
		if err := json.Unmarshal([]byte(obsJSON.String), &r.Obstacles); err != nil {
			return nil, fmt.Errorf("failed to decode obstacles: %w", err)
		}
	}
	if histJSON.Valid && histJSON.String != "" {
		var raw []*float64
		if err := json.Unmarshal([]byte(histJSON.String), &raw); err != nil {
			return nil, fmt.Errorf("failed to decode history: %w", err)
		}
		r.History = decodeHistory(raw)
	}
	return &r, nil
}

// encodeHistory stores non-finite costs as JSON null.
func encodeHistory(h []float64) []*float64 {
	out := make([]*float64, len(h))
	for i := range h {
		if math.IsInf(h[i], 0) || math.IsNaN(h[i]) {
			continue
		}
		v := h[i]
		out[i] = &v
	}
	return out
}

func decodeHistory(raw []*float64) []float64 {
	out := make([]float64, len(raw))
	for i, v := range raw {
		if v == nil {
			out[i] = math.Inf(1)
			continue
		}
		out[i] = *v
	}
	return out
}
