package sim

import (
	"context"
	"fmt"

	"github.com/paulmach/orb"

	"pathPlanner/internal/monitoring"
	"pathPlanner/internal/planner"
	"pathPlanner/internal/replan"
	"pathPlanner/internal/scene"
)

// DefaultMaxReplans ограничивает цепочку перепланирований одного прохода.
const DefaultMaxReplans = 20

type Outcome int

const (
	OutcomeArrived Outcome = iota
	OutcomeCollision
	OutcomeReplanLimit
)

func (o Outcome) String() string {
	switch o {
	case OutcomeArrived:
		return "arrived"
	case OutcomeCollision:
		return "collision"
	case OutcomeReplanLimit:
		return "replan-limit"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// Trace — журнал исполнения пути.
type Trace struct {
	Visited orb.LineString
	Replans []*planner.Session
	// Failed — сессия перепланирования, не нашедшая путь (при OutcomeCollision).
	Failed  *planner.Session
	Outcome Outcome
	Frames  int
}

// Ticker — контракт триггера перепланирования.
type Ticker interface {
	Tick(ctx context.Context, pos orb.Point, t int, goal orb.Point, field *scene.Field) (replan.Decision, error)
}

// Executor проходит путь кадр за кадром. В кадре i робот стоит в path[i], момент времени равен i.
// После перепланирования отсчёт кадров начинается с нуля по новому пути; поле препятствий остаётся живым полем сцены.
type Executor struct {
	Trigger    Ticker
	MaxReplans int
}

func New(tr Ticker) *Executor {
	return &Executor{Trigger: tr, MaxReplans: DefaultMaxReplans}
}

func (e *Executor) Run(ctx context.Context, sess *planner.Session) (*Trace, error) {
	if sess == nil || sess.Scene == nil {
		return nil, fmt.Errorf("%w: session is nil", scene.ErrInvalid)
	}
	if !sess.Result.Found() {
		return nil, fmt.Errorf("%w: session %s has no path", scene.ErrInvalid, sess.ID)
	}

	field := sess.Scene.Field
	goal := sess.Scene.End
	path := sess.Result.Path
	tr := &Trace{}

	for i := 0; i < len(path); {
		if err := ctx.Err(); err != nil {
			return tr, err
		}
		pos := path[i]
		d, err := e.Trigger.Tick(ctx, pos, i, goal, field)
		if err != nil {
			return tr, err
		}
		tr.Frames++

		switch d.Action {
		case replan.Continue:
			tr.Visited = append(tr.Visited, pos)
			i++
		case replan.Replan:
			tr.Replans = append(tr.Replans, d.Session)
			monitoring.Logf("replan #%d at frame %d (%.2f, %.2f): cost %.2f @ iter %d",
				len(tr.Replans), i, pos.X(), pos.Y(), d.Session.Result.Cost, d.Session.Result.Iteration)
			if e.MaxReplans > 0 && len(tr.Replans) > e.MaxReplans {
				tr.Outcome = OutcomeReplanLimit
				return tr, nil
			}
			path = d.Session.Result.Path
			i = 0
		case replan.Fatal:
			tr.Failed = d.Session
			tr.Outcome = OutcomeCollision
			monitoring.Logf("collision at frame %d (%.2f, %.2f): could not replan", i, pos.X(), pos.Y())
			return tr, nil
		default:
			return tr, fmt.Errorf("unexpected trigger action %v", d.Action)
		}
	}
	tr.Outcome = OutcomeArrived
	return tr, nil
}
