package replan

import (
	"context"
	"fmt"

	"github.com/paulmach/orb"

	"pathPlanner/internal/planner"
	"pathPlanner/internal/scene"
)

// DefaultIterations — бюджет итераций роя при перепланировании.
const DefaultIterations = 100

type Action int

const (
	Continue Action = iota
	Replan
	Fatal
)

func (a Action) String() string {
	switch a {
	case Continue:
		return "continue"
	case Replan:
		return "replan"
	case Fatal:
		return "fatal"
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// FieldPolicy определяет, с каким полем препятствий планируется новый путь.
type FieldPolicy int

const (
	// ReuseField — планировать относительно живого поля.
	ReuseField FieldPolicy = iota
	// RegenerateField — сгенерировать новое поле с тем же числом препятствий.
	RegenerateField
)

func (p FieldPolicy) String() string {
	switch p {
	case ReuseField:
		return "reuse"
	case RegenerateField:
		return "regenerate"
	}
	return fmt.Sprintf("FieldPolicy(%d)", int(p))
}

func ParseFieldPolicy(s string) (FieldPolicy, error) {
	switch s {
	case "reuse", "":
		return ReuseField, nil
	case "regenerate":
		return RegenerateField, nil
	}
	return 0, fmt.Errorf("%w: unknown field policy %q (reuse | regenerate)", scene.ErrInvalid, s)
}

// Decision — исход одного такта. Session задан для Replan и Fatal.
type Decision struct {
	Action  Action
	Session *planner.Session
}

type Trigger struct {
	Planner    *planner.Planner
	Iterations int
	Policy     FieldPolicy
}

func New(p *planner.Planner) *Trigger {
	return &Trigger{Planner: p, Iterations: DefaultIterations, Policy: ReuseField}
}

// Tick проверяет текущую позицию робота в момент t и при столкновении
// перепланирует путь от pos до goal в прямоугольнике, натянутом на эти точки.
func (tr *Trigger) Tick(ctx context.Context, pos orb.Point, t int, goal orb.Point, field *scene.Field) (Decision, error) {
	if !field.Collides(pos, t) {
		return Decision{Action: Continue}, nil
	}
	if tr.Planner == nil {
		return Decision{}, fmt.Errorf("%w: trigger has no planner", scene.ErrInvalid)
	}

	bounds := scene.Span(pos, goal)
	var (
		sess *planner.Session
		err  error
	)
	switch tr.Policy {
	case ReuseField:
		var sc *scene.Scene
		sc, err = scene.NewScene(pos, goal, bounds, field)
		if err != nil {
			return Decision{}, fmt.Errorf("replan at t=%d: %w", t, err)
		}
		sess, err = tr.Planner.PlanScene(ctx, sc, tr.Iterations)
	case RegenerateField:
		sess, err = tr.Planner.Plan(ctx, planner.Request{
			Start:      pos,
			End:        goal,
			Obstacles:  field.Len(),
			Iterations: tr.Iterations,
			BoundsX:    [2]float64{bounds.Min[0], bounds.Max[0]},
			BoundsY:    [2]float64{bounds.Min[1], bounds.Max[1]},
		})
	default:
		return Decision{}, fmt.Errorf("%w: unknown field policy %v", scene.ErrInvalid, tr.Policy)
	}
	if err != nil {
		return Decision{}, fmt.Errorf("replan at t=%d: %w", t, err)
	}

	if !sess.Result.Found() {
		return Decision{Action: Fatal, Session: sess}, nil
	}
	return Decision{Action: Replan, Session: sess}, nil
}
