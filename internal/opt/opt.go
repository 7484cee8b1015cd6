package opt

import (
	"context"
	"math"
	"time"

	"github.com/paulmach/orb"

	"pathPlanner/internal/scene"
)

type Optimizer interface {
	Optimize(ctx context.Context, sc *scene.Scene) (Result, error)
}

// Observer получает номер итерации и лучшую стоимость после прохода оценки.
type Observer func(iteration int, bestCost float64)

type Result struct {
	// Path — дискретизированный путь; nil, если допустимый путь не найден.
	Path orb.LineString
	Cost float64
	// Iteration — итерация, на которой найден лучший путь (-1, если не найден).
	Iteration int
	History   []float64

	Evaluations int
	Iterations  int
	Duration    time.Duration
	Meta        map[string]any
}

// NotFound — результат запуска, не нашедшего ни одного допустимого пути.
func NotFound(history []float64) Result {
	return Result{
		Cost:      math.Inf(1),
		Iteration: -1,
		History:   history,
	}
}

func (r Result) Found() bool { return len(r.Path) > 0 }

func (r Result) XS() []float64 {
	out := make([]float64, len(r.Path))
	for i, p := range r.Path {
		out[i] = p.X()
	}
	return out
}

func (r Result) YS() []float64 {
	out := make([]float64, len(r.Path))
	for i, p := range r.Path {
		out[i] = p.Y()
	}
	return out
}
