package sa

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/paulmach/orb"

	"pathPlanner/internal/opt"
	"pathPlanner/internal/scene"
	"pathPlanner/internal/spline"
)

// Solver - структура реализации алгоритма имитации отжига над вектором промежуточных точек
type Solver struct {
	Cfg Config
	Rng *rand.Rand
	// Observer вызывается после каждой итерации; может быть nil.
	Observer opt.Observer
}

// New возвращает новый SA-солвер с валидацией конфигурации, с использованием инициализированного генератора случайных чисел.
// Используется в фабриках.
func New(cfg Config, rng *rand.Rand) (*Solver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", scene.ErrInvalid, err)
	}
	if rng == nil {
		return nil, fmt.Errorf("%w: генератор случайных чисел не инициализирован (nil)", scene.ErrInvalid)
	}
	return &Solver{Cfg: cfg, Rng: rng}, nil
}

// Optimize — реализация эвристики. Останавливается по числу итераций или по остыванию.
func (s *Solver) Optimize(ctx context.Context, sc *scene.Scene) (opt.Result, error) {
	start := time.Now()

	if err := sc.Validate(); err != nil {
		return opt.Result{}, err
	}
	if err := s.Cfg.Validate(); err != nil {
		return opt.Result{}, fmt.Errorf("%w: %v", scene.ErrInvalid, err)
	}
	if s.Rng == nil {
		return opt.Result{}, fmt.Errorf("%w: генератор случайных чисел не инициализирован (nil)", scene.ErrInvalid)
	}

	fitter, err := spline.New(s.Cfg.Spline)
	if err != nil {
		return opt.Result{}, fmt.Errorf("%w: %v", scene.ErrInvalid, err)
	}
	eval, err := scene.NewEvaluator(sc.Field)
	if err != nil {
		return opt.Result{}, err
	}

	b := sc.Bounds
	span := [2]float64{b.Max[0] - b.Min[0], b.Max[1] - b.Min[1]}
	waypoints := make([]orb.Point, s.Cfg.Waypoints)
	cost := func(pos []float64) float64 {
		for j := range waypoints {
			waypoints[j] = orb.Point{pos[2*j], pos[2*j+1]}
		}
		path, err := fitter.Fit(sc.Start, waypoints, sc.End)
		if err != nil {
			return scene.Penalty
		}
		return eval.Cost(path)
	}

	// Текущее и кандидатное решения
	dim := 2 * s.Cfg.Waypoints
	curr := make([]float64, dim)
	cand := make([]float64, dim)
	for d := range curr {
		curr[d] = b.Min[d%2] + s.Rng.Float64()*span[d%2]
	}

	currCost := cost(curr)
	evals := 1
	bestCost := currCost
	best := make([]float64, dim)
	copy(best, curr)
	bestIter := 0

	history := make([]float64, 0, s.Cfg.Iterations)
	T := s.Cfg.InitialTemp

	iter := 0
	for ; iter < s.Cfg.Iterations && T > s.Cfg.FinalTemp; iter++ {
		// Для поддержки отмены через context
		if err := ctx.Err(); err != nil {
			res := s.result(fitter, sc, best, bestCost, bestIter, history)
			res.Evaluations = evals
			res.Iterations = iter
			res.Duration = time.Since(start)
			res.Meta = map[string]any{"stopped": "context", "T": T}
			return res, err
		}

		copy(cand, curr)
		j := s.Rng.Intn(s.Cfg.Waypoints)
		switch s.Cfg.Neighborhood {
		case NeighborhoodResample:
			neighborResample(cand, j, b, span, s.Rng)
		default:
			neighborGauss(cand, j, b, span, s.Cfg.Step, s.Rng)
		}

		candCost := cost(cand)
		evals++

		delta := candCost - currCost
		accept := false
		if delta <= 0 {
			accept = true
		} else if s.Rng.Float64() < math.Exp(-delta/T) {
			// Критерий Метрополиса
			accept = true
		}

		if accept {
			curr, cand = cand, curr
			currCost = candCost

			if currCost < bestCost {
				bestCost = currCost
				copy(best, curr)
				bestIter = iter
			}
		}
		history = append(history, bestCost)
		if s.Observer != nil {
			s.Observer(iter, bestCost)
		}

		// Охлаждение температуры
		T *= s.Cfg.Alpha
	}

	res := s.result(fitter, sc, best, bestCost, bestIter, history)
	res.Evaluations = evals
	res.Iterations = iter
	res.Duration = time.Since(start)
	res.Meta = map[string]any{
		"waypoints":    s.Cfg.Waypoints,
		"initial_temp": s.Cfg.InitialTemp,
		"final_temp":   s.Cfg.FinalTemp,
		"alpha":        s.Cfg.Alpha,
		"step":         s.Cfg.Step,
		"neighborhood": string(s.Cfg.Neighborhood),
	}
	return res, nil
}

func (s *Solver) result(fitter *spline.Fitter, sc *scene.Scene, best []float64, bestCost float64, bestIter int, history []float64) opt.Result {
	if !(bestCost < scene.Penalty) {
		return opt.NotFound(history)
	}
	waypoints := make([]orb.Point, s.Cfg.Waypoints)
	for j := range waypoints {
		waypoints[j] = orb.Point{best[2*j], best[2*j+1]}
	}
	path, err := fitter.Fit(sc.Start, waypoints, sc.End)
	if err != nil {
		return opt.NotFound(history)
	}
	return opt.Result{
		Path:      path,
		Cost:      bestCost,
		Iteration: bestIter,
		History:   history,
	}
}

// neighborGauss сдвигает точку j на N(0, step·span) по каждой оси с проекцией в границы.
func neighborGauss(pos []float64, j int, b orb.Bound, span [2]float64, step float64, rng *rand.Rand) {
	for axis := 0; axis < 2; axis++ {
		d := 2*j + axis
		pos[d] = clamp(pos[d]+rng.NormFloat64()*step*span[axis], b.Min[axis], b.Max[axis])
	}
}

// neighborResample разыгрывает точку j равномерно в области поиска.
func neighborResample(pos []float64, j int, b orb.Bound, span [2]float64, rng *rand.Rand) {
	for axis := 0; axis < 2; axis++ {
		pos[2*j+axis] = b.Min[axis] + rng.Float64()*span[axis]
	}
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
