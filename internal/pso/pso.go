package pso

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

// Solver - структура реализации алгоритма роя частиц для поиска пути
type Solver struct {
	Cfg Config
	Rng *rand.Rand
	// Observer вызывается после каждого прохода оценки; может быть nil.
	Observer opt.Observer
}

// New возвращает новый PSO-солвер с валидацией конфигурации, с использованием инициализированного генератора случайных чисел.
func New(cfg Config, rng *rand.Rand) (*Solver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", scene.ErrInvalid, err)
	}
	if rng == nil {
		return nil, fmt.Errorf("%w: генератор случайных чисел не инициализирован (nil)", scene.ErrInvalid)
	}
	return &Solver{Cfg: cfg, Rng: rng}, nil
}

// particle описывает одну частицу роя.
type particle struct {
	// pos — плоский вектор [x0, y0, x1, y1, ...] промежуточных точек
	pos []float64
	vel []float64

	pBestPos  []float64
	pBestCost float64
}

// swarm — состояние одного запуска; создаётся заново и не переживает Optimize.
type swarm struct {
	cfg    Config
	rng    *rand.Rand
	sc     *scene.Scene
	fitter *spline.Fitter
	eval   *scene.Evaluator

	ps []particle

	gBestPos  []float64
	gBestCost float64
	gBestIter int

	history []float64
	evals   int

	waypoints []orb.Point
}

func newSwarm(cfg Config, rng *rand.Rand, sc *scene.Scene) (*swarm, error) {
	fitter, err := spline.New(cfg.Spline)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", scene.ErrInvalid, err)
	}
	eval, err := scene.NewEvaluator(sc.Field)
	if err != nil {
		return nil, err
	}
	return &swarm{
		cfg:       cfg,
		rng:       rng,
		sc:        sc,
		fitter:    fitter,
		eval:      eval,
		gBestCost: math.Inf(1),
		gBestIter: -1,
		history:   make([]float64, 0, cfg.Iterations),
		waypoints: make([]orb.Point, cfg.Waypoints),
	}, nil
}

// init - случайная инициализация позиций и скоростей частиц
func (s *swarm) init() {
	dim := 2 * s.cfg.Waypoints
	b := s.sc.Bounds
	s.ps = make([]particle, s.cfg.Particles)
	for i := range s.ps {
		p := particle{
			pos:       make([]float64, dim),
			vel:       make([]float64, dim),
			pBestPos:  make([]float64, dim),
			pBestCost: math.Inf(1),
		}
		for j := 0; j < s.cfg.Waypoints; j++ {
			p.pos[2*j] = b.Min[0] + s.rng.Float64()*(b.Max[0]-b.Min[0])
			p.pos[2*j+1] = b.Min[1] + s.rng.Float64()*(b.Max[1]-b.Min[1])
		}
		copy(p.pBestPos, p.pos)
		s.ps[i] = p
	}
	v := s.cfg.InitVelocity
	for i := range s.ps {
		for d := range s.ps[i].vel {
			s.ps[i].vel[d] = (s.rng.Float64()*2 - 1) * v
		}
	}
}

// fit строит путь по плоскому вектору позиции.
func (s *swarm) fit(pos []float64) (orb.LineString, error) {
	for j := range s.waypoints {
		s.waypoints[j] = orb.Point{pos[2*j], pos[2*j+1]}
	}
	return s.fitter.Fit(s.sc.Start, s.waypoints, s.sc.End)
}

// evaluate - проход оценки; при равных стоимостях побеждает первая частица.
func (s *swarm) evaluate(iter int) {
	for i := range s.ps {
		p := &s.ps[i]

		cost := scene.Penalty
		if path, err := s.fit(p.pos); err == nil {
			cost = s.eval.Cost(path)
		}
		s.evals++

		// Обновление личного лучшего решения
		if cost < p.pBestCost {
			p.pBestCost = cost
			copy(p.pBestPos, p.pos)
		}

		// Обновление глобального лучшего решения
		if cost < s.gBestCost {
			s.gBestCost = cost
			s.gBestPos = append(s.gBestPos[:0], p.pos...)
			s.gBestIter = iter
		}
	}
	s.history = append(s.history, s.gBestCost)
}

// move - обновление скоростей и позиций с жёсткой проекцией в границы.
// r1, r2 разыгрываются один раз на частицу.
func (s *swarm) move() {
	w, c1, c2 := s.cfg.W, s.cfg.C1, s.cfg.C2
	b := s.sc.Bounds
	for i := range s.ps {
		p := &s.ps[i]
		r1 := s.rng.Float64()
		r2 := s.rng.Float64()
		for d := range p.pos {
			p.vel[d] = w*p.vel[d] +
				c1*r1*(p.pBestPos[d]-p.pos[d]) +
				c2*r2*(s.gBestPos[d]-p.pos[d])
			axis := d % 2
			p.pos[d] = clamp(p.pos[d]+p.vel[d], b.Min[axis], b.Max[axis])
		}
	}
}

func (s *swarm) result() opt.Result {
	if s.gBestPos == nil || !(s.gBestCost < scene.Penalty) {
		return opt.NotFound(s.history)
	}
	path, err := s.fit(s.gBestPos)
	if err != nil {
		return opt.NotFound(s.history)
	}
	return opt.Result{
		Path:      path,
		Cost:      s.gBestCost,
		Iteration: s.gBestIter,
		History:   s.history,
	}
}

// Optimize — реализация эвристики. Выполняет ровно Cfg.Iterations итераций.
func (s *Solver) Optimize(ctx context.Context, sc *scene.Scene) (opt.Result, error) {
	start := time.Now()

	// Валидация конфигурации
	if err := sc.Validate(); err != nil {
		return opt.Result{}, err
	}
	if err := s.Cfg.Validate(); err != nil {
		return opt.Result{}, fmt.Errorf("%w: %v", scene.ErrInvalid, err)
	}
	if s.Rng == nil {
		return opt.Result{}, fmt.Errorf("%w: генератор случайных чисел не инициализирован (nil)", scene.ErrInvalid)
	}

	sw, err := newSwarm(s.Cfg, s.Rng, sc)
	if err != nil {
		return opt.Result{}, err
	}
	sw.init()

	iters := s.Cfg.Iterations

	// Основной цикл
	for iter := 0; iter < iters; iter++ {
		// Для поддержки отмены через context
		if err := ctx.Err(); err != nil {
			res := sw.result()
			res.Evaluations = sw.evals
			res.Iterations = iter
			res.Duration = time.Since(start)
			res.Meta = map[string]any{"stopped": "context"}
			return res, err
		}

		sw.evaluate(iter)
		if s.Observer != nil {
			s.Observer(iter, sw.gBestCost)
		}
		sw.move()
	}

	res := sw.result()
	res.Evaluations = sw.evals
	res.Iterations = iters
	res.Duration = time.Since(start)
	res.Meta = map[string]any{
		"particles": s.Cfg.Particles,
		"waypoints": s.Cfg.Waypoints,
		"w":         s.Cfg.W,
		"c1":        s.Cfg.C1,
		"c2":        s.Cfg.C2,
		"samples":   s.Cfg.Spline.Samples,
		"smoothing": s.Cfg.Spline.Smoothing,
	}
	return res, nil
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
