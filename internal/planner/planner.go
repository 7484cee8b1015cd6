package planner

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/google/uuid"
	"github.com/paulmach/orb"

	"pathPlanner/internal/opt"
	"pathPlanner/internal/pso"
	"pathPlanner/internal/scene"
)

type Config struct {
	RadiusMin float64
	RadiusMax float64
	Motion    scene.Motion

	// Swarm.Iterations переопределяется значением из запроса.
	Swarm pso.Config
}

func DefaultConfig() Config {
	return Config{
		RadiusMin: 5,
		RadiusMax: 15,
		Motion:    scene.DefaultMotion(),
		Swarm:     pso.DefaultConfig(),
	}
}

func (c Config) Validate() error {
	if !(c.RadiusMin > 0) || c.RadiusMax < c.RadiusMin || math.IsInf(c.RadiusMax, 0) {
		return fmt.Errorf(
			"радиусы препятствий должны удовлетворять 0 < min <= max (получено %f, %f)",
			c.RadiusMin,
			c.RadiusMax,
		)
	}
	if err := c.Motion.Validate(); err != nil {
		return err
	}
	return c.Swarm.Validate()
}

// Request — входной контракт plan(...).
type Request struct {
	Start      orb.Point
	End        orb.Point
	Obstacles  int
	Iterations int
	BoundsX    [2]float64
	BoundsY    [2]float64
}

func (r Request) Validate() error {
	if r.Obstacles < 0 {
		return fmt.Errorf("%w: obstacle count must be >= 0 (got %d)", scene.ErrInvalid, r.Obstacles)
	}
	if r.Iterations <= 0 {
		return fmt.Errorf("%w: iterations must be > 0 (got %d)", scene.ErrInvalid, r.Iterations)
	}
	if r.Start.Equal(r.End) {
		return fmt.Errorf("%w: start and end must differ (got %v)", scene.ErrInvalid, r.Start)
	}
	return scene.ValidateBounds(r.Bounds())
}

func (r Request) Bounds() orb.Bound {
	return scene.BoundsXY(r.BoundsX, r.BoundsY)
}

// DefaultBounds — область поиска вокруг start/end с отступом pad по каждой оси.
func DefaultBounds(start, end orb.Point, pad float64) (x, y [2]float64) {
	b := scene.Span(start, end)
	x = [2]float64{b.Min[0] - pad, b.Max[0] + pad}
	y = [2]float64{b.Min[1] - pad, b.Max[1] + pad}
	return x, y
}

// Session — результат одного планирования: сцена и найденный путь.
type Session struct {
	ID     string
	Scene  *scene.Scene
	Result opt.Result
}

// Planner создаёт сессии планирования. Один генератор случайных чисел питает
// и размещение препятствий, и рой, поэтому фиксированный сид воспроизводит план целиком.
type Planner struct {
	Cfg      Config
	Rng      *rand.Rand
	Observer opt.Observer
}

func New(cfg Config, rng *rand.Rand) (*Planner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", scene.ErrInvalid, err)
	}
	if rng == nil {
		return nil, fmt.Errorf("%w: генератор случайных чисел не инициализирован (nil)", scene.ErrInvalid)
	}
	return &Planner{Cfg: cfg, Rng: rng}, nil
}

// Plan генерирует поле препятствий и запускает рой.
// Отсутствие пути не ошибка: см. Session.Result.Found().
func (p *Planner) Plan(ctx context.Context, req Request) (*Session, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	field, err := scene.Generate(req.Obstacles, p.Cfg.RadiusMin, p.Cfg.RadiusMax, req.Start, req.End, p.Cfg.Motion, p.Rng)
	if err != nil {
		return nil, err
	}
	sc, err := scene.NewScene(req.Start, req.End, req.Bounds(), field)
	if err != nil {
		return nil, err
	}
	return p.PlanScene(ctx, sc, req.Iterations)
}

// PlanScene запускает рой на готовой сцене.
func (p *Planner) PlanScene(ctx context.Context, sc *scene.Scene, iterations int) (*Session, error) {
	cfg := p.Cfg.Swarm
	cfg.Iterations = iterations
	solver, err := pso.New(cfg, p.Rng)
	if err != nil {
		return nil, err
	}
	solver.Observer = p.Observer

	res, err := solver.Optimize(ctx, sc)
	if err != nil {
		return nil, err
	}
	return &Session{ID: uuid.NewString(), Scene: sc, Result: res}, nil
}
