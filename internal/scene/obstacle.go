package scene

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

const (
	// RobotClearance — радиус робота, добавляемый к радиусу препятствия при проверке столкновения.
	RobotClearance = 1.5
	// MinSeparation — минимальный зазор между окружностями соседних препятствий.
	MinSeparation = 2.0

	DefaultAmplitude = 15.0
	DefaultRate      = 0.05
)

// Obstacle — круглое препятствие с базовым центром (на момент генерации).
type Obstacle struct {
	Center orb.Point
	Radius float64
}

// Motion описывает вертикальное колебание препятствий: y += Amplitude*sin(Rate*t + i).
type Motion struct {
	Amplitude float64
	Rate      float64
}

func DefaultMotion() Motion {
	return Motion{Amplitude: DefaultAmplitude, Rate: DefaultRate}
}

func (m Motion) Validate() error {
	if math.IsNaN(m.Amplitude) || math.IsInf(m.Amplitude, 0) {
		return fmt.Errorf("%w: motion amplitude must be finite (got %v)", ErrInvalid, m.Amplitude)
	}
	if math.IsNaN(m.Rate) || math.IsInf(m.Rate, 0) {
		return fmt.Errorf("%w: motion rate must be finite (got %v)", ErrInvalid, m.Rate)
	}
	return nil
}

// Field — упорядоченный набор препятствий. После создания не изменяется.
type Field struct {
	obstacles []Obstacle
	motion    Motion
}

func NewField(obstacles []Obstacle, motion Motion) (*Field, error) {
	if err := motion.Validate(); err != nil {
		return nil, err
	}
	for i, o := range obstacles {
		if !(o.Radius > 0) || math.IsInf(o.Radius, 0) {
			return nil, fmt.Errorf("%w: obstacle[%d] radius must be > 0 (got %v)", ErrInvalid, i, o.Radius)
		}
		if !finitePoint(o.Center) {
			return nil, fmt.Errorf("%w: obstacle[%d] center must be finite", ErrInvalid, i)
		}
	}
	obs := make([]Obstacle, len(obstacles))
	copy(obs, obstacles)
	return &Field{obstacles: obs, motion: motion}, nil
}

func (f *Field) Len() int {
	if f == nil {
		return 0
	}
	return len(f.obstacles)
}

func (f *Field) Motion() Motion { return f.motion }

// Obstacles возвращает копию препятствий в порядке генерации.
func (f *Field) Obstacles() []Obstacle {
	out := make([]Obstacle, f.Len())
	if f != nil {
		copy(out, f.obstacles)
	}
	return out
}

func (f *Field) Centers() []orb.Point {
	out := make([]orb.Point, f.Len())
	for i := range out {
		out[i] = f.obstacles[i].Center
	}
	return out
}

func (f *Field) Radii() []float64 {
	out := make([]float64, f.Len())
	for i := range out {
		out[i] = f.obstacles[i].Radius
	}
	return out
}

// CenterAt — эффективный центр i-го препятствия в момент t.
// Фаза колебания равна индексу препятствия.
func (f *Field) CenterAt(i, t int) orb.Point {
	c := f.obstacles[i].Center
	dy := f.motion.Amplitude * math.Sin(f.motion.Rate*float64(t)+float64(i))
	return orb.Point{c[0], c[1] + dy}
}

// Collides сообщает, пересекается ли точка p с каким-либо препятствием в момент t.
func (f *Field) Collides(p orb.Point, t int) bool {
	if f == nil {
		return false
	}
	for i, o := range f.obstacles {
		if planar.Distance(p, f.CenterAt(i, t)) < o.Radius+RobotClearance {
			return true
		}
	}
	return false
}

func finitePoint(p orb.Point) bool {
	for _, v := range p {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
