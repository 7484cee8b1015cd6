package scene

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/mokiat/gomath/dprec"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

const (
	placeMin  = 0.3
	placeMax  = 0.7
	offsetMax = 10.0
)

// Generate размещает count препятствий вблизи отрезка start→end.
// Кандидат, не прошедший проверку зазора с уже принятыми, отбрасывается без повтора,
// поэтому препятствий может оказаться меньше, чем запрошено.
func Generate(count int, rMin, rMax float64, start, end orb.Point, motion Motion, rng *rand.Rand) (*Field, error) {
	if rng == nil {
		return nil, fmt.Errorf("%w: random source is nil", ErrInvalid)
	}
	if count < 0 {
		return nil, fmt.Errorf("%w: obstacle count must be >= 0 (got %d)", ErrInvalid, count)
	}
	if !(rMin > 0) || rMax < rMin || math.IsInf(rMax, 0) {
		return nil, fmt.Errorf("%w: radius range must satisfy 0 < min <= max (got %v, %v)", ErrInvalid, rMin, rMax)
	}
	if !finitePoint(start) || !finitePoint(end) {
		return nil, fmt.Errorf("%w: start and end must be finite", ErrInvalid)
	}
	if start.Equal(end) {
		return nil, fmt.Errorf("%w: start and end must differ", ErrInvalid)
	}
	if err := motion.Validate(); err != nil {
		return nil, err
	}

	s := dprec.NewVec2(start.X(), start.Y())
	dir := dprec.Vec2Diff(dprec.NewVec2(end.X(), end.Y()), s)
	unit := dprec.UnitVec2(dir)
	perp := dprec.NewVec2(-unit.Y, unit.X)

	accepted := make([]Obstacle, 0, count)
	for i := 0; i < count; i++ {
		t := uniform(rng, placeMin, placeMax)
		onLine := dprec.Vec2Sum(s, dprec.Vec2Prod(dir, t))
		offset := uniform(rng, -offsetMax, offsetMax)
		c := dprec.Vec2Sum(onLine, dprec.Vec2Prod(perp, offset))
		candidate := Obstacle{
			Center: orb.Point{c.X, c.Y},
			Radius: uniform(rng, rMin, rMax),
		}
		if clearOf(candidate, accepted) {
			accepted = append(accepted, candidate)
		}
	}
	return &Field{obstacles: accepted, motion: motion}, nil
}

func clearOf(c Obstacle, accepted []Obstacle) bool {
	for _, a := range accepted {
		if planar.Distance(c.Center, a.Center) <= c.Radius+a.Radius+MinSeparation {
			return false
		}
	}
	return true
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + (hi-lo)*rng.Float64()
}
