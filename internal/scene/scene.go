package scene

import (
	"errors"
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// ErrInvalid оборачивает все ошибки валидации входных параметров.
var ErrInvalid = errors.New("invalid configuration")

// Scene — экземпляр задачи для одного запуска оптимизатора.
type Scene struct {
	Start  orb.Point
	End    orb.Point
	Bounds orb.Bound
	Field  *Field
}

func NewScene(start, end orb.Point, bounds orb.Bound, field *Field) (*Scene, error) {
	sc := &Scene{Start: start, End: end, Bounds: bounds, Field: field}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return sc, nil
}

func (sc *Scene) Validate() error {
	if sc == nil {
		return fmt.Errorf("%w: scene is nil", ErrInvalid)
	}
	if sc.Field == nil {
		return fmt.Errorf("%w: obstacle field is nil", ErrInvalid)
	}
	if !finitePoint(sc.Start) || !finitePoint(sc.End) {
		return fmt.Errorf("%w: start and end must be finite", ErrInvalid)
	}
	if sc.Start.Equal(sc.End) {
		return fmt.Errorf("%w: start and end must differ (got %v)", ErrInvalid, sc.Start)
	}
	return ValidateBounds(sc.Bounds)
}

// ValidateBounds проверяет область поиска: min <= max по каждой оси,
// и область не вырождена в точку. Нулевая ширина по одной оси допустима.
func ValidateBounds(b orb.Bound) error {
	if !finitePoint(b.Min) || !finitePoint(b.Max) {
		return fmt.Errorf("%w: bounds must be finite", ErrInvalid)
	}
	if b.Min[0] > b.Max[0] {
		return fmt.Errorf("%w: bounds x min > max (%v > %v)", ErrInvalid, b.Min[0], b.Max[0])
	}
	if b.Min[1] > b.Max[1] {
		return fmt.Errorf("%w: bounds y min > max (%v > %v)", ErrInvalid, b.Min[1], b.Max[1])
	}
	if b.Min.Equal(b.Max) {
		return fmt.Errorf("%w: bounds have zero size", ErrInvalid)
	}
	return nil
}

// BoundsXY собирает orb.Bound из пар (min, max) по осям.
func BoundsXY(x, y [2]float64) orb.Bound {
	return orb.Bound{Min: orb.Point{x[0], y[0]}, Max: orb.Point{x[1], y[1]}}
}

// Span — ограничивающий прямоугольник двух точек без отступов.
func Span(a, b orb.Point) orb.Bound {
	return orb.Bound{
		Min: orb.Point{math.Min(a[0], b[0]), math.Min(a[1], b[1])},
		Max: orb.Point{math.Max(a[0], b[0]), math.Max(a[1], b[1])},
	}
}
