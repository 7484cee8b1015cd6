package scene

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Penalty — стоимость невалидного или непостроенного пути.
// Конечное значение, чтобы недопустимые кандидаты оставались сравнимыми.
const Penalty = 1e6

type Evaluator struct {
	field *Field
}

func NewEvaluator(field *Field) (*Evaluator, error) {
	if field == nil {
		return nil, fmt.Errorf("%w: obstacle field is nil", ErrInvalid)
	}
	return &Evaluator{field: field}, nil
}

// Valid проверяет каждую точку пути; индекс точки используется как момент времени.
func (e *Evaluator) Valid(path orb.LineString) bool {
	for i, p := range path {
		if e.field.Collides(p, i) {
			return false
		}
	}
	return true
}

// Cost возвращает длину ломаной для валидного пути и Penalty иначе.
// Пустой путь означает неудачное построение кривой.
func (e *Evaluator) Cost(path orb.LineString) float64 {
	if len(path) == 0 || !e.Valid(path) {
		return Penalty
	}
	return planar.Length(path)
}
