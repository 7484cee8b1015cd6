package spline

import (
	"errors"
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ErrDegenerate — кривую по данным контрольным точкам построить нельзя.
// Для оптимизатора это штраф кандидату, а не авария.
var ErrDegenerate = errors.New("degenerate control polygon")

const (
	maxDegree = 3
	minChord  = 1e-9
)

type Config struct {
	// Samples — число точек дискретизации кривой.
	Samples int
	// Smoothing — вес штрафа на вторые разности коэффициентов (> 0).
	Smoothing float64
}

func DefaultConfig() Config {
	return Config{Samples: 100, Smoothing: 0.5}
}

func (c Config) Validate() error {
	if c.Samples < 2 {
		return fmt.Errorf("Samples должно быть >= 2 (получено %d)", c.Samples)
	}
	if !(c.Smoothing > 0) || math.IsInf(c.Smoothing, 0) {
		return fmt.Errorf("Smoothing должно быть > 0 (получено %f)", c.Smoothing)
	}
	return nil
}

// Fitter строит сглаживающий параметрический B-сплайн через [start, waypoints..., end]
// и дискретизирует его равномерно по параметру.
type Fitter struct {
	cfg Config
	u   []float64
}

func New(cfg Config) (*Fitter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	u := make([]float64, cfg.Samples)
	floats.Span(u, 0, 1)
	return &Fitter{cfg: cfg, u: u}, nil
}

func (f *Fitter) Config() Config { return f.cfg }

// Fit возвращает дискретизированный путь. Первая и последняя точки совпадают
// со start и end точно: крайние коэффициенты закреплены.
func (f *Fitter) Fit(start orb.Point, waypoints []orb.Point, end orb.Point) (orb.LineString, error) {
	pts := make([]orb.Point, 0, len(waypoints)+2)
	pts = append(pts, start)
	pts = append(pts, waypoints...)
	pts = append(pts, end)

	params, err := chordParams(pts)
	if err != nil {
		return nil, err
	}

	m := len(pts)
	k := maxDegree
	if m-1 < k {
		k = m - 1
	}
	knots := clampedKnots(params, k)

	coef, err := f.solve(pts, params, knots, k)
	if err != nil {
		return nil, err
	}

	out := make(orb.LineString, len(f.u))
	basis := make([]float64, m)
	for s, u := range f.u {
		evalBasis(basis, knots, k, u)
		var x, y float64
		for j, b := range basis {
			x += b * coef[j][0]
			y += b * coef[j][1]
		}
		out[s] = orb.Point{x, y}
	}
	// Концы кривой интерполируются по построению; убираем ошибку округления.
	out[0] = start
	out[len(out)-1] = end
	return out, nil
}

// solve находит коэффициенты: крайние равны концам, внутренние — решение
// (AᵀA + λDᵀD)c = Aᵀr − λDᵀe, где D — матрица вторых разностей.
func (f *Fitter) solve(pts []orb.Point, params, knots []float64, k int) ([]orb.Point, error) {
	m := len(pts)
	coef := make([]orb.Point, m)
	coef[0] = pts[0]
	coef[m-1] = pts[m-1]
	n := m - 2
	if n == 0 {
		return coef, nil
	}

	a := mat.NewDense(n, n, nil)
	r := mat.NewDense(n, 2, nil)
	basis := make([]float64, m)
	for i := 1; i <= n; i++ {
		evalBasis(basis, knots, k, params[i])
		for j := 1; j <= n; j++ {
			a.Set(i-1, j-1, basis[j])
		}
		for d := 0; d < 2; d++ {
			r.Set(i-1, d, pts[i][d]-basis[0]*pts[0][d]-basis[m-1]*pts[m-1][d])
		}
	}

	// Вторые разности по всем m коэффициентам: строки l = 0..m-3.
	dInt := mat.NewDense(n, n, nil)
	e := mat.NewDense(n, 2, nil)
	for l := 0; l < n; l++ {
		for off, w := range [3]float64{1, -2, 1} {
			col := l + off
			switch {
			case col == 0:
				e.Set(l, 0, e.At(l, 0)+w*pts[0][0])
				e.Set(l, 1, e.At(l, 1)+w*pts[0][1])
			case col == m-1:
				e.Set(l, 0, e.At(l, 0)+w*pts[m-1][0])
				e.Set(l, 1, e.At(l, 1)+w*pts[m-1][1])
			default:
				dInt.Set(l, col-1, w)
			}
		}
	}

	lambda := f.cfg.Smoothing
	var lhs, dtd mat.Dense
	lhs.Mul(a.T(), a)
	dtd.Mul(dInt.T(), dInt)
	dtd.Scale(lambda, &dtd)
	lhs.Add(&lhs, &dtd)

	var rhs, dte mat.Dense
	rhs.Mul(a.T(), r)
	dte.Mul(dInt.T(), e)
	dte.Scale(lambda, &dte)
	rhs.Sub(&rhs, &dte)

	sym := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			sym.SetSym(i, j, lhs.At(i, j))
		}
	}
	var chol mat.Cholesky
	if ok := chol.Factorize(sym); !ok {
		return nil, fmt.Errorf("%w: normal matrix is not positive definite", ErrDegenerate)
	}
	var c mat.Dense
	if err := chol.SolveTo(&c, &rhs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDegenerate, err)
	}
	for i := 0; i < n; i++ {
		p := orb.Point{c.At(i, 0), c.At(i, 1)}
		if !finite(p[0]) || !finite(p[1]) {
			return nil, fmt.Errorf("%w: non-finite coefficient", ErrDegenerate)
		}
		coef[i+1] = p
	}
	return coef, nil
}

// chordParams — параметризация по длине хорд, нормированная в [0, 1].
func chordParams(pts []orb.Point) ([]float64, error) {
	if len(pts) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 control points (got %d)", ErrDegenerate, len(pts))
	}
	for i, p := range pts {
		if !finite(p[0]) || !finite(p[1]) {
			return nil, fmt.Errorf("%w: control point %d is not finite", ErrDegenerate, i)
		}
	}
	u := make([]float64, len(pts))
	for i := 1; i < len(pts); i++ {
		d := planar.Distance(pts[i-1], pts[i])
		if d < minChord {
			return nil, fmt.Errorf("%w: control points %d and %d coincide", ErrDegenerate, i-1, i)
		}
		u[i] = u[i-1] + d
	}
	total := u[len(u)-1]
	for i := range u {
		u[i] /= total
	}
	u[len(u)-1] = 1
	return u, nil
}

// clampedKnots строит зажатый узловой вектор длины m+k+1 с внутренними узлами,
// усреднёнными по параметрам данных (метод де Бура).
func clampedKnots(params []float64, k int) []float64 {
	m := len(params)
	knots := make([]float64, m+k+1)
	for j := 1; j <= m-k-1; j++ {
		knots[j+k] = floats.Sum(params[j:j+k]) / float64(k)
	}
	for i := m; i < len(knots); i++ {
		knots[i] = 1
	}
	return knots
}

// evalBasis заполняет dst значениями всех m базисных функций степени k в точке u (Кокс — де Бур).
func evalBasis(dst, knots []float64, k int, u float64) {
	m := len(dst)
	for j := range dst {
		dst[j] = 0
	}
	if u >= knots[m] {
		dst[m-1] = 1
		return
	}
	if u <= knots[0] {
		dst[0] = 1
		return
	}

	// Интервал [knots[span], knots[span+1]) с ненулевой длиной.
	span := k
	for span < m-1 && u >= knots[span+1] {
		span++
	}

	n := make([]float64, k+1)
	left := make([]float64, k+1)
	right := make([]float64, k+1)
	n[0] = 1
	for d := 1; d <= k; d++ {
		left[d] = u - knots[span+1-d]
		right[d] = knots[span+d] - u
		saved := 0.0
		for r := 0; r < d; r++ {
			den := right[r+1] + left[d-r]
			tmp := 0.0
			if den != 0 {
				tmp = n[r] / den
			}
			n[r] = saved + right[r+1]*tmp
			saved = left[d-r] * tmp
		}
		n[d] = saved
	}
	for r := 0; r <= k; r++ {
		dst[span-k+r] = n[r]
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
