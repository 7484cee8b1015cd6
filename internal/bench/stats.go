package bench

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

type FloatStats struct {
	N    int
	Best float64
	Mean float64
	Std  float64
}

// CalcFloatStats — минимум, среднее и несмещённое стандартное отклонение.
func CalcFloatStats(values []float64) FloatStats {
	s := FloatStats{N: len(values)}
	if s.N == 0 {
		s.Best = math.NaN()
		s.Mean = math.NaN()
		s.Std = math.NaN()
		return s
	}

	s.Best = floats.Min(values)
	if s.N < 2 {
		s.Mean = values[0]
		return s
	}
	s.Mean, s.Std = stat.MeanStdDev(values, nil)
	return s
}
