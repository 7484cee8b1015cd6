package sa

import (
	"fmt"

	"pathPlanner/internal/spline"
)

// Тип окрестности
type Neighborhood string

const (
	// NeighborhoodGauss сдвигает одну промежуточную точку на гауссов шаг.
	NeighborhoodGauss Neighborhood = "gauss"
	// NeighborhoodResample заново разыгрывает одну промежуточную точку в области поиска.
	NeighborhoodResample Neighborhood = "resample"
)

type Config struct {
	Iterations int
	Waypoints  int

	InitialTemp float64
	FinalTemp   float64
	Alpha       float64

	// Step — стандартное отклонение гауссова шага в долях размера области.
	Step float64

	Neighborhood Neighborhood

	Spline spline.Config
}

func DefaultConfig() Config {
	return Config{
		Iterations: 3000,
		Waypoints:  4,

		InitialTemp: 50.0,
		FinalTemp:   0.01,
		Alpha:       0.997,

		Step: 0.05,

		Neighborhood: NeighborhoodGauss,

		Spline: spline.DefaultConfig(),
	}
}

func (c Config) Validate() error {
	if c.Iterations <= 0 {
		return fmt.Errorf(
			"Iterations должно быть > 0 (получено %d)",
			c.Iterations,
		)
	}
	if c.Waypoints <= 0 {
		return fmt.Errorf(
			"Waypoints должно быть > 0 (получено %d)",
			c.Waypoints,
		)
	}
	if c.InitialTemp <= 0 {
		return fmt.Errorf(
			"InitialTemp должно быть > 0 (получено %f)",
			c.InitialTemp,
		)
	}
	if c.FinalTemp <= 0 {
		return fmt.Errorf(
			"FinalTemp должно быть > 0 (получено %f)",
			c.FinalTemp,
		)
	}
	if c.FinalTemp >= c.InitialTemp {
		return fmt.Errorf(
			"FinalTemp должно быть < InitialTemp (получено %f >= %f)",
			c.FinalTemp,
			c.InitialTemp,
		)
	}
	if c.Alpha <= 0 || c.Alpha >= 1 {
		return fmt.Errorf(
			"alpha должно лежать в интервале (0,1) (получено %f)",
			c.Alpha,
		)
	}
	if c.Step <= 0 {
		return fmt.Errorf(
			"Step должно быть > 0 (получено %f)",
			c.Step,
		)
	}
	switch c.Neighborhood {
	case NeighborhoodGauss, NeighborhoodResample:
		// ok
	default:
		return fmt.Errorf(
			"неизвестный тип окрестности %q",
			c.Neighborhood,
		)
	}
	return c.Spline.Validate()
}
