package pso

import (
	"fmt"

	"pathPlanner/internal/spline"
)

type Config struct {
	Iterations int

	Particles int
	Waypoints int

	W  float64
	C1 float64
	C2 float64

	// InitVelocity — начальные скорости берутся из [-InitVelocity, InitVelocity].
	InitVelocity float64

	Spline spline.Config
}

func DefaultConfig() Config {
	return Config{
		Iterations: 300,

		Particles: 100,
		Waypoints: 4,

		W:  0.5,
		C1: 1.5,
		C2: 1.5,

		InitVelocity: 1.0,

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
	if c.Particles <= 0 {
		return fmt.Errorf(
			"Particles должно быть > 0 (получено %d)",
			c.Particles,
		)
	}
	if c.Waypoints <= 0 {
		return fmt.Errorf(
			"Waypoints должно быть > 0 (получено %d)",
			c.Waypoints,
		)
	}
	if c.W < 0 {
		return fmt.Errorf(
			"W должно быть >= 0 (получено %f)",
			c.W,
		)
	}
	if c.C1 < 0 || c.C2 < 0 {
		return fmt.Errorf(
			"C1 и C2 должны быть >= 0 (получено %f, %f)",
			c.C1,
			c.C2,
		)
	}
	if c.InitVelocity < 0 {
		return fmt.Errorf(
			"InitVelocity должно быть >= 0 (получено %f)",
			c.InitVelocity,
		)
	}
	return c.Spline.Validate()
}
