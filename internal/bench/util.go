package bench

import (
	"math"
	"math/rand"
	"path/filepath"
	"strconv"

	"github.com/paulmach/orb"
)

// GUICase — сценарий по умолчанию из формы ввода: (10,10)→(90,90), область с отступом 10.
func GUICase(name string, obstacles int, seed int64) Case {
	return Case{
		Name:      name,
		Start:     orb.Point{10, 10},
		End:       orb.Point{90, 90},
		Obstacles: obstacles,
		BoundsX:   [2]float64{0, 100},
		BoundsY:   [2]float64{0, 100},
		RadiusMin: 5,
		RadiusMax: 15,
		SceneSeed: seed,
	}
}

func randForSeed(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func dirOf(path string) string {
	d := filepath.Dir(path)
	if d == "." {
		return ""
	}
	return d
}

func itoa(v int) string { return strconv.Itoa(v) }

// ftoa пишет пустую ячейку для NaN (нет ни одного найденного пути).
func ftoa(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', 6, 64)
}
