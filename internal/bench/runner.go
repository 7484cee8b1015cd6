package bench

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/paulmach/orb"

	"pathPlanner/internal/opt"
	"pathPlanner/internal/scene"
)

type Algorithm struct {
	Name    string
	Factory func(seed int64) opt.Optimizer
}

// Case — сцена бенчмарка; поле препятствий фиксировано сидом SceneSeed.
type Case struct {
	Name      string
	Start     orb.Point
	End       orb.Point
	Obstacles int
	BoundsX   [2]float64
	BoundsY   [2]float64
	RadiusMin float64
	RadiusMax float64
	SceneSeed int64
}

type Record struct {
	Algo      string
	Case      string
	Obstacles int
	Runs      int
	Found     int

	TimeBestMs float64
	TimeMeanMs float64
	TimeStdMs  float64

	CostBest float64
	CostMean float64
	CostStd  float64

	IterMean float64
}

type Runner struct {
	Runs          int
	BaseSeed      int64
	PerRunTimeout time.Duration // 0 = no timeout
}

// Scene строит сцену случая; одинаковый SceneSeed даёт одинаковые препятствия.
func (c Case) Scene() (*scene.Scene, error) {
	field, err := scene.Generate(c.Obstacles, c.RadiusMin, c.RadiusMax, c.Start, c.End, scene.DefaultMotion(), randForSeed(c.SceneSeed))
	if err != nil {
		return nil, err
	}
	return scene.NewScene(c.Start, c.End, scene.BoundsXY(c.BoundsX, c.BoundsY), field)
}

func (r Runner) RunCase(ctx context.Context, c Case, algo Algorithm) (Record, error) {
	sc, err := c.Scene()
	if err != nil {
		return Record{}, fmt.Errorf("case %s: %w", c.Name, err)
	}

	costs := make([]float64, 0, r.Runs)
	iters := make([]float64, 0, r.Runs)
	timesMs := make([]float64, 0, r.Runs)

	for i := 0; i < r.Runs; i++ {
		runSeed := r.BaseSeed + int64(i)

		op := algo.Factory(runSeed)
		if op == nil {
			return Record{}, fmt.Errorf("run %d: factory returned nil optimizer", i)
		}

		runCtx := ctx
		cancel := func() {}
		if r.PerRunTimeout > 0 {
			runCtx, cancel = context.WithTimeout(ctx, r.PerRunTimeout)
		}
		start := time.Now()
		res, err := op.Optimize(runCtx, sc)
		dur := time.Since(start)
		cancel()

		if err != nil && runCtx.Err() != nil {
			return Record{}, fmt.Errorf("run %d: cancelled/timeout: %w", i, err)
		}
		if err != nil {
			return Record{}, fmt.Errorf("run %d: optimize error: %w", i, err)
		}

		if res.Found() {
			costs = append(costs, res.Cost)
			iters = append(iters, float64(res.Iteration))
		}
		timesMs = append(timesMs, float64(dur.Microseconds())/1000.0)
	}

	cStats := CalcFloatStats(costs)
	tStats := CalcFloatStats(timesMs)
	iStats := CalcFloatStats(iters)

	return Record{
		Algo:      algo.Name,
		Case:      c.Name,
		Obstacles: sc.Field.Len(),
		Runs:      r.Runs,
		Found:     len(costs),

		TimeBestMs: tStats.Best,
		TimeMeanMs: tStats.Mean,
		TimeStdMs:  tStats.Std,

		CostBest: cStats.Best,
		CostMean: cStats.Mean,
		CostStd:  cStats.Std,

		IterMean: iStats.Mean,
	}, nil
}

func WriteCSV(path string, records []Record) error {
	if d := dirOf(path); d != "" {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"algo", "case", "obstacles", "runs", "found",
		"time_best_ms", "time_mean_ms", "time_std_ms",
		"cost_best", "cost_mean", "cost_std", "iter_mean",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range records {
		row := []string{
			r.Algo,
			r.Case,
			itoa(r.Obstacles),
			itoa(r.Runs),
			itoa(r.Found),

			ftoa(r.TimeBestMs),
			ftoa(r.TimeMeanMs),
			ftoa(r.TimeStdMs),

			ftoa(r.CostBest),
			ftoa(r.CostMean),
			ftoa(r.CostStd),
			ftoa(r.IterMean),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
