package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/paulmach/orb"

	"pathPlanner/internal/config"
	"pathPlanner/internal/monitoring"
	"pathPlanner/internal/planner"
	"pathPlanner/internal/replan"
	"pathPlanner/internal/report"
	"pathPlanner/internal/scene"
	"pathPlanner/internal/sim"
	"pathPlanner/internal/store"
)

// boundsPad — отступ области поиска вокруг start/end, как в форме ввода.
const boundsPad = 10

func main() {
	var (
		sx         = flag.Float64("sx", 10, "начальная точка: X")
		sy         = flag.Float64("sy", 10, "начальная точка: Y")
		ex         = flag.Float64("ex", 90, "конечная точка: X")
		ey         = flag.Float64("ey", 90, "конечная точка: Y")
		obstacles  = flag.Int("obstacles", 2, "количество препятствий (1 или 2)")
		iterations = flag.Int("iter", 300, "максимальное количество итераций роя")
		seed       = flag.Int64("seed", 1, "сид генератора случайных чисел")
		cfgPath    = flag.String("config", "", "путь к JSON-файлу конфигурации (необязательно)")
		outDir     = flag.String("out", "artifacts", "каталог для PNG и HTML")
		dbPath     = flag.String("db", "", "путь к SQLite базе истории запусков (пусто — не сохранять)")
		simulate   = flag.Bool("simulate", true, "исполнить путь с перепланированием")
		quiet      = flag.Bool("quiet", false, "не выводить журнал итераций")
	)
	flag.Parse()

	if *quiet {
		monitoring.SetLogger(nil)
	}

	if *obstacles != 1 && *obstacles != 2 {
		fmt.Fprintln(os.Stderr, "Конфликт: поддерживается только 1 или 2 препятствия")
		os.Exit(2)
	}

	settings := config.Defaults()
	if *cfgPath != "" {
		f, err := config.Load(*cfgPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Конфликт в конфигурации:", err)
			os.Exit(2)
		}
		if settings, err = f.Apply(settings); err != nil {
			fmt.Fprintln(os.Stderr, "Конфликт в конфигурации:", err)
			os.Exit(2)
		}
	}

	start := orb.Point{*sx, *sy}
	end := orb.Point{*ex, *ey}
	bx, by := planner.DefaultBounds(start, end, boundsPad)
	req := planner.Request{
		Start:      start,
		End:        end,
		Obstacles:  *obstacles,
		Iterations: *iterations,
		BoundsX:    bx,
		BoundsY:    by,
	}

	p, err := planner.New(settings.Planner, rand.New(rand.NewSource(*seed)))
	if err != nil {
		fmt.Fprintln(os.Stderr, "Конфликт в конфигурации:", err)
		os.Exit(2)
	}
	p.Observer = monitoring.IterationLogger(req.Iterations)

	ctx := context.Background()
	sess, err := p.Plan(ctx, req)
	if err != nil {
		if errors.Is(err, scene.ErrInvalid) {
			fmt.Fprintln(os.Stderr, "Некорректные входные данные:", err)
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "Ошибка:", err)
		os.Exit(1)
	}

	var st *store.Store
	if *dbPath != "" {
		st, err = store.Open(*dbPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Ошибка при открытии базы:", err)
			os.Exit(1)
		}
		defer st.Close()
		saveRun(st, store.RunFromSession(sess, store.KindPlan, "", *seed))
	}

	if err := writeConvergence(filepath.Join(*outDir, "convergence.html"), sess.Result.History); err != nil {
		fmt.Fprintln(os.Stderr, "Ошибка при записи графика сходимости:", err)
	}

	if !sess.Result.Found() {
		_ = report.RenderScene(filepath.Join(*outDir, "scene.png"), sess, nil)
		fmt.Fprintln(os.Stderr, "Допустимый путь не найден.")
		os.Exit(1)
	}
	fmt.Printf("Path Cost: %.2f @ Iter %d (obstacles=%d)\n", sess.Result.Cost, sess.Result.Iteration, sess.Scene.Field.Len())

	var trace *sim.Trace
	if *simulate {
		tr := replan.New(p)
		tr.Iterations = settings.ReplanIterations
		tr.Policy = settings.FieldPolicy
		p.Observer = nil

		executor := sim.New(tr)
		executor.MaxReplans = settings.MaxReplans
		trace, err = executor.Run(ctx, sess)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Ошибка исполнения:", err)
			os.Exit(1)
		}
		if st != nil {
			parent := sess.ID
			for _, rs := range trace.Replans {
				saveRun(st, store.RunFromSession(rs, store.KindReplan, parent, *seed))
				parent = rs.ID
			}
			if trace.Failed != nil {
				saveRun(st, store.RunFromSession(trace.Failed, store.KindReplan, parent, *seed))
			}
		}
		fmt.Printf("Execution: %s after %d frames, replans=%d\n", trace.Outcome, trace.Frames, len(trace.Replans))
	}

	if err := report.RenderScene(filepath.Join(*outDir, "scene.png"), sess, trace); err != nil {
		fmt.Fprintln(os.Stderr, "Ошибка при записи PNG:", err)
		os.Exit(1)
	}
	fmt.Println("Saved:", *outDir)

	if trace != nil && trace.Outcome != sim.OutcomeArrived {
		os.Exit(1)
	}
}

func saveRun(st *store.Store, r *store.Run) {
	if err := st.InsertRun(r); err != nil {
		monitoring.Logf("failed to store run %s: %v", r.RunID, err)
	}
}

func writeConvergence(path string, history []float64) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return report.WriteConvergence(f, history)
}
