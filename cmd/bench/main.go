package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"

	"pathPlanner/internal/bench"
	"pathPlanner/internal/monitoring"
	"pathPlanner/internal/opt"
	"pathPlanner/internal/pso"
	"pathPlanner/internal/sa"
)

// Фабрики

func newPSOFactory(cfg pso.Config) func(seed int64) opt.Optimizer {
	return func(seed int64) opt.Optimizer {
		solver, err := pso.New(cfg, rand.New(rand.NewSource(seed)))
		if err != nil {
			return nil
		}
		return solver
	}
}

func newSAFactory(cfg sa.Config) func(seed int64) opt.Optimizer {
	return func(seed int64) opt.Optimizer {
		solver, err := sa.New(cfg, rand.New(rand.NewSource(seed)))
		if err != nil {
			return nil
		}
		return solver
	}
}

func main() {
	// CLI флаги для настройки параметров роя и политики запуска
	var (
		out       = flag.String("out", "artifacts/results.csv", "путь к выходному CSV-файлу")
		obstacles = flag.String("obstacles", "1,2", "количество препятствий в сценах (через запятую)")
		algos     = flag.String("algos", "pso,sa", "алгоритмы для сравнения: pso, sa (через запятую)")
		swarms    = flag.String("swarms", "50,100", "размеры роя для сравнения (через запятую)")
		runs      = flag.Int("runs", 10, "количество запусков каждой конфигурации (с разными сидами)")
		baseSeed  = flag.Int64("seed", 1000, "базовый сид для запусков роя")
		sceneSeed = flag.Int64("scene_seed", 777, "базовый сид для генерации препятствий (фиксирован для сцены)")
		perRunTO  = flag.Duration("per_run_timeout", 0, "таймаут одного запуска; 0 — без ограничения")
		quiet     = flag.Bool("quiet", false, "не выводить журнал")

		// --- Рой частиц ---
		psoIter      = flag.Int("pso_iter", 100, "количество итераций")
		psoWaypoints = flag.Int("pso_waypoints", 4, "количество промежуточных точек пути")
		psoW         = flag.Float64("pso_w", 0.5, "коэффициент W (инерция)")
		psoC1        = flag.Float64("pso_c1", 1.5, "коэффициент C1 (когнитивный)")
		psoC2        = flag.Float64("pso_c2", 1.5, "коэффициент C2 (социальный)")
		psoSamples   = flag.Int("pso_samples", 100, "количество точек дискретизации сплайна")
		psoSmooth    = flag.Float64("pso_smoothing", 0.5, "коэффициент сглаживания сплайна")

		// --- Имитация отжига ---
		saIter  = flag.Int("sa_iter", 3000, "количество итераций")
		saT0    = flag.Float64("sa_t0", 50.0, "начальная температура")
		saTf    = flag.Float64("sa_tf", 0.01, "конечная температура")
		saAlpha = flag.Float64("sa_alpha", 0.997, "коэффициент охлаждения")
		saStep  = flag.Float64("sa_step", 0.05, "шаг сдвига точки в долях размера области")
		saNeigh = flag.String("sa_neigh", "gauss", "тип окрестности: gauss | resample")
	)
	flag.Parse()

	if *quiet {
		monitoring.SetLogger(nil)
	}

	ctx := context.Background()

	counts, err := parseInts(*obstacles)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Конфликт:", err)
		os.Exit(2)
	}
	sizes, err := parseInts(*swarms)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Конфликт:", err)
		os.Exit(2)
	}

	var cases []bench.Case
	for i, n := range counts {
		if n < 0 {
			fmt.Fprintf(os.Stderr, "Конфликт: количество препятствий должно быть >= 0 (получено %d)\n", n)
			os.Exit(2)
		}
		cases = append(cases, bench.GUICase(fmt.Sprintf("gui-%dobs", n), n, *sceneSeed+int64(i)*10_000+int64(n)))
	}

	enabled := map[string]bool{}
	for _, a := range strings.Split(*algos, ",") {
		enabled[strings.TrimSpace(a)] = true
	}

	var algorithms []bench.Algorithm
	if enabled["pso"] {
		for _, n := range sizes {
			cfg := pso.DefaultConfig()
			cfg.Iterations = *psoIter
			cfg.Particles = n
			cfg.Waypoints = *psoWaypoints
			cfg.W = *psoW
			cfg.C1 = *psoC1
			cfg.C2 = *psoC2
			cfg.Spline.Samples = *psoSamples
			cfg.Spline.Smoothing = *psoSmooth
			if err := cfg.Validate(); err != nil {
				fmt.Fprintln(os.Stderr, "Конфликт в конфигурации роя частиц:", err)
				os.Exit(2)
			}
			algorithms = append(algorithms, bench.Algorithm{Name: fmt.Sprintf("PSO-n%d", n), Factory: newPSOFactory(cfg)})
		}
	}
	if enabled["sa"] {
		cfg := sa.DefaultConfig()
		cfg.Iterations = *saIter
		cfg.Waypoints = *psoWaypoints
		cfg.InitialTemp = *saT0
		cfg.FinalTemp = *saTf
		cfg.Alpha = *saAlpha
		cfg.Step = *saStep
		cfg.Neighborhood = sa.Neighborhood(*saNeigh)
		cfg.Spline.Samples = *psoSamples
		cfg.Spline.Smoothing = *psoSmooth
		if err := cfg.Validate(); err != nil {
			fmt.Fprintln(os.Stderr, "Конфликт в конфигурации имитации отжига:", err)
			os.Exit(2)
		}
		algorithms = append(algorithms, bench.Algorithm{Name: "SA-" + string(cfg.Neighborhood), Factory: newSAFactory(cfg)})
	}
	if len(algorithms) == 0 {
		fmt.Fprintf(os.Stderr, "Конфликт: не выбран ни один алгоритм (%q)\n", *algos)
		os.Exit(2)
	}

	runner := bench.Runner{
		Runs:          *runs,
		BaseSeed:      *baseSeed,
		PerRunTimeout: *perRunTO,
	}

	var records []bench.Record
	for _, c := range cases {
		for _, a := range algorithms {
			monitoring.Logf("Запущен алгоритм %s; сцена %s (общее кол-во запусков=%d)...", a.Name, c.Name, runner.Runs)

			rec, err := runner.RunCase(ctx, c, a)
			if err != nil {
				fmt.Fprintln(os.Stderr, "Ошибка:", err)
				os.Exit(1)
			}
			records = append(records, rec)

			monitoring.Logf("  Путь найден: %d/%d | Длина: лучшая=%.2f средняя=%.2f отклонение=%.2f | Время: среднее=%.2fms отклонение=%.2fms",
				rec.Found, rec.Runs,
				rec.CostBest, rec.CostMean, rec.CostStd,
				rec.TimeMeanMs, rec.TimeStdMs,
			)
		}
	}

	if err := bench.WriteCSV(*out, records); err != nil {
		fmt.Fprintln(os.Stderr, "Ошибка при записи в CSV:", err)
		os.Exit(1)
	}
	fmt.Println("Saved:", *out)
}

// helpers

func parseInts(s string) ([]int, error) {
	var out []int
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("значение %q: %w", p, err)
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("пустой список %q", s)
	}
	return out, nil
}
