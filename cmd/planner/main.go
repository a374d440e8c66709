package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"net/http"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/spf13/viper"

	"github.com/gridfoundry/capex-compiler/core"
	"github.com/gridfoundry/capex-compiler/internal/logging"
	"github.com/gridfoundry/capex-compiler/internal/observability"
	"github.com/gridfoundry/capex-compiler/model"
	"github.com/gridfoundry/capex-compiler/solver"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML run configuration (optional)")
	scenarioDir := flag.String("scenario", "", "scenario directory (overrides config)")
	lpPath := flag.String("lp", "", "write the compiled model in LP format to this path")
	solutionPath := flag.String("solution", "", "write primal values as CSV to this path")
	solve := flag.Bool("solve", false, "solve the compiled model with HiGHS")
	metricsAddr := flag.String("metrics-addr", "", "HTTP address for Prometheus /metrics (empty disables)")
	flag.Parse()

	log := logging.NewFromEnv()
	ctx, log := logging.WithRunLogger(context.Background(), log)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Error(ctx, "failed to load configuration", logging.String("error", err.Error()))
		os.Exit(1)
	}
	if *scenarioDir != "" {
		cfg.Scenario = *scenarioDir
	}
	if cfg.Scenario == "" {
		log.Error(ctx, "no scenario directory given (use -scenario or the config file)")
		os.Exit(1)
	}

	collector, err := observability.NewPipelineCollector(nil)
	if err != nil {
		log.Error(ctx, "failed to initialise metrics collector", logging.String("error", err.Error()))
		os.Exit(1)
	}
	solverMetrics, err := observability.NewSolverCollector(nil)
	if err != nil {
		log.Error(ctx, "failed to initialise solver metrics", logging.String("error", err.Error()))
		os.Exit(1)
	}
	var metricsSrv *http.Server
	if *metricsAddr != "" {
		metricsSrv = serveMetrics(*metricsAddr, collector, log)
	}

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), log)
	if err != nil {
		log.Error(ctx, "failed to initialise tracing", logging.String("error", err.Error()))
		os.Exit(1)
	}
	defer observability.ShutdownWithTimeout(context.Background(), shutdownTracing, log)

	if err := run(ctx, cfg, *lpPath, *solutionPath, *solve, collector, solverMetrics, log); err != nil {
		log.Error(ctx, "run failed", logging.String("error", err.Error()))
		os.Exit(1)
	}

	if metricsSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsSrv.Shutdown(shutdownCtx)
	}
}

// runConfig is the file-backed run configuration. Flags override the
// scenario path; everything else comes from here or the defaults.
type runConfig struct {
	Scenario string

	TransportHub        bool
	Retrofit            bool
	IncludeSalvageValue bool

	TimeLimit time.Duration
	Threads   int
	Presolve  string
}

func loadConfig(path string) (runConfig, error) {
	v := viper.New()
	v.SetDefault("scenario.dir", "")
	v.SetDefault("options.transport_hub", false)
	v.SetDefault("options.retrofit", false)
	v.SetDefault("options.salvage_value", false)
	v.SetDefault("solver.time_limit", "10m")
	v.SetDefault("solver.threads", 0)
	v.SetDefault("solver.presolve", "")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return runConfig{}, fmt.Errorf("read config %q: %w", path, err)
		}
	}

	return runConfig{
		Scenario:            v.GetString("scenario.dir"),
		TransportHub:        v.GetBool("options.transport_hub"),
		Retrofit:            v.GetBool("options.retrofit"),
		IncludeSalvageValue: v.GetBool("options.salvage_value"),
		TimeLimit:           v.GetDuration("solver.time_limit"),
		Threads:             v.GetInt("solver.threads"),
		Presolve:            v.GetString("solver.presolve"),
	}, nil
}

func run(ctx context.Context, cfg runConfig, lpPath, solutionPath string, solve bool,
	collector *observability.PipelineCollector, solverMetrics *observability.SolverCollector,
	log logging.Logger) error {

	opts := model.DefaultOptions()
	opts.TransportHub = cfg.TransportHub
	opts.Retrofit = cfg.Retrofit
	opts.IncludeSalvageValue = cfg.IncludeSalvageValue

	start := time.Now()
	sc, err := core.LoadScenario(cfg.Scenario, opts)
	if err != nil {
		return fmt.Errorf("load scenario: %w", err)
	}
	collector.ObserveStage(observability.StageLoad, time.Since(start))
	log.Info(ctx, "scenario loaded",
		logging.String("dir", cfg.Scenario),
		logging.Int("sets", len(sc.SetsLoaded)),
		logging.Int("params", len(sc.ParamsLoaded)),
	)

	def, err := core.BuildDefinition(opts)
	if err != nil {
		return fmt.Errorf("build definition: %w", err)
	}

	plan := core.NewCapacityPlan(sc.Index, sc.Params)
	costs := core.NewCosts(sc.Index, sc.Params, plan)
	in := core.NewInstance(sc.Index, sc.Params, sc.Topology, plan, costs, opts)

	start = time.Now()
	cm, err := core.Instantiate(def, in)
	if err != nil {
		return fmt.Errorf("instantiate: %w", err)
	}
	collector.ObserveStage(observability.StageInstantiate, time.Since(start))

	start = time.Now()
	problem, err := core.Compile(cm)
	if err != nil {
		return fmt.Errorf("compile: %w", err)
	}
	collector.ObserveStage(observability.StageCompile, time.Since(start))
	collector.SetModelSize(len(problem.Variables), len(problem.Rows), problem.NumNonzeros())
	log.Info(ctx, "model compiled",
		logging.Int("variables", len(problem.Variables)),
		logging.Int("rows", len(problem.Rows)),
		logging.Int("nonzeros", problem.NumNonzeros()),
	)

	if lpPath != "" {
		start = time.Now()
		if err := writeLPFile(lpPath, problem); err != nil {
			return fmt.Errorf("write lp: %w", err)
		}
		collector.ObserveStage(observability.StageWrite, time.Since(start))
		log.Info(ctx, "lp file written", logging.String("path", lpPath))
	}

	if !solve {
		return nil
	}

	solveCtx := ctx
	if cfg.TimeLimit > 0 {
		var cancel context.CancelFunc
		solveCtx, cancel = context.WithTimeout(ctx, cfg.TimeLimit+time.Minute)
		defer cancel()
	}

	start = time.Now()
	solverMetrics.SolveStarted()
	result, err := solver.NewHiGHS().Solve(solveCtx, problem, model.SolverOptions{
		TimeLimit: cfg.TimeLimit,
		Threads:   cfg.Threads,
		Presolve:  cfg.Presolve,
	})
	elapsed := time.Since(start)
	solverMetrics.SolveFinished()
	solverMetrics.ObserveSolve(elapsed)
	if err != nil {
		collector.RecordSolve(string(model.StatusError))
		return fmt.Errorf("solve: %w", err)
	}
	if cfg.TimeLimit > 0 && elapsed >= cfg.TimeLimit {
		solverMetrics.IncTimeLimitHits()
	}
	collector.ObserveStage(observability.StageSolve, elapsed)
	collector.RecordSolve(string(result.Status))
	if result.Status == model.StatusOptimal {
		solverMetrics.SetLastObjective(result.Objective)
	}
	log.Info(ctx, "solve finished",
		logging.String("status", string(result.Status)),
		logging.String("elapsed", elapsed.String()),
		logging.Any("objective", result.Objective),
	)

	if solutionPath != "" && result.Status == model.StatusOptimal {
		if err := writeSolutionCSV(solutionPath, result); err != nil {
			return fmt.Errorf("write solution: %w", err)
		}
		log.Info(ctx, "solution written", logging.String("path", solutionPath))
	}
	return nil
}

func writeLPFile(path string, p *model.Problem) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := solver.WriteLP(f, p); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// writeSolutionCSV dumps primal values in label order, skipping exact
// zeros to keep large solutions reviewable.
func writeSolutionCSV(path string, result *model.Result) error {
	labels := make([]string, 0, len(result.Primal))
	for label := range result.Primal {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.Write([]string{"VARIABLE", "VALUE"}); err != nil {
		f.Close()
		return err
	}
	for _, label := range labels {
		v := result.Primal[label]
		if v == 0 {
			continue
		}
		if err := w.Write([]string{label, strconv.FormatFloat(v, 'g', -1, 64)}); err != nil {
			f.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func serveMetrics(addr string, collector *observability.PipelineCollector, log logging.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())

	srv := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Warn(context.Background(), "metrics server exited", logging.String("error", err.Error()))
		}
	}()

	log.Info(context.Background(), "serving Prometheus metrics", logging.String("addr", addr))
	return srv
}
