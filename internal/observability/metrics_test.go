package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func TestPipelineCollectorRecordsStages(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewPipelineCollector(reg)
	if err != nil {
		t.Fatalf("NewPipelineCollector: %v", err)
	}

	collector.ObserveStage(StageInstantiate, 120*time.Millisecond)
	collector.ObserveStage(StageCompile, 40*time.Millisecond)
	collector.ObserveStage(StageCompile, 35*time.Millisecond)

	if count := histogramSampleCount(t, reg, "compile_stage_duration_seconds", map[string]string{
		"stage": StageCompile,
	}); count != 2 {
		t.Fatalf("compile stage sample_count = %d, want 2", count)
	}
	if count := histogramSampleCount(t, reg, "compile_stage_duration_seconds", map[string]string{
		"stage": StageInstantiate,
	}); count != 1 {
		t.Fatalf("instantiate stage sample_count = %d, want 1", count)
	}
}

func TestPipelineCollectorCountsSolvesByStatus(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewPipelineCollector(reg)
	if err != nil {
		t.Fatalf("NewPipelineCollector: %v", err)
	}

	collector.RecordSolve("optimal")
	collector.RecordSolve("optimal")
	collector.RecordSolve("infeasible")

	if got := testutil.ToFloat64(collector.SolvesTotal.WithLabelValues("optimal")); got != 2 {
		t.Fatalf("solver_solves_total{status=optimal} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(collector.SolvesTotal.WithLabelValues("infeasible")); got != 1 {
		t.Fatalf("solver_solves_total{status=infeasible} = %v, want 1", got)
	}
}

func TestMetricsHandlerExposesModelGauges(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewPipelineCollector(reg)
	if err != nil {
		t.Fatalf("NewPipelineCollector: %v", err)
	}
	collector.SetModelSize(1200, 800, 5400)
	collector.RecordSolve("optimal")
	collector.ObserveStage(StageLoad, 5*time.Millisecond)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("/metrics status = %d, want 200", rr.Code)
	}
	body := rr.Body.String()
	for _, metric := range []string{
		"compile_stage_duration_seconds",
		"solver_solves_total",
		"model_variables",
		"model_rows",
		"model_nonzeros",
	} {
		if !strings.Contains(body, metric) {
			t.Fatalf("expected %q in /metrics output", metric)
		}
	}
	if !strings.Contains(body, "model_variables 1200") {
		t.Fatalf("/metrics output missing model_variables value: %s", body)
	}
	if !strings.Contains(body, "model_nonzeros 5400") {
		t.Fatalf("/metrics output missing model_nonzeros value: %s", body)
	}
}

func TestSolverCollectorTracksInFlight(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewSolverCollector(reg)
	if err != nil {
		t.Fatalf("NewSolverCollector: %v", err)
	}

	collector.SolveStarted()
	if got := testutil.ToFloat64(collector.SolvesInFlight); got != 1 {
		t.Fatalf("solver_solves_in_flight = %v, want 1", got)
	}
	collector.ObserveSolve(2 * time.Second)
	collector.SetLastObjective(137.5)
	collector.SolveFinished()

	if got := testutil.ToFloat64(collector.SolvesInFlight); got != 0 {
		t.Fatalf("solver_solves_in_flight = %v, want 0", got)
	}
	if got := testutil.ToFloat64(collector.LastObjective); got != 137.5 {
		t.Fatalf("solver_last_objective = %v, want 137.5", got)
	}
	if count := histogramSampleCount(t, reg, "solver_solve_duration_seconds", nil); count != 1 {
		t.Fatalf("solver_solve_duration_seconds sample_count = %d, want 1", count)
	}
}

func TestCollectorsTolerateReregistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewPipelineCollector(reg); err != nil {
		t.Fatalf("first NewPipelineCollector: %v", err)
	}
	if _, err := NewPipelineCollector(reg); err != nil {
		t.Fatalf("second NewPipelineCollector: %v", err)
	}
}

func histogramSampleCount(t *testing.T, gatherer prometheus.Gatherer, name string, labels map[string]string) uint64 {
	t.Helper()

	metrics, err := gatherer.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	for _, mf := range metrics {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.Metric {
			if matchLabels(m.GetLabel(), labels) && m.GetHistogram() != nil {
				return m.GetHistogram().GetSampleCount()
			}
		}
	}
	return 0
}

func matchLabels(got []*dto.LabelPair, want map[string]string) bool {
	if len(got) < len(want) {
		return false
	}
	matched := 0
	for _, lp := range got {
		if val, ok := want[lp.GetName()]; ok && val == lp.GetValue() {
			matched++
		}
	}
	return matched == len(want)
}
