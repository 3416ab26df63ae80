package engine_test

import (
	"bufio"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/daryltucker/mccabe-thiele/internal/config"
	"github.com/daryltucker/mccabe-thiele/internal/engine"
	"github.com/daryltucker/mccabe-thiele/internal/model"
	"github.com/daryltucker/mccabe-thiele/internal/vle"
)

type memWriter struct {
	mu      sync.Mutex
	results []model.Result
}

func (m *memWriter) Write(r model.Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(m.results, r)
	return nil
}

type failingWriter struct{}

func (failingWriter) Write(model.Result) error { return errors.New("disk full") }

func TestRunnerRun(t *testing.T) {
	base := defaultParams()
	stalled := base
	stalled.RFactor = 0.999
	invalid := base
	invalid.XD = 1.2

	cases := []config.Case{
		{Name: "base", Parameters: base},
		{Name: "stalled", Parameters: stalled},
		{Name: "invalid", Parameters: invalid},
	}

	mem := &memWriter{}
	results, sum := engine.NewRunner(vle.DefaultCurve(), mem, failingWriter{}).Run(cases)

	want := engine.Summary{Converged: 1, StageLimited: 1, Failed: 1}
	if sum != want {
		t.Errorf("expected summary %+v, got %+v", want, sum)
	}
	if sum.Total() != 3 {
		t.Errorf("expected 3 cases, got %d", sum.Total())
	}
	if len(results) != 3 || len(mem.results) != 3 {
		t.Fatalf("expected 3 results returned and written, got %d and %d", len(results), len(mem.results))
	}
	for i, c := range cases {
		if results[i].Name != c.Name {
			t.Errorf("result %d: expected name %q, got %q", i, c.Name, results[i].Name)
		}
	}

	failed := results[2]
	if failed.Status != model.StatusError || !strings.Contains(failed.Error, "invalid process parameters") {
		t.Errorf("expected an error result, got status=%s error=%q", failed.Status, failed.Error)
	}
	if failed.Parameters != invalid {
		t.Errorf("error result must carry its parameters, got %+v", failed.Parameters)
	}
}

func TestRunBatch(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.OutputDir = filepath.Join(t.TempDir(), "out")
	cfg.OutputFile = "results.csv"
	cfg.Cases = []map[string]float64{
		{"r_factor": 1.2},
		{"r_factor": 2, "nm": 0.8},
		{"xd": 0.05},
	}

	sum, err := engine.RunBatch(cfg, vle.DefaultCurve())
	if err != nil {
		t.Fatalf("RunBatch: %v", err)
	}
	if sum.Converged != 2 || sum.Failed != 1 {
		t.Errorf("unexpected summary %+v", sum)
	}

	f, err := os.Open(filepath.Join(cfg.OutputDir, "results.csv"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected header plus 3 rows, got %d rows", len(rows))
	}
	if rows[1][0] != "case-1 r_factor=1.2" || rows[1][1] != string(model.StatusConverged) {
		t.Errorf("unexpected first row %v", rows[1])
	}

	jf, err := os.Open(filepath.Join(cfg.OutputDir, "results.jsonl"))
	if err != nil {
		t.Fatal(err)
	}
	defer jf.Close()
	lines := 0
	sc := bufio.NewScanner(jf)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		lines++
	}
	if err := sc.Err(); err != nil {
		t.Fatal(err)
	}
	if lines != 3 {
		t.Errorf("expected 3 JSON lines, got %d", lines)
	}
}

func TestJSONLName(t *testing.T) {
	tests := map[string]string{
		"results.csv":  "results.jsonl",
		"results":      "results.jsonl",
		"run.2024.csv": "run.2024.jsonl",
	}
	for in, want := range tests {
		if got := engine.JSONLName(in); got != want {
			t.Errorf("JSONLName(%q): expected %q, got %q", in, want, got)
		}
	}
}

func TestFactors(t *testing.T) {
	got := engine.Factors(1, 2, 4)
	want := []float64{1, 1.25, 1.5, 1.75, 2}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("factor %d: expected %v, got %v", i, want[i], got[i])
		}
	}
	if got := engine.Factors(1.3, 2, 0); len(got) != 1 || got[0] != 1.3 {
		t.Errorf("zero steps: expected [1.3], got %v", got)
	}
}

func TestSweep(t *testing.T) {
	mem := &memWriter{}
	var seen int
	results, err := engine.Sweep(vle.DefaultCurve(), defaultParams(), []float64{1.05, 1.5, 3}, func(model.Result) { seen++ }, mem)
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if len(results) != 3 || seen != 3 || len(mem.results) != 3 {
		t.Fatalf("expected 3 results, progress calls and writes, got %d, %d, %d", len(results), seen, len(mem.results))
	}
	if results[1].Name != "r_factor=1.5" || results[1].Parameters.RFactor != 1.5 {
		t.Errorf("unexpected second point %q (r_factor %v)", results[1].Name, results[1].Parameters.RFactor)
	}
	for i := 1; i < len(results); i++ {
		if results[i].R <= results[i-1].R {
			t.Errorf("R must grow with r_factor: %v then %v", results[i-1].R, results[i].R)
		}
		if results[i].Stages > results[i-1].Stages {
			t.Errorf("stages must not grow with r_factor: %d then %d", results[i-1].Stages, results[i].Stages)
		}
	}
}

func TestSweepRejectsInvalidBase(t *testing.T) {
	p := defaultParams()
	p.NM = 2
	calls := 0
	_, err := engine.Sweep(vle.DefaultCurve(), p, engine.Factors(1, 2, 10), func(model.Result) { calls++ })
	if !errors.Is(err, engine.ErrInvalidParameters) {
		t.Errorf("expected ErrInvalidParameters, got %v", err)
	}
	if calls != 0 {
		t.Errorf("no point should run for an invalid base, got %d", calls)
	}
}
