package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/daryltucker/mccabe-thiele/internal/model"
	"github.com/daryltucker/mccabe-thiele/internal/output"
	"github.com/spf13/pflag"
)

// execute runs the root command with args from a clean flag state in an
// empty working directory and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	chdirForTest(t, t.TempDir())

	prev := output.Logger
	t.Cleanup(func() { output.SetLogger(prev) })

	reset := func(fs *pflag.FlagSet) {
		fs.VisitAll(func(f *pflag.Flag) {
			f.Value.Set(f.DefValue)
			f.Changed = false
		})
	}
	reset(rootCmd.PersistentFlags())
	for _, c := range rootCmd.Commands() {
		reset(c.Flags())
	}

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	_, err := rootCmd.ExecuteC()
	return stdout.String(), err
}

func writeTable(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "table.csv")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCalcSummary(t *testing.T) {
	out, err := execute(t, "calc")
	if err != nil {
		t.Fatalf("calc: %v", err)
	}
	for _, want := range []string{"R_min:            0.434", "Stages:           6", "Feed stage:       4"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestCalcJSON(t *testing.T) {
	out, err := execute(t, "calc", "--json", "--plot=false", "--xd", "0.95", "--xb", "0.05", "--r-factor", "1.3")
	if err != nil {
		t.Fatalf("calc: %v", err)
	}
	var res model.Result
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if res.Status != model.StatusConverged || res.Stages != 10 || res.FeedStage != 7 {
		t.Errorf("unexpected result status=%s stages=%d feed=%d", res.Status, res.Stages, res.FeedStage)
	}
	if res.Parameters.XD != 0.95 || res.Parameters.ZF != 0.5 {
		t.Errorf("flags not applied over defaults: %+v", res.Parameters)
	}
	if res.Plot != nil {
		t.Error("--plot=false must drop the plot")
	}
}

func TestCalcInfeasible(t *testing.T) {
	table := writeTable(t, "x,y\n0,0\n0.3,0.5\n0.7,0.6\n1,1\n")
	out, err := execute(t, "calc", "--table", table)
	if err == nil || !strings.Contains(err.Error(), "azeotrope") {
		t.Errorf("expected an azeotrope error, got %v", err)
	}
	if !strings.Contains(out, "Azeotrope Error") || !strings.Contains(out, "0.567") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestAzeotropesCommand(t *testing.T) {
	out, err := execute(t, "azeotropes")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != "No azeotropes found" {
		t.Errorf("unexpected output %q", out)
	}

	table := writeTable(t, "0,0\n0.3,0.5\n0.7,0.6\n1,1\n")
	out, err = execute(t, "azeotropes", "--table", table)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "- x = 0.566667") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestTableCommand(t *testing.T) {
	out, err := execute(t, "table", "--alpha", "2", "--samples", "3")
	if err != nil {
		t.Fatal(err)
	}
	want := "x,y\n0,0\n0.5,0.6666666666666666\n1,1\n"
	if out != want {
		t.Errorf("expected\n%s\ngot\n%s", want, out)
	}
}

func TestRunCommand(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, "run", "-o", dir, "--output-file", "batch.csv")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "1 cases: 1 converged") {
		t.Errorf("unexpected summary %q", out)
	}
	for _, name := range []string{"batch.csv", "batch.jsonl"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected %s: %v", name, err)
		}
	}
}

func TestSweepCommand(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, "sweep", "--from", "1.2", "--to", "2", "--steps", "2", "--progress=false", "--out", filepath.Join(dir, "s.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header plus 3 rows, got:\n%s", out)
	}
	if !strings.Contains(lines[2], "1.6000") || !strings.Contains(lines[2], "converged") {
		t.Errorf("unexpected middle row %q", lines[2])
	}
}

func TestUnknownLogLevel(t *testing.T) {
	if _, err := execute(t, "calc", "--log-level", "loud"); err == nil {
		t.Error("expected an error for an unknown log level")
	}
}

// chdirForTest changes the working directory for the duration of the test,
// restoring it on cleanup (equivalent to testing.T.Chdir from Go 1.24).
func chdirForTest(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
