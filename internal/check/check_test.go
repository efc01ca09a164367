package check

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/suykerbuyk/fitcalc/internal/archive"
	"github.com/suykerbuyk/fitcalc/internal/calc"
	"github.com/suykerbuyk/fitcalc/internal/config"
	"github.com/suykerbuyk/fitcalc/internal/ledger"
	"github.com/suykerbuyk/fitcalc/internal/session"
)

func TestCheckConfig(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	r := CheckConfig()
	if r.Status != Pass || !strings.Contains(r.Detail, "defaults") {
		t.Errorf("missing config: got %s: %s", r.Status, r.Detail)
	}

	os.MkdirAll(filepath.Join(dir, "fitcalc"), 0o755)
	os.WriteFile(filepath.Join(dir, "fitcalc", "config.toml"), []byte(`state_dir = "/x"`), 0o644)

	r = CheckConfig()
	if r.Status != Pass || strings.Contains(r.Detail, "defaults") {
		t.Errorf("present config: got %s: %s", r.Status, r.Detail)
	}
}

func TestCheckStateDir_Pass(t *testing.T) {
	r := CheckStateDir(t.TempDir())
	if r.Status != Pass {
		t.Errorf("expected Pass, got %s: %s", r.Status, r.Detail)
	}
}

func TestCheckStateDir_Warn(t *testing.T) {
	r := CheckStateDir("/nonexistent/state")
	if r.Status != Warn {
		t.Errorf("expected Warn, got %s: %s", r.Status, r.Detail)
	}
}

func TestCheckStateDir_NotADir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	os.WriteFile(path, []byte("x"), 0o644)

	r := CheckStateDir(path)
	if r.Status != Fail {
		t.Errorf("expected Fail, got %s: %s", r.Status, r.Detail)
	}
}

func TestCheckStateFile_Pass(t *testing.T) {
	path := filepath.Join(t.TempDir(), session.StateFile)
	st := session.New()
	st.Update(7, calc.Square)
	st.Update(3, calc.Cube)
	if err := st.Save(path); err != nil {
		t.Fatal(err)
	}

	r := CheckStateFile(path)
	if r.Status != Pass {
		t.Errorf("expected Pass, got %s: %s", r.Status, r.Detail)
	}
	if r.Detail != "state.json (active, 2 history entries)" {
		t.Errorf("unexpected detail: %s", r.Detail)
	}
}

func TestCheckStateFile_Warn(t *testing.T) {
	r := CheckStateFile(filepath.Join(t.TempDir(), session.StateFile))
	if r.Status != Warn {
		t.Errorf("expected Warn, got %s: %s", r.Status, r.Detail)
	}
}

func TestCheckStateFile_Fail(t *testing.T) {
	path := filepath.Join(t.TempDir(), session.StateFile)
	os.WriteFile(path, []byte("{bad json"), 0o644)

	r := CheckStateFile(path)
	if r.Status != Fail {
		t.Errorf("expected Fail, got %s: %s", r.Status, r.Detail)
	}
}

func TestCheckLedger(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), ledger.FileName)

	r := CheckLedger(ctx, path, config.LedgerConfig{Enabled: false})
	if r.Status != Pass || r.Detail != "disabled" {
		t.Errorf("disabled: got %s: %s", r.Status, r.Detail)
	}

	r = CheckLedger(ctx, path, config.LedgerConfig{Enabled: true})
	if r.Status != Warn {
		t.Errorf("missing: expected Warn, got %s: %s", r.Status, r.Detail)
	}
	if _, err := os.Stat(path); err == nil {
		t.Error("check should not create the ledger")
	}

	l, err := ledger.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	l.RecordCalculation(ctx, calc.Result{Kind: calc.Factorial, Input: 5, Value: 120}, time.Now())
	l.Close()

	r = CheckLedger(ctx, path, config.LedgerConfig{Enabled: true})
	if r.Status != Pass {
		t.Errorf("expected Pass, got %s: %s", r.Status, r.Detail)
	}
	if !strings.Contains(r.Detail, "1 calculations, 0 fits") {
		t.Errorf("unexpected detail: %s", r.Detail)
	}
}

func TestCheckArchive(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "archive")

	r := CheckArchive(dir, config.ArchiveConfig{Enabled: false})
	if r.Detail != "disabled" {
		t.Errorf("disabled: got %s", r.Detail)
	}

	r = CheckArchive(dir, config.ArchiveConfig{Enabled: true, Compress: true})
	if r.Status != Pass || r.Detail != "0 snapshots, zstd" {
		t.Errorf("empty: got %s: %s", r.Status, r.Detail)
	}

	if _, err := archive.Save([]string{"input=1, type=square"}, dir, false, time.Now()); err != nil {
		t.Fatal(err)
	}
	r = CheckArchive(dir, config.ArchiveConfig{Enabled: true})
	if r.Detail != "1 snapshots, plain" {
		t.Errorf("unexpected detail: %s", r.Detail)
	}
}

func TestCheckSubmit(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.SubmitConfig
		want Status
	}{
		{"disabled", config.SubmitConfig{}, Pass},
		{"ok", config.SubmitConfig{Enabled: true, URL: "https://api.example.com/save_results"}, Pass},
		{"empty url", config.SubmitConfig{Enabled: true}, Fail},
		{"bad scheme", config.SubmitConfig{Enabled: true, URL: "ftp://example.com"}, Fail},
		{"no host", config.SubmitConfig{Enabled: true, URL: "http://"}, Fail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := CheckSubmit(tt.cfg)
			if r.Status != tt.want {
				t.Errorf("got %s: %s, want %s", r.Status, r.Detail, tt.want)
			}
		})
	}
}

func TestCheckRunner(t *testing.T) {
	r := CheckRunner(config.RunnerConfig{Interpreter: "definitely-not-an-interpreter-xyz"})
	if r.Status != Warn {
		t.Errorf("expected Warn, got %s: %s", r.Status, r.Detail)
	}

	r = CheckRunner(config.RunnerConfig{})
	if r.Status != Warn {
		t.Errorf("empty: expected Warn, got %s", r.Status)
	}
}

func TestReport_HasFailures(t *testing.T) {
	r := Report{Results: []Result{
		{Name: "a", Status: Pass},
		{Name: "b", Status: Fail},
	}}
	if !r.HasFailures() {
		t.Error("expected HasFailures() == true")
	}

	r = Report{Results: []Result{
		{Name: "a", Status: Pass},
		{Name: "b", Status: Warn},
	}}
	if r.HasFailures() {
		t.Error("expected HasFailures() == false")
	}
}

func TestReport_Format(t *testing.T) {
	r := Report{Results: []Result{
		{Name: "config", Status: Pass, Detail: "~/.config/fitcalc/config.toml"},
		{Name: "state dir", Status: Warn, Detail: "not created yet"},
		{Name: "submit", Status: Fail, Detail: "enabled but url is empty"},
	}}
	out := r.Format()

	if !strings.HasPrefix(out, "fcalc check\n\n") {
		t.Errorf("missing header:\n%s", out)
	}
	if !strings.Contains(out, "  pass  config     ~/.config/fitcalc/config.toml\n") {
		t.Errorf("misaligned row:\n%s", out)
	}
	if !strings.Contains(out, "1 passed, 1 warning, 1 failure") {
		t.Errorf("missing tally:\n%s", out)
	}

	if got := (Report{}).Format(); !strings.Contains(got, "no checks ran") {
		t.Errorf("empty report = %q", got)
	}
}

func TestRun_Integration(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	stateDir := t.TempDir()

	st := session.New()
	st.Update(5, calc.Factorial)
	st.Save(filepath.Join(stateDir, session.StateFile))

	cfg := config.DefaultConfig()
	cfg.StateDir = stateDir

	report := Run(context.Background(), cfg)

	if len(report.Results) != 7 {
		t.Errorf("expected 7 results, got %d", len(report.Results))
	}
	for _, res := range report.Results {
		if res.Status == Fail {
			t.Errorf("unexpected failure: %s: %s", res.Name, res.Detail)
		}
	}
	if report.Format() == "" {
		t.Error("Format() returned empty string")
	}
}

func TestStatus_String(t *testing.T) {
	tests := []struct {
		s    Status
		want string
	}{
		{Pass, "pass"},
		{Warn, "warn"},
		{Fail, "FAIL"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("Status(%d).String() = %q, want %q", tt.s, got, tt.want)
		}
	}
}
