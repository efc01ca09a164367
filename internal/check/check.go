package check

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/suykerbuyk/fitcalc/internal/archive"
	"github.com/suykerbuyk/fitcalc/internal/config"
	"github.com/suykerbuyk/fitcalc/internal/ledger"
	"github.com/suykerbuyk/fitcalc/internal/session"
)

// Status represents the outcome of a single check.
type Status int

const (
	Pass Status = iota
	Warn
	Fail
)

func (s Status) String() string {
	switch s {
	case Pass:
		return "pass"
	case Warn:
		return "warn"
	case Fail:
		return "FAIL"
	default:
		return "unknown"
	}
}

// Result holds the outcome of a single check.
type Result struct {
	Name   string
	Status Status
	Detail string
}

// Report aggregates all check results.
type Report struct {
	Results []Result
}

// HasFailures returns true if any result has Fail status.
func (r Report) HasFailures() bool {
	for _, res := range r.Results {
		if res.Status == Fail {
			return true
		}
	}
	return false
}

// Format returns the human-readable report string.
func (r Report) Format() string {
	if len(r.Results) == 0 {
		return "fcalc check\n\n  no checks ran\n"
	}

	maxName := 0
	for _, res := range r.Results {
		if len(res.Name) > maxName {
			maxName = len(res.Name)
		}
	}

	var b strings.Builder
	b.WriteString("fcalc check\n\n")

	var passed, warnings, failures int
	for _, res := range r.Results {
		switch res.Status {
		case Pass:
			passed++
		case Warn:
			warnings++
		case Fail:
			failures++
		}
		fmt.Fprintf(&b, "  %-4s  %-*s  %s\n", res.Status, maxName, res.Name, res.Detail)
	}

	fmt.Fprintf(&b, "\n%d passed, %d warning, %d failure\n", passed, warnings, failures)
	return b.String()
}

// CheckConfig reports the resolved config path. Broken TOML never reaches
// here; the CLI fails on config load first.
func CheckConfig() Result {
	cfgPath := filepath.Join(config.ConfigDir(), "config.toml")
	if _, err := os.Stat(cfgPath); err != nil {
		return Result{Name: "config", Status: Pass, Detail: "defaults (" + config.CompressHome(cfgPath) + " not found)"}
	}
	return Result{Name: "config", Status: Pass, Detail: config.CompressHome(cfgPath)}
}

// CheckStateDir checks whether the state directory exists.
func CheckStateDir(stateDir string) Result {
	info, err := os.Stat(stateDir)
	if err == nil && info.IsDir() {
		return Result{Name: "state dir", Status: Pass, Detail: config.CompressHome(stateDir)}
	}
	if err == nil {
		return Result{Name: "state dir", Status: Fail, Detail: stateDir + " is not a directory"}
	}
	return Result{Name: "state dir", Status: Warn, Detail: config.CompressHome(stateDir) + " not created yet"}
}

// CheckStateFile validates the persisted session state.
func CheckStateFile(path string) Result {
	if _, err := os.Stat(path); err != nil {
		return Result{Name: "state", Status: Warn, Detail: filepath.Base(path) + " not found yet"}
	}
	st, err := session.Load(path)
	if err != nil {
		return Result{Name: "state", Status: Fail, Detail: filepath.Base(path) + " invalid: " + err.Error()}
	}
	return Result{
		Name:   "state",
		Status: Pass,
		Detail: fmt.Sprintf("%s (%s, %d history entries)", filepath.Base(path), st.Phase(), len(st.History())),
	}
}

// CheckLedger opens the ledger and reports row counts. A missing
// database is not created.
func CheckLedger(ctx context.Context, path string, lcfg config.LedgerConfig) Result {
	if !lcfg.Enabled {
		return Result{Name: "ledger", Status: Pass, Detail: "disabled"}
	}
	if _, err := os.Stat(path); err != nil {
		return Result{Name: "ledger", Status: Warn, Detail: filepath.Base(path) + " not created yet"}
	}
	l, err := ledger.Open(path)
	if err != nil {
		return Result{Name: "ledger", Status: Fail, Detail: err.Error()}
	}
	defer l.Close()

	calcs, fits, err := l.Counts(ctx)
	if err != nil {
		return Result{Name: "ledger", Status: Fail, Detail: err.Error()}
	}
	return Result{Name: "ledger", Status: Pass, Detail: fmt.Sprintf("%s (%d calculations, %d fits)", filepath.Base(path), calcs, fits)}
}

// CheckArchive reports how many history snapshots exist.
func CheckArchive(dir string, acfg config.ArchiveConfig) Result {
	if !acfg.Enabled {
		return Result{Name: "archive", Status: Pass, Detail: "disabled"}
	}
	files, err := archive.List(dir)
	if err != nil {
		return Result{Name: "archive", Status: Fail, Detail: err.Error()}
	}
	mode := "zstd"
	if !acfg.Compress {
		mode = "plain"
	}
	return Result{Name: "archive", Status: Pass, Detail: fmt.Sprintf("%d snapshots, %s", len(files), mode)}
}

// CheckSubmit validates the submit endpoint when submission is enabled.
func CheckSubmit(scfg config.SubmitConfig) Result {
	if !scfg.Enabled {
		return Result{Name: "submit", Status: Pass, Detail: "disabled"}
	}
	if scfg.URL == "" {
		return Result{Name: "submit", Status: Fail, Detail: "enabled but url is empty"}
	}
	u, err := url.Parse(scfg.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return Result{Name: "submit", Status: Fail, Detail: "invalid url " + scfg.URL}
	}
	return Result{Name: "submit", Status: Pass, Detail: scfg.URL}
}

// CheckRunner checks that the script interpreter is on PATH.
func CheckRunner(rcfg config.RunnerConfig) Result {
	if rcfg.Interpreter == "" {
		return Result{Name: "runner", Status: Warn, Detail: "no interpreter configured"}
	}
	path, err := exec.LookPath(rcfg.Interpreter)
	if err != nil {
		return Result{Name: "runner", Status: Warn, Detail: rcfg.Interpreter + " not found on PATH"}
	}
	return Result{Name: "runner", Status: Pass, Detail: path}
}

// Run executes all checks against the given config and returns a report.
func Run(ctx context.Context, cfg config.Config) Report {
	var results []Result

	results = append(results, CheckConfig())
	results = append(results, CheckStateDir(cfg.StateDir))
	results = append(results, CheckStateFile(cfg.StatePath()))
	results = append(results, CheckLedger(ctx, cfg.LedgerPath(), cfg.Ledger))
	results = append(results, CheckArchive(cfg.ArchiveDir(), cfg.Archive))
	results = append(results, CheckSubmit(cfg.Submit))
	results = append(results, CheckRunner(cfg.Runner))

	return Report{Results: results}
}
