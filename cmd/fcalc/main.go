package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/suykerbuyk/fitcalc/internal/archive"
	"github.com/suykerbuyk/fitcalc/internal/calc"
	"github.com/suykerbuyk/fitcalc/internal/check"
	"github.com/suykerbuyk/fitcalc/internal/config"
	"github.com/suykerbuyk/fitcalc/internal/dataset"
	"github.com/suykerbuyk/fitcalc/internal/help"
	"github.com/suykerbuyk/fitcalc/internal/ledger"
	"github.com/suykerbuyk/fitcalc/internal/regression"
	"github.com/suykerbuyk/fitcalc/internal/runner"
	"github.com/suykerbuyk/fitcalc/internal/session"
	"github.com/suykerbuyk/fitcalc/internal/stats"
	"github.com/suykerbuyk/fitcalc/internal/submit"
	"github.com/suykerbuyk/fitcalc/internal/watch"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	name, args := os.Args[1], os.Args[2:]

	switch name {
	case "help", "--help", "-h":
		if len(args) > 0 {
			if c, ok := help.Lookup(args[0]); ok {
				fmt.Print(help.FormatTerminal(c))
				return
			}
		}
		usage()
		return
	case "version", "--version":
		fmt.Printf("fcalc v%s\n", help.Version)
		return
	}

	c, ok := help.Lookup(name)
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", name)
		usage()
		os.Exit(1)
	}
	if len(args) > 0 && (args[0] == "--help" || args[0] == "-h") {
		fmt.Print(help.FormatTerminal(c))
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fatal("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch name {
	case "calc":
		runCalc(ctx, cfg, args)
	case "fit":
		runFit(ctx, cfg, args)
	case "sample":
		runSample(args)
	case "state":
		runState(cfg, args)
	case "history":
		runHistory(cfg)
	case "theme":
		runTheme(cfg, args)
	case "reset":
		runReset(cfg)
	case "stats":
		runStats(ctx, cfg)
	case "watch":
		runWatch(ctx, cfg, args)
	case "run":
		os.Exit(runScript(ctx, cfg, args))
	case "init":
		runInit(cfg, args)
	case "check":
		report := check.Run(ctx, cfg)
		fmt.Print(report.Format())
		if report.HasFailures() {
			os.Exit(1)
		}
	}
}

func runCalc(ctx context.Context, cfg config.Config, args []string) {
	if len(args) < 2 {
		fatal("usage: %s", help.CmdCalc.Usage)
	}
	kind, err := calc.ParseKind(args[0])
	if err != nil {
		fatal("%v", err)
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		fatal("%v: %q is not an integer", calc.ErrInvalidInput, args[1])
	}

	res, err := calc.Compute(kind, n)
	if err != nil {
		fatal("%v", err)
	}

	st := loadState(cfg)
	if err := st.Update(n, kind); err != nil {
		fatal("%v", err)
	}
	saveState(cfg, st)

	withLedger(cfg, func(l *ledger.Ledger) error {
		return l.RecordCalculation(ctx, res, st.LastOpened())
	})

	fmt.Println(res)
}

func runFit(ctx context.Context, cfg config.Config, args []string) {
	path := firstArg(args)
	if path == "" {
		fatal("usage: %s", help.CmdFit.Usage)
	}

	fit, m, n, err := fitFile(path)
	if err != nil {
		fatal("fit: %v", err)
	}
	printFit(fit, m, n)

	withLedger(cfg, func(l *ledger.Ledger) error {
		return l.RecordFit(ctx, ledger.FitRecord{
			Source:    path,
			Samples:   n,
			Slope:     fit.Slope,
			Intercept: fit.Intercept,
			RSquared:  m.RSquared,
			CreatedAt: time.Now(),
		})
	})

	explicit := hasFlag(args, "--submit")
	if !explicit && !cfg.Submit.Enabled {
		return
	}
	out := submit.NewClient(cfg.Submit).Send(ctx, fit)
	if out.Success {
		fmt.Printf("submitted: %s\n", out.Message)
		return
	}
	if explicit {
		fatal("submit: %s", out.Message)
	}
	log.Printf("warning: submit failed: %s", out.Message)
}

func fitFile(path string) (regression.FitResult, regression.Metrics, int, error) {
	samples, err := dataset.Load(path)
	if err != nil {
		return regression.FitResult{}, regression.Metrics{}, 0, err
	}
	fit, err := regression.Fit(samples)
	if err != nil {
		return regression.FitResult{}, regression.Metrics{}, 0, err
	}
	m, err := regression.Evaluate(samples, fit)
	if err != nil {
		return regression.FitResult{}, regression.Metrics{}, 0, err
	}
	return fit, m, len(samples), nil
}

func printFit(fit regression.FitResult, m regression.Metrics, n int) {
	fmt.Printf("points     %d\n", n)
	fmt.Printf("slope      %g\n", fit.Slope)
	fmt.Printf("intercept  %g\n", fit.Intercept)
	fmt.Printf("mse        %g\n", m.MSE)
	fmt.Printf("rmse       %g\n", m.RMSE)
	fmt.Printf("r2         %g\n", m.RSquared)
}

func runSample(args []string) {
	fn := firstArg(args)
	if fn == "" {
		fatal("usage: %s", help.CmdSample.Usage)
	}
	n := dataset.DefaultPoints
	if v := flagValue(args, "--n"); v != "" {
		var err error
		if n, err = strconv.Atoi(v); err != nil || n < 1 {
			fatal("--n must be a positive integer, got %q", v)
		}
	}

	samples, err := dataset.Generate(fn, n)
	if err != nil {
		fatal("%v", err)
	}
	if err := dataset.WriteCSV(os.Stdout, samples); err != nil {
		fatal("write samples: %v", err)
	}
}

func runState(cfg config.Config, args []string) {
	st := loadState(cfg)

	if hasFlag(args, "--json") {
		data, err := json.MarshalIndent(st, "", "  ")
		if err != nil {
			fatal("marshal state: %v", err)
		}
		fmt.Println(string(data))
		return
	}

	fmt.Printf("%-18s %s\n", "last calculation", st.LastCalculationType())
	fmt.Printf("%-18s %d\n", "last input", st.LastInputNumber())
	fmt.Printf("%-18s %s\n", "theme", st.PreferredTheme())
	fmt.Printf("%-18s %s\n", "phase", st.Phase())
	fmt.Printf("%-18s %s\n", "last opened", st.LastOpened().Format(time.RFC3339))
	fmt.Printf("%-18s %d entries\n", "history", len(st.History()))
}

func runHistory(cfg config.Config) {
	hist := loadState(cfg).History()
	if len(hist) == 0 {
		fmt.Println("no history")
		return
	}
	for i, h := range hist {
		fmt.Printf("%3d  %s\n", i+1, h)
	}
}

func runTheme(cfg config.Config, args []string) {
	if len(args) < 1 {
		fatal("usage: %s", help.CmdTheme.Usage)
	}
	theme, err := session.ParseTheme(args[0])
	if err != nil {
		fatal("%v", err)
	}

	st := loadState(cfg)
	if err := st.SetTheme(theme); err != nil {
		fatal("%v", err)
	}
	saveState(cfg, st)
	fmt.Printf("theme: %s\n", theme)
}

func runReset(cfg config.Config) {
	st := loadState(cfg)

	if hist := st.History(); cfg.Archive.Enabled && len(hist) > 0 {
		path, err := archive.Save(hist, cfg.ArchiveDir(), cfg.Archive.Compress, time.Now())
		if err != nil {
			log.Printf("warning: archive history: %v", err)
		} else {
			fmt.Printf("archived: %s (%d entries)\n", config.CompressHome(path), len(hist))
		}
	}

	st.Reset()
	saveState(cfg, st)
	fmt.Println("state reset to defaults")
}

func runStats(ctx context.Context, cfg config.Config) {
	if !cfg.Ledger.Enabled {
		fatal("stats: ledger is disabled in config")
	}
	l, err := ledger.Open(cfg.LedgerPath())
	if err != nil {
		fatal("%v", err)
	}
	defer l.Close()

	calcs, err := l.Calculations(ctx, 0)
	if err != nil {
		fatal("%v", err)
	}
	fits, err := l.Fits(ctx, 0)
	if err != nil {
		fatal("%v", err)
	}
	fmt.Print(stats.Format(stats.Compute(calcs, fits)))
}

func runWatch(ctx context.Context, cfg config.Config, args []string) {
	path := firstArg(args)
	if path == "" || path == "-" {
		fatal("usage: %s", help.CmdWatch.Usage)
	}

	refit := func(p string) {
		fit, m, n, err := fitFile(p)
		if err != nil {
			log.Printf("warning: %s: %v", p, err)
			return
		}
		fmt.Printf("--- %s %s\n", p, time.Now().Format(time.TimeOnly))
		printFit(fit, m, n)
	}

	refit(path)
	fmt.Fprintf(os.Stderr, "watching %s (Ctrl-C to stop)\n", path)
	if err := watch.Watch(ctx, path, refit); err != nil {
		fatal("%v", err)
	}
}

func runScript(ctx context.Context, cfg config.Config, args []string) int {
	if len(args) < 1 {
		fatal("usage: %s", help.CmdRun.Usage)
	}
	r := &runner.Runner{
		Interpreter: cfg.Runner.Interpreter,
		Timeout:     time.Duration(cfg.Runner.TimeoutSeconds) * time.Second,
	}

	out, err := r.Run(ctx, args[0], args[1:]...)
	fmt.Print(out.Stdout)
	os.Stderr.WriteString(out.Stderr)

	var exitErr *runner.ExitError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &exitErr):
		return exitErr.Code
	default:
		fatal("%v", err)
		return 1
	}
}

func runInit(cfg config.Config, args []string) {
	stateDir := firstArg(args)
	if stateDir == "" {
		stateDir = cfg.StateDir
	}

	path, action, err := config.WriteDefault(stateDir)
	if err != nil {
		fatal("%v", err)
	}
	fmt.Printf("%s: %s\n", action, config.CompressHome(path))
}

func loadState(cfg config.Config) *session.State {
	st, err := session.Load(cfg.StatePath())
	if err != nil {
		fatal("%v", err)
	}
	return st
}

func saveState(cfg config.Config, st *session.State) {
	if err := st.Save(cfg.StatePath()); err != nil {
		fatal("save state: %v", err)
	}
}

// withLedger runs fn against the ledger when enabled. Ledger failures
// are logged, never fatal.
func withLedger(cfg config.Config, fn func(*ledger.Ledger) error) {
	if !cfg.Ledger.Enabled {
		return
	}
	l, err := ledger.Open(cfg.LedgerPath())
	if err != nil {
		log.Printf("warning: %v", err)
		return
	}
	defer l.Close()
	if err := fn(l); err != nil {
		log.Printf("warning: ledger: %v", err)
	}
}

func usage() {
	fmt.Fprint(os.Stderr, help.FormatUsage(help.TopLevel, help.Subcommands))
}

// firstArg returns the first argument that is not a flag. "-" counts as
// an argument (stdin).
func firstArg(args []string) string {
	for i := 0; i < len(args); i++ {
		a := args[i]
		if a == "--n" {
			i++
			continue
		}
		if a == "-" || len(a) == 0 || a[0] != '-' {
			return a
		}
	}
	return ""
}

func hasFlag(args []string, flag string) bool {
	for _, a := range args {
		if a == flag {
			return true
		}
	}
	return false
}

func flagValue(args []string, flag string) string {
	for i, a := range args {
		if a == flag && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "fcalc: "+format+"\n", args...)
	os.Exit(1)
}
