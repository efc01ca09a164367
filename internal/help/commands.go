package help

// Version is the fcalc release version, set at build time via -ldflags.
// Defaults to "dev" when built without version injection (e.g. `go run`).
var Version = "dev"

// Flag describes a command-line flag.
type Flag struct {
	Name string // e.g. "--submit" or "--n <count>"
	Desc string
}

// Arg describes a positional argument.
type Arg struct {
	Name     string
	Desc     string
	Optional bool
}

// Command describes an fcalc subcommand (or the top-level binary when Name is "").
type Command struct {
	Name        string   // "calc", "fit", etc; "" for top-level
	Synopsis    string   // one-line description (lowercase, for --help header)
	Brief       string   // short description for usage table (capitalized)
	Usage       string   // full usage line, e.g. "fcalc calc <kind> <n>"
	TableUsage  string   // shortened usage for the top-level table (if different from Usage)
	Args        []Arg
	Flags       []Flag
	Description string   // multi-line prose (stored verbatim)
	Examples    []string // one per line, without leading 2-space indent
}

// tableUsage returns TableUsage if set, otherwise Usage.
func (c Command) tableUsage() string {
	if c.TableUsage != "" {
		return c.TableUsage
	}
	return c.Usage
}

// TopLevel is the top-level fcalc command (used by FormatUsage).
var TopLevel = Command{
	Name:     "",
	Synopsis: "calculations and least-squares line fitting",
}

var CmdCalc = Command{
	Name:       "calc",
	Synopsis:   "compute a factorial, square, or cube",
	Brief:      "Compute factorial, square, or cube of n",
	Usage:      "fcalc calc <factorial|square|cube> <n>",
	TableUsage: "fcalc calc <kind> <n>",
	Args: []Arg{
		{Name: "kind", Desc: "One of factorial, square, cube"},
		{Name: "n", Desc: "Non-negative integer input"},
	},
	Description: `Computes the result, records it as the last calculation in the
session state, appends "input=<n>, type=<kind>" to the history, and
logs it to the ledger. Results that do not fit in a signed 64-bit
integer are rejected (factorial above 20, square above 3037000499,
cube above 2097151).`,
	Examples: []string{
		"fcalc calc factorial 5   factorial(5) = 120",
		"fcalc calc square 7      square(7) = 49",
	},
}

var CmdFit = Command{
	Name:       "fit",
	Synopsis:   "fit a least-squares line to a dataset",
	Brief:      "Fit y = slope·x + intercept to a dataset",
	Usage:      "fcalc fit <file.csv|file.json|-> [--submit]",
	TableUsage: "fcalc fit <file|-> [--submit]",
	Args: []Arg{
		{Name: "file", Desc: "CSV (x,y) or JSON [{\"x\":..,\"y\":..}] file; - reads stdin"},
	},
	Flags: []Flag{
		{Name: "--submit", Desc: "POST {slope, intercept} to the configured endpoint"},
	},
	Description: `Reads the points, computes the ordinary least-squares line, and
prints slope, intercept, MSE, RMSE, and R². At least two points with
distinct x values are required. The fit is logged to the ledger.
Results are also submitted when [submit] enabled = true.`,
	Examples: []string{
		"fcalc fit points.csv",
		"fcalc sample sin | fcalc fit -",
	},
}

var CmdSample = Command{
	Name:       "sample",
	Synopsis:   "generate a sin or cos dataset",
	Brief:      "Print sin/cos sample points as CSV",
	Usage:      "fcalc sample <sin|cos> [--n <count>]",
	TableUsage: "fcalc sample <sin|cos>",
	Args: []Arg{
		{Name: "fn", Desc: "sin or cos"},
	},
	Flags: []Flag{
		{Name: "--n <count>", Desc: "Number of evenly spaced points on [0, 10] (default: 50)"},
	},
}

var CmdState = Command{
	Name:     "state",
	Synopsis: "show the session state",
	Brief:    "Show last calculation, theme, and phase",
	Usage:    "fcalc state [--json]",
	Flags: []Flag{
		{Name: "--json", Desc: "Print the persisted JSON document"},
	},
}

var CmdHistory = Command{
	Name:     "history",
	Synopsis: "list the calculation history",
	Brief:    "List calculation history",
	Usage:    "fcalc history",
}

var CmdTheme = Command{
	Name:     "theme",
	Synopsis: "set the preferred theme",
	Brief:    "Set preferred theme",
	Usage:    "fcalc theme <light|dark>",
	Args: []Arg{
		{Name: "theme", Desc: "light or dark"},
	},
}

var CmdReset = Command{
	Name:     "reset",
	Synopsis: "restore the session state to defaults",
	Brief:    "Reset state to defaults",
	Usage:    "fcalc reset",
	Description: `Restores the default calculation type, input, and theme and clears
the history. When [archive] enabled = true a non-empty history is
saved under <state_dir>/archive first.`,
}

var CmdStats = Command{
	Name:     "stats",
	Synopsis: "summarize the ledger",
	Brief:    "Show ledger statistics",
	Usage:    "fcalc stats",
}

var CmdWatch = Command{
	Name:     "watch",
	Synopsis: "refit a dataset whenever it changes",
	Brief:    "Refit a dataset on every change",
	Usage:    "fcalc watch <file>",
	Args: []Arg{
		{Name: "file", Desc: "CSV or JSON dataset to watch"},
	},
	Description: `Fits the file once, then again after every write. Runs until
interrupted.`,
}

var CmdRun = Command{
	Name:     "run",
	Synopsis: "run a helper script",
	Brief:    "Run a script with the configured interpreter",
	Usage:    "fcalc run <script> [args...]",
	Args: []Arg{
		{Name: "script", Desc: "Script path passed to [runner] interpreter"},
		{Name: "args", Desc: "Extra arguments for the script", Optional: true},
	},
	Description: `Runs the script, prints its stdout, and exits with the script's exit
status. The run is killed after [runner] timeout_seconds.`,
}

var CmdInit = Command{
	Name:     "init",
	Synopsis: "write the default config",
	Brief:    "Write config.toml",
	Usage:    "fcalc init [state_dir]",
	Args: []Arg{
		{Name: "state_dir", Desc: "Directory for state, ledger, and archives", Optional: true},
	},
	Description: `Creates ~/.config/fitcalc/config.toml from defaults. An existing
file keeps its settings; only state_dir is rewritten.`,
}

var CmdCheck = Command{
	Name:     "check",
	Synopsis: "validate config and state health",
	Brief:    "Check config, state, and ledger health",
	Usage:    "fcalc check",
	Description: `Reports pass, warn, or FAIL for the config file, state directory,
state file, ledger, archive, submit endpoint, and script interpreter.
Exits 1 if any check fails.`,
}

var CmdVersion = Command{
	Name:     "version",
	Synopsis: "print version",
	Brief:    "Print version",
	Usage:    "fcalc version",
}

// Subcommands is the ordered list of all subcommands.
var Subcommands = []Command{
	CmdCalc,
	CmdFit,
	CmdSample,
	CmdState,
	CmdHistory,
	CmdTheme,
	CmdReset,
	CmdStats,
	CmdWatch,
	CmdRun,
	CmdInit,
	CmdCheck,
	CmdVersion,
}

// Lookup returns the subcommand named name.
func Lookup(name string) (Command, bool) {
	for _, c := range Subcommands {
		if c.Name == name {
			return c, true
		}
	}
	return Command{}, false
}
