package help

import (
	"fmt"
	"strings"
)

// FormatTerminal renders a subcommand's help text for terminal --help output.
func FormatTerminal(c Command) string {
	var sections []string

	sections = append(sections, fmt.Sprintf("fcalc %s: %s", c.Name, c.Synopsis))
	sections = append(sections, fmt.Sprintf("Usage: %s", c.Usage))

	// Args and flags share one description column.
	maxNameLen := 0
	for _, a := range c.Args {
		maxNameLen = max(maxNameLen, len(a.Name))
	}
	for _, f := range c.Flags {
		maxNameLen = max(maxNameLen, len(f.Name))
	}
	col := maxNameLen + 3

	if len(c.Args) > 0 {
		var s strings.Builder
		s.WriteString("Arguments:")
		for _, a := range c.Args {
			desc := a.Desc
			if a.Optional {
				desc += " (optional)"
			}
			fmt.Fprintf(&s, "\n  %-*s%s", col, a.Name, desc)
		}
		sections = append(sections, s.String())
	}

	if len(c.Flags) > 0 {
		var s strings.Builder
		s.WriteString("Flags:")
		for _, f := range c.Flags {
			fmt.Fprintf(&s, "\n  %-*s%s", col, f.Name, f.Desc)
		}
		sections = append(sections, s.String())
	}

	if c.Description != "" {
		sections = append(sections, c.Description)
	}

	if len(c.Examples) > 0 {
		s := "Examples:"
		for _, e := range c.Examples {
			s += "\n  " + e
		}
		sections = append(sections, s)
	}

	return strings.Join(sections, "\n\n") + "\n"
}

// FormatUsage renders the top-level usage text (for fcalc --help / fcalc help).
func FormatUsage(top Command, subs []Command) string {
	var b strings.Builder

	fmt.Fprintf(&b, "fcalc v%s: %s\n", Version, top.Synopsis)
	b.WriteString("\nUsage:\n")

	type entry struct {
		usage string
		brief string
	}
	entries := make([]entry, 0, len(subs)+1)
	for _, s := range subs {
		entries = append(entries, entry{s.tableUsage(), s.Brief})
	}
	entries = append(entries, entry{"fcalc help [command]", "Show this help"})

	maxWidth := 0
	for _, e := range entries {
		maxWidth = max(maxWidth, len(e.usage))
	}

	for _, e := range entries {
		fmt.Fprintf(&b, "  %-*s   %s\n", maxWidth, e.usage, e.brief)
	}

	b.WriteString("\nConfiguration: ~/.config/fitcalc/config.toml\n")
	return b.String()
}
