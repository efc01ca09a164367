package session

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/suykerbuyk/fitcalc/internal/calc"
)

// Theme is the user's preferred color scheme.
type Theme int

const (
	Light Theme = iota
	Dark
)

// String returns "light" or "dark".
func (t Theme) String() string {
	switch t {
	case Light:
		return "light"
	case Dark:
		return "dark"
	default:
		return "unknown"
	}
}

// MarshalText encodes t by name, rejecting undefined themes.
func (t Theme) MarshalText() ([]byte, error) {
	if t != Light && t != Dark {
		return nil, fmt.Errorf("%w: theme %d", calc.ErrInvalidInput, int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText accepts any name ParseTheme does.
func (t *Theme) UnmarshalText(text []byte) error {
	parsed, err := ParseTheme(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseTheme maps "light" or "dark" (any case) to a Theme.
func ParseTheme(s string) (Theme, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "light":
		return Light, nil
	case "dark":
		return Dark, nil
	}
	return 0, fmt.Errorf("%w: unknown theme %q", calc.ErrInvalidInput, s)
}

// Phase is FRESH until the first Update after construction or Reset.
type Phase int

const (
	Fresh Phase = iota
	Active
)

// String returns "fresh" or "active".
func (p Phase) String() string {
	if p == Active {
		return "active"
	}
	return "fresh"
}

// Defaults applied at construction and on Reset.
const (
	DefaultCalculation = calc.Factorial
	DefaultInput       = 0
	DefaultTheme       = Light
)

// State records the user's most recent calculation and a log of every
// calculation since the last reset. It is not safe for concurrent mutation.
type State struct {
	lastCalculation calc.Kind
	lastInput       int
	theme           Theme
	lastOpened      time.Time
	history         []string

	now func() time.Time
}

// New returns a FRESH state stamped with the current time.
func New() *State {
	return NewWithClock(time.Now)
}

// NewWithClock is New with an injectable time source.
func NewWithClock(now func() time.Time) *State {
	s := &State{now: now}
	s.setDefaults()
	s.lastOpened = now()
	return s
}

// Update records a completed calculation. Invalid input leaves the state untouched.
func (s *State) Update(input int, kind calc.Kind) error {
	if input < 0 {
		return fmt.Errorf("%w: input %d is negative", calc.ErrInvalidInput, input)
	}
	if !kind.Valid() {
		return fmt.Errorf("%w: calculation kind %d", calc.ErrInvalidInput, int(kind))
	}

	s.lastInput = input
	s.lastCalculation = kind
	s.touch()
	s.history = append(s.history, HistoryEntry(input, kind))
	return nil
}

// Reset restores every field to its default and clears history. The object
// stays usable.
func (s *State) Reset() {
	s.setDefaults()
	s.touch()
}

// SetTheme changes the preferred theme without affecting history or phase.
func (s *State) SetTheme(t Theme) error {
	if t != Light && t != Dark {
		return fmt.Errorf("%w: theme %d", calc.ErrInvalidInput, int(t))
	}
	s.theme = t
	return nil
}

// Phase reports whether any calculation has been recorded since the last reset.
// Every Update appends to history, so a non-empty history means ACTIVE.
func (s *State) Phase() Phase {
	if len(s.history) > 0 {
		return Active
	}
	return Fresh
}

func (s *State) LastCalculationType() calc.Kind { return s.lastCalculation }
func (s *State) LastInputNumber() int           { return s.lastInput }
func (s *State) PreferredTheme() Theme          { return s.theme }
func (s *State) LastOpened() time.Time          { return s.lastOpened }

// History returns a copy of the log, oldest first.
func (s *State) History() []string {
	out := make([]string, len(s.history))
	copy(out, s.history)
	return out
}

// HistoryEntry formats the log line appended by Update.
func HistoryEntry(input int, kind calc.Kind) string {
	return fmt.Sprintf("input=%d, type=%s", input, kind)
}

func (s *State) setDefaults() {
	s.lastCalculation = DefaultCalculation
	s.lastInput = DefaultInput
	s.theme = DefaultTheme
	s.history = nil
}

// touch advances lastOpened to now, never backwards.
func (s *State) touch() {
	if s.now == nil {
		s.now = time.Now
	}
	if t := s.now(); t.After(s.lastOpened) {
		s.lastOpened = t
	}
}

// record is the on-disk layout: one flat object, history as a string array.
type record struct {
	LastCalculationType calc.Kind `json:"last_calculation_type"`
	LastInputNumber     int       `json:"last_input_number"`
	PreferredTheme      Theme     `json:"preferred_theme"`
	LastOpened          time.Time `json:"last_opened_timestamp"`
	History             []string  `json:"history"`
}

func (s *State) MarshalJSON() ([]byte, error) {
	r := record{
		LastCalculationType: s.lastCalculation,
		LastInputNumber:     s.lastInput,
		PreferredTheme:      s.theme,
		LastOpened:          s.lastOpened,
		History:             s.History(),
	}
	return json.Marshal(r)
}

func (s *State) UnmarshalJSON(data []byte) error {
	r := record{
		LastCalculationType: DefaultCalculation,
		PreferredTheme:      DefaultTheme,
	}
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	if r.LastInputNumber < 0 {
		return fmt.Errorf("%w: stored input %d is negative", calc.ErrInvalidInput, r.LastInputNumber)
	}

	s.lastCalculation = r.LastCalculationType
	s.lastInput = r.LastInputNumber
	s.theme = r.PreferredTheme
	if !r.LastOpened.IsZero() {
		s.lastOpened = r.LastOpened
	}
	s.history = r.History
	if len(s.history) == 0 {
		s.history = nil
	}
	if s.now == nil {
		s.now = time.Now
	}
	return nil
}
