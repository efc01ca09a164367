package stats

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/suykerbuyk/fitcalc/internal/calc"
	"github.com/suykerbuyk/fitcalc/internal/ledger"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func makeCalc(kind calc.Kind, input int, date string) ledger.CalculationRecord {
	return ledger.CalculationRecord{Kind: kind, Input: input, CreatedAt: day(date)}
}

func makeFit(source string, slope, r2 float64, date string) ledger.FitRecord {
	return ledger.FitRecord{Source: source, Samples: 5, Slope: slope, RSquared: r2, CreatedAt: day(date)}
}

func TestCompute_Empty(t *testing.T) {
	s := Compute(nil, nil)
	if s.TotalCalculations != 0 || s.TotalFits != 0 {
		t.Errorf("totals = %d/%d, want 0/0", s.TotalCalculations, s.TotalFits)
	}
	if s.AvgInput != 0 || s.AvgSlope != 0 {
		t.Errorf("averages should be zero: %+v", s)
	}
	if s.BestFit != nil {
		t.Error("BestFit should be nil")
	}
}

func TestCompute_Calculations(t *testing.T) {
	calcs := []ledger.CalculationRecord{
		makeCalc(calc.Square, 7, "2026-09-01"),
		makeCalc(calc.Cube, 3, "2026-09-02"),
		makeCalc(calc.Square, 10, "2026-10-01"),
		makeCalc(calc.Factorial, 0, "2026-10-02"),
	}

	s := Compute(calcs, nil)

	if s.TotalCalculations != 4 {
		t.Errorf("TotalCalculations = %d", s.TotalCalculations)
	}
	if s.AvgInput != 5 {
		t.Errorf("AvgInput = %f, want 5", s.AvgInput)
	}
	if s.MaxInput != 10 {
		t.Errorf("MaxInput = %d, want 10", s.MaxInput)
	}
}

func TestCompute_KindsSorted(t *testing.T) {
	calcs := []ledger.CalculationRecord{
		makeCalc(calc.Cube, 1, "2026-10-01"),
		makeCalc(calc.Square, 1, "2026-10-01"),
		makeCalc(calc.Square, 2, "2026-10-01"),
		makeCalc(calc.Factorial, 3, "2026-10-01"),
	}

	s := Compute(calcs, nil)

	if len(s.Kinds) != 3 {
		t.Fatalf("Kinds = %d, want 3", len(s.Kinds))
	}
	if s.Kinds[0].Kind != calc.Square || s.Kinds[0].Count != 2 {
		t.Errorf("Kinds[0] = %+v, want square x2", s.Kinds[0])
	}
	if s.Kinds[0].Percent != 50 {
		t.Errorf("square percent = %f, want 50", s.Kinds[0].Percent)
	}
	// Ties fall back to declaration order: factorial before cube.
	if s.Kinds[1].Kind != calc.Factorial || s.Kinds[2].Kind != calc.Cube {
		t.Errorf("tie order = %v, %v", s.Kinds[1].Kind, s.Kinds[2].Kind)
	}
}

func TestCompute_Fits(t *testing.T) {
	fits := []ledger.FitRecord{
		makeFit("a.csv", 2, 0.5, "2026-10-01"),
		makeFit("b.csv", 4, 0.9, "2026-10-02"),
	}

	s := Compute(nil, fits)

	if s.TotalFits != 2 {
		t.Errorf("TotalFits = %d", s.TotalFits)
	}
	if s.AvgSlope != 3 {
		t.Errorf("AvgSlope = %f, want 3", s.AvgSlope)
	}
	if math.Abs(s.AvgRSquared-0.7) > 1e-12 {
		t.Errorf("AvgRSquared = %f, want 0.7", s.AvgRSquared)
	}
	if s.BestFit == nil || s.BestFit.Source != "b.csv" {
		t.Errorf("BestFit = %+v, want b.csv", s.BestFit)
	}
}

func TestCompute_Monthly(t *testing.T) {
	var calcs []ledger.CalculationRecord
	for m := 1; m <= 8; m++ {
		date := time.Date(2026, time.Month(m), 15, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
		calcs = append(calcs, makeCalc(calc.Square, m, date))
	}
	fits := []ledger.FitRecord{makeFit("x.csv", 1, 1, "2026-08-20")}

	s := Compute(calcs, fits)

	if len(s.Monthly) != 6 {
		t.Fatalf("Monthly = %d, want 6 (capped)", len(s.Monthly))
	}
	if s.Monthly[0].Month != "2026-08" {
		t.Errorf("Monthly[0] = %s, want 2026-08", s.Monthly[0].Month)
	}
	if s.Monthly[0].Calculations != 1 || s.Monthly[0].Fits != 1 {
		t.Errorf("Monthly[0] = %+v", s.Monthly[0])
	}
	if s.Monthly[5].Month != "2026-03" {
		t.Errorf("Monthly[5] = %s, want 2026-03", s.Monthly[5].Month)
	}
}

func TestFormat_Empty(t *testing.T) {
	out := Format(Summary{})
	if !strings.Contains(out, "Nothing recorded yet") {
		t.Errorf("empty output = %q", out)
	}
}

func TestFormat_Sections(t *testing.T) {
	s := Compute(
		[]ledger.CalculationRecord{
			makeCalc(calc.Square, 1200, "2026-10-01"),
			makeCalc(calc.Cube, 3, "2026-10-01"),
		},
		[]ledger.FitRecord{makeFit("points.csv", 2.2, 0.945, "2026-10-02")},
	)

	out := Format(s)
	for _, want := range []string{
		"fcalc stats",
		"Overview",
		"Inputs",
		"1,200",
		"Calculation Types",
		"square",
		"(50%)",
		"Fits",
		"points.csv",
		"2.2",
		"Monthly Trend",
		"2026-10",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestFormat_FitsOnly(t *testing.T) {
	out := Format(Compute(nil, []ledger.FitRecord{makeFit("-", 1, 1, "2026-10-02")}))
	if strings.Contains(out, "Inputs") || strings.Contains(out, "Calculation Types") {
		t.Errorf("calculation sections should be omitted:\n%s", out)
	}
	if !strings.Contains(out, "Fits") {
		t.Errorf("missing Fits section:\n%s", out)
	}
}

func TestFormatInt(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-4500, "-4,500"},
	}
	for _, tt := range tests {
		if got := formatInt(tt.n); got != tt.want {
			t.Errorf("formatInt(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		f    float64
		want string
	}{
		{2.2, "2.2"},
		{-1, "-1"},
		{0, "0"},
		{0.123456, "0.1235"},
		{-0.00001, "0"},
	}
	for _, tt := range tests {
		if got := formatFloat(tt.f); got != tt.want {
			t.Errorf("formatFloat(%v) = %q, want %q", tt.f, got, tt.want)
		}
	}
}
