package stats

import (
	"sort"

	"github.com/suykerbuyk/fitcalc/internal/calc"
	"github.com/suykerbuyk/fitcalc/internal/ledger"
)

// Summary holds aggregate metrics computed from the ledger.
type Summary struct {
	TotalCalculations int
	TotalFits         int

	AvgInput float64
	MaxInput int

	AvgSlope    float64
	AvgRSquared float64
	BestFit     *ledger.FitRecord // highest R²

	Kinds   []KindStats
	Monthly []MonthStats
}

// KindStats holds per-calculation-type counts.
type KindStats struct {
	Kind    calc.Kind
	Count   int
	Percent float64
}

// MonthStats holds per-month activity.
type MonthStats struct {
	Month        string // YYYY-MM
	Calculations int
	Fits         int
}

// Compute builds a Summary from ledger rows.
func Compute(calcs []ledger.CalculationRecord, fits []ledger.FitRecord) Summary {
	var s Summary

	kindMap := make(map[calc.Kind]int)
	monthMap := make(map[string]*MonthStats)

	month := func(key string) *MonthStats {
		mm, ok := monthMap[key]
		if !ok {
			mm = &MonthStats{Month: key}
			monthMap[key] = mm
		}
		return mm
	}

	inputSum := 0
	for _, c := range calcs {
		s.TotalCalculations++
		inputSum += c.Input
		if c.Input > s.MaxInput {
			s.MaxInput = c.Input
		}
		kindMap[c.Kind]++
		if !c.CreatedAt.IsZero() {
			month(c.CreatedAt.UTC().Format("2006-01")).Calculations++
		}
	}

	var slopeSum, r2Sum float64
	for i, f := range fits {
		s.TotalFits++
		slopeSum += f.Slope
		r2Sum += f.RSquared
		if s.BestFit == nil || f.RSquared > s.BestFit.RSquared {
			s.BestFit = &fits[i]
		}
		if !f.CreatedAt.IsZero() {
			month(f.CreatedAt.UTC().Format("2006-01")).Fits++
		}
	}

	// Averages (guard division by zero)
	if s.TotalCalculations > 0 {
		s.AvgInput = float64(inputSum) / float64(s.TotalCalculations)
	}
	if s.TotalFits > 0 {
		s.AvgSlope = slopeSum / float64(s.TotalFits)
		s.AvgRSquared = r2Sum / float64(s.TotalFits)
	}

	// Sort kinds by count desc, then declaration order
	for _, kind := range calc.Kinds {
		count := kindMap[kind]
		if count == 0 {
			continue
		}
		pct := float64(count) / float64(s.TotalCalculations) * 100
		s.Kinds = append(s.Kinds, KindStats{Kind: kind, Count: count, Percent: pct})
	}
	sort.SliceStable(s.Kinds, func(i, j int) bool {
		return s.Kinds[i].Count > s.Kinds[j].Count
	})

	// Sort months recent-first, cap at 6
	for _, mm := range monthMap {
		s.Monthly = append(s.Monthly, *mm)
	}
	sort.Slice(s.Monthly, func(i, j int) bool {
		return s.Monthly[i].Month > s.Monthly[j].Month
	})
	if len(s.Monthly) > 6 {
		s.Monthly = s.Monthly[:6]
	}

	return s
}
