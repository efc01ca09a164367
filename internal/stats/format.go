package stats

import (
	"fmt"
	"strings"
)

// Format renders a Summary as aligned terminal output.
func Format(s Summary) string {
	if s.TotalCalculations == 0 && s.TotalFits == 0 {
		return "fcalc stats\n\n  Nothing recorded yet. Run `fcalc calc` or `fcalc fit` first.\n"
	}

	var b strings.Builder
	b.WriteString("fcalc stats\n")

	// Overview
	b.WriteString("\nOverview\n")
	fmt.Fprintf(&b, "  %-20s %s\n", "calculations", formatInt(s.TotalCalculations))
	fmt.Fprintf(&b, "  %-20s %s\n", "fits", formatInt(s.TotalFits))

	if s.TotalCalculations > 0 {
		b.WriteString("\nInputs\n")
		fmt.Fprintf(&b, "  %-20s %.1f\n", "average", s.AvgInput)
		fmt.Fprintf(&b, "  %-20s %s\n", "largest", formatInt(s.MaxInput))
	}

	if len(s.Kinds) > 0 {
		b.WriteString("\nCalculation Types\n")
		for _, k := range s.Kinds {
			fmt.Fprintf(&b, "  %-24s %3d (%d%%)\n", k.Kind, k.Count, int(k.Percent+0.5))
		}
	}

	if s.TotalFits > 0 {
		b.WriteString("\nFits\n")
		fmt.Fprintf(&b, "  %-20s %s\n", "average slope", formatFloat(s.AvgSlope))
		fmt.Fprintf(&b, "  %-20s %.4f\n", "average R²", s.AvgRSquared)
		if s.BestFit != nil {
			fmt.Fprintf(&b, "  %-20s %s (R² %.4f, y = %s·x + %s)\n", "best",
				s.BestFit.Source, s.BestFit.RSquared,
				formatFloat(s.BestFit.Slope), formatFloat(s.BestFit.Intercept))
		}
	}

	// Monthly Trend
	if len(s.Monthly) > 0 {
		b.WriteString("\nMonthly Trend\n")
		for _, m := range s.Monthly {
			fmt.Fprintf(&b, "  %-12s %4d calculations   %4d fits\n", m.Month, m.Calculations, m.Fits)
		}
	}

	return b.String()
}

// formatFloat trims trailing zeros from a 4-decimal rendering.
func formatFloat(f float64) string {
	s := fmt.Sprintf("%.4f", f)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}

// formatInt formats an integer with comma separators.
func formatInt(n int) string {
	if n < 0 {
		return "-" + formatInt(-n)
	}
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var result []byte
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			result = append(result, ',')
		}
		result = append(result, byte(c))
	}
	return string(result)
}
