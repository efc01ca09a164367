package regression

import (
	"errors"
	"fmt"
	"math"
)

// ErrDegenerateInput means no unique line fits the samples: fewer than two
// points, or every x identical.
var ErrDegenerateInput = errors.New("degenerate input")

// Sample is a single (x, y) observation.
type Sample struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// FitResult holds the parameters of y = Slope*x + Intercept.
type FitResult struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
}

// Predict evaluates the fitted line at x.
func (f FitResult) Predict(x float64) float64 {
	return f.Slope*x + f.Intercept
}

// Metrics describes how well a fit explains its samples.
type Metrics struct {
	MSE      float64 `json:"mse"`
	RMSE     float64 `json:"rmse"`
	RSquared float64 `json:"r_squared"`
}

// Fit computes the least-squares line through samples in a single pass.
//
// The sums are accumulated directly rather than around the mean, so precision
// degrades when |x| is large relative to its spread.
func Fit(samples []Sample) (FitResult, error) {
	n := len(samples)
	if n < 2 {
		return FitResult{}, fmt.Errorf("%w: need at least 2 samples, got %d", ErrDegenerateInput, n)
	}

	var sumX, sumY, sumXY, sumXX float64
	distinct := false
	for _, s := range samples {
		if s.X != samples[0].X {
			distinct = true
		}
		sumX += s.X
		sumY += s.Y
		sumXY += s.X * s.Y
		sumXX += s.X * s.X
	}
	if !distinct {
		return FitResult{}, fmt.Errorf("%w: all x values equal %g", ErrDegenerateInput, samples[0].X)
	}

	fn := float64(n)
	denom := fn*sumXX - sumX*sumX
	if denom == 0 {
		return FitResult{}, fmt.Errorf("%w: zero variance in x", ErrDegenerateInput)
	}

	slope := (fn*sumXY - sumX*sumY) / denom
	intercept := (sumY - slope*sumX) / fn

	if !finite(slope) || !finite(intercept) {
		return FitResult{}, fmt.Errorf("%w: non-finite fit (slope=%g, intercept=%g)", ErrDegenerateInput, slope, intercept)
	}

	return FitResult{Slope: slope, Intercept: intercept}, nil
}

// Evaluate scores fit against samples. R² follows the usual convention when
// y has no variance: 1 for a perfect fit, 0 otherwise.
func Evaluate(samples []Sample, fit FitResult) (Metrics, error) {
	n := len(samples)
	if n == 0 {
		return Metrics{}, fmt.Errorf("%w: no samples to evaluate", ErrDegenerateInput)
	}

	var sumY float64
	for _, s := range samples {
		sumY += s.Y
	}
	meanY := sumY / float64(n)

	var ssRes, ssTot float64
	for _, s := range samples {
		r := s.Y - fit.Predict(s.X)
		ssRes += r * r
		d := s.Y - meanY
		ssTot += d * d
	}

	m := Metrics{MSE: ssRes / float64(n)}
	m.RMSE = math.Sqrt(m.MSE)

	switch {
	case ssTot > 0:
		m.RSquared = 1 - ssRes/ssTot
	case ssRes == 0:
		m.RSquared = 1
	}

	return m, nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
