package engine

import "math"

// mean returns the arithmetic mean of values. Callers guard against empty input.
func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// sampleStdDev returns the Bessel-corrected standard deviation around mu.
func sampleStdDev(values []float64, mu float64) float64 {
	if len(values) < 2 {
		return 0
	}

	var sum float64
	for _, v := range values {
		d := v - mu
		sum += d * d
	}

	return math.Sqrt(sum / float64(len(values)-1))
}

// linearRegression fits an ordinary least-squares line of y against the
// indices 1..n. A degenerate denominator falls back to a flat line at the
// mean of y.
func linearRegression(y []float64) (slope, intercept float64) {
	n := len(y)
	if n == 0 {
		return 0, 0
	}

	var sumX, sumY, sumXY, sumX2 float64
	for i, yi := range y {
		x := float64(i + 1)
		sumX += x
		sumY += yi
		sumXY += x * yi
		sumX2 += x * x
	}

	denom := float64(n)*sumX2 - sumX*sumX
	if denom == 0 {
		return 0, sumY / float64(n)
	}

	slope = (float64(n)*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / float64(n)
	return slope, intercept
}

// round1 rounds to one decimal place.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// round2 rounds to two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
