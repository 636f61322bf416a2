// Package gesture tells a deliberate click apart from a drag by looking only
// at where the gesture started and where it ended.
package gesture

import (
	"fmt"
	"math"
	"strings"

	"github.com/bittlabs/chatdock/internal/dock"
)

// Metric measures the displacement between two points.
type Metric int

const (
	// Euclidean uses the straight-line distance.
	Euclidean Metric = iota
	// MaxAxis uses the larger of the horizontal and vertical deltas.
	MaxAxis
)

// DefaultThreshold is the largest displacement, in cells, still treated as a click.
const DefaultThreshold = 1

func (m Metric) String() string {
	if m == MaxAxis {
		return "max-axis"
	}
	return "euclidean"
}

// ParseMetric parses "euclidean" or "max-axis".
func ParseMetric(name string) (Metric, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "euclidean":
		return Euclidean, nil
	case "max-axis", "maxaxis", "chebyshev":
		return MaxAxis, nil
	}
	return Euclidean, fmt.Errorf("unknown distance metric %q", name)
}

// Distance returns the displacement from a to b under m.
func (m Metric) Distance(a, b dock.Point) float64 {
	dx := math.Abs(float64(b.X - a.X))
	dy := math.Abs(float64(b.Y - a.Y))
	if m == MaxAxis {
		return math.Max(dx, dy)
	}
	return math.Hypot(dx, dy)
}

// Result is the outcome of a classification. Exactly one of IsClick and
// IsDrag is set.
type Result struct {
	IsClick      bool
	IsDrag       bool
	Displacement float64
}

// Classify reports a click when the displacement is at most threshold and a
// drag otherwise. Negative thresholds behave like zero.
func Classify(start, end dock.Point, threshold int, metric Metric) Result {
	d := metric.Distance(start, end)
	click := d <= float64(max(threshold, 0))
	return Result{IsClick: click, IsDrag: !click, Displacement: d}
}
