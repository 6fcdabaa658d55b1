// ABOUTME: Threshold bands and the generic first-match evaluator.
// ABOUTME: A band is an interval with optional open/closed ends and an outcome.
package classify

import (
	"math"
	"strconv"

	"github.com/develbass/vitalscan/internal/models"
)

// Outcome is what a matched band reports. Generic tables set Tier; group
// tables set Label and Color.
type Outcome struct {
	Tier  models.Tier `json:"tier,omitempty" yaml:"tier,omitempty"`
	Label string      `json:"label,omitempty" yaml:"label,omitempty"`
	Color string      `json:"color,omitempty" yaml:"color,omitempty"`
}

// Band is the interval [Low, High) by default. LowOpen excludes Low and
// HighClosed includes High. Unbounded ends use ±Inf.
type Band struct {
	Low        float64
	High       float64
	LowOpen    bool
	HighClosed bool
	Outcome
}

// Contains reports whether v falls inside the band.
func (b Band) Contains(v float64) bool {
	lowOK := v > b.Low || (!b.LowOpen && v == b.Low)
	highOK := v < b.High || (b.HighClosed && v == b.High)
	return lowOK && highOK
}

// Interval renders the band in mathematical notation, e.g. "[60, 100)".
func (b Band) Interval() string {
	left, right := "[", ")"
	if b.LowOpen || math.IsInf(b.Low, -1) {
		left = "("
	}
	if b.HighClosed && !math.IsInf(b.High, 1) {
		right = "]"
	}
	return left + formatBound(b.Low) + ", " + formatBound(b.High) + right
}

func formatBound(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "+∞"
	case math.IsInf(v, -1):
		return "-∞"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Table is an ordered list of bands shared by one or more metric keys.
// The first matching band wins; Fallback applies when none match.
type Table struct {
	Name     string             `json:"name" yaml:"name"`
	Keys     []models.MetricKey `json:"keys" yaml:"keys"`
	Bands    []Band             `json:"-" yaml:"-"`
	Fallback Outcome            `json:"fallback" yaml:"fallback"`
}

// Match returns the outcome for v and whether an explicit band matched.
func (t Table) Match(v float64) (Outcome, bool) {
	for _, b := range t.Bands {
		if b.Contains(v) {
			return b.Outcome, true
		}
	}
	return t.Fallback, false
}

// Interval constructors. Names follow the closedness of the ends.

// span is [lo, hi).
func span(lo, hi float64, o Outcome) Band {
	return Band{Low: lo, High: hi, Outcome: o}
}

// closed is [lo, hi].
func closed(lo, hi float64, o Outcome) Band {
	return Band{Low: lo, High: hi, HighClosed: true, Outcome: o}
}

// leftOpen is (lo, hi].
func leftOpen(lo, hi float64, o Outcome) Band {
	return Band{Low: lo, High: hi, LowOpen: true, HighClosed: true, Outcome: o}
}

// atLeast is [lo, +∞).
func atLeast(lo float64, o Outcome) Band {
	return Band{Low: lo, High: math.Inf(1), Outcome: o}
}

// below is (-∞, hi).
func below(hi float64, o Outcome) Band {
	return Band{Low: math.Inf(-1), High: hi, Outcome: o}
}

// exactly is [v, v].
func exactly(v float64, o Outcome) Band {
	return closed(v, v, o)
}

func tier(t models.Tier) Outcome { return Outcome{Tier: t} }

func label(l, color string) Outcome { return Outcome{Label: l, Color: color} }
