// ABOUTME: Metric classification engine built over the band tables.
// ABOUTME: Maps (metric key, value) to tier, tier color, status text and card color.
package classify

import (
	"math"

	"github.com/develbass/vitalscan/internal/models"
)

// Result is the classification of one reading.
type Result struct {
	Key        string       `json:"metricKey"`
	Value      float64      `json:"value"`
	Group      models.Group `json:"group,omitempty"`
	Tier       models.Tier  `json:"tier"`
	TierLabel  string       `json:"tierLabel"`
	TierColor  string       `json:"tierColor"`
	Status     string       `json:"status"`
	Color      string       `json:"color"`
	Classified bool         `json:"classified"`
}

// Engine evaluates readings against the generic and group tables.
type Engine struct {
	legacyFallback bool
	generic        map[models.MetricKey]Table
	group          map[models.MetricKey]Table
}

// Option configures an Engine.
type Option func(*Engine)

// WithLegacyFallback makes keys without a band table classify as "good",
// matching the dashboard's historical default, instead of unclassified.
func WithLegacyFallback() Option {
	return func(e *Engine) { e.legacyFallback = true }
}

// NewEngine indexes the band tables by metric key.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		generic: make(map[models.MetricKey]Table),
		group:   make(map[models.MetricKey]Table),
	}
	for _, t := range genericTables {
		for _, k := range t.Keys {
			e.generic[k] = t
		}
	}
	for g, tables := range groupTables {
		for _, t := range tables {
			for _, k := range t.Keys {
				if models.GroupOf(k) == g {
					e.group[k] = t
				}
			}
		}
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Default is the engine used by the package-level Classify.
var Default = NewEngine()

// Classify classifies value for key with the default engine.
func Classify(key string, value float64) Result {
	return Default.Classify(key, value)
}

// Classify maps a reading to its tier and display status. Non-finite values
// are always unclassified. Keys without a tier table are unclassified unless
// the engine uses the legacy fallback.
func (e *Engine) Classify(key string, value float64) Result {
	mk := models.MetricKey(key)
	r := Result{
		Key:   key,
		Value: value,
		Group: models.GroupOf(mk),
		Tier:  models.TierUnclassified,
	}

	finite := !math.IsNaN(value) && !math.IsInf(value, 0)
	gt, hasTable := e.generic[mk]

	switch {
	case !finite:
	case hasTable:
		out, _ := gt.Match(value)
		r.Tier = out.Tier
		r.Classified = true
	case e.legacyFallback:
		r.Tier = models.TierGood
	}

	r.TierLabel = r.Tier.Label()
	r.TierColor = r.Tier.Color()
	r.Status = r.TierLabel
	r.Color = r.TierColor

	if !r.Classified {
		return r
	}
	if grp, ok := e.group[mk]; ok {
		out, _ := grp.Match(value)
		r.Status = out.Label
		r.Color = out.Color
	}
	return r
}

// HasTable reports whether key has a tier table.
func (e *Engine) HasTable(key string) bool {
	_, ok := e.generic[models.MetricKey(key)]
	return ok
}

// Tables returns the generic tables followed by each group's tables, in
// dashboard group order.
func Tables() (generic []Table, groups []GroupTables) {
	generic = append(generic, genericTables...)
	for _, s := range models.DashboardSections {
		if ts, ok := groupTables[s.Group]; ok {
			groups = append(groups, GroupTables{Group: s.Group, Tables: ts})
		}
	}
	return generic, groups
}

// GroupTables pairs a classification group with its label tables.
type GroupTables struct {
	Group  models.Group `json:"group" yaml:"group"`
	Tables []Table      `json:"tables" yaml:"tables"`
}
