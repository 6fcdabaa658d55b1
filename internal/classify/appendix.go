// ABOUTME: Flat, serializable view of every band table.
// ABOUTME: Feeds the CLI export, the HTTP bands route and the MCP bands resource.
package classify

import (
	"github.com/develbass/vitalscan/internal/models"
)

// BandRow is one band (or fallback) of one table in printable form.
type BandRow struct {
	Scope    string             `json:"scope" yaml:"scope"`
	Table    string             `json:"table" yaml:"table"`
	Keys     []models.MetricKey `json:"keys" yaml:"keys"`
	Interval string             `json:"interval" yaml:"interval"`
	Tier     models.Tier        `json:"tier,omitempty" yaml:"tier,omitempty"`
	Label    string             `json:"label" yaml:"label"`
	Color    string             `json:"color" yaml:"color"`
}

// FallbackInterval marks the row used when no band matches.
const FallbackInterval = "otherwise"

// ScopeGeneric is the scope of the five-tier tables.
const ScopeGeneric = "generic"

// Appendix flattens all tables into rows. Generic rows carry the tier with
// its generic label and palette color; group rows carry the bespoke text.
func Appendix() []BandRow {
	generic, groups := Tables()

	var rows []BandRow
	for _, t := range generic {
		rows = append(rows, tableRows(ScopeGeneric, t)...)
	}
	for _, g := range groups {
		for _, t := range g.Tables {
			rows = append(rows, tableRows(string(g.Group), t)...)
		}
	}
	return rows
}

func tableRows(scope string, t Table) []BandRow {
	rows := make([]BandRow, 0, len(t.Bands)+1)
	for _, b := range t.Bands {
		rows = append(rows, row(scope, t, b.Interval(), b.Outcome))
	}
	return append(rows, row(scope, t, FallbackInterval, t.Fallback))
}

func row(scope string, t Table, interval string, o Outcome) BandRow {
	r := BandRow{
		Scope:    scope,
		Table:    t.Name,
		Keys:     t.Keys,
		Interval: interval,
		Tier:     o.Tier,
		Label:    o.Label,
		Color:    o.Color,
	}
	if o.Tier != "" {
		r.Label = o.Tier.Label()
		r.Color = o.Tier.Color()
	}
	return r
}
