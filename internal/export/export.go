// ABOUTME: Export of the metric catalog and classification bands.
// ABOUTME: Supports JSON, YAML, Markdown and XLSX formats.
package export

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/develbass/vitalscan/internal/classify"
	"github.com/develbass/vitalscan/internal/models"
)

// Data is the full export document.
type Data struct {
	Version    string                        `json:"version" yaml:"version"`
	ExportedAt time.Time                     `json:"exported_at" yaml:"exported_at"`
	Tool       string                        `json:"tool" yaml:"tool"`
	Metrics    []models.CatalogEntry         `json:"metrics" yaml:"metrics"`
	Sections   []models.Section              `json:"sections" yaml:"sections"`
	Aliases    map[models.MetricKey][]string `json:"aliases" yaml:"aliases"`
	Bands      []classify.BandRow            `json:"bands" yaml:"bands"`
}

// Collect gathers the catalog and every band table.
func Collect() *Data {
	return &Data{
		Version:    "1.0",
		ExportedAt: time.Now(),
		Tool:       "vitalscan",
		Metrics:    models.Catalog,
		Sections:   models.DashboardSections,
		Aliases:    models.SubmissionAliases,
		Bands:      classify.Appendix(),
	}
}

// JSON exports all data as JSON.
func JSON(d *Data) ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// YAML exports all data as YAML with bands grouped by scope and table.
func YAML(d *Data) ([]byte, error) {
	yamlData := struct {
		Version    string                           `yaml:"version"`
		ExportedAt string                           `yaml:"exported_at"`
		Tool       string                           `yaml:"tool"`
		Metrics    []models.CatalogEntry            `yaml:"metrics"`
		Aliases    map[models.MetricKey][]string    `yaml:"aliases"`
		Bands      map[string]map[string][]yamlBand `yaml:"bands"`
	}{
		Version:    d.Version,
		ExportedAt: d.ExportedAt.Format(time.RFC3339),
		Tool:       d.Tool,
		Metrics:    d.Metrics,
		Aliases:    d.Aliases,
		Bands:      make(map[string]map[string][]yamlBand),
	}

	for _, r := range d.Bands {
		scope := yamlData.Bands[r.Scope]
		if scope == nil {
			scope = make(map[string][]yamlBand)
			yamlData.Bands[r.Scope] = scope
		}
		scope[r.Table] = append(scope[r.Table], yamlBand{
			Interval: r.Interval,
			Tier:     string(r.Tier),
			Label:    r.Label,
			Color:    r.Color,
		})
	}

	return yaml.Marshal(yamlData)
}

type yamlBand struct {
	Interval string `yaml:"interval"`
	Tier     string `yaml:"tier,omitempty"`
	Label    string `yaml:"label"`
	Color    string `yaml:"color"`
}

// Markdown exports data as Markdown. A non-empty scope keeps only the band
// tables of that scope ("generic" or a group name).
func Markdown(d *Data, scope string) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# Vitalscan Bands - %s\n\n", d.ExportedAt.Format("2006-01-02")))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", d.ExportedAt.Format(time.RFC3339)))

	if scope == "" {
		sb.WriteString("## Metrics\n\n")
		sb.WriteString("| Key | Name | Unit | Range | Group |\n")
		sb.WriteString("|-----|------|------|-------|-------|\n")
		for _, m := range d.Metrics {
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s |\n", m.Key, m.Name, m.Unit, m.Range, m.Group))
		}
		sb.WriteString("\n")
	}

	current := ""
	for _, r := range d.Bands {
		if scope != "" && r.Scope != scope {
			continue
		}
		heading := r.Scope + " / " + r.Table
		if heading != current {
			if current != "" {
				sb.WriteString("\n")
			}
			current = heading
			sb.WriteString(fmt.Sprintf("## %s\n\n", heading))
			sb.WriteString(fmt.Sprintf("Keys: %s\n\n", joinKeys(r.Keys)))
			sb.WriteString("| Interval | Tier | Label | Color |\n")
			sb.WriteString("|----------|------|-------|-------|\n")
		}
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n", r.Interval, r.Tier, r.Label, r.Color))
	}
	if current != "" {
		sb.WriteString("\n")
	}

	return sb.String()
}

func joinKeys(keys []models.MetricKey) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = string(k)
	}
	return strings.Join(parts, ", ")
}
