// ABOUTME: Presentation model of a finished scan grouped into dashboard sections.
// ABOUTME: Each card joins catalog display data with the classification result.
package results

import (
	"errors"
	"strconv"

	"github.com/develbass/vitalscan/internal/classify"
	"github.com/develbass/vitalscan/internal/models"
)

// ErrNoResults means the bag is empty or carries only the signal reading.
var ErrNoResults = errors.New("no results")

// Card is one rendered metric.
type Card struct {
	Key     models.MetricKey `json:"key"`
	Name    string           `json:"name"`
	Icon    string           `json:"icon"`
	Value   float64          `json:"value"`
	Display string           `json:"display"`
	Unit    string           `json:"unit"`
	Range   string           `json:"range"`
	Status  string           `json:"status"`
	Color   string           `json:"color"`
	Tier    models.Tier      `json:"tier"`
}

// Section is a titled group of cards.
type Section struct {
	Group models.Group `json:"group"`
	Title string       `json:"title"`
	Cards []Card       `json:"cards"`
}

// Dashboard is the full results view in display order.
type Dashboard struct {
	Sections []Section `json:"sections"`
}

// Len returns the number of cards across all sections.
func (d Dashboard) Len() int {
	n := 0
	for _, s := range d.Sections {
		n += len(s.Cards)
	}
	return n
}

// BuildDashboard lays out the bag as dashboard sections. Metrics missing
// from the bag, with an empty value or with an unparseable value are left
// out. A nil engine uses classify.Default.
func BuildDashboard(bag Bag, engine *classify.Engine) (Dashboard, error) {
	if len(bag) == 0 || bag.OnlySignal() {
		return Dashboard{}, ErrNoResults
	}
	if engine == nil {
		engine = classify.Default
	}

	d := Dashboard{Sections: make([]Section, 0, len(models.DashboardSections))}
	for _, s := range models.DashboardSections {
		sec := Section{Group: s.Group, Title: s.Title, Cards: []Card{}}
		for _, key := range s.Metrics {
			p, ok := bag[string(key)]
			if !ok || p.Value == "" {
				continue
			}
			v, ok := p.Value.Float()
			if !ok {
				continue
			}
			sec.Cards = append(sec.Cards, card(engine, key, v))
		}
		d.Sections = append(d.Sections, sec)
	}
	return d, nil
}

func card(engine *classify.Engine, key models.MetricKey, v float64) Card {
	entry, _ := models.Lookup(key)
	r := engine.Classify(string(key), v)
	return Card{
		Key:     key,
		Name:    entry.Name,
		Icon:    entry.Icon,
		Value:   v,
		Display: strconv.FormatFloat(v, 'f', 2, 64),
		Unit:    entry.Unit,
		Range:   entry.Range,
		Status:  r.Status,
		Color:   r.Color,
		Tier:    r.Tier,
	}
}
