// ABOUTME: Health status tiers with their palette colors and generic labels.
// ABOUTME: Includes the unclassified tier used for keys without band tables.
package models

// Tier is an ordered health-status classification.
type Tier string

const (
	TierExcellent    Tier = "excellent"
	TierGood         Tier = "good"
	TierFair         Tier = "fair"
	TierPoor         Tier = "poor"
	TierVeryPoor     Tier = "very-poor"
	TierUnclassified Tier = "unclassified"
)

// Palette colors.
const (
	ColorGreen      = "#66D89D"
	ColorLightGreen = "#B3F2B2"
	ColorYellow     = "#FFEB86"
	ColorOrange     = "#FFA726"
	ColorRed        = "#F36565"
	ColorGrey       = "#E0E0E0"
)

// AllTiers returns the five ranked tiers, best first.
var AllTiers = []Tier{TierExcellent, TierGood, TierFair, TierPoor, TierVeryPoor}

var tierColors = map[Tier]string{
	TierExcellent:    ColorGreen,
	TierGood:         ColorLightGreen,
	TierFair:         ColorYellow,
	TierPoor:         ColorOrange,
	TierVeryPoor:     ColorRed,
	TierUnclassified: ColorGrey,
}

var tierLabels = map[Tier]string{
	TierExcellent:    "Ótimo",
	TierGood:         "Bom",
	TierFair:         "Regular",
	TierPoor:         "Ruim",
	TierVeryPoor:     "Muito Ruim",
	TierUnclassified: "Não classificado",
}

// Color returns the palette color for the tier.
func (t Tier) Color() string {
	if c, ok := tierColors[t]; ok {
		return c
	}
	return ColorGreen
}

// Label returns the generic localized label for the tier.
func (t Tier) Label() string {
	if l, ok := tierLabels[t]; ok {
		return l
	}
	return "Normal"
}

// Rank orders tiers from 0 (excellent) to 4 (very-poor); unclassified is -1.
func (t Tier) Rank() int {
	for i, tt := range AllTiers {
		if tt == t {
			return i
		}
	}
	return -1
}

// IsRanked reports whether t is one of the five ordered tiers.
func (t Tier) IsRanked() bool {
	return t.Rank() >= 0
}
