// ABOUTME: Band tables for every classified metric.
// ABOUTME: Generic five-tier tables plus the per-group label and color tables.
package classify

import (
	m "github.com/develbass/vitalscan/internal/models"
)

var (
	excellent = tier(m.TierExcellent)
	good      = tier(m.TierGood)
	fair      = tier(m.TierFair)
	poor      = tier(m.TierPoor)
	veryPoor  = tier(m.TierVeryPoor)
)

var riskProbabilityKeys = []m.MetricKey{
	m.MetricHypertensionRisk, m.MetricDiabetesRisk, m.MetricHypercholesterolRisk,
	m.MetricTriglycerideRisk, m.MetricFattyLiverRisk, m.MetricMetabolicRisk,
	m.MetricHbA1cRisk, m.MetricFBGRisk,
}

var subScoreKeys = []m.MetricKey{
	m.MetricPhysicalScore, m.MetricMentalScore, m.MetricPhysioScore,
	m.MetricVitalScore, m.MetricRisksScore,
}

// genericTables assign a tier to every band-classified metric.
var genericTables = []Table{
	{
		Name: "heart-rate",
		Keys: []m.MetricKey{m.MetricHeartRate},
		Bands: []Band{
			span(60, 100, excellent),
			span(0, 60, fair),
			closed(100, 140, fair),
		},
		Fallback: poor,
	},
	{
		Name: "systolic",
		Keys: []m.MetricKey{m.MetricSystolic},
		Bands: []Band{
			closed(90, 120, excellent),
			span(80, 90, good),
			leftOpen(120, 130, good),
			span(70, 80, fair),
			leftOpen(130, 140, fair),
			span(60, 70, poor),
			leftOpen(140, 160, poor),
		},
		Fallback: veryPoor,
	},
	{
		Name: "diastolic",
		Keys: []m.MetricKey{m.MetricDiastolic},
		Bands: []Band{
			closed(60, 80, excellent),
			span(50, 60, good),
			leftOpen(80, 85, good),
			span(40, 50, fair),
			leftOpen(85, 90, fair),
			span(30, 40, poor),
			leftOpen(90, 100, poor),
		},
		Fallback: veryPoor,
	},
	{
		Name: "breathing",
		Keys: []m.MetricKey{m.MetricBreathing},
		Bands: []Band{
			span(12, 25, excellent),
			span(1.2, 12, fair),
			closed(25, 35, fair),
		},
		Fallback: poor,
	},
	{
		Name: "hrv",
		Keys: []m.MetricKey{m.MetricHRV},
		Bands: []Band{
			atLeast(51.5, excellent),
			span(35.5, 51.5, good),
			span(16.4, 35.5, fair),
			span(10.8, 16.4, poor),
		},
		Fallback: veryPoor,
	},
	{
		Name: "bmi",
		Keys: []m.MetricKey{m.MetricBMI},
		Bands: []Band{
			span(18.5, 25, excellent),
			span(0, 18.5, fair),
			span(25, 28, fair),
			closed(28, 35, veryPoor),
		},
		Fallback: veryPoor,
	},
	{
		Name: "mental-stress",
		Keys: []m.MetricKey{m.MetricMentalStress},
		Bands: []Band{
			span(1, 2, excellent),
			span(2, 3, good),
			span(3, 4, fair),
			span(4, 5, poor),
		},
		Fallback: veryPoor,
	},
	{
		Name: "health-score",
		Keys: []m.MetricKey{m.MetricHealthScore},
		Bands: []Band{
			atLeast(80, excellent),
			span(60, 80, good),
			span(40, 60, fair),
			span(20, 40, poor),
		},
		Fallback: veryPoor,
	},
	{
		Name: "sub-scores",
		Keys: subScoreKeys,
		Bands: []Band{
			atLeast(4.5, excellent),
			span(4, 4.5, good),
			span(3, 4, fair),
			span(2, 3, poor),
		},
		Fallback: veryPoor,
	},
	{
		Name: "cvd-risk",
		Keys: []m.MetricKey{m.MetricCVDRisk},
		Bands: []Band{
			span(0, 5, excellent),
			span(5, 7.25, good),
			span(7.25, 10, fair),
			span(10, 20, poor),
			closed(20, 100, veryPoor),
		},
		Fallback: veryPoor,
	},
	{
		Name: "heart-attack-risk",
		Keys: []m.MetricKey{m.MetricHeartAttackRisk},
		Bands: []Band{
			span(0, 1.32, excellent),
			span(1.32, 2.81, good),
			span(2.81, 3.30, fair),
			span(3.30, 6.60, poor),
		},
		Fallback: veryPoor,
	},
	{
		Name: "stroke-risk",
		Keys: []m.MetricKey{m.MetricStrokeRisk},
		Bands: []Band{
			span(0, 2.97, excellent),
			span(2.97, 4.79, good),
			span(4.79, 6.60, fair),
			span(6.60, 13.20, poor),
			closed(13.20, 66, veryPoor),
		},
		Fallback: veryPoor,
	},
	{
		Name: "risk-probability",
		Keys: riskProbabilityKeys,
		Bands: []Band{
			span(0, 25, excellent),
			span(25, 45, good),
			span(45, 55, fair),
			span(55, 77.5, poor),
			closed(77.5, 100, veryPoor),
		},
		Fallback: veryPoor,
	},
	{
		Name: "irregular-heartbeats",
		Keys: []m.MetricKey{m.MetricIrregularHB},
		Bands: []Band{
			exactly(0, excellent),
			closed(1, 5, good),
			closed(6, 10, fair),
			closed(11, 20, poor),
		},
		Fallback: veryPoor,
	},
	{
		Name: "waist-to-height",
		Keys: []m.MetricKey{m.MetricWaistToHeight},
		Bands: []Band{
			span(43, 53, excellent),
			span(0, 43, fair),
			span(53, 58, fair),
			span(58, 63, poor),
			closed(63, 75, veryPoor),
		},
		Fallback: veryPoor,
	},
	{
		Name: "absi",
		Keys: []m.MetricKey{m.MetricABSI},
		Bands: []Band{
			span(0, 7.10, excellent),
			span(7.10, 7.60, good),
			span(7.60, 8.60, fair),
			span(8.60, 9.10, poor),
			closed(9.10, 9.60, veryPoor),
		},
		Fallback: veryPoor,
	},
	{
		Name: "snr",
		Keys: []m.MetricKey{m.MetricSNR},
		Bands: []Band{
			atLeast(18, excellent),
			span(15, 18, good),
			span(12, 15, fair),
			span(10, 12, poor),
		},
		Fallback: veryPoor,
	},
	{
		Name: "cardiac-workload",
		Keys: []m.MetricKey{m.MetricCardiacWorkload},
		Bands: []Band{
			span(3.71, 3.90, excellent),
			span(3.90, 4.08, fair),
			span(4.08, 4.18, poor),
			closed(4.18, 4.28, veryPoor),
		},
		Fallback: veryPoor,
	},
	{
		Name: "vascular-capacity",
		Keys: []m.MetricKey{m.MetricVascularCap},
		Bands: []Band{
			closed(2.11, 3.0, excellent),
			span(1.78, 2.11, good),
			span(1.12, 1.78, fair),
			span(0.79, 1.12, poor),
			span(0, 0.79, veryPoor),
		},
		Fallback: veryPoor,
	},
	{
		Name: "waist-circumference",
		Keys: []m.MetricKey{m.MetricWaistCircum},
		Bands: []Band{
			below(80, excellent),
			span(80, 88, good),
			span(88, 102, fair),
			span(102, 120, poor),
		},
		Fallback: veryPoor,
	},
}

// groupTables override the status label and background color for the keys
// of each classification group.
var groupTables = map[m.Group][]Table{
	m.GroupVitals: {
		{
			Name: "heart-rate",
			Keys: []m.MetricKey{m.MetricHeartRate},
			Bands: []Band{
				span(60, 100, label("Normal", m.ColorGreen)),
				span(0, 60, label("Baixo", m.ColorYellow)),
				closed(100, 140, label("Elevado", m.ColorYellow)),
			},
			Fallback: label("Fora do Range", m.ColorYellow),
		},
		{
			Name: "breathing",
			Keys: []m.MetricKey{m.MetricBreathing},
			Bands: []Band{
				span(12, 25, label("Normal", m.ColorGreen)),
				span(1.2, 12, label("Baixo", m.ColorYellow)),
				closed(25, 35, label("Elevado", m.ColorYellow)),
			},
			Fallback: label("Fora do Range", m.ColorYellow),
		},
		{
			Name: "systolic",
			Keys: []m.MetricKey{m.MetricSystolic},
			Bands: []Band{
				below(120, label("Normal", m.ColorGreen)),
				span(120, 130, label("Elevado", m.ColorYellow)),
				span(130, 140, label("Hipertensão Estágio 1", m.ColorOrange)),
				atLeast(140, label("Hipertensão Estágio 2", m.ColorRed)),
			},
			Fallback: label("Baixo", m.ColorYellow),
		},
		{
			Name: "diastolic",
			Keys: []m.MetricKey{m.MetricDiastolic},
			Bands: []Band{
				below(80, label("Ótima", m.ColorGreen)),
				span(80, 85, label("Normal", m.ColorLightGreen)),
				span(85, 90, label("Normal Alto", m.ColorYellow)),
				atLeast(90, label("Hipertensão", m.ColorRed)),
			},
			Fallback: label("Baixo", m.ColorYellow),
		},
		{
			Name: "irregular-heartbeats",
			Keys: []m.MetricKey{m.MetricIrregularHB},
			Bands: []Band{
				exactly(0, label("Normal", m.ColorGreen)),
				closed(1, 5, label("Leve", m.ColorLightGreen)),
				closed(6, 10, label("Moderado", m.ColorYellow)),
				closed(11, 20, label("Elevado", m.ColorOrange)),
			},
			Fallback: label("Muito Elevado", m.ColorRed),
		},
	},
	m.GroupPhysiological: {
		{
			Name: "hrv",
			Keys: []m.MetricKey{m.MetricHRV},
			Bands: []Band{
				atLeast(51.5, label("Excelente", m.ColorGreen)),
				span(35.5, 51.5, label("Bom", m.ColorLightGreen)),
				span(16.4, 35.5, label("Regular", m.ColorYellow)),
				span(10.8, 16.4, label("Baixo", m.ColorOrange)),
			},
			Fallback: label("Muito Baixo", m.ColorRed),
		},
		{
			Name: "cardiac-workload",
			Keys: []m.MetricKey{m.MetricCardiacWorkload},
			Bands: []Band{
				span(3.71, 3.90, label("Ideal", m.ColorLightGreen)),
				span(3.90, 4.08, label("Moderado", m.ColorYellow)),
				span(4.08, 4.18, label("Elevado", m.ColorOrange)),
				closed(4.18, 4.28, label("Muito Elevado", m.ColorRed)),
			},
			Fallback: label("Muito Elevado", m.ColorRed),
		},
		{
			// Negative readings keep the "Excelente" text on a red card.
			Name: "vascular-capacity",
			Keys: []m.MetricKey{m.MetricVascularCap},
			Bands: []Band{
				atLeast(2.11, label("Excelente", m.ColorGreen)),
				span(1.78, 2.11, label("Bom", m.ColorLightGreen)),
				span(1.12, 1.78, label("Regular", m.ColorYellow)),
				span(0.79, 1.12, label("Baixo", m.ColorOrange)),
				span(0, 0.79, label("Muito Baixo", m.ColorRed)),
			},
			Fallback: label("Excelente", m.ColorRed),
		},
	},
	m.GroupMental: {
		{
			Name: "mental-stress",
			Keys: []m.MetricKey{m.MetricMentalStress},
			Bands: []Band{
				span(1, 2, label("Relaxado", m.ColorGreen)),
				span(2, 3, label("Leve", m.ColorLightGreen)),
				span(3, 4, label("Moderado", m.ColorYellow)),
				span(4, 5, label("Elevado", m.ColorOrange)),
			},
			Fallback: label("Sobrecarregado", m.ColorRed),
		},
	},
	m.GroupPhysical: {
		{
			Name: "bmi",
			Keys: []m.MetricKey{m.MetricBMI},
			Bands: []Band{
				span(18.5, 25, label("Peso Normal", m.ColorGreen)),
				span(0, 18.5, label("Abaixo do Peso", m.ColorYellow)),
				span(25, 28, label("Pré-Obesidade", m.ColorYellow)),
				closed(28, 35, label("Obesidade", m.ColorRed)),
			},
			Fallback: label("Obesidade Grave", m.ColorRed),
		},
		{
			Name: "waist-to-height",
			Keys: []m.MetricKey{m.MetricWaistToHeight},
			Bands: []Band{
				span(43, 53, label("Ideal", m.ColorGreen)),
				span(0, 43, label("Moderado", m.ColorYellow)),
				span(53, 58, label("Moderado", m.ColorYellow)),
				span(58, 63, label("Elevado", m.ColorOrange)),
				closed(63, 75, label("Muito Elevado", m.ColorRed)),
			},
			Fallback: label("Crítico", m.ColorRed),
		},
		{
			Name: "absi",
			Keys: []m.MetricKey{m.MetricABSI},
			Bands: []Band{
				span(0, 7.10, label("Ideal", m.ColorGreen)),
				span(7.10, 7.60, label("Bom", m.ColorLightGreen)),
				span(7.60, 8.60, label("Moderado", m.ColorYellow)),
				span(8.60, 9.10, label("Elevado", m.ColorOrange)),
				closed(9.10, 9.60, label("Muito Elevado", m.ColorRed)),
			},
			Fallback: label("Crítico", m.ColorRed),
		},
	},
	m.GroupGeneralRisks: {
		{
			Name:     "cvd-risk",
			Keys:     []m.MetricKey{m.MetricCVDRisk},
			Bands:    riskBands(5, 7.25, 10, 20, 100, true),
			Fallback: label("Crítico", m.ColorRed),
		},
		{
			Name:     "heart-attack-risk",
			Keys:     []m.MetricKey{m.MetricHeartAttackRisk},
			Bands:    riskBands(1.32, 2.81, 3.30, 6.60, 0, false),
			Fallback: label("Muito Alto", m.ColorRed),
		},
		{
			Name:     "stroke-risk",
			Keys:     []m.MetricKey{m.MetricStrokeRisk},
			Bands:    riskBands(2.97, 4.79, 6.60, 13.20, 66, true),
			Fallback: label("Crítico", m.ColorRed),
		},
	},
	m.GroupMetabolicRisks: {
		{
			Name:     "metabolic-risk-probability",
			Keys:     riskProbabilityKeys[:6],
			Bands:    riskBands(25, 45, 55, 77.5, 100, true),
			Fallback: label("Crítico", m.ColorRed),
		},
	},
	m.GroupBloodBiomarkers: {
		{
			Name:     "blood-biomarker-probability",
			Keys:     riskProbabilityKeys[6:],
			Bands:    riskBands(25, 45, 55, 77.5, 100, true),
			Fallback: label("Crítico", m.ColorRed),
		},
	},
}

// riskBands builds the shared "Muito Baixo" to "Muito Alto" scale starting at
// zero. When bounded is false the "Muito Alto" band is left to the fallback.
func riskBands(t1, t2, t3, t4, upper float64, bounded bool) []Band {
	bands := []Band{
		span(0, t1, label("Muito Baixo", m.ColorGreen)),
		span(t1, t2, label("Baixo", m.ColorLightGreen)),
		span(t2, t3, label("Moderado", m.ColorYellow)),
		span(t3, t4, label("Alto", m.ColorOrange)),
	}
	if bounded {
		bands = append(bands, closed(t4, upper, label("Muito Alto", m.ColorRed)))
	}
	return bands
}
