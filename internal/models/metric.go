// ABOUTME: Metric catalog and MetricKey enum for scan results.
// ABOUTME: Defines 34 metric keys across vitals, body shape, risks, scores and signal quality.
package models

// MetricKey identifies one physiological measurement or derived score.
type MetricKey string

const (
	// Vitals
	MetricHeartRate   MetricKey = "HR_BPM"
	MetricSystolic    MetricKey = "BP_SYSTOLIC"
	MetricDiastolic   MetricKey = "BP_DIASTOLIC"
	MetricBreathing   MetricKey = "BR_BPM"
	MetricIrregularHB MetricKey = "IHB_COUNT"

	// Physiological
	MetricHRV             MetricKey = "HRV_SDNN"
	MetricCardiacWorkload MetricKey = "BP_RPP"
	MetricVascularCap     MetricKey = "BP_TAU"

	// Mental
	MetricMentalStress MetricKey = "MSI"

	// Physical
	MetricBMI           MetricKey = "BMI_CALC"
	MetricWaistCircum   MetricKey = "WAIST_CIRCUM"
	MetricWaistToHeight MetricKey = "WAIST_TO_HEIGHT"
	MetricABSI          MetricKey = "ABSI"
	MetricAge           MetricKey = "AGE"
	MetricHeight        MetricKey = "HEIGHT"
	MetricWeight        MetricKey = "WEIGHT"

	// General risks
	MetricCVDRisk         MetricKey = "BP_CVD"
	MetricHeartAttackRisk MetricKey = "BP_HEART_ATTACK"
	MetricStrokeRisk      MetricKey = "BP_STROKE"

	// Metabolic risks
	MetricHypertensionRisk     MetricKey = "HPT_RISK_PROB"
	MetricDiabetesRisk         MetricKey = "DBT_RISK_PROB"
	MetricHypercholesterolRisk MetricKey = "HDLTC_RISK_PROB"
	MetricTriglycerideRisk     MetricKey = "TG_RISK_PROB"
	MetricFattyLiverRisk       MetricKey = "FLD_RISK_PROB"
	MetricMetabolicRisk        MetricKey = "OVERALL_METABOLIC_RISK_PROB"

	// Blood biomarkers
	MetricHbA1cRisk MetricKey = "HBA1C_RISK_PROB"
	MetricFBGRisk   MetricKey = "MFBG_RISK_PROB"

	// Overall scores
	MetricHealthScore   MetricKey = "HEALTH_SCORE"
	MetricMentalScore   MetricKey = "MENTAL_SCORE"
	MetricPhysicalScore MetricKey = "PHYSICAL_SCORE"
	MetricPhysioScore   MetricKey = "PHYSIO_SCORE"
	MetricVitalScore    MetricKey = "VITAL_SCORE"
	MetricRisksScore    MetricKey = "RISKS_SCORE"

	// Signal quality
	MetricSNR MetricKey = "SNR"
)

// Group is the classification family a metric belongs to.
type Group string

const (
	GroupVitals          Group = "vitals"
	GroupPhysiological   Group = "physiological"
	GroupMental          Group = "mental"
	GroupPhysical        Group = "physical"
	GroupGeneralRisks    Group = "general-risks"
	GroupMetabolicRisks  Group = "metabolic-risks"
	GroupBloodBiomarkers Group = "blood-biomarkers"
	GroupOverallScores   Group = "overall-scores"
	GroupSignal          Group = "signal"
)

// DefaultIcon is used for any metric without a dedicated icon.
const DefaultIcon = "fa-chart-line"

// CatalogEntry is the static display configuration for a metric key.
type CatalogEntry struct {
	Key   MetricKey `json:"key" yaml:"key"`
	Name  string    `json:"name" yaml:"name"`
	Unit  string    `json:"unit" yaml:"unit"`
	Range string    `json:"range" yaml:"range"`
	Icon  string    `json:"icon" yaml:"icon"`
	Group Group     `json:"group" yaml:"group"`
}

// Catalog holds one entry per metric key, in catalog order.
var Catalog = []CatalogEntry{
	{MetricHeartRate, "Frequência Cardíaca", "BPM", "0 a 140 BPM", "fa-heart-pulse", GroupVitals},
	{MetricSystolic, "Pressão Arterial Sistólica", "mmHg", "45 a 180 mmHg", "fa-gauge-high", GroupVitals},
	{MetricDiastolic, "Pressão Arterial Diastólica", "mmHg", "30 a 120 mmHg", "fa-heart-pulse", GroupVitals},
	{MetricBreathing, "Frequência Respiratória", "resp/min", "1.2 a 35 resp/min", "fa-lungs", GroupVitals},
	{MetricIrregularHB, "Batimentos Irregulares", "", "Contagem de batimentos", "fa-heartbeat", GroupVitals},

	{MetricHRV, "Variabilidade da Frequência Cardíaca", "ms", "1 a 80 ms", "fa-wave-square", GroupPhysiological},
	{MetricCardiacWorkload, "Carga Cardíaca", "dB", "3.71 a 4.28 dB", "fa-gauge-simple-high", GroupPhysiological},
	{MetricVascularCap, "Capacidade Vascular", "", "Varia conforme medição", "fa-arrows-alt-v", GroupPhysiological},

	{MetricMentalStress, "Índice de Estresse Mental", "", "1 a 5.9", "fa-brain", GroupMental},

	{MetricBMI, "Índice de Massa Corporal", "kg/m²", "10 a 65 kg/m²", "fa-weight-scale", GroupPhysical},
	{MetricWaistCircum, "Circunferência da Cintura", "cm", "Medida em cm", "fa-ruler-horizontal", GroupPhysical},
	{MetricWaistToHeight, "Relação Cintura-Altura", "%", "25 a 70%", "fa-ruler-combined", GroupPhysical},
	{MetricABSI, "Índice de Forma Corporal", "", "6.19 a 8.83", "fa-shapes", GroupPhysical},
	{MetricAge, "Idade da Pele Facial", "", "", DefaultIcon, GroupPhysical},
	{MetricHeight, "Altura Estimada", "", "", DefaultIcon, GroupPhysical},
	{MetricWeight, "Peso Estimado", "", "", DefaultIcon, GroupPhysical},

	{MetricCVDRisk, "Risco de Doença Cardiovascular", "%", "0 a 100%", "fa-heart-crack", GroupGeneralRisks},
	{MetricHeartAttackRisk, "Risco de Ataque Cardíaco", "%", "0 a 100%", "fa-heart-crack", GroupGeneralRisks},
	{MetricStrokeRisk, "Risco de AVC", "%", "0 a 100%", "fa-brain", GroupGeneralRisks},

	{MetricHypertensionRisk, "Risco de Hipertensão", "%", "0 a 100%", "fa-arrow-up", GroupMetabolicRisks},
	{MetricDiabetesRisk, "Risco de Diabetes Tipo 2", "%", "0 a 100%", "fa-syringe", GroupMetabolicRisks},
	{MetricHypercholesterolRisk, "Risco de Hipercolesterolemia", "%", "0 a 100%", "fa-vials", GroupMetabolicRisks},
	{MetricTriglycerideRisk, "Risco de Hipertrigliceridemia", "%", "0 a 100%", "fa-droplet", GroupMetabolicRisks},
	{MetricFattyLiverRisk, "Risco de Doença Hepática Gordurosa", "%", "0 a 100%", "fa-liver", GroupMetabolicRisks},
	{MetricMetabolicRisk, "Risco Metabólico Geral", "%", "0 a 100%", "fa-dna", GroupMetabolicRisks},

	{MetricHbA1cRisk, "Risco de Hemoglobina A1C Elevada", "%", "0 a 100%", "fa-vial", GroupBloodBiomarkers},
	{MetricFBGRisk, "Risco de Glicose em Jejum Elevada", "%", "0 a 100%", "fa-tint", GroupBloodBiomarkers},

	{MetricHealthScore, "Pontuação de Saúde Geral", "/100", "0 a 100", "fa-heart-circle-check", GroupOverallScores},
	{MetricMentalScore, "Pontuação Mental", "/5", "1 a 5", "fa-brain", GroupOverallScores},
	{MetricPhysicalScore, "Pontuação Física", "/5", "1 a 5", "fa-dumbbell", GroupOverallScores},
	{MetricPhysioScore, "Pontuação Fisiológica", "/5", "1 a 5", "fa-user", GroupOverallScores},
	{MetricVitalScore, "Pontuação de Sinais Vitais", "/5", "1 a 5", "fa-heart-pulse", GroupOverallScores},
	{MetricRisksScore, "Pontuação de Riscos", "/5", "1 a 5", "fa-exclamation-triangle", GroupOverallScores},

	{MetricSNR, "Relação Sinal-Ruído", "dB", "10 a 20 dB", "fa-signal", GroupSignal},
}

var catalogIndex = func() map[MetricKey]CatalogEntry {
	idx := make(map[MetricKey]CatalogEntry, len(Catalog))
	for _, e := range Catalog {
		idx[e.Key] = e
	}
	return idx
}()

// AllMetricKeys returns all catalog keys in catalog order.
func AllMetricKeys() []MetricKey {
	keys := make([]MetricKey, len(Catalog))
	for i, e := range Catalog {
		keys[i] = e.Key
	}
	return keys
}

// Lookup returns the catalog entry for a key.
func Lookup(key MetricKey) (CatalogEntry, bool) {
	e, ok := catalogIndex[key]
	return e, ok
}

// IsValidMetricKey checks if a string is a known metric key.
func IsValidMetricKey(s string) bool {
	_, ok := catalogIndex[MetricKey(s)]
	return ok
}

// GroupOf returns the classification group for a key, or "" when unknown.
func GroupOf(key MetricKey) Group {
	return catalogIndex[key].Group
}

// Section is a titled block of the results dashboard.
type Section struct {
	Group   Group       `json:"group" yaml:"group"`
	Title   string      `json:"title" yaml:"title"`
	Metrics []MetricKey `json:"metrics" yaml:"metrics"`
}

// DashboardSections lists the results dashboard layout in display order.
// AGE, HEIGHT, WEIGHT and SNR are classified but never rendered.
var DashboardSections = []Section{
	{GroupVitals, "Sinais Vitais", []MetricKey{MetricHeartRate, MetricSystolic, MetricDiastolic, MetricBreathing, MetricIrregularHB}},
	{GroupPhysiological, "Fisiológicos", []MetricKey{MetricHRV, MetricCardiacWorkload, MetricVascularCap}},
	{GroupMental, "Mental", []MetricKey{MetricMentalStress}},
	{GroupPhysical, "Físico", []MetricKey{MetricBMI, MetricWaistCircum, MetricWaistToHeight, MetricABSI}},
	{GroupGeneralRisks, "Riscos Gerais", []MetricKey{MetricCVDRisk, MetricHeartAttackRisk, MetricStrokeRisk}},
	{GroupMetabolicRisks, "Riscos Metabólicos", []MetricKey{
		MetricHypertensionRisk, MetricDiabetesRisk, MetricHypercholesterolRisk,
		MetricTriglycerideRisk, MetricFattyLiverRisk, MetricMetabolicRisk,
	}},
	{GroupBloodBiomarkers, "Biomarcadores Sanguíneos", []MetricKey{MetricHbA1cRisk, MetricFBGRisk}},
	{GroupOverallScores, "Pontuações Gerais", []MetricKey{
		MetricHealthScore, MetricMentalScore, MetricPhysicalScore,
		MetricPhysioScore, MetricVitalScore, MetricRisksScore,
	}},
}

// SubmissionAliases maps a metric key to the legacy field names the partner
// scan endpoint expects alongside the canonical key.
var SubmissionAliases = map[MetricKey][]string{
	MetricHeartRate:            {"ppm"},
	MetricBMI:                  {"bmi"},
	MetricSNR:                  {"snr"},
	MetricMentalStress:         {"msi"},
	MetricSystolic:             {"systolic"},
	MetricDiastolic:            {"diastolic"},
	MetricBreathing:            {"breathing"},
	MetricHealthScore:          {"healthScore"},
	MetricWaistToHeight:        {"waistToHeight"},
	MetricHRV:                  {"heartRateVariability"},
	MetricCardiacWorkload:      {"cardiacWorkload"},
	MetricABSI:                 {"absi"},
	MetricCVDRisk:              {"cvdRisk"},
	MetricStrokeRisk:           {"strokeRisk"},
	MetricHeartAttackRisk:      {"heartAttackRisk"},
	MetricHypertensionRisk:     {"HypertensionRisk"},
	MetricTriglycerideRisk:     {"HypertriglyceridemiaRisk"},
	MetricHypercholesterolRisk: {"HypercholesterolemiaRisk"},
	MetricDiabetesRisk:         {"DiabetesRisk"},
	MetricIrregularHB:          {"irregularHeartBeats"},
}
