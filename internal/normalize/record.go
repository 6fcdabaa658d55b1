// ABOUTME: Record-level normalization built on the field bridge.
// ABOUTME: Converts partner records to form prefill and form state to partner payloads.
package normalize

import (
	"strconv"
	"strings"

	"github.com/develbass/vitalscan/internal/models"
)

// InboundRecord normalizes the four vocabulary fields of a partner record.
// All other fields are copied through untouched. A field whose normalized
// value is nil is removed.
func InboundRecord(rec models.HealthRecord) models.HealthRecord {
	if rec == nil {
		return nil
	}
	out := make(models.HealthRecord, len(rec))
	for k, v := range rec {
		out[k] = v
	}

	normalizeField(out, models.FieldSmoke, func(v any) any { return InboundBoolean(v) })
	normalizeField(out, models.FieldMedicationHypertension, func(v any) any { return InboundBoolean(v) })
	normalizeField(out, models.FieldGender, func(v any) any {
		if g, ok := InboundGender(v); ok {
			return g
		}
		return nil
	})
	normalizeField(out, models.FieldDiabetes, func(v any) any {
		if d, ok := InboundDiabetes(v); ok {
			return d
		}
		return nil
	})
	return out
}

func normalizeField(rec models.HealthRecord, field string, fn func(any) any) {
	v, ok := rec[field]
	if !ok {
		return
	}
	if nv := fn(v); nv != nil {
		rec[field] = nv
		return
	}
	delete(rec, field)
}

// OutboundHealthInformations returns a copy of h with the vocabulary fields
// rendered in partner spelling.
func OutboundHealthInformations(h models.HealthInformations) models.HealthInformations {
	h.Smoke = OutboundBoolean(h.Smoke)
	h.MedicationHypertension = OutboundBoolean(h.MedicationHypertension)
	h.Gender = OutboundGender(h.Gender)
	h.Diabetes = OutboundDiabetes(h.Diabetes)
	return h
}

// RecordToForm prefills a form from a normalized partner record. Fields the
// record does not carry keep their previous values, except the three yes/no
// questions which are reset to unanswered when the record has no usable value.
func RecordToForm(rec models.HealthRecord, prev models.FormState) models.FormState {
	next := prev
	if rec == nil {
		return next
	}

	if h, ok := rec[models.FieldHeight].(float64); ok {
		next.Unit = models.UnitMetric
		next.HeightMetric = strconv.FormatFloat(h, 'f', -1, 64)
	}
	switch w := rec[models.FieldWeight].(type) {
	case float64:
		next.Weight = strconv.FormatFloat(w, 'f', -1, 64)
	case string:
		next.Weight = w
	}

	next.Smoking = flagToken(rec[models.FieldSmoke], models.SmokerTrue, models.SmokerFalse)
	next.BPMedication = flagToken(rec[models.FieldMedicationHypertension], models.BPMedicationTrue, models.BPMedicationFalse)
	next.DiabetesStatus = diabetesToken(rec[models.FieldDiabetes])

	if g, ok := rec[models.FieldGender].(string); ok {
		switch g {
		case models.SexMale, models.SexFemale:
			next.Sex = g
		}
	}
	return next
}

func flagToken(v any, yes, no string) string {
	if v == nil {
		return ""
	}
	switch strings.ToLower(stringify(v)) {
	case "true":
		return yes
	case "false":
		return no
	}
	return ""
}

func diabetesToken(v any) string {
	s, ok := v.(string)
	if !ok || s == "" {
		return ""
	}
	switch strings.ToUpper(s) {
	case "TYPE1", "TYPE_1", "TYPE-1":
		return models.DiabetesType1
	case "TYPE2", "TYPE_2", "TYPE-2":
		return models.DiabetesType2
	case "NON", "NONE", "NO", "NENHUM":
		return models.DiabetesNone
	}
	return ""
}

// FormToHealthInformations builds the internal-side health payload for a
// beneficiary from a submitted form. Pass the result through
// OutboundHealthInformations before sending it to the partner.
func FormToHealthInformations(f models.FormState, beneficiaryUUID string) models.HealthInformations {
	h := models.HealthInformations{
		Beneficiary: models.Beneficiary{UUID: beneficiaryUUID},
		Height:      f.HeightCm(),
		Weight:      f.WeightKg(),
	}

	h.Smoke = tokenToFlag(f.Smoking, models.SmokerTrue, models.SmokerFalse)
	h.MedicationHypertension = tokenToFlag(f.BPMedication, models.BPMedicationTrue, models.BPMedicationFalse)

	switch f.Sex {
	case models.SexMale:
		h.Gender = "M"
	case models.SexFemale:
		h.Gender = "F"
	default:
		h.Gender = ""
	}

	switch f.DiabetesStatus {
	case models.DiabetesType1:
		h.Diabetes = InternalDiabetesType1
	case models.DiabetesType2:
		h.Diabetes = InternalDiabetesType2
	case models.DiabetesNone:
		h.Diabetes = InternalDiabetesNone
	default:
		h.Diabetes = ""
	}
	return h
}

func tokenToFlag(token, yes, no string) any {
	switch token {
	case yes:
		return true
	case no:
		return false
	}
	return ""
}

// Profile is the demographic profile handed to the measurement SDK.
type Profile struct {
	Age                     int     `json:"age"`
	HeightCm                float64 `json:"height"`
	WeightKg                float64 `json:"weight"`
	Sex                     string  `json:"sex"`
	Smoking                 bool    `json:"smoking"`
	BloodPressureMedication bool    `json:"bloodPressureMedication"`
	Diabetes                string  `json:"diabetes"`
}

// FormToProfile converts a form into measurement SDK demographics.
func FormToProfile(f models.FormState) Profile {
	age, _ := strconv.Atoi(strings.TrimSpace(f.Age))
	p := Profile{
		Age:                     age,
		HeightCm:                f.HeightCm(),
		WeightKg:                f.WeightKg(),
		Sex:                     f.Sex,
		Smoking:                 f.Smoking == models.SmokerTrue,
		BloodPressureMedication: f.BPMedication == models.BPMedicationTrue,
	}
	switch f.DiabetesStatus {
	case models.DiabetesType1:
		p.Diabetes = "type1"
	case models.DiabetesType2:
		p.Diabetes = "type2"
	case models.DiabetesNone:
		p.Diabetes = "none"
	}
	return p
}
