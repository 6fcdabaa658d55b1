// ABOUTME: Intake form state and its closed set of internal tokens.
// ABOUTME: Converts height and weight into metric units for submission.
package models

import (
	"strconv"
	"strings"
)

// Form tokens.
const (
	UnitMetric   = "metric"
	UnitImperial = "imperial"

	SexMale   = "male"
	SexFemale = "female"

	SmokerTrue  = "smoker_true"
	SmokerFalse = "smoker_false"

	BPMedicationTrue  = "blood_pressure_medication_true"
	BPMedicationFalse = "blood_pressure_medication_false"

	DiabetesType1 = "diabetes_type1"
	DiabetesType2 = "diabetes_type2"
	DiabetesNone  = "diabetes_none"
)

const (
	cmPerInch = 2.54
	kgPerLb   = 0.45359237
)

// FormState is the intake form. Every field holds a form token or a raw
// numeric string as typed by the user; empty means unanswered.
type FormState struct {
	Age            string `json:"age"`
	Unit           string `json:"unit"`
	HeightMetric   string `json:"heightMetric"`
	HeightFeet     string `json:"heightFeet"`
	HeightInches   string `json:"heightInches"`
	Weight         string `json:"weight"`
	Sex            string `json:"sex"`
	Smoking        string `json:"smoking"`
	BPMedication   string `json:"bloodPressureMedication"`
	DiabetesStatus string `json:"diabetesStatus"`
}

// NewFormState returns an empty form in metric units.
func NewFormState() FormState {
	return FormState{Unit: UnitMetric}
}

// HeightCm returns the height in centimetres, converting from feet and
// inches when the form is imperial. Zero when unset or unparseable.
func (f FormState) HeightCm() float64 {
	if f.Unit == UnitImperial {
		ft := parseNumber(f.HeightFeet)
		in := parseNumber(f.HeightInches)
		return (ft*12 + in) * cmPerInch
	}
	return parseNumber(f.HeightMetric)
}

// WeightKg returns the weight in kilograms, converting from pounds when the
// form is imperial.
func (f FormState) WeightKg() float64 {
	w := parseNumber(f.Weight)
	if f.Unit == UnitImperial {
		return w * kgPerLb
	}
	return w
}

func parseNumber(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}
