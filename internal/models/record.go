// ABOUTME: Partner health-record types and identifier validation.
// ABOUTME: HealthRecord keeps unknown partner fields as a passthrough map.
package models

import (
	"strings"

	"github.com/google/uuid"
)

// Partner record field names.
const (
	FieldSmoke                  = "smoke"
	FieldMedicationHypertension = "medicationHypertension"
	FieldGender                 = "gender"
	FieldDiabetes               = "diabetes"
	FieldHeight                 = "height"
	FieldWeight                 = "weight"
	FieldBeneficiary            = "beneficiary"
)

// HealthRecord is a beneficiary health record as returned by the partner.
// Fields are kept as decoded JSON so anything not normalized passes through.
type HealthRecord map[string]any

// Beneficiary identifies the screened subject.
type Beneficiary struct {
	UUID      string `json:"uuid"`
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	BirthDate string `json:"birthDate,omitempty"`
	CPF       string `json:"cpf,omitempty"`
}

// HealthInformations is the payload saved to the partner health-record API.
// Smoke, MedicationHypertension, Gender and Diabetes hold either internal or
// partner vocabulary depending on which side of the bridge the value is on.
type HealthInformations struct {
	Beneficiary            Beneficiary `json:"beneficiary"`
	Height                 float64     `json:"height"`
	Weight                 float64     `json:"weight"`
	Smoke                  any         `json:"smoke"`
	MedicationHypertension any         `json:"medicationHypertension"`
	Gender                 any         `json:"gender"`
	Diabetes               any         `json:"diabetes"`
}

// ValidateTokenResponse is the partner reply to a scan-token check.
type ValidateTokenResponse struct {
	AllowBeneficiaryScan bool   `json:"allowBeneficiaryScan"`
	BeneficiaryScanUUID  string `json:"beneficiaryScanUuid,omitempty"`
	ClientUUID           string `json:"clientUuid,omitempty"`
}

// IsValidUUID reports whether s is a canonical 8-4-4-4-12 RFC 4122 UUID
// with a version nibble between 1 and 5.
func IsValidUUID(s string) bool {
	if len(s) != 36 || strings.Count(s, "-") != 4 {
		return false
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return false
	}
	v := id.Version()
	return v >= 1 && v <= 5 && id.Variant() == uuid.RFC4122
}
