// ABOUTME: Field normalization between form tokens and the partner vocabulary.
// ABOUTME: Tolerant in both directions; unknown tokens pass through, nothing errors.
package normalize

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Partner vocabulary.
const (
	GenderMasculine = "MASCULINE"
	GenderFeminine  = "FEMININE"

	DiabetesOne = "ONE"
	DiabetesTwo = "TWO"
	DiabetesNon = "NON"
)

// Inbound diabetes vocabulary, as stored on the internal side of the bridge.
const (
	InternalDiabetesType1 = "TYPE1"
	InternalDiabetesType2 = "TYPE2"
	InternalDiabetesNone  = "NON"
)

var (
	outboundTrue  = set("yes", "true", "1", "smoker_true", "blood_pressure_medication_true")
	outboundFalse = set("no", "false", "0", "smoker_false", "blood_pressure_medication_false")

	outboundMale   = set("male", "m", "masculino", "masculine")
	outboundFemale = set("female", "f", "feminino", "feminine")

	outboundType1 = set("type1", "one", "diabetes_type1")
	outboundType2 = set("type2", "two", "diabetes_type2")
	outboundNon   = set("non", "none", "no", "nenhum", "diabetes_none")
)

// InboundBoolean maps a partner yes/no flag to a bool. Recognized spellings
// are true, false, yes and no in any case. nil stays nil and anything else is
// returned unchanged.
func InboundBoolean(v any) any {
	if v == nil {
		return nil
	}
	switch strings.ToLower(stringify(v)) {
	case "true", "yes":
		return true
	case "false", "no":
		return false
	}
	return v
}

// InboundGender maps MASCULINE/M to male and FEMININE/F to female. Other
// values are returned as their raw string. ok is false only for nil.
func InboundGender(v any) (gender string, ok bool) {
	if v == nil {
		return "", false
	}
	s := stringify(v)
	switch strings.ToUpper(s) {
	case GenderMasculine, "M":
		return "male", true
	case GenderFeminine, "F":
		return "female", true
	}
	return s, true
}

// InboundDiabetes maps ONE/TWO/NON to TYPE1/TYPE2/NON. Other values are
// returned as their raw string. ok is false only for nil.
func InboundDiabetes(v any) (status string, ok bool) {
	if v == nil {
		return "", false
	}
	s := stringify(v)
	switch strings.ToUpper(s) {
	case DiabetesOne:
		return InternalDiabetesType1, true
	case DiabetesTwo:
		return InternalDiabetesType2, true
	case DiabetesNon:
		return InternalDiabetesNone, true
	}
	return s, true
}

// OutboundBoolean renders a flag as the partner's "true"/"false" string.
// Unrecognized values are passed through lower-cased; nil becomes "".
func OutboundBoolean(v any) string {
	if v == nil {
		return ""
	}
	s := strings.ToLower(stringify(v))
	switch {
	case outboundTrue[s]:
		return "true"
	case outboundFalse[s]:
		return "false"
	}
	return s
}

// OutboundGender renders a sex token as MASCULINE or FEMININE, upper-casing
// anything unrecognized.
func OutboundGender(v any) string {
	if v == nil {
		return ""
	}
	s := strings.ToLower(stringify(v))
	switch {
	case outboundMale[s]:
		return GenderMasculine
	case outboundFemale[s]:
		return GenderFeminine
	}
	return strings.ToUpper(s)
}

// OutboundDiabetes renders a diabetes token as ONE, TWO or NON, upper-casing
// anything unrecognized.
func OutboundDiabetes(v any) string {
	if v == nil {
		return ""
	}
	s := strings.ToLower(stringify(v))
	switch {
	case outboundType1[s]:
		return DiabetesOne
	case outboundType2[s]:
		return DiabetesTwo
	case outboundNon[s]:
		return DiabetesNon
	}
	return strings.ToUpper(s)
}

// stringify renders a decoded JSON value the way a browser would print it.
func stringify(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case json.Number:
		return x.String()
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprint(v)
}

func set(items ...string) map[string]bool {
	m := make(map[string]bool, len(items))
	for _, s := range items {
		m[s] = true
	}
	return m
}
