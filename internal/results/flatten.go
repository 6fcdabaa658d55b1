// ABOUTME: Flattens a result bag into the numeric payload the partner expects.
// ABOUTME: Adds legacy alias fields and scan identifiers for submission.
package results

import (
	"github.com/develbass/vitalscan/internal/models"
)

// FlattenForSubmission maps each key whose value parses to a finite number
// to that number, and writes the same number under every alias of the key.
// Unparseable values drop the key and its aliases.
func FlattenForSubmission(bag Bag) map[string]float64 {
	out := make(map[string]float64, len(bag))
	for key, p := range bag {
		v, ok := p.Value.Float()
		if !ok {
			continue
		}
		out[key] = v
		for _, alias := range models.SubmissionAliases[models.MetricKey(key)] {
			out[alias] = v
		}
	}
	return out
}

// ScanSubmission builds the body sent to the partner scan endpoint: the
// flattened values plus the scan uuid, the measurement id and the star
// rating when the SDK provided them.
func ScanSubmission(scanUUID string, r Results) map[string]any {
	flat := FlattenForSubmission(r.Points)
	out := make(map[string]any, len(flat)+3)
	for k, v := range flat {
		out[k] = v
	}
	if scanUUID != "" {
		out["uuid"] = scanUUID
	}
	if r.MeasurementID != "" {
		out["measurementId"] = r.MeasurementID
	}
	if r.AvgStarRating != nil {
		out["avgStarRating"] = *r.AvgStarRating
	}
	return out
}
