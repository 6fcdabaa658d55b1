// ABOUTME: MCP tool implementations for vitalscan.
// ABOUTME: Classifies readings, flattens results and translates partner vocabulary.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/develbass/vitalscan/internal/classify"
	"github.com/develbass/vitalscan/internal/models"
	"github.com/develbass/vitalscan/internal/normalize"
	"github.com/develbass/vitalscan/internal/rapidoc"
	"github.com/develbass/vitalscan/internal/results"
)

func (s *Server) registerTools() {
	// classify_metric
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "classify_metric",
		Description: "Classify one vital-sign reading into a health tier with its status text and color",
	}, s.handleClassifyMetric)

	// classify_results
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "classify_results",
		Description: "Build the results dashboard (sections and cards) for a set of scan readings",
	}, s.handleClassifyResults)

	// flatten_results
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "flatten_results",
		Description: "Flatten scan readings into the numeric payload sent to the partner, with legacy alias fields",
	}, s.handleFlattenResults)

	// normalize_health_record
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "normalize_health_record",
		Description: "Translate a partner health record (MASCULINE, ONE, yes, ...) into internal values",
	}, s.handleNormalizeHealthRecord)

	// normalize_health_informations
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "normalize_health_informations",
		Description: "Validate health information and translate it into the partner vocabulary for saving",
	}, s.handleNormalizeHealthInformations)

	// fetch_beneficiary_health
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "fetch_beneficiary_health",
		Description: "Fetch a beneficiary's health record from the partner, already normalized",
	}, s.handleFetchBeneficiaryHealth)
}

// Tool input/output types

type classifyMetricInput struct {
	MetricKey string  `json:"metric_key" jsonschema:"the metric key, e.g. HR_BPM or BP_SYSTOLIC"`
	Value     float64 `json:"value" jsonschema:"the reading to classify"`
}

type readingsInput struct {
	Values        map[string]string `json:"values" jsonschema:"metric key to raw reading, e.g. HR_BPM to 72.3"`
	ScanUUID      string            `json:"scan_uuid,omitempty" jsonschema:"scan uuid added to the submission"`
	MeasurementID string            `json:"measurement_id,omitempty" jsonschema:"measurement id added to the submission"`
}

func (in readingsInput) bag() results.Bag {
	bag := make(results.Bag, len(in.Values))
	for k, v := range in.Values {
		bag[k] = results.Point{Value: results.Value(v)}
	}
	return bag
}

type flattenOutput struct {
	Submission map[string]any `json:"submission"`
	Dropped    []string       `json:"dropped,omitempty"`
}

type normalizeRecordInput struct {
	Record map[string]any `json:"record" jsonschema:"health record as returned by the partner"`
}

type healthInformationsInput struct {
	BeneficiaryUUID        string  `json:"beneficiary_uuid" jsonschema:"beneficiary uuid"`
	Height                 float64 `json:"height" jsonschema:"height in cm"`
	Weight                 float64 `json:"weight" jsonschema:"weight in kg"`
	Smoke                  string  `json:"smoke,omitempty" jsonschema:"smoker: true, false, yes or no"`
	MedicationHypertension string  `json:"medication_hypertension,omitempty" jsonschema:"takes blood pressure medication: true, false, yes or no"`
	Gender                 string  `json:"gender" jsonschema:"male or female"`
	Diabetes               string  `json:"diabetes" jsonschema:"TYPE1, TYPE2 or NON"`
}

type healthInformationsOutput struct {
	Valid   bool                      `json:"valid"`
	Error   string                    `json:"error,omitempty"`
	Payload models.HealthInformations `json:"payload"`
}

type fetchHealthInput struct {
	BeneficiaryUUID string `json:"beneficiary_uuid" jsonschema:"beneficiary uuid"`
	ClientUUID      string `json:"client_uuid,omitempty" jsonschema:"client uuid, defaults to the configured client"`
}

// Tool handlers

func (s *Server) handleClassifyMetric(ctx context.Context, req *mcp.CallToolRequest, input classifyMetricInput) (*mcp.CallToolResult, classify.Result, error) {
	if input.MetricKey == "" {
		return nil, classify.Result{}, errors.New("metric_key is required")
	}
	return nil, s.classifier.Classify(input.MetricKey, input.Value), nil
}

func (s *Server) handleClassifyResults(ctx context.Context, req *mcp.CallToolRequest, input readingsInput) (*mcp.CallToolResult, results.Dashboard, error) {
	d, err := results.BuildDashboard(input.bag(), s.classifier)
	if err != nil {
		return nil, results.Dashboard{}, fmt.Errorf("failed to build dashboard: %w", err)
	}
	return nil, d, nil
}

func (s *Server) handleFlattenResults(ctx context.Context, req *mcp.CallToolRequest, input readingsInput) (*mcp.CallToolResult, flattenOutput, error) {
	bag := input.bag()
	out := flattenOutput{
		Submission: results.ScanSubmission(input.ScanUUID, results.Results{
			Points:        bag,
			MeasurementID: input.MeasurementID,
		}),
	}
	for k, p := range bag {
		if _, ok := p.Value.Float(); !ok {
			out.Dropped = append(out.Dropped, k)
		}
	}
	sort.Strings(out.Dropped)
	return nil, out, nil
}

func (s *Server) handleNormalizeHealthRecord(ctx context.Context, req *mcp.CallToolRequest, input normalizeRecordInput) (*mcp.CallToolResult, models.HealthRecord, error) {
	if input.Record == nil {
		return nil, nil, errors.New("record is required")
	}
	return nil, normalize.InboundRecord(models.HealthRecord(input.Record)), nil
}

func (s *Server) handleNormalizeHealthInformations(ctx context.Context, req *mcp.CallToolRequest, input healthInformationsInput) (*mcp.CallToolResult, healthInformationsOutput, error) {
	h := models.HealthInformations{
		Beneficiary:            models.Beneficiary{UUID: input.BeneficiaryUUID},
		Height:                 input.Height,
		Weight:                 input.Weight,
		Smoke:                  input.Smoke,
		MedicationHypertension: input.MedicationHypertension,
		Gender:                 input.Gender,
		Diabetes:               optional(input.Diabetes),
	}

	out := healthInformationsOutput{Valid: true, Payload: normalize.OutboundHealthInformations(h)}
	if err := rapidoc.ValidateHealthInformations(h); err != nil {
		out.Valid = false
		out.Error = err.Error()
	}
	return nil, out, nil
}

func optional(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func (s *Server) handleFetchBeneficiaryHealth(ctx context.Context, req *mcp.CallToolRequest, input fetchHealthInput) (*mcp.CallToolResult, models.HealthRecord, error) {
	if s.partner == nil {
		return nil, nil, errors.New("partner API is not configured")
	}
	rec, err := s.partner.FetchHealthInformations(ctx, input.BeneficiaryUUID, input.ClientUUID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch health record: %w", err)
	}
	return nil, rec, nil
}
