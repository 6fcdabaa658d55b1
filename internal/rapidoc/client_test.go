// ABOUTME: Tests for the Rapidoc partner client against httptest servers.
// ABOUTME: Checks headers, vocabulary translation, validation and status mapping.
package rapidoc

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/develbass/vitalscan/internal/models"
)

const (
	testToken    = "admin-token"
	testClientID = "client-123"
)

func newTestClient(t *testing.T, apiURL, temaURL string) *Client {
	t.Helper()
	c, err := New(Config{APIURL: apiURL, TemaURL: temaURL, Token: testToken, ClientID: testClientID}, zap.NewNop())
	require.NoError(t, err)
	return c
}

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"api.rapidoc.tech", "https://api.rapidoc.tech/"},
		{"  https://api.rapidoc.tech/tema ", "https://api.rapidoc.tech/tema/"},
		{"http://localhost:8080/", "http://localhost:8080/"},
	}
	for _, tt := range tests {
		got, err := NormalizeBaseURL(tt.in)
		require.NoError(t, err)
		require.Equal(t, tt.want, got)
	}

	_, err := NormalizeBaseURL("   ")
	require.Error(t, err)
	_, err = NormalizeBaseURL("https://")
	require.Error(t, err)
}

func TestFetchHealthInformations(t *testing.T) {
	beneficiary := uuid.NewString()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/base/v1/beneficiary-health-informations", r.URL.Path)
		require.Equal(t, beneficiary, r.URL.Query().Get("beneficiaryUuid"))
		require.Equal(t, testClientID, r.URL.Query().Get("clientUuid"))
		require.Equal(t, "Bearer "+testToken, r.Header.Get("Authorization"))
		require.Equal(t, testClientID, r.Header.Get("clientId"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[
			{"height": 180, "weight": 80, "smoke": "yes", "medicationHypertension": "no",
			 "gender": "MASCULINE", "diabetes": "ONE", "extra": "kept"},
			{"height": 1}
		]`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL+"/base", "")
	rec, err := c.FetchHealthInformations(context.Background(), beneficiary, "")
	require.NoError(t, err)

	require.Equal(t, float64(180), rec["height"])
	require.Equal(t, true, rec["smoke"])
	require.Equal(t, false, rec["medicationHypertension"])
	require.Equal(t, "male", rec["gender"])
	require.Equal(t, "TYPE1", rec["diabetes"])
	require.Equal(t, "kept", rec["extra"])
}

func TestFetchHealthInformationsSingleObjectAndEmptyList(t *testing.T) {
	var body atomic.Value
	body.Store(`{"gender": "F", "diabetes": "NON"}`)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body.Load().(string))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, "")
	rec, err := c.FetchHealthInformations(context.Background(), uuid.NewString(), "other-client")
	require.NoError(t, err)
	require.Equal(t, "female", rec["gender"])
	require.Equal(t, "NON", rec["diabetes"])

	body.Store(`[]`)
	rec, err = c.FetchHealthInformations(context.Background(), uuid.NewString(), "")
	require.NoError(t, err)
	require.Empty(t, rec)
}

func TestFetchHealthInformationsUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, "beneficiary not found")
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, "")
	_, err := c.FetchHealthInformations(context.Background(), uuid.NewString(), "")

	var uerr *UpstreamError
	require.True(t, errors.As(err, &uerr))
	require.Equal(t, http.StatusNotFound, uerr.Status)
	require.Equal(t, "Not Found", uerr.StatusText)
	require.Equal(t, "beneficiary not found", uerr.Body)
	require.Equal(t, http.StatusNotFound, HTTPStatus(err))
}

func TestFetchHealthInformationsValidation(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, "")
	for _, id := range []string{"", "not-a-uuid", "00000000-0000-0000-0000-000000000000"} {
		_, err := c.FetchHealthInformations(context.Background(), id, "")
		require.Equal(t, http.StatusBadRequest, HTTPStatus(err), "id %q", id)
	}
	require.Equal(t, int32(0), calls.Load())
}

func TestMissingConfiguration(t *testing.T) {
	c, err := New(Config{}, nil)
	require.NoError(t, err)

	_, err = c.FetchHealthInformations(context.Background(), uuid.NewString(), "")
	var cerr *ConfigError
	require.True(t, errors.As(err, &cerr))
	require.Equal(t, "RPD_API_URL", cerr.Setting)
	require.Equal(t, http.StatusInternalServerError, HTTPStatus(err))

	c, err = New(Config{TemaURL: "tema.example.com", ClientID: testClientID}, nil)
	require.NoError(t, err)
	_, err = c.ValidateToken(context.Background(), "tok", uuid.NewString(), testClientID)
	require.True(t, errors.As(err, &cerr))
	require.Equal(t, "RPDADMIN_TOKEN", cerr.Setting)
}

func TestSaveHealthInformations(t *testing.T) {
	beneficiary := uuid.NewString()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/beneficiary-health-informations", r.URL.Path)
		require.Equal(t, "client-override", r.URL.Query().Get("clientUuid"))
		require.Equal(t, testClientID, r.Header.Get("clientId"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, map[string]any{"uuid": beneficiary}, body["beneficiary"])
		require.Equal(t, float64(172), body["height"])
		require.Equal(t, "true", body["smoke"])
		require.Equal(t, "false", body["medicationHypertension"])
		require.Equal(t, "FEMININE", body["gender"])
		require.Equal(t, "TWO", body["diabetes"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"saved": true}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, "")
	reply, err := c.SaveHealthInformations(context.Background(), models.HealthInformations{
		Beneficiary:            models.Beneficiary{UUID: beneficiary, Name: "dropped"},
		Height:                 172,
		Weight:                 65,
		Smoke:                  true,
		MedicationHypertension: "no",
		Gender:                 "female",
		Diabetes:               "TYPE2",
	}, "client-override")
	require.NoError(t, err)
	require.Equal(t, true, reply["saved"])
}

func TestValidateHealthInformations(t *testing.T) {
	valid := models.HealthInformations{
		Beneficiary: models.Beneficiary{UUID: uuid.NewString()},
		Height:      170,
		Weight:      70,
		Gender:      "male",
		Diabetes:    "NON",
	}
	require.NoError(t, ValidateHealthInformations(valid))

	tests := []struct {
		name  string
		mod   func(*models.HealthInformations)
		field string
	}{
		{"missing uuid", func(h *models.HealthInformations) { h.Beneficiary.UUID = "" }, "beneficiaryUuid"},
		{"bad uuid", func(h *models.HealthInformations) { h.Beneficiary.UUID = "abc" }, "beneficiaryUuid"},
		{"missing gender", func(h *models.HealthInformations) { h.Gender = "" }, "gender"},
		{"missing diabetes", func(h *models.HealthInformations) { h.Diabetes = nil }, "gender"},
		{"short", func(h *models.HealthInformations) { h.Height = 49.9 }, "height"},
		{"tall", func(h *models.HealthInformations) { h.Height = 250.1 }, "height"},
		{"light", func(h *models.HealthInformations) { h.Weight = 19 }, "weight"},
		{"heavy", func(h *models.HealthInformations) { h.Weight = 301 }, "weight"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := valid
			tt.mod(&h)
			err := ValidateHealthInformations(h)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			require.Equal(t, tt.field, verr.Field)
		})
	}

	edge := valid
	edge.Height, edge.Weight = 250, 20
	require.NoError(t, ValidateHealthInformations(edge))
}

func TestValidateToken(t *testing.T) {
	beneficiary := uuid.NewString()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/tema/beneficiary-scans/validate-vitalscan", r.URL.Path)
		require.Equal(t, beneficiary, r.URL.Query().Get("beneficiaryUuid"))
		require.Equal(t, "client-q", r.URL.Query().Get("clientUuid"))
		require.Equal(t, "scan-token", r.Header.Get("token"))
		require.Equal(t, TemaContentType, r.Header.Get("Content-Type"))
		require.Equal(t, "application/json", r.Header.Get("consumes"))
		require.Equal(t, "application/json", r.Header.Get("produces"))
		require.Equal(t, testClientID, r.Header.Get("clientId"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"allowBeneficiaryScan": true, "beneficiaryScanUuid": "s-1"}`)
	}))
	defer srv.Close()

	c := newTestClient(t, "", srv.URL+"/tema")
	out, err := c.ValidateToken(context.Background(), "scan-token", beneficiary, "client-q")
	require.NoError(t, err)
	require.True(t, out.AllowBeneficiaryScan)
	require.Equal(t, "s-1", out.BeneficiaryScanUUID)

	_, err = c.ValidateToken(context.Background(), "", beneficiary, "client-q")
	require.Equal(t, http.StatusBadRequest, HTTPStatus(err))
}

func TestUpdateScanResults(t *testing.T) {
	beneficiary := uuid.NewString()
	scan := uuid.NewString()
	var status atomic.Int32
	status.Store(http.StatusNoContent)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/beneficiary-scans/"+scan, r.URL.Path)
		require.Equal(t, testClientID, r.URL.Query().Get("clientUuid"))
		require.Equal(t, TemaContentType, r.Header.Get("Content-Type"))
		require.Equal(t, "t-1", r.Header.Get("token"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, scan, body["uuid"])
		require.Equal(t, 72.3, body["ppm"])
		require.Equal(t, beneficiary, body["beneficiary"].(map[string]any)["uuid"])

		w.WriteHeader(int(status.Load()))
	}))
	defer srv.Close()

	c := newTestClient(t, "", srv.URL)
	update := ScanUpdate{
		ScanUUID:        scan,
		BeneficiaryUUID: beneficiary,
		Token:           "t-1",
		Results:         map[string]any{"HR_BPM": 72.3, "ppm": 72.3},
	}
	require.NoError(t, c.UpdateScanResults(context.Background(), update))

	// Any other success code is still a failure for this endpoint.
	status.Store(http.StatusOK)
	err := c.UpdateScanResults(context.Background(), update)
	var uerr *UpstreamError
	require.True(t, errors.As(err, &uerr))
	require.Equal(t, http.StatusOK, uerr.Status)
	require.Equal(t, http.StatusBadGateway, HTTPStatus(err))
}

func TestUpdateScanResultsValidation(t *testing.T) {
	c := newTestClient(t, "", "tema.example.com")
	err := c.UpdateScanResults(context.Background(), ScanUpdate{ScanUUID: uuid.NewString()})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.Equal(t, "beneficiary.uuid", verr.Field)

	err = c.UpdateScanResults(context.Background(), ScanUpdate{BeneficiaryUUID: uuid.NewString(), ScanUUID: "x"})
	require.True(t, errors.As(err, &verr))
	require.Equal(t, "uuid", verr.Field)
}

func TestFetchBeneficiaryScan(t *testing.T) {
	scan := uuid.NewString()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/beneficiary-scans/"+scan, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"uuid": "`+scan+`", "ppm": 70}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, "")
	out, err := c.FetchBeneficiaryScan(context.Background(), scan, "")
	require.NoError(t, err)
	require.Equal(t, scan, out["uuid"])
	require.Equal(t, float64(70), out["ppm"])
}

func TestUpstreamErrorHTTPStatus(t *testing.T) {
	require.Equal(t, 502, (&UpstreamError{Status: 502}).HTTPStatus())
	require.Equal(t, 500, (&UpstreamError{Status: 0}).HTTPStatus())
	require.Equal(t, 500, (&UpstreamError{Status: 600}).HTTPStatus())
	require.Equal(t, 502, (&UpstreamError{Status: 200}).HTTPStatus())
	require.Equal(t, 404, (&UpstreamError{Status: 404}).HTTPStatus())
	require.Equal(t, 500, HTTPStatus(errors.New("plain")))
	require.Contains(t, (&UpstreamError{Op: "op", Status: 418, StatusText: "I'm a teapot", Body: "b"}).Error(), "418 I'm a teapot. Details: b")
}
