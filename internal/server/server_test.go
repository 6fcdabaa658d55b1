// ABOUTME: Tests for the HTTP API using a fake partner and httptest recorders.
// ABOUTME: Covers proxy routes, error mapping, CORS, prefetch sharing and results.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/develbass/vitalscan/internal/classify"
	"github.com/develbass/vitalscan/internal/config"
	"github.com/develbass/vitalscan/internal/models"
	"github.com/develbass/vitalscan/internal/prefetch"
	"github.com/develbass/vitalscan/internal/rapidoc"
)

type fakePartner struct {
	fetchCalls atomic.Int32
	fetchGate  chan struct{}
	record     models.HealthRecord
	fetchErr   error

	saved   models.HealthInformations
	saveErr error

	update    rapidoc.ScanUpdate
	updateErr error
}

func (f *fakePartner) FetchHealthInformations(ctx context.Context, beneficiaryUUID, clientUUID string) (models.HealthRecord, error) {
	f.fetchCalls.Add(1)
	if f.fetchGate != nil {
		<-f.fetchGate
	}
	return f.record, f.fetchErr
}

func (f *fakePartner) SaveHealthInformations(ctx context.Context, h models.HealthInformations, clientUUID string) (map[string]any, error) {
	f.saved = h
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	return map[string]any{"ok": true}, nil
}

func (f *fakePartner) ValidateToken(ctx context.Context, token, beneficiaryUUID, clientUUID string) (*models.ValidateTokenResponse, error) {
	if token == "" {
		return nil, &rapidoc.ValidationError{Field: "token", Message: "is required"}
	}
	return &models.ValidateTokenResponse{AllowBeneficiaryScan: token == "good"}, nil
}

func (f *fakePartner) UpdateScanResults(ctx context.Context, u rapidoc.ScanUpdate) error {
	f.update = u
	return f.updateErr
}

func (f *fakePartner) FetchBeneficiaryScan(ctx context.Context, scanUUID, clientUUID string) (map[string]any, error) {
	return map[string]any{"uuid": scanUUID}, nil
}

func newTestServer(t *testing.T, partner Partner) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{StudyID: "study-1"}
	return New(cfg, Deps{Partner: partner, Prefetch: prefetch.New[models.HealthRecord](time.Minute)})
}

func do(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Engine().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHealthAndStudyID(t *testing.T) {
	s := newTestServer(t, &fakePartner{})

	rec := do(t, s, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", decode(t, rec)["status"])

	rec = do(t, s, http.MethodGet, "/api/studyId", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	require.Equal(t, "200", body["status"])
	require.Equal(t, "study-1", body["studyId"])
}

func TestStudyIDNotConfigured(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := New(&config.Config{}, Deps{Partner: &fakePartner{}})

	rec := do(t, s, http.MethodGet, "/api/studyId", nil)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode(t, rec)
	require.Equal(t, "500", body["status"])
	require.Contains(t, body["error"], "STUDY_ID")
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, &fakePartner{})

	rec := do(t, s, http.MethodOptions, "/api/save-results", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestBeneficiaryHealth(t *testing.T) {
	partner := &fakePartner{record: models.HealthRecord{"gender": "male", "height": 180.0}}
	s := newTestServer(t, partner)
	id := uuid.NewString()

	rec := do(t, s, http.MethodGet, "/api/beneficiary-health?beneficiaryUuid="+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "male", decode(t, rec)["gender"])

	rec = do(t, s, http.MethodGet, "/api/beneficiary-health?beneficiaryUuid="+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, int32(1), partner.fetchCalls.Load(), "second request should be served from the prefetch cache")
}

func TestBeneficiaryHealthValidation(t *testing.T) {
	partner := &fakePartner{}
	s := newTestServer(t, partner)

	rec := do(t, s, http.MethodGet, "/api/beneficiary-health", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "400", decode(t, rec)["status"])

	rec = do(t, s, http.MethodGet, "/api/beneficiary-health?beneficiaryUuid=nope", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, int32(0), partner.fetchCalls.Load())
}

func TestBeneficiaryHealthConcurrentRequestsShareLookup(t *testing.T) {
	partner := &fakePartner{
		fetchGate: make(chan struct{}),
		record:    models.HealthRecord{"diabetes": "TYPE2"},
	}
	s := newTestServer(t, partner)
	path := "/api/beneficiary-health?beneficiaryUuid=" + uuid.NewString() + "&clientUuid=c1"

	var wg sync.WaitGroup
	recs := make([]*httptest.ResponseRecorder, 2)
	for i := range recs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			recs[i] = do(t, s, http.MethodGet, path, nil)
		}(i)
	}

	require.Eventually(t, func() bool { return partner.fetchCalls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(partner.fetchGate)
	wg.Wait()

	require.Equal(t, int32(1), partner.fetchCalls.Load())
	for _, rec := range recs {
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "TYPE2", decode(t, rec)["diabetes"])
	}
}

func TestBeneficiaryHealthUpstreamStatus(t *testing.T) {
	partner := &fakePartner{fetchErr: &rapidoc.UpstreamError{Op: "fetch", Status: 503, StatusText: "Service Unavailable"}}
	s := newTestServer(t, partner)

	rec := do(t, s, http.MethodGet, "/api/beneficiary-health?beneficiaryUuid="+uuid.NewString(), nil)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.Equal(t, "503", decode(t, rec)["status"])
}

func TestHealthInformations(t *testing.T) {
	partner := &fakePartner{}
	s := newTestServer(t, partner)
	id := uuid.NewString()

	rec := do(t, s, http.MethodPost, "/api/health-informations", map[string]any{
		"beneficiaryUuid": id,
		"height":          175,
		"weight":          70.5,
		"smoke":           false,
		"gender":          "male",
		"diabetes":        "NON",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, true, decode(t, rec)["ok"])
	require.Equal(t, id, partner.saved.Beneficiary.UUID)
	require.Equal(t, 175.0, partner.saved.Height)
	require.Equal(t, "male", partner.saved.Gender)

	rec = do(t, s, http.MethodPost, "/api/health-informations", map[string]any{
		"beneficiaryUuid": id,
		"height":          "175",
		"weight":          70,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodPost, "/api/health-informations", map[string]any{"beneficiaryUuid": id})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthInformationsValidationError(t *testing.T) {
	partner := &fakePartner{saveErr: &rapidoc.ValidationError{Field: "height", Message: "must be between 50 and 250 cm"}}
	s := newTestServer(t, partner)

	rec := do(t, s, http.MethodPost, "/api/health-informations", map[string]any{
		"beneficiaryUuid": uuid.NewString(),
		"height":          10,
		"weight":          70,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, decode(t, rec)["error"], "height")
}

func TestValidateToken(t *testing.T) {
	s := newTestServer(t, &fakePartner{})

	rec := do(t, s, http.MethodGet, "/api/validate-token?token=good&beneficiaryUuid=b&clientUuid=c", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, true, decode(t, rec)["allowBeneficiaryScan"])

	rec = do(t, s, http.MethodGet, "/api/validate-token", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSaveResults(t *testing.T) {
	partner := &fakePartner{}
	s := newTestServer(t, partner)
	beneficiary, scan := uuid.NewString(), uuid.NewString()

	rec := do(t, s, http.MethodPost, "/api/save-results", map[string]any{
		"beneficiary": map[string]any{"uuid": beneficiary},
		"uuid":        scan,
		"clientUuid":  "client-9",
		"token":       "tok",
		"HR_BPM":      72.3,
		"ppm":         72.3,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	require.Equal(t, "200", body["status"])
	require.Equal(t, SavedMessage, body["message"])

	require.Equal(t, beneficiary, partner.update.BeneficiaryUUID)
	require.Equal(t, scan, partner.update.ScanUUID)
	require.Equal(t, "client-9", partner.update.ClientUUID)
	require.Equal(t, "tok", partner.update.Token)
	require.Equal(t, map[string]any{"uuid": scan, "HR_BPM": 72.3, "ppm": 72.3}, partner.update.Results)
}

func TestSaveResultsSkipsWithoutBeneficiary(t *testing.T) {
	partner := &fakePartner{}
	s := newTestServer(t, partner)

	rec := do(t, s, http.MethodPost, "/api/save-results", map[string]any{"uuid": uuid.NewString(), "HR_BPM": 70})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, true, decode(t, rec)["skipped"])
	require.Empty(t, partner.update.ScanUUID)
}

func TestSaveResultsUpstreamFailure(t *testing.T) {
	partner := &fakePartner{updateErr: &rapidoc.UpstreamError{Op: "update", Status: 502, StatusText: "Bad Gateway"}}
	s := newTestServer(t, partner)

	rec := do(t, s, http.MethodPost, "/api/save-results", map[string]any{
		"beneficiary": map[string]any{"uuid": uuid.NewString()},
		"uuid":        uuid.NewString(),
	})
	require.Equal(t, http.StatusBadGateway, rec.Code)
	body := decode(t, rec)
	require.Equal(t, "502", body["status"])
	require.Contains(t, body["error"], "502 Bad Gateway")
}

func TestBeneficiaryScan(t *testing.T) {
	s := newTestServer(t, &fakePartner{})
	scan := uuid.NewString()

	rec := do(t, s, http.MethodGet, "/api/beneficiary-scans/"+scan, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, scan, decode(t, rec)["uuid"])
}

func TestMissingPartner(t *testing.T) {
	s := newTestServer(t, nil)

	rec := do(t, s, http.MethodGet, "/api/beneficiary-health?beneficiaryUuid="+uuid.NewString(), nil)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, "500", decode(t, rec)["status"])
}

func TestClassify(t *testing.T) {
	s := newTestServer(t, nil)

	rec := do(t, s, http.MethodPost, "/api/classify", map[string]any{"metricKey": "BP_SYSTOLIC", "value": 115})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	require.Equal(t, "excellent", body["tier"])
	require.Equal(t, "#66D89D", body["tierColor"])
	require.Equal(t, "Normal", body["status"])

	rec = do(t, s, http.MethodPost, "/api/classify", map[string]any{"metricKey": "HR_BPM"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestClassifyUsesInjectedEngine(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := New(&config.Config{}, Deps{Classifier: classify.NewEngine(classify.WithLegacyFallback())})

	rec := do(t, s, http.MethodPost, "/api/classify", map[string]any{"metricKey": "AGE", "value": 30})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "good", decode(t, rec)["tier"])
}

func TestResults(t *testing.T) {
	s := newTestServer(t, nil)

	rec := do(t, s, http.MethodPost, "/api/results", map[string]any{
		"uuid":          "scan-1",
		"measurementId": "m-1",
		"points": map[string]any{
			"HR_BPM":      map[string]any{"value": "72.3"},
			"BP_SYSTOLIC": map[string]any{"value": "not-a-number"},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)

	submission := body["submission"].(map[string]any)
	require.Equal(t, 72.3, submission["HR_BPM"])
	require.Equal(t, 72.3, submission["ppm"])
	require.Equal(t, "scan-1", submission["uuid"])
	require.Equal(t, "m-1", submission["measurementId"])
	require.NotContains(t, submission, "BP_SYSTOLIC")

	dashboard := body["dashboard"].(map[string]any)
	sections := dashboard["sections"].([]any)
	require.Len(t, sections, len(models.DashboardSections))
	cards := sections[0].(map[string]any)["cards"].([]any)
	require.Len(t, cards, 1)
	require.Equal(t, "72.30", cards[0].(map[string]any)["display"])
}

func TestResultsOnlySignal(t *testing.T) {
	s := newTestServer(t, nil)

	rec := do(t, s, http.MethodPost, "/api/results", map[string]any{
		"points": map[string]any{"SNR": map[string]any{"value": "9"}},
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCatalogAndBands(t *testing.T) {
	s := newTestServer(t, nil)

	rec := do(t, s, http.MethodGet, "/api/catalog", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	require.Len(t, body["metrics"], len(models.Catalog))
	require.Len(t, body["aliases"], len(models.SubmissionAliases))

	rec = do(t, s, http.MethodGet, "/api/bands", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decode(t, rec)["bands"], len(classify.Appendix()))
}
