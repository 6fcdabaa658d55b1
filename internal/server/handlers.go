// ABOUTME: Route handlers for the proxy, classification and results endpoints.
// ABOUTME: Errors are answered as {status, error} with the mapped HTTP status.
package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/develbass/vitalscan/internal/classify"
	"github.com/develbass/vitalscan/internal/models"
	"github.com/develbass/vitalscan/internal/prefetch"
	"github.com/develbass/vitalscan/internal/rapidoc"
	"github.com/develbass/vitalscan/internal/results"
)

// SavedMessage is returned after scan results are stored.
const SavedMessage = "Resultados salvos com sucesso na Rapidoc"

func (s *Server) fail(c *gin.Context, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
	}
	c.JSON(status, gin.H{"status": strconv.Itoa(status), "error": err.Error()})
}

func (s *Server) failErr(c *gin.Context, err error) {
	s.fail(c, rapidoc.HTTPStatus(err), err)
}

func (s *Server) requirePartner(c *gin.Context) bool {
	if s.partner != nil {
		return true
	}
	s.fail(c, http.StatusInternalServerError, &rapidoc.ConfigError{Setting: "RPDADMIN_TOKEN"})
	return false
}

func (s *Server) handleStudyID(c *gin.Context) {
	if s.cfg.StudyID == "" {
		s.fail(c, http.StatusInternalServerError, &rapidoc.ConfigError{Setting: "STUDY_ID"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "200", "studyId": s.cfg.StudyID})
}

// handleBeneficiaryHealth serves the prefetched health record, sharing one
// partner call between concurrent requests for the same beneficiary.
func (s *Server) handleBeneficiaryHealth(c *gin.Context) {
	beneficiaryUUID := c.Query("beneficiaryUuid")
	clientUUID := c.Query("clientUuid")
	if beneficiaryUUID == "" {
		s.fail(c, http.StatusBadRequest, errors.New("beneficiaryUuid is required"))
		return
	}
	if !models.IsValidUUID(beneficiaryUUID) {
		s.fail(c, http.StatusBadRequest, errors.New("beneficiaryUuid must be a valid UUID"))
		return
	}
	if !s.requirePartner(c) {
		return
	}

	key := prefetch.Key(beneficiaryUUID, clientUUID)
	rec, err := s.prefetch.Do(c.Request.Context(), key, func(ctx context.Context) (models.HealthRecord, error) {
		return s.partner.FetchHealthInformations(ctx, beneficiaryUUID, clientUUID)
	})
	if err != nil {
		s.failErr(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

type healthInformationsRequest struct {
	BeneficiaryUUID        string   `json:"beneficiaryUuid"`
	ClientUUID             string   `json:"clientUuid"`
	Height                 *float64 `json:"height"`
	Weight                 *float64 `json:"weight"`
	Smoke                  any      `json:"smoke"`
	MedicationHypertension any      `json:"medicationHypertension"`
	Gender                 any      `json:"gender"`
	Diabetes               any      `json:"diabetes"`
}

func (s *Server) handleHealthInformations(c *gin.Context) {
	var req healthInformationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, http.StatusBadRequest, errors.New("height and weight must be numbers"))
		return
	}
	if req.BeneficiaryUUID == "" {
		s.fail(c, http.StatusBadRequest, errors.New("beneficiaryUuid is required"))
		return
	}
	if req.Height == nil || req.Weight == nil {
		s.fail(c, http.StatusBadRequest, errors.New("height and weight are required"))
		return
	}
	if !s.requirePartner(c) {
		return
	}

	h := models.HealthInformations{
		Beneficiary:            models.Beneficiary{UUID: req.BeneficiaryUUID},
		Height:                 *req.Height,
		Weight:                 *req.Weight,
		Smoke:                  req.Smoke,
		MedicationHypertension: req.MedicationHypertension,
		Gender:                 req.Gender,
		Diabetes:               req.Diabetes,
	}
	reply, err := s.partner.SaveHealthInformations(c.Request.Context(), h, req.ClientUUID)
	if err != nil {
		s.failErr(c, err)
		return
	}
	s.prefetch.Evict(prefetch.Key(req.BeneficiaryUUID, req.ClientUUID))
	if reply == nil {
		reply = map[string]any{}
	}
	c.JSON(http.StatusOK, reply)
}

func (s *Server) handleValidateToken(c *gin.Context) {
	if !s.requirePartner(c) {
		return
	}
	out, err := s.partner.ValidateToken(c.Request.Context(),
		c.Query("token"), c.Query("beneficiaryUuid"), c.Query("clientUuid"))
	if err != nil {
		s.failErr(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// handleSaveResults forwards flattened scan results. Every body field other
// than beneficiary, clientUuid and token is sent as a result field.
func (s *Server) handleSaveResults(c *gin.Context) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		s.fail(c, http.StatusBadRequest, errors.New("body must be a JSON object"))
		return
	}

	beneficiaryUUID := beneficiaryUUIDOf(body)
	if beneficiaryUUID == "" {
		s.logger.Warn("save-results skipped: no beneficiary")
		c.JSON(http.StatusOK, gin.H{
			"status":  "200",
			"skipped": true,
			"message": "beneficiary.uuid not provided; results not sent",
		})
		return
	}
	if !s.requirePartner(c) {
		return
	}

	u := rapidoc.ScanUpdate{
		BeneficiaryUUID: beneficiaryUUID,
		ClientUUID:      stringField(body, "clientUuid"),
		Token:           stringField(body, "token"),
		ScanUUID:        stringField(body, "uuid"),
		Results:         make(map[string]any, len(body)),
	}
	for k, v := range body {
		switch k {
		case models.FieldBeneficiary, "clientUuid", "token":
			continue
		}
		u.Results[k] = v
	}

	if err := s.partner.UpdateScanResults(c.Request.Context(), u); err != nil {
		s.failErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "200", "message": SavedMessage})
}

func beneficiaryUUIDOf(body map[string]any) string {
	b, ok := body[models.FieldBeneficiary].(map[string]any)
	if !ok {
		return ""
	}
	return stringField(b, "uuid")
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func (s *Server) handleBeneficiaryScan(c *gin.Context) {
	if !s.requirePartner(c) {
		return
	}
	out, err := s.partner.FetchBeneficiaryScan(c.Request.Context(), c.Param("scanUuid"), c.Query("clientUuid"))
	if err != nil {
		s.failErr(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

type classifyRequest struct {
	MetricKey string   `json:"metricKey" binding:"required"`
	Value     *float64 `json:"value" binding:"required"`
}

func (s *Server) handleClassify(c *gin.Context) {
	var req classifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, http.StatusBadRequest, errors.New("metricKey and numeric value are required"))
		return
	}
	c.JSON(http.StatusOK, s.classifier.Classify(req.MetricKey, *req.Value))
}

type resultsRequest struct {
	results.Results
	UUID string `json:"uuid,omitempty"`
}

// handleResults builds the dashboard and the partner submission for a
// finished measurement without sending anything.
func (s *Server) handleResults(c *gin.Context) {
	var req resultsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, http.StatusBadRequest, err)
		return
	}

	dash, err := results.BuildDashboard(req.Points, s.classifier)
	if errors.Is(err, results.ErrNoResults) {
		s.fail(c, http.StatusUnprocessableEntity, err)
		return
	}
	if err != nil {
		s.fail(c, http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"dashboard":  dash,
		"submission": results.ScanSubmission(req.UUID, req.Results),
	})
}

func (s *Server) handleCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"metrics":  models.Catalog,
		"sections": models.DashboardSections,
		"aliases":  models.SubmissionAliases,
	})
}

func (s *Server) handleBands(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"bands": classify.Appendix()})
}
