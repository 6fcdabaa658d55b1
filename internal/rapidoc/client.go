// ABOUTME: HTTP client for the Rapidoc health-record and TEMA scan APIs.
// ABOUTME: Every record crossing the boundary goes through the normalize package.
package rapidoc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/develbass/vitalscan/internal/models"
	"github.com/develbass/vitalscan/internal/normalize"
)

// TemaContentType is the media type the TEMA scan API expects.
const TemaContentType = "application/vnd.rapidoc.tema-v2+json"

// DefaultTimeout bounds each partner call.
const DefaultTimeout = 30 * time.Second

// Config holds partner endpoints and credentials.
type Config struct {
	APIURL   string
	TemaURL  string
	Token    string
	ClientID string
	Timeout  time.Duration
}

// Client talks to the partner APIs. It never retries.
type Client struct {
	api      *resty.Client
	tema     *resty.Client
	token    string
	clientID string
	logger   *zap.Logger
}

// NormalizeBaseURL trims raw, adds https:// when no scheme is given and
// ensures a trailing slash.
func NormalizeBaseURL(raw string) (string, error) {
	u := strings.TrimSpace(raw)
	if u == "" {
		return "", errors.New("empty base URL")
	}
	if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		u = "https://" + u
	}
	if !strings.HasSuffix(u, "/") {
		u += "/"
	}
	parsed, err := url.Parse(u)
	if err != nil || parsed.Host == "" {
		return "", fmt.Errorf("invalid base URL %q", raw)
	}
	return u, nil
}

// New builds a client. Empty URLs are allowed and surface as ConfigError on
// the calls that need them; malformed URLs fail here.
func New(cfg Config, logger *zap.Logger) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	c := &Client{
		token:    cfg.Token,
		clientID: cfg.ClientID,
		logger:   logger,
	}

	var err error
	if c.api, err = newHTTPClient(cfg.APIURL, timeout); err != nil {
		return nil, fmt.Errorf("api url: %w", err)
	}
	if c.tema, err = newHTTPClient(cfg.TemaURL, timeout); err != nil {
		return nil, fmt.Errorf("tema url: %w", err)
	}
	return c, nil
}

func newHTTPClient(raw string, timeout time.Duration) (*resty.Client, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	base, err := NormalizeBaseURL(raw)
	if err != nil {
		return nil, err
	}
	return resty.New().
		SetBaseURL(base).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json"), nil
}

// FetchHealthInformations returns the beneficiary's health record with the
// partner vocabulary translated to internal values. When the partner answers
// with a list, the first record is used; an empty list yields an empty record.
func (c *Client) FetchHealthInformations(ctx context.Context, beneficiaryUUID, clientUUID string) (models.HealthRecord, error) {
	if beneficiaryUUID == "" {
		return nil, invalid("beneficiaryUuid", "is required")
	}
	if !models.IsValidUUID(beneficiaryUUID) {
		return nil, invalid("beneficiaryUuid", "must be a valid UUID")
	}
	clientID := firstNonEmpty(c.clientID, clientUUID)
	if err := c.require(c.api, "RPD_API_URL", clientID); err != nil {
		return nil, err
	}

	const op = "fetch health informations"
	c.logger.Info("Calling Rapidoc API",
		zap.String("op", op),
		zap.String("beneficiary_uuid", beneficiaryUUID),
	)

	resp, err := c.api.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+c.token).
		SetHeader("clientId", clientID).
		SetQueryParams(map[string]string{
			"beneficiaryUuid": beneficiaryUUID,
			"clientUuid":      firstNonEmpty(clientUUID, c.clientID),
		}).
		Get("v1/beneficiary-health-informations")
	if err := c.check(op, resp, err, isOK); err != nil {
		return nil, err
	}

	rec, err := decodeRecord(resp.Body())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return normalize.InboundRecord(rec), nil
}

func decodeRecord(body []byte) (models.HealthRecord, error) {
	body = []byte(strings.TrimSpace(string(body)))
	if len(body) > 0 && body[0] == '[' {
		var list []models.HealthRecord
		if err := json.Unmarshal(body, &list); err != nil {
			return nil, fmt.Errorf("decode record list: %w", err)
		}
		if len(list) == 0 || list[0] == nil {
			return models.HealthRecord{}, nil
		}
		return list[0], nil
	}
	rec := models.HealthRecord{}
	if len(body) == 0 {
		return rec, nil
	}
	if err := json.Unmarshal(body, &rec); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return rec, nil
}

// SaveHealthInformations validates h, translates it to partner vocabulary
// and stores it. It returns the partner reply.
func (c *Client) SaveHealthInformations(ctx context.Context, h models.HealthInformations, clientUUID string) (map[string]any, error) {
	if err := ValidateHealthInformations(h); err != nil {
		return nil, err
	}
	if err := c.require(c.api, "RPD_API_URL", c.clientID); err != nil {
		return nil, err
	}

	payload := normalize.OutboundHealthInformations(h)
	payload.Beneficiary = models.Beneficiary{UUID: h.Beneficiary.UUID}

	const op = "save health informations"
	c.logger.Info("Calling Rapidoc API",
		zap.String("op", op),
		zap.String("beneficiary_uuid", h.Beneficiary.UUID),
	)

	var reply map[string]any
	resp, err := c.api.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+c.token).
		SetHeader("clientId", c.clientID).
		SetQueryParam("clientUuid", firstNonEmpty(clientUUID, c.clientID)).
		SetBody(payload).
		SetResult(&reply).
		Post("v1/beneficiary-health-informations")
	if err := c.check(op, resp, err, isOK); err != nil {
		return nil, err
	}
	return reply, nil
}

// ValidateHealthInformations applies the checks run before a save.
func ValidateHealthInformations(h models.HealthInformations) error {
	id := h.Beneficiary.UUID
	if id == "" {
		return invalid("beneficiaryUuid", "is required")
	}
	if !models.IsValidUUID(id) {
		return invalid("beneficiaryUuid", "must be a valid UUID")
	}
	if isBlank(h.Gender) || h.Diabetes == nil {
		return invalid("gender", "gender and diabetes are required")
	}
	if h.Height < 50 || h.Height > 250 {
		return invalid("height", "must be between 50 and 250 cm")
	}
	if h.Weight < 20 || h.Weight > 300 {
		return invalid("weight", "must be between 20 and 300 kg")
	}
	return nil
}

func isBlank(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}

// ValidateToken asks the scan API whether token allows the beneficiary to
// start a scan.
func (c *Client) ValidateToken(ctx context.Context, token, beneficiaryUUID, clientUUID string) (*models.ValidateTokenResponse, error) {
	switch {
	case token == "":
		return nil, invalid("token", "is required")
	case beneficiaryUUID == "":
		return nil, invalid("beneficiaryUuid", "is required")
	case clientUUID == "":
		return nil, invalid("clientUuid", "is required")
	case !models.IsValidUUID(beneficiaryUUID):
		return nil, invalid("beneficiaryUuid", "must be a valid UUID")
	}
	if err := c.require(c.tema, "TEMA_URL", c.clientID); err != nil {
		return nil, err
	}

	const op = "validate token"
	c.logger.Info("Calling Rapidoc TEMA API",
		zap.String("op", op),
		zap.String("beneficiary_uuid", beneficiaryUUID),
	)

	var out models.ValidateTokenResponse
	resp, err := c.tema.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+c.token).
		SetHeader("clientId", c.clientID).
		SetHeader("consumes", "application/json").
		SetHeader("Content-Type", TemaContentType).
		SetHeader("produces", "application/json").
		SetHeader("token", token).
		SetQueryParams(map[string]string{
			"beneficiaryUuid": beneficiaryUUID,
			"clientUuid":      clientUUID,
		}).
		SetResult(&out).
		Get("beneficiary-scans/validate-vitalscan")
	if err := c.check(op, resp, err, isOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ScanUpdate is the data written back to a beneficiary scan.
type ScanUpdate struct {
	ScanUUID        string
	BeneficiaryUUID string
	ClientUUID      string
	Token           string
	Results         map[string]any
}

// UpdateScanResults stores scan results on the partner. Only a 204 reply
// counts as success.
func (c *Client) UpdateScanResults(ctx context.Context, u ScanUpdate) error {
	switch {
	case u.BeneficiaryUUID == "":
		return invalid("beneficiary.uuid", "is required")
	case u.ScanUUID == "":
		return invalid("uuid", "is required")
	case !models.IsValidUUID(u.BeneficiaryUUID):
		return invalid("beneficiary.uuid", "must be a valid UUID")
	case !models.IsValidUUID(u.ScanUUID):
		return invalid("uuid", "must be a valid UUID")
	}
	clientID := firstNonEmpty(u.ClientUUID, c.clientID)
	if err := c.require(c.tema, "TEMA_URL", c.clientID); err != nil {
		return err
	}

	payload := make(map[string]any, len(u.Results)+2)
	for k, v := range u.Results {
		payload[k] = v
	}
	payload["uuid"] = u.ScanUUID
	payload[models.FieldBeneficiary] = models.Beneficiary{UUID: u.BeneficiaryUUID}

	const op = "update scan results"
	c.logger.Info("Calling Rapidoc TEMA API",
		zap.String("op", op),
		zap.String("scan_uuid", u.ScanUUID),
		zap.Int("fields", len(u.Results)),
	)

	req := c.tema.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+c.token).
		SetHeader("Content-Type", TemaContentType).
		SetHeader("consumes", "application/json").
		SetHeader("clientId", clientID).
		SetPathParam("scanUuid", u.ScanUUID).
		SetQueryParam("clientUuid", clientID).
		SetBody(payload)
	if u.Token != "" {
		req.SetHeader("token", u.Token)
	}
	resp, err := req.Put("beneficiary-scans/{scanUuid}")
	return c.check(op, resp, err, isNoContent)
}

// FetchBeneficiaryScan returns a stored scan as decoded JSON.
func (c *Client) FetchBeneficiaryScan(ctx context.Context, scanUUID, clientUUID string) (map[string]any, error) {
	if !models.IsValidUUID(scanUUID) {
		return nil, invalid("scanUuid", "must be a valid UUID")
	}
	if err := c.require(c.api, "RPD_API_URL", c.clientID); err != nil {
		return nil, err
	}

	const op = "fetch beneficiary scan"
	c.logger.Info("Calling Rapidoc API",
		zap.String("op", op),
		zap.String("scan_uuid", scanUUID),
	)

	var out map[string]any
	resp, err := c.api.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+c.token).
		SetHeader("clientId", c.clientID).
		SetPathParam("scanUuid", scanUUID).
		SetQueryParam("clientUuid", firstNonEmpty(clientUUID, c.clientID)).
		SetResult(&out).
		Get("v1/beneficiary-scans/{scanUuid}")
	if err := c.check(op, resp, err, isOK); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) require(base *resty.Client, urlSetting, clientID string) error {
	switch {
	case base == nil:
		return &ConfigError{Setting: urlSetting}
	case c.token == "":
		return &ConfigError{Setting: "RPDADMIN_TOKEN"}
	case clientID == "":
		return &ConfigError{Setting: "RPD_CLIENTID"}
	}
	return nil
}

func isOK(code int) bool { return code >= 200 && code < 300 }

func isNoContent(code int) bool { return code == http.StatusNoContent }

// check turns a transport error or an unexpected status into an error.
func (c *Client) check(op string, resp *resty.Response, err error, success func(int) bool) error {
	if err != nil {
		c.logger.Error("Rapidoc API call failed", zap.String("op", op), zap.Error(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	if success(resp.StatusCode()) {
		c.logger.Info("Rapidoc API call succeeded",
			zap.String("op", op),
			zap.Int("status_code", resp.StatusCode()),
		)
		return nil
	}
	uerr := &UpstreamError{
		Op:         op,
		Status:     resp.StatusCode(),
		StatusText: http.StatusText(resp.StatusCode()),
		Body:       strings.TrimSpace(resp.String()),
	}
	c.logger.Error("Rapidoc API returned error",
		zap.String("op", op),
		zap.Int("status_code", uerr.Status),
		zap.String("body", uerr.Body),
	)
	return uerr
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
