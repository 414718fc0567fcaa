package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/identity-verify-api/internal/domain"
	"github.com/identity-verify-api/internal/infrastructure/vault"
)

const cacLookupPath = "/api/ValidateRcNumber/Initiate"

// CACClient verifies corporate registration numbers against the VerifyData
// CAC lookup service.
type CACClient struct {
	baseURL    string
	secretKey  string
	http       *http.Client
	maxRetries int
}

func NewCACClient(baseURL, secretKey string, timeout time.Duration, maxRetries int) *CACClient {
	return &CACClient{
		baseURL:    baseURL,
		secretKey:  secretKey,
		http:       &http.Client{Timeout: timeout},
		maxRetries: maxRetries,
	}
}

type cacRequest struct {
	RCNumber  string `json:"rcNumber"`
	SecretKey string `json:"secretKey"`
}

type cacResponse struct {
	Success    bool   `json:"success"`
	StatusCode string `json:"statusCode"`
	Message    string `json:"message"`
	Data       *struct {
		Name               string `json:"name"`
		RegistrationNumber string `json:"registrationNumber"`
		CompanyStatus      string `json:"companyStatus"`
		RegistrationDate   string `json:"registrationDate"`
		TypeOfEntity       string `json:"typeOfEntity"`
	} `json:"data"`
}

// Provider 400 statusCodes that mean the service account is broken, not the
// RC number: FF invalid secret key, IB insufficient balance, BR contact
// administrator, EE no active service.
var cacServiceFaultCodes = map[string]bool{
	"FF": true,
	"IB": true,
	"BR": true,
	"EE": true,
}

func (c *CACClient) Lookup(ctx context.Context, rcNumber string) (*domain.RegistryRecord, error) {
	if rcNumber == "" {
		return nil, &domain.LookupFailure{Code: CodeBadRequest, Message: "RC number is required"}
	}
	if c.secretKey == "" {
		return nil, &domain.LookupFailure{Code: CodeUnavailable, Message: "CAC lookup service is not configured"}
	}

	masked := vault.Mask(rcNumber)
	slog.Info("CAC lookup", "rc", masked)

	payload, err := json.Marshal(cacRequest{RCNumber: rcNumber, SecretKey: c.secretKey})
	if err != nil {
		return nil, &domain.LookupFailure{Code: CodeUnexpected, Message: "could not encode lookup request"}
	}

	status, body, err := doWithRetry(ctx, c.http, func() (*http.Request, error) {
		req, err := http.NewRequest(http.MethodPost, c.baseURL+cacLookupPath, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	}, c.maxRetries)
	if err != nil {
		slog.Error("CAC lookup failed", "rc", masked, "err", err)
		return nil, err
	}

	var parsed cacResponse
	if jsonErr := json.Unmarshal(body, &parsed); jsonErr != nil {
		slog.Error("CAC lookup returned unparseable body", "rc", masked, "status", status)
		return nil, &domain.LookupFailure{Code: CodeParse, Message: "invalid response from CAC lookup service"}
	}

	switch {
	case status == http.StatusOK && parsed.Success && parsed.Data != nil:
		slog.Info("CAC lookup succeeded", "rc", masked)
		return &domain.RegistryRecord{
			Name:               parsed.Data.Name,
			RegistrationNumber: parsed.Data.RegistrationNumber,
			RegistrationDate:   parsed.Data.RegistrationDate,
			EntityType:         parsed.Data.TypeOfEntity,
			Status:             parsed.Data.CompanyStatus,
		}, nil

	case status == http.StatusOK:
		slog.Warn("CAC lookup found no record", "rc", masked, "provider_code", parsed.StatusCode)
		msg := parsed.Message
		if msg == "" {
			msg = "RC number not found in CAC database"
		}
		return nil, &domain.LookupFailure{Code: CodeNotFound, Message: msg}

	case status == http.StatusBadRequest && cacServiceFaultCodes[parsed.StatusCode]:
		slog.Error("CAC lookup service fault", "rc", masked, "provider_code", parsed.StatusCode)
		return nil, &domain.LookupFailure{Code: CodeUnavailable, Message: "CAC lookup service rejected the request (code " + parsed.StatusCode + ")"}

	case status == http.StatusBadRequest:
		slog.Warn("CAC lookup rejected RC number", "rc", masked)
		return nil, &domain.LookupFailure{Code: CodeBadRequest, Message: "invalid RC number format"}

	default:
		slog.Error("CAC lookup unexpected status", "rc", masked, "status", status)
		return nil, &domain.LookupFailure{Code: CodeUnexpected, Message: "unexpected response from CAC lookup service"}
	}
}
