package registry

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"github.com/identity-verify-api/internal/domain"
	"github.com/identity-verify-api/internal/infrastructure/vault"
)

const ninLookupPath = "/verifynin/"

// ninSuccessCode is the Datapro response code for a found record.
const ninSuccessCode = "00"

var ninFormatRe = regexp.MustCompile(`^\d{11}$`)

// NINClient verifies national identity numbers against the Datapro NIN
// lookup service.
type NINClient struct {
	baseURL    string
	serviceID  string
	http       *http.Client
	maxRetries int
}

func NewNINClient(baseURL, serviceID string, timeout time.Duration, maxRetries int) *NINClient {
	return &NINClient{
		baseURL:    baseURL,
		serviceID:  serviceID,
		http:       &http.Client{Timeout: timeout},
		maxRetries: maxRetries,
	}
}

type ninResponse struct {
	ResponseInfo *struct {
		ResponseCode string `json:"ResponseCode"`
		Message      string `json:"Message"`
	} `json:"ResponseInfo"`
	ResponseData *struct {
		FirstName   string `json:"FirstName"`
		MiddleName  string `json:"MiddleName"`
		LastName    string `json:"LastName"`
		Gender      string `json:"Gender"`
		DateOfBirth string `json:"DateOfBirth"`
		Birthdate   string `json:"birthdate"`
		PhoneNumber string `json:"PhoneNumber"`
	} `json:"ResponseData"`
}

func (c *NINClient) Lookup(ctx context.Context, nin string) (*domain.RegistryRecord, error) {
	if nin == "" {
		return nil, &domain.LookupFailure{Code: CodeBadRequest, Message: "NIN is required"}
	}
	if !ninFormatRe.MatchString(nin) {
		return nil, &domain.LookupFailure{Code: CodeBadRequest, Message: "NIN must be 11 digits"}
	}
	if c.serviceID == "" {
		return nil, &domain.LookupFailure{Code: CodeUnavailable, Message: "NIN lookup service is not configured"}
	}

	masked := vault.Mask(nin)
	slog.Info("NIN lookup", "nin", masked)

	lookupURL := c.baseURL + ninLookupPath + "?regNo=" + url.QueryEscape(nin)
	status, body, err := doWithRetry(ctx, c.http, func() (*http.Request, error) {
		req, err := http.NewRequest(http.MethodGet, lookupURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("SERVICEID", c.serviceID)
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	}, c.maxRetries)
	if err != nil {
		slog.Error("NIN lookup failed", "nin", masked, "err", err)
		return nil, err
	}

	if status == http.StatusBadRequest {
		slog.Warn("NIN lookup rejected request", "nin", masked)
		return nil, &domain.LookupFailure{Code: CodeBadRequest, Message: "invalid NIN lookup request"}
	}
	if status != http.StatusOK {
		slog.Error("NIN lookup unexpected status", "nin", masked, "status", status)
		return nil, &domain.LookupFailure{Code: CodeUnexpected, Message: "unexpected response from NIN lookup service"}
	}

	var parsed ninResponse
	if jsonErr := json.Unmarshal(body, &parsed); jsonErr != nil {
		slog.Error("NIN lookup returned unparseable body", "nin", masked)
		return nil, &domain.LookupFailure{Code: CodeParse, Message: "invalid response from NIN lookup service"}
	}
	if parsed.ResponseInfo == nil || parsed.ResponseData == nil {
		slog.Error("NIN lookup returned incomplete body", "nin", masked)
		return nil, &domain.LookupFailure{Code: CodeParse, Message: "incomplete response from NIN lookup service"}
	}
	if parsed.ResponseInfo.ResponseCode != ninSuccessCode {
		slog.Warn("NIN lookup found no record", "nin", masked, "provider_code", parsed.ResponseInfo.ResponseCode)
		msg := parsed.ResponseInfo.Message
		if msg == "" {
			msg = "NIN not found in NIMC database"
		}
		return nil, &domain.LookupFailure{Code: CodeNotFound, Message: msg}
	}

	slog.Info("NIN lookup succeeded", "nin", masked)
	dob := parsed.ResponseData.DateOfBirth
	if dob == "" {
		dob = parsed.ResponseData.Birthdate
	}
	return &domain.RegistryRecord{
		FirstName:   parsed.ResponseData.FirstName,
		LastName:    parsed.ResponseData.LastName,
		Gender:      parsed.ResponseData.Gender,
		DateOfBirth: dob,
		PhoneNumber: parsed.ResponseData.PhoneNumber,
	}, nil
}
