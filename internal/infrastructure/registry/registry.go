// Package registry holds the HTTP clients for the external identity
// registries: the corporate registry (CAC records via VerifyData) and the
// national identity database (NIN records via Datapro). Both clients retry
// transient failures with exponential backoff and only ever log masked
// identifiers.
package registry

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/identity-verify-api/internal/domain"
)

// Failure codes carried on domain.LookupFailure. NotFound and BadRequest mean
// the identifier itself is the problem; everything else is a service fault.
const (
	CodeNotFound    = "not_found"
	CodeBadRequest  = "bad_request"
	CodeUnavailable = "service_unavailable"
	CodeServerError = "server_error"
	CodeNetwork     = "network_error"
	CodeParse       = "parse_error"
	CodeUnexpected  = "unexpected_status"
)

const retryDelayBase = time.Second

// Client resolves one identifier against one external registry.
type Client interface {
	Lookup(ctx context.Context, identifier string) (*domain.RegistryRecord, error)
}

// InputFault reports whether a lookup failure was caused by the submitted
// identifier rather than by the registry service.
func InputFault(err error) bool {
	var lf *domain.LookupFailure
	if !errors.As(err, &lf) {
		return false
	}
	return lf.Code == CodeNotFound || lf.Code == CodeBadRequest
}

// doWithRetry performs the request up to maxRetries times, retrying only
// transport errors and 5xx responses. The response body is returned already
// read and closed.
func doWithRetry(ctx context.Context, client *http.Client, build func() (*http.Request, error), maxRetries int) (int, []byte, error) {
	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		if attempt > 1 {
			delay := retryDelayBase * time.Duration(1<<(attempt-2))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return 0, nil, ctx.Err()
			}
		}

		req, err := build()
		if err != nil {
			return 0, nil, err
		}
		resp, err := client.Do(req.WithContext(ctx))
		if err != nil {
			lastErr = err
			continue
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}
		if resp.StatusCode >= 500 {
			lastErr = &domain.LookupFailure{Code: CodeServerError, Message: "registry returned " + resp.Status}
			continue
		}
		return resp.StatusCode, body, nil
	}

	var lf *domain.LookupFailure
	if errors.As(lastErr, &lf) {
		return 0, nil, lf
	}
	return 0, nil, &domain.LookupFailure{Code: CodeNetwork, Message: "registry unreachable after retries"}
}
