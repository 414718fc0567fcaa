package registry

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/identity-verify-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cacServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func newCAC(baseURL string) *CACClient {
	return NewCACClient(baseURL, "secret", 5*time.Second, 3)
}

func TestCACLookup_Found(t *testing.T) {
	srv := cacServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/ValidateRcNumber/Initiate", r.URL.Path)

		var req cacRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "RC123456", req.RCNumber)
		assert.Equal(t, "secret", req.SecretKey)

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"success":    true,
			"statusCode": "00",
			"data": map[string]string{
				"name":               "ACME CORPORATION LIMITED",
				"registrationNumber": "123456",
				"companyStatus":      "ACTIVE",
				"registrationDate":   "2015-03-10",
				"typeOfEntity":       "PRIVATE_COMPANY_LIMITED_BY_SHARES",
			},
		})
	})

	rec, err := newCAC(srv.URL).Lookup(context.Background(), "RC123456")

	require.NoError(t, err)
	assert.Equal(t, "ACME CORPORATION LIMITED", rec.Name)
	assert.Equal(t, "123456", rec.RegistrationNumber)
	assert.Equal(t, "ACTIVE", rec.Status)
	assert.Equal(t, "PRIVATE_COMPANY_LIMITED_BY_SHARES", rec.EntityType)
}

func TestCACLookup_NotFound(t *testing.T) {
	srv := cacServer(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"success":    false,
			"statusCode": "01",
			"message":    "record not found",
		})
	})

	_, err := newCAC(srv.URL).Lookup(context.Background(), "RC000000")

	var lf *domain.LookupFailure
	require.ErrorAs(t, err, &lf)
	assert.Equal(t, CodeNotFound, lf.Code)
	assert.True(t, InputFault(err))
}

func TestCACLookup_ServiceFaultCodes(t *testing.T) {
	for _, code := range []string{"FF", "IB", "BR", "EE"} {
		srv := cacServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"success":    false,
				"statusCode": code,
			})
		})

		_, err := newCAC(srv.URL).Lookup(context.Background(), "RC123456")

		var lf *domain.LookupFailure
		require.ErrorAs(t, err, &lf, "code %s", code)
		assert.Equal(t, CodeUnavailable, lf.Code, "code %s", code)
		assert.False(t, InputFault(err), "code %s is a service fault, not a caller fault", code)
	}
}

func TestCACLookup_OtherBadRequestIsCallerFault(t *testing.T) {
	srv := cacServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"success":    false,
			"statusCode": "02",
		})
	})

	_, err := newCAC(srv.URL).Lookup(context.Background(), "garbage")

	var lf *domain.LookupFailure
	require.ErrorAs(t, err, &lf)
	assert.Equal(t, CodeBadRequest, lf.Code)
	assert.True(t, InputFault(err))
}

func TestCACLookup_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := cacServer(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data":    map[string]string{"name": "ACME CORPORATION LIMITED"},
		})
	})

	rec, err := newCAC(srv.URL).Lookup(context.Background(), "RC123456")

	require.NoError(t, err)
	assert.Equal(t, "ACME CORPORATION LIMITED", rec.Name)
	assert.Equal(t, int32(3), calls.Load())
}

func TestCACLookup_ExhaustedRetries(t *testing.T) {
	var calls atomic.Int32
	srv := cacServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := newCAC(srv.URL).Lookup(context.Background(), "RC123456")

	var lf *domain.LookupFailure
	require.ErrorAs(t, err, &lf)
	assert.Equal(t, CodeServerError, lf.Code)
	assert.Equal(t, int32(3), calls.Load())
	assert.False(t, InputFault(err))
}

func TestCACLookup_NoBadRequestRetry(t *testing.T) {
	var calls atomic.Int32
	srv := cacServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"statusCode": "02"})
	})

	_, err := newCAC(srv.URL).Lookup(context.Background(), "RC123456")

	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load(), "4xx responses must not be retried")
}

func TestCACLookup_MissingConfig(t *testing.T) {
	c := NewCACClient("http://localhost:1", "", time.Second, 1)

	_, err := c.Lookup(context.Background(), "RC123456")

	var lf *domain.LookupFailure
	require.ErrorAs(t, err, &lf)
	assert.Equal(t, CodeUnavailable, lf.Code)
}

func TestCACLookup_EmptyIdentifier(t *testing.T) {
	_, err := newCAC("http://localhost:1").Lookup(context.Background(), "")

	var lf *domain.LookupFailure
	require.ErrorAs(t, err, &lf)
	assert.Equal(t, CodeBadRequest, lf.Code)
}
