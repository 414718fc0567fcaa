package registry

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/identity-verify-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNIN(baseURL string) *NINClient {
	return NewNINClient(baseURL, "svc-1", 5*time.Second, 3)
}

func TestNINLookup_Found(t *testing.T) {
	srv := cacServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/verifynin/", r.URL.Path)
		assert.Equal(t, "12345678901", r.URL.Query().Get("regNo"))
		assert.Equal(t, "svc-1", r.Header.Get("SERVICEID"))

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"ResponseInfo": map[string]string{"ResponseCode": "00"},
			"ResponseData": map[string]string{
				"FirstName":   "ADAEZE",
				"LastName":    "OKAFOR",
				"Gender":      "F",
				"DateOfBirth": "1990-06-15",
				"PhoneNumber": "08012345678",
			},
		})
	})

	rec, err := newNIN(srv.URL).Lookup(context.Background(), "12345678901")

	require.NoError(t, err)
	assert.Equal(t, "ADAEZE", rec.FirstName)
	assert.Equal(t, "OKAFOR", rec.LastName)
	assert.Equal(t, "1990-06-15", rec.DateOfBirth)
}

func TestNINLookup_BirthdateFallback(t *testing.T) {
	srv := cacServer(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"ResponseInfo": map[string]string{"ResponseCode": "00"},
			"ResponseData": map[string]string{
				"FirstName": "ADAEZE",
				"LastName":  "OKAFOR",
				"birthdate": "15-06-1990",
			},
		})
	})

	rec, err := newNIN(srv.URL).Lookup(context.Background(), "12345678901")

	require.NoError(t, err)
	assert.Equal(t, "15-06-1990", rec.DateOfBirth)
}

func TestNINLookup_NotFound(t *testing.T) {
	srv := cacServer(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"ResponseInfo": map[string]string{"ResponseCode": "01", "Message": "no record"},
			"ResponseData": map[string]string{},
		})
	})

	_, err := newNIN(srv.URL).Lookup(context.Background(), "12345678901")

	var lf *domain.LookupFailure
	require.ErrorAs(t, err, &lf)
	assert.Equal(t, CodeNotFound, lf.Code)
	assert.Equal(t, "no record", lf.Message)
	assert.True(t, InputFault(err))
}

func TestNINLookup_FormatRejectedWithoutHTTPCall(t *testing.T) {
	called := false
	srv := cacServer(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	for _, nin := range []string{"", "1234567890", "123456789012", "1234567890a"} {
		_, err := newNIN(srv.URL).Lookup(context.Background(), nin)

		var lf *domain.LookupFailure
		require.ErrorAs(t, err, &lf, "input %q", nin)
		assert.Equal(t, CodeBadRequest, lf.Code, "input %q", nin)
	}
	assert.False(t, called, "malformed NINs must be rejected client-side")
}

func TestNINLookup_IncompleteBody(t *testing.T) {
	srv := cacServer(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{})
	})

	_, err := newNIN(srv.URL).Lookup(context.Background(), "12345678901")

	var lf *domain.LookupFailure
	require.ErrorAs(t, err, &lf)
	assert.Equal(t, CodeParse, lf.Code)
	assert.False(t, InputFault(err))
}

func TestNINLookup_MissingConfig(t *testing.T) {
	c := NewNINClient("http://localhost:1", "", time.Second, 1)

	_, err := c.Lookup(context.Background(), "12345678901")

	var lf *domain.LookupFailure
	require.ErrorAs(t, err, &lf)
	assert.Equal(t, CodeUnavailable, lf.Code)
}
