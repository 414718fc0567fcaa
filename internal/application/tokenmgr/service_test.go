package tokenmgr

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/identity-verify-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockEntryStore struct{ mock.Mock }

func (m *mockEntryStore) GetByToken(ctx context.Context, tok string) (*domain.ListEntry, error) {
	args := m.Called(ctx, tok)
	var e *domain.ListEntry
	if v, _ := args.Get(0).(*domain.ListEntry); v != nil {
		e = v
	}
	return e, args.Error(1)
}

func (m *mockEntryStore) Update(ctx context.Context, entryID string, updates map[string]interface{}) error {
	args := m.Called(ctx, entryID, updates)
	return args.Error(0)
}

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newService(entries *mockEntryStore) Service {
	return NewService(ServiceDeps{
		Entries:     entries,
		TTL:         72 * time.Hour,
		MaxAttempts: 3,
		Now:         func() time.Time { return fixedNow },
	})
}

func validToken() string { return strings.Repeat("a", 43) }

func futureExpiry() *time.Time {
	t := fixedNow.Add(time.Hour)
	return &t
}

func baseEntry() *domain.ListEntry {
	return &domain.ListEntry{
		EntryID:              "entry-1",
		ListID:               "list-1",
		Status:               domain.StatusPending,
		VerificationAttempts: 2,
		ResendCount:          1,
	}
}

func TestIssue_FirstSendResetsAttempts(t *testing.T) {
	entries := new(mockEntryStore)
	entry := baseEntry()

	entries.On("Update", mock.Anything, "entry-1", mock.MatchedBy(func(u map[string]interface{}) bool {
		return u["status"] == domain.StatusLinkSent && u["verification_attempts"] == 0 && u["token"] != ""
	})).Return(nil)

	err := newService(entries).Issue(context.Background(), entry, false)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusLinkSent, entry.Status)
	assert.Equal(t, 0, entry.VerificationAttempts)
	assert.Equal(t, 1, entry.ResendCount)
	assert.NotEmpty(t, entry.Token)
	require.NotNil(t, entry.TokenExpiresAt)
	assert.Equal(t, fixedNow.Add(72*time.Hour), *entry.TokenExpiresAt)
	require.NotNil(t, entry.LinkSentAt)
	assert.Equal(t, fixedNow, *entry.LinkSentAt)
	entries.AssertExpectations(t)
}

func TestIssue_ResendKeepsAttemptsBumpsResendCount(t *testing.T) {
	entries := new(mockEntryStore)
	entry := baseEntry()

	entries.On("Update", mock.Anything, "entry-1", mock.MatchedBy(func(u map[string]interface{}) bool {
		_, resetsAttempts := u["verification_attempts"]
		return u["resend_count"] == 2 && !resetsAttempts
	})).Return(nil)

	err := newService(entries).Issue(context.Background(), entry, true)

	require.NoError(t, err)
	assert.Equal(t, 2, entry.VerificationAttempts)
	assert.Equal(t, 2, entry.ResendCount)
	entries.AssertExpectations(t)
}

func TestIssue_RotatesToken(t *testing.T) {
	entries := new(mockEntryStore)
	entry := baseEntry()
	entry.Token = "old-token"

	entries.On("Update", mock.Anything, "entry-1", mock.Anything).Return(nil)

	err := newService(entries).Issue(context.Background(), entry, true)

	require.NoError(t, err)
	assert.NotEqual(t, "old-token", entry.Token)
}

func TestIssue_StoreFailure(t *testing.T) {
	entries := new(mockEntryStore)
	entries.On("Update", mock.Anything, "entry-1", mock.Anything).Return(assert.AnError)

	entry := baseEntry()
	err := newService(entries).Issue(context.Background(), entry, false)

	require.Error(t, err)
	assert.Empty(t, entry.Token)
	assert.Equal(t, domain.StatusPending, entry.Status)
}

func TestValidate_MalformedToken(t *testing.T) {
	entries := new(mockEntryStore)

	_, err := newService(entries).Validate(context.Background(), "not a token")

	assert.ErrorIs(t, err, ErrUnknownToken)
	entries.AssertNotCalled(t, "GetByToken")
}

func TestValidate_UnknownToken(t *testing.T) {
	entries := new(mockEntryStore)
	entries.On("GetByToken", mock.Anything, validToken()).Return(nil, domain.ErrNotFound)

	_, err := newService(entries).Validate(context.Background(), validToken())

	assert.ErrorIs(t, err, ErrUnknownToken)
}

func TestValidate_AlreadyVerified(t *testing.T) {
	entries := new(mockEntryStore)
	entry := baseEntry()
	entry.Status = domain.StatusVerified
	entries.On("GetByToken", mock.Anything, validToken()).Return(entry, nil)

	_, err := newService(entries).Validate(context.Background(), validToken())

	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestValidate_Expired(t *testing.T) {
	entries := new(mockEntryStore)
	entry := baseEntry()
	entry.Status = domain.StatusLinkSent
	past := fixedNow.Add(-time.Minute)
	entry.TokenExpiresAt = &past
	entries.On("GetByToken", mock.Anything, validToken()).Return(entry, nil)

	got, err := newService(entries).Validate(context.Background(), validToken())

	assert.ErrorIs(t, err, ErrTokenExpired)
	assert.Equal(t, entry, got)
}

func TestValidate_AttemptsExhausted(t *testing.T) {
	entries := new(mockEntryStore)
	entry := baseEntry()
	entry.Status = domain.StatusLinkSent
	entry.TokenExpiresAt = futureExpiry()
	entry.VerificationAttempts = 3
	entries.On("GetByToken", mock.Anything, validToken()).Return(entry, nil)

	got, err := newService(entries).Validate(context.Background(), validToken())

	assert.ErrorIs(t, err, domain.ErrAttemptsExhausted)
	assert.Equal(t, entry, got)
}

func TestValidate_OK(t *testing.T) {
	entries := new(mockEntryStore)
	entry := baseEntry()
	entry.Status = domain.StatusLinkSent
	entry.TokenExpiresAt = futureExpiry()
	entries.On("GetByToken", mock.Anything, validToken()).Return(entry, nil)

	got, err := newService(entries).Validate(context.Background(), validToken())

	require.NoError(t, err)
	assert.Equal(t, entry, got)
}
