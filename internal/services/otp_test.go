package services

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bharatwheels/partner-backend/internal/models"
	"github.com/bharatwheels/partner-backend/internal/storage"
)

func newOTPFixture(t *testing.T) (*OTPService, *storage.MemoryStore, *models.User) {
	t.Helper()
	store := storage.NewMemoryStore()
	user, err := store.CreateUser(&models.User{Name: "Ravi", Mobile: "9876543210"})
	require.NoError(t, err)
	return NewOTPService(store, LogSender{}), store, user
}

func TestGenerateCodeFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^\d{6}$`)
	for i := 0; i < 50; i++ {
		code, err := GenerateCode()
		require.NoError(t, err)
		assert.Regexp(t, pattern, code)
		assert.GreaterOrEqual(t, code, "100000")
	}
}

func TestIssuePersistsOTPState(t *testing.T) {
	svc, store, user := newOTPFixture(t)

	code, err := svc.Issue(user.Mobile)
	require.NoError(t, err)
	assert.Len(t, code, 6)

	stored, err := store.GetUserByMobile(user.Mobile)
	require.NoError(t, err)
	assert.Equal(t, code, stored.OTPCode)
	assert.Equal(t, 0, stored.OTPAttempts)
	require.NotNil(t, stored.OTPExpiresAt)
	assert.WithinDuration(t, time.Now().Add(10*time.Minute), *stored.OTPExpiresAt, time.Minute)
	assert.NotNil(t, stored.OTPLastSentAt)
}

func TestVerifySucceedsExactlyOnce(t *testing.T) {
	svc, _, user := newOTPFixture(t)

	code, err := svc.Issue(user.Mobile)
	require.NoError(t, err)

	result, verified, err := svc.Verify(user.Mobile, code)
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.False(t, verified.HasPendingOTP())

	// One-time use: the same code verifies only once.
	result, _, err = svc.Verify(user.Mobile, code)
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, OTPReasonNoOTPFound, result.Reason)
}

func TestVerifyMismatch(t *testing.T) {
	svc, _, user := newOTPFixture(t)

	code, err := svc.Issue(user.Mobile)
	require.NoError(t, err)

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}
	result, _, err := svc.Verify(user.Mobile, wrong)
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, OTPReasonMismatch, result.Reason)

	// A mismatch does not consume the code.
	result, _, err = svc.Verify(user.Mobile, code)
	require.NoError(t, err)
	assert.True(t, result.Valid)
}

func TestVerifyTrimsSubmittedCode(t *testing.T) {
	svc, _, user := newOTPFixture(t)

	code, err := svc.Issue(user.Mobile)
	require.NoError(t, err)

	result, _, err := svc.Verify(user.Mobile, "  "+code+" ")
	require.NoError(t, err)
	assert.True(t, result.Valid)
}

func TestVerifyExpiredBeatsCorrectness(t *testing.T) {
	svc, store, user := newOTPFixture(t)

	code, err := svc.Issue(user.Mobile)
	require.NoError(t, err)

	stored, err := store.GetUserByMobile(user.Mobile)
	require.NoError(t, err)
	past := time.Now().Add(-time.Minute)
	stored.OTPExpiresAt = &past
	require.NoError(t, store.UpdateUser(stored))

	result, _, err := svc.Verify(user.Mobile, code)
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, OTPReasonExpired, result.Reason)
}

func TestVerifyWithNoIssuedOTP(t *testing.T) {
	svc, _, user := newOTPFixture(t)

	result, _, err := svc.Verify(user.Mobile, "123456")
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, OTPReasonNoOTPFound, result.Reason)
}

func TestVerifyUnknownMobile(t *testing.T) {
	svc, _, _ := newOTPFixture(t)

	_, _, err := svc.Verify("+910000000000", "123456")
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
}

func TestCanResendHasNoCooldown(t *testing.T) {
	svc, _, user := newOTPFixture(t)

	_, err := svc.Issue(user.Mobile)
	require.NoError(t, err)
	assert.True(t, svc.CanResend(user))

	// A resend replaces the previous code.
	first, err := svc.Issue(user.Mobile)
	require.NoError(t, err)
	second, err := svc.Issue(user.Mobile)
	require.NoError(t, err)

	result, _, err := svc.Verify(user.Mobile, first)
	require.NoError(t, err)
	if first != second {
		assert.False(t, result.Valid)
	}
}
