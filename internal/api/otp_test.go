package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOTPVerifySuccessIsSingleUse(t *testing.T) {
	clock := time.Date(2025, time.August, 15, 9, 0, 0, 0, time.UTC)
	store := newOTPStore(5*time.Minute, func() time.Time { return clock })

	require.NoError(t, store.issue("EMP001", "482910", 7, "a@dairy.test"))

	entry, err := store.verify("EMP001", "482910")
	require.NoError(t, err)
	assert.Equal(t, int64(7), entry.userID)
	assert.Equal(t, "a@dairy.test", entry.email)

	_, err = store.verify("EMP001", "482910")
	assert.ErrorIs(t, err, errOTPNotFound)
}

func TestOTPVerifyExpired(t *testing.T) {
	clock := time.Date(2025, time.August, 15, 9, 0, 0, 0, time.UTC)
	store := newOTPStore(5*time.Minute, func() time.Time { return clock })

	require.NoError(t, store.issue("EMP001", "482910", 7, "a@dairy.test"))

	clock = clock.Add(5*time.Minute + time.Second)
	_, err := store.verify("EMP001", "482910")
	assert.ErrorIs(t, err, errOTPExpired)

	// Expiry also discards the code.
	_, err = store.verify("EMP001", "482910")
	assert.ErrorIs(t, err, errOTPNotFound)
}

func TestOTPVerifyWrongCodeBurnsAttempts(t *testing.T) {
	clock := time.Date(2025, time.August, 15, 9, 0, 0, 0, time.UTC)
	store := newOTPStore(5*time.Minute, func() time.Time { return clock })

	require.NoError(t, store.issue("EMP001", "482910", 7, "a@dairy.test"))

	for i := 0; i < maxOTPVerifyAttempts; i++ {
		_, err := store.verify("EMP001", "000000")
		assert.ErrorIs(t, err, errOTPMismatch)
	}

	// The right code no longer works once the guesses are spent.
	_, err := store.verify("EMP001", "482910")
	assert.ErrorIs(t, err, errOTPNotFound)
}

func TestOTPReissueReplacesPendingCode(t *testing.T) {
	clock := time.Date(2025, time.August, 15, 9, 0, 0, 0, time.UTC)
	store := newOTPStore(5*time.Minute, func() time.Time { return clock })

	require.NoError(t, store.issue("EMP001", "111111", 7, "a@dairy.test"))
	require.NoError(t, store.issue("EMP001", "222222", 7, "a@dairy.test"))

	_, err := store.verify("EMP001", "111111")
	assert.ErrorIs(t, err, errOTPMismatch)

	entry, err := store.verify("EMP001", "222222")
	require.NoError(t, err)
	assert.Equal(t, int64(7), entry.userID)
}

func TestParseEntryDate(t *testing.T) {
	now := time.Date(2025, time.August, 15, 18, 30, 0, 0, time.UTC)

	d, ok := parseEntryDate("2025-08-15", now)
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, time.August, 15, 0, 0, 0, 0, time.UTC), d)

	_, ok = parseEntryDate("2025-08-16", now)
	assert.False(t, ok, "future dates are rejected")

	_, ok = parseEntryDate("15-08-2025", now)
	assert.False(t, ok)

	_, ok = parseEntryDate("", now)
	assert.False(t, ok)
}

func TestAttemptLimiter(t *testing.T) {
	l := newAttemptLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		assert.True(t, l.allow("emp:EMP001"))
	}
	assert.False(t, l.allow("emp:EMP001"))

	// Independent keys do not share a window.
	assert.True(t, l.allow("ip:10.0.0.1"))
}
