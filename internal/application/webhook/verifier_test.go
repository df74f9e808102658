package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payhook/internal/shared/logger"
)

func testLogger() logger.Interface {
	return logger.NewLoggerWithSlog(slog.New(slog.DiscardHandler))
}

func signPayload(secret string, ts time.Time, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strconv.FormatInt(ts.Unix(), 10)))
	mac.Write([]byte("."))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func signedHeader(secret string, ts time.Time, body []byte) string {
	return fmt.Sprintf("t=%d,v1=%s", ts.Unix(), signPayload(secret, ts, body))
}

var validPayload = []byte(`{"id":"evt_123","type":"checkout.session.completed","created":1699564330,"data":{"object":{"id":"cs_123"}}}`)

func TestVerifyAcceptsValidSignature(t *testing.T) {
	v, err := NewVerifier([]string{"whsec_test"}, 5*time.Minute, testLogger())
	require.NoError(t, err)

	now := time.Now()
	header := signedHeader("whsec_test", now, validPayload)

	evt, err := v.Verify(validPayload, header, now)
	require.NoError(t, err)
	assert.Equal(t, "evt_123", evt.ID())
	assert.Equal(t, "checkout.session.completed", evt.Type())
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	v, err := NewVerifier([]string{"whsec_test"}, 5*time.Minute, testLogger())
	require.NoError(t, err)

	now := time.Now()
	header := signedHeader("whsec_other", now, validPayload)

	_, err = v.Verify(validPayload, header, now)
	assert.ErrorIs(t, err, ErrNoMatchingSecret)
}

func TestVerifyRejectsTamperedPayload(t *testing.T) {
	v, err := NewVerifier([]string{"whsec_test"}, 5*time.Minute, testLogger())
	require.NoError(t, err)

	now := time.Now()
	header := signedHeader("whsec_test", now, validPayload)

	tampered := []byte(`{"id":"evt_999","type":"checkout.session.completed","data":{"object":{}}}`)
	_, err = v.Verify(tampered, header, now)
	assert.ErrorIs(t, err, ErrNoMatchingSecret)
}

func TestVerifyRejectsStaleTimestamp(t *testing.T) {
	v, err := NewVerifier([]string{"whsec_test"}, 5*time.Minute, testLogger())
	require.NoError(t, err)

	now := time.Now()
	signedAt := now.Add(-6 * time.Minute)
	header := signedHeader("whsec_test", signedAt, validPayload)

	_, err = v.Verify(validPayload, header, now)
	assert.ErrorIs(t, err, ErrTimestampOutOfTolerance)
}

func TestVerifyRejectsFutureTimestamp(t *testing.T) {
	v, err := NewVerifier([]string{"whsec_test"}, 5*time.Minute, testLogger())
	require.NoError(t, err)

	now := time.Now()
	signedAt := now.Add(10 * time.Minute)
	header := signedHeader("whsec_test", signedAt, validPayload)

	_, err = v.Verify(validPayload, header, now)
	assert.ErrorIs(t, err, ErrTimestampOutOfTolerance)
}

func TestVerifyAcceptsRotatedSecret(t *testing.T) {
	// During rotation both the old and the new secret are configured; a
	// delivery signed with either must verify.
	v, err := NewVerifier([]string{"whsec_old", "whsec_new"}, 5*time.Minute, testLogger())
	require.NoError(t, err)

	now := time.Now()

	for _, secret := range []string{"whsec_old", "whsec_new"} {
		header := signedHeader(secret, now, validPayload)
		_, err := v.Verify(validPayload, header, now)
		assert.NoError(t, err, "secret %s should verify", secret)
	}
}

func TestVerifyAcceptsAnyMatchingSignatureValue(t *testing.T) {
	v, err := NewVerifier([]string{"whsec_test"}, 5*time.Minute, testLogger())
	require.NoError(t, err)

	now := time.Now()
	good := signPayload("whsec_test", now, validPayload)
	bad := signPayload("whsec_other", now, validPayload)
	header := fmt.Sprintf("t=%d,v1=%s,v1=%s", now.Unix(), bad, good)

	_, err = v.Verify(validPayload, header, now)
	assert.NoError(t, err)
}

func TestVerifyRejectsMissingHeader(t *testing.T) {
	v, err := NewVerifier([]string{"whsec_test"}, 5*time.Minute, testLogger())
	require.NoError(t, err)

	_, err = v.Verify(validPayload, "", time.Now())
	assert.ErrorIs(t, err, ErrMissingSignatureHeader)
}

func TestVerifyRejectsMalformedHeader(t *testing.T) {
	v, err := NewVerifier([]string{"whsec_test"}, 5*time.Minute, testLogger())
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
	}{
		{"garbage", "not-a-signature"},
		{"missing timestamp", "v1=" + signPayload("whsec_test", time.Now(), validPayload)},
		{"missing signature", fmt.Sprintf("t=%d", time.Now().Unix())},
		{"non-numeric timestamp", "t=abc,v1=deadbeef"},
		{"undecodable signature only", fmt.Sprintf("t=%d,v1=zzzz", time.Now().Unix())},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := v.Verify(validPayload, tc.header, time.Now())
			assert.ErrorIs(t, err, ErrMalformedSignatureHeader)
		})
	}
}

func TestVerifyRejectsMalformedPayload(t *testing.T) {
	v, err := NewVerifier([]string{"whsec_test"}, 5*time.Minute, testLogger())
	require.NoError(t, err)

	now := time.Now()
	payload := []byte(`{"type":"checkout.session.completed"}`)
	header := signedHeader("whsec_test", now, payload)

	_, err = v.Verify(payload, header, now)
	assert.ErrorIs(t, err, ErrMalformedPayload)
}

func TestNewVerifierRequiresSecrets(t *testing.T) {
	_, err := NewVerifier(nil, 5*time.Minute, testLogger())
	assert.Error(t, err)

	_, err = NewVerifier([]string{""}, 5*time.Minute, testLogger())
	assert.Error(t, err)
}
