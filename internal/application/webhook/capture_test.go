package webhook

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaptureBodyReturnsExactBytes(t *testing.T) {
	payload := []byte(`{"id":"evt_1","type":"x"}  `)
	req := httptest.NewRequest("POST", "/webhook", bytes.NewReader(payload))

	body, err := CaptureBody(req, 1024)
	require.NoError(t, err)
	assert.Equal(t, payload, body)
}

func TestCaptureBodyRejectsOversizedPayload(t *testing.T) {
	payload := bytes.Repeat([]byte("a"), 100)
	req := httptest.NewRequest("POST", "/webhook", bytes.NewReader(payload))

	_, err := CaptureBody(req, 50)
	assert.ErrorIs(t, err, ErrBodyTooLarge)
}

func TestCaptureBodyAllowsPayloadAtLimit(t *testing.T) {
	payload := bytes.Repeat([]byte("a"), 50)
	req := httptest.NewRequest("POST", "/webhook", bytes.NewReader(payload))

	body, err := CaptureBody(req, 50)
	require.NoError(t, err)
	assert.Len(t, body, 50)
}

func TestCaptureBodyEmptyBody(t *testing.T) {
	req := httptest.NewRequest("POST", "/webhook", nil)

	body, err := CaptureBody(req, 1024)
	require.NoError(t, err)
	assert.Empty(t, body)
}
