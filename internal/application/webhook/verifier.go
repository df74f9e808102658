package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"payhook/internal/domain/event"
	"payhook/internal/shared/logger"
)

// SignatureHeader is the request header carrying the provider's signature.
const SignatureHeader = "Stripe-Signature"

// DefaultTolerance bounds the replay window for signed timestamps.
const DefaultTolerance = 5 * time.Minute

var (
	ErrMissingSignatureHeader   = errors.New("signature header is required")
	ErrMalformedSignatureHeader = errors.New("malformed signature header")
	ErrTimestampOutOfTolerance  = errors.New("signature timestamp outside allowed tolerance")
	ErrNoMatchingSecret         = errors.New("no configured secret matches the signature")
	ErrMalformedPayload         = errors.New("malformed event payload")
)

// Verifier authenticates inbound webhook deliveries. The header format is
// ordered key=value pairs separated by commas, e.g.
//
//	t=1699564330,v1=5257a869e7...,v1=87ab34fe21...
//
// Multiple v1 values and multiple configured secrets are both supported so
// deliveries keep verifying during secret rotation windows. Verification is
// pure: it touches no shared state and has no side effects.
type Verifier struct {
	secrets   [][]byte
	tolerance time.Duration
	logger    logger.Interface
}

func NewVerifier(secrets []string, tolerance time.Duration, log logger.Interface) (*Verifier, error) {
	if len(secrets) == 0 {
		return nil, fmt.Errorf("at least one signing secret is required")
	}
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}

	keys := make([][]byte, 0, len(secrets))
	for _, s := range secrets {
		if s == "" {
			return nil, fmt.Errorf("signing secret must not be empty")
		}
		keys = append(keys, []byte(s))
	}

	return &Verifier{
		secrets:   keys,
		tolerance: tolerance,
		logger:    log,
	}, nil
}

// Verify checks the signature header against the exact payload bytes and, on
// success, parses the payload into a verified event. A stale timestamp fails
// even when the signature matches; this bounds the replay-attack window.
func (v *Verifier) Verify(rawBody []byte, header string, now time.Time) (*event.Event, error) {
	if header == "" {
		return nil, ErrMissingSignatureHeader
	}

	parsed, err := parseSignatureHeader(header)
	if err != nil {
		return nil, err
	}

	if drift := now.Sub(parsed.timestamp); drift > v.tolerance || drift < -v.tolerance {
		v.logger.Warnw("webhook timestamp outside tolerance",
			"timestamp", parsed.timestamp,
			"drift", drift,
			"tolerance", v.tolerance,
		)
		return nil, ErrTimestampOutOfTolerance
	}

	if !v.anySecretMatches(parsed, rawBody) {
		v.logger.Warnw("webhook signature mismatch",
			"timestamp", parsed.timestamp,
			"signature_count", len(parsed.signatures),
		)
		return nil, ErrNoMatchingSecret
	}

	evt, err := event.Parse(rawBody)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	return evt, nil
}

func (v *Verifier) anySecretMatches(parsed *parsedHeader, rawBody []byte) bool {
	for _, secret := range v.secrets {
		expected := computeSignature(string(parsed.rawTimestamp), rawBody, secret)
		for _, sig := range parsed.signatures {
			if hmac.Equal(expected, sig) {
				return true
			}
		}
	}
	return false
}

// computeSignature returns the HMAC-SHA256 of "{timestamp}.{body}".
func computeSignature(timestamp string, body, secret []byte) []byte {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(body)
	return mac.Sum(nil)
}

type parsedHeader struct {
	rawTimestamp []byte
	timestamp    time.Time
	signatures   [][]byte
}

func parseSignatureHeader(header string) (*parsedHeader, error) {
	parsed := &parsedHeader{}

	for _, pair := range strings.Split(header, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(pair), "=")
		if !found {
			return nil, fmt.Errorf("%w: expected key=value pairs", ErrMalformedSignatureHeader)
		}

		switch key {
		case "t":
			sec, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: invalid timestamp", ErrMalformedSignatureHeader)
			}
			parsed.rawTimestamp = []byte(value)
			parsed.timestamp = time.Unix(sec, 0).UTC()
		case "v1":
			sig, err := hex.DecodeString(value)
			if err != nil {
				// Skip undecodable values; a rotated scheme may coexist with
				// ones we understand.
				continue
			}
			parsed.signatures = append(parsed.signatures, sig)
		default:
			// Unknown schemes (e.g. v0) are ignored.
		}
	}

	if parsed.rawTimestamp == nil {
		return nil, fmt.Errorf("%w: missing timestamp", ErrMalformedSignatureHeader)
	}
	if len(parsed.signatures) == 0 {
		return nil, fmt.Errorf("%w: no usable signature values", ErrMalformedSignatureHeader)
	}

	return parsed, nil
}
