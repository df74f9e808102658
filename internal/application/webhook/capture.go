package webhook

import (
	"errors"
	"fmt"
	"io"
	"net/http"
)

var (
	// ErrBodyTooLarge means the request payload exceeded the configured limit.
	ErrBodyTooLarge = errors.New("request body exceeds maximum size")
	// ErrBodyRead means the request stream failed mid-read.
	ErrBodyRead = errors.New("failed to read request body")
)

// CaptureBody reads the exact, unmodified payload bytes of an inbound request
// before any structured parsing happens. Signature verification is byte-exact,
// so nothing may decode or re-encode the body first. The read is bounded by
// maxBytes; an oversized body fails the request rather than being truncated.
func CaptureBody(r *http.Request, maxBytes int64) ([]byte, error) {
	if r.Body == nil {
		return []byte{}, nil
	}

	reader := http.MaxBytesReader(nil, r.Body, maxBytes)
	body, err := io.ReadAll(reader)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, fmt.Errorf("%w: limit is %d bytes", ErrBodyTooLarge, maxBytes)
		}
		return nil, fmt.Errorf("%w: %v", ErrBodyRead, err)
	}

	return body, nil
}
