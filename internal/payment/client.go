// Package payment verifies credit-card payment references against the
// external payment-status API. The client performs exactly one
// outbound call per verification and classifies the outcome into a
// small result vocabulary; retry and backoff policy belongs to the
// caller.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/iliyamo/hotel-room-reservation/internal/trace"
)

// Status is the classification of a payment reference's upstream state.
type Status string

const (
	StatusConfirmed Status = "CONFIRMED"
	StatusPending   Status = "PENDING"
	StatusCancelled Status = "CANCELLED"
	StatusRejected  Status = "REJECTED"
	StatusNotFound  Status = "NOT_FOUND"
)

// Sentinel errors surfaced to the intake caller. Handlers map them to
// HTTP statuses (402, 404, 503 respectively).
var (
	// ErrNotConfirmed: the payment exists but is not in a success
	// state, or the verification response was unusable. Not
	// retryable without a new payment reference.
	ErrNotConfirmed = errors.New("payment not confirmed")
	// ErrReferenceNotFound: the reference is unknown or malformed
	// per the upstream service.
	ErrReferenceNotFound = errors.New("payment reference not found")
	// ErrServiceUnavailable: the payment rail is unreachable or
	// failing server-side. Retryable by the caller after backoff.
	ErrServiceUnavailable = errors.New("payment service unavailable")
)

// statusByText maps the upstream status field (upper-cased) to a
// verification result. Unrecognized text falls back to PENDING: fail
// open toward "not yet confirmed", never toward "confirmed".
var statusByText = map[string]Status{
	"CONFIRMED": StatusConfirmed,
	"CANCELLED": StatusCancelled,
	"PENDING":   StatusPending,
	"REJECTED":  StatusRejected,
}

// Client calls the payment-status lookup endpoint.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a Client for the payment-status API rooted at
// baseURL. The http.Client is used as-is; deployment-level timeouts
// are expected to be configured on it.
func NewClient(baseURL string, hc *http.Client) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: hc}
}

type statusRequest struct {
	PaymentReference string `json:"paymentReference"`
}

type statusResponse struct {
	Status         string `json:"status"`
	LastUpdateDate string `json:"lastUpdateDate"`
}

// Verify performs one payment-status lookup for ref and returns its
// classification. Transport failures and server-side errors are
// reported as ErrServiceUnavailable; a remote 400 as
// ErrReferenceNotFound; any other non-2xx as ErrNotConfirmed. A 404
// is a successful lookup with result NOT_FOUND.
func (c *Client) Verify(ctx context.Context, ref string) (Status, error) {
	body, err := json.Marshal(statusRequest{PaymentReference: ref})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/payment-status", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(trace.HeaderName, trace.FromContext(ctx))

	resp, err := c.http.Do(req)
	if err != nil {
		log.Printf("payment: trace=%s status lookup unreachable: %v", trace.FromContext(ctx), err)
		return "", fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if st, err, final := classifyHTTP(resp.StatusCode); final {
		if err != nil {
			log.Printf("payment: trace=%s status lookup for %q failed with HTTP %d", trace.FromContext(ctx), ref, resp.StatusCode)
			return "", err
		}
		return st, nil
	}

	var sr statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil || sr.Status == "" {
		log.Printf("payment: trace=%s unusable verification response for %q", trace.FromContext(ctx), ref)
		return "", fmt.Errorf("%w: unable to verify payment status", ErrNotConfirmed)
	}

	if st, ok := statusByText[strings.ToUpper(sr.Status)]; ok {
		return st, nil
	}
	log.Printf("payment: trace=%s unknown payment status %q for reference %q, treating as PENDING", trace.FromContext(ctx), sr.Status, ref)
	return StatusPending, nil
}

// classifyHTTP maps a response code to either a verification result
// or a sentinel error. final reports whether the code already decides
// the outcome; 2xx responses continue to body parsing.
func classifyHTTP(code int) (Status, error, bool) {
	switch {
	case code >= 200 && code < 300:
		return "", nil, false
	case code == http.StatusNotFound:
		return StatusNotFound, nil, true
	case code == http.StatusBadRequest:
		return "", fmt.Errorf("%w: invalid payment reference format", ErrReferenceNotFound), true
	case code >= 500:
		return "", fmt.Errorf("%w: payment service returned HTTP %d", ErrServiceUnavailable, code), true
	default:
		return "", fmt.Errorf("%w: unexpected HTTP %d from payment service", ErrNotConfirmed, code), true
	}
}
