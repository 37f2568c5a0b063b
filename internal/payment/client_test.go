package payment

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func statusServer(t *testing.T, code int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/payment-status" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var req statusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		w.WriteHeader(code)
		if body != "" {
			w.Write([]byte(body))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestVerifyClassification(t *testing.T) {
	cases := []struct {
		name       string
		code       int
		body       string
		wantStatus Status
		wantErr    error
	}{
		{name: "confirmed", code: 200, body: `{"status":"CONFIRMED","lastUpdateDate":"2026-08-30"}`, wantStatus: StatusConfirmed},
		{name: "lowercase status accepted", code: 200, body: `{"status":"confirmed"}`, wantStatus: StatusConfirmed},
		{name: "rejected", code: 200, body: `{"status":"REJECTED"}`, wantStatus: StatusRejected},
		{name: "unknown status treated as pending", code: 200, body: `{"status":"ON_HOLD"}`, wantStatus: StatusPending},
		{name: "empty status is unusable", code: 200, body: `{"status":""}`, wantErr: ErrNotConfirmed},
		{name: "malformed body is unusable", code: 200, body: `{not json`, wantErr: ErrNotConfirmed},
		{name: "404 means reference lookup done", code: 404, wantStatus: StatusNotFound},
		{name: "400 means bad reference", code: 400, wantErr: ErrReferenceNotFound},
		{name: "500 means rail down", code: 500, wantErr: ErrServiceUnavailable},
		{name: "503 means rail down", code: 503, wantErr: ErrServiceUnavailable},
		{name: "other codes are not confirmed", code: 418, wantErr: ErrNotConfirmed},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := statusServer(t, tc.code, tc.body)
			client := NewClient(srv.URL, srv.Client())

			st, err := client.Verify(context.Background(), "PR123456")
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("Verify() error = %v, want %v", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Verify() error = %v", err)
			}
			if st != tc.wantStatus {
				t.Errorf("Verify() = %v, want %v", st, tc.wantStatus)
			}
		})
	}
}

func TestVerifyUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // connection refused from here on

	client := NewClient(srv.URL, nil)
	if _, err := client.Verify(context.Background(), "PR123456"); !errors.Is(err, ErrServiceUnavailable) {
		t.Errorf("Verify() error = %v, want ErrServiceUnavailable", err)
	}
}

func TestNewClientTrimsTrailingSlash(t *testing.T) {
	srv := statusServer(t, 200, `{"status":"CONFIRMED"}`)
	client := NewClient(srv.URL+"/", srv.Client())
	if _, err := client.Verify(context.Background(), "PR123456"); err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
}
