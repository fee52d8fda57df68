package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestExportLinksRoundTrip(t *testing.T) {
	l := NewExportLinks("s3cret", time.Minute)
	tok, exp, err := l.Sign()
	if err != nil {
		t.Fatalf("Sign error: %v", err)
	}
	if time.Until(exp) <= 0 {
		t.Fatalf("expiry in the past: %v", exp)
	}
	if err := l.Verify(tok); err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if err := NewExportLinks("other", time.Minute).Verify(tok); !errors.Is(err, ErrInvalidLink) {
		t.Fatalf("token verified with wrong secret: %v", err)
	}
}

func TestExportLinksExpire(t *testing.T) {
	l := NewExportLinks("s3cret", time.Minute)
	base := time.Now()
	l.now = func() time.Time { return base }
	tok, _, err := l.Sign()
	if err != nil {
		t.Fatalf("Sign error: %v", err)
	}
	l.now = func() time.Time { return base.Add(2 * time.Minute) }
	if err := l.Verify(tok); !errors.Is(err, ErrInvalidLink) {
		t.Fatalf("expected expired token to fail, got %v", err)
	}
}

func TestExportLinksDisabled(t *testing.T) {
	l := NewExportLinks("", time.Minute)
	if _, _, err := l.Sign(); !errors.Is(err, ErrLinksDisabled) {
		t.Fatalf("expected disabled, got %v", err)
	}
}

func TestRequireExportLink(t *testing.T) {
	l := NewExportLinks("s3cret", time.Minute)
	tok, _, _ := l.Sign()
	h := RequireExportLink(l, func(w http.ResponseWriter, _ *http.Request, _ error) {
		w.WriteHeader(http.StatusForbidden)
	})(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/x?token="+tok, nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("valid token status = %d", rr.Code)
	}
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/x?token=garbage", nil))
	if rr.Code != http.StatusForbidden {
		t.Fatalf("invalid token status = %d", rr.Code)
	}
}
