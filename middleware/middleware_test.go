package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"paystack-donation-api/models"
)

func TestRecoverReturnsJSON500(t *testing.T) {
	h := Recover(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/verify/DON-1", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	var resp models.APIResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Status != "error" {
		t.Errorf("response = %+v", resp)
	}
}

func TestCORSPreflight(t *testing.T) {
	called := false
	h := CORS(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/pay", nil))

	if called {
		t.Error("preflight should not reach the handler")
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing CORS header")
	}
}

func TestSecurityHeadersNoCacheOnPaymentRoutes(t *testing.T) {
	h := SecurityHeaders(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	for path, wantNoCache := range map[string]bool{"/pay": true, "/verify/DON-1": true, "/verify-payment": true, "/": false} {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		got := w.Header().Get("Cache-Control") != ""
		if got != wantNoCache {
			t.Errorf("%s: Cache-Control set = %v, want %v", path, got, wantNoCache)
		}
	}
}

func TestClientIPIgnoresHeadersFromUntrustedPeer(t *testing.T) {
	var none *TrustedProxies
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "198.51.100.9:5555"
	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	req.Header.Set("X-Real-IP", "203.0.113.8")

	if got := none.ClientIP(req); got != "198.51.100.9" {
		t.Errorf("nil proxies: got %q", got)
	}

	proxies, err := ParseTrustedProxies([]string{"10.0.0.0/8"})
	if err != nil {
		t.Fatal(err)
	}
	if got := proxies.ClientIP(req); got != "198.51.100.9" {
		t.Errorf("untrusted peer: got %q", got)
	}
}

func TestClientIPHonoursTrustedProxy(t *testing.T) {
	proxies, err := ParseTrustedProxies([]string{"10.0.0.0/8", "::1"})
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.1.2.3:5555"
	if got := proxies.ClientIP(req); got != "10.1.2.3" {
		t.Errorf("no header: got %q", got)
	}

	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	if got := proxies.ClientIP(req); got != "203.0.113.7" {
		t.Errorf("X-Forwarded-For: got %q", got)
	}

	v6 := httptest.NewRequest(http.MethodGet, "/", nil)
	v6.RemoteAddr = "[::1]:5555"
	v6.Header.Set("X-Real-IP", "203.0.113.8")
	if got := proxies.ClientIP(v6); got != "203.0.113.8" {
		t.Errorf("X-Real-IP via ::1: got %q", got)
	}
}

func TestParseTrustedProxiesRejectsGarbage(t *testing.T) {
	for _, entry := range []string{"not-an-ip", "10.0.0.0/99"} {
		if _, err := ParseTrustedProxies([]string{entry}); err == nil {
			t.Errorf("%q: expected error", entry)
		}
	}
}

func TestRateLimitConfigs(t *testing.T) {
	if c := getConfigForEndpoint("/pay"); c.Requests != 10 || c.Window != 10*time.Minute {
		t.Errorf("/pay config = %+v", c)
	}
	if c := getConfigForEndpoint("/verify/DON-123"); c.Requests != 30 {
		t.Errorf("/verify config = %+v", c)
	}
	if c := getConfigForEndpoint("/"); c.Requests != 120 {
		t.Errorf("default config = %+v", c)
	}

	rl := NewRateLimiter(nil, nil)
	a := httptest.NewRequest(http.MethodGet, "/verify/DON-1", nil)
	b := httptest.NewRequest(http.MethodGet, "/verify/DON-2", nil)
	a.RemoteAddr, b.RemoteAddr = "1.2.3.4:1", "1.2.3.4:2"
	b.Header.Set("X-Forwarded-For", "203.0.113.7")
	if rl.getRateLimitKey(a) != rl.getRateLimitKey(b) {
		t.Error("verify requests from one client should share a bucket")
	}
}
