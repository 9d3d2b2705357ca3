package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/backend-perks/internal/obs"
)

func evaluateRequest(remoteAddr string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/evaluate/order-discount", nil)
	req.RemoteAddr = remoteAddr
	req = req.WithContext(obs.WithRoutePattern(req.Context(), "/api/v1/evaluate/order-discount"))
	return req
}

func TestClientRouteKeyPerClient(t *testing.T) {
	a := ClientRouteKey(evaluateRequest("198.51.100.7:61001"))
	b := ClientRouteKey(evaluateRequest("198.51.100.8:61001"))
	if a == b {
		t.Fatalf("expected distinct keys for distinct clients, got %q", a)
	}
	if a != "198.51.100.7:/api/v1/evaluate/order-discount" {
		t.Fatalf("unexpected key %q", a)
	}
}

func TestClientRouteKeyIPv6(t *testing.T) {
	// A bracketed IPv6 host:port must key on the full address, not on the
	// text before its first colon.
	a := ClientRouteKey(evaluateRequest("[2001:db8::1]:4242"))
	b := ClientRouteKey(evaluateRequest("[2001:db8::2]:4242"))
	if a == b {
		t.Fatalf("expected distinct keys for distinct IPv6 clients, got %q", a)
	}
	if a != "2001:db8::1:/api/v1/evaluate/order-discount" {
		t.Fatalf("unexpected key %q", a)
	}

	// RealIP middleware can leave a bare IPv6 address with no port.
	c := ClientRouteKey(evaluateRequest("2001:db8::3"))
	d := ClientRouteKey(evaluateRequest("2001:db8::4"))
	if c == d {
		t.Fatalf("expected distinct keys for bare IPv6 clients, got %q", c)
	}
	if c != "2001:db8::3:/api/v1/evaluate/order-discount" {
		t.Fatalf("unexpected key %q", c)
	}
}

func TestClientRouteKeyFallsBackToPath(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/evaluate/shipping-discount", nil)
	req.RemoteAddr = "198.51.100.7:61001"
	if got := ClientRouteKey(req); got != "198.51.100.7:/api/v1/evaluate/shipping-discount" {
		t.Fatalf("unexpected key %q", got)
	}
}

func TestHandlerMiddlewareEnforcesLimit(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = client.Close() }()

	handler := Handler{
		Limiter: Limiter{Client: client},
		Config: Config{
			Key:    ClientRouteKey,
			Window: time.Second,
			Max:    1,
		},
	}

	counted := handler.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := evaluateRequest("198.51.100.7:61001")
	rr1 := httptest.NewRecorder()
	counted.ServeHTTP(rr1, req.Clone(req.Context()))
	if rr1.Code != http.StatusOK {
		t.Fatalf("expected first request allowed, got %d", rr1.Code)
	}

	rr2 := httptest.NewRecorder()
	counted.ServeHTTP(rr2, req.Clone(req.Context()))
	if rr2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 on second request, got %d", rr2.Code)
	}
	if rr2.Header().Get("X-RateLimit-Limit") != "1" {
		t.Fatalf("unexpected limit header: %q", rr2.Header().Get("X-RateLimit-Limit"))
	}

	// A different client is not affected by the first client's window.
	other := evaluateRequest("[2001:db8::1]:4242")
	rr3 := httptest.NewRecorder()
	counted.ServeHTTP(rr3, other)
	if rr3.Code != http.StatusOK {
		t.Fatalf("expected other client allowed, got %d", rr3.Code)
	}
}

func TestHandlerMiddlewareOnError(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	handler := Handler{
		Limiter: Limiter{Client: client},
		Config: Config{
			Key:    ClientRouteKey,
			Window: time.Second,
			Max:    1,
		},
	}

	called := false
	handler.OnError = func(error) { called = true }

	counted := handler.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	counted.ServeHTTP(rr, evaluateRequest("198.51.100.7:61001"))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected evaluation to proceed when redis is down, got %d", rr.Code)
	}
	if !called {
		t.Fatal("expected OnError callback to be invoked")
	}
	_ = client.Close()
}
