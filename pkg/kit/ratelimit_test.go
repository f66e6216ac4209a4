package kit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestIPRateLimiter_Allow(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	l := NewIPRateLimiter(2, time.Minute)
	l.now = func() time.Time { return now }

	for i := 0; i < 2; i++ {
		if _, limited := l.Allow("10.0.0.1"); limited {
			t.Fatalf("hit %d limited", i+1)
		}
	}

	retry, limited := l.Allow("10.0.0.1")
	if !limited {
		t.Fatalf("third hit not limited")
	}
	if retry != time.Minute {
		t.Fatalf("retry=%s want=%s", retry, time.Minute)
	}

	if _, limited := l.Allow("10.0.0.2"); limited {
		t.Fatalf("other ip limited")
	}

	now = now.Add(time.Minute + time.Second)
	if _, limited := l.Allow("10.0.0.1"); limited {
		t.Fatalf("limited after window elapsed")
	}
}

func TestIPRateLimiter_ForgetsIdleClients(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	l := NewIPRateLimiter(5, time.Minute)
	l.now = func() time.Time { return now }

	l.Allow("10.0.0.1")
	l.Allow("10.0.0.2")

	now = now.Add(2 * time.Minute)
	l.Allow("10.0.0.3")

	if len(l.hits) != 1 {
		t.Fatalf("tracked clients=%d want=1", len(l.hits))
	}
}

func TestIPRateLimiter_Middleware(t *testing.T) {
	l := NewIPRateLimiter(1, time.Hour)
	h := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	do := func(xff string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/purchase", nil)
		if xff != "" {
			req.Header.Set("X-Forwarded-For", xff)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	if rec := do(""); rec.Code != http.StatusNoContent {
		t.Fatalf("first status=%d", rec.Code)
	}

	rec := do("")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second status=%d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatalf("missing Retry-After")
	}

	if rec := do("203.0.113.9, 10.0.0.1"); rec.Code != http.StatusNoContent {
		t.Fatalf("forwarded client status=%d", rec.Code)
	}
}

func TestFirstForwardedFor(t *testing.T) {
	cases := []struct{ in, want string }{
		{"", ""},
		{"203.0.113.9", "203.0.113.9"},
		{" 203.0.113.9 , 10.0.0.1", "203.0.113.9"},
	}
	for _, c := range cases {
		if got := firstForwardedFor(c.in); got != c.want {
			t.Fatalf("firstForwardedFor(%q)=%q want=%q", c.in, got, c.want)
		}
	}
}
