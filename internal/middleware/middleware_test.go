package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rafa3lsilva/Sistema-Inventario/internal/models"
	"github.com/rafa3lsilva/Sistema-Inventario/internal/utils"
)

const testSecret = "test-secret"

func tokensFor(t *testing.T, role string) (string, string) {
	t.Helper()
	access, refresh, err := utils.GenerateTokens(&models.User{ID: "11111111-1111-1111-1111-111111111111", Username: "ana", Role: role}, testSecret)
	if err != nil {
		t.Fatalf("GenerateTokens: %v", err)
	}
	return access, refresh
}

func echoIdentity() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := IdentityFrom(r.Context())
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(id.Username + ":" + id.Role))
	})
}

func TestAuth(t *testing.T) {
	access, refresh := tokensFor(t, models.RoleUser)
	h := Auth(testSecret)(echoIdentity())

	cases := []struct {
		name   string
		header string
		query  string
		want   int
	}{
		{"no token", "", "", http.StatusUnauthorized},
		{"bad scheme", "Token " + access, "", http.StatusUnauthorized},
		{"bad signature", "Bearer " + access + "x", "", http.StatusUnauthorized},
		{"refresh token", "Bearer " + refresh, "", http.StatusUnauthorized},
		{"bearer", "Bearer " + access, "", http.StatusOK},
		{"query token", "", "?token=" + access, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/counts/mine"+tc.query, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d", rec.Code, tc.want)
			}
			if tc.want == http.StatusOK && rec.Body.String() != "ana:user" {
				t.Errorf("body = %q", rec.Body.String())
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	h := Auth(testSecret)(RequireAdmin(echoIdentity()))

	for role, want := range map[string]int{models.RoleUser: http.StatusForbidden, models.RoleAdmin: http.StatusOK} {
		access, _ := tokensFor(t, role)
		req := httptest.NewRequest(http.MethodDelete, "/api/counts", nil)
		req.Header.Set("Authorization", "Bearer "+access)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != want {
			t.Errorf("role %s: status = %d, want %d", role, rec.Code, want)
		}
	}

	rec := httptest.NewRecorder()
	RequireAdmin(echoIdentity()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("without identity: status = %d", rec.Code)
	}
}

func TestRateLimiterPassesWithoutRedis(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })

	h := LoginRateLimiter(nil)(ok)
	for i := 0; i < 50; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/login", nil))
		if rec.Code != http.StatusNoContent {
			t.Fatalf("request %d: status = %d", i, rec.Code)
		}
	}

	// Unreachable Redis fails open
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
	defer rdb.Close()
	rec := httptest.NewRecorder()
	RateLimiter(rdb, "login", 1, time.Minute)(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/login", nil))
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want pass-through", rec.Code)
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.5:5555"
	if got := clientIP(req); got != "10.0.0.5" {
		t.Errorf("clientIP = %q", got)
	}
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	if got := clientIP(req); got != "203.0.113.9" {
		t.Errorf("clientIP = %q", got)
	}
}
