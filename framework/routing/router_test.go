package routing_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/km-arc/go-facade/framework/routing"
)

// ── helpers ──────────────────────────────────────────────────────────────────

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func newRouter() *routing.Router {
	return routing.New(zerolog.Nop())
}

func do(t *testing.T, router *routing.Router, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

// ── HTTP verbs ────────────────────────────────────────────────────────────────

func TestRouter_Verbs(t *testing.T) {
	r := newRouter()
	r.Get("/facades", okHandler)
	r.Post("/facades/{key}/release", okHandler)
	r.Delete("/facades/{key}", okHandler)

	tests := []struct{ method, path string }{
		{http.MethodGet, "/facades"},
		{http.MethodPost, "/facades/cache/release"},
		{http.MethodDelete, "/facades/cache"},
	}
	for _, tt := range tests {
		if rr := do(t, r, tt.method, tt.path); rr.Code != http.StatusOK {
			t.Errorf("%s %s: got %d want 200", tt.method, tt.path, rr.Code)
		}
	}
}

// ── 404 / 405 ────────────────────────────────────────────────────────────────

func TestRouter_NotFound(t *testing.T) {
	r := newRouter()
	rr := do(t, r, http.MethodGet, "/not-registered")
	if rr.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rr.Code)
	}
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	r := newRouter()
	r.Get("/facades", okHandler)
	rr := do(t, r, http.MethodPost, "/facades")
	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", rr.Code)
	}
}

// ── Route params ─────────────────────────────────────────────────────────────

func TestRouter_Param(t *testing.T) {
	r := newRouter()
	r.Get("/facades/{key}", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(routing.Param(req, "key")))
	})

	rr := do(t, r, http.MethodGet, "/facades/config")
	if rr.Code != http.StatusOK {
		t.Fatalf("got %d want 200", rr.Code)
	}
	if rr.Body.String() != "config" {
		t.Errorf("got body %q want %q", rr.Body.String(), "config")
	}
}

// ── Prefix / Group ───────────────────────────────────────────────────────────

func TestRouter_Prefix(t *testing.T) {
	r := newRouter()
	r.Prefix("/api/v1", func(api *routing.Router) {
		api.Get("/facades", okHandler)
	})

	if rr := do(t, r, http.MethodGet, "/api/v1/facades"); rr.Code != http.StatusOK {
		t.Errorf("GET /api/v1/facades: got %d want 200", rr.Code)
	}
	if rr := do(t, r, http.MethodGet, "/facades"); rr.Code != http.StatusNotFound {
		t.Errorf("GET /facades: expected 404, got %d", rr.Code)
	}
}

func TestRouter_Group_Middleware(t *testing.T) {
	called := false
	mw := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			next.ServeHTTP(w, r)
		})
	}

	r := newRouter()
	r.Group(func(g *routing.Router) {
		g.Middleware(mw)
		g.Get("/protected", okHandler)
	})
	r.Get("/public", okHandler)

	do(t, r, http.MethodGet, "/public")
	if called {
		t.Error("group middleware must not run for routes outside the group")
	}
	do(t, r, http.MethodGet, "/protected")
	if !called {
		t.Error("group middleware was not called")
	}
}

// ── Recovery / logging ───────────────────────────────────────────────────────

func TestRouter_RecoversPanic(t *testing.T) {
	var buf bytes.Buffer
	r := routing.New(zerolog.New(&buf).Level(zerolog.DebugLevel))
	r.Get("/boom", func(http.ResponseWriter, *http.Request) { panic("boom") })

	rr := do(t, r, http.MethodGet, "/boom")
	if rr.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rr.Code)
	}
}

func TestAccessLog(t *testing.T) {
	var buf bytes.Buffer
	r := routing.New(zerolog.New(&buf).Level(zerolog.DebugLevel))
	r.Get("/facades", okHandler)

	do(t, r, http.MethodGet, "/facades")

	out := buf.String()
	for _, want := range []string{`"method":"GET"`, `"path":"/facades"`, `"status":200`, `"request_id"`} {
		if !strings.Contains(out, want) {
			t.Errorf("access log %q missing %s", out, want)
		}
	}
}
