package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	chiMid "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func findCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func newTestSessions(t *testing.T, key string) *Sessions {
	t.Helper()
	s, err := NewSessions(SessionOptions{CookieName: "test_visitor", SigningKey: key})
	if err != nil {
		t.Fatalf("sessions init: %v", err)
	}
	return s
}

func TestSessionMiddlewareLifecycle(t *testing.T) {
	s := newTestSessions(t, "12345678901234567890123456789012")
	var ids []string
	handler := s.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ids = append(ids, VisitorID(r.Context()))
		_, _ = io.WriteString(w, "ok")
	}))

	rec1 := httptest.NewRecorder()
	handler.ServeHTTP(rec1, httptest.NewRequest(http.MethodGet, "/", nil))
	if len(ids) != 1 || ids[0] == "" {
		t.Fatalf("expected initial visitor id, got %v", ids)
	}
	cookie := findCookie(rec1.Result().Cookies(), "test_visitor")
	if cookie == nil {
		t.Fatalf("expected visitor cookie, got headers %v", rec1.Header().Values("Set-Cookie"))
	}
	if !cookie.HttpOnly || cookie.SameSite != http.SameSiteLaxMode {
		t.Fatalf("unexpected cookie attributes: %+v", cookie)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/", nil)
	req2.AddCookie(cookie)
	rec2 := httptest.NewRecorder()
	handler.ServeHTTP(rec2, req2)
	if ids[1] != ids[0] {
		t.Fatalf("visitor id changed: %q -> %q", ids[0], ids[1])
	}
	if got := rec2.Header().Values("Set-Cookie"); len(got) != 0 {
		t.Fatalf("clean session should not be rewritten, got %v", got)
	}
}

func TestSessionRejectsForeignSignature(t *testing.T) {
	a := newTestSessions(t, "key-a")
	b := newTestSessions(t, "key-b")
	var first, second string
	a.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		first = VisitorID(r.Context())
	})).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodHead, "/", nil))

	rec := httptest.NewRecorder()
	a.Middleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})).
		ServeHTTP(rec, httptest.NewRequest(http.MethodHead, "/", nil))
	cookie := findCookie(rec.Result().Cookies(), "test_visitor")
	if cookie == nil {
		t.Fatalf("HEAD response should still carry the cookie")
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	b.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		second = VisitorID(r.Context())
	})).ServeHTTP(httptest.NewRecorder(), req)
	if second == "" || second == first {
		t.Fatalf("expected a fresh visitor for a foreign cookie, got %q (first %q)", second, first)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "test_visitor", Value: "garbage"})
	var third string
	b.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		third = VisitorID(r.Context())
	})).ServeHTTP(httptest.NewRecorder(), req)
	if third == "" {
		t.Fatalf("expected a visitor id for a malformed cookie")
	}
}

func TestRecorderHijackUnsupported(t *testing.T) {
	rw := NewResponseRecorder(httptest.NewRecorder())
	var _ http.Hijacker = rw
	if _, _, err := rw.Hijack(); err == nil {
		t.Fatalf("expected hijack error from a recorder without hijacker")
	}
	if rw.Wrote() {
		t.Fatalf("failed hijack must not mark the response written")
	}
}

func TestRecorderBeforeWriteRunsOnce(t *testing.T) {
	calls := 0
	rec := httptest.NewRecorder()
	rw := NewResponseRecorder(rec)
	rw.SetBeforeWrite(func(w http.ResponseWriter) {
		calls++
		w.Header().Set("X-Hook", "1")
	})
	rw.WriteHeader(http.StatusTeapot)
	_, _ = rw.Write([]byte("short and stout"))
	if calls != 1 {
		t.Fatalf("hook ran %d times", calls)
	}
	if rec.Header().Get("X-Hook") != "1" || rw.Status() != http.StatusTeapot || rw.BytesWritten() != 15 {
		t.Fatalf("unexpected recorder state: hook=%q status=%d bytes=%d", rec.Header().Get("X-Hook"), rw.Status(), rw.BytesWritten())
	}
}

func TestLoggerRecordsRequest(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	s := newTestSessions(t, "k")
	var scoped *zap.Logger
	h := chiMid.RequestID(s.Middleware(Logger(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		scoped = LoggerFrom(r.Context())
		if _, ok := RequestID(r.Context()); !ok {
			t.Errorf("request id missing from context")
		}
		http.NotFound(w, r)
	}))))
	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	req.Header.Set("X-Forwarded-For", "10.0.0.1, 203.0.113.9")
	h.ServeHTTP(httptest.NewRecorder(), req)

	if scoped == nil {
		t.Fatalf("expected a scoped logger")
	}
	entries := logs.FilterMessage("request").All()
	if len(entries) != 1 {
		t.Fatalf("expected one request entry, got %d", len(entries))
	}
	e := entries[0]
	fields := e.ContextMap()
	if e.Level != zapcore.WarnLevel || fields["status"] != int64(404) || fields["path"] != "/missing" {
		t.Fatalf("unexpected entry: level=%s fields=%v", e.Level, fields)
	}
	if fields["remote_ip"] != "203.0.113.9" || fields["request_id"] == "" || fields["visitor"] == "" {
		t.Fatalf("missing request context fields: %v", fields)
	}
}

func TestAssetsWithCache(t *testing.T) {
	fsys := fstest.MapFS{"app.css": {Data: []byte("body{margin:0}")}}
	h := http.StripPrefix("/assets", AssetsWithCache(fsys))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/assets/app.css", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "margin") {
		t.Fatalf("unexpected response %d %q", rec.Code, rec.Body.String())
	}
	etag := rec.Header().Get("ETag")
	if !strings.HasPrefix(etag, `W/"`) || !strings.Contains(rec.Header().Get("Cache-Control"), "max-age") {
		t.Fatalf("missing cache headers: %v", rec.Header())
	}

	req := httptest.NewRequest(http.MethodGet, "/assets/app.css", nil)
	req.Header.Set("If-None-Match", etag)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotModified {
		t.Fatalf("expected 304, got %d", rec.Code)
	}
}
