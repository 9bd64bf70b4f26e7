package shared_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/centavo-sv/centavo/internal/shared"
	_ "github.com/centavo-sv/centavo/testing"
)

func newManager(t *testing.T) *shared.SessionManager {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return shared.NewSessionManager(client, "test_session", time.Hour, false)
}

func sessionCookie(t *testing.T, res *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range res.Result().Cookies() {
		if c.Name == "test_session" {
			return c
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

func TestSessionRoundTrip(t *testing.T) {
	manager := newManager(t)
	ctx := context.Background()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := manager.Load(ctx, req)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	sess.SetUser("42")
	sess.Set("theme", "dark")

	res := httptest.NewRecorder()
	if err := manager.Commit(ctx, res, req, sess); err != nil {
		t.Fatalf("commit: %v", err)
	}
	cookie := sessionCookie(t, res)
	if cookie.Value == "" {
		t.Fatal("expected session id in cookie")
	}
	if !cookie.HttpOnly {
		t.Fatal("cookie must be http-only")
	}

	second := httptest.NewRequest(http.MethodGet, "/", nil)
	second.AddCookie(cookie)
	loaded, err := manager.Load(ctx, second)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if loaded.User() != "42" {
		t.Fatalf("expected user 42, got %q", loaded.User())
	}
	if loaded.Get("theme") != "dark" {
		t.Fatalf("expected stored value, got %q", loaded.Get("theme"))
	}
}

func TestSessionDestroy(t *testing.T) {
	manager := newManager(t)
	ctx := context.Background()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := manager.Load(ctx, req)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	sess.SetUser("42")

	res := httptest.NewRecorder()
	if err := manager.Commit(ctx, res, req, sess); err != nil {
		t.Fatalf("commit: %v", err)
	}
	cookie := sessionCookie(t, res)

	manager.Destroy(sess)
	destroyRes := httptest.NewRecorder()
	if err := manager.Commit(ctx, destroyRes, req, sess); err != nil {
		t.Fatalf("commit destroy: %v", err)
	}
	cleared := sessionCookie(t, destroyRes)
	if cleared.MaxAge != -1 {
		t.Fatalf("expected expired cookie, got max-age %d", cleared.MaxAge)
	}

	reload := httptest.NewRequest(http.MethodGet, "/", nil)
	reload.AddCookie(cookie)
	loaded, err := manager.Load(ctx, reload)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if loaded.User() != "" {
		t.Fatal("destroyed session must not resolve a user")
	}
}

func TestLoadUnknownCookieStartsFresh(t *testing.T) {
	manager := newManager(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "test_session", Value: "gone"})
	sess, err := manager.Load(context.Background(), req)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if sess.User() != "" {
		t.Fatal("expected anonymous session")
	}
}
