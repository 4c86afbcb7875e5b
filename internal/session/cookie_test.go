package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestCodec_RoundTrip(t *testing.T) {
	c := NewCodec("0123456789abcdef0123", time.Hour, CookieOptions{Secure: true})
	if c.Name() != "pokedex_session" {
		t.Fatalf("default name = %q", c.Name())
	}

	rec := httptest.NewRecorder()
	if err := c.SetCookie(rec, "sid-1", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("SetCookie: %v", err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("want 1 cookie, got %d", len(cookies))
	}
	ck := cookies[0]
	if !ck.HttpOnly || !ck.Secure || ck.SameSite != http.SameSiteLaxMode || ck.Path != "/" {
		t.Fatalf("cookie attributes wrong: %+v", ck)
	}
	if ck.Value == "sid-1" {
		t.Fatal("cookie value must be signed, not raw")
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(ck)
	id, err := c.Read(req)
	if err != nil || id != "sid-1" {
		t.Fatalf("Read: id=%q err=%v", id, err)
	}
}

func TestCodec_RejectsForeignSignature(t *testing.T) {
	a := NewCodec("secret-a-secret-a", time.Hour, CookieOptions{})
	b := NewCodec("secret-b-secret-b", time.Hour, CookieOptions{})

	rec := httptest.NewRecorder()
	_ = a.SetCookie(rec, "sid", time.Now().Add(time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(rec.Result().Cookies()[0])
	if _, err := b.Read(req); err == nil {
		t.Fatal("expected signature error")
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "pokedex_session", Value: "sid"})
	if _, err := a.Read(req); err == nil {
		t.Fatal("expected error for unsigned value")
	}
}

func TestCodec_NoCookie(t *testing.T) {
	c := NewCodec("0123456789abcdef", time.Hour, CookieOptions{Name: "custom"})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, err := c.Read(req); err != ErrNoCookie {
		t.Fatalf("want ErrNoCookie, got %v", err)
	}
}

func TestCodec_ClearAndStateCookies(t *testing.T) {
	c := NewCodec("0123456789abcdef", time.Hour, CookieOptions{})
	rec := httptest.NewRecorder()
	c.SetStateCookie(rec, "st", 5*time.Minute)
	c.ClearCookie(rec)
	c.ClearStateCookie(rec)

	cookies := rec.Result().Cookies()
	if len(cookies) != 3 {
		t.Fatalf("want 3 cookies, got %d", len(cookies))
	}
	if cookies[0].Name != StateCookieName || cookies[0].Value != "st" || cookies[0].MaxAge != 300 {
		t.Fatalf("state cookie wrong: %+v", cookies[0])
	}
	for _, ck := range cookies[1:] {
		if ck.MaxAge != -1 || ck.Value != "" {
			t.Fatalf("clear cookie wrong: %+v", ck)
		}
	}
}
