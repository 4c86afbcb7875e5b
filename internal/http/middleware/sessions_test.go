package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tbourn/go-pokemon-api/internal/auth"
	"github.com/tbourn/go-pokemon-api/internal/domain"
	"github.com/tbourn/go-pokemon-api/internal/session"
)

const testSecret = "0123456789abcdef0123456789abcdef"

var misty = domain.Identity{Provider: "github", ID: "7", Username: "misty", DisplayName: "Misty"}

// sessionFixture stores a session for misty and returns its signed cookie.
func sessionFixture(t *testing.T, store session.Store, codec *session.Codec, expires time.Time) (*http.Cookie, session.Session) {
	t.Helper()
	s := session.Session{ID: "sid-" + t.Name(), Identity: misty, CreatedAt: time.Now(), ExpiresAt: expires}
	if err := store.Create(context.Background(), s); err != nil {
		t.Fatalf("Create: %v", err)
	}
	w := httptest.NewRecorder()
	if err := codec.SetCookie(w, s.ID, expires); err != nil {
		t.Fatalf("SetCookie: %v", err)
	}
	return w.Result().Cookies()[0], s
}

func echoIdentity(c *gin.Context) {
	id, ok := IdentityFrom(c)
	ctxID, ctxOK := auth.IdentityFrom(c.Request.Context())
	_, sessOK := SessionFrom(c)
	if ok != ctxOK || ok != sessOK || id.ID != ctxID.ID {
		c.String(http.StatusInternalServerError, "gin/ctx mismatch")
		return
	}
	if !ok {
		c.String(http.StatusOK, "anonymous")
		return
	}
	c.String(http.StatusOK, id.Username)
}

func TestSessions_ResolvesIdentity(t *testing.T) {
	store := session.NewMemoryStore()
	codec := session.NewCodec(testSecret, time.Hour, session.CookieOptions{})
	ck, _ := sessionFixture(t, store, codec, time.Now().Add(time.Hour))

	r := newEngine(Sessions(store, codec, SessionOptions{TTL: time.Hour}))
	r.GET("/me", echoIdentity)

	hits := testutil.ToFloat64(sessionLookups.WithLabelValues("hit"))
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(ck)
	w := serve(r, req)
	if w.Body.String() != "misty" {
		t.Fatalf("body = %q", w.Body.String())
	}
	if len(w.Result().Cookies()) != 0 {
		t.Fatal("fixed-window session must not re-issue the cookie")
	}
	if got := testutil.ToFloat64(sessionLookups.WithLabelValues("hit")); got != hits+1 {
		t.Fatalf("hit counter = %v", got)
	}
}

func TestSessions_AnonymousPaths(t *testing.T) {
	store := session.NewMemoryStore()
	codec := session.NewCodec(testSecret, time.Hour, session.CookieOptions{})
	now := time.Now()
	expiredCk, expired := sessionFixture(t, store, codec, now.Add(time.Hour))

	r := newEngine(Sessions(store, codec, SessionOptions{TTL: time.Hour, Now: func() time.Time { return now.Add(2 * time.Hour) }}))
	r.GET("/me", echoIdentity)

	foreign := session.NewCodec("another-secret-value", time.Hour, session.CookieOptions{})
	fw := httptest.NewRecorder()
	_ = foreign.SetCookie(fw, expired.ID, now.Add(time.Hour))

	unknown := httptest.NewRecorder()
	_ = codec.SetCookie(unknown, "nope", now.Add(time.Hour))

	cases := map[string]*http.Cookie{
		"no cookie":      nil,
		"bad signature":  fw.Result().Cookies()[0],
		"unknown id":     unknown.Result().Cookies()[0],
		"expired":        expiredCk,
		"garbage cookie": {Name: codec.Name(), Value: "%%%"},
	}
	for name, ck := range cases {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if ck != nil {
			req.AddCookie(ck)
		}
		if w := serve(r, req); w.Code != http.StatusOK || w.Body.String() != "anonymous" {
			t.Fatalf("%s: got %d %q", name, w.Code, w.Body.String())
		}
	}
	if _, err := store.Get(context.Background(), expired.ID); !errors.Is(err, session.ErrNotFound) {
		t.Fatalf("expired session should be dropped, got %v", err)
	}
}

type failingStore struct{ session.Store }

func (failingStore) Get(context.Context, string) (*session.Session, error) {
	return nil, errors.New("redis down")
}

func TestSessions_StoreErrorLeavesAnonymous(t *testing.T) {
	buf := captureLogger(t)
	codec := session.NewCodec(testSecret, time.Hour, session.CookieOptions{})
	w := httptest.NewRecorder()
	_ = codec.SetCookie(w, "sid", time.Now().Add(time.Hour))

	r := newEngine(RedactingLogger(RedactOptions{}), Sessions(failingStore{}, codec, SessionOptions{}))
	r.GET("/me", echoIdentity)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(w.Result().Cookies()[0])
	if got := serve(r, req).Body.String(); got != "anonymous" {
		t.Fatalf("body = %q", got)
	}
	if !strings.Contains(buf.String(), "session store lookup failed") {
		t.Fatalf("store failure not logged:\n%s", buf.String())
	}
}

func TestSessions_SlidingRefresh(t *testing.T) {
	store := session.NewMemoryStore()
	codec := session.NewCodec(testSecret, time.Hour, session.CookieOptions{})
	now := time.Now()
	ck, s := sessionFixture(t, store, codec, now.Add(30*time.Minute))

	r := newEngine(Sessions(store, codec, SessionOptions{TTL: time.Hour, Sliding: true, Now: func() time.Time { return now }}))
	r.GET("/me", echoIdentity)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(ck)
	w := serve(r, req)
	if w.Body.String() != "misty" {
		t.Fatalf("body = %q", w.Body.String())
	}
	if len(w.Result().Cookies()) != 1 {
		t.Fatal("sliding session should re-issue the cookie")
	}
	got, err := store.Get(context.Background(), s.ID)
	if err != nil || !got.ExpiresAt.Equal(now.Add(time.Hour)) {
		t.Fatalf("expiry not pushed forward: %+v %v", got, err)
	}
}
