package session

import (
	"crypto/sha256"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
)

// StateCookieName holds the OAuth state while a login is pending.
const StateCookieName = "__oauth_state"

// ErrNoCookie is returned by Codec.Read when the request carries no session cookie.
var ErrNoCookie = errors.New("session: no cookie")

// CookieOptions defines how session cookies are issued.
type CookieOptions struct {
	Name     string
	Path     string
	Secure   bool
	SameSite http.SameSite
}

// normalize applies safe defaults without breaking callers.
func (o CookieOptions) normalize() CookieOptions {
	if o.Name == "" {
		o.Name = "pokedex_session"
	}
	if o.Path == "" {
		o.Path = "/"
	}
	if o.SameSite == 0 {
		o.SameSite = http.SameSiteLaxMode
	}
	return o
}

// Codec signs session ids into cookie values and verifies them on the way
// back. The HMAC key is derived from the configured secret.
type Codec struct {
	sc   *securecookie.SecureCookie
	opts CookieOptions
}

// NewCodec builds a Codec whose signatures expire after ttl.
func NewCodec(secret string, ttl time.Duration, opts CookieOptions) *Codec {
	key := sha256.Sum256([]byte(secret))
	sc := securecookie.New(key[:], nil).MaxAge(int(ttl.Seconds()))
	return &Codec{sc: sc, opts: opts.normalize()}
}

// Name returns the session cookie name.
func (c *Codec) Name() string { return c.opts.Name }

// Read extracts and verifies the session id from r.
func (c *Codec) Read(r *http.Request) (string, error) {
	ck, err := r.Cookie(c.opts.Name)
	if err != nil || ck.Value == "" {
		return "", ErrNoCookie
	}
	var id string
	if err := c.sc.Decode(c.opts.Name, ck.Value, &id); err != nil {
		return "", err
	}
	return id, nil
}

// SetCookie issues the signed session cookie.
func (c *Codec) SetCookie(w http.ResponseWriter, id string, expiresAt time.Time) error {
	val, err := c.sc.Encode(c.opts.Name, id)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     c.opts.Name,
		Value:    val,
		Path:     c.opts.Path,
		Expires:  expiresAt,
		MaxAge:   int(time.Until(expiresAt).Seconds()),
		HttpOnly: true,
		Secure:   c.opts.Secure,
		SameSite: c.opts.SameSite,
	})
	return nil
}

// ClearCookie removes the session cookie from the client.
func (c *Codec) ClearCookie(w http.ResponseWriter) {
	c.clear(w, c.opts.Name)
}

// SetStateCookie stores the pending OAuth state for ttl.
func (c *Codec) SetStateCookie(w http.ResponseWriter, state string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     StateCookieName,
		Value:    state,
		Path:     c.opts.Path,
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   c.opts.Secure,
		SameSite: c.opts.SameSite,
	})
}

// ClearStateCookie removes the OAuth state cookie.
func (c *Codec) ClearStateCookie(w http.ResponseWriter) {
	c.clear(w, StateCookieName)
}

func (c *Codec) clear(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     c.opts.Path,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.opts.Secure,
		SameSite: c.opts.SameSite,
	})
}
