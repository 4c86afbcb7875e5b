// OAuth login handlers.
//
//   - GET /login            starts the provider redirect (Anonymous → Pending)
//   - GET /github/callback  finishes it (Pending → Authenticated | Anonymous)
//   - GET /logout           ends the session (any → Anonymous)
//
// Callback failures redirect to /api-docs?error=<reason> with one of
// auth_failed, no_user, login_failed or session_error.
package handlers

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-pokemon-api/internal/auth"
	"github.com/tbourn/go-pokemon-api/internal/http/middleware"
	"github.com/tbourn/go-pokemon-api/internal/session"
)

const (
	defaultStateTTL = 5 * time.Minute
	callbackErrPath = "/api-docs?error="

	reasonAuthFailed   = "auth_failed"
	reasonNoUser       = "no_user"
	reasonLoginFailed  = "login_failed"
	reasonSessionError = "session_error"
)

// AuthOptions wires the login flow.
type AuthOptions struct {
	// Provider is nil when no OAuth credentials are configured; /login then
	// answers 503.
	Provider auth.Provider
	Store    session.Store
	Codec    *session.Codec
	// TTL is the session lifetime.
	TTL time.Duration
	// StateTTL bounds how long a login may stay pending.
	StateTTL time.Duration
	// Now is the clock; nil means time.Now.
	Now func() time.Time
}

// Auth serves the login, callback and logout endpoints.
type Auth struct {
	opts AuthOptions
}

// NewAuth constructs the login handlers.
func NewAuth(opts AuthOptions) *Auth {
	if opts.StateTTL <= 0 {
		opts.StateTTL = defaultStateTTL
	}
	if opts.TTL <= 0 {
		opts.TTL = 24 * time.Hour
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Auth{opts: opts}
}

// state derives the login state of the calling browser.
func (a *Auth) state(c *gin.Context) auth.State {
	_, hasIdentity := middleware.IdentityFrom(c)
	_, err := c.Cookie(session.StateCookieName)
	return auth.CurrentState(hasIdentity, err == nil)
}

// advance applies e and logs the transition.
func (a *Auth) advance(c *gin.Context, from auth.State, e auth.Event) (auth.State, error) {
	to, err := auth.Transition(from, e)
	lg := middleware.LoggerFrom(c)
	if err != nil {
		lg.Warn().Err(err).Msg("login transition rejected")
		return to, err
	}
	lg.Debug().Stringer("from", from).Stringer("to", to).Stringer("event", e).Msg("login transition")
	return to, nil
}

// Login godoc
// @ID          login
// @Summary     Start GitHub login
// @Description Redirects to the GitHub authorize page with scope user:email.
// @Tags        Auth
// @Success     302
// @Failure     503  {object}  handlers.ErrorResponse  "Login not configured"
// @Router      /login [get]
func (a *Auth) Login(c *gin.Context) {
	if a.opts.Provider == nil {
		fail(c, http.StatusServiceUnavailable, ErrCodeLoginUnavailable, "GitHub login is not configured")
		return
	}
	state, err := auth.NewState()
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not start login")
		return
	}
	if _, err := a.advance(c, a.state(c), auth.Login); err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not start login")
		return
	}

	a.opts.Codec.SetStateCookie(c.Writer, state, a.opts.StateTTL)
	c.Redirect(http.StatusFound, a.opts.Provider.AuthCodeURL(state))
}

// Callback godoc
// @ID          githubCallback
// @Summary     GitHub OAuth callback
// @Description Exchanges the code, creates the session and redirects to /. Failures redirect to /api-docs?error=<reason>.
// @Tags        Auth
// @Param       code   query  string  false  "Authorization code"
// @Param       state  query  string  false  "Login state"
// @Success     302
// @Router      /github/callback [get]
func (a *Auth) Callback(c *gin.Context) {
	from := a.state(c)
	expected, _ := c.Cookie(session.StateCookieName)
	a.opts.Codec.ClearStateCookie(c.Writer)

	lg := middleware.LoggerFrom(c)
	failWith := func(reason string, err error) {
		lg.Info().Err(err).Str("reason", reason).Msg("login failed")
		if from == auth.Pending {
			_, _ = a.advance(c, from, auth.CallbackFailed)
		}
		c.Redirect(http.StatusFound, callbackErrPath+reason)
	}

	if a.opts.Provider == nil {
		failWith(reasonAuthFailed, errors.New("login not configured"))
		return
	}
	if from != auth.Pending {
		failWith(reasonAuthFailed, errors.New("no pending login"))
		return
	}
	if e := c.Query("error"); e != "" {
		failWith(reasonAuthFailed, errors.New("provider error: "+e))
		return
	}
	got := c.Query("state")
	if got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(expected)) != 1 {
		failWith(reasonAuthFailed, errors.New("state mismatch"))
		return
	}
	code := c.Query("code")
	if code == "" {
		failWith(reasonAuthFailed, errors.New("missing code"))
		return
	}

	ctx := c.Request.Context()
	profile, err := a.opts.Provider.Exchange(ctx, code)
	if err != nil {
		if errors.Is(err, auth.ErrNoUser) {
			failWith(reasonNoUser, err)
			return
		}
		failWith(reasonAuthFailed, err)
		return
	}

	identity, err := auth.NewIdentity(a.opts.Provider.Name(), profile)
	switch {
	case errors.Is(err, auth.ErrNoUser):
		failWith(reasonNoUser, err)
		return
	case err != nil:
		failWith(reasonLoginFailed, err)
		return
	}

	s, err := session.New(identity, a.opts.TTL, a.opts.Now())
	if err != nil {
		failWith(reasonSessionError, err)
		return
	}
	if err := a.opts.Store.Create(ctx, s); err != nil {
		failWith(reasonSessionError, err)
		return
	}
	if err := a.opts.Codec.SetCookie(c.Writer, s.ID, s.ExpiresAt); err != nil {
		_ = a.opts.Store.Delete(ctx, s.ID)
		failWith(reasonSessionError, err)
		return
	}
	// A re-login replaces the previous session.
	if old, err := a.opts.Codec.Read(c.Request); err == nil && old != s.ID {
		if err := a.opts.Store.Delete(ctx, old); err != nil {
			lg.Warn().Err(err).Msg("previous session delete failed")
		}
	}

	_, _ = a.advance(c, from, auth.CallbackSucceeded)
	lg.Info().Str("user_id", identity.ID).Str("username", identity.Username).Msg("user logged in")
	c.Redirect(http.StatusFound, "/")
}

// Logout godoc
// @ID          logout
// @Summary     Log out
// @Description Destroys the server session, clears the cookie and redirects to /.
// @Tags        Auth
// @Success     302
// @Router      /logout [get]
func (a *Auth) Logout(c *gin.Context) {
	lg := middleware.LoggerFrom(c)
	_, _ = a.advance(c, a.state(c), auth.Logout)

	var username string
	if id, ok := middleware.IdentityFrom(c); ok {
		username = id.Username
	}
	if sid, err := a.opts.Codec.Read(c.Request); err == nil {
		if err := a.opts.Store.Delete(c.Request.Context(), sid); err != nil {
			lg.Warn().Err(err).Msg("session delete failed")
		}
	}
	a.opts.Codec.ClearCookie(c.Writer)
	a.opts.Codec.ClearStateCookie(c.Writer)

	lg.Info().Str("username", username).Msg("user logged out")
	c.Redirect(http.StatusFound, "/")
}
