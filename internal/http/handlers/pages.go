// HTML and status pages for browser users:
//   - GET /           home page (login link, or user card when logged in)
//   - GET /api-test   CRUD console driving /users with the session cookie
//   - GET /test-auth  JSON view of the current authentication state
package handlers

import (
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-pokemon-api/internal/domain"
	"github.com/tbourn/go-pokemon-api/internal/http/middleware"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses the page templates. Register them with
// gin.Engine.SetHTMLTemplate before serving Home or APITest.
func Templates() *template.Template {
	return template.Must(template.ParseFS(templateFS, "templates/*.html"))
}

type pageData struct {
	User *domain.Identity
}

func currentPage(c *gin.Context) pageData {
	if id, ok := middleware.IdentityFrom(c); ok {
		return pageData{User: &id}
	}
	return pageData{}
}

// Home renders the landing page.
func Home(c *gin.Context) {
	c.HTML(http.StatusOK, "home.html", currentPage(c))
}

// APITest renders the browser test console.
func APITest(c *gin.Context) {
	c.HTML(http.StatusOK, "api_test.html", currentPage(c))
}

// AuthUser is the user summary returned by TestAuth.
type AuthUser struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	ProfileURL  string `json:"profileUrl"`
	HasEmail    bool   `json:"hasEmail"`
	Email       string `json:"email,omitempty"`
}

// AuthStatus is the TestAuth payload.
type AuthStatus struct {
	Authenticated bool      `json:"authenticated"`
	Timestamp     time.Time `json:"timestamp"`
	SessionID     string    `json:"sessionId"`
	User          *AuthUser `json:"user"`
}

// TestAuth godoc
// @ID          testAuth
// @Summary     Authentication status
// @Description Reports whether the caller has a login session. Never requires authentication.
// @Tags        Auth
// @Produce     json
// @Success     200  {object}  handlers.AuthStatus
// @Router      /test-auth [get]
func TestAuth(c *gin.Context) {
	resp := AuthStatus{Timestamp: time.Now().UTC()}
	if s, found := middleware.SessionFrom(c); found {
		id := s.Identity
		resp.Authenticated = true
		resp.SessionID = s.ID
		resp.User = &AuthUser{
			ID:          id.ID,
			Username:    id.Username,
			DisplayName: id.DisplayName,
			ProfileURL:  id.ProfileURL,
			HasEmail:    len(id.Emails) > 0,
			Email:       id.PrimaryEmail(),
		}
	}
	ok(c, http.StatusOK, resp)
}
