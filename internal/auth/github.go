package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

const githubProviderName = "github"

// GitHubOptions configures NewGitHub.
type GitHubOptions struct {
	ClientID     string
	ClientSecret string
	CallbackURL  string

	// Endpoint and APIBaseURL default to github.com.
	Endpoint   oauth2.Endpoint
	APIBaseURL string

	// HTTPClient is used for token exchange and API calls.
	HTTPClient *http.Client
}

// GitHub is the GitHub OAuth provider. It requests the user:email scope.
type GitHub struct {
	cfg     *oauth2.Config
	apiBase string
	hc      *http.Client
}

// NewGitHub validates opts and returns a GitHub provider.
func NewGitHub(opts GitHubOptions) (*GitHub, error) {
	if opts.ClientID == "" || opts.ClientSecret == "" || opts.CallbackURL == "" {
		return nil, errors.New("github oauth config missing required fields")
	}
	if opts.Endpoint.AuthURL == "" {
		opts.Endpoint = github.Endpoint
	}
	if opts.APIBaseURL == "" {
		opts.APIBaseURL = "https://api.github.com"
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &GitHub{
		cfg: &oauth2.Config{
			ClientID:     opts.ClientID,
			ClientSecret: opts.ClientSecret,
			RedirectURL:  opts.CallbackURL,
			Endpoint:     opts.Endpoint,
			Scopes:       []string{"user:email"},
		},
		apiBase: strings.TrimRight(opts.APIBaseURL, "/"),
		hc:      opts.HTTPClient,
	}, nil
}

// Name returns the provider identifier.
func (g *GitHub) Name() string { return githubProviderName }

// AuthCodeURL builds the authorization URL.
func (g *GitHub) AuthCodeURL(state string) string {
	return g.cfg.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

type githubUser struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	HTMLURL   string `json:"html_url"`
	AvatarURL string `json:"avatar_url"`
	Email     string `json:"email"`
}

type githubEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

// Exchange trades code for a token and loads the user and their emails.
// A failing email lookup is not fatal; the public profile email is used.
func (g *GitHub) Exchange(ctx context.Context, code string) (*Profile, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, g.hc)

	tok, err := g.cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("github token exchange failed: %w", err)
	}
	client := g.cfg.Client(ctx, tok)

	var body json.RawMessage
	if err := g.getJSON(ctx, client, "/user", &body); err != nil {
		return nil, err
	}
	var u githubUser
	var raw map[string]any
	if err := json.Unmarshal(body, &u); err != nil {
		return nil, fmt.Errorf("github /user: decode: %w", err)
	}
	_ = json.Unmarshal(body, &raw)

	p := &Profile{
		Username:    u.Login,
		DisplayName: u.Name,
		ProfileURL:  u.HTMLURL,
		Raw:         raw,
	}
	if u.ID != 0 {
		p.ID = strconv.FormatInt(u.ID, 10)
	}
	if u.AvatarURL != "" {
		p.Photos = []string{u.AvatarURL}
	}

	var emails []githubEmail
	if err := g.getJSON(ctx, client, "/user/emails", &emails); err == nil {
		p.Emails = orderEmails(emails)
	}
	if len(p.Emails) == 0 && u.Email != "" {
		p.Emails = []string{u.Email}
	}
	return p, nil
}

func (g *GitHub) getJSON(ctx context.Context, client *http.Client, path string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.apiBase+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("github %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("github %s: unexpected status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("github %s: decode: %w", path, err)
	}
	return nil
}

// orderEmails puts the primary address first and drops unverified ones.
func orderEmails(in []githubEmail) []string {
	out := make([]string, 0, len(in))
	for _, e := range in {
		if e.Primary && e.Verified {
			out = append(out, e.Email)
		}
	}
	for _, e := range in {
		if !e.Primary && e.Verified {
			out = append(out, e.Email)
		}
	}
	return out
}

var _ Provider = (*GitHub)(nil)
