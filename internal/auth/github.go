package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

const githubAPIURL = "https://api.github.com"

// ErrNoVerifiedEmail is returned when the provider account has no usable email.
var ErrNoVerifiedEmail = errors.New("no verified primary email on provider account")

// Identity is what a sign-in provider tells us about the user.
type Identity struct {
	Email string
	Name  string
}

// Provider is an external OAuth sign-in provider.
type Provider interface {
	Name() string
	AuthCodeURL(state string) string
	Identify(ctx context.Context, code string) (Identity, error)
}

// GitHubProvider signs users in with GitHub OAuth.
type GitHubProvider struct {
	conf   *oauth2.Config
	apiURL string
}

// NewGitHubProvider returns a provider for the given OAuth app credentials.
func NewGitHubProvider(clientID, clientSecret, redirectURL string) *GitHubProvider {
	return &GitHubProvider{
		conf: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"read:user", "user:email"},
			Endpoint:     github.Endpoint,
		},
		apiURL: githubAPIURL,
	}
}

// WithEndpoints points the provider at different OAuth and API hosts (GitHub Enterprise, tests).
func (p *GitHubProvider) WithEndpoints(endpoint oauth2.Endpoint, apiURL string) *GitHubProvider {
	cp := *p.conf
	cp.Endpoint = endpoint
	return &GitHubProvider{conf: &cp, apiURL: strings.TrimRight(apiURL, "/")}
}

func (p *GitHubProvider) Name() string { return "github" }

func (p *GitHubProvider) AuthCodeURL(state string) string {
	return p.conf.AuthCodeURL(state)
}

// Identify exchanges the code and reads the account's primary verified email.
func (p *GitHubProvider) Identify(ctx context.Context, code string) (Identity, error) {
	tok, err := p.conf.Exchange(ctx, code)
	if err != nil {
		return Identity{}, fmt.Errorf("github exchange: %w", err)
	}
	hc := p.conf.Client(ctx, tok)

	var emails []struct {
		Email    string `json:"email"`
		Primary  bool   `json:"primary"`
		Verified bool   `json:"verified"`
	}
	if err := p.getJSON(ctx, hc, "/user/emails", &emails); err != nil {
		return Identity{}, err
	}
	var id Identity
	for _, e := range emails {
		if e.Primary && e.Verified {
			id.Email = e.Email
			break
		}
	}
	if id.Email == "" {
		return Identity{}, ErrNoVerifiedEmail
	}

	var profile struct {
		Login string `json:"login"`
		Name  string `json:"name"`
	}
	if err := p.getJSON(ctx, hc, "/user", &profile); err != nil {
		return Identity{}, err
	}
	id.Name = profile.Name
	if id.Name == "" {
		id.Name = profile.Login
	}
	return id, nil
}

func (p *GitHubProvider) getJSON(ctx context.Context, hc *http.Client, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.apiURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("github %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("github %s: status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("github %s: decode: %w", path, err)
	}
	return nil
}
