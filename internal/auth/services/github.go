package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go-mouli/pkg/config"
	"go-mouli/pkg/database"
)

const (
	GitHubAuthURL  = "https://github.com/login/oauth/authorize"
	GitHubTokenURL = "https://github.com/login/oauth/access_token"
	GitHubUserURL  = "https://api.github.com/user"

	stateTTL = 15 * time.Minute
)

type GitHubTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Scope       string `json:"scope"`
}

type GitHubUser struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// GitHubOAuth drives the GitHub login flow. State nonces live in Redis
// with a TTL so the flow survives process restarts and multiple
// instances.
type GitHubOAuth struct {
	clientID     string
	clientSecret string
	redirectURI  string
	states       *database.Redis
	httpClient   *http.Client
}

func NewGitHubOAuth(redis *database.Redis) *GitHubOAuth {
	return &GitHubOAuth{
		clientID:     config.GetGitHubClientID(),
		clientSecret: config.GetGitHubClientSecret(),
		redirectURI:  config.GetGitHubRedirectURI(),
		states:       redis,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
	}
}

// GenerateAuthURL creates the GitHub authorization URL with a fresh
// state nonce.
func (h *GitHubOAuth) GenerateAuthURL(ctx context.Context) (string, string, error) {
	state, err := generateState()
	if err != nil {
		return "", "", fmt.Errorf("failed to generate state: %w", err)
	}

	if err := h.states.Set(ctx, stateKey(state), "1", stateTTL); err != nil {
		return "", "", fmt.Errorf("failed to store oauth state: %w", err)
	}

	params := url.Values{
		"client_id":    {h.clientID},
		"redirect_uri": {h.redirectURI},
		"scope":        {"read:user user:email"},
		"state":        {state},
	}
	return fmt.Sprintf("%s?%s", GitHubAuthURL, params.Encode()), state, nil
}

// ConsumeState validates a callback state nonce and removes it so it
// cannot be replayed.
func (h *GitHubOAuth) ConsumeState(ctx context.Context, state string) bool {
	if state == "" {
		return false
	}
	if _, err := h.states.Get(ctx, stateKey(state)); err != nil {
		return false
	}
	_ = h.states.Delete(ctx, stateKey(state))
	return true
}

// ExchangeCode exchanges the authorization code for a GitHub access token.
func (h *GitHubOAuth) ExchangeCode(ctx context.Context, code string) (*GitHubTokenResponse, error) {
	data := url.Values{
		"client_id":     {h.clientID},
		"client_secret": {h.clientSecret},
		"code":          {code},
		"redirect_uri":  {h.redirectURI},
	}

	req, err := http.NewRequestWithContext(ctx, "POST", GitHubTokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code for token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("token exchange failed with status %d: %s", resp.StatusCode, string(body))
	}

	var tokenResp GitHubTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return nil, fmt.Errorf("failed to decode token response: %w", err)
	}
	if tokenResp.AccessToken == "" {
		return nil, errors.New("token exchange returned no access token")
	}
	return &tokenResp, nil
}

// FetchUser loads the authenticated GitHub user's profile.
func (h *GitHubOAuth) FetchUser(ctx context.Context, accessToken string) (*GitHubUser, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", GitHubUserURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create user request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch GitHub user: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("user fetch failed with status %d: %s", resp.StatusCode, string(body))
	}

	var user GitHubUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to decode GitHub user: %w", err)
	}
	return &user, nil
}

func stateKey(state string) string {
	return "oauth:state:" + state
}

func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
