package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/JavierDomi/spotify-explorer/internal/shared"
	"golang.org/x/oauth2"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
)

// Scopes requested during login. Reading the library and writing private playlists
// are both needed by the mixer.
var Scopes = []string{
	"user-read-private",
	"user-read-email",
	"user-top-read",
	"user-read-recently-played",
	"user-library-read",
	"playlist-read-private",
	"playlist-read-collaborative",
	"playlist-modify-private",
	"playlist-modify-public",
}

// CredentialProvider hands out a currently valid bearer credential.
//
// Implementations return [shared.ErrNotAuthenticated] when no credential exists,
// before any network call is made.
type CredentialProvider interface {
	ValidCredential(ctx context.Context) (string, error)
}

// StaticCredential is a fixed access token, used by tests and by callers that
// manage token lifetime themselves.
type StaticCredential string

func (c StaticCredential) ValidCredential(context.Context) (string, error) {
	if c == "" {
		return "", shared.ErrNotAuthenticated
	}
	return string(c), nil
}

// NewOAuthConfig builds the authorization-code configuration for the Spotify accounts service.
func NewOAuthConfig(cfg shared.SpotifyConfig) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURI,
		Scopes:       Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  spotifyAuthURL,
			TokenURL: spotifyTokenURL,
		},
	}
}

// TokenProvider is a [CredentialProvider] backed by a stored OAuth2 token that
// refreshes itself when it expires. onRefresh receives every new token so it can be persisted.
type TokenProvider struct {
	mu        sync.Mutex
	config    *oauth2.Config
	source    oauth2.TokenSource
	onRefresh func(*oauth2.Token)
}

// NewTokenProvider wraps token with automatic refresh. A nil token yields a provider
// that reports [shared.ErrNotAuthenticated] until [TokenProvider.SetToken] is called.
func NewTokenProvider(config *oauth2.Config, token *oauth2.Token, onRefresh func(*oauth2.Token)) *TokenProvider {
	p := &TokenProvider{config: config, onRefresh: onRefresh}
	p.SetToken(token)
	return p
}

// AuthURL returns the consent page URL for state.
func (p *TokenProvider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// Exchange trades an authorization code for a token and starts using it.
func (p *TokenProvider) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to exchange auth code: %v", shared.ErrAuthFailed, err)
	}
	p.SetToken(token)
	return token, nil
}

// SetToken replaces the current token. Passing nil signs out.
func (p *TokenProvider) SetToken(token *oauth2.Token) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if token == nil || (token.AccessToken == "" && token.RefreshToken == "") {
		p.source = nil
		return
	}

	base := oauth2.ReuseTokenSource(token, p.config.TokenSource(context.Background(), token))
	p.source = &refreshableTokenSource{
		source:   base,
		callback: p.onRefresh,
		last:     token.AccessToken,
	}
}

// Clear drops the current token.
func (p *TokenProvider) Clear() {
	p.SetToken(nil)
}

// Token returns the current token, refreshing it if needed.
func (p *TokenProvider) Token() (*oauth2.Token, error) {
	p.mu.Lock()
	source := p.source
	p.mu.Unlock()

	if source == nil {
		return nil, shared.ErrNotAuthenticated
	}

	token, err := source.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrRefreshFailed, err)
	}
	return token, nil
}

func (p *TokenProvider) ValidCredential(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	token, err := p.Token()
	if err != nil {
		return "", err
	}
	if token.AccessToken == "" {
		return "", shared.ErrNotAuthenticated
	}
	return token.AccessToken, nil
}

// refreshableTokenSource reports new tokens to callback as the wrapped source refreshes them.
type refreshableTokenSource struct {
	mu       sync.Mutex
	source   oauth2.TokenSource
	callback func(*oauth2.Token)
	last     string
}

func (r *refreshableTokenSource) Token() (*oauth2.Token, error) {
	token, err := r.source.Token()
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	changed := token.AccessToken != r.last
	r.last = token.AccessToken
	r.mu.Unlock()

	if changed && r.callback != nil {
		r.callback(token)
	}
	return token, nil
}
