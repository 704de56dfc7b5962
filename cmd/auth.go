package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/JavierDomi/spotify-explorer/internal/server"
	"github.com/JavierDomi/spotify-explorer/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

const authTimeout = 2 * time.Minute

// AuthLogin performs the OAuth2 authorization code flow for Spotify.
//
// Starts a local HTTP server, opens the browser for user authorization and exchanges the code for tokens.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	if r.tokens == nil {
		if err := r.connect(); err != nil {
			return err
		}
	}

	token, err := r.doOAuth(ctx, "authorization")
	if err != nil {
		return err
	}

	if err := r.saveTokens(token); err != nil {
		return err
	}

	r.writePlainln("✓ Authorization successful")
	if r.configPath != "" {
		r.writePlain("✓ Tokens saved to %s\n", r.configPath)
	}

	if user, err := r.spotify.UserProfile(ctx); err == nil {
		r.writePlain("Signed in as %s (%s)\n", user.DisplayName, user.ID)
	} else {
		r.logger.Warn("failed to load profile", "error", err)
	}

	r.writePlain("\nYou can now use: spex mix generate --genre rock\n")
	return nil
}

// AuthStatus reports whether a token is stored and still usable.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	if r.tokens == nil {
		return r.writePlain("✗ Spotify client not configured (set client_id and client_secret)\n")
	}

	token, err := r.tokens.Token()
	switch {
	case errors.Is(err, shared.ErrNotAuthenticated):
		return r.writePlain("✗ Not signed in. Run 'spex auth login'\n")
	case err != nil:
		r.writePlain("✗ Stored token is no longer valid: %v\n", err)
		return r.writePlain("Run 'spex auth login' to sign in again\n")
	}

	r.writePlain("✓ Signed in\n")
	if !token.Expiry.IsZero() {
		r.writePlain("Token expires: %s\n", token.Expiry.Local().Format(time.RFC1123))
	}

	user, err := r.spotify.UserProfile(ctx)
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}
	r.writePlain("User: %s (%s)\n", user.DisplayName, user.ID)
	if user.Product != "" {
		r.writePlain("Plan: %s\n", user.Product)
	}
	return nil
}

// AuthLogout forgets the stored tokens.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	r.config.Credentials.Spotify.ClearTokens()
	if r.tokens != nil {
		r.tokens.Clear()
	}

	if r.configPath != "" {
		if err := shared.SaveConfig(r.configPath, r.config); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
	}

	return r.writePlain("✓ Signed out\n")
}

// doOAuth executes the OAuth2 authorization flow with a local HTTP server
func (r *Runner) doOAuth(ctx context.Context, prefix string) (*oauth2.Token, error) {
	state, err := shared.GenerateState()
	if err != nil {
		return nil, fmt.Errorf("failed to generate state token: %w", err)
	}

	authURL := r.tokens.AuthURL(state)
	oauthHandler := server.NewOAuthHandler(r.tokens, state, callbackPath(r.config.Credentials.Spotify.RedirectURI))

	router := server.NewBasicRouter()
	router.Use(server.Recover(r.logger), server.Logging(r.logger))
	router.Handler(oauthHandler)

	addr := net.JoinHostPort(r.config.Server.Host, strconv.Itoa(r.config.Server.Port))
	srv, err := server.Start(addr, router)
	if err != nil {
		return nil, fmt.Errorf("failed to start callback server: %w", err)
	}
	defer func() {
		if err := srv.Shutdown(5 * time.Second); err != nil {
			r.logger.Warn("error shutting down server", "error", err)
		}
	}()

	r.logger.Info("started OAuth callback server", "flow", prefix, "addr", srv.Addr(), "routes", router.Routes())

	r.writePlain("→ Opening browser for Spotify %s...\n", prefix)
	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warnf("failed to open browser automatically %v", err)
		r.writePlainln("⚠ Could not open browser automatically.")
		r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
	}

	r.writePlain("→ Waiting for authorization (2 minute timeout)...\n")

	timeout := time.NewTimer(authTimeout)
	defer timeout.Stop()

	var result server.OAuthResult
	select {
	case result = <-oauthHandler.Result():
	case err := <-srv.Errors():
		return nil, fmt.Errorf("server error: %w", err)
	case <-timeout.C:
		return nil, fmt.Errorf("%w: authorization timed out after 2 minutes", shared.ErrTimeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if err := result.Error(); err != nil {
		return nil, fmt.Errorf("authorization failed: %w", err)
	}
	if result.Token == nil {
		return nil, fmt.Errorf("%w: no token received", shared.ErrAuthFailed)
	}

	return result.Token, nil
}

// withReauth runs fn and, when the stored token has expired or cannot be refreshed,
// signs in again and retries once.
func (r *Runner) withReauth(ctx context.Context, fn func() error) error {
	err := fn()
	if err == nil {
		return nil
	}

	if errors.Is(err, shared.ErrNotAuthenticated) {
		return fmt.Errorf("%w: run 'spex auth login' first", err)
	}
	if !errors.Is(err, shared.ErrTokenExpired) && !errors.Is(err, shared.ErrRefreshFailed) {
		return err
	}
	if r.tokens == nil {
		return err
	}

	r.writePlainln("⚠ Authentication token expired. Starting reauthorization...")

	token, authErr := r.doOAuth(ctx, "reauthorization")
	if authErr != nil {
		return fmt.Errorf("reauthorization failed: %w", authErr)
	}
	if err := r.saveTokens(token); err != nil {
		return err
	}

	r.writePlain("✓ Successfully reauthenticated. Retrying operation...\n\n")
	return fn()
}

// callbackPath extracts the path the provider redirects to, defaulting to /callback.
func callbackPath(redirectURI string) string {
	u, err := url.Parse(redirectURI)
	if err != nil || u.Path == "" || u.Path == "/" {
		return "/callback"
	}
	return u.Path
}
