package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "./spex.db" {
			t.Errorf("expected database path ./spex.db, got %s", config.Database.Path)
		}

		if config.Server.Port != 3000 {
			t.Errorf("expected server port 3000, got %d", config.Server.Port)
		}

		if config.API.BaseURL != "https://api.spotify.com/v1" {
			t.Errorf("expected spotify base url, got %s", config.API.BaseURL)
		}

		if config.Mixer.MaxTracks != MaxMixSize {
			t.Errorf("expected max tracks %d, got %d", MaxMixSize, config.Mixer.MaxTracks)
		}

		if config.Mixer.GenreLimit != 20 {
			t.Errorf("expected genre limit 20, got %d", config.Mixer.GenreLimit)
		}

		if config.Credentials.Spotify.ClientID != "your_spotify_client_id" {
			t.Errorf("expected spotify client_id your_spotify_client_id, got %s", config.Credentials.Spotify.ClientID)
		}

		if config.Credentials.Spotify.Token() != nil {
			t.Error("default config should not carry a token")
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		if config.Database.Path != DefaultConfig().Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")

		testConfig := `[database]
path = "/custom/path.db"

[server]
host = "0.0.0.0"
port = 8080

[mixer]
max_tracks = 500

[credentials.spotify]
client_id = "test_client_id"
client_secret = "test_secret"
redirect_uri = "http://localhost:3000/callback"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}
		if config.Server.Port != 8080 {
			t.Errorf("expected server port 8080, got %d", config.Server.Port)
		}
		if config.Credentials.Spotify.ClientID != "test_client_id" {
			t.Errorf("expected spotify client_id test_client_id, got %s", config.Credentials.Spotify.ClientID)
		}
		if config.API.Market != "US" {
			t.Errorf("missing sections should keep defaults, got market %q", config.API.Market)
		}
		if config.Mixer.MaxTracks != MaxMixSize {
			t.Errorf("max tracks should be capped at %d, got %d", MaxMixSize, config.Mixer.MaxTracks)
		}
	})

	t.Run("LoadConfig missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
		if !errors.Is(err, ErrMissingConfig) {
			t.Errorf("expected ErrMissingConfig, got %v", err)
		}

		config, err := LoadConfigOrDefault(filepath.Join(t.TempDir(), "nope.toml"))
		if err != nil || config == nil {
			t.Fatalf("expected defaults, got %v", err)
		}
	})

	t.Run("LoadConfig invalid toml", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		os.WriteFile(configPath, []byte("[database\npath="), 0644)

		if _, err := LoadConfig(configPath); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("SaveConfig round trip", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		config := DefaultConfig()
		expiry := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
		config.Credentials.Spotify.Update(&oauth2.Token{
			AccessToken:  "access",
			RefreshToken: "refresh",
			TokenType:    "Bearer",
			Expiry:       expiry,
		})

		if err := SaveConfig(configPath, config); err != nil {
			t.Fatalf("failed to save config: %v", err)
		}

		loaded, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to reload config: %v", err)
		}

		token := loaded.Credentials.Spotify.Token()
		if token == nil || token.AccessToken != "access" || token.RefreshToken != "refresh" {
			t.Fatalf("expected stored token, got %+v", token)
		}
		if !token.Expiry.Equal(expiry) {
			t.Errorf("expected expiry %v, got %v", expiry, token.Expiry)
		}
	})

	t.Run("SaveConfig nil", func(t *testing.T) {
		if err := SaveConfig(filepath.Join(t.TempDir(), "c.toml"), nil); err == nil {
			t.Error("expected error for nil config")
		}
	})

	t.Run("ApplyEnv", func(t *testing.T) {
		t.Setenv("SPOTIFY_CLIENT_ID", "env_id")
		t.Setenv("SPOTIFY_CLIENT_SECRET", "  env_secret ")
		t.Setenv("SPEX_DB_PATH", "")

		config := DefaultConfig()
		config.ApplyEnv()

		if config.Credentials.Spotify.ClientID != "env_id" {
			t.Errorf("expected env client id, got %s", config.Credentials.Spotify.ClientID)
		}
		if config.Credentials.Spotify.ClientSecret != "env_secret" {
			t.Errorf("expected trimmed env secret, got %q", config.Credentials.Spotify.ClientSecret)
		}
		if config.Database.Path != "./spex.db" {
			t.Errorf("empty env value should not override, got %s", config.Database.Path)
		}
	})

	t.Run("LoadEnv", func(t *testing.T) {
		envPath := filepath.Join(t.TempDir(), ".env")
		os.WriteFile(envPath, []byte("SPEX_TEST_LOAD_ENV=from_file\n"), 0644)
		t.Cleanup(func() { os.Unsetenv("SPEX_TEST_LOAD_ENV") })

		if err := LoadEnv(filepath.Join(t.TempDir(), "missing.env"), envPath); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got := os.Getenv("SPEX_TEST_LOAD_ENV"); got != "from_file" {
			t.Errorf("expected value from dotenv file, got %q", got)
		}
	})
}

func TestSpotifyConfig(t *testing.T) {
	t.Run("Update keeps refresh token when omitted", func(t *testing.T) {
		s := SpotifyConfig{RefreshToken: "old_refresh"}
		if err := s.Update(&oauth2.Token{AccessToken: "new"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if s.RefreshToken != "old_refresh" {
			t.Errorf("expected refresh token to be kept, got %s", s.RefreshToken)
		}
		if s.AccessToken != "new" {
			t.Errorf("expected access token new, got %s", s.AccessToken)
		}
	})

	t.Run("Update rejects nil", func(t *testing.T) {
		var s SpotifyConfig
		if err := s.Update(nil); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("ClearTokens", func(t *testing.T) {
		s := SpotifyConfig{ClientID: "id", AccessToken: "a", RefreshToken: "r"}
		s.ClearTokens()
		if s.Token() != nil {
			t.Error("expected no token after clear")
		}
		if s.ClientID != "id" {
			t.Error("client id should survive clearing tokens")
		}
	})
}
