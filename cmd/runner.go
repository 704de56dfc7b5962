package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"

	"github.com/JavierDomi/spotify-explorer/internal/repositories"
	"github.com/JavierDomi/spotify-explorer/internal/services"
	"github.com/JavierDomi/spotify-explorer/internal/shared"
	"github.com/JavierDomi/spotify-explorer/internal/tasks"
	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	spotify    services.Service
	tokens     *services.TokenProvider
	engine     *tasks.MixEngine
	logger     *log.Logger
	output     io.Writer

	// favorites are opened on first use so commands that never touch them do not need a database.
	db        *sql.DB
	favorites *repositories.FavoriteRepository

	mu sync.Mutex
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Spotify    services.Service
	Tokens     *services.TokenProvider
	Favorites  *repositories.FavoriteRepository
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	r := &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		tokens:     opts.Tokens,
		favorites:  opts.Favorites,
		logger:     opts.Logger,
		output:     opts.Output,
	}
	r.setService(opts.Spotify)
	return r
}

// connect builds the token provider and catalog client from the current config.
// Refreshed tokens are written back to the config file.
func (r *Runner) connect() error {
	spotifyConf := r.config.Credentials.Spotify
	if !spotifyConf.HasClient() {
		return fmt.Errorf("%w: spotify client_id and client_secret must be set", shared.ErrMissingCredentials)
	}

	tokens := services.NewTokenProvider(services.NewOAuthConfig(spotifyConf), spotifyConf.Token(), func(token *oauth2.Token) {
		if err := r.saveTokens(token); err != nil {
			r.logger.Warn("failed to persist refreshed token", "error", err)
		}
	})

	var client *http.Client
	if timeout := r.config.API.Timeout(); timeout > 0 {
		client = &http.Client{Timeout: timeout}
	}

	svc, err := services.NewSpotifyService(services.SpotifyOpts{
		BaseURL:     r.config.API.BaseURL,
		HTTPClient:  client,
		Credentials: tokens,
		Market:      r.config.API.Market,
		RateLimit:   r.config.API.RateLimit,
		Burst:       r.config.API.Burst,
		Concurrency: r.config.Mixer.Concurrency,
		Logger:      shared.WithLogger(r.logger, "service", "spotify"),
	})
	if err != nil {
		return fmt.Errorf("failed to create Spotify service: %w", err)
	}

	r.tokens = tokens
	r.setService(svc)
	return nil
}

// setService swaps the catalog client and rebuilds the engine over it.
func (r *Runner) setService(svc services.Service) {
	r.spotify = svc

	var backend tasks.Backend
	if svc != nil {
		backend = svc
	}
	r.engine = tasks.NewMixEngine(backend, tasks.MixOpts{
		Concurrency: r.config.Mixer.Concurrency,
		MaxTracks:   r.config.Mixer.MaxTracks,
		GenreLimit:  r.config.Mixer.GenreLimit,
		Logger:      shared.WithLogger(r.logger, "component", "mixer"),
	})
}

// SetLogger replaces the logger, used when the TUI takes over the terminal.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// saveTokens stores token in the config and writes it to the config file when one is known.
func (r *Runner) saveTokens(token *oauth2.Token) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.config == nil {
		return fmt.Errorf("%w: config is nil", shared.ErrInvalidInput)
	}

	if err := r.config.Credentials.Spotify.Update(token); err != nil {
		return fmt.Errorf("failed to update spotify configuration: %w", err)
	}

	if r.configPath == "" {
		return nil
	}

	if err := shared.SaveConfig(r.configPath, r.config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

// favoriteStore opens the favorites database on first use.
func (r *Runner) favoriteStore() (*repositories.FavoriteRepository, error) {
	if r.favorites != nil {
		return r.favorites, nil
	}

	db, err := shared.OpenDatabase(r.config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open favorites database: %w", err)
	}

	r.db = db
	r.favorites = repositories.NewFavoriteRepository(db)
	return r.favorites, nil
}

// Close releases the database, if one was opened.
func (r *Runner) Close() error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	r.favorites = nil
	return err
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, mixCommand, favoritesCommand, libraryCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}

func (r *Runner) requireSpotify() error {
	if r.spotify == nil {
		return fmt.Errorf("%w: Spotify service not initialized (set client_id and client_secret, then run 'spex auth login')", shared.ErrServiceUnavailable)
	}
	return nil
}
