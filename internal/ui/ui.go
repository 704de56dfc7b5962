package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/JavierDomi/spotify-explorer/internal/formatter"
	"github.com/JavierDomi/spotify-explorer/internal/models"
	"github.com/JavierDomi/spotify-explorer/internal/tasks"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	MixView ViewState = iota
	StatsView
)

const defaultSaveName = "spex mix"

// FavoriteStore persists favorites between sessions.
type FavoriteStore interface {
	Toggle(track models.Track) (added bool, err error)
	Tracks() ([]models.Track, error)
}

// Options configures optional [Model] behavior.
type Options struct {
	Favorites       FavoriteStore // nil disables the favorite key
	SaveName        string
	SaveDescription string
}

// Model represents the TUI application state.
type Model struct {
	ctx       context.Context
	view      ViewState
	mixer     tasks.Mixer
	favorites FavoriteStore
	prefs     models.Preferences
	opts      Options
	width     int
	height    int
	mixList   list.Model
	mix       []models.Track
	stats     *models.StatsBundle
	progress  tasks.ProgressUpdate
	status    string
	err       error
	loading   bool
	analyzing bool
	saving    bool
	help      help.Model
	keys      keyMap

	// Latest generation. Messages carrying another seq are stale.
	seq          int
	runCtx       context.Context
	cancel       context.CancelFunc
	progressChan chan tasks.ProgressUpdate
}

// NewModel creates a new TUI model that mixes prefs with mixer.
func NewModel(ctx context.Context, mixer tasks.Mixer, prefs models.Preferences, opts Options) *Model {
	if opts.SaveName == "" {
		opts.SaveName = defaultSaveName
	}

	mixList := list.New(nil, trackDelegate(), 0, 0)
	mixList.Styles.Title = mixList.Styles.Title.Background(spotifyGreen)
	mixList.Title = "Mix"
	mixList.SetShowHelp(false)

	return &Model{
		ctx:       ctx,
		view:      MixView,
		mixer:     mixer,
		favorites: opts.Favorites,
		prefs:     prefs,
		opts:      opts,
		mixList:   mixList,
		help:      help.New(),
		keys:      newKeyMap(),
	}
}

// Init generates the first mix.
func (m *Model) Init() tea.Cmd {
	return m.regenerate()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.mixList.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case MixView:
			return m.handleMixKeys(msg)
		case StatsView:
			return m.handleStatsKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	var cmd tea.Cmd
	m.mixList, cmd = m.mixList.Update(msg)
	return m, cmd
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgProgressUpdate:
		if msg.seq != m.seq {
			return m, nil
		}
		m.progress = msg.data.(tasks.ProgressUpdate)
		return m, waitForProgress(m.seq, m.progressChan)

	case MsgMixGenerated:
		if msg.seq != m.seq {
			return m, nil
		}
		res := msg.data.(mixResult)
		m.loading = false
		m.progressChan = nil
		if res.err != nil {
			m.err = res.err
			return m, nil
		}

		m.mix = res.mix
		m.mixList.SetItems(trackItems(m.mix, m.prefs.Favorites))
		m.mixList.Title = fmt.Sprintf("Mix • %d tracks", len(m.mix))
		if len(m.mix) == 0 {
			m.status = "No tracks matched your selections"
			return m, nil
		}
		m.status = ""
		m.analyzing = true
		return m, m.analyze(m.runCtx, msg.seq, m.mix)

	case MsgStatsReady:
		if msg.seq != m.seq {
			return m, nil
		}
		res := msg.data.(statsResult)
		m.analyzing = false
		if res.err != nil {
			m.status = fmt.Sprintf("Statistics failed: %v", res.err)
			return m, nil
		}
		m.stats = res.stats
		return m, nil

	case MsgPlaylistSaved:
		res := msg.data.(saveResult)
		m.saving = false
		if res.err != nil {
			m.status = fmt.Sprintf("Save failed: %v", res.err)
		} else {
			m.status = fmt.Sprintf("✓ Saved %q (%d tracks)", res.playlist.Name, res.playlist.TrackCount)
		}
		return m, nil

	case MsgFavoriteToggled:
		res := msg.data.(favoriteResult)
		if res.err != nil {
			m.status = fmt.Sprintf("Favorite failed: %v", res.err)
			return m, nil
		}
		m.prefs.Favorites = res.favorites
		m.mixList.SetItems(trackItems(m.mix, m.prefs.Favorites))
		if res.added {
			m.status = fmt.Sprintf("★ Added %s to favorites", res.track.Name)
		} else {
			m.status = fmt.Sprintf("Removed %s from favorites", res.track.Name)
		}
		return m, nil
	}

	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n" + m.help.ShortHelpView([]key.Binding{m.keys.regenerate, m.keys.quit})
	}

	switch m.view {
	case StatsView:
		return m.renderStats()
	default:
		return m.renderMix()
	}
}

func (m *Model) handleMixKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.mixList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.mixList, cmd = m.mixList.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		m.stop()
		return m, tea.Quit
	case key.Matches(msg, m.keys.regenerate):
		return m, m.regenerate()
	case key.Matches(msg, m.keys.stats):
		m.view = StatsView
		return m, nil
	case key.Matches(msg, m.keys.save):
		return m, m.save()
	case key.Matches(msg, m.keys.favorite):
		return m, m.toggleFavorite()
	}

	var cmd tea.Cmd
	m.mixList, cmd = m.mixList.Update(msg)
	return m, cmd
}

func (m *Model) handleStatsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		m.stop()
		return m, tea.Quit
	case key.Matches(msg, m.keys.back), key.Matches(msg, m.keys.stats):
		m.view = MixView
	case key.Matches(msg, m.keys.regenerate):
		return m, m.regenerate()
	case key.Matches(msg, m.keys.save):
		return m, m.save()
	}
	return m, nil
}

// regenerate starts a new generation, superseding any in flight.
func (m *Model) regenerate() tea.Cmd {
	m.stop()

	m.seq++
	seq := m.seq
	m.runCtx, m.cancel = context.WithCancel(m.ctx)
	m.progressChan = make(chan tasks.ProgressUpdate, 16)
	m.loading = true
	m.analyzing = false
	m.stats = nil
	m.err = nil
	m.status = ""
	m.progress = tasks.ProgressUpdate{}

	ctx, mixer, prefs, progress := m.runCtx, m.mixer, m.prefs, m.progressChan
	generate := func() tea.Msg {
		defer close(progress)
		mix, err := mixer.Generate(ctx, prefs, progress)
		return mixGeneratedMsg(seq, mix, err)
	}

	return tea.Batch(generate, waitForProgress(seq, progress))
}

// stop cancels the current generation, if any.
func (m *Model) stop() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

func (m *Model) analyze(ctx context.Context, seq int, mix []models.Track) tea.Cmd {
	mixer := m.mixer
	return func() tea.Msg {
		stats, err := mixer.Analyze(ctx, mix, nil)
		return statsReadyMsg(seq, stats, err)
	}
}

func (m *Model) save() tea.Cmd {
	if m.saving {
		return nil
	}
	if m.loading || len(m.mix) == 0 {
		m.status = "Nothing to save yet"
		return nil
	}

	m.saving = true
	m.status = "Saving playlist..."

	ctx, mixer, mix := m.ctx, m.mixer, m.mix
	name, desc := m.opts.SaveName, m.opts.SaveDescription
	return func() tea.Msg {
		pl, err := mixer.Save(ctx, name, desc, mix, nil)
		return playlistSavedMsg(pl, err)
	}
}

func (m *Model) toggleFavorite() tea.Cmd {
	if m.favorites == nil {
		m.status = "Favorites are not available"
		return nil
	}

	item, ok := m.mixList.SelectedItem().(trackItem)
	if !ok {
		return nil
	}

	store := m.favorites
	track := item.track
	return func() tea.Msg {
		added, err := store.Toggle(track)
		if err != nil {
			return favoriteToggledMsg(favoriteResult{track: track, err: err})
		}
		favorites, err := store.Tracks()
		return favoriteToggledMsg(favoriteResult{track: track, added: added, favorites: favorites, err: err})
	}
}

func waitForProgress(seq int, ch <-chan tasks.ProgressUpdate) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		update, ok := <-ch
		if !ok {
			return nil
		}
		return progressUpdateMsg(seq, update)
	}
}

func (m *Model) renderMix() string {
	var b strings.Builder

	if m.loading && len(m.mix) == 0 {
		b.WriteString(styles.title.Render("Generating mix"))
		b.WriteString("\n")
		if m.progress.Message != "" {
			b.WriteString(m.progress.Message)
		} else {
			b.WriteString("Fetching tracks...")
		}
	} else {
		b.WriteString(m.mixList.View())
	}

	if m.loading && len(m.mix) > 0 {
		b.WriteString("\n" + styles.warn.Render("Regenerating... "+m.progress.Message))
	}
	if m.status != "" {
		b.WriteString("\n" + m.statusLine())
	}

	keys := []key.Binding{m.keys.regenerate, m.keys.stats, m.keys.save}
	if m.favorites != nil {
		keys = append(keys, m.keys.favorite)
	}
	keys = append(keys, m.keys.quit)
	b.WriteString("\n\n" + m.help.ShortHelpView(keys))
	return b.String()
}

func (m *Model) renderStats() string {
	var b strings.Builder
	b.WriteString(styles.title.Render(fmt.Sprintf("Mix statistics • %d tracks", len(m.mix))))
	b.WriteString("\n")

	switch {
	case m.loading || m.analyzing:
		b.WriteString("Computing statistics...")
	case m.stats == nil:
		b.WriteString(styles.help.Render("No statistics for an empty mix"))
	default:
		b.Write(formatter.StatsToText(m.stats))
	}

	if m.status != "" {
		b.WriteString("\n" + m.statusLine())
	}
	b.WriteString("\n\n" + m.help.ShortHelpView([]key.Binding{m.keys.back, m.keys.regenerate, m.keys.save, m.keys.quit}))
	return b.String()
}

func (m *Model) statusLine() string {
	switch {
	case strings.HasPrefix(m.status, "✓"), strings.HasPrefix(m.status, "★"):
		return styles.ok.Render(m.status)
	case strings.Contains(m.status, "failed"):
		return styles.err.Render(m.status)
	default:
		return styles.help.Render(m.status)
	}
}
