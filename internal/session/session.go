// Package session is the per-document controller. It owns the tag index,
// colour preferences, favorites, notes, cues and goals of one open
// screenplay and keeps the host's highlights in step with them.
//
// A Session is not safe for concurrent use. Every method must run on the
// loop goroutine that owns the Scheduler passed to New; the terminal panel,
// the file watcher and Lua scripts all post their calls there.
package session

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/scriptmarks/internal/config"
	"github.com/dshills/scriptmarks/internal/cues"
	"github.com/dshills/scriptmarks/internal/host"
	"github.com/dshills/scriptmarks/internal/logging"
	"github.com/dshills/scriptmarks/internal/loop"
	"github.com/dshills/scriptmarks/internal/notes"
	"github.com/dshills/scriptmarks/internal/palette"
	"github.com/dshills/scriptmarks/internal/store"
	"github.com/dshills/scriptmarks/internal/style"
	"github.com/dshills/scriptmarks/internal/tags"
	"github.com/dshills/scriptmarks/internal/wordcount"
)

// RefreshKey is the debounce key of the rescan scheduled by TextChanged and
// NotepadChanged.
const RefreshKey = "session.refresh"

// Notices.
const (
	NoTagsTitle   = "No Tags Found"
	NoTagsMessage = "Try adding a hashtag within an inline note (e.g., [[This is a #tag]])."

	ExportFailedTitle = "Export failed"
)

// Errors returned by session actions.
var (
	// ErrClosed is returned by actions on a closed session.
	ErrClosed = errors.New("session closed")

	// ErrNotepadReadOnly is returned by Capture when the host cannot
	// write the notepad.
	ErrNotepadReadOnly = errors.New("notepad is read-only")

	// ErrInvalidColor is returned for colour values that are not hex.
	ErrInvalidColor = errors.New("invalid color")
)

// NotepadWriter is implemented by hosts whose notepad can be replaced.
type NotepadWriter interface {
	SetNotepad(text string)
}

// Options configures a session.
type Options struct {
	// Config supplies thresholds and defaults. Nil means config.Default().
	Config *config.Config

	// Defaults is the user-wide store; Settings is the per-document
	// store. Nil stores are replaced by empty in-memory ones.
	Defaults store.Store
	Settings store.Store

	// Scheduler runs debounced rescans and highlight flashes. Nil makes
	// change notifications rescan immediately.
	Scheduler loop.Scheduler

	Logger *logging.Logger

	// Now is the clock used for goals and exports. Nil means time.Now.
	Now func() time.Time
}

// Session is the state of one open document.
type Session struct {
	id       uuid.UUID
	host     host.Host
	sched    loop.Scheduler
	cfg      *config.Config
	defaults store.Store
	settings store.Store
	logger   *logging.Logger
	now      func() time.Time

	prefs   *palette.Preferences
	recon   *palette.Reconciler
	scanner *tags.Scanner
	nav     *tags.Navigator
	dark    bool

	result    *tags.Result
	favorites *tags.Favorites

	entries       []notes.Entry
	dismissed     *notes.Dismissed
	hideDismissed bool

	cueList   []cues.Cue
	cueTypes  []string
	cuePrefs  *cues.Preferences
	cueFilter string
	cueSpans  []host.Span

	tracker  *wordcount.Tracker
	progress wordcount.Progress

	categories []style.Category
	linting    bool
	findings   []style.Finding

	refreshes int
	onRefresh []func()
	closed    bool
}

// New creates a session for the document shown by h and loads its
// persisted state. Malformed persisted values are discarded in favour of
// defaults. New does not scan; call Start.
func New(h host.Host, opts Options) *Session {
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.Defaults == nil {
		opts.Defaults = store.NewMemory()
	}
	if opts.Settings == nil {
		opts.Settings = store.NewMemory()
	}
	if opts.Logger == nil {
		opts.Logger = logging.Null()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	cfg := opts.Config
	id := uuid.New()
	s := &Session{
		id:            id,
		host:          h,
		sched:         opts.Scheduler,
		cfg:           cfg,
		defaults:      opts.Defaults,
		settings:      opts.Settings,
		logger:        opts.Logger.WithComponent("session").WithField("session", id.String()),
		now:           opts.Now,
		result:        tags.Empty(),
		hideDismissed: cfg.Notes.HideDismissed,
		cueFilter:     cfg.Cues.Filter,
		categories:    style.ParseCategories(cfg.Style.Categories),
	}

	s.prefs = palette.NewPreferences(cfg.Fallback())
	if raw, ok := s.defaults.Get(store.KeyTagColors); ok {
		colors, err := palette.DecodePreferences(raw)
		if err != nil {
			s.logger.Debug("discarding tag colors: %v", err)
		} else {
			s.prefs.Replace(colors)
		}
	}

	s.dark = store.Bool(s.defaults, store.KeyThemePreference, cfg.Theme.Dark)
	s.recon = palette.NewReconciler(s.prefs, h, cfg.Foreground(s.dark), cfg.ContrastOptions())
	s.scanner = tags.NewScanner(s.recon.DisplayHex, nil)
	var flashSched loop.Scheduler = s.sched
	if flashSched == nil {
		// Without a loop, flashes stop at their first phase.
		flashSched = loop.NewManual()
	}
	s.nav = tags.NewNavigator(tags.NewCursor(), h, flashSched, cfg.NavigatorOptions())

	s.favorites = tags.NewFavorites(store.Strings(s.settings, store.KeyFavoriteTags))
	s.dismissed = notes.NewDismissed(store.Strings(s.settings, store.KeyDismissedEntries))

	s.cuePrefs = s.loadCuePreferences()

	s.tracker = wordcount.NewTracker(s.settings, wordcount.Goals{
		Daily:   cfg.Goals.DailyGoal,
		Project: cfg.Goals.ProjectGoal,
	}, s.now)

	return s
}

func (s *Session) loadCuePreferences() *cues.Preferences {
	raw, ok := s.defaults.Get(store.KeyCuePreferences)
	if ok {
		p, err := cues.DecodePreferences(raw)
		if err == nil {
			return p
		}
		s.logger.Debug("discarding cue preferences: %v", err)
	}
	p := cues.DefaultPreferences()
	if s.cfg.Cues.Highlight {
		p.SetGlobalHighlight(true)
	}
	return p
}

// ID returns the session's unique identifier.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Host returns the host the session drives.
func (s *Session) Host() host.Host {
	return s.host
}

// Start runs the first scan and tells the user when the document has no
// tags yet.
func (s *Session) Start() {
	s.Refresh()
	if !s.closed && s.result.Index.Len() == 0 {
		s.host.Notify(NoTagsTitle, NoTagsMessage)
	}
}

// Close removes every highlight the session painted and cancels a pending
// rescan. Further actions return ErrClosed or do nothing.
func (s *Session) Close() {
	if s.closed {
		return
	}
	if s.sched != nil {
		s.sched.CancelDebounce(RefreshKey)
	}
	s.nav.Stop()
	s.clearHighlights()
	s.closed = true
	s.logger.Debug("session closed")
}

// Closed reports whether Close was called.
func (s *Session) Closed() bool {
	return s.closed
}

// Result returns the current scan result. It must not be modified.
func (s *Session) Result() *tags.Result {
	return s.result
}

// Entries returns the note entries of the last refresh.
func (s *Session) Entries() []notes.Entry {
	return s.entries
}

// Cues returns the cues of the last refresh.
func (s *Session) Cues() []cues.Cue {
	return s.cueList
}

// Progress returns the word count progress of the last refresh.
func (s *Session) Progress() wordcount.Progress {
	return s.progress
}

// Findings returns the style findings while linting is on.
func (s *Session) Findings() []style.Finding {
	return s.findings
}

// OnRefresh registers fn to run on the loop after every completed refresh.
func (s *Session) OnRefresh(fn func()) {
	s.onRefresh = append(s.onRefresh, fn)
}

// Refreshes returns the number of completed refreshes.
func (s *Session) Refreshes() int {
	return s.refreshes
}

// persist writes v under key, logging failures. Persistence failures never
// interrupt an action; the in-memory state stays authoritative.
func (s *Session) persist(st store.Store, key string, v any) {
	if err := st.Set(key, v); err != nil {
		s.logger.Warn("failed to persist %s: %v", key, err)
	}
}
