package session

import (
	"fmt"

	"github.com/dshills/scriptmarks/internal/cues"
	"github.com/dshills/scriptmarks/internal/fountain"
	"github.com/dshills/scriptmarks/internal/notes"
	"github.com/dshills/scriptmarks/internal/store"
	"github.com/dshills/scriptmarks/internal/style"
	"github.com/dshills/scriptmarks/internal/tags"
	"github.com/dshills/scriptmarks/internal/wordcount"
)

// TextChanged schedules a rescan once edits have been quiet for the
// configured debounce period.
func (s *Session) TextChanged() {
	s.scheduleRefresh()
}

// NotepadChanged schedules a rescan like TextChanged.
func (s *Session) NotepadChanged() {
	s.scheduleRefresh()
}

func (s *Session) scheduleRefresh() {
	if s.closed {
		return
	}
	if s.sched == nil {
		s.Refresh()
		return
	}
	s.sched.Debounce(RefreshKey, s.cfg.Debounce.Rescan.Std(), s.Refresh)
}

// Refresh rebuilds everything derived from the document: the tag index and
// its highlights, favorites, notes, cues and word count. Nothing is
// replaced until the whole rebuild has succeeded; if it panics the previous
// state and its highlights stay as they were.
func (s *Session) Refresh() {
	if s.closed {
		return
	}
	s.nav.Stop()

	next, err := s.rebuild()
	if err != nil {
		s.logger.Error("refresh failed: %v", err)
		s.recon.ReapplyAll(s.result.Targets())
		return
	}

	s.clearHighlights()
	s.commit(next)

	s.refreshes++
	s.logger.Debug("refreshed: %d tags, %d occurrences, %d entries, %d cues",
		s.result.Index.Len(), len(s.result.All), len(s.entries), len(s.cueList))

	for _, fn := range s.onRefresh {
		fn()
	}
}

// rebuilt holds the derived state of one refresh before it is committed.
type rebuilt struct {
	lines    []fountain.Line
	result   *tags.Result
	entries  []notes.Entry
	cueList  []cues.Cue
	cueTypes []string
	words    int
	findings []style.Finding
}

// rebuild reads the host and derives the next state without touching the
// session or painting anything.
func (s *Session) rebuild() (next rebuilt, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	lines := s.host.Lines()
	notepad := s.host.Notepad()

	next.lines = lines
	next.result = s.scanner.Scan(lines, notepad)
	next.entries = notes.Collect(lines, notepad)
	next.cueList, next.cueTypes = cues.Detect(lines)
	next.words = wordcount.CountScreenplay(s.host.Text())
	if s.linting {
		next.findings = style.Lint(lines, s.categories)
	}
	return next, nil
}

// commit installs next and paints its highlights.
func (s *Session) commit(next rebuilt) {
	s.result = next.result
	s.recon.ReapplyAll(s.result.Targets())
	if removed := s.favorites.Prune(s.result.Index); len(removed) > 0 {
		s.logger.Debug("pruned favorites %v", removed)
		s.persist(s.settings, store.KeyFavoriteTags, s.favorites.List())
	}

	s.entries = next.entries

	s.cueList, s.cueTypes = next.cueList, next.cueTypes
	if s.cuePrefs.Register(s.cueTypes) {
		s.persist(s.defaults, store.KeyCuePreferences, s.cuePrefs.Encode())
	}
	s.cueSpans = cues.Highlight(s.host, next.lines, s.cueList, s.cuePrefs)

	progress, err := s.tracker.Update(next.words)
	if err != nil {
		s.logger.Warn("failed to store daily offset: %v", err)
	}
	s.progress = progress

	if s.linting {
		s.findings = next.findings
		style.Apply(s.host, s.findings)
	}
}

// clearHighlights removes tag, cue and style highlights.
func (s *Session) clearHighlights() {
	s.recon.ClearAll(s.result.Targets())
	cues.ClearHighlights(s.host, s.cueSpans)
	s.cueSpans = nil
	style.Clear(s.host, s.findings)
}

// String describes the session for logs.
func (s *Session) String() string {
	return fmt.Sprintf("session %s (%d tags)", s.id, s.result.Index.Len())
}
