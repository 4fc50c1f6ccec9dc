package session

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/dshills/scriptmarks/internal/contd"
	"github.com/dshills/scriptmarks/internal/cues"
	"github.com/dshills/scriptmarks/internal/host"
	"github.com/dshills/scriptmarks/internal/store"
	"github.com/dshills/scriptmarks/internal/style"
	"github.com/dshills/scriptmarks/internal/wordcount"
)

// edit applies edits and rescans. The rescan runs even when an edit fails
// part-way, since earlier edits already changed the text.
func (s *Session) edit(what string, edits []host.Edit) (int, error) {
	if s.closed {
		return 0, ErrClosed
	}
	if len(edits) == 0 {
		return 0, nil
	}
	err := host.ApplyEdits(s.host, edits)
	s.Refresh()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", what, err)
	}
	s.logger.Info("%s: %d edits", what, len(edits))
	return len(edits), nil
}

// CueFilter returns the selected cue type, or cues.All.
func (s *Session) CueFilter() string {
	return s.cueFilter
}

// SetCueFilter selects the cue type shown, renumbered and exported.
func (s *Session) SetCueFilter(typ string) {
	if typ == "" {
		typ = cues.All
	}
	s.cueFilter = typ
}

// CuePreferences returns the cue settings. Callers that change them must
// call ApplyCuePreferences.
func (s *Session) CuePreferences() *cues.Preferences {
	return s.cuePrefs
}

// RenumberCues numbers the filtered cues 1..n.
func (s *Session) RenumberCues() (int, error) {
	return s.edit("renumber cues", cues.Renumber(s.host.Lines(), s.cueList, s.cueFilter))
}

// ApplyCuePreferences saves p, wraps or unwraps cues whose hide setting
// changed and repaints cue highlights.
func (s *Session) ApplyCuePreferences(p *cues.Preferences) error {
	if s.closed {
		return ErrClosed
	}
	old := s.cuePrefs
	s.cuePrefs = p
	s.persist(s.defaults, store.KeyCuePreferences, p.Encode())

	if len(p.HideChanged(old)) > 0 {
		if _, err := s.edit("sync hidden cues", cues.SyncHidden(s.host.Lines(), s.cueList, p)); err != nil {
			return err
		}
	}
	cues.ClearHighlights(s.host, s.cueSpans)
	s.cueSpans = cues.Highlight(s.host, s.host.Lines(), s.cueList, p)
	return nil
}

// SetCueHidden wraps (hide) or unwraps the cues of typ.
func (s *Session) SetCueHidden(typ string, hide bool) error {
	p := s.cuePrefs.Clone()
	tp := p.Type(typ)
	tp.Hide = hide
	p.Types[typ] = tp
	return s.ApplyCuePreferences(p)
}

// SetCueHighlight turns highlighting of typ on or off.
func (s *Session) SetCueHighlight(typ string, on bool) error {
	p := s.cuePrefs.Clone()
	tp := p.Type(typ)
	tp.Highlight = on
	p.Types[typ] = tp
	return s.ApplyCuePreferences(p)
}

// ExportCues writes the filtered cues to w. Failures are also reported to
// the user.
func (s *Session) ExportCues(w io.Writer, f cues.Format) (int, error) {
	n, err := cues.Write(w, f, s.cueList, s.cueFilter, s.now())
	if err != nil {
		s.exportFailed(err)
		return 0, err
	}
	return n, nil
}

// ExportCuesFile writes the filtered cues to path, replacing it atomically.
func (s *Session) ExportCuesFile(path string, f cues.Format) (int, error) {
	var buf bytes.Buffer
	n, err := cues.Write(&buf, f, s.cueList, s.cueFilter, s.now())
	if err == nil {
		err = store.WriteFileAtomic(path, buf.Bytes())
	}
	if err != nil {
		s.exportFailed(err)
		return 0, err
	}
	s.logger.Info("exported %d cues to %s", n, path)
	return n, nil
}

func (s *Session) exportFailed(err error) {
	s.logger.Warn("cue export failed: %v", err)
	s.host.Notify(ExportFailedTitle, err.Error())
}

// AddContd appends (CONT'D) where a speaker continues.
func (s *Session) AddContd() (int, error) {
	return s.edit("add CONT'D", contd.Add(s.host.Lines(), ""))
}

// CleanContd tidies every (CONT'D) in mode.
func (s *Session) CleanContd(mode contd.Mode) (int, error) {
	return s.edit("clean CONT'D", contd.Clean(s.host.Lines(), mode))
}

// StartLint highlights style findings until StopLint.
func (s *Session) StartLint() []style.Finding {
	if s.closed {
		return nil
	}
	style.Clear(s.host, s.findings)
	s.linting = true
	s.findings = style.Lint(s.host.Lines(), s.categories)
	style.Apply(s.host, s.findings)
	return s.findings
}

// StopLint removes style highlights.
func (s *Session) StopLint() {
	style.Clear(s.host, s.findings)
	s.findings = nil
	s.linting = false
}

// Linting reports whether style highlights are on.
func (s *Session) Linting() bool {
	return s.linting
}

// Goals returns the document's writing goals.
func (s *Session) Goals() wordcount.Goals {
	return s.tracker.Goals()
}

// SetGoals saves new daily and project goals and deadline ("YYYY-MM-DD",
// empty for none), then recomputes progress.
func (s *Session) SetGoals(daily, project int, deadline string) error {
	if s.closed {
		return ErrClosed
	}
	if err := s.tracker.SetDailyGoal(daily); err != nil {
		return err
	}
	if err := s.tracker.SetProjectGoal(project); err != nil {
		return err
	}
	if err := s.tracker.SetDeadlineString(deadline); err != nil {
		return err
	}
	return s.updateProgress()
}

// ResetDaily starts today's count from the current total.
func (s *Session) ResetDaily() error {
	if s.closed {
		return ErrClosed
	}
	if err := s.tracker.ResetDaily(wordcount.CountScreenplay(s.host.Text())); err != nil {
		return err
	}
	return s.updateProgress()
}

func (s *Session) updateProgress() error {
	p, err := s.tracker.Update(wordcount.CountScreenplay(s.host.Text()))
	s.progress = p
	return err
}

// Now returns the session clock's current time.
func (s *Session) Now() time.Time {
	return s.now()
}
