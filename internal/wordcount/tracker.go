package wordcount

import (
	"fmt"
	"math"
	"time"

	"github.com/dshills/scriptmarks/internal/store"
)

// Document setting keys.
const (
	KeyDailyGoal       = store.KeyGoals + ".dailyGoal"
	KeyProjectGoal     = store.KeyGoals + ".projectGoal"
	KeyDeadline        = store.KeyGoals + ".deadlineDate"
	KeyDailyOffset     = store.KeyGoals + ".dailyOffset"
	KeyDailyOffsetDate = store.KeyGoals + ".dailyOffsetDate"
)

const dateLayout = "2006-01-02"

// Goals are the writer's targets, in words.
type Goals struct {
	Daily   int
	Project int
	// Deadline is a calendar date; the zero value means none.
	Deadline time.Time
}

// Progress is a snapshot of the counts against the goals.
type Progress struct {
	Daily       int
	DailyGoal   int
	Project     int
	ProjectGoal int
	// Remaining is the project words still to write, never negative.
	Remaining int
	// DaysLeft is only meaningful when HasDeadline is set.
	DaysLeft    int
	HasDeadline bool
	// PerDay is the words per day needed to meet the deadline.
	PerDay int
}

// DailyFraction is today's count over the daily goal, 0 without a goal.
func (p Progress) DailyFraction() float64 {
	if p.DailyGoal <= 0 {
		return 0
	}
	return float64(p.Daily) / float64(p.DailyGoal)
}

// ProjectFraction is the total count over the project goal, 0 without a
// goal.
func (p Progress) ProjectFraction() float64 {
	if p.ProjectGoal <= 0 {
		return 0
	}
	return float64(p.Project) / float64(p.ProjectGoal)
}

// DailyReached reports whether a positive daily goal is met.
func (p Progress) DailyReached() bool { return p.DailyGoal > 0 && p.Daily >= p.DailyGoal }

// ProjectReached reports whether a positive project goal is met.
func (p Progress) ProjectReached() bool { return p.ProjectGoal > 0 && p.Project >= p.ProjectGoal }

// Tracker keeps the goals of one document and the count at the start of
// the day. Goals and the day's starting count are stored in the document
// settings.
type Tracker struct {
	settings   store.Store
	now        func() time.Time
	goals      Goals
	offset     int
	offsetDate string
}

// NewTracker loads goals from settings. Missing or zero goals take the
// values in defaults. A nil now means time.Now.
func NewTracker(settings store.Store, defaults Goals, now func() time.Time) *Tracker {
	if now == nil {
		now = time.Now
	}
	t := &Tracker{settings: settings, now: now, goals: defaults}
	if v := store.Int(settings, KeyDailyGoal, 0); v > 0 {
		t.goals.Daily = v
	}
	if v := store.Int(settings, KeyProjectGoal, 0); v > 0 {
		t.goals.Project = v
	}
	if s := store.String(settings, KeyDeadline, ""); s != "" {
		if d, err := parseDate(s, now().Location()); err == nil {
			t.goals.Deadline = d
		}
	}
	t.offset = store.Int(settings, KeyDailyOffset, 0)
	t.offsetDate = store.String(settings, KeyDailyOffsetDate, "")
	return t
}

func parseDate(s string, loc *time.Location) (time.Time, error) {
	if len(s) > len(dateLayout) {
		s = s[:len(dateLayout)]
	}
	return time.ParseInLocation(dateLayout, s, loc)
}

// Goals returns the current goals.
func (t *Tracker) Goals() Goals {
	return t.goals
}

// SetDailyGoal stores a new daily goal. Negative values become 0.
func (t *Tracker) SetDailyGoal(n int) error {
	t.goals.Daily = max(n, 0)
	return t.settings.Set(KeyDailyGoal, t.goals.Daily)
}

// SetProjectGoal stores a new project goal. Negative values become 0.
func (t *Tracker) SetProjectGoal(n int) error {
	t.goals.Project = max(n, 0)
	return t.settings.Set(KeyProjectGoal, t.goals.Project)
}

// SetDeadline stores a deadline date. The zero time clears it.
func (t *Tracker) SetDeadline(d time.Time) error {
	t.goals.Deadline = d
	s := ""
	if !d.IsZero() {
		s = d.Format(dateLayout)
	}
	return t.settings.Set(KeyDeadline, s)
}

// SetDeadlineString parses "YYYY-MM-DD" and stores it. An empty string
// clears the deadline.
func (t *Tracker) SetDeadlineString(s string) error {
	if s == "" {
		return t.SetDeadline(time.Time{})
	}
	d, err := parseDate(s, t.now().Location())
	if err != nil {
		return fmt.Errorf("parsing deadline %q: %w", s, err)
	}
	return t.SetDeadline(d)
}

// ResetDaily makes total the starting count for today.
func (t *Tracker) ResetDaily(total int) error {
	t.offset = total
	t.offsetDate = t.now().Format(dateLayout)
	if err := t.settings.Set(KeyDailyOffset, t.offset); err != nil {
		return err
	}
	return t.settings.Set(KeyDailyOffsetDate, t.offsetDate)
}

// Update measures total against the goals. The first update of a new day
// records total as that day's starting count.
func (t *Tracker) Update(total int) (Progress, error) {
	var err error
	if t.now().Format(dateLayout) != t.offsetDate {
		err = t.ResetDaily(total)
	}

	p := Progress{
		Daily:       total - t.offset,
		DailyGoal:   t.goals.Daily,
		Project:     total,
		ProjectGoal: t.goals.Project,
		Remaining:   max(t.goals.Project-total, 0),
	}
	if !t.goals.Deadline.IsZero() {
		now := t.now()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		p.HasDeadline = true
		p.DaysLeft = int(math.Ceil(t.goals.Deadline.Sub(today).Hours() / 24))
		if p.DaysLeft > 0 && p.ProjectGoal > 0 {
			p.PerDay = max(int(math.Ceil(float64(p.Remaining)/float64(p.DaysLeft))), 0)
		}
	}
	return p, err
}
