package panel

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/dshills/scriptmarks/internal/cues"
	"github.com/dshills/scriptmarks/internal/notes"
	"github.com/dshills/scriptmarks/internal/session"
)

const helpLine = "tab section  j/k move  enter go  f fav  d done  h hide  c filter  r renumber  t theme  l lint  n/p finding  q quit"

var kindLabels = map[notes.Kind]string{
	notes.KindNote:     "note",
	notes.KindSynopsis: "syn",
	notes.KindOmitted:  "omit",
	notes.KindBoneyard: "bone",
	notes.KindNotepad:  "pad",
}

// theme holds the base styles for one appearance.
type theme struct {
	base  tcell.Style
	dim   tcell.Style
	title tcell.Style
}

func themeFor(dark bool) theme {
	if dark {
		base := tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite)
		return theme{
			base:  base,
			dim:   base.Foreground(tcell.ColorGray),
			title: base.Bold(true),
		}
	}
	base := tcell.StyleDefault.Background(tcell.ColorWhite).Foreground(tcell.ColorBlack)
	return theme{
		base:  base,
		dim:   base.Foreground(tcell.ColorGray),
		title: base.Bold(true),
	}
}

// drawText writes s from column x, clipped before maxX, and returns the
// column after the last cell written. Wide graphemes that do not fit are
// dropped.
func drawText(scr tcell.Screen, x, y, maxX int, s string, st tcell.Style) int {
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		w := g.Width()
		if w == 0 {
			continue
		}
		if x+w > maxX {
			break
		}
		runes := g.Runes()
		scr.SetContent(x, y, runes[0], runes[1:], st)
		x += w
	}
	return x
}

// truncate shortens s to width cells, ending with "…" when cut.
func truncate(s string, width int) string {
	if uniseg.StringWidth(s) <= width {
		return s
	}
	if width <= 1 {
		return strings.Repeat("…", max(width, 0))
	}
	var b strings.Builder
	used := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		w := g.Width()
		if used+w > width-1 {
			break
		}
		b.WriteString(g.Str())
		used += w
	}
	b.WriteString("…")
	return b.String()
}

func fillRow(scr tcell.Screen, y, width int, st tcell.Style) {
	for x := 0; x < width; x++ {
		scr.SetContent(x, y, ' ', nil, st)
	}
}

func (p *Panel) draw() {
	scr := p.screen
	width, height := scr.Size()
	th := themeFor(p.vm.Dark)

	scr.SetStyle(th.base)
	scr.Clear()
	for y := 0; y < height; y++ {
		fillRow(scr, y, width, th.base)
	}
	if width < 10 || height < 6 {
		return
	}

	y := 0
	x := drawText(scr, 0, y, width, "scriptmarks", th.title)
	drawText(scr, x, y, width, "  "+progressLine(p.vm), th.dim)
	y++
	if p.vm.Linting {
		drawText(scr, 0, y, width, "Style: "+lintSummary(p.vm.StyleCount), th.dim)
		y++
	}
	y++

	y = p.drawTags(y, width, height-2, th)
	y++

	remaining := height - 2 - y
	if remaining < 2 {
		p.drawFooter(width, height, th)
		return
	}
	notesRows := remaining / 2
	y = p.drawNotes(y, width, notesRows, th)
	p.drawCues(y, width, height-2-y, th)

	p.drawFooter(width, height, th)
}

func progressLine(vm session.ViewModel) string {
	pr := vm.Progress
	s := fmt.Sprintf("today %d", pr.Daily)
	if pr.DailyGoal > 0 {
		s += fmt.Sprintf("/%d", pr.DailyGoal)
	}
	s += fmt.Sprintf("  project %d", pr.Project)
	if pr.ProjectGoal > 0 {
		s += fmt.Sprintf("/%d", pr.ProjectGoal)
	}
	if pr.HasDeadline {
		s += fmt.Sprintf("  %d days left, %d/day", pr.DaysLeft, pr.PerDay)
	}
	return s
}

func (p *Panel) header(y, width int, s Section, extra string, th theme) {
	st := th.dim
	if p.focus == s {
		st = th.title.Underline(true)
	}
	x := drawText(p.screen, 0, y, width, s.String(), st)
	if extra != "" {
		drawText(p.screen, x+1, y, width, extra, th.dim)
	}
}

func (p *Panel) drawTags(y, width, maxY int, th theme) int {
	pills := p.allPills()
	p.header(y, width, SectionTags, fmt.Sprintf("(%d)", len(pills)), th)
	y++
	p.pills = p.pills[:0]

	if len(pills) == 0 {
		drawText(p.screen, 1, y, width, "No tags yet. Add [[#tag]] to the script.", th.dim)
		return y + 1
	}

	x := 1
	for i, pill := range pills {
		label := pillLabel(pill)
		w := uniseg.StringWidth(label)
		if x+w > width && x > 1 {
			y++
			x = 1
		}
		if y >= maxY {
			break
		}
		st := pillStyle(pill, th)
		if p.focus == SectionTags && i == p.selected[SectionTags] {
			st = st.Reverse(true)
		}
		end := drawText(p.screen, x, y, width, label, st)
		p.pills = append(p.pills, hit{x0: x, x1: end, y: y, tag: pill.Tag})
		x = end + 1
	}
	return y + 1
}

func pillLabel(p session.Pill) string {
	if p.Style == session.PillOutline {
		return fmt.Sprintf("[%s %d]", p.Tag, p.Count)
	}
	return fmt.Sprintf(" %s %d ", p.Tag, p.Count)
}

func pillStyle(p session.Pill, th theme) tcell.Style {
	if p.Style == session.PillOutline {
		return th.base.Foreground(tcell.GetColor(p.Border)).Bold(true)
	}
	return th.base.
		Background(tcell.GetColor(p.Background)).
		Foreground(tcell.GetColor(p.Text))
}

// window returns the first row to show so that sel stays visible.
func (p *Panel) window(s Section, rows int) int {
	off := p.offset[s]
	sel := p.selected[s]
	if sel < off {
		off = sel
	}
	if sel >= off+rows {
		off = sel - rows + 1
	}
	p.offset[s] = max(off, 0)
	return p.offset[s]
}

func (p *Panel) drawNotes(y, width, rows int, th theme) int {
	extra := fmt.Sprintf("(%d)", len(p.vm.Notes))
	if p.vm.HideDismissed {
		extra += " done hidden"
	}
	p.header(y, width, SectionNotes, extra, th)
	y++
	rows--
	if rows <= 0 {
		return y
	}

	if len(p.vm.Notes) == 0 {
		drawText(p.screen, 1, y, width, "No notes.", th.dim)
		return y + rows
	}

	off := p.window(SectionNotes, rows)
	for i := off; i < len(p.vm.Notes) && i < off+rows; i++ {
		n := p.vm.Notes[i]
		mark := "[ ]"
		st := th.base
		if n.Dismissed {
			mark = "[x]"
			st = th.dim
		}
		if p.focus == SectionNotes && i == p.selected[SectionNotes] {
			st = st.Reverse(true)
		}
		content := strings.Join(strings.Fields(n.Content), " ")
		line := fmt.Sprintf("%s %-4s %s", mark, kindLabels[n.Kind], content)
		drawText(p.screen, 1, y+i-off, width, truncate(line, width-1), st)
	}
	return y + rows
}

func (p *Panel) drawCues(y, width, rows int, th theme) {
	extra := fmt.Sprintf("(%d)", len(p.vm.Cues))
	if p.vm.CueFilter != "" && p.vm.CueFilter != cues.All {
		extra += " " + p.vm.CueFilter
	}
	var counts []string
	for _, c := range p.vm.CueCounts {
		counts = append(counts, fmt.Sprintf("%s %d", c.Type, c.Count))
	}
	if len(counts) > 0 {
		extra += "  " + strings.Join(counts, ", ")
	}
	p.header(y, width, SectionCues, extra, th)
	y++
	rows--
	if rows <= 0 {
		return
	}

	if len(p.vm.Cues) == 0 {
		drawText(p.screen, 1, y, width, "No cues.", th.dim)
		return
	}

	off := p.window(SectionCues, rows)
	for i := off; i < len(p.vm.Cues) && i < off+rows; i++ {
		c := p.vm.Cues[i]
		st := th.base
		if c.Color != "" {
			st = st.Foreground(tcell.GetColor(c.Color))
		}
		if c.Hidden {
			st = th.dim
		}
		if p.focus == SectionCues && i == p.selected[SectionCues] {
			st = st.Reverse(true)
		}
		line := c.Type
		if c.Number != "" {
			line += " " + c.Number
		}
		line += "  " + c.Name
		if p.vm.ShowScene && c.Scene != "" {
			line += "  (" + c.Scene + ")"
		}
		drawText(p.screen, 1, y+i-off, width, truncate(line, width-1), st)
	}
}

func (p *Panel) drawFooter(width, height int, th theme) {
	if status := p.Status(); status != "" {
		drawText(p.screen, 0, height-2, width, truncate(status, width), th.base.Bold(true))
	}
	drawText(p.screen, 0, height-1, width, truncate(helpLine, width), th.dim)
}
