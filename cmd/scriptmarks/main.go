// Package main is the entry point for scriptmarks.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/dshills/scriptmarks/internal/app"
	"github.com/dshills/scriptmarks/internal/config"
	"github.com/dshills/scriptmarks/internal/contd"
	"github.com/dshills/scriptmarks/internal/cues"
	"github.com/dshills/scriptmarks/internal/logging"
	"github.com/dshills/scriptmarks/internal/session"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// options holds the parsed command line.
type options struct {
	ConfigPath  string
	NotepadPath string
	LogLevel    string
	LogFile     string

	Watch   bool
	Panel   bool
	Scripts stringList

	Export     string
	Output     string
	Filter     string
	Renumber   bool
	AddContd   bool
	CleanContd string
	Lint       bool
	Count      bool
	Capture    string

	DailyGoal   int
	ProjectGoal int
	Deadline    string

	Document string
}

// stringList collects a repeatable flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if opts.LogLevel != "" {
		cfg.Logging.Level = opts.LogLevel
	}
	if opts.LogFile != "" {
		cfg.Logging.File = opts.LogFile
	}

	logger, closeLog, err := openLogger(cfg, opts.Panel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer closeLog()

	var scriptOut io.Writer = os.Stdout
	if opts.Panel {
		scriptOut = nil
	}

	application, err := app.New(app.Options{
		DocumentPath: opts.Document,
		NotepadPath:  opts.NotepadPath,
		Config:       cfg,
		Logger:       logger,
		Watch:        opts.Watch,
		Panel:        opts.Panel,
		ScriptOutput: scriptOut,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	// Ensure cleanup on all exit paths
	defer application.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := application.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	code := 0
	if len(opts.Scripts) > 0 {
		if err := application.RunScripts(ctx, opts.Scripts...); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			code = 1
		}
	}

	if err := application.Do(ctx, func(s *session.Session) error {
		return runCommands(s, opts, os.Stdout)
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		code = 1
	}

	if err := application.Wait(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		code = 1
	}

	if _, err := application.Save(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		code = 1
	}
	return code
}

// runCommands performs the one-shot actions on the loop, in a fixed order:
// edits first, then reports.
func runCommands(s *session.Session, opts options, out io.Writer) error {
	if opts.Filter != "" {
		s.SetCueFilter(opts.Filter)
	}

	if opts.DailyGoal >= 0 || opts.ProjectGoal >= 0 || opts.Deadline != "" {
		g := s.Goals()
		daily, project, deadline := g.Daily, g.Project, ""
		if !g.Deadline.IsZero() {
			deadline = g.Deadline.Format(time.DateOnly)
		}
		if opts.DailyGoal >= 0 {
			daily = opts.DailyGoal
		}
		if opts.ProjectGoal >= 0 {
			project = opts.ProjectGoal
		}
		if opts.Deadline != "" {
			deadline = opts.Deadline
			if deadline == "none" {
				deadline = ""
			}
		}
		if err := s.SetGoals(daily, project, deadline); err != nil {
			return fmt.Errorf("setting goals: %w", err)
		}
	}

	if opts.Capture != "" {
		if err := s.Capture(opts.Capture); err != nil {
			return fmt.Errorf("capturing idea: %w", err)
		}
	}

	if opts.Renumber {
		n, err := s.RenumberCues()
		if err != nil {
			return fmt.Errorf("renumbering cues: %w", err)
		}
		fmt.Fprintf(out, "renumbered %d cues\n", n)
	}

	if opts.AddContd {
		n, err := s.AddContd()
		if err != nil {
			return fmt.Errorf("adding CONT'D: %w", err)
		}
		fmt.Fprintf(out, "added %d CONT'D extensions\n", n)
	}

	if opts.CleanContd != "" {
		mode, err := contd.ParseMode(opts.CleanContd)
		if err != nil {
			return err
		}
		n, err := s.CleanContd(mode)
		if err != nil {
			return fmt.Errorf("cleaning CONT'D: %w", err)
		}
		fmt.Fprintf(out, "cleaned %d CONT'D extensions\n", n)
	}

	if opts.Export != "" {
		if err := export(s, opts, out); err != nil {
			return err
		}
	}

	if opts.Lint {
		printLint(s, out)
	}
	if opts.Count {
		printCount(s, out)
	}

	if !opts.Panel && !opts.anyCommand() {
		printSummary(s, out)
	}
	return nil
}

func (o options) anyCommand() bool {
	return o.Export != "" || o.Renumber || o.AddContd || o.CleanContd != "" ||
		o.Lint || o.Count || o.Capture != "" || len(o.Scripts) > 0 ||
		o.DailyGoal >= 0 || o.ProjectGoal >= 0 || o.Deadline != ""
}

func export(s *session.Session, opts options, out io.Writer) error {
	format, err := cues.ParseFormat(opts.Export)
	if err != nil {
		return err
	}
	if opts.Output == "" {
		_, err := s.ExportCues(out, format)
		return err
	}
	path := opts.Output
	if filepath.Ext(path) == "" {
		path += "." + format.Extension()
	}
	n, err := s.ExportCuesFile(path, format)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "exported %d cues to %s\n", n, path)
	return nil
}

func printSummary(s *session.Session, out io.Writer) {
	vm := s.Render()
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	defer tw.Flush()

	if len(vm.Favorites)+len(vm.Others) == 0 {
		fmt.Fprintln(tw, session.NoTagsMessage)
		return
	}
	fmt.Fprintln(tw, "TAG\tCOUNT\tCOLOR")
	for _, p := range vm.Favorites {
		fmt.Fprintf(tw, "*%s\t%d\t%s\n", p.Tag, p.Count, p.Border)
	}
	for _, p := range vm.Others {
		color := p.Background
		if p.Style == session.PillOutline {
			color = p.Border + " (outline)"
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\n", p.Tag, p.Count, color)
	}
	fmt.Fprintf(tw, "\n%d notes, %d cues\n", len(vm.Notes), len(vm.Cues))
}

func printLint(s *session.Session, out io.Writer) {
	findings := s.StartLint()
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	defer tw.Flush()
	for _, f := range findings {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", f.Line+1, f.Category, f.Word)
	}
	fmt.Fprintf(tw, "%d findings\n", len(findings))
	s.StopLint()
}

func printCount(s *session.Session, out io.Writer) {
	p := s.Progress()
	fmt.Fprintf(out, "today: %d", p.Daily)
	if p.DailyGoal > 0 {
		fmt.Fprintf(out, " / %d", p.DailyGoal)
	}
	fmt.Fprintf(out, "\nproject: %d / %d (%d to go)\n", p.Project, p.ProjectGoal, p.Remaining)
	if p.HasDeadline {
		fmt.Fprintf(out, "deadline: %d days left, %d words per day\n", p.DaysLeft, p.PerDay)
	}
}

// openLogger builds the logger from the logging config. The panel owns
// the terminal, so without a log file its logs are discarded.
func openLogger(cfg *config.Config, panel bool) (*logging.Logger, func(), error) {
	lc := logging.DefaultConfig()
	lc.Level = logging.ParseLevel(cfg.Logging.Level)

	if cfg.Logging.File == "" {
		if panel {
			lc.Output = io.Discard
		}
		return logging.New(lc), func() {}, nil
	}

	f, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	lc.Output = f
	return logging.New(lc), func() { f.Close() }, nil
}

func parseFlags() options {
	var opts options
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file (TOML or YAML)")
	flag.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.NotepadPath, "notepad", "", "Notepad file (default: <document>.notes)")
	flag.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.StringVar(&opts.LogFile, "log-file", "", "Write logs to this file")
	flag.BoolVar(&opts.Watch, "watch", false, "Reload the document when it changes on disk")
	flag.BoolVar(&opts.Panel, "panel", false, "Show the interactive panel")
	flag.BoolVar(&opts.Panel, "p", false, "Show the interactive panel (shorthand)")
	flag.Var(&opts.Scripts, "script", "Run a Lua script after the first scan (repeatable)")
	flag.StringVar(&opts.Export, "export", "", "Export cues: csv, html or qlab")
	flag.StringVar(&opts.Output, "o", "", "Export destination (default: stdout)")
	flag.StringVar(&opts.Filter, "filter", "", "Cue type to renumber and export (default: config)")
	flag.BoolVar(&opts.Renumber, "renumber", false, "Renumber cues")
	flag.BoolVar(&opts.AddContd, "add-contd", false, "Add (CONT'D) to continued dialogue")
	flag.StringVar(&opts.CleanContd, "clean-contd", "", "Remove (CONT'D) extensions: strict or loose")
	flag.BoolVar(&opts.Lint, "lint", false, "Print style findings")
	flag.BoolVar(&opts.Count, "count", false, "Print word count progress")
	flag.StringVar(&opts.Capture, "capture", "", "Append an idea to the notepad")
	flag.IntVar(&opts.DailyGoal, "daily-goal", -1, "Set the daily word goal")
	flag.IntVar(&opts.ProjectGoal, "project-goal", -1, "Set the project word goal")
	flag.StringVar(&opts.Deadline, "deadline", "", "Set the deadline (YYYY-MM-DD, or none)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "scriptmarks - tags, notes and cues for Fountain screenplays\n\n")
		fmt.Fprintf(os.Stderr, "Usage: scriptmarks [options] <document.fountain>\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  scriptmarks pilot.fountain                      Print the tag summary\n")
		fmt.Fprintf(os.Stderr, "  scriptmarks -panel -watch pilot.fountain        Interactive panel\n")
		fmt.Fprintf(os.Stderr, "  scriptmarks -export csv -o cues pilot.fountain  Export the cue list\n")
		fmt.Fprintf(os.Stderr, "  scriptmarks -renumber -filter SOUND pilot.fountain\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("scriptmarks %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	if opts.LogLevel != "" && !logging.ValidLevel(opts.LogLevel) {
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.LogLevel)
		os.Exit(1)
	}

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	opts.Document = flag.Arg(0)

	if opts.NotepadPath == "" {
		opts.NotepadPath = strings.TrimSuffix(opts.Document, filepath.Ext(opts.Document)) + ".notes"
	}

	return opts
}
