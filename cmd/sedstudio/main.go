// Package main is the entry point for Sed Studio.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/term"

	"github.com/dshills/sedstudio/internal/chain"
	"github.com/dshills/sedstudio/internal/config"
	"github.com/dshills/sedstudio/internal/logging"
	"github.com/dshills/sedstudio/internal/presets"
	"github.com/dshills/sedstudio/internal/repl"
	"github.com/dshills/sedstudio/internal/session"
	"github.com/dshills/sedstudio/internal/tui"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// options are the command-line settings.
type options struct {
	configPath  string
	logLevel    string
	logFile     string
	repl        bool
	inputPath   string
	historyPath string

	pattern     string
	replacement string
	rangeSpec   string
	filename    string
	mode        string
	global      bool
	inPlace     bool
	extended    bool
	escape      bool

	// set holds the names of flags given on the command line.
	set map[string]bool
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	oneShot := opts.set["p"]
	interactive := term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
	fullScreen := !oneShot && !opts.repl && interactive

	logCfg := logging.Config{
		Level:  logging.ParseLevel(cfg.LogLevel),
		Output: os.Stderr,
		File:   cfg.LogFile,
		// The screen owns the terminal.
		DisableOutput: fullScreen,
	}
	logger, err := logging.New(logCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open log: %v\n", err)
		return 1
	}
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ps, err := presets.Load(ctx, cfg)
	if err != nil {
		logger.Warn("presets script failed", "error", err)
		if !fullScreen {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	sess, err := newSession(cfg, opts, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	switch {
	case oneShot:
		return runOneShot(sess, opts)
	case fullScreen:
		return runTUI(ctx, sess, cfg, ps, logger)
	default:
		return runREPL(ctx, sess, ps, logger, term.IsTerminal(int(os.Stdin.Fd())))
	}
}

// loadConfig reads the config file named by -config, or the per-user file
// when it exists, and applies command-line overrides.
func loadConfig(opts options) (*config.Config, error) {
	path := opts.configPath
	if path == "" {
		if p := config.DefaultPath(); p != "" {
			if _, err := os.Stat(p); err == nil {
				path = p
			}
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if opts.set["log-level"] {
		cfg.LogLevel = opts.logLevel
	}
	if opts.set["log-file"] {
		cfg.LogFile = opts.logFile
	}
	if opts.set["f"] {
		cfg.Filename = opts.filename
	}
	if opts.set["mode"] {
		cfg.Mode = opts.mode
	}
	if opts.set["g"] {
		cfg.Global = opts.global
	}
	if opts.set["i"] {
		cfg.InPlace = opts.inPlace
	}
	if opts.set["E"] {
		cfg.Extended = opts.extended
	}
	if opts.set["escape"] {
		cfg.EscapeDelimiters = opts.escape
	}
	if opts.set["input"] {
		cfg.SampleFile = opts.inputPath
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newSession(cfg *config.Config, opts options, logger *logging.Logger) (*session.Session, error) {
	sess := session.New(session.Options{
		Flags: chain.Flags{
			InPlace:          cfg.InPlace,
			Extended:         cfg.Extended,
			EscapeDelimiters: cfg.EscapeDelimiters,
		},
		Mode:       session.ParseMode(cfg.Mode),
		Filename:   cfg.Filename,
		SampleText: cfg.SampleText,
		Global:     cfg.Global,
		HistoryMax: cfg.History.MaxEntries,
		Logger:     logger,
	})

	if cfg.SampleFile != "" {
		if err := sess.LoadSample(cfg.SampleFile); err != nil {
			return nil, err
		}
	}
	if opts.historyPath != "" {
		if _, err := sess.ImportHistory(opts.historyPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return sess, nil
}

// runOneShot prints the command for the step given by -p and -r, followed
// by a blank line and the preview.
func runOneShot(sess *session.Session, opts options) int {
	step := sess.Draft()
	step.Pattern = opts.pattern
	step.Replacement = opts.replacement
	step.Range = opts.rangeSpec
	sess.SetStep(step)

	if sess.Mode() == session.ModeChain && !sess.AppendStep() {
		fmt.Fprintln(os.Stderr, "Error: -p must not be empty")
		return 2
	}

	res := sess.Preview()
	fmt.Println(res.Command)
	fmt.Println()
	if res.Err != nil {
		fmt.Fprintln(os.Stderr, res.Err)
		return 1
	}
	fmt.Println(res.Preview)
	return 0
}

func runTUI(ctx context.Context, sess *session.Session, cfg *config.Config, ps []presets.Preset, logger *logging.Logger) int {
	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize terminal: %v\n", err)
		return 1
	}
	defer screen.Fini()
	screen.EnablePaste()

	app := tui.New(screen, sess, tui.Options{
		Presets: ps,
		Theme:   cfg.Theme,
		Logger:  logger,
	})

	if cfg.Path != "" {
		w, err := config.NewWatcher(cfg.Path, func(next *config.Config, err error) {
			if err != nil {
				app.PostReload(config.Theme{}, nil, err)
				return
			}
			reloaded, perr := presets.Load(ctx, next)
			app.PostReload(next.Theme, reloaded, perr)
		})
		if err != nil {
			logger.Warn("config watcher disabled", "path", cfg.Path, "error", err)
		} else {
			logger.Info("watching config", "path", w.Path())
			defer w.Close()
		}
	}

	if err := app.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("terminal UI failed", "error", err)
		return 1
	}
	return 0
}

func runREPL(ctx context.Context, sess *session.Session, ps []presets.Preset, logger *logging.Logger, interactive bool) int {
	var historyFile string
	if home, err := os.UserHomeDir(); err == nil {
		historyFile = filepath.Join(home, ".sedstudio_history")
	}
	r := repl.New(sess, repl.Options{
		Presets:     ps,
		Logger:      logger,
		HistoryFile: historyFile,
	})

	if !interactive {
		failed, err := r.RunScript(os.Stdin, os.Stdout, os.Stderr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		if failed > 0 {
			return 1
		}
		return 0
	}

	if err := r.Run(ctx, os.Stdin, os.Stdout, os.Stderr); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags() options {
	opts := options{set: make(map[string]bool)}
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.configPath, "config", "", "Path to configuration file (.toml, .yaml)")
	flag.StringVar(&opts.configPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.StringVar(&opts.logFile, "log-file", "", "Append JSON logs to this file")
	flag.BoolVar(&opts.repl, "repl", false, "Use the line-oriented interface")
	flag.StringVar(&opts.inputPath, "input", "", "Load sample text from a file")
	flag.StringVar(&opts.historyPath, "history", "", "Import a JSON history export at startup")
	flag.StringVar(&opts.pattern, "p", "", "Pattern; prints command and preview, then exits")
	flag.StringVar(&opts.replacement, "r", "", "Replacement for -p (DELETE deletes matching lines)")
	flag.StringVar(&opts.rangeSpec, "range", "", "Line range for -p: N, N,M or N,$")
	flag.StringVar(&opts.filename, "f", "", "Target file named in the command")
	flag.StringVar(&opts.mode, "mode", "", "Rendering mode (chain, single)")
	flag.BoolVar(&opts.global, "g", true, "Replace every match on a line")
	flag.BoolVar(&opts.inPlace, "i", false, "Render the in-place flag (-i)")
	flag.BoolVar(&opts.extended, "E", true, "Render the extended regex flag (-E)")
	flag.BoolVar(&opts.escape, "escape", false, "Escape delimiters and quotes in the command")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Sed Studio - interactive sed command builder\n\n")
		fmt.Fprintf(os.Stderr, "Usage: sedstudio [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  sedstudio                              Open the terminal UI\n")
		fmt.Fprintf(os.Stderr, "  sedstudio -repl                        Line-oriented interface\n")
		fmt.Fprintf(os.Stderr, "  sedstudio -p '\\d+' -r N -input a.txt   Print command and preview\n")
		fmt.Fprintf(os.Stderr, "  sedstudio < steps.txt                  Run REPL commands from a file\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("Sed Studio %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	flag.Visit(func(f *flag.Flag) {
		name := f.Name
		if name == "c" {
			name = "config"
		}
		opts.set[name] = true
	})

	// Validate log level
	if opts.set["log-level"] {
		switch opts.logLevel {
		case "debug", "info", "warn", "error":
		default:
			fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.logLevel)
			os.Exit(1)
		}
	}
	if opts.set["mode"] && opts.mode != config.ModeChain && opts.mode != config.ModeSingle {
		fmt.Fprintf(os.Stderr, "Error: invalid mode %q (must be chain or single)\n", opts.mode)
		os.Exit(1)
	}
	if !opts.set["p"] && (opts.set["r"] || opts.set["range"]) {
		fmt.Fprintln(os.Stderr, "Error: -r and -range require -p")
		os.Exit(2)
	}

	return opts
}
