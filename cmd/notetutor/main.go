// Package main provides the CLI entrypoint for notetutor.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/notetutor/internal/audio"
	"github.com/verte-zerg/notetutor/internal/catalog"
	"github.com/verte-zerg/notetutor/internal/config"
	"github.com/verte-zerg/notetutor/internal/model"
	"github.com/verte-zerg/notetutor/internal/session"
	"github.com/verte-zerg/notetutor/internal/stats"
	"github.com/verte-zerg/notetutor/internal/statsui"
	"github.com/verte-zerg/notetutor/internal/store"
	"github.com/verte-zerg/notetutor/internal/tui"
)

const (
	defaultClef          = "treble"
	defaultDuration      = 60
	defaultAdvanceDelay  = 130
	defaultToneSeconds   = 0.9
	defaultAudio         = "bell"
	defaultFocusWindow   = 20
	defaultFocusFactor   = 2.0
	defaultFocusTop      = 5
	defaultPlainWidth    = 80
	maxSessionDurationS  = 3600
	maxAdvanceDelayMilli = 5000
)

var (
	playClef         string
	playDuration     int
	playAdvanceDelay int
	playTone         float64
	playAudio        string
	playMIDIOut      string
	playFocusMissed  bool
	playFocusWindow  int
	playFocusFactor  float64

	statsClef  string
	statsSince string
	statsLast  int
	statsPlain bool

	notesClef string
)

// playOptions is the resolved play configuration after flags and file values merge.
type playOptions struct {
	Config       model.Config
	AdvanceDelay time.Duration
	ToneSeconds  float64
	Audio        audio.Mode
	MIDIOut      string
	FocusMissed  bool
	FocusWindow  int
	FocusFactor  float64
}

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "notetutor",
		Short:         "TUI note reading trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPlayCmd,
	}

	rootCmd.Flags().StringVar(&playClef, "clef", defaultClef, "clef to practice (treble or bass)")
	rootCmd.Flags().IntVar(&playDuration, "duration", defaultDuration, "session length in seconds")
	rootCmd.Flags().IntVar(&playAdvanceDelay, "advance-delay", defaultAdvanceDelay, "pause before the next note in milliseconds (0 = immediate)")
	rootCmd.Flags().Float64Var(&playTone, "tone", defaultToneSeconds, "feedback tone length in seconds")
	rootCmd.Flags().StringVar(&playAudio, "audio", defaultAudio, "feedback cue: bell, midi, both or off")
	rootCmd.Flags().StringVar(&playMIDIOut, "midi-out", "", "MIDI file for recorded tones (default: data dir)")
	rootCmd.Flags().BoolVar(&playFocusMissed, "focus-missed", false, "bias notes toward ones missed in recent sessions")
	rootCmd.Flags().IntVar(&playFocusWindow, "focus-window", defaultFocusWindow, "number of recent sessions to scan for missed notes")
	rootCmd.Flags().Float64Var(&playFocusFactor, "focus-factor", defaultFocusFactor, "extra weight for missed notes")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newNotesCmd())
	rootCmd.AddCommand(newBestCmd())

	return rootCmd
}

func runPlayCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "clef", &playClef, fileCfg.Quiz.Clef)
	applyIntConfig(cmd, "duration", &playDuration, fileCfg.Quiz.Duration)
	applyIntConfig(cmd, "advance-delay", &playAdvanceDelay, fileCfg.Quiz.AdvanceDelayMs)
	applyFloatConfig(cmd, "tone", &playTone, fileCfg.Quiz.ToneSeconds)
	applyStringConfig(cmd, "audio", &playAudio, fileCfg.Quiz.Audio)
	applyStringConfig(cmd, "midi-out", &playMIDIOut, fileCfg.Quiz.MIDIOut)
	applyBoolConfig(cmd, "focus-missed", &playFocusMissed, fileCfg.Quiz.FocusMissed)
	applyIntConfig(cmd, "focus-window", &playFocusWindow, fileCfg.Quiz.FocusWindow)
	applyFloatConfig(cmd, "focus-factor", &playFocusFactor, fileCfg.Quiz.FocusFactor)

	opts, err := resolvePlayOptions()
	if err != nil {
		return err
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	cat := catalog.Default()
	selector := catalog.NewSelector(cat)
	if opts.FocusMissed {
		aggs, err := st.GetWeakNotes(context.Background(), opts.FocusWindow, opts.Config.Clef)
		if err != nil {
			logErrf("failed to load missed notes: %v\n", err)
		} else {
			weak := stats.SelectWeakNotes(aggs, defaultFocusTop)
			if len(weak) == 0 {
				logErrln("no missed notes recorded yet; using uniform selection")
			}
			selector.Focus(weak, opts.FocusFactor)
		}
	}

	cue, recorder := buildCue(opts, os.Stderr)
	keeper := store.NewKeeper(st, os.Stderr)
	machine := session.New(session.Options{
		Picker:       selector,
		Cue:          cue,
		Scores:       keeper,
		Recorder:     keeper,
		AdvanceDelay: opts.AdvanceDelay,
		ToneSeconds:  opts.ToneSeconds,
	})

	program := tea.NewProgram(tui.NewModel(machine, cat, opts.Config), tea.WithAltScreen())
	_, runErr := program.Run()
	if recorder != nil {
		if err := recorder.Close(); err != nil {
			logErrf("%v\n", err)
		} else if recorder.Len() > 0 {
			logErrf("Wrote %s\n", opts.MIDIOut)
		}
	}
	if runErr != nil {
		return fmt.Errorf("failed to run TUI: %w", runErr)
	}
	return nil
}

func resolvePlayOptions() (playOptions, error) {
	clef, err := model.ParseClef(playClef)
	if err != nil {
		return playOptions{}, fmt.Errorf("--clef: %w", err)
	}
	mode, err := audio.ParseMode(playAudio)
	if err != nil {
		return playOptions{}, fmt.Errorf("--audio: %w", err)
	}
	opts := playOptions{
		Config:       model.Config{Clef: clef, Duration: playDuration},
		AdvanceDelay: time.Duration(playAdvanceDelay) * time.Millisecond,
		ToneSeconds:  playTone,
		Audio:        mode,
		MIDIOut:      strings.TrimSpace(playMIDIOut),
		FocusMissed:  playFocusMissed,
		FocusWindow:  playFocusWindow,
		FocusFactor:  playFocusFactor,
	}
	if err := validatePlayOptions(opts); err != nil {
		return playOptions{}, err
	}
	if opts.MIDIOut == "" && (mode == audio.ModeMIDI || mode == audio.ModeBoth) {
		opts.MIDIOut = config.DefaultMIDIPath()
	}
	return opts, nil
}

func validatePlayOptions(opts playOptions) error {
	if opts.Config.Duration <= 0 || opts.Config.Duration > maxSessionDurationS {
		return fmt.Errorf("--duration must be between 1 and %d", maxSessionDurationS)
	}
	if opts.AdvanceDelay < 0 || opts.AdvanceDelay > maxAdvanceDelayMilli*time.Millisecond {
		return fmt.Errorf("--advance-delay must be between 0 and %d", maxAdvanceDelayMilli)
	}
	if opts.ToneSeconds <= 0 {
		return fmt.Errorf("--tone must be > 0")
	}
	if opts.FocusWindow < 0 {
		return fmt.Errorf("--focus-window must be >= 0")
	}
	if opts.FocusFactor < 0 {
		return fmt.Errorf("--focus-factor must be >= 0")
	}
	return nil
}

// buildCue assembles the feedback cue for mode. The recorder is returned
// separately so the caller can flush it after the program exits.
func buildCue(opts playOptions, bellOut io.Writer) (session.ToneCue, *audio.MIDIRecorder) {
	var recorder *audio.MIDIRecorder
	if opts.Audio == audio.ModeMIDI || opts.Audio == audio.ModeBoth {
		recorder = audio.NewMIDIRecorder(opts.MIDIOut, nil)
	}
	switch opts.Audio {
	case audio.ModeBell:
		return audio.NewBell(bellOut), nil
	case audio.ModeMIDI:
		return recorder, recorder
	case audio.ModeBoth:
		return audio.Multi{audio.NewBell(bellOut), recorder}, recorder
	default:
		return audio.Off{}, nil
	}
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsClef, "clef", "", "clef filter (treble or bass)")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print a text report instead of the TUI")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveStatsConfig(statsClef, statsSince, statsLast)
	if err != nil {
		return err
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	fd := int(os.Stdout.Fd())
	if statsPlain || !term.IsTerminal(fd) {
		report, err := stats.BuildReport(context.Background(), st, cfg)
		if err != nil {
			return fmt.Errorf("failed to load stats: %w", err)
		}
		if err := stats.RenderReport(cmd.OutOrStdout(), report, plainWidth(fd)-len("Score trend: []")); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}

	program := tea.NewProgram(statsui.NewModel(st, cfg), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func resolveStatsConfig(clef, since string, last int) (model.StatsConfig, error) {
	var cfg model.StatsConfig
	if strings.TrimSpace(clef) != "" {
		parsed, err := model.ParseClef(clef)
		if err != nil {
			return model.StatsConfig{}, fmt.Errorf("--clef: %w", err)
		}
		cfg.Clef = parsed
	}
	if since != "" {
		parsed, err := time.ParseInLocation("2006-01-02", since, time.Local)
		if err != nil {
			return model.StatsConfig{}, fmt.Errorf("invalid --since value: %w", err)
		}
		cfg.Since = &parsed
	}
	if last < 0 {
		return model.StatsConfig{}, fmt.Errorf("--last must be >= 0")
	}
	cfg.Last = last
	return cfg, nil
}

func plainWidth(fd int) int {
	if !term.IsTerminal(fd) {
		return defaultPlainWidth
	}
	width, _, err := term.GetSize(fd)
	if err != nil || width <= 0 {
		return defaultPlainWidth
	}
	return width
}

func newNotesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notes",
		Short: "List the notes quizzed for each clef",
		Args:  cobra.NoArgs,
		RunE:  runNotesCmd,
	}
	cmd.Flags().StringVar(&notesClef, "clef", "", "only list this clef")
	return cmd
}

func runNotesCmd(cmd *cobra.Command, _ []string) error {
	clefs := []model.Clef{model.Treble, model.Bass}
	if strings.TrimSpace(notesClef) != "" {
		clef, err := model.ParseClef(notesClef)
		if err != nil {
			return fmt.Errorf("--clef: %w", err)
		}
		clefs = []model.Clef{clef}
	}
	return writeNotes(cmd.OutOrStdout(), catalog.Default(), clefs)
}

func writeNotes(w io.Writer, cat *catalog.Catalog, clefs []model.Clef) error {
	for i, clef := range clefs {
		notes, err := cat.Notes(clef)
		if err != nil {
			return err
		}
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
		}
		if _, err := fmt.Fprintf(w, "%s (%d notes)\n", clef, len(notes)); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		for _, n := range notes {
			if _, err := fmt.Fprintf(w, "  %-3s %8.2f Hz  midi %d\n", n, catalog.Frequency(n), catalog.MIDIKey(n)); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
		}
	}
	return nil
}

func newBestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "best",
		Short: "Print the high score",
		Args:  cobra.NoArgs,
		RunE:  runBestCmd,
	}
}

func runBestCmd(cmd *cobra.Command, _ []string) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	score, err := st.HighScore(context.Background())
	if err != nil {
		return fmt.Errorf("failed to load high score: %w", err)
	}
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), score); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# notetutor configuration
# Uncomment a value to enable it. CLI flags override config values.

[quiz]
# clef = %q            # treble or bass
# duration = %d              # Session length in seconds
# advance-delay-ms = %d     # Pause before the next note (0 = immediate)
# tone-seconds = %.1f        # Feedback tone length
# audio = %q             # bell, midi, both or off
# midi-out = ""              # MIDI file for recorded tones (default: data dir)
# focus-missed = false       # Bias notes toward recent mistakes
# focus-window = %d          # Recent sessions scanned for mistakes
# focus-factor = %.1f        # Extra weight for missed notes
`,
		defaultClef,
		defaultDuration,
		defaultAdvanceDelay,
		defaultToneSeconds,
		defaultAudio,
		defaultFocusWindow,
		defaultFocusFactor,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
