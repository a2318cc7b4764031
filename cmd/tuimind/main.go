// Package main provides the CLI entrypoint for tuimind.
package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/tuimind/internal/config"
	"github.com/verte-zerg/tuimind/internal/difficulty"
	"github.com/verte-zerg/tuimind/internal/logging"
	"github.com/verte-zerg/tuimind/internal/model"
	"github.com/verte-zerg/tuimind/internal/progress"
	"github.com/verte-zerg/tuimind/internal/sched"
	"github.com/verte-zerg/tuimind/internal/stats"
	"github.com/verte-zerg/tuimind/internal/store"
	"github.com/verte-zerg/tuimind/internal/tui"
)

const (
	defaultLogLevel = "info"
	defaultFormat   = "json"
)

var (
	playGame    string
	playLevel   int
	playProfile string

	statsGame    string
	statsSince   string
	statsLast    int
	statsProfile string

	exportFormat  string
	exportProfile string

	resetProfile string
	resetYes     bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tuimind",
		Short:         "TUI cognitive training games",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPlayCmd,
	}

	rootCmd.Flags().StringVar(&playGame, "game", "", "open this game directly (sequence, matching, spatial)")
	rootCmd.Flags().IntVar(&playLevel, "level", 0, "start level 1-50 (default: saved level)")
	rootCmd.Flags().StringVar(&playProfile, "profile", "", "progress profile (default: default)")

	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newResetCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

// app holds the resources shared by every command.
type app struct {
	env      config.EnvConfig
	file     config.FileConfig
	store    *store.Store
	logger   *slog.Logger
	closeLog func() error
}

func openApp() (*app, error) {
	envCfg, err := config.LoadEnv()
	if err != nil {
		return nil, err
	}
	fileCfg, err := config.LoadConfig(envCfg.ResolveConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logPath := firstNonEmpty(envCfg.LogFile, deref(fileCfg.Log.File), config.DefaultLogPath())
	logLevel := firstNonEmpty(envCfg.LogLevel, deref(fileCfg.Log.Level), defaultLogLevel)
	logger, closeLog, err := logging.OpenFile(logPath, logLevel)
	if err != nil {
		return nil, err
	}

	dbPath := envCfg.ResolveDBPath()
	st, err := store.Open(dbPath)
	if err != nil {
		_ = closeLog()
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	logger.Debug("opened store", "path", dbPath)
	return &app{env: envCfg, file: fileCfg, store: st, logger: logger, closeLog: closeLog}, nil
}

func (a *app) Close() {
	if cerr := a.store.Close(); cerr != nil {
		logErrf("failed to close db: %v\n", cerr)
	}
	if cerr := a.closeLog(); cerr != nil {
		logErrf("failed to close log file: %v\n", cerr)
	}
}

// profile resolves the profile name: flag, then env, then config file.
func (a *app) profile(cmd *cobra.Command, flagValue string) string {
	if cmd.Flags().Changed("profile") && flagValue != "" {
		return flagValue
	}
	return firstNonEmpty(a.env.Profile, deref(a.file.Play.Profile), progress.DefaultProfile)
}

func (a *app) tracker(profile string) *progress.Tracker {
	return progress.New(a.store, progress.WithProfile(profile), progress.WithLogger(a.logger))
}

func runPlayCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	applyStringConfig(cmd, "game", &playGame, a.file.Play.Game)
	applyIntConfig(cmd, "level", &playLevel, a.file.Play.Level)

	cfg, err := buildPlayConfig(playGame, playLevel, a.profile(cmd, playProfile))
	if err != nil {
		return err
	}

	clock := sched.SystemClock{}
	m := tui.NewModel(tui.Options{
		Tracker:  a.tracker(cfg.Profile),
		Recorder: a.store,
		Queue:    sched.NewQueue(clock),
		Clock:    clock,
		Logger:   a.logger,
		Game:     cfg.Game,
		Level:    cfg.Level,
	})
	a.logger.Info("starting play", "profile", cfg.Profile, "game", cfg.Game, "level", cfg.Level)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func buildPlayConfig(game string, level int, profile string) (model.PlayConfig, error) {
	cfg := model.PlayConfig{Level: level, Profile: profile}
	if game != "" {
		g, err := model.ParseGameType(game)
		if err != nil {
			return model.PlayConfig{}, err
		}
		cfg.Game = g
	}
	if level != 0 && (level < difficulty.MinLevel || level > difficulty.MaxLevel) {
		return model.PlayConfig{}, fmt.Errorf("--level must be between %d and %d", difficulty.MinLevel, difficulty.MaxLevel)
	}
	return cfg, nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show progress and recent sessions",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsGame, "game", "", "game filter")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().StringVar(&statsProfile, "profile", "", "progress profile")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	cfg, err := buildStatsConfig(statsGame, statsSince, statsLast, a.profile(cmd, statsProfile))
	if err != nil {
		return err
	}
	report, err := stats.BuildReport(cmd.Context(), a.tracker(cfg.Profile), a.store, cfg)
	if err != nil {
		return err
	}
	return stats.Render(cmd.OutOrStdout(), report, 0)
}

func buildStatsConfig(game, since string, last int, profile string) (model.StatsConfig, error) {
	if last < 0 {
		return model.StatsConfig{}, fmt.Errorf("--last must be >= 0")
	}
	cfg := model.StatsConfig{Profile: profile, Last: last}
	if game != "" {
		g, err := model.ParseGameType(game)
		if err != nil {
			return model.StatsConfig{}, err
		}
		cfg.Game = g
	}
	if since != "" {
		parsed, err := time.ParseInLocation("2006-01-02", since, time.Local)
		if err != nil {
			return model.StatsConfig{}, fmt.Errorf("invalid --since value: %w", err)
		}
		cfg.Since = &parsed
	}
	return cfg, nil
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export progress and session history",
		Args:  cobra.NoArgs,
		RunE:  runExportCmd,
	}
	cmd.Flags().StringVar(&exportFormat, "format", defaultFormat, "output format (json, yaml)")
	cmd.Flags().StringVar(&exportProfile, "profile", "", "progress profile")
	return cmd
}

func runExportCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	profile := a.profile(cmd, exportProfile)
	report, err := stats.BuildReport(cmd.Context(), a.tracker(profile), a.store, model.StatsConfig{Profile: profile})
	if err != nil {
		return err
	}
	return stats.Export(cmd.OutOrStdout(), report, strings.ToLower(exportFormat))
}

func newResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete progress and history of a profile",
		Args:  cobra.NoArgs,
		RunE:  runResetCmd,
	}
	cmd.Flags().StringVar(&resetProfile, "profile", "", "progress profile")
	cmd.Flags().BoolVar(&resetYes, "yes", false, "do not ask for confirmation")
	return cmd
}

func runResetCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	profile := a.profile(cmd, resetProfile)
	if !resetYes {
		ok, err := confirm(cmd.InOrStdin(), cmd.OutOrStdout(), fmt.Sprintf("Delete all progress of profile %q?", profile))
		if err != nil {
			return err
		}
		if !ok {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
			return err
		}
	}

	ctx := cmd.Context()
	if err := a.tracker(profile).Reset(ctx); err != nil {
		return fmt.Errorf("failed to reset progress: %w", err)
	}
	if err := a.store.DeleteSessions(ctx, profile); err != nil {
		return fmt.Errorf("failed to delete history: %w", err)
	}
	a.logger.Info("profile reset", "profile", profile)
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Reset profile %q.\n", profile)
	return err
}

func confirm(in io.Reader, out io.Writer, question string) (bool, error) {
	if _, err := fmt.Fprintf(out, "%s [y/N] ", question); err != nil {
		return false, err
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
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
	envCfg, err := config.LoadEnv()
	if err != nil {
		return err
	}
	path := envCfg.ResolveConfigPath()
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
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# tuimind configuration
# Uncomment a value to enable it. CLI flags and TUIMIND_* variables override config values.

[play]
# game = "sequence"       # Open this game directly (sequence, matching, spatial)
# level = 0               # Start level %d-%d, 0 uses the saved level
# profile = %q       # Progress profile

[log]
# level = %q           # debug, info, warn, error
# file = %q
`,
		difficulty.MinLevel,
		difficulty.MaxLevel,
		progress.DefaultProfile,
		defaultLogLevel,
		config.DefaultLogPath(),
	)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
