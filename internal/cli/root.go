package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lecheel/lrc-maker/internal/config"
	"github.com/lecheel/lrc-maker/internal/document"
	"github.com/lecheel/lrc-maker/internal/editor"
	"github.com/lecheel/lrc-maker/internal/logging"
	"github.com/lecheel/lrc-maker/internal/lrc"
	"github.com/lecheel/lrc-maker/internal/player"
)

var (
	verbose    bool
	configPath string
	logger     *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "lrc-maker [file.lrc]",
	Short: "Interactive LRC editor synced to your media player",
	Long: `lrc-maker edits synchronized lyrics (.lrc) files against whatever
MPRIS-capable media player is currently running.

Play the track in your player, open its lyrics here, and press space
on each line as it is sung: the current playback position is captured
onto the line. With no file argument the path is derived from the
playing track.

The editor works without a player too; Sync-mode captures simply
become no-ops until one appears on the bus.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEdit,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Write a debug log file")
	rootCmd.PersistentFlags().
		StringVar(&configPath, "config", "", "Config file path (default: "+config.DefaultPath()+")")
	rootCmd.Flags().
		Int("poll-interval", 0, "Player poll interval in milliseconds (overrides config)")
}

func runEdit(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if ms, _ := cmd.Flags().GetInt("poll-interval"); ms > 0 {
		cfg.PollIntervalMs = ms
	}

	logger, err = logging.NewFileLogger(cfg.LogFile, verbose)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer logger.Sync()

	client := player.NewMPRIS(cfg.PreferredPlayers, cfg.PollInterval(), logger)
	if err := client.Connect(); err != nil {
		// recoverable: the editor runs without a player and the
		// client keeps retrying discovery in the background
		logger.Warnw("player not reachable at startup", "error", err)
	}
	defer client.Close()

	path, err := resolvePath(args, client)
	if err != nil {
		return err
	}

	lines, notice, err := loadDocument(path)
	if err != nil {
		return err
	}
	doc := document.New(path, lines)

	logger.Infow("editing",
		"path", path,
		"lines", doc.Len(),
		"poll_interval", cfg.PollInterval().String(),
	)

	return editor.Run(doc, client, cfg.PollInterval(), logger, notice)
}

// resolvePath picks the .lrc path: the positional argument when
// given, otherwise the playing track's file with its extension
// swapped.
func resolvePath(args []string, client player.Client) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	track := client.TrackPath()
	if track == "" {
		return "", errors.New(
			"no file given and no local track playing to derive one from")
	}
	return strings.TrimSuffix(track, filepath.Ext(track)) + ".lrc", nil
}

// loadDocument reads path if it exists. A malformed file degrades to
// an empty document bound to the same path, with a notice for the
// status line; only real I/O failures abort startup.
func loadDocument(path string) ([]lrc.Line, string, error) {
	lines, err := lrc.LoadFile(path)
	if err == nil {
		return lines, "", nil
	}

	if errors.Is(err, os.ErrNotExist) {
		return nil, "new file", nil
	}

	var perr *lrc.ParseError
	if errors.As(err, &perr) {
		return nil, fmt.Sprintf("load failed: %v (starting empty)", perr), nil
	}

	return nil, "", err
}
