package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/andresmejia3/facewatch/internal/detect"
	"github.com/andresmejia3/facewatch/internal/display"
	"github.com/andresmejia3/facewatch/internal/overlay"
	"github.com/andresmejia3/facewatch/internal/player"
	"github.com/andresmejia3/facewatch/internal/utils"
	"github.com/spf13/cobra"
)

var playOpts Options

var playCmd = &cobra.Command{
	Use:   "play <video_path>",
	Short: "Play a video with the largest face highlighted",
	Long: `Plays a video in a window, drawing a box around the largest detected face.

Keys: space play/pause, a/d skip back/forward, c clear the edited box, q or Esc quit.
When resuming from pause you are offered to correct the box on the terminal.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		return runPlay(cmd.Context(), args[0], playOpts)
	},
}

func init() {
	addBackendFlags(playCmd, &playOpts)
	playCmd.Flags().BoolVarP(&playOpts.Buffered, "buffered", "b", false, "Annotate the whole video before playback (enables long skips)")
	playCmd.Flags().BoolVarP(&playOpts.Paused, "paused", "p", false, "Start paused")
	playCmd.Flags().BoolVar(&playOpts.NoLabels, "no-labels", false, "Do not label box corners with coordinates")
	rootCmd.AddCommand(playCmd)
}

func runPlay(ctx context.Context, path string, opts Options) error {
	cfg, err := resolveConfig(Cfg, opts)
	if err != nil {
		utils.ShowError("Invalid configuration", err, nil)
		return err
	}
	if err := validateInput(path); err != nil {
		utils.ShowError("Invalid input", err, nil)
		return err
	}
	if err := validateCascade(cfg); err != nil {
		utils.ShowError("Invalid cascade", err, nil)
		return err
	}

	detector, closer, err := newDetector(cfg)
	if err != nil {
		utils.ShowError("Failed to load face detector", err, nil)
		return err
	}
	if closer != nil {
		defer closer.Close()
	}

	renderer := overlay.NewRenderer()
	renderer.Labels = cfg.Labels

	mode, skip := player.Streaming, cfg.StreamingSkip
	if opts.Buffered {
		mode, skip = player.Buffered, cfg.BufferedSkip
	}

	window := display.New("facewatch: "+filepath.Base(path), cfg.WindowWidth, cfg.WindowHeight, log)
	defer window.Close()

	ctrl := player.New(player.Options{Mode: mode, SkipFrames: skip, StartPaused: opts.Paused},
		newOpener(ctx, cfg), detect.NewLocator(detector), renderer, window)
	ctrl.SetLogger(log)
	ctrl.SetEditor(newPromptEditor(os.Stdin, os.Stderr))

	var onProgress func(done, total int)
	finish := func() {}
	if mode == player.Buffered {
		onProgress, finish = newProgress("🎞️  Annotating")
	}
	err = ctrl.Open(path, onProgress)
	finish()
	if err != nil {
		utils.ShowError("Failed to open video", err, nil)
		return err
	}
	defer ctrl.Close()

	fmt.Fprintf(os.Stderr, "▶️  %s (%d frames, %s mode)\n", path, ctrl.Total(), modeName(mode))

	loop := player.NewLoop(ctrl, window, func(err error) {
		if errors.Is(err, player.ErrInvalidInput) {
			fmt.Fprintf(os.Stderr, "⚠️  %v\n", err)
			return
		}
		log.WithError(err).Warn("playback error")
	})
	loop.Period = time.Duration(cfg.TickMillis) * time.Millisecond

	if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func modeName(m player.Mode) string {
	if m == player.Buffered {
		return "buffered"
	}
	return "streaming"
}
