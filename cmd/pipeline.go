package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/andresmejia3/facewatch/internal/config"
	"github.com/andresmejia3/facewatch/internal/detect"
	"github.com/andresmejia3/facewatch/internal/detect/haar"
	"github.com/andresmejia3/facewatch/internal/source"
	"github.com/andresmejia3/facewatch/internal/source/capture"
	"github.com/andresmejia3/facewatch/internal/types"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var errNoCascade = errors.New("no cascade file configured (use --cascade or " + config.CascadeEnv + ")")

// addBackendFlags registers the decoder and detector flags shared by commands.
func addBackendFlags(cmd *cobra.Command, opts *Options) {
	cmd.Flags().StringVar(&opts.Decoder, "decoder", "", "Video decoder: gocv or ffmpeg (default from config)")
	cmd.Flags().StringVar(&opts.Detector, "detector", "", "Face detector: haar or pigo (default from config)")
	cmd.Flags().StringVarP(&opts.CascadePath, "cascade", "c", "", "Path to the cascade model file")
}

// resolveConfig copies explicitly set flags over the loaded configuration.
func resolveConfig(base *config.Config, opts Options) (*config.Config, error) {
	if base == nil {
		base = config.DefaultConfig()
	}
	cfg := *base
	if opts.Decoder != "" {
		cfg.Decoder = opts.Decoder
	}
	if opts.Detector != "" {
		cfg.Detector = opts.Detector
	}
	if opts.CascadePath != "" {
		cfg.CascadePath = opts.CascadePath
	}
	if opts.NoLabels {
		cfg.Labels = false
	}
	if opts.OutputDir != "" {
		cfg.OutputDir = opts.OutputDir
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validateInput ensures path names a readable file.
func validateInput(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("input file does not exist: %w", err)
		}
		return fmt.Errorf("unable to access input file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("input path %s is a directory, expected a file", path)
	}
	return nil
}

func validateCascade(cfg *config.Config) error {
	if cfg.CascadePath == "" {
		return errNoCascade
	}
	return validateInput(cfg.CascadePath)
}

// newDetector builds the configured backend. The closer, when non-nil, releases native resources.
func newDetector(cfg *config.Config) (detect.Detector, io.Closer, error) {
	switch cfg.Detector {
	case config.DetectorPigo:
		p, err := detect.LoadPigo(cfg.CascadePath, detect.PigoParams{
			MinSize:      cfg.MinSize,
			MaxSize:      cfg.MaxSize,
			ShiftFactor:  cfg.ShiftFactor,
			ScaleFactor:  cfg.ScaleFactor,
			IoUThreshold: cfg.IoUThreshold,
			MinQuality:   float32(cfg.MinQuality),
		})
		return p, nil, err
	default:
		c, err := haar.New(cfg.CascadePath, haar.Params{
			ScaleFactor:  cfg.ScaleFactor,
			MinNeighbors: cfg.MinNeighbors,
			MinSize:      cfg.MinSize,
		})
		if err != nil {
			return nil, nil, err
		}
		return c, c, nil
	}
}

// newOpener picks still-image decoding by extension, otherwise the configured video decoder.
func newOpener(ctx context.Context, cfg *config.Config) source.Opener {
	return func(path string) (source.Source, error) {
		if source.IsImage(path) {
			return source.OpenImage(path)
		}
		if cfg.Decoder == config.DecoderFFmpeg {
			return source.OpenFFmpeg(ctx, path)
		}
		return capture.Open(path)
	}
}

// newProgress returns a ProgressFunc drawing a bar on stderr, and a func to finish it.
// The bar is created on the first report, once the frame count is known.
func newProgress(description string) (types.ProgressFunc, func()) {
	var bar *progressbar.ProgressBar
	report := func(done, total int) {
		if bar == nil {
			max := total
			if max <= 0 {
				max = -1 // spinner when the count is unknown
			}
			bar = progressbar.NewOptions(max,
				progressbar.OptionSetDescription(description),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionShowCount(),
			)
		}
		bar.Set(done)
	}
	finish := func() {
		if bar != nil {
			bar.Finish()
			fmt.Fprintln(os.Stderr)
		}
	}
	return report, finish
}
