package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/andresmejia3/facewatch/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Options holds shared configuration for the play, largest and image commands.
// Flags left unset fall back to the config file.
type Options struct {
	Decoder     string
	Detector    string
	CascadePath string
	Buffered    bool
	Paused      bool
	NoLabels    bool
	OutputDir   string
	OutputPath  string
	Show        bool
}

var (
	// Cfg is the configuration shared by subcommands, loaded in PersistentPreRunE.
	Cfg *config.Config
	// log is the process logger
	log = logrus.New()

	configPath string
	verbose    bool
)

// Version is the application version.
const Version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:     "facewatch",
	Short:   "Face highlighting video and image viewer",
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		log.SetOutput(os.Stderr)
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		if verbose {
			log.SetLevel(logrus.DebugLevel)
		} else {
			log.SetLevel(logrus.InfoLevel)
		}

		var err error
		Cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		log.WithFields(logrus.Fields{"config": configPath, "decoder": Cfg.Decoder, "detector": Cfg.Detector}).Debug("configuration loaded")
		return nil
	},
}

func Execute() {
	// Create a context that listens for Ctrl+C (SIGINT) or Kill (SIGTERM)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "facewatch.json", "Path to the JSON configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}
