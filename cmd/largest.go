package cmd

import (
	"context"
	"fmt"

	"github.com/andresmejia3/facewatch/internal/detect"
	"github.com/andresmejia3/facewatch/internal/scan"
	"github.com/andresmejia3/facewatch/internal/utils"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var largestOpts Options

var largestCmd = &cobra.Command{
	Use:   "largest <video_path>",
	Short: "Find the largest face bounding box in a video",
	Long:  "Scans every frame and writes the largest primary face box to " + scan.ResultFile + ".",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		return runLargest(cmd.Context(), args[0], largestOpts)
	},
}

func init() {
	addBackendFlags(largestCmd, &largestOpts)
	largestCmd.Flags().StringVarP(&largestOpts.OutputDir, "out-dir", "o", "", "Directory for "+scan.ResultFile+" (default from config)")
	rootCmd.AddCommand(largestCmd)
}

func runLargest(ctx context.Context, path string, opts Options) error {
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

	onProgress, finish := newProgress("🔍 Scanning")
	s := &scan.Scanner{Open: newOpener(ctx, cfg), Locator: detect.NewLocator(detector), OnProgress: onProgress}
	rec, found, err := s.Scan(path)
	finish()
	if err != nil {
		utils.ShowError("Scan failed", err, nil)
		return err
	}

	if !found {
		fmt.Println("❌ No bounding boxes found.")
		return nil
	}

	out, err := scan.WriteRecord(cfg.OutputDir, rec.Box)
	if err != nil {
		utils.ShowError("Failed to write result", err, nil)
		return err
	}
	log.WithFields(logrus.Fields{"box": rec.Box.String(), "area": rec.Area}).Debug("largest box")
	fmt.Printf("📐 Largest bounding box %s (area %d) saved to %s\n", rec.Box, rec.Area, out)
	return nil
}
