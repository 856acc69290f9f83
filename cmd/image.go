package cmd

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/andresmejia3/facewatch/internal/config"
	"github.com/andresmejia3/facewatch/internal/detect"
	"github.com/andresmejia3/facewatch/internal/display"
	"github.com/andresmejia3/facewatch/internal/overlay"
	"github.com/andresmejia3/facewatch/internal/source"
	"github.com/andresmejia3/facewatch/internal/types"
	"github.com/andresmejia3/facewatch/internal/utils"
	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"
)

var imageOpts Options

var imageCmd = &cobra.Command{
	Use:   "image <image_path>",
	Short: "Circle every face in a still image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		return runImage(cmd.Context(), args[0], imageOpts)
	},
}

func init() {
	addBackendFlags(imageCmd, &imageOpts)
	imageCmd.Flags().StringVarP(&imageOpts.OutputPath, "output", "o", "", "Save the annotated image to this path (nothing is saved by default)")
	imageCmd.Flags().BoolVarP(&imageOpts.Show, "show", "s", true, "Show the annotated image in a window")
	rootCmd.AddCommand(imageCmd)
}

func runImage(ctx context.Context, imagePath string, opts Options) error {
	cfg, err := resolveConfig(Cfg, opts)
	if err != nil {
		utils.ShowError("Invalid configuration", err, nil)
		return err
	}
	if err := validateImageFlags(imagePath, opts); err != nil {
		utils.ShowError("Invalid input", err, nil)
		return err
	}
	cfg = imageDetectorConfig(cfg)
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

	fmt.Fprintln(os.Stderr, "🔍 Analyzing faces...")
	frame, faces, err := annotateImage(detector, imagePath)
	if err != nil {
		utils.ShowError("Failed to read image file", err, nil)
		return err
	}
	if len(faces) == 0 {
		fmt.Println("❌ No faces detected in the provided image.")
	} else {
		printFaces(faces)
	}

	saved, err := saveAnnotated(frame, opts.OutputPath)
	if err != nil {
		utils.ShowError("Failed to save annotated image", err, nil)
		return err
	}
	if saved {
		fmt.Printf("✅ Annotated image saved to %s\n", opts.OutputPath)
	}

	if opts.Show {
		w := display.New("facewatch: "+filepath.Base(imagePath), cfg.WindowWidth, cfg.WindowHeight, log)
		defer w.Close()
		w.ShowImage(frame)
	}
	return nil
}

// annotateImage decodes a still image and circles every face the detector finds.
func annotateImage(d detect.Detector, imagePath string) (*image.RGBA, []types.BoundingBox, error) {
	src, err := source.OpenImage(imagePath)
	if err != nil {
		return nil, nil, err
	}
	defer src.Close()
	frame, err := src.Next()
	if err != nil {
		return nil, nil, err
	}
	faces := detect.NewLocator(d).LocateAll(frame)
	overlay.NewRenderer().Circles(frame, faces)
	return frame, faces, nil
}

func printFaces(faces []types.BoundingBox) {
	wOut := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(wOut, "FACE\tBOX (x, y, w, h)\tAREA")
	fmt.Fprintln(wOut, "----\t----------------\t----")
	for i, f := range faces {
		fmt.Fprintf(wOut, "%d\t%s\t%d\n", i+1, f, f.Area())
	}
	wOut.Flush()

	if best, ok := detect.Largest(faces); ok && len(faces) > 1 {
		fmt.Printf("⚠️  Multiple faces detected (%d). Largest is %s.\n", len(faces), best)
	}
}

// saveAnnotated writes frame only when an output path was requested.
func saveAnnotated(frame *image.RGBA, output string) (bool, error) {
	if output == "" {
		return false, nil
	}
	if err := imaging.Save(frame, output); err != nil {
		return false, err
	}
	return true, nil
}

// imageDetectorConfig swaps in the still-image Haar settings.
func imageDetectorConfig(cfg *config.Config) *config.Config {
	out := *cfg
	if out.Detector == config.DetectorHaar {
		out.MinNeighbors = cfg.ImageMinNeighbors
		out.MinSize = cfg.ImageMinSize
	}
	return &out
}

func validateImageFlags(imagePath string, opts Options) error {
	if err := validateInput(imagePath); err != nil {
		return err
	}
	if !source.IsImage(imagePath) {
		return fmt.Errorf("unsupported image format: %s", filepath.Ext(imagePath))
	}
	if opts.OutputPath != "" && !source.IsImage(opts.OutputPath) {
		return fmt.Errorf("output path must have an image extension, got %q", opts.OutputPath)
	}
	if !opts.Show && opts.OutputPath == "" {
		return fmt.Errorf("nothing to do: --show=false without --output")
	}
	return nil
}
