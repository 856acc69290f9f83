package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// CascadeEnv names the environment variable consulted when CascadePath is empty.
const CascadeEnv = "FACEWATCH_CASCADE"

const (
	DecoderGocv   = "gocv"
	DecoderFFmpeg = "ffmpeg"

	DetectorHaar = "haar"
	DetectorPigo = "pigo"
)

// Config holds runtime configuration for decoding, detection and playback.
// Fields may be loaded from a JSON file and overridden by command-line flags.
type Config struct {
	Decoder     string `json:"decoder"`
	Detector    string `json:"detector"`
	CascadePath string `json:"cascade_path"`

	// Haar parameters
	ScaleFactor  float64 `json:"scale_factor"`
	MinNeighbors int     `json:"min_neighbors"`
	MinSize      int     `json:"min_size"`

	// Haar parameters for still images; zero size means no minimum
	ImageMinNeighbors int `json:"image_min_neighbors"`
	ImageMinSize      int `json:"image_min_size"`

	// Pigo parameters
	MaxSize      int     `json:"max_size"`
	ShiftFactor  float64 `json:"shift_factor"`
	IoUThreshold float64 `json:"iou_threshold"`
	MinQuality   float64 `json:"min_quality"`

	// Playback
	TickMillis    int  `json:"tick_millis"`
	StreamingSkip int  `json:"streaming_skip"`
	BufferedSkip  int  `json:"buffered_skip"`
	Labels        bool `json:"labels"`

	WindowWidth  int `json:"window_width"`
	WindowHeight int `json:"window_height"`

	OutputDir string `json:"output_dir"`
}

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	return &Config{
		Decoder:           DecoderGocv,
		Detector:          DetectorHaar,
		ScaleFactor:       1.1,
		MinNeighbors:      5,
		MinSize:           30,
		ImageMinNeighbors: 4,
		MaxSize:           1000,
		ShiftFactor:       0.1,
		IoUThreshold:      0.2,
		MinQuality:        5.0,
		TickMillis:        33,
		StreamingSkip:     1,
		BufferedSkip:      150,
		Labels:            true,
		WindowWidth:       1280,
		WindowHeight:      720,
		OutputDir:         ".",
	}
}

// Validate clamps numeric values to safe ranges and rejects unknown backends.
func (c *Config) Validate() error {
	switch c.Decoder {
	case DecoderGocv, DecoderFFmpeg:
	case "":
		c.Decoder = DecoderGocv
	default:
		return fmt.Errorf("unknown decoder %q (use %q or %q)", c.Decoder, DecoderGocv, DecoderFFmpeg)
	}
	switch c.Detector {
	case DetectorHaar, DetectorPigo:
	case "":
		c.Detector = DetectorHaar
	default:
		return fmt.Errorf("unknown detector %q (use %q or %q)", c.Detector, DetectorHaar, DetectorPigo)
	}
	if c.CascadePath == "" {
		c.CascadePath = os.Getenv(CascadeEnv)
	}

	if c.ScaleFactor <= 1 {
		c.ScaleFactor = 1.1
	}
	if c.MinNeighbors < 0 {
		c.MinNeighbors = 5
	}
	if c.MinSize <= 0 {
		c.MinSize = 30
	}
	if c.ImageMinNeighbors < 0 {
		c.ImageMinNeighbors = 4
	}
	if c.ImageMinSize < 0 {
		c.ImageMinSize = 0
	}
	if c.MaxSize < c.MinSize {
		c.MaxSize = 1000
	}
	if c.ShiftFactor <= 0 || c.ShiftFactor > 1 {
		c.ShiftFactor = 0.1
	}
	if c.IoUThreshold <= 0 || c.IoUThreshold > 1 {
		c.IoUThreshold = 0.2
	}
	if c.MinQuality < 0 {
		c.MinQuality = 5.0
	}
	if c.TickMillis <= 0 {
		c.TickMillis = 33
	}
	if c.StreamingSkip <= 0 {
		c.StreamingSkip = 1
	}
	if c.BufferedSkip <= 0 {
		c.BufferedSkip = 150
	}
	if c.WindowWidth <= 0 {
		c.WindowWidth = 1280
	}
	if c.WindowHeight <= 0 {
		c.WindowHeight = 720
	}
	if c.OutputDir == "" {
		c.OutputDir = "."
	}
	return nil
}

// Load reads configuration from the given JSON file path. A missing file yields
// DefaultConfig(). On a decode or validation error the defaults are returned with the error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, cfg.Validate()
		}
		return cfg, err
	}
	defer f.Close()
	if err := json.NewDecoder(f).Decode(cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("decode %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return DefaultConfig(), fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration to the given path in JSON format.
func (c *Config) Save(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}
