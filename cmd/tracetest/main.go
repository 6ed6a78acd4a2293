// Command tracetest runs text line tracing on a scanned page image and
// outputs the detected curves.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"gopkg.in/yaml.v3"

	"page-tracer/internal/trace"
	"page-tracer/pkg/geometry"

	_ "golang.org/x/image/tiff"
)

// config mirrors trace.Options for the optional YAML parameter file.
type config struct {
	BlurSigmaH         float64 `yaml:"blur_sigma_h"`
	BlurSigmaV         float64 `yaml:"blur_sigma_v"`
	ErodeWindow        int     `yaml:"erode_window"`
	MaskTolerance      uint8   `yaml:"mask_tolerance"`
	PeakWindowW        int     `yaml:"peak_window_w"`
	PeakWindowH        int     `yaml:"peak_window_h"`
	SeedDilation       int     `yaml:"seed_dilation"`
	TransitionAngleDeg float64 `yaml:"transition_angle_deg"`
	CurvatureAngleDeg  float64 `yaml:"curvature_angle_deg"`
	MaxExtension       float64 `yaml:"max_extension"`
	RefineIterations   int     `yaml:"refine_iterations"`
}

func loadConfig(path string) (trace.Options, error) {
	opts := trace.DefaultOptions()
	data, err := os.ReadFile(path)
	if err != nil {
		return opts, err
	}
	cfg := config{
		BlurSigmaH:         opts.BlurSigmaH,
		BlurSigmaV:         opts.BlurSigmaV,
		ErodeWindow:        opts.ErodeWindow,
		MaskTolerance:      opts.MaskTolerance,
		PeakWindowW:        opts.PeakWindowW,
		PeakWindowH:        opts.PeakWindowH,
		SeedDilation:       opts.SeedDilation,
		TransitionAngleDeg: opts.TransitionAngleDeg,
		CurvatureAngleDeg:  opts.CurvatureAngleDeg,
		MaxExtension:       opts.MaxExtension,
		RefineIterations:   opts.RefineIterations,
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return opts, err
	}
	opts.BlurSigmaH = cfg.BlurSigmaH
	opts.BlurSigmaV = cfg.BlurSigmaV
	opts.ErodeWindow = cfg.ErodeWindow
	opts.MaskTolerance = cfg.MaskTolerance
	opts.PeakWindowW = cfg.PeakWindowW
	opts.PeakWindowH = cfg.PeakWindowH
	opts.SeedDilation = cfg.SeedDilation
	opts.TransitionAngleDeg = cfg.TransitionAngleDeg
	opts.CurvatureAngleDeg = cfg.CurvatureAngleDeg
	opts.MaxExtension = cfg.MaxExtension
	opts.RefineIterations = cfg.RefineIterations
	return opts, nil
}

// dirSink writes every debug image as a numbered PNG into a directory.
type dirSink struct {
	dir string
	n   int
}

func (s *dirSink) Add(img image.Image, name string) {
	s.n++
	path := filepath.Join(s.dir, fmt.Sprintf("%02d_%s.png", s.n, name))
	if err := imaging.Save(img, path); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to save debug image %s: %v\n", path, err)
	}
}

// curveSink collects tracer output for serialization.
type curveSink struct {
	LeftBound  []geometry.Point2D   `json:"left_bound"`
	RightBound []geometry.Point2D   `json:"right_bound"`
	Curves     [][]geometry.Point2D `json:"curves"`
}

func (s *curveSink) SetVerticalBounds(left, right geometry.Line) {
	s.LeftBound = []geometry.Point2D{left.P1, left.P2}
	s.RightBound = []geometry.Point2D{right.P1, right.P2}
}

func (s *curveSink) AddHorizontalCurve(polyline []geometry.Point2D) {
	s.Curves = append(s.Curves, polyline)
}

func main() {
	imagePath := flag.String("image", "", "Path to page image (TIFF, PNG, or JPEG)")
	dpi := flag.Int("dpi", 300, "Image DPI")
	configPath := flag.String("config", "", "Optional YAML file with tracing parameters")
	debugDir := flag.String("debug-dir", "", "Directory for intermediate images (optional)")
	outPath := flag.String("out", "", "Write curves as JSON to this file (default stdout)")
	flag.Parse()

	if *imagePath == "" {
		fmt.Println("Usage: tracetest -image <path> [-dpi 300] [-config params.yaml] [-debug-dir dir] [-out curves.json]")
		os.Exit(1)
	}

	img, err := imaging.Open(*imagePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load image: %v\n", err)
		os.Exit(1)
	}
	bounds := img.Bounds()
	fmt.Printf("Loaded image: %dx%d pixels at %d DPI\n", bounds.Dx(), bounds.Dy(), *dpi)

	opts := trace.DefaultOptions()
	if *configPath != "" {
		opts, err = loadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
	}

	tracer := trace.New(opts)
	if *debugDir != "" {
		if err := os.MkdirAll(*debugDir, 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create debug dir: %v\n", err)
			os.Exit(1)
		}
		tracer.Debug = &dirSink{dir: *debugDir}
	}

	sink := &curveSink{}
	if err := tracer.Trace(img, trace.DPI{Horizontal: *dpi, Vertical: *dpi}, bounds, sink); err != nil {
		fmt.Fprintf(os.Stderr, "Tracing failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Traced %d text line curves\n", len(sink.Curves))
	for i, curve := range sink.Curves {
		fmt.Printf("  curve %d: %d points, x %.1f..%.1f\n",
			i, len(curve), curve[0].X, curve[len(curve)-1].X)
	}

	out, err := json.MarshalIndent(sink, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to encode curves: %v\n", err)
		os.Exit(1)
	}
	if *outPath == "" {
		fmt.Println(string(out))
		return
	}
	if err := os.WriteFile(*outPath, out, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", *outPath, err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s\n", *outPath)
}
