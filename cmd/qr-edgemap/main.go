package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"github.com/ironsheep/qr-edgemap/internal/config"
	"github.com/ironsheep/qr-edgemap/internal/display"
	"github.com/ironsheep/qr-edgemap/internal/edgemap"
	"github.com/ironsheep/qr-edgemap/internal/imaging"
	"github.com/ironsheep/qr-edgemap/internal/logger"
	"github.com/ironsheep/qr-edgemap/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// pipeName selects stdin or stdout in place of a file path.
const pipeName = "-"

var errUsage = errors.New("invalid usage")

const helpText = `qr-edgemap - binary edge maps for locating QR codes

Usage:
  qr-edgemap [flags]            Run the pipeline on one image
  qr-edgemap serve [flags]      Start the MCP server on stdin/stdout
  qr-edgemap version            Print version information
  qr-edgemap help               Print this help message

Run "qr-edgemap -h" or "qr-edgemap serve -h" for the flags.

Environment variables:
  QR_EDGEMAP_LOG_LEVEL=debug    Enable debug logging
`

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "version":
			fmt.Printf("qr-edgemap %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "help":
			fmt.Print(helpText)
			return
		case "serve":
			if err := serve(os.Args[2:], os.Stdin, os.Stdout, os.Stderr); err != nil {
				exit(err)
			}
			return
		}
	}

	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		exit(err)
	}
}

func exit(err error) {
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if errors.Is(err, errUsage) {
		os.Exit(2)
	}
	logger.WithError(err).Error("qr-edgemap failed")
	os.Exit(1)
}

// options holds the parsed command line of a pipeline run.
type options struct {
	in        string
	out       string
	overlay   string
	plot      string
	plotStage string
	settings  config.Settings
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("qr-edgemap", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		source      = fs.String("in", pipeName, "Source image, or - for stdin")
		destination = fs.String("out", pipeName, "Destination PNG of the binary edge map, or - for stdout")
		configPath  = fs.String("config", "", "JSON or YAML configuration file")
		iterations  = fs.Int("iterations", edgemap.DefaultIterations, "Number of 3x3 box smoothing passes")
		threshold   = fs.Int("threshold", edgemap.DefaultThreshold, "Binarization cutoff (0-255)")
		formula     = fs.String("formula", edgemap.SumOfAbsolutes.String(), "Gradient magnitude formula: sum-abs or euclidean")
		parallel    = fs.Bool("parallel", false, "Compute rows concurrently")
		maxDim      = fs.Int("max-dim", 0, "Shrink larger images to fit this many pixels per side first (0 disables)")
		overlay     = fs.String("overlay", "", "Also write the edge map with the marker region outlined to this file")
		plotPath    = fs.String("plot", "", "Also write a figure of -plot-stage on pixel axes to this file (.png, .svg or .pdf)")
		plotStage   = fs.String("plot-stage", string(edgemap.StageBinary), "Stage shown by -plot, or input for the source image")
		region      = fs.String("region", "", "Marker region as x,y,width,height")
		color       = fs.String("color", "", "Marker region outline color, e.g. #00ff00")
		lineWidth   = fs.Int("line-width", 0, "Marker region outline width in pixels")
		verbose     = fs.Bool("v", false, "Verbose logging")
	)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: qr-edgemap [flags]\n\nFlags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, err
		}
		return nil, fmt.Errorf("%v: %w", err, errUsage)
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments %v: %w", fs.Args(), errUsage)
	}
	if *verbose {
		logger.SetLevel("debug")
	}

	settings, err := loadSettings(*configPath)
	if err != nil {
		return nil, err
	}

	// Flags given explicitly override the configuration file.
	var ferr error
	fs.Visit(func(f *flag.Flag) {
		if ferr != nil {
			return
		}
		switch f.Name {
		case "iterations":
			settings.Pipeline.Iterations = *iterations
		case "threshold":
			settings.Pipeline.Threshold = *threshold
		case "formula":
			settings.Pipeline.Formula, ferr = edgemap.ParseMagnitudeFormula(*formula)
		case "parallel":
			settings.Pipeline.Parallel = *parallel
		case "max-dim":
			settings.MaxDimension = *maxDim
		case "region":
			settings.Overlay.Region, ferr = config.ParseRegion(*region)
		case "color":
			settings.Overlay.Color = *color
		case "line-width":
			settings.Overlay.LineWidth = *lineWidth
		}
	})
	if ferr != nil {
		return nil, ferr
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if _, err := imaging.ParseColor(settings.Overlay.Color); err != nil {
		return nil, err
	}

	stage, err := imaging.ParsePlotStage(*plotStage)
	if err != nil {
		return nil, err
	}
	if *plotPath != "" && stage != imaging.InputStage {
		settings.Pipeline.KeepStages = true
	}

	return &options{
		in:        *source,
		out:       *destination,
		overlay:   *overlay,
		plot:      *plotPath,
		plotStage: stage,
		settings:  settings,
	}, nil
}

func loadSettings(path string) (config.Settings, error) {
	settings := config.Defaults()
	if path == "" {
		return settings, nil
	}
	f, err := config.Load(path)
	if err != nil {
		return settings, err
	}
	if err := f.Apply(&settings); err != nil {
		return settings, fmt.Errorf("config %s: %w", path, err)
	}
	return settings, nil
}

// run executes one pipeline run as described by args.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	if opts.in == pipeName && isTerminal(stdin) {
		return errors.New("`-` should be used with a pipe for stdin")
	}
	if opts.out == pipeName && isTerminal(stdout) {
		return errors.New("`-` should be used with a pipe for stdout")
	}

	start := time.Now()
	img, err := readImage(opts.in, stdin)
	if err != nil {
		return err
	}
	ch := imaging.ScaledChannels(img, opts.settings.MaxDimension)

	res, err := edgemap.Run(ch, opts.settings.Pipeline)
	if err != nil {
		return err
	}

	if opts.out == pipeName {
		err = imaging.EncodeGrey(stdout, res.Binary)
	} else {
		err = imaging.WriteGrey(opts.out, res.Binary)
	}
	if err != nil {
		return err
	}

	if opts.overlay != "" {
		if err := writeOverlay(opts.overlay, res, opts.settings.Overlay); err != nil {
			return err
		}
	}
	if opts.plot != "" {
		if err := writePlot(opts.plot, opts.plotStage, ch, res, opts.settings.Overlay); err != nil {
			return err
		}
	}

	logger.WithFields(logrus.Fields{
		"run_id":        res.RunID,
		"width":         res.Width,
		"height":        res.Height,
		"edge_pixels":   res.EdgePixels,
		"edge_fraction": res.EdgeFraction,
		"elapsed":       time.Since(start),
	}).Info("edge map written")
	return nil
}

func readImage(path string, stdin io.Reader) (image.Image, error) {
	if path == pipeName {
		img, err := imaging.Decode(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to decode stdin: %w", err)
		}
		return img, nil
	}
	return imaging.Open(path)
}

func writeOverlay(path string, res *edgemap.Result, o config.Overlay) error {
	grey, err := imaging.GreyImage(res.Binary)
	if err != nil {
		return err
	}
	c, err := imaging.ParseColor(o.Color)
	if err != nil {
		return err
	}
	return imaging.Save(path, imaging.DrawRegion(grey, o.Region, c, o.LineWidth))
}

func writePlot(path, stage string, ch edgemap.Channels, res *edgemap.Result, o config.Overlay) error {
	img, err := imaging.PlotImage(ch, res.Stages, stage)
	if err != nil {
		return err
	}
	c, err := imaging.ParseColor(o.Color)
	if err != nil {
		return err
	}

	popts := display.DefaultOptions()
	popts.Title = stage
	popts.Region = o.Region
	popts.RegionColor = c
	popts.LineWidth = float64(o.LineWidth)

	p, err := display.Figure(img, popts)
	if err != nil {
		return err
	}
	return display.Save(p, popts, path)
}

// serve starts the MCP server over stdin and stdout.
func serve(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("qr-edgemap serve", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "JSON or YAML configuration file with the default settings")
	verbose := fs.Bool("v", false, "Verbose logging")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%v: %w", err, errUsage)
	}
	if *verbose {
		logger.SetLevel("debug")
	}

	settings, err := loadSettings(*configPath)
	if err != nil {
		return err
	}

	server.Version = Version
	logger.WithFields(logrus.Fields{
		"version": Version,
		"built":   BuildTime,
		"commit":  GitCommit,
	}).Debug("starting MCP server")

	srv := server.NewWithSettings(settings)
	return srv.Serve(stdin, stdout)
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
