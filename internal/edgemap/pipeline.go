package edgemap

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ironsheep/qr-edgemap/internal/grid"
	"github.com/ironsheep/qr-edgemap/internal/logger"
)

// Stage names an intermediate grid of the pipeline.
type Stage string

const (
	StageGreyscale  Stage = "greyscale"
	StageNormalized Stage = "normalized"
	StageVertical   Stage = "vertical"
	StageHorizontal Stage = "horizontal"
	StageMagnitude  Stage = "magnitude"
	StageSmoothed   Stage = "smoothed"
	StageStretched  Stage = "stretched"
	StageBinary     Stage = "binary"
)

// StageOrder lists the stages in the order they are produced.
var StageOrder = []Stage{
	StageGreyscale,
	StageNormalized,
	StageVertical,
	StageHorizontal,
	StageMagnitude,
	StageSmoothed,
	StageStretched,
	StageBinary,
}

// ParseStage returns the Stage with the given name.
func ParseStage(name string) (Stage, error) {
	s := Stage(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range StageOrder {
		if s == known {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown stage %q", name)
}

// Stages holds every intermediate grid of one run.
type Stages struct {
	Greyscale  *grid.IntGrid
	Normalized *grid.IntGrid
	Vertical   *grid.RealGrid
	Horizontal *grid.RealGrid
	Magnitude  *grid.RealGrid
	Smoothed   *grid.RealGrid
	Stretched  *grid.IntGrid
	Binary     *grid.IntGrid
}

// Real returns the grid for stage s as a RealGrid. Integer stages are
// converted; the returned grid never aliases the stored one.
func (st *Stages) Real(s Stage) (*grid.RealGrid, error) {
	switch s {
	case StageGreyscale:
		return grid.ToReal(st.Greyscale), nil
	case StageNormalized:
		return grid.ToReal(st.Normalized), nil
	case StageVertical:
		return st.Vertical.Clone(), nil
	case StageHorizontal:
		return st.Horizontal.Clone(), nil
	case StageMagnitude:
		return st.Magnitude.Clone(), nil
	case StageSmoothed:
		return st.Smoothed.Clone(), nil
	case StageStretched:
		return grid.ToReal(st.Stretched), nil
	case StageBinary:
		return grid.ToReal(st.Binary), nil
	default:
		return nil, fmt.Errorf("unknown stage %q", s)
	}
}

// Result is the outcome of one pipeline run.
type Result struct {
	// RunID identifies the run in log output.
	RunID string `json:"run_id"`

	Width  int `json:"width"`
	Height int `json:"height"`

	// Binary is the thresholded edge map with values in {0, 255}.
	Binary *grid.IntGrid `json:"-"`

	// EdgePixels counts Foreground pixels in Binary.
	EdgePixels int `json:"edge_pixels"`

	// EdgeFraction is EdgePixels divided by the pixel count.
	EdgeFraction float64 `json:"edge_fraction"`

	Config Config `json:"config"`

	// Stages is nil unless Config.KeepStages was set.
	Stages *Stages `json:"-"`
}

// Run converts an RGB image into a binary edge map.
//
// The sequence is greyscale, normalize, vertical and horizontal Sobel on the
// same normalized grid, combine, cfg.Iterations box smoothing passes,
// normalize, and threshold at cfg.Threshold. Input channels are validated
// first; nothing is computed for malformed input.
func Run(ch Channels, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := ch.Validate(); err != nil {
		return nil, err
	}

	w, h := ch.Size()
	res := &Result{
		RunID:  uuid.NewString(),
		Width:  w,
		Height: h,
		Config: cfg,
	}
	log := logger.WithFields(logrus.Fields{
		"run_id": res.RunID,
		"width":  w,
		"height": h,
	})
	started := time.Now()
	par := cfg.Parallel

	grey := greyscale(ch, par)
	traceStage(log, StageGreyscale, grey)

	normalized := normalize(grey, par)
	traceStage(log, StageNormalized, normalized)

	vertical := filter(normalized, grid.SobelVertical, par, nil)
	traceStage(log, StageVertical, vertical)
	horizontal := filter(normalized, grid.SobelHorizontal, par, nil)
	traceStage(log, StageHorizontal, horizontal)

	magnitude, err := combine(vertical, horizontal, cfg.Formula, par)
	if err != nil {
		return nil, fmt.Errorf("combine gradients: %w", err)
	}
	traceStage(log, StageMagnitude, magnitude)

	smoothed := smoothN(magnitude, cfg.Iterations, par)
	traceStage(log, StageSmoothed, smoothed)

	stretched := normalize(smoothed, par)
	traceStage(log, StageStretched, stretched)

	binary := threshold(stretched, cfg.Threshold, par)
	traceStage(log, StageBinary, binary)

	res.Binary = binary
	for _, v := range binary.Pix {
		if v == Foreground {
			res.EdgePixels++
		}
	}
	res.EdgeFraction = float64(res.EdgePixels) / float64(len(binary.Pix))

	if cfg.KeepStages {
		res.Stages = &Stages{
			Greyscale:  grey,
			Normalized: normalized,
			Vertical:   vertical,
			Horizontal: horizontal,
			Magnitude:  magnitude,
			Smoothed:   smoothed,
			Stretched:  stretched,
			Binary:     binary,
		}
	}

	log.WithFields(logrus.Fields{
		"iterations":    cfg.Iterations,
		"threshold":     cfg.Threshold,
		"formula":       cfg.Formula.String(),
		"edge_fraction": res.EdgeFraction,
		"elapsed":       time.Since(started).String(),
	}).Info("edge map computed")

	return res, nil
}

// traceStage logs grid statistics at debug level.
func traceStage[T grid.Number](log *logrus.Entry, s Stage, g *grid.Grid[T]) {
	if !logger.Logger.IsLevelEnabled(logrus.DebugLevel) {
		return
	}
	sum := grid.Summarize(g)
	log.WithFields(logrus.Fields{
		"stage":    string(s),
		"min":      sum.Min,
		"max":      sum.Max,
		"mean":     sum.Mean,
		"non_zero": sum.NonZero,
	}).Debug("stage complete")
}
