package imaging

import (
	"fmt"
	"image"
	"strings"

	"github.com/ironsheep/qr-edgemap/internal/edgemap"
	"github.com/ironsheep/qr-edgemap/internal/grid"
)

// EdgeMapResult contains a binary edge map encoded as base64 PNG.
//
// The image is grayscale: white pixels (255) are edge regions and black
// pixels (0) are background.
type EdgeMapResult struct {
	// RunID identifies the pipeline run in the log output.
	RunID string `json:"run_id"`

	// Width of the output image in pixels (same as the processed input).
	Width int `json:"width"`

	// Height of the output image in pixels (same as the processed input).
	Height int `json:"height"`

	// EdgePixels is the number of white pixels.
	EdgePixels int `json:"edge_pixels"`

	// EdgeFraction is EdgePixels divided by Width*Height.
	EdgeFraction float64 `json:"edge_fraction"`

	// Config echoes the parameters the map was computed with.
	Config edgemap.Config `json:"config"`

	// ImageBase64 is the edge map encoded as base64 PNG.
	ImageBase64 string `json:"image_base64"`

	// MimeType is always "image/png".
	MimeType string `json:"mime_type"`
}

// EdgeMap runs the edge map pipeline on img and encodes the binary result.
//
// The image is split into 8-bit channels (alpha is ignored) and passed to
// edgemap.Run with cfg. Images smaller than 3x3 are rejected with
// edgemap.ErrTooSmall.
//
// # Parameter Selection
//
// The reference parameters (9 smoothing passes, threshold 70) suit camera
// frames of a few hundred pixels across. Fewer passes keep thin edges
// separate; a lower threshold admits fainter texture.
func EdgeMap(img image.Image, cfg edgemap.Config) (*EdgeMapResult, error) {
	res, err := edgemap.Run(SplitChannels(img), cfg)
	if err != nil {
		return nil, err
	}
	return encodeResult(res)
}

func encodeResult(res *edgemap.Result) (*EdgeMapResult, error) {
	gray, err := GreyImage(res.Binary)
	if err != nil {
		return nil, err
	}
	b64, err := PNGBase64(gray)
	if err != nil {
		return nil, fmt.Errorf("failed to encode edge map: %w", err)
	}
	return &EdgeMapResult{
		RunID:        res.RunID,
		Width:        res.Width,
		Height:       res.Height,
		EdgePixels:   res.EdgePixels,
		EdgeFraction: res.EdgeFraction,
		Config:       res.Config,
		ImageBase64:  b64,
		MimeType:     "image/png",
	}, nil
}

// StageResult contains one intermediate pipeline grid rendered as an image,
// with statistics of the raw (unstretched) values.
type StageResult struct {
	Stage       edgemap.Stage `json:"stage"`
	Width       int           `json:"width"`
	Height      int           `json:"height"`
	Summary     grid.Summary  `json:"summary"`
	ImageBase64 string        `json:"image_base64"`
	MimeType    string        `json:"mime_type"`
}

// EdgeMapStage runs the pipeline on img and renders the named intermediate
// stage. Stages holding signed or unbounded values are stretched onto 0-255
// for display; Summary reports the raw values.
func EdgeMapStage(img image.Image, cfg edgemap.Config, stage edgemap.Stage) (*StageResult, error) {
	cfg.KeepStages = true
	res, err := edgemap.Run(SplitChannels(img), cfg)
	if err != nil {
		return nil, err
	}
	return RenderStage(res.Stages, stage)
}

// RenderStage renders one stage of a completed run.
func RenderStage(st *edgemap.Stages, stage edgemap.Stage) (*StageResult, error) {
	gray, err := StageImage(st, stage)
	if err != nil {
		return nil, err
	}
	g, err := st.Real(stage)
	if err != nil {
		return nil, err
	}

	b64, err := PNGBase64(gray)
	if err != nil {
		return nil, fmt.Errorf("failed to encode stage %s: %w", stage, err)
	}
	return &StageResult{
		Stage:       stage,
		Width:       g.Width,
		Height:      g.Height,
		Summary:     grid.Summarize(g),
		ImageBase64: b64,
		MimeType:    "image/png",
	}, nil
}

// StageImage returns one stage of a completed run as a grey image. Integer
// stages are already in 0-255 and keep their absolute levels; real-valued
// stages are stretched onto 0-255.
func StageImage(st *edgemap.Stages, stage edgemap.Stage) (*image.Gray, error) {
	if st == nil {
		return nil, fmt.Errorf("run did not keep intermediate stages")
	}
	switch stage {
	case edgemap.StageGreyscale:
		return GreyImage(st.Greyscale)
	case edgemap.StageNormalized:
		return GreyImage(st.Normalized)
	case edgemap.StageStretched:
		return GreyImage(st.Stretched)
	case edgemap.StageBinary:
		return GreyImage(st.Binary)
	}
	g, err := st.Real(stage)
	if err != nil {
		return nil, err
	}
	return StageGrey(g)
}

// InputStage names the input image itself in place of a pipeline stage when
// plotting.
const InputStage = "input"

// PlotStages lists the names accepted by PlotImage: InputStage followed by
// the pipeline stages in order.
func PlotStages() []string {
	names := []string{InputStage}
	for _, s := range edgemap.StageOrder {
		names = append(names, string(s))
	}
	return names
}

// ParsePlotStage checks that name is accepted by PlotImage.
func ParsePlotStage(name string) (string, error) {
	if strings.EqualFold(strings.TrimSpace(name), InputStage) {
		return InputStage, nil
	}
	stage, err := edgemap.ParseStage(name)
	if err != nil {
		return "", err
	}
	return string(stage), nil
}

// PlotImage returns the picture shown for name: the RGB input rebuilt from ch
// for InputStage, otherwise the named stage of st as in StageImage.
func PlotImage(ch edgemap.Channels, st *edgemap.Stages, name string) (image.Image, error) {
	name, err := ParsePlotStage(name)
	if err != nil {
		return nil, err
	}
	var img image.Image
	if name == InputStage {
		img, err = MergeChannels(ch)
	} else {
		img, err = StageImage(st, edgemap.Stage(name))
	}
	if err != nil {
		return nil, err
	}
	return img, nil
}
