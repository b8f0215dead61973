package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"

	"github.com/ironsheep/qr-edgemap/internal/config"
	"github.com/ironsheep/qr-edgemap/internal/display"
	"github.com/ironsheep/qr-edgemap/internal/edgemap"
	"github.com/ironsheep/qr-edgemap/internal/imaging"
	"github.com/ironsheep/qr-edgemap/internal/logger"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "edgemap_run").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000,
// or -32602 when the pipeline rejected the requested parameters.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		logger.WithField("tool", params.Name).WithError(err).Debug("tool failed")
		if errors.Is(err, edgemap.ErrInvalidConfig) {
			return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
		}
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Merges optional parameters over the server settings
//  3. Loads images from cache as needed
//  4. Calls the appropriate imaging/edgemap/display function
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

	// Region Operations
	case "image_crop_region":
		return s.handleImageCropRegion(args)

	// Edge Map Operations
	case "edgemap_run":
		return s.handleEdgeMapRun(args)
	case "edgemap_stage":
		return s.handleEdgeMapStage(args)
	case "edgemap_sample":
		return s.handleEdgeMapSample(args)
	case "edgemap_plot":
		return s.handleEdgeMapPlot(args)

	// Cache Management
	case "image_evict":
		return s.handleImageEvict(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

// === Region Operation Handlers ===

type imageCropRegionArgs struct {
	Path   string  `json:"path"`
	X      *int    `json:"x"`
	Y      *int    `json:"y"`
	Width  *int    `json:"width"`
	Height *int    `json:"height"`
	Scale  float64 `json:"scale"`
}

// region resolves the requested rectangle; omitted values come from the
// configured overlay region.
func (a imageCropRegionArgs) region(def image.Rectangle) (image.Rectangle, error) {
	x, y, w, h := def.Min.X, def.Min.Y, def.Dx(), def.Dy()
	if a.X != nil {
		x = *a.X
	}
	if a.Y != nil {
		y = *a.Y
	}
	if a.Width != nil {
		w = *a.Width
	}
	if a.Height != nil {
		h = *a.Height
	}
	return config.Region(x, y, w, h)
}

func (s *Server) handleImageCropRegion(args json.RawMessage) (interface{}, error) {
	var a imageCropRegionArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	r, err := a.region(s.settings.Overlay.Region)
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.Crop(img, r, a.Scale)
}

// === Edge Map Handlers ===

// pipelineArgs carries the image path plus optional overrides of the
// server settings, using the same field names as the configuration file.
type pipelineArgs struct {
	Path string `json:"path"`
	config.File
}

// resolve merges the overrides in a over the server settings.
func (s *Server) resolve(a *pipelineArgs) (config.Settings, error) {
	settings := s.settings
	if err := a.File.Apply(&settings); err != nil {
		return config.Settings{}, err
	}
	return settings, nil
}

// loadScaled loads the image at path and applies the max dimension setting.
func (s *Server) loadScaled(path string, settings config.Settings) (image.Image, error) {
	img, err := s.cache.Load(path)
	if err != nil {
		return nil, err
	}
	return imaging.Downscale(img, settings.MaxDimension), nil
}

// runStages runs the pipeline keeping every intermediate grid. The input
// channels are returned alongside for previews.
func (s *Server) runStages(a *pipelineArgs) (*edgemap.Result, edgemap.Channels, config.Settings, error) {
	settings, err := s.resolve(a)
	if err != nil {
		return nil, edgemap.Channels{}, settings, err
	}
	ch, err := imaging.LoadChannels(s.cache, a.Path, settings.MaxDimension)
	if err != nil {
		return nil, ch, settings, err
	}
	cfg := settings.Pipeline
	cfg.KeepStages = true
	res, err := edgemap.Run(ch, cfg)
	if err != nil {
		return nil, ch, settings, err
	}
	return res, ch, settings, nil
}

func (s *Server) handleEdgeMapRun(args json.RawMessage) (interface{}, error) {
	var a pipelineArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	settings, err := s.resolve(&a)
	if err != nil {
		return nil, err
	}
	img, err := s.loadScaled(a.Path, settings)
	if err != nil {
		return nil, err
	}
	return imaging.EdgeMap(img, settings.Pipeline)
}

type edgeMapStageArgs struct {
	pipelineArgs
	Stage string `json:"stage"`
}

func (s *Server) handleEdgeMapStage(args json.RawMessage) (interface{}, error) {
	var a edgeMapStageArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	stage, err := edgemap.ParseStage(a.Stage)
	if err != nil {
		return nil, err
	}
	settings, err := s.resolve(&a.pipelineArgs)
	if err != nil {
		return nil, err
	}
	img, err := s.loadScaled(a.Path, settings)
	if err != nil {
		return nil, err
	}
	return imaging.EdgeMapStage(img, settings.Pipeline, stage)
}

type edgeMapSampleArgs struct {
	pipelineArgs
	X int `json:"x"`
	Y int `json:"y"`
}

// SampleResult holds the value of one pixel at every pipeline stage.
type SampleResult struct {
	X      int                `json:"x"`
	Y      int                `json:"y"`
	RunID  string             `json:"run_id"`
	Values map[string]float64 `json:"values"`
}

func (s *Server) handleEdgeMapSample(args json.RawMessage) (interface{}, error) {
	var a edgeMapSampleArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	res, _, _, err := s.runStages(&a.pipelineArgs)
	if err != nil {
		return nil, err
	}
	if a.X < 0 || a.Y < 0 || a.X >= res.Width || a.Y >= res.Height {
		return nil, fmt.Errorf("coordinates (%d, %d) outside image bounds (%dx%d)", a.X, a.Y, res.Width, res.Height)
	}

	out := &SampleResult{
		X:      a.X,
		Y:      a.Y,
		RunID:  res.RunID,
		Values: make(map[string]float64, len(edgemap.StageOrder)),
	}
	for _, stage := range edgemap.StageOrder {
		g, err := res.Stages.Real(stage)
		if err != nil {
			return nil, err
		}
		out.Values[string(stage)] = g.At(a.X, a.Y)
	}
	return out, nil
}

type edgeMapPlotArgs struct {
	pipelineArgs
	Stage string `json:"stage"`
	Title string `json:"title"`
}

// PlotResult contains a rendered figure encoded as base64 PNG.
type PlotResult struct {
	Stage       string `json:"stage"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

func (s *Server) handleEdgeMapPlot(args json.RawMessage) (interface{}, error) {
	var a edgeMapPlotArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Stage == "" {
		a.Stage = string(edgemap.StageBinary)
	}
	stage, err := imaging.ParsePlotStage(a.Stage)
	if err != nil {
		return nil, err
	}
	res, ch, settings, err := s.runStages(&a.pipelineArgs)
	if err != nil {
		return nil, err
	}
	img, err := imaging.PlotImage(ch, res.Stages, stage)
	if err != nil {
		return nil, err
	}

	opts, err := plotOptions(settings, a.Title)
	if err != nil {
		return nil, err
	}
	if opts.Title == "" {
		opts.Title = stage
	}
	p, err := display.Figure(img, opts)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := display.WritePNG(&buf, p, opts); err != nil {
		return nil, err
	}
	return &PlotResult{
		Stage:       stage,
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// plotOptions builds figure options from the overlay settings.
func plotOptions(settings config.Settings, title string) (display.Options, error) {
	c, err := imaging.ParseColor(settings.Overlay.Color)
	if err != nil {
		return display.Options{}, err
	}
	opts := display.DefaultOptions()
	opts.Title = title
	opts.Region = settings.Overlay.Region
	opts.RegionColor = c
	opts.LineWidth = float64(settings.Overlay.LineWidth)
	return opts, nil
}

// === Cache Management Handlers ===

type imageEvictArgs struct {
	Path string `json:"path"`
}

// EvictResult reports the cache state after an eviction.
type EvictResult struct {
	Evicted string `json:"evicted"`
	Cached  int    `json:"cached"`
}

// handleImageEvict drops one cached image, or every cached image when no
// path is given, so the next call rereads the file from disk.
func (s *Server) handleImageEvict(args json.RawMessage) (interface{}, error) {
	var a imageEvictArgs
	if len(args) > 0 {
		if err := json.Unmarshal(args, &a); err != nil {
			return nil, err
		}
	}
	evicted := a.Path
	if a.Path == "" {
		evicted = "*"
		s.cache.Clear()
	} else {
		s.cache.Evict(a.Path)
	}
	logger.WithField("path", evicted).Debug("evicted cached images")
	return &EvictResult{Evicted: evicted, Cached: s.cache.Len()}, nil
}
