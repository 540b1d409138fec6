// Package pipeline provides the load → layout → render pipeline for sgviz.
//
// The CLI and the HTTP service both run graphs through this package, so
// defaults, validation and caching behave the same at every entry point.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: read an entity graph from a file, an S3 object or an EC2
//     DescribeSecurityGroups export
//  2. Layout: compute a force, bundle or nodelink layout
//  3. Render: produce SVG, JSON, DOT, PDF or PNG from the layout
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Input:   "s3://audit/prod/security-groups.json",
//	    VizType: "bundle",
//	    Formats: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	g, err := runner.Load(ctx, opts)
//	layout, err := runner.GenerateLayout(ctx, g, opts)
//	artifacts, err := runner.Render(ctx, layout, &g, opts)
package pipeline

import (
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/sgviz/pkg/cache"
	"github.com/matzehuels/sgviz/pkg/errors"
	"github.com/matzehuels/sgviz/pkg/graph"
	"github.com/matzehuels/sgviz/pkg/layout/bundle"
	"github.com/matzehuels/sgviz/pkg/layout/force"
	"github.com/matzehuels/sgviz/pkg/render"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultWidth is the default frame width in pixels.
	DefaultWidth = 960.0

	// DefaultHeight is the default frame height in pixels.
	DefaultHeight = 960.0

	// DefaultTicks is the force simulation budget. With the default alpha
	// decay the simulation converges after about 300 ticks.
	DefaultTicks = 300

	// DefaultSeed is the default random seed for reproducibility.
	DefaultSeed = uint64(42)

	// DefaultScale is the PNG resolution multiplier.
	DefaultScale = 2.0

	// MaxTicks bounds the tick budget accepted from API callers.
	MaxTicks = 10000
)

// DefaultVizType is the default visualization type.
const DefaultVizType = graph.VizTypeForce

// Format constants for output formats.
const (
	FormatSVG  = render.FormatSVG
	FormatJSON = render.FormatJSON
	FormatDOT  = render.FormatDOT
	FormatPDF  = render.FormatPDF
	FormatPNG  = render.FormatPNG
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatJSON: true,
	FormatDOT:  true,
	FormatPDF:  true,
	FormatPNG:  true,
}

// ValidVizTypes is the set of supported visualization types.
var ValidVizTypes = map[string]bool{
	graph.VizTypeForce:    true,
	graph.VizTypeBundle:   true,
	graph.VizTypeNodelink: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the visualization pipeline.
// This struct supports JSON serialization for API requests.
//
// Zero numeric values select the defaults, except Beta, which is a pointer
// because 0 is a meaningful tension.
type Options struct {
	// Load options
	Input   string `json:"input,omitempty"`
	Refresh bool   `json:"refresh,omitempty"`

	// Layout options
	VizType string  `json:"viz_type,omitempty" validate:"omitempty,oneof=force bundle nodelink"`
	Width   float64 `json:"width,omitempty" validate:"gte=0"`
	Height  float64 `json:"height,omitempty" validate:"gte=0"`

	// Force options
	Repulsion      float64 `json:"repulsion,omitempty" validate:"lte=0"`
	LinkDistance   float64 `json:"link_distance,omitempty" validate:"gte=0"`
	CenterStrength float64 `json:"center_strength,omitempty" validate:"gte=0,lte=1"`
	AlphaDecay     float64 `json:"alpha_decay,omitempty" validate:"gte=0,lt=1"`
	AlphaMin       float64 `json:"alpha_min,omitempty" validate:"gte=0,lt=1"`
	VelocityDecay  float64 `json:"velocity_decay,omitempty" validate:"gte=0,lte=1"`
	Ticks          int     `json:"ticks,omitempty" validate:"gte=0,lte=10000"`
	Seed           uint64  `json:"seed,omitempty"`
	RandomStart    bool    `json:"random_start,omitempty"`

	// Bundle options
	Beta         *float64 `json:"beta,omitempty" validate:"omitempty,gte=0,lte=1"`
	RadiusMargin float64  `json:"radius_margin,omitempty" validate:"gte=0"`
	LoopSize     float64  `json:"loop_size,omitempty" validate:"gte=0"`

	// Nodelink options
	Detailed bool `json:"detailed,omitempty"`

	// Render options
	Formats     []string `json:"formats,omitempty" validate:"dive,oneof=svg json dot pdf png"`
	Interactive bool     `json:"interactive,omitempty"`
	Tooltips    bool     `json:"tooltips,omitempty"`
	Scale       float64  `json:"scale,omitempty" validate:"gte=0,lte=8"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the loaded entity graph.
	Graph graph.Graph

	// GraphHash is the content hash of the graph.
	GraphHash string

	// Layout contains the computed layout.
	Layout graph.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	Dropped    int
	LoadTime   time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LoadHit   bool // remote source came from cache
	LayoutHit bool // layout came from cache
	RenderHit bool // all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
	})
	return validate
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)", format, strings.Join(render.Formats, ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateVizType checks that a visualization type is valid.
func ValidateVizType(vizType string) error {
	if !ValidVizTypes[vizType] {
		return errors.New(errors.ErrCodeInvalidVizType, "invalid viz_type: %q (must be one of: %s)", vizType, strings.Join(graph.VizTypes, ", "))
	}
	return nil
}

// Validate checks option ranges. Viz type and format errors keep their
// specific codes; every other violation is INVALID_INPUT.
func (o *Options) Validate() error {
	if o.VizType != "" {
		if err := ValidateVizType(o.VizType); err != nil {
			return err
		}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := validatorInstance().Struct(o); err != nil {
		return formatValidationError(err)
	}
	return nil
}

func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid options")
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fe.Field()+" failed "+fe.Tag()+" "+fe.Param())
	}
	return errors.New(errors.ErrCodeInvalidInput, "invalid options: %s", strings.Join(msgs, "; "))
}

// =============================================================================
// Options Methods
// =============================================================================

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.VizType == "" {
		o.VizType = DefaultVizType
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Repulsion == 0 {
		o.Repulsion = force.DefaultRepulsion
	}
	if o.LinkDistance == 0 {
		o.LinkDistance = force.DefaultLinkDistance
	}
	if o.CenterStrength == 0 {
		o.CenterStrength = force.DefaultCenterStrength
	}
	if o.AlphaDecay == 0 {
		o.AlphaDecay = force.DefaultAlphaDecay
	}
	if o.AlphaMin == 0 {
		o.AlphaMin = force.DefaultAlphaMin
	}
	if o.VelocityDecay == 0 {
		o.VelocityDecay = force.DefaultVelocityDecay
	}
	if o.Ticks == 0 {
		o.Ticks = DefaultTicks
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Beta == nil {
		b := bundle.DefaultBeta
		o.Beta = &b
	}
	if o.RadiusMargin == 0 {
		o.RadiusMargin = bundle.DefaultRadiusMargin
	}
	if o.LoopSize == 0 {
		o.LoopSize = bundle.DefaultLoopSize
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	if err := o.Validate(); err != nil {
		return err
	}
	o.SetLayoutDefaults()
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	if err := o.Validate(); err != nil {
		return err
	}
	o.SetLayoutDefaults()
	o.SetRenderDefaults()
	return nil
}

// BetaValue returns the bundling tension, or the default when unset.
func (o *Options) BetaValue() float64 {
	if o.Beta == nil {
		return bundle.DefaultBeta
	}
	return *o.Beta
}

// LayoutKeyOpts returns cache key options for layout computation. Only the
// options relevant to the viz type are included, so changing a force knob
// does not invalidate cached bundle layouts.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	k := cache.LayoutKeyOpts{
		VizType: o.VizType,
		Width:   o.Width,
		Height:  o.Height,
	}
	switch o.VizType {
	case graph.VizTypeForce:
		k.Repulsion = o.Repulsion
		k.LinkDistance = o.LinkDistance
		k.CenterStrength = o.CenterStrength
		k.AlphaDecay = o.AlphaDecay
		k.AlphaMin = o.AlphaMin
		k.VelocityDecay = o.VelocityDecay
		k.Ticks = o.Ticks
		if o.RandomStart {
			k.Seed = o.Seed
		}
	case graph.VizTypeBundle:
		k.Beta = o.BetaValue()
		k.RadiusMargin = o.RadiusMargin
		k.LoopSize = o.LoopSize
	case graph.VizTypeNodelink:
		k.Detailed = o.Detailed
	}
	return k
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{
		Format:      format,
		Interactive: o.Interactive,
		Tooltips:    o.Tooltips,
	}
	if format == FormatPNG {
		k.Scale = o.Scale
	}
	return k
}
