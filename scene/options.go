package scene

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/notargets/goscene/colors"
	"github.com/notargets/goscene/datastructures"
	"github.com/notargets/goscene/geometry"
)

/*
Config collects the construction options of a scene object. Every field is optional, the
constructor of each object kind supplies its own defaults for what is not given.
Options that need coercion record their errors, which are reported by the constructor.
*/
type Config struct {
	name           *string
	context        *string
	frame          *geometry.Frame
	transformation *geometry.Transformation
	color          *colors.Color
	contrastColor  *colors.Color
	opacity        *float64
	show           *bool

	vertexColor, edgeColor, faceColor interface{}
	vertexSize, edgeWidth             *float64
	showVertices, showEdges           interface{}
	showFaces                         interface{}
	hasShowVertices, hasShowEdges     bool
	hasShowFaces                      bool

	pointColor, lineColor *colors.Color
	pointSize, lineWidth  *float64
	showPoints, showLines *bool
	resolution            *int

	constructor Constructor
	parent      Object

	errs []error
}

type Option func(cfg *Config)

func NewConfig(opts ...Option) *Config {
	cfg := &Config{}
	cfg.Apply(opts...)
	return cfg
}

func (cfg *Config) Apply(opts ...Option) {
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
}

// Err joins the errors recorded while applying options.
func (cfg *Config) Err() error { return errors.Join(cfg.errs...) }

// Context is the requested drawing context, ok is false when none was requested.
func (cfg *Config) Context() (name string, ok bool) {
	if cfg.context == nil {
		return
	}
	return *cfg.context, true
}

func (cfg *Config) errorf(format string, args ...interface{}) {
	cfg.errs = append(cfg.errs, fmt.Errorf(format, args...))
}

func WithName(name string) Option {
	return func(cfg *Config) { cfg.name = &name }
}

func WithContext(name string) Option {
	return func(cfg *Config) { cfg.context = &name }
}

func WithFrame(f geometry.Frame) Option {
	return func(cfg *Config) { cfg.frame = &f }
}

func WithTransformation(T geometry.Transformation) Option {
	return func(cfg *Config) { cfg.transformation = &T }
}

func coerceOption(cfg *Config, what string, v interface{}) *colors.Color {
	c, err := colors.Coerce(v)
	if err != nil {
		cfg.errorf("%s: %w", what, err)
		return nil
	}
	return &c
}

// WithColor accepts anything colors.Coerce does.
func WithColor(v interface{}) Option {
	return func(cfg *Config) { cfg.color = coerceOption(cfg, "color", v) }
}

func WithContrastColor(v interface{}) Option {
	return func(cfg *Config) { cfg.contrastColor = coerceOption(cfg, "contrastcolor", v) }
}

func WithOpacity(opacity float64) Option {
	return func(cfg *Config) {
		if opacity < 0 || opacity > 1 {
			cfg.errorf("opacity must be in [0,1], have %g", opacity)
			return
		}
		cfg.opacity = &opacity
	}
}

func WithShow(show bool) Option {
	return func(cfg *Config) { cfg.show = &show }
}

/*
WithVertexColor, WithEdgeColor and WithFaceColor take either a single color, which becomes the
default of the color dictionary, or a map of per element colors which are applied as overrides on
top of the object's default. A *colors.ColorDict replaces the dictionary outright.
*/
func WithVertexColor(v interface{}) Option {
	return func(cfg *Config) { cfg.vertexColor = v }
}

func WithEdgeColor(v interface{}) Option {
	return func(cfg *Config) { cfg.edgeColor = v }
}

func WithFaceColor(v interface{}) Option {
	return func(cfg *Config) { cfg.faceColor = v }
}

func WithVertexSize(size float64) Option {
	return func(cfg *Config) { cfg.vertexSize = &size }
}

func WithEdgeWidth(width float64) Option {
	return func(cfg *Config) { cfg.edgeWidth = &width }
}

// WithShowVertices takes a bool, a Selection or a list of vertex keys.
func WithShowVertices(v interface{}) Option {
	return func(cfg *Config) { cfg.showVertices, cfg.hasShowVertices = v, true }
}

func WithShowEdges(v interface{}) Option {
	return func(cfg *Config) { cfg.showEdges, cfg.hasShowEdges = v, true }
}

func WithShowFaces(v interface{}) Option {
	return func(cfg *Config) { cfg.showFaces, cfg.hasShowFaces = v, true }
}

func WithPointColor(v interface{}) Option {
	return func(cfg *Config) { cfg.pointColor = coerceOption(cfg, "pointcolor", v) }
}

func WithLineColor(v interface{}) Option {
	return func(cfg *Config) { cfg.lineColor = coerceOption(cfg, "linecolor", v) }
}

func WithPointSize(size float64) Option {
	return func(cfg *Config) { cfg.pointSize = &size }
}

func WithLineWidth(width float64) Option {
	return func(cfg *Config) { cfg.lineWidth = &width }
}

func WithShowPoints(show bool) Option {
	return func(cfg *Config) { cfg.showPoints = &show }
}

func WithShowLines(show bool) Option {
	return func(cfg *Config) { cfg.showLines = &show }
}

func WithResolution(resolution int) Option {
	return func(cfg *Config) {
		if resolution < 2 {
			cfg.errorf("resolution must be at least 2, have %d", resolution)
			return
		}
		cfg.resolution = &resolution
	}
}

// WithConstructor bypasses the registry lookup.
func WithConstructor(ctor Constructor) Option {
	return func(cfg *Config) { cfg.constructor = ctor }
}

// WithParent attaches the new object below parent when added to a scene.
func WithParent(parent Object) Option {
	return func(cfg *Config) { cfg.parent = parent }
}

func (cfg *Config) vertexColors(def colors.Color) (cd *colors.ColorDict[int], err error) {
	return intColorDict(cfg.vertexColor, def)
}

func (cfg *Config) faceColors(def colors.Color) (cd *colors.ColorDict[int], err error) {
	return intColorDict(cfg.faceColor, def)
}

func intColorDict(v interface{}, def colors.Color) (cd *colors.ColorDict[int], err error) {
	switch val := v.(type) {
	case nil:
		return colors.NewColorDict[int](def), nil
	case *colors.ColorDict[int]:
		return val.Copy(), nil
	case map[int]colors.Color:
		cd = colors.NewColorDict[int](def)
		for k, c := range val {
			cd.Set(k, c)
		}
		return
	case map[int]interface{}:
		cd = colors.NewColorDict[int](def)
		for k, c := range val {
			if err = cd.SetAny(k, c); err != nil {
				return nil, fmt.Errorf("key %d: %w", k, err)
			}
		}
		return
	case map[string]interface{}:
		// YAML and JSON objects carry their keys as strings
		cd = colors.NewColorDict[int](def)
		for ks, c := range val {
			var k int
			if k, err = strconv.Atoi(strings.TrimSpace(ks)); err != nil {
				return nil, fmt.Errorf("unable to use %q as a key: %w", ks, err)
			}
			if err = cd.SetAny(k, c); err != nil {
				return nil, fmt.Errorf("key %d: %w", k, err)
			}
		}
		return
	}
	var c colors.Color
	if c, err = colors.Coerce(v); err != nil {
		return
	}
	return colors.NewColorDict[int](c), nil
}

func (cfg *Config) edgeColors(def colors.Color) (cd *colors.ColorDict[datastructures.Edge], err error) {
	switch val := cfg.edgeColor.(type) {
	case nil:
		return colors.NewColorDict[datastructures.Edge](def), nil
	case *colors.ColorDict[datastructures.Edge]:
		return val.Copy(), nil
	case map[datastructures.Edge]colors.Color:
		cd = colors.NewColorDict[datastructures.Edge](def)
		for k, c := range val {
			cd.Set(k, c)
		}
		return
	case map[datastructures.Edge]interface{}:
		cd = colors.NewColorDict[datastructures.Edge](def)
		for k, c := range val {
			if err = cd.SetAny(k, c); err != nil {
				return nil, fmt.Errorf("edge %v: %w", k, err)
			}
		}
		return
	case map[string]interface{}:
		// Edge keys are written as "u,v"
		cd = colors.NewColorDict[datastructures.Edge](def)
		for ks, c := range val {
			var e datastructures.Edge
			if e, err = parseEdgeKey(ks); err != nil {
				return
			}
			if err = cd.SetAny(e, c); err != nil {
				return nil, fmt.Errorf("edge %v: %w", e, err)
			}
		}
		return
	}
	var c colors.Color
	if c, err = colors.Coerce(cfg.edgeColor); err != nil {
		return
	}
	return colors.NewColorDict[datastructures.Edge](c), nil
}

func parseEdgeKey(s string) (e datastructures.Edge, err error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		err = fmt.Errorf("unable to use %q as an edge, want \"u,v\"", s)
		return
	}
	for i, p := range parts {
		if e[i], err = strconv.Atoi(strings.TrimSpace(p)); err != nil {
			err = fmt.Errorf("unable to use %q as an edge: %w", s, err)
			return
		}
	}
	return
}
