package scene

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/goscene/colors"
	"github.com/notargets/goscene/data"
	"github.com/notargets/goscene/geometry"
)

// GeometryObject displays a curve as a sampled line, optionally with its sample points.
type GeometryObject struct {
	SceneObject
	geometry geometry.Curve

	PointColor colors.Color
	LineColor  colors.Color
	PointSize  float64
	LineWidth  float64
	ShowPoints bool
	ShowLines  bool
	Resolution int
}

func NewGeometryObject(item data.Item, cfg *Config) (gobj *GeometryObject, err error) {
	curve, ok := item.(geometry.Curve)
	if !ok {
		if isNil(item) {
			return nil, ErrNilItem
		}
		return nil, fmt.Errorf("geometry object needs a geometry.Curve, have %T", item)
	}
	if cfg == nil {
		cfg = NewConfig()
	}
	gobj = &GeometryObject{geometry: curve}
	if err = gobj.init(curve, cfg); err != nil {
		return nil, err
	}
	gobj.PointColor = gobj.ContrastColor()
	if cfg.pointColor != nil {
		gobj.PointColor = *cfg.pointColor
	}
	gobj.LineColor = gobj.Color()
	if cfg.lineColor != nil {
		gobj.LineColor = *cfg.lineColor
	}
	gobj.PointSize, gobj.LineWidth = 1, 1
	if cfg.pointSize != nil {
		gobj.PointSize = *cfg.pointSize
	}
	if cfg.lineWidth != nil {
		gobj.LineWidth = *cfg.lineWidth
	}
	gobj.ShowLines = true
	if cfg.showPoints != nil {
		gobj.ShowPoints = *cfg.showPoints
	}
	if cfg.showLines != nil {
		gobj.ShowLines = *cfg.showLines
	}
	gobj.Resolution = geometry.DefaultResolution
	if cfg.resolution != nil {
		gobj.Resolution = *cfg.resolution
	}
	return
}

func (gobj *GeometryObject) Geometry() geometry.Curve { return gobj.geometry }

// WorldPoints samples the curve and places the samples in world coordinates.
func (gobj *GeometryObject) WorldPoints() []r3.Vec {
	return geometry.TransformPoints(gobj.geometry.Points(gobj.Resolution), gobj.WorldTransformation())
}

func (gobj *GeometryObject) Settings() Settings {
	s := gobj.SceneObject.Settings()
	s["pointcolor"] = gobj.PointColor
	s["linecolor"] = gobj.LineColor
	s["pointsize"] = gobj.PointSize
	s["linewidth"] = gobj.LineWidth
	s["show_points"] = gobj.ShowPoints
	s["show_lines"] = gobj.ShowLines
	s["resolution"] = gobj.Resolution
	return s
}
