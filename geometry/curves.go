package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/goscene/data"
)

// DefaultResolution is the number of samples used for closed curves when none is given
const DefaultResolution = 64

// Curve is a one dimensional geometry item that can be sampled into points.
type Curve interface {
	data.Item
	// Points samples the curve. Resolution only applies to smooth curves.
	Points(resolution int) []r3.Vec
	// Closed reports whether the last point connects back to the first.
	Closed() bool
}

type Line struct {
	data.Data
	Start, End r3.Vec
}

func NewLine(start, end r3.Vec) *Line {
	return &Line{Data: data.NewData("Line"), Start: start, End: end}
}

func (l *Line) Points(int) []r3.Vec { return []r3.Vec{l.Start, l.End} }
func (l *Line) Closed() bool        { return false }
func (l *Line) Length() float64     { return r3.Norm(r3.Sub(l.End, l.Start)) }

func (l *Line) Transformed(T Transformation) *Line {
	pts := TransformPoints([]r3.Vec{l.Start, l.End}, T)
	return NewLine(pts[0], pts[1])
}

type Polyline struct {
	data.Data
	Vertices []r3.Vec
}

func NewPolyline(vertices []r3.Vec) *Polyline {
	v := make([]r3.Vec, len(vertices))
	copy(v, vertices)
	return &Polyline{Data: data.NewData("Polyline"), Vertices: v}
}

func (pl *Polyline) Points(int) []r3.Vec {
	out := make([]r3.Vec, len(pl.Vertices))
	copy(out, pl.Vertices)
	return out
}

// Closed is true when the first and last vertices coincide.
func (pl *Polyline) Closed() bool {
	n := len(pl.Vertices)
	if n < 3 {
		return false
	}
	return r3.Norm(r3.Sub(pl.Vertices[0], pl.Vertices[n-1])) < ZEROTOL
}

func (pl *Polyline) Length() (length float64) {
	for i := 1; i < len(pl.Vertices); i++ {
		length += r3.Norm(r3.Sub(pl.Vertices[i], pl.Vertices[i-1]))
	}
	return
}

func (pl *Polyline) Transformed(T Transformation) *Polyline {
	return NewPolyline(TransformPoints(pl.Vertices, T))
}

// Circle lies in the XY plane of its frame, centered at the frame origin.
type Circle struct {
	data.Data
	Frame  Frame
	Radius float64
}

func NewCircle(frame Frame, radius float64) *Circle {
	return &Circle{Data: data.NewData("Circle"), Frame: frame, Radius: radius}
}

func (c *Circle) Center() r3.Vec { return c.Frame.Point }
func (c *Circle) Closed() bool   { return true }

func (c *Circle) Points(resolution int) []r3.Vec {
	return sampleEllipse(c.Frame, c.Radius, c.Radius, resolution)
}

func (c *Circle) Transformed(T Transformation) (*Circle, error) {
	f, err := c.Frame.Transformed(T)
	if err != nil {
		return nil, err
	}
	return NewCircle(f, c.Radius), nil
}

// Ellipse lies in the XY plane of its frame, the major axis along the frame X axis.
type Ellipse struct {
	data.Data
	Frame        Frame
	Major, Minor float64
}

func NewEllipse(frame Frame, major, minor float64) *Ellipse {
	return &Ellipse{Data: data.NewData("Ellipse"), Frame: frame, Major: major, Minor: minor}
}

func (e *Ellipse) Center() r3.Vec { return e.Frame.Point }
func (e *Ellipse) Closed() bool   { return true }

func (e *Ellipse) Points(resolution int) []r3.Vec {
	return sampleEllipse(e.Frame, e.Major, e.Minor, resolution)
}

// Extents returns the four axis extreme points: -major, +major, -minor, +minor.
func (e *Ellipse) Extents() [4]r3.Vec {
	return [4]r3.Vec{
		e.Frame.PointAt(-e.Major, 0, 0),
		e.Frame.PointAt(e.Major, 0, 0),
		e.Frame.PointAt(0, -e.Minor, 0),
		e.Frame.PointAt(0, e.Minor, 0),
	}
}

func (e *Ellipse) Transformed(T Transformation) (*Ellipse, error) {
	f, err := e.Frame.Transformed(T)
	if err != nil {
		return nil, err
	}
	return NewEllipse(f, e.Major, e.Minor), nil
}

func sampleEllipse(f Frame, a, b float64, resolution int) (pts []r3.Vec) {
	if resolution < 3 {
		resolution = DefaultResolution
	}
	pts = make([]r3.Vec, resolution)
	for i := range pts {
		theta := 2 * math.Pi * float64(i) / float64(resolution)
		pts[i] = f.PointAt(a*math.Cos(theta), b*math.Sin(theta), 0)
	}
	return
}
