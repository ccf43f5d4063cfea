package plotter

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	graphics2D "github.com/notargets/avs/geometry"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/goscene/colors"
)

// View is the coordinate plane drawings are projected onto.
type View uint8

const (
	ViewXY View = iota
	ViewXZ
	ViewYZ
)

func ParseView(s string) (v View, err error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "XY":
		v = ViewXY
	case "XZ":
		v = ViewXZ
	case "YZ":
		v = ViewYZ
	default:
		err = fmt.Errorf("unknown view [%s], use XY, XZ or YZ", s)
	}
	return
}

func (v View) String() string {
	switch v {
	case ViewXZ:
		return "XZ"
	case ViewYZ:
		return "YZ"
	}
	return "XY"
}

func (v View) Project(p r3.Vec) (x, y float32) {
	switch v {
	case ViewXZ:
		return float32(p.X), float32(p.Z)
	case ViewYZ:
		return float32(p.Y), float32(p.Z)
	}
	return float32(p.X), float32(p.Y)
}

// Unproject places a plane coordinate back in 3D with a zero depth.
func (v View) Unproject(x, y float32) r3.Vec {
	switch v {
	case ViewXZ:
		return r3.Vec{X: float64(x), Z: float64(y)}
	case ViewYZ:
		return r3.Vec{Y: float64(x), Z: float64(y)}
	}
	return r3.Vec{X: float64(x), Y: float64(y)}
}

// PointsToXY packs projected points as x0,y0,x1,y1... the layout used by avs.
func PointsToXY(pts []r3.Vec, v View) (xy []float32) {
	xy = make([]float32, 2*len(pts))
	for i, p := range pts {
		xy[2*i], xy[2*i+1] = v.Project(p)
	}
	return
}

func XYToPoints(xy []float32, v View) (pts []r3.Vec) {
	pts = make([]r3.Vec, len(xy)/2)
	for i := range pts {
		pts[i] = v.Unproject(xy[2*i], xy[2*i+1])
	}
	return
}

// PolylineSegments converts a point sequence into the segment pairs drawn by chart2d.AddLine.
// A closed polyline gets its closing segment unless the end points already coincide.
func PolylineSegments(pts []r3.Vec, closed bool, v View) (segs []float32) {
	var (
		n = len(pts)
	)
	if n < 2 {
		return
	}
	for i := 0; i < n-1; i++ {
		segs = appendSegment(segs, pts[i], pts[i+1], v)
	}
	if closed && n > 2 && pts[0] != pts[n-1] {
		segs = appendSegment(segs, pts[n-1], pts[0], v)
	}
	return
}

func appendSegment(segs []float32, a, b r3.Vec, v View) []float32 {
	x1, y1 := v.Project(a)
	x2, y2 := v.Project(b)
	return append(segs, x1, y1, x2, y2)
}

// CrossHairs draws a cross of half width size at each point of xy.
func CrossHairs(xy []float32, size float32) (segs []float32) {
	var (
		lenXY = len(xy) / 2
	)
	for i := 0; i < lenXY; i++ {
		segs = append(segs,
			xy[2*i]-size, xy[2*i+1],
			xy[2*i]+size, xy[2*i+1],
			xy[2*i], xy[2*i+1]-size,
			xy[2*i], xy[2*i+1]+size,
		)
	}
	return
}

// FanTriangles splits a convex polygon of n vertices into triangles sharing its first vertex.
func FanTriangles(n int) (tris [][3]int) {
	for i := 1; i < n-1; i++ {
		tris = append(tris, [3]int{0, i, i + 1})
	}
	return
}

// FaceTriMesh builds an avs TriMesh from polygon loops given as world points.
func FaceTriMesh(faces [][]r3.Vec, v View) (gm graphics2D.TriMesh) {
	for _, face := range faces {
		offset := int64(len(gm.XY) / 2)
		gm.XY = append(gm.XY, PointsToXY(face, v)...)
		for _, tri := range FanTriangles(len(face)) {
			gm.TriVerts = append(gm.TriVerts,
				[3]int64{offset + int64(tri[0]), offset + int64(tri[1]), offset + int64(tri[2])})
		}
	}
	return
}

// BoundingBox of a packed XY array, ok is false when it is empty.
func BoundingBox(xy []float32) (xMin, xMax, yMin, yMax float32, ok bool) {
	var (
		lenXY = len(xy) / 2
	)
	if lenXY == 0 {
		return
	}
	xMin, xMax = float32(math.MaxFloat32), -float32(math.MaxFloat32)
	yMin, yMax = float32(math.MaxFloat32), -float32(math.MaxFloat32)
	for i := 0; i < lenXY; i++ {
		x, y := xy[2*i], xy[2*i+1]
		xMin, xMax = min(xMin, x), max(xMax, x)
		yMin, yMax = min(yMin, y), max(yMax, y)
	}
	return xMin, xMax, yMin, yMax, true
}

/*
SquareBox grows the shorter side of a box to match the longer one about its center, then pads
every side by margin times the side length. Degenerate boxes get a unit side.
*/
func SquareBox(xMin, xMax, yMin, yMax, margin float32) (xBMin, xBMax, yBMin, yBMax float32) {
	var (
		xRange = xMax - xMin
		yRange = yMax - yMin
		side   = max(xRange, yRange)
		xCent  = xMin + xRange/2
		yCent  = yMin + yRange/2
	)
	if side == 0 {
		side = 1
	}
	half := side/2 + margin*side
	return xCent - half, xCent + half, yCent - half, yCent + half
}

// ToRGBA converts a color for avs, scaling its alpha by opacity.
func ToRGBA(c colors.Color, opacity float64) color.RGBA {
	c.A *= math.Max(0, math.Min(1, opacity))
	return c.ToRGBA()
}
