package geometry

import (
	"encoding/json"
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// ZEROTOL is the length below which an axis is considered degenerate
const ZEROTOL = 1.e-12

var ErrDegenerateFrame = errors.New("degenerate frame axes")

/*
Frame is a right handed orthonormal coordinate system located at Point.
The Z axis is derived, it is always XAxis × YAxis.
*/
type Frame struct {
	Point r3.Vec
	XAxis r3.Vec
	YAxis r3.Vec
}

// NewFrame builds an orthonormal frame from a point and two (not necessarily orthogonal) axes.
// The x axis keeps its direction, the y axis is re-derived to be perpendicular to it in the
// plane of the two inputs.
func NewFrame(point, xaxis, yaxis r3.Vec) (f Frame, err error) {
	if r3.Norm(xaxis) < ZEROTOL || r3.Norm(yaxis) < ZEROTOL {
		err = fmt.Errorf("%w: zero length axis", ErrDegenerateFrame)
		return
	}
	x := r3.Unit(xaxis)
	z := r3.Cross(x, yaxis)
	if r3.Norm(z) < ZEROTOL {
		err = fmt.Errorf("%w: axes are parallel", ErrDegenerateFrame)
		return
	}
	z = r3.Unit(z)
	f = Frame{
		Point: point,
		XAxis: x,
		YAxis: r3.Cross(z, x),
	}
	return
}

// WorldXY is the frame of the global coordinate system.
func WorldXY() Frame {
	return Frame{
		XAxis: r3.Vec{X: 1},
		YAxis: r3.Vec{Y: 1},
	}
}

func (f Frame) ZAxis() r3.Vec { return r3.Cross(f.XAxis, f.YAxis) }

// Transformed returns the frame mapped through T. The axes are re-orthonormalized so that
// non-rigid transformations still produce a valid frame.
func (f Frame) Transformed(T Transformation) (Frame, error) {
	var (
		o = T.Apply(f.Point)
		x = r3.Sub(T.Apply(r3.Add(f.Point, f.XAxis)), o)
		y = r3.Sub(T.Apply(r3.Add(f.Point, f.YAxis)), o)
	)
	return NewFrame(o, x, y)
}

// PointAt returns the world coordinates of the local point (u, v, w).
func (f Frame) PointAt(u, v, w float64) r3.Vec {
	p := r3.Add(f.Point, r3.Scale(u, f.XAxis))
	p = r3.Add(p, r3.Scale(v, f.YAxis))
	return r3.Add(p, r3.Scale(w, f.ZAxis()))
}

type frameJSON struct {
	Point [3]float64 `json:"point"`
	XAxis [3]float64 `json:"xaxis"`
	YAxis [3]float64 `json:"yaxis"`
}

func (f Frame) MarshalJSON() ([]byte, error) {
	return json.Marshal(frameJSON{
		Point: VecToArray(f.Point),
		XAxis: VecToArray(f.XAxis),
		YAxis: VecToArray(f.YAxis),
	})
}

func (f *Frame) UnmarshalJSON(b []byte) (err error) {
	var fj frameJSON
	if err = json.Unmarshal(b, &fj); err != nil {
		return
	}
	*f, err = NewFrame(ArrayToVec(fj.Point), ArrayToVec(fj.XAxis), ArrayToVec(fj.YAxis))
	return
}

func VecToArray(v r3.Vec) [3]float64 { return [3]float64{v.X, v.Y, v.Z} }
func ArrayToVec(a [3]float64) r3.Vec { return r3.Vec{X: a[0], Y: a[1], Z: a[2]} }
