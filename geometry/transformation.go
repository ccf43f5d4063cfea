package geometry

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

var ErrSingular = errors.New("transformation is not invertible")

/*
Transformation is an affine map stored as a 4x4 row-major matrix acting on column vectors:

	p' = M * [x y z 1]^T

Transformations are immutable, every operation returns a new value. The zero value behaves
as the identity.
*/
type Transformation struct {
	m *mat.Dense
}

func Identity() Transformation {
	return Transformation{m: identityDense()}
}

func identityDense() *mat.Dense {
	return mat.NewDense(4, 4, []float64{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	})
}

func NewTransformation(rows [4][4]float64) Transformation {
	data := make([]float64, 16)
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			data[i*4+j] = rows[i][j]
		}
	}
	return Transformation{m: mat.NewDense(4, 4, data)}
}

// FromFrame maps the world XY frame onto f: the columns are the frame axes and its origin.
func FromFrame(f Frame) Transformation {
	var (
		x, y, z = f.XAxis, f.YAxis, f.ZAxis()
		o       = f.Point
	)
	return NewTransformation([4][4]float64{
		{x.X, y.X, z.X, o.X},
		{x.Y, y.Y, z.Y, o.Y},
		{x.Z, y.Z, z.Z, o.Z},
		{0, 0, 0, 1},
	})
}

// FromFrameToFrame maps coordinates expressed in f1 to the same coordinates expressed in f2.
func FromFrameToFrame(f1, f2 Frame) (T Transformation, err error) {
	var inv Transformation
	if inv, err = FromFrame(f1).Inverse(); err != nil {
		return
	}
	T = FromFrame(f2).Mul(inv)
	return
}

func Translation(v r3.Vec) Transformation {
	return NewTransformation([4][4]float64{
		{1, 0, 0, v.X},
		{0, 1, 0, v.Y},
		{0, 0, 1, v.Z},
		{0, 0, 0, 1},
	})
}

func Scale(sx, sy, sz float64) Transformation {
	return NewTransformation([4][4]float64{
		{sx, 0, 0, 0},
		{0, sy, 0, 0},
		{0, 0, sz, 0},
		{0, 0, 0, 1},
	})
}

// Rotation returns a right handed rotation of angle radians about the axis through origin.
func Rotation(axis r3.Vec, angle float64, origin r3.Vec) (T Transformation, err error) {
	if r3.Norm(axis) < ZEROTOL {
		err = fmt.Errorf("%w: zero length rotation axis", ErrDegenerateFrame)
		return
	}
	var (
		u    = r3.Unit(axis)
		c, s = math.Cos(angle), math.Sin(angle)
		t    = 1 - c
	)
	R := NewTransformation([4][4]float64{
		{t*u.X*u.X + c, t*u.X*u.Y - s*u.Z, t*u.X*u.Z + s*u.Y, 0},
		{t*u.X*u.Y + s*u.Z, t*u.Y*u.Y + c, t*u.Y*u.Z - s*u.X, 0},
		{t*u.X*u.Z - s*u.Y, t*u.Y*u.Z + s*u.X, t*u.Z*u.Z + c, 0},
		{0, 0, 0, 1},
	})
	T = Translation(origin).Mul(R).Mul(Translation(r3.Scale(-1, origin)))
	return
}

func (T Transformation) dense() *mat.Dense {
	if T.m == nil {
		return identityDense()
	}
	return T.m
}

// Mul returns T * A, so A is applied first.
func (T Transformation) Mul(A Transformation) Transformation {
	var R mat.Dense
	R.Mul(T.dense(), A.dense())
	return Transformation{m: &R}
}

func (T Transformation) Inverse() (Transformation, error) {
	var R mat.Dense
	if err := R.Inverse(T.dense()); err != nil {
		return Transformation{}, fmt.Errorf("%w: %v", ErrSingular, err)
	}
	return Transformation{m: &R}, nil
}

func (T Transformation) At(i, j int) float64 { return T.dense().At(i, j) }

func (T Transformation) Matrix() (rows [4][4]float64) {
	m := T.dense()
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			rows[i][j] = m.At(i, j)
		}
	}
	return
}

func (T Transformation) EqualApprox(A Transformation, tol float64) bool {
	return mat.EqualApprox(T.dense(), A.dense(), tol)
}

func (T Transformation) IsIdentity() bool {
	return T.EqualApprox(Identity(), ZEROTOL)
}

// Apply transforms a single point.
func (T Transformation) Apply(p r3.Vec) r3.Vec {
	return TransformPoints([]r3.Vec{p}, T)[0]
}

// TransformPoints transforms a batch of points with a single 4xN matrix product.
func TransformPoints(points []r3.Vec, T Transformation) (out []r3.Vec) {
	var (
		N = len(points)
	)
	out = make([]r3.Vec, N)
	if N == 0 {
		return
	}
	P := mat.NewDense(4, N, nil)
	for j, p := range points {
		P.Set(0, j, p.X)
		P.Set(1, j, p.Y)
		P.Set(2, j, p.Z)
		P.Set(3, j, 1)
	}
	var R mat.Dense
	R.Mul(T.dense(), P)
	for j := range out {
		w := R.At(3, j)
		if w == 0 {
			w = 1
		}
		out[j] = r3.Vec{X: R.At(0, j) / w, Y: R.At(1, j) / w, Z: R.At(2, j) / w}
	}
	return
}

func (T Transformation) String() string {
	return fmt.Sprintf("%v", mat.Formatted(T.dense(), mat.Squeeze()))
}

func (T Transformation) MarshalJSON() ([]byte, error) {
	return json.Marshal(T.Matrix())
}

func (T *Transformation) UnmarshalJSON(b []byte) error {
	var rows [4][4]float64
	if err := json.Unmarshal(b, &rows); err != nil {
		return err
	}
	*T = NewTransformation(rows)
	return nil
}
