package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/goscene/colors"
	"github.com/notargets/goscene/datastructures"
	"github.com/notargets/goscene/geometry"
)

const tol = 1.e-9

func vecEqual(t *testing.T, expected, actual r3.Vec) {
	t.Helper()
	assert.InDelta(t, expected.X, actual.X, tol)
	assert.InDelta(t, expected.Y, actual.Y, tol)
	assert.InDelta(t, expected.Z, actual.Z, tol)
}

func colorEqual(t *testing.T, expected, actual colors.Color) {
	t.Helper()
	assert.True(t, expected.EqualApprox(actual, 1.e-6), "expected %v, have %v", expected, actual)
}

func mustFrame(t *testing.T, point, xaxis, yaxis r3.Vec) geometry.Frame {
	t.Helper()
	f, err := geometry.NewFrame(point, xaxis, yaxis)
	require.NoError(t, err)
	return f
}

func segmentMesh() *datastructures.Mesh {
	m := datastructures.NewMesh()
	m.AddVertex(r3.Vec{})
	m.AddVertex(r3.Vec{X: 1})
	return m
}

func quadMesh(t *testing.T) *datastructures.Mesh {
	m, err := datastructures.FromVerticesAndFaces(
		[][3]float64{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}},
		[][]int{{0, 1, 2}, {0, 2, 3}})
	require.NoError(t, err)
	return m
}

func TestSceneObjectDefaults(t *testing.T) {
	{ // Name comes from the item unless given
		so, err := NewSceneObject(NewGroup("parts"), nil)
		require.NoError(t, err)
		assert.Equal(t, "parts", so.Name())
		so, err = NewSceneObject(NewGroup("parts"), NewConfig(WithName("wheels")))
		require.NoError(t, err)
		assert.Equal(t, "wheels", so.Name())
	}
	{ // Display defaults
		so, err := NewSceneObject(NewGroup("g"), nil)
		require.NoError(t, err)
		colorEqual(t, colors.Black(), so.Color())
		assert.Equal(t, 1., so.Opacity())
		assert.True(t, so.Show())
		assert.Nil(t, so.Frame())
		assert.Nil(t, so.Transformation())
		assert.Equal(t, []string{}, so.GUIDs())
		assert.False(t, so.IsAttached())
		assert.Nil(t, so.Parent())
	}
	{ // Nil items are rejected
		_, err := NewSceneObject(nil, nil)
		assert.ErrorIs(t, err, ErrNilItem)
		_, err = NewMeshObject((*datastructures.Mesh)(nil), nil)
		assert.ErrorIs(t, err, ErrNilItem)
	}
	{ // Option errors are reported together
		_, err := NewSceneObject(NewGroup("g"), NewConfig(WithColor("no such color"), WithOpacity(2)))
		require.Error(t, err)
		assert.ErrorIs(t, err, colors.ErrCoerce)
		assert.Contains(t, err.Error(), "opacity")
	}
	{ // Settings
		f := geometry.WorldXY()
		so, err := NewSceneObject(NewGroup("g"), NewConfig(WithFrame(f), WithColor("#ff0000"), WithShow(false)))
		require.NoError(t, err)
		s := so.Settings()
		assert.Equal(t, "g", s["name"])
		assert.Equal(t, false, s["show"])
		assert.Equal(t, 1., s["opacity"])
		colorEqual(t, colors.Red(), s["color"].(colors.Color))
		assert.Contains(t, s, "frame")
		assert.NotContains(t, s, "transformation")
	}
}

func TestWorldTransformation(t *testing.T) {
	s := NewScene("test", WithContext(""))
	{ // A top level object without transformation sits at the origin
		a, err := s.Add(NewGroup("A"))
		require.NoError(t, err)
		assert.True(t, a.Base().WorldTransformation().IsIdentity())
	}
	{ // Ancestor frames are composed outermost first, followed by the local transformation
		var (
			F1 = mustFrame(t, r3.Vec{X: 1}, r3.Vec{Y: 1}, r3.Vec{X: -1})
			F2 = mustFrame(t, r3.Vec{Y: 2}, r3.Vec{X: 1}, r3.Vec{Y: 1})
			T  = geometry.Translation(r3.Vec{Z: 3})
		)
		A, err := s.Add(NewGroup("A"), WithFrame(F1))
		require.NoError(t, err)
		B, err := A.Base().Add(NewGroup("B"), WithFrame(F2), WithTransformation(T))
		require.NoError(t, err)
		C, err := B.Base().Add(NewGroup("C"))
		require.NoError(t, err)

		// The frame of A is the only ancestor frame of B, B's own frame places its children
		WB := B.Base().WorldTransformation()
		assert.True(t, WB.EqualApprox(geometry.FromFrame(F1).Mul(T), tol))
		vecEqual(t, r3.Vec{X: 1, Z: 3}, WB.Apply(r3.Vec{}))

		WC := C.Base().WorldTransformation()
		assert.True(t, WC.EqualApprox(geometry.FromFrame(F1).Mul(geometry.FromFrame(F2)), tol))
		vecEqual(t, r3.Vec{X: -1}, WC.Apply(r3.Vec{}))

		// The frame of A does not move A
		assert.True(t, A.Base().WorldTransformation().IsIdentity())
		assert.Same(t, A.Base(), B.Base().Parent().Base())
		assert.Len(t, B.Base().Children(), 1)
	}
	{ // Frames are read on every call
		A, err := s.Add(NewGroup("moving"))
		require.NoError(t, err)
		B, err := A.Base().Add(NewGroup("rider"))
		require.NoError(t, err)
		assert.True(t, B.Base().WorldTransformation().IsIdentity())
		f := mustFrame(t, r3.Vec{Z: 5}, r3.Vec{X: 1}, r3.Vec{Y: 1})
		A.Base().SetFrame(&f)
		vecEqual(t, r3.Vec{Z: 5}, B.Base().WorldTransformation().Apply(r3.Vec{}))
		A.Base().SetFrame(nil)
		assert.True(t, B.Base().WorldTransformation().IsIdentity())
	}
}

func TestContrastColor(t *testing.T) {
	{ // Light colors darken
		so, err := NewSceneObject(NewGroup("g"), NewConfig(WithColor(colors.White())))
		require.NoError(t, err)
		colorEqual(t, colors.NewColor(0.5, 0.5, 0.5), so.ContrastColor())
	}
	{ // Dark colors lighten
		so, err := NewSceneObject(NewGroup("g"), NewConfig(WithColor([]float64{0.2, 0.2, 0.2})))
		require.NoError(t, err)
		colorEqual(t, colors.NewColor(0.3, 0.3, 0.3), so.ContrastColor())
	}
	{ // The derived color is kept after the base color changes, until it is set
		so, err := NewSceneObject(NewGroup("g"), NewConfig(WithColor(colors.White())))
		require.NoError(t, err)
		first := so.ContrastColor()
		require.NoError(t, so.SetColor("black"))
		colorEqual(t, first, so.ContrastColor())
		require.NoError(t, so.SetContrastColor([]int{255, 0, 0}))
		colorEqual(t, colors.Red(), so.ContrastColor())
		assert.Error(t, so.SetContrastColor(42))
	}
	{ // An explicit contrast color is not derived
		so, err := NewSceneObject(NewGroup("g"), NewConfig(WithContrastColor("blue")))
		require.NoError(t, err)
		colorEqual(t, colors.Blue(), so.ContrastColor())
	}
}

func TestMeshObject(t *testing.T) {
	{ // World coordinates of the vertices
		mo, err := NewMeshObject(segmentMesh(), nil)
		require.NoError(t, err)
		xyz := mo.VertexXYZ()
		require.Len(t, xyz, 2)
		vecEqual(t, r3.Vec{}, xyz[0])
		vecEqual(t, r3.Vec{X: 1}, xyz[1])
	}
	{ // Defaults follow the base and contrast colors
		mo, err := NewMeshObject(quadMesh(t), NewConfig(WithColor(colors.White())))
		require.NoError(t, err)
		colorEqual(t, mo.ContrastColor(), mo.VertexColor.Default)
		colorEqual(t, mo.ContrastColor(), mo.EdgeColor.Default)
		colorEqual(t, colors.White(), mo.FaceColor.Default)
		assert.Equal(t, 1., mo.VertexSize)
		assert.Equal(t, 1., mo.EdgeWidth)
		assert.Empty(t, mo.VisibleVertices())
		assert.Empty(t, mo.VisibleEdges())
		assert.Equal(t, []int{0, 1}, mo.VisibleFaces())
	}
	{ // Per element colors and selections
		mo, err := NewMeshObject(quadMesh(t), NewConfig(
			WithVertexColor(map[int]interface{}{2: "red"}),
			WithEdgeColor(map[string]interface{}{"1,0": []interface{}{0., 0., 1.}}),
			WithFaceColor(colors.Green()),
			WithShowVertices(true),
			WithShowEdges([]interface{}{[]interface{}{1., 0.}}),
			WithShowFaces([]int{1}),
		))
		require.NoError(t, err)
		colorEqual(t, colors.Red(), mo.VertexColor.Get(2))
		colorEqual(t, mo.ContrastColor(), mo.VertexColor.Get(0))
		colorEqual(t, colors.Blue(), mo.EdgeColorOf(datastructures.Edge{0, 1}))
		colorEqual(t, colors.Green(), mo.FaceColor.Get(0))
		assert.Equal(t, []int{0, 1, 2, 3}, mo.VisibleVertices())
		assert.Equal(t, []datastructures.Edge{{0, 1}}, mo.VisibleEdges())
		assert.Equal(t, []int{1}, mo.VisibleFaces())
	}
	{ // Bad selections are reported
		_, err := NewMeshObject(quadMesh(t), NewConfig(WithShowFaces("all")))
		assert.Error(t, err)
		_, err = NewMeshObject(quadMesh(t), NewConfig(WithEdgeColor(map[string]interface{}{"1": "red"})))
		assert.Error(t, err)
	}
	{ // A new transformation drops the cached coordinates
		mo, err := NewMeshObject(segmentMesh(), nil)
		require.NoError(t, err)
		_ = mo.VertexXYZ()
		T := geometry.Translation(r3.Vec{Z: 1})
		mo.SetTransformation(&T)
		vecEqual(t, r3.Vec{X: 1, Z: 1}, mo.VertexXYZ()[1])
		// Through the embedded object as well
		T = geometry.Translation(r3.Vec{Z: 2})
		mo.Base().SetTransformation(&T)
		vecEqual(t, r3.Vec{X: 1, Z: 2}, mo.VertexXYZ()[1])
	}
	{ // A new mesh drops the transformation and the cached coordinates
		T := geometry.Translation(r3.Vec{Y: 4})
		mo, err := NewMeshObject(segmentMesh(), NewConfig(WithTransformation(T)))
		require.NoError(t, err)
		vecEqual(t, r3.Vec{Y: 4}, mo.VertexXYZ()[0])
		m := datastructures.NewMesh()
		m.AddVertex(r3.Vec{X: 7})
		item := mo.Item()
		mo.SetMesh(m)
		assert.Nil(t, mo.Transformation())
		assert.Same(t, m, mo.Mesh())
		assert.Equal(t, item, mo.Item())
		xyz := mo.VertexXYZ()
		require.Len(t, xyz, 1)
		vecEqual(t, r3.Vec{X: 7}, xyz[0])
	}
	{ // Ancestor frame changes leave the cache stale until it is reset
		s := NewScene("stale", WithContext(""))
		g, err := s.Add(NewGroup("g"))
		require.NoError(t, err)
		obj, err := g.Base().Add(segmentMesh())
		require.NoError(t, err)
		mo := obj.(*MeshObject)
		vecEqual(t, r3.Vec{X: 1}, mo.VertexXYZ()[1])
		f := mustFrame(t, r3.Vec{Z: 10}, r3.Vec{X: 1}, r3.Vec{Y: 1})
		g.Base().SetFrame(&f)
		vecEqual(t, r3.Vec{X: 1}, mo.VertexXYZ()[1])
		mo.SetVertexXYZ(nil)
		vecEqual(t, r3.Vec{X: 1, Z: 10}, mo.VertexXYZ()[1])
	}
	{ // Settings
		mo, err := NewMeshObject(quadMesh(t), nil)
		require.NoError(t, err)
		s := mo.Settings()
		for _, key := range []string{"name", "color", "opacity", "show", "show_vertices", "show_edges",
			"show_faces", "vertexcolor", "edgecolor", "facecolor", "vertexsize", "edgewidth"} {
			assert.Contains(t, s, key)
		}
	}
}

func TestGeometryObject(t *testing.T) {
	{ // Defaults
		line := geometry.NewLine(r3.Vec{}, r3.Vec{X: 2})
		gobj, err := NewGeometryObject(line, NewConfig(WithColor(colors.White())))
		require.NoError(t, err)
		colorEqual(t, colors.White(), gobj.LineColor)
		colorEqual(t, gobj.ContrastColor(), gobj.PointColor)
		assert.True(t, gobj.ShowLines)
		assert.False(t, gobj.ShowPoints)
		assert.Equal(t, geometry.DefaultResolution, gobj.Resolution)
		assert.Equal(t, "Line", gobj.Name())
	}
	{ // Samples are placed in the world
		line := geometry.NewLine(r3.Vec{}, r3.Vec{X: 2})
		gobj, err := NewGeometryObject(line, NewConfig(WithTransformation(geometry.Translation(r3.Vec{Y: 1}))))
		require.NoError(t, err)
		pts := gobj.WorldPoints()
		require.Len(t, pts, 2)
		vecEqual(t, r3.Vec{Y: 1}, pts[0])
		vecEqual(t, r3.Vec{X: 2, Y: 1}, pts[1])
	}
	{ // Resolution applies to smooth curves
		c := geometry.NewCircle(geometry.WorldXY(), 1)
		gobj, err := NewGeometryObject(c, NewConfig(WithResolution(8)))
		require.NoError(t, err)
		assert.Len(t, gobj.WorldPoints(), len(c.Points(8)))
		_, err = NewGeometryObject(c, NewConfig(WithResolution(1)))
		assert.Error(t, err)
	}
	{ // Only curves
		_, err := NewGeometryObject(NewGroup("g"), nil)
		assert.Error(t, err)
	}
}

func TestSelection(t *testing.T) {
	{ // Kinds
		assert.True(t, SelectAll[int]().Includes(5))
		assert.True(t, SelectNone[int]().None())
		sel := SelectKeys(1, 3)
		assert.True(t, sel.Includes(3))
		assert.False(t, sel.Includes(2))
		assert.False(t, sel.None())
		assert.True(t, SelectKeys[int]().None())
	}
	{ // JSON form is a bool or a key list
		var sel Selection[int]
		require.NoError(t, sel.UnmarshalJSON([]byte("true")))
		assert.True(t, sel.All())
		require.NoError(t, sel.UnmarshalJSON([]byte(" [2, 4]")))
		assert.Equal(t, []int{2, 4}, sel.Keys())
		b, err := sel.MarshalJSON()
		require.NoError(t, err)
		assert.Equal(t, "[2,4]", string(b))
		b, err = SelectNone[int]().MarshalJSON()
		require.NoError(t, err)
		assert.Equal(t, "false", string(b))
		var es Selection[datastructures.Edge]
		require.NoError(t, es.UnmarshalJSON([]byte("[[0,1]]")))
		assert.True(t, es.Includes(datastructures.Edge{0, 1}))
	}
}
