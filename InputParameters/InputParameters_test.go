package InputParameters

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/goscene/colors"
	"github.com/notargets/goscene/geometry"
	"github.com/notargets/goscene/scene"
)

var sceneFile = []byte(`
Title: Demo
Context: Plotter
Objects:
  - Type: Group
    Name: assembly
    Frame:
      Point: [0, 0, 5]
      XAxis: [1, 0, 0]
      YAxis: [0, 1, 0]
    Children:
      - Type: Mesh
        Name: plate
        File: plate.yaml
        Translation: [1, 0, 0]
        Color: red
        ShowVertices: [0, 1]
        FaceColor:
          "0": "#00ff00"
  - Type: Circle
    Name: ring
    Radius: 2
    Resolution: 16
    ShowPoints: true
    Opacity: 0.5
`)

var plateFile = []byte(`
vertices:
  - xyz: [0, 0, 0]
  - xyz: [1, 0, 0]
  - xyz: [0, 1, 0]
faces:
  - vertices: [0, 1, 2]
`)

func TestParse(t *testing.T) {
	var sp SceneParameters
	require.NoError(t, sp.Parse(sceneFile))
	assert.Equal(t, "Demo", sp.Title)
	assert.Equal(t, "Plotter", sp.Context)
	require.Len(t, sp.Objects, 2)
	group := sp.Objects[0]
	assert.Equal(t, GroupType, group.Type)
	require.NotNil(t, group.Frame)
	assert.Equal(t, [3]float64{0, 0, 5}, group.Frame.Point)
	require.Len(t, group.Children, 1)
	plate := group.Children[0]
	assert.Equal(t, "plate.yaml", plate.File)
	require.NotNil(t, plate.Translation)
	assert.Equal(t, [3]float64{1, 0, 0}, *plate.Translation)
	assert.Equal(t, "red", plate.Color)
	assert.Nil(t, plate.Opacity)
	ring := sp.Objects[1]
	assert.Equal(t, 2., ring.Radius)
	require.NotNil(t, ring.ShowPoints)
	assert.True(t, *ring.ShowPoints)
	require.NotNil(t, ring.Opacity)
	assert.Equal(t, 0.5, *ring.Opacity)
	assert.NoError(t, sp.Validate())
	sp.Print()
}

func TestValidate(t *testing.T) {
	var sp SceneParameters
	require.NoError(t, sp.Parse([]byte(`
Objects:
  - Type: Line
    Points: [[0, 0, 0]]
  - Type: Group
    Children:
      - Type: Cube
      - Type: Circle
        Radius: 1
        Opacity: 2
  - Type: Mesh
`)))
	err := sp.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidParameters)
	msg := err.Error()
	assert.Contains(t, msg, "Objects[0]: line needs 2 Points")
	assert.Contains(t, msg, "Objects[1].Children[0]: unknown Type [Cube]")
	assert.Contains(t, msg, "Objects[1].Children[1]: Opacity 2 outside [0,1]")
	assert.Contains(t, msg, "Objects[2]: mesh needs a File")
	assert.Equal(t, 4, strings.Count(msg, ErrInvalidParameters.Error()))
}

func TestTransformation(t *testing.T) {
	{ // Nothing given
		op := ObjectParameters{}
		T, err := op.Transformation()
		require.NoError(t, err)
		assert.Nil(t, T)
	}
	{ // Scale, then rotate, then translate
		op := ObjectParameters{
			Scale:       &[3]float64{2, 2, 2},
			Rotation:    &RotationParameters{Axis: [3]float64{0, 0, 1}, Angle: 90},
			Translation: &[3]float64{1, 0, 0},
		}
		T, err := op.Transformation()
		require.NoError(t, err)
		require.NotNil(t, T)
		p := T.Apply(r3.Vec{X: 1})
		assert.InDelta(t, 1., p.X, 1.e-12)
		assert.InDelta(t, 2., p.Y, 1.e-12)
		assert.InDelta(t, 0., p.Z, 1.e-12)
	}
	{ // Degenerate input
		op := ObjectParameters{Rotation: &RotationParameters{Angle: 90}}
		_, err := op.Transformation()
		assert.ErrorIs(t, err, geometry.ErrDegenerateFrame)
		op = ObjectParameters{Frame: &FrameParameters{XAxis: [3]float64{1, 0, 0}, YAxis: [3]float64{2, 0, 0}}}
		_, err = op.LocalFrame()
		assert.ErrorIs(t, err, geometry.ErrDegenerateFrame)
	}
}

func TestItem(t *testing.T) {
	{
		op := ObjectParameters{Type: LineType, Points: [][3]float64{{0, 0, 0}, {1, 1, 1}}}
		item, err := op.Item("")
		require.NoError(t, err)
		require.IsType(t, &geometry.Line{}, item)
		assert.Equal(t, r3.Vec{X: 1, Y: 1, Z: 1}, item.(*geometry.Line).End)
	}
	{
		op := ObjectParameters{Type: EllipseType, Major: 2, Minor: 1,
			Plane: &FrameParameters{Point: [3]float64{0, 0, 1}, XAxis: [3]float64{1, 0, 0}, YAxis: [3]float64{0, 1, 0}}}
		item, err := op.Item("")
		require.NoError(t, err)
		require.IsType(t, &geometry.Ellipse{}, item)
		assert.Equal(t, r3.Vec{Z: 1}, item.(*geometry.Ellipse).Center())
	}
	{
		op := ObjectParameters{Type: GroupType}
		item, err := op.Item("")
		require.NoError(t, err)
		assert.Equal(t, "Group", item.Name())
	}
	{
		op := ObjectParameters{Type: "Cube"}
		_, err := op.Item("")
		assert.ErrorIs(t, err, ErrInvalidParameters)
	}
}

func TestBuild(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "plate.yaml"), plateFile, 0644))
	var sp SceneParameters
	require.NoError(t, sp.Parse(sceneFile))

	sc := scene.NewScene(sp.Title, scene.WithContext(""))
	require.NoError(t, sp.Build(sc, dir))
	require.Equal(t, 3, sc.Len())

	var names []string
	for _, obj := range sc.Objects() {
		names = append(names, obj.Base().Name())
	}
	assert.Equal(t, []string{"assembly", "plate", "ring"}, names)

	plate, ok := sc.Find("plate").(*scene.MeshObject)
	require.True(t, ok)
	assert.Equal(t, "assembly", plate.Parent().Base().Name())
	// Group frame then local translation
	assert.Equal(t, r3.Vec{X: 1, Z: 5}, plate.VertexXYZ()[0])
	assert.True(t, plate.Color().EqualApprox(colors.Red(), 1.e-12))
	assert.Equal(t, []int{0, 1}, plate.VisibleVertices())
	assert.True(t, plate.FaceColor.Get(0).EqualApprox(colors.Green(), 1.e-12))

	ring, ok := sc.Find("ring").(*scene.GeometryObject)
	require.True(t, ok)
	assert.Equal(t, 16, ring.Resolution)
	assert.True(t, ring.ShowPoints)
	assert.Equal(t, 0.5, ring.Opacity())

	{ // Missing mesh files fail the build
		sp := SceneParameters{Objects: []ObjectParameters{{Type: MeshType, File: "missing.yaml"}}}
		assert.Error(t, sp.Build(scene.NewScene("broken", scene.WithContext("")), dir))
	}
}
