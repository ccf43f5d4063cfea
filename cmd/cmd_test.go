package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/goscene/InputParameters"
	"github.com/notargets/goscene/colors"
	"github.com/notargets/goscene/plotter"
	"github.com/notargets/goscene/scene"
)

var triangleMesh = []byte(`
name: tri
vertices:
  - xyz: [0, 0, 0]
  - xyz: [1, 0, 0]
  - xyz: [0, 1, 0]
faces:
  - vertices: [0, 1, 2]
`)

func writeFile(t *testing.T, dir, name string, b []byte) string {
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, b, 0644))
	return path
}

func TestParseVec(t *testing.T) {
	v, err := ParseVec("1, 2.5,-3")
	require.NoError(t, err)
	assert.Equal(t, r3.Vec{X: 1, Y: 2.5, Z: -3}, v)
	v, err = ParseVec("")
	require.NoError(t, err)
	assert.Equal(t, r3.Vec{}, v)
	_, err = ParseVec("1,2")
	assert.Error(t, err)
	_, err = ParseVec("1,a,2")
	assert.Error(t, err)
}

func TestRunMesh(t *testing.T) {
	dir := t.TempDir()
	mr := &MeshRun{
		MeshFile:  writeFile(t, dir, "tri.yaml", triangleMesh),
		Translate: r3.Vec{X: 1},
	}
	var out bytes.Buffer
	require.NoError(t, RunMesh(mr, &out))
	text := out.String()
	assert.Contains(t, text, "\"tri\"\t\t= Mesh\n")
	assert.Contains(t, text, "[3]\t\t\t= Vertices\n")
	assert.Contains(t, text, "[1]\t\t\t= Faces\n")
	assert.Contains(t, text, "[3]\t\t\t= Boundary Edges\n")
	assert.Contains(t, text, fmt.Sprintf("%6d %12.5f %12.5f %12.5f\n", 2, 1., 1., 0.))

	mr.MeshFile = filepath.Join(dir, "tri.obj")
	assert.Error(t, RunMesh(mr, &out))
}

const sceneYAML = `
Title: demo
Objects:
  - Type: Mesh
    Name: plate
    File: tri.yaml
    ShowEdges: true
    Children:
      - Type: Line
        Name: axis
        Points: [[0, 0, 0], [0, 0, 1]]
        Color: blue
`

func TestBuildScene(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "tri.yaml", triangleMesh)
	file := writeFile(t, dir, "demo.yaml", []byte(sceneYAML))
	{ // Default context
		sc, p, err := BuildScene(file, false, plotter.DefaultConfig())
		require.NoError(t, err)
		assert.Nil(t, p)
		assert.Equal(t, "demo", sc.Name())
		require.Equal(t, 2, sc.Len())
		plate, ok := sc.Find("plate").(*scene.MeshObject)
		require.True(t, ok)
		assert.Len(t, plate.VisibleEdges(), 3)
		axis := sc.Find("axis")
		require.NotNil(t, axis)
		assert.Equal(t, plate, axis.Base().Parent())
		assert.True(t, axis.Base().Color().EqualApprox(colors.Blue(), 1.e-12))
	}
	{ // Configured default color fills in unset colors only
		viper.Set("scene.color", "red")
		t.Cleanup(func() { viper.Set("scene.color", "") })
		sc, _, err := BuildScene(file, false, plotter.DefaultConfig())
		require.NoError(t, err)
		assert.True(t, sc.Find("plate").Base().Color().EqualApprox(colors.Red(), 1.e-12))
		assert.True(t, sc.Find("axis").Base().Color().EqualApprox(colors.Blue(), 1.e-12))
	}
	{ // Plotting installs the plotter objects
		sc, p, err := BuildScene(file, true, plotter.DefaultConfig())
		require.NoError(t, err)
		t.Cleanup(func() { scene.UnregisterContext(plotter.ContextName) })
		require.NotNil(t, p)
		assert.Equal(t, plotter.ContextName, sc.Context())
		assert.IsType(t, &plotter.MeshObject{}, sc.Find("plate"))
		assert.IsType(t, &plotter.GeometryObject{}, sc.Find("axis"))
		guids, err := sc.Draw()
		require.NoError(t, err)
		// One face, three edges and the line
		assert.Len(t, guids, 5)
		assert.Equal(t, 5, p.Len())
	}
	{ // Bad descriptions
		_, _, err := BuildScene(filepath.Join(dir, "missing.yaml"), false, plotter.DefaultConfig())
		assert.Error(t, err)
		bad := writeFile(t, dir, "bad.yaml", []byte("Objects:\n  - Type: Cube\n"))
		_, _, err = BuildScene(bad, false, plotter.DefaultConfig())
		assert.ErrorIs(t, err, InputParameters.ErrInvalidParameters)
	}
}

func TestRunScene(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "tri.yaml", triangleMesh)
	sr := &SceneRun{InputFile: writeFile(t, dir, "demo.yaml", []byte(sceneYAML))}
	{
		var out bytes.Buffer
		require.NoError(t, RunScene(sr, plotter.DefaultConfig(), &out))
		text := out.String()
		assert.Contains(t, text, "\"demo\"\t\t= Scene []\n")
		assert.Contains(t, text, "    plate (*datastructures.Mesh)\n")
		assert.Contains(t, text, "        axis (*geometry.Line)\n")
		assert.Contains(t, text, "      show_edges = ")
	}
	{ // JSON output rebuilds the same scene
		sc, _, err := BuildScene(sr.InputFile, false, plotter.DefaultConfig())
		require.NoError(t, err)
		b, err := json.Marshal(sc)
		require.NoError(t, err)
		again, err := scene.UnmarshalScene(b)
		require.NoError(t, err)
		assert.Equal(t, sc.Len(), again.Len())
		require.NotNil(t, again.Find("axis"))
		assert.Equal(t, "plate", again.Find("axis").Base().Parent().Base().Name())

		sr.JSON = true
		var out bytes.Buffer
		require.NoError(t, RunScene(sr, plotter.DefaultConfig(), &out))
		assert.Contains(t, out.String(), "\"objects\": [")
	}
}

func TestProfile(t *testing.T) {
	stop, err := startProfile("")
	require.NoError(t, err)
	assert.Nil(t, stop)
	_, err = startProfile("gpu")
	assert.Error(t, err)
}
