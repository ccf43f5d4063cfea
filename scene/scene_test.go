package scene

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/goscene/colors"
	"github.com/notargets/goscene/data"
	"github.com/notargets/goscene/datastructures"
	"github.com/notargets/goscene/geometry"
)

const recorder = "Recorder"

// recordingContext stands in for a drawing host.
type recordingContext struct {
	cleared [][]string
	before  int
	after   [][]string
}

func (rc *recordingContext) Name() string { return recorder }

func (rc *recordingContext) Clear(guids []string) error {
	rc.cleared = append(rc.cleared, guids)
	return nil
}

func (rc *recordingContext) BeforeDraw() error {
	rc.before++
	return nil
}

func (rc *recordingContext) AfterDraw(guids []string) error {
	rc.after = append(rc.after, guids)
	return nil
}

type marker struct {
	data.Data
}

func newMarker(name string) *marker { return &marker{Data: data.NewData(name)} }

type markerObject struct {
	*SceneObject
	draws int
}

func (mo *markerObject) Draw() ([]string, error) {
	mo.draws++
	guid := fmt.Sprintf("%s-%d", mo.Name(), mo.draws)
	mo.AddGUIDs(guid)
	return []string{guid}, nil
}

func newMarkerObject(item data.Item, cfg *Config) (Object, error) {
	so, err := NewSceneObject(item, cfg)
	if err != nil {
		return nil, err
	}
	return &markerObject{SceneObject: so}, nil
}

type unregistered struct {
	data.Data
}

func withRecorder(t *testing.T) *recordingContext {
	t.Helper()
	rc := &recordingContext{}
	RegisterContext(rc)
	t.Cleanup(func() { UnregisterContext(recorder) })
	return rc
}

func init() {
	RegisterType[*marker](recorder, newMarkerObject)
	RegisterItemCodec("Marker", func() data.Item { return &marker{} })
}

func TestRegistry(t *testing.T) {
	{ // Default constructors
		obj, err := New(segmentMesh(), WithContext(""))
		require.NoError(t, err)
		assert.IsType(t, &MeshObject{}, obj)
		obj, err = New(geometry.NewLine(r3.Vec{}, r3.Vec{X: 1}), WithContext(""))
		require.NoError(t, err)
		assert.IsType(t, &GeometryObject{}, obj)
		obj, err = New(NewGroup("g"), WithContext(""))
		require.NoError(t, err)
		assert.IsType(t, &SceneObject{}, obj)
	}
	{ // Context specific constructors, with fallback to the default context
		obj, err := New(newMarker("m"), WithContext(recorder))
		require.NoError(t, err)
		assert.IsType(t, &markerObject{}, obj)
		assert.Equal(t, recorder, obj.Base().Context())
		obj, err = New(segmentMesh(), WithContext(recorder))
		require.NoError(t, err)
		assert.IsType(t, &MeshObject{}, obj)
	}
	{ // Unregistered items
		_, err := New(&unregistered{}, WithContext(""))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNotRegistered)
		var nre *NotRegisteredError
		require.True(t, errors.As(err, &nre))
		assert.Equal(t, reflect.TypeOf(&unregistered{}), nre.ItemType)
		// Markers are only known to the recorder
		_, err = New(newMarker("m"), WithContext(""))
		assert.ErrorIs(t, err, ErrNotRegistered)
		_, err = New(42)
		assert.ErrorIs(t, err, ErrNotRegistered)
	}
	{ // Nil items
		_, err := New(nil)
		assert.ErrorIs(t, err, ErrNilItem)
		_, err = New((*datastructures.Mesh)(nil))
		assert.ErrorIs(t, err, ErrNilItem)
	}
	{ // The most recent matching interface wins, concrete types first
		type smoothCurve interface {
			geometry.Curve
			Center() r3.Vec
		}
		const ctx = "Interfaces"
		var calls []string
		ctor := func(name string) Constructor {
			return func(item data.Item, cfg *Config) (Object, error) {
				calls = append(calls, name)
				return sceneObject(item, cfg)
			}
		}
		RegisterType[geometry.Curve](ctx, ctor("curve"))
		RegisterType[smoothCurve](ctx, ctor("smooth"))
		_, err := New(geometry.NewCircle(geometry.WorldXY(), 1), WithContext(ctx))
		require.NoError(t, err)
		_, err = New(geometry.NewLine(r3.Vec{}, r3.Vec{X: 1}), WithContext(ctx))
		require.NoError(t, err)
		RegisterType[*geometry.Circle](ctx, ctor("circle"))
		_, err = New(geometry.NewCircle(geometry.WorldXY(), 1), WithContext(ctx))
		require.NoError(t, err)
		assert.Equal(t, []string{"smooth", "curve", "circle"}, calls)
	}
	{ // An explicit constructor skips the lookup and runs once
		var calls int
		obj, err := New(&unregistered{}, WithConstructor(func(item data.Item, cfg *Config) (Object, error) {
			calls++
			return sceneObject(item, cfg)
		}))
		require.NoError(t, err)
		assert.Equal(t, 1, calls)
		assert.IsType(t, &SceneObject{}, obj)
	}
	{ // Current context
		prev := CurrentContext()
		SetCurrentContext(recorder)
		obj, err := New(newMarker("m"))
		SetCurrentContext(prev)
		require.NoError(t, err)
		assert.IsType(t, &markerObject{}, obj)
	}
}

func TestSceneAdd(t *testing.T) {
	{ // Adding an object attaches that object
		s := NewScene("s", WithContext(""))
		so, err := NewSceneObject(NewGroup("g"), nil)
		require.NoError(t, err)
		obj, err := s.Add(so)
		require.NoError(t, err)
		assert.Same(t, so, obj)
		assert.True(t, so.IsAttached())
		assert.Same(t, s, so.Scene())
		_, err = s.Add(so)
		assert.ErrorIs(t, err, ErrAlreadyAttached)
	}
	{ // Adding an item constructs exactly one object
		s := NewScene("s", WithContext(""))
		var calls int
		obj, err := s.Add(segmentMesh(), WithConstructor(func(item data.Item, cfg *Config) (Object, error) {
			calls++
			return meshObject(item, cfg)
		}))
		require.NoError(t, err)
		assert.Equal(t, 1, calls)
		assert.Equal(t, 1, s.Len())
		assert.Equal(t, []Object{obj}, s.Objects())
	}
	{ // Children are created for the context of their parent
		s := NewScene("s", WithContext(recorder))
		g, err := s.Add(NewGroup("g"))
		require.NoError(t, err)
		m, err := g.Base().Add(newMarker("m"))
		require.NoError(t, err)
		assert.IsType(t, &markerObject{}, m)
		_, err = s.Add(newMarker("n"), WithParent(m))
		require.NoError(t, err)
		assert.Equal(t, []string{"g", "m", "n"}, names(s.Objects()))
		assert.Len(t, s.Children(), 1)
	}
	{ // Parents must belong to the scene
		s1, s2 := NewScene("1", WithContext("")), NewScene("2", WithContext(""))
		g, err := s1.Add(NewGroup("g"))
		require.NoError(t, err)
		_, err = s2.Add(NewGroup("h"), WithParent(g))
		assert.ErrorIs(t, err, ErrNotAttached)
		so, err := NewSceneObject(NewGroup("free"), nil)
		require.NoError(t, err)
		_, err = so.Add(NewGroup("child"))
		assert.ErrorIs(t, err, ErrNotAttached)
	}
	{ // Find
		s := NewScene("s", WithContext(""))
		mesh := segmentMesh()
		_, err := s.Add(NewGroup("a"))
		require.NoError(t, err)
		obj, err := s.Add(mesh, WithName("b"))
		require.NoError(t, err)
		assert.Same(t, obj, s.Find("b"))
		assert.Nil(t, s.Find("c"))
		assert.Same(t, obj, s.FindByItemGUID(mesh.GUID()))
	}
}

func names(objs []Object) (n []string) {
	for _, obj := range objs {
		n = append(n, obj.Base().Name())
	}
	return
}

func TestClearAndDraw(t *testing.T) {
	rc := withRecorder(t)
	{ // Clear hands the handles to the context once
		obj, err := New(newMarker("m"), WithContext(recorder))
		require.NoError(t, err)
		mo := obj.(*markerObject)
		_, err = Draw(mo)
		require.NoError(t, err)
		assert.Equal(t, []string{"m-1"}, mo.GUIDs())
		require.NoError(t, mo.Clear())
		assert.Equal(t, [][]string{{"m-1"}}, rc.cleared)
		assert.Equal(t, []string{}, mo.GUIDs())
		require.NoError(t, mo.Clear())
		assert.Len(t, rc.cleared, 1)
		rc.cleared = nil
	}
	{ // Objects without a renderer
		so, err := NewSceneObject(NewGroup("g"), nil)
		require.NoError(t, err)
		_, err = Draw(so)
		assert.ErrorIs(t, err, ErrNotImplemented)
		mo, err := NewMeshObject(segmentMesh(), nil)
		require.NoError(t, err)
		_, err = Draw(mo)
		assert.ErrorIs(t, err, ErrNotImplemented)
	}
	{ // Scene draws visible objects between the hooks and clears before redrawing
		s := NewScene("s", WithContext(recorder))
		g, err := s.Add(NewGroup("g"))
		require.NoError(t, err)
		_, err = g.Base().Add(newMarker("a"))
		require.NoError(t, err)
		hidden, err := s.Add(newMarker("b"), WithShow(false))
		require.NoError(t, err)
		guids, err := s.Draw()
		require.NoError(t, err)
		assert.Equal(t, []string{"a-1"}, guids)
		assert.Equal(t, 1, rc.before)
		assert.Equal(t, [][]string{{"a-1"}}, rc.after)
		assert.Empty(t, hidden.Base().GUIDs())

		guids, err = s.Draw()
		require.NoError(t, err)
		assert.Equal(t, []string{"a-2"}, guids)
		assert.Equal(t, [][]string{{"a-1"}}, rc.cleared)

		require.NoError(t, s.Clear())
		assert.Equal(t, [][]string{{"a-1"}, {"a-2"}}, rc.cleared)
	}
	{ // A scene needs a registered context to draw
		s := NewScene("s", WithContext("nowhere"))
		_, err := s.Draw()
		assert.ErrorIs(t, err, ErrNoContext)
	}
}

func TestSceneRemove(t *testing.T) {
	rc := withRecorder(t)
	s := NewScene("s", WithContext(recorder))
	a, err := s.Add(newMarker("a"))
	require.NoError(t, err)
	b, err := a.Base().Add(newMarker("b"))
	require.NoError(t, err)
	c, err := s.Add(newMarker("c"))
	require.NoError(t, err)
	_, err = s.Draw()
	require.NoError(t, err)
	rc.cleared = nil

	require.NoError(t, s.Remove(a))
	assert.Equal(t, [][]string{{"a-1"}, {"b-1"}}, rc.cleared)
	assert.False(t, a.Base().IsAttached())
	assert.False(t, b.Base().IsAttached())
	assert.Equal(t, []Object{c}, s.Objects())
	assert.ErrorIs(t, s.Remove(a), ErrNotAttached)

	// Detached objects can be added again
	_, err = s.Add(a)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Len())
}

func TestSceneSerialization(t *testing.T) {
	var (
		s    = NewScene("assembly", WithContext(""))
		mesh = quadMesh(t)
		f    = mustFrame(t, r3.Vec{X: 1}, r3.Vec{Y: 1}, r3.Vec{X: -1})
		T    = geometry.Translation(r3.Vec{Z: 2})
	)
	g, err := s.Add(NewGroup("frame"), WithFrame(f))
	require.NoError(t, err)
	_, err = g.Base().Add(mesh, WithName("plate"), WithTransformation(T), WithColor("red"),
		WithShowEdges(true), WithVertexColor(map[int]colors.Color{1: colors.Blue()}))
	require.NoError(t, err)
	_, err = g.Base().Add(mesh, WithName("copy"), WithOpacity(0.5))
	require.NoError(t, err)
	_, err = s.Add(geometry.NewCircle(geometry.WorldXY(), 2), WithResolution(16), WithShowPoints(true))
	require.NoError(t, err)

	b, err := json.Marshal(s)
	require.NoError(t, err)
	{ // Shared items are written once
		var raw struct {
			Items map[string]json.RawMessage `json:"items"`
		}
		require.NoError(t, json.Unmarshal(b, &raw))
		assert.Len(t, raw.Items, 3)
	}
	s2, err := UnmarshalScene(b)
	require.NoError(t, err)
	assert.Equal(t, s.GUID(), s2.GUID())
	assert.Equal(t, "assembly", s2.Name())
	assert.Equal(t, []string{"frame", "plate", "copy", "Circle"}, names(s2.Objects()))
	{ // Hierarchy and frames
		g2 := s2.Find("frame")
		require.NotNil(t, g2)
		require.NotNil(t, g2.Base().Frame())
		vecEqual(t, f.Point, g2.Base().Frame().Point)
		assert.Len(t, g2.Base().Children(), 2)
	}
	{ // Mesh objects and their shared item
		plate, ok := s2.Find("plate").(*MeshObject)
		require.True(t, ok)
		cp, ok := s2.Find("copy").(*MeshObject)
		require.True(t, ok)
		assert.Same(t, plate.Item(), cp.Item())
		assert.Equal(t, mesh.GUID(), plate.Item().GUID())
		assert.Equal(t, 4, plate.Mesh().NumberOfVertices())
		colorEqual(t, colors.Red(), plate.Color())
		colorEqual(t, colors.Blue(), plate.VertexColor.Get(1))
		assert.True(t, plate.ShowEdges.All())
		assert.Equal(t, 0.5, cp.Opacity())
		vecEqual(t, r3.Vec{X: 1, Z: 2}, plate.VertexXYZ()[0])
	}
	{ // Curves
		c, ok := s2.Find("Circle").(*GeometryObject)
		require.True(t, ok)
		assert.Equal(t, 16, c.Resolution)
		assert.True(t, c.ShowPoints)
	}
	{ // Objects are only serialized through their scene
		var so SceneObject
		assert.ErrorIs(t, json.Unmarshal([]byte(`{"item":"x"}`), &so), ErrSerializationOutsideScene)
		free, err := NewSceneObject(NewGroup("free"), nil)
		require.NoError(t, err)
		_, err = MarshalObject(free)
		assert.ErrorIs(t, err, ErrSerializationOutsideScene)
		ob, err := MarshalObject(g)
		require.NoError(t, err)
		assert.Contains(t, string(ob), `"children"`)
	}
	{ // Unknown item types
		_, err := UnmarshalScene([]byte(`{"items":{"a":{"type":"Teapot","data":{}}},"objects":[]}`))
		assert.ErrorIs(t, err, ErrNoCodec)
		_, err = json.Marshal(mustScene(t, &unregistered{}))
		assert.ErrorIs(t, err, ErrNoCodec)
	}
}

func mustScene(t *testing.T, item data.Item) *Scene {
	t.Helper()
	s := NewScene("s", WithContext(""))
	_, err := s.Add(item, WithConstructor(sceneObject))
	require.NoError(t, err)
	return s
}
