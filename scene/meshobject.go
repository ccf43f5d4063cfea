package scene

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/goscene/colors"
	"github.com/notargets/goscene/data"
	"github.com/notargets/goscene/datastructures"
	"github.com/notargets/goscene/geometry"
)

/*
MeshObject displays a mesh. Vertices and edges are drawn in the contrast color and faces in the
base color unless overridden per element. By default only the faces are shown.
*/
type MeshObject struct {
	SceneObject
	mesh      *datastructures.Mesh
	vertexXYZ map[int]r3.Vec

	VertexColor  *colors.ColorDict[int]
	EdgeColor    *colors.ColorDict[datastructures.Edge]
	FaceColor    *colors.ColorDict[int]
	VertexSize   float64
	EdgeWidth    float64
	ShowVertices Selection[int]
	ShowEdges    Selection[datastructures.Edge]
	ShowFaces    Selection[int]
}

func NewMeshObject(item data.Item, cfg *Config) (mo *MeshObject, err error) {
	mesh, ok := item.(*datastructures.Mesh)
	if !ok {
		if isNil(item) {
			return nil, ErrNilItem
		}
		return nil, fmt.Errorf("mesh object needs a *datastructures.Mesh, have %T", item)
	}
	if cfg == nil {
		cfg = NewConfig()
	}
	mo = &MeshObject{}
	if err = mo.init(mesh, cfg); err != nil {
		return nil, err
	}
	mo.onTransformation = mo.invalidate
	mo.mesh = mesh
	if mo.VertexColor, err = cfg.vertexColors(mo.ContrastColor()); err != nil {
		return nil, fmt.Errorf("vertexcolor: %w", err)
	}
	if mo.EdgeColor, err = cfg.edgeColors(mo.ContrastColor()); err != nil {
		return nil, fmt.Errorf("edgecolor: %w", err)
	}
	if mo.FaceColor, err = cfg.faceColors(mo.Color()); err != nil {
		return nil, fmt.Errorf("facecolor: %w", err)
	}
	mo.VertexSize, mo.EdgeWidth = 1, 1
	if cfg.vertexSize != nil {
		mo.VertexSize = *cfg.vertexSize
	}
	if cfg.edgeWidth != nil {
		mo.EdgeWidth = *cfg.edgeWidth
	}
	mo.ShowVertices = SelectNone[int]()
	if cfg.hasShowVertices {
		if mo.ShowVertices, err = coerceIntSelection(cfg.showVertices); err != nil {
			return nil, fmt.Errorf("show_vertices: %w", err)
		}
	}
	mo.ShowEdges = SelectNone[datastructures.Edge]()
	if cfg.hasShowEdges {
		if mo.ShowEdges, err = coerceEdgeSelection(cfg.showEdges); err != nil {
			return nil, fmt.Errorf("show_edges: %w", err)
		}
	}
	mo.ShowFaces = SelectAll[int]()
	if cfg.hasShowFaces {
		if mo.ShowFaces, err = coerceIntSelection(cfg.showFaces); err != nil {
			return nil, fmt.Errorf("show_faces: %w", err)
		}
	}
	return
}

func (mo *MeshObject) invalidate() { mo.vertexXYZ = nil }

func (mo *MeshObject) Mesh() *datastructures.Mesh { return mo.mesh }

// SetMesh replaces the displayed mesh, dropping the transformation and the cached coordinates.
// The wrapped item is not changed.
func (mo *MeshObject) SetMesh(mesh *datastructures.Mesh) {
	mo.mesh = mesh
	mo.SetTransformation(nil)
}

/*
VertexXYZ maps each vertex key to its world coordinates. The mapping is computed on first use and
cached until the mesh or the local transformation change. Changes to the frames of ancestors do
not invalidate it, call SetVertexXYZ(nil) to force a recompute. The returned map must not be
modified.
*/
func (mo *MeshObject) VertexXYZ() map[int]r3.Vec {
	if mo.vertexXYZ == nil {
		var (
			keys = mo.mesh.Vertices()
			xyz  = geometry.TransformPoints(mo.mesh.VerticesXYZ(), mo.WorldTransformation())
		)
		mo.vertexXYZ = make(map[int]r3.Vec, len(keys))
		for i, key := range keys {
			mo.vertexXYZ[key] = xyz[i]
		}
	}
	return mo.vertexXYZ
}

// SetVertexXYZ replaces the cached coordinates, nil clears them.
func (mo *MeshObject) SetVertexXYZ(xyz map[int]r3.Vec) {
	mo.vertexXYZ = xyz
}

// VisibleVertices lists the shown vertex keys in mesh order.
func (mo *MeshObject) VisibleVertices() (keys []int) {
	if mo.ShowVertices.None() {
		return
	}
	for _, key := range mo.mesh.Vertices() {
		if mo.ShowVertices.Includes(key) {
			keys = append(keys, key)
		}
	}
	return
}

// VisibleEdges matches a selected edge in either orientation.
func (mo *MeshObject) VisibleEdges() (edges []datastructures.Edge) {
	if mo.ShowEdges.None() {
		return
	}
	for _, e := range mo.mesh.Edges() {
		if mo.ShowEdges.Includes(e) || mo.ShowEdges.Includes(e.Reversed()) {
			edges = append(edges, e)
		}
	}
	return
}

func (mo *MeshObject) VisibleFaces() (keys []int) {
	if mo.ShowFaces.None() {
		return
	}
	for _, key := range mo.mesh.Faces() {
		if mo.ShowFaces.Includes(key) {
			keys = append(keys, key)
		}
	}
	return
}

// EdgeColorOf looks an edge color up in either orientation.
func (mo *MeshObject) EdgeColorOf(e datastructures.Edge) colors.Color {
	if c, ok := mo.EdgeColor.Lookup(e); ok {
		return c
	}
	if c, ok := mo.EdgeColor.Lookup(e.Reversed()); ok {
		return c
	}
	return mo.EdgeColor.Default
}

func (mo *MeshObject) Settings() Settings {
	s := mo.SceneObject.Settings()
	s["show_vertices"] = mo.ShowVertices
	s["show_edges"] = mo.ShowEdges
	s["show_faces"] = mo.ShowFaces
	s["vertexcolor"] = mo.VertexColor
	s["edgecolor"] = mo.EdgeColor
	s["facecolor"] = mo.FaceColor
	s["vertexsize"] = mo.VertexSize
	s["edgewidth"] = mo.EdgeWidth
	return s
}
