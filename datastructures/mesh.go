package datastructures

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/goscene/data"
	"github.com/notargets/goscene/geometry"
	"github.com/notargets/goscene/types"
)

var (
	ErrUnknownVertex = errors.New("unknown vertex")
	ErrUnknownFace   = errors.New("unknown face")
	ErrInvalidKey    = errors.New("invalid vertex key")
	ErrDuplicateKey  = errors.New("duplicate vertex key")
	ErrInvalidFace   = errors.New("invalid face")
)

// Edge is a pair of vertex keys, oriented as first encountered in the face loops.
type Edge [2]int

func (e Edge) Key() types.EdgeKey { return types.NewEdgeKey(e) }
func (e Edge) Reversed() Edge     { return Edge{e[1], e[0]} }

/*
Mesh is a polygonal surface mesh: a set of keyed vertices with xyz coordinates and a set of keyed
faces, each an ordered loop of vertex keys. Vertex and face iteration follows insertion order.
*/
type Mesh struct {
	data.Data
	vertices   map[int]r3.Vec
	vorder     []int
	faces      map[int][]int
	forder     []int
	nextVertex int
	nextFace   int
	edgeGroups map[string][]Edge
	faceGroups map[string][]int

	// Derived topology, rebuilt on demand after any topology change
	vindex    map[int]int
	adjacency *sparse.CSR
}

func NewMesh() *Mesh {
	return &Mesh{
		Data:       data.NewData("Mesh"),
		vertices:   make(map[int]r3.Vec),
		faces:      make(map[int][]int),
		edgeGroups: make(map[string][]Edge),
		faceGroups: make(map[string][]int),
	}
}

// FromVerticesAndFaces builds a mesh whose vertex keys are the positions in vertices.
func FromVerticesAndFaces(vertices [][3]float64, faces [][]int) (m *Mesh, err error) {
	m = NewMesh()
	for _, v := range vertices {
		m.AddVertex(geometry.ArrayToVec(v))
	}
	for i, f := range faces {
		if _, err = m.AddFace(f); err != nil {
			err = fmt.Errorf("face %d: %w", i, err)
			return nil, err
		}
	}
	return
}

func (m *Mesh) invalidate() {
	m.vindex = nil
	m.adjacency = nil
}

// AddVertex adds a vertex under the next free key and returns the key.
func (m *Mesh) AddVertex(xyz r3.Vec) (key int) {
	key = m.nextVertex
	_ = m.AddVertexWithKey(key, xyz)
	return
}

func (m *Mesh) AddVertexWithKey(key int, xyz r3.Vec) error {
	if !types.ValidVertexKey(key) {
		return fmt.Errorf("%w: %d", ErrInvalidKey, key)
	}
	if _, ok := m.vertices[key]; ok {
		return fmt.Errorf("%w: %d", ErrDuplicateKey, key)
	}
	m.vertices[key] = xyz
	m.vorder = append(m.vorder, key)
	if key >= m.nextVertex {
		m.nextVertex = key + 1
	}
	m.invalidate()
	return nil
}

// AddFace adds a face from a loop of at least three distinct existing vertices.
func (m *Mesh) AddFace(verts []int) (key int, err error) {
	if len(verts) < 3 {
		err = fmt.Errorf("%w: need at least 3 vertices, have %d", ErrInvalidFace, len(verts))
		return
	}
	seen := make(map[int]bool, len(verts))
	for _, v := range verts {
		if _, ok := m.vertices[v]; !ok {
			err = fmt.Errorf("%w: %d", ErrUnknownVertex, v)
			return
		}
		if seen[v] {
			err = fmt.Errorf("%w: vertex %d repeated", ErrInvalidFace, v)
			return
		}
		seen[v] = true
	}
	loop := make([]int, len(verts))
	copy(loop, verts)
	key = m.nextFace
	m.nextFace++
	m.faces[key] = loop
	m.forder = append(m.forder, key)
	m.invalidate()
	return
}

func (m *Mesh) NumberOfVertices() int { return len(m.vorder) }
func (m *Mesh) NumberOfFaces() int    { return len(m.forder) }
func (m *Mesh) NumberOfEdges() int    { return len(m.Edges()) }

// Vertices returns the vertex keys in insertion order.
func (m *Mesh) Vertices() []int {
	keys := make([]int, len(m.vorder))
	copy(keys, m.vorder)
	return keys
}

// Faces returns the face keys in insertion order.
func (m *Mesh) Faces() []int {
	keys := make([]int, len(m.forder))
	copy(keys, m.forder)
	return keys
}

func (m *Mesh) HasVertex(key int) bool {
	_, ok := m.vertices[key]
	return ok
}

func (m *Mesh) HasFace(key int) bool {
	_, ok := m.faces[key]
	return ok
}

// Edges returns each undirected edge once, in order of first appearance in the face loops.
func (m *Mesh) Edges() (edges []Edge) {
	seen := make(map[types.EdgeKey]bool)
	for _, f := range m.forder {
		for _, e := range types.FaceEdges(m.faces[f]) {
			ek := e.GetKey()
			if seen[ek] {
				continue
			}
			seen[ek] = true
			edges = append(edges, Edge(e.GetVertices()))
		}
	}
	return
}

// HasEdge is true for either orientation of an existing edge.
func (m *Mesh) HasEdge(e Edge) bool {
	if !m.HasVertex(e[0]) || !m.HasVertex(e[1]) || e[0] == e[1] {
		return false
	}
	ek := e.Key()
	for _, f := range m.forder {
		for _, fe := range types.FaceEdges(m.faces[f]) {
			if fe.GetKey() == ek {
				return true
			}
		}
	}
	return false
}

// BoundaryEdges returns the edges used by exactly one face.
func (m *Mesh) BoundaryEdges() (edges []Edge) {
	count := make(map[types.EdgeKey]int)
	for _, f := range m.forder {
		for _, e := range types.FaceEdges(m.faces[f]) {
			count[e.GetKey()]++
		}
	}
	for _, e := range m.Edges() {
		if count[e.Key()] == 1 {
			edges = append(edges, e)
		}
	}
	return
}

func (m *Mesh) VertexCoordinates(key int) (xyz r3.Vec, err error) {
	var ok bool
	if xyz, ok = m.vertices[key]; !ok {
		err = fmt.Errorf("%w: %d", ErrUnknownVertex, key)
	}
	return
}

func (m *Mesh) SetVertexCoordinates(key int, xyz r3.Vec) error {
	if _, ok := m.vertices[key]; !ok {
		return fmt.Errorf("%w: %d", ErrUnknownVertex, key)
	}
	m.vertices[key] = xyz
	return nil
}

// VerticesXYZ returns the coordinates of all vertices in the order of Vertices.
func (m *Mesh) VerticesXYZ() (xyz []r3.Vec) {
	xyz = make([]r3.Vec, len(m.vorder))
	for i, key := range m.vorder {
		xyz[i] = m.vertices[key]
	}
	return
}

func (m *Mesh) FaceVertices(key int) (verts []int, err error) {
	loop, ok := m.faces[key]
	if !ok {
		err = fmt.Errorf("%w: %d", ErrUnknownFace, key)
		return
	}
	verts = make([]int, len(loop))
	copy(verts, loop)
	return
}

// FaceCentroid is the average of the face vertex coordinates.
func (m *Mesh) FaceCentroid(key int) (c r3.Vec, err error) {
	var verts []int
	if verts, err = m.FaceVertices(key); err != nil {
		return
	}
	for _, v := range verts {
		c = r3.Add(c, m.vertices[v])
	}
	c = r3.Scale(1/float64(len(verts)), c)
	return
}

// Bounds returns the axis aligned bounding box of the vertices. An empty mesh has zero bounds.
func (m *Mesh) Bounds() (min, max r3.Vec) {
	if len(m.vorder) == 0 {
		return
	}
	min = r3.Vec{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
	max = r3.Vec{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)}
	for _, p := range m.vertices {
		min = r3.Vec{X: math.Min(min.X, p.X), Y: math.Min(min.Y, p.Y), Z: math.Min(min.Z, p.Z)}
		max = r3.Vec{X: math.Max(max.X, p.X), Y: math.Max(max.Y, p.Y), Z: math.Max(max.Z, p.Z)}
	}
	return
}

// Transform moves all vertices through T in place.
func (m *Mesh) Transform(T geometry.Transformation) {
	xyz := geometry.TransformPoints(m.VerticesXYZ(), T)
	for i, key := range m.vorder {
		m.vertices[key] = xyz[i]
	}
}

// Copy returns an independent mesh with the same keys, geometry and groups under a new identity.
func (m *Mesh) Copy() *Mesh {
	out := NewMesh()
	out.SetName(m.Name())
	for _, key := range m.vorder {
		_ = out.AddVertexWithKey(key, m.vertices[key])
	}
	for _, f := range m.forder {
		out.faces[f] = append([]int(nil), m.faces[f]...)
		out.forder = append(out.forder, f)
	}
	out.nextVertex, out.nextFace = m.nextVertex, m.nextFace
	for name, edges := range m.edgeGroups {
		out.edgeGroups[name] = append([]Edge(nil), edges...)
	}
	for name, faces := range m.faceGroups {
		out.faceGroups[name] = append([]int(nil), faces...)
	}
	return out
}

// SetEdgeGroup stores a named set of edges, such as a boundary marker read from a mesh file.
func (m *Mesh) SetEdgeGroup(name string, edges []Edge) error {
	for _, e := range edges {
		for _, v := range e {
			if !m.HasVertex(v) {
				return fmt.Errorf("edge group %s: %w: %d", name, ErrUnknownVertex, v)
			}
		}
	}
	m.edgeGroups[name] = append([]Edge(nil), edges...)
	return nil
}

func (m *Mesh) EdgeGroup(name string) []Edge { return m.edgeGroups[name] }

func (m *Mesh) EdgeGroupNames() (names []string) {
	for name := range m.edgeGroups {
		names = append(names, name)
	}
	sort.Strings(names)
	return
}

// SetFaceGroup stores a named set of faces, such as a material zone.
func (m *Mesh) SetFaceGroup(name string, faces []int) error {
	for _, f := range faces {
		if !m.HasFace(f) {
			return fmt.Errorf("face group %s: %w: %d", name, ErrUnknownFace, f)
		}
	}
	m.faceGroups[name] = append([]int(nil), faces...)
	return nil
}

func (m *Mesh) FaceGroup(name string) []int { return m.faceGroups[name] }

func (m *Mesh) FaceGroupNames() (names []string) {
	for name := range m.faceGroups {
		names = append(names, name)
	}
	sort.Strings(names)
	return
}
