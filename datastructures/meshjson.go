package datastructures

import (
	"encoding/json"
	"fmt"

	"github.com/ghodss/yaml"
	"github.com/google/uuid"

	"github.com/notargets/goscene/geometry"
)

/*
The data form of a mesh lists vertices and faces with their keys, so key order and identity
survive a round trip:

	guid: 6f1c...
	name: plate
	vertices:
	  - {key: 0, xyz: [0, 0, 0]}
	faces:
	  - {key: 0, vertices: [0, 1, 2]}
	edgegroups:
	  wall: [[0, 1]]
	facegroups:
	  fluid: [0]

The key fields are optional on input, missing keys are assigned in order.
*/
type meshJSON struct {
	GUID       string            `json:"guid,omitempty"`
	Name       string            `json:"name,omitempty"`
	Vertices   []vertexJSON      `json:"vertices"`
	Faces      []faceJSON        `json:"faces"`
	EdgeGroups map[string][]Edge `json:"edgegroups,omitempty"`
	FaceGroups map[string][]int  `json:"facegroups,omitempty"`
}

type vertexJSON struct {
	Key *int       `json:"key,omitempty"`
	XYZ [3]float64 `json:"xyz"`
}

type faceJSON struct {
	Key      *int  `json:"key,omitempty"`
	Vertices []int `json:"vertices"`
}

func (m *Mesh) MarshalJSON() ([]byte, error) {
	mj := meshJSON{
		GUID:     m.GUID().String(),
		Name:     m.Name(),
		Vertices: make([]vertexJSON, len(m.vorder)),
		Faces:    make([]faceJSON, len(m.forder)),
	}
	for i, key := range m.vorder {
		k := key
		mj.Vertices[i] = vertexJSON{Key: &k, XYZ: geometry.VecToArray(m.vertices[key])}
	}
	for i, key := range m.forder {
		k := key
		mj.Faces[i] = faceJSON{Key: &k, Vertices: m.faces[key]}
	}
	if len(m.edgeGroups) > 0 {
		mj.EdgeGroups = m.edgeGroups
	}
	if len(m.faceGroups) > 0 {
		mj.FaceGroups = m.faceGroups
	}
	return json.Marshal(mj)
}

func (m *Mesh) UnmarshalJSON(b []byte) (err error) {
	var mj meshJSON
	if err = json.Unmarshal(b, &mj); err != nil {
		return
	}
	out := NewMesh()
	if mj.GUID != "" {
		var guid uuid.UUID
		if guid, err = uuid.Parse(mj.GUID); err != nil {
			return
		}
		out.SetGUID(guid)
	}
	if mj.Name != "" {
		out.SetName(mj.Name)
	}
	for i, v := range mj.Vertices {
		if v.Key == nil {
			out.AddVertex(geometry.ArrayToVec(v.XYZ))
			continue
		}
		if err = out.AddVertexWithKey(*v.Key, geometry.ArrayToVec(v.XYZ)); err != nil {
			return fmt.Errorf("vertex %d: %w", i, err)
		}
	}
	for i, f := range mj.Faces {
		var key int
		if key, err = out.AddFace(f.Vertices); err != nil {
			return fmt.Errorf("face %d: %w", i, err)
		}
		if f.Key != nil && *f.Key != key {
			if err = out.rekeyFace(key, *f.Key); err != nil {
				return fmt.Errorf("face %d: %w", i, err)
			}
		}
	}
	for name, edges := range mj.EdgeGroups {
		if err = out.SetEdgeGroup(name, edges); err != nil {
			return
		}
	}
	for name, faces := range mj.FaceGroups {
		if err = out.SetFaceGroup(name, faces); err != nil {
			return
		}
	}
	*m = *out
	return
}

func (m *Mesh) rekeyFace(from, to int) error {
	if to < 0 {
		return fmt.Errorf("%w: negative face key %d", ErrInvalidFace, to)
	}
	if _, ok := m.faces[to]; ok {
		return fmt.Errorf("%w: duplicate face key %d", ErrInvalidFace, to)
	}
	m.faces[to] = m.faces[from]
	delete(m.faces, from)
	m.forder[len(m.forder)-1] = to
	if to >= m.nextFace {
		m.nextFace = to + 1
	}
	return nil
}

// ToYAML writes the data form of the mesh as YAML.
func (m *Mesh) ToYAML() ([]byte, error) {
	return yaml.Marshal(m)
}

// FromYAML reads a mesh from its YAML (or JSON) data form.
func FromYAML(b []byte) (m *Mesh, err error) {
	var j []byte
	if j, err = yaml.YAMLToJSON(b); err != nil {
		return
	}
	m = NewMesh()
	if err = json.Unmarshal(j, m); err != nil {
		return nil, err
	}
	return
}
