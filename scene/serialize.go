package scene

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/notargets/goscene/colors"
	"github.com/notargets/goscene/data"
	"github.com/notargets/goscene/datastructures"
	"github.com/notargets/goscene/geometry"
	"github.com/notargets/goscene/tree"
)

/*
A scene serializes its items once each, keyed by GUID, and its objects as a tree that refers to
the items by GUID. Loading rebuilds each object through the registry from its item and settings.

	{
	  "guid": "...", "name": "Scene", "context": "Plotter",
	  "items": {"<guid>": {"type": "Mesh", "data": {...}}},
	  "objects": [{"item": "<guid>", "settings": {...}, "children": [...]}]
	}
*/

type itemEntry struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type objectJSON struct {
	Item     string       `json:"item"`
	Settings Settings     `json:"settings"`
	Children []objectJSON `json:"children,omitempty"`
}

type sceneJSON struct {
	GUID    string               `json:"guid"`
	Name    string               `json:"name"`
	Context string               `json:"context,omitempty"`
	Items   map[string]itemEntry `json:"items"`
	Objects []objectJSON         `json:"objects"`
}

// settingsJSON is the decoding side of Settings.
type settingsJSON struct {
	Name           *string                  `json:"name"`
	Color          *colors.Color            `json:"color"`
	Opacity        *float64                 `json:"opacity"`
	Show           *bool                    `json:"show"`
	Frame          *geometry.Frame          `json:"frame"`
	Transformation *geometry.Transformation `json:"transformation"`

	VertexColor  *colors.ColorDict[int]                 `json:"vertexcolor"`
	EdgeColor    *colors.ColorDict[datastructures.Edge] `json:"edgecolor"`
	FaceColor    *colors.ColorDict[int]                 `json:"facecolor"`
	VertexSize   *float64                               `json:"vertexsize"`
	EdgeWidth    *float64                               `json:"edgewidth"`
	ShowVertices *Selection[int]                        `json:"show_vertices"`
	ShowEdges    *Selection[datastructures.Edge]        `json:"show_edges"`
	ShowFaces    *Selection[int]                        `json:"show_faces"`

	PointColor *colors.Color `json:"pointcolor"`
	LineColor  *colors.Color `json:"linecolor"`
	PointSize  *float64      `json:"pointsize"`
	LineWidth  *float64      `json:"linewidth"`
	ShowPoints *bool         `json:"show_points"`
	ShowLines  *bool         `json:"show_lines"`
	Resolution *int          `json:"resolution"`
}

type objectDataJSON struct {
	Item     string           `json:"item"`
	Settings settingsJSON     `json:"settings"`
	Children []objectDataJSON `json:"children"`
}

type sceneDataJSON struct {
	GUID    string               `json:"guid"`
	Name    string               `json:"name"`
	Context string               `json:"context"`
	Items   map[string]itemEntry `json:"items"`
	Objects []objectDataJSON     `json:"objects"`
}

func objectData(obj Object) objectJSON {
	b := obj.Base()
	oj := objectJSON{
		Item:     b.Item().GUID().String(),
		Settings: obj.Settings(),
	}
	for _, child := range b.Children() {
		oj.Children = append(oj.Children, objectData(child))
	}
	return oj
}

// MarshalObject writes the data form of an attached object and its descendants.
func MarshalObject(obj Object) ([]byte, error) {
	if !obj.Base().IsAttached() {
		return nil, ErrSerializationOutsideScene
	}
	return json.Marshal(objectData(obj))
}

func (s *Scene) MarshalJSON() ([]byte, error) {
	sj := sceneJSON{
		GUID:    s.GUID().String(),
		Name:    s.Name(),
		Context: s.context,
		Items:   make(map[string]itemEntry),
		Objects: []objectJSON{},
	}
	for _, obj := range s.Objects() {
		item := obj.Base().Item()
		guid := item.GUID().String()
		if _, ok := sj.Items[guid]; ok {
			continue
		}
		var (
			entry itemEntry
			err   error
		)
		if entry.Type, err = itemTypeName(item); err != nil {
			return nil, err
		}
		if entry.Data, err = json.Marshal(item); err != nil {
			return nil, fmt.Errorf("item %s: %w", guid, err)
		}
		sj.Items[guid] = entry
	}
	for _, obj := range s.Children() {
		sj.Objects = append(sj.Objects, objectData(obj))
	}
	return json.Marshal(sj)
}

// UnmarshalScene rebuilds a scene written by Scene.MarshalJSON.
func UnmarshalScene(b []byte) (s *Scene, err error) {
	var sj sceneDataJSON
	if err = json.Unmarshal(b, &sj); err != nil {
		return
	}
	items := make(map[string]data.Item, len(sj.Items))
	for guid, entry := range sj.Items {
		var item data.Item
		if item, err = newItem(entry.Type); err != nil {
			return nil, fmt.Errorf("item %s: %w", guid, err)
		}
		if err = json.Unmarshal(entry.Data, item); err != nil {
			return nil, fmt.Errorf("item %s: %w", guid, err)
		}
		items[guid] = item
	}
	s = NewScene(sj.Name, WithContext(sj.Context))
	if sj.GUID != "" {
		var guid uuid.UUID
		if guid, err = uuid.Parse(sj.GUID); err != nil {
			return nil, err
		}
		s.SetGUID(guid)
	}
	if err = s.load(s.tree.Root(), s.context, sj.Objects, items); err != nil {
		return nil, err
	}
	return
}

func (s *Scene) load(parent tree.Node, context string, objs []objectDataJSON, items map[string]data.Item) (err error) {
	for _, od := range objs {
		item, ok := items[od.Item]
		if !ok {
			return fmt.Errorf("object refers to unknown item %s", od.Item)
		}
		var obj Object
		if obj, err = s.add(item, parent, context, od.Settings.options()...); err != nil {
			return
		}
		b := obj.Base()
		if err = s.load(b.node, b.context, od.Children, items); err != nil {
			return
		}
	}
	return
}

func (sj settingsJSON) options() (opts []Option) {
	if sj.Name != nil {
		opts = append(opts, WithName(*sj.Name))
	}
	if sj.Color != nil {
		opts = append(opts, WithColor(*sj.Color))
	}
	if sj.Opacity != nil {
		opts = append(opts, WithOpacity(*sj.Opacity))
	}
	if sj.Show != nil {
		opts = append(opts, WithShow(*sj.Show))
	}
	if sj.Frame != nil {
		opts = append(opts, WithFrame(*sj.Frame))
	}
	if sj.Transformation != nil {
		opts = append(opts, WithTransformation(*sj.Transformation))
	}
	if sj.VertexColor != nil {
		opts = append(opts, WithVertexColor(sj.VertexColor))
	}
	if sj.EdgeColor != nil {
		opts = append(opts, WithEdgeColor(sj.EdgeColor))
	}
	if sj.FaceColor != nil {
		opts = append(opts, WithFaceColor(sj.FaceColor))
	}
	if sj.VertexSize != nil {
		opts = append(opts, WithVertexSize(*sj.VertexSize))
	}
	if sj.EdgeWidth != nil {
		opts = append(opts, WithEdgeWidth(*sj.EdgeWidth))
	}
	if sj.ShowVertices != nil {
		opts = append(opts, WithShowVertices(*sj.ShowVertices))
	}
	if sj.ShowEdges != nil {
		opts = append(opts, WithShowEdges(*sj.ShowEdges))
	}
	if sj.ShowFaces != nil {
		opts = append(opts, WithShowFaces(*sj.ShowFaces))
	}
	if sj.PointColor != nil {
		opts = append(opts, WithPointColor(*sj.PointColor))
	}
	if sj.LineColor != nil {
		opts = append(opts, WithLineColor(*sj.LineColor))
	}
	if sj.PointSize != nil {
		opts = append(opts, WithPointSize(*sj.PointSize))
	}
	if sj.LineWidth != nil {
		opts = append(opts, WithLineWidth(*sj.LineWidth))
	}
	if sj.ShowPoints != nil {
		opts = append(opts, WithShowPoints(*sj.ShowPoints))
	}
	if sj.ShowLines != nil {
		opts = append(opts, WithShowLines(*sj.ShowLines))
	}
	if sj.Resolution != nil {
		opts = append(opts, WithResolution(*sj.Resolution))
	}
	return
}
