package scene

import (
	"fmt"
	"reflect"

	"github.com/notargets/goscene/data"
	"github.com/notargets/goscene/datastructures"
	"github.com/notargets/goscene/geometry"
)

// Drawable objects know how to render themselves into their context.
type Drawable interface {
	Object
	// Draw renders the object and returns the handles of what was drawn.
	Draw() ([]string, error)
}

// MeshDrawable renders the three element kinds of a mesh separately.
type MeshDrawable interface {
	Drawable
	DrawVertices() ([]string, error)
	DrawEdges() ([]string, error)
	DrawFaces() ([]string, error)
	ClearVertices() error
	ClearEdges() error
	ClearFaces() error
}

// Draw renders obj, the kinds provided here have no renderer of their own.
func Draw(obj Object) ([]string, error) {
	d, ok := obj.(Drawable)
	if !ok {
		return nil, fmt.Errorf("%w: draw for %T", ErrNotImplemented, obj)
	}
	return d.Draw()
}

/*
New builds the scene object for item, looking its constructor up in the requested context
(or the current one) unless WithConstructor is given. An Object passed as item is rejected,
use Scene.Add to attach existing objects.
*/
func New(item interface{}, opts ...Option) (obj Object, err error) {
	cfg := NewConfig(opts...)
	if err = cfg.Err(); err != nil {
		return
	}
	if isNil(item) {
		return nil, ErrNilItem
	}
	ctor := cfg.constructor
	if ctor == nil {
		context := CurrentContext()
		if c, ok := cfg.Context(); ok {
			context = c
		}
		if ctor, err = LookupConstructor(item, context); err != nil {
			return nil, err
		}
	}
	di, ok := item.(data.Item)
	if !ok {
		return nil, &NotRegisteredError{Context: CurrentContext(), ItemType: reflect.TypeOf(item)}
	}
	return ctor(di, cfg)
}

func sceneObject(item data.Item, cfg *Config) (Object, error) {
	so, err := NewSceneObject(item, cfg)
	if err != nil {
		return nil, err
	}
	return so, nil
}

func meshObject(item data.Item, cfg *Config) (Object, error) {
	mo, err := NewMeshObject(item, cfg)
	if err != nil {
		return nil, err
	}
	return mo, nil
}

func geometryObject(item data.Item, cfg *Config) (Object, error) {
	gobj, err := NewGeometryObject(item, cfg)
	if err != nil {
		return nil, err
	}
	return gobj, nil
}

func init() {
	RegisterType[*datastructures.Mesh]("", meshObject)
	RegisterType[geometry.Curve]("", geometryObject)
	RegisterType[*Group]("", sceneObject)

	RegisterItemCodec("Mesh", func() data.Item { return datastructures.NewMesh() })
	RegisterItemCodec("Line", func() data.Item { return &geometry.Line{} })
	RegisterItemCodec("Polyline", func() data.Item { return &geometry.Polyline{} })
	RegisterItemCodec("Circle", func() data.Item { return &geometry.Circle{} })
	RegisterItemCodec("Ellipse", func() data.Item { return &geometry.Ellipse{} })
	RegisterItemCodec("Group", func() data.Item { return &Group{} })
}
