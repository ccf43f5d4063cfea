package scene

import (
	"github.com/notargets/goscene/colors"
	"github.com/notargets/goscene/data"
	"github.com/notargets/goscene/geometry"
	"github.com/notargets/goscene/tree"
)

// Object is implemented by every scene object kind, all of which embed a SceneObject.
type Object interface {
	Base() *SceneObject
	// Settings returns the display state of the object, keyed by setting name.
	Settings() Settings
	// Clear releases the drawn representations of the object.
	Clear() error
}

type Settings map[string]interface{}

/*
SceneObject wraps an item with its placement in the scene hierarchy and its display state.
The item is set once on construction. The local frame positions the children of the object,
the object itself is positioned by the frames of its ancestors and its own transformation.
*/
type SceneObject struct {
	item           data.Item
	name           string
	frame          *geometry.Frame
	transformation *geometry.Transformation
	color          colors.Color
	contrastColor  *colors.Color
	opacity        float64
	show           bool
	guids          []string
	context        string

	scene *Scene
	node  tree.Node
	// Called after the local transformation changes
	onTransformation func()
}

func NewSceneObject(item data.Item, cfg *Config) (so *SceneObject, err error) {
	so = &SceneObject{}
	if err = so.init(item, cfg); err != nil {
		return nil, err
	}
	return
}

func (so *SceneObject) init(item data.Item, cfg *Config) (err error) {
	if isNil(item) {
		return ErrNilItem
	}
	if cfg == nil {
		cfg = NewConfig()
	}
	if err = cfg.Err(); err != nil {
		return
	}
	so.item = item
	so.name = item.Name()
	if cfg.name != nil {
		so.name = *cfg.name
	}
	so.context = CurrentContext()
	if cfg.context != nil {
		so.context = *cfg.context
	}
	if cfg.frame != nil {
		f := *cfg.frame
		so.frame = &f
	}
	if cfg.transformation != nil {
		T := *cfg.transformation
		so.transformation = &T
	}
	so.color = colors.Black()
	if cfg.color != nil {
		so.color = *cfg.color
	}
	if cfg.contrastColor != nil {
		c := *cfg.contrastColor
		so.contrastColor = &c
	}
	so.opacity = 1
	if cfg.opacity != nil {
		so.opacity = *cfg.opacity
	}
	so.show = true
	if cfg.show != nil {
		so.show = *cfg.show
	}
	return
}

func (so *SceneObject) Base() *SceneObject { return so }
func (so *SceneObject) Item() data.Item    { return so.item }
func (so *SceneObject) Name() string       { return so.name }
func (so *SceneObject) SetName(name string) {
	so.name = name
}

// Context is the name of the drawing context the object was created for.
func (so *SceneObject) Context() string { return so.context }

func (so *SceneObject) Scene() *Scene { return so.scene }

func (so *SceneObject) IsAttached() bool { return so.scene != nil }

// Frame returns a copy of the local frame, nil when there is none.
func (so *SceneObject) Frame() *geometry.Frame {
	if so.frame == nil {
		return nil
	}
	f := *so.frame
	return &f
}

// SetFrame replaces the local frame, nil removes it.
func (so *SceneObject) SetFrame(f *geometry.Frame) {
	if f == nil {
		so.frame = nil
		return
	}
	ff := *f
	so.frame = &ff
}

func (so *SceneObject) Transformation() *geometry.Transformation {
	if so.transformation == nil {
		return nil
	}
	T := *so.transformation
	return &T
}

func (so *SceneObject) SetTransformation(T *geometry.Transformation) {
	if T == nil {
		so.transformation = nil
	} else {
		TT := *T
		so.transformation = &TT
	}
	if so.onTransformation != nil {
		so.onTransformation()
	}
}

/*
WorldTransformation composes the frames of the ancestors, outermost first, with the local
transformation. The root contributes nothing, so a top level object with no transformation
has the identity. The object's own frame is not included, it only positions its children.
*/
func (so *SceneObject) WorldTransformation() geometry.Transformation {
	var frames []geometry.Frame
	if so.scene != nil {
		ancestors, _ := so.scene.tree.Ancestors(so.node)
		for _, n := range ancestors {
			obj, err := so.scene.tree.Value(n)
			if err != nil || obj == nil {
				continue
			}
			if f := obj.Base().frame; f != nil {
				frames = append(frames, *f)
			}
		}
	}
	W := geometry.Identity()
	for i := len(frames) - 1; i >= 0; i-- {
		W = W.Mul(geometry.FromFrame(frames[i]))
	}
	if so.transformation != nil {
		W = W.Mul(*so.transformation)
	}
	return W
}

func (so *SceneObject) Color() colors.Color { return so.color }

// SetColor coerces v. A contrast color already derived is kept.
func (so *SceneObject) SetColor(v interface{}) (err error) {
	var c colors.Color
	if c, err = colors.Coerce(v); err != nil {
		return
	}
	so.color = c
	return
}

// ContrastColor is derived from the base color on first use and kept until it is set.
func (so *SceneObject) ContrastColor() colors.Color {
	if so.contrastColor == nil {
		c := so.color.Contrast()
		so.contrastColor = &c
	}
	return *so.contrastColor
}

func (so *SceneObject) SetContrastColor(v interface{}) (err error) {
	var c colors.Color
	if c, err = colors.Coerce(v); err != nil {
		return
	}
	so.contrastColor = &c
	return
}

func (so *SceneObject) Opacity() float64 { return so.opacity }

func (so *SceneObject) SetOpacity(opacity float64) {
	so.opacity = opacity
}

func (so *SceneObject) Show() bool { return so.show }

func (so *SceneObject) SetShow(show bool) {
	so.show = show
}

// GUIDs are the handles of the native objects drawn for this object.
func (so *SceneObject) GUIDs() []string {
	if so.guids == nil {
		return []string{}
	}
	return append([]string(nil), so.guids...)
}

// AddGUIDs records drawn handles, it is called by the drawing hosts.
func (so *SceneObject) AddGUIDs(guids ...string) {
	so.guids = append(so.guids, guids...)
}

// RemoveGUIDs forgets handles a host has already released.
func (so *SceneObject) RemoveGUIDs(guids ...string) {
	drop := make(map[string]bool, len(guids))
	for _, g := range guids {
		drop[g] = true
	}
	kept := so.guids[:0]
	for _, g := range so.guids {
		if !drop[g] {
			kept = append(kept, g)
		}
	}
	so.guids = kept
}

// Clear hands the drawn handles to the context and forgets them. A second Clear is a no-op.
func (so *SceneObject) Clear() (err error) {
	if len(so.guids) != 0 {
		if ctx, ok := LookupContext(so.context); ok {
			err = ctx.Clear(so.GUIDs())
		}
	}
	so.guids = nil
	return
}

func (so *SceneObject) Settings() Settings {
	s := Settings{
		"name":    so.name,
		"color":   so.color,
		"opacity": so.opacity,
		"show":    so.show,
	}
	if so.frame != nil {
		s["frame"] = *so.frame
	}
	if so.transformation != nil {
		s["transformation"] = *so.transformation
	}
	return s
}

// Parent is nil for top level and detached objects.
func (so *SceneObject) Parent() Object {
	if so.scene == nil {
		return nil
	}
	p, err := so.scene.tree.Parent(so.node)
	if err != nil || p == tree.Nil {
		return nil
	}
	obj, _ := so.scene.tree.Value(p)
	return obj
}

func (so *SceneObject) Children() (children []Object) {
	if so.scene == nil {
		return
	}
	nodes, _ := so.scene.tree.Children(so.node)
	for _, n := range nodes {
		if obj, err := so.scene.tree.Value(n); err == nil {
			children = append(children, obj)
		}
	}
	return
}

// Add places item, or an existing detached object, below this object in its scene.
func (so *SceneObject) Add(item interface{}, opts ...Option) (Object, error) {
	if so.scene == nil {
		return nil, ErrNotAttached
	}
	return so.scene.add(item, so.node, so.context, opts...)
}

// UnmarshalJSON always fails, objects are only rebuilt as part of a scene.
func (so *SceneObject) UnmarshalJSON([]byte) error {
	return ErrSerializationOutsideScene
}
