package scene

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/notargets/goscene/data"
	"github.com/notargets/goscene/tree"
)

// Scene owns a hierarchy of scene objects below an implicit root, drawn into one context.
type Scene struct {
	data.Data
	tree    *tree.Tree[Object]
	context string
}

// NewScene uses the current context unless WithContext is given, other options are ignored.
func NewScene(name string, opts ...Option) *Scene {
	if name == "" {
		name = "Scene"
	}
	cfg := NewConfig(opts...)
	s := &Scene{
		Data:    data.NewData(name),
		tree:    tree.New[Object](nil),
		context: CurrentContext(),
	}
	if c, ok := cfg.Context(); ok {
		s.context = c
	}
	return s
}

func (s *Scene) Context() string { return s.context }

// Len is the number of objects in the scene.
func (s *Scene) Len() int { return s.tree.Len() }

/*
Add places item at the top level, or below the object given with WithParent. An Object is
attached as is, anything else is turned into a scene object for the context of its parent.
*/
func (s *Scene) Add(item interface{}, opts ...Option) (Object, error) {
	var (
		cfg     = NewConfig(opts...)
		parent  = s.tree.Root()
		context = s.context
	)
	if cfg.parent != nil {
		pb := cfg.parent.Base()
		if pb.scene != s {
			return nil, fmt.Errorf("parent %s: %w", pb.Name(), ErrNotAttached)
		}
		parent, context = pb.node, pb.context
	}
	return s.add(item, parent, context, opts...)
}

func (s *Scene) add(item interface{}, parent tree.Node, context string, opts ...Option) (obj Object, err error) {
	var ok bool
	if obj, ok = item.(Object); ok {
		if isNil(obj) {
			return nil, ErrNilItem
		}
		if obj.Base().scene != nil {
			return nil, ErrAlreadyAttached
		}
	} else {
		if obj, err = New(item, append([]Option{WithContext(context)}, opts...)...); err != nil {
			return nil, err
		}
	}
	b := obj.Base()
	if b.node, err = s.tree.Insert(parent, obj); err != nil {
		return nil, err
	}
	b.scene = s
	return
}

// Remove detaches obj and its descendants, clearing what they have drawn.
func (s *Scene) Remove(obj Object) (err error) {
	b := obj.Base()
	if b.scene != s {
		return ErrNotAttached
	}
	var removed []Object
	if removed, err = s.tree.Remove(b.node); err != nil {
		return
	}
	var errs []error
	for _, o := range removed {
		if e := o.Clear(); e != nil {
			errs = append(errs, e)
		}
		ob := o.Base()
		ob.scene, ob.node = nil, tree.Nil
	}
	return errors.Join(errs...)
}

// Objects lists all objects depth first, children in the order they were added.
func (s *Scene) Objects() (objs []Object) {
	_ = s.tree.Walk(s.tree.Root(), func(n tree.Node, obj Object, depth int) bool {
		if depth > 0 {
			objs = append(objs, obj)
		}
		return true
	})
	return
}

// Children are the top level objects.
func (s *Scene) Children() (objs []Object) {
	nodes, _ := s.tree.Children(s.tree.Root())
	for _, n := range nodes {
		if obj, err := s.tree.Value(n); err == nil {
			objs = append(objs, obj)
		}
	}
	return
}

// Find returns the first object with the given name, nil if there is none.
func (s *Scene) Find(name string) Object {
	for _, obj := range s.Objects() {
		if obj.Base().Name() == name {
			return obj
		}
	}
	return nil
}

func (s *Scene) FindByItemGUID(guid uuid.UUID) Object {
	for _, obj := range s.Objects() {
		if obj.Base().Item().GUID() == guid {
			return obj
		}
	}
	return nil
}

/*
Draw clears every object and redraws the visible ones into the scene's context, returning the
handles of everything drawn. Objects that are not Drawable, groups for instance, draw nothing.
*/
func (s *Scene) Draw() (guids []string, err error) {
	ctx, ok := LookupContext(s.context)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoContext, s.context)
	}
	hooks, hasHooks := ctx.(DrawHooks)
	if hasHooks {
		if err = hooks.BeforeDraw(); err != nil {
			return
		}
	}
	for _, obj := range s.Objects() {
		b := obj.Base()
		if err = obj.Clear(); err != nil {
			return nil, fmt.Errorf("clearing %s: %w", b.Name(), err)
		}
		d, ok := obj.(Drawable)
		if !ok || !b.Show() {
			continue
		}
		var drawn []string
		if drawn, err = d.Draw(); err != nil {
			return nil, fmt.Errorf("drawing %s: %w", b.Name(), err)
		}
		guids = append(guids, drawn...)
	}
	if hasHooks {
		err = hooks.AfterDraw(guids)
	}
	return
}

// Clear clears every object, continuing past failures.
func (s *Scene) Clear() error {
	var errs []error
	for _, obj := range s.Objects() {
		if err := obj.Clear(); err != nil {
			errs = append(errs, fmt.Errorf("clearing %s: %w", obj.Base().Name(), err))
		}
	}
	return errors.Join(errs...)
}
