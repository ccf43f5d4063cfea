// Package tree implements an ordered tree stored in an arena, addressed by node handles.
package tree

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidNode = errors.New("invalid or stale tree node")
	ErrRootRemoval = errors.New("the root node can not be removed or moved")
	ErrCycle       = errors.New("node can not be moved below its own descendant")
)

// Node identifies a node in a Tree. A handle goes stale when its node is removed, even if the
// slot is later reused.
type Node struct {
	index int32
	gen   uint32
}

// Nil represents an invalid Node.
var Nil = Node{}

func (n Node) String() string {
	if n == Nil {
		return "Node(nil)"
	}
	return fmt.Sprintf("Node(%d:%d)", n.index, n.gen)
}

type slot[T any] struct {
	gen      uint32
	live     bool
	parent   int32
	children []int32
	value    T
}

// Tree is an ordered tree with a root sentinel. The root is created with the tree and lives
// as long as it does.
type Tree[T any] struct {
	slots []slot[T]
	free  []int32
	count int
}

func New[T any](root T) *Tree[T] {
	return &Tree[T]{
		slots: []slot[T]{{gen: 1, live: true, parent: -1, value: root}},
	}
}

func (t *Tree[T]) Root() Node { return Node{index: 0, gen: t.slots[0].gen} }

func (t *Tree[T]) IsRoot(n Node) bool { return n.index == 0 && t.Contains(n) }

// Contains reports whether n is a live node of this tree.
func (t *Tree[T]) Contains(n Node) bool {
	if n.gen == 0 || n.index < 0 || int(n.index) >= len(t.slots) {
		return false
	}
	s := &t.slots[n.index]
	return s.live && s.gen == n.gen
}

// Len is the number of nodes below the root.
func (t *Tree[T]) Len() int { return t.count }

func (t *Tree[T]) handle(index int32) Node { return Node{index: index, gen: t.slots[index].gen} }

func (t *Tree[T]) check(n Node) error {
	if !t.Contains(n) {
		return fmt.Errorf("%w: %s", ErrInvalidNode, n)
	}
	return nil
}

// Insert adds a new node holding v as the last child of parent.
func (t *Tree[T]) Insert(parent Node, v T) (n Node, err error) {
	if err = t.check(parent); err != nil {
		return
	}
	var index int32
	if l := len(t.free); l > 0 {
		index = t.free[l-1]
		t.free = t.free[:l-1]
		gen := t.slots[index].gen + 1
		if gen == 0 {
			gen = 1
		}
		t.slots[index] = slot[T]{gen: gen}
	} else {
		index = int32(len(t.slots))
		t.slots = append(t.slots, slot[T]{gen: 1})
	}
	s := &t.slots[index]
	s.live = true
	s.parent = parent.index
	s.value = v
	p := &t.slots[parent.index]
	p.children = append(p.children, index)
	t.count++
	n = t.handle(index)
	return
}

// Remove detaches n and its whole subtree, returning the removed values in pre-order.
func (t *Tree[T]) Remove(n Node) (values []T, err error) {
	if err = t.check(n); err != nil {
		return
	}
	if n.index == 0 {
		err = ErrRootRemoval
		return
	}
	t.unlink(n.index)
	var release func(index int32)
	release = func(index int32) {
		s := &t.slots[index]
		values = append(values, s.value)
		for _, c := range s.children {
			release(c)
		}
		var zero T
		s.live, s.value, s.children, s.parent = false, zero, nil, -1
		t.free = append(t.free, index)
		t.count--
	}
	release(n.index)
	return
}

func (t *Tree[T]) unlink(index int32) {
	p := &t.slots[t.slots[index].parent]
	for i, c := range p.children {
		if c == index {
			p.children = append(p.children[:i], p.children[i+1:]...)
			break
		}
	}
}

// Move re-parents n, with its subtree, as the last child of parent.
func (t *Tree[T]) Move(n, parent Node) (err error) {
	if err = t.check(n); err != nil {
		return
	}
	if err = t.check(parent); err != nil {
		return
	}
	if n.index == 0 {
		return ErrRootRemoval
	}
	for i := parent.index; i >= 0; i = t.slots[i].parent {
		if i == n.index {
			return ErrCycle
		}
	}
	t.unlink(n.index)
	t.slots[n.index].parent = parent.index
	p := &t.slots[parent.index]
	p.children = append(p.children, n.index)
	return
}

// Parent returns Nil for the root.
func (t *Tree[T]) Parent(n Node) (p Node, err error) {
	if err = t.check(n); err != nil {
		return
	}
	if pi := t.slots[n.index].parent; pi >= 0 {
		p = t.handle(pi)
	}
	return
}

func (t *Tree[T]) Children(n Node) (children []Node, err error) {
	if err = t.check(n); err != nil {
		return
	}
	cs := t.slots[n.index].children
	children = make([]Node, len(cs))
	for i, c := range cs {
		children[i] = t.handle(c)
	}
	return
}

// Ancestors lists the parents of n from the nearest upward, excluding the root.
func (t *Tree[T]) Ancestors(n Node) (ancestors []Node, err error) {
	if err = t.check(n); err != nil {
		return
	}
	for i := t.slots[n.index].parent; i > 0; i = t.slots[i].parent {
		ancestors = append(ancestors, t.handle(i))
	}
	return
}

func (t *Tree[T]) Value(n Node) (v T, err error) {
	if err = t.check(n); err != nil {
		return
	}
	v = t.slots[n.index].value
	return
}

func (t *Tree[T]) SetValue(n Node, v T) (err error) {
	if err = t.check(n); err != nil {
		return
	}
	t.slots[n.index].value = v
	return
}

// Depth is 0 for the root.
func (t *Tree[T]) Depth(n Node) (depth int, err error) {
	if err = t.check(n); err != nil {
		return
	}
	for i := t.slots[n.index].parent; i >= 0; i = t.slots[i].parent {
		depth++
	}
	return
}

/*
Walk visits start and its descendants in pre-order, children in insertion order.
Returning false from fn skips the children of the visited node.
*/
func (t *Tree[T]) Walk(start Node, fn func(n Node, v T, depth int) bool) (err error) {
	if err = t.check(start); err != nil {
		return
	}
	var visit func(index int32, depth int)
	visit = func(index int32, depth int) {
		if !fn(t.handle(index), t.slots[index].value, depth) {
			return
		}
		for _, c := range t.slots[index].children {
			visit(c, depth+1)
		}
	}
	visit(start.index, 0)
	return
}
