package scene

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"github.com/notargets/goscene/datastructures"
)

// Selection picks all, none or an explicit subset of the elements of a kind.
type Selection[K comparable] struct {
	all  bool
	keys []K
}

func SelectAll[K comparable]() Selection[K]  { return Selection[K]{all: true} }
func SelectNone[K comparable]() Selection[K] { return Selection[K]{} }

func SelectKeys[K comparable](keys ...K) Selection[K] {
	return Selection[K]{keys: append([]K(nil), keys...)}
}

// SelectBool is SelectAll for true and SelectNone for false.
func SelectBool[K comparable](b bool) Selection[K] { return Selection[K]{all: b} }

func (s Selection[K]) All() bool  { return s.all }
func (s Selection[K]) None() bool { return !s.all && len(s.keys) == 0 }
func (s Selection[K]) Keys() []K  { return append([]K(nil), s.keys...) }

func (s Selection[K]) Includes(key K) bool {
	if s.all {
		return true
	}
	for _, k := range s.keys {
		if k == key {
			return true
		}
	}
	return false
}

// MarshalJSON writes true, false or the list of keys.
func (s Selection[K]) MarshalJSON() ([]byte, error) {
	if s.all || len(s.keys) == 0 {
		return json.Marshal(s.all)
	}
	return json.Marshal(s.keys)
}

func (s *Selection[K]) UnmarshalJSON(b []byte) (err error) {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] != '[' {
		var all bool
		if err = json.Unmarshal(b, &all); err != nil {
			return
		}
		*s = SelectBool[K](all)
		return
	}
	var keys []K
	if err = json.Unmarshal(b, &keys); err != nil {
		return
	}
	*s = SelectKeys(keys...)
	return
}

func coerceIntSelection(v interface{}) (s Selection[int], err error) {
	switch val := v.(type) {
	case nil:
		s = SelectNone[int]()
	case bool:
		s = SelectBool[int](val)
	case Selection[int]:
		s = val
	case []int:
		s = SelectKeys(val...)
	case []interface{}:
		keys := make([]int, len(val))
		for i, x := range val {
			if keys[i], err = toInt(x); err != nil {
				return
			}
		}
		s = SelectKeys(keys...)
	default:
		err = fmt.Errorf("unable to use %T as a key selection", v)
	}
	return
}

func coerceEdgeSelection(v interface{}) (s Selection[datastructures.Edge], err error) {
	switch val := v.(type) {
	case nil:
		s = SelectNone[datastructures.Edge]()
	case bool:
		s = SelectBool[datastructures.Edge](val)
	case Selection[datastructures.Edge]:
		s = val
	case []datastructures.Edge:
		s = SelectKeys(val...)
	case [][2]int:
		keys := make([]datastructures.Edge, len(val))
		for i, e := range val {
			keys[i] = datastructures.Edge(e)
		}
		s = SelectKeys(keys...)
	case []interface{}:
		keys := make([]datastructures.Edge, len(val))
		for i, x := range val {
			if keys[i], err = toEdge(x); err != nil {
				return
			}
		}
		s = SelectKeys(keys...)
	default:
		err = fmt.Errorf("unable to use %T as an edge selection", v)
	}
	return
}

// toInt accepts the integer valued numbers produced by YAML and JSON decoding.
func toInt(x interface{}) (int, error) {
	switch n := x.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if n == math.Trunc(n) {
			return int(n), nil
		}
	}
	return 0, fmt.Errorf("unable to use %v as a key", x)
}

func toEdge(x interface{}) (e datastructures.Edge, err error) {
	switch val := x.(type) {
	case datastructures.Edge:
		e = val
	case [2]int:
		e = val
	case []int:
		if len(val) != 2 {
			err = fmt.Errorf("an edge needs 2 vertices, have %d", len(val))
			return
		}
		e = datastructures.Edge{val[0], val[1]}
	case []interface{}:
		if len(val) != 2 {
			err = fmt.Errorf("an edge needs 2 vertices, have %d", len(val))
			return
		}
		for i := 0; i < 2; i++ {
			if e[i], err = toInt(val[i]); err != nil {
				return
			}
		}
	default:
		err = fmt.Errorf("unable to use %T as an edge", x)
	}
	return
}
