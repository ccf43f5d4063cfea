package colors

import (
	"encoding/json"
)

// ColorDict stores per element color overrides on top of a default color.
type ColorDict[K comparable] struct {
	Default   Color
	overrides map[K]Color
	order     []K
}

func NewColorDict[K comparable](def Color) *ColorDict[K] {
	return &ColorDict[K]{
		Default:   def,
		overrides: make(map[K]Color),
	}
}

// Get returns the override for key, or the default when there is none.
func (cd *ColorDict[K]) Get(key K) Color {
	if c, ok := cd.overrides[key]; ok {
		return c
	}
	return cd.Default
}

// Lookup is Get that also reports whether an override exists.
func (cd *ColorDict[K]) Lookup(key K) (c Color, ok bool) {
	c, ok = cd.overrides[key]
	return
}

func (cd *ColorDict[K]) Set(key K, c Color) {
	if cd.overrides == nil {
		cd.overrides = make(map[K]Color)
	}
	if _, ok := cd.overrides[key]; !ok {
		cd.order = append(cd.order, key)
	}
	cd.overrides[key] = c
}

// SetAny coerces the value before storing it.
func (cd *ColorDict[K]) SetAny(key K, v interface{}) (err error) {
	var c Color
	if c, err = Coerce(v); err != nil {
		return
	}
	cd.Set(key, c)
	return
}

func (cd *ColorDict[K]) Delete(key K) {
	if _, ok := cd.overrides[key]; !ok {
		return
	}
	delete(cd.overrides, key)
	for i, k := range cd.order {
		if k == key {
			cd.order = append(cd.order[:i], cd.order[i+1:]...)
			break
		}
	}
}

// Len is the number of overrides.
func (cd *ColorDict[K]) Len() int { return len(cd.overrides) }

// Keys returns the overridden keys in the order they were first set.
func (cd *ColorDict[K]) Keys() []K {
	keys := make([]K, len(cd.order))
	copy(keys, cd.order)
	return keys
}

func (cd *ColorDict[K]) Items() map[K]Color {
	items := make(map[K]Color, len(cd.overrides))
	for k, c := range cd.overrides {
		items[k] = c
	}
	return items
}

// Copy returns an independent dictionary with the same contents.
func (cd *ColorDict[K]) Copy() *ColorDict[K] {
	out := NewColorDict[K](cd.Default)
	for _, k := range cd.order {
		out.Set(k, cd.overrides[k])
	}
	return out
}

type colorItem[K comparable] struct {
	Key   K     `json:"key"`
	Color Color `json:"color"`
}

type colorDictJSON[K comparable] struct {
	Default Color          `json:"default"`
	Items   []colorItem[K] `json:"items,omitempty"`
}

func (cd *ColorDict[K]) MarshalJSON() ([]byte, error) {
	cdj := colorDictJSON[K]{Default: cd.Default}
	for _, k := range cd.order {
		cdj.Items = append(cdj.Items, colorItem[K]{Key: k, Color: cd.overrides[k]})
	}
	return json.Marshal(cdj)
}

func (cd *ColorDict[K]) UnmarshalJSON(b []byte) (err error) {
	var cdj colorDictJSON[K]
	if err = json.Unmarshal(b, &cdj); err != nil {
		return
	}
	*cd = *NewColorDict[K](cdj.Default)
	for _, it := range cdj.Items {
		cd.Set(it.Key, it.Color)
	}
	return
}
