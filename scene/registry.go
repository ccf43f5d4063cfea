package scene

import (
	"fmt"
	"os"
	"reflect"
	"sync"

	"github.com/notargets/goscene/data"
)

// ContextEnv names the environment variable holding the initial drawing context.
const ContextEnv = "GOSCENE_CONTEXT"

// Constructor builds the scene object for an item. The item is guaranteed non nil.
type Constructor func(item data.Item, cfg *Config) (Object, error)

// Context is a drawing host. Hosts release their native objects in Clear.
type Context interface {
	Name() string
	Clear(guids []string) error
}

// DrawHooks is implemented by contexts that need to prepare or finish a scene redraw.
type DrawHooks interface {
	BeforeDraw() error
	AfterDraw(guids []string) error
}

type registration struct {
	itemType reflect.Type
	ctor     Constructor
}

type registry struct {
	mu sync.RWMutex
	// Concrete types match exactly, interfaces by implementation in reverse registration order
	exact      map[string]map[reflect.Type]Constructor
	ifaces     map[string][]registration
	contexts   map[string]Context
	current    string
	codecs     map[string]func() data.Item
	codecNames map[reflect.Type]string
}

func newRegistry() *registry {
	return &registry{
		exact:      make(map[string]map[reflect.Type]Constructor),
		ifaces:     make(map[string][]registration),
		contexts:   make(map[string]Context),
		codecs:     make(map[string]func() data.Item),
		codecNames: make(map[reflect.Type]string),
	}
}

var defaultRegistry = newRegistry()

func init() {
	defaultRegistry.current = os.Getenv(ContextEnv)
}

/*
Register binds a constructor to an item type within a context. The empty context is the
default, used whenever the requested context has no binding for an item.
For an interface type the binding applies to every item implementing it; when several
interface bindings match, the most recently registered wins. Concrete bindings take precedence.
*/
func Register(context string, itemType reflect.Type, ctor Constructor) {
	defaultRegistry.register(context, itemType, ctor)
}

// RegisterType is Register with the item type given as a type parameter.
func RegisterType[T any](context string, ctor Constructor) {
	Register(context, reflect.TypeOf((*T)(nil)).Elem(), ctor)
}

func (r *registry) register(context string, itemType reflect.Type, ctor Constructor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if itemType.Kind() != reflect.Interface {
		if r.exact[context] == nil {
			r.exact[context] = make(map[reflect.Type]Constructor)
		}
		r.exact[context][itemType] = ctor
		return
	}
	regs := r.ifaces[context]
	for i, reg := range regs {
		if reg.itemType == itemType {
			regs = append(regs[:i], regs[i+1:]...)
			break
		}
	}
	r.ifaces[context] = append(regs, registration{itemType: itemType, ctor: ctor})
}

// LookupConstructor finds the constructor for item in context, falling back to the default context.
func LookupConstructor(item interface{}, context string) (Constructor, error) {
	return defaultRegistry.lookup(item, context)
}

func (r *registry) lookup(item interface{}, context string) (ctor Constructor, err error) {
	if isNil(item) {
		return nil, ErrNilItem
	}
	t := reflect.TypeOf(item)
	if _, ok := item.(data.Item); !ok {
		return nil, &NotRegisteredError{Context: context, ItemType: t}
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	search := []string{context}
	if context != "" {
		search = append(search, "")
	}
	for _, ctx := range search {
		if c, ok := r.exact[ctx][t]; ok {
			return c, nil
		}
		regs := r.ifaces[ctx]
		for i := len(regs) - 1; i >= 0; i-- {
			if t.Implements(regs[i].itemType) {
				return regs[i].ctor, nil
			}
		}
	}
	return nil, &NotRegisteredError{Context: context, ItemType: t}
}

func isNil(item interface{}) bool {
	if item == nil {
		return true
	}
	v := reflect.ValueOf(item)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func:
		return v.IsNil()
	}
	return false
}

// RegisterContext makes a drawing host available by its name, replacing any previous one.
func RegisterContext(c Context) {
	defaultRegistry.mu.Lock()
	defer defaultRegistry.mu.Unlock()
	defaultRegistry.contexts[c.Name()] = c
}

func UnregisterContext(name string) {
	defaultRegistry.mu.Lock()
	defer defaultRegistry.mu.Unlock()
	delete(defaultRegistry.contexts, name)
}

func LookupContext(name string) (c Context, ok bool) {
	defaultRegistry.mu.RLock()
	defer defaultRegistry.mu.RUnlock()
	c, ok = defaultRegistry.contexts[name]
	return
}

// SetCurrentContext sets the context used by objects and scenes created without one.
func SetCurrentContext(name string) {
	defaultRegistry.mu.Lock()
	defer defaultRegistry.mu.Unlock()
	defaultRegistry.current = name
}

func CurrentContext() string {
	defaultRegistry.mu.RLock()
	defer defaultRegistry.mu.RUnlock()
	return defaultRegistry.current
}

/*
RegisterItemCodec names an item type for scene serialization. newItem allocates an empty item
that is filled by json.Unmarshal, so the item type must implement json.Unmarshaler or be
decodable by value.
*/
func RegisterItemCodec(typeName string, newItem func() data.Item) {
	defaultRegistry.mu.Lock()
	defer defaultRegistry.mu.Unlock()
	defaultRegistry.codecs[typeName] = newItem
	defaultRegistry.codecNames[reflect.TypeOf(newItem())] = typeName
}

func itemTypeName(item data.Item) (name string, err error) {
	defaultRegistry.mu.RLock()
	defer defaultRegistry.mu.RUnlock()
	var ok bool
	if name, ok = defaultRegistry.codecNames[reflect.TypeOf(item)]; !ok {
		err = fmt.Errorf("%w: %T", ErrNoCodec, item)
	}
	return
}

func newItem(typeName string) (item data.Item, err error) {
	defaultRegistry.mu.RLock()
	newFn, ok := defaultRegistry.codecs[typeName]
	defaultRegistry.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoCodec, typeName)
	}
	return newFn(), nil
}
