package scene

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	ErrNotImplemented            = errors.New("not implemented")
	ErrNotRegistered             = errors.New("no scene object registered for item")
	ErrNilItem                   = errors.New("nil item")
	ErrNotAttached               = errors.New("scene object is not attached to a scene")
	ErrAlreadyAttached           = errors.New("scene object is already attached to a scene")
	ErrSerializationOutsideScene = errors.New("serialisation outside Scene not allowed")
	ErrNoCodec                   = errors.New("no item codec registered")
	ErrNoContext                 = errors.New("no drawing context")
)

// NotRegisteredError reports a failed factory lookup.
type NotRegisteredError struct {
	Context  string
	ItemType reflect.Type
}

func (e *NotRegisteredError) Error() string {
	ctx := e.Context
	if ctx == "" {
		ctx = "default"
	}
	return fmt.Sprintf("%s: type %v in context %s", ErrNotRegistered, e.ItemType, ctx)
}

func (e *NotRegisteredError) Unwrap() error { return ErrNotRegistered }
