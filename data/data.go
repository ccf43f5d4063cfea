package data

import (
	"github.com/google/uuid"
)

// Item is anything that can be wrapped by a scene object. Identity is carried by the GUID,
// names are for display only and need not be unique.
type Item interface {
	Name() string
	GUID() uuid.UUID
}

// Data is embedded by the geometry and mesh types to satisfy Item.
type Data struct {
	name string
	guid uuid.UUID
}

func NewData(name string) Data {
	return Data{name: name}
}

func (d *Data) Name() string        { return d.name }
func (d *Data) SetName(name string) { d.name = name }

// GUID returns the identity of the item, generating it on first use.
func (d *Data) GUID() uuid.UUID {
	if d.guid == uuid.Nil {
		d.guid = uuid.New()
	}
	return d.guid
}

// SetGUID restores a previously exported identity, used when rebuilding items from data.
func (d *Data) SetGUID(guid uuid.UUID) {
	d.guid = guid
}
