package data

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestData(t *testing.T) {
	{ // GUID is generated once and then stable
		d := NewData("Mesh")
		g1 := d.GUID()
		assert.NotEqual(t, uuid.Nil, g1)
		assert.Equal(t, g1, d.GUID())
		assert.Equal(t, "Mesh", d.Name())
	}
	{ // Restored GUIDs are kept
		d := NewData("")
		g := uuid.New()
		d.SetGUID(g)
		assert.Equal(t, g, d.GUID())
		d.SetName("renamed")
		assert.Equal(t, "renamed", d.Name())
	}
}
