package scene

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/notargets/goscene/data"
)

// Group is an empty item, its scene object only carries a frame for its children.
type Group struct {
	data.Data
}

func NewGroup(name string) *Group {
	return &Group{Data: data.NewData(name)}
}

type groupJSON struct {
	GUID string `json:"guid"`
	Name string `json:"name,omitempty"`
}

func (g *Group) MarshalJSON() ([]byte, error) {
	return json.Marshal(groupJSON{GUID: g.GUID().String(), Name: g.Name()})
}

func (g *Group) UnmarshalJSON(b []byte) (err error) {
	var (
		gj   groupJSON
		guid uuid.UUID
	)
	if err = json.Unmarshal(b, &gj); err != nil {
		return
	}
	if gj.GUID != "" {
		if guid, err = uuid.Parse(gj.GUID); err != nil {
			return
		}
		g.SetGUID(guid)
	}
	g.SetName(gj.Name)
	return
}
