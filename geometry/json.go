package geometry

import (
	"encoding/json"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r3"
)

// The curve types serialize by value together with their identity, so that a scene can map
// its objects back to the items they wrap.

type itemJSON struct {
	GUID string `json:"guid"`
	Name string `json:"name,omitempty"`
}

func (ij itemJSON) guid() (uuid.UUID, error) {
	if ij.GUID == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(ij.GUID)
}

func vecsToArrays(pts []r3.Vec) (a [][3]float64) {
	a = make([][3]float64, len(pts))
	for i, p := range pts {
		a[i] = VecToArray(p)
	}
	return
}

func arraysToVecs(a [][3]float64) (pts []r3.Vec) {
	pts = make([]r3.Vec, len(a))
	for i, v := range a {
		pts[i] = ArrayToVec(v)
	}
	return
}

type lineJSON struct {
	itemJSON
	Start [3]float64 `json:"start"`
	End   [3]float64 `json:"end"`
}

func (l *Line) MarshalJSON() ([]byte, error) {
	return json.Marshal(lineJSON{
		itemJSON: itemJSON{GUID: l.GUID().String(), Name: l.Name()},
		Start:    VecToArray(l.Start),
		End:      VecToArray(l.End),
	})
}

func (l *Line) UnmarshalJSON(b []byte) (err error) {
	var (
		lj   lineJSON
		guid uuid.UUID
	)
	if err = json.Unmarshal(b, &lj); err != nil {
		return
	}
	if guid, err = lj.guid(); err != nil {
		return
	}
	*l = *NewLine(ArrayToVec(lj.Start), ArrayToVec(lj.End))
	l.SetGUID(guid)
	if lj.Name != "" {
		l.SetName(lj.Name)
	}
	return
}

type polylineJSON struct {
	itemJSON
	Vertices [][3]float64 `json:"vertices"`
}

func (pl *Polyline) MarshalJSON() ([]byte, error) {
	return json.Marshal(polylineJSON{
		itemJSON: itemJSON{GUID: pl.GUID().String(), Name: pl.Name()},
		Vertices: vecsToArrays(pl.Vertices),
	})
}

func (pl *Polyline) UnmarshalJSON(b []byte) (err error) {
	var (
		pj   polylineJSON
		guid uuid.UUID
	)
	if err = json.Unmarshal(b, &pj); err != nil {
		return
	}
	if guid, err = pj.guid(); err != nil {
		return
	}
	*pl = *NewPolyline(arraysToVecs(pj.Vertices))
	pl.SetGUID(guid)
	if pj.Name != "" {
		pl.SetName(pj.Name)
	}
	return
}

type conicJSON struct {
	itemJSON
	Frame  Frame   `json:"frame"`
	Radius float64 `json:"radius,omitempty"`
	Major  float64 `json:"major,omitempty"`
	Minor  float64 `json:"minor,omitempty"`
}

func (c *Circle) MarshalJSON() ([]byte, error) {
	return json.Marshal(conicJSON{
		itemJSON: itemJSON{GUID: c.GUID().String(), Name: c.Name()},
		Frame:    c.Frame,
		Radius:   c.Radius,
	})
}

func (c *Circle) UnmarshalJSON(b []byte) (err error) {
	var (
		cj   conicJSON
		guid uuid.UUID
	)
	if err = json.Unmarshal(b, &cj); err != nil {
		return
	}
	if guid, err = cj.guid(); err != nil {
		return
	}
	*c = *NewCircle(cj.Frame, cj.Radius)
	c.SetGUID(guid)
	if cj.Name != "" {
		c.SetName(cj.Name)
	}
	return
}

func (e *Ellipse) MarshalJSON() ([]byte, error) {
	return json.Marshal(conicJSON{
		itemJSON: itemJSON{GUID: e.GUID().String(), Name: e.Name()},
		Frame:    e.Frame,
		Major:    e.Major,
		Minor:    e.Minor,
	})
}

func (e *Ellipse) UnmarshalJSON(b []byte) (err error) {
	var (
		ej   conicJSON
		guid uuid.UUID
	)
	if err = json.Unmarshal(b, &ej); err != nil {
		return
	}
	if guid, err = ej.guid(); err != nil {
		return
	}
	*e = *NewEllipse(ej.Frame, ej.Major, ej.Minor)
	e.SetGUID(guid)
	if ej.Name != "" {
		e.SetName(ej.Name)
	}
	return
}
