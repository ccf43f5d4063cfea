package plotter

import (
	"errors"

	graphics2D "github.com/notargets/avs/geometry"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/goscene/colors"
	"github.com/notargets/goscene/scene"
)

// MeshObject draws vertices as crosses, edges as segments and faces as filled outlines.
type MeshObject struct {
	*scene.MeshObject
	plotter *Plotter

	vertexGUIDs, edgeGUIDs, faceGUIDs []string
}

var (
	_ scene.MeshDrawable = (*MeshObject)(nil)
	_ scene.Drawable     = (*GeometryObject)(nil)
)

// Draw draws the visible faces, edges and vertices, in that order.
func (mo *MeshObject) Draw() (guids []string, err error) {
	for _, draw := range []func() ([]string, error){mo.DrawFaces, mo.DrawEdges, mo.DrawVertices} {
		var drawn []string
		if drawn, err = draw(); err != nil {
			return
		}
		guids = append(guids, drawn...)
	}
	if mo.plotter.cfg.Labels && mo.Mesh().NumberOfVertices() != 0 {
		var c r3.Vec
		xyz := mo.VertexXYZ()
		for _, p := range xyz {
			c = r3.Add(c, p)
		}
		c = r3.Scale(1/float64(len(xyz)), c)
		guid := mo.plotter.addLabel(mo.Name(), mo.ContrastColor(), mo.Opacity(), c)
		mo.AddGUIDs(guid)
		guids = append(guids, guid)
	}
	return
}

func (mo *MeshObject) DrawVertices() (guids []string, err error) {
	var (
		p    = mo.plotter
		xyz  = mo.VertexXYZ()
		size = p.cfg.GlyphSize * float32(mo.VertexSize)
	)
	for _, key := range mo.VisibleVertices() {
		x, y := p.cfg.View.Project(xyz[key])
		guids = append(guids, p.add(artist{
			kind:  pointArtist,
			color: ToRGBA(mo.VertexColor.Get(key), mo.Opacity()),
			xy:    CrossHairs([]float32{x, y}, size),
		}))
	}
	mo.vertexGUIDs = append(mo.vertexGUIDs, guids...)
	mo.AddGUIDs(guids...)
	return
}

func (mo *MeshObject) DrawEdges() (guids []string, err error) {
	var (
		p   = mo.plotter
		xyz = mo.VertexXYZ()
	)
	for _, e := range mo.VisibleEdges() {
		guids = append(guids, p.add(artist{
			kind:  lineArtist,
			color: ToRGBA(mo.EdgeColorOf(e), mo.Opacity()),
			xy:    PolylineSegments([]r3.Vec{xyz[e[0]], xyz[e[1]]}, false, p.cfg.View),
		}))
	}
	mo.edgeGUIDs = append(mo.edgeGUIDs, guids...)
	mo.AddGUIDs(guids...)
	return
}

func (mo *MeshObject) DrawFaces() (guids []string, err error) {
	var (
		p   = mo.plotter
		xyz = mo.VertexXYZ()
	)
	for _, key := range mo.VisibleFaces() {
		var verts []int
		if verts, err = mo.Mesh().FaceVertices(key); err != nil {
			return
		}
		pts := make([]r3.Vec, len(verts))
		for i, v := range verts {
			pts[i] = xyz[v]
		}
		guids = append(guids, p.add(artist{
			kind:  faceArtist,
			color: ToRGBA(mo.FaceColor.Get(key), mo.Opacity()),
			xy:    PolylineSegments(pts, true, p.cfg.View),
			faces: []graphics2D.TriMesh{FaceTriMesh([][]r3.Vec{pts}, p.cfg.View)},
		}))
	}
	mo.faceGUIDs = append(mo.faceGUIDs, guids...)
	mo.AddGUIDs(guids...)
	return
}

func (mo *MeshObject) release(guids *[]string) (err error) {
	if len(*guids) == 0 {
		return
	}
	err = mo.plotter.Clear(*guids)
	mo.RemoveGUIDs(*guids...)
	*guids = nil
	return
}

func (mo *MeshObject) ClearVertices() error { return mo.release(&mo.vertexGUIDs) }
func (mo *MeshObject) ClearEdges() error    { return mo.release(&mo.edgeGUIDs) }
func (mo *MeshObject) ClearFaces() error    { return mo.release(&mo.faceGUIDs) }

func (mo *MeshObject) Clear() error {
	mo.vertexGUIDs, mo.edgeGUIDs, mo.faceGUIDs = nil, nil, nil
	return mo.MeshObject.Clear()
}

// GeometryObject draws a sampled curve, with crosses at the samples when points are shown.
type GeometryObject struct {
	*scene.GeometryObject
	plotter *Plotter
}

func (gobj *GeometryObject) Draw() (guids []string, err error) {
	var (
		p   = gobj.plotter
		pts = gobj.WorldPoints()
	)
	if len(pts) == 0 {
		return nil, errors.New("curve has no points")
	}
	if gobj.ShowLines {
		guids = append(guids, p.add(artist{
			kind:  lineArtist,
			color: ToRGBA(gobj.LineColor, gobj.Opacity()),
			xy:    PolylineSegments(pts, gobj.Geometry().Closed(), p.cfg.View),
		}))
	}
	if gobj.ShowPoints {
		guids = append(guids, p.add(artist{
			kind:  pointArtist,
			color: ToRGBA(gobj.PointColor, gobj.Opacity()),
			xy:    CrossHairs(PointsToXY(pts, p.cfg.View), p.cfg.GlyphSize*float32(gobj.PointSize)),
		}))
	}
	if p.cfg.Labels {
		guids = append(guids, p.addLabel(gobj.Name(), gobj.LineColor, gobj.Opacity(), pts[0]))
	}
	gobj.AddGUIDs(guids...)
	return
}

func (p *Plotter) addLabel(text string, c colors.Color, opacity float64, at r3.Vec) string {
	x, y := p.cfg.View.Project(at)
	return p.add(artist{kind: labelArtist, color: ToRGBA(c, opacity), xy: []float32{x, y}, text: text})
}
