package plotter

import (
	"errors"
	"image/color"
	"sync"

	"github.com/google/uuid"
	"github.com/notargets/avs/assets"
	"github.com/notargets/avs/chart2d"
	graphics2D "github.com/notargets/avs/geometry"
	utils2 "github.com/notargets/avs/utils"

	"github.com/notargets/goscene/data"
	"github.com/notargets/goscene/datastructures"
	"github.com/notargets/goscene/geometry"
	"github.com/notargets/goscene/scene"
)

// ContextName is the drawing context served by the plotter.
const ContextName = "Plotter"

var ErrNothingToShow = errors.New("nothing drawn")

type Config struct {
	View   View
	Labels bool
	// Fraction of the plot extent added around the drawing
	Margin float32
	// Half width of a vertex cross at vertex size 1, in model units
	GlyphSize  float32
	LabelPitch uint32
}

func DefaultConfig() Config {
	return Config{
		View:       ViewXY,
		Margin:     0.1,
		GlyphSize:  0.02,
		LabelPitch: 24,
	}
}

type artistKind uint8

const (
	pointArtist artistKind = iota
	lineArtist
	faceArtist
	labelArtist
)

// artist is one drawn element, its geometry already projected onto the view plane.
type artist struct {
	kind  artistKind
	color color.RGBA
	// Segment pairs x1,y1,x2,y2 for points, lines and face outlines
	xy []float32
	// Face polygons for the filled mesh
	faces []graphics2D.TriMesh
	text  string
}

/*
Plotter collects the artists drawn by its scene objects and shows them in an avs chart.
Every artist is known by the GUID handed out when it was drawn.
*/
type Plotter struct {
	mu      sync.Mutex
	cfg     Config
	artists map[string]artist
	order   []string
	draws   int
}

func New(cfg Config) *Plotter {
	if cfg.GlyphSize <= 0 {
		cfg.GlyphSize = DefaultConfig().GlyphSize
	}
	if cfg.LabelPitch == 0 {
		cfg.LabelPitch = DefaultConfig().LabelPitch
	}
	return &Plotter{
		cfg:     cfg,
		artists: make(map[string]artist),
	}
}

// Install registers the plotter as the "Plotter" context with its mesh and curve objects.
func (p *Plotter) Install() {
	scene.RegisterContext(p)
	scene.RegisterType[*datastructures.Mesh](ContextName, p.newMeshObject)
	scene.RegisterType[geometry.Curve](ContextName, p.newGeometryObject)
}

func (p *Plotter) Config() Config { return p.cfg }

func (p *Plotter) Name() string { return ContextName }

// Clear removes artists, unknown handles are ignored.
func (p *Plotter) Clear(guids []string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, guid := range guids {
		delete(p.artists, guid)
	}
	kept := p.order[:0]
	for _, guid := range p.order {
		if _, ok := p.artists[guid]; ok {
			kept = append(kept, guid)
		}
	}
	p.order = kept
	return nil
}

func (p *Plotter) BeforeDraw() error { return nil }

// AfterDraw counts completed scene draws.
func (p *Plotter) AfterDraw([]string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.draws++
	return nil
}

// Draws is the number of completed scene draws.
func (p *Plotter) Draws() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.draws
}

func (p *Plotter) add(a artist) (guid string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	guid = uuid.New().String()
	p.artists[guid] = a
	p.order = append(p.order, guid)
	return
}

// Len is the number of live artists.
func (p *Plotter) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.artists)
}

// Lines groups the segments of all point, line and outline artists by color, in draw order.
func (p *Plotter) Lines() (lines map[color.RGBA][]float32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	lines = make(map[color.RGBA][]float32)
	for _, guid := range p.order {
		a := p.artists[guid]
		if len(a.xy) == 0 || a.kind == labelArtist {
			continue
		}
		lines[a.color] = append(lines[a.color], a.xy...)
	}
	return
}

// TriMesh merges the filled faces of all face artists.
func (p *Plotter) TriMesh() (gm graphics2D.TriMesh) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, guid := range p.order {
		for _, fm := range p.artists[guid].faces {
			offset := int64(len(gm.XY) / 2)
			gm.XY = append(gm.XY, fm.XY...)
			for _, tv := range fm.TriVerts {
				gm.TriVerts = append(gm.TriVerts, [3]int64{tv[0] + offset, tv[1] + offset, tv[2] + offset})
			}
		}
	}
	return
}

// Bounds is the box around everything drawn, ok is false when nothing is.
func (p *Plotter) Bounds() (xMin, xMax, yMin, yMax float32, ok bool) {
	var xy []float32
	for _, line := range p.Lines() {
		xy = append(xy, line...)
	}
	xy = append(xy, p.TriMesh().XY...)
	return BoundingBox(xy)
}

type label struct {
	text  string
	color color.RGBA
	x, y  float32
}

func (p *Plotter) labels() (ls []label) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, guid := range p.order {
		if a := p.artists[guid]; a.kind == labelArtist {
			ls = append(ls, label{text: a.text, color: a.color, x: a.xy[0], y: a.xy[1]})
		}
	}
	return
}

/*
Show opens an avs chart over the padded bounds of the drawing and renders every artist into it.
The chart window lives on its own, the caller decides how long the process stays up.
*/
func (p *Plotter) Show() (ch *chart2d.Chart2D, err error) {
	xMin, xMax, yMin, yMax, ok := p.Bounds()
	if !ok {
		return nil, ErrNothingToShow
	}
	xMin, xMax, yMin, yMax = SquareBox(xMin, xMax, yMin, yMax, p.cfg.Margin)
	ch = chart2d.NewChart2D(xMin, xMax, yMin, yMax,
		1024, 1024, utils2.WHITE, utils2.BLACK)
	if gm := p.TriMesh(); len(gm.TriVerts) != 0 {
		ch.AddTriMesh(gm)
	}
	for col, line := range p.Lines() {
		ch.AddLine(line, col)
	}
	for _, l := range p.labels() {
		tf := assets.NewTextFormatter("NotoSans", "Regular", p.cfg.LabelPitch,
			l.color, true, false)
		ch.Printf(tf, l.x, l.y, "%s", l.text)
	}
	return
}

func (p *Plotter) newMeshObject(item data.Item, cfg *scene.Config) (scene.Object, error) {
	mo, err := scene.NewMeshObject(item, cfg)
	if err != nil {
		return nil, err
	}
	return &MeshObject{MeshObject: mo, plotter: p}, nil
}

func (p *Plotter) newGeometryObject(item data.Item, cfg *scene.Config) (scene.Object, error) {
	gobj, err := scene.NewGeometryObject(item, cfg)
	if err != nil {
		return nil, err
	}
	return &GeometryObject{GeometryObject: gobj, plotter: p}, nil
}
