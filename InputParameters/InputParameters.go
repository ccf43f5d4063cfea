package InputParameters

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/ghodss/yaml"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/goscene/data"
	"github.com/notargets/goscene/geometry"
	"github.com/notargets/goscene/readfiles"
	"github.com/notargets/goscene/scene"
)

var ErrInvalidParameters = errors.New("invalid scene parameters")

// Object types accepted in a scene description
const (
	MeshType     = "Mesh"
	LineType     = "Line"
	PolylineType = "Polyline"
	CircleType   = "Circle"
	EllipseType  = "Ellipse"
	GroupType    = "Group"
)

// Parameters obtained from the YAML scene description
type SceneParameters struct {
	Title   string             `json:"Title"`
	Context string             `json:"Context"`
	Objects []ObjectParameters `json:"Objects"`
}

type FrameParameters struct {
	Point [3]float64 `json:"Point"`
	XAxis [3]float64 `json:"XAxis"`
	YAxis [3]float64 `json:"YAxis"`
}

type RotationParameters struct {
	Axis   [3]float64 `json:"Axis"`
	Angle  float64    `json:"Angle"` // Degrees
	Origin [3]float64 `json:"Origin"`
}

type ObjectParameters struct {
	Type string `json:"Type"`
	Name string `json:"Name"`
	// Mesh file, relative paths are taken from the directory of the scene file
	File string `json:"File"`
	// Line end points or polyline vertices
	Points [][3]float64 `json:"Points"`
	// Circle and ellipse parameters, Plane defaults to the world XY frame
	Plane  *FrameParameters `json:"Plane"`
	Radius float64          `json:"Radius"`
	Major  float64          `json:"Major"`
	Minor  float64          `json:"Minor"`

	Frame       *FrameParameters    `json:"Frame"`
	Translation *[3]float64         `json:"Translation"`
	Rotation    *RotationParameters `json:"Rotation"`
	Scale       *[3]float64         `json:"Scale"`

	Color   interface{} `json:"Color"`
	Opacity *float64    `json:"Opacity"`
	Show    *bool       `json:"Show"`

	VertexColor  interface{} `json:"VertexColor"`
	EdgeColor    interface{} `json:"EdgeColor"`
	FaceColor    interface{} `json:"FaceColor"`
	VertexSize   *float64    `json:"VertexSize"`
	EdgeWidth    *float64    `json:"EdgeWidth"`
	ShowVertices interface{} `json:"ShowVertices"`
	ShowEdges    interface{} `json:"ShowEdges"`
	ShowFaces    interface{} `json:"ShowFaces"`

	PointColor interface{} `json:"PointColor"`
	LineColor  interface{} `json:"LineColor"`
	PointSize  *float64    `json:"PointSize"`
	LineWidth  *float64    `json:"LineWidth"`
	ShowPoints *bool       `json:"ShowPoints"`
	ShowLines  *bool       `json:"ShowLines"`
	Resolution int         `json:"Resolution"`

	Children []ObjectParameters `json:"Children"`
}

func (sp *SceneParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, sp)
}

func (sp *SceneParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", sp.Title)
	fmt.Printf("[%s]\t\t= Context\n", sp.Context)
	for _, op := range sp.Objects {
		op.print(1)
	}
}

func (op *ObjectParameters) print(level int) {
	indent := strings.Repeat("    ", level)
	fmt.Printf("%s[%s] %s", indent, op.Type, op.Name)
	if op.File != "" {
		fmt.Printf(" (%s)", op.File)
	}
	fmt.Println()
	for _, child := range op.Children {
		child.print(level + 1)
	}
}

// Validate checks every object of the description, reporting all problems found.
func (sp *SceneParameters) Validate() error {
	var errs []error
	for i := range sp.Objects {
		errs = append(errs, sp.Objects[i].validate(fmt.Sprintf("Objects[%d]", i))...)
	}
	return errors.Join(errs...)
}

func (op *ObjectParameters) validate(path string) (errs []error) {
	fail := func(format string, args ...interface{}) {
		errs = append(errs, fmt.Errorf("%w: %s: %s", ErrInvalidParameters, path, fmt.Sprintf(format, args...)))
	}
	switch op.Type {
	case MeshType:
		if op.File == "" {
			fail("mesh needs a File")
		}
	case LineType:
		if len(op.Points) != 2 {
			fail("line needs 2 Points, have %d", len(op.Points))
		}
	case PolylineType:
		if len(op.Points) < 2 {
			fail("polyline needs at least 2 Points, have %d", len(op.Points))
		}
	case CircleType:
		if op.Radius <= 0 {
			fail("circle needs a positive Radius")
		}
	case EllipseType:
		if op.Major <= 0 || op.Minor <= 0 {
			fail("ellipse needs positive Major and Minor")
		}
	case GroupType:
	default:
		fail("unknown Type [%s]", op.Type)
	}
	if op.Opacity != nil && (*op.Opacity < 0 || *op.Opacity > 1) {
		fail("Opacity %g outside [0,1]", *op.Opacity)
	}
	if op.Resolution != 0 && op.Resolution < 2 {
		fail("Resolution %d below 2", op.Resolution)
	}
	for i := range op.Children {
		errs = append(errs, op.Children[i].validate(fmt.Sprintf("%s.Children[%d]", path, i))...)
	}
	return
}

func (fp *FrameParameters) frame() (f geometry.Frame, err error) {
	return geometry.NewFrame(geometry.ArrayToVec(fp.Point), geometry.ArrayToVec(fp.XAxis), geometry.ArrayToVec(fp.YAxis))
}

// LocalFrame is the frame positioning the children of the object, nil when there is none.
func (op *ObjectParameters) LocalFrame() (f *geometry.Frame, err error) {
	if op.Frame == nil {
		return
	}
	var ff geometry.Frame
	if ff, err = op.Frame.frame(); err != nil {
		return
	}
	return &ff, nil
}

/*
Transformation composes the placement of the object: scale first, then rotation, then translation.
It is nil when none of them is given.
*/
func (op *ObjectParameters) Transformation() (T *geometry.Transformation, err error) {
	if op.Scale == nil && op.Rotation == nil && op.Translation == nil {
		return
	}
	TT := geometry.Identity()
	if op.Scale != nil {
		TT = geometry.Scale(op.Scale[0], op.Scale[1], op.Scale[2])
	}
	if rp := op.Rotation; rp != nil {
		var R geometry.Transformation
		if R, err = geometry.Rotation(geometry.ArrayToVec(rp.Axis), rp.Angle*math.Pi/180,
			geometry.ArrayToVec(rp.Origin)); err != nil {
			return
		}
		TT = R.Mul(TT)
	}
	if op.Translation != nil {
		TT = geometry.Translation(geometry.ArrayToVec(*op.Translation)).Mul(TT)
	}
	return &TT, nil
}

// Item builds the data item described by the object, reading meshes relative to dir.
func (op *ObjectParameters) Item(dir string) (item data.Item, err error) {
	points := func() (pts []r3.Vec) {
		for _, p := range op.Points {
			pts = append(pts, geometry.ArrayToVec(p))
		}
		return
	}
	plane := geometry.WorldXY()
	if op.Plane != nil {
		if plane, err = op.Plane.frame(); err != nil {
			return
		}
	}
	switch op.Type {
	case MeshType:
		file := op.File
		if !filepath.IsAbs(file) {
			file = filepath.Join(dir, file)
		}
		return readfiles.ReadMeshFile(file)
	case LineType:
		if len(op.Points) != 2 {
			return nil, fmt.Errorf("%w: line needs 2 Points", ErrInvalidParameters)
		}
		pts := points()
		return geometry.NewLine(pts[0], pts[1]), nil
	case PolylineType:
		return geometry.NewPolyline(points()), nil
	case CircleType:
		return geometry.NewCircle(plane, op.Radius), nil
	case EllipseType:
		return geometry.NewEllipse(plane, op.Major, op.Minor), nil
	case GroupType:
		name := op.Name
		if name == "" {
			name = "Group"
		}
		return scene.NewGroup(name), nil
	}
	return nil, fmt.Errorf("%w: unknown Type [%s]", ErrInvalidParameters, op.Type)
}

// Options converts the display parameters of the object into scene object options.
func (op *ObjectParameters) Options() (opts []scene.Option, err error) {
	if op.Name != "" {
		opts = append(opts, scene.WithName(op.Name))
	}
	var (
		f *geometry.Frame
		T *geometry.Transformation
	)
	if f, err = op.LocalFrame(); err != nil {
		return
	}
	if f != nil {
		opts = append(opts, scene.WithFrame(*f))
	}
	if T, err = op.Transformation(); err != nil {
		return
	}
	if T != nil {
		opts = append(opts, scene.WithTransformation(*T))
	}
	if op.Color != nil {
		opts = append(opts, scene.WithColor(op.Color))
	}
	if op.Opacity != nil {
		opts = append(opts, scene.WithOpacity(*op.Opacity))
	}
	if op.Show != nil {
		opts = append(opts, scene.WithShow(*op.Show))
	}
	if op.VertexColor != nil {
		opts = append(opts, scene.WithVertexColor(op.VertexColor))
	}
	if op.EdgeColor != nil {
		opts = append(opts, scene.WithEdgeColor(op.EdgeColor))
	}
	if op.FaceColor != nil {
		opts = append(opts, scene.WithFaceColor(op.FaceColor))
	}
	if op.VertexSize != nil {
		opts = append(opts, scene.WithVertexSize(*op.VertexSize))
	}
	if op.EdgeWidth != nil {
		opts = append(opts, scene.WithEdgeWidth(*op.EdgeWidth))
	}
	if op.ShowVertices != nil {
		opts = append(opts, scene.WithShowVertices(op.ShowVertices))
	}
	if op.ShowEdges != nil {
		opts = append(opts, scene.WithShowEdges(op.ShowEdges))
	}
	if op.ShowFaces != nil {
		opts = append(opts, scene.WithShowFaces(op.ShowFaces))
	}
	if op.PointColor != nil {
		opts = append(opts, scene.WithPointColor(op.PointColor))
	}
	if op.LineColor != nil {
		opts = append(opts, scene.WithLineColor(op.LineColor))
	}
	if op.PointSize != nil {
		opts = append(opts, scene.WithPointSize(*op.PointSize))
	}
	if op.LineWidth != nil {
		opts = append(opts, scene.WithLineWidth(*op.LineWidth))
	}
	if op.ShowPoints != nil {
		opts = append(opts, scene.WithShowPoints(*op.ShowPoints))
	}
	if op.ShowLines != nil {
		opts = append(opts, scene.WithShowLines(*op.ShowLines))
	}
	if op.Resolution != 0 {
		opts = append(opts, scene.WithResolution(op.Resolution))
	}
	return
}

/*
Build adds every described object to sc, children below their parents. Mesh files are read
relative to dir. Building stops at the first object that fails.
*/
func (sp *SceneParameters) Build(sc *scene.Scene, dir string) (err error) {
	for i := range sp.Objects {
		if err = sp.Objects[i].build(sc, nil, dir); err != nil {
			return
		}
	}
	return
}

func (op *ObjectParameters) build(sc *scene.Scene, parent scene.Object, dir string) (err error) {
	var (
		item data.Item
		opts []scene.Option
		obj  scene.Object
	)
	if item, err = op.Item(dir); err != nil {
		return
	}
	if opts, err = op.Options(); err != nil {
		return
	}
	if parent != nil {
		opts = append(opts, scene.WithParent(parent))
	}
	if obj, err = sc.Add(item, opts...); err != nil {
		return fmt.Errorf("adding %s %s: %w", op.Type, op.Name, err)
	}
	for i := range op.Children {
		if err = op.Children[i].build(sc, obj, dir); err != nil {
			return
		}
	}
	return
}
