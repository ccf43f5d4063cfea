package readfiles

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/goscene/datastructures"
)

// From here: https://su2code.github.io/docs_v7/Mesh-File/
type SU2ElementType uint8

const (
	ELType_LINE          SU2ElementType = 3
	ELType_Triangle      SU2ElementType = 5
	ELType_Quadrilateral SU2ElementType = 9
	ELType_Tetrahedral   SU2ElementType = 10
	ELType_Hexahedral    SU2ElementType = 12
	ELType_Prism         SU2ElementType = 13
	ELType_Pyramid       SU2ElementType = 14
)

// NumVertices is the number of vertices listed for an element of this type.
func (et SU2ElementType) NumVertices() int {
	switch et {
	case ELType_LINE:
		return 2
	case ELType_Triangle:
		return 3
	case ELType_Quadrilateral, ELType_Tetrahedral:
		return 4
	case ELType_Pyramid:
		return 5
	case ELType_Prism:
		return 6
	case ELType_Hexahedral:
		return 8
	}
	return 0
}

// IsSurface is true for the element types that become mesh faces.
func (et SU2ElementType) IsSurface() bool {
	return et == ELType_Triangle || et == ELType_Quadrilateral
}

type su2Element struct {
	typ   SU2ElementType
	verts []int
}

type su2Marker struct {
	tag      string
	elements []su2Element
}

type su2File struct {
	dim      int
	elements []su2Element
	points   []r3.Vec
	markers  []su2Marker
}

/*
ReadSU2 reads a 2D or 3D SU2 mesh. Surface elements (triangles and quadrilaterals) become faces,
volume elements are skipped. Markers made of lines become edge groups, markers made of surface
elements add their faces to the mesh and to a face group of the same name.
*/
func ReadSU2(filename string) (m *datastructures.Mesh, err error) {
	var file *os.File
	if file, err = os.Open(filename); err != nil {
		return nil, fmt.Errorf("unable to open file %s: %w", filename, err)
	}
	defer file.Close()
	if m, err = ParseSU2(file, filename); err != nil {
		return
	}
	m.SetName(strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)))
	return
}

func ParseSU2(r io.Reader, name string) (m *datastructures.Mesh, err error) {
	var (
		lr = newLineReader(r, name)
		sf su2File
	)
	for {
		var keyword, token string
		if keyword, token, err = lr.getToken(); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return
		}
		switch keyword {
		case "NDIME":
			if sf.dim, err = lr.parseCount(token); err != nil {
				return
			}
			if sf.dim != 2 && sf.dim != 3 {
				return nil, lr.formatErrorf("dimension must be 2 or 3, have %d", sf.dim)
			}
		case "NELEM":
			var K int
			if K, err = lr.parseCount(token); err != nil {
				return
			}
			if sf.elements, err = lr.readSU2Elements(K); err != nil {
				return
			}
		case "NPOIN":
			var Nv int
			if Nv, err = lr.parseCount(token); err != nil {
				return
			}
			if sf.dim == 0 {
				return nil, lr.formatErrorf("NPOIN before NDIME")
			}
			if sf.points, err = lr.readSU2Vertices(Nv, sf.dim); err != nil {
				return
			}
		case "NMARK":
			var NBCs int
			if NBCs, err = lr.parseCount(token); err != nil {
				return
			}
			if sf.markers, err = lr.readSU2Markers(NBCs); err != nil {
				return
			}
		default:
			// NZONE, IZONE and solver specific keywords carry nothing for the mesh
		}
	}
	err = nil
	return sf.build()
}

func (lr *lineReader) readSU2Element() (el su2Element, err error) {
	var (
		line string
		vals []int
	)
	if line, err = lr.getLineNoComments(); err != nil {
		return
	}
	if vals, err = lr.readInts(line); err != nil {
		return
	}
	if len(vals) == 0 {
		err = lr.formatErrorf("empty element")
		return
	}
	el.typ = SU2ElementType(vals[0])
	nv := el.typ.NumVertices()
	if nv == 0 {
		err = lr.formatErrorf("unknown element type %d", vals[0])
		return
	}
	// An element index may trail the vertices
	if len(vals)-1 < nv {
		err = lr.formatErrorf("element type %d needs %d vertices, have %d", vals[0], nv, len(vals)-1)
		return
	}
	el.verts = vals[1 : nv+1]
	return
}

func (lr *lineReader) readSU2Elements(K int) (elements []su2Element, err error) {
	elements = make([]su2Element, K)
	for k := 0; k < K; k++ {
		if elements[k], err = lr.readSU2Element(); err != nil {
			return
		}
	}
	return
}

func (lr *lineReader) readSU2Vertices(Nv, dim int) (points []r3.Vec, err error) {
	points = make([]r3.Vec, Nv)
	for i := 0; i < Nv; i++ {
		var (
			line   string
			coords []float64
		)
		if line, err = lr.getLineNoComments(); err != nil {
			return
		}
		fields := strings.Fields(line)
		if len(fields) < dim {
			err = lr.formatErrorf("unable to read %d coordinates from [%s]", dim, line)
			return
		}
		if coords, err = lr.readFloats(fields[:dim]); err != nil {
			return
		}
		points[i] = r3.Vec{X: coords[0], Y: coords[1]}
		if dim == 3 {
			points[i].Z = coords[2]
		}
	}
	return
}

func (lr *lineReader) readSU2Markers(NBCs int) (markers []su2Marker, err error) {
	markers = make([]su2Marker, NBCs)
	for n := 0; n < NBCs; n++ {
		var nEdges int
		if markers[n].tag, err = lr.readLabel("MARKER_TAG"); err != nil {
			return
		}
		if nEdges, err = lr.readNumber("MARKER_ELEMS"); err != nil {
			return
		}
		if markers[n].elements, err = lr.readSU2Elements(nEdges); err != nil {
			return
		}
	}
	return
}

func (sf *su2File) build() (m *datastructures.Mesh, err error) {
	m = datastructures.NewMesh()
	for _, p := range sf.points {
		m.AddVertex(p)
	}
	for k, el := range sf.elements {
		if !el.typ.IsSurface() {
			continue
		}
		if _, err = m.AddFace(el.verts); err != nil {
			return nil, fmt.Errorf("element %d: %w", k, err)
		}
	}
	var (
		edgeGroups = make(map[string][]datastructures.Edge)
		faceGroups = make(map[string][]int)
	)
	// Duplicate tags are merged, periodic markers for instance come in pairs
	for _, mk := range sf.markers {
		for _, el := range mk.elements {
			switch {
			case el.typ == ELType_LINE:
				edgeGroups[mk.tag] = append(edgeGroups[mk.tag], datastructures.Edge{el.verts[0], el.verts[1]})
			case el.typ.IsSurface():
				var f int
				if f, err = m.AddFace(el.verts); err != nil {
					return nil, fmt.Errorf("marker %s: %w", mk.tag, err)
				}
				faceGroups[mk.tag] = append(faceGroups[mk.tag], f)
			}
		}
	}
	for tag, edges := range edgeGroups {
		if err = m.SetEdgeGroup(tag, edges); err != nil {
			return nil, err
		}
	}
	for tag, faces := range faceGroups {
		if err = m.SetFaceGroup(tag, faces); err != nil {
			return nil, err
		}
	}
	return
}
