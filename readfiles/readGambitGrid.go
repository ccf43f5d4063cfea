package readfiles

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/goscene/datastructures"
)

// Gambit neutral file element types
const (
	GambitQuadrilateral = 2
	GambitTriangle      = 3
	GambitTetrahedron   = 6
)

type Material struct {
	ElementCount  int
	MaterialValue float64
	Title         string
	Elements      []int
}

type gambitHeader struct {
	Nv, K, Nmats, Nbcs, Nsd int
}

type gambitElement struct {
	typ   int
	verts []int
}

type gambitFile struct {
	header    gambitHeader
	points    map[int]r3.Vec
	pointIDs  []int
	elements  map[int]gambitElement
	elemIDs   []int
	materials []Material
	bcs       map[string][]datastructures.Edge
	bcNames   []string
}

/*
ReadGambit reads a Gambit neutral file. In 2D the triangles and quadrilaterals become faces,
material groups become face groups and boundary condition sets become edge groups.
In 3D the faces are the boundary triangles of the tetrahedra.
*/
func ReadGambit(filename string) (m *datastructures.Mesh, err error) {
	var file *os.File
	if file, err = os.Open(filename); err != nil {
		return nil, fmt.Errorf("unable to open file %s: %w", filename, err)
	}
	defer file.Close()
	if m, err = ParseGambit(file, filename); err != nil {
		return
	}
	m.SetName(strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)))
	return
}

func ParseGambit(r io.Reader, name string) (m *datastructures.Mesh, err error) {
	var (
		lr = newLineReader(r, name)
		gf = gambitFile{
			points:   make(map[int]r3.Vec),
			elements: make(map[int]gambitElement),
			bcs:      make(map[string][]datastructures.Edge),
		}
		line string
	)
	// Skip first six lines
	if err = lr.skipLines(6); err != nil {
		return
	}
	if gf.header, err = lr.readGambitHeader(); err != nil {
		return
	}
	if gf.header.Nsd > 3 || gf.header.Nsd < 2 {
		return nil, lr.formatErrorf("space dimensions not 2 or 3, have %d", gf.header.Nsd)
	}
	for {
		if line, err = lr.getLine(); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return
		}
		section := strings.ToUpper(strings.TrimSpace(line))
		switch {
		case strings.HasPrefix(section, "NODAL COORDINATES"):
			err = gf.readVertices(lr)
		case strings.HasPrefix(section, "ELEMENTS/CELLS"):
			err = gf.readElements(lr)
		case strings.HasPrefix(section, "ELEMENT GROUP"):
			var mat Material
			if mat, err = lr.readMaterialGroup(); err == nil {
				gf.materials = append(gf.materials, mat)
			}
		case strings.HasPrefix(section, "BOUNDARY CONDITIONS"):
			err = gf.readBCs(lr)
		}
		if err != nil {
			return
		}
	}
	err = nil
	return gf.build()
}

func (lr *lineReader) readGambitHeader() (h gambitHeader, err error) {
	/*
		Nv      // num nodes in mesh
		K       // num elements
		Nmats   // num material groups
		Nbcs    // num boundary groups
		Nsd;    // num space dimensions
	*/
	var (
		line string
		vals []int
	)
	if line, err = lr.getLine(); err != nil {
		return
	}
	if vals, err = lr.readInts(line); err != nil {
		return
	}
	if len(vals) < 5 {
		err = lr.formatErrorf("read fewer than 5 dimensions, read %d, line: %s", len(vals), line)
		return
	}
	h = gambitHeader{Nv: vals[0], K: vals[1], Nmats: vals[2], Nbcs: vals[3], Nsd: vals[4]}
	return
}

func (gf *gambitFile) readVertices(lr *lineReader) (err error) {
	nargs := 1 + gf.header.Nsd
	for i := 0; i < gf.header.Nv; i++ {
		var (
			line   string
			ind    int
			coords []float64
		)
		if line, err = lr.getLine(); err != nil {
			return
		}
		fields := strings.Fields(line)
		if len(fields) < nargs {
			return lr.formatErrorf("read fewer than required dimensions, read %d, need %d, line: %s",
				len(fields), nargs, line)
		}
		if ind, err = strconv.Atoi(fields[0]); err != nil || ind < 1 {
			return lr.formatErrorf("error reading index, line: %s", line)
		}
		if coords, err = lr.readFloats(fields[1:nargs]); err != nil {
			return
		}
		p := r3.Vec{X: coords[0], Y: coords[1]}
		if gf.header.Nsd == 3 {
			p.Z = coords[2]
		}
		if _, ok := gf.points[ind]; !ok {
			gf.pointIDs = append(gf.pointIDs, ind)
		}
		gf.points[ind] = p
	}
	return
}

func (gf *gambitFile) readElements(lr *lineReader) (err error) {
	//-------------------------------------
	// Triangles:
	//-------------------------------------
	//    ELEMENTS/CELLS 1.3.0
	//      1  3  3        1       2       3
	//      2  3  3        3       2       4
	// Tetrahedra:
	//     1  6  4      248     247     385     265
	for i := 0; i < gf.header.K; i++ {
		var (
			line string
			vals []int
		)
		if line, err = lr.getLine(); err != nil {
			return
		}
		if vals, err = lr.readInts(line); err != nil {
			return
		}
		if len(vals) < 3 || len(vals) < 3+vals[2] {
			return lr.formatErrorf("incomplete element, line: %s", line)
		}
		ind, typ, nnodes := vals[0], vals[1], vals[2]
		verts := make([]int, nnodes)
		for j := range verts {
			// Gambit numbers from 1
			verts[j] = vals[3+j] - 1
		}
		if _, ok := gf.elements[ind]; !ok {
			gf.elemIDs = append(gf.elemIDs, ind)
		}
		gf.elements[ind] = gambitElement{typ: typ, verts: verts}
	}
	return
}

func (lr *lineReader) readMaterialGroup() (mat Material, err error) {
	/*
	   GROUP:           1 ELEMENTS:        977 MATERIAL:      1.000 NFLAGS:          0
	                     epsilon: 1.000
	          0
	*/
	var (
		line   string
		fields []string
		elnum  int
	)
	if line, err = lr.getLine(); err != nil {
		return
	}
	fields = strings.Fields(line)
	if len(fields) < 6 || fields[0] != "GROUP:" || fields[2] != "ELEMENTS:" || fields[4] != "MATERIAL:" {
		err = lr.formatErrorf("badly formed group header: %s", line)
		return
	}
	if elnum, err = strconv.Atoi(fields[3]); err != nil {
		err = lr.formatErrorf("bad element count: %s", line)
		return
	}
	if mat.MaterialValue, err = strconv.ParseFloat(fields[5], 64); err != nil {
		err = lr.formatErrorf("bad material value: %s", line)
		return
	}
	mat.ElementCount = elnum
	if line, err = lr.getLine(); err != nil {
		return
	}
	mat.Title = strings.TrimSpace(line)
	if err = lr.skipLines(1); err != nil {
		return
	}
	// Ten element ids per line
	numLines := (elnum + 9) / 10
	for i := 0; i < numLines; i++ {
		var ids []int
		if line, err = lr.getLine(); err != nil {
			return
		}
		if ids, err = lr.readInts(line); err != nil {
			return
		}
		mat.Elements = append(mat.Elements, ids...)
	}
	if len(mat.Elements) != elnum {
		err = lr.formatErrorf("group %s lists %d elements, expected %d", mat.Title, len(mat.Elements), elnum)
	}
	return
}

func (gf *gambitFile) readBCs(lr *lineReader) (err error) {
	var (
		line   string
		fields []string
		nfaces int
	)
	if line, err = lr.getLine(); err != nil {
		return
	}
	fields = strings.Fields(line)
	if len(fields) < 3 {
		return lr.formatErrorf("badly formed boundary header: %s", line)
	}
	bctyp := strings.ToLower(fields[0])
	if nfaces, err = strconv.Atoi(fields[2]); err != nil {
		return lr.formatErrorf("bad face count: %s", line)
	}
	if _, ok := gf.bcs[bctyp]; !ok {
		gf.bcNames = append(gf.bcNames, bctyp)
	}
	for i := 0; i < nfaces; i++ {
		var vals []int
		if line, err = lr.getLine(); err != nil {
			return
		}
		if vals, err = lr.readInts(line); err != nil {
			return
		}
		if len(vals) < 3 {
			return lr.formatErrorf("read fewer than 3 values, line: %s", line)
		}
		el, ok := gf.elements[vals[0]]
		if !ok {
			return lr.formatErrorf("boundary references unknown element %d", vals[0])
		}
		if el.typ == GambitTetrahedron {
			continue
		}
		nv := len(el.verts)
		face := vals[2] - 1
		if face < 0 || face >= nv {
			return lr.formatErrorf("element %d has no face %d", vals[0], vals[2])
		}
		gf.bcs[bctyp] = append(gf.bcs[bctyp], datastructures.Edge{el.verts[face], el.verts[(face+1)%nv]})
	}
	return
}

// tetFaces lists the faces of a tetrahedron, oriented outward for positive volume.
var tetFaces = [4][3]int{{0, 2, 1}, {0, 1, 3}, {1, 2, 3}, {0, 3, 2}}

func (gf *gambitFile) build() (m *datastructures.Mesh, err error) {
	m = datastructures.NewMesh()
	for _, id := range gf.pointIDs {
		if err = m.AddVertexWithKey(id-1, gf.points[id]); err != nil {
			return nil, err
		}
	}
	var (
		faceOf   = make(map[int]int)
		tetCount = make(map[[3]int]int)
		tetTris  [][3]int
	)
	for _, id := range gf.elemIDs {
		el := gf.elements[id]
		switch el.typ {
		case GambitTriangle, GambitQuadrilateral:
			var f int
			if f, err = m.AddFace(el.verts); err != nil {
				return nil, fmt.Errorf("element %d: %w", id, err)
			}
			faceOf[id] = f
		case GambitTetrahedron:
			if len(el.verts) != 4 {
				return nil, fmt.Errorf("%w: tetrahedron %d has %d nodes", ErrFormat, id, len(el.verts))
			}
			for _, tf := range tetFaces {
				tri := [3]int{el.verts[tf[0]], el.verts[tf[1]], el.verts[tf[2]]}
				tetCount[sortedTri(tri)]++
				tetTris = append(tetTris, tri)
			}
		}
	}
	// Interior tet faces are shared by two tets, the boundary is what remains
	for _, tri := range tetTris {
		if tetCount[sortedTri(tri)] == 1 {
			if _, err = m.AddFace(tri[:]); err != nil {
				return nil, err
			}
		}
	}
	for _, mat := range gf.materials {
		var faces []int
		for _, id := range mat.Elements {
			if f, ok := faceOf[id]; ok {
				faces = append(faces, f)
			}
		}
		if len(faces) == 0 {
			continue
		}
		if err = m.SetFaceGroup(mat.Title, faces); err != nil {
			return nil, err
		}
	}
	for _, name := range gf.bcNames {
		if len(gf.bcs[name]) == 0 {
			continue
		}
		if err = m.SetEdgeGroup(name, gf.bcs[name]); err != nil {
			return nil, err
		}
	}
	return
}

func sortedTri(tri [3]int) [3]int {
	s := tri[:]
	sort.Ints(s)
	return tri
}
