package types

import (
	"fmt"
	"math"
)

// MaxVertexKey is the largest vertex key that can be packed into an edge
const MaxVertexKey = math.MaxUint32 >> 1

/*
EdgeKey is an always positive number that stores an edge's vertices as indices in a way that can be compared
An edge between vertices [4] and [0] will always be stored as [0,4], in the ascending order of the index values
*/
type EdgeKey uint64

func NewEdgeKey(verts [2]int) (packed EdgeKey) {
	// This packs two index coordinates into two 32 bit unsigned integers to act as a hash and an indirect access method
	var (
		limit = math.MaxUint32
	)
	for _, vert := range verts {
		if vert < 0 || vert > limit {
			panic(fmt.Errorf("unable to pack two ints into a uint64, have %d and %d as inputs",
				verts[0], verts[1]))
		}
	}
	var i1, i2 int
	if verts[0] <= verts[1] {
		i1, i2 = verts[0], verts[1]
	} else {
		i1, i2 = verts[1], verts[0]
	}
	packed = EdgeKey(i1 + i2<<32)
	return
}

func (ek EdgeKey) GetVertices(rev bool) (verts [2]int) {
	var (
		enTmp EdgeKey
	)
	enTmp = ek >> 32
	verts[1] = int(enTmp)
	verts[0] = int(ek - enTmp*(1<<32))
	if rev {
		verts[0], verts[1] = verts[1], verts[0]
	}
	return
}

/*
EdgeInt stores the edge vertices in the original order of the vertices, so that it can be recovered with its
direction. Faces use it to keep their winding.
*/
type EdgeInt int64

func NewEdgeInt(verts [2]int) (packed EdgeInt) {
	// Two 31 bit unsigned integers, leaving room for the sign bit of an int64
	var (
		limit = MaxVertexKey
		sign  bool
	)
	for _, vert := range verts {
		if vert < 0 || vert > limit {
			panic(fmt.Errorf("unable to pack two ints into an int64, have %d and %d as inputs",
				verts[0], verts[1]))
		}
	}
	var i1, i2 int
	if verts[0] <= verts[1] {
		i1, i2 = verts[0], verts[1]
	} else {
		sign = true
		i1, i2 = verts[1], verts[0]
	}
	packed = EdgeInt(i1 + i2<<32)
	if sign {
		packed = -packed
	}
	return
}

func (e EdgeInt) GetVertices() (verts [2]int) {
	var (
		eTmp EdgeInt
		sign bool
	)
	if e < 0 {
		sign = true
		e = -e
	}
	eTmp = e >> 32
	verts[1] = int(eTmp)
	verts[0] = int(e - eTmp*(1<<32))
	if sign {
		verts[0], verts[1] = verts[1], verts[0]
	}
	return
}

func (e EdgeInt) GetKey() (ek EdgeKey) {
	ek = NewEdgeKey(e.GetVertices())
	return
}

// Reversed is the same edge traversed the other way.
func (e EdgeInt) Reversed() EdgeInt {
	v := e.GetVertices()
	return NewEdgeInt([2]int{v[1], v[0]})
}

// ValidVertexKey reports whether a key can take part in packed edges.
func ValidVertexKey(key int) bool {
	return key >= 0 && key <= MaxVertexKey
}

// FaceEdges returns the directed boundary edges of a polygon given by its vertex loop.
func FaceEdges(verts []int) (edges []EdgeInt) {
	var (
		n = len(verts)
	)
	if n < 2 {
		return
	}
	edges = make([]EdgeInt, n)
	for i := 0; i < n; i++ {
		edges[i] = NewEdgeInt([2]int{verts[i], verts[(i+1)%n]})
	}
	return
}
