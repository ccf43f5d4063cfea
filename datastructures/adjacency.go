package datastructures

import (
	"fmt"
	"sort"

	"github.com/james-bowman/sparse"
)

// vertexIndex maps vertex keys to dense positions in insertion order.
func (m *Mesh) vertexIndex() map[int]int {
	if m.vindex == nil {
		m.vindex = make(map[int]int, len(m.vorder))
		for i, key := range m.vorder {
			m.vindex[key] = i
		}
	}
	return m.vindex
}

// vertexAdjacency is the symmetric Nv x Nv edge incidence matrix.
func (m *Mesh) vertexAdjacency() *sparse.CSR {
	if m.adjacency == nil {
		var (
			Nv  = len(m.vorder)
			idx = m.vertexIndex()
		)
		VToV := sparse.NewDOK(Nv, Nv)
		for _, e := range m.Edges() {
			i, j := idx[e[0]], idx[e[1]]
			VToV.Set(i, j, 1)
			VToV.Set(j, i, 1)
		}
		m.adjacency = VToV.ToCSR()
	}
	return m.adjacency
}

// rowColumns lists the column indices of the non zeros in row i of a CSR matrix.
func rowColumns(A *sparse.CSR, i int) (cols []int) {
	raw := A.RawMatrix()
	for ii := raw.Indptr[i]; ii < raw.Indptr[i+1]; ii++ {
		if raw.Data[ii] != 0 {
			cols = append(cols, raw.Ind[ii])
		}
	}
	sort.Ints(cols)
	return
}

// VertexNeighbors returns the vertices sharing an edge with key, in vertex insertion order.
func (m *Mesh) VertexNeighbors(key int) (nbrs []int, err error) {
	if !m.HasVertex(key) {
		err = fmt.Errorf("%w: %d", ErrUnknownVertex, key)
		return
	}
	if len(m.forder) == 0 {
		return
	}
	for _, j := range rowColumns(m.vertexAdjacency(), m.vertexIndex()[key]) {
		nbrs = append(nbrs, m.vorder[j])
	}
	return
}

// VertexDegree is the number of edges meeting at a vertex.
func (m *Mesh) VertexDegree(key int) (degree int, err error) {
	var nbrs []int
	if nbrs, err = m.VertexNeighbors(key); err != nil {
		return
	}
	degree = len(nbrs)
	return
}

/*
FaceNeighbors returns the faces sharing an edge with the given face, in face insertion order.

Faces that share an edge share at least two vertices, so the neighbors are the off diagonal
entries >= 2 of FToV * FToV^T, where FToV is the face to vertex incidence matrix.
*/
func (m *Mesh) FaceNeighbors(key int) (nbrs []int, err error) {
	if !m.HasFace(key) {
		err = fmt.Errorf("%w: %d", ErrUnknownFace, key)
		return
	}
	var (
		Nf   = len(m.forder)
		Nv   = len(m.vorder)
		idx  = m.vertexIndex()
		self = -1
	)
	FToV_Tmp := sparse.NewDOK(Nf, Nv)
	for fi, f := range m.forder {
		if f == key {
			self = fi
		}
		for _, v := range m.faces[f] {
			FToV_Tmp.Set(fi, idx[v], 1)
		}
	}
	FToV := FToV_Tmp.ToCSR()
	FToF := sparse.NewCSR(Nf, Nf, nil, nil, nil)
	FToF.Mul(FToV, FToV.T())
	for fj := 0; fj < Nf; fj++ {
		if fj != self && FToF.At(self, fj) >= 2 {
			nbrs = append(nbrs, m.forder[fj])
		}
	}
	return
}
