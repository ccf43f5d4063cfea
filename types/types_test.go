package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypes(t *testing.T) {
	{ // Test packed int for edge labeling
		en := NewEdgeKey([2]int{1, 0})
		assert.Equal(t, EdgeKey(1<<32), en)
		assert.Equal(t, [2]int{0, 1}, en.GetVertices(false))

		en = NewEdgeKey([2]int{0, 1})
		assert.Equal(t, EdgeKey(1<<32), en)
		assert.Equal(t, [2]int{0, 1}, en.GetVertices(false))
		assert.Equal(t, [2]int{1, 0}, en.GetVertices(true))

		en = NewEdgeKey([2]int{100, 1})
		assert.Equal(t, EdgeKey(100*(1<<32)+1), en)
		assert.Equal(t, [2]int{1, 100}, en.GetVertices(false))

		en = NewEdgeKey([2]int{100, 100001})
		assert.Equal(t, EdgeKey(100001*(1<<32)+100), en)
		assert.Equal(t, [2]int{100, 100001}, en.GetVertices(false))

		// Test maximum/minimum indices
		en = NewEdgeKey([2]int{1<<32 - 1, 1<<32 - 1})
		assert.Equal(t, EdgeKey(1<<64-1), en)
		assert.Equal(t, [2]int{1<<32 - 1, 1<<32 - 1}, en.GetVertices(false))

		assert.Panics(t, func() { NewEdgeKey([2]int{-1, 0}) })
	}
	{ // Directed edges keep their orientation
		e := NewEdgeInt([2]int{5, 2})
		assert.True(t, e < 0)
		assert.Equal(t, [2]int{5, 2}, e.GetVertices())
		assert.Equal(t, [2]int{2, 5}, e.Reversed().GetVertices())
		assert.Equal(t, NewEdgeKey([2]int{2, 5}), e.GetKey())
		assert.Equal(t, e.GetKey(), e.Reversed().GetKey())
	}
	{ // Vertex key range
		assert.True(t, ValidVertexKey(0))
		assert.True(t, ValidVertexKey(MaxVertexKey))
		assert.False(t, ValidVertexKey(-1))
		assert.False(t, ValidVertexKey(MaxVertexKey+1))
	}
	{ // Face loops close on themselves
		edges := FaceEdges([]int{0, 1, 2})
		assert.Equal(t, 3, len(edges))
		assert.Equal(t, [2]int{2, 0}, edges[2].GetVertices())
		assert.Nil(t, FaceEdges([]int{4}))
	}
}
