package msmodel

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvexHullSquare(t *testing.T) {
	pts := []Point{{RT: 0, MZ: 0}, {RT: 0, MZ: 2}, {RT: 2, MZ: 2}, {RT: 2, MZ: 0}, {RT: 1, MZ: 1}}
	h := NewConvexHullFromPoints(pts)
	assert.Len(t, h.Vertices, 4)
	assert.True(t, h.Encloses(Point{RT: 1, MZ: 1}))
	assert.False(t, h.Encloses(Point{RT: 5, MZ: 5}))
}

func TestConvexHullDegenerateInputs(t *testing.T) {
	assert.Empty(t, NewConvexHullFromPoints(nil).Vertices)
	h1 := NewConvexHullFromPoints([]Point{{RT: 1, MZ: 1}})
	assert.Len(t, h1.Vertices, 1)
	h2 := NewConvexHullFromPoints([]Point{{RT: 1, MZ: 1}, {RT: 2, MZ: 2}})
	assert.Len(t, h2.Vertices, 2)
}

func TestConvexHullAllPointsInsideOrOnHull(t *testing.T) {
	for iter := 0; iter < 100; iter++ {
		n := 5 + rand.Intn(20)
		pts := make([]Point, n)
		for i := range pts {
			pts[i] = Point{RT: rand.Float64() * 50, MZ: rand.Float64() * 50}
		}
		h := NewConvexHullFromPoints(pts)
		if len(h.Vertices) < 3 {
			continue
		}
		for _, p := range pts {
			isVertex := false
			for _, v := range h.Vertices {
				if v == p {
					isVertex = true
					break
				}
			}
			if isVertex {
				continue
			}
			assert.True(t, h.Encloses(p))
		}
	}
}

func TestFeatureCloneIsDeep(t *testing.T) {
	f := NewFeature(42)
	f.Position = Point{RT: 10, MZ: 500}
	f.AddConvexHull([]Point{{RT: 0, MZ: 0}, {RT: 1, MZ: 0}, {RT: 0, MZ: 1}})
	f.Subordinates = []*Feature{NewFeature(43)}
	f.Meta = f.Meta.Set("note", "x")

	cp := f.Clone()
	cp.ConvexHulls[0].Vertices[0].RT = 999
	cp.Subordinates[0].ID = 999
	cp.Meta = cp.Meta.Set("note", "y")

	require.Equal(t, uint64(42), f.ID)
	assert.Equal(t, 0.0, f.ConvexHulls[0].Vertices[0].RT)
	assert.Equal(t, uint64(43), f.Subordinates[0].ID)
	v, _ := f.Meta.GetString("note")
	assert.Equal(t, "x", v)
}
