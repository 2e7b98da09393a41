package main

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// vertexFloats is the number of floats per vertex: position then normal.
const vertexFloats = 6

// mesh is an indexed triangle list with interleaved positions and normals.
type mesh struct {
	vertices []float32
	indices  []uint16
}

func (m mesh) vertexCount() int { return len(m.vertices) / vertexFloats }

// torus builds a torus around the z axis. rings runs around the main
// circle, sides around the tube. Triangles wind counter-clockwise seen from
// outside.
func torus(major, minor float32, rings, sides int) mesh {
	var m mesh
	for i := 0; i < rings; i++ {
		u := 2 * math.Pi * float64(i) / float64(rings)
		for j := 0; j < sides; j++ {
			v := 2 * math.Pi * float64(j) / float64(sides)
			n := mgl32.Vec3{
				float32(math.Cos(u) * math.Cos(v)),
				float32(math.Sin(u) * math.Cos(v)),
				float32(math.Sin(v)),
			}
			c := mgl32.Vec3{float32(math.Cos(u)), float32(math.Sin(u)), 0}.Mul(major)
			p := c.Add(n.Mul(minor))
			m.vertices = append(m.vertices, p[0], p[1], p[2], n[0], n[1], n[2])
		}
	}
	at := func(i, j int) uint16 { return uint16((i%rings)*sides + j%sides) }
	for i := 0; i < rings; i++ {
		for j := 0; j < sides; j++ {
			a, b, c, d := at(i, j), at(i+1, j), at(i+1, j+1), at(i, j+1)
			m.indices = append(m.indices, a, b, c, a, c, d)
		}
	}
	return m
}
