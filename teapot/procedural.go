package teapot

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	latheSegments = 48
	tubeSegments  = 16
	tubeRings     = 24
)

// Profiles are (radius, height) pairs, bottom to top, revolved around the y axis.
var (
	bodyProfile = []mgl32.Vec2{
		{0.0, 0.0}, {1.1, 0.0}, {1.3, 0.08}, {1.45, 0.3}, {1.52, 0.6}, {1.5, 0.85},
		{1.42, 1.1}, {1.28, 1.3}, {1.12, 1.45}, {1.02, 1.5},
	}
	lidProfile = []mgl32.Vec2{
		{1.05, 1.5}, {0.95, 1.58}, {0.75, 1.67}, {0.5, 1.74}, {0.25, 1.8},
		{0.14, 1.84}, {0.2, 1.9}, {0.26, 1.96}, {0.2, 2.02}, {0.0, 2.05},
	}
)

type tube struct {
	controls    [4]mgl32.Vec3
	startRadius float32
	endRadius   float32
}

var (
	spout = tube{
		controls: [4]mgl32.Vec3{
			{1.2, 0.45, 0}, {2.25, 0.45, 0}, {2.0, 1.3, 0}, {2.7, 1.65, 0},
		},
		startRadius: 0.32,
		endRadius:   0.1,
	}
	handle = tube{
		controls: [4]mgl32.Vec3{
			{-1.35, 1.25, 0}, {-2.35, 1.45, 0}, {-2.35, 0.25, 0}, {-1.45, 0.45, 0},
		},
		startRadius: 0.1,
		endRadius:   0.1,
	}
)

// Generate builds the built-in teapot: body and lid as surfaces of revolution, spout and
// handle as tubes swept along cubic Bézier curves. The result is normalized.
func Generate() Mesh {
	var mesh Mesh
	mesh.Append(lathe(bodyProfile, latheSegments))
	mesh.Append(lathe(lidProfile, latheSegments))
	mesh.Append(sweep(spout, tubeRings, tubeSegments))
	mesh.Append(sweep(handle, tubeRings, tubeSegments))
	mesh.Normalize()
	return mesh
}

// grid indexes a rows x columns vertex grid whose columns wrap around. Triangles are counter
// clockwise seen from the side the row-to-row direction crossed with the column direction
// points to.
func grid(rows, columns int) []uint32 {
	var indices []uint32
	for i := 0; i < rows-1; i++ {
		for j := 0; j < columns; j++ {
			a := uint32(i*columns + j)
			b := uint32(i*columns + (j+1)%columns)
			c := uint32((i+1)*columns + j)
			d := uint32((i+1)*columns + (j+1)%columns)
			indices = append(indices, a, c, b, b, c, d)
		}
	}
	return indices
}

func lathe(profile []mgl32.Vec2, segments int) Mesh {
	var mesh Mesh
	for _, point := range profile {
		radius, height := point[0], point[1]
		for j := 0; j < segments; j++ {
			sin, cos := math.Sincos(2 * math.Pi * float64(j) / float64(segments))
			mesh.Positions = append(mesh.Positions, mgl32.Vec3{
				radius * float32(cos),
				height,
				radius * float32(sin),
			})
		}
	}
	mesh.Indices = grid(len(profile), segments)
	return mesh
}

func (t tube) point(u float32) mgl32.Vec3 {
	return mgl32.CubicBezierCurve3D(u, t.controls[0], t.controls[1], t.controls[2], t.controls[3])
}

func (t tube) tangent(u float32) mgl32.Vec3 {
	p := t.controls
	v := 1 - u
	tangent := p[1].Sub(p[0]).Mul(3 * v * v).
		Add(p[2].Sub(p[1]).Mul(6 * v * u)).
		Add(p[3].Sub(p[2]).Mul(3 * u * u))
	return tangent.Normalize()
}

// sweep places a ring around the curve at each step. The curves lie in the xy plane, so z is
// never parallel to the tangent and gives a stable frame.
func sweep(t tube, rings, segments int) Mesh {
	var mesh Mesh
	for i := 0; i < rings; i++ {
		u := float32(i) / float32(rings-1)
		center := t.point(u)
		tangent := t.tangent(u)
		normal := tangent.Cross(mgl32.Vec3{0, 0, 1}).Normalize()
		binormal := normal.Cross(tangent)
		radius := t.startRadius + (t.endRadius-t.startRadius)*u

		for j := 0; j < segments; j++ {
			sin, cos := math.Sincos(2 * math.Pi * float64(j) / float64(segments))
			offset := normal.Mul(float32(cos)).Add(binormal.Mul(float32(sin))).Mul(radius)
			mesh.Positions = append(mesh.Positions, center.Add(offset))
		}
	}
	mesh.Indices = grid(rings, segments)
	return mesh
}
