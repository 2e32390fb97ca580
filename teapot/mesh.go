// Package teapot builds the tutorial's teapot geometry and draws it.
package teapot

import (
	"io"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/g3n/engine/loader/obj"
	"github.com/go-gl/mathgl/mgl32"
)

// Mesh is an indexed triangle list with position-only vertices.
type Mesh struct {
	Positions []mgl32.Vec3
	Indices   []uint32
}

// Validate checks the mesh is a non-empty triangle list whose indices are all in range.
func (m *Mesh) Validate() error {
	if len(m.Positions) == 0 || len(m.Indices) == 0 {
		return errors.New("mesh is empty")
	}
	if len(m.Indices)%3 != 0 {
		return errors.Newf("index count %d is not a multiple of 3", len(m.Indices))
	}
	for i, index := range m.Indices {
		if int(index) >= len(m.Positions) {
			return errors.Newf("index %d at %d is out of range for %d vertices", index, i, len(m.Positions))
		}
	}
	return nil
}

// Append adds other's triangles to m.
func (m *Mesh) Append(other Mesh) {
	base := uint32(len(m.Positions))
	m.Positions = append(m.Positions, other.Positions...)
	for _, index := range other.Indices {
		m.Indices = append(m.Indices, base+index)
	}
}

// Normalize centers the mesh's bounding box on the origin and scales it so every vertex lies
// within the unit sphere.
func (m *Mesh) Normalize() {
	if len(m.Positions) == 0 {
		return
	}

	lo, hi := m.Positions[0], m.Positions[0]
	for _, p := range m.Positions[1:] {
		for axis := 0; axis < 3; axis++ {
			lo[axis] = min(lo[axis], p[axis])
			hi[axis] = max(hi[axis], p[axis])
		}
	}
	center := lo.Add(hi).Mul(0.5)

	var radius float32
	for i, p := range m.Positions {
		m.Positions[i] = p.Sub(center)
		radius = max(radius, m.Positions[i].Len())
	}

	if radius == 0 {
		return
	}
	for i := range m.Positions {
		m.Positions[i] = m.Positions[i].Mul(1 / radius)
	}
}

// LoadOBJ decodes a Wavefront OBJ file. A .mtl file next to it is read when present.
func LoadOBJ(path string) (Mesh, error) {
	meshFile, err := os.Open(path)
	if err != nil {
		return Mesh{}, errors.Wrapf(err, "open mesh %s", path)
	}
	defer meshFile.Close()

	var matReader io.Reader = strings.NewReader("")
	matFile, err := os.Open(strings.TrimSuffix(path, ".obj") + ".mtl")
	if err == nil {
		defer matFile.Close()
		matReader = matFile
	}

	return DecodeOBJ(meshFile, matReader)
}

// DecodeOBJ fan-triangulates every face of every object and de-duplicates vertices by their
// position index.
func DecodeOBJ(meshReader, matReader io.Reader) (Mesh, error) {
	decoder, err := obj.DecodeReader(meshReader, matReader)
	if err != nil {
		return Mesh{}, errors.Wrap(err, "decode OBJ")
	}

	var mesh Mesh
	uniqueVertices := make(map[int]uint32)

	addVertex := func(vertInd int) error {
		index, vertexExists := uniqueVertices[vertInd]
		if !vertexExists {
			if vertInd < 0 || vertInd*3+2 >= len(decoder.Vertices) {
				return errors.Newf("face references missing vertex %d", vertInd)
			}

			index = uint32(len(mesh.Positions))
			mesh.Positions = append(mesh.Positions, mgl32.Vec3{
				decoder.Vertices[vertInd*3],
				decoder.Vertices[vertInd*3+1],
				decoder.Vertices[vertInd*3+2],
			})
			uniqueVertices[vertInd] = index
		}

		mesh.Indices = append(mesh.Indices, index)
		return nil
	}

	for _, decodedObj := range decoder.Objects {
		for _, face := range decodedObj.Faces {
			for i := 2; i < len(face.Vertices); i++ {
				for _, corner := range []int{0, i - 1, i} {
					if err := addVertex(face.Vertices[corner]); err != nil {
						return Mesh{}, err
					}
				}
			}
		}
	}

	return mesh, mesh.Validate()
}
