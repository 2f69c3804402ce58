package smoothtri

import (
	"github.com/unixpickle/model3d/model3d"
	"github.com/unixpickle/smooth-tri/polymesh"
)

// A Reference holds the derived meshes used to judge the
// diagonals of a set of quads, along with the index maps
// tying them back to the original mesh.
type Reference struct {
	Original   *polymesh.Mesh
	Subdivided *polymesh.Mesh
	TriFixed   *polymesh.Mesh
	TriAlter   *polymesh.Mesh

	// SplitFaceIndex maps a viable quad to the index of its
	// second triangle in TriFixed and TriAlter.
	SplitFaceIndex map[int]int

	childStart  []int
	vertexFaces [][]int

	subNormals   []model3d.Coord3D
	fixedNormals []model3d.Coord3D
	alterNormals []model3d.Coord3D
}

// BuildReference derives the reference meshes for viable
// quads directly, without a host.
func BuildReference(original *polymesh.Mesh, viable []int) (*Reference, error) {
	return NewReference(
		original,
		polymesh.Subdivide(original),
		polymesh.Triangulate(original, polymesh.Fixed, viable),
		polymesh.Triangulate(original, polymesh.Alternate, viable),
		viable,
	)
}

// NewReference checks derived meshes against the original and
// builds the index maps between them.
//
// The subdivided mesh must come from one level of subdivision
// of original, and the triangulated meshes must come from
// splitting exactly the viable quads.
func NewReference(original, subdivided, triFixed, triAlter *polymesh.Mesh,
	viable []int) (*Reference, error) {
	faceCount := len(original.Faces)
	expected := faceCount + len(viable)
	if len(triFixed.Faces) != expected || len(triAlter.Faces) != expected {
		return nil, topologyErrorf("appears to have irregular topology")
	}

	res := &Reference{
		Original:       original,
		Subdivided:     subdivided,
		TriFixed:       triFixed,
		TriAlter:       triAlter,
		SplitFaceIndex: make(map[int]int, len(viable)),
		childStart:     make([]int, faceCount+1),
		vertexFaces:    make([][]int, len(original.Coords)),
	}
	for j, i := range viable {
		res.SplitFaceIndex[i] = faceCount + j
	}

	for i, f := range original.Faces {
		res.childStart[i+1] = res.childStart[i] + len(f.Vertices)
	}
	if res.childStart[faceCount] != len(subdivided.Faces) {
		return nil, topologyErrorf("appears to have irregular topology")
	}

	for i, f := range subdivided.Faces {
		for _, v := range f.Vertices {
			if v < len(original.Coords) {
				res.vertexFaces[v] = append(res.vertexFaces[v], i)
			}
		}
	}

	res.subNormals = subdivided.FaceNormals()
	res.fixedNormals = triFixed.FaceNormals()
	res.alterNormals = triAlter.FaceNormals()
	return res, nil
}

// ChildFaces returns the subdivided faces descended from an
// original face.
func (r *Reference) ChildFaces(face int) []int {
	res := make([]int, 0, r.childStart[face+1]-r.childStart[face])
	for i := r.childStart[face]; i < r.childStart[face+1]; i++ {
		res = append(res, i)
	}
	return res
}

func (r *Reference) isChild(face, sub int) bool {
	return sub >= r.childStart[face] && sub < r.childStart[face+1]
}

// VertexFaces returns the subdivided faces touching an
// original vertex.
func (r *Reference) VertexFaces(v int) []int {
	return r.vertexFaces[v]
}
