package polymesh

import (
	"math"

	"github.com/pkg/errors"
	"github.com/unixpickle/essentials"
	"github.com/unixpickle/model3d/model3d"
)

// Kind classifies a face by its vertex count.
type Kind int

const (
	Triangle Kind = iota
	Quad
	NGon
)

func (k Kind) String() string {
	switch k {
	case Triangle:
		return "triangle"
	case Quad:
		return "quad"
	default:
		return "ngon"
	}
}

// An EdgeKey is an undirected edge, stored with the
// smaller vertex index first.
type EdgeKey [2]int

func NewEdgeKey(a, b int) EdgeKey {
	if a > b {
		a, b = b, a
	}
	return EdgeKey{a, b}
}

// A Face is an ordered loop of vertex indices.
type Face struct {
	Vertices []int
	Selected bool
}

func (f Face) Kind() Kind {
	switch len(f.Vertices) {
	case 3:
		return Triangle
	case 4:
		return Quad
	default:
		return NGon
	}
}

// EdgeKeys returns the undirected edges of the face loop,
// in loop order.
func (f Face) EdgeKeys() []EdgeKey {
	res := make([]EdgeKey, len(f.Vertices))
	for i, v := range f.Vertices {
		res[i] = NewEdgeKey(v, f.Vertices[(i+1)%len(f.Vertices)])
	}
	return res
}

// HasVertex checks if v is one of the face's corners.
func (f Face) HasVertex(v int) bool {
	for _, x := range f.Vertices {
		if x == v {
			return true
		}
	}
	return false
}

func (f Face) clone() Face {
	return Face{
		Vertices: append([]int{}, f.Vertices...),
		Selected: f.Selected,
	}
}

// A Mesh is a polygon mesh snapshot.
//
// Functions in this package never modify a Mesh in place;
// derived meshes are always new values.
type Mesh struct {
	Coords []model3d.Coord3D
	Faces  []Face
}

// NewMesh creates a mesh and checks that every face
// references distinct, valid vertices.
func NewMesh(coords []model3d.Coord3D, faces [][]int) (*Mesh, error) {
	m := &Mesh{Coords: append([]model3d.Coord3D{}, coords...)}
	for _, f := range faces {
		m.Faces = append(m.Faces, Face{Vertices: append([]int{}, f...)})
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Validate checks the face invariants of the mesh.
func (m *Mesh) Validate() error {
	for i, f := range m.Faces {
		if len(f.Vertices) < 3 {
			return errors.Errorf("face %d has %d vertices", i, len(f.Vertices))
		}
		seen := map[int]bool{}
		for _, v := range f.Vertices {
			if v < 0 || v >= len(m.Coords) {
				return errors.Errorf("face %d references missing vertex %d", i, v)
			}
			if seen[v] {
				return errors.Errorf("face %d repeats vertex %d", i, v)
			}
			seen[v] = true
		}
	}
	return nil
}

// Clone creates a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	res := &Mesh{
		Coords: append([]model3d.Coord3D{}, m.Coords...),
		Faces:  make([]Face, len(m.Faces)),
	}
	for i, f := range m.Faces {
		res.Faces[i] = f.clone()
	}
	return res
}

// WithCoords creates a copy of the mesh with new vertex
// positions and the same topology.
func (m *Mesh) WithCoords(coords []model3d.Coord3D) *Mesh {
	if len(coords) != len(m.Coords) {
		panic("mismatched vertex count")
	}
	res := m.Clone()
	copy(res.Coords, coords)
	return res
}

// WithSelection creates a copy of the mesh where exactly
// the given faces are selected.
func (m *Mesh) WithSelection(faces []int) *Mesh {
	res := m.Clone()
	for i := range res.Faces {
		res.Faces[i].Selected = false
	}
	for _, i := range faces {
		res.Faces[i].Selected = true
	}
	return res
}

// SelectedFaces returns the indices of selected faces in
// ascending order.
func (m *Mesh) SelectedFaces() []int {
	var res []int
	for i, f := range m.Faces {
		if f.Selected {
			res = append(res, i)
		}
	}
	return res
}

// CountKind counts the faces of a given kind.
func (m *Mesh) CountKind(k Kind) int {
	var n int
	for _, f := range m.Faces {
		if f.Kind() == k {
			n++
		}
	}
	return n
}

// FaceNormal computes the unit normal of a face.
//
// Polygons use Newell's method so that slightly non-planar
// faces still get a stable normal. Degenerate faces yield
// the zero vector.
func (m *Mesh) FaceNormal(i int) model3d.Coord3D {
	vs := m.Faces[i].Vertices
	if len(vs) == 3 {
		t := model3d.Triangle{m.Coords[vs[0]], m.Coords[vs[1]], m.Coords[vs[2]]}
		if t.Area() == 0 {
			return model3d.Coord3D{}
		}
		return t.Normal()
	}
	var n model3d.Coord3D
	for j, v := range vs {
		c := m.Coords[v]
		next := m.Coords[vs[(j+1)%len(vs)]]
		n.X += (c.Y - next.Y) * (c.Z + next.Z)
		n.Y += (c.Z - next.Z) * (c.X + next.X)
		n.Z += (c.X - next.X) * (c.Y + next.Y)
	}
	if norm := n.Norm(); norm != 0 {
		return n.Scale(1 / norm)
	}
	return n
}

// FaceNormals computes every face normal.
func (m *Mesh) FaceNormals() []model3d.Coord3D {
	res := make([]model3d.Coord3D, len(m.Faces))
	essentials.ConcurrentMap(0, len(m.Faces), func(i int) {
		res[i] = m.FaceNormal(i)
	})
	return res
}

// Angle computes the unsigned angle between two vectors,
// in radians. Zero vectors are treated as parallel to
// everything.
func Angle(a, b model3d.Coord3D) float64 {
	return math.Atan2(a.Cross(b).Norm(), a.Dot(b))
}

// TriangleMesh converts the mesh to a triangle mesh by
// fanning every face from its first vertex.
func (m *Mesh) TriangleMesh() *model3d.Mesh {
	res := model3d.NewMesh()
	for _, f := range m.Faces {
		vs := f.Vertices
		for i := 1; i+1 < len(vs); i++ {
			res.Add(&model3d.Triangle{
				m.Coords[vs[0]],
				m.Coords[vs[i]],
				m.Coords[vs[i+1]],
			})
		}
	}
	return res
}
