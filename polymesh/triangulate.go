package polymesh

import (
	"math"

	"github.com/unixpickle/model3d/model3d"
	"golang.org/x/exp/slices"
)

// A Rule decides how a quad is split into two triangles.
type Rule int

const (
	// Fixed splits quad (0, 1, 2, 3) along 0-2, into
	// (0, 1, 2) and (0, 2, 3).
	Fixed Rule = iota

	// Alternate splits quad (0, 1, 2, 3) along 1-3, into
	// (0, 1, 3) and (1, 2, 3).
	Alternate

	// Beauty picks whichever of the two splits produces
	// better shaped triangles.
	Beauty
)

func (r Rule) String() string {
	switch r {
	case Fixed:
		return "FIXED"
	case Alternate:
		return "FIXED_ALTERNATE"
	case Beauty:
		return "BEAUTY"
	}
	return "UNKNOWN"
}

// UniquePair returns the two corners of quad that are not on
// the rule's diagonal, i.e. the corners that end up in only
// one of the two triangles.
func (r Rule) UniquePair(quad []int) [2]int {
	switch r {
	case Fixed:
		return [2]int{quad[1], quad[3]}
	case Alternate:
		return [2]int{quad[0], quad[2]}
	}
	panic("rule has no fixed diagonal: " + r.String())
}

// Split returns the two triangles for a quad. Beauty must
// be resolved with Resolve first.
func (r Rule) Split(quad []int) (first, second []int) {
	switch r {
	case Fixed:
		return []int{quad[0], quad[1], quad[2]}, []int{quad[0], quad[2], quad[3]}
	case Alternate:
		return []int{quad[0], quad[1], quad[3]}, []int{quad[1], quad[2], quad[3]}
	}
	panic("rule has no fixed diagonal: " + r.String())
}

// Resolve turns Beauty into a concrete rule for a given
// quad by maximizing the smallest corner angle of the two
// resulting triangles. Ties resolve to Fixed.
func (r Rule) Resolve(coords []model3d.Coord3D, quad []int) Rule {
	if r != Beauty {
		return r
	}
	if splitQuality(coords, Alternate, quad) > splitQuality(coords, Fixed, quad) {
		return Alternate
	}
	return Fixed
}

func splitQuality(coords []model3d.Coord3D, r Rule, quad []int) float64 {
	t1, t2 := r.Split(quad)
	return math.Min(minCornerAngle(coords, t1), minCornerAngle(coords, t2))
}

func minCornerAngle(coords []model3d.Coord3D, tri []int) float64 {
	res := math.Inf(1)
	for i := 0; i < 3; i++ {
		p := coords[tri[i]]
		a := coords[tri[(i+1)%3]].Sub(p)
		b := coords[tri[(i+2)%3]].Sub(p)
		if a.Norm() == 0 || b.Norm() == 0 {
			return 0
		}
		res = math.Min(res, Angle(a, b))
	}
	return res
}

// Triangulate splits the listed quads of m using a rule.
//
// The first triangle of quad i keeps index i, and the second
// triangles are appended after the existing faces in
// ascending order of quad index. Listed faces that are not
// quads are left alone.
func Triangulate(m *Mesh, r Rule, faces []int) *Mesh {
	faces = slices.Clone(faces)
	slices.Sort(faces)
	faces = slices.Compact(faces)

	res := m.Clone()
	for _, i := range faces {
		f := res.Faces[i]
		if f.Kind() != Quad {
			continue
		}
		first, second := r.Resolve(m.Coords, f.Vertices).Split(f.Vertices)
		res.Faces[i].Vertices = first
		res.Faces = append(res.Faces, Face{Vertices: second, Selected: f.Selected})
	}
	return res
}
