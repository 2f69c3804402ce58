package polymesh

import (
	"testing"

	"github.com/unixpickle/model3d/model3d"
)

func TestSubdivideLayout(t *testing.T) {
	m := testGrid(2, 2)
	sub := Subdivide(m)

	// 9 vertices, 12 edges, 4 faces.
	if len(sub.Coords) != 9+12+4 {
		t.Fatalf("unexpected vertex count %d", len(sub.Coords))
	}
	if len(sub.Faces) != 16 {
		t.Fatalf("unexpected face count %d", len(sub.Faces))
	}
	for fi, f := range m.Faces {
		for k, v := range f.Vertices {
			child := sub.Faces[fi*4+k]
			if child.Vertices[0] != v {
				t.Fatalf("face %d child %d should start at %d: %v", fi, k, v, child.Vertices)
			}
			for _, cv := range child.Vertices[1:] {
				if cv < len(m.Coords) {
					t.Fatalf("face %d child %d contains extra original vertex %d", fi, k, cv)
				}
			}
			if n := sub.FaceNormal(fi*4 + k); n.Dist(model3d.Z(1)) > 1e-8 {
				t.Fatalf("child normal should stay +Z but got %v", n)
			}
		}
	}
	if err := sub.Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestSubdivideBoundary(t *testing.T) {
	m := testGrid(2, 1)
	m.Coords[2] = model3d.XYZ(2, 0, 1)
	sub := Subdivide(m)

	// Corners touch one face and stay put.
	for _, corner := range []int{0, 2, 3, 5} {
		if sub.Coords[corner] != m.Coords[corner] {
			t.Errorf("corner %d moved from %v to %v", corner, m.Coords[corner], sub.Coords[corner])
		}
	}

	// Vertex 1 is a smooth boundary vertex between 0 and 2.
	expected := model3d.XYZ(1, 0, 0.125)
	if sub.Coords[1].Dist(expected) > 1e-8 {
		t.Errorf("expected %v but got %v", expected, sub.Coords[1])
	}
}

func TestSubdivideCube(t *testing.T) {
	m := testCube()
	sub := Subdivide(m)
	if len(sub.Coords) != 8+12+6 || len(sub.Faces) != 24 {
		t.Fatalf("unexpected size: %d coords, %d faces", len(sub.Coords), len(sub.Faces))
	}
	for i, c := range sub.Coords[:8] {
		expected := m.Coords[i].Scale(5.0 / 9)
		if c.Dist(expected) > 1e-8 {
			t.Errorf("vertex %d: expected %v but got %v", i, expected, c)
		}
	}
	for i, c := range sub.Coords[8:20] {
		if d := c.Norm(); d < 1 || d > 1.2 {
			t.Errorf("edge point %d: unexpected distance %f", i, d)
		}
	}
	for i, c := range sub.Coords[20:] {
		if d := c.Norm(); d != 1 {
			t.Errorf("face point %d: unexpected distance %f", i, d)
		}
	}
}

func TestTriangulateRules(t *testing.T) {
	m := testGrid(2, 1)
	for _, rule := range []Rule{Fixed, Alternate} {
		tri := Triangulate(m, rule, []int{1, 0})
		if len(tri.Faces) != 4 {
			t.Fatalf("%s: expected 4 faces but got %d", rule, len(tri.Faces))
		}
		for i, quad := range m.Faces {
			first, second := rule.Split(quad.Vertices)
			if !sameInts(tri.Faces[i].Vertices, first) {
				t.Errorf("%s: face %d should be %v but got %v", rule, i, first, tri.Faces[i].Vertices)
			}
			if !sameInts(tri.Faces[2+i].Vertices, second) {
				t.Errorf("%s: face %d should be %v but got %v", rule, 2+i, second,
					tri.Faces[2+i].Vertices)
			}
			if n1, n2 := tri.FaceNormal(i), tri.FaceNormal(2+i); n1.Dist(n2) > 1e-8 {
				t.Errorf("%s: flipped triangle normals %v %v", rule, n1, n2)
			}
			pair := rule.UniquePair(quad.Vertices)
			if !tri.Faces[i].HasVertex(pair[0]) || tri.Faces[i].HasVertex(pair[1]) {
				t.Errorf("%s: first triangle should own only %d", rule, pair[0])
			}
			if !tri.Faces[2+i].HasVertex(pair[1]) || tri.Faces[2+i].HasVertex(pair[0]) {
				t.Errorf("%s: second triangle should own only %d", rule, pair[1])
			}
		}
	}

	// The input is never modified.
	if len(m.Faces) != 2 || len(m.Faces[0].Vertices) != 4 {
		t.Fatal("input mesh was modified")
	}
}

func TestTriangulateSkipsNonQuads(t *testing.T) {
	m, err := NewMesh(
		[]model3d.Coord3D{
			model3d.XYZ(0, 0, 0), model3d.XYZ(1, 0, 0), model3d.XYZ(1, 1, 0),
			model3d.XYZ(0.5, 1.5, 0), model3d.XYZ(0, 1, 0),
		},
		[][]int{{0, 1, 2, 3, 4}, {0, 1, 2}},
	)
	if err != nil {
		t.Fatal(err)
	}
	tri := Triangulate(m, Fixed, []int{0, 1})
	if len(tri.Faces) != 2 {
		t.Fatalf("expected 2 faces but got %d", len(tri.Faces))
	}
}

func TestBeautyResolve(t *testing.T) {
	coords := []model3d.Coord3D{
		model3d.XYZ(-2, 0, 0),
		model3d.XYZ(0, -1, 0),
		model3d.XYZ(2, 0, 0),
		model3d.XYZ(0, 1, 0),
	}
	if r := Beauty.Resolve(coords, []int{0, 1, 2, 3}); r != Alternate {
		t.Errorf("long diamond should split on short diagonal but got %s", r)
	}
	if r := Beauty.Resolve(coords, []int{1, 2, 3, 0}); r != Fixed {
		t.Errorf("rotated diamond should split on short diagonal but got %s", r)
	}

	square := []model3d.Coord3D{
		model3d.XYZ(0, 0, 0),
		model3d.XYZ(1, 0, 0),
		model3d.XYZ(1, 1, 0),
		model3d.XYZ(0, 1, 0),
	}
	if r := Beauty.Resolve(square, []int{0, 1, 2, 3}); r != Fixed {
		t.Errorf("square tie should resolve to fixed but got %s", r)
	}
	if r := Alternate.Resolve(square, []int{0, 1, 2, 3}); r != Alternate {
		t.Errorf("concrete rules should resolve to themselves, got %s", r)
	}
}

func testCube() *Mesh {
	var coords []model3d.Coord3D
	for i := 0; i < 8; i++ {
		coords = append(coords, model3d.XYZ(
			float64((i&1)*2-1),
			float64(((i>>1)&1)*2-1),
			float64(((i>>2)&1)*2-1),
		))
	}
	m, err := NewMesh(coords, [][]int{
		{0, 2, 3, 1}, // -Z
		{4, 5, 7, 6}, // +Z
		{0, 1, 5, 4}, // -Y
		{2, 6, 7, 3}, // +Y
		{0, 4, 6, 2}, // -X
		{1, 3, 7, 5}, // +X
	})
	if err != nil {
		panic(err)
	}
	return m
}

func sameInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i, x := range a {
		if b[i] != x {
			return false
		}
	}
	return true
}
