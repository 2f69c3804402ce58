package polymesh

import (
	"math"
	"strings"
	"testing"

	"github.com/unixpickle/model3d/model3d"
)

func TestFaceNormal(t *testing.T) {
	m, err := NewMesh(
		[]model3d.Coord3D{
			model3d.XYZ(0, 0, 0),
			model3d.XYZ(2, 0, 0),
			model3d.XYZ(2, 1, 0),
			model3d.XYZ(0, 1, 0),
			model3d.XYZ(1, 0.5, 3),
		},
		[][]int{{0, 1, 2, 3}, {0, 1, 4}, {3, 2, 1, 0}},
	)
	if err != nil {
		t.Fatal(err)
	}
	if n := m.FaceNormal(0); n.Dist(model3d.Z(1)) > 1e-8 {
		t.Fatalf("expected +Z but got %v", n)
	}
	if n := m.FaceNormal(2); n.Dist(model3d.Z(-1)) > 1e-8 {
		t.Fatalf("expected -Z but got %v", n)
	}
	normals := m.FaceNormals()
	for i, n := range normals {
		if math.Abs(n.Norm()-1) > 1e-8 {
			t.Errorf("face %d: normal %v is not unit length", i, n)
		}
		if n.Dist(m.FaceNormal(i)) != 0 {
			t.Errorf("face %d: mismatched normal", i)
		}
	}
}

func TestNewMeshValidation(t *testing.T) {
	coords := []model3d.Coord3D{model3d.X(0), model3d.X(1), model3d.Y(1)}
	for _, faces := range [][][]int{
		{{0, 1}},
		{{0, 1, 3}},
		{{0, 1, 1}},
		{{-1, 1, 2}},
	} {
		if _, err := NewMesh(coords, faces); err == nil {
			t.Errorf("expected error for faces %v", faces)
		}
	}
	if _, err := NewMesh(coords, [][]int{{0, 1, 2}}); err != nil {
		t.Fatal(err)
	}
}

func TestAngle(t *testing.T) {
	if a := Angle(model3d.X(1), model3d.X(3)); a != 0 {
		t.Errorf("parallel vectors gave angle %f", a)
	}
	if a := Angle(model3d.X(1), model3d.Y(2)); math.Abs(a-math.Pi/2) > 1e-12 {
		t.Errorf("expected pi/2 but got %f", a)
	}
	if a := Angle(model3d.X(1), model3d.X(-1)); math.Abs(a-math.Pi) > 1e-12 {
		t.Errorf("expected pi but got %f", a)
	}
}

func TestReadOBJ(t *testing.T) {
	data := `# a quad and a triangle
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vn 0 0 1
f 1//1 2//1 3//1 4//1
f -4 -3/7 -1
`
	m, err := ReadOBJ(strings.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Coords) != 4 || len(m.Faces) != 2 {
		t.Fatalf("unexpected sizes: %d coords, %d faces", len(m.Coords), len(m.Faces))
	}
	expected := [][]int{{0, 1, 2, 3}, {0, 1, 3}}
	for i, f := range m.Faces {
		for j, v := range f.Vertices {
			if v != expected[i][j] {
				t.Fatalf("face %d: expected %v but got %v", i, expected[i], f.Vertices)
			}
		}
	}

	var buf strings.Builder
	if err := WriteOBJ(&buf, m); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "f 1 2 4\n") {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}

	if _, err := ReadOBJ(strings.NewReader("v 0 0 0\nf 1 2 3\n")); err == nil {
		t.Fatal("expected error for missing vertices")
	}
}

func TestTriangleMesh(t *testing.T) {
	m := testGrid(2, 1)
	tris := m.TriangleMesh()
	if n := tris.NumTriangles(); n != 4 {
		t.Fatalf("expected 4 triangles but got %d", n)
	}
}

// testGrid creates a flat grid of w*h unit quads in the XY
// plane, facing +Z.
func testGrid(w, h int) *Mesh {
	var coords []model3d.Coord3D
	for y := 0; y <= h; y++ {
		for x := 0; x <= w; x++ {
			coords = append(coords, model3d.XYZ(float64(x), float64(y), 0))
		}
	}
	var faces [][]int
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*(w+1) + x
			faces = append(faces, []int{i, i + 1, i + w + 2, i + w + 1})
		}
	}
	m, err := NewMesh(coords, faces)
	if err != nil {
		panic(err)
	}
	return m
}
