package smoothtri

import (
	"math"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/unixpickle/model3d/model3d"
	"github.com/unixpickle/smooth-tri/polymesh"
	"github.com/unixpickle/smooth-tri/scene"
)

func TestRunNoSelection(t *testing.T) {
	d, h := testEditDocument(testGrid(1, 1, flatHeight), nil)
	res, err := Run(d, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if !res.Cancelled || res.UntouchedNGons != 0 {
		t.Fatalf("expected a cancelled result but got %+v", res)
	}
	if len(d.Mesh(h).Faces) != 1 {
		t.Fatal("mesh should be unchanged")
	}
}

func TestRunNoEditObjects(t *testing.T) {
	d := scene.NewDocument()
	h := d.AddObject("Plane", testGrid(1, 1, flatHeight).WithSelection([]int{0}))
	d.SetActive(h)
	res, err := Run(d, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if !res.Cancelled {
		t.Fatal("objects outside of edit mode should be ignored")
	}
}

func TestRunCube(t *testing.T) {
	d, h := testEditDocument(testCube(), []int{1})
	res, err := Run(d, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if res.Cancelled || res.Objects != 1 || res.Quads != 1 || res.UntouchedNGons != 0 {
		t.Fatalf("unexpected result %+v", res)
	}
	if !strings.HasPrefix(res.String(), "Smooth Quad Triangulation completed in ") {
		t.Fatalf("unexpected report %q", res.String())
	}

	m := d.Mesh(h)
	if len(m.Faces) != 7 || m.CountKind(polymesh.Quad) != 5 ||
		m.CountKind(polymesh.Triangle) != 2 {
		t.Fatalf("expected 5 quads and 2 triangles but got %d faces", len(m.Faces))
	}
	if len(d.Objects()) != 1 {
		t.Fatalf("temporary objects were left behind: %v", d.Objects())
	}
	if d.Mode() != scene.EditMode || !d.InEditMode(h) || d.Active() != h {
		t.Fatal("the object should be back in edit mode")
	}
}

func TestRunPentagon(t *testing.T) {
	d, h := testEditDocument(testPentagonMesh(), []int{0})
	res, err := Run(d, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if !res.Cancelled || res.UntouchedNGons != 1 {
		t.Fatalf("expected a cancelled result with one n-gon but got %+v", res)
	}
	if !strings.Contains(res.String(), "There is 1 N-gon left untouched.") {
		t.Fatalf("unexpected report %q", res.String())
	}
	if m := d.Mesh(h); len(m.Faces) != 2 || len(m.Faces[0].Vertices) != 5 {
		t.Fatal("mesh should be unchanged")
	}
}

func TestRunDoublet(t *testing.T) {
	d, h := testEditDocument(testDoubletMesh([]int{0, 1, 2, 3}), []int{0, 1, 2})
	res, err := Run(d, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if res.Quads != 2 {
		t.Fatalf("expected 2 triangulated quads but got %+v", res)
	}
	m := d.Mesh(h)
	if len(m.Faces) != 5 || m.CountKind(polymesh.Triangle) != 5 {
		t.Fatalf("expected 5 triangles but got %d faces", len(m.Faces))
	}
	if !hasEdge(m.Faces[0].Vertices, 1, 3) {
		t.Fatalf("doublet should split along 1-3 but got %v", m.Faces[0].Vertices)
	}
}

func TestRunMatchesPlanMesh(t *testing.T) {
	m := testGrid(4, 3, func(x, y float64) float64 {
		return 0.3*math.Cos(x+0.5*y) - 0.2*y*y
	})
	selected := []int{0, 1, 2, 5, 6, 9, 10, 11}
	m = m.WithSelection(selected)

	_, plan, err := PlanMesh(m, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	expected := plan.ApplyMesh(m)

	d, h := testEditDocument(m, selected)
	res, err := Run(d, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if res.Quads != len(selected) {
		t.Fatalf("expected %d quads but got %d", len(selected), res.Quads)
	}
	actual := d.Mesh(h)
	if len(actual.Faces) != len(m.Faces)+len(selected) {
		t.Fatalf("unexpected face count %d", len(actual.Faces))
	}
	for i, f := range expected.Faces {
		if !sameInts(f.Vertices, actual.Faces[i].Vertices) {
			t.Fatalf("face %d: expected %v but got %v", i, f.Vertices, actual.Faces[i].Vertices)
		}
	}
}

func TestRunRestoresModifiers(t *testing.T) {
	for _, pose := range []bool{true, false} {
		m := testGrid(2, 2, func(x, y float64) float64 { return 0.2 * x * y })
		d, h := testEditDocument(m, []int{0, 3})
		d.AddModifier(h, scene.Modifier{
			Name:         "Armature",
			Kind:         scene.Armature,
			ShowViewport: true,
			Deform:       &model3d.Translate{Offset: model3d.Z(1)},
		})
		d.AddModifier(h, scene.Modifier{Name: "Mirror", Kind: scene.Generic})
		d.AddShapeKey(h, "Basis", nil, 0)
		raised := append([]model3d.Coord3D{}, m.Coords...)
		raised[4] = raised[4].Add(model3d.Z(0.5))
		d.AddShapeKey(h, "Raise", raised, 1)

		opts := DefaultOptions()
		opts.UsePoseShapeKeys = pose
		res, err := Run(d, opts)
		if err != nil {
			t.Fatal(err)
		}
		if res.Quads != 2 {
			t.Fatalf("pose=%v: expected 2 quads but got %+v", pose, res)
		}
		mods := d.Modifiers(h)
		if len(mods) != 2 || !mods[0].ShowViewport || mods[1].ShowViewport {
			t.Fatalf("pose=%v: modifiers not restored: %+v", pose, mods)
		}
		if !d.HasShapeKeys(h) {
			t.Fatalf("pose=%v: shape keys of the original should survive", pose)
		}
		if len(d.Objects()) != 1 {
			t.Fatalf("pose=%v: temporary objects were left behind", pose)
		}
		if n := len(d.Mesh(h).Faces); n != 6 {
			t.Fatalf("pose=%v: expected 6 faces but got %d", pose, n)
		}
	}
}

func TestRunHostFailure(t *testing.T) {
	d, h := testEditDocument(testCube(), []int{1})
	_, err := Run(&failingHost{Document: d}, DefaultOptions())
	var hostErr *HostOperationError
	if !errors.As(err, &hostErr) || hostErr.Op != "object.modifier_apply" ||
		hostErr.Status != "CANCELLED" {
		t.Fatalf("expected a host operation error but got %v", err)
	}
	if len(d.Objects()) != 1 {
		t.Fatalf("temporary objects were left behind: %v", d.Objects())
	}
	if len(d.Mesh(h).Faces) != 6 {
		t.Fatal("mesh should be unchanged")
	}
}

func TestRunDuplicateFailure(t *testing.T) {
	d, h := testEditDocument(testCube(), []int{1})
	_, err := Run(&aliasingHost{Document: d}, DefaultOptions())
	var resErr *ResourceError
	if !errors.As(err, &resErr) {
		t.Fatalf("expected a resource error but got %v", err)
	}
	if len(d.Objects()) != 1 || len(d.Mesh(h).Faces) != 6 {
		t.Fatal("document should be unchanged")
	}
}

func TestRunTopologyFailure(t *testing.T) {
	d, _ := testEditDocument(testCube(), []int{1})
	d.Rename(d.Active(), "Cube")
	_, err := Run(&droppingHost{Document: d}, DefaultOptions())
	var topoErr *TopologyError
	if !errors.As(err, &topoErr) || topoErr.Object != "Cube" {
		t.Fatalf("expected a topology error naming the cube but got %v", err)
	}
	if !strings.Contains(err.Error(), "'Cube'") {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if len(d.Objects()) != 1 {
		t.Fatalf("temporary objects were left behind: %v", d.Objects())
	}
}

// failingHost cannot apply modifiers.
type failingHost struct {
	*scene.Document
}

func (f *failingHost) ApplyModifier(name string) error {
	return &scene.StatusError{
		Op:     "object.modifier_apply",
		Status: scene.Cancelled,
		Reason: "disabled",
	}
}

// aliasingHost returns the source object instead of a copy.
type aliasingHost struct {
	*scene.Document
}

func (a *aliasingHost) Duplicate() (scene.Handle, error) {
	return a.Active(), nil
}

// droppingHost ignores triangulation requests.
type droppingHost struct {
	*scene.Document
}

func (d *droppingHost) TriangulateSelected(rule polymesh.Rule) error {
	return nil
}

func testEditDocument(m *polymesh.Mesh, selected []int) (*scene.Document, scene.Handle) {
	d := scene.NewDocument()
	h := d.AddObject("Mesh", m.WithSelection(selected))
	d.Select(h, true)
	d.SetActive(h)
	if err := d.SetMode(scene.EditMode); err != nil {
		panic(err)
	}
	return d, h
}

func testCube() *polymesh.Mesh {
	var coords []model3d.Coord3D
	for i := 0; i < 8; i++ {
		coords = append(coords, model3d.XYZ(
			float64((i&1)*2-1),
			float64(((i>>1)&1)*2-1),
			float64(((i>>2)&1)*2-1),
		))
	}
	m, err := polymesh.NewMesh(coords, [][]int{
		{0, 2, 3, 1},
		{4, 5, 7, 6},
		{0, 1, 5, 4},
		{2, 6, 7, 3},
		{0, 4, 6, 2},
		{1, 3, 7, 5},
	})
	if err != nil {
		panic(err)
	}
	return m
}

func flatHeight(x, y float64) float64 {
	return 0
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
