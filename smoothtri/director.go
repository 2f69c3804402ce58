package smoothtri

import (
	"log"

	"github.com/unixpickle/smooth-tri/polymesh"
	"github.com/unixpickle/smooth-tri/scene"
)

// A Plan assigns a rule to every selected quad of a mesh.
type Plan struct {
	Fixed     []int
	Alternate []int
	Beauty    []int

	// Comparisons holds the scores of every viable quad, in
	// ascending quad order.
	Comparisons []*Comparison
}

// A Batch is a group of quads triangulated with one rule.
type Batch struct {
	Rule  polymesh.Rule
	Quads []int
}

// NewPlan compares every viable quad and adds the doublets.
func NewPlan(topo *Topology, ref *Reference, opts *Options) (*Plan, error) {
	res := &Plan{}
	for _, quad := range topo.ViableQuads {
		c, err := ref.Compare(quad, opts)
		if err != nil {
			return nil, err
		}
		res.Comparisons = append(res.Comparisons, c)
		res.add(quad, c.Verdict)
	}
	res.addDoublets(topo, ref.Original)
	return res, nil
}

// DoubletVerdict picks the diagonal that passes through the
// unshared corner of a doublet quad, so that neither triangle
// coincides with the neighboring face.
func DoubletVerdict(quad []int, unique int) polymesh.Rule {
	pair := polymesh.Alternate.UniquePair(quad)
	if unique == pair[0] || unique == pair[1] {
		return polymesh.Fixed
	}
	return polymesh.Alternate
}

func (p *Plan) addDoublets(topo *Topology, m *polymesh.Mesh) {
	for _, quad := range topo.DoubletQuads() {
		p.add(quad, DoubletVerdict(m.Faces[quad].Vertices, topo.Doublets[quad]))
	}
}

func (p *Plan) add(quad int, rule polymesh.Rule) {
	switch rule {
	case polymesh.Fixed:
		p.Fixed = append(p.Fixed, quad)
	case polymesh.Alternate:
		p.Alternate = append(p.Alternate, quad)
	default:
		p.Beauty = append(p.Beauty, quad)
	}
}

// Len returns the number of quads in the plan.
func (p *Plan) Len() int {
	return len(p.Fixed) + len(p.Alternate) + len(p.Beauty)
}

// Batches lists the triangulation steps in the order they are
// performed. The beauty step is omitted when it is empty.
func (p *Plan) Batches() []Batch {
	res := []Batch{
		{Rule: polymesh.Fixed, Quads: p.Fixed},
		{Rule: polymesh.Alternate, Quads: p.Alternate},
	}
	if len(p.Beauty) > 0 {
		res = append(res, Batch{Rule: polymesh.Beauty, Quads: p.Beauty})
	}
	return res
}

// ApplyMesh performs the plan on a mesh snapshot.
func (p *Plan) ApplyMesh(m *polymesh.Mesh) *polymesh.Mesh {
	for _, b := range p.Batches() {
		m = polymesh.Triangulate(m, b.Rule, b.Quads)
	}
	return m.WithSelection(nil)
}

// apply performs the plan on a host object. The object's
// modifiers are hidden while it is edited.
func (s *MeshSession) apply(h scene.Handle, p *Plan) (err error) {
	restore, err := s.hideModifiers(h)
	if err != nil {
		return err
	}
	defer func() {
		if restoreErr := restore(); err == nil {
			err = restoreErr
		}
	}()

	err = s.Edit(h, func() error {
		return ensureOp("mesh.select_all", s.Host.DeselectAll())
	})
	if err != nil {
		return err
	}
	for _, b := range p.Batches() {
		if s.Options.Verbose {
			log.Printf("%s: triangulating %d quads with %s", s.Host.Name(h), len(b.Quads), b.Rule)
		}
		if err := ensureOp("mesh.polygons.select", s.Host.SetFaceSelection(h, b.Quads)); err != nil {
			return err
		}
		err := s.Edit(h, func() error {
			if err := ensureOp("mesh.quads_convert_to_tris", s.Host.TriangulateSelected(b.Rule)); err != nil {
				return err
			}
			return ensureOp("mesh.select_all", s.Host.DeselectAll())
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *MeshSession) hideModifiers(h scene.Handle) (restore func() error, err error) {
	mods := s.Host.Modifiers(h)
	setAll := func(show func(i int) bool) error {
		for i := range mods {
			if err := ensureOp("object.modifiers.show_viewport",
				s.Host.SetModifierVisibility(h, i, show(i))); err != nil {
				return err
			}
		}
		return nil
	}
	restore = func() error {
		return setAll(func(i int) bool { return mods[i].ShowViewport })
	}
	if err := setAll(func(int) bool { return false }); err != nil {
		restore()
		return nil, err
	}
	return restore, nil
}
