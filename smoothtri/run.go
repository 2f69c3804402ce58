package smoothtri

import (
	"fmt"
	"log"
	"time"

	"github.com/unixpickle/smooth-tri/polymesh"
	"github.com/unixpickle/smooth-tri/scene"
)

// Result summarizes a triangulation run.
type Result struct {
	// Cancelled is set when there was nothing to triangulate.
	Cancelled bool

	// Objects is the number of objects that were modified.
	Objects int

	// Quads is the number of quads that were triangulated.
	Quads int

	// UntouchedNGons counts selected n-gons, which are never
	// triangulated.
	UntouchedNGons int

	Elapsed time.Duration
}

func (r *Result) String() string {
	var msg string
	if r.Cancelled {
		msg = "Nothing to triangulate."
	} else {
		msg = fmt.Sprintf("Smooth Quad Triangulation completed in %.2f seconds.",
			r.Elapsed.Seconds())
	}
	if r.UntouchedNGons == 1 {
		msg += " There is 1 N-gon left untouched."
	} else if r.UntouchedNGons > 1 {
		msg += fmt.Sprintf(" There are %d N-gons left untouched.", r.UntouchedNGons)
	}
	return msg
}

// Run triangulates the selected quads of every visible object
// in edit mode.
//
// Objects are processed one at a time. The first error aborts
// the run; objects processed before it keep their changes.
func Run(host Host, opts *Options) (*Result, error) {
	start := time.Now()
	s := &MeshSession{Host: host, Options: opts}

	initialActive := host.Active()
	var initialSelected, targets []scene.Handle
	for _, h := range host.Objects() {
		if host.Selected(h) {
			initialSelected = append(initialSelected, h)
		}
		if host.InEditMode(h) && host.Visible(h) {
			targets = append(targets, h)
		}
	}
	if len(targets) == 0 {
		return &Result{Cancelled: true, Elapsed: time.Since(start)}, nil
	}

	res := &Result{}
	for _, h := range targets {
		quads, err := s.triangulateObject(h, res)
		if err != nil {
			return nil, err
		}
		if quads > 0 {
			res.Objects++
			res.Quads += quads
		}
	}
	if res.Objects == 0 {
		res.Cancelled = true
		res.Elapsed = time.Since(start)
		return res, nil
	}

	if err := s.restoreEditSession(targets, initialActive, initialSelected); err != nil {
		return nil, err
	}
	res.Elapsed = time.Since(start)
	return res, nil
}

// triangulateObject returns the number of quads it split.
func (s *MeshSession) triangulateObject(h scene.Handle, res *Result) (int, error) {
	name := s.Host.Name(h)
	if err := ensureOp("object.update_from_editmode", s.Host.UpdateFromEditMode(h)); err != nil {
		return 0, err
	}
	mesh := s.Host.Mesh(h)

	topo, err := AnalyzeTopology(mesh, mesh.SelectedFaces())
	if err != nil {
		return 0, withObject(err, name)
	}
	res.UntouchedNGons += topo.NGonCount
	if len(topo.SelectedQuads) == 0 {
		return 0, nil
	}
	if s.Options.Verbose {
		log.Printf("%s: %d selected quads (%d doublets), %d n-gons", name,
			len(topo.SelectedQuads), len(topo.Doublets), topo.NGonCount)
	}

	ref, err := s.buildReference(h, topo)
	if err != nil {
		return 0, withObject(err, name)
	}
	plan, err := NewPlan(topo, ref, s.Options)
	if err != nil {
		return 0, withObject(err, name)
	}
	if s.Options.Verbose {
		log.Printf("%s: fixed=%d alternate=%d beauty=%d", name, len(plan.Fixed),
			len(plan.Alternate), len(plan.Beauty))
	}
	if err := s.apply(h, plan); err != nil {
		return 0, err
	}
	return plan.Len(), nil
}

// restoreEditSession puts the targets back into edit mode and
// restores the initial object selection.
func (s *MeshSession) restoreEditSession(targets []scene.Handle, active scene.Handle,
	selected []scene.Handle) error {
	if err := s.setMode(scene.ObjectMode); err != nil {
		return err
	}
	for _, o := range s.Host.Objects() {
		isTarget := false
		for _, t := range targets {
			isTarget = isTarget || t == o
		}
		if err := ensureOp("object.select_set", s.Host.Select(o, isTarget)); err != nil {
			return err
		}
	}
	if !s.Host.Visible(active) {
		active = targets[0]
	}
	if err := ensureOp("view_layer.objects.active", s.Host.SetActive(active)); err != nil {
		return err
	}
	if err := s.setMode(scene.EditMode); err != nil {
		return err
	}
	for _, o := range s.Host.Objects() {
		wasSelected := false
		for _, x := range selected {
			wasSelected = wasSelected || x == o
		}
		if err := ensureOp("object.select_set", s.Host.Select(o, wasSelected)); err != nil {
			return err
		}
	}
	return nil
}

// PlanMesh decides the triangulation of the selected quads of
// a mesh snapshot without a host, analyzing the mesh as given.
func PlanMesh(m *polymesh.Mesh, opts *Options) (*Topology, *Plan, error) {
	topo, err := AnalyzeTopology(m, m.SelectedFaces())
	if err != nil {
		return nil, nil, err
	}
	if len(topo.SelectedQuads) == 0 {
		return topo, &Plan{}, nil
	}
	ref, err := BuildReference(m, topo.ViableQuads)
	if err != nil {
		return nil, nil, err
	}
	plan, err := NewPlan(topo, ref, opts)
	if err != nil {
		return nil, nil, err
	}
	return topo, plan, nil
}
