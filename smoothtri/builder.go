package smoothtri

import (
	"github.com/unixpickle/smooth-tri/polymesh"
	"github.com/unixpickle/smooth-tri/scene"
)

// buildReference asks the host for the subdivided and
// triangulated copies of h, snapshots them, and removes the
// copies before returning.
func (s *MeshSession) buildReference(h scene.Handle, topo *Topology) (ref *Reference,
	err error) {
	temps := &tempObjects{session: s, source: h}
	defer func() {
		if releaseErr := temps.release(); err == nil && releaseErr != nil {
			ref, err = nil, releaseErr
		}
	}()

	if err := s.setMode(scene.ObjectMode); err != nil {
		return nil, err
	}
	if err := s.SelectOnly(h); err != nil {
		return nil, err
	}
	subsurfed, err := temps.duplicate()
	if err != nil {
		return nil, err
	}
	if err := s.prepareReferenceShape(subsurfed); err != nil {
		return nil, err
	}
	triFixed, err := temps.duplicate()
	if err != nil {
		return nil, err
	}
	triAlter, err := temps.duplicate()
	if err != nil {
		return nil, err
	}
	for _, t := range []scene.Handle{subsurfed, triFixed, triAlter} {
		name := s.Options.TempPrefix + s.Host.Name(t)
		if err := ensureOp("object.rename", s.Host.Rename(t, name)); err != nil {
			return nil, err
		}
	}

	if err := s.SelectOnly(subsurfed); err != nil {
		return nil, err
	}
	name, err := s.Host.AddModifier(subsurfed, scene.Modifier{
		Name:            s.Options.TempPrefix + "Subdivision",
		Kind:            scene.Subdivision,
		BoundarySmooth:  scene.PreserveCorners,
		UseLimitSurface: false,
	})
	if err := ensureOp("object.modifiers.new", err); err != nil {
		return nil, err
	}
	if err := ensureOp("object.modifier_apply", s.Host.ApplyModifier(name)); err != nil {
		return nil, err
	}

	for _, x := range []struct {
		handle scene.Handle
		rule   polymesh.Rule
	}{
		{triFixed, polymesh.Fixed},
		{triAlter, polymesh.Alternate},
	} {
		if err := s.SelectOnly(x.handle); err != nil {
			return nil, err
		}
		err := ensureOp("mesh.polygons.select", s.Host.SetFaceSelection(x.handle,
			topo.ViableQuads))
		if err != nil {
			return nil, err
		}
		err = s.Edit(x.handle, func() error {
			return ensureOp("mesh.quads_convert_to_tris", s.Host.TriangulateSelected(x.rule))
		})
		if err != nil {
			return nil, err
		}
	}

	return NewReference(
		s.Host.Mesh(h),
		s.Host.Mesh(subsurfed),
		s.Host.Mesh(triFixed),
		s.Host.Mesh(triAlter),
		topo.ViableQuads,
	)
}

// prepareReferenceShape puts a copy of the object into the
// shape that will be analyzed: the current pose and shape key
// mix, or the rest shape.
func (s *MeshSession) prepareReferenceShape(h scene.Handle) error {
	if !s.Options.UsePoseShapeKeys {
		if err := ensureOp("object.shape_key_clear", s.Host.ClearShapeKeys(h)); err != nil {
			return err
		}
		return ensureOp("object.modifiers.clear", s.Host.ClearModifiers(h))
	}

	if s.Host.HasShapeKeys(h) {
		if s.Host.ActiveShapeKey(h) < 0 {
			err := ensureOp("object.active_shape_key_index", s.Host.SetActiveShapeKey(h, 0))
			if err != nil {
				return err
			}
		}
		if err := ensureOp("object.shape_key_remove", s.Host.RemoveShapeKeys(true)); err != nil {
			return err
		}
	}
	for _, m := range s.Host.Modifiers(h) {
		var err error
		if m.Kind == scene.Armature {
			err = ensureOp("object.modifier_apply", s.Host.ApplyModifier(m.Name))
		} else {
			err = ensureOp("object.modifiers.remove", s.Host.RemoveModifier(h, m.Name))
		}
		if err != nil {
			return err
		}
	}
	return nil
}
