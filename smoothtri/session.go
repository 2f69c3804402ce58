package smoothtri

import (
	"github.com/unixpickle/smooth-tri/polymesh"
	"github.com/unixpickle/smooth-tri/scene"
)

// Host is the mesh editing environment that owns the objects
// being triangulated. *scene.Document implements it.
type Host interface {
	Objects() []scene.Handle
	Name(h scene.Handle) string
	Rename(h scene.Handle, name string) error
	Visible(h scene.Handle) bool
	Active() scene.Handle
	SetActive(h scene.Handle) error
	Selected(h scene.Handle) bool
	Select(h scene.Handle, selected bool) error

	SetMode(mode scene.Mode) error
	InEditMode(h scene.Handle) bool
	UpdateFromEditMode(h scene.Handle) error
	Mesh(h scene.Handle) *polymesh.Mesh

	Duplicate() (scene.Handle, error)
	Remove(h scene.Handle) error

	HasShapeKeys(h scene.Handle) bool
	ActiveShapeKey(h scene.Handle) int
	SetActiveShapeKey(h scene.Handle, i int) error
	RemoveShapeKeys(applyMix bool) error
	ClearShapeKeys(h scene.Handle) error

	Modifiers(h scene.Handle) []scene.Modifier
	AddModifier(h scene.Handle, m scene.Modifier) (string, error)
	ApplyModifier(name string) error
	RemoveModifier(h scene.Handle, name string) error
	ClearModifiers(h scene.Handle) error
	SetModifierVisibility(h scene.Handle, i int, show bool) error

	SetFaceSelection(h scene.Handle, faces []int) error
	DeselectAll() error
	TriangulateSelected(rule polymesh.Rule) error
}

// A MeshSession carries the host and options through one
// triangulation run and wraps host mode changes.
type MeshSession struct {
	Host    Host
	Options *Options
}

// SelectOnly makes h the only selected object and the active
// one.
func (s *MeshSession) SelectOnly(h scene.Handle) error {
	if err := ensureOp("view_layer.objects.active", s.Host.SetActive(h)); err != nil {
		return err
	}
	for _, o := range s.Host.Objects() {
		if err := ensureOp("object.select_set", s.Host.Select(o, o == h)); err != nil {
			return err
		}
	}
	return nil
}

// BeginEdit enters edit mode on h alone. The returned function
// returns to object mode and must always be called.
func (s *MeshSession) BeginEdit(h scene.Handle) (end func() error, err error) {
	if err := s.SelectOnly(h); err != nil {
		return nil, err
	}
	if err := s.setMode(scene.EditMode); err != nil {
		return nil, err
	}
	return func() error {
		return s.setMode(scene.ObjectMode)
	}, nil
}

// Edit runs f with h in edit mode, returning to object mode
// afterwards even if f fails.
func (s *MeshSession) Edit(h scene.Handle, f func() error) (err error) {
	end, err := s.BeginEdit(h)
	if err != nil {
		return err
	}
	defer func() {
		if endErr := end(); err == nil {
			err = endErr
		}
	}()
	return f()
}

func (s *MeshSession) setMode(mode scene.Mode) error {
	return ensureOp("object.mode_set", s.Host.SetMode(mode))
}

// tempObjects tracks duplicates of a source object so that
// they can be removed on every exit path.
type tempObjects struct {
	session *MeshSession
	source  scene.Handle
	handles []scene.Handle
}

// duplicate copies the currently selected object and checks
// that the copy is a new, independent object.
func (t *tempObjects) duplicate() (scene.Handle, error) {
	h, err := t.session.Host.Duplicate()
	if err := ensureOp("object.duplicate", err); err != nil {
		return scene.NoHandle, err
	}
	if h == t.source || h == scene.NoHandle {
		return scene.NoHandle, &ResourceError{Reason: "failed to duplicate object for calculation"}
	}
	for _, x := range t.handles {
		if x == h {
			return scene.NoHandle, &ResourceError{
				Reason: "failed to duplicate object for calculation",
			}
		}
	}
	t.handles = append(t.handles, h)
	return h, nil
}

// release removes every duplicate, reporting the first
// failure.
func (t *tempObjects) release() error {
	var firstErr error
	for _, h := range t.handles {
		if h == t.source {
			continue
		}
		if err := ensureOp("data.objects.remove", t.session.Host.Remove(h)); err != nil &&
			firstErr == nil {
			firstErr = err
		}
	}
	t.handles = nil
	return firstErr
}
