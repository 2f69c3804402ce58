// Package scene implements an in-memory mesh editing host.
//
// A Document is an arena of objects addressed by Handle. Each
// object holds a committed mesh snapshot, a live edit snapshot
// while in edit mode, shape keys and a modifier stack.
// Snapshots are never modified in place: every operation
// replaces them with derived meshes, so a *polymesh.Mesh
// obtained from a Document stays valid forever.
package scene

import (
	"fmt"

	"github.com/unixpickle/model3d/model3d"
	"github.com/unixpickle/smooth-tri/polymesh"
)

// A Handle identifies an object in a Document. The zero
// Handle never refers to an object.
type Handle int

const NoHandle Handle = 0

type Mode int

const (
	ObjectMode Mode = iota
	EditMode
)

func (m Mode) String() string {
	if m == EditMode {
		return "EDIT"
	}
	return "OBJECT"
}

// Status is the outcome of an operation.
type Status string

const (
	Finished  Status = "FINISHED"
	Cancelled Status = "CANCELLED"
)

// A StatusError is returned by operations that did not
// finish.
type StatusError struct {
	Op     string
	Status Status
	Reason string
}

func (s *StatusError) Error() string {
	return fmt.Sprintf("operator '%s' returned {'%s'}: %s", s.Op, s.Status, s.Reason)
}

func cancel(op, format string, args ...any) error {
	return &StatusError{Op: op, Status: Cancelled, Reason: fmt.Sprintf(format, args...)}
}

type ShapeKey struct {
	Name   string
	Coords []model3d.Coord3D
	Value  float64
}

type Object struct {
	Name   string
	Hidden bool

	data      *polymesh.Mesh
	edit      *polymesh.Mesh
	selected  bool
	shapeKeys []ShapeKey
	activeKey int
	modifiers []Modifier
}

func (o *Object) clone() *Object {
	res := *o
	res.edit = nil
	res.shapeKeys = append([]ShapeKey{}, o.shapeKeys...)
	res.modifiers = append([]Modifier{}, o.modifiers...)
	return &res
}

// A Document is a collection of mesh objects with a shared
// interaction mode, an active object and an object
// selection.
type Document struct {
	objects map[Handle]*Object
	order   []Handle
	next    Handle
	active  Handle
	mode    Mode
}

func NewDocument() *Document {
	return &Document{
		objects: map[Handle]*Object{},
		next:    1,
	}
}

// AddObject inserts a new object holding a copy of mesh.
func (d *Document) AddObject(name string, mesh *polymesh.Mesh) Handle {
	h := d.next
	d.next++
	d.objects[h] = &Object{Name: name, data: mesh.Clone(), activeKey: -1}
	d.order = append(d.order, h)
	return h
}

// Objects returns every object handle in creation order.
func (d *Document) Objects() []Handle {
	return append([]Handle{}, d.order...)
}

func (d *Document) object(op string, h Handle) (*Object, error) {
	obj, ok := d.objects[h]
	if !ok {
		return nil, cancel(op, "no object with handle %d", h)
	}
	return obj, nil
}

func (d *Document) Name(h Handle) string {
	if obj, ok := d.objects[h]; ok {
		return obj.Name
	}
	return ""
}

func (d *Document) Rename(h Handle, name string) error {
	obj, err := d.object("object.rename", h)
	if err != nil {
		return err
	}
	obj.Name = name
	return nil
}

func (d *Document) Visible(h Handle) bool {
	obj, ok := d.objects[h]
	return ok && !obj.Hidden
}

func (d *Document) SetHidden(h Handle, hidden bool) error {
	obj, err := d.object("object.hide_set", h)
	if err != nil {
		return err
	}
	obj.Hidden = hidden
	return nil
}

func (d *Document) Active() Handle {
	return d.active
}

func (d *Document) SetActive(h Handle) error {
	if _, err := d.object("view_layer.objects.active", h); err != nil {
		return err
	}
	d.active = h
	return nil
}

func (d *Document) Selected(h Handle) bool {
	obj, ok := d.objects[h]
	return ok && obj.selected
}

func (d *Document) Select(h Handle, selected bool) error {
	obj, err := d.object("object.select_set", h)
	if err != nil {
		return err
	}
	obj.selected = selected
	return nil
}

func (d *Document) Mode() Mode {
	return d.mode
}

// InEditMode checks if an object has a live edit mesh.
func (d *Document) InEditMode(h Handle) bool {
	obj, ok := d.objects[h]
	return ok && obj.edit != nil
}

// SetMode switches the interaction mode.
//
// Entering edit mode starts editing the active object and
// every other selected object. Leaving it commits every edit
// mesh.
func (d *Document) SetMode(mode Mode) error {
	const op = "object.mode_set"
	switch mode {
	case EditMode:
		active, ok := d.objects[d.active]
		if !ok || active.Hidden {
			return cancel(op, "no visible active object")
		}
		if d.mode == EditMode {
			d.commitEdits()
		}
		for _, h := range d.order {
			obj := d.objects[h]
			if h == d.active || (obj.selected && !obj.Hidden) {
				obj.edit = obj.data
			}
		}
	case ObjectMode:
		d.commitEdits()
	default:
		return cancel(op, "unknown mode %d", mode)
	}
	d.mode = mode
	return nil
}

func (d *Document) commitEdits() {
	for _, obj := range d.objects {
		if obj.edit != nil {
			obj.data = obj.edit
			obj.edit = nil
		}
	}
}

// UpdateFromEditMode copies the live edit state of an
// object into its committed mesh.
func (d *Document) UpdateFromEditMode(h Handle) error {
	obj, err := d.object("object.update_from_editmode", h)
	if err != nil {
		return err
	}
	if obj.edit != nil {
		obj.data = obj.edit
	}
	return nil
}

// Mesh returns the committed mesh of an object, or nil if
// the object does not exist.
func (d *Document) Mesh(h Handle) *polymesh.Mesh {
	if obj, ok := d.objects[h]; ok {
		return obj.data
	}
	return nil
}

// EditMesh returns the live edit mesh of an object, or nil
// outside of edit mode.
func (d *Document) EditMesh(h Handle) *polymesh.Mesh {
	if obj, ok := d.objects[h]; ok {
		return obj.edit
	}
	return nil
}

// Duplicate copies every selected object. The copies become
// the selection, and the copy of the active object becomes
// active and is returned.
func (d *Document) Duplicate() (Handle, error) {
	const op = "object.duplicate"
	if d.mode != ObjectMode {
		return NoHandle, cancel(op, "requires object mode")
	}
	var sources []Handle
	for _, h := range d.order {
		if obj := d.objects[h]; obj.selected && !obj.Hidden {
			sources = append(sources, h)
		}
	}
	if len(sources) == 0 {
		return NoHandle, cancel(op, "nothing selected")
	}
	newActive := NoHandle
	for _, src := range sources {
		obj := d.objects[src]
		dup := obj.clone()
		h := d.next
		d.next++
		d.objects[h] = dup
		d.order = append(d.order, h)
		obj.selected = false
		if src == d.active {
			newActive = h
		}
	}
	if newActive == NoHandle {
		newActive = d.order[len(d.order)-1]
	}
	d.active = newActive
	return newActive, nil
}

// Remove deletes an object from the document.
func (d *Document) Remove(h Handle) error {
	if _, err := d.object("data.objects.remove", h); err != nil {
		return err
	}
	delete(d.objects, h)
	for i, x := range d.order {
		if x == h {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
	if d.active == h {
		d.active = NoHandle
	}
	return nil
}

// SetFaceSelection selects exactly the given faces of an
// object's committed mesh. It must be used in object mode.
func (d *Document) SetFaceSelection(h Handle, faces []int) error {
	const op = "mesh.polygons.select"
	obj, err := d.object(op, h)
	if err != nil {
		return err
	}
	if d.mode != ObjectMode {
		return cancel(op, "face selection is read-only in edit mode")
	}
	for _, f := range faces {
		if f < 0 || f >= len(obj.data.Faces) {
			return cancel(op, "face %d out of range", f)
		}
	}
	obj.data = obj.data.WithSelection(faces)
	return nil
}

// DeselectAll clears the face selection of every mesh in
// edit mode.
func (d *Document) DeselectAll() error {
	edits, err := d.editObjects("mesh.select_all")
	if err != nil {
		return err
	}
	for _, obj := range edits {
		obj.edit = obj.edit.WithSelection(nil)
	}
	return nil
}

// TriangulateSelected splits the selected quads of every
// mesh in edit mode.
func (d *Document) TriangulateSelected(rule polymesh.Rule) error {
	edits, err := d.editObjects("mesh.quads_convert_to_tris")
	if err != nil {
		return err
	}
	for _, obj := range edits {
		obj.edit = polymesh.Triangulate(obj.edit, rule, obj.edit.SelectedFaces())
	}
	return nil
}

func (d *Document) editObjects(op string) ([]*Object, error) {
	if d.mode != EditMode {
		return nil, cancel(op, "requires edit mode")
	}
	var res []*Object
	for _, h := range d.order {
		if obj := d.objects[h]; obj.edit != nil {
			res = append(res, obj)
		}
	}
	if len(res) == 0 {
		return nil, cancel(op, "no mesh in edit mode")
	}
	return res, nil
}
