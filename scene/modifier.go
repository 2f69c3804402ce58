package scene

import (
	"fmt"

	"github.com/unixpickle/model3d/model3d"
	"github.com/unixpickle/smooth-tri/polymesh"
)

type ModifierKind int

const (
	// Armature deforms vertices with a transform.
	Armature ModifierKind = iota

	// Subdivision applies Catmull-Clark subdivision.
	Subdivision

	// Generic modifiers are carried around but have no
	// effect and cannot be applied.
	Generic
)

func (m ModifierKind) String() string {
	switch m {
	case Armature:
		return "ARMATURE"
	case Subdivision:
		return "SUBSURF"
	}
	return "GENERIC"
}

type BoundarySmooth int

const (
	PreserveCorners BoundarySmooth = iota
	SmoothAll
)

type Modifier struct {
	Name         string
	Kind         ModifierKind
	ShowViewport bool

	// Deform is used by Armature modifiers.
	Deform model3d.Transform

	// Subdivision settings.
	BoundarySmooth  BoundarySmooth
	UseLimitSurface bool
}

// Modifiers returns a copy of an object's modifier stack.
func (d *Document) Modifiers(h Handle) []Modifier {
	if obj, ok := d.objects[h]; ok {
		return append([]Modifier{}, obj.modifiers...)
	}
	return nil
}

// AddModifier appends a modifier to an object, making its
// name unique within the stack. It returns the final name.
func (d *Document) AddModifier(h Handle, m Modifier) (string, error) {
	obj, err := d.object("object.modifiers.new", h)
	if err != nil {
		return "", err
	}
	base := m.Name
	for i := 1; obj.modifierIndex(m.Name) != -1; i++ {
		m.Name = fmt.Sprintf("%s.%03d", base, i)
	}
	obj.modifiers = append(obj.modifiers, m)
	return m.Name, nil
}

// RemoveModifier deletes a modifier from an object without
// applying it.
func (d *Document) RemoveModifier(h Handle, name string) error {
	const op = "object.modifiers.remove"
	obj, err := d.object(op, h)
	if err != nil {
		return err
	}
	idx := obj.modifierIndex(name)
	if idx == -1 {
		return cancel(op, "no modifier named %q", name)
	}
	obj.modifiers = append(obj.modifiers[:idx], obj.modifiers[idx+1:]...)
	return nil
}

func (d *Document) ClearModifiers(h Handle) error {
	obj, err := d.object("object.modifiers.clear", h)
	if err != nil {
		return err
	}
	obj.modifiers = nil
	return nil
}

// SetModifierVisibility toggles whether the i-th modifier is
// evaluated for display.
func (d *Document) SetModifierVisibility(h Handle, i int, show bool) error {
	const op = "object.modifiers.show_viewport"
	obj, err := d.object(op, h)
	if err != nil {
		return err
	}
	if i < 0 || i >= len(obj.modifiers) {
		return cancel(op, "modifier %d out of range", i)
	}
	obj.modifiers[i].ShowViewport = show
	return nil
}

// ApplyModifier bakes a modifier of the active object into
// its mesh and removes it from the stack.
func (d *Document) ApplyModifier(name string) error {
	const op = "object.modifier_apply"
	if d.mode != ObjectMode {
		return cancel(op, "requires object mode")
	}
	obj, err := d.object(op, d.active)
	if err != nil {
		return err
	}
	idx := obj.modifierIndex(name)
	if idx == -1 {
		return cancel(op, "no modifier named %q", name)
	}
	if len(obj.shapeKeys) > 0 {
		return cancel(op, "modifier cannot be applied to a mesh with shape keys")
	}
	mesh, err := obj.modifiers[idx].apply(obj.data)
	if err != nil {
		return err
	}
	obj.data = mesh
	obj.modifiers = append(obj.modifiers[:idx], obj.modifiers[idx+1:]...)
	return nil
}

func (m *Modifier) apply(mesh *polymesh.Mesh) (*polymesh.Mesh, error) {
	const op = "object.modifier_apply"
	switch m.Kind {
	case Armature:
		if m.Deform == nil {
			return mesh, nil
		}
		coords := make([]model3d.Coord3D, len(mesh.Coords))
		for i, c := range mesh.Coords {
			coords[i] = m.Deform.Apply(c)
		}
		return mesh.WithCoords(coords), nil
	case Subdivision:
		if m.UseLimitSurface || m.BoundarySmooth != PreserveCorners {
			return nil, cancel(op, "unsupported subdivision settings on %q", m.Name)
		}
		return polymesh.Subdivide(mesh), nil
	}
	return nil, cancel(op, "modifier %q of type %s cannot be applied", m.Name, m.Kind)
}

func (o *Object) modifierIndex(name string) int {
	for i, m := range o.modifiers {
		if m.Name == name {
			return i
		}
	}
	return -1
}

// AddShapeKey appends a shape key. The first key added to an
// object is its basis and always holds the mesh's current
// positions, so coords is ignored for it.
func (d *Document) AddShapeKey(h Handle, name string, coords []model3d.Coord3D,
	value float64) error {
	const op = "object.shape_key_add"
	obj, err := d.object(op, h)
	if err != nil {
		return err
	}
	if len(obj.shapeKeys) == 0 {
		coords = obj.data.Coords
	} else if len(coords) != len(obj.data.Coords) {
		return cancel(op, "shape key %q has %d vertices, expected %d", name, len(coords),
			len(obj.data.Coords))
	}
	obj.shapeKeys = append(obj.shapeKeys, ShapeKey{
		Name:   name,
		Coords: append([]model3d.Coord3D{}, coords...),
		Value:  value,
	})
	return nil
}

func (d *Document) HasShapeKeys(h Handle) bool {
	obj, ok := d.objects[h]
	return ok && len(obj.shapeKeys) > 0
}

// ActiveShapeKey returns the active shape key index, or -1.
func (d *Document) ActiveShapeKey(h Handle) int {
	if obj, ok := d.objects[h]; ok {
		return obj.activeKey
	}
	return -1
}

func (d *Document) SetActiveShapeKey(h Handle, i int) error {
	const op = "object.active_shape_key_index"
	obj, err := d.object(op, h)
	if err != nil {
		return err
	}
	if i < 0 || i >= len(obj.shapeKeys) {
		return cancel(op, "shape key %d out of range", i)
	}
	obj.activeKey = i
	return nil
}

// RemoveShapeKeys deletes every shape key of the active
// object, optionally baking the current mix into the mesh.
func (d *Document) RemoveShapeKeys(applyMix bool) error {
	const op = "object.shape_key_remove"
	if d.mode != ObjectMode {
		return cancel(op, "requires object mode")
	}
	obj, err := d.object(op, d.active)
	if err != nil {
		return err
	}
	if obj.activeKey < 0 || len(obj.shapeKeys) == 0 {
		return cancel(op, "no active shape key")
	}
	if applyMix {
		obj.data = obj.data.WithCoords(obj.shapeMix())
	}
	obj.shapeKeys = nil
	obj.activeKey = -1
	return nil
}

// ClearShapeKeys deletes every shape key, keeping the basis
// positions.
func (d *Document) ClearShapeKeys(h Handle) error {
	obj, err := d.object("object.shape_key_clear", h)
	if err != nil {
		return err
	}
	obj.shapeKeys = nil
	obj.activeKey = -1
	return nil
}

func (o *Object) shapeMix() []model3d.Coord3D {
	if len(o.shapeKeys) == 0 {
		return o.data.Coords
	}
	basis := o.shapeKeys[0].Coords
	res := append([]model3d.Coord3D{}, basis...)
	for _, key := range o.shapeKeys[1:] {
		for i, c := range key.Coords {
			res[i] = res[i].Add(c.Sub(basis[i]).Scale(key.Value))
		}
	}
	return res
}

// Evaluated computes what an object looks like with its
// shape key mix and visible modifiers applied.
func (d *Document) Evaluated(h Handle) (*polymesh.Mesh, error) {
	obj, err := d.object("object.evaluated_get", h)
	if err != nil {
		return nil, err
	}
	mesh := obj.data
	if len(obj.shapeKeys) > 0 {
		mesh = mesh.WithCoords(obj.shapeMix())
	}
	for _, m := range obj.modifiers {
		if !m.ShowViewport || m.Kind == Generic {
			continue
		}
		mesh, err = m.apply(mesh)
		if err != nil {
			return nil, err
		}
	}
	return mesh, nil
}
