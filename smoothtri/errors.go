package smoothtri

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/unixpickle/smooth-tri/scene"
)

// A TopologyError means that a mesh has a shape the
// triangulation cannot handle. It aborts the object before
// its mesh is modified.
type TopologyError struct {
	Object string
	Reason string
}

func (t *TopologyError) Error() string {
	if t.Object == "" {
		return "unsupported topology: " + t.Reason
	}
	return fmt.Sprintf("unsupported topology: the mesh '%s' %s", t.Object, t.Reason)
}

// A ResourceError means the host failed to create
// independent temporary objects.
type ResourceError struct {
	Reason string
}

func (r *ResourceError) Error() string {
	return r.Reason
}

// A HostOperationError wraps a host operation that did not
// finish.
type HostOperationError struct {
	Op     string
	Status string
	Err    error
}

func (h *HostOperationError) Error() string {
	return fmt.Sprintf("operator '%s' failed unexpectedly: {'%s'}", h.Op, h.Status)
}

func (h *HostOperationError) Unwrap() error {
	return h.Err
}

func topologyErrorf(format string, args ...any) error {
	return &TopologyError{Reason: fmt.Sprintf(format, args...)}
}

// withObject names the object in a topology error.
func withObject(err error, name string) error {
	var topo *TopologyError
	if errors.As(err, &topo) && topo.Object == "" {
		return &TopologyError{Object: name, Reason: topo.Reason}
	}
	return err
}

// ensureOp turns a failed host call into a
// HostOperationError.
func ensureOp(op string, err error) error {
	if err == nil {
		return nil
	}
	var status *scene.StatusError
	if errors.As(err, &status) {
		return &HostOperationError{Op: status.Op, Status: string(status.Status), Err: err}
	}
	return &HostOperationError{Op: op, Status: "ERROR", Err: err}
}
