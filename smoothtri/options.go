package smoothtri

import (
	"encoding/json"
	"io"

	"github.com/pkg/errors"
	"github.com/unixpickle/smooth-tri/polymesh"
)

const (
	DefaultAngleDiffThreshold = 0.22
	DefaultAdjacentGapRatio   = 0.5
	DefaultTempPrefix         = "[TEMP]"
)

// Options configures a triangulation run.
type Options struct {
	// UsePoseShapeKeys, if true, analyzes the mesh as posed by
	// its armature modifiers and current shape key mix.
	// Otherwise, the rest shape is analyzed.
	UsePoseShapeKeys bool `json:"use_pose_shape_keys"`

	// AngleDiffThreshold is the difference in mismatch scores,
	// in radians, above which a diagonal is picked directly
	// instead of through the adjacent gap tie-break.
	AngleDiffThreshold float64 `json:"angle_diff_threshold"`

	// AdjacentGapRatio weights the adjacent gap difference in
	// the tie-break.
	AdjacentGapRatio float64 `json:"adjacent_gap_ratio"`

	// TempPrefix is prepended to the names of temporary
	// objects.
	TempPrefix string `json:"temp_prefix"`

	// Verbose, if true, enables logging for every object.
	Verbose bool `json:"verbose"`
}

func DefaultOptions() *Options {
	return &Options{
		UsePoseShapeKeys:   true,
		AngleDiffThreshold: DefaultAngleDiffThreshold,
		AdjacentGapRatio:   DefaultAdjacentGapRatio,
		TempPrefix:         DefaultTempPrefix,
	}
}

// LoadOptions reads a JSON options file. Fields missing from
// the file keep their default values.
func LoadOptions(path string) (*Options, error) {
	return polymesh.Load(path, ReadOptions)
}

// ReadOptions decodes JSON options on top of the defaults.
func ReadOptions(r io.Reader) (*Options, error) {
	opts := DefaultOptions()
	if err := json.NewDecoder(r).Decode(opts); err != nil {
		return nil, errors.Wrap(err, "read options")
	}
	if opts.AngleDiffThreshold < 0 || opts.AdjacentGapRatio < 0 {
		return nil, errors.New("read options: threshold and gap ratio must be non-negative")
	}
	return opts, nil
}
