package polymesh

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/unixpickle/model3d/model3d"
)

// ReadOBJ decodes the vertices and polygons of a Wavefront
// OBJ file. Texture coordinates, normals, groups and
// materials are ignored.
func ReadOBJ(r io.Reader) (*Mesh, error) {
	res := &Mesh{}
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, errors.Errorf("read OBJ: line %d: vertex needs 3 coordinates", lineNum)
			}
			var c [3]float64
			for i := range c {
				x, err := strconv.ParseFloat(fields[i+1], 64)
				if err != nil {
					return nil, errors.Wrapf(err, "read OBJ: line %d", lineNum)
				}
				c[i] = x
			}
			res.Coords = append(res.Coords, model3d.XYZ(c[0], c[1], c[2]))
		case "f":
			face := Face{}
			for _, field := range fields[1:] {
				idx, err := strconv.Atoi(strings.SplitN(field, "/", 2)[0])
				if err != nil {
					return nil, errors.Wrapf(err, "read OBJ: line %d", lineNum)
				}
				if idx < 0 {
					idx += len(res.Coords)
				} else {
					idx--
				}
				face.Vertices = append(face.Vertices, idx)
			}
			res.Faces = append(res.Faces, face)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "read OBJ")
	}
	if err := res.Validate(); err != nil {
		return nil, errors.Wrap(err, "read OBJ")
	}
	return res, nil
}

// WriteOBJ encodes the mesh as a Wavefront OBJ file.
func WriteOBJ(w io.Writer, m *Mesh) error {
	bw := bufio.NewWriter(w)
	for _, c := range m.Coords {
		fmt.Fprintf(bw, "v %s %s %s\n", formatFloat(c.X), formatFloat(c.Y), formatFloat(c.Z))
	}
	for _, f := range m.Faces {
		bw.WriteString("f")
		for _, v := range f.Vertices {
			bw.WriteString(" " + strconv.Itoa(v+1))
		}
		bw.WriteString("\n")
	}
	if err := bw.Flush(); err != nil {
		return errors.Wrap(err, "write OBJ")
	}
	return nil
}

func formatFloat(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}

// Load opens a file and decodes it with a reader function
// such as ReadOBJ or model3d.ReadSTL.
func Load[T any](path string, read func(r io.Reader) (T, error)) (T, error) {
	var zero T
	f, err := os.Open(path)
	if err != nil {
		return zero, err
	}
	defer f.Close()
	res, err := read(bufio.NewReader(f))
	if err != nil {
		return zero, errors.Wrapf(err, "load %s", path)
	}
	return res, nil
}

// Save creates a file and encodes obj into it.
func Save[T any](path string, obj T, write func(w io.Writer, obj T) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f, obj); err != nil {
		f.Close()
		return errors.Wrapf(err, "save %s", path)
	}
	return f.Close()
}
