package smoothtri

import (
	"github.com/unixpickle/smooth-tri/polymesh"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Topology summarizes the selected faces of a mesh.
type Topology struct {
	// SelectedQuads lists selected quads in ascending order.
	SelectedQuads []int

	// NGonCount is the number of selected faces with more than
	// four vertices. They are never triangulated.
	NGonCount int

	// Doublets maps each selected quad that shares three
	// vertices with a neighboring face of at most four
	// vertices to the one corner it does not share.
	Doublets map[int]int

	// ViableQuads are the selected quads that are not
	// doublets, in ascending order.
	ViableQuads []int
}

// DoubletQuads returns the doublet quads in ascending order.
func (t *Topology) DoubletQuads() []int {
	res := maps.Keys(t.Doublets)
	slices.Sort(res)
	return res
}

// AnalyzeTopology classifies the selected faces of m.
//
// Neighbors of a quad are scanned in ascending face order and
// the first neighbor forming a doublet wins.
func AnalyzeTopology(m *polymesh.Mesh, selected []int) (*Topology, error) {
	res := &Topology{Doublets: map[int]int{}}
	for _, i := range selected {
		switch m.Faces[i].Kind() {
		case polymesh.Quad:
			res.SelectedQuads = append(res.SelectedQuads, i)
		case polymesh.NGon:
			res.NGonCount++
		}
	}
	slices.Sort(res.SelectedQuads)
	res.SelectedQuads = slices.Compact(res.SelectedQuads)
	if len(res.SelectedQuads) == 0 {
		return res, nil
	}

	adjacency := faceAdjacency(m)
	for _, i := range res.SelectedQuads {
		verts := m.Faces[i].Vertices
		for _, a := range adjacency[i] {
			adj := m.Faces[a]
			if len(adj.Vertices) > 4 {
				continue
			}
			var common, unique []int
			for _, v := range verts {
				if adj.HasVertex(v) {
					common = append(common, v)
				} else {
					unique = append(unique, v)
				}
			}
			if len(common) != 3 {
				continue
			}
			if len(unique) != 1 {
				return nil, topologyErrorf("has quad %d with %d unshared vertices next to face %d",
					i, len(unique), a)
			}
			res.Doublets[i] = unique[0]
			break
		}
	}

	for _, i := range res.SelectedQuads {
		if _, ok := res.Doublets[i]; !ok {
			res.ViableQuads = append(res.ViableQuads, i)
		}
	}
	return res, nil
}

// faceAdjacency maps every face to the other faces sharing
// at least one edge with it, sorted by index.
func faceAdjacency(m *polymesh.Mesh) [][]int {
	edgeToFaces := map[polymesh.EdgeKey][]int{}
	for i, f := range m.Faces {
		for _, e := range f.EdgeKeys() {
			edgeToFaces[e] = append(edgeToFaces[e], i)
		}
	}
	res := make([][]int, len(m.Faces))
	for i, f := range m.Faces {
		for _, e := range f.EdgeKeys() {
			for _, j := range edgeToFaces[e] {
				if j != i {
					res[i] = append(res[i], j)
				}
			}
		}
		slices.Sort(res[i])
		res[i] = slices.Compact(res[i])
	}
	return res
}
