package polymesh

import "github.com/unixpickle/model3d/model3d"

// Subdivide applies one level of Catmull-Clark subdivision
// without projecting to the limit surface.
//
// Boundaries are smoothed, but boundary vertices touching a
// single face (corners) and non-manifold vertices are kept in
// place.
//
// The result is laid out so that it can be traced back to m:
//
//   - vertex i < len(m.Coords) is the moved original vertex i;
//   - edge points follow, then one face point per face;
//   - face f produces len(f.Vertices) consecutive child quads,
//     and child k contains original vertex f.Vertices[k].
func Subdivide(m *Mesh) *Mesh {
	numVerts := len(m.Coords)

	edgeIndex := map[EdgeKey]int{}
	var edges []EdgeKey
	var edgeFaces [][]int
	vertexFaces := make([][]int, numVerts)
	vertexEdges := make([][]int, numVerts)
	for fi, f := range m.Faces {
		for _, v := range f.Vertices {
			vertexFaces[v] = append(vertexFaces[v], fi)
		}
		for _, e := range f.EdgeKeys() {
			idx, ok := edgeIndex[e]
			if !ok {
				idx = len(edges)
				edgeIndex[e] = idx
				edges = append(edges, e)
				edgeFaces = append(edgeFaces, nil)
				vertexEdges[e[0]] = append(vertexEdges[e[0]], idx)
				vertexEdges[e[1]] = append(vertexEdges[e[1]], idx)
			}
			edgeFaces[idx] = append(edgeFaces[idx], fi)
		}
	}

	facePoints := make([]model3d.Coord3D, len(m.Faces))
	for fi, f := range m.Faces {
		var sum model3d.Coord3D
		for _, v := range f.Vertices {
			sum = sum.Add(m.Coords[v])
		}
		facePoints[fi] = sum.Scale(1 / float64(len(f.Vertices)))
	}

	edgePoints := make([]model3d.Coord3D, len(edges))
	for i, e := range edges {
		mid := m.Coords[e[0]].Mid(m.Coords[e[1]])
		if fs := edgeFaces[i]; len(fs) == 2 {
			edgePoints[i] = mid.Add(facePoints[fs[0]].Mid(facePoints[fs[1]])).Scale(0.5)
		} else {
			edgePoints[i] = mid
		}
	}

	coords := make([]model3d.Coord3D, 0, numVerts+len(edges)+len(m.Faces))
	for v, p := range m.Coords {
		coords = append(coords, subdivideVertex(m, v, p, vertexFaces[v], vertexEdges[v],
			edges, edgeFaces, facePoints))
	}
	coords = append(coords, edgePoints...)
	coords = append(coords, facePoints...)

	res := &Mesh{Coords: coords}
	faceOffset := numVerts + len(edges)
	for fi, f := range m.Faces {
		vs := f.Vertices
		n := len(vs)
		for k, v := range vs {
			next := vs[(k+1)%n]
			prev := vs[(k+n-1)%n]
			res.Faces = append(res.Faces, Face{
				Vertices: []int{
					v,
					numVerts + edgeIndex[NewEdgeKey(v, next)],
					faceOffset + fi,
					numVerts + edgeIndex[NewEdgeKey(prev, v)],
				},
				Selected: f.Selected,
			})
		}
	}
	return res
}

func subdivideVertex(m *Mesh, v int, p model3d.Coord3D, faces, incident []int, edges []EdgeKey,
	edgeFaces [][]int, facePoints []model3d.Coord3D) model3d.Coord3D {
	if len(faces) == 0 {
		return p
	}

	var boundary []int
	for _, e := range incident {
		if len(edgeFaces[e]) != 2 {
			boundary = append(boundary, e)
		}
	}

	if len(boundary) == 0 {
		n := float64(len(incident))
		var faceAvg, edgeAvg model3d.Coord3D
		for _, f := range faces {
			faceAvg = faceAvg.Add(facePoints[f])
		}
		faceAvg = faceAvg.Scale(1 / float64(len(faces)))
		for _, e := range incident {
			edgeAvg = edgeAvg.Add(m.Coords[edges[e][0]].Mid(m.Coords[edges[e][1]]))
		}
		edgeAvg = edgeAvg.Scale(1 / n)
		return faceAvg.Add(edgeAvg.Scale(2)).Add(p.Scale(n - 3)).Scale(1 / n)
	}

	if len(boundary) != 2 || len(faces) == 1 {
		// Corner, or a vertex joining several boundaries.
		return p
	}

	sum := p.Scale(6)
	for _, e := range boundary {
		other := edges[e][0]
		if other == v {
			other = edges[e][1]
		}
		sum = sum.Add(m.Coords[other])
	}
	return sum.Scale(1.0 / 8)
}
