package smoothtri

import (
	"math"

	"github.com/unixpickle/model3d/model3d"
	"github.com/unixpickle/smooth-tri/polymesh"
)

// A Comparison records how well each diagonal of a quad
// matches the curvature of the subdivided surface.
type Comparison struct {
	Quad int

	// Signed angles between the two triangles of each flat
	// split, and between the matching patches of the
	// subdivided surface.
	AngleFixed    float64
	AngleAlter    float64
	SubAngleFixed float64
	SubAngleAlter float64

	// Mismatch scores; lower is better.
	DiffFixed float64
	DiffAlter float64

	// TieBreak is set when the scores were too close and the
	// adjacent gaps decided the verdict.
	TieBreak bool
	GapFixed float64
	GapAlter float64
	Favor    float64

	Verdict polymesh.Rule
}

type vertexNormal struct {
	Vertex int
	Normal model3d.Coord3D
}

// Compare picks a triangulation rule for a viable quad.
func (r *Reference) Compare(quad int, opts *Options) (*Comparison, error) {
	verts := r.Original.Faces[quad].Vertices
	uniqueFixed := polymesh.Fixed.UniquePair(verts)
	uniqueAlter := polymesh.Alternate.UniquePair(verts)

	split, ok := r.SplitFaceIndex[quad]
	if !ok {
		return nil, topologyErrorf("has quad %d missing from the triangulated copies", quad)
	}
	fixedPairs := triangleNormals(r.TriFixed, r.fixedNormals, quad, split, uniqueFixed)
	alterPairs := triangleNormals(r.TriAlter, r.alterNormals, quad, split, uniqueAlter)

	var subFixed, subAlter []vertexNormal
	for i := r.childStart[quad]; i < r.childStart[quad+1]; i++ {
		for _, v := range r.Subdivided.Faces[i].Vertices {
			if v == uniqueFixed[0] || v == uniqueFixed[1] {
				subFixed = append(subFixed, vertexNormal{v, r.subNormals[i]})
			} else if v == uniqueAlter[0] || v == uniqueAlter[1] {
				subAlter = append(subAlter, vertexNormal{v, r.subNormals[i]})
			}
		}
	}

	res := &Comparison{Quad: quad}
	for _, x := range []struct {
		pairs  []vertexNormal
		coords []model3d.Coord3D
		out    *float64
	}{
		{fixedPairs, r.TriFixed.Coords, &res.AngleFixed},
		{alterPairs, r.TriAlter.Coords, &res.AngleAlter},
		{subFixed, r.Subdivided.Coords, &res.SubAngleFixed},
		{subAlter, r.Subdivided.Coords, &res.SubAngleAlter},
	} {
		angle, err := opposingFacesAngle(quad, x.pairs, x.coords)
		if err != nil {
			return nil, err
		}
		*x.out = angle
	}

	res.DiffFixed = math.Abs(res.AngleFixed-res.SubAngleFixed) + math.Abs(res.SubAngleAlter)
	res.DiffAlter = math.Abs(res.AngleAlter-res.SubAngleAlter) + math.Abs(res.SubAngleFixed)

	if verdict, ok := directVerdict(res.DiffFixed, res.DiffAlter, opts.AngleDiffThreshold); ok {
		res.Verdict = verdict
		return res, nil
	}

	// Scores are too close, so prefer the flatter surroundings.
	res.TieBreak = true
	for _, x := range []struct {
		pairs []vertexNormal
		out   *float64
	}{
		{fixedPairs, &res.GapFixed},
		{alterPairs, &res.GapAlter},
	} {
		for _, p := range x.pairs {
			gap, err := r.adjacentGap(quad, p.Vertex)
			if err != nil {
				return nil, err
			}
			*x.out += gap
		}
	}
	res.Favor = (res.DiffAlter - res.DiffFixed) + opts.AdjacentGapRatio*(res.GapFixed-res.GapAlter)
	res.Verdict = favorVerdict(res.Favor)
	return res, nil
}

// directVerdict picks the rule with the smaller mismatch when
// the scores differ by more than threshold.
func directVerdict(diffFixed, diffAlter, threshold float64) (polymesh.Rule, bool) {
	if math.Abs(diffFixed-diffAlter) <= threshold {
		return polymesh.Beauty, false
	}
	if diffFixed < diffAlter {
		return polymesh.Fixed, true
	}
	return polymesh.Alternate, true
}

// favorVerdict resolves a tie-break score. Only an exact zero
// leaves the choice to the beauty rule.
func favorVerdict(favor float64) polymesh.Rule {
	if favor > 0 {
		return polymesh.Fixed
	} else if favor < 0 {
		return polymesh.Alternate
	}
	return polymesh.Beauty
}

func triangleNormals(m *polymesh.Mesh, normals []model3d.Coord3D, quad, split int,
	unique [2]int) []vertexNormal {
	var res []vertexNormal
	for _, i := range []int{quad, split} {
		for _, v := range m.Faces[i].Vertices {
			if v == unique[0] || v == unique[1] {
				res = append(res, vertexNormal{v, normals[i]})
			}
		}
	}
	return res
}

func opposingFacesAngle(quad int, pairs []vertexNormal, coords []model3d.Coord3D) (float64,
	error) {
	if len(pairs) != 2 {
		return 0, topologyErrorf("has quad %d with %d opposing faces instead of 2", quad,
			len(pairs))
	}
	return signedAngle(pairs[0].Normal, pairs[1].Normal, coords[pairs[0].Vertex],
		coords[pairs[1].Vertex]), nil
}

// signedAngle computes the angle between two normals, negated
// when moving both positions along their normals brings them
// closer together, i.e. when the surface folds inward.
func signedAngle(n1, n2, p1, p2 model3d.Coord3D) float64 {
	distance := p1.Dist(p2)
	offset := distance * 0.2
	newDistance := p1.Add(n1.Scale(offset)).Dist(p2.Add(n2.Scale(offset)))
	angle := polymesh.Angle(n1, n2)
	if newDistance >= distance {
		return angle
	}
	return -angle
}

// adjacentGap sums the normal angles between the child face of
// quad touching v and every other subdivided face touching v.
func (r *Reference) adjacentGap(quad, v int) (float64, error) {
	source := -1
	var targets []int
	for _, f := range r.vertexFaces[v] {
		if r.isChild(quad, f) {
			if source != -1 {
				return 0, topologyErrorf("has quad %d touching vertex %d with several children",
					quad, v)
			}
			source = f
		} else {
			targets = append(targets, f)
		}
	}
	if source == -1 {
		return 0, topologyErrorf("has quad %d with no child at vertex %d", quad, v)
	}
	var gap float64
	for _, f := range targets {
		gap += polymesh.Angle(r.subNormals[source], r.subNormals[f])
	}
	return gap, nil
}
