//Package perspective maps camera compensated pixel positions onto a flat pitch rectangle with a single fixed homography.
package perspective

import (
	"errors"
	"fmt"
	"math"

	"github.com/chenBenjamin97/pitch-analyzer/pkg/tracks"
	"github.com/chenBenjamin97/pitch-analyzer/pkg/utils"
	"gonum.org/v1/gonum/mat"
)

var ErrDegenerateCorners = errors.New("degenerate pitch corners, can not build homography")

//collinearEpsilon is the smallest triangle area (pixels²) between 3 corners that is not considered a line
const collinearEpsilon = 1e-6

//horizonEpsilon is FLT_EPSILON, the |w| cv::perspectiveTransform treats as zero
const horizonEpsilon = 1.1920929e-07

//Mapper holds the homography from pixel space to pitch units
type Mapper struct {
	h      *mat.Dense
	source [4]utils.Point
	target [4]utils.Point
}

//NewMapper builds the homography mapping corners onto TargetCorners
func NewMapper(corners [4]utils.Point) (*Mapper, error) {
	return newMapper(corners, TargetCorners)
}

func newMapper(src, dst [4]utils.Point) (*Mapper, error) {
	if collinear(src) || collinear(dst) {
		return nil, ErrDegenerateCorners
	}

	//h22 == 1, 8 unknowns, two equations per correspondence:
	//x' = (h00 x + h01 y + h02) / (h20 x + h21 y + 1), same for y'
	a := mat.NewDense(8, 8, nil)
	b := mat.NewVecDense(8, nil)
	for i := 0; i < 4; i++ {
		x, y := src[i].X, src[i].Y
		u, v := dst[i].X, dst[i].Y
		a.SetRow(2*i, []float64{x, y, 1, 0, 0, 0, -x * u, -y * u})
		a.SetRow(2*i+1, []float64{0, 0, 0, x, y, 1, -x * v, -y * v})
		b.SetVec(2*i, u)
		b.SetVec(2*i+1, v)
	}

	var h mat.VecDense
	if err := h.SolveVec(a, b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDegenerateCorners, err)
	}

	hm := mat.NewDense(3, 3, []float64{
		h.AtVec(0), h.AtVec(1), h.AtVec(2),
		h.AtVec(3), h.AtVec(4), h.AtVec(5),
		h.AtVec(6), h.AtVec(7), 1,
	})

	return &Mapper{h: hm, source: src, target: dst}, nil
}

//collinear returns true if any 3 of given points lie on one line
func collinear(pts [4]utils.Point) bool {
	for i := 0; i < 4; i++ {
		for j := i + 1; j < 4; j++ {
			for k := j + 1; k < 4; k++ {
				a, b, c := pts[i], pts[j], pts[k]
				area := (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
				if math.Abs(area) < collinearEpsilon {
					return true
				}
			}
		}
	}

	return false
}

//Homography returns a copy of the 3x3 matrix
func (m *Mapper) Homography() *mat.Dense {
	return mat.DenseCopyOf(m.h)
}

//Source returns the pixel corners the mapper was built from
func (m *Mapper) Source() [4]utils.Point {
	return m.source
}

//TransformPoint maps p to pitch units. There is no inside-the-pitch check, points outside the corners are extrapolated
//so off pitch detections still get coordinates. A point on the horizon line (|w| <= FLT_EPSILON) maps to (0,0).
func (m *Mapper) TransformPoint(p utils.Point) utils.Point {
	h := m.h.RawMatrix().Data
	w := h[6]*p.X + h[7]*p.Y + h[8]
	if math.Abs(w) <= horizonEpsilon {
		return utils.Point{}
	}

	return utils.Point{
		X: (h[0]*p.X + h[1]*p.Y + h[2]) / w,
		Y: (h[3]*p.X + h[4]*p.Y + h[5]) / w,
	}
}

//TransformPoints maps a batch of points
func (m *Mapper) TransformPoints(pts []utils.Point) []utils.Point {
	res := make([]utils.Point, len(pts))
	for i, p := range pts {
		res[i] = m.TransformPoint(p)
	}

	return res
}

//AddTransformedPositionToTracks returns a copy of t where every track with PositionAdjusted gets PositionTransformed.
//Frames do not depend on each other.
func (m *Mapper) AddTransformedPositionToTracks(t tracks.Tracks) tracks.Tracks {
	res := t.Clone()
	for _, frames := range res {
		for _, frame := range frames {
			for _, tr := range frame {
				if tr.PositionAdjusted == nil {
					continue
				}
				p := m.TransformPoint(*tr.PositionAdjusted)
				tr.PositionTransformed = &p
			}
		}
	}

	return res
}
