package tracks

import (
	"github.com/chenBenjamin97/pitch-analyzer/pkg/utils"
)

//AddPositions sets Position for every track with a valid bbox: the ball is represented by its center,
//every other class by its foot position (middle of the bottom edge)
func AddPositions(t Tracks) Tracks {
	res := t.Clone()
	for class, frames := range res {
		for _, frame := range frames {
			for _, tr := range frame {
				var (
					p  utils.Point
					ok bool
				)
				if class == Ball {
					p, ok = utils.CenterOfBBox(tr.BBox)
				} else {
					p, ok = utils.FootPosition(tr.BBox)
				}
				if ok {
					tr.Position = &p
				}
			}
		}
	}

	return res
}

//InterpolateBall fills ball frames that have no valid bbox. Gaps between two known frames are filled linearly,
//frames before the first known bbox are back-filled and frames after the last one are forward-filled.
//In case the ball is never seen, tracks are returned unchanged.
func InterpolateBall(t Tracks) Tracks {
	res := t.Clone()
	frames := res[Ball]

	known := make([]int, 0, len(frames))
	for i, frame := range frames {
		if tr, ok := frame[BallID]; ok && utils.IsValidBBox(tr.BBox) {
			known = append(known, i)
		}
	}

	if len(known) == 0 {
		return res
	}

	bboxAt := func(i int) utils.BBox { return frames[i][BallID].BBox }

	for i := range frames {
		if tr, ok := frames[i][BallID]; ok && utils.IsValidBBox(tr.BBox) {
			continue
		}

		var filled utils.BBox
		switch {
		case i < known[0]:
			filled = append(utils.BBox(nil), bboxAt(known[0])...)
		case i > known[len(known)-1]:
			filled = append(utils.BBox(nil), bboxAt(known[len(known)-1])...)
		default:
			prev, next := surrounding(known, i)
			ratio := float64(i-prev) / float64(next-prev)
			a, b := bboxAt(prev), bboxAt(next)
			filled = make(utils.BBox, 4)
			for c := range filled {
				filled[c] = a[c] + (b[c]-a[c])*ratio
			}
		}

		if frames[i] == nil {
			frames[i] = Frame{}
		}
		if tr, ok := frames[i][BallID]; ok {
			tr.BBox = filled
		} else {
			frames[i][BallID] = &Track{BBox: filled}
		}
	}

	return res
}

//surrounding returns the closest known indexes before and after i, known is sorted and i is strictly inside its range
func surrounding(known []int, i int) (int, int) {
	prev := known[0]
	for _, k := range known {
		if k > i {
			return prev, k
		}
		prev = k
	}

	return prev, prev
}
