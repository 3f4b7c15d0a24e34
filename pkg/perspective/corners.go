package perspective

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/chenBenjamin97/pitch-analyzer/pkg/utils"
)

//real world pitch dimensions, meters
const (
	PitchWidth  = 68.0
	PitchLength = 105.0
)

//ThirdCornerY is the y of the third target corner. It reuses the pitch length and not the width,
//every transformed coordinate depends on this value so it's kept as is.
const ThirdCornerY = PitchLength

//TargetCorners are the pitch rectangle corners the pixel corners are mapped onto, same order as the pixel corners:
//[bottom-left, top-left, top-right, bottom-right]
var TargetCorners = [4]utils.Point{
	{X: 0, Y: PitchWidth},
	{X: 0, Y: 0},
	{X: PitchLength, Y: ThirdCornerY},
	{X: PitchLength, Y: 0},
}

//FallbackCorners are hand calibrated pixel corners used when nothing can be detected
var FallbackCorners = [4]utils.Point{
	{X: 110, Y: 1035},
	{X: 265, Y: 275},
	{X: 910, Y: 260},
	{X: 1640, Y: 915},
}

var (
	ErrDetectorUnavailable = errors.New("pitch corner detector unavailable")
	ErrWrongCornerCount    = errors.New("pitch corner detector did not return exactly 4 corners")
	ErrNonFiniteCorner     = errors.New("pitch corner detector returned a non finite corner")
)

//CornerDetector finds the 4 pitch corners of a reference frame, ordered [bottom-left, top-left, top-right, bottom-right]
type CornerDetector interface {
	DetectCorners() ([]utils.Point, error)
}

//CornerDetectorFunc adapts a function to CornerDetector
type CornerDetectorFunc func() ([]utils.Point, error)

func (f CornerDetectorFunc) DetectCorners() ([]utils.Point, error) { return f() }

//FailedDetector stands in for a detector that could not be set up, Calibrate records err as the fallback reason
func FailedDetector(err error) CornerDetector {
	return CornerDetectorFunc(func() ([]utils.Point, error) { return nil, err })
}

type CalibrationKind string

const (
	Detected CalibrationKind = "detected"
	Fallback CalibrationKind = "fallback"
)

//Calibration is where the pixel corners came from: Detected, or Fallback with the reason detection was not used
type Calibration struct {
	Kind   CalibrationKind `json:"kind"`
	Points [4]utils.Point  `json:"points"`
	Reason string          `json:"reason,omitempty"`
}

func fallback(reason error) Calibration {
	return Calibration{Kind: Fallback, Points: FallbackCorners, Reason: reason.Error()}
}

//Calibrate asks detector for the pitch corners. Any failure (no detector, error, panic, wrong count, NaN/Inf corner) results in
//a Fallback calibration, it never fails.
func Calibrate(detector CornerDetector) (c Calibration) {
	if detector == nil {
		return fallback(ErrDetectorUnavailable)
	}

	defer func() {
		if r := recover(); r != nil {
			c = fallback(fmt.Errorf("detector panicked: %v", r))
		}
	}()

	pts, err := detector.DetectCorners()
	if err != nil {
		return fallback(err)
	}
	if len(pts) != 4 {
		return fallback(fmt.Errorf("%w: got %d", ErrWrongCornerCount, len(pts)))
	}
	for _, p := range pts {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			return fallback(fmt.Errorf("%w: %v", ErrNonFiniteCorner, p))
		}
	}

	c = Calibration{Kind: Detected}
	copy(c.Points[:], pts)

	return c
}

//OrderCorners drops points at the origin (undetected keypoints) and orders the rest as
//[bottom-left, top-left, top-right, bottom-right]: the two smallest y are the top, the two largest the bottom,
//each pair ordered left to right.
func OrderCorners(pts []utils.Point) ([]utils.Point, error) {
	valid := make([]utils.Point, 0, len(pts))
	for _, p := range pts {
		if p.X == 0 && p.Y == 0 {
			continue
		}
		valid = append(valid, p)
	}

	if len(valid) != 4 {
		return nil, fmt.Errorf("%w: got %d", ErrWrongCornerCount, len(valid))
	}

	sort.SliceStable(valid, func(i, j int) bool { return valid[i].Y < valid[j].Y })
	top, bottom := valid[:2], valid[2:]
	sort.SliceStable(top, func(i, j int) bool { return top[i].X < top[j].X })
	sort.SliceStable(bottom, func(i, j int) bool { return bottom[i].X < bottom[j].X })

	return []utils.Point{bottom[0], top[0], top[1], bottom[1]}, nil
}
