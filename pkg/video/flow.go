package video

import (
	"encoding/binary"
	"fmt"
	"image"
	"math"

	"github.com/chenBenjamin97/pitch-analyzer/pkg/camera"
	"github.com/chenBenjamin97/pitch-analyzer/pkg/utils"
	"gocv.io/x/gocv"
)

//LKTracker finds Shi-Tomasi corners in the background bands of a frame and tracks them with pyramidal Lucas-Kanade.
//It implements camera.FeatureTracker over an in memory frame sequence.
type LKTracker struct {
	frames   []gocv.Mat
	bands    []camera.Band
	features camera.FeatureParams
	flow     camera.FlowParams

	//grayscale frames, only the last couple are kept
	gray map[int]gocv.Mat
}

//NewLKTracker configures the search bands from the first frame's width
func NewLKTracker(frames []gocv.Mat, cfg camera.Config) (*LKTracker, error) {
	if len(frames) == 0 {
		return nil, fmt.Errorf("NewLKTracker: No frames")
	}

	bands := cfg.SearchBands(frames[0].Cols())
	if len(bands) == 0 {
		return nil, fmt.Errorf("NewLKTracker: No search band fits a %d pixels wide frame", frames[0].Cols())
	}

	return &LKTracker{
		frames:   frames,
		bands:    bands,
		features: cfg.Features,
		flow:     cfg.Flow,
		gray:     make(map[int]gocv.Mat),
	}, nil
}

func (t *LKTracker) grayscale(frame int) (gocv.Mat, error) {
	if g, ok := t.gray[frame]; ok {
		return g, nil
	}

	if frame < 0 || frame >= len(t.frames) {
		return gocv.Mat{}, fmt.Errorf("LKTracker: Frame %d out of range", frame)
	}

	g := gocv.NewMat()
	gocv.CvtColor(t.frames[frame], &g, gocv.ColorBGRToGray)
	if g.Empty() {
		g.Close()
		return gocv.Mat{}, fmt.Errorf("LKTracker: Could not convert frame %d to grayscale", frame)
	}

	//frames are visited in ascending order, nothing older than frame-1 is asked for again
	for k, old := range t.gray {
		if k < frame-1 {
			old.Close()
			delete(t.gray, k)
		}
	}
	t.gray[frame] = g

	return g, nil
}

//Features returns up to MaxCorners corners found inside the search bands
func (t *LKTracker) Features(frame int) ([]utils.Point, error) {
	g, err := t.grayscale(frame)
	if err != nil {
		return nil, err
	}

	pts := make([]utils.Point, 0, t.features.MaxCorners)
	for _, b := range t.bands {
		roi := g.Region(image.Rect(b.From, 0, b.To, g.Rows()))
		corners := gocv.NewMat()

		gocv.GoodFeaturesToTrack(roi, &corners, t.features.MaxCorners, t.features.QualityLevel, t.features.MinDistance)

		found, err := readPoints(corners)
		corners.Close()
		roi.Close()
		if err != nil {
			return nil, err
		}

		for _, p := range found { //band coordinates back to frame coordinates
			pts = append(pts, utils.Point{X: p.X + float64(b.From), Y: p.Y})
		}
	}

	if len(pts) > t.features.MaxCorners {
		pts = pts[:t.features.MaxCorners]
	}

	return pts, nil
}

//Flow tracks pts from frame prev into frame next
func (t *LKTracker) Flow(prev, next int, pts []utils.Point) ([]utils.Point, []bool, error) {
	if len(pts) == 0 {
		return nil, nil, nil
	}

	prevGray, err := t.grayscale(prev)
	if err != nil {
		return nil, nil, err
	}
	nextGray, err := t.grayscale(next)
	if err != nil {
		return nil, nil, err
	}

	prevPts, err := pointsMat(pts)
	if err != nil {
		return nil, nil, err
	}
	defer prevPts.Close()

	nextPts := gocv.NewMat()
	defer nextPts.Close()
	status := gocv.NewMat()
	defer status.Close()
	errMat := gocv.NewMat()
	defer errMat.Close()

	criteria := gocv.NewTermCriteria(gocv.Count|gocv.EPS, t.flow.MaxIterations, t.flow.Epsilon)
	gocv.CalcOpticalFlowPyrLKWithParams(prevGray, nextGray, prevPts, nextPts, &status, &errMat,
		image.Pt(t.flow.WindowSize, t.flow.WindowSize), t.flow.MaxLevel, criteria, 0, 1e-4)

	tracked, err := readPoints(nextPts)
	if err != nil {
		return nil, nil, err
	}
	if len(tracked) != len(pts) || status.Rows() != len(pts) {
		return nil, nil, fmt.Errorf("LKTracker: Optical flow returned %d points for %d features", len(tracked), len(pts))
	}

	ok := make([]bool, len(pts))
	for i := range ok {
		ok[i] = status.GetUCharAt(i, 0) == 1
	}

	return tracked, ok, nil
}

//Close releases the cached grayscale frames, the source frames belong to the caller
func (t *LKTracker) Close() {
	for k, g := range t.gray {
		g.Close()
		delete(t.gray, k)
	}
}

//readPoints reads an Nx1 CV_32FC2 mat
func readPoints(m gocv.Mat) ([]utils.Point, error) {
	if m.Empty() {
		return nil, nil
	}

	data, err := m.DataPtrFloat32()
	if err != nil {
		return nil, fmt.Errorf("LKTracker: Could not read points, got '%w'", err)
	}

	pts := make([]utils.Point, len(data)/2)
	for i := range pts {
		pts[i] = utils.Point{X: float64(data[2*i]), Y: float64(data[2*i+1])}
	}

	return pts, nil
}

//pointsMat builds an Nx1 CV_32FC2 mat from pts
func pointsMat(pts []utils.Point) (gocv.Mat, error) {
	buf := make([]byte, 0, len(pts)*8)
	for _, p := range pts {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(float32(p.X)))
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(float32(p.Y)))
	}

	m, err := gocv.NewMatFromBytes(len(pts), 1, gocv.MatTypeCV32FC2, buf)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("LKTracker: Could not build points mat, got '%w'", err)
	}
	defer m.Close()

	//the mat may only wrap buf, clone so it owns its data
	return m.Clone(), nil
}
