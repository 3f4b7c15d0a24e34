package video

import (
	"errors"
	"fmt"
	"image"
	"os"

	"github.com/chenBenjamin97/pitch-analyzer/pkg/perspective"
	"github.com/chenBenjamin97/pitch-analyzer/pkg/utils"
	"gocv.io/x/gocv"
)

var ErrModelUnavailable = fmt.Errorf("pitch keypoint model unavailable: %w", perspective.ErrDetectorUnavailable)

//DefaultKeypointInputSize is the square input the pose model was exported with
const DefaultKeypointInputSize = 640

//PitchKeypointDetector runs a YOLO pose model (ONNX) on a reference frame and returns the pitch corners.
//The model outputs one row set per candidate: [cx, cy, w, h, conf, k0x, k0y, k0conf, k1x, ...].
type PitchKeypointDetector struct {
	net       gocv.Net
	frame     gocv.Mat
	inputSize int
}

//NewPitchKeypointDetector loads the model at modelPath, it returns ErrModelUnavailable if it can't
func NewPitchKeypointDetector(modelPath string, frame gocv.Mat, inputSize int) (*PitchKeypointDetector, error) {
	if _, err := os.Stat(modelPath); err != nil {
		return nil, fmt.Errorf("%w: '%s', got '%v'", ErrModelUnavailable, modelPath, err)
	}

	net := gocv.ReadNetFromONNX(modelPath)
	if net.Empty() {
		return nil, fmt.Errorf("%w: could not load '%s'", ErrModelUnavailable, modelPath)
	}

	net.SetPreferableBackend(gocv.NetBackendDefault)
	net.SetPreferableTarget(gocv.NetTargetCPU)

	if inputSize <= 0 {
		inputSize = DefaultKeypointInputSize
	}

	return &PitchKeypointDetector{net: net, frame: frame, inputSize: inputSize}, nil
}

//DetectCorners implements perspective.CornerDetector
func (d *PitchKeypointDetector) DetectCorners() ([]utils.Point, error) {
	if d.frame.Empty() {
		return nil, errors.New("DetectCorners: Empty reference frame")
	}

	blob := gocv.BlobFromImage(d.frame, 1.0/255.0, image.Pt(d.inputSize, d.inputSize), gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	d.net.SetInput(blob, "")
	out := d.net.Forward("")
	defer out.Close()

	size := out.Size()
	if len(size) != 3 {
		return nil, fmt.Errorf("DetectCorners: Unexpected model output shape %v", size)
	}
	rows, candidates := size[1], size[2]
	if rows < 5 || (rows-5)%3 != 0 {
		return nil, fmt.Errorf("DetectCorners: Unexpected model output shape %v", size)
	}

	data, err := out.DataPtrFloat32()
	if err != nil {
		return nil, fmt.Errorf("DetectCorners: Could not read model output, got '%w'", err)
	}

	//output is [1, rows, candidates], value (r, c) lives at r*candidates+c
	at := func(r, c int) float64 { return float64(data[r*candidates+c]) }

	best, bestConf := -1, 0.0
	for c := 0; c < candidates; c++ {
		if conf := at(4, c); conf > bestConf {
			best, bestConf = c, conf
		}
	}
	if best == -1 {
		return nil, fmt.Errorf("%w: no pitch found", perspective.ErrWrongCornerCount)
	}

	scaleX := float64(d.frame.Cols()) / float64(d.inputSize)
	scaleY := float64(d.frame.Rows()) / float64(d.inputSize)

	keypoints := make([]utils.Point, 0, (rows-5)/3)
	for k := 0; 5+3*k+2 < rows; k++ {
		x, y := at(5+3*k, best), at(5+3*k+1, best)
		if x == 0 && y == 0 { //not detected, OrderCorners drops it
			keypoints = append(keypoints, utils.Point{})
			continue
		}
		keypoints = append(keypoints, utils.Point{X: x * scaleX, Y: y * scaleY})
	}

	return perspective.OrderCorners(keypoints)
}

func (d *PitchKeypointDetector) Close() error {
	return d.net.Close()
}
