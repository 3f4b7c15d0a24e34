package perspective

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/chenBenjamin97/pitch-analyzer/pkg/tracks"
	"github.com/chenBenjamin97/pitch-analyzer/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestMapperReproducesTargets(t *testing.T) {
	t.Parallel()

	m, err := NewMapper(FallbackCorners)
	require.NoError(t, err)

	for i, p := range FallbackCorners {
		got := m.TransformPoint(p)
		assert.InDelta(t, TargetCorners[i].X, got.X, 1e-6, "corner %d x", i)
		assert.InDelta(t, TargetCorners[i].Y, got.Y, 1e-6, "corner %d y", i)
	}

	batch := m.TransformPoints(FallbackCorners[:])
	require.Len(t, batch, 4)
	assert.InDelta(t, PitchLength, batch[2].Y, 1e-6, "third target corner reuses the pitch length")
}

func TestTransformPointExtrapolates(t *testing.T) {
	t.Parallel()

	//axis aligned square scaled by 2 is an affine map, easy to check off the quadrilateral
	src := [4]utils.Point{{X: 0, Y: 10}, {X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}}
	dst := [4]utils.Point{{X: 0, Y: 20}, {X: 0, Y: 0}, {X: 20, Y: 0}, {X: 20, Y: 20}}
	m, err := newMapper(src, dst)
	require.NoError(t, err)

	got := m.TransformPoint(utils.Point{X: -5, Y: 30})
	assert.InDelta(t, -10.0, got.X, 1e-9)
	assert.InDelta(t, 60.0, got.Y, 1e-9)
}

func TestTransformPointOnHorizon(t *testing.T) {
	t.Parallel()

	//w == x: points with |x| <= FLT_EPSILON sit on the horizon line
	m := &Mapper{h: mat.NewDense(3, 3, []float64{1, 0, 0, 0, 1, 0, 1, 0, 0})}

	assert.Equal(t, utils.Point{}, m.TransformPoint(utils.Point{X: 1e-8, Y: 5}))
	assert.Equal(t, utils.Point{}, m.TransformPoint(utils.Point{X: -1e-7, Y: 5}))
	assert.Equal(t, utils.Point{X: 1, Y: 2.5}, m.TransformPoint(utils.Point{X: 2, Y: 5}))
}

func TestNewMapperDegenerate(t *testing.T) {
	t.Parallel()

	collinear := [4]utils.Point{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2}, {X: 5, Y: 0}}
	_, err := NewMapper(collinear)
	assert.ErrorIs(t, err, ErrDegenerateCorners)

	same := [4]utils.Point{{X: 3, Y: 3}, {X: 3, Y: 3}, {X: 3, Y: 3}, {X: 3, Y: 3}}
	_, err = NewMapper(same)
	assert.ErrorIs(t, err, ErrDegenerateCorners)
}

func TestAddTransformedPositionToTracks(t *testing.T) {
	t.Parallel()

	m, err := NewMapper(FallbackCorners)
	require.NoError(t, err)

	adj := FallbackCorners[1]
	raw := utils.Point{X: 1, Y: 1}
	in := tracks.Tracks{tracks.Players: []tracks.Frame{{
		1: {PositionAdjusted: &adj},
		2: {Position: &raw},
	}}}

	res := m.AddTransformedPositionToTracks(in)

	require.NotNil(t, res[tracks.Players][0][1].PositionTransformed)
	assert.InDelta(t, 0.0, res[tracks.Players][0][1].PositionTransformed.X, 1e-6)
	assert.InDelta(t, 0.0, res[tracks.Players][0][1].PositionTransformed.Y, 1e-6)
	assert.Nil(t, res[tracks.Players][0][2].PositionTransformed, "no adjusted position, no transform")
	assert.Nil(t, in[tracks.Players][0][1].PositionTransformed)
}

func TestCalibrate(t *testing.T) {
	t.Parallel()

	detected := []utils.Point{{X: 100, Y: 1000}, {X: 300, Y: 300}, {X: 900, Y: 290}, {X: 1600, Y: 900}}

	cases := []struct {
		name     string
		detector CornerDetector
		kind     CalibrationKind
	}{
		{"nil detector", nil, Fallback},
		{"detected", CornerDetectorFunc(func() ([]utils.Point, error) { return detected, nil }), Detected},
		{"error", CornerDetectorFunc(func() ([]utils.Point, error) { return nil, errors.New("model missing") }), Fallback},
		{"wrong count", CornerDetectorFunc(func() ([]utils.Point, error) { return detected[:3], nil }), Fallback},
		{"panic", CornerDetectorFunc(func() ([]utils.Point, error) { panic("boom") }), Fallback},
		{"nan corner", CornerDetectorFunc(func() ([]utils.Point, error) {
			return []utils.Point{detected[0], {X: math.NaN(), Y: 300}, detected[2], detected[3]}, nil
		}), Fallback},
		{"inf corner", CornerDetectorFunc(func() ([]utils.Point, error) {
			return []utils.Point{detected[0], detected[1], {X: 900, Y: math.Inf(1)}, detected[3]}, nil
		}), Fallback},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			c := Calibrate(tc.detector)
			assert.Equal(t, tc.kind, c.Kind)
			if tc.kind == Fallback {
				assert.Equal(t, FallbackCorners, c.Points)
				assert.NotEmpty(t, c.Reason)
			} else {
				assert.Equal(t, detected, c.Points[:])
				assert.Empty(t, c.Reason)
			}
		})
	}
}

func TestCalibrateKeepsSetupError(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("%w: 'models/pitch.onnx', got 'no such file'", ErrDetectorUnavailable)
	c := Calibrate(FailedDetector(err))

	assert.Equal(t, Fallback, c.Kind)
	assert.Equal(t, err.Error(), c.Reason)
	assert.Contains(t, c.Reason, "models/pitch.onnx")
}

func TestOrderCorners(t *testing.T) {
	t.Parallel()

	bl := utils.Point{X: 110, Y: 1035}
	tl := utils.Point{X: 265, Y: 275}
	tr := utils.Point{X: 910, Y: 260}
	br := utils.Point{X: 1640, Y: 915}

	got, err := OrderCorners([]utils.Point{tr, br, {}, bl, tl})
	require.NoError(t, err)
	assert.Equal(t, []utils.Point{bl, tl, tr, br}, got)

	_, err = OrderCorners([]utils.Point{tr, br, {}, bl})
	assert.ErrorIs(t, err, ErrWrongCornerCount)
}
