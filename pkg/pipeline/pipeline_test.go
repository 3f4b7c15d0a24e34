package pipeline

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/chenBenjamin97/pitch-analyzer/pkg/camera"
	"github.com/chenBenjamin97/pitch-analyzer/pkg/perspective"
	"github.com/chenBenjamin97/pitch-analyzer/pkg/possession"
	"github.com/chenBenjamin97/pitch-analyzer/pkg/tracks"
	"github.com/chenBenjamin97/pitch-analyzer/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

//sampleTracks has player 7 walking right near the ball for n frames
func sampleTracks(n int) tracks.Tracks {
	t := tracks.Tracks{
		tracks.Players:  make([]tracks.Frame, n),
		tracks.Referees: make([]tracks.Frame, n),
		tracks.Ball:     make([]tracks.Frame, n),
	}
	for i := 0; i < n; i++ {
		x := 700 + float64(i)*2
		t[tracks.Players][i] = tracks.Frame{7: {BBox: utils.BBox{x - 20, 500, x + 20, 600}}}
		t[tracks.Players][i][7].SetTeam(1)
		t[tracks.Referees][i] = tracks.Frame{}
		t[tracks.Ball][i] = tracks.Frame{tracks.BallID: {BBox: utils.BBox{x - 5, 590, x + 5, 600}}}
	}
	return t
}

func TestRunTrackOnly(t *testing.T) {
	t.Parallel()

	res, err := New(camera.DefaultConfig(), quietLogger()).Run(Input{Tracks: sampleTracks(5)})
	require.NoError(t, err)

	assert.Equal(t, perspective.Fallback, res.Calibration.Kind)
	assert.Equal(t, make([]camera.Vector, 5), res.CameraMovement)

	for i, frame := range res.Tracks[tracks.Players] {
		tr := frame[7]
		require.NotNil(t, tr.Position, "frame %d", i)
		require.NotNil(t, tr.PositionAdjusted, "frame %d", i)
		require.NotNil(t, tr.PositionTransformed, "frame %d", i)
		assert.Equal(t, *tr.Position, *tr.PositionAdjusted, "static camera")
	}

	assert.Equal(t, []int{7, 7, 7, 7, 7}, res.Holders)
	assert.Equal(t, []int{1, 1, 1, 1, 1}, res.TeamBallControl)
	assert.True(t, res.Tracks[tracks.Players][0][7].HasBall)
}

func TestRunUsesDetectedCorners(t *testing.T) {
	t.Parallel()

	corners := []utils.Point{{X: 100, Y: 1000}, {X: 300, Y: 300}, {X: 900, Y: 290}, {X: 1600, Y: 900}}
	in := Input{
		Tracks:         sampleTracks(3),
		CornerDetector: perspective.CornerDetectorFunc(func() ([]utils.Point, error) { return corners, nil }),
	}

	res, err := New(camera.DefaultConfig(), quietLogger()).Run(in)
	require.NoError(t, err)
	assert.Equal(t, perspective.Detected, res.Calibration.Kind)
}

func TestRunDegenerateCornersIsFatal(t *testing.T) {
	t.Parallel()

	line := []utils.Point{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2}, {X: 3, Y: 3}}
	in := Input{
		Tracks:         sampleTracks(3),
		CornerDetector: perspective.CornerDetectorFunc(func() ([]utils.Point, error) { return line, nil }),
	}

	_, err := New(camera.DefaultConfig(), quietLogger()).Run(in)
	assert.True(t, errors.Is(err, perspective.ErrDegenerateCorners))
}

func TestRunCameraMovement(t *testing.T) {
	t.Parallel()

	movement := []camera.Vector{{}, {DX: 10, DY: 0}, {}}
	res, err := New(camera.DefaultConfig(), quietLogger()).Run(Input{Tracks: sampleTracks(3), CameraMovement: movement})
	require.NoError(t, err)

	tr := res.Tracks[tracks.Players][1][7]
	assert.Equal(t, tr.Position.X-10, tr.PositionAdjusted.X)

	_, err = New(camera.DefaultConfig(), quietLogger()).Run(Input{Tracks: sampleTracks(3), CameraMovement: movement[:2]})
	assert.Error(t, err)
}

func TestRunSurvivesMalformedRecords(t *testing.T) {
	t.Parallel()

	in := sampleTracks(3)
	in[tracks.Players][1][9] = &tracks.Track{BBox: utils.BBox{1, 2}}
	in[tracks.Ball][2] = tracks.Frame{}

	res, err := New(camera.DefaultConfig(), quietLogger()).Run(Input{Tracks: in})
	require.NoError(t, err)

	assert.Nil(t, res.Tracks[tracks.Players][1][9].Position)
	assert.NotEqual(t, possession.NoPlayer, res.Holders[2], "ball gap is forward filled")
}

func TestRunSkipsNullRecords(t *testing.T) {
	t.Parallel()

	in := sampleTracks(3)
	in[tracks.Players][1][8] = nil
	in[tracks.Ball][2][tracks.BallID] = nil

	var res *Result
	require.NotPanics(t, func() {
		var err error
		res, err = New(camera.DefaultConfig(), quietLogger()).Run(Input{Tracks: in})
		require.NoError(t, err)
	})

	assert.NotContains(t, res.Tracks[tracks.Players][1], 8)
	require.Contains(t, res.Tracks[tracks.Ball][2], tracks.BallID, "gap is filled from the last known ball")
	assert.NotNil(t, res.Tracks[tracks.Ball][2][tracks.BallID].Position)
	assert.Equal(t, []int{7, 7, 7}, res.Holders)
}
