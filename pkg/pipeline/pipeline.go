//Package pipeline runs the analysis stages in their fixed order. Each stage gets the previous stage's snapshot
//and returns a new one, so every track field is written by exactly one stage.
package pipeline

import (
	"fmt"
	"log/slog"

	"github.com/chenBenjamin97/pitch-analyzer/pkg/camera"
	"github.com/chenBenjamin97/pitch-analyzer/pkg/kinematics"
	"github.com/chenBenjamin97/pitch-analyzer/pkg/perspective"
	"github.com/chenBenjamin97/pitch-analyzer/pkg/possession"
	"github.com/chenBenjamin97/pitch-analyzer/pkg/tracks"
)

type Input struct {
	Tracks tracks.Tracks
	//FrameCount is the number of video frames, 0 means use the tracks' length
	FrameCount int

	//FeatureTracker estimates camera movement from the frames. Without one CameraMovement is used,
	//and without that the camera is considered static.
	FeatureTracker camera.FeatureTracker
	CameraMovement []camera.Vector
	CameraCache    camera.CacheOptions

	//CornerDetector is asked for the pitch corners, nil means fallback corners
	CornerDetector perspective.CornerDetector
}

type Result struct {
	Tracks          tracks.Tracks           `json:"tracks"`
	CameraMovement  []camera.Vector         `json:"camera_movement"`
	Calibration     perspective.Calibration `json:"calibration"`
	Holders         []int                   `json:"holders"`
	TeamBallControl []int                   `json:"team_ball_control"`
}

type Pipeline struct {
	estimator *camera.Estimator
	logger    *slog.Logger
}

func New(cfg camera.Config, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}

	return &Pipeline{estimator: camera.NewEstimator(cfg), logger: logger}
}

//Run executes every stage. Only construction failures (invalid camera movement input, degenerate pitch corners) are returned,
//bad records inside the tracks never abort the run.
func (p *Pipeline) Run(in Input) (*Result, error) {
	frameCount := in.FrameCount
	if frameCount == 0 {
		frameCount = in.Tracks.FrameCount()
	}

	t := tracks.InterpolateBall(in.Tracks)
	t = tracks.AddPositions(t)

	movement, err := p.cameraMovement(in, frameCount)
	if err != nil {
		return nil, err
	}
	t = camera.AddAdjustPositionsToTracks(t, movement)
	p.logger.Info("camera movement estimated", "frames", frameCount, "moving_frames", countMoving(movement))

	calibration := perspective.Calibrate(in.CornerDetector)
	if calibration.Kind == perspective.Fallback {
		p.logger.Warn("using fallback pitch corners", "reason", calibration.Reason)
	} else {
		p.logger.Info("pitch corners detected", "corners", calibration.Points)
	}

	mapper, err := perspective.NewMapper(calibration.Points)
	if err != nil {
		return nil, fmt.Errorf("Run: %w", err)
	}
	t = mapper.AddTransformedPositionToTracks(t)

	t = kinematics.AddSpeedAndDistanceToTracks(t)

	t, holders := possession.AssignPossession(t)
	control := possession.TeamBallControl(t, holders)
	p.logger.Info("possession assigned", "frames_with_holder", countHeld(holders), "share", possession.ControlShare(control))

	return &Result{
		Tracks:          t,
		CameraMovement:  movement,
		Calibration:     calibration,
		Holders:         holders,
		TeamBallControl: control,
	}, nil
}

func (p *Pipeline) cameraMovement(in Input, frameCount int) ([]camera.Vector, error) {
	if in.FeatureTracker != nil {
		return p.estimator.GetCameraMovement(in.FeatureTracker, frameCount, in.CameraCache)
	}

	if in.CameraMovement != nil {
		if len(in.CameraMovement) != frameCount {
			return nil, fmt.Errorf("Run: Camera movement has %d entries for %d frames", len(in.CameraMovement), frameCount)
		}
		return in.CameraMovement, nil
	}

	return make([]camera.Vector, frameCount), nil
}

func countMoving(movement []camera.Vector) int {
	n := 0
	for _, m := range movement {
		if m != (camera.Vector{}) {
			n++
		}
	}

	return n
}

func countHeld(holders []int) int {
	n := 0
	for _, h := range holders {
		if h != possession.NoPlayer {
			n++
		}
	}

	return n
}
