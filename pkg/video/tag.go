package video

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/chenBenjamin97/pitch-analyzer/pkg/pipeline"
	"github.com/chenBenjamin97/pitch-analyzer/pkg/tracks"
	"github.com/chenBenjamin97/pitch-analyzer/pkg/utils"
	"gocv.io/x/gocv"
)

//Tag plots the analysis result above a copy of given frames and saves them to cfg.OutputPath.
//Frames are encoded as XVID into a temporary '.avi' file; in case the output is '.mp4' it's converted with ffmpeg.
func Tag(frames []gocv.Mat, res *pipeline.Result, cfg TagConfig) error {
	ext := strings.ToLower(filepath.Ext(cfg.OutputPath))
	tmpVideoPath := strings.TrimSuffix(cfg.OutputPath, filepath.Ext(cfg.OutputPath)) + ".tmp.avi"

	writePath := cfg.OutputPath
	if ext == ".mp4" {
		writePath = tmpVideoPath
		defer os.Remove(tmpVideoPath) //remove '.avi' temp file at the end of this function
	}

	codec := cfg.Codec
	if codec == "" {
		codec = "XVID"
	}
	fps := cfg.FPS
	if fps <= 0 {
		fps = utils.FrameRate
	}

	tagged := make([]gocv.Mat, 0, len(frames))
	defer func() { CloseFrames(tagged) }()

	labeledTotal := 0
	for frameNum, src := range frames {
		frame := src.Clone()
		labeledTotal += tagFrame(&frame, res, frameNum)
		tagged = append(tagged, frame)
	}

	if err := WriteFrames(writePath, codec, fps, tagged); err != nil {
		return fmt.Errorf("Tag: %w", err)
	}
	log.Printf("Tag: Wrote %d frames, %d speed labels", len(tagged), labeledTotal)

	if ext == ".mp4" {
		//example: ffmpeg -y -i game.tmp.avi game.mp4
		cmd := exec.Command("ffmpeg", "-y", "-i", tmpVideoPath, cfg.OutputPath)
		if err := cmd.Run(); err != nil {
			return fmt.Errorf("Tag: Error from ffmpeg, got '%w'", err)
		}
	}

	return nil
}

func tagFrame(frame *gocv.Mat, res *pipeline.Result, frameNum int) int {
	if frames := res.Tracks[tracks.Players]; frameNum < len(frames) {
		for _, id := range utils.SortedKeys(frames[frameNum]) {
			tr := frames[frameNum][id]
			plotTrackOnFrame(frame, id, tr, colorForTeam(tr.Team))
		}
	}

	if frames := res.Tracks[tracks.Referees]; frameNum < len(frames) {
		for _, id := range utils.SortedKeys(frames[frameNum]) {
			plotTrackOnFrame(frame, id, frames[frameNum][id], refereeColor)
		}
	}

	if frames := res.Tracks[tracks.Ball]; frameNum < len(frames) {
		if tr, ok := frames[frameNum][tracks.BallID]; ok {
			plotBall(frame, tr)
		}
	}

	if frameNum < len(res.TeamBallControl) {
		plotTeamBallControl(frame, res.TeamBallControl, frameNum)
	}

	if frameNum < len(res.CameraMovement) {
		plotCameraMovement(frame, res.CameraMovement[frameNum])
	}

	return plotSpeedAndDistance(frame, res.Tracks, frameNum)
}
