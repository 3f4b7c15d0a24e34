package kinematics

import (
	"github.com/chenBenjamin97/pitch-analyzer/pkg/tracks"
	"github.com/chenBenjamin97/pitch-analyzer/pkg/utils"
)

//label layout below the player's feet, pixels
const (
	labelOffsetY      = 40
	labelLineSpacingY = 25
)

//Anchor is where the speed/ distance label of one track is drawn
type Anchor struct {
	Speed       utils.Point //first line
	Distance    utils.Point //second line
	HasDistance bool        //second line fits inside the frame
}

//LabelAnchor returns the label position of a track with given bbox on a frame of width x height.
//The label sits 40px under the foot position and must be inside the frame, otherwise ok is false and
//the track is not labeled on this frame.
func LabelAnchor(bbox utils.BBox, width, height int) (Anchor, bool) {
	foot, ok := utils.FootPosition(bbox)
	if !ok {
		return Anchor{}, false
	}

	p := utils.Point{X: foot.X, Y: foot.Y + labelOffsetY}
	if p.X < 0 || p.X >= float64(width) || p.Y < 0 || p.Y >= float64(height) {
		return Anchor{}, false
	}

	second := utils.Point{X: p.X, Y: p.Y + labelLineSpacingY}
	return Anchor{Speed: p, Distance: second, HasDistance: second.Y < float64(height)}, true
}

//Labeled returns, in ascending order, ids of the tracks of given frame that carry speed and distance
//and whose label fits a width x height frame
func Labeled(t tracks.Tracks, frameNum, width, height int) map[tracks.Class][]int {
	res := make(map[tracks.Class][]int)
	for class, frames := range t {
		if skippedClasses[class] || frameNum >= len(frames) {
			continue
		}

		frame := frames[frameNum]
		for _, id := range utils.SortedKeys(frame) {
			tr := frame[id]
			if tr.Speed == nil || tr.Distance == nil {
				continue
			}
			if _, ok := LabelAnchor(tr.BBox, width, height); ok {
				res[class] = append(res[class], id)
			}
		}
	}

	return res
}
