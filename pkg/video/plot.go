package video

import (
	"fmt"
	"image"
	"image/color"

	"github.com/chenBenjamin97/pitch-analyzer/pkg/camera"
	"github.com/chenBenjamin97/pitch-analyzer/pkg/kinematics"
	"github.com/chenBenjamin97/pitch-analyzer/pkg/tracks"
	"github.com/chenBenjamin97/pitch-analyzer/pkg/utils"
	"gocv.io/x/gocv"
)

//plotTrackOnFrame plots given track's bounding box and id, a holder of the ball gets a marker above its head
func plotTrackOnFrame(frame *gocv.Mat, id int, tr *tracks.Track, plotColor color.RGBA) {
	if !utils.IsValidBBox(tr.BBox) {
		return
	}

	boundingBoxRect := image.Rect(int(tr.BBox[0]), int(tr.BBox[1]), int(tr.BBox[2]), int(tr.BBox[3]))
	gocv.Rectangle(frame, boundingBoxRect, plotColor, 2)

	startPoint := image.Pt(boundingBoxRect.Min.X, boundingBoxRect.Min.Y-5)
	textBackgroundRect := image.Rect(startPoint.X, startPoint.Y-15, startPoint.X+45, startPoint.Y+3)
	gocv.Rectangle(frame, textBackgroundRect, plotColor, -1) //thickness -1 == filled rectangle
	gocv.PutText(frame, fmt.Sprintf("%d", id), startPoint, gocv.FontHersheyPlain, 1, textColor, 2)

	if tr.HasBall {
		top := image.Pt((boundingBoxRect.Min.X+boundingBoxRect.Max.X)/2, boundingBoxRect.Min.Y-25)
		gocv.Circle(frame, top, 6, holderColor, -1)
	}
}

//plotBall plots a marker on the ball's center
func plotBall(frame *gocv.Mat, tr *tracks.Track) {
	center, ok := utils.CenterOfBBox(tr.BBox)
	if !ok {
		return
	}

	gocv.Circle(frame, image.Pt(int(center.X), int(center.Y)), 8, ballColor, 2)
}

//plotCameraMovement plots the camera displacement of this frame in the top left corner
func plotCameraMovement(frame *gocv.Mat, movement camera.Vector) {
	overlay := frame.Clone()
	defer overlay.Close()

	gocv.Rectangle(&overlay, image.Rect(0, 0, 500, 100), whiteRGB, -1)
	alpha := 0.6
	gocv.AddWeighted(overlay, alpha, *frame, 1-alpha, 0, frame)

	gocv.PutText(frame, fmt.Sprintf("camera movement X:%.2f", movement.DX), image.Pt(10, 30), gocv.FontHersheySimplex, 1, color.RGBA{255, 0, 0, 0}, 2)
	gocv.PutText(frame, fmt.Sprintf("camera movement Y:%.2f", movement.DY), image.Pt(10, 60), gocv.FontHersheySimplex, 1, color.RGBA{255, 0, 0, 0}, 2)
}

//plotSpeedAndDistance writes speed and distance under every labeled player. Tracks whose label does not fit
//the frame are skipped, see kinematics.LabelAnchor.
func plotSpeedAndDistance(frame *gocv.Mat, t tracks.Tracks, frameNum int) int {
	drawn := 0
	for class, ids := range kinematics.Labeled(t, frameNum, frame.Cols(), frame.Rows()) {
		for _, id := range ids {
			tr := t[class][frameNum][id]
			anchor, _ := kinematics.LabelAnchor(tr.BBox, frame.Cols(), frame.Rows())

			plotOutlinedText(frame, fmt.Sprintf("%.2f km/h", *tr.Speed), anchor.Speed)
			if anchor.HasDistance {
				plotOutlinedText(frame, fmt.Sprintf("%.2f m", *tr.Distance), anchor.Distance)
			}
			drawn++
		}
	}

	return drawn
}

//plotTeamBallControl plots each team's share of ball control up to this frame in the bottom right corner
func plotTeamBallControl(frame *gocv.Mat, control []int, frameNum int) {
	counts := make(map[int]int)
	total := 0
	for _, team := range control[:frameNum+1] {
		if team == utils.NoTeam {
			continue
		}
		counts[team]++
		total++
	}
	if total == 0 {
		return
	}

	w, h := frame.Cols(), frame.Rows()
	gocv.Rectangle(frame, image.Rect(w-520, h-120, w-20, h-20), whiteRGB, -1)

	line := 0
	for _, team := range utils.SortedKeys(counts) {
		text := fmt.Sprintf("Team %d Ball Control: %.2f%%", team, 100*float64(counts[team])/float64(total))
		gocv.PutText(frame, text, image.Pt(w-500, h-80+line*35), gocv.FontHersheySimplex, 0.8, textColor, 2)
		line++
	}
}

func plotOutlinedText(frame *gocv.Mat, text string, p utils.Point) {
	pt := image.Pt(int(p.X), int(p.Y))
	gocv.PutText(frame, text, pt, gocv.FontHersheySimplex, 0.6, textColor, 3)
	gocv.PutText(frame, text, pt, gocv.FontHersheySimplex, 0.6, whiteRGB, 1)
}
