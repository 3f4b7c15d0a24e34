//Package possession decides, frame by frame, which player controls the ball.
package possession

import (
	"math"

	"github.com/chenBenjamin97/pitch-analyzer/pkg/tracks"
	"github.com/chenBenjamin97/pitch-analyzer/pkg/utils"
)

//MaxPlayerBallDistance is the nominal player to ball distance threshold, pixels
const MaxPlayerBallDistance = 70.0

//NoPlayer is returned when nobody is close enough to the ball
const NoPlayer = utils.NoPlayer

//admitted is the player to ball admission test. It compares distance with the threshold minus the distance,
//so the effective radius is MaxPlayerBallDistance/2.
func admitted(distance float64) bool {
	return distance < MaxPlayerBallDistance-distance
}

//AssignBallToPlayer returns the id of the player closest to the ball, or NoPlayer.
//A player's distance is the smaller distance of its two bottom bbox corners to the ball center.
//Players are visited in ascending id order, on a tie the first one wins.
func AssignBallToPlayer(players tracks.Frame, ballBBox utils.BBox) int {
	ball, ok := utils.CenterOfBBox(ballBBox)
	if !ok {
		return NoPlayer
	}

	minimumDistance := math.Inf(1)
	assigned := NoPlayer

	for _, id := range utils.SortedKeys(players) {
		bbox := players[id].BBox
		if !utils.IsValidBBox(bbox) {
			continue
		}

		distanceLeft := utils.MeasureDistance(utils.Point{X: bbox[0], Y: bbox[3]}, ball)
		distanceRight := utils.MeasureDistance(utils.Point{X: bbox[2], Y: bbox[3]}, ball)
		distance := math.Min(distanceLeft, distanceRight)

		if admitted(distance) && distance < minimumDistance {
			minimumDistance = distance
			assigned = id
		}
	}

	return assigned
}

//AssignPossession runs AssignBallToPlayer on every frame. It returns a copy of t where the holder is marked
//with HasBall, and the holder id (or NoPlayer) per player frame.
func AssignPossession(t tracks.Tracks) (tracks.Tracks, []int) {
	res := t.Clone()
	players := res[tracks.Players]
	balls := res[tracks.Ball]

	holders := make([]int, len(players))
	for frameNum, frame := range players {
		holders[frameNum] = NoPlayer
		if frameNum >= len(balls) {
			continue
		}

		ball, ok := balls[frameNum][tracks.BallID]
		if !ok {
			continue
		}

		if id := AssignBallToPlayer(frame, ball.BBox); id != NoPlayer {
			frame[id].HasBall = true
			holders[frameNum] = id
		}
	}

	return res, holders
}

//TeamBallControl returns, per frame, the team of the last player that had the ball.
//Frames before anyone had it get utils.NoTeam, as do holders without a team.
func TeamBallControl(t tracks.Tracks, holders []int) []int {
	players := t[tracks.Players]
	control := make([]int, len(holders))

	last := utils.NoTeam
	for frameNum, id := range holders {
		if id != NoPlayer && frameNum < len(players) {
			last = utils.NoTeam
			if tr, ok := players[frameNum][id]; ok && tr.Team != nil {
				last = *tr.Team
			}
		}
		control[frameNum] = last
	}

	return control
}

//ControlShare returns the fraction of frames each team controlled the ball, frames with utils.NoTeam are not counted
func ControlShare(control []int) map[int]float64 {
	counts := make(map[int]int)
	total := 0
	for _, team := range control {
		if team == utils.NoTeam {
			continue
		}
		counts[team]++
		total++
	}

	res := make(map[int]float64, len(counts))
	for team, c := range counts {
		res[team] = float64(c) / float64(total)
	}

	return res
}
