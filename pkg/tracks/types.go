package tracks

import (
	"github.com/chenBenjamin97/pitch-analyzer/pkg/utils"
)

//Class is an object class produced by the upstream tracker
type Class string

const (
	Players  Class = "players"
	Referees Class = "referees"
	Ball     Class = "ball"
)

//BallID is the fixed track id the tracker gives to the ball
const BallID = 1

//Track is one tracked entity's bounding box at a single frame plus everything the pipeline stages derive from it.
//A nil pointer field means "not set". Each stage owns exactly one group of fields:
//Position (positions stage), PositionAdjusted (camera), PositionTransformed (perspective), Speed+Distance (kinematics), HasBall (possession).
type Track struct {
	BBox                utils.BBox   `json:"bbox"`
	Position            *utils.Point `json:"position,omitempty"`
	PositionAdjusted    *utils.Point `json:"position_adjusted,omitempty"`
	PositionTransformed *utils.Point `json:"position_transformed,omitempty"`
	Speed               *float64     `json:"speed,omitempty"`    //km/h
	Distance            *float64     `json:"distance,omitempty"` //cumulative meters
	Team                *int         `json:"team,omitempty"`
	HasBall             bool         `json:"has_ball,omitempty"`
}

//Frame maps track id -> track for one frame of one class
type Frame map[int]*Track

//Tracks holds, per class, a frame indexed sequence of tracks
type Tracks map[Class][]Frame

func ptrPoint(p utils.Point) *utils.Point { return &p }
func ptrFloat64(v float64) *float64       { return &v }
func ptrInt(v int) *int                   { return &v }

//Clone returns a deep copy of t, so a stage can write its fields without touching its input
func (t Tracks) Clone() Tracks {
	res := make(Tracks, len(t))
	for class, frames := range t {
		res[class] = make([]Frame, len(frames))
		for i, frame := range frames {
			res[class][i] = frame.Clone()
		}
	}

	return res
}

//Clone returns a deep copy of f. Nil tracks (a "null" record) are dropped.
func (f Frame) Clone() Frame {
	if f == nil {
		return nil
	}

	res := make(Frame, len(f))
	for id, tr := range f {
		if tr == nil {
			continue
		}
		res[id] = tr.Clone()
	}

	return res
}

//Clone returns a deep copy of tr
func (tr *Track) Clone() *Track {
	if tr == nil {
		return nil
	}

	c := &Track{HasBall: tr.HasBall}
	if tr.BBox != nil {
		c.BBox = append(utils.BBox(nil), tr.BBox...)
	}
	if tr.Position != nil {
		c.Position = ptrPoint(*tr.Position)
	}
	if tr.PositionAdjusted != nil {
		c.PositionAdjusted = ptrPoint(*tr.PositionAdjusted)
	}
	if tr.PositionTransformed != nil {
		c.PositionTransformed = ptrPoint(*tr.PositionTransformed)
	}
	if tr.Speed != nil {
		c.Speed = ptrFloat64(*tr.Speed)
	}
	if tr.Distance != nil {
		c.Distance = ptrFloat64(*tr.Distance)
	}
	if tr.Team != nil {
		c.Team = ptrInt(*tr.Team)
	}

	return c
}

//FrameCount returns the length of the longest class sequence
func (t Tracks) FrameCount() int {
	n := 0
	for _, frames := range t {
		if len(frames) > n {
			n = len(frames)
		}
	}

	return n
}

//SetSpeedAndDistance sets the kinematics fields of tr
func (tr *Track) SetSpeedAndDistance(speed, distance float64) {
	tr.Speed = ptrFloat64(speed)
	tr.Distance = ptrFloat64(distance)
}

//SetTeam sets tr's team
func (tr *Track) SetTeam(team int) {
	tr.Team = ptrInt(team)
}
