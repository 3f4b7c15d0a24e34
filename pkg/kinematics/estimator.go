//Package kinematics derives per player speed and cumulative distance from pitch positions of consecutive frames.
package kinematics

import (
	"github.com/chenBenjamin97/pitch-analyzer/pkg/tracks"
	"github.com/chenBenjamin97/pitch-analyzer/pkg/utils"
)

//plausibility filter bounds, km/h. Measurements outside (MinSpeedKmh, MaxSpeedKmh) are noise and dropped.
const (
	MinSpeedKmh = 0.5
	MaxSpeedKmh = 40.0
)

//skippedClasses get no speed or distance
var skippedClasses = map[tracks.Class]bool{
	tracks.Ball:     true,
	tracks.Referees: true,
}

//AddSpeedAndDistanceToTracks returns a copy of t with Speed (km/h) and Distance (cumulative meters).
//A measurement for frame i uses the transformed positions of frames i and i+1 and is written on frame i only.
//Afterwards the last known values are carried forward into frames that got no measurement of their own.
func AddSpeedAndDistanceToTracks(t tracks.Tracks) tracks.Tracks {
	res := t.Clone()
	timeElapsed := 1.0 / utils.FrameRate

	for class, frames := range res {
		if skippedClasses[class] {
			continue
		}

		totalDistance := make(map[int]float64)

		for frameNum := 0; frameNum+1 < len(frames); frameNum++ {
			curr, next := frames[frameNum], frames[frameNum+1]

			for trackID, tr := range curr {
				nextTr, ok := next[trackID]
				if !ok || tr.PositionTransformed == nil || nextTr.PositionTransformed == nil {
					continue
				}

				distance := utils.MeasureDistance(*tr.PositionTransformed, *nextTr.PositionTransformed)
				speed := distance / timeElapsed * utils.MetersPerSecondToKmh
				if !plausible(speed) {
					continue
				}

				totalDistance[trackID] += distance
				tr.SetSpeedAndDistance(speed, totalDistance[trackID])
			}
		}

		forwardFill(frames)
	}

	return res
}

func plausible(speedKmh float64) bool {
	return speedKmh > MinSpeedKmh && speedKmh < MaxSpeedKmh
}

//forwardFill copies speed and distance of the previous frame into tracks missing both, frames in ascending order
//so a value carries over any number of frames without measurements
func forwardFill(frames []tracks.Frame) {
	for frameNum := 1; frameNum < len(frames); frameNum++ {
		prev := frames[frameNum-1]
		for trackID, tr := range frames[frameNum] {
			if tr.Speed != nil || tr.Distance != nil {
				continue
			}

			p, ok := prev[trackID]
			if !ok || p.Speed == nil || p.Distance == nil {
				continue
			}
			tr.SetSpeedAndDistance(*p.Speed, *p.Distance)
		}
	}
}
