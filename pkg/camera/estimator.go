//Package camera estimates the per frame global displacement of the broadcast camera and removes it from track positions.
package camera

import (
	"log"

	"github.com/chenBenjamin97/pitch-analyzer/pkg/cache"
	"github.com/chenBenjamin97/pitch-analyzer/pkg/tracks"
	"github.com/chenBenjamin97/pitch-analyzer/pkg/utils"
)

//Vector is the camera displacement of one frame relative to the previous one, in pixels
type Vector struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

//FeatureTracker is the image side of the estimator: it finds corners inside the search bands of a frame
//and follows them from one frame into another with sparse optical flow.
type FeatureTracker interface {
	//Features returns the background corners of frame. An empty result means there is nothing to track.
	Features(frame int) ([]utils.Point, error)
	//Flow tracks pts from frame prev into frame next. ok[i] reports whether pts[i] was found.
	Flow(prev, next int, pts []utils.Point) (tracked []utils.Point, ok []bool, err error)
}

//CacheOptions configures the read-through/ write-through cache of GetCameraMovement
type CacheOptions struct {
	Store cache.Store
	Key   string
	Read  bool //use a cached value when one exists
}

type Estimator struct {
	cfg Config
}

func NewEstimator(cfg Config) *Estimator {
	return &Estimator{cfg: cfg}
}

//Config returns estimator's configuration, trackers use it to set up their search bands and parameters
func (e *Estimator) Config() Config {
	return e.cfg
}

//GetCameraMovement returns one Vector per frame, frame 0 is always (0,0).
//For every frame the largest displacement among the tracked features is taken as the camera movement,
//in case it's not larger than MinimumDistance the frame is considered static and features are kept for the next step.
func (e *Estimator) GetCameraMovement(tracker FeatureTracker, frameCount int, opts CacheOptions) ([]Vector, error) {
	if opts.Store != nil && opts.Key != "" && opts.Read {
		var cached []Vector
		found, err := opts.Store.Load(opts.Key, &cached)
		if err != nil {
			log.Printf("GetCameraMovement: Could not read cache '%s', got '%v'. Recomputing.", opts.Key, err)
		} else if found {
			return cached, nil
		}
	}

	movement := e.estimate(tracker, frameCount)

	if opts.Store != nil && opts.Key != "" {
		if err := opts.Store.Save(opts.Key, movement); err != nil {
			log.Printf("GetCameraMovement: Could not write cache '%s', got '%v'", opts.Key, err)
		}
	}

	return movement, nil
}

func (e *Estimator) estimate(tracker FeatureTracker, frameCount int) []Vector {
	movement := make([]Vector, frameCount)
	if frameCount < 2 || tracker == nil {
		return movement
	}

	prevFrame := 0
	features, err := tracker.Features(prevFrame)
	if err != nil {
		log.Printf("GetCameraMovement: Could not detect features on frame 0, got '%v'", err)
		features = nil
	}

	for frame := 1; frame < frameCount; frame++ {
		if len(features) == 0 {
			if features, err = tracker.Features(prevFrame); err != nil || len(features) == 0 {
				continue //feature starvation, this step stays (0,0)
			}
		}

		tracked, ok, err := tracker.Flow(prevFrame, frame, features)
		if err != nil {
			log.Printf("GetCameraMovement: Optical flow failed on frame %d, got '%v'", frame, err)
			continue
		}

		maxDistance := 0.0
		var best Vector
		for i := range features {
			if i >= len(tracked) || i >= len(ok) || !ok[i] {
				continue
			}

			distance := utils.MeasureDistance(tracked[i], features[i])
			if distance > maxDistance {
				maxDistance = distance
				dx, dy := utils.MeasureXYDistance(tracked[i], features[i])
				best = Vector{DX: dx, DY: dy}
			}
		}

		if maxDistance > e.cfg.MinimumDistance {
			movement[frame] = best
			if features, err = tracker.Features(frame); err != nil {
				log.Printf("GetCameraMovement: Could not detect features on frame %d, got '%v'", frame, err)
				features = nil
			}
		}

		prevFrame = frame
	}

	return movement
}

//AddAdjustPositionsToTracks returns a copy of t where every track with a position gets
//PositionAdjusted = Position - movement[frame]. Tracks without a position are left as they are.
func AddAdjustPositionsToTracks(t tracks.Tracks, movement []Vector) tracks.Tracks {
	res := t.Clone()
	for _, frames := range res {
		for frameNum, frame := range frames {
			if frameNum >= len(movement) {
				break
			}

			m := utils.Point{X: movement[frameNum].DX, Y: movement[frameNum].DY}
			for _, tr := range frame {
				if tr.Position == nil {
					continue
				}
				adjusted := tr.Position.Sub(m)
				tr.PositionAdjusted = &adjusted
			}
		}
	}

	return res
}
