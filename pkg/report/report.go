//Package report renders per player charts of an analysis.
package report

import (
	"fmt"

	"github.com/chenBenjamin97/pitch-analyzer/pkg/tracks"
	"github.com/chenBenjamin97/pitch-analyzer/pkg/utils"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

//DistanceSeries returns, per player id, the (frame, cumulative distance) points of every frame that has a distance
func DistanceSeries(t tracks.Tracks) map[int]plotter.XYs {
	res := make(map[int]plotter.XYs)
	for frameNum, frame := range t[tracks.Players] {
		for id, tr := range frame {
			if tr.Distance == nil {
				continue
			}
			res[id] = append(res[id], plotter.XY{X: float64(frameNum), Y: *tr.Distance})
		}
	}

	return res
}

//DistanceChart saves a png line chart of every player's cumulative distance over the frames
func DistanceChart(t tracks.Tracks, path string) error {
	series := DistanceSeries(t)
	if len(series) == 0 {
		return fmt.Errorf("DistanceChart: No player has a distance")
	}

	p := plot.New()
	p.Title.Text = "Distance covered"
	p.X.Label.Text = "Frame"
	p.Y.Label.Text = "Distance (m)"
	p.Add(plotter.NewGrid())

	for i, id := range utils.SortedKeys(series) {
		line, err := plotter.NewLine(series[id])
		if err != nil {
			return fmt.Errorf("DistanceChart: player %d, got '%w'", id, err)
		}
		line.Color = plotutil.Color(i)
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(fmt.Sprintf("%d", id), line)
	}

	if err := p.Save(10*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("DistanceChart: Could not save '%s', got '%w'", path, err)
	}

	return nil
}
