package tracks

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/chenBenjamin97/pitch-analyzer/pkg/utils"
)

//detection is one line of the tracker's output
type detection struct {
	Class Class      `json:"class"`
	ID    int        `json:"id"`
	BBox  utils.BBox `json:"bbox"`
	Team  *int       `json:"team"`
}

//ParseTrackerOutput reads the upstream tracker's line protocol: "Frame #: <n>" before the detections of every frame,
//one json detection per line ({"class": "players", "id": 7, "bbox": [x1, y1, x2, y2], "team": 1}, team is optional) and "EOF" when done.
//Other lines (fps prints etc.) are ignored. Every class gets one frame per "Frame #:" line, the ball always gets BallID.
func ParseTrackerOutput(r io.Reader) (Tracks, error) {
	res := Tracks{
		Players:  make([]Frame, 0),
		Referees: make([]Frame, 0),
		Ball:     make([]Frame, 0),
	}

	framesCounter := 0
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		switch {
		case strings.HasPrefix(line, "Frame #:"):
			framesCounter++
			for class := range res {
				res[class] = append(res[class], Frame{})
			}

		case line == "EOF": //finished to read all frames
			return res, nil

		case strings.HasPrefix(line, "{"):
			if framesCounter == 0 {
				log.Printf("ParseTrackerOutput: Detection before first frame marker, skipping '%s'", line)
				continue
			}

			var d detection
			if err := json.Unmarshal([]byte(line), &d); err != nil {
				log.Printf("ParseTrackerOutput: Error, got '%v'", err)
				continue
			}

			frames, ok := res[d.Class]
			if !ok {
				log.Printf("ParseTrackerOutput: Unknown class '%s', skipping", d.Class)
				continue
			}
			if d.Class == Ball {
				d.ID = BallID
			}
			frames[framesCounter-1][d.ID] = &Track{BBox: d.BBox, Team: d.Team}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("ParseTrackerOutput: Error reading tracker output, got '%w'", err)
	}

	return res, nil
}
