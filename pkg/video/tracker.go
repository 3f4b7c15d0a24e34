package video

import (
	"fmt"
	"io"
	"os/exec"

	"github.com/chenBenjamin97/pitch-analyzer/pkg/tracks"
)

//RunTracker executes the external detection + tracking program (for example a YOLO + ByteTrack python script)
//on given video and collects its output. The program is called as: command... --video <videoPath>.
//Its standard output has to follow the line protocol of tracks.ParseTrackerOutput.
func RunTracker(command []string, videoPath string) (tracks.Tracks, error) {
	if len(command) == 0 {
		return nil, fmt.Errorf("RunTracker: Empty tracker command")
	}

	args := append(append([]string{}, command[1:]...), "--video", videoPath)
	cmd := exec.Command(command[0], args...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("RunTracker: Error, got '%w'", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("RunTracker: Error, got '%w'", err)
	}

	res, parseErr := tracks.ParseTrackerOutput(stdout)
	io.Copy(io.Discard, stdout) //anything after "EOF", the process must not block on a full pipe

	if err := cmd.Wait(); err != nil {
		return nil, fmt.Errorf("RunTracker: Error waiting tracker's process, got '%w'", err)
	}

	return res, parseErr
}

