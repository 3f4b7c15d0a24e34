package video

import (
	"fmt"

	"gocv.io/x/gocv"
)

//ReadFrames decodes every frame of given video into memory, caller has to CloseFrames them.
//It also returns the source fps (0 if unknown).
func ReadFrames(videoPath string) ([]gocv.Mat, float64, error) {
	cap, err := gocv.VideoCaptureFile(videoPath)
	if err != nil {
		return nil, 0, fmt.Errorf("ReadFrames: Could not open '%s', got '%w'", videoPath, err)
	}
	defer cap.Close()

	fps := cap.Get(gocv.VideoCaptureFPS)

	frames := make([]gocv.Mat, 0)
	for {
		frame := gocv.NewMat()
		if ok := cap.Read(&frame); !ok || frame.Empty() { //finished to read all video's frames
			frame.Close()
			break
		}
		frames = append(frames, frame)
	}

	if len(frames) == 0 {
		return nil, fps, fmt.Errorf("ReadFrames: No frames in '%s'", videoPath)
	}

	return frames, fps, nil
}

//WriteFrames encodes frames into outputPath with given fourcc codec ("XVID", "mp4v", ...)
func WriteFrames(outputPath, codec string, fps float64, frames []gocv.Mat) error {
	if len(frames) == 0 {
		return fmt.Errorf("WriteFrames: Nothing to write to '%s'", outputPath)
	}

	writer, err := gocv.VideoWriterFile(outputPath, codec, fps, frames[0].Cols(), frames[0].Rows(), true)
	if err != nil {
		return fmt.Errorf("WriteFrames: Could not open '%s', got '%w'", outputPath, err)
	}
	defer writer.Close()

	for i, frame := range frames {
		if err := writer.Write(frame); err != nil {
			return fmt.Errorf("WriteFrames: Could not write frame %d, got '%w'", i, err)
		}
	}

	return nil
}

//CloseFrames releases frames' memory
func CloseFrames(frames []gocv.Mat) {
	for i := range frames {
		frames[i].Close()
	}
}
