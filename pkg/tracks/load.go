package tracks

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

//Load decodes tracker output: {"players": [{"<id>": {"bbox": [x1,y1,x2,y2]}}, ...], "referees": [...], "ball": [...]}.
//Frames are indexed by their position in each class array.
func Load(r io.Reader) (Tracks, error) {
	var t Tracks
	if err := json.NewDecoder(r).Decode(&t); err != nil {
		return nil, fmt.Errorf("Load: Could not decode tracks, got '%w'", err)
	}

	for class, frames := range t {
		for i := range frames {
			if frames[i] == nil {
				frames[i] = Frame{}
			}
			for id, tr := range frames[i] {
				if tr == nil { //"<id>": null
					delete(frames[i], id)
				}
			}
		}
		t[class] = frames
	}

	return t, nil
}

//LoadFile reads tracks from a json file
func LoadFile(path string) (Tracks, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("LoadFile: Could not open '%s', got '%w'", path, err)
	}
	defer f.Close()

	return Load(f)
}

//SaveFile writes tracks as json to given path
func SaveFile(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("SaveFile: Could not create '%s', got '%w'", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("SaveFile: Could not encode '%s', got '%w'", path, err)
	}

	return nil
}
