package utils

import (
	"bytes"
	"encoding/json"
	"math"
)

//Point is a 2D point, either in pixels or in pitch units depending on where it came from
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

//BBox is a bounding box [x1, y1, x2, y2] in pixels. It's a slice and not an array on purpose:
//tracker output may have the wrong arity and that has to be detectable.
type BBox []float64

//UnmarshalJSON decodes a bbox, a null coordinate becomes NaN (== missing)
func (b *BBox) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*b = nil
		return nil
	}

	var raw []*float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	res := make(BBox, len(raw))
	for i, v := range raw {
		if v == nil {
			res[i] = math.NaN()
		} else {
			res[i] = *v
		}
	}
	*b = res

	return nil
}

//MarshalJSON encodes NaN coordinates as null, encoding/json can not write NaN
func (b BBox) MarshalJSON() ([]byte, error) {
	if b == nil {
		return []byte("null"), nil
	}

	raw := make([]*float64, len(b))
	for i := range b {
		if !math.IsNaN(b[i]) {
			v := b[i]
			raw[i] = &v
		}
	}

	return json.Marshal(raw)
}

//IsValidBBox returns false if given bbox is missing, does not have exactly 4 coordinates or has a NaN coordinate
func IsValidBBox(b BBox) bool {
	if len(b) != 4 {
		return false
	}

	for _, c := range b {
		if math.IsNaN(c) {
			return false
		}
	}

	return true
}

//CenterOfBBox returns bbox's center, truncated to whole pixels
func CenterOfBBox(b BBox) (Point, bool) {
	if !IsValidBBox(b) {
		return Point{}, false
	}

	return Point{X: math.Trunc((b[0] + b[2]) / 2), Y: math.Trunc((b[1] + b[3]) / 2)}, true
}

//FootPosition returns the middle of bbox's bottom edge, truncated to whole pixels
func FootPosition(b BBox) (Point, bool) {
	if !IsValidBBox(b) {
		return Point{}, false
	}

	return Point{X: math.Trunc((b[0] + b[2]) / 2), Y: math.Trunc(b[3])}, true
}

//BBoxWidth returns x2-x1
func BBoxWidth(b BBox) (float64, bool) {
	if !IsValidBBox(b) {
		return 0, false
	}

	return b[2] - b[0], true
}

//MeasureDistance returns the euclidean distance between given points
func MeasureDistance(p1, p2 Point) float64 {
	return math.Hypot(p1.X-p2.X, p1.Y-p2.Y)
}

//MeasureXYDistance returns the per axis distance p1-p2
func MeasureXYDistance(p1, p2 Point) (float64, float64) {
	return p1.X - p2.X, p1.Y - p2.Y
}

//Sub returns p-q componentwise
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}
