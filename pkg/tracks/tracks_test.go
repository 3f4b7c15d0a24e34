package tracks

import (
	"math"
	"strings"
	"testing"

	"github.com/chenBenjamin97/pitch-analyzer/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTracks = `{
  "players": [
    {"7": {"bbox": [80, 90, 120, 110], "team": 1}, "9": {"bbox": [0, 0, 0, null]}},
    {"7": {"bbox": [81, 90, 121, 110]}}
  ],
  "referees": [{}, {}],
  "ball": [
    {"1": {"bbox": [95, 95, 105, 105]}},
    {}
  ]
}`

func TestLoad(t *testing.T) {
	t.Parallel()

	tr, err := Load(strings.NewReader(sampleTracks))
	require.NoError(t, err)

	assert.Equal(t, 2, tr.FrameCount())
	require.Contains(t, tr[Players][0], 7)
	require.NotNil(t, tr[Players][0][7].Team)
	assert.Equal(t, 1, *tr[Players][0][7].Team)
	assert.True(t, math.IsNaN(tr[Players][0][9].BBox[3]))
	assert.NotNil(t, tr[Ball][1])
}

func TestLoadDropsNullRecords(t *testing.T) {
	t.Parallel()

	tr, err := Load(strings.NewReader(`{"players": [{"7": {"bbox": [1, 2, 3, 4]}, "8": null}], "ball": [{"1": null}]}`))
	require.NoError(t, err)

	assert.Contains(t, tr[Players][0], 7)
	assert.NotContains(t, tr[Players][0], 8)
	assert.Empty(t, tr[Ball][0])
}

func TestCloneDropsNilTracks(t *testing.T) {
	t.Parallel()

	c := Tracks{Players: []Frame{{7: {}, 8: nil}}}.Clone()
	assert.Contains(t, c[Players][0], 7)
	assert.NotContains(t, c[Players][0], 8)
}

func TestLoadRejectsGarbage(t *testing.T) {
	t.Parallel()

	_, err := Load(strings.NewReader(`{"players": 3}`))
	assert.Error(t, err)
}

func TestCloneIsDeep(t *testing.T) {
	t.Parallel()

	p := utils.Point{X: 1, Y: 2}
	orig := Tracks{Players: []Frame{{7: {BBox: utils.BBox{1, 2, 3, 4}, Position: &p}}}}

	c := orig.Clone()
	c[Players][0][7].Position.X = 99
	c[Players][0][7].BBox[0] = 99
	c[Players][0][8] = &Track{}

	assert.Equal(t, 1.0, orig[Players][0][7].Position.X)
	assert.Equal(t, 1.0, orig[Players][0][7].BBox[0])
	assert.NotContains(t, orig[Players][0], 8)
}

func TestAddPositions(t *testing.T) {
	t.Parallel()

	tr, err := Load(strings.NewReader(sampleTracks))
	require.NoError(t, err)

	res := AddPositions(tr)

	require.NotNil(t, res[Players][0][7].Position)
	assert.Equal(t, utils.Point{X: 100, Y: 110}, *res[Players][0][7].Position)
	assert.Nil(t, res[Players][0][9].Position, "invalid bbox gets no position")
	require.NotNil(t, res[Ball][0][BallID].Position)
	assert.Equal(t, utils.Point{X: 100, Y: 100}, *res[Ball][0][BallID].Position)

	assert.Nil(t, tr[Players][0][7].Position, "input snapshot is untouched")
}

func TestInterpolateBall(t *testing.T) {
	t.Parallel()

	t.Run("fills inner, leading and trailing gaps", func(t *testing.T) {
		t.Parallel()
		in := Tracks{Ball: []Frame{
			{},
			{BallID: {BBox: utils.BBox{0, 0, 10, 10}}},
			{BallID: {BBox: utils.BBox{0, 0, 0, math.NaN()}}},
			{},
			{BallID: {BBox: utils.BBox{30, 30, 40, 40}}},
			{},
		}}

		res := InterpolateBall(in)
		frames := res[Ball]

		assert.Equal(t, utils.BBox{0, 0, 10, 10}, frames[0][BallID].BBox)
		assert.InDeltaSlice(t, []float64{10, 10, 20, 20}, []float64(frames[2][BallID].BBox), 1e-9)
		assert.InDeltaSlice(t, []float64{20, 20, 30, 30}, []float64(frames[3][BallID].BBox), 1e-9)
		assert.Equal(t, utils.BBox{30, 30, 40, 40}, frames[5][BallID].BBox)

		assert.Empty(t, in[Ball][0], "input snapshot is untouched")
	})

	t.Run("never seen", func(t *testing.T) {
		t.Parallel()
		in := Tracks{Ball: []Frame{{}, {}}}
		res := InterpolateBall(in)
		assert.Empty(t, res[Ball][0])
		assert.Empty(t, res[Ball][1])
	})
}
