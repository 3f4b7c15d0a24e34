package video

import "image/color"

var teamColors = map[int]color.RGBA{
	1: {255, 255, 255, 0},
	2: {0, 200, 255, 0},
}

var (
	noTeamColor  = color.RGBA{128, 128, 128, 0}
	refereeColor = color.RGBA{0, 255, 255, 0}
	ballColor    = color.RGBA{0, 255, 0, 0}
	holderColor  = color.RGBA{0, 0, 255, 0}
	textColor    = color.RGBA{0, 0, 0, 0}
	whiteRGB     = color.RGBA{255, 255, 255, 0}
)

//TagConfig configures the annotated output video
type TagConfig struct {
	OutputPath string
	Codec      string
	FPS        float64
}

func colorForTeam(team *int) color.RGBA {
	if team == nil {
		return noTeamColor
	}
	if c, ok := teamColors[*team]; ok {
		return c
	}

	return noTeamColor
}
