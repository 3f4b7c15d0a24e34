package camera

//Band is a vertical stripe of columns [From, To) of the frame
type Band struct {
	From int
	To   int
}

//FeatureParams are the corner detection parameters
type FeatureParams struct {
	MaxCorners   int
	QualityLevel float64
	MinDistance  float64
	BlockSize    int
}

//FlowParams are the pyramidal Lucas-Kanade parameters
type FlowParams struct {
	WindowSize    int
	MaxLevel      int
	MaxIterations int
	Epsilon       float64
}

type Config struct {
	//MinimumDistance is the displacement (pixels) a frame needs to count as camera movement
	MinimumDistance float64
	//Bands are the background stripes features are searched in, players rarely cover them
	Bands    []Band
	Features FeatureParams
	Flow     FlowParams
}

func DefaultConfig() Config {
	return Config{
		MinimumDistance: 5,
		Bands:           []Band{{From: 0, To: 20}, {From: 900, To: 1050}},
		Features: FeatureParams{
			MaxCorners:   100,
			QualityLevel: 0.3,
			MinDistance:  3,
			BlockSize:    7,
		},
		Flow: FlowParams{
			WindowSize:    15,
			MaxLevel:      2,
			MaxIterations: 10,
			Epsilon:       0.03,
		},
	}
}

//SearchBands returns cfg's bands clipped to a frame of given width, empty bands are dropped
func (cfg Config) SearchBands(width int) []Band {
	res := make([]Band, 0, len(cfg.Bands))
	for _, b := range cfg.Bands {
		from, to := b.From, b.To
		if from < 0 {
			from = 0
		}
		if to > width {
			to = width
		}
		if to > from {
			res = append(res, Band{From: from, To: to})
		}
	}

	return res
}
