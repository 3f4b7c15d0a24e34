package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chenBenjamin97/pitch-analyzer/pkg/api"
	"github.com/chenBenjamin97/pitch-analyzer/pkg/cache"
	"github.com/chenBenjamin97/pitch-analyzer/pkg/camera"
	"github.com/chenBenjamin97/pitch-analyzer/pkg/config"
	"github.com/chenBenjamin97/pitch-analyzer/pkg/perspective"
	"github.com/chenBenjamin97/pitch-analyzer/pkg/pipeline"
	"github.com/chenBenjamin97/pitch-analyzer/pkg/report"
	"github.com/chenBenjamin97/pitch-analyzer/pkg/tracks"
	"github.com/chenBenjamin97/pitch-analyzer/pkg/video"
	"github.com/lmittmann/tint"
)

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	videoPath := flag.String("video", "", "input match video, runs a single analysis when set")
	tracksPath := flag.String("tracks", "", "tracker output json, the tracker command is run when empty")
	outputPath := flag.String("out", "", "annotated output video, defaults to '<results>/<video name>.avi'")
	configDir := flag.String("config", ".", "directory of config.yaml")
	flag.Parse()

	cfg, err := config.Load(*configDir)
	if err != nil {
		log.Fatalf("Error: Could not load configuration, got '%v'", err)
	}

	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      parseLevel(cfg.Log.Level),
		TimeFormat: "15:04:05",
	}))
	slog.SetDefault(logger)

	//create missing directories from config file
	for _, dir := range []string{cfg.Directory.Results, cacheDir(cfg)} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0766); err != nil {
			log.Printf("Error Creating '%s' directory, got '%v'", dir, err)
		}
	}

	p := pipeline.New(camera.DefaultConfig(), logger)

	if *videoPath != "" {
		if err := analyzeVideo(cfg, p, logger, *videoPath, *tracksPath, *outputPath); err != nil {
			log.Fatalf("Error: Got '%v'", err)
		}
		return
	}

	r := api.SetRouter(api.NewService(p, cfg.Directory.Results))
	if err := r.Run(":" + strconv.Itoa(cfg.HTTP.Port)); err != nil {
		log.Fatalf("Error: Got '%v'", err)
	}
}

func analyzeVideo(cfg *config.Config, p *pipeline.Pipeline, logger *slog.Logger, videoPath, tracksPath, outputPath string) error {
	frames, fps, err := video.ReadFrames(videoPath)
	if err != nil {
		return err
	}
	defer video.CloseFrames(frames)
	logger.Info("video loaded", "path", videoPath, "frames", len(frames), "fps", fps)

	var t tracks.Tracks
	if tracksPath != "" {
		t, err = tracks.LoadFile(tracksPath)
	} else {
		t, err = video.RunTracker(cfg.Tracker.Command, videoPath)
	}
	if err != nil {
		return err
	}

	lk, err := video.NewLKTracker(frames, camera.DefaultConfig())
	if err != nil {
		return err
	}
	defer lk.Close()

	store, err := cache.Open(cfg.Cache.Backend, cfg.Cache.Path)
	if err != nil {
		return err
	}
	if closer, ok := store.(io.Closer); ok {
		defer closer.Close()
	}

	name := strings.TrimSuffix(filepath.Base(videoPath), filepath.Ext(videoPath))

	in := pipeline.Input{
		Tracks:         t,
		FrameCount:     len(frames),
		FeatureTracker: lk,
		CameraCache: camera.CacheOptions{
			Store: store,
			Key:   cacheKey(cfg, name+"_camera_movement"),
			Read:  cfg.Cache.Read,
		},
	}

	if cfg.Landmark.Enabled && len(frames) > 0 {
		detector, err := video.NewPitchKeypointDetector(cfg.Landmark.ModelPath, frames[0], cfg.Landmark.InputSize)
		if err != nil {
			logger.Warn("pitch keypoint detector disabled", "err", err)
			in.CornerDetector = perspective.FailedDetector(err)
		} else {
			defer detector.Close()
			in.CornerDetector = detector
		}
	}

	res, err := p.Run(in)
	if err != nil {
		return err
	}

	resultsPath := filepath.Join(cfg.Directory.Results, name+".json")
	if err := tracks.SaveFile(resultsPath, res); err != nil {
		return err
	}
	logger.Info("results saved", "path", resultsPath, "calibration", calibrationKind(res.Calibration))

	if outputPath == "" {
		outputPath = filepath.Join(cfg.Directory.Results, name+".avi")
	}
	if err := video.Tag(frames, res, video.TagConfig{OutputPath: outputPath, Codec: cfg.Video.OutputCodec, FPS: cfg.Video.FPS}); err != nil {
		return err
	}
	logger.Info("annotated video saved", "path", outputPath)

	if cfg.Report.Enabled {
		chartPath := filepath.Join(cfg.Directory.Results, name+"_distance.png")
		if err := report.DistanceChart(res.Tracks, chartPath); err != nil {
			logger.Warn("distance chart skipped", "err", err)
		} else {
			logger.Info("distance chart saved", "path", chartPath)
		}
	}

	return nil
}

//cacheKey is a file path for the file backend and a plain name otherwise
func cacheKey(cfg *config.Config, name string) string {
	if cfg.Cache.Backend == "file" {
		return filepath.Join(cfg.Cache.Path, name+".json")
	}
	return name
}

func cacheDir(cfg *config.Config) string {
	switch cfg.Cache.Backend {
	case "file":
		return cfg.Cache.Path
	case "sqlite":
		return filepath.Dir(cfg.Cache.Path)
	}
	return ""
}

func calibrationKind(c perspective.Calibration) string {
	if c.Kind == perspective.Fallback {
		return fmt.Sprintf("fallback (%s)", c.Reason)
	}
	return "detected"
}

func parseLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}
