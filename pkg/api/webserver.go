package api

import (
	"log"
	"net/http"
	"sort"
	"strconv"
	"sync"

	"github.com/chenBenjamin97/pitch-analyzer/pkg/camera"
	"github.com/chenBenjamin97/pitch-analyzer/pkg/pipeline"
	"github.com/chenBenjamin97/pitch-analyzer/pkg/possession"
	"github.com/chenBenjamin97/pitch-analyzer/pkg/tracks"
	"github.com/chenBenjamin97/pitch-analyzer/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

//AnalysisRequest is the body of POST /api/analyses. Without camera_movement the camera is considered static.
type AnalysisRequest struct {
	Tracks         tracks.Tracks   `json:"tracks" binding:"required"`
	CameraMovement []camera.Vector `json:"camera_movement"`
}

type AnalysisResponse struct {
	ID     string           `json:"id"`
	Result *pipeline.Result `json:"result"`
}

//Service runs analyses for http clients and keeps their results in memory
type Service struct {
	pipeline   *pipeline.Pipeline
	resultsDir string

	mu       sync.RWMutex
	analyses map[string]*pipeline.Result
}

func NewService(p *pipeline.Pipeline, resultsDir string) *Service {
	return &Service{pipeline: p, resultsDir: resultsDir, analyses: make(map[string]*pipeline.Result)}
}

//Analyze runs the pipeline and stores the result under a new id
func (s *Service) Analyze(req AnalysisRequest) (string, *pipeline.Result, error) {
	res, err := s.pipeline.Run(pipeline.Input{Tracks: req.Tracks, CameraMovement: req.CameraMovement})
	if err != nil {
		return "", nil, err
	}

	id := uuid.NewString()
	s.mu.Lock()
	s.analyses[id] = res
	s.mu.Unlock()

	return id, res, nil
}

func (s *Service) Get(id string) (*pipeline.Result, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res, ok := s.analyses[id]
	return res, ok
}

func (s *Service) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.analyses))
	for id := range s.analyses {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	return ids
}

func SetRouter(s *Service) *gin.Engine {
	r := gin.Default()

	apiRoutes := r.Group("/api")

	apiRoutes.GET("/ResultsNames", func(ctx *gin.Context) {
		if names, err := utils.ListDir(s.resultsDir); err != nil {
			ctx.Status(http.StatusInternalServerError)
		} else {
			ctx.JSON(http.StatusOK, names)
		}
	})

	apiRoutes.POST("/analyses", func(ctx *gin.Context) {
		var req AnalysisRequest
		if err := ctx.ShouldBindJSON(&req); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		id, res, err := s.Analyze(req)
		if err != nil {
			log.Printf("api/analyses: Could not analyze, got '%v'", err)
			ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}

		ctx.JSON(http.StatusCreated, AnalysisResponse{ID: id, Result: res})
	})

	apiRoutes.GET("/analyses", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, s.IDs())
	})

	apiRoutes.GET("/analyses/:id", func(ctx *gin.Context) {
		res, ok := s.Get(ctx.Param("id"))
		if !ok {
			ctx.Status(http.StatusNotFound)
			return
		}

		ctx.JSON(http.StatusOK, res)
	})

	apiRoutes.GET("/analyses/:id/possession", func(ctx *gin.Context) {
		res, ok := s.Get(ctx.Param("id"))
		if !ok {
			ctx.Status(http.StatusNotFound)
			return
		}

		share := make(map[string]float64)
		for team, v := range possession.ControlShare(res.TeamBallControl) {
			share[teamName(team)] = v
		}

		ctx.JSON(http.StatusOK, gin.H{
			"holders":           res.Holders,
			"team_ball_control": res.TeamBallControl,
			"share":             share,
		})
	})

	return r
}

func teamName(team int) string {
	return "team_" + strconv.Itoa(team)
}
