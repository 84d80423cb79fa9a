package controllers

import (
	"context"
	"net/http"
	"speech-coach-pipeline/application/ports/inbound"
	"speech-coach-pipeline/application/ports/outbound"
	"speech-coach-pipeline/domain"
	"speech-coach-pipeline/infrastructure/gin_interface/dto"

	"github.com/gin-gonic/gin"
)

type CoachingRunsController interface {
	CreateRun(c *gin.Context)
	RegisterRoutes(g *gin.Engine)
}

type coachingRunsController struct {
	logger         outbound.LoggerPort
	workerPool     outbound.TaskDispatcher
	pipelineRunner inbound.PipelineRunnerPort
}

func NewCoachingRunsController(logger outbound.LoggerPort, workerPool outbound.TaskDispatcher,
	pipelineRunner inbound.PipelineRunnerPort) CoachingRunsController {
	return &coachingRunsController{
		logger:         logger,
		workerPool:     workerPool,
		pipelineRunner: pipelineRunner,
	}
}

func (s *coachingRunsController) CreateRun(c *gin.Context) {
	var createRunRequest dto.CreateRunRequest
	if err := c.ShouldBindJSON(&createRunRequest); err != nil {
		c.JSON(http.StatusBadRequest, dto.RunErrorResponse{Error: err.Error()})
		return
	}

	newCtx, cancel := context.WithCancel(c)
	defer cancel()

	type runResult struct {
		state domain.RunState
		err   error
	}
	resultCh := make(chan runResult, 1)

	err := s.workerPool.Submit(func() {
		state, err := s.pipelineRunner.Run(newCtx, createRunRequest.VideoRef)
		resultCh <- runResult{state: state, err: err}
	})
	if err != nil {
		s.logger.Error(err, "Failed to submit run to worker pool")
		c.JSON(http.StatusServiceUnavailable, dto.RunErrorResponse{Error: "pipeline is at capacity"})
		return
	}

	res := <-resultCh
	if res.err != nil {
		c.JSON(statusForKind(domain.KindOf(res.err)), dto.RunErrorResponse{
			Stage: domain.FailingStage(res.err),
			Kind:  string(domain.KindOf(res.err)),
			Error: res.err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, dto.CreateRunResponse{
		Transcript:       res.state.Transcript(),
		FeedbackText:     res.state.FeedbackText(),
		FeedbackAudioRef: res.state.FeedbackAudioRef(),
	})
}

func statusForKind(kind domain.ErrorKind) int {
	switch kind {
	case domain.InvalidInput:
		return http.StatusBadRequest
	case domain.PreconditionFailed:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *coachingRunsController) RegisterRoutes(g *gin.Engine) {
	g.POST("/runs", s.CreateRun)
}
