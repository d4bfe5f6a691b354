package handler

import (
	"net/http"

	"propscout_backend/internal/analysis/service"
	"propscout_backend/internal/analysis/transport"
	"propscout_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest = "invalid request"
	msgInvalidID      = "invalid analysis id"
)

type Handler struct {
	svc *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/score", h.Score)
	rg.POST("/score/batch", h.ScoreBatch)
	rg.GET("/analyses", h.ListAnalyses)
	rg.GET("/analyses/:id", h.GetAnalysis)
	rg.GET("/stats", h.Stats)
}

func (h *Handler) Score(c *gin.Context) {
	var req transport.ScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	result, err := h.svc.Score(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	if result.AnalysisID != nil {
		httpkit.Created(c, result)
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) ScoreBatch(c *gin.Context) {
	var req transport.BatchScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	result, err := h.svc.ScoreBatch(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

func (h *Handler) ListAnalyses(c *gin.Context) {
	var req transport.ListAnalysesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	result, err := h.svc.ListAnalyses(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

func (h *Handler) GetAnalysis(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	result, err := h.svc.GetAnalysis(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

func (h *Handler) Stats(c *gin.Context) {
	result, err := h.svc.Stats(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}
