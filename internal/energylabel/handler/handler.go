package handler

import (
	"net/http"

	"propscout_backend/internal/energylabel/service"
	"propscout_backend/internal/energylabel/transport"
	"propscout_backend/platform/httpkit"
	"propscout_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest = "invalid request"
	msgDisabled       = "energy label lookup is not configured"
)

// Handler serves energy label lookups. A nil service answers 503.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.Lookup)
}

func (h *Handler) Lookup(c *gin.Context) {
	if h.svc == nil {
		httpkit.Error(c, http.StatusServiceUnavailable, msgDisabled, nil)
		return
	}

	var req transport.LookupRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, validator.FieldErrors(err))
		return
	}

	result, err := h.svc.Lookup(c.Request.Context(), req.Postcode, req.HouseNumber)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}
