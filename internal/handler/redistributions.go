package handler

import (
	"net/http"

	"tenderhub/internal/dto"
	"tenderhub/internal/service"

	"github.com/gin-gonic/gin"
)

type RedistributionsHandler struct{ svc service.RedistributionService }

func NewRedistributionsHandler(svc service.RedistributionService) *RedistributionsHandler {
	return &RedistributionsHandler{svc: svc}
}

func (h *RedistributionsHandler) Create(c *gin.Context) {
	tenderID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.CreateRedistributionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.BuildAndSubmit(c.Request.Context(), tenderID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *RedistributionsHandler) List(c *gin.Context) {
	tenderID, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.List(c.Request.Context(), tenderID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RedistributionsHandler) Details(c *gin.Context) {
	requestID, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Details(c.Request.Context(), requestID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RedistributionsHandler) Activate(c *gin.Context) {
	requestID, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Activate(c.Request.Context(), requestID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RedistributionsHandler) Deactivate(c *gin.Context) {
	requestID, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Deactivate(c.Request.Context(), requestID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RedistributionsHandler) Delete(c *gin.Context) {
	requestID, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), requestID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RedistributionsHandler) ActiveReport(c *gin.Context) {
	tenderID, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ActiveReport(c.Request.Context(), tenderID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
