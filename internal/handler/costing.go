package handler

import (
	"net/http"

	"tenderhub/internal/dto"
	"tenderhub/internal/service"

	"github.com/gin-gonic/gin"
)

type CostingHandler struct{ svc service.CostingService }

func NewCostingHandler(svc service.CostingService) *CostingHandler {
	return &CostingHandler{svc: svc}
}

func (h *CostingHandler) Preview(c *gin.Context) {
	var req dto.PreviewRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Preview(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Recompute runs synchronously so the caller sees the batch outcome,
// including the warning for items that failed to persist.
func (h *CostingHandler) Recompute(c *gin.Context) {
	tenderID, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.RecomputeTender(c.Request.Context(), tenderID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CostingHandler) CostReport(c *gin.Context) {
	tenderID, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.TenderCostReport(c.Request.Context(), tenderID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
