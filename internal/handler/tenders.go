package handler

import (
	"net/http"

	"tenderhub/internal/dto"
	"tenderhub/internal/service"

	"github.com/gin-gonic/gin"
)

type TendersHandler struct{ svc service.TenderService }

func NewTendersHandler(svc service.TenderService) *TendersHandler {
	return &TendersHandler{svc: svc}
}

func (h *TendersHandler) Create(c *gin.Context) {
	var req dto.CreateTenderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateTender(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *TendersHandler) List(c *gin.Context) {
	resp, err := h.svc.ListTenders(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *TendersHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.GetTender(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *TendersHandler) CreatePosition(c *gin.Context) {
	tenderID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.CreatePositionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreatePosition(c.Request.Context(), tenderID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *TendersHandler) ListPositions(c *gin.Context) {
	tenderID, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ListPositions(c.Request.Context(), tenderID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
