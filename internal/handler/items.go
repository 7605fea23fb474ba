package handler

import (
	"net/http"

	"tenderhub/internal/dto"
	"tenderhub/internal/service"

	"github.com/gin-gonic/gin"
)

type ItemsHandler struct{ svc service.TenderService }

func NewItemsHandler(svc service.TenderService) *ItemsHandler {
	return &ItemsHandler{svc: svc}
}

func (h *ItemsHandler) Create(c *gin.Context) {
	positionID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.CreateLineItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateLineItem(c.Request.Context(), positionID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ItemsHandler) Update(c *gin.Context) {
	itemID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateLineItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateLineItem(c.Request.Context(), itemID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ItemsHandler) ListByPosition(c *gin.Context) {
	positionID, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ListItemsByPosition(c.Request.Context(), positionID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
