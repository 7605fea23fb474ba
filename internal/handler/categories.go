package handler

import (
	"net/http"

	"tenderhub/internal/dto"
	"tenderhub/internal/service"

	"github.com/gin-gonic/gin"
)

type CategoriesHandler struct{ svc service.CategoryService }

func NewCategoriesHandler(svc service.CategoryService) *CategoriesHandler {
	return &CategoriesHandler{svc: svc}
}

func (h *CategoriesHandler) Create(c *gin.Context) {
	tenderID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.CreateCostCategoryRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), tenderID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CategoriesHandler) List(c *gin.Context) {
	tenderID, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ListByTender(c.Request.Context(), tenderID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
