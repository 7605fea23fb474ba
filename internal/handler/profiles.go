package handler

import (
	"net/http"

	"tenderhub/internal/dto"
	"tenderhub/internal/service"

	"github.com/gin-gonic/gin"
)

type ProfilesHandler struct{ svc service.ProfileService }

func NewProfilesHandler(svc service.ProfileService) *ProfilesHandler {
	return &ProfilesHandler{svc: svc}
}

func (h *ProfilesHandler) GetActive(c *gin.Context) {
	tenderID, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.GetActive(c.Request.Context(), tenderID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProfilesHandler) Update(c *gin.Context) {
	tenderID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateMarkupProfileRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), tenderID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
