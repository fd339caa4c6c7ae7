package storage

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/telehealth-api/internal/handler"
	"github.com/jwalitptl/telehealth-api/internal/model"
	"github.com/jwalitptl/telehealth-api/internal/service/storage"
)

type Handler struct {
	service *storage.Service
}

func NewHandler(service *storage.Service) *Handler {
	return &Handler{service: service}
}

// GenerateUploadURL issues a short-lived presigned PUT URL for a patient
// image. The client uploads directly to object storage.
func (h *Handler) GenerateUploadURL(c *gin.Context) {
	var req model.UploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	resp, err := h.service.GenerateUploadURL(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse("failed to generate upload URL"))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(resp))
}
