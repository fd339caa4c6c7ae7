package ehr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jwalitptl/telehealth-api/internal/handler"
	"github.com/jwalitptl/telehealth-api/internal/middleware"
	"github.com/jwalitptl/telehealth-api/internal/model"
	"github.com/jwalitptl/telehealth-api/internal/service/ehr"
)

type Handler struct {
	service *ehr.Service
}

func NewHandler(service *ehr.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) CreateRecord(c *gin.Context) {
	var req model.CreateEHRRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	providerID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	record, err := h.service.Create(c.Request.Context(), providerID, &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse("failed to create record"))
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(record))
}

func (h *Handler) ListForPatient(c *gin.Context) {
	patientID, err := uuid.Parse(c.Param("patientId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient ID"))
		return
	}

	actorID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	role := c.GetString(middleware.ContextUserRole)

	records, err := h.service.ListForPatient(c.Request.Context(), patientID, actorID, role)
	if err != nil {
		if errors.Is(err, ehr.ErrForbidden) {
			c.JSON(http.StatusForbidden, handler.NewErrorResponse("not authorized"))
			return
		}
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse("failed to list records"))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(records))
}
