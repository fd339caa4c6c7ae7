package prescription

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jwalitptl/telehealth-api/internal/handler"
	"github.com/jwalitptl/telehealth-api/internal/middleware"
	"github.com/jwalitptl/telehealth-api/internal/model"
	"github.com/jwalitptl/telehealth-api/internal/service/prescription"
)

type Handler struct {
	service *prescription.Service
}

func NewHandler(service *prescription.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) CreatePrescription(c *gin.Context) {
	var req model.CreatePrescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	providerID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	created, err := h.service.Create(c.Request.Context(), providerID, &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse("failed to create prescription"))
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(created))
}

func (h *Handler) ListForPatient(c *gin.Context) {
	patientID, err := uuid.Parse(c.Param("patientId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient ID"))
		return
	}

	actorID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	role := c.GetString(middleware.ContextUserRole)

	prescriptions, err := h.service.ListForPatient(c.Request.Context(), patientID, actorID, role)
	if err != nil {
		if errors.Is(err, prescription.ErrForbidden) {
			c.JSON(http.StatusForbidden, handler.NewErrorResponse("not authorized"))
			return
		}
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse("failed to list prescriptions"))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(prescriptions))
}
