package appointment

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jwalitptl/telehealth-api/internal/handler"
	"github.com/jwalitptl/telehealth-api/internal/middleware"
	"github.com/jwalitptl/telehealth-api/internal/model"
	"github.com/jwalitptl/telehealth-api/internal/repository"
	"github.com/jwalitptl/telehealth-api/internal/service/appointment"
)

type Handler struct {
	service *appointment.Service
}

func NewHandler(service *appointment.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) BookAppointment(c *gin.Context) {
	var req model.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	patientID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	appt, err := h.service.Book(c.Request.Context(), patientID, &req)
	if err != nil {
		switch {
		case errors.Is(err, appointment.ErrConflict):
			c.JSON(http.StatusConflict, handler.NewErrorResponse("slot is no longer available"))
		case errors.Is(err, appointment.ErrProviderNotFound):
			c.JSON(http.StatusNotFound, handler.NewErrorResponse("provider not found"))
		default:
			c.JSON(http.StatusInternalServerError, handler.NewErrorResponse("failed to book appointment"))
		}
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(appt))
}

func (h *Handler) ListMyAppointments(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	role := c.GetString(middleware.ContextUserRole)

	appointments, err := h.service.ListForUser(c.Request.Context(), userID, role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse("failed to list appointments"))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(appointments))
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid appointment ID"))
		return
	}

	var req model.UpdateAppointmentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	actorID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	appt, err := h.service.UpdateStatus(c.Request.Context(), id, req.Status, actorID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			c.JSON(http.StatusNotFound, handler.NewErrorResponse("appointment not found"))
		case errors.Is(err, appointment.ErrForbidden):
			c.JSON(http.StatusForbidden, handler.NewErrorResponse("not a participant of this appointment"))
		default:
			c.JSON(http.StatusInternalServerError, handler.NewErrorResponse("failed to update appointment"))
		}
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(appt))
}
