package availability

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jwalitptl/telehealth-api/internal/handler"
	"github.com/jwalitptl/telehealth-api/internal/middleware"
	"github.com/jwalitptl/telehealth-api/internal/model"
	"github.com/jwalitptl/telehealth-api/internal/service/availability"
)

const dateLayout = "2006-01-02"

type Handler struct {
	service *availability.Service
}

func NewHandler(service *availability.Service) *Handler {
	return &Handler{service: service}
}

// ReplaceSchedule swaps the calling provider's weekly template
// wholesale.
func (h *Handler) ReplaceSchedule(c *gin.Context) {
	var req model.ReplaceScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	providerID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	count, err := h.service.ReplaceSchedule(c.Request.Context(), providerID, req.Schedule)
	if err != nil {
		if errors.Is(err, availability.ErrInvalidSchedule) {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
			return
		}
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse("failed to replace schedule"))
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(model.ReplaceScheduleResponse{Count: count}))
}

// GetAvailability resolves a provider's bookable slots over an inclusive
// date range.
func (h *Handler) GetAvailability(c *gin.Context) {
	providerID, err := uuid.Parse(c.Param("providerId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid provider ID"))
		return
	}

	// Dates are calendar days in the resolver's zone; parsing them in
	// UTC would land on the wrong local day for zones west of it.
	loc := h.service.Location()
	startDate, err := time.ParseInLocation(dateLayout, c.Query("startDate"), loc)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid startDate, expected YYYY-MM-DD"))
		return
	}
	endDate, err := time.ParseInLocation(dateLayout, c.Query("endDate"), loc)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid endDate, expected YYYY-MM-DD"))
		return
	}

	slots, err := h.service.Resolve(c.Request.Context(), providerID, startDate, endDate)
	if err != nil {
		if errors.Is(err, availability.ErrNoSchedule) {
			c.JSON(http.StatusNotFound, handler.NewErrorResponse("provider has no availability schedule"))
			return
		}
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse("failed to resolve availability"))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(slots))
}
