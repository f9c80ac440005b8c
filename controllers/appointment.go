package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"studiojb-backend/models"
	"studiojb-backend/repository"
	"studiojb-backend/services"
	"studiojb-backend/utils"

	"github.com/gin-gonic/gin"
)

const clientHistoryLimit = 7

type UpdateStatusInput struct {
	Action string `json:"action" binding:"required,oneof=confirm complete cancel"`
	Reason string `json:"reason" binding:"omitempty,oneof=client salon"`
	Notes  string `json:"notes"`
}

// GetAppointments lists appointments filtered by status and date range
func (ac *AdminController) GetAppointments(c *gin.Context) {
	filter := repository.AppointmentFilter{Status: c.Query("status")}

	if from := c.Query("from"); from != "" {
		d, err := utils.ParseDate(from)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid from date")
			return
		}
		filter.From = &d
	}
	if to := c.Query("to"); to != "" {
		d, err := utils.ParseDate(to)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid to date")
			return
		}
		filter.To = &d
	}
	if date := c.Query("date"); date != "" {
		d, err := utils.ParseDate(date)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid date")
			return
		}
		filter.From, filter.To = &d, &d
	}

	appointments, err := ac.Repos.Appointments.List(c.Request.Context(), filter)
	if err != nil {
		ac.Logger.Error("failed to list appointments", "err", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve appointments")
		return
	}
	c.JSON(http.StatusOK, appointments)
}

// GetAppointment returns an appointment with its status history
func (ac *AdminController) GetAppointment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	appointment, err := ac.Repos.Appointments.FindByID(c.Request.Context(), id)
	if err != nil {
		respondLookupError(c, err, "Appointment not found")
		return
	}
	history, err := ac.Repos.History.ListByAppointment(c.Request.Context(), id)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve history")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"appointment": appointment,
		"history":     history,
		"date_label":  utils.FormatDateBR(appointment.AppointmentDate),
		"value_label": utils.FormatCurrency(appointment.TotalValue),
	})
}

// UpdateAppointmentStatus confirms, completes or cancels an appointment
func (ac *AdminController) UpdateAppointmentStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input UpdateStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var status string
	switch input.Action {
	case "confirm":
		status = models.StatusConfirmed
	case "complete":
		status = models.StatusCompleted
	case "cancel":
		switch input.Reason {
		case "client":
			status = models.StatusCancelledByClient
		case "salon":
			status = models.StatusCancelledBySalon
		default:
			utils.RespondWithError(c, http.StatusBadRequest, "Cancellation reason must be client or salon")
			return
		}
	}

	appointment, err := ac.Appointments.ChangeStatus(c.Request.Context(), id, status, utils.CurrentUsername(c), input.Notes, nil)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		utils.RespondWithError(c, http.StatusNotFound, "Appointment not found")
		return
	case errors.Is(err, services.ErrInvalidTransition):
		utils.RespondWithError(c, http.StatusConflict, err.Error())
		return
	case err != nil:
		ac.Logger.Error("failed to change appointment status", "appointment_id", id, "err", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update appointment")
		return
	}

	c.JSON(http.StatusOK, appointment)
}

func (ac *AdminController) DeleteAppointment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ac.Repos.Appointments.Delete(c.Request.Context(), id); err != nil {
		respondLookupError(c, err, "Appointment not found")
		return
	}
	ac.Logger.Info("appointment deleted", "appointment_id", id, "by", utils.CurrentUsername(c))
	c.JSON(http.StatusOK, gin.H{"message": "Appointment deleted successfully"})
}

func queryInt(c *gin.Context, key string, fallback int) int {
	if v, err := strconv.Atoi(c.Query(key)); err == nil && v > 0 {
		return v
	}
	return fallback
}

// today is the salon's calendar date as a UTC midnight.
func today(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	d, _ := utils.ParseDate(time.Now().In(loc).Format(utils.DateLayout))
	return d
}
