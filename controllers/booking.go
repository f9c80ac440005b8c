package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"studiojb-backend/models"
	"studiojb-backend/services"
	"studiojb-backend/utils"

	"github.com/gin-gonic/gin"
)

type RegisterClientInput struct {
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone" binding:"required"`
	Address string `json:"address"`
	CPF     string `json:"cpf"`
}

type IdentifyClientInput struct {
	Phone string `json:"phone" binding:"required"`
}

type SelectServiceInput struct {
	ServiceID uint `json:"serviceId" binding:"required"`
}

type SelectSlotInput struct {
	Date string `json:"date" binding:"required"`
	Time string `json:"time" binding:"required"`
}

type CheckoutInput struct {
	Origin string `json:"origin"`
}

// BookingController serves the public booking wizard.
type BookingController struct {
	Booking      *services.BookingService
	Availability *services.AvailabilityService
	Logger       *slog.Logger
}

// GetAvailableSlots lists the open slots of a date for a service.
func (bc *BookingController) GetAvailableSlots(c *gin.Context) {
	day, err := utils.ParseDate(c.Query("date"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Data inválida")
		return
	}
	serviceID, err := strconv.ParseUint(c.Query("serviceId"), 10, 64)
	if err != nil || serviceID == 0 {
		utils.RespondWithError(c, http.StatusBadRequest, "Serviço inválido")
		return
	}
	if day.Weekday() == time.Sunday {
		utils.RespondWithError(c, http.StatusUnprocessableEntity, "O salão não abre aos domingos")
		return
	}

	slots, err := bc.Booking.AvailableSlots(c.Request.Context(), day, uint(serviceID))
	if err != nil {
		bc.Logger.Error("failed to list available slots", "date", c.Query("date"), "service_id", serviceID, "err", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Erro ao carregar horários disponíveis")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":      day.Format(utils.DateLayout),
		"serviceId": serviceID,
		"slots":     slots,
	})
}

// GetSpecialAvailability tells whether a period is free for mechas/selagem.
func (bc *BookingController) GetSpecialAvailability(c *gin.Context) {
	day, err := utils.ParseDate(c.Query("date"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Data inválida")
		return
	}
	kind := c.Query("type")
	if kind != models.SpecialMechas && kind != models.SpecialSelagem {
		utils.RespondWithError(c, http.StatusBadRequest, "Tipo de serviço inválido")
		return
	}
	period := c.Query("period")
	if period != models.PeriodMorning && period != models.PeriodAfternoon {
		utils.RespondWithError(c, http.StatusBadRequest, "Período inválido")
		return
	}

	free, err := bc.Availability.CheckSpecialServiceAvailability(c.Request.Context(), day, kind, period)
	if err != nil {
		bc.Logger.Error("failed to check special availability", "err", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Erro ao verificar disponibilidade")
		return
	}
	c.JSON(http.StatusOK, gin.H{"available": free})
}

func (bc *BookingController) StartSession(c *gin.Context) {
	session, err := bc.Booking.StartSession(c.Request.Context())
	if err != nil {
		bc.Logger.Error("failed to start booking session", "err", err)
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

func (bc *BookingController) GetSession(c *gin.Context) {
	session, err := bc.Booking.Session(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// RestartSession clears every selection of the session.
func (bc *BookingController) RestartSession(c *gin.Context) {
	if err := bc.Booking.Restart(c.Request.Context(), c.Param("id")); err != nil {
		respondBookingError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (bc *BookingController) RegisterClient(c *gin.Context) {
	var input RegisterClientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Nome e telefone são obrigatórios")
		return
	}

	client, err := bc.Booking.RegisterClient(c.Request.Context(), c.Param("id"), services.ClientInput{
		Name:    input.Name,
		Phone:   input.Phone,
		Address: input.Address,
		CPF:     input.CPF,
	})
	if err != nil {
		bc.logUnexpected("register client", err)
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusCreated, client)
}

func (bc *BookingController) IdentifyClient(c *gin.Context) {
	var input IdentifyClientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Telefone é obrigatório")
		return
	}

	client, err := bc.Booking.IdentifyClient(c.Request.Context(), c.Param("id"), input.Phone)
	if err != nil {
		bc.logUnexpected("identify client", err)
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, client)
}

func (bc *BookingController) SelectService(c *gin.Context) {
	var input SelectServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Serviço inválido")
		return
	}

	service, err := bc.Booking.SelectService(c.Request.Context(), c.Param("id"), input.ServiceID)
	if err != nil {
		bc.logUnexpected("select service", err)
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"service":         service,
		"price":           utils.FormatCurrency(service.Price),
		"totals":          utils.CalculateTotal(service.Price, service.DownPaymentValue),
		"requiresPayment": services.RequiresPayment(services.ChargeableFromService(service)),
	})
}

func (bc *BookingController) SelectSlot(c *gin.Context) {
	var input SelectSlotInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Data e horário são obrigatórios")
		return
	}

	if err := bc.Booking.SelectSlot(c.Request.Context(), c.Param("id"), input.Date, input.Time); err != nil {
		bc.logUnexpected("select slot", err)
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": input.Date, "time": input.Time})
}

// Checkout books the appointment and, for paid services, returns the
// hosted checkout redirect.
func (bc *BookingController) Checkout(c *gin.Context) {
	var input CheckoutInput
	// the body is optional
	_ = c.ShouldBindJSON(&input)

	origin := input.Origin
	if origin == "" {
		origin = c.GetHeader("Origin")
	}
	outcome, err := bc.Booking.Checkout(c.Request.Context(), c.Param("id"), origin)
	if err != nil {
		bc.logUnexpected("checkout", err)
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusCreated, outcome)
}

// PaymentReturn handles the redirect back from the hosted checkout.
func (bc *BookingController) PaymentReturn(c *gin.Context) {
	appointment, err := bc.Booking.HandlePaymentReturn(c.Request.Context(), c.Request.URL.Query())
	if errors.Is(err, services.ErrPaymentUnverified) {
		c.JSON(http.StatusAccepted, gin.H{
			"status":  models.StatusPendingPayment,
			"message": "Pagamento em verificação. Você receberá a confirmação em breve.",
		})
		return
	}
	if err != nil {
		bc.logUnexpected("payment return", err)
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":      appointment.Status,
		"appointment": appointment,
	})
}

func (bc *BookingController) logUnexpected(step string, err error) {
	for _, known := range []error{
		services.ErrInvalidInput, services.ErrSessionNotFound, services.ErrSessionIncomplete,
		services.ErrClientExists, services.ErrClientNotFound, services.ErrServiceNotFound,
		services.ErrSlotUnavailable, services.ErrPaymentCancelled, services.ErrNoPaymentCorrelated,
	} {
		if errors.Is(err, known) {
			return
		}
	}
	bc.Logger.Error("booking step failed", "step", step, "err", err)
}
