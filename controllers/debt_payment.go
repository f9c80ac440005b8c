package controllers

import (
	"net/http"
	"time"

	"studiojb-backend/models"
	"studiojb-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type CreateDebtPaymentInput struct {
	AppointmentID uint            `json:"appointmentId" binding:"required"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"paymentMethod" binding:"required,oneof=pix cash card"`
	PaymentDate   string          `json:"paymentDate"`
	Notes         string          `json:"notes"`
}

// CreateDebtPayment records money received after the booking
func (ac *AdminController) CreateDebtPayment(c *gin.Context) {
	var input CreateDebtPaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if !input.Amount.IsPositive() {
		utils.RespondWithError(c, http.StatusBadRequest, "Amount must be positive")
		return
	}

	if _, err := ac.Repos.Appointments.FindByID(c.Request.Context(), input.AppointmentID); err != nil {
		respondLookupError(c, err, "Appointment not found")
		return
	}

	payment := models.DebtPayment{
		AppointmentID: input.AppointmentID,
		Amount:        input.Amount,
		PaymentMethod: input.PaymentMethod,
		PaymentDate:   time.Now(),
		Notes:         input.Notes,
	}
	if input.PaymentDate != "" {
		d, err := utils.ParseDate(input.PaymentDate)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid payment date")
			return
		}
		payment.PaymentDate = d
	}

	if err := ac.Repos.DebtPayments.Create(c.Request.Context(), &payment); err != nil {
		ac.Logger.Error("failed to record debt payment", "appointment_id", input.AppointmentID, "err", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to record payment")
		return
	}

	ac.Logger.Info("debt payment recorded",
		"appointment_id", payment.AppointmentID,
		"amount", payment.Amount.StringFixed(2),
		"method", payment.PaymentMethod,
		"by", utils.CurrentUsername(c),
	)
	c.JSON(http.StatusCreated, payment)
}

// GetDebtPayments lists the payments of an appointment with their sum
func (ac *AdminController) GetDebtPayments(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	payments, err := ac.Repos.DebtPayments.ListByAppointment(c.Request.Context(), id)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve payments")
		return
	}

	total := decimal.Zero
	for _, p := range payments {
		total = total.Add(p.Amount)
	}
	c.JSON(http.StatusOK, gin.H{
		"payments":    payments,
		"total":       total,
		"total_label": utils.FormatCurrency(decimal.NewNullDecimal(total)),
	})
}
