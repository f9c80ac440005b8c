package controllers

import (
	"net/http"

	"studiojb-backend/models"
	"studiojb-backend/repository"
	"studiojb-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// DashboardOverview is the landing page of the back-office.
type DashboardOverview struct {
	TotalClients        int                  `json:"total_clients"`
	PendingAppointments int                  `json:"pending_appointments"`
	TodayAppointments   []models.Appointment `json:"today_appointments"`
	MonthRevenue        decimal.Decimal      `json:"month_revenue"`
	MonthRevenueLabel   string               `json:"month_revenue_label"`
}

func (ac *AdminController) GetDashboardOverview(c *gin.Context) {
	ctx := c.Request.Context()
	day := today(ac.Location)
	monthStart := day.AddDate(0, 0, 1-day.Day())
	monthEnd := monthStart.AddDate(0, 1, -1)

	clients, err := ac.Repos.Clients.List(ctx)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load clients")
		return
	}
	pending, err := ac.Repos.Appointments.List(ctx, repository.AppointmentFilter{Status: models.StatusPending})
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load appointments")
		return
	}
	todays, err := ac.Repos.Appointments.List(ctx, repository.AppointmentFilter{From: &day, To: &day})
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load appointments")
		return
	}
	completed, err := ac.Repos.Appointments.List(ctx, repository.AppointmentFilter{
		Status: models.StatusCompleted,
		From:   &monthStart,
		To:     &monthEnd,
	})
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load revenue")
		return
	}

	revenue := sumValues(completed)
	c.JSON(http.StatusOK, DashboardOverview{
		TotalClients:        len(clients),
		PendingAppointments: len(pending),
		TodayAppointments:   todays,
		MonthRevenue:        revenue,
		MonthRevenueLabel:   utils.FormatCurrency(decimal.NewNullDecimal(revenue)),
	})
}

// sumValues adds the values of appointments priced up front.
func sumValues(appointments []models.Appointment) decimal.Decimal {
	total := decimal.Zero
	for _, a := range appointments {
		if a.TotalValue.Valid {
			total = total.Add(a.TotalValue.Decimal)
		}
	}
	return total
}
