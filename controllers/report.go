package controllers

import (
	"net/http"
	"sort"

	"studiojb-backend/models"
	"studiojb-backend/repository"
	"studiojb-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type ServiceRevenue struct {
	ServiceID   uint            `json:"service_id"`
	ServiceName string          `json:"service_name"`
	Count       int             `json:"count"`
	Revenue     decimal.Decimal `json:"revenue"`
}

type ReportAnalytics struct {
	From           string           `json:"from"`
	To             string           `json:"to"`
	StatusCounts   map[string]int   `json:"status_counts"`
	Revenue        decimal.Decimal  `json:"revenue"`
	RevenueLabel   string           `json:"revenue_label"`
	TopServices    []ServiceRevenue `json:"top_services"`
	CancelledRatio float64          `json:"cancelled_ratio"`
}

// GetReportAnalytics summarises appointments in a date range. Revenue
// counts completed appointments only. Defaults to the current month.
func (ac *AdminController) GetReportAnalytics(c *gin.Context) {
	day := today(ac.Location)
	from := day.AddDate(0, 0, 1-day.Day())
	to := from.AddDate(0, 1, -1)

	if v := c.Query("from"); v != "" {
		d, err := utils.ParseDate(v)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid from date")
			return
		}
		from = d
	}
	if v := c.Query("to"); v != "" {
		d, err := utils.ParseDate(v)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid to date")
			return
		}
		to = d
	}
	if to.Before(from) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid date range")
		return
	}

	appointments, err := ac.Repos.Appointments.List(c.Request.Context(), repository.AppointmentFilter{From: &from, To: &to})
	if err != nil {
		ac.Logger.Error("failed to build report", "err", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to build report")
		return
	}

	c.JSON(http.StatusOK, buildReport(appointments, from.Format(utils.DateLayout), to.Format(utils.DateLayout)))
}

func buildReport(appointments []models.Appointment, from, to string) ReportAnalytics {
	report := ReportAnalytics{From: from, To: to, StatusCounts: map[string]int{}, Revenue: decimal.Zero}
	byService := map[uint]*ServiceRevenue{}
	cancelled := 0

	for _, a := range appointments {
		report.StatusCounts[a.Status]++
		if models.IsCancelled(a.Status) {
			cancelled++
		}
		if a.Status != models.StatusCompleted {
			continue
		}
		sr, ok := byService[a.ServiceID]
		if !ok {
			sr = &ServiceRevenue{ServiceID: a.ServiceID, Revenue: decimal.Zero}
			if a.Service != nil {
				sr.ServiceName = a.Service.Name
			}
			byService[a.ServiceID] = sr
		}
		sr.Count++
		if a.TotalValue.Valid {
			sr.Revenue = sr.Revenue.Add(a.TotalValue.Decimal)
			report.Revenue = report.Revenue.Add(a.TotalValue.Decimal)
		}
	}

	report.TopServices = make([]ServiceRevenue, 0, len(byService))
	for _, sr := range byService {
		report.TopServices = append(report.TopServices, *sr)
	}
	sort.Slice(report.TopServices, func(i, j int) bool {
		if c := report.TopServices[i].Revenue.Cmp(report.TopServices[j].Revenue); c != 0 {
			return c > 0
		}
		return report.TopServices[i].ServiceID < report.TopServices[j].ServiceID
	})
	if len(appointments) > 0 {
		report.CancelledRatio = float64(cancelled) / float64(len(appointments))
	}
	report.RevenueLabel = utils.FormatCurrency(decimal.NewNullDecimal(report.Revenue))
	return report
}
