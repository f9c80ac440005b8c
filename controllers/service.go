// controllers/service.go
package controllers

import (
	"errors"
	"net/http"

	"studiojb-backend/models"
	"studiojb-backend/repository"
	"studiojb-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// CreateServiceInput defines the expected JSON structure for creating a service.
// A missing price means the value is arranged in person.
type CreateServiceInput struct {
	Name                string              `json:"name" binding:"required"`
	Description         string              `json:"description"`
	Category            string              `json:"category" binding:"required"`
	Price               decimal.NullDecimal `json:"price"`
	DownPaymentValue    decimal.Decimal     `json:"downPaymentValue"`
	Duration            int                 `json:"duration" binding:"min=0"` // in minutes
	RequiresDownPayment bool                `json:"requiresDownPayment"`
	IsVariablePrice     bool                `json:"isVariablePrice"`
	CanBeConcurrent     bool                `json:"canBeConcurrent"`
	SpecialType         string              `json:"specialType" binding:"omitempty,oneof=mechas selagem"`
}

// UpdateServiceInput defines the expected JSON structure for updating a service
type UpdateServiceInput struct {
	Name                *string          `json:"name"`
	Description         *string          `json:"description"`
	Category            *string          `json:"category"`
	Price               *decimal.Decimal `json:"price"`
	PriceToBeArranged   *bool            `json:"priceToBeArranged"`
	DownPaymentValue    *decimal.Decimal `json:"downPaymentValue"`
	Duration            *int             `json:"duration"`
	RequiresDownPayment *bool            `json:"requiresDownPayment"`
	IsVariablePrice     *bool            `json:"isVariablePrice"`
	CanBeConcurrent     *bool            `json:"canBeConcurrent"`
	SpecialType         *string          `json:"specialType" binding:"omitempty,oneof=mechas selagem"`
	IsActive            *bool            `json:"isActive"`
}

// GetPublicServices lists the active catalogue, optionally by category.
func (ac *AdminController) GetPublicServices(c *gin.Context) {
	category := c.Query("category")
	if category != "" && !models.ValidCategory(category) {
		utils.RespondWithError(c, http.StatusBadRequest, "Categoria inválida")
		return
	}

	list, err := ac.Repos.Services.List(c.Request.Context(), category, true)
	if err != nil {
		ac.Logger.Error("failed to list services", "err", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Erro ao carregar serviços")
		return
	}
	c.JSON(http.StatusOK, withPriceLabels(list))
}

// CreateService creates a new service
func (ac *AdminController) CreateService(c *gin.Context) {
	var input CreateServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if !models.ValidCategory(input.Category) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid category")
		return
	}
	if (input.Price.Valid && input.Price.Decimal.IsNegative()) || input.DownPaymentValue.IsNegative() {
		utils.RespondWithError(c, http.StatusBadRequest, "Prices cannot be negative")
		return
	}

	duration := input.Duration
	if duration == 0 {
		duration = 30
	}
	service := models.Service{
		Name:                input.Name,
		Description:         input.Description,
		Category:            input.Category,
		Price:               input.Price,
		DownPaymentValue:    input.DownPaymentValue,
		DurationMinutes:     duration,
		RequiresDownPayment: input.RequiresDownPayment,
		IsVariablePrice:     input.IsVariablePrice,
		CanBeConcurrent:     input.CanBeConcurrent,
		IsSpecialService:    input.SpecialType != "",
		SpecialType:         input.SpecialType,
		IsActive:            true,
	}

	if err := ac.Repos.Services.Create(c.Request.Context(), &service); err != nil {
		ac.Logger.Error("failed to create service", "err", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create service")
		return
	}

	c.JSON(http.StatusCreated, service)
}

// GetServices retrieves every service, active or not
func (ac *AdminController) GetServices(c *gin.Context) {
	list, err := ac.Repos.Services.List(c.Request.Context(), c.Query("category"), false)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve services")
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetService retrieves a specific service by ID
func (ac *AdminController) GetService(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	service, err := ac.Repos.Services.FindByID(c.Request.Context(), id)
	if err != nil {
		respondLookupError(c, err, "Service not found")
		return
	}
	c.JSON(http.StatusOK, service)
}

// UpdateService updates an existing service
func (ac *AdminController) UpdateService(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input UpdateServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	service, err := ac.Repos.Services.FindByID(c.Request.Context(), id)
	if err != nil {
		respondLookupError(c, err, "Service not found")
		return
	}

	// Update fields if provided
	if input.Name != nil {
		service.Name = *input.Name
	}
	if input.Description != nil {
		service.Description = *input.Description
	}
	if input.Category != nil {
		if !models.ValidCategory(*input.Category) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid category")
			return
		}
		service.Category = *input.Category
	}
	if input.Price != nil {
		service.Price = decimal.NewNullDecimal(*input.Price)
	}
	if input.PriceToBeArranged != nil && *input.PriceToBeArranged {
		service.Price = decimal.NullDecimal{}
	}
	if input.DownPaymentValue != nil {
		service.DownPaymentValue = *input.DownPaymentValue
	}
	if input.Duration != nil {
		service.DurationMinutes = *input.Duration
	}
	if input.RequiresDownPayment != nil {
		service.RequiresDownPayment = *input.RequiresDownPayment
	}
	if input.IsVariablePrice != nil {
		service.IsVariablePrice = *input.IsVariablePrice
	}
	if input.CanBeConcurrent != nil {
		service.CanBeConcurrent = *input.CanBeConcurrent
	}
	if input.SpecialType != nil {
		service.SpecialType = *input.SpecialType
		service.IsSpecialService = *input.SpecialType != ""
	}
	if input.IsActive != nil {
		service.IsActive = *input.IsActive
	}

	if err := ac.Repos.Services.Save(c.Request.Context(), service); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update service")
		return
	}

	c.JSON(http.StatusOK, service)
}

// DeleteService removes a service from the catalogue
func (ac *AdminController) DeleteService(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ac.Repos.Services.Delete(c.Request.Context(), id); err != nil {
		respondLookupError(c, err, "Service not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Service deleted successfully"})
}

type serviceView struct {
	models.Service
	PriceLabel string `json:"price_label"`
}

func withPriceLabels(list []models.Service) []serviceView {
	out := make([]serviceView, 0, len(list))
	for _, s := range list {
		out = append(out, serviceView{Service: s, PriceLabel: utils.FormatCurrency(s.Price)})
	}
	return out
}

func respondLookupError(c *gin.Context, err error, notFoundMsg string) {
	if errors.Is(err, repository.ErrNotFound) {
		utils.RespondWithError(c, http.StatusNotFound, notFoundMsg)
		return
	}
	utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
}
