package controllers

import (
	"net/http"

	"studiojb-backend/models"
	"studiojb-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type CreateKitInput struct {
	Name               string              `json:"name" binding:"required"`
	Description        string              `json:"description"`
	Price              decimal.NullDecimal `json:"price"`
	Duration           int                 `json:"duration" binding:"min=0"`
	DiscountPercentage int                 `json:"discountPercentage" binding:"min=0,max=100"`
}

type UpdateKitInput struct {
	Name               *string          `json:"name"`
	Description        *string          `json:"description"`
	Price              *decimal.Decimal `json:"price"`
	Duration           *int             `json:"duration"`
	DiscountPercentage *int             `json:"discountPercentage" binding:"omitempty,min=0,max=100"`
	IsActive           *bool            `json:"isActive"`
}

type kitView struct {
	models.PromotionalKit
	PriceLabel string `json:"price_label"`
}

// GetPublicKits lists the kits currently on offer.
func (ac *AdminController) GetPublicKits(c *gin.Context) {
	kits, err := ac.Repos.Kits.List(c.Request.Context(), true)
	if err != nil {
		ac.Logger.Error("failed to list kits", "err", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Erro ao carregar kits")
		return
	}
	out := make([]kitView, 0, len(kits))
	for _, k := range kits {
		out = append(out, kitView{PromotionalKit: k, PriceLabel: utils.FormatCurrency(k.Price)})
	}
	c.JSON(http.StatusOK, out)
}

func (ac *AdminController) GetKits(c *gin.Context) {
	kits, err := ac.Repos.Kits.List(c.Request.Context(), false)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve kits")
		return
	}
	c.JSON(http.StatusOK, kits)
}

func (ac *AdminController) CreateKit(c *gin.Context) {
	var input CreateKitInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	kit := models.PromotionalKit{
		Name:               input.Name,
		Description:        input.Description,
		Price:              input.Price,
		DurationMinutes:    input.Duration,
		DiscountPercentage: input.DiscountPercentage,
		IsActive:           true,
	}
	if err := ac.Repos.Kits.Create(c.Request.Context(), &kit); err != nil {
		ac.Logger.Error("failed to create kit", "err", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create kit")
		return
	}
	c.JSON(http.StatusCreated, kit)
}

func (ac *AdminController) UpdateKit(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input UpdateKitInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	kit, err := ac.Repos.Kits.FindByID(c.Request.Context(), id)
	if err != nil {
		respondLookupError(c, err, "Kit not found")
		return
	}

	if input.Name != nil {
		kit.Name = *input.Name
	}
	if input.Description != nil {
		kit.Description = *input.Description
	}
	if input.Price != nil {
		kit.Price = decimal.NewNullDecimal(*input.Price)
	}
	if input.Duration != nil {
		kit.DurationMinutes = *input.Duration
	}
	if input.DiscountPercentage != nil {
		kit.DiscountPercentage = *input.DiscountPercentage
	}
	if input.IsActive != nil {
		kit.IsActive = *input.IsActive
	}

	if err := ac.Repos.Kits.Save(c.Request.Context(), kit); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update kit")
		return
	}
	c.JSON(http.StatusOK, kit)
}
