// controllers/reminder.go
package controllers

import (
	"errors"
	"net/http"

	"studiojb-backend/models"
	"studiojb-backend/repository"
	"studiojb-backend/utils"

	"github.com/gin-gonic/gin"
)

// UpdateNotificationTemplateInput defines the expected JSON structure
type UpdateNotificationTemplateInput struct {
	Message  *string `json:"message"`
	IsActive *bool   `json:"isActive"`
}

// GetNotificationTemplates retrieves the confirmation and reminder templates
func (ac *AdminController) GetNotificationTemplates(c *gin.Context) {
	templates, err := ac.Repos.Notifications.ListTemplates(c.Request.Context())
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve templates")
		return
	}
	c.JSON(http.StatusOK, templates)
}

// UpdateNotificationTemplate creates or updates the template of a type
func (ac *AdminController) UpdateNotificationTemplate(c *gin.Context) {
	kind := c.Param("type")
	if kind != models.NotificationConfirmation && kind != models.NotificationReminder {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid template type")
		return
	}

	var input UpdateNotificationTemplateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	template, err := ac.Repos.Notifications.FindTemplate(c.Request.Context(), kind)
	if errors.Is(err, repository.ErrNotFound) {
		template = &models.NotificationTemplate{Type: kind, IsActive: true}
	} else if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	if input.Message != nil {
		template.Message = *input.Message
	}
	if input.IsActive != nil {
		template.IsActive = *input.IsActive
	}
	if template.Message == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "Message is required")
		return
	}

	if err := ac.Repos.Notifications.SaveTemplate(c.Request.Context(), template); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to save template")
		return
	}
	c.JSON(http.StatusOK, template)
}
