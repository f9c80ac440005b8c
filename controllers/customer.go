// controllers/customer.go
package controllers

import (
	"errors"
	"net/http"
	"strings"

	"studiojb-backend/repository"
	"studiojb-backend/utils"

	"github.com/gin-gonic/gin"
)

// UpdateClientInput defines the expected JSON structure for updating a client
type UpdateClientInput struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
	CPF     *string `json:"cpf"`
}

// GetClients lists every client, newest first
func (ac *AdminController) GetClients(c *gin.Context) {
	clients, err := ac.Repos.Clients.List(c.Request.Context())
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve clients")
		return
	}
	c.JSON(http.StatusOK, clients)
}

func (ac *AdminController) GetClient(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	client, err := ac.Repos.Clients.FindByID(c.Request.Context(), id)
	if err != nil {
		respondLookupError(c, err, "Client not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"client":          client,
		"formatted_phone": utils.FormatPhone(client.Phone),
		"formatted_cpf":   utils.FormatCPF(client.CPF),
	})
}

// UpdateClient updates a client, re-validating phone and CPF
func (ac *AdminController) UpdateClient(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input UpdateClientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	client, err := ac.Repos.Clients.FindByID(c.Request.Context(), id)
	if err != nil {
		respondLookupError(c, err, "Client not found")
		return
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			utils.RespondWithError(c, http.StatusBadRequest, "Name cannot be empty")
			return
		}
		client.Name = name
	}
	if input.Phone != nil {
		if !utils.ValidatePhone(*input.Phone) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone")
			return
		}
		phone := utils.CleanPhone(*input.Phone)
		if phone != client.Phone {
			other, err := ac.Repos.Clients.FindByPhone(c.Request.Context(), phone)
			if err == nil && other.ID != client.ID {
				utils.RespondWithError(c, http.StatusConflict, "Phone already registered")
				return
			}
			if err != nil && !errors.Is(err, repository.ErrNotFound) {
				utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
				return
			}
		}
		client.Phone = phone
	}
	if input.Address != nil {
		client.Address = strings.TrimSpace(*input.Address)
	}
	if input.CPF != nil {
		if *input.CPF != "" && !utils.ValidateCPF(*input.CPF) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid CPF")
			return
		}
		client.CPF = utils.CleanCPF(*input.CPF)
	}

	if err := ac.Repos.Clients.Save(c.Request.Context(), client); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update client")
		return
	}
	c.JSON(http.StatusOK, client)
}

// GetClientAppointments returns a client's most recent appointments
func (ac *AdminController) GetClientAppointments(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	appointments, err := ac.Repos.Appointments.List(c.Request.Context(), repository.AppointmentFilter{
		ClientID: id,
		Limit:    queryInt(c, "limit", clientHistoryLimit),
	})
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve appointments")
		return
	}
	c.JSON(http.StatusOK, appointments)
}
