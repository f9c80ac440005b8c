package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"studiojb-backend/repository"
	"studiojb-backend/services"
	"studiojb-backend/utils"

	"github.com/gin-gonic/gin"
)

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid "+name+" format")
		return 0, false
	}
	return uint(id), true
}

// respondBookingError maps booking failures to status codes and the
// messages shown by the site.
func respondBookingError(c *gin.Context, err error) {
	var inputErr *services.InputError
	switch {
	case errors.As(err, &inputErr):
		utils.RespondWithError(c, http.StatusBadRequest, inputErr.Message)
	case errors.Is(err, services.ErrInvalidInput):
		utils.RespondWithError(c, http.StatusBadRequest, "Dados inválidos")
	case errors.Is(err, services.ErrSessionNotFound):
		utils.RespondWithError(c, http.StatusNotFound, "Sessão de agendamento expirada. Comece novamente.")
	case errors.Is(err, services.ErrSessionIncomplete):
		utils.RespondWithError(c, http.StatusBadRequest, "Complete as etapas anteriores do agendamento.")
	case errors.Is(err, services.ErrClientExists):
		utils.RespondWithError(c, http.StatusConflict, "Cliente já cadastrado com este telefone")
	case errors.Is(err, services.ErrClientNotFound):
		utils.RespondWithError(c, http.StatusNotFound, "Cliente não encontrado. Verifique o número ou cadastre-se como novo cliente.")
	case errors.Is(err, services.ErrServiceNotFound):
		utils.RespondWithError(c, http.StatusNotFound, "Serviço não encontrado")
	case errors.Is(err, repository.ErrNotFound):
		utils.RespondWithError(c, http.StatusNotFound, "Registro não encontrado")
	case errors.Is(err, services.ErrSlotUnavailable):
		utils.RespondWithError(c, http.StatusConflict, "Horário indisponível. Escolha outro horário.")
	case errors.Is(err, services.ErrPaymentCancelled):
		utils.RespondWithError(c, http.StatusPaymentRequired, "Pagamento cancelado. Você pode tentar novamente.")
	case errors.Is(err, services.ErrNoPaymentCorrelated):
		utils.RespondWithError(c, http.StatusBadRequest, "Pagamento não identificado")
	case errors.Is(err, services.ErrInvalidTransition):
		utils.RespondWithError(c, http.StatusConflict, "Agendamento não pode mais ser confirmado")
	default:
		utils.RespondWithError(c, http.StatusInternalServerError, "Erro ao processar agendamento. Tente novamente.")
	}
}
