package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studiojb-backend/repository"
	"studiojb-backend/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRespondBookingErrorStatusCodes(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: Telefone inválido", services.ErrInvalidInput), http.StatusBadRequest},
		{services.ErrSessionNotFound, http.StatusNotFound},
		{services.ErrSessionIncomplete, http.StatusBadRequest},
		{services.ErrClientExists, http.StatusConflict},
		{services.ErrClientNotFound, http.StatusNotFound},
		{services.ErrServiceNotFound, http.StatusNotFound},
		{repository.ErrNotFound, http.StatusNotFound},
		{services.ErrSlotUnavailable, http.StatusConflict},
		{services.ErrPaymentCancelled, http.StatusPaymentRequired},
		{services.ErrNoPaymentCorrelated, http.StatusBadRequest},
		{fmt.Errorf("create appointment: %w", assert.AnError), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		respondBookingError(c, tt.err)
		assert.Equal(t, tt.want, w.Code, tt.err.Error())
	}
}

func TestRespondBookingErrorMessages(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("register client: %w", &services.InputError{Message: "CPF inválido"}), "CPF inválido"},
		{services.ErrSlotUnavailable, "Horário indisponível. Escolha outro horário."},
		{fmt.Errorf("checkout: %w", services.ErrClientNotFound), "Cliente não encontrado. Verifique o número ou cadastre-se como novo cliente."},
		{fmt.Errorf("find appointment: %w", repository.ErrNotFound), "Registro não encontrado"},
		{services.ErrInvalidInput, "Dados inválidos"},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		respondBookingError(c, tt.err)

		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, tt.want, body["error"])
	}
}

func TestParseIDParam(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "abc"}}
	_, ok := parseIDParam(c, "id")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "12"}}
	id, ok := parseIDParam(c, "id")
	assert.True(t, ok)
	assert.Equal(t, uint(12), id)
}
