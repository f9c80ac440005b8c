package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"studiojb-backend/config"
	"studiojb-backend/controllers"
	"studiojb-backend/metrics"
	"studiojb-backend/models"
	"studiojb-backend/repository/repotest"
	"studiojb-backend/services"
	"studiojb-backend/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
	utils.BcryptCost = bcrypt.MinCost
}

type testApp struct {
	router *gin.Engine
	store  *repotest.Store
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	cfg := &config.Config{
		JWTSecret:              "test-secret",
		JWTExpiryHours:         1,
		PublicOrigin:           "https://studiojb.com.br",
		CORSOrigins:            []string{"https://studiojb.com.br"},
		InfinitePayHandle:      "studiojb",
		InfinitePayCheckoutURL: "https://checkout.infinitepay.io",
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	store := repotest.NewStore()
	repos := store.Repositories()
	availability := services.NewAvailabilityService(repos.Services, repos.Appointments)
	appointments := services.NewAppointmentService(repos.Appointments, repos.History, nil, logger)
	checkout := services.NewCheckoutService(cfg.InfinitePayCheckoutURL, cfg.InfinitePayHandle, cfg.PublicOrigin, cfg.CORSOrigins...)
	booking := services.NewBookingService(repos, availability, checkout, appointments,
		services.NewRedisSessionStore(rdb, time.Hour), services.TrustingVerifier{}, m, logger)

	r := SetupRouter(Deps{
		Config:      cfg,
		Logger:      logger,
		Metrics:     m,
		Gatherer:    reg,
		RateLimiter: utils.NewRateLimiter(rdb, 1000, time.Minute, "rl:test"),
		Booking:     &controllers.BookingController{Booking: booking, Availability: availability, Logger: logger},
		Admin:       &controllers.AdminController{Repos: repos, Appointments: appointments, Logger: logger, Location: time.UTC},
		Auth:        &controllers.AuthController{Users: repos.Users, Secret: cfg.JWTSecret, Expiry: time.Hour, Logger: logger},
	})
	return &testApp{router: r, store: store}
}

func (a *testApp) do(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func TestHealthAndMetrics(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = app.do(t, http.MethodGet, "/metrics", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "studiojb_http_request_duration_seconds")
}

func TestBookingFlowOverHTTP(t *testing.T) {
	app := newTestApp(t)
	svc := app.store.AddService(models.Service{
		Name:     "Corte feminino",
		Category: models.CategoryHair,
		Price:    decimal.NewNullDecimal(decimal.RequireFromString("80")),
		IsActive: true,
	})

	w := app.do(t, http.MethodGet, "/api/services?category=hair", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "\"price_label\":\"R$\u00a080,00\"")

	w = app.do(t, http.MethodPost, "/api/booking/sessions", nil, "")
	require.Equal(t, http.StatusCreated, w.Code)
	var session services.BookingSession
	decode(t, w, &session)
	base := "/api/booking/sessions/" + session.ID

	w = app.do(t, http.MethodPost, base+"/register", gin.H{"name": "Ana", "phone": "(11) 98765-4321"}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = app.do(t, http.MethodPost, base+"/register", gin.H{"name": "Ana", "phone": "11987654321"}, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = app.do(t, http.MethodPut, base+"/service", gin.H{"serviceId": svc.ID}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = app.do(t, http.MethodGet, "/api/booking/slots?date=2024-03-04&serviceId="+itoa(svc.ID), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var slots struct {
		Slots []string `json:"slots"`
	}
	decode(t, w, &slots)
	require.Len(t, slots.Slots, 20)
	assert.Equal(t, "09:00", slots.Slots[0])

	w = app.do(t, http.MethodPut, base+"/slot", gin.H{"date": "2024-03-10", "time": "10:00"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"error":"O salão não abre aos domingos"`)

	w = app.do(t, http.MethodPut, base+"/slot", gin.H{"date": "2024-03-04", "time": "08:30"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"error":"Horário fora do expediente"`)

	w = app.do(t, http.MethodPut, base+"/slot", gin.H{"date": "2024-03-04", "time": "09:00"}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = app.do(t, http.MethodPost, base+"/checkout", gin.H{"origin": "https://evil.example"}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var outcome services.CheckoutOutcome
	decode(t, w, &outcome)
	require.NotNil(t, outcome.Checkout)
	assert.Contains(t, outcome.Checkout.CheckoutURL, url.QueryEscape(outcome.Checkout.OrderNSU))
	assert.True(t, strings.HasPrefix(outcome.Checkout.SuccessURL, "https://studiojb.com.br/agendamento/confirmacao?"))
	returned, err := url.Parse(outcome.Checkout.SuccessURL)
	require.NoError(t, err)

	w = app.do(t, http.MethodGet, "/api/booking/slots?date=2024-03-04&serviceId="+itoa(svc.ID), nil, "")
	decode(t, w, &slots)
	assert.NotContains(t, slots.Slots, "09:00")

	w = app.do(t, http.MethodGet, "/api/booking/payment/return?"+returned.RawQuery, nil, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"status":"confirmed"`)

	w = app.do(t, http.MethodGet, base, nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code, "the session closes once paid")

	w = app.do(t, http.MethodGet, "/api/booking/payment/return?payment=cancelled", nil, "")
	assert.Equal(t, http.StatusPaymentRequired, w.Code)
}

func TestSlotsValidation(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, http.MethodGet, "/api/booking/slots?date=amanha&serviceId=1", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(t, http.MethodGet, "/api/booking/slots?date=2024-03-10&serviceId=1", nil, "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code, "sundays are closed")

	w = app.do(t, http.MethodGet, "/api/booking/slots?date=2024-03-05&serviceId=99", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"slots":[]`)

	w = app.do(t, http.MethodGet, "/api/booking/sessions/unknown", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminLoginAndAppointments(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()
	require.NoError(t, app.store.Repositories().Users.Create(ctx, &models.User{
		Username: "bruna", PasswordHash: "senha-forte", IsActive: true,
	}))

	w := app.do(t, http.MethodGet, "/api/admin/appointments", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = app.do(t, http.MethodPost, "/auth/login", gin.H{"username": "bruna", "password": "errada"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = app.do(t, http.MethodPost, "/auth/login", gin.H{"username": "bruna", "password": "senha-forte"}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var login struct {
		Token string `json:"token"`
	}
	decode(t, w, &login)
	require.NotEmpty(t, login.Token)

	w = app.do(t, http.MethodGet, "/auth/me", nil, login.Token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"bruna"`)
	assert.NotContains(t, w.Body.String(), "senha-forte")

	d, _ := utils.ParseDate("2024-03-05")
	a := app.store.AddAppointment(models.Appointment{AppointmentDate: d, AppointmentTime: "10:00", Status: models.StatusPending})

	w = app.do(t, http.MethodGet, "/api/admin/appointments?status=pending", nil, login.Token)
	require.Equal(t, http.StatusOK, w.Code)
	var list []models.Appointment
	decode(t, w, &list)
	require.Len(t, list, 1)

	w = app.do(t, http.MethodPut, "/api/admin/appointments/"+itoa(a.ID)+"/status", gin.H{"action": "cancel"}, login.Token)
	assert.Equal(t, http.StatusBadRequest, w.Code, "cancel needs a reason")

	w = app.do(t, http.MethodPut, "/api/admin/appointments/"+itoa(a.ID)+"/status", gin.H{"action": "cancel", "reason": "salon"}, login.Token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), models.StatusCancelledBySalon)

	w = app.do(t, http.MethodPut, "/api/admin/appointments/"+itoa(a.ID)+"/status", gin.H{"action": "confirm"}, login.Token)
	assert.Equal(t, http.StatusConflict, w.Code)

	history := app.store.History()
	require.Len(t, history, 1)
	assert.Equal(t, "bruna", history[0].ChangedBy)
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
