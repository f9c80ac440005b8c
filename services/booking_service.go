// services/booking_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"slices"
	"strings"
	"time"

	"studiojb-backend/metrics"
	"studiojb-backend/models"
	"studiojb-backend/repository"
	"studiojb-backend/utils"

	"github.com/shopspring/decimal"
)

var (
	ErrClientExists        = errors.New("client already registered with this phone")
	ErrClientNotFound      = errors.New("client not found")
	ErrServiceNotFound     = errors.New("service not found")
	ErrSlotUnavailable     = errors.New("slot no longer available")
	ErrSessionIncomplete   = errors.New("booking session is incomplete")
	ErrPaymentCancelled    = errors.New("payment cancelled")
	ErrNoPaymentCorrelated = errors.New("no payment correlated with this return")
	ErrPaymentUnverified   = errors.New("payment not yet verified")
	ErrInvalidInput        = errors.New("invalid input")
)

// InputError carries the message shown to the client for a rejected field.
// It matches ErrInvalidInput with errors.Is.
type InputError struct {
	Message string
}

func (e *InputError) Error() string { return "invalid input: " + e.Message }

func (e *InputError) Is(target error) bool { return target == ErrInvalidInput }

func invalidInput(message string) error { return &InputError{Message: message} }

// ClientInput is what a new client fills in on the first step.
type ClientInput struct {
	Name    string
	Phone   string
	Address string
	CPF     string
}

// CheckoutOutcome is the end of the wizard: either a redirect to the hosted
// checkout or a booked appointment waiting for the salon to confirm it.
type CheckoutOutcome struct {
	Appointment     *models.Appointment `json:"appointment"`
	RequiresPayment bool                `json:"requires_payment"`
	Checkout        *CheckoutDescriptor `json:"checkout,omitempty"`
}

type BookingService struct {
	repos        *repository.Repositories
	availability *AvailabilityService
	checkout     *CheckoutService
	appointments *AppointmentService
	sessions     SessionStore
	verifier     PaymentVerifier
	metrics      *metrics.BookingMetrics
	logger       *slog.Logger
}

func NewBookingService(
	repos *repository.Repositories,
	availability *AvailabilityService,
	checkout *CheckoutService,
	appointments *AppointmentService,
	sessions SessionStore,
	verifier PaymentVerifier,
	m *metrics.BookingMetrics,
	logger *slog.Logger,
) *BookingService {
	if verifier == nil {
		verifier = TrustingVerifier{}
	}
	return &BookingService{
		repos:        repos,
		availability: availability,
		checkout:     checkout,
		appointments: appointments,
		sessions:     sessions,
		verifier:     verifier,
		metrics:      m,
		logger:       logger,
	}
}

func (s *BookingService) StartSession(ctx context.Context) (*BookingSession, error) {
	return s.sessions.Create(ctx)
}

func (s *BookingService) Session(ctx context.Context, id string) (*BookingSession, error) {
	return s.sessions.Get(ctx, id)
}

// Restart discards every selection of the session.
func (s *BookingService) Restart(ctx context.Context, id string) error {
	return s.sessions.Delete(ctx, id)
}

// RegisterClient creates a client on first booking and attaches it to the
// session.
func (s *BookingService) RegisterClient(ctx context.Context, sessionID string, in ClientInput) (*models.Client, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	if name == "" || strings.TrimSpace(in.Phone) == "" {
		return nil, invalidInput("Nome e telefone são obrigatórios")
	}
	if !utils.ValidatePhone(in.Phone) {
		return nil, invalidInput("Telefone inválido")
	}
	if in.CPF != "" && !utils.ValidateCPF(in.CPF) {
		return nil, invalidInput("CPF inválido")
	}

	client := &models.Client{
		Name:    name,
		Phone:   utils.CleanPhone(in.Phone),
		Address: strings.TrimSpace(in.Address),
		CPF:     utils.CleanCPF(in.CPF),
	}

	_, err = s.repos.Clients.FindByPhone(ctx, client.Phone)
	if err == nil {
		return nil, ErrClientExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("find client: %w", err)
	}

	if err := s.repos.Clients.Create(ctx, client); err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}

	session.ClientID = client.ID
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	s.logger.Info("client registered", "client_id", client.ID, "session_id", session.ID)
	return client, nil
}

// IdentifyClient looks up a returning client by phone.
func (s *BookingService) IdentifyClient(ctx context.Context, sessionID, phone string) (*models.Client, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(phone) == "" {
		return nil, invalidInput("Telefone é obrigatório")
	}

	client, err := s.repos.Clients.FindByPhone(ctx, utils.CleanPhone(phone))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrClientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find client: %w", err)
	}

	session.ClientID = client.ID
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return client, nil
}

// SelectService stores the service and drops a previously chosen slot.
func (s *BookingService) SelectService(ctx context.Context, sessionID string, serviceID uint) (*models.Service, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	service, err := s.repos.Services.FindByID(ctx, serviceID)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && !service.IsActive) {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find service: %w", err)
	}

	if session.ServiceID != serviceID {
		session.Date, session.Time = "", ""
	}
	session.ServiceID = serviceID
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return service, nil
}

// AvailableSlots proxies the availability engine and counts the outcome.
func (s *BookingService) AvailableSlots(ctx context.Context, date time.Time, serviceID uint) ([]string, error) {
	slots, err := s.availability.ListAvailableSlots(ctx, date, serviceID)
	if err != nil {
		s.metrics.ObserveSlotQuery("error")
		return nil, err
	}
	if len(slots) == 0 {
		s.metrics.ObserveSlotQuery("full")
	} else {
		s.metrics.ObserveSlotQuery("ok")
	}
	return slots, nil
}

// SelectSlot validates the slot against the day's grid and current bookings
// before storing it on the session.
func (s *BookingService) SelectSlot(ctx context.Context, sessionID, date, slot string) error {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	if session.ServiceID == 0 {
		return ErrSessionIncomplete
	}
	day, err := utils.ParseDate(date)
	if err != nil || !utils.ValidSlot(slot) {
		return invalidInput("Data ou horário inválido")
	}
	if day.Weekday() == time.Sunday {
		return invalidInput("O salão não abre aos domingos")
	}
	if !slices.Contains(CandidateSlots(day), slot) {
		return invalidInput("Horário fora do expediente")
	}

	service, err := s.findService(ctx, session.ServiceID)
	if err != nil {
		return err
	}
	if err := s.ensureSlotFree(ctx, day, slot, service); err != nil {
		return err
	}

	session.Date, session.Time = date, slot
	return s.sessions.Save(ctx, session)
}

// ensureSlotFree checks regular occupancy and, for mechas/selagem, the
// period exclusivity.
func (s *BookingService) ensureSlotFree(ctx context.Context, day time.Time, slot string, service *models.Service) error {
	ok, err := s.availability.IsSlotAvailable(ctx, day, slot, service.ID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrSlotUnavailable
	}
	if service.IsSpecialService && service.SpecialType != "" {
		free, err := s.availability.CheckSpecialServiceAvailability(ctx, day, service.SpecialType, models.PeriodOf(slot))
		if err != nil {
			return err
		}
		if !free {
			return ErrSlotUnavailable
		}
	}
	return nil
}

func (s *BookingService) findService(ctx context.Context, id uint) (*models.Service, error) {
	service, err := s.repos.Services.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find service: %w", err)
	}
	return service, nil
}

// Checkout books the appointment. Paid services start in pending_payment
// and get a checkout descriptor; the rest start pending and the session ends.
// Calling it again while the payment is pending reuses the appointment.
func (s *BookingService) Checkout(ctx context.Context, sessionID, origin string) (*CheckoutOutcome, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.ClientID == 0 || session.ServiceID == 0 || session.Date == "" || session.Time == "" {
		return nil, ErrSessionIncomplete
	}

	client, err := s.repos.Clients.FindByID(ctx, session.ClientID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrClientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find client: %w", err)
	}
	service, err := s.findService(ctx, session.ServiceID)
	if err != nil {
		return nil, err
	}
	day, err := utils.ParseDate(session.Date)
	if err != nil {
		return nil, invalidInput("Data inválida")
	}

	item := ChargeableFromService(service)
	needsPayment := RequiresPayment(item)
	downPaymentOnly := RequiresDownPaymentOnly(item)

	appointment, err := s.pendingAppointment(ctx, session, day)
	if err != nil {
		return nil, err
	}
	if appointment == nil {
		if err := s.ensureSlotFree(ctx, day, session.Time, service); err != nil {
			return nil, err
		}
		appointment, err = s.createAppointment(ctx, session, client, service, day, needsPayment, downPaymentOnly)
		if err != nil {
			return nil, err
		}
	}

	appointment.Client, appointment.Service = client, service
	outcome := &CheckoutOutcome{Appointment: appointment, RequiresPayment: needsPayment}

	if !needsPayment {
		s.closeSession(ctx, session.ID)
		return outcome, nil
	}

	descriptor, err := s.checkout.BuildCheckout(CheckoutRequest{
		Item: item,
		Customer: Customer{
			Name:  client.Name,
			Phone: client.Phone,
			CPF:   client.CPF,
		},
		AppointmentID: appointment.ID,
		DownPayment:   downPaymentOnly,
		Origin:        origin,
		SessionID:     session.ID,
	})
	if err != nil {
		return nil, err
	}
	mode := "full"
	if downPaymentOnly {
		mode = "down_payment"
	}
	s.metrics.ObserveCheckout(mode)

	session.AppointmentID = appointment.ID
	session.Checkout = &descriptor
	if err := s.sessions.Save(ctx, session); err != nil {
		s.logger.Warn("failed to store checkout on session", "session_id", session.ID, "err", err)
	}

	outcome.Checkout = &descriptor
	return outcome, nil
}

// pendingAppointment returns the appointment an earlier checkout of this
// session booked, when it still waits for payment at the selected slot. A
// pending one left at another slot is cancelled.
func (s *BookingService) pendingAppointment(ctx context.Context, session *BookingSession, day time.Time) (*models.Appointment, error) {
	if session.AppointmentID == 0 {
		return nil, nil
	}
	existing, err := s.repos.Appointments.FindByID(ctx, session.AppointmentID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find appointment: %w", err)
	}
	if existing.Status != models.StatusPendingPayment {
		return nil, nil
	}

	if existing.ServiceID == session.ServiceID &&
		existing.AppointmentDate.Format("2006-01-02") == day.Format("2006-01-02") &&
		existing.AppointmentTime == session.Time {
		return existing, nil
	}
	if _, err := s.appointments.ChangeStatus(ctx, existing.ID, models.StatusCancelledByClient, "client", "Horário alterado antes do pagamento", nil); err != nil {
		return nil, err
	}
	return nil, nil
}

func (s *BookingService) createAppointment(ctx context.Context, session *BookingSession, client *models.Client, service *models.Service, day time.Time, needsPayment, downPaymentOnly bool) (*models.Appointment, error) {
	appointment := &models.Appointment{
		ClientID:        client.ID,
		ServiceID:       service.ID,
		AppointmentDate: day,
		AppointmentTime: session.Time,
		Status:          models.StatusPending,
		TotalValue:      service.Price,
	}
	if needsPayment {
		appointment.Status = models.StatusPendingPayment
	}
	if downPaymentOnly {
		appointment.TotalValue = decimal.NewNullDecimal(service.DownPaymentValue)
	}
	if service.IsSpecialService {
		period := models.PeriodOf(session.Time)
		switch service.SpecialType {
		case models.SpecialMechas:
			appointment.IsMechas, appointment.MechasPeriod = true, period
		case models.SpecialSelagem:
			appointment.IsSelagem, appointment.SelagemPeriod = true, period
		}
	}

	if err := s.repos.Appointments.Create(ctx, appointment); err != nil {
		return nil, fmt.Errorf("create appointment: %w", err)
	}
	s.appointments.RecordCreation(ctx, appointment, "client")
	s.metrics.ObserveAppointment(appointment.Status)
	s.logger.Info("appointment created",
		"appointment_id", appointment.ID,
		"client_id", client.ID,
		"service_id", service.ID,
		"date", session.Date,
		"time", session.Time,
		"status", appointment.Status,
	)
	return appointment, nil
}

func (s *BookingService) closeSession(ctx context.Context, id string) {
	if err := s.sessions.Delete(ctx, id); err != nil {
		s.logger.Warn("failed to clear booking session", "session_id", id, "err", err)
	}
}

// closePaidSession drops the wizard session that started a confirmed
// payment, provided it points at the same appointment.
func (s *BookingService) closePaidSession(ctx context.Context, sessionID string, appointmentID uint) {
	if sessionID == "" {
		return
	}
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return
	}
	if session.AppointmentID == appointmentID {
		s.closeSession(ctx, session.ID)
	}
}

// HandlePaymentReturn processes the redirect back from the hosted checkout.
func (s *BookingService) HandlePaymentReturn(ctx context.Context, query url.Values) (*models.Appointment, error) {
	result := ParsePaymentResult(query)

	if result.IsCancelled {
		s.metrics.ObservePaymentReturn("cancelled")
		return nil, ErrPaymentCancelled
	}
	if !result.IsSuccess || result.OrderNSU == "" {
		s.metrics.ObservePaymentReturn("uncorrelated")
		return nil, ErrNoPaymentCorrelated
	}
	appointmentID, ok := ExtractAppointmentID(result.OrderNSU)
	if !ok {
		s.metrics.ObservePaymentReturn("uncorrelated")
		return nil, ErrNoPaymentCorrelated
	}

	current, err := s.repos.Appointments.FindByID(ctx, appointmentID)
	if errors.Is(err, repository.ErrNotFound) {
		s.metrics.ObservePaymentReturn("uncorrelated")
		return nil, ErrNoPaymentCorrelated
	}
	if err != nil {
		return nil, err
	}
	if current.Status == models.StatusConfirmed && current.PaymentOrderNSU != nil && *current.PaymentOrderNSU == result.OrderNSU {
		// the client reloaded the confirmation page
		s.closePaidSession(ctx, result.SessionID, current.ID)
		return current, nil
	}

	paid, err := s.verifier.Verify(ctx, result)
	if err != nil {
		s.logger.Warn("payment verification failed", "order_nsu", result.OrderNSU, "err", err)
	}
	if !paid {
		if err := s.repos.Appointments.Update(ctx, appointmentID, map[string]interface{}{
			"payment_order_nsu": result.OrderNSU,
		}); err != nil {
			return nil, fmt.Errorf("record order reference: %w", err)
		}
		s.metrics.ObservePaymentReturn("unverified")
		return nil, ErrPaymentUnverified
	}

	appointment, err := s.appointments.ChangeStatus(ctx, appointmentID, models.StatusConfirmed, "payment", "", map[string]interface{}{
		"down_payment_paid": true,
		"payment_order_nsu": result.OrderNSU,
	})
	if err != nil {
		return nil, err
	}
	s.metrics.ObservePaymentReturn("confirmed")
	s.closePaidSession(ctx, result.SessionID, appointment.ID)
	return appointment, nil
}

// ChargeableFromService maps a catalogue service onto the checkout input.
func ChargeableFromService(s *models.Service) Chargeable {
	return Chargeable{
		Name:                s.Name,
		Price:               s.Price,
		DownPaymentValue:    s.DownPaymentValue,
		RequiresDownPayment: s.RequiresDownPayment,
		IsVariablePrice:     s.IsVariablePrice,
	}
}
