// services/reminder_service.go
package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"studiojb-backend/metrics"
	"studiojb-backend/models"
	"studiojb-backend/repository"
	"studiojb-backend/utils"

	"github.com/robfig/cron/v3"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// Default messages, used until the salon edits the templates.
var defaultTemplates = map[string]string{
	models.NotificationConfirmation: "Olá [ClientName]! Seu horário de [ServiceName] no Studio JB está confirmado para [Date] às [Time].",
	models.NotificationReminder:     "Olá [ClientName]! Lembrete: amanhã, [Date] às [Time], você tem [ServiceName] no Studio JB. Até lá!",
}

// MessageSender delivers a text message and returns the provider id.
type MessageSender interface {
	Send(to, from, body string) (string, error)
}

type twilioSender struct {
	client *twilio.RestClient
}

// NewTwilioSender returns nil when credentials are missing.
func NewTwilioSender(accountSid, authToken string) MessageSender {
	if accountSid == "" || authToken == "" {
		return nil
	}
	return &twilioSender{client: twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSid,
		Password: authToken,
	})}
}

func (t *twilioSender) Send(to, from, body string) (string, error) {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(from)
	params.SetBody(body)

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		return "", err
	}
	if resp.Sid == nil {
		return "", nil
	}
	return *resp.Sid, nil
}

type NotificationConfig struct {
	FromNumber     string
	WhatsAppNumber string
	ReminderSpec   string
	Location       *time.Location
}

// NotificationService sends confirmations and next-day reminders.
type NotificationService struct {
	repos   *repository.Repositories
	sender  MessageSender
	cfg     NotificationConfig
	metrics *metrics.BookingMetrics
	logger  *slog.Logger
	cron    *cron.Cron
}

func NewNotificationService(repos *repository.Repositories, sender MessageSender, cfg NotificationConfig, m *metrics.BookingMetrics, logger *slog.Logger) *NotificationService {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.ReminderSpec == "" {
		cfg.ReminderSpec = "0 18 * * *"
	}
	return &NotificationService{repos: repos, sender: sender, cfg: cfg, metrics: m, logger: logger}
}

func (s *NotificationService) StartScheduler() error {
	s.cron = cron.New(cron.WithLocation(s.cfg.Location))
	if _, err := s.cron.AddFunc(s.cfg.ReminderSpec, s.SendDailyReminders); err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("reminder scheduler started", "spec", s.cfg.ReminderSpec)
	return nil
}

func (s *NotificationService) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}

// SendConfirmation never fails the caller; errors end up in the log table.
func (s *NotificationService) SendConfirmation(ctx context.Context, appointmentID uint) {
	appointment, err := s.repos.Appointments.FindByID(ctx, appointmentID)
	if err != nil {
		s.logger.Error("confirmation: load appointment", "appointment_id", appointmentID, "err", err)
		return
	}
	s.notify(ctx, appointment, models.NotificationConfirmation)
}

// SendDailyReminders messages every client with a confirmed appointment
// tomorrow.
func (s *NotificationService) SendDailyReminders() {
	ctx := context.Background()
	s.logger.Info("starting daily reminder processing")

	tomorrow := utils.BeginningOfDay(time.Now().In(s.cfg.Location)).AddDate(0, 0, 1)
	day := time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), 0, 0, 0, 0, time.UTC)

	appointments, err := s.repos.Appointments.List(ctx, repository.AppointmentFilter{
		Status: models.StatusConfirmed,
		From:   &day,
		To:     &day,
	})
	if err != nil {
		s.logger.Error("failed to fetch tomorrow's appointments", "err", err)
		return
	}

	for i := range appointments {
		s.notify(ctx, &appointments[i], models.NotificationReminder)
	}
	s.logger.Info("daily reminder processing completed", "count", len(appointments))
}

func (s *NotificationService) notify(ctx context.Context, appointment *models.Appointment, kind string) {
	if appointment.Client == nil {
		s.logger.Warn("notification skipped: appointment without client", "appointment_id", appointment.ID)
		return
	}

	message := s.render(ctx, appointment, kind)

	channel := "sms"
	to := utils.PhoneToE164(appointment.Client.Phone)
	from := s.cfg.FromNumber
	if s.cfg.WhatsAppNumber != "" {
		channel = "whatsapp"
		to = "whatsapp:" + to
		from = "whatsapp:" + s.cfg.WhatsAppNumber
	}

	status, errorMsg := "sent", ""
	if s.sender == nil {
		status, errorMsg = "failed", "messaging not configured"
	} else if sid, err := s.sender.Send(to, from, message); err != nil {
		s.logger.Error("failed to send message", "appointment_id", appointment.ID, "channel", channel, "err", err)
		status, errorMsg = "failed", err.Error()
	} else {
		s.logger.Info("message sent", "appointment_id", appointment.ID, "channel", channel, "sid", sid)
	}
	s.metrics.ObserveNotification(kind, status)

	entry := &models.NotificationLog{
		AppointmentID: appointment.ID,
		ClientID:      appointment.ClientID,
		Type:          kind,
		Channel:       channel,
		Message:       message,
		Status:        status,
		ErrorMessage:  errorMsg,
		SentAt:        time.Now(),
	}
	if err := s.repos.Notifications.CreateLog(ctx, entry); err != nil {
		s.logger.Error("failed to log notification", "appointment_id", appointment.ID, "err", err)
	}
}

func (s *NotificationService) render(ctx context.Context, appointment *models.Appointment, kind string) string {
	text := defaultTemplates[kind]
	tmpl, err := s.repos.Notifications.FindTemplate(ctx, kind)
	switch {
	case err == nil:
		text = tmpl.Message
	case !errors.Is(err, repository.ErrNotFound):
		s.logger.Warn("failed to load notification template", "type", kind, "err", err)
	}

	serviceName := ""
	if appointment.Service != nil {
		serviceName = appointment.Service.Name
	}
	return strings.NewReplacer(
		"[ClientName]", appointment.Client.Name,
		"[ServiceName]", serviceName,
		"[Date]", utils.FormatDateBR(appointment.AppointmentDate),
		"[Time]", appointment.AppointmentTime,
	).Replace(text)
}
